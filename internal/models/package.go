package models

// PackageRef identifies a Go package by import path, name and directory
type PackageRef struct {
	Path string // import path
	Name string // package name
	Dir  string // directory, relative to the output root
}

// IsZero reports whether the reference is unset
func (p PackageRef) IsZero() bool {
	return p.Path == "" && p.Name == ""
}

// ExtractionResult is the output of one extraction over a set of packages
type ExtractionResult struct {
	Controllers []ControllerDescriptor // valid controllers in discovery order
	Anchor      *Anchor                // first configuration anchor, if any
	Skipped     []SkippedController    // controllers rejected by validation
	Warnings    []Warning              // non-fatal findings
	Errors      []error                // marker errors not attributable to a controller
}

// SkippedController records a controller left out of generation
type SkippedController struct {
	Name    string
	Package PackageRef
	Err     error
}

// Warning is a non-fatal diagnostic with an optional location
type Warning struct {
	File    string
	Line    int
	Message string
}

// RegistryDescriptor describes the generated registry
type RegistryDescriptor struct {
	Package  PackageRef        // package the registry is emitted into
	TypeName string            // registry type name
	Bindings []RegistryBinding // one per dispatcher, in discovery order
}

// RegistryBinding binds one dispatcher to its base path
type RegistryBinding struct {
	BasePath       string
	Dispatcher     PackageRef // package of the dispatcher type
	DispatcherType string     // dispatcher type name
	FieldName      string     // registry field and constructor parameter name
}

// DefaultRuntimePackage is the import path of the runtime generated code depends on
const DefaultRuntimePackage = "github.com/toyz/wsgen/pkg/wsgen"

// SessionTypeRef returns the *Session reference of a runtime package
func SessionTypeRef(runtimePkg string) TypeRef {
	return PointerTo(Named(runtimePkg, "wsgen", "Session"))
}

// CloseStatusTypeRef returns the CloseStatus reference of a runtime package
func CloseStatusTypeRef(runtimePkg string) TypeRef {
	return Named(runtimePkg, "wsgen", "CloseStatus")
}
