package models

import (
	"fmt"
	"strings"
)

// TypeKind identifies the shape of a type expression
type TypeKind int

const (
	NamedKind TypeKind = iota
	PointerKind
	SliceKind
	ArrayKind
	MapKind
	ChanKind
	FuncKind
	InterfaceKind
	StructKind
	GenericKind
	EllipsisKind
	InvalidKind
)

// String returns the string representation of the type kind
func (k TypeKind) String() string {
	switch k {
	case NamedKind:
		return "named"
	case PointerKind:
		return "pointer"
	case SliceKind:
		return "slice"
	case ArrayKind:
		return "array"
	case MapKind:
		return "map"
	case ChanKind:
		return "chan"
	case FuncKind:
		return "func"
	case InterfaceKind:
		return "interface"
	case StructKind:
		return "struct"
	case GenericKind:
		return "generic"
	case EllipsisKind:
		return "ellipsis"
	case InvalidKind:
		return "invalid"
	default:
		return "unknown"
	}
}

// ChanDir mirrors ast.ChanDir for channel type references
type ChanDir int

const (
	ChanBoth ChanDir = iota
	ChanSend
	ChanRecv
)

// TypeRef is a syntactically resolved type expression
type TypeRef struct {
	Kind    TypeKind
	PkgPath string    // import path of a named type, empty for predeclared types
	PkgName string    // package name used to qualify the type in source
	Name    string    // type name for named types
	Elem    *TypeRef  // element of pointer, slice, array, map value, chan, ellipsis; base of a generic instance
	Key     *TypeRef  // map key
	Len     string    // array length expression
	Dir     ChanDir   // channel direction
	Params  []TypeRef // func parameters or generic type arguments
	Results []TypeRef // func results
	Empty   bool      // interface{} or struct{} without members
	Expr    string    // source text as written
}

// Named builds a reference to a named type
func Named(pkgPath, pkgName, name string) TypeRef {
	return TypeRef{Kind: NamedKind, PkgPath: pkgPath, PkgName: pkgName, Name: name}
}

// PointerTo builds a pointer reference to elem
func PointerTo(elem TypeRef) TypeRef {
	return TypeRef{Kind: PointerKind, Elem: &elem}
}

// IsPredeclared reports whether the type is a named, universe-scope type
func (t TypeRef) IsPredeclared() bool {
	return t.Kind == NamedKind && t.PkgPath == ""
}

// Base strips pointers from the reference
func (t TypeRef) Base() TypeRef {
	for t.Kind == PointerKind && t.Elem != nil {
		t = *t.Elem
	}
	return t
}

// Equal reports whether two references denote the same type
func (t TypeRef) Equal(o TypeRef) bool {
	if t.Kind != o.Kind || t.PkgPath != o.PkgPath || t.Name != o.Name ||
		t.Len != o.Len || t.Dir != o.Dir || t.Empty != o.Empty {
		return false
	}
	if !refEqual(t.Elem, o.Elem) || !refEqual(t.Key, o.Key) {
		return false
	}
	return listEqual(t.Params, o.Params) && listEqual(t.Results, o.Results)
}

func refEqual(a, b *TypeRef) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func listEqual(a, b []TypeRef) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// String renders the type as Go source, qualified by package name
func (t TypeRef) String() string {
	if t.Expr != "" {
		return t.Expr
	}
	switch t.Kind {
	case NamedKind:
		if t.PkgName != "" {
			return t.PkgName + "." + t.Name
		}
		return t.Name
	case PointerKind:
		return "*" + t.Elem.String()
	case SliceKind:
		return "[]" + t.Elem.String()
	case ArrayKind:
		return "[" + t.Len + "]" + t.Elem.String()
	case MapKind:
		return "map[" + t.Key.String() + "]" + t.Elem.String()
	case EllipsisKind:
		return "..." + t.Elem.String()
	case ChanKind:
		switch t.Dir {
		case ChanSend:
			return "chan<- " + t.Elem.String()
		case ChanRecv:
			return "<-chan " + t.Elem.String()
		}
		return "chan " + t.Elem.String()
	case FuncKind:
		return "func(" + joinRefs(t.Params) + ")" + resultString(t.Results)
	case GenericKind:
		return t.Elem.String() + "[" + joinRefs(t.Params) + "]"
	case InterfaceKind:
		return "interface{}"
	case StructKind:
		return "struct{}"
	default:
		return t.Name
	}
}

func joinRefs(refs []TypeRef) string {
	parts := make([]string, len(refs))
	for i, r := range refs {
		parts[i] = r.String()
	}
	return strings.Join(parts, ", ")
}

func resultString(results []TypeRef) string {
	switch len(results) {
	case 0:
		return ""
	case 1:
		return " " + results[0].String()
	default:
		return " (" + joinRefs(results) + ")"
	}
}

var undecodablePredeclared = map[string]bool{
	"error":      true,
	"complex64":  true,
	"complex128": true,
	"uintptr":    true,
}

// Decodable reports whether a value of this type can be decoded from a
// serialized document. The returned reason is empty when it can.
func (t TypeRef) Decodable() (bool, string) {
	switch t.Kind {
	case NamedKind:
		if t.PkgPath == "unsafe" && t.Name == "Pointer" {
			return false, "unsafe.Pointer cannot be decoded"
		}
		if t.IsPredeclared() && undecodablePredeclared[t.Name] {
			return false, fmt.Sprintf("%s cannot be decoded", t.Name)
		}
		return true, ""
	case PointerKind, SliceKind, ArrayKind:
		return t.Elem.Decodable()
	case MapKind:
		key := t.Key.Base()
		if key.Kind != NamedKind {
			return false, fmt.Sprintf("map key %s cannot be decoded", t.Key)
		}
		return t.Elem.Decodable()
	case InterfaceKind:
		if t.Empty {
			return true, ""
		}
		return false, "interfaces with methods cannot be decoded"
	case ChanKind:
		return false, "channels cannot be decoded"
	case FuncKind:
		return false, "functions cannot be decoded"
	case StructKind:
		return false, "anonymous struct payloads are not supported, declare a named type"
	case GenericKind:
		return false, "generic type instantiations are not supported as payloads"
	case EllipsisKind:
		return false, "variadic payloads are not supported"
	case InvalidKind:
		return false, "unsupported type expression"
	default:
		return false, "unsupported type"
	}
}

// ParamRole classifies a handler parameter
type ParamRole int

const (
	RolePayload ParamRole = iota
	RoleSessionHandle
	RoleUnsupported
)

// String returns the string representation of the role
func (r ParamRole) String() string {
	switch r {
	case RolePayload:
		return "payload"
	case RoleSessionHandle:
		return "session"
	case RoleUnsupported:
		return "unsupported"
	default:
		return "unknown"
	}
}

// UnmatchedPolicy decides what a dispatcher does with an unknown discriminator value
type UnmatchedPolicy string

const (
	// UnmatchedIgnore drops the message silently
	UnmatchedIgnore UnmatchedPolicy = "ignore"
	// UnmatchedError returns an error to the session layer
	UnmatchedError UnmatchedPolicy = "error"
)

// ParseUnmatchedPolicy converts a string to an UnmatchedPolicy
func ParseUnmatchedPolicy(s string) (UnmatchedPolicy, error) {
	switch UnmatchedPolicy(s) {
	case UnmatchedIgnore, UnmatchedError:
		return UnmatchedPolicy(s), nil
	case "":
		return UnmatchedIgnore, nil
	default:
		return "", fmt.Errorf("unknown unmatched policy %q: must be 'ignore' or 'error'", s)
	}
}
