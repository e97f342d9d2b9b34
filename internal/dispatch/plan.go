package dispatch

import "github.com/toyz/wsgen/internal/models"

// Plan is the ordered dispatch table and naming decisions for one controller
type Plan struct {
	Controller      models.ControllerDescriptor
	DispatcherType  string // exported dispatcher type name
	ConstructorName string // exported dispatcher constructor name
	InstanceField   string // unexported field holding the controller
	CodecField      string // unexported field holding the codec
	FilePath        string // output path relative to the output root
	CtorParams      []CtorParam
	Unmatched       models.UnmatchedPolicy
	Branches        []Branch
	Close           *CloseCall
}

// CtorParam is a controller constructor parameter passed through the dispatcher constructor
type CtorParam struct {
	Name     string
	Type     models.TypeRef
	Variadic bool
}

// ArgKind says where a handler argument comes from
type ArgKind int

const (
	ArgSession ArgKind = iota
	ArgPayload
	ArgStatus
)

// Arg is one argument of a handler or close hook call
type Arg struct {
	Kind ArgKind
	Var  string // decoded variable name for payload arguments
}

// DecodeStep decodes the whole envelope into one variable
type DecodeStep struct {
	Var     string
	Type    models.TypeRef // declared parameter type
	Pointer bool           // allocate with new(Elem) and decode into the pointer
}

// Branch is one case of the dispatch switch
type Branch struct {
	Value        string
	MethodName   string
	Decodes      []DecodeStep
	Args         []Arg
	ReturnsError bool
}

// CloseCall forwards the connection-closed entry point to the close hook
type CloseCall struct {
	MethodName string
	Args       []Arg
}
