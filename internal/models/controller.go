package models

import "github.com/toyz/wsgen/internal/annotations"

// ControllerDescriptor represents a discovered controller and its handlers
type ControllerDescriptor struct {
	Name             string                     // controller type name
	Type             TypeRef                    // named reference to the controller type
	Package          PackageRef                 // package declaring the controller
	BasePath         string                     // endpoint path the dispatcher is bound to
	DiscriminatorKey string                     // envelope field selecting the handler
	Unmatched        UnmatchedPolicy            // empty means the generator default
	Constructor      *ConstructorDescriptor     // nil when the controller is built with new(T)
	Handlers         []HandlerDescriptor        // in declaration order
	CloseHook        *CloseHookDescriptor       // nil when no close hook was found
	Location         annotations.SourceLocation // position of the controller marker
}

// ConstructorDescriptor describes the function that builds a controller instance
type ConstructorDescriptor struct {
	FuncName       string      // name of the constructor function
	Params         []ParamDecl // parameters in source order
	ReturnsPointer bool        // returns *T instead of T
	ReturnsError   bool        // second result is error
}

// ParamDecl is a named parameter copied verbatim from a declaration
type ParamDecl struct {
	Name string
	Type TypeRef
}

// HandlerDescriptor represents a method answering one discriminator value
type HandlerDescriptor struct {
	MethodName         string                     // handler method name
	DiscriminatorValue string                     // exact value routed to this handler
	Params             []ParamDescriptor          // parameters in declaration order
	ReturnsError       bool                       // method returns a single error
	Location           annotations.SourceLocation // position of the handler marker
}

// PayloadParams returns the parameters that are decoded from the envelope
func (h HandlerDescriptor) PayloadParams() []ParamDescriptor {
	var payloads []ParamDescriptor
	for _, p := range h.Params {
		if p.Role == RolePayload {
			payloads = append(payloads, p)
		}
	}
	return payloads
}

// ParamDescriptor is a classified handler parameter
type ParamDescriptor struct {
	Name string    // parameter name, may be empty or "_"
	Type TypeRef   // declared type
	Role ParamRole // session handle, payload or unsupported
}

// CloseHookDescriptor describes the method run when a session terminates
type CloseHookDescriptor struct {
	MethodName           string
	AcceptsSessionHandle bool
	AcceptsStatus        bool
	Params               []ParamDescriptor // session and status params in declaration order
}

// Anchor is a declaration carrying the configuration marker
type Anchor struct {
	Package  PackageRef
	Target   string
	Location annotations.SourceLocation
}
