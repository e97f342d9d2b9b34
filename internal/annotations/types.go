package annotations

import "fmt"

// AnnotationType represents the type of annotation
type AnnotationType int

const (
	ControllerAnnotation AnnotationType = iota
	HandlerAnnotation
	CloseAnnotation
	ConstructorAnnotation
	ConfigAnnotation
)

// Prefix is the leading text every wsgen marker comment starts with
const Prefix = "//wsgen::"

// String returns the string representation of the annotation type
func (a AnnotationType) String() string {
	switch a {
	case ControllerAnnotation:
		return "controller"
	case HandlerAnnotation:
		return "handler"
	case CloseAnnotation:
		return "close"
	case ConstructorAnnotation:
		return "constructor"
	case ConfigAnnotation:
		return "config"
	default:
		return "unknown"
	}
}

// ParseAnnotationType converts string to AnnotationType
func ParseAnnotationType(s string) (AnnotationType, error) {
	switch s {
	case "controller":
		return ControllerAnnotation, nil
	case "handler":
		return HandlerAnnotation, nil
	case "close":
		return CloseAnnotation, nil
	case "constructor":
		return ConstructorAnnotation, nil
	case "config":
		return ConfigAnnotation, nil
	default:
		return 0, fmt.Errorf("unknown annotation type: %s", s)
	}
}

// SourceLocation represents the location of an annotation in source code
type SourceLocation struct {
	File   string // File path
	Line   int    // Line number (1-based)
	Column int    // Column number (1-based)
}

func (l SourceLocation) String() string {
	if l.File == "" {
		return "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// ParsedAnnotation represents a fully parsed annotation with type-safe parameters
type ParsedAnnotation struct {
	Type       AnnotationType         // Annotation type enum
	Target     string                 // Declaration the marker is attached to
	Parameters map[string]interface{} // Typed parameters, defaults applied
	Location   SourceLocation         // Source location
	Raw        string                 // Original annotation text
}

// GetString returns a string parameter value with optional default
func (p *ParsedAnnotation) GetString(paramName string, defaultValue ...string) string {
	if value, exists := p.Parameters[paramName]; exists {
		if strValue, ok := value.(string); ok {
			return strValue
		}
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

// HasParameter checks if a parameter exists
func (p *ParsedAnnotation) HasParameter(paramName string) bool {
	_, exists := p.Parameters[paramName]
	return exists
}

// ParameterType represents the type of a parameter
type ParameterType int

const (
	StringType ParameterType = iota
	BoolType
)

// String returns the string representation of the parameter type
func (p ParameterType) String() string {
	switch p {
	case StringType:
		return "string"
	case BoolType:
		return "bool"
	default:
		return "unknown"
	}
}

// ParameterSpec defines the specification for an annotation parameter
type ParameterSpec struct {
	Type         ParameterType           // Parameter type
	Required     bool                    // Whether parameter is required
	DefaultValue interface{}             // Default value if not provided
	Description  string                  // Parameter description
	Validator    func(interface{}) error // Custom validator function
}

// AnnotationSchema defines the schema for an annotation type
type AnnotationSchema struct {
	Type        AnnotationType           // Annotation type enum
	Description string                   // Human-readable description
	Positional  string                   // Parameter filled by a bare leading argument, if any
	Parameters  map[string]ParameterSpec // Parameter specifications
	Examples    []string                 // Usage examples
}
