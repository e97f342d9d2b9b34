package annotations

import (
	"fmt"
	"sort"
	"sync"
)

// AnnotationRegistry defines the interface for managing annotation schemas
type AnnotationRegistry interface {
	// Register a new annotation type with its schema
	Register(annotationType AnnotationType, schema AnnotationSchema) error

	// GetSchema retrieves the schema for an annotation type
	GetSchema(annotationType AnnotationType) (AnnotationSchema, error)

	// ListTypes returns all registered annotation types
	ListTypes() []AnnotationType

	// IsRegistered checks if an annotation type is registered
	IsRegistered(annotationType AnnotationType) bool
}

// registry is the concrete implementation of AnnotationRegistry
type registry struct {
	mu      sync.RWMutex                        // Protects concurrent access
	schemas map[AnnotationType]AnnotationSchema // Schema storage
}

// NewRegistry creates a new annotation registry
func NewRegistry() AnnotationRegistry {
	return &registry{
		schemas: make(map[AnnotationType]AnnotationSchema),
	}
}

var (
	defaultRegistry     AnnotationRegistry
	defaultRegistryOnce sync.Once
)

// DefaultRegistry returns the shared registry with the builtin wsgen schemas
func DefaultRegistry() AnnotationRegistry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry()
		if err := RegisterBuiltinSchemas(defaultRegistry); err != nil {
			panic(fmt.Sprintf("failed to register builtin annotation schemas: %v", err))
		}
	})
	return defaultRegistry
}

// Register adds a new annotation type with its schema to the registry
func (r *registry) Register(annotationType AnnotationType, schema AnnotationSchema) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if schema.Type != annotationType {
		return &RegistrationError{
			Msg:  fmt.Sprintf("schema type %s does not match annotation type %s", schema.Type, annotationType),
			Hint: "register the schema under its own type",
		}
	}

	if _, exists := r.schemas[annotationType]; exists {
		return &RegistrationError{
			Msg:  fmt.Sprintf("annotation type %s is already registered", annotationType),
			Hint: "each annotation type can only be registered once",
		}
	}

	if err := validateSchema(schema); err != nil {
		return fmt.Errorf("invalid schema for %s: %w", annotationType, err)
	}

	r.schemas[annotationType] = schema
	return nil
}

// GetSchema retrieves the schema for an annotation type
func (r *registry) GetSchema(annotationType AnnotationType) (AnnotationSchema, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	schema, exists := r.schemas[annotationType]
	if !exists {
		return AnnotationSchema{}, &SchemaError{
			Msg:  fmt.Sprintf("annotation type %s is not registered", annotationType),
			Hint: "register the schema before parsing annotations of this type",
		}
	}
	return schema, nil
}

// ListTypes returns all registered annotation types
func (r *registry) ListTypes() []AnnotationType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]AnnotationType, 0, len(r.schemas))
	for t := range r.schemas {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// IsRegistered checks if an annotation type is registered
func (r *registry) IsRegistered(annotationType AnnotationType) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.schemas[annotationType]
	return exists
}

func validateSchema(schema AnnotationSchema) error {
	for name, spec := range schema.Parameters {
		if name == "" {
			return fmt.Errorf("parameter name cannot be empty")
		}
		if spec.Required && spec.DefaultValue != nil {
			return fmt.Errorf("required parameter '%s' cannot have a default value", name)
		}
		if spec.DefaultValue != nil {
			if err := checkType(spec.Type, spec.DefaultValue); err != nil {
				return fmt.Errorf("default value for parameter '%s': %w", name, err)
			}
		}
	}
	if schema.Positional != "" {
		spec, ok := schema.Parameters[schema.Positional]
		if !ok {
			return fmt.Errorf("positional parameter '%s' is not declared", schema.Positional)
		}
		if spec.Type != StringType {
			return fmt.Errorf("positional parameter '%s' must be a string", schema.Positional)
		}
	}
	return nil
}

func checkType(t ParameterType, v interface{}) error {
	switch t {
	case StringType:
		if _, ok := v.(string); !ok {
			return fmt.Errorf("expected string, got %T", v)
		}
	case BoolType:
		if _, ok := v.(bool); !ok {
			return fmt.Errorf("expected bool, got %T", v)
		}
	}
	return nil
}
