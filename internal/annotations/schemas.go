package annotations

// ControllerAnnotationSchema defines the schema for //wsgen::controller annotations
var ControllerAnnotationSchema = AnnotationSchema{
	Type:        ControllerAnnotation,
	Description: "Marks a type as a websocket controller routed by a discriminator field",
	Positional:  "Path",
	Parameters: map[string]ParameterSpec{
		"Path": {
			Type:        StringType,
			Required:    true,
			Description: "Endpoint base path the dispatcher is registered under",
			Validator:   ValidatePath,
		},
		"Key": {
			Type:        StringType,
			Required:    true,
			Description: "Envelope field whose value selects the handler",
			Validator:   ValidateKey,
		},
		"Unmatched": {
			Type:        StringType,
			Description: "Behavior for unknown discriminator values: 'ignore' or 'error'. Defaults to the generator setting",
			Validator:   ValidateUnmatched,
		},
	},
	Examples: []string{
		"//wsgen::controller -Path=/user -Key=id",
		"//wsgen::controller /chat -Key=type",
		"//wsgen::controller /chat -Key=type -Unmatched=error",
	},
}

// HandlerAnnotationSchema defines the schema for //wsgen::handler annotations
var HandlerAnnotationSchema = AnnotationSchema{
	Type:        HandlerAnnotation,
	Description: "Marks a controller method as the handler for one discriminator value",
	Positional:  "Value",
	Parameters: map[string]ParameterSpec{
		"Value": {
			Type:        StringType,
			Required:    true,
			Description: "Discriminator value answered by the handler (exact, case-sensitive)",
			Validator:   ValidateValue,
		},
	},
	Examples: []string{
		"//wsgen::handler login",
		"//wsgen::handler -Value=\"user joined\"",
	},
}

// CloseAnnotationSchema defines the schema for //wsgen::close annotations
var CloseAnnotationSchema = AnnotationSchema{
	Type:        CloseAnnotation,
	Description: "Marks a controller method that runs when a session terminates",
	Parameters:  map[string]ParameterSpec{},
	Examples:    []string{"//wsgen::close"},
}

// ConstructorAnnotationSchema defines the schema for //wsgen::constructor annotations
var ConstructorAnnotationSchema = AnnotationSchema{
	Type:        ConstructorAnnotation,
	Description: "Marks the function used to build a controller instance",
	Parameters:  map[string]ParameterSpec{},
	Examples:    []string{"//wsgen::constructor"},
}

// ConfigAnnotationSchema defines the schema for //wsgen::config annotations
var ConfigAnnotationSchema = AnnotationSchema{
	Type:        ConfigAnnotation,
	Description: "Marks the package that receives the generated dispatcher registry",
	Parameters:  map[string]ParameterSpec{},
	Examples:    []string{"//wsgen::config"},
}

// GetBuiltinSchemas returns all builtin schemas in registration order
func GetBuiltinSchemas() []AnnotationSchema {
	return []AnnotationSchema{
		ControllerAnnotationSchema,
		HandlerAnnotationSchema,
		CloseAnnotationSchema,
		ConstructorAnnotationSchema,
		ConfigAnnotationSchema,
	}
}

// RegisterBuiltinSchemas registers all builtin wsgen schemas
func RegisterBuiltinSchemas(registry AnnotationRegistry) error {
	for _, schema := range GetBuiltinSchemas() {
		if err := registry.Register(schema.Type, schema); err != nil {
			return err
		}
	}
	return nil
}
