package annotations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_BuiltinSchemas(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, RegisterBuiltinSchemas(reg))

	assert.Equal(t, []AnnotationType{
		ControllerAnnotation,
		HandlerAnnotation,
		CloseAnnotation,
		ConstructorAnnotation,
		ConfigAnnotation,
	}, reg.ListTypes())

	schema, err := reg.GetSchema(ControllerAnnotation)
	require.NoError(t, err)
	assert.Equal(t, "Path", schema.Positional)
	assert.True(t, schema.Parameters["Key"].Required)
}

func TestRegistry_RejectsDuplicatesAndMismatches(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(CloseAnnotation, CloseAnnotationSchema))

	err := reg.Register(CloseAnnotation, CloseAnnotationSchema)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")

	err = reg.Register(ConfigAnnotation, CloseAnnotationSchema)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not match")
}

func TestRegistry_RejectsInvalidSchemas(t *testing.T) {
	reg := NewRegistry()

	err := reg.Register(HandlerAnnotation, AnnotationSchema{
		Type:       HandlerAnnotation,
		Positional: "Value",
		Parameters: map[string]ParameterSpec{},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not declared")

	err = reg.Register(HandlerAnnotation, AnnotationSchema{
		Type: HandlerAnnotation,
		Parameters: map[string]ParameterSpec{
			"Value": {Type: StringType, Required: true, DefaultValue: "x"},
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot have a default")
}

func TestRegistry_UnknownSchema(t *testing.T) {
	reg := NewRegistry()
	assert.False(t, reg.IsRegistered(ControllerAnnotation))

	_, err := reg.GetSchema(ControllerAnnotation)
	require.Error(t, err)
	var schemaErr *SchemaError
	assert.ErrorAs(t, err, &schemaErr)
}
