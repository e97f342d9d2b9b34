package wsgen

import (
	"bytes"
	"errors"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

// Document is a parsed envelope. Its concrete type belongs to the codec that produced it.
type Document any

// Codec is the serialization capability dispatchers decode envelopes with
type Codec interface {
	// Parse reads the envelope of a message
	Parse(message []byte) (Document, error)
	// Field returns the textual value of a top level field
	Field(doc Document, key string) (string, error)
	// Decode decodes the whole message into v
	Decode(message []byte, v any) error
}

// JSONCodec decodes JSON envelopes with goccy/go-json
type JSONCodec struct {
	validate *validator.Validate
}

// JSONOption configures a JSONCodec
type JSONOption func(*JSONCodec)

// WithValidation validates decoded structs with v; a nil v uses a default validator
func WithValidation(v *validator.Validate) JSONOption {
	return func(c *JSONCodec) {
		if v == nil {
			v = validator.New(validator.WithRequiredStructEnabled())
		}
		c.validate = v
	}
}

// NewJSONCodec creates a JSON codec
func NewJSONCodec(opts ...JSONOption) *JSONCodec {
	c := &JSONCodec{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type jsonDocument map[string]json.RawMessage

// Parse requires the message to be a JSON object
func (c *JSONCodec) Parse(message []byte) (Document, error) {
	trimmed := bytes.TrimSpace(message)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, &DecodeError{Op: "parse", Err: errors.New("envelope is not a JSON object")}
	}
	var doc jsonDocument
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, &DecodeError{Op: "parse", Err: err}
	}
	return doc, nil
}

// Field returns strings unquoted, numbers and booleans as written, null as
// "null" and objects or arrays as ""
func (c *JSONCodec) Field(doc Document, key string) (string, error) {
	fields, ok := doc.(jsonDocument)
	if !ok {
		return "", &DecodeError{Op: "field", Field: key, Err: errors.New("document was not parsed by JSONCodec")}
	}
	raw, ok := fields[key]
	if !ok {
		return "", &DecodeError{Op: "field", Field: key, Err: ErrMissingField}
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "", nil
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", &DecodeError{Op: "field", Field: key, Err: err}
		}
		return s, nil
	case '{', '[':
		return "", nil
	default:
		return string(raw), nil
	}
}

// Decode unmarshals the message into v and validates structs when validation is on
func (c *JSONCodec) Decode(message []byte, v any) error {
	if err := json.Unmarshal(message, v); err != nil {
		return &DecodeError{Op: "decode", Err: err}
	}
	if c.validate == nil {
		return nil
	}
	target, ok := structPointer(v)
	if !ok {
		return nil
	}
	if err := c.validate.Struct(target); err != nil {
		return &DecodeError{Op: "validate", Err: err}
	}
	return nil
}

// structPointer follows pointers in v down to the last pointer to a struct
func structPointer(v any) (any, bool) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer && !rv.IsNil() {
		if rv.Elem().Kind() == reflect.Struct {
			return rv.Interface(), true
		}
		rv = rv.Elem()
	}
	return nil, false
}

var _ Codec = (*JSONCodec)(nil)
