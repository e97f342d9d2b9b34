package annotations

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// markerAST is the grammar root of a wsgen marker comment
type markerAST struct {
	Kind string    `parser:"Prefix @Word"`
	Args []*argAST `parser:"@@*"`
}

type argAST struct {
	Param *paramAST `parser:"  @@"`
	Value *valueAST `parser:"| @@"`
}

type paramAST struct {
	Flag  string    `parser:"@Flag"`
	Value *valueAST `parser:"( Equals @@ )?"`
}

type valueAST struct {
	Text string `parser:"@(String | Word)"`
}

func (v *valueAST) text() string {
	return v.Text
}

var markerLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Prefix", Pattern: `//\s*wsgen::`},
	{Name: "Flag", Pattern: `-[A-Za-z][A-Za-z0-9_]*`},
	{Name: "String", Pattern: `"(\\.|[^"\\])*"`},
	{Name: "Equals", Pattern: `=`},
	{Name: "Word", Pattern: `[^\s"=]+`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// ParticipleParser parses wsgen marker comments using alecthomas/participle
type ParticipleParser struct {
	parser   *participle.Parser[markerAST]
	registry AnnotationRegistry
}

// NewParticipleParser creates a new parser validating against the given registry
func NewParticipleParser(registry AnnotationRegistry) *ParticipleParser {
	parser := participle.MustBuild[markerAST](
		participle.Lexer(markerLexer),
		participle.Elide("Whitespace"),
		participle.Unquote("String"),
	)

	return &ParticipleParser{
		parser:   parser,
		registry: registry,
	}
}

// IsAnnotation reports whether a comment line is a wsgen marker
func IsAnnotation(comment string) bool {
	text := strings.TrimSpace(comment)
	if !strings.HasPrefix(text, "//") {
		return false
	}
	return strings.HasPrefix(strings.TrimSpace(text[2:]), "wsgen::")
}

// ParseAnnotation parses a single marker comment and validates it against its schema
func (p *ParticipleParser) ParseAnnotation(comment string, location SourceLocation) (*ParsedAnnotation, error) {
	text := strings.TrimSpace(comment)

	ast, err := p.parser.ParseString(location.File, text)
	if err != nil {
		return nil, p.syntaxError(err, location)
	}

	annotationType, err := ParseAnnotationType(ast.Kind)
	if err != nil {
		return nil, &SyntaxError{
			Msg:  err.Error(),
			Loc:  location,
			Hint: "valid annotations are controller, handler, close, constructor and config",
		}
	}

	schema, err := p.registry.GetSchema(annotationType)
	if err != nil {
		return nil, err
	}

	parsed := &ParsedAnnotation{
		Type:       annotationType,
		Parameters: make(map[string]interface{}),
		Location:   location,
		Raw:        text,
	}

	positionals := 0
	for _, arg := range ast.Args {
		if arg.Value != nil {
			positionals++
			if schema.Positional == "" {
				return nil, &ValidationError{
					Parameter: "<positional>",
					Expected:  "no positional arguments",
					Actual:    strconv.Quote(arg.Value.text()),
					Loc:       location,
					Hint:      fmt.Sprintf("//wsgen::%s takes no positional arguments", annotationType),
				}
			}
			if positionals > 1 {
				return nil, &ValidationError{
					Parameter: schema.Positional,
					Expected:  "a single positional argument",
					Actual:    strconv.Quote(arg.Value.text()),
					Loc:       location,
					Hint:      "quote values that contain spaces",
				}
			}
			if err := p.setParameter(parsed, schema, schema.Positional, arg.Value.text()); err != nil {
				return nil, err
			}
			continue
		}

		name := strings.TrimPrefix(arg.Param.Flag, "-")
		spec, ok := schema.Parameters[name]
		if !ok {
			return nil, &ValidationError{
				Parameter: name,
				Expected:  "a known parameter",
				Actual:    arg.Param.Flag,
				Loc:       location,
				Hint:      "valid parameters: " + parameterList(schema),
			}
		}

		if arg.Param.Value == nil {
			if spec.Type != BoolType {
				return nil, &ValidationError{
					Parameter: name,
					Expected:  "-" + name + "=<value>",
					Actual:    arg.Param.Flag,
					Loc:       location,
				}
			}
			if err := p.setParameter(parsed, schema, name, "true"); err != nil {
				return nil, err
			}
			continue
		}

		if err := p.setParameter(parsed, schema, name, arg.Param.Value.text()); err != nil {
			return nil, err
		}
	}

	if err := p.applySchema(parsed, schema); err != nil {
		return nil, err
	}

	return parsed, nil
}

func (p *ParticipleParser) setParameter(parsed *ParsedAnnotation, schema AnnotationSchema, name, raw string) error {
	if _, exists := parsed.Parameters[name]; exists {
		return &ValidationError{
			Parameter: name,
			Expected:  "a single value",
			Actual:    "duplicate " + strconv.Quote(raw),
			Loc:       parsed.Location,
		}
	}

	spec := schema.Parameters[name]
	switch spec.Type {
	case BoolType:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return &ValidationError{
				Parameter: name,
				Expected:  "a boolean",
				Actual:    strconv.Quote(raw),
				Loc:       parsed.Location,
			}
		}
		parsed.Parameters[name] = b
	default:
		parsed.Parameters[name] = raw
	}
	return nil
}

// applySchema fills defaults, checks required parameters and runs validators
func (p *ParticipleParser) applySchema(parsed *ParsedAnnotation, schema AnnotationSchema) error {
	names := make([]string, 0, len(schema.Parameters))
	for name := range schema.Parameters {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		spec := schema.Parameters[name]
		value, present := parsed.Parameters[name]
		if !present {
			if spec.Required {
				return &ValidationError{
					Parameter: name,
					Expected:  "a value",
					Actual:    "nothing",
					Loc:       parsed.Location,
					Hint:      requiredHint(schema, name),
				}
			}
			if spec.DefaultValue != nil {
				parsed.Parameters[name] = spec.DefaultValue
			}
			continue
		}
		if spec.Validator != nil {
			if err := spec.Validator(value); err != nil {
				return &ValidationError{
					Parameter: name,
					Expected:  spec.Description,
					Actual:    fmt.Sprintf("%v", value),
					Loc:       parsed.Location,
					Hint:      err.Error(),
				}
			}
		}
	}
	return nil
}

func (p *ParticipleParser) syntaxError(err error, location SourceLocation) error {
	loc := location
	msg := err.Error()
	var perr participle.Error
	if errors.As(err, &perr) {
		msg = perr.Message()
		if col := perr.Position().Column; col > 0 {
			loc.Column = location.Column + col - 1
		}
	}
	return &SyntaxError{
		Msg:  msg,
		Loc:  loc,
		Hint: "expected //wsgen::<kind> [value] [-Name=value ...]",
	}
}

func parameterList(schema AnnotationSchema) string {
	if len(schema.Parameters) == 0 {
		return "none"
	}
	names := make([]string, 0, len(schema.Parameters))
	for name := range schema.Parameters {
		names = append(names, "-"+name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

func requiredHint(schema AnnotationSchema, name string) string {
	if len(schema.Examples) > 0 {
		return fmt.Sprintf("add -%s, e.g. %s", name, schema.Examples[0])
	}
	return fmt.Sprintf("add -%s", name)
}
