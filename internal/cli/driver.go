package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/toyz/wsgen/internal/dispatch"
	wserrors "github.com/toyz/wsgen/internal/errors"
	"github.com/toyz/wsgen/internal/generator"
	"github.com/toyz/wsgen/internal/models"
	"github.com/toyz/wsgen/internal/parser"
	"github.com/toyz/wsgen/internal/sink"
)

// State is the phase of a generation pass
type State int

const (
	StateIdle State = iota
	StateExtracting
	StateBuilding
	StateEmitting
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateExtracting:
		return "extracting"
	case StateBuilding:
		return "building"
	case StateEmitting:
		return "emitting"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Source supplies the packages of one pass
type Source interface {
	Load(ctx context.Context) ([]parser.SourcePackage, error)
}

// SourceFunc adapts a function to Source
type SourceFunc func(ctx context.Context) ([]parser.SourcePackage, error)

// Load calls f
func (f SourceFunc) Load(ctx context.Context) ([]parser.SourcePackage, error) { return f(ctx) }

// PassResult reports the outcome of one pass
type PassResult struct {
	Files          []models.GeneratedFile
	Controllers    int
	Skipped        []models.SkippedController
	Failed         []error // dispatchers that could not be written
	Errors         []error // marker errors and dispatchers left out of the registry
	Warnings       []models.Warning
	ShortCircuited bool
}

// Problems counts everything that kept part of the input from being generated
func (r *PassResult) Problems() int {
	return len(r.Skipped) + len(r.Failed) + len(r.Errors)
}

// Driver runs generation passes: extract, build, emit. It remembers whether
// a registry was emitted so that a build running several passes emits it once.
type Driver struct {
	extractor    parser.SchemaExtractor
	builder      *dispatch.Builder
	emitter      *generator.Emitter
	out          sink.OutputSink
	registryPkg  *models.PackageRef
	registryType string
	observe      func(State)

	state           State
	registryEmitted bool
}

// DriverOption configures a Driver
type DriverOption func(*Driver)

// WithRegistryPackage places the registry in pkg regardless of anchors
func WithRegistryPackage(pkg models.PackageRef) DriverOption {
	return func(d *Driver) { d.registryPkg = &pkg }
}

// WithRegistryType sets the registry type name
func WithRegistryType(name string) DriverOption {
	return func(d *Driver) { d.registryType = name }
}

// WithStateObserver is called on every state change
func WithStateObserver(fn func(State)) DriverOption {
	return func(d *Driver) { d.observe = fn }
}

// NewDriver creates a driver writing to out
func NewDriver(extractor parser.SchemaExtractor, builder *dispatch.Builder, emitter *generator.Emitter, out sink.OutputSink, opts ...DriverOption) *Driver {
	d := &Driver{
		extractor:    extractor,
		builder:      builder,
		emitter:      emitter,
		out:          out,
		registryType: "DispatcherRegistry",
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// State returns the phase the current or last pass is in
func (d *Driver) State() State { return d.state }

// RegistryEmitted reports whether any pass of this driver wrote the registry
func (d *Driver) RegistryEmitted() bool { return d.registryEmitted }

func (d *Driver) enter(s State) {
	d.state = s
	if d.observe != nil {
		d.observe(s)
	}
}

// Pass runs one generation pass. Once a pass has written the registry, later
// passes go straight to Done without loading src.
func (d *Driver) Pass(ctx context.Context, src Source) (*PassResult, error) {
	d.enter(StateIdle)
	result := &PassResult{}
	defer d.enter(StateDone)

	if d.registryEmitted {
		result.ShortCircuited = true
		return result, nil
	}

	d.enter(StateExtracting)
	pkgs, err := src.Load(ctx)
	if err != nil {
		return result, err
	}
	extracted, err := d.extractor.Extract(pkgs)
	if err != nil {
		return result, err
	}
	result.Controllers = len(extracted.Controllers)
	result.Skipped = append(result.Skipped, extracted.Skipped...)
	result.Warnings = extracted.Warnings
	result.Errors = extracted.Errors

	d.enter(StateBuilding)
	plans := make([]*dispatch.Plan, 0, len(extracted.Controllers))
	for _, ctrl := range extracted.Controllers {
		plan, err := d.builder.Build(ctrl)
		if err != nil {
			result.Skipped = append(result.Skipped, models.SkippedController{Name: ctrl.Name, Package: ctrl.Package, Err: err})
			continue
		}
		plans = append(plans, plan)
	}

	d.enter(StateEmitting)
	batch := d.emitter.NewBatch(d.out)
	written := make([]*dispatch.Plan, 0, len(plans))
	for _, plan := range plans {
		if _, err := batch.WriteDispatcher(ctx, plan); err != nil {
			result.Failed = append(result.Failed, err)
			continue
		}
		written = append(written, plan)
	}

	pkg, ok := d.registryPackage(extracted, written)
	if ok {
		registered := importable(pkg, written, importsOf(pkgs), result)
		reg := d.builder.BuildRegistry(pkg, d.registryType, registered)
		if _, err := batch.WriteRegistry(ctx, reg); err != nil {
			result.Files = batch.Files()
			return result, fmt.Errorf("registry not generated: %w", err)
		}
		d.registryEmitted = true
	}

	result.Files = batch.Files()
	return result, nil
}

// registryPackage picks where the registry goes: the configured package, the
// configuration anchor, then the first written dispatcher's package. Without
// any of them there is nothing to register.
func (d *Driver) registryPackage(extracted *models.ExtractionResult, written []*dispatch.Plan) (models.PackageRef, bool) {
	switch {
	case d.registryPkg != nil:
		return *d.registryPkg, true
	case extracted.Anchor != nil:
		return extracted.Anchor.Package, true
	case len(written) > 0:
		return written[0].Controller.Package, true
	default:
		return models.PackageRef{}, false
	}
}

// importable drops dispatchers the registry package cannot import: a main
// package, which can only be referenced from itself, and a package that
// imports the registry package back.
func importable(pkg models.PackageRef, written []*dispatch.Plan, imports map[string]map[string]bool, result *PassResult) []*dispatch.Plan {
	kept := make([]*dispatch.Plan, 0, len(written))
	for _, plan := range written {
		ctrl := plan.Controller
		if ctrl.Package.Path == pkg.Path {
			kept = append(kept, plan)
			continue
		}

		var msg string
		var hints []string
		switch {
		case ctrl.Package.Name == "main":
			msg = fmt.Sprintf("package main cannot be imported by the registry in %s", pkg.Path)
			hints = []string{
				"move the controller out of package main",
				"or mark a type in package main with //wsgen::config to generate the registry there",
			}
		case imports[ctrl.Package.Path][pkg.Path]:
			msg = fmt.Sprintf("%s imports %s, registering it there would create an import cycle", ctrl.Package.Path, pkg.Path)
			hints = []string{"place the registry in a package that imports every controller package, with //wsgen::config or registry.dir"}
		default:
			kept = append(kept, plan)
			continue
		}

		err := wserrors.NewValidationError(ctrl.Name, ctrl.BasePath, msg,
			wserrors.SourceLocation{File: ctrl.Location.File, Line: ctrl.Location.Line, Column: ctrl.Location.Column})
		for _, hint := range hints {
			err.WithSuggestion(hint)
		}
		result.Errors = append(result.Errors, err)
	}
	return kept
}

// importsOf maps each package path to the import paths of its files
func importsOf(pkgs []parser.SourcePackage) map[string]map[string]bool {
	imports := make(map[string]map[string]bool, len(pkgs))
	for _, pkg := range pkgs {
		set := make(map[string]bool)
		for _, file := range pkg.Files {
			for _, spec := range file.Imports {
				if path, err := strconv.Unquote(spec.Path.Value); err == nil {
					set[path] = true
				}
			}
		}
		imports[pkg.Ref.Path] = set
	}
	return imports
}
