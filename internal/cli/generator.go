package cli

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"time"

	"github.com/toyz/wsgen/internal/dispatch"
	wserrors "github.com/toyz/wsgen/internal/errors"
	"github.com/toyz/wsgen/internal/generator"
	"github.com/toyz/wsgen/internal/models"
	"github.com/toyz/wsgen/internal/parser"
	"github.com/toyz/wsgen/internal/sink"
	"github.com/toyz/wsgen/internal/utils"
)

// Generator runs one configured generation over a module on disk
type Generator struct {
	cfg         Config
	diagnostics *utils.DiagnosticSystem
	out         sink.OutputSink
}

// NewGenerator creates a generator. A nil diagnostics system prints at info level.
func NewGenerator(cfg Config, diagnostics *utils.DiagnosticSystem) *Generator {
	if diagnostics == nil {
		diagnostics = utils.NewDiagnosticSystem(utils.DiagnosticInfo)
	}
	return &Generator{cfg: cfg, diagnostics: diagnostics}
}

// WithSink replaces the output sink chosen from the configuration
func (g *Generator) WithSink(out sink.OutputSink) *Generator {
	g.out = out
	return g
}

// Run extracts, builds and emits every controller matched by the configured
// patterns. It returns an error when any controller or artifact was left out.
func (g *Generator) Run(ctx context.Context) (*PassResult, error) {
	start := time.Now()
	cfg := g.cfg
	diag := g.diagnostics

	diag.Header("generating dispatchers")
	diag.Debug("patterns: %v", cfg.Patterns)

	resolver, err := NewModuleResolver(cfg.Dir, cfg.Module)
	if err != nil {
		diag.Error("%v", err)
		return nil, err
	}
	diag.Verbose("module %s at %s", resolver.Module(), resolver.Root())

	unmatched, err := models.ParseUnmatchedPolicy(cfg.Unmatched)
	if err != nil {
		return nil, err
	}

	runtimeName := path.Base(cfg.RuntimePackage)
	sessionType := models.PointerTo(models.Named(cfg.SessionPackage(), path.Base(cfg.SessionPackage()), cfg.Session.Type))
	extractor := parser.NewParser(
		parser.WithRuntimePackage(cfg.RuntimePackage),
		parser.WithSessionType(sessionType),
	)
	builder := dispatch.NewBuilder(
		dispatch.WithDispatcherSuffix(cfg.Dispatcher.Suffix),
		dispatch.WithFileSuffix(cfg.Dispatcher.FileSuffix),
		dispatch.WithDefaultUnmatched(unmatched),
		dispatch.WithRuntimeName(runtimeName),
		dispatch.WithRegistryFile(cfg.Registry.File),
	)
	emitter := generator.NewEmitter(generator.WithRuntimePackage(cfg.RuntimePackage, runtimeName))

	out := g.out
	switch {
	case out != nil:
	case cfg.DryRun:
		out = sink.NewMemorySink()
	default:
		out = sink.NewFilesystemSink(resolver.Root())
	}

	driverOpts := []DriverOption{
		WithRegistryType(cfg.Registry.Type),
		WithStateObserver(func(s State) {
			if s != StateIdle && s != StateDone {
				diag.PhaseProgress(s.String())
			}
		}),
	}
	if cfg.Registry.Dir != "" {
		dir := cfg.Registry.Dir
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(cfg.Dir, dir)
		}
		if dir, err = filepath.Abs(dir); err != nil {
			return nil, err
		}
		pkg, err := resolver.PackageRef(dir)
		if err != nil {
			diag.Error("registry.dir: %v", err)
			return nil, err
		}
		driverOpts = append(driverOpts, WithRegistryPackage(pkg))
	}

	driver := NewDriver(extractor, builder, emitter, out, driverOpts...)
	scanner := NewPackageScanner(resolver, cfg.Dir, cfg.Patterns)

	result, err := driver.Pass(ctx, scanner)
	if result != nil {
		g.report(result)
	}
	if err != nil {
		diag.Error("%v", err)
		return result, err
	}

	diag.Summary("summary", map[string]interface{}{
		"controllers": result.Controllers,
		"files":       len(result.Files),
		"skipped":     len(result.Skipped),
		"warnings":    len(result.Warnings),
		"duration":    time.Since(start).Round(time.Millisecond).String(),
	})

	if n := result.Problems(); n > 0 {
		return result, fmt.Errorf("generation finished with %d problem(s)", n)
	}
	diag.GenerationComplete()
	return result, nil
}

func (g *Generator) report(result *PassResult) {
	diag := g.diagnostics

	for _, w := range result.Warnings {
		if w.File != "" {
			diag.Warn("%s:%d: %s", w.File, w.Line, w.Message)
		} else {
			diag.Warn("%s", w.Message)
		}
	}
	for _, s := range result.Skipped {
		diag.Error("skipped controller %s.%s: %v", s.Package.Name, s.Name, s.Err)
		g.hints(s.Err)
	}
	for _, err := range result.Errors {
		diag.Error("%v", err)
		g.hints(err)
	}
	for _, err := range result.Failed {
		diag.Error("%v", err)
	}

	for _, f := range result.Files {
		if g.cfg.DryRun {
			diag.List("would write %s", f.Path)
		} else {
			diag.PhaseProgress("Writing " + f.Path)
		}
	}
}

func (g *Generator) hints(err error) {
	var werr wserrors.WsgenError
	if !errors.As(err, &werr) {
		return
	}
	for _, hint := range werr.Suggestions() {
		g.diagnostics.List("hint: %s", hint)
	}
}
