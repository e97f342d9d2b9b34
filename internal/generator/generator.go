package generator

import (
	"bytes"
	"context"
	"errors"
	"path"

	"github.com/dave/jennifer/jen"

	"github.com/toyz/wsgen/internal/dispatch"
	wserrors "github.com/toyz/wsgen/internal/errors"
	"github.com/toyz/wsgen/internal/models"
	"github.com/toyz/wsgen/internal/sink"
)

// Header is the first line of every generated file
const Header = "Code generated by wsgen. DO NOT EDIT."

// ErrDuplicateArtifact is returned when a batch writes the same path twice
var ErrDuplicateArtifact = errors.New("artifact already written in this pass")

// Emitter renders dispatch plans into Go source with jennifer
type Emitter struct {
	runtimePkg  string
	runtimeName string
}

// Option configures an Emitter
type Option func(*Emitter)

// WithRuntimePackage sets the import path and name of the runtime package
func WithRuntimePackage(path, name string) Option {
	return func(e *Emitter) {
		e.runtimePkg = path
		e.runtimeName = name
	}
}

// NewEmitter creates an emitter targeting the default runtime package
func NewEmitter(opts ...Option) *Emitter {
	e := &Emitter{
		runtimePkg:  models.DefaultRuntimePackage,
		runtimeName: path.Base(models.DefaultRuntimePackage),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var _ CodeEmitter = (*Emitter)(nil)

func (e *Emitter) newFile(pkg models.PackageRef) *jen.File {
	f := jen.NewFilePathName(pkg.Path, pkg.Name)
	f.HeaderComment(Header)
	f.ImportName(e.runtimePkg, e.runtimeName)
	return f
}

func (e *Emitter) render(f *jen.File, artifact string) ([]byte, error) {
	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, wserrors.WrapEmitError("render", artifact, err)
	}
	return buf.Bytes(), nil
}

// Batch writes the artifacts of one generation pass, each path at most once
type Batch struct {
	emitter *Emitter
	out     sink.OutputSink
	written map[string]bool
	files   []models.GeneratedFile
}

// NewBatch starts a batch writing to out
func (e *Emitter) NewBatch(out sink.OutputSink) *Batch {
	return &Batch{emitter: e, out: out, written: make(map[string]bool)}
}

// WriteDispatcher renders and writes the dispatcher of one plan
func (b *Batch) WriteDispatcher(ctx context.Context, plan *dispatch.Plan) (models.GeneratedFile, error) {
	content, err := b.emitter.RenderDispatcher(plan)
	if err != nil {
		return models.GeneratedFile{}, err
	}
	return b.write(ctx, models.GeneratedFile{
		Path:       plan.FilePath,
		Content:    content,
		Controller: plan.Controller.Name,
	})
}

// WriteRegistry renders and writes the registry
func (b *Batch) WriteRegistry(ctx context.Context, reg *dispatch.RegistryPlan) (models.GeneratedFile, error) {
	content, err := b.emitter.RenderRegistry(reg)
	if err != nil {
		return models.GeneratedFile{}, err
	}
	return b.write(ctx, models.GeneratedFile{
		Path:       reg.FilePath,
		Content:    content,
		IsRegistry: true,
	})
}

func (b *Batch) write(ctx context.Context, file models.GeneratedFile) (models.GeneratedFile, error) {
	if b.written[file.Path] {
		return models.GeneratedFile{}, wserrors.WrapEmitError("write", file.Path, ErrDuplicateArtifact)
	}
	b.written[file.Path] = true

	if err := b.out.WriteFile(ctx, file.Path, file.Content); err != nil {
		return models.GeneratedFile{}, wserrors.WrapEmitError("write", file.Path, err)
	}
	b.files = append(b.files, file)
	return file, nil
}

// Files returns the artifacts written so far, in write order
func (b *Batch) Files() []models.GeneratedFile {
	return append([]models.GeneratedFile(nil), b.files...)
}
