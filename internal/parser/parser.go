package parser

import (
	"fmt"
	"go/ast"
	"go/token"
	"sort"

	"github.com/toyz/wsgen/internal/annotations"
	"github.com/toyz/wsgen/internal/models"
)

// Parser extracts controller metadata from wsgen marker comments
type Parser struct {
	annotations *annotations.ParticipleParser
	sessionType models.TypeRef
	statusType  models.TypeRef
}

// Option configures a Parser
type Option func(*Parser)

// WithRuntimePackage sets the import path whose Session and CloseStatus
// types are recognized during parameter classification
func WithRuntimePackage(path string) Option {
	return func(p *Parser) {
		p.sessionType = models.SessionTypeRef(path)
		p.statusType = models.CloseStatusTypeRef(path)
	}
}

// WithSessionType overrides the session handle type matched exactly during classification
func WithSessionType(ref models.TypeRef) Option {
	return func(p *Parser) {
		p.sessionType = ref
	}
}

// NewParser creates a new extractor
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		annotations: annotations.NewParticipleParser(annotations.DefaultRegistry()),
		sessionType: models.SessionTypeRef(models.DefaultRuntimePackage),
		statusType:  models.CloseStatusTypeRef(models.DefaultRuntimePackage),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseSource extracts controllers from a single in-memory file for testing purposes
func (p *Parser) ParseSource(filename, source string) (*models.ExtractionResult, error) {
	pkg, err := ParsePackageSource(models.PackageRef{}, map[string]string{filename: source})
	if err != nil {
		return nil, err
	}
	pkg.Ref.Path = "example.com/" + pkg.Ref.Name
	pkg.Ref.Dir = pkg.Ref.Name
	return p.Extract([]SourcePackage{pkg})
}

// markedDecl is a declaration together with its parsed markers
type markedDecl struct {
	name     string
	markers  []*annotations.ParsedAnnotation
	loc      annotations.SourceLocation
	scope    *fileScope
	typeSpec *ast.TypeSpec
	funcDecl *ast.FuncDecl
}

func (d *markedDecl) find(kind annotations.AnnotationType) []*annotations.ParsedAnnotation {
	var found []*annotations.ParsedAnnotation
	for _, m := range d.markers {
		if m.Type == kind {
			found = append(found, m)
		}
	}
	return found
}

func (d *markedDecl) has(kind annotations.AnnotationType) bool {
	return len(d.find(kind)) > 0
}

// packageDecls holds the declarations of one package in discovery order
type packageDecls struct {
	controllers []*markedDecl
	methods     map[string][]*markedDecl
	funcs       []*markedDecl
	markerErrs  map[string][]error
	errOrder    []string
}

func (d *packageDecls) addErr(owner string, err error) {
	if _, seen := d.markerErrs[owner]; !seen {
		d.errOrder = append(d.errOrder, owner)
	}
	d.markerErrs[owner] = append(d.markerErrs[owner], err)
}

// Extract walks the packages in import path order and builds the controller descriptors
func (p *Parser) Extract(pkgs []SourcePackage) (*models.ExtractionResult, error) {
	sorted := make([]SourcePackage, len(pkgs))
	copy(sorted, pkgs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Ref.Path < sorted[j].Ref.Path })

	result := &models.ExtractionResult{}
	basePaths := make(map[string]string)

	for _, pkg := range sorted {
		if pkg.Fset == nil {
			return nil, fmt.Errorf("package %s has no file set", pkg.Ref.Path)
		}

		decls := p.collect(pkg, result)

		claimed := make(map[string]bool)
		for _, decl := range decls.controllers {
			claimed[decl.name] = true

			if errs := decls.markerErrs[decl.name]; len(errs) > 0 {
				result.Skipped = append(result.Skipped, models.SkippedController{
					Name:    decl.name,
					Package: pkg.Ref,
					Err:     markerErr(decl.name, decl.loc, errs[0]),
				})
				continue
			}

			ctrl, err := p.buildController(pkg, decl, decls, result)
			if err != nil {
				result.Skipped = append(result.Skipped, models.SkippedController{Name: decl.name, Package: pkg.Ref, Err: err})
				continue
			}

			if prev, dup := basePaths[ctrl.BasePath]; dup {
				err := validationErr(ctrl.Name, ctrl.BasePath, ctrl.Location,
					fmt.Sprintf("base path %q is already bound to %s", ctrl.BasePath, prev))
				result.Skipped = append(result.Skipped, models.SkippedController{Name: ctrl.Name, Package: pkg.Ref, Err: err})
				continue
			}
			basePaths[ctrl.BasePath] = pkg.Ref.Path + "." + ctrl.Name

			result.Controllers = append(result.Controllers, *ctrl)
		}

		orphanMarkers(decls, result)

		for _, owner := range decls.errOrder {
			if claimed[owner] {
				continue
			}
			result.Errors = append(result.Errors, decls.markerErrs[owner]...)
		}
	}

	return result, nil
}

// collect gathers every marked declaration of a package
func (p *Parser) collect(pkg SourcePackage, result *models.ExtractionResult) *packageDecls {
	decls := &packageDecls{
		methods:    make(map[string][]*markedDecl),
		markerErrs: make(map[string][]error),
	}

	for _, file := range pkg.sortedFiles() {
		scope := newFileScope(pkg.Ref, file)

		for _, decl := range file.Decls {
			switch d := decl.(type) {
			case *ast.GenDecl:
				if d.Tok != token.TYPE {
					continue
				}
				for _, spec := range d.Specs {
					ts := spec.(*ast.TypeSpec)
					doc := ts.Doc
					if doc == nil && len(d.Specs) == 1 {
						doc = d.Doc
					}
					md := &markedDecl{
						name:     ts.Name.Name,
						loc:      location(pkg.Fset, ts.Pos()),
						scope:    scope,
						typeSpec: ts,
					}
					p.parseMarkers(pkg.Fset, doc, md, decls, ts.Name.Name)
					p.classifyType(pkg, md, decls, result)
				}

			case *ast.FuncDecl:
				md := &markedDecl{
					name:     d.Name.Name,
					loc:      location(pkg.Fset, d.Pos()),
					scope:    scope,
					funcDecl: d,
				}
				if recv := receiverBase(d.Recv); recv != "" {
					p.parseMarkers(pkg.Fset, d.Doc, md, decls, recv)
					decls.methods[recv] = append(decls.methods[recv], md)
					continue
				}
				p.parseMarkers(pkg.Fset, d.Doc, md, decls, funcOwner(d))
				decls.funcs = append(decls.funcs, md)
				p.classifyFunc(pkg, md, result)
			}
		}
	}

	return decls
}

func (p *Parser) parseMarkers(fset *token.FileSet, doc *ast.CommentGroup, md *markedDecl, decls *packageDecls, owner string) {
	if doc == nil {
		return
	}
	for _, c := range doc.List {
		if !annotations.IsAnnotation(c.Text) {
			continue
		}
		parsed, err := p.annotations.ParseAnnotation(c.Text, location(fset, c.Slash))
		if err != nil {
			decls.addErr(owner, err)
			continue
		}
		parsed.Target = md.name
		md.markers = append(md.markers, parsed)
	}
}

func (p *Parser) classifyType(pkg SourcePackage, md *markedDecl, decls *packageDecls, result *models.ExtractionResult) {
	p.recordAnchor(pkg, md, result)

	if md.has(annotations.ControllerAnnotation) {
		decls.controllers = append(decls.controllers, md)
	}
	for _, kind := range []annotations.AnnotationType{annotations.HandlerAnnotation, annotations.CloseAnnotation, annotations.ConstructorAnnotation} {
		for _, m := range md.find(kind) {
			warn(result, m.Location, fmt.Sprintf("//wsgen::%s on type %s has no effect", kind, md.name))
		}
	}
}

func (p *Parser) classifyFunc(pkg SourcePackage, md *markedDecl, result *models.ExtractionResult) {
	p.recordAnchor(pkg, md, result)

	for _, kind := range []annotations.AnnotationType{annotations.ControllerAnnotation, annotations.HandlerAnnotation, annotations.CloseAnnotation} {
		for _, m := range md.find(kind) {
			warn(result, m.Location, fmt.Sprintf("//wsgen::%s on function %s has no effect, it belongs on a type or method", kind, md.name))
		}
	}
}

func (p *Parser) recordAnchor(pkg SourcePackage, md *markedDecl, result *models.ExtractionResult) {
	for _, m := range md.find(annotations.ConfigAnnotation) {
		if result.Anchor == nil {
			result.Anchor = &models.Anchor{Package: pkg.Ref, Target: md.name, Location: m.Location}
			continue
		}
		warn(result, m.Location, fmt.Sprintf("ignoring //wsgen::config on %s, the registry package is already set by %s in %s",
			md.name, result.Anchor.Target, result.Anchor.Package.Path))
	}
}

// funcOwner attributes a package-level function to the type it returns, if any
func funcOwner(fn *ast.FuncDecl) string {
	if fn.Type.Results != nil && len(fn.Type.Results.List) > 0 {
		expr := fn.Type.Results.List[0].Type
		if star, ok := expr.(*ast.StarExpr); ok {
			expr = star.X
		}
		if ident, ok := expr.(*ast.Ident); ok && !predeclaredTypes[ident.Name] {
			return ident.Name
		}
	}
	return fn.Name.Name
}

func location(fset *token.FileSet, pos token.Pos) annotations.SourceLocation {
	position := fset.Position(pos)
	return annotations.SourceLocation{
		File:   position.Filename,
		Line:   position.Line,
		Column: position.Column,
	}
}

func warn(result *models.ExtractionResult, loc annotations.SourceLocation, msg string) {
	result.Warnings = append(result.Warnings, models.Warning{File: loc.File, Line: loc.Line, Message: msg})
}
