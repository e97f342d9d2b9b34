package cli

import (
	"context"
	"fmt"
	"go/token"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/tools/go/packages"

	wserrors "github.com/toyz/wsgen/internal/errors"
	"github.com/toyz/wsgen/internal/models"
	"github.com/toyz/wsgen/internal/parser"
)

// PackageScanner loads the syntax of the packages matching a set of patterns
type PackageScanner struct {
	resolver *ModuleResolver
	dir      string
	patterns []string
}

// NewPackageScanner creates a scanner resolving patterns from dir
func NewPackageScanner(resolver *ModuleResolver, dir string, patterns []string) *PackageScanner {
	return &PackageScanner{resolver: resolver, dir: dir, patterns: patterns}
}

// Load parses every matched package. Type checking is not needed because
// markers and parameter types are read syntactically.
func (s *PackageScanner) Load(ctx context.Context) ([]parser.SourcePackage, error) {
	fset := token.NewFileSet()
	cfg := &packages.Config{
		Context: ctx,
		Dir:     s.dir,
		Fset:    fset,
		Mode:    packages.NeedName | packages.NeedFiles | packages.NeedSyntax | packages.NeedModule,
	}

	pkgs, err := packages.Load(cfg, s.patterns...)
	if err != nil {
		return nil, wserrors.WrapExtractionError(strings.Join(s.patterns, " "), err)
	}

	var loadErrs wserrors.MultipleErrors
	sources := make([]parser.SourcePackage, 0, len(pkgs))
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			loadErrs.Add(fmt.Errorf("%s: %s", pkg.PkgPath, e.Msg))
		}
		if len(pkg.GoFiles) == 0 || len(pkg.Syntax) == 0 {
			continue
		}

		dir, err := s.resolver.RelDir(filepath.Dir(pkg.GoFiles[0]))
		if err != nil {
			loadErrs.Add(err)
			continue
		}
		sources = append(sources, parser.SourcePackage{
			Ref:   models.PackageRef{Path: pkg.PkgPath, Name: pkg.Name, Dir: dir},
			Fset:  fset,
			Files: pkg.Syntax,
		})
	}
	if err := loadErrs.ErrOrNil(); err != nil {
		return nil, wserrors.WrapExtractionError("packages", err)
	}

	sort.Slice(sources, func(i, j int) bool { return sources[i].Ref.Path < sources[j].Ref.Path })
	return sources, nil
}
