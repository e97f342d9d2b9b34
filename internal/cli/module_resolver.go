package cli

import (
	"fmt"
	"go/parser"
	"go/token"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/toyz/wsgen/internal/models"
	"github.com/toyz/wsgen/internal/utils"
)

// ModuleResolver maps directories of the module being generated to import paths
type ModuleResolver struct {
	root   string // absolute module root
	module string // module path
}

// NewModuleResolver locates go.mod at or above dir. customModule, when set,
// replaces the module path read from go.mod.
func NewModuleResolver(dir, customModule string) (*ModuleResolver, error) {
	goMod, err := utils.FindGoModFile(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to locate module root: %w", err)
	}

	module := customModule
	if module == "" {
		module, err = utils.ParseModuleName(goMod)
		if err != nil {
			return nil, fmt.Errorf("failed to determine module name: %w (consider using --module flag)", err)
		}
	}

	return &ModuleResolver{root: filepath.Dir(goMod), module: module}, nil
}

// Root returns the absolute module root
func (r *ModuleResolver) Root() string { return r.root }

// Module returns the module path
func (r *ModuleResolver) Module() string { return r.module }

// RelDir returns dir relative to the module root with forward slashes
func (r *ModuleResolver) RelDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", dir, err)
	}
	rel, err := filepath.Rel(r.root, abs)
	if err != nil {
		return "", fmt.Errorf("failed to calculate relative path: %w", err)
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", fmt.Errorf("%s is outside module %s", dir, r.module)
	}
	return rel, nil
}

// BuildPackagePath returns the import path of a directory inside the module
func (r *ModuleResolver) BuildPackagePath(dir string) (string, error) {
	rel, err := r.RelDir(dir)
	if err != nil {
		return "", err
	}
	if rel == "." {
		return r.module, nil
	}
	return r.module + "/" + rel, nil
}

// PackageRef describes the package in dir. The name comes from an existing
// Go file in dir, or from the directory name when there is none.
func (r *ModuleResolver) PackageRef(dir string) (models.PackageRef, error) {
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(r.root, dir)
	}
	importPath, err := r.BuildPackagePath(dir)
	if err != nil {
		return models.PackageRef{}, err
	}
	rel, err := r.RelDir(dir)
	if err != nil {
		return models.PackageRef{}, err
	}

	name := packageClause(dir)
	if name == "" {
		name = utils.SnakeCase(path.Base(importPath))
		name = strings.ReplaceAll(name, "_", "")
	}
	if name == "" || utils.IsReservedIdent(name) {
		return models.PackageRef{}, fmt.Errorf("cannot derive a package name for %s", dir)
	}

	return models.PackageRef{Path: importPath, Name: name, Dir: rel}, nil
}

// packageClause returns the package name declared by the first non-test Go file in dir
func packageClause(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}
		f, err := parser.ParseFile(token.NewFileSet(), filepath.Join(dir, name), nil, parser.PackageClauseOnly)
		if err == nil {
			return f.Name.Name
		}
	}
	return ""
}
