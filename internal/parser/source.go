package parser

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"sort"

	"github.com/toyz/wsgen/internal/models"
)

// SourcePackage is one package's syntax trees handed to the extractor
type SourcePackage struct {
	Ref   models.PackageRef
	Fset  *token.FileSet
	Files []*ast.File
}

// sortedFiles returns the package files ordered by file name
func (s SourcePackage) sortedFiles() []*ast.File {
	files := make([]*ast.File, len(s.Files))
	copy(files, s.Files)
	sort.SliceStable(files, func(i, j int) bool {
		return s.fileName(files[i]) < s.fileName(files[j])
	})
	return files
}

func (s SourcePackage) fileName(f *ast.File) string {
	return s.Fset.Position(f.Package).Filename
}

// ParsePackageSource parses in-memory files into a SourcePackage.
// Files are keyed by file name.
func ParsePackageSource(ref models.PackageRef, files map[string]string) (SourcePackage, error) {
	pkg := SourcePackage{Ref: ref, Fset: token.NewFileSet()}

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		file, err := parser.ParseFile(pkg.Fset, name, files[name], parser.ParseComments)
		if err != nil {
			return SourcePackage{}, fmt.Errorf("failed to parse source: %w", err)
		}
		if pkg.Ref.Name == "" {
			pkg.Ref.Name = file.Name.Name
		}
		if file.Name.Name != pkg.Ref.Name {
			return SourcePackage{}, fmt.Errorf("file %s declares package %s, expected %s", name, file.Name.Name, pkg.Ref.Name)
		}
		pkg.Files = append(pkg.Files, file)
	}

	return pkg, nil
}
