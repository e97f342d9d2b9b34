package parser

import (
	"go/ast"
	"go/types"
	"regexp"
	"strconv"
	"strings"

	"github.com/toyz/wsgen/internal/models"
)

var versionSuffix = regexp.MustCompile(`^v[0-9]+$`)

// fileScope resolves type expressions written in one file
type fileScope struct {
	pkg     models.PackageRef
	imports map[string]string // local package name -> import path
}

func newFileScope(pkg models.PackageRef, file *ast.File) *fileScope {
	scope := &fileScope{pkg: pkg, imports: make(map[string]string)}
	for _, spec := range file.Imports {
		path, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}
		name := guessPackageName(path)
		if spec.Name != nil {
			name = spec.Name.Name
		}
		if name == "_" || name == "." {
			continue
		}
		scope.imports[name] = path
	}
	return scope
}

// guessPackageName derives the package name from an import path the way
// goimports does when the package itself is not loaded.
func guessPackageName(path string) string {
	elems := strings.Split(path, "/")
	name := elems[len(elems)-1]
	if versionSuffix.MatchString(name) && len(elems) > 1 {
		name = elems[len(elems)-2]
	}
	if i := strings.IndexByte(name, '.'); i > 0 {
		name = name[:i]
	}
	name = strings.TrimPrefix(name, "go-")
	name = strings.TrimSuffix(name, "-go")
	return strings.ReplaceAll(name, "-", "_")
}

// resolve converts a type expression into a TypeRef
func (s *fileScope) resolve(expr ast.Expr) models.TypeRef {
	ref := s.resolveKind(expr)
	ref.Expr = types.ExprString(expr)
	return ref
}

func (s *fileScope) resolveKind(expr ast.Expr) models.TypeRef {
	switch t := expr.(type) {
	case *ast.Ident:
		if predeclaredTypes[t.Name] {
			return models.Named("", "", t.Name)
		}
		return models.Named(s.pkg.Path, s.pkg.Name, t.Name)

	case *ast.SelectorExpr:
		pkgIdent, ok := t.X.(*ast.Ident)
		if !ok {
			return models.TypeRef{Kind: models.InvalidKind}
		}
		path, known := s.imports[pkgIdent.Name]
		if !known {
			path = pkgIdent.Name
		}
		return models.Named(path, pkgIdent.Name, t.Sel.Name)

	case *ast.StarExpr:
		return s.wrap(models.PointerKind, t.X)

	case *ast.ParenExpr:
		return s.resolveKind(t.X)

	case *ast.Ellipsis:
		return s.wrap(models.EllipsisKind, t.Elt)

	case *ast.ArrayType:
		if t.Len == nil {
			return s.wrap(models.SliceKind, t.Elt)
		}
		ref := s.wrap(models.ArrayKind, t.Elt)
		ref.Len = types.ExprString(t.Len)
		return ref

	case *ast.MapType:
		key := s.resolve(t.Key)
		ref := s.wrap(models.MapKind, t.Value)
		ref.Key = &key
		return ref

	case *ast.ChanType:
		ref := s.wrap(models.ChanKind, t.Value)
		switch t.Dir {
		case ast.SEND:
			ref.Dir = models.ChanSend
		case ast.RECV:
			ref.Dir = models.ChanRecv
		}
		return ref

	case *ast.FuncType:
		ref := models.TypeRef{Kind: models.FuncKind}
		ref.Params = s.fieldTypes(t.Params)
		ref.Results = s.fieldTypes(t.Results)
		return ref

	case *ast.InterfaceType:
		return models.TypeRef{Kind: models.InterfaceKind, Empty: t.Methods == nil || len(t.Methods.List) == 0}

	case *ast.StructType:
		return models.TypeRef{Kind: models.StructKind, Empty: t.Fields == nil || len(t.Fields.List) == 0}

	case *ast.IndexExpr:
		ref := s.wrap(models.GenericKind, t.X)
		ref.Params = []models.TypeRef{s.resolve(t.Index)}
		return ref

	case *ast.IndexListExpr:
		ref := s.wrap(models.GenericKind, t.X)
		for _, idx := range t.Indices {
			ref.Params = append(ref.Params, s.resolve(idx))
		}
		return ref
	}

	return models.TypeRef{Kind: models.InvalidKind}
}

func (s *fileScope) wrap(kind models.TypeKind, elem ast.Expr) models.TypeRef {
	inner := s.resolve(elem)
	return models.TypeRef{Kind: kind, Elem: &inner}
}

// fieldTypes flattens a field list into one TypeRef per declared name
func (s *fileScope) fieldTypes(fields *ast.FieldList) []models.TypeRef {
	if fields == nil {
		return nil
	}
	var refs []models.TypeRef
	for _, field := range fields.List {
		ref := s.resolve(field.Type)
		n := len(field.Names)
		if n == 0 {
			n = 1
		}
		for i := 0; i < n; i++ {
			refs = append(refs, ref)
		}
	}
	return refs
}

// params flattens a field list into named parameter declarations
func (s *fileScope) params(fields *ast.FieldList) []models.ParamDecl {
	if fields == nil {
		return nil
	}
	var decls []models.ParamDecl
	for _, field := range fields.List {
		ref := s.resolve(field.Type)
		if len(field.Names) == 0 {
			decls = append(decls, models.ParamDecl{Type: ref})
			continue
		}
		for _, name := range field.Names {
			decls = append(decls, models.ParamDecl{Name: name.Name, Type: ref})
		}
	}
	return decls
}

// receiverBase returns the type name of a method receiver
func receiverBase(recv *ast.FieldList) string {
	if recv == nil || len(recv.List) == 0 {
		return ""
	}
	expr := recv.List[0].Type
	for {
		switch t := expr.(type) {
		case *ast.StarExpr:
			expr = t.X
		case *ast.ParenExpr:
			expr = t.X
		case *ast.IndexExpr:
			expr = t.X
		case *ast.IndexListExpr:
			expr = t.X
		case *ast.Ident:
			return t.Name
		default:
			return ""
		}
	}
}
