package generator

import (
	"github.com/dave/jennifer/jen"

	"github.com/toyz/wsgen/internal/models"
)

// typeCode renders a resolved type reference
func typeCode(t models.TypeRef) *jen.Statement {
	switch t.Kind {
	case models.NamedKind:
		if t.PkgPath == "" {
			return jen.Id(t.Name)
		}
		return jen.Qual(t.PkgPath, t.Name)
	case models.PointerKind:
		return jen.Op("*").Add(typeCode(*t.Elem))
	case models.SliceKind:
		return jen.Index().Add(typeCode(*t.Elem))
	case models.ArrayKind:
		return jen.Index(jen.Op(t.Len)).Add(typeCode(*t.Elem))
	case models.MapKind:
		return jen.Map(typeCode(*t.Key)).Add(typeCode(*t.Elem))
	case models.ChanKind:
		switch t.Dir {
		case models.ChanSend:
			return jen.Chan().Op("<-").Add(typeCode(*t.Elem))
		case models.ChanRecv:
			return jen.Op("<-").Chan().Add(typeCode(*t.Elem))
		default:
			return jen.Chan().Add(typeCode(*t.Elem))
		}
	case models.FuncKind:
		stmt := jen.Func().Params(typeList(t.Params)...)
		switch len(t.Results) {
		case 0:
			return stmt
		case 1:
			return stmt.Add(typeCode(t.Results[0]))
		default:
			return stmt.Params(typeList(t.Results)...)
		}
	case models.GenericKind:
		return typeCode(*t.Elem).Types(typeList(t.Params)...)
	case models.EllipsisKind:
		return jen.Op("...").Add(typeCode(*t.Elem))
	case models.InterfaceKind:
		if t.Empty {
			return jen.Interface()
		}
	case models.StructKind:
		if t.Empty {
			return jen.Struct()
		}
	}
	// interfaces and structs with members are written as they appear in source
	return jen.Op(t.Expr)
}

func typeList(refs []models.TypeRef) []jen.Code {
	codes := make([]jen.Code, 0, len(refs))
	for _, r := range refs {
		codes = append(codes, typeCode(r))
	}
	return codes
}

// registerImports records the declared package name of every package a type
// refers to so jennifer does not have to guess it
func registerImports(f *jen.File, t models.TypeRef) {
	if t.PkgPath != "" && t.PkgName != "" {
		f.ImportName(t.PkgPath, t.PkgName)
	}
	if t.Elem != nil {
		registerImports(f, *t.Elem)
	}
	if t.Key != nil {
		registerImports(f, *t.Key)
	}
	for _, p := range t.Params {
		registerImports(f, p)
	}
	for _, r := range t.Results {
		registerImports(f, r)
	}
}
