package utils

import "github.com/vektah/gqlparser/v2/ast"

// IsPossibleType reports whether object may be returned where abstract is
// expected. An object is always a possible type of itself.
func IsPossibleType(schema *ast.Schema, abstract, object *ast.Definition) bool {
	if abstract == object {
		return true
	}
	if !IsAbstractType(abstract) || object.Kind != ast.Object {
		return false
	}
	for _, def := range schema.GetPossibleTypes(abstract) {
		if def == object {
			return true
		}
	}
	return false
}

func IsAbstractType(def *ast.Definition) bool {
	switch def.Kind {
	case ast.Interface, ast.Union:
		return true
	default:
		return false
	}
}

func IsLeafType(def *ast.Definition) bool {
	switch def.Kind {
	case ast.Scalar, ast.Enum:
		return true
	default:
		return false
	}
}

// NamedType unwraps list and non-null wrappers.
func NamedType(typ *ast.Type) string {
	for typ.Elem != nil {
		typ = typ.Elem
	}
	return typ.NamedType
}
