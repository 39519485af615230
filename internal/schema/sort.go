package schema

import (
	"sort"

	"github.com/vektah/gqlparser/v2/ast"
)

// LexicographicSortSchema orders fields, arguments, enum values, directives
// and possible types by name, in place. The printed schema and introspection
// results then do not depend on module order.
func LexicographicSortSchema(schema *ast.Schema) *ast.Schema {
	for _, def := range schema.Types {
		sortDefinition(def)
	}
	for _, defs := range schema.PossibleTypes {
		sortByName(defs, func(def *ast.Definition) string { return def.Name })
	}
	for _, defs := range schema.Implements {
		sortByName(defs, func(def *ast.Definition) string { return def.Name })
	}
	for _, directive := range schema.Directives {
		sortArgumentDefinitions(directive.Arguments)
	}

	return schema
}

func sortDefinition(def *ast.Definition) {
	sortDirectives(def.Directives)
	sort.Strings(def.Interfaces)
	sort.Strings(def.Types)

	sortByName(def.Fields, func(field *ast.FieldDefinition) string { return field.Name })
	for _, field := range def.Fields {
		sortArgumentDefinitions(field.Arguments)
		sortDirectives(field.Directives)
	}

	sortByName(def.EnumValues, func(ev *ast.EnumValueDefinition) string { return ev.Name })
	for _, ev := range def.EnumValues {
		sortDirectives(ev.Directives)
	}
}

func sortArgumentDefinitions(argDefs ast.ArgumentDefinitionList) {
	sortByName(argDefs, func(argDef *ast.ArgumentDefinition) string { return argDef.Name })
	for _, argDef := range argDefs {
		sortDirectives(argDef.Directives)
	}
}

func sortDirectives(directives ast.DirectiveList) {
	sortByName(directives, func(directive *ast.Directive) string { return directive.Name })
	for _, directive := range directives {
		sortByName(directive.Arguments, func(arg *ast.Argument) string { return arg.Name })
	}
}

func sortByName[S ~[]T, T any](list S, name func(T) string) {
	sort.SliceStable(list, func(i, j int) bool {
		return name(list[i]) < name(list[j])
	})
}
