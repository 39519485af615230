package schema

import (
	"bytes"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"
)

// SDL prints the composed schema without built-in types and introspection
// fields.
func (c *Composed) SDL() string {
	printable := *c.Schema
	printable.Types = make(map[string]*ast.Definition, len(c.Schema.Types))
	for name, def := range c.Schema.Types {
		printable.Types[name] = withoutIntrospectionFields(def)
	}
	if c.Schema.Query != nil {
		printable.Query = printable.Types[c.Schema.Query.Name]
	}
	if c.Schema.Mutation != nil {
		printable.Mutation = printable.Types[c.Schema.Mutation.Name]
	}

	var buf bytes.Buffer
	formatter.NewFormatter(&buf).FormatSchema(&printable)
	return buf.String()
}

func withoutIntrospectionFields(def *ast.Definition) *ast.Definition {
	fields := make(ast.FieldList, 0, len(def.Fields))
	for _, field := range def.Fields {
		if strings.HasPrefix(field.Name, "__") {
			continue
		}
		fields = append(fields, field)
	}
	if len(fields) == len(def.Fields) {
		return def
	}
	copied := *def
	copied.Fields = fields
	return &copied
}
