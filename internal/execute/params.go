package execute

import (
	"context"
	"fmt"

	"github.com/99designs/gqlgen/graphql"
	"github.com/mitchellh/mapstructure"
	"github.com/vektah/gqlparser/v2/ast"
)

// ResolveParams is everything a field resolver gets besides the context.
type ResolveParams struct {
	Source     interface{}
	Args       map[string]interface{}
	Field      graphql.CollectedField
	ParentType *ast.Definition
	Path       ast.Path
}

// FieldResolveFn resolves one field of one object.
type FieldResolveFn func(ctx context.Context, p ResolveParams) (interface{}, error)

// ResolverMap indexes resolvers by type name, then field name. Fields
// without a resolver use the default property lookup.
type ResolverMap map[string]map[string]FieldResolveFn

func (m ResolverMap) lookup(typeName, fieldName string) FieldResolveFn {
	if fields, ok := m[typeName]; ok {
		return fields[fieldName]
	}
	return nil
}

// DecodeArgs decodes every argument into out, matching json tags.
func (p ResolveParams) DecodeArgs(out interface{}) error {
	return decode(p.Args, out)
}

// DecodeArg decodes a single argument into out. Absent arguments leave out untouched.
func (p ResolveParams) DecodeArg(name string, out interface{}) error {
	v, ok := p.Args[name]
	if !ok || v == nil {
		return nil
	}
	if err := decode(v, out); err != nil {
		return fmt.Errorf("argument %s: %w", name, err)
	}
	return nil
}

// StringArg returns a string argument, or "" when absent.
func (p ResolveParams) StringArg(name string) string {
	var s string
	_ = p.DecodeArg(name, &s)
	return s
}

func decode(in, out interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Squash:           true,
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(in)
}
