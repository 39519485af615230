// Package schema composes the gateway schema from independent modules.
//
// Each module owns a fragment of SDL and the resolvers for the fields it
// declares. The root Query and Mutation types are only ever extended by
// modules, and a type or field can have exactly one owner.
package schema

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
	"github.com/vektah/gqlparser/v2/validator"
	"github.com/vvakame/shopgate/internal/auth"
	"github.com/vvakame/shopgate/internal/execute"
	"github.com/vvakame/shopgate/internal/gqlerrors"
)

// Field describes how one schema field is resolved.
type Field struct {
	Resolve execute.FieldResolveFn
	// Policy decides whether a failure is surfaced or replaced by Fallback.
	Policy gqlerrors.Policy
	// Auth requires a bearer token before Resolve is called.
	Auth     bool
	Fallback func(p execute.ResolveParams) interface{}
}

// Resolvers maps type name, then field name, to a Field.
type Resolvers map[string]map[string]*Field

type Module struct {
	Name      string
	TypeDefs  string
	Resolvers Resolvers
}

type Composed struct {
	Schema    *ast.Schema
	Resolvers execute.ResolverMap

	modules []string
}

// Modules returns the module names in composition order.
func (c *Composed) Modules() []string {
	return append([]string(nil), c.modules...)
}

// Executor serves the composed schema.
func (c *Composed) Executor(opts ...execute.Option) *execute.Executor {
	return execute.New(c.Schema, c.Resolvers, opts...)
}

// Compose merges modules in the given order. Any overlap between modules is
// an error naming both of them.
func Compose(modules ...*Module) (*Composed, error) {
	if len(modules) == 0 {
		return nil, fmt.Errorf("at least one module is required")
	}

	names := make(map[string]bool)
	typeOwners := make(map[string]string)
	fieldOwners := make(map[string]string)
	resolverOwners := make(map[string]string)
	extended := make(map[string]bool)
	moduleSources := make([]*ast.Source, 0, len(modules))

	for _, m := range modules {
		if m == nil || m.Name == "" {
			return nil, fmt.Errorf("module name is required")
		}
		if names[m.Name] {
			return nil, fmt.Errorf("module %s is registered twice", m.Name)
		}
		names[m.Name] = true

		source := &ast.Source{Name: m.Name + ".graphqls", Input: m.TypeDefs}
		doc, err := parser.ParseSchema(source)
		if err != nil {
			return nil, fmt.Errorf("module %s: %w", m.Name, err)
		}

		for _, def := range doc.Definitions {
			if isRootType(def.Name) {
				return nil, fmt.Errorf("module %s: type %s must be extended, not defined", m.Name, def.Name)
			}
			if prev, ok := typeOwners[def.Name]; ok {
				return nil, fmt.Errorf("type %s is defined by both module %s and module %s", def.Name, prev, m.Name)
			}
			typeOwners[def.Name] = m.Name
			if err := claimFields(fieldOwners, m.Name, def); err != nil {
				return nil, err
			}
		}
		for _, ext := range doc.Extensions {
			extended[ext.Name] = true
			if err := claimFields(fieldOwners, m.Name, ext); err != nil {
				return nil, err
			}
		}
		if len(doc.Schema) != 0 || len(doc.SchemaExtension) != 0 {
			return nil, fmt.Errorf("module %s: schema definitions are not allowed", m.Name)
		}

		for typeName, fields := range m.Resolvers {
			for fieldName, field := range fields {
				key := typeName + "." + fieldName
				if prev, ok := resolverOwners[key]; ok {
					return nil, fmt.Errorf("resolver %s is registered by both module %s and module %s", key, prev, m.Name)
				}
				resolverOwners[key] = m.Name
				if field == nil || field.Resolve == nil {
					return nil, fmt.Errorf("module %s: resolver %s has no resolve function", m.Name, key)
				}
				if field.Policy == gqlerrors.BestEffort && field.Fallback == nil {
					return nil, fmt.Errorf("module %s: best effort resolver %s needs a fallback", m.Name, key)
				}
			}
		}

		moduleSources = append(moduleSources, source)
	}

	base := &ast.Source{Name: "base.graphqls", Input: baseTypeDefs(extended)}
	sources := append([]*ast.Source{validator.Prelude, base}, moduleSources...)

	doc, gErr := parser.ParseSchemas(sources...)
	if gErr != nil {
		return nil, gErr
	}
	schema, vErr := validator.ValidateSchemaDocument(doc)
	if vErr != nil {
		return nil, vErr
	}

	resolvers := make(execute.ResolverMap)
	for _, m := range modules {
		for typeName, fields := range m.Resolvers {
			def := schema.Types[typeName]
			if def == nil {
				return nil, fmt.Errorf("module %s: resolver for unknown type %s", m.Name, typeName)
			}
			for fieldName, field := range fields {
				if def.Fields.ForName(fieldName) == nil {
					return nil, fmt.Errorf("module %s: resolver for unknown field %s.%s", m.Name, typeName, fieldName)
				}
				if resolvers[typeName] == nil {
					resolvers[typeName] = make(map[string]execute.FieldResolveFn)
				}
				resolvers[typeName][fieldName] = field.wrap()
			}
		}
	}

	moduleNames := make([]string, 0, len(modules))
	for _, m := range modules {
		moduleNames = append(moduleNames, m.Name)
	}

	return &Composed{
		Schema:    LexicographicSortSchema(schema),
		Resolvers: resolvers,
		modules:   moduleNames,
	}, nil
}

func isRootType(name string) bool {
	return name == "Query" || name == "Mutation" || name == "Subscription"
}

// baseTypeDefs declares the root types that modules extend.
func baseTypeDefs(extended map[string]bool) string {
	var roots []string
	for name := range extended {
		if isRootType(name) {
			roots = append(roots, name)
		}
	}
	sort.Strings(roots)

	var b strings.Builder
	for _, name := range roots {
		fmt.Fprintf(&b, "type %s\n", name)
	}
	return b.String()
}

func claimFields(fieldOwners map[string]string, module string, def *ast.Definition) error {
	for _, field := range def.Fields {
		key := def.Name + "." + field.Name
		if prev, ok := fieldOwners[key]; ok {
			return fmt.Errorf("field %s is declared by both module %s and module %s", key, prev, module)
		}
		fieldOwners[key] = module
	}
	for _, ev := range def.EnumValues {
		key := def.Name + "." + ev.Name
		if prev, ok := fieldOwners[key]; ok {
			return fmt.Errorf("enum value %s is declared by both module %s and module %s", key, prev, module)
		}
		fieldOwners[key] = module
	}
	return nil
}

// wrap puts the auth gate and the failure policy in front of Resolve.
// An unauthenticated caller is rejected before any downstream call and the
// rejection is never degraded.
func (f *Field) wrap() execute.FieldResolveFn {
	return func(ctx context.Context, p execute.ResolveParams) (interface{}, error) {
		if f.Auth && !auth.FromContext(ctx).Authenticated() {
			return nil, gqlerrors.Unauthenticated()
		}

		var fallback func() interface{}
		if f.Fallback != nil {
			fallback = func() interface{} { return f.Fallback(p) }
		}
		return gqlerrors.Guard(ctx, f.Policy, func() (interface{}, error) {
			return f.Resolve(ctx, p)
		}, fallback)
	}
}
