package execute

import (
	"sort"
	"strings"
	"sync"

	"github.com/vektah/gqlparser/v2/ast"
)

// introspector answers __schema and __type with plain maps that the default
// resolver walks. Named types are built once per operation.
type introspector struct {
	schema *ast.Schema

	mu    sync.Mutex
	types map[string]map[string]interface{}
}

func newIntrospector(schema *ast.Schema) *introspector {
	return &introspector{
		schema: schema,
		types:  make(map[string]map[string]interface{}),
	}
}

func (in *introspector) schemaValue() map[string]interface{} {
	names := make([]string, 0, len(in.schema.Types))
	for name := range in.schema.Types {
		names = append(names, name)
	}
	sort.Strings(names)

	types := make([]interface{}, 0, len(names))
	for _, name := range names {
		types = append(types, in.typeValue(name))
	}

	directiveNames := make([]string, 0, len(in.schema.Directives))
	for name := range in.schema.Directives {
		directiveNames = append(directiveNames, name)
	}
	sort.Strings(directiveNames)

	directives := make([]interface{}, 0, len(directiveNames))
	for _, name := range directiveNames {
		directives = append(directives, in.directiveValue(in.schema.Directives[name]))
	}

	return map[string]interface{}{
		"description":      description(in.schema.Description),
		"types":            types,
		"queryType":        in.definitionValue(in.schema.Query),
		"mutationType":     in.definitionValue(in.schema.Mutation),
		"subscriptionType": in.definitionValue(in.schema.Subscription),
		"directives":       directives,
	}
}

// typeValue returns nil for unknown names.
func (in *introspector) typeValue(name string) map[string]interface{} {
	return in.definitionValue(in.schema.Types[name])
}

func (in *introspector) definitionValue(def *ast.Definition) map[string]interface{} {
	if def == nil {
		return nil
	}

	in.mu.Lock()
	cached, ok := in.types[def.Name]
	in.mu.Unlock()
	if ok {
		return cached
	}

	v := map[string]interface{}{
		"kind":           string(def.Kind),
		"name":           def.Name,
		"description":    description(def.Description),
		"specifiedByURL": nil,
		"fields":         nil,
		"interfaces":     nil,
		"possibleTypes":  nil,
		"enumValues":     nil,
		"inputFields":    nil,
		"ofType":         nil,
	}

	switch def.Kind {
	case ast.Object, ast.Interface:
		v["fields"] = Thunk(func(args map[string]interface{}) interface{} {
			includeDeprecated, _ := args["includeDeprecated"].(bool)
			fields := make([]interface{}, 0, len(def.Fields))
			for _, field := range def.Fields {
				if strings.HasPrefix(field.Name, "__") {
					continue
				}
				if isDeprecated(field.Directives) && !includeDeprecated {
					continue
				}
				fields = append(fields, in.fieldValue(field))
			}
			return fields
		})
		interfaces := make([]interface{}, 0, len(def.Interfaces))
		for _, name := range def.Interfaces {
			interfaces = append(interfaces, in.typeValue(name))
		}
		v["interfaces"] = interfaces
	case ast.Enum:
		v["enumValues"] = Thunk(func(args map[string]interface{}) interface{} {
			includeDeprecated, _ := args["includeDeprecated"].(bool)
			values := make([]interface{}, 0, len(def.EnumValues))
			for _, ev := range def.EnumValues {
				if isDeprecated(ev.Directives) && !includeDeprecated {
					continue
				}
				values = append(values, map[string]interface{}{
					"name":              ev.Name,
					"description":       description(ev.Description),
					"isDeprecated":      isDeprecated(ev.Directives),
					"deprecationReason": deprecationReason(ev.Directives),
				})
			}
			return values
		})
	case ast.InputObject:
		inputFields := make([]interface{}, 0, len(def.Fields))
		for _, field := range def.Fields {
			inputFields = append(inputFields, in.inputValue(field.Name, field.Description, field.Type, field.DefaultValue, field.Directives))
		}
		v["inputFields"] = inputFields
	}
	if def.Kind == ast.Interface || def.Kind == ast.Union {
		possibleTypes := make([]interface{}, 0)
		for _, possible := range in.schema.GetPossibleTypes(def) {
			possibleTypes = append(possibleTypes, in.definitionValue(possible))
		}
		v["possibleTypes"] = possibleTypes
	}

	in.mu.Lock()
	defer in.mu.Unlock()
	if cached, ok := in.types[def.Name]; ok {
		return cached
	}
	in.types[def.Name] = v
	return v
}

func (in *introspector) fieldValue(field *ast.FieldDefinition) map[string]interface{} {
	args := make([]interface{}, 0, len(field.Arguments))
	for _, arg := range field.Arguments {
		args = append(args, in.inputValue(arg.Name, arg.Description, arg.Type, arg.DefaultValue, arg.Directives))
	}
	return map[string]interface{}{
		"name":              field.Name,
		"description":       description(field.Description),
		"args":              args,
		"type":              in.typeRef(field.Type),
		"isDeprecated":      isDeprecated(field.Directives),
		"deprecationReason": deprecationReason(field.Directives),
	}
}

func (in *introspector) inputValue(name, desc string, typ *ast.Type, defaultValue *ast.Value, directives ast.DirectiveList) map[string]interface{} {
	var dv interface{}
	if defaultValue != nil {
		dv = defaultValue.String()
	}
	return map[string]interface{}{
		"name":              name,
		"description":       description(desc),
		"type":              in.typeRef(typ),
		"defaultValue":      dv,
		"isDeprecated":      isDeprecated(directives),
		"deprecationReason": deprecationReason(directives),
	}
}

func (in *introspector) directiveValue(d *ast.DirectiveDefinition) map[string]interface{} {
	locations := make([]interface{}, 0, len(d.Locations))
	for _, loc := range d.Locations {
		locations = append(locations, string(loc))
	}
	args := make([]interface{}, 0, len(d.Arguments))
	for _, arg := range d.Arguments {
		args = append(args, in.inputValue(arg.Name, arg.Description, arg.Type, arg.DefaultValue, arg.Directives))
	}
	return map[string]interface{}{
		"name":         d.Name,
		"description":  description(d.Description),
		"locations":    locations,
		"args":         args,
		"isRepeatable": d.IsRepeatable,
	}
}

// typeRef builds the NON_NULL and LIST wrappers around a named type.
func (in *introspector) typeRef(typ *ast.Type) map[string]interface{} {
	if typ.NonNull {
		inner := *typ
		inner.NonNull = false
		return map[string]interface{}{
			"kind":   "NON_NULL",
			"name":   nil,
			"ofType": in.typeRef(&inner),
		}
	}
	if typ.Elem != nil {
		return map[string]interface{}{
			"kind":   "LIST",
			"name":   nil,
			"ofType": in.typeRef(typ.Elem),
		}
	}
	return in.typeValue(typ.NamedType)
}

func description(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func isDeprecated(directives ast.DirectiveList) bool {
	return directives.ForName("deprecated") != nil
}

func deprecationReason(directives ast.DirectiveList) interface{} {
	d := directives.ForName("deprecated")
	if d == nil {
		return nil
	}
	if arg := d.Arguments.ForName("reason"); arg != nil && arg.Value != nil {
		return arg.Value.Raw
	}
	return "No longer supported"
}
