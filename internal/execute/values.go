package execute

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/99designs/gqlgen/graphql"
	"github.com/vektah/gqlparser/v2/ast"
)

// Thunk values are called with the field arguments by the default resolver.
type Thunk func(args map[string]interface{}) interface{}

// orderedObject keeps response keys in selection order.
type orderedObject struct {
	keys   []string
	values []graphql.Marshaler
}

func (o *orderedObject) MarshalGQL(w io.Writer) {
	io.WriteString(w, "{")
	for i, key := range o.keys {
		if i != 0 {
			io.WriteString(w, ",")
		}
		graphql.MarshalString(key).MarshalGQL(w)
		io.WriteString(w, ":")
		o.values[i].MarshalGQL(w)
	}
	io.WriteString(w, "}")
}

// completeLeafValue serializes a Scalar or Enum result. Pointers are
// dereferenced so model structs can use optional fields directly.
func completeLeafValue(def *ast.Definition, result interface{}) (graphql.Marshaler, error) {
	rv := reflect.ValueOf(result)
	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return graphql.Null, nil
		}
		rv = rv.Elem()
	}
	if m, ok := rv.Interface().(graphql.Marshaler); ok {
		return m, nil
	}

	if def.Kind == ast.Enum {
		if rv.Kind() != reflect.String {
			return nil, fmt.Errorf("Enum %q cannot represent non-string value: %v", def.Name, rv.Interface())
		}
		if def.EnumValues.ForName(rv.String()) == nil {
			return nil, fmt.Errorf("Enum %q cannot represent value: %q", def.Name, rv.String())
		}
		return graphql.MarshalString(rv.String()), nil
	}

	switch def.Name {
	case "Int":
		i, ok := toInt(rv)
		if !ok {
			return nil, fmt.Errorf("Int cannot represent non-integer value: %v", rv.Interface())
		}
		return graphql.MarshalInt64(i), nil
	case "Float":
		f, ok := toFloat(rv)
		if !ok {
			return nil, fmt.Errorf("Float cannot represent non numeric value: %v", rv.Interface())
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("Float cannot represent non numeric value: %v", f)
		}
		return graphql.MarshalFloat(f), nil
	case "String":
		switch rv.Kind() {
		case reflect.String:
			return graphql.MarshalString(rv.String()), nil
		case reflect.Bool:
			return graphql.MarshalString(strconv.FormatBool(rv.Bool())), nil
		}
		if i, ok := toInt(rv); ok {
			return graphql.MarshalString(strconv.FormatInt(i, 10)), nil
		}
		if f, ok := toFloat(rv); ok {
			return graphql.MarshalString(strconv.FormatFloat(f, 'f', -1, 64)), nil
		}
		return nil, fmt.Errorf("String cannot represent value: %v", rv.Interface())
	case "ID":
		if rv.Kind() == reflect.String {
			return graphql.MarshalString(rv.String()), nil
		}
		if i, ok := toInt(rv); ok {
			return graphql.MarshalString(strconv.FormatInt(i, 10)), nil
		}
		return nil, fmt.Errorf("ID cannot represent value: %v", rv.Interface())
	case "Boolean":
		if rv.Kind() != reflect.Bool {
			return nil, fmt.Errorf("Boolean cannot represent a non boolean value: %v", rv.Interface())
		}
		return graphql.MarshalBoolean(rv.Bool()), nil
	}

	// custom scalars are passed through as JSON
	return graphql.MarshalAny(rv.Interface()), nil
}

func toInt(rv reflect.Value) (int64, bool) {
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if f != math.Trunc(f) || f > math.MaxInt32 || f < math.MinInt32 {
			return 0, false
		}
		return int64(f), true
	case reflect.String:
		if n, ok := rv.Interface().(json.Number); ok {
			i, err := n.Int64()
			return i, err == nil
		}
	}
	return 0, false
}

func toFloat(rv reflect.Value) (float64, bool) {
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.String:
		if n, ok := rv.Interface().(json.Number); ok {
			f, err := n.Float64()
			return f, err == nil
		}
	}
	return 0, false
}

// If a resolve function is not given, the default resolver reads the property
// of the source named after the field: a map key, or a struct field by its
// json tag. Thunk properties are called with the field arguments.
func defaultFieldResolver(p ResolveParams) (interface{}, error) {
	property, ok := lookupProperty(p.Source, p.Field.Name)
	if !ok {
		return nil, nil
	}
	if thunk, ok := property.(Thunk); ok {
		return thunk(p.Args), nil
	}
	return property, nil
}

func lookupProperty(source interface{}, name string) (interface{}, bool) {
	switch source := source.(type) {
	case nil:
		return nil, false
	case map[string]interface{}:
		v, ok := source[name]
		return v, ok
	}

	rv := reflect.ValueOf(source)
	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, false
	}

	index, ok := structFields(rv.Type())[name]
	if !ok {
		return nil, false
	}
	fv, err := rv.FieldByIndexErr(index)
	if err != nil {
		// nil embedded pointer
		return nil, false
	}
	return fv.Interface(), true
}

var fieldCache sync.Map // map[reflect.Type]map[string][]int

// structFields maps json names to field indexes. Shallower fields win, the
// same way encoding/json resolves embedded structs.
func structFields(typ reflect.Type) map[string][]int {
	if cached, ok := fieldCache.Load(typ); ok {
		return cached.(map[string][]int)
	}

	fields := make(map[string][]int)
	for _, f := range reflect.VisibleFields(typ) {
		if f.Anonymous || !f.IsExported() {
			continue
		}
		name := f.Name
		if tag, ok := f.Tag.Lookup("json"); ok {
			tagName, _, _ := strings.Cut(tag, ",")
			if tagName == "-" {
				continue
			}
			if tagName != "" {
				name = tagName
			}
		}
		if prev, ok := fields[name]; ok && len(prev) <= len(f.Index) {
			continue
		}
		fields[name] = f.Index
	}

	cached, _ := fieldCache.LoadOrStore(typ, fields)
	return cached.(map[string][]int)
}
