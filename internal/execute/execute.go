// Package execute runs GraphQL operations against a schema and a map of field
// resolvers. It follows the GraphQL "Execution" algorithms
// and is served through gqlgen's transport as a graphql.ExecutableSchema.
package execute

import (
	"bytes"
	"context"
	"fmt"
	"reflect"
	"runtime/debug"
	"sort"
	"sync"

	"github.com/99designs/gqlgen/graphql"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vvakame/shopgate/internal/gqlerrors"
	"github.com/vvakame/shopgate/internal/log"
	"github.com/vvakame/shopgate/internal/utils"
)

var _ graphql.ExecutableSchema = (*Executor)(nil)

type Executor struct {
	schema    *ast.Schema
	resolvers ResolverMap
	hooks     []func(ctx context.Context) context.Context
}

type Option func(e *Executor)

// WithContextHook runs f once per operation before any field is resolved.
// Per-operation state such as loaders is installed this way.
func WithContextHook(f func(ctx context.Context) context.Context) Option {
	return func(e *Executor) {
		e.hooks = append(e.hooks, f)
	}
}

func New(schema *ast.Schema, resolvers ResolverMap, opts ...Option) *Executor {
	e := &Executor{
		schema:    schema,
		resolvers: resolvers,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Executor) Schema() *ast.Schema {
	return e.schema
}

func (e *Executor) Complexity(typeName, fieldName string, childComplexity int, args map[string]interface{}) (int, bool) {
	return 0, false
}

func (e *Executor) Exec(ctx context.Context) graphql.ResponseHandler {
	var mu sync.Mutex
	done := false

	return func(ctx context.Context) *graphql.Response {
		mu.Lock()
		defer mu.Unlock()
		if done {
			return nil
		}
		done = true

		return e.Execute(ctx, graphql.GetOperationContext(ctx))
	}
}

// Execute runs the operation of opCtx. Field errors are reported in the
// response; they never abort sibling fields.
func (e *Executor) Execute(ctx context.Context, opCtx *graphql.OperationContext) *graphql.Response {
	for _, hook := range e.hooks {
		ctx = hook(ctx)
	}

	exeContext := &executionContext{
		Executor: e,
		opCtx:    opCtx,
	}
	exeContext.introspection = newIntrospector(e.schema)

	data, gErr := exeContext.executeOperation(ctx, opCtx.Operation)
	if gErr != nil {
		return &graphql.Response{Errors: gqlerror.List{gErr}}
	}

	var buf bytes.Buffer
	data.MarshalGQL(&buf)

	return &graphql.Response{
		Data:   buf.Bytes(),
		Errors: exeContext.sortedErrors(),
	}
}

type executionContext struct {
	*Executor
	opCtx         *graphql.OperationContext
	introspection *introspector

	mu     sync.Mutex
	errors gqlerror.List
}

func (ec *executionContext) addError(gErr *gqlerror.Error) {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	ec.errors = append(ec.errors, gErr)
}

func (ec *executionContext) sortedErrors() gqlerror.List {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	if len(ec.errors) == 0 {
		return nil
	}
	list := append(gqlerror.List(nil), ec.errors...)
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Path.String() < list[j].Path.String()
	})
	return list
}

// Implements the "Executing operations" algorithm of GraphQL.
func (ec *executionContext) executeOperation(ctx context.Context, operation *ast.OperationDefinition) (graphql.Marshaler, *gqlerror.Error) {
	if operation == nil {
		return nil, gqlerror.Errorf("must provide an operation")
	}

	var typ *ast.Definition
	switch operation.Operation {
	case ast.Query:
		typ = ec.schema.Query
	case ast.Mutation:
		typ = ec.schema.Mutation
	case ast.Subscription:
		return nil, gqlerror.ErrorPosf(operation.Position, "subscriptions are not supported")
	}
	if typ == nil {
		return nil, gqlerror.ErrorPosf(operation.Position, "schema is not configured for %s operations", operation.Operation)
	}

	fields := graphql.CollectFields(ec.opCtx, operation.SelectionSet, []string{typ.Name})

	// Errors from sub-fields of a NonNull type may propagate to the top level,
	// at which point the error is recorded and data becomes null.
	data, gErr := ec.executeFields(ctx, typ, nil, fields, nil, operation.Operation == ast.Mutation)
	if gErr != nil {
		ec.addError(gErr)
		return graphql.Null, nil
	}
	return data, nil
}

// Implements the "Executing selection sets" algorithm of GraphQL. Mutation
// root fields run serially, everything else runs concurrently.
func (ec *executionContext) executeFields(ctx context.Context, parentType *ast.Definition, source interface{}, fields []graphql.CollectedField, path ast.Path, serially bool) (graphql.Marshaler, *gqlerror.Error) {
	out := &orderedObject{
		keys:   make([]string, len(fields)),
		values: make([]graphql.Marshaler, len(fields)),
	}
	errs := make([]*gqlerror.Error, len(fields))

	run := func(i int) {
		field := fields[i]
		out.keys[i] = field.Alias
		out.values[i], errs[i] = ec.executeField(ctx, parentType, source, field, appendPath(path, ast.PathName(field.Alias)))
	}

	var wg sync.WaitGroup
	for i, field := range fields {
		if serially || ec.resolvers.lookup(parentType.Name, field.Name) == nil {
			run(i)
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			run(i)
		}()
	}
	wg.Wait()

	for _, gErr := range errs {
		if gErr != nil {
			return nil, gErr
		}
	}
	return out, nil
}

// Implements the "Executing field" algorithm of GraphQL. The returned error
// is non-nil only when a null has to propagate to the parent.
func (ec *executionContext) executeField(ctx context.Context, parentType *ast.Definition, source interface{}, field graphql.CollectedField, path ast.Path) (graphql.Marshaler, *gqlerror.Error) {
	if field.Name == "__typename" {
		return graphql.MarshalString(parentType.Name), nil
	}

	fieldDef := field.Definition
	if fieldDef == nil {
		return graphql.Null, locatedError(gqlerror.Errorf("unknown field %s.%s", parentType.Name, field.Name), field, path)
	}
	returnType := fieldDef.Type

	params := ResolveParams{
		Source:     source,
		Args:       field.ArgumentMap(ec.opCtx.Variables),
		Field:      field,
		ParentType: parentType,
		Path:       path,
	}

	result, err := ec.resolveField(ctx, params)
	if err != nil {
		return ec.handleFieldError(locatedError(err, field, path), returnType)
	}

	completed, gErr := ec.completeValue(ctx, returnType, field, result, path)
	if gErr != nil {
		return ec.handleFieldError(gErr, returnType)
	}
	return completed, nil
}

func (ec *executionContext) resolveField(ctx context.Context, p ResolveParams) (result interface{}, err error) {
	defer func() {
		if rv := recover(); rv != nil {
			log.FromContext(ctx).Error(fmt.Errorf("%v", rv), "resolver panicked", "path", p.Path.String(), "stack", string(debug.Stack()))
			result = nil
			err = gqlerrors.Internal()
		}
	}()

	if p.ParentType == ec.schema.Query {
		switch p.Field.Name {
		case "__schema", "__type":
			if ec.opCtx.DisableIntrospection {
				return nil, gqlerror.Errorf("introspection disabled")
			}
			if p.Field.Name == "__schema" {
				return ec.introspection.schemaValue(), nil
			}
			name, _ := p.Args["name"].(string)
			return ec.introspection.typeValue(name), nil
		}
	}

	if resolve := ec.resolvers.lookup(p.ParentType.Name, p.Field.Name); resolve != nil {
		return resolve(ctx, p)
	}
	return defaultFieldResolver(p)
}

// A field error nulls the field when it is nullable and propagates otherwise.
func (ec *executionContext) handleFieldError(gErr *gqlerror.Error, returnType *ast.Type) (graphql.Marshaler, *gqlerror.Error) {
	if returnType.NonNull {
		return nil, gErr
	}
	ec.addError(gErr)
	return graphql.Null, nil
}

// Implements the instructions for completeValue as defined in the
// "Value Completion" algorithm of GraphQL.
func (ec *executionContext) completeValue(ctx context.Context, returnType *ast.Type, field graphql.CollectedField, result interface{}, path ast.Path) (graphql.Marshaler, *gqlerror.Error) {
	if returnType.NonNull {
		inner := *returnType
		inner.NonNull = false
		completed, gErr := ec.completeValue(ctx, &inner, field, result, path)
		if gErr != nil {
			return nil, gErr
		}
		if completed == graphql.Null {
			return nil, locatedError(gqlerror.Errorf("Cannot return null for non-nullable field %s.%s.", field.ObjectDefinition.Name, field.Name), field, path)
		}
		return completed, nil
	}

	if isNil(result) {
		return graphql.Null, nil
	}

	if returnType.Elem != nil {
		return ec.completeListValue(ctx, returnType, field, result, path)
	}

	def := ec.schema.Types[returnType.NamedType]
	if def == nil {
		return nil, locatedError(gqlerror.Errorf("unknown type %s", returnType.NamedType), field, path)
	}

	switch def.Kind {
	case ast.Scalar, ast.Enum:
		m, err := completeLeafValue(def, result)
		if err != nil {
			return nil, locatedError(err, field, path)
		}
		return m, nil
	case ast.Interface, ast.Union:
		runtimeType, err := ec.resolveRuntimeType(def, result)
		if err != nil {
			return nil, locatedError(err, field, path)
		}
		return ec.completeObjectValue(ctx, runtimeType, field, result, path)
	case ast.Object:
		return ec.completeObjectValue(ctx, def, field, result, path)
	}

	return nil, locatedError(gqlerror.Errorf("cannot complete value of unexpected output type: %s", returnType.String()), field, path)
}

// Complete a list value by completing each item in the list with the inner
// type. Object items complete concurrently so per-item lookups can batch.
func (ec *executionContext) completeListValue(ctx context.Context, returnType *ast.Type, field graphql.CollectedField, result interface{}, path ast.Path) (graphql.Marshaler, *gqlerror.Error) {
	rv := reflect.ValueOf(result)
	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, locatedError(gqlerror.Errorf("expected a list for field %s.%s, got %T", field.ObjectDefinition.Name, field.Name, result), field, path)
	}

	itemType := returnType.Elem
	concurrent := !ec.isLeafType(itemType)

	ret := make(graphql.Array, rv.Len())
	errs := make([]*gqlerror.Error, rv.Len())
	complete := func(index int) {
		itemPath := appendPath(path, ast.PathIndex(index))
		item := rv.Index(index).Interface()
		completed, gErr := ec.completeValue(ctx, itemType, field, item, itemPath)
		if gErr != nil {
			completed, gErr = ec.handleFieldError(gErr, itemType)
		}
		ret[index], errs[index] = completed, gErr
	}

	var wg sync.WaitGroup
	for index := 0; index < rv.Len(); index++ {
		if !concurrent {
			complete(index)
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			complete(index)
		}()
	}
	wg.Wait()

	for _, gErr := range errs {
		if gErr != nil {
			return nil, gErr
		}
	}
	return ret, nil
}

func (ec *executionContext) isLeafType(typ *ast.Type) bool {
	def := ec.schema.Types[utils.NamedType(typ)]
	return def != nil && utils.IsLeafType(def)
}

// Complete an Object value by executing all sub-selections.
func (ec *executionContext) completeObjectValue(ctx context.Context, def *ast.Definition, field graphql.CollectedField, result interface{}, path ast.Path) (graphql.Marshaler, *gqlerror.Error) {
	subFields := graphql.CollectFields(ec.opCtx, field.Selections, []string{def.Name})
	return ec.executeFields(ctx, def, result, subFields, path, false)
}

// TypeNamer lets values of abstract types report their concrete type.
type TypeNamer interface {
	GraphQLTypeName() string
}

func (ec *executionContext) resolveRuntimeType(abstract *ast.Definition, result interface{}) (*ast.Definition, *gqlerror.Error) {
	var name string
	switch v := result.(type) {
	case TypeNamer:
		name = v.GraphQLTypeName()
	case map[string]interface{}:
		name, _ = v["__typename"].(string)
	}
	if name == "" {
		return nil, gqlerror.Errorf("abstract type %s must resolve to an Object type at runtime", abstract.Name)
	}

	runtimeType := ec.schema.Types[name]
	if runtimeType == nil || runtimeType.Kind != ast.Object {
		return nil, gqlerror.Errorf("abstract type %s was resolved to a non-object type %s", abstract.Name, name)
	}
	if !utils.IsPossibleType(ec.schema, abstract, runtimeType) {
		return nil, gqlerror.Errorf("runtime Object type %s is not a possible type for %s", name, abstract.Name)
	}
	return runtimeType, nil
}

// locatedError attaches path and source location to err, translating
// anything that is not already a GraphQL error.
func locatedError(err error, field graphql.CollectedField, path ast.Path) *gqlerror.Error {
	gErr := *gqlerrors.Translate(err)
	gErr.Path = path
	if field.Field != nil && field.Position != nil {
		gErr.Locations = []gqlerror.Location{{Line: field.Position.Line, Column: field.Position.Column}}
	}
	return &gErr
}

func appendPath(path ast.Path, elem ast.PathElement) ast.Path {
	next := make(ast.Path, len(path), len(path)+1)
	copy(next, path)
	return append(next, elem)
}

func isNil(v interface{}) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func:
		return rv.IsNil()
	}
	return false
}
