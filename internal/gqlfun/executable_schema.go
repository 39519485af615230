// Package gqlfun runs operations against a graphql.ExecutableSchema without
// the HTTP transport. It is used by tests.
package gqlfun

import (
	"context"
	"errors"

	"github.com/99designs/gqlgen/graphql"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vektah/gqlparser/v2/parser"
	"github.com/vektah/gqlparser/v2/validator"
)

func CreateOperationContext(ctx context.Context, schema *ast.Schema, query, operationName string, variables map[string]interface{}) (*graphql.OperationContext, gqlerror.List) {
	queryDoc, err := parser.ParseQuery(&ast.Source{
		Input:   query,
		BuiltIn: false,
	})
	if err != nil {
		var gErr *gqlerror.Error
		if errors.As(err, &gErr) {
			return nil, gqlerror.List{gErr}
		}
		return nil, gqlerror.List{gqlerror.Errorf("%s", err)}
	}
	gErrs := validator.Validate(schema, queryDoc)
	if len(gErrs) != 0 {
		return nil, gErrs
	}

	operation := queryDoc.Operations.ForName(operationName)
	if operation == nil {
		return nil, gqlerror.List{gqlerror.Errorf("operation %q not found", operationName)}
	}

	vars, err := validator.VariableValues(schema, operation, variables)
	if err != nil {
		return nil, gqlerror.List{gqlerror.Errorf("%s", err)}
	}

	oc := &graphql.OperationContext{
		RawQuery:             query,
		Variables:            vars,
		OperationName:        operationName,
		Doc:                  queryDoc,
		Operation:            operation,
		DisableIntrospection: false,
		RecoverFunc:          graphql.DefaultRecover,
		ResolverMiddleware: func(ctx context.Context, next graphql.Resolver) (res interface{}, err error) {
			return next(ctx)
		},
		Stats: graphql.Stats{},
	}

	return oc, nil
}

func Execute(ctx context.Context, es graphql.ExecutableSchema, query string, variables map[string]interface{}) *graphql.Response {
	return ExecuteOperation(ctx, es, query, "", variables)
}

func ExecuteOperation(ctx context.Context, es graphql.ExecutableSchema, query, operationName string, variables map[string]interface{}) *graphql.Response {
	oc, gErrs := CreateOperationContext(ctx, es.Schema(), query, operationName, variables)
	if len(gErrs) != 0 {
		return &graphql.Response{Errors: gErrs}
	}
	ctx = graphql.WithOperationContext(ctx, oc)
	ctx = graphql.WithResponseContext(ctx, graphql.DefaultErrorPresenter, graphql.DefaultRecover)

	rh := es.Exec(ctx)
	resp := rh(ctx)
	if gErrs := graphql.GetErrors(ctx); gErrs != nil {
		return &graphql.Response{Errors: gErrs}
	}
	return resp
}
