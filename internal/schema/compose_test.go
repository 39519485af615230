package schema

import (
	"context"
	"encoding/json"
	"strings"
	"sync/atomic"
	"testing"

	testlogr "github.com/go-logr/logr/testing"
	"github.com/google/go-cmp/cmp"
	"github.com/vvakame/shopgate/internal/auth"
	"github.com/vvakame/shopgate/internal/execute"
	"github.com/vvakame/shopgate/internal/gqlerrors"
	"github.com/vvakame/shopgate/internal/gqlfun"
	"github.com/vvakame/shopgate/internal/log"
	"github.com/vvakame/shopgate/internal/testutils"
	"github.com/vvakame/shopgate/internal/upstream"
)

type item struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func catalogModule(calls *int32) *Module {
	return &Module{
		Name: "catalog",
		TypeDefs: `
			type Item {
				id: ID!
				name: String
			}

			extend type Query {
				items: [Item!]!
				item(id: ID!): Item
			}
		`,
		Resolvers: Resolvers{
			"Query": {
				"items": {
					Resolve: func(ctx context.Context, p execute.ResolveParams) (interface{}, error) {
						atomic.AddInt32(calls, 1)
						return []*item{{ID: "i1", Name: "Desk"}, {ID: "i2", Name: "Lamp"}}, nil
					},
				},
				"item": {
					Resolve: func(ctx context.Context, p execute.ResolveParams) (interface{}, error) {
						atomic.AddInt32(calls, 1)
						return nil, &upstream.Error{Service: "catalog", StatusCode: 404, Message: "Item not found"}
					},
				},
			},
		},
	}
}

func basketModule(calls *int32) *Module {
	return &Module{
		Name: "basket",
		TypeDefs: `
			type Basket {
				count: Int!
			}

			extend type Query {
				basket: Basket!
			}

			extend type Mutation {
				addToBasket(id: ID!): Boolean!
			}
		`,
		Resolvers: Resolvers{
			"Query": {
				"basket": {
					Auth:   true,
					Policy: gqlerrors.BestEffort,
					Resolve: func(ctx context.Context, p execute.ResolveParams) (interface{}, error) {
						atomic.AddInt32(calls, 1)
						return nil, &upstream.Error{Service: "basket", StatusCode: 503}
					},
					Fallback: func(p execute.ResolveParams) interface{} {
						return map[string]interface{}{"count": 0}
					},
				},
			},
			"Mutation": {
				"addToBasket": {
					Auth: true,
					Resolve: func(ctx context.Context, p execute.ResolveParams) (interface{}, error) {
						atomic.AddInt32(calls, 1)
						return p.StringArg("id") == "i1", nil
					},
				},
			},
		},
	}
}

func testContext(t *testing.T, token string) context.Context {
	ctx := log.WithLogger(context.Background(), testlogr.NewTestLogger(t))
	if token != "" {
		ctx = auth.WithRequestContext(ctx, auth.RequestContext{Token: &token})
	}
	return ctx
}

func TestCompose(t *testing.T) {
	var calls int32
	composed, err := Compose(catalogModule(&calls), basketModule(&calls))
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff([]string{"catalog", "basket"}, composed.Modules()); diff != "" {
		t.Errorf("unexpected modules (-want +got):\n%s", diff)
	}

	es := composed.Executor()

	t.Run("query", func(t *testing.T) {
		resp := gqlfun.Execute(testContext(t, ""), es, `{ items { id name } item(id: "x") { id } }`, nil)

		var data interface{}
		if err := json.Unmarshal(resp.Data, &data); err != nil {
			t.Fatal(err)
		}
		expected := map[string]interface{}{
			"items": []interface{}{
				map[string]interface{}{"id": "i1", "name": "Desk"},
				map[string]interface{}{"id": "i2", "name": "Lamp"},
			},
			"item": nil,
		}
		if diff := cmp.Diff(expected, data); diff != "" {
			t.Errorf("unexpected data (-want +got):\n%s", diff)
		}

		if len(resp.Errors) != 1 {
			t.Fatalf("unexpected errors: %v", resp.Errors)
		}
		if v := gqlerrors.Code(resp.Errors[0]); v != gqlerrors.CodeNotFound {
			t.Errorf("unexpected code: %s", v)
		}
		if v := resp.Errors[0].Message; v != "Item not found" {
			t.Errorf("unexpected message: %s", v)
		}
	})

	t.Run("gated without token", func(t *testing.T) {
		atomic.StoreInt32(&calls, 0)

		resp := gqlfun.Execute(testContext(t, ""), es, `mutation { addToBasket(id: "i1") }`, nil)
		if string(resp.Data) != "null" {
			t.Errorf("unexpected data: %s", resp.Data)
		}
		if len(resp.Errors) != 1 || gqlerrors.Code(resp.Errors[0]) != gqlerrors.CodeUnauthenticated {
			t.Fatalf("unexpected errors: %v", resp.Errors)
		}
		if v := atomic.LoadInt32(&calls); v != 0 {
			t.Errorf("resolver must not run, called %d times", v)
		}
	})

	t.Run("best effort is not applied to missing token", func(t *testing.T) {
		atomic.StoreInt32(&calls, 0)

		resp := gqlfun.Execute(testContext(t, ""), es, `{ basket { count } }`, nil)
		if len(resp.Errors) != 1 || gqlerrors.Code(resp.Errors[0]) != gqlerrors.CodeUnauthenticated {
			t.Fatalf("unexpected errors: %v", resp.Errors)
		}
		if v := atomic.LoadInt32(&calls); v != 0 {
			t.Errorf("resolver must not run, called %d times", v)
		}
	})

	t.Run("best effort degrades", func(t *testing.T) {
		resp := gqlfun.Execute(testContext(t, "token"), es, `{ basket { count } }`, nil)
		if len(resp.Errors) != 0 {
			t.Fatal(resp.Errors)
		}
		if v := string(resp.Data); v != `{"basket":{"count":0}}` {
			t.Errorf("unexpected data: %s", v)
		}
	})

	t.Run("gated with token", func(t *testing.T) {
		resp := gqlfun.Execute(testContext(t, "token"), es, `mutation { addToBasket(id: "i1") }`, nil)
		if len(resp.Errors) != 0 {
			t.Fatal(resp.Errors)
		}
		if v := string(resp.Data); v != `{"addToBasket":true}` {
			t.Errorf("unexpected data: %s", v)
		}
	})
}

func TestCompose_Conflicts(t *testing.T) {
	noop := func(ctx context.Context, p execute.ResolveParams) (interface{}, error) {
		return nil, nil
	}
	queryModule := func(name, typeDefs string, resolvers Resolvers) *Module {
		return &Module{Name: name, TypeDefs: typeDefs, Resolvers: resolvers}
	}

	tests := []struct {
		name    string
		modules []*Module
		message string
	}{
		{
			name:    "no modules",
			message: "at least one module is required",
		},
		{
			name: "duplicated module",
			modules: []*Module{
				queryModule("a", `extend type Query { a: String }`, nil),
				queryModule("a", `extend type Query { b: String }`, nil),
			},
			message: "module a is registered twice",
		},
		{
			name: "duplicated type",
			modules: []*Module{
				queryModule("a", `type Item { id: ID! } extend type Query { a: Item }`, nil),
				queryModule("b", `type Item { id: ID! } extend type Query { b: Item }`, nil),
			},
			message: "type Item is defined by both module a and module b",
		},
		{
			name: "duplicated root field",
			modules: []*Module{
				queryModule("a", `extend type Query { me: String }`, nil),
				queryModule("b", `extend type Query { me: String }`, nil),
			},
			message: "field Query.me is declared by both module a and module b",
		},
		{
			name: "root type defined",
			modules: []*Module{
				queryModule("a", `type Query { me: String }`, nil),
			},
			message: "module a: type Query must be extended, not defined",
		},
		{
			name: "resolver registered twice",
			modules: []*Module{
				queryModule("a", `extend type Query { me: String }`, Resolvers{"Query": {"me": {Resolve: noop}}}),
				queryModule("b", `extend type Query { you: String }`, Resolvers{"Query": {"me": {Resolve: noop}}}),
			},
			message: "resolver Query.me is registered by both module a and module b",
		},
		{
			name: "unknown field",
			modules: []*Module{
				queryModule("a", `extend type Query { me: String }`, Resolvers{"Query": {"you": {Resolve: noop}}}),
			},
			message: "module a: resolver for unknown field Query.you",
		},
		{
			name: "unknown type",
			modules: []*Module{
				queryModule("a", `extend type Query { me: String }`, Resolvers{"User": {"name": {Resolve: noop}}}),
			},
			message: "module a: resolver for unknown type User",
		},
		{
			name: "best effort without fallback",
			modules: []*Module{
				queryModule("a", `extend type Query { me: String }`, Resolvers{"Query": {"me": {Resolve: noop, Policy: gqlerrors.BestEffort}}}),
			},
			message: "module a: best effort resolver Query.me needs a fallback",
		},
		{
			name: "missing resolve function",
			modules: []*Module{
				queryModule("a", `extend type Query { me: String }`, Resolvers{"Query": {"me": {}}}),
			},
			message: "module a: resolver Query.me has no resolve function",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compose(tt.modules...)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.message) {
				t.Errorf("unexpected error: %s", err)
			}
		})
	}
}

func TestComposed_SDL(t *testing.T) {
	var calls int32
	composed1, err := Compose(catalogModule(&calls), basketModule(&calls))
	if err != nil {
		t.Fatal(err)
	}
	composed2, err := Compose(basketModule(&calls), catalogModule(&calls))
	if err != nil {
		t.Fatal(err)
	}

	sdl := composed1.SDL()
	if sdl != composed2.SDL() {
		t.Errorf("SDL depends on module order:\n%s\n%s", sdl, composed2.SDL())
	}
	if strings.Contains(sdl, "__schema") || strings.Contains(sdl, "__Type") {
		t.Errorf("SDL must not contain introspection:\n%s", sdl)
	}
	for _, want := range []string{"type Query", "type Mutation", "addToBasket(id: ID!): Boolean!", "items: [Item!]!"} {
		if !strings.Contains(sdl, want) {
			t.Errorf("SDL must contain %q:\n%s", want, sdl)
		}
	}

	testutils.CheckGoldenFile(t, []byte(sdl), "./_testdata/expected/compose.graphqls")
}
