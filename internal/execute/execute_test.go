package execute

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/MakeNowJust/heredoc/v2"
	testlogr "github.com/go-logr/logr/testing"
	"github.com/google/go-cmp/cmp"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vvakame/shopgate/internal/gqlerrors"
	"github.com/vvakame/shopgate/internal/gqlfun"
	"github.com/vvakame/shopgate/internal/log"
	"github.com/vvakame/shopgate/internal/upstream"
)

const testSchema = `
type Query {
  product(id: ID!): Product
  products: [Product!]!
  broken: Product
  panicky: String
  search(term: String = "all"): [SearchResult!]!
  version: String!
}

type Mutation {
  first: Int!
  second: Int!
}

type Product {
  id: ID!
  name: String!
  price: Float
  stock: Int
  tags: [String!]
  status: Status
  seller: Seller
  sellerName: String!
}

type Seller {
  id: ID!
  name: String
}

enum Status {
  ACTIVE
  INACTIVE
}

union SearchResult = Product | Seller
`

type testSeller struct {
	ID   string  `json:"id"`
	Name *string `json:"name"`
}

type testProduct struct {
	ID     string      `json:"id"`
	Name   string      `json:"name"`
	Price  *float64    `json:"price"`
	Stock  *int        `json:"stock"`
	Tags   []string    `json:"tags"`
	Status string      `json:"status"`
	Seller *testSeller `json:"seller"`
	Secret string      `json:"-"`
}

func (testProduct) GraphQLTypeName() string { return "Product" }

type ctxKey struct{}

func newTestExecutor(t *testing.T, resolvers ResolverMap, opts ...Option) *Executor {
	t.Helper()

	schema := gqlparser.MustLoadSchema(&ast.Source{Name: "test.graphqls", Input: testSchema})
	return New(schema, resolvers, opts...)
}

func execute(t *testing.T, es *Executor, query string, variables map[string]interface{}) (interface{}, gqlerror.List) {
	t.Helper()

	ctx := log.WithLogger(context.Background(), testlogr.NewTestLogger(t))
	resp := gqlfun.Execute(ctx, es, query, variables)
	if resp == nil {
		t.Fatal("response is nil")
	}

	var data interface{}
	if len(resp.Data) != 0 {
		if err := json.Unmarshal(resp.Data, &data); err != nil {
			t.Fatalf("invalid data %s: %v", resp.Data, err)
		}
	}
	return data, resp.Errors
}

func decodeJSON(t *testing.T, s string) interface{} {
	t.Helper()

	var v interface{}
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		t.Fatal(err)
	}
	return v
}

func TestExecutor_DefaultResolver(t *testing.T) {
	price := 12.5
	stock := 3
	es := newTestExecutor(t, ResolverMap{
		"Query": {
			"product": func(ctx context.Context, p ResolveParams) (interface{}, error) {
				return &testProduct{
					ID:     p.StringArg("id"),
					Name:   "Desk",
					Price:  &price,
					Stock:  &stock,
					Tags:   []string{"wood", "office"},
					Status: "ACTIVE",
					Secret: "hidden",
				}, nil
			},
		},
	})

	data, gErrs := execute(t, es, heredoc.Doc(`
		query ($id: ID!) {
			product(id: $id) {
				__typename
				id
				title: name
				price
				stock
				tags
				status
				seller { id }
			}
		}
	`), map[string]interface{}{"id": "p1"})
	if len(gErrs) != 0 {
		t.Fatal(gErrs)
	}

	expected := decodeJSON(t, `{
		"product": {
			"__typename": "Product",
			"id": "p1",
			"title": "Desk",
			"price": 12.5,
			"stock": 3,
			"tags": ["wood", "office"],
			"status": "ACTIVE",
			"seller": null
		}
	}`)
	if diff := cmp.Diff(expected, data); diff != "" {
		t.Errorf("unexpected data (-want +got):\n%s", diff)
	}
}

func TestExecutor_KeepsSelectionOrder(t *testing.T) {
	es := newTestExecutor(t, ResolverMap{
		"Query": {
			"product": func(ctx context.Context, p ResolveParams) (interface{}, error) {
				return map[string]interface{}{"id": "p1", "name": "Desk"}, nil
			},
			"version": func(ctx context.Context, p ResolveParams) (interface{}, error) {
				return "v1", nil
			},
		},
	})

	ctx := context.Background()
	resp := gqlfun.Execute(ctx, es, `{ version product(id: "p1") { name id } }`, nil)
	if len(resp.Errors) != 0 {
		t.Fatal(resp.Errors)
	}
	if v := string(resp.Data); v != `{"version":"v1","product":{"name":"Desk","id":"p1"}}` {
		t.Errorf("unexpected: %s", v)
	}
}

func TestExecutor_FieldErrors(t *testing.T) {
	es := newTestExecutor(t, ResolverMap{
		"Query": {
			"product": func(ctx context.Context, p ResolveParams) (interface{}, error) {
				return &testProduct{ID: "p1", Name: "Desk"}, nil
			},
			"broken": func(ctx context.Context, p ResolveParams) (interface{}, error) {
				return nil, &upstream.Error{Service: "product", StatusCode: 404, Message: "Product not found"}
			},
			"panicky": func(ctx context.Context, p ResolveParams) (interface{}, error) {
				var m map[string]string
				m["boom"] = "boom"
				return nil, nil
			},
			"version": func(ctx context.Context, p ResolveParams) (interface{}, error) {
				return "v1", nil
			},
		},
		"Product": {
			"sellerName": func(ctx context.Context, p ResolveParams) (interface{}, error) {
				return nil, errors.New("seller lookup exploded")
			},
		},
	})

	data, gErrs := execute(t, es, heredoc.Doc(`
		{
			broken { id }
			panicky
			product(id: "p1") { id sellerName }
			version
		}
	`), nil)

	expected := decodeJSON(t, `{
		"broken": null,
		"panicky": null,
		"product": null,
		"version": "v1"
	}`)
	if diff := cmp.Diff(expected, data); diff != "" {
		t.Errorf("unexpected data (-want +got):\n%s", diff)
	}

	if len(gErrs) != 3 {
		t.Fatalf("unexpected errors: %v", gErrs)
	}

	// sorted by path
	var paths []string
	for _, gErr := range gErrs {
		paths = append(paths, gErr.Path.String())
	}
	if diff := cmp.Diff([]string{"broken", "panicky", "product.sellerName"}, paths); diff != "" {
		t.Errorf("unexpected error paths (-want +got):\n%s", diff)
	}

	if v := gErrs[0].Message; v != "Product not found" {
		t.Errorf("unexpected message: %s", v)
	}
	if v := gqlerrors.Code(gErrs[0]); v != gqlerrors.CodeNotFound {
		t.Errorf("unexpected code: %s", v)
	}
	if len(gErrs[0].Locations) != 1 || gErrs[0].Locations[0].Line != 2 {
		t.Errorf("unexpected locations: %v", gErrs[0].Locations)
	}

	if v := gqlerrors.Code(gErrs[1]); v != gqlerrors.CodeInternal {
		t.Errorf("unexpected code: %s", v)
	}

	if v := gErrs[2].Message; v != "Internal server error" {
		t.Errorf("unexpected message: %s", v)
	}
}

func TestExecutor_NullInNonNullList(t *testing.T) {
	es := newTestExecutor(t, ResolverMap{
		"Query": {
			"products": func(ctx context.Context, p ResolveParams) (interface{}, error) {
				return []*testProduct{{ID: "p1", Name: "Desk"}, nil}, nil
			},
		},
	})

	data, gErrs := execute(t, es, `{ products { id } }`, nil)
	if data != nil {
		t.Errorf("data must be null: %v", data)
	}
	if len(gErrs) != 1 {
		t.Fatalf("unexpected errors: %v", gErrs)
	}
	if v := gErrs[0].Message; v != "Cannot return null for non-nullable field Query.products." {
		t.Errorf("unexpected message: %s", v)
	}
	if v := gErrs[0].Path.String(); v != "products[1]" {
		t.Errorf("unexpected path: %s", v)
	}
}

func TestExecutor_MutationsRunSerially(t *testing.T) {
	var mu sync.Mutex
	var calls []string
	record := func(name string, v int) FieldResolveFn {
		return func(ctx context.Context, p ResolveParams) (interface{}, error) {
			mu.Lock()
			defer mu.Unlock()
			calls = append(calls, name)
			return v, nil
		}
	}
	es := newTestExecutor(t, ResolverMap{
		"Mutation": {
			"first":  record("first", 1),
			"second": record("second", 2),
		},
	})

	data, gErrs := execute(t, es, `mutation { b: second a: first c: second }`, nil)
	if len(gErrs) != 0 {
		t.Fatal(gErrs)
	}
	if diff := cmp.Diff(decodeJSON(t, `{"b":2,"a":1,"c":2}`), data); diff != "" {
		t.Errorf("unexpected data (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"second", "first", "second"}, calls); diff != "" {
		t.Errorf("unexpected call order (-want +got):\n%s", diff)
	}
}

func TestExecutor_AbstractTypes(t *testing.T) {
	es := newTestExecutor(t, ResolverMap{
		"Query": {
			"search": func(ctx context.Context, p ResolveParams) (interface{}, error) {
				name := "Acme"
				return []interface{}{
					&testProduct{ID: p.StringArg("term"), Name: "Desk"},
					map[string]interface{}{"__typename": "Seller", "id": "s1", "name": name},
				}, nil
			},
		},
	})

	data, gErrs := execute(t, es, heredoc.Doc(`
		{
			search {
				__typename
				... on Product { id name }
				... on Seller { id sellerName: name }
			}
		}
	`), nil)
	if len(gErrs) != 0 {
		t.Fatal(gErrs)
	}

	expected := decodeJSON(t, `{
		"search": [
			{"__typename": "Product", "id": "all", "name": "Desk"},
			{"__typename": "Seller", "id": "s1", "sellerName": "Acme"}
		]
	}`)
	if diff := cmp.Diff(expected, data); diff != "" {
		t.Errorf("unexpected data (-want +got):\n%s", diff)
	}
}

func TestExecutor_LeafValidation(t *testing.T) {
	es := newTestExecutor(t, ResolverMap{
		"Query": {
			"product": func(ctx context.Context, p ResolveParams) (interface{}, error) {
				return map[string]interface{}{"id": 42, "name": "Desk", "status": "archived", "stock": 1.5}, nil
			},
		},
	})

	data, gErrs := execute(t, es, `{ product(id: "p1") { id status stock } }`, nil)

	expected := decodeJSON(t, `{"product": {"id": "42", "status": null, "stock": null}}`)
	if diff := cmp.Diff(expected, data); diff != "" {
		t.Errorf("unexpected data (-want +got):\n%s", diff)
	}
	if len(gErrs) != 2 {
		t.Fatalf("unexpected errors: %v", gErrs)
	}
	if v := gErrs[0].Path.String(); v != "product.status" {
		t.Errorf("unexpected path: %s", v)
	}
	if v := gErrs[1].Path.String(); v != "product.stock" {
		t.Errorf("unexpected path: %s", v)
	}
}

func TestExecutor_ContextHook(t *testing.T) {
	es := newTestExecutor(t, ResolverMap{
		"Query": {
			"version": func(ctx context.Context, p ResolveParams) (interface{}, error) {
				v, _ := ctx.Value(ctxKey{}).(string)
				return v, nil
			},
		},
	}, WithContextHook(func(ctx context.Context) context.Context {
		return context.WithValue(ctx, ctxKey{}, "hooked")
	}))

	data, gErrs := execute(t, es, `{ version }`, nil)
	if len(gErrs) != 0 {
		t.Fatal(gErrs)
	}
	if diff := cmp.Diff(decodeJSON(t, `{"version":"hooked"}`), data); diff != "" {
		t.Errorf("unexpected data (-want +got):\n%s", diff)
	}
}

func TestExecutor_Introspection(t *testing.T) {
	es := newTestExecutor(t, ResolverMap{})

	data, gErrs := execute(t, es, heredoc.Doc(`
		{
			__schema {
				queryType { name }
				mutationType { name }
				subscriptionType { name }
			}
			status: __type(name: "Status") {
				kind
				name
				enumValues { name }
			}
			result: __type(name: "SearchResult") {
				possibleTypes { name }
			}
			product: __type(name: "Product") {
				fields(includeDeprecated: true) {
					name
					type { kind name ofType { kind name } }
				}
			}
			missing: __type(name: "Missing") { name }
		}
	`), nil)
	if len(gErrs) != 0 {
		t.Fatal(gErrs)
	}

	expected := decodeJSON(t, `{
		"__schema": {
			"queryType": {"name": "Query"},
			"mutationType": {"name": "Mutation"},
			"subscriptionType": null
		},
		"status": {
			"kind": "ENUM",
			"name": "Status",
			"enumValues": [{"name": "ACTIVE"}, {"name": "INACTIVE"}]
		},
		"result": {
			"possibleTypes": [{"name": "Product"}, {"name": "Seller"}]
		},
		"product": {
			"fields": [
				{"name": "id", "type": {"kind": "NON_NULL", "name": null, "ofType": {"kind": "SCALAR", "name": "ID"}}},
				{"name": "name", "type": {"kind": "NON_NULL", "name": null, "ofType": {"kind": "SCALAR", "name": "String"}}},
				{"name": "price", "type": {"kind": "SCALAR", "name": "Float", "ofType": null}},
				{"name": "stock", "type": {"kind": "SCALAR", "name": "Int", "ofType": null}},
				{"name": "tags", "type": {"kind": "LIST", "name": null, "ofType": {"kind": "NON_NULL", "name": null}}},
				{"name": "status", "type": {"kind": "ENUM", "name": "Status", "ofType": null}},
				{"name": "seller", "type": {"kind": "OBJECT", "name": "Seller", "ofType": null}},
				{"name": "sellerName", "type": {"kind": "NON_NULL", "name": null, "ofType": {"kind": "SCALAR", "name": "String"}}}
			]
		},
		"missing": null
	}`)
	if diff := cmp.Diff(expected, data); diff != "" {
		t.Errorf("unexpected data (-want +got):\n%s", diff)
	}
}

func TestResolveParams_DecodeArgs(t *testing.T) {
	type input struct {
		Name  string   `json:"name"`
		Price *float64 `json:"price,omitempty"`
		Tags  []string `json:"tags,omitempty"`
	}

	p := ResolveParams{Args: map[string]interface{}{
		"id": "p1",
		"input": map[string]interface{}{
			"name":  "Desk",
			"price": 10,
			"tags":  []interface{}{"wood"},
		},
	}}

	var in input
	if err := p.DecodeArg("input", &in); err != nil {
		t.Fatal(err)
	}
	price := 10.0
	if diff := cmp.Diff(input{Name: "Desk", Price: &price, Tags: []string{"wood"}}, in); diff != "" {
		t.Errorf("unexpected input (-want +got):\n%s", diff)
	}

	untouched := input{Name: "keep"}
	if err := p.DecodeArg("missing", &untouched); err != nil {
		t.Fatal(err)
	}
	if untouched.Name != "keep" {
		t.Errorf("unexpected: %v", untouched)
	}

	if v := p.StringArg("id"); v != "p1" {
		t.Errorf("unexpected: %s", v)
	}
}
