// Package resolver declares the domain modules of the gateway schema: one
// module per downstream concern, each with its SDL fragment and the
// resolvers for the fields it declares.
package resolver

import (
	"embed"
	"fmt"
	"strings"

	"github.com/vvakame/shopgate/internal/backend"
	"github.com/vvakame/shopgate/internal/execute"
	"github.com/vvakame/shopgate/internal/gqlerrors"
	"github.com/vvakame/shopgate/internal/schema"
)

//go:embed schema/*.graphqls
var typeDefsFS embed.FS

type Resolver struct {
	clients *backend.Clients
}

func New(clients *backend.Clients) *Resolver {
	return &Resolver{clients: clients}
}

// Modules returns every module in composition order.
func (r *Resolver) Modules() []*schema.Module {
	return []*schema.Module{
		commonModule(),
		r.userModule(),
		r.addressModule(),
		r.productModule(),
		r.reviewModule(),
		r.orderModule(),
		r.couponModule(),
		r.categoryModule(),
		r.statsModule(),
	}
}

func commonModule() *schema.Module {
	return &schema.Module{
		Name:     "common",
		TypeDefs: typeDefs("common"),
	}
}

func typeDefs(name string) string {
	b, err := typeDefsFS.ReadFile("schema/" + name + ".graphqls")
	if err != nil {
		panic(fmt.Sprintf("type definitions of %s: %s", name, err))
	}
	return string(b)
}

// public fields need no bearer token.
func public(fn execute.FieldResolveFn) *schema.Field {
	return &schema.Field{Resolve: fn}
}

// gated fields fail with UNAUTHENTICATED before fn runs when there is no bearer token.
func gated(fn execute.FieldResolveFn) *schema.Field {
	return &schema.Field{Resolve: fn, Auth: true}
}

func decodeArgs(p execute.ResolveParams, out interface{}) error {
	if err := p.DecodeArgs(out); err != nil {
		return gqlerrors.BadUserInput("%s", err)
	}
	return nil
}

func idArg(p execute.ResolveParams) string {
	return p.StringArg("id")
}

// deleted adapts a delete call to the Boolean! the schema answers with.
func deleted(err error) (interface{}, error) {
	if err != nil {
		return nil, err
	}
	return true, nil
}

// lower puts enum-like arguments in the casing the domain services store.
func lower(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.ToLower(strings.TrimSpace(*s))
	return &v
}
