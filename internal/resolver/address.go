package resolver

import (
	"context"

	"github.com/vvakame/shopgate/internal/execute"
	"github.com/vvakame/shopgate/internal/model"
	"github.com/vvakame/shopgate/internal/schema"
)

// Addresses belong to the caller, so every field is gated.
func (r *Resolver) addressModule() *schema.Module {
	return &schema.Module{
		Name:     "address",
		TypeDefs: typeDefs("address"),
		Resolvers: schema.Resolvers{
			"Query": {
				"addresses": gated(r.addresses),
			},
			"Mutation": {
				"addAddress":        gated(r.addAddress),
				"updateAddress":     gated(r.updateAddress),
				"deleteAddress":     gated(r.deleteAddress),
				"setDefaultAddress": gated(r.setDefaultAddress),
			},
		},
	}
}

func (r *Resolver) addresses(ctx context.Context, p execute.ResolveParams) (interface{}, error) {
	docs, err := r.clients.Auth.Addresses(ctx)
	if err != nil {
		return nil, err
	}
	return model.NewAddresses(docs), nil
}

func (r *Resolver) addAddress(ctx context.Context, p execute.ResolveParams) (interface{}, error) {
	var args struct {
		Input model.AddressInput `json:"input"`
	}
	if err := decodeArgs(p, &args); err != nil {
		return nil, err
	}

	doc, err := r.clients.Auth.AddAddress(ctx, &args.Input)
	if err != nil {
		return nil, err
	}
	return model.NewAddress(doc), nil
}

func (r *Resolver) updateAddress(ctx context.Context, p execute.ResolveParams) (interface{}, error) {
	var args struct {
		ID    string             `json:"id"`
		Input model.AddressInput `json:"input"`
	}
	if err := decodeArgs(p, &args); err != nil {
		return nil, err
	}

	doc, err := r.clients.Auth.UpdateAddress(ctx, args.ID, &args.Input)
	if err != nil {
		return nil, err
	}
	return model.NewAddress(doc), nil
}

func (r *Resolver) deleteAddress(ctx context.Context, p execute.ResolveParams) (interface{}, error) {
	return deleted(r.clients.Auth.DeleteAddress(ctx, idArg(p)))
}

func (r *Resolver) setDefaultAddress(ctx context.Context, p execute.ResolveParams) (interface{}, error) {
	doc, err := r.clients.Auth.SetDefaultAddress(ctx, idArg(p))
	if err != nil {
		return nil, err
	}
	return model.NewAddress(doc), nil
}
