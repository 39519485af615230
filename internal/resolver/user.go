package resolver

import (
	"context"

	"github.com/vvakame/shopgate/internal/backend"
	"github.com/vvakame/shopgate/internal/execute"
	"github.com/vvakame/shopgate/internal/model"
	"github.com/vvakame/shopgate/internal/normalize"
	"github.com/vvakame/shopgate/internal/schema"
)

func (r *Resolver) userModule() *schema.Module {
	return &schema.Module{
		Name:     "user",
		TypeDefs: typeDefs("user"),
		Resolvers: schema.Resolvers{
			"Query": {
				"me":    gated(r.me),
				"user":  gated(r.user),
				"users": gated(r.users),
			},
			"Mutation": {
				"login":         public(r.login),
				"register":      public(r.register),
				"updateProfile": gated(r.updateProfile),
				"updateUser":    gated(r.updateUser),
				"deleteUser":    gated(r.deleteUser),
			},
		},
	}
}

func (r *Resolver) me(ctx context.Context, p execute.ResolveParams) (interface{}, error) {
	doc, err := r.clients.Auth.Me(ctx)
	if err != nil {
		return nil, err
	}
	return model.NewUser(doc), nil
}

func (r *Resolver) user(ctx context.Context, p execute.ResolveParams) (interface{}, error) {
	doc, err := r.clients.Auth.User(ctx, idArg(p))
	if err != nil {
		return nil, err
	}
	return model.NewUser(doc), nil
}

func (r *Resolver) users(ctx context.Context, p execute.ResolveParams) (interface{}, error) {
	var q backend.UserQuery
	if err := decodeArgs(p, &q); err != nil {
		return nil, err
	}
	q.Role = lower(q.Role)

	page, err := r.clients.Auth.Users(ctx, q)
	if err != nil {
		return nil, err
	}
	return &model.UserList{
		Users:      model.NewUsers(page.Items),
		Pagination: model.NewPagination(page),
	}, nil
}

func (r *Resolver) login(ctx context.Context, p execute.ResolveParams) (interface{}, error) {
	var args struct {
		Input model.LoginInput `json:"input"`
	}
	if err := decodeArgs(p, &args); err != nil {
		return nil, err
	}

	doc, err := r.clients.Auth.Login(ctx, &args.Input)
	if err != nil {
		return nil, err
	}
	return newAuthPayload(doc), nil
}

func (r *Resolver) register(ctx context.Context, p execute.ResolveParams) (interface{}, error) {
	var args struct {
		Input model.RegisterInput `json:"input"`
	}
	if err := decodeArgs(p, &args); err != nil {
		return nil, err
	}
	args.Input.Normalize()

	doc, err := r.clients.Auth.Register(ctx, &args.Input)
	if err != nil {
		return nil, err
	}
	return newAuthPayload(doc), nil
}

func newAuthPayload(doc *backend.AuthDoc) *model.AuthPayload {
	return &model.AuthPayload{
		Token:        doc.Token,
		RefreshToken: normalize.String(doc.RefreshToken),
		User:         model.NewUser(&doc.User),
	}
}

func (r *Resolver) updateProfile(ctx context.Context, p execute.ResolveParams) (interface{}, error) {
	var args struct {
		Input model.UpdateUserInput `json:"input"`
	}
	if err := decodeArgs(p, &args); err != nil {
		return nil, err
	}
	args.Input.Normalize()

	doc, err := r.clients.Auth.UpdateProfile(ctx, &args.Input)
	if err != nil {
		return nil, err
	}
	return model.NewUser(doc), nil
}

func (r *Resolver) updateUser(ctx context.Context, p execute.ResolveParams) (interface{}, error) {
	var args struct {
		ID    string                `json:"id"`
		Input model.UpdateUserInput `json:"input"`
	}
	if err := decodeArgs(p, &args); err != nil {
		return nil, err
	}
	args.Input.Normalize()

	doc, err := r.clients.Auth.UpdateUser(ctx, args.ID, &args.Input)
	if err != nil {
		return nil, err
	}
	return model.NewUser(doc), nil
}

func (r *Resolver) deleteUser(ctx context.Context, p execute.ResolveParams) (interface{}, error) {
	return deleted(r.clients.Auth.DeleteUser(ctx, idArg(p)))
}
