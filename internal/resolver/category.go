package resolver

import (
	"context"

	"github.com/vvakame/shopgate/internal/backend"
	"github.com/vvakame/shopgate/internal/execute"
	"github.com/vvakame/shopgate/internal/model"
	"github.com/vvakame/shopgate/internal/schema"
)

func (r *Resolver) categoryModule() *schema.Module {
	return &schema.Module{
		Name:     "category",
		TypeDefs: typeDefs("category"),
		Resolvers: schema.Resolvers{
			"Query": {
				"categories": public(r.categories),
				"category":   public(r.category),
			},
			"Mutation": {
				"createCategory": gated(r.createCategory),
				"updateCategory": gated(r.updateCategory),
				"deleteCategory": gated(r.deleteCategory),
			},
		},
	}
}

func (r *Resolver) categories(ctx context.Context, p execute.ResolveParams) (interface{}, error) {
	var args struct {
		Filter backend.CategoryQuery `json:"filter"`
	}
	if err := decodeArgs(p, &args); err != nil {
		return nil, err
	}

	docs, err := r.clients.Category.Categories(ctx, args.Filter)
	if err != nil {
		return nil, err
	}
	return model.NewCategories(docs), nil
}

func (r *Resolver) category(ctx context.Context, p execute.ResolveParams) (interface{}, error) {
	doc, err := r.clients.Category.Category(ctx, idArg(p))
	if err != nil {
		return nil, err
	}
	return model.NewCategory(doc), nil
}

func (r *Resolver) createCategory(ctx context.Context, p execute.ResolveParams) (interface{}, error) {
	var args struct {
		Input model.CategoryInput `json:"input"`
	}
	if err := decodeArgs(p, &args); err != nil {
		return nil, err
	}

	doc, err := r.clients.Category.CreateCategory(ctx, &args.Input)
	if err != nil {
		return nil, err
	}
	return model.NewCategory(doc), nil
}

func (r *Resolver) updateCategory(ctx context.Context, p execute.ResolveParams) (interface{}, error) {
	var args struct {
		ID    string              `json:"id"`
		Input model.CategoryInput `json:"input"`
	}
	if err := decodeArgs(p, &args); err != nil {
		return nil, err
	}

	doc, err := r.clients.Category.UpdateCategory(ctx, args.ID, &args.Input)
	if err != nil {
		return nil, err
	}
	return model.NewCategory(doc), nil
}

func (r *Resolver) deleteCategory(ctx context.Context, p execute.ResolveParams) (interface{}, error) {
	return deleted(r.clients.Category.DeleteCategory(ctx, idArg(p)))
}
