package resolver

import (
	"context"

	"github.com/vvakame/shopgate/internal/backend"
	"github.com/vvakame/shopgate/internal/execute"
	"github.com/vvakame/shopgate/internal/model"
	"github.com/vvakame/shopgate/internal/schema"
)

func (r *Resolver) reviewModule() *schema.Module {
	return &schema.Module{
		Name:     "review",
		TypeDefs: typeDefs("review"),
		Resolvers: schema.Resolvers{
			"Query": {
				"reviews": public(r.reviews),
			},
			"Mutation": {
				"createReview": gated(r.createReview),
				"deleteReview": gated(r.deleteReview),
			},
		},
	}
}

func (r *Resolver) reviews(ctx context.Context, p execute.ResolveParams) (interface{}, error) {
	var args struct {
		backend.PageQuery
		ProductID string `json:"productId"`
	}
	if err := decodeArgs(p, &args); err != nil {
		return nil, err
	}

	page, err := r.clients.Product.Reviews(ctx, args.ProductID, args.PageQuery)
	if err != nil {
		return nil, err
	}
	return &model.ReviewList{
		Reviews:    model.NewReviews(page.Items),
		Pagination: model.NewPagination(page),
	}, nil
}

type reviewBody struct {
	Rating   int     `json:"rating"`
	Comment  *string `json:"comment,omitempty"`
	UserID   string  `json:"userId"`
	UserName string  `json:"userName"`
}

// createReview needs the author before the review can be posted.
func (r *Resolver) createReview(ctx context.Context, p execute.ResolveParams) (interface{}, error) {
	var args struct {
		Input model.CreateReviewInput `json:"input"`
	}
	if err := decodeArgs(p, &args); err != nil {
		return nil, err
	}

	me, err := r.clients.Auth.Me(ctx)
	if err != nil {
		return nil, err
	}
	author := model.NewUser(me)

	doc, err := r.clients.Product.CreateReview(ctx, args.Input.ProductID, &reviewBody{
		Rating:   args.Input.Rating,
		Comment:  args.Input.Comment,
		UserID:   author.ID,
		UserName: author.Name,
	})
	if err != nil {
		return nil, err
	}
	return model.NewReview(doc), nil
}

func (r *Resolver) deleteReview(ctx context.Context, p execute.ResolveParams) (interface{}, error) {
	return deleted(r.clients.Product.DeleteReview(ctx, p.StringArg("productId"), p.StringArg("reviewId")))
}
