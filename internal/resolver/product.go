package resolver

import (
	"context"

	"github.com/vvakame/shopgate/internal/backend"
	"github.com/vvakame/shopgate/internal/execute"
	"github.com/vvakame/shopgate/internal/gqlerrors"
	"github.com/vvakame/shopgate/internal/loader"
	"github.com/vvakame/shopgate/internal/model"
	"github.com/vvakame/shopgate/internal/schema"
)

// UnknownSellerName is shown when the seller of a product cannot be looked up.
const UnknownSellerName = "Unknown Seller"

func (r *Resolver) productModule() *schema.Module {
	return &schema.Module{
		Name:     "product",
		TypeDefs: typeDefs("product"),
		Resolvers: schema.Resolvers{
			"Query": {
				"products":       public(r.products),
				"product":        public(r.product),
				"sellerProducts": public(r.sellerProducts),
			},
			"Mutation": {
				"createProduct": gated(r.createProduct),
				"updateProduct": gated(r.updateProduct),
				"deleteProduct": gated(r.deleteProduct),
			},
			"Product": {
				"seller": {
					Resolve:  r.productSeller,
					Policy:   gqlerrors.BestEffort,
					Fallback: unknownSeller,
				},
			},
		},
	}
}

func (r *Resolver) products(ctx context.Context, p execute.ResolveParams) (interface{}, error) {
	var q backend.ProductQuery
	if err := decodeArgs(p, &q); err != nil {
		return nil, err
	}

	page, err := r.clients.Product.Products(ctx, q)
	if err != nil {
		return nil, err
	}
	return newProductList(page), nil
}

func (r *Resolver) product(ctx context.Context, p execute.ResolveParams) (interface{}, error) {
	doc, err := r.clients.Product.Product(ctx, idArg(p))
	if err != nil {
		return nil, err
	}
	return model.NewProduct(doc), nil
}

func (r *Resolver) sellerProducts(ctx context.Context, p execute.ResolveParams) (interface{}, error) {
	var args struct {
		backend.PageQuery
		SellerID string `json:"sellerId"`
	}
	if err := decodeArgs(p, &args); err != nil {
		return nil, err
	}

	page, err := r.clients.Product.SellerProducts(ctx, args.SellerID, args.PageQuery)
	if err != nil {
		return nil, err
	}
	return newProductList(page), nil
}

func newProductList(page *backend.Page[backend.ProductDoc]) *model.ProductList {
	return &model.ProductList{
		Products:   model.NewProducts(page.Items),
		Pagination: model.NewPagination(page),
	}
}

func (r *Resolver) createProduct(ctx context.Context, p execute.ResolveParams) (interface{}, error) {
	var args struct {
		Input model.ProductInput `json:"input"`
	}
	if err := decodeArgs(p, &args); err != nil {
		return nil, err
	}

	doc, err := r.clients.Product.CreateProduct(ctx, &args.Input)
	if err != nil {
		return nil, err
	}
	return model.NewProduct(doc), nil
}

func (r *Resolver) updateProduct(ctx context.Context, p execute.ResolveParams) (interface{}, error) {
	var args struct {
		ID    string             `json:"id"`
		Input model.ProductInput `json:"input"`
	}
	if err := decodeArgs(p, &args); err != nil {
		return nil, err
	}

	doc, err := r.clients.Product.UpdateProduct(ctx, args.ID, &args.Input)
	if err != nil {
		return nil, err
	}
	return model.NewProduct(doc), nil
}

func (r *Resolver) deleteProduct(ctx context.Context, p execute.ResolveParams) (interface{}, error) {
	return deleted(r.clients.Product.DeleteProduct(ctx, idArg(p)))
}

// productSeller prefers the seller document the product service populated
// and otherwise looks the seller up in the auth service.
func (r *Resolver) productSeller(ctx context.Context, p execute.ResolveParams) (interface{}, error) {
	product, ok := p.Source.(*model.Product)
	if !ok || product.SellerID == nil {
		return nil, nil
	}
	if seller := model.NewSeller(product.SellerRef); seller != nil {
		return seller, nil
	}

	doc, err := r.lookupUser(ctx, *product.SellerID)
	if err != nil {
		return nil, err
	}
	return model.NewSellerFromUser(doc), nil
}

// lookupUser goes through the loaders of the running operation when they
// are installed, so a page of products costs one batched call.
func (r *Resolver) lookupUser(ctx context.Context, id string) (*backend.UserDoc, error) {
	if l := loader.FromContext(ctx); l != nil {
		return l.Users.Load(ctx, id)
	}
	return r.clients.Auth.User(ctx, id)
}

func unknownSeller(p execute.ResolveParams) interface{} {
	product, ok := p.Source.(*model.Product)
	if !ok || product.SellerID == nil {
		return nil
	}
	return &model.Seller{ID: *product.SellerID, Name: UnknownSellerName}
}
