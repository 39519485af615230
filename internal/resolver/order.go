package resolver

import (
	"context"
	"strings"

	"github.com/vvakame/shopgate/internal/backend"
	"github.com/vvakame/shopgate/internal/execute"
	"github.com/vvakame/shopgate/internal/model"
	"github.com/vvakame/shopgate/internal/schema"
)

func (r *Resolver) orderModule() *schema.Module {
	return &schema.Module{
		Name:     "order",
		TypeDefs: typeDefs("order"),
		Resolvers: schema.Resolvers{
			"Query": {
				"order":        gated(r.order),
				"orders":       gated(r.orders),
				"sellerOrders": gated(r.sellerOrders),
			},
			"Mutation": {
				"createOrder":         gated(r.createOrder),
				"updateOrderStatus":   gated(r.updateOrderStatus),
				"updatePaymentStatus": gated(r.updatePaymentStatus),
				"cancelOrder":         gated(r.cancelOrder),
			},
		},
	}
}

func (r *Resolver) order(ctx context.Context, p execute.ResolveParams) (interface{}, error) {
	doc, err := r.clients.Order.Order(ctx, idArg(p))
	if err != nil {
		return nil, err
	}
	return model.NewOrder(doc), nil
}

func (r *Resolver) orders(ctx context.Context, p execute.ResolveParams) (interface{}, error) {
	var q backend.OrderQuery
	if err := decodeArgs(p, &q); err != nil {
		return nil, err
	}
	q.Status = lower(q.Status)

	page, err := r.clients.Order.Orders(ctx, q)
	if err != nil {
		return nil, err
	}
	return newOrderList(page), nil
}

func (r *Resolver) sellerOrders(ctx context.Context, p execute.ResolveParams) (interface{}, error) {
	var args struct {
		backend.OrderQuery
		SellerID string `json:"sellerId"`
	}
	if err := decodeArgs(p, &args); err != nil {
		return nil, err
	}
	args.Status = lower(args.Status)

	page, err := r.clients.Order.SellerOrders(ctx, args.SellerID, args.OrderQuery)
	if err != nil {
		return nil, err
	}
	return newOrderList(page), nil
}

func newOrderList(page *backend.Page[backend.OrderDoc]) *model.OrderList {
	return &model.OrderList{
		Orders:     model.NewOrders(page.Items),
		Pagination: model.NewPagination(page),
	}
}

// createOrder relays the order; the order service splits it per seller.
func (r *Resolver) createOrder(ctx context.Context, p execute.ResolveParams) (interface{}, error) {
	var args struct {
		Input model.CreateOrderInput `json:"input"`
	}
	if err := decodeArgs(p, &args); err != nil {
		return nil, err
	}

	doc, err := r.clients.Order.CreateOrder(ctx, &args.Input)
	if err != nil {
		return nil, err
	}
	return model.NewCreateOrderPayload(doc), nil
}

func (r *Resolver) updateOrderStatus(ctx context.Context, p execute.ResolveParams) (interface{}, error) {
	doc, err := r.clients.Order.UpdateStatus(ctx, idArg(p), statusArg(p))
	if err != nil {
		return nil, err
	}
	return model.NewOrder(doc), nil
}

func (r *Resolver) updatePaymentStatus(ctx context.Context, p execute.ResolveParams) (interface{}, error) {
	doc, err := r.clients.Order.UpdatePaymentStatus(ctx, idArg(p), statusArg(p))
	if err != nil {
		return nil, err
	}
	return model.NewOrder(doc), nil
}

// statusArg is the status argument as the order service spells it.
func statusArg(p execute.ResolveParams) string {
	return strings.ToLower(strings.TrimSpace(p.StringArg("status")))
}

func (r *Resolver) cancelOrder(ctx context.Context, p execute.ResolveParams) (interface{}, error) {
	doc, err := r.clients.Order.Cancel(ctx, idArg(p))
	if err != nil {
		return nil, err
	}
	return model.NewOrder(doc), nil
}
