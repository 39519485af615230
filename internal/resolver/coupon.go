package resolver

import (
	"context"
	"net/http"
	"strings"

	"github.com/vvakame/shopgate/internal/backend"
	"github.com/vvakame/shopgate/internal/execute"
	"github.com/vvakame/shopgate/internal/model"
	"github.com/vvakame/shopgate/internal/schema"
	"github.com/vvakame/shopgate/internal/upstream"
)

func (r *Resolver) couponModule() *schema.Module {
	return &schema.Module{
		Name:     "coupon",
		TypeDefs: typeDefs("coupon"),
		Resolvers: schema.Resolvers{
			"Query": {
				"coupons":        gated(r.coupons),
				"coupon":         gated(r.coupon),
				"validateCoupon": public(r.validateCoupon),
			},
			"Mutation": {
				"createCoupon": gated(r.createCoupon),
				"updateCoupon": gated(r.updateCoupon),
				"deleteCoupon": gated(r.deleteCoupon),
			},
		},
	}
}

func (r *Resolver) coupons(ctx context.Context, p execute.ResolveParams) (interface{}, error) {
	var q backend.CouponQuery
	if err := decodeArgs(p, &q); err != nil {
		return nil, err
	}

	page, err := r.clients.Coupon.Coupons(ctx, q)
	if err != nil {
		return nil, err
	}
	return &model.CouponList{
		Coupons:    model.NewCoupons(page.Items),
		Pagination: model.NewPagination(page),
	}, nil
}

func (r *Resolver) coupon(ctx context.Context, p execute.ResolveParams) (interface{}, error) {
	doc, err := r.clients.Coupon.Coupon(ctx, idArg(p))
	if err != nil {
		return nil, err
	}
	return model.NewCoupon(doc), nil
}

// validateCoupon answers a rejected code with valid: false and the order
// total unchanged. Only an unavailable coupon service is an error.
func (r *Resolver) validateCoupon(ctx context.Context, p execute.ResolveParams) (interface{}, error) {
	var args struct {
		Code       string  `json:"code"`
		OrderTotal float64 `json:"orderTotal"`
	}
	if err := decodeArgs(p, &args); err != nil {
		return nil, err
	}
	code := strings.ToUpper(strings.TrimSpace(args.Code))

	doc, err := r.clients.Coupon.Validate(ctx, code, args.OrderTotal)
	if uErr, ok := upstream.AsError(err); ok && uErr.ClientError() {
		message := uErr.Message
		if message == http.StatusText(uErr.StatusCode) {
			// the service sent no message of its own
			message = ""
		}
		return model.InvalidCoupon(args.OrderTotal, message), nil
	} else if err != nil {
		return nil, err
	}

	if doc.Valid != nil && !*doc.Valid {
		return model.InvalidCoupon(args.OrderTotal, doc.Message), nil
	}
	return model.NewCouponValidation(doc, args.OrderTotal), nil
}

func (r *Resolver) createCoupon(ctx context.Context, p execute.ResolveParams) (interface{}, error) {
	var args struct {
		Input model.CouponInput `json:"input"`
	}
	if err := decodeArgs(p, &args); err != nil {
		return nil, err
	}
	args.Input.Normalize()

	doc, err := r.clients.Coupon.CreateCoupon(ctx, &args.Input)
	if err != nil {
		return nil, err
	}
	return model.NewCoupon(doc), nil
}

func (r *Resolver) updateCoupon(ctx context.Context, p execute.ResolveParams) (interface{}, error) {
	var args struct {
		ID    string            `json:"id"`
		Input model.CouponInput `json:"input"`
	}
	if err := decodeArgs(p, &args); err != nil {
		return nil, err
	}
	args.Input.Normalize()

	doc, err := r.clients.Coupon.UpdateCoupon(ctx, args.ID, &args.Input)
	if err != nil {
		return nil, err
	}
	return model.NewCoupon(doc), nil
}

func (r *Resolver) deleteCoupon(ctx context.Context, p execute.ResolveParams) (interface{}, error) {
	return deleted(r.clients.Coupon.DeleteCoupon(ctx, idArg(p)))
}
