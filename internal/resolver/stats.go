package resolver

import (
	"context"
	"strings"
	"time"

	"github.com/vvakame/shopgate/internal/backend"
	"github.com/vvakame/shopgate/internal/execute"
	"github.com/vvakame/shopgate/internal/gqlerrors"
	"github.com/vvakame/shopgate/internal/model"
	"github.com/vvakame/shopgate/internal/normalize"
	"github.com/vvakame/shopgate/internal/schema"
	"golang.org/x/sync/errgroup"
)

// statsPageLimit is the page size aggregations read orders with.
const statsPageLimit = 1000

// Values of ServiceStatus.Status reported by serviceHealth.
const (
	StatusUp   = "UP"
	StatusDown = "DOWN"
)

func (r *Resolver) statsModule() *schema.Module {
	return &schema.Module{
		Name:     "stats",
		TypeDefs: typeDefs("stats"),
		Resolvers: schema.Resolvers{
			"Query": {
				"dashboardStats": {
					Resolve: r.dashboardStats,
					Auth:    true,
					Policy:  gqlerrors.BestEffort,
					Fallback: func(p execute.ResolveParams) interface{} {
						return &model.DashboardStats{}
					},
				},
				"sellerStats": {
					Resolve: r.sellerStats,
					Auth:    true,
					Policy:  gqlerrors.BestEffort,
					Fallback: func(p execute.ResolveParams) interface{} {
						return &model.SellerStats{SellerID: p.StringArg("sellerId")}
					},
				},
				"serviceHealth": public(r.serviceHealth),
			},
		},
	}
}

func statsQuery() backend.OrderQuery {
	limit := statsPageLimit
	return backend.OrderQuery{PageQuery: backend.PageQuery{Limit: &limit}}
}

func (r *Resolver) dashboardStats(ctx context.Context, p execute.ResolveParams) (interface{}, error) {
	var (
		orders *backend.Page[backend.OrderDoc]
		users  *backend.UserStatsDoc
	)
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		orders, err = r.clients.Order.Orders(ctx, statsQuery())
		return err
	})
	eg.Go(func() error {
		var err error
		users, err = r.clients.Auth.Stats(ctx)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return computeDashboardStats(orders, users), nil
}

func computeDashboardStats(orders *backend.Page[backend.OrderDoc], users *backend.UserStatsDoc) *model.DashboardStats {
	stats := &model.DashboardStats{
		TotalOrders: orders.Total,
	}
	for _, n := range []backend.Number{users.TotalUsers, users.Total, users.Count} {
		if n != 0 {
			stats.TotalUsers = n.Int()
			break
		}
	}

	var revenue float64
	for i := range orders.Items {
		o := &orders.Items[i]
		revenue += o.TotalValue()
		if normalize.EqualFold(o.StatusValue(), "pending") {
			stats.PendingOrders++
		}
	}
	stats.TotalRevenue = normalize.Money(revenue)

	return stats
}

func (r *Resolver) sellerStats(ctx context.Context, p execute.ResolveParams) (interface{}, error) {
	sellerID := p.StringArg("sellerId")
	page, err := r.clients.Order.SellerOrders(ctx, sellerID, statsQuery())
	if err != nil {
		return nil, err
	}
	return computeSellerStats(sellerID, page.Items), nil
}

// computeSellerStats buckets orders by status. Completed orders count as
// delivered and cancelled orders bring no revenue.
func computeSellerStats(sellerID string, orders []backend.OrderDoc) *model.SellerStats {
	stats := &model.SellerStats{
		SellerID:    sellerID,
		TotalOrders: len(orders),
	}

	var revenue float64
	for i := range orders {
		o := &orders[i]
		switch strings.ToLower(strings.TrimSpace(o.StatusValue())) {
		case "pending":
			stats.PendingOrders++
		case "processing", "confirmed":
			stats.ProcessingOrders++
		case "shipped":
			stats.ShippedOrders++
		case "delivered", "completed":
			stats.DeliveredOrders++
		case "cancelled", "canceled":
			stats.CancelledOrders++
			continue
		}
		revenue += o.TotalValue()
	}

	total := float64(stats.TotalOrders)
	stats.CompletedOrders = stats.DeliveredOrders
	stats.TotalRevenue = normalize.Money(revenue)
	stats.AvgOrderValue = normalize.Money(normalize.Ratio(revenue, total))
	stats.CompletionRate = normalize.Ratio(float64(stats.CompletedOrders), total)
	stats.SuccessRate = normalize.Ratio(total-float64(stats.CancelledOrders), total)

	return stats
}

// serviceHealth probes every service concurrently. A failed probe is
// reported as DOWN, never as an error.
func (r *Resolver) serviceHealth(ctx context.Context, p execute.ResolveParams) (interface{}, error) {
	services := r.clients.Services()
	statuses := make([]*model.ServiceStatus, len(services))

	var eg errgroup.Group
	for i, svc := range services {
		eg.Go(func() error {
			statuses[i] = probe(ctx, svc)
			return nil
		})
	}
	_ = eg.Wait()

	return statuses, nil
}

func probe(ctx context.Context, svc backend.Service) *model.ServiceStatus {
	start := time.Now()
	doc, err := svc.Health(ctx)
	status := &model.ServiceStatus{
		Name:      svc.Name(),
		URL:       svc.BaseURL(),
		Status:    StatusUp,
		LatencyMs: int(time.Since(start).Milliseconds()),
	}
	if err != nil {
		status.Status = StatusDown
		status.Message = normalize.String(gqlerrors.Translate(err).Message)
		return status
	}

	switch strings.ToLower(doc.Status) {
	case "down", "error", "unhealthy":
		status.Status = StatusDown
	}
	status.Message = normalize.String(doc.Message)
	return status
}
