// Package backend holds one typed client per domain service together with the
// documents those services answer with.
package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/vvakame/shopgate/internal/config"
	"github.com/vvakame/shopgate/internal/upstream"
)

// Service is what every typed client exposes for health reporting.
type Service interface {
	Name() string
	BaseURL() string
	Health(ctx context.Context) (*HealthDoc, error)
}

type Clients struct {
	Auth     *AuthClient
	Product  *ProductClient
	Order    *OrderClient
	Category *CategoryClient
	Coupon   *CouponClient
}

// NewClients binds a client to every configured service URL.
func NewClients(services config.Services, opts ...upstream.Option) *Clients {
	newClient := func(name string) service {
		return service{c: upstream.New(name, services.URL(name), opts...)}
	}
	return &Clients{
		Auth:     &AuthClient{newClient(config.ServiceAuth)},
		Product:  &ProductClient{newClient(config.ServiceProduct)},
		Order:    &OrderClient{newClient(config.ServiceOrder)},
		Category: &CategoryClient{newClient(config.ServiceCategory)},
		Coupon:   &CouponClient{newClient(config.ServiceCoupon)},
	}
}

// Services returns the clients in config.ServiceNames order.
func (c *Clients) Services() []Service {
	return []Service{c.Auth, c.Product, c.Order, c.Category, c.Coupon}
}

type service struct {
	c *upstream.Client
}

func (s service) Name() string {
	return s.c.Name()
}

func (s service) BaseURL() string {
	return s.c.BaseURL()
}

func (s service) get(ctx context.Context, path string, q url.Values) ([]byte, error) {
	return s.c.Do(ctx, upstream.Request{Method: http.MethodGet, Path: path, Query: q})
}

func (s service) send(ctx context.Context, method, path string, body interface{}) ([]byte, error) {
	return s.c.Do(ctx, upstream.Request{Method: method, Path: path, Body: body})
}

func (s service) Health(ctx context.Context) (*HealthDoc, error) {
	b, err := s.get(ctx, "/health", nil)
	if err != nil {
		return nil, err
	}
	doc := &HealthDoc{}
	if d, err := decodeOne[HealthDoc](b); err == nil {
		doc = d
	}
	return doc, nil
}

func idPath(prefix, id string, suffix ...string) string {
	p := prefix + "/" + url.PathEscape(id)
	for _, s := range suffix {
		p += "/" + s
	}
	return p
}

type AuthClient struct{ service }

func (c *AuthClient) Login(ctx context.Context, input interface{}) (*AuthDoc, error) {
	return c.authenticate(ctx, "/api/auth/login", input)
}

func (c *AuthClient) Register(ctx context.Context, input interface{}) (*AuthDoc, error) {
	return c.authenticate(ctx, "/api/auth/register", input)
}

func (c *AuthClient) authenticate(ctx context.Context, path string, input interface{}) (*AuthDoc, error) {
	b, err := c.send(ctx, http.MethodPost, path, input)
	if err != nil {
		return nil, err
	}
	doc, err := decodeOne[AuthDoc](b)
	if err != nil {
		return nil, err
	}
	if doc.Token == "" {
		doc.Token = doc.AccessToken
	}
	if doc.User.Key() == "" {
		// user fields flattened next to the token
		if u, err := decodeOne[UserDoc](b); err == nil {
			doc.User = *u
		}
	}
	return doc, nil
}

func (c *AuthClient) Me(ctx context.Context) (*UserDoc, error) {
	b, err := c.get(ctx, "/api/auth/me", nil)
	if err != nil {
		return nil, err
	}
	return decodeOne[UserDoc](b, "user")
}

func (c *AuthClient) UpdateProfile(ctx context.Context, input interface{}) (*UserDoc, error) {
	b, err := c.send(ctx, http.MethodPut, "/api/auth/profile", input)
	if err != nil {
		return nil, err
	}
	return decodeOne[UserDoc](b, "user")
}

func (c *AuthClient) Users(ctx context.Context, q UserQuery) (*Page[UserDoc], error) {
	b, err := c.get(ctx, "/api/auth/users", q.Values())
	if err != nil {
		return nil, err
	}
	return decodeList[UserDoc](b, q.PageQuery, "users")
}

func (c *AuthClient) User(ctx context.Context, id string) (*UserDoc, error) {
	b, err := c.get(ctx, idPath("/api/auth/users", id), nil)
	if err != nil {
		return nil, err
	}
	return decodeOne[UserDoc](b, "user")
}

// UsersByIDs resolves many users in one call. Unknown ids are absent from the result.
func (c *AuthClient) UsersByIDs(ctx context.Context, ids []string) ([]UserDoc, error) {
	b, err := c.send(ctx, http.MethodPost, "/api/auth/users/batch", map[string]interface{}{"ids": ids})
	if err != nil {
		return nil, err
	}
	return decodeItems[UserDoc](b, "users")
}

func (c *AuthClient) UpdateUser(ctx context.Context, id string, input interface{}) (*UserDoc, error) {
	b, err := c.send(ctx, http.MethodPut, idPath("/api/auth/users", id), input)
	if err != nil {
		return nil, err
	}
	return decodeOne[UserDoc](b, "user")
}

func (c *AuthClient) DeleteUser(ctx context.Context, id string) error {
	_, err := c.send(ctx, http.MethodDelete, idPath("/api/auth/users", id), nil)
	return err
}

func (c *AuthClient) Stats(ctx context.Context) (*UserStatsDoc, error) {
	b, err := c.get(ctx, "/api/auth/stats", nil)
	if err != nil {
		return nil, err
	}
	return decodeOne[UserStatsDoc](b, "stats")
}

func (c *AuthClient) Addresses(ctx context.Context) ([]AddressDoc, error) {
	b, err := c.get(ctx, "/api/auth/addresses", nil)
	if err != nil {
		return nil, err
	}
	return decodeItems[AddressDoc](b, "addresses")
}

func (c *AuthClient) AddAddress(ctx context.Context, input interface{}) (*AddressDoc, error) {
	b, err := c.send(ctx, http.MethodPost, "/api/auth/addresses", input)
	if err != nil {
		return nil, err
	}
	return decodeOne[AddressDoc](b, "address")
}

func (c *AuthClient) UpdateAddress(ctx context.Context, id string, input interface{}) (*AddressDoc, error) {
	b, err := c.send(ctx, http.MethodPut, idPath("/api/auth/addresses", id), input)
	if err != nil {
		return nil, err
	}
	return decodeOne[AddressDoc](b, "address")
}

func (c *AuthClient) DeleteAddress(ctx context.Context, id string) error {
	_, err := c.send(ctx, http.MethodDelete, idPath("/api/auth/addresses", id), nil)
	return err
}

func (c *AuthClient) SetDefaultAddress(ctx context.Context, id string) (*AddressDoc, error) {
	b, err := c.send(ctx, http.MethodPatch, idPath("/api/auth/addresses", id, "default"), nil)
	if err != nil {
		return nil, err
	}
	return decodeOne[AddressDoc](b, "address")
}

type ProductClient struct{ service }

func (c *ProductClient) Products(ctx context.Context, q ProductQuery) (*Page[ProductDoc], error) {
	b, err := c.get(ctx, "/api/products", q.Values())
	if err != nil {
		return nil, err
	}
	return decodeList[ProductDoc](b, q.PageQuery, "products")
}

func (c *ProductClient) Product(ctx context.Context, id string) (*ProductDoc, error) {
	b, err := c.get(ctx, idPath("/api/products", id), nil)
	if err != nil {
		return nil, err
	}
	return decodeOne[ProductDoc](b, "product")
}

func (c *ProductClient) SellerProducts(ctx context.Context, sellerID string, q PageQuery) (*Page[ProductDoc], error) {
	v := url.Values{}
	q.values(v)
	b, err := c.get(ctx, idPath("/api/products/seller", sellerID), v)
	if err != nil {
		return nil, err
	}
	return decodeList[ProductDoc](b, q, "products")
}

func (c *ProductClient) CreateProduct(ctx context.Context, input interface{}) (*ProductDoc, error) {
	b, err := c.send(ctx, http.MethodPost, "/api/products", input)
	if err != nil {
		return nil, err
	}
	return decodeOne[ProductDoc](b, "product")
}

func (c *ProductClient) UpdateProduct(ctx context.Context, id string, input interface{}) (*ProductDoc, error) {
	b, err := c.send(ctx, http.MethodPut, idPath("/api/products", id), input)
	if err != nil {
		return nil, err
	}
	return decodeOne[ProductDoc](b, "product")
}

func (c *ProductClient) DeleteProduct(ctx context.Context, id string) error {
	_, err := c.send(ctx, http.MethodDelete, idPath("/api/products", id), nil)
	return err
}

func (c *ProductClient) Reviews(ctx context.Context, productID string, q PageQuery) (*Page[ReviewDoc], error) {
	v := url.Values{}
	q.values(v)
	b, err := c.get(ctx, idPath("/api/products", productID, "reviews"), v)
	if err != nil {
		return nil, err
	}
	return decodeList[ReviewDoc](b, q, "reviews")
}

func (c *ProductClient) CreateReview(ctx context.Context, productID string, input interface{}) (*ReviewDoc, error) {
	b, err := c.send(ctx, http.MethodPost, idPath("/api/products", productID, "reviews"), input)
	if err != nil {
		return nil, err
	}
	return decodeOne[ReviewDoc](b, "review")
}

func (c *ProductClient) DeleteReview(ctx context.Context, productID, reviewID string) error {
	_, err := c.send(ctx, http.MethodDelete, idPath("/api/products", productID, "reviews", url.PathEscape(reviewID)), nil)
	return err
}

type OrderClient struct{ service }

func (c *OrderClient) Orders(ctx context.Context, q OrderQuery) (*Page[OrderDoc], error) {
	b, err := c.get(ctx, "/api/orders", q.Values())
	if err != nil {
		return nil, err
	}
	return decodeList[OrderDoc](b, q.PageQuery, "orders")
}

func (c *OrderClient) Order(ctx context.Context, id string) (*OrderDoc, error) {
	b, err := c.get(ctx, idPath("/api/orders", id), nil)
	if err != nil {
		return nil, err
	}
	return decodeOne[OrderDoc](b, "order")
}

func (c *OrderClient) SellerOrders(ctx context.Context, sellerID string, q OrderQuery) (*Page[OrderDoc], error) {
	b, err := c.get(ctx, idPath("/api/orders/seller", sellerID), q.Values())
	if err != nil {
		return nil, err
	}
	return decodeList[OrderDoc](b, q.PageQuery, "orders")
}

// CreateOrder places an order. The service splits it per seller and answers
// with either every produced order or a single one.
func (c *OrderClient) CreateOrder(ctx context.Context, input interface{}) (*CreateOrderDoc, error) {
	b, err := c.send(ctx, http.MethodPost, "/api/orders", input)
	if err != nil {
		return nil, err
	}
	doc, err := decodeOne[CreateOrderDoc](b)
	if err != nil {
		return nil, err
	}
	if len(doc.Orders) == 0 && doc.Order == nil {
		// the order document itself
		o, err := decodeOne[OrderDoc](b, "order")
		if err != nil {
			return nil, err
		}
		if o.Key() != "" {
			doc.Order = o
		}
	}
	if len(doc.Orders) == 0 && doc.Order != nil {
		doc.Orders = []OrderDoc{*doc.Order}
	}
	if doc.Message == "" {
		doc.Message = upstream.ExtractMessage(b)
	}
	return doc, nil
}

func (c *OrderClient) UpdateStatus(ctx context.Context, id, status string) (*OrderDoc, error) {
	return c.patch(ctx, idPath("/api/orders", id, "status"), map[string]interface{}{"status": status})
}

func (c *OrderClient) UpdatePaymentStatus(ctx context.Context, id, status string) (*OrderDoc, error) {
	return c.patch(ctx, idPath("/api/orders", id, "payment"), map[string]interface{}{"paymentStatus": status})
}

func (c *OrderClient) Cancel(ctx context.Context, id string) (*OrderDoc, error) {
	return c.patch(ctx, idPath("/api/orders", id, "cancel"), nil)
}

func (c *OrderClient) patch(ctx context.Context, path string, body interface{}) (*OrderDoc, error) {
	b, err := c.send(ctx, http.MethodPatch, path, body)
	if err != nil {
		return nil, err
	}
	return decodeOne[OrderDoc](b, "order")
}

type CategoryClient struct{ service }

func (c *CategoryClient) Categories(ctx context.Context, q CategoryQuery) ([]CategoryDoc, error) {
	b, err := c.get(ctx, "/api/categories", q.Values())
	if err != nil {
		return nil, err
	}
	return decodeItems[CategoryDoc](b, "categories")
}

func (c *CategoryClient) Category(ctx context.Context, id string) (*CategoryDoc, error) {
	b, err := c.get(ctx, idPath("/api/categories", id), nil)
	if err != nil {
		return nil, err
	}
	return decodeOne[CategoryDoc](b, "category")
}

func (c *CategoryClient) CreateCategory(ctx context.Context, input interface{}) (*CategoryDoc, error) {
	b, err := c.send(ctx, http.MethodPost, "/api/categories", input)
	if err != nil {
		return nil, err
	}
	return decodeOne[CategoryDoc](b, "category")
}

func (c *CategoryClient) UpdateCategory(ctx context.Context, id string, input interface{}) (*CategoryDoc, error) {
	b, err := c.send(ctx, http.MethodPut, idPath("/api/categories", id), input)
	if err != nil {
		return nil, err
	}
	return decodeOne[CategoryDoc](b, "category")
}

func (c *CategoryClient) DeleteCategory(ctx context.Context, id string) error {
	_, err := c.send(ctx, http.MethodDelete, idPath("/api/categories", id), nil)
	return err
}

type CouponClient struct{ service }

func (c *CouponClient) Coupons(ctx context.Context, q CouponQuery) (*Page[CouponDoc], error) {
	b, err := c.get(ctx, "/api/coupons", q.Values())
	if err != nil {
		return nil, err
	}
	return decodeList[CouponDoc](b, q.PageQuery, "coupons")
}

func (c *CouponClient) Coupon(ctx context.Context, id string) (*CouponDoc, error) {
	b, err := c.get(ctx, idPath("/api/coupons", id), nil)
	if err != nil {
		return nil, err
	}
	return decodeOne[CouponDoc](b, "coupon")
}

func (c *CouponClient) Validate(ctx context.Context, code string, orderTotal float64) (*CouponValidationDoc, error) {
	b, err := c.send(ctx, http.MethodPost, "/api/coupons/validate", map[string]interface{}{
		"code":       code,
		"orderTotal": orderTotal,
	})
	if err != nil {
		return nil, err
	}
	doc, err := decodeOne[CouponValidationDoc](b)
	if err != nil {
		return nil, err
	}
	if doc.Message == "" {
		doc.Message = upstream.ExtractMessage(b)
	}
	return doc, nil
}

func (c *CouponClient) CreateCoupon(ctx context.Context, input interface{}) (*CouponDoc, error) {
	b, err := c.send(ctx, http.MethodPost, "/api/coupons", input)
	if err != nil {
		return nil, err
	}
	return decodeOne[CouponDoc](b, "coupon")
}

func (c *CouponClient) UpdateCoupon(ctx context.Context, id string, input interface{}) (*CouponDoc, error) {
	b, err := c.send(ctx, http.MethodPut, idPath("/api/coupons", id), input)
	if err != nil {
		return nil, err
	}
	return decodeOne[CouponDoc](b, "coupon")
}

func (c *CouponClient) DeleteCoupon(ctx context.Context, id string) error {
	_, err := c.send(ctx, http.MethodDelete, idPath("/api/coupons", id), nil)
	return err
}
