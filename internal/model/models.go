// Package model declares the graph-shaped records resolvers return. Field
// names follow the json tags, which are also the GraphQL field names.
package model

import "github.com/vvakame/shopgate/internal/backend"

type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

type User struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	FirstName *string    `json:"firstName"`
	LastName  *string    `json:"lastName"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	Phone     *string    `json:"phone"`
	Avatar    *string    `json:"avatar"`
	IsActive  *bool      `json:"isActive"`
	Addresses []*Address `json:"addresses"`
	CreatedAt *string    `json:"createdAt"`
	UpdatedAt *string    `json:"updatedAt"`
}

type UserList struct {
	Users      []*User     `json:"users"`
	Pagination *Pagination `json:"pagination"`
}

type AuthPayload struct {
	Token        string  `json:"token"`
	RefreshToken *string `json:"refreshToken"`
	User         *User   `json:"user"`
}

type Address struct {
	ID         string  `json:"id"`
	FullName   *string `json:"fullName"`
	Phone      *string `json:"phone"`
	Street     *string `json:"street"`
	City       *string `json:"city"`
	State      *string `json:"state"`
	PostalCode *string `json:"postalCode"`
	Country    *string `json:"country"`
	IsDefault  bool    `json:"isDefault"`
	CreatedAt  *string `json:"createdAt"`
	UpdatedAt  *string `json:"updatedAt"`
}

type Seller struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Email *string `json:"email"`
}

type CategoryRef struct {
	ID   string  `json:"id"`
	Name *string `json:"name"`
}

type Product struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Description   *string      `json:"description"`
	Price         float64      `json:"price"`
	OriginalPrice *float64     `json:"originalPrice"`
	Discount      float64      `json:"discount"`
	Category      *CategoryRef `json:"category"`
	Images        []string     `json:"images"`
	Stock         int          `json:"stock"`
	SellerID      *string      `json:"sellerId"`
	Rating        float64      `json:"rating"`
	ReviewCount   int          `json:"reviewCount"`
	Featured      bool         `json:"featured"`
	IsActive      *bool        `json:"isActive"`
	Tags          []string     `json:"tags"`
	CreatedAt     *string      `json:"createdAt"`
	UpdatedAt     *string      `json:"updatedAt"`

	// SellerRef is the seller as the product service sent it; Product.seller resolves from it.
	SellerRef backend.RefOrID `json:"-"`
}

type ProductList struct {
	Products   []*Product  `json:"products"`
	Pagination *Pagination `json:"pagination"`
}

type Review struct {
	ID        string  `json:"id"`
	ProductID *string `json:"productId"`
	UserID    *string `json:"userId"`
	UserName  *string `json:"userName"`
	Rating    int     `json:"rating"`
	Comment   *string `json:"comment"`
	CreatedAt *string `json:"createdAt"`
	UpdatedAt *string `json:"updatedAt"`
}

type ReviewList struct {
	Reviews    []*Review   `json:"reviews"`
	Pagination *Pagination `json:"pagination"`
}

type OrderItem struct {
	ProductID *string `json:"productId"`
	Name      *string `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Image     *string `json:"image"`
	SellerID  *string `json:"sellerId"`
}

type Order struct {
	ID              string       `json:"id"`
	OrderNumber     *string      `json:"orderNumber"`
	CustomerID      *string      `json:"customerId"`
	SellerID        *string      `json:"sellerId"`
	Items           []*OrderItem `json:"items"`
	ShippingAddress *Address     `json:"shippingAddress"`
	Subtotal        float64      `json:"subtotal"`
	Tax             float64      `json:"tax"`
	ShippingCost    float64      `json:"shippingCost"`
	Discount        float64      `json:"discount"`
	Total           float64      `json:"total"`
	CouponCode      *string      `json:"couponCode"`
	OrderStatus     string       `json:"orderStatus"`
	PaymentStatus   string       `json:"paymentStatus"`
	PaymentMethod   *string      `json:"paymentMethod"`
	Notes           *string      `json:"notes"`
	CreatedAt       *string      `json:"createdAt"`
	UpdatedAt       *string      `json:"updatedAt"`
}

type OrderList struct {
	Orders     []*Order    `json:"orders"`
	Pagination *Pagination `json:"pagination"`
}

// CreateOrderPayload answers createOrder. Order is Orders[0] and OrderCount is len(Orders).
type CreateOrderPayload struct {
	Order      *Order   `json:"order"`
	Orders     []*Order `json:"orders"`
	OrderCount int      `json:"orderCount"`
	Message    *string  `json:"message"`
}

type Category struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Slug         *string `json:"slug"`
	Description  *string `json:"description"`
	Image        *string `json:"image"`
	ParentID     *string `json:"parentId"`
	IsActive     *bool   `json:"isActive"`
	ProductCount *int    `json:"productCount"`
	CreatedAt    *string `json:"createdAt"`
	UpdatedAt    *string `json:"updatedAt"`
}

type Coupon struct {
	ID             string   `json:"id"`
	Code           string   `json:"code"`
	Description    *string  `json:"description"`
	DiscountType   string   `json:"discountType"`
	DiscountValue  float64  `json:"discountValue"`
	MinOrderAmount *float64 `json:"minOrderAmount"`
	MaxDiscount    *float64 `json:"maxDiscount"`
	UsageLimit     *int     `json:"usageLimit"`
	UsedCount      int      `json:"usedCount"`
	IsActive       *bool    `json:"isActive"`
	ValidFrom      *string  `json:"validFrom"`
	ValidUntil     *string  `json:"validUntil"`
	CreatedAt      *string  `json:"createdAt"`
	UpdatedAt      *string  `json:"updatedAt"`
}

type CouponList struct {
	Coupons    []*Coupon   `json:"coupons"`
	Pagination *Pagination `json:"pagination"`
}

type CouponValidation struct {
	Valid      bool    `json:"valid"`
	Coupon     *Coupon `json:"coupon"`
	Discount   float64 `json:"discount"`
	FinalTotal float64 `json:"finalTotal"`
	Message    *string `json:"message"`
}

type DashboardStats struct {
	TotalUsers    int     `json:"totalUsers"`
	TotalOrders   int     `json:"totalOrders"`
	TotalRevenue  float64 `json:"totalRevenue"`
	PendingOrders int     `json:"pendingOrders"`
}

type SellerStats struct {
	SellerID         string  `json:"sellerId"`
	TotalOrders      int     `json:"totalOrders"`
	PendingOrders    int     `json:"pendingOrders"`
	ProcessingOrders int     `json:"processingOrders"`
	ShippedOrders    int     `json:"shippedOrders"`
	DeliveredOrders  int     `json:"deliveredOrders"`
	CancelledOrders  int     `json:"cancelledOrders"`
	CompletedOrders  int     `json:"completedOrders"`
	TotalRevenue     float64 `json:"totalRevenue"`
	AvgOrderValue    float64 `json:"avgOrderValue"`
	CompletionRate   float64 `json:"completionRate"`
	SuccessRate      float64 `json:"successRate"`
}

type ServiceStatus struct {
	Name      string  `json:"name"`
	URL       string  `json:"url"`
	Status    string  `json:"status"`
	LatencyMs int     `json:"latencyMs"`
	Message   *string `json:"message"`
}
