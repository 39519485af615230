package backend

// Documents as the domain services send them. Field spellings that differ
// between services (or service versions) are all declared here; choosing
// between them is the resolvers' job.

type UserDoc struct {
	Ref
	Name      string       `json:"name"`
	FirstName string       `json:"firstName"`
	LastName  string       `json:"lastName"`
	Email     string       `json:"email"`
	Role      string       `json:"role"`
	Phone     string       `json:"phone"`
	Avatar    string       `json:"avatar"`
	IsActive  *bool        `json:"isActive"`
	Addresses []AddressDoc `json:"addresses"`
	CreatedAt Date         `json:"createdAt"`
	UpdatedAt Date         `json:"updatedAt"`
}

type AuthDoc struct {
	Token        string  `json:"token"`
	AccessToken  string  `json:"accessToken"`
	RefreshToken string  `json:"refreshToken"`
	User         UserDoc `json:"user"`
}

type AddressDoc struct {
	Ref
	FullName   string `json:"fullName"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Street     string `json:"street"`
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	ZipCode    string `json:"zipCode"`
	Country    string `json:"country"`
	IsDefault  bool   `json:"isDefault"`
	CreatedAt  Date   `json:"createdAt"`
	UpdatedAt  Date   `json:"updatedAt"`
}

type UserStatsDoc struct {
	TotalUsers Number `json:"totalUsers"`
	Total      Number `json:"total"`
	Count      Number `json:"count"`
}

type ProductDoc struct {
	Ref
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Price         Number   `json:"price"`
	OriginalPrice *Number  `json:"originalPrice"`
	Discount      Number   `json:"discount"`
	Category      RefOrID  `json:"category"`
	Images        []string `json:"images"`
	Image         string   `json:"image"`
	Stock         Number   `json:"stock"`
	SellerID      RefOrID  `json:"sellerId"`
	Seller        RefOrID  `json:"seller"`
	Rating        Number   `json:"rating"`
	ReviewCount   Number   `json:"reviewCount"`
	NumReviews    Number   `json:"numReviews"`
	Featured      bool     `json:"featured"`
	IsFeatured    bool     `json:"isFeatured"`
	IsActive      *bool    `json:"isActive"`
	Tags          []string `json:"tags"`
	CreatedAt     Date     `json:"createdAt"`
	UpdatedAt     Date     `json:"updatedAt"`
}

type ReviewDoc struct {
	Ref
	ProductID RefOrID `json:"productId"`
	UserID    RefOrID `json:"userId"`
	User      RefOrID `json:"user"`
	UserName  string  `json:"userName"`
	Rating    Number  `json:"rating"`
	Comment   string  `json:"comment"`
	CreatedAt Date    `json:"createdAt"`
	UpdatedAt Date    `json:"updatedAt"`
}

type OrderItemDoc struct {
	ProductID RefOrID `json:"productId"`
	Product   RefOrID `json:"product"`
	Name      string  `json:"name"`
	Price     Number  `json:"price"`
	Quantity  Number  `json:"quantity"`
	Image     string  `json:"image"`
	SellerID  RefOrID `json:"sellerId"`
}

type OrderDoc struct {
	Ref
	OrderNumber     string         `json:"orderNumber"`
	CustomerID      RefOrID        `json:"customerId"`
	UserID          RefOrID        `json:"userId"`
	SellerID        RefOrID        `json:"sellerId"`
	Items           []OrderItemDoc `json:"items"`
	ShippingAddress *AddressDoc    `json:"shippingAddress"`
	Subtotal        Number         `json:"subtotal"`
	Tax             Number         `json:"tax"`
	ShippingCost    Number         `json:"shippingCost"`
	Discount        Number         `json:"discount"`
	Total           *Number        `json:"total"`
	TotalAmount     *Number        `json:"totalAmount"`
	CouponCode      string         `json:"couponCode"`
	OrderStatus     string         `json:"orderStatus"`
	Status          string         `json:"status"`
	PaymentStatus   string         `json:"paymentStatus"`
	PaymentMethod   string         `json:"paymentMethod"`
	Notes           string         `json:"notes"`
	CreatedAt       Date           `json:"createdAt"`
	UpdatedAt       Date           `json:"updatedAt"`
}

// StatusValue is the order status whichever key the service used.
func (o *OrderDoc) StatusValue() string {
	if o.OrderStatus != "" {
		return o.OrderStatus
	}
	return o.Status
}

// TotalValue is the order total whichever key the service used.
func (o *OrderDoc) TotalValue() float64 {
	switch {
	case o.Total != nil:
		return o.Total.Float()
	case o.TotalAmount != nil:
		return o.TotalAmount.Float()
	default:
		return 0
	}
}

type CreateOrderDoc struct {
	Orders  []OrderDoc `json:"orders"`
	Order   *OrderDoc  `json:"order"`
	Message string     `json:"message"`
}

type CategoryDoc struct {
	Ref
	Name         string  `json:"name"`
	Slug         string  `json:"slug"`
	Description  string  `json:"description"`
	Image        string  `json:"image"`
	ParentID     RefOrID `json:"parentId"`
	Parent       RefOrID `json:"parent"`
	IsActive     *bool   `json:"isActive"`
	ProductCount *Number `json:"productCount"`
	CreatedAt    Date    `json:"createdAt"`
	UpdatedAt    Date    `json:"updatedAt"`
}

type CouponDoc struct {
	Ref
	Code           string  `json:"code"`
	Description    string  `json:"description"`
	DiscountType   string  `json:"discountType"`
	DiscountValue  Number  `json:"discountValue"`
	MinOrderAmount *Number `json:"minOrderAmount"`
	MaxDiscount    *Number `json:"maxDiscount"`
	UsageLimit     *Number `json:"usageLimit"`
	UsedCount      Number  `json:"usedCount"`
	IsActive       *bool   `json:"isActive"`
	ValidFrom      Date    `json:"validFrom"`
	ValidUntil     Date    `json:"validUntil"`
	ExpiresAt      Date    `json:"expiresAt"`
	CreatedAt      Date    `json:"createdAt"`
	UpdatedAt      Date    `json:"updatedAt"`
}

type CouponValidationDoc struct {
	Valid      *bool      `json:"valid"`
	Coupon     *CouponDoc `json:"coupon"`
	Discount   Number     `json:"discount"`
	FinalTotal *Number    `json:"finalTotal"`
	Message    string     `json:"message"`
}

type HealthDoc struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
