package model

import "strings"

// Inputs are decoded from GraphQL arguments and forwarded as request bodies,
// so unset optional fields are omitted.

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterInput struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Role     *string `json:"role,omitempty"`
	Phone    *string `json:"phone,omitempty"`
}

type UpdateUserInput struct {
	Name      *string `json:"name,omitempty"`
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Email     *string `json:"email,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Avatar    *string `json:"avatar,omitempty"`
	Role      *string `json:"role,omitempty"`
	IsActive  *bool   `json:"isActive,omitempty"`
}

type AddressInput struct {
	FullName   *string `json:"fullName,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	Street     *string `json:"street,omitempty"`
	City       *string `json:"city,omitempty"`
	State      *string `json:"state,omitempty"`
	PostalCode *string `json:"postalCode,omitempty"`
	Country    *string `json:"country,omitempty"`
	IsDefault  *bool   `json:"isDefault,omitempty"`
}

type ProductInput struct {
	Name          *string  `json:"name,omitempty"`
	Description   *string  `json:"description,omitempty"`
	Price         *float64 `json:"price,omitempty"`
	OriginalPrice *float64 `json:"originalPrice,omitempty"`
	Discount      *float64 `json:"discount,omitempty"`
	Category      *string  `json:"category,omitempty"`
	Images        []string `json:"images,omitempty"`
	Stock         *int     `json:"stock,omitempty"`
	Featured      *bool    `json:"featured,omitempty"`
	IsActive      *bool    `json:"isActive,omitempty"`
	Tags          []string `json:"tags,omitempty"`
}

type CreateReviewInput struct {
	ProductID string  `json:"productId"`
	Rating    int     `json:"rating"`
	Comment   *string `json:"comment,omitempty"`
}

type OrderItemInput struct {
	ProductID string   `json:"productId"`
	Quantity  int      `json:"quantity"`
	Price     *float64 `json:"price,omitempty"`
	Name      *string  `json:"name,omitempty"`
	SellerID  *string  `json:"sellerId,omitempty"`
}

type CreateOrderInput struct {
	Items           []*OrderItemInput `json:"items"`
	ShippingAddress *AddressInput     `json:"shippingAddress,omitempty"`
	PaymentMethod   *string           `json:"paymentMethod,omitempty"`
	CouponCode      *string           `json:"couponCode,omitempty"`
	Notes           *string           `json:"notes,omitempty"`
}

type CategoryInput struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Image       *string `json:"image,omitempty"`
	ParentID    *string `json:"parentId,omitempty"`
	IsActive    *bool   `json:"isActive,omitempty"`
}

type CouponInput struct {
	Code           *string  `json:"code,omitempty"`
	Description    *string  `json:"description,omitempty"`
	DiscountType   *string  `json:"discountType,omitempty"`
	DiscountValue  *float64 `json:"discountValue,omitempty"`
	MinOrderAmount *float64 `json:"minOrderAmount,omitempty"`
	MaxDiscount    *float64 `json:"maxDiscount,omitempty"`
	UsageLimit     *int     `json:"usageLimit,omitempty"`
	IsActive       *bool    `json:"isActive,omitempty"`
	ValidFrom      *string  `json:"validFrom,omitempty"`
	ValidUntil     *string  `json:"validUntil,omitempty"`
}

// Downstream services store enum-like values in lower case.

func (in *RegisterInput) Normalize() {
	in.Role = lower(in.Role)
}

func (in *UpdateUserInput) Normalize() {
	in.Role = lower(in.Role)
}

func (in *CouponInput) Normalize() {
	in.DiscountType = lower(in.DiscountType)
	if in.Code != nil {
		code := strings.ToUpper(strings.TrimSpace(*in.Code))
		in.Code = &code
	}
}

func lower(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.ToLower(strings.TrimSpace(*s))
	return &v
}
