package model

import (
	"github.com/vvakame/shopgate/internal/backend"
	"github.com/vvakame/shopgate/internal/normalize"
)

func NewPagination[T any](p *backend.Page[T]) *Pagination {
	return &Pagination{
		Page:       p.Page,
		Limit:      p.Limit,
		Total:      p.Total,
		TotalPages: p.TotalPages,
	}
}

func NewUser(doc *backend.UserDoc) *User {
	if doc == nil {
		return nil
	}
	u := &User{
		ID:        doc.Key(),
		Name:      doc.Name,
		FirstName: normalize.String(doc.FirstName),
		LastName:  normalize.String(doc.LastName),
		Email:     doc.Email,
		Role:      normalize.Enum(doc.Role),
		Phone:     normalize.String(doc.Phone),
		Avatar:    normalize.String(doc.Avatar),
		IsActive:  doc.IsActive,
		Addresses: NewAddresses(doc.Addresses),
		CreatedAt: normalize.Time(doc.CreatedAt),
		UpdatedAt: normalize.Time(doc.UpdatedAt),
	}
	if u.Name == "" && (doc.FirstName != "" || doc.LastName != "") {
		u.Name = joinName(doc.FirstName, doc.LastName)
	}
	return u
}

func joinName(first, last string) string {
	switch {
	case first == "":
		return last
	case last == "":
		return first
	default:
		return first + " " + last
	}
}

func NewUsers(docs []backend.UserDoc) []*User {
	list := make([]*User, 0, len(docs))
	for i := range docs {
		list = append(list, NewUser(&docs[i]))
	}
	return list
}

func NewAddress(doc *backend.AddressDoc) *Address {
	if doc == nil {
		return nil
	}
	return &Address{
		ID:         doc.Key(),
		FullName:   normalize.String(normalize.FirstNonEmpty(doc.FullName, doc.Name)),
		Phone:      normalize.String(doc.Phone),
		Street:     normalize.String(normalize.FirstNonEmpty(doc.Street, doc.Address)),
		City:       normalize.String(doc.City),
		State:      normalize.String(doc.State),
		PostalCode: normalize.String(normalize.FirstNonEmpty(doc.PostalCode, doc.ZipCode)),
		Country:    normalize.String(doc.Country),
		IsDefault:  doc.IsDefault,
		CreatedAt:  normalize.Time(doc.CreatedAt),
		UpdatedAt:  normalize.Time(doc.UpdatedAt),
	}
}

func NewAddresses(docs []backend.AddressDoc) []*Address {
	list := make([]*Address, 0, len(docs))
	for i := range docs {
		list = append(list, NewAddress(&docs[i]))
	}
	return list
}

// NewSeller builds a seller from a populated reference, or nil when the
// reference carries no usable document.
func NewSeller(ref backend.RefOrID) *Seller {
	if !ref.Populated || ref.Key() == "" || ref.Name == "" {
		return nil
	}
	return &Seller{ID: ref.Key(), Name: ref.Name, Email: normalize.String(ref.Email)}
}

func NewSellerFromUser(doc *backend.UserDoc) *Seller {
	u := NewUser(doc)
	if u == nil {
		return nil
	}
	return &Seller{ID: u.ID, Name: u.Name, Email: normalize.String(u.Email)}
}

func NewProduct(doc *backend.ProductDoc) *Product {
	if doc == nil {
		return nil
	}
	p := &Product{
		ID:            doc.Key(),
		Name:          doc.Name,
		Description:   normalize.String(doc.Description),
		Price:         doc.Price.Float(),
		OriginalPrice: normalize.Float(doc.OriginalPrice),
		Discount:      doc.Discount.Float(),
		Images:        doc.Images,
		Stock:         doc.Stock.Int(),
		Rating:        doc.Rating.Float(),
		ReviewCount:   doc.ReviewCount.Int(),
		Featured:      doc.Featured || doc.IsFeatured,
		IsActive:      doc.IsActive,
		Tags:          doc.Tags,
		CreatedAt:     normalize.Time(doc.CreatedAt),
		UpdatedAt:     normalize.Time(doc.UpdatedAt),
	}
	if p.Images == nil {
		p.Images = []string{}
		if doc.Image != "" {
			p.Images = append(p.Images, doc.Image)
		}
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if p.ReviewCount == 0 {
		p.ReviewCount = doc.NumReviews.Int()
	}
	if id := doc.Category.Key(); id != "" {
		p.Category = &CategoryRef{ID: id, Name: normalize.String(doc.Category.Name)}
	} else if doc.Category.Name != "" {
		p.Category = &CategoryRef{ID: doc.Category.Name, Name: normalize.String(doc.Category.Name)}
	}

	p.SellerRef = doc.SellerID
	if p.SellerRef.Key() == "" {
		p.SellerRef = doc.Seller
	}
	p.SellerID = normalize.String(p.SellerRef.Key())

	return p
}

func NewProducts(docs []backend.ProductDoc) []*Product {
	list := make([]*Product, 0, len(docs))
	for i := range docs {
		list = append(list, NewProduct(&docs[i]))
	}
	return list
}

func NewReview(doc *backend.ReviewDoc) *Review {
	if doc == nil {
		return nil
	}
	user := doc.UserID
	if user.Key() == "" {
		user = doc.User
	}
	return &Review{
		ID:        doc.Key(),
		ProductID: normalize.String(doc.ProductID.Key()),
		UserID:    normalize.String(user.Key()),
		UserName:  normalize.String(normalize.FirstNonEmpty(doc.UserName, user.Name)),
		Rating:    doc.Rating.Int(),
		Comment:   normalize.String(doc.Comment),
		CreatedAt: normalize.Time(doc.CreatedAt),
		UpdatedAt: normalize.Time(doc.UpdatedAt),
	}
}

func NewReviews(docs []backend.ReviewDoc) []*Review {
	list := make([]*Review, 0, len(docs))
	for i := range docs {
		list = append(list, NewReview(&docs[i]))
	}
	return list
}

func NewOrder(doc *backend.OrderDoc) *Order {
	if doc == nil {
		return nil
	}
	customer := doc.CustomerID
	if customer.Key() == "" {
		customer = doc.UserID
	}
	o := &Order{
		ID:              doc.Key(),
		OrderNumber:     normalize.String(doc.OrderNumber),
		CustomerID:      normalize.String(customer.Key()),
		SellerID:        normalize.String(doc.SellerID.Key()),
		Items:           make([]*OrderItem, 0, len(doc.Items)),
		ShippingAddress: NewAddress(doc.ShippingAddress),
		Subtotal:        doc.Subtotal.Float(),
		Tax:             doc.Tax.Float(),
		ShippingCost:    doc.ShippingCost.Float(),
		Discount:        doc.Discount.Float(),
		Total:           doc.TotalValue(),
		CouponCode:      normalize.String(doc.CouponCode),
		OrderStatus:     normalize.Enum(doc.StatusValue()),
		PaymentStatus:   normalize.Enum(doc.PaymentStatus),
		PaymentMethod:   normalize.String(doc.PaymentMethod),
		Notes:           normalize.String(doc.Notes),
		CreatedAt:       normalize.Time(doc.CreatedAt),
		UpdatedAt:       normalize.Time(doc.UpdatedAt),
	}
	for _, item := range doc.Items {
		product := item.ProductID
		if product.Key() == "" {
			product = item.Product
		}
		o.Items = append(o.Items, &OrderItem{
			ProductID: normalize.String(product.Key()),
			Name:      normalize.String(normalize.FirstNonEmpty(item.Name, product.Name)),
			Price:     item.Price.Float(),
			Quantity:  item.Quantity.Int(),
			Image:     normalize.String(item.Image),
			SellerID:  normalize.String(item.SellerID.Key()),
		})
	}
	return o
}

func NewOrders(docs []backend.OrderDoc) []*Order {
	list := make([]*Order, 0, len(docs))
	for i := range docs {
		list = append(list, NewOrder(&docs[i]))
	}
	return list
}

func NewCreateOrderPayload(doc *backend.CreateOrderDoc) *CreateOrderPayload {
	orders := NewOrders(doc.Orders)
	p := &CreateOrderPayload{
		Orders:     orders,
		OrderCount: len(orders),
		Message:    normalize.String(doc.Message),
	}
	if len(orders) != 0 {
		p.Order = orders[0]
	}
	return p
}

func NewCategory(doc *backend.CategoryDoc) *Category {
	if doc == nil {
		return nil
	}
	parent := doc.ParentID
	if parent.Key() == "" {
		parent = doc.Parent
	}
	return &Category{
		ID:           doc.Key(),
		Name:         doc.Name,
		Slug:         normalize.String(doc.Slug),
		Description:  normalize.String(doc.Description),
		Image:        normalize.String(doc.Image),
		ParentID:     normalize.String(parent.Key()),
		IsActive:     doc.IsActive,
		ProductCount: normalize.Int(doc.ProductCount),
		CreatedAt:    normalize.Time(doc.CreatedAt),
		UpdatedAt:    normalize.Time(doc.UpdatedAt),
	}
}

func NewCategories(docs []backend.CategoryDoc) []*Category {
	list := make([]*Category, 0, len(docs))
	for i := range docs {
		list = append(list, NewCategory(&docs[i]))
	}
	return list
}

func NewCoupon(doc *backend.CouponDoc) *Coupon {
	if doc == nil {
		return nil
	}
	validUntil := doc.ValidUntil
	if !validUntil.Valid {
		validUntil = doc.ExpiresAt
	}
	return &Coupon{
		ID:             doc.Key(),
		Code:           doc.Code,
		Description:    normalize.String(doc.Description),
		DiscountType:   normalize.Enum(doc.DiscountType),
		DiscountValue:  doc.DiscountValue.Float(),
		MinOrderAmount: normalize.Float(doc.MinOrderAmount),
		MaxDiscount:    normalize.Float(doc.MaxDiscount),
		UsageLimit:     normalize.Int(doc.UsageLimit),
		UsedCount:      doc.UsedCount.Int(),
		IsActive:       doc.IsActive,
		ValidFrom:      normalize.Time(doc.ValidFrom),
		ValidUntil:     normalize.Time(validUntil),
		CreatedAt:      normalize.Time(doc.CreatedAt),
		UpdatedAt:      normalize.Time(doc.UpdatedAt),
	}
}

func NewCoupons(docs []backend.CouponDoc) []*Coupon {
	list := make([]*Coupon, 0, len(docs))
	for i := range docs {
		list = append(list, NewCoupon(&docs[i]))
	}
	return list
}

// NewCouponValidation maps an accepted validation. Services that omit
// finalTotal get orderTotal minus the discount.
func NewCouponValidation(doc *backend.CouponValidationDoc, orderTotal float64) *CouponValidation {
	v := &CouponValidation{
		Valid:    doc.Valid == nil || *doc.Valid,
		Coupon:   NewCoupon(doc.Coupon),
		Discount: normalize.Money(doc.Discount.Float()),
		Message:  normalize.String(doc.Message),
	}
	if doc.FinalTotal != nil {
		v.FinalTotal = normalize.Money(doc.FinalTotal.Float())
	} else {
		v.FinalTotal = normalize.Money(orderTotal - v.Discount)
	}
	if !v.Valid {
		v.Discount = 0
		v.FinalTotal = orderTotal
	}
	return v
}

// InvalidCoupon is the answer for a code the coupon service rejected.
func InvalidCoupon(orderTotal float64, message string) *CouponValidation {
	if message == "" {
		message = "Invalid coupon code"
	}
	return &CouponValidation{
		Valid:      false,
		Discount:   0,
		FinalTotal: orderTotal,
		Message:    &message,
	}
}
