package backend

import (
	"net/url"
	"strconv"
)

// PageQuery is the page/limit pair of list endpoints. Nil means "service default".
type PageQuery struct {
	Page  *int `json:"page"`
	Limit *int `json:"limit"`
}

func (q PageQuery) page() int {
	if q.Page != nil && *q.Page > 0 {
		return *q.Page
	}
	return 1
}

func (q PageQuery) limit(received int) int {
	if q.Limit != nil && *q.Limit > 0 {
		return *q.Limit
	}
	return received
}

func (q PageQuery) values(v url.Values) {
	setInt(v, "page", q.Page)
	setInt(v, "limit", q.Limit)
}

type UserQuery struct {
	PageQuery
	Search *string `json:"search"`
	Role   *string `json:"role"`
}

func (q UserQuery) Values() url.Values {
	v := url.Values{}
	q.PageQuery.values(v)
	setString(v, "search", q.Search)
	setString(v, "role", q.Role)
	return v
}

type ProductQuery struct {
	PageQuery
	Search    *string  `json:"search"`
	Category  *string  `json:"category"`
	MinPrice  *float64 `json:"minPrice"`
	MaxPrice  *float64 `json:"maxPrice"`
	SortBy    *string  `json:"sortBy"`
	SortOrder *string  `json:"sortOrder"`
	Featured  *bool    `json:"featured"`
}

func (q ProductQuery) Values() url.Values {
	v := url.Values{}
	q.PageQuery.values(v)
	setString(v, "search", q.Search)
	setString(v, "category", q.Category)
	setFloat(v, "minPrice", q.MinPrice)
	setFloat(v, "maxPrice", q.MaxPrice)
	setString(v, "sortBy", q.SortBy)
	setString(v, "sortOrder", q.SortOrder)
	setBool(v, "featured", q.Featured)
	return v
}

type OrderQuery struct {
	PageQuery
	CustomerID *string `json:"customerId"`
	Status     *string `json:"status"`
}

func (q OrderQuery) Values() url.Values {
	v := url.Values{}
	q.PageQuery.values(v)
	setString(v, "customerId", q.CustomerID)
	setString(v, "status", q.Status)
	return v
}

type CategoryQuery struct {
	Search   *string `json:"search"`
	IsActive *bool   `json:"isActive"`
	ParentID *string `json:"parentId"`
}

func (q CategoryQuery) Values() url.Values {
	v := url.Values{}
	setString(v, "search", q.Search)
	setBool(v, "isActive", q.IsActive)
	setString(v, "parentId", q.ParentID)
	return v
}

type CouponQuery struct {
	PageQuery
	Search   *string `json:"search"`
	IsActive *bool   `json:"isActive"`
}

func (q CouponQuery) Values() url.Values {
	v := url.Values{}
	q.PageQuery.values(v)
	setString(v, "search", q.Search)
	setBool(v, "isActive", q.IsActive)
	return v
}

func setString(v url.Values, key string, p *string) {
	if p != nil && *p != "" {
		v.Set(key, *p)
	}
}

func setInt(v url.Values, key string, p *int) {
	if p != nil {
		v.Set(key, strconv.Itoa(*p))
	}
}

func setFloat(v url.Values, key string, p *float64) {
	if p != nil {
		v.Set(key, strconv.FormatFloat(*p, 'f', -1, 64))
	}
}

func setBool(v url.Values, key string, p *bool) {
	if p != nil {
		v.Set(key, strconv.FormatBool(*p))
	}
}
