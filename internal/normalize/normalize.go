// Package normalize holds the small mapping rules every entity goes through
// before it leaves the gateway.
package normalize

import (
	"math"
	"strings"

	"github.com/vvakame/shopgate/internal/backend"
)

// TimeLayout is how every date-like field is serialized.
const TimeLayout = "2006-01-02T15:04:05.000Z"

// Time formats d as an ISO-8601 UTC string, or nil when the service sent nothing usable.
func Time(d backend.Date) *string {
	if !d.Valid || d.Time.IsZero() {
		return nil
	}
	s := d.Time.UTC().Format(TimeLayout)
	return &s
}

// Enum normalizes status-like values to upper case.
func Enum(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// EqualFold reports whether two status values are the same status.
func EqualFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// String returns nil for empty strings.
func String(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// FirstNonEmpty picks the first non empty value, for fields that services spell differently.
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Float returns nil for an absent number.
func Float(n *backend.Number) *float64 {
	if n == nil {
		return nil
	}
	f := n.Float()
	return &f
}

// Int returns nil for an absent number.
func Int(n *backend.Number) *int {
	if n == nil {
		return nil
	}
	i := n.Int()
	return &i
}

// Money rounds to cents.
func Money(f float64) float64 {
	return math.Round(f*100) / 100
}

// Ratio divides and yields 0 instead of NaN or Inf when the denominator is 0.
func Ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
