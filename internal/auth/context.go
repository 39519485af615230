// Package auth builds the per-operation request context from the inbound
// transport request. The gateway never issues tokens; it only forwards them.
package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/vvakame/shopgate/internal/log"
)

// RequestContext is created once per operation and never mutated afterwards.
type RequestContext struct {
	Token  *string
	Claims *Claims
}

func (rc RequestContext) Authenticated() bool {
	return rc.Token != nil
}

// BearerToken returns the token or "" when absent.
func (rc RequestContext) BearerToken() string {
	if rc.Token == nil {
		return ""
	}
	return *rc.Token
}

type ctxKey struct{}

func WithRequestContext(ctx context.Context, rc RequestContext) context.Context {
	return context.WithValue(ctx, ctxKey{}, rc)
}

// FromContext returns the request context, or an anonymous one when none was installed.
func FromContext(ctx context.Context) RequestContext {
	rc, _ := ctx.Value(ctxKey{}).(RequestContext)
	return rc
}

// FromRequest extracts the bearer token of r. It never fails: a missing or
// malformed header, or a token rejected by v, yields an anonymous context.
// v may be nil.
func FromRequest(r *http.Request, v Verifier) RequestContext {
	token := ExtractToken(r.Header)
	if token == "" {
		return RequestContext{}
	}

	rc := RequestContext{Token: &token}
	if v == nil {
		return rc
	}

	claims, err := v.Verify(token)
	if err != nil {
		return RequestContext{}
	}
	rc.Claims = claims
	return rc
}

// ExtractToken reads the Authorization header. Both "Bearer <token>" (scheme
// matched case-insensitively) and a bare token are accepted.
func ExtractToken(h http.Header) string {
	value := strings.TrimSpace(headerValue(h, "Authorization"))
	if value == "" {
		return ""
	}

	scheme, rest, found := strings.Cut(value, " ")
	switch {
	case found && strings.EqualFold(scheme, "bearer"):
		return strings.TrimSpace(rest)
	case found:
		// another scheme, e.g. Basic
		return ""
	case strings.EqualFold(value, "bearer"):
		return ""
	default:
		return value
	}
}

// headerValue looks key up case-insensitively, including headers set
// without canonicalization.
func headerValue(h http.Header, key string) string {
	if v := h.Get(key); v != "" {
		return v
	}
	for k, vs := range h {
		if strings.EqualFold(k, key) && len(vs) != 0 {
			return vs[0]
		}
	}
	return ""
}

// Middleware installs the RequestContext of every request into its context.
func Middleware(v Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rc := FromRequest(r, v)
			ctx := WithRequestContext(r.Context(), rc)
			if rc.Claims != nil {
				ctx = log.WithValues(ctx, "userID", rc.Claims.UserKey())
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
