package gqlerrors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	testlogr "github.com/go-logr/logr/testing"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vvakame/shopgate/internal/log"
	"github.com/vvakame/shopgate/internal/upstream"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    string
		message string
		status  interface{}
	}{
		{
			name:    "validation message kept verbatim",
			err:     &upstream.Error{Service: "category", StatusCode: 409, Message: "Category with this name already exists"},
			code:    CodeUpstreamValidation,
			message: "Category with this name already exists",
			status:  409,
		},
		{
			name:    "invalid token",
			err:     &upstream.Error{Service: "auth", StatusCode: 401, Message: "Token is not valid"},
			code:    CodeUnauthenticated,
			message: "Token is not valid",
			status:  401,
		},
		{
			name:    "forbidden",
			err:     &upstream.Error{Service: "order", StatusCode: 403, Message: "Access denied"},
			code:    CodeForbidden,
			message: "Access denied",
			status:  403,
		},
		{
			name:    "not found",
			err:     fmt.Errorf("load: %w", &upstream.Error{Service: "product", StatusCode: 404, Message: "Product not found"}),
			code:    CodeNotFound,
			message: "Product not found",
			status:  404,
		},
		{
			name:    "server error hides body",
			err:     &upstream.Error{Service: "order", StatusCode: 502, Message: "<html>bad gateway</html>"},
			code:    CodeUpstreamUnavailable,
			message: "order service is unavailable",
			status:  502,
		},
		{
			name:    "timeout",
			err:     &upstream.Error{Service: "coupon", Timeout: true, Message: "coupon service timed out"},
			code:    CodeUpstreamUnavailable,
			message: "coupon service timed out",
		},
		{
			name:    "unexpected",
			err:     errors.New("nil map"),
			code:    CodeInternal,
			message: "Internal server error",
		},
		{
			name:    "already translated",
			err:     Unauthenticated(),
			code:    CodeUnauthenticated,
			message: "Authentication required",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Translate(tt.err)
			if got.Message != tt.message {
				t.Errorf("message = %q", got.Message)
			}
			if Code(got) != tt.code {
				t.Errorf("code = %q", Code(got))
			}
			if got.Extensions["status"] != tt.status {
				t.Errorf("status = %v", got.Extensions["status"])
			}
		})
	}

	if Translate(nil) != nil {
		t.Error("nil must stay nil")
	}
}

func TestGuard(t *testing.T) {
	ctx := log.WithLogger(context.Background(), testlogr.NewTestLogger(t))
	failing := func() (interface{}, error) {
		return nil, &upstream.Error{Service: "order", StatusCode: 500, Message: "boom"}
	}
	fallback := func() interface{} { return "fallback" }

	t.Run("mandatory surfaces", func(t *testing.T) {
		v, err := Guard(ctx, Mandatory, failing, fallback)
		if v != nil {
			t.Errorf("value = %v", v)
		}
		var gErr *gqlerror.Error
		if !errors.As(err, &gErr) || Code(gErr) != CodeUpstreamUnavailable {
			t.Errorf("err = %v", err)
		}
	})

	t.Run("best effort degrades", func(t *testing.T) {
		v, err := Guard(ctx, BestEffort, failing, fallback)
		if err != nil {
			t.Fatal(err)
		}
		if v != "fallback" {
			t.Errorf("value = %v", v)
		}
	})

	t.Run("success", func(t *testing.T) {
		v, err := Guard(ctx, BestEffort, func() (interface{}, error) { return 42, nil }, fallback)
		if err != nil || v != 42 {
			t.Errorf("got %v, %v", v, err)
		}
	})
}
