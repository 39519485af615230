package upstream

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/vvakame/shopgate/internal/auth"
)

func TestClient_Do(t *testing.T) {
	var gotAuth, gotContentType, gotQuery, gotRequestID string
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		gotQuery = r.URL.RawQuery
		gotRequestID = r.Header.Get("X-Request-Id")
		b, _ := io.ReadAll(r.Body)
		if len(b) != 0 {
			_ = json.Unmarshal(b, &gotBody)
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := New("product", srv.URL+"/")

	t.Run("with token", func(t *testing.T) {
		token := "tok"
		ctx := auth.WithRequestContext(context.Background(), auth.RequestContext{Token: &token})
		ctx = WithRequestID(ctx, "req-1")
		b, err := c.Do(ctx, Request{
			Method: http.MethodPost,
			Path:   "/api/products",
			Query:  url.Values{"page": {"2"}},
			Body:   map[string]interface{}{"name": "Mug"},
		})
		if err != nil {
			t.Fatal(err)
		}
		if string(b) != `{"ok":true}` {
			t.Errorf("body = %s", b)
		}
		if gotAuth != "Bearer tok" {
			t.Errorf("Authorization = %q", gotAuth)
		}
		if gotContentType != "application/json" {
			t.Errorf("Content-Type = %q", gotContentType)
		}
		if gotQuery != "page=2" {
			t.Errorf("query = %q", gotQuery)
		}
		if gotRequestID != "req-1" {
			t.Errorf("X-Request-Id = %q", gotRequestID)
		}
		if gotBody["name"] != "Mug" {
			t.Errorf("body = %v", gotBody)
		}
	})

	t.Run("without token", func(t *testing.T) {
		_, err := c.Do(context.Background(), Request{Path: "/api/products"})
		if err != nil {
			t.Fatal(err)
		}
		if gotAuth != "" {
			t.Errorf("Authorization must be omitted, got %q", gotAuth)
		}
	})
}

func TestClient_Do_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/bad":
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"success":false,"message":"Invalid coupon code"}`))
		case "/conflict":
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte(`{"errors":[{"msg":"Category with this name already exists"}]}`))
		case "/boom":
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(`<html>bad gateway</html>`))
		case "/slow":
			time.Sleep(200 * time.Millisecond)
			_, _ = w.Write([]byte(`{}`))
		}
	}))
	defer srv.Close()

	c := New("coupon", srv.URL, WithTimeout(50*time.Millisecond))

	tests := []struct {
		path        string
		status      int
		message     string
		clientError bool
		timeout     bool
	}{
		{"/bad", 400, "Invalid coupon code", true, false},
		{"/conflict", 409, "Category with this name already exists", true, false},
		{"/boom", 502, "<html>bad gateway</html>", false, false},
		{"/slow", 0, "coupon service timed out", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			_, err := c.Do(context.Background(), Request{Path: tt.path})
			uErr, ok := AsError(err)
			if !ok {
				t.Fatalf("expected *Error, got %T: %v", err, err)
			}
			if uErr.StatusCode != tt.status {
				t.Errorf("status = %d", uErr.StatusCode)
			}
			if uErr.Message != tt.message {
				t.Errorf("message = %q", uErr.Message)
			}
			if uErr.ClientError() != tt.clientError {
				t.Errorf("ClientError = %v", uErr.ClientError())
			}
			if uErr.Unavailable() == tt.clientError {
				t.Errorf("Unavailable = %v", uErr.Unavailable())
			}
			if uErr.Timeout != tt.timeout {
				t.Errorf("Timeout = %v", uErr.Timeout)
			}
			if uErr.Service != "coupon" {
				t.Errorf("service = %q", uErr.Service)
			}
		})
	}
}

func TestClient_Do_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	c := New("order", srv.URL)
	_, err := c.Do(context.Background(), Request{Path: "/api/orders"})
	uErr, ok := AsError(err)
	if !ok {
		t.Fatalf("expected *Error, got %v", err)
	}
	if !uErr.Unavailable() || uErr.StatusCode != 0 {
		t.Errorf("unexpected error: %+v", uErr)
	}
}

func TestExtractMessage(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{``, ""},
		{`{"message":"nope"}`, "nope"},
		{`{"error":"denied"}`, "denied"},
		{`{"error":{"message":"nested"}}`, "nested"},
		{`{"errors":[{"message":"first"},{"message":"second"}]}`, "first"},
		{`{"status":"fail"}`, ""},
		{`plain text`, "plain text"},
	}
	for _, tt := range tests {
		if got := ExtractMessage([]byte(tt.body)); got != tt.want {
			t.Errorf("ExtractMessage(%s) = %q, want %q", tt.body, got, tt.want)
		}
	}
}

func TestMetrics(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	c := New("category", srv.URL, WithMetrics(m))
	for i := 0; i < 3; i++ {
		if _, err := c.Do(context.Background(), Request{Path: "/api/categories"}); err != nil {
			t.Fatal(err)
		}
	}

	got := testutil.ToFloat64(m.requests.WithLabelValues("category", http.MethodGet, "200"))
	if got != 3 {
		t.Errorf("requests_total = %v", got)
	}
}
