package resolver

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/google/go-cmp/cmp"
	"github.com/vvakame/shopgate/internal/gqlerrors"
	"github.com/vvakame/shopgate/internal/testutils"
)

func TestMe_Normalized(t *testing.T) {
	es, fake := newTestGateway(t)
	fake.JSON(http.MethodGet, "/api/auth/me", http.StatusOK, `{
		"success": true,
		"user": {
			"_id": {"$oid": "u1"},
			"firstName": "Ada",
			"lastName": "Lovelace",
			"email": "ada@example.com",
			"role": "seller",
			"createdAt": {"$date": "2024-03-01T10:00:00+09:00"},
			"addresses": [
				{"id": "a1", "name": "Ada", "address": "1-1 Chiyoda", "zipCode": "100-0001", "isDefault": true}
			]
		}
	}`)

	data := runOK(t, es, testToken, heredoc.Doc(`
		{
			me {
				id
				name
				role
				createdAt
				updatedAt
				addresses { id fullName street postalCode isDefault }
			}
		}
	`))
	expected := map[string]interface{}{
		"me": map[string]interface{}{
			"id":        "u1",
			"name":      "Ada Lovelace",
			"role":      "SELLER",
			"createdAt": "2024-03-01T01:00:00.000Z",
			"updatedAt": nil,
			"addresses": []interface{}{
				map[string]interface{}{
					"id":         "a1",
					"fullName":   "Ada",
					"street":     "1-1 Chiyoda",
					"postalCode": "100-0001",
					"isDefault":  true,
				},
			},
		},
	}
	if diff := cmp.Diff(expected, data); diff != "" {
		t.Errorf("unexpected data (-want +got):\n%s", diff)
	}

	reqs := fake.Requests(http.MethodGet, "/api/auth/me")
	if len(reqs) != 1 {
		t.Fatalf("calls = %d", len(reqs))
	}
	if v := reqs[0].Header.Get("Authorization"); v != "Bearer "+testToken {
		t.Errorf("unexpected authorization: %s", v)
	}
}

func TestMe_InvalidToken(t *testing.T) {
	es, fake := newTestGateway(t)
	fake.JSON(http.MethodGet, "/api/auth/me", http.StatusUnauthorized, `{"message": "Token is not valid"}`)

	resp := run(t, es, testToken, `{ me { id } }`)
	if len(resp.Errors) != 1 {
		t.Fatalf("unexpected errors: %v", resp.Errors)
	}
	if v := gqlerrors.Code(resp.Errors[0]); v != gqlerrors.CodeUnauthenticated {
		t.Errorf("unexpected code: %s", v)
	}
	if v := resp.Errors[0].Message; v != "Token is not valid" {
		t.Errorf("unexpected message: %s", v)
	}
}

func TestUsers_Filters(t *testing.T) {
	es, fake := newTestGateway(t)
	fake.JSON(http.MethodGet, "/api/auth/users", http.StatusOK, `{
		"users": [{"id": "u1", "name": "Ada", "email": "ada@example.com", "role": "admin"}],
		"total": 21,
		"page": 3,
		"limit": 10
	}`)

	data := runOK(t, es, testToken, `{ users(page: 3, limit: 10, role: "ADMIN") { users { id role } pagination { page limit total totalPages } } }`)
	expected := map[string]interface{}{
		"users": map[string]interface{}{
			"users":      []interface{}{map[string]interface{}{"id": "u1", "role": "ADMIN"}},
			"pagination": map[string]interface{}{"page": 3.0, "limit": 10.0, "total": 21.0, "totalPages": 3.0},
		},
	}
	if diff := cmp.Diff(expected, data); diff != "" {
		t.Errorf("unexpected data (-want +got):\n%s", diff)
	}

	reqs := fake.Requests(http.MethodGet, "/api/auth/users")
	if len(reqs) != 1 {
		t.Fatalf("calls = %d", len(reqs))
	}
	if q := reqs[0].Query; q.Get("role") != "admin" || q.Get("page") != "3" || q.Get("limit") != "10" || q.Has("search") {
		t.Errorf("unexpected query: %v", q)
	}
}

func TestCreateReview(t *testing.T) {
	es, fake := newTestGateway(t)
	fake.JSON(http.MethodGet, "/api/auth/me", http.StatusOK, `{"user": {"_id": "u1", "firstName": "Ada", "lastName": "Lovelace", "email": "ada@example.com"}}`)
	fake.Handle(http.MethodPost, "/api/products/{id}/reviews", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&body)
		body["_id"] = "r1"
		body["productId"] = "p1"
		testutils.WriteJSON(w, http.StatusCreated, map[string]interface{}{"success": true, "review": body})
	})

	data := runOK(t, es, testToken, `mutation { createReview(input: {productId: "p1", rating: 5, comment: "Great"}) { id productId userId userName rating comment } }`)
	expected := map[string]interface{}{
		"createReview": map[string]interface{}{
			"id":        "r1",
			"productId": "p1",
			"userId":    "u1",
			"userName":  "Ada Lovelace",
			"rating":    5.0,
			"comment":   "Great",
		},
	}
	if diff := cmp.Diff(expected, data); diff != "" {
		t.Errorf("unexpected data (-want +got):\n%s", diff)
	}

	if v := fake.Calls(http.MethodGet, "/api/auth/me"); v != 1 {
		t.Errorf("me calls = %d", v)
	}
	reqs := fake.Requests(http.MethodPost, "/api/products/{id}/reviews")
	if len(reqs) != 1 || reqs[0].Path != "/api/products/p1/reviews" {
		t.Fatalf("unexpected requests: %+v", reqs)
	}
}

func TestCreateReview_AuthorLookupFails(t *testing.T) {
	es, fake := newTestGateway(t)
	fake.JSON(http.MethodGet, "/api/auth/me", http.StatusServiceUnavailable, `{}`)

	resp := run(t, es, testToken, `mutation { createReview(input: {productId: "p1", rating: 5}) { id } }`)
	if len(resp.Errors) != 1 || gqlerrors.Code(resp.Errors[0]) != gqlerrors.CodeUpstreamUnavailable {
		t.Fatalf("unexpected errors: %v", resp.Errors)
	}
	if v := fake.Calls(http.MethodPost, "/api/products/{id}/reviews"); v != 0 {
		t.Errorf("review must not be posted, got %d calls", v)
	}
}

func TestCreateCategory_UpstreamMessage(t *testing.T) {
	es, fake := newTestGateway(t)
	fake.JSON(http.MethodPost, "/api/categories", http.StatusConflict, `{"success": false, "message": "Category with this name already exists"}`)

	resp := run(t, es, testToken, `mutation { createCategory(input: {name: "Books"}) { id } }`)
	if len(resp.Errors) != 1 {
		t.Fatalf("unexpected errors: %v", resp.Errors)
	}
	gErr := resp.Errors[0]
	if v := gqlerrors.Code(gErr); v != gqlerrors.CodeUpstreamValidation {
		t.Errorf("unexpected code: %s", v)
	}
	if v := gErr.Message; v != "Category with this name already exists" {
		t.Errorf("unexpected message: %s", v)
	}
	if v := gErr.Extensions["service"]; v != "category" {
		t.Errorf("unexpected service: %v", v)
	}
}

func TestCategories_Filter(t *testing.T) {
	es, fake := newTestGateway(t)
	fake.JSON(http.MethodGet, "/api/categories", http.StatusOK, `{"data": [{"_id": "c2", "name": "Novels", "parent": {"_id": "c1", "name": "Books"}, "isActive": true}]}`)

	data := runOK(t, es, "", `{ categories(filter: {isActive: true, parentId: "c1"}) { id name parentId isActive } }`)
	expected := map[string]interface{}{
		"categories": []interface{}{
			map[string]interface{}{"id": "c2", "name": "Novels", "parentId": "c1", "isActive": true},
		},
	}
	if diff := cmp.Diff(expected, data); diff != "" {
		t.Errorf("unexpected data (-want +got):\n%s", diff)
	}

	reqs := fake.Requests(http.MethodGet, "/api/categories")
	if len(reqs) != 1 {
		t.Fatalf("calls = %d", len(reqs))
	}
	if q := reqs[0].Query; q.Get("isActive") != "true" || q.Get("parentId") != "c1" || q.Has("search") {
		t.Errorf("unexpected query: %v", q)
	}
}
