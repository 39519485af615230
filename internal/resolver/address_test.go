package resolver

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAddresses(t *testing.T) {
	es, fake := newTestGateway(t)
	fake.JSON(http.MethodGet, "/api/auth/addresses", http.StatusOK, `{"success": true, "data": {"addresses": [
		{"_id": "a1", "name": "Carol", "address": "1 Main St", "zipCode": "100-0001", "isDefault": true},
		{"id": "a2", "fullName": "Carol", "street": "2 Side St", "postalCode": "100-0002"}
	]}}`)

	data := runOK(t, es, testToken, `{ addresses { id fullName street postalCode isDefault } }`)
	expected := map[string]interface{}{
		"addresses": []interface{}{
			map[string]interface{}{"id": "a1", "fullName": "Carol", "street": "1 Main St", "postalCode": "100-0001", "isDefault": true},
			map[string]interface{}{"id": "a2", "fullName": "Carol", "street": "2 Side St", "postalCode": "100-0002", "isDefault": false},
		},
	}
	if diff := cmp.Diff(expected, data); diff != "" {
		t.Errorf("unexpected data (-want +got):\n%s", diff)
	}
}

func TestAddressMutations(t *testing.T) {
	es, fake := newTestGateway(t)
	fake.JSON(http.MethodPost, "/api/auth/addresses", http.StatusCreated, `{"success": true, "data": {"address": {"_id": "a3", "city": "Tokyo"}}}`)
	fake.JSON(http.MethodPatch, "/api/auth/addresses/{id}/default", http.StatusOK, `{"success": true, "data": {"address": {"_id": "a3", "isDefault": true}}}`)
	fake.JSON(http.MethodDelete, "/api/auth/addresses/{id}", http.StatusOK, `{"success": true, "message": "Address deleted"}`)

	data := runOK(t, es, testToken, `mutation {
		addAddress(input: {city: "Tokyo", country: "JP"}) { id city }
	}`)
	if diff := cmp.Diff(map[string]interface{}{"addAddress": map[string]interface{}{"id": "a3", "city": "Tokyo"}}, data); diff != "" {
		t.Errorf("unexpected data (-want +got):\n%s", diff)
	}

	reqs := fake.Requests(http.MethodPost, "/api/auth/addresses")
	if len(reqs) != 1 {
		t.Fatalf("calls = %d", len(reqs))
	}
	var body map[string]interface{}
	if err := json.Unmarshal(reqs[0].Body, &body); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(map[string]interface{}{"city": "Tokyo", "country": "JP"}, body); diff != "" {
		t.Errorf("unexpected body (-want +got):\n%s", diff)
	}

	data = runOK(t, es, testToken, `mutation { setDefaultAddress(id: "a3") { id isDefault } }`)
	if diff := cmp.Diff(map[string]interface{}{"setDefaultAddress": map[string]interface{}{"id": "a3", "isDefault": true}}, data); diff != "" {
		t.Errorf("unexpected data (-want +got):\n%s", diff)
	}
	if v := fake.Requests(http.MethodPatch, "/api/auth/addresses/{id}/default"); len(v) != 1 || v[0].Path != "/api/auth/addresses/a3/default" {
		t.Errorf("unexpected requests: %v", v)
	}

	data = runOK(t, es, testToken, `mutation { deleteAddress(id: "a3") }`)
	if diff := cmp.Diff(map[string]interface{}{"deleteAddress": true}, data); diff != "" {
		t.Errorf("unexpected data (-want +got):\n%s", diff)
	}
}
