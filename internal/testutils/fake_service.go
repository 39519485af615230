package testutils

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"

	"github.com/gorilla/mux"
)

// RecordedRequest is one call received by a FakeService.
type RecordedRequest struct {
	Method string
	Route  string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte
}

// FakeService is a downstream domain service double. Routes use gorilla/mux
// templates and every received call is recorded, matched or not.
type FakeService struct {
	*httptest.Server

	router *mux.Router

	mu       sync.Mutex
	requests []RecordedRequest
}

func NewFakeService(t TestingT) *FakeService {
	t.Helper()

	s := &FakeService{router: mux.NewRouter()}
	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusNotFound, map[string]interface{}{"success": false, "message": "Route not found"})
	})
	s.Server = httptest.NewServer(http.HandlerFunc(s.serveHTTP))
	t.Cleanup(s.Close)
	return s
}

func (s *FakeService) serveHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	rec := RecordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.Query(),
		Header: r.Header.Clone(),
		Body:   body,
	}
	var match mux.RouteMatch
	if s.router.Match(r, &match) && match.MatchErr == nil && match.Route != nil {
		rec.Route, _ = match.Route.GetPathTemplate()
	}

	s.mu.Lock()
	s.requests = append(s.requests, rec)
	s.mu.Unlock()

	r.Body = io.NopCloser(bytes.NewReader(body))
	s.router.ServeHTTP(w, r)
}

// Handle registers h for method and a mux path template such as /api/products/{id}.
func (s *FakeService) Handle(method, path string, h http.HandlerFunc) {
	s.router.HandleFunc(path, h).Methods(method)
}

// JSON answers method+path with a fixed status and body. body may be a
// string holding raw JSON or any value json can marshal.
func (s *FakeService) JSON(method, path string, status int, body interface{}) {
	s.Handle(method, path, func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, status, body)
	})
}

// Requests returns the calls matched to method and route template.
func (s *FakeService) Requests(method, route string) []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	var list []RecordedRequest
	for _, req := range s.requests {
		if req.Method == method && req.Route == route {
			list = append(list, req)
		}
	}
	return list
}

func (s *FakeService) Calls(method, route string) int {
	return len(s.Requests(method, route))
}

// TotalCalls counts every call received, routed or not.
func (s *FakeService) TotalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.requests)
}

func WriteJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	switch body := body.(type) {
	case string:
		_, _ = io.WriteString(w, body)
	case []byte:
		_, _ = w.Write(body)
	default:
		_ = json.NewEncoder(w).Encode(body)
	}
}
