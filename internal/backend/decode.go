package backend

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Page is one page of a list endpoint. Counters the service did not report
// are derived from the request and the items received.
type Page[T any] struct {
	Items      []T
	Total      int
	Page       int
	Limit      int
	TotalPages int
}

// payload strips the {"success": ..., "data": X} envelope some services use.
func payload(body []byte) (root, data gjson.Result, err error) {
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, gjson.Result{}, fmt.Errorf("invalid JSON response: %.100q", body)
	}
	root = gjson.ParseBytes(body)
	if d := root.Get("data"); d.IsObject() || d.IsArray() {
		return root, d, nil
	}
	return root, root, nil
}

// decodeOne decodes the entity found under the first matching key, or the
// payload itself when none matches.
func decodeOne[T any](body []byte, keys ...string) (*T, error) {
	_, data, err := payload(body)
	if err != nil {
		return nil, err
	}
	raw := data
	for _, key := range keys {
		if v := data.Get(key); v.IsObject() {
			raw = v
			break
		}
	}
	if !raw.IsObject() {
		return nil, fmt.Errorf("expected an object, got %s", raw.Type)
	}

	v := new(T)
	if err := json.Unmarshal([]byte(raw.Raw), v); err != nil {
		return nil, err
	}
	return v, nil
}

var (
	totalPaths      = []string{"pagination.total", "pagination.totalItems", "total", "totalCount", "count"}
	pagePaths       = []string{"pagination.page", "pagination.currentPage", "page", "currentPage"}
	limitPaths      = []string{"pagination.limit", "pagination.perPage", "limit"}
	totalPagesPaths = []string{"pagination.pages", "pagination.totalPages", "totalPages", "pages"}
)

// decodeList decodes a list answer. The array is looked up under keys, then
// the payload itself; pagination counters in either the envelope or the payload.
func decodeList[T any](body []byte, q PageQuery, keys ...string) (*Page[T], error) {
	root, data, err := payload(body)
	if err != nil {
		return nil, err
	}

	arr := gjson.Result{}
	if data.IsArray() {
		arr = data
	}
	for _, key := range keys {
		if arr.IsArray() {
			break
		}
		if v := data.Get(key); v.IsArray() {
			arr = v
		}
	}

	p := &Page[T]{}
	if arr.IsArray() {
		if err := json.Unmarshal([]byte(arr.Raw), &p.Items); err != nil {
			return nil, err
		}
	}
	if p.Items == nil {
		p.Items = []T{}
	}

	p.Total = firstInt(len(p.Items), []gjson.Result{data, root}, totalPaths...)
	p.Page = firstInt(q.page(), []gjson.Result{data, root}, pagePaths...)
	p.Limit = firstInt(q.limit(len(p.Items)), []gjson.Result{data, root}, limitPaths...)
	p.TotalPages = firstInt(pageCount(p.Total, p.Limit), []gjson.Result{data, root}, totalPagesPaths...)

	return p, nil
}

// decodeItems decodes a list answer without pagination.
func decodeItems[T any](body []byte, keys ...string) ([]T, error) {
	p, err := decodeList[T](body, PageQuery{}, keys...)
	if err != nil {
		return nil, err
	}
	return p.Items, nil
}

func firstInt(def int, sources []gjson.Result, paths ...string) int {
	for _, src := range sources {
		if !src.IsObject() {
			continue
		}
		for _, path := range paths {
			v := src.Get(path)
			switch v.Type {
			case gjson.Number:
				return int(v.Int())
			case gjson.String:
				if n, err := strconv.Atoi(strings.TrimSpace(v.Str)); err == nil {
					return n
				}
			}
		}
	}
	return def
}

func pageCount(total, limit int) int {
	if limit <= 0 {
		if total > 0 {
			return 1
		}
		return 0
	}
	return int(math.Ceil(float64(total) / float64(limit)))
}
