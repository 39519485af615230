package backend

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// OID is a document id sent either as a plain string or as {"$oid": "..."}.
type OID string

func (id *OID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*id = ""
		return nil
	case len(b) != 0 && b[0] == '{':
		var v struct {
			OID string `json:"$oid"`
		}
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*id = OID(v.OID)
		return nil
	case len(b) != 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = OID(s)
		return nil
	default:
		// numeric ids
		*id = OID(string(b))
		return nil
	}
}

// Ref carries both id spellings used by the domain services.
type Ref struct {
	MongoID OID `json:"_id"`
	ID      OID `json:"id"`
}

// Key is the single id callers see: _id wins over id.
func (r Ref) Key() string {
	if r.MongoID != "" {
		return string(r.MongoID)
	}
	return string(r.ID)
}

// RefOrID is a reference that may arrive as a bare id or as a populated document.
type RefOrID struct {
	Ref
	Name  string `json:"name"`
	Email string `json:"email"`
	// Populated reports whether the reference arrived as a document.
	Populated bool `json:"-"`
}

func (r *RefOrID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*r = RefOrID{}
		return nil
	}
	if b[0] != '{' {
		var id OID
		if err := id.UnmarshalJSON(b); err != nil {
			return err
		}
		*r = RefOrID{Ref: Ref{ID: id}}
		return nil
	}
	if bytes.Contains(b, []byte(`"$oid"`)) && !bytes.Contains(b, []byte(`"_id"`)) {
		var id OID
		if err := id.UnmarshalJSON(b); err != nil {
			return err
		}
		*r = RefOrID{Ref: Ref{MongoID: id}}
		return nil
	}

	type alias RefOrID
	var v alias
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*r = RefOrID(v)
	r.Populated = true
	return nil
}

// Number accepts JSON numbers and numeric strings; anything else decodes to 0.
type Number float64

func (n *Number) UnmarshalJSON(b []byte) error {
	*n = Number(parseNumber(bytes.TrimSpace(b)))
	return nil
}

func parseNumber(b []byte) float64 {
	if len(b) == 0 {
		return 0
	}
	var f float64
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return 0
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0
		}
		f = v
	case '{':
		// {"$numberDecimal": "12.5"} and friends
		var m map[string]json.RawMessage
		if err := json.Unmarshal(b, &m); err != nil {
			return 0
		}
		for _, v := range m {
			return parseNumber(bytes.TrimSpace(v))
		}
		return 0
	default:
		if err := json.Unmarshal(b, &f); err != nil {
			return 0
		}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func (n Number) Float() float64 {
	return float64(n)
}

func (n Number) Int() int {
	return int(n)
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
}

// Date is a timestamp in any of the shapes the domain services emit:
// RFC3339 strings, a few legacy layouts, epoch milliseconds or {"$date": ...}.
// Unparseable values decode to an invalid Date rather than failing the document.
type Date struct {
	Time  time.Time
	Valid bool
}

func (d *Date) UnmarshalJSON(b []byte) error {
	*d = Date{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}

	switch b[0] {
	case '{':
		var v struct {
			Date json.RawMessage `json:"$date"`
		}
		if err := json.Unmarshal(b, &v); err != nil || len(v.Date) == 0 {
			return nil
		}
		return d.UnmarshalJSON(v.Date)
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
		*d = ParseDate(s)
		return nil
	default:
		var ms float64
		if err := json.Unmarshal(b, &ms); err != nil {
			return nil
		}
		*d = Date{Time: time.UnixMilli(int64(ms)).UTC(), Valid: true}
		return nil
	}
}

func ParseDate(s string) Date {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Date{Time: t.UTC(), Valid: true}
		}
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Date{Time: time.UnixMilli(ms).UTC(), Valid: true}
	}
	return Date{}
}
