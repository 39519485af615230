package upstream

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// Error is a failed downstream call. StatusCode is 0 for transport failures
// (connection refused, timeout, ...).
type Error struct {
	Service    string
	Method     string
	Path       string
	StatusCode int
	Message    string
	Timeout    bool
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode == 0 {
		if e.Err != nil {
			return fmt.Sprintf("%s %s %s: %s: %s", e.Service, e.Method, e.Path, e.Message, e.Err)
		}
		return fmt.Sprintf("%s %s %s: %s", e.Service, e.Method, e.Path, e.Message)
	}
	return fmt.Sprintf("%s %s %s: status %d: %s", e.Service, e.Method, e.Path, e.StatusCode, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ClientError reports a 4xx answer: the caller's input was rejected.
func (e *Error) ClientError() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500
}

// Unavailable reports a 5xx answer or a transport failure.
func (e *Error) Unavailable() bool {
	return e.StatusCode == 0 || e.StatusCode >= 500
}

// AsError extracts *Error from err's chain.
func AsError(err error) (*Error, bool) {
	var uErr *Error
	if errors.As(err, &uErr) {
		return uErr, true
	}
	return nil, false
}

var messagePaths = []string{
	"message",
	"error.message",
	"error",
	"errors.0.msg",
	"errors.0.message",
	"data.message",
	"msg",
}

// ExtractMessage finds the human readable message in an error body. Domain
// services are not consistent about where they put it.
func ExtractMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	if !gjson.ValidBytes(body) {
		msg := strings.TrimSpace(string(body))
		if len(msg) > 200 {
			msg = msg[:200]
		}
		return msg
	}
	for _, path := range messagePaths {
		v := gjson.GetBytes(body, path)
		if v.Type == gjson.String && strings.TrimSpace(v.Str) != "" {
			return strings.TrimSpace(v.Str)
		}
	}
	return ""
}
