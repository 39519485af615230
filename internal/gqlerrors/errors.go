// Package gqlerrors turns downstream failures into GraphQL errors and decides,
// per field policy, whether a failure is surfaced or degraded.
package gqlerrors

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vvakame/shopgate/internal/log"
	"github.com/vvakame/shopgate/internal/upstream"
)

// Error codes, sent as extensions.code.
const (
	CodeUnauthenticated     = "UNAUTHENTICATED"
	CodeForbidden           = "FORBIDDEN"
	CodeNotFound            = "NOT_FOUND"
	CodeUpstreamValidation  = "UPSTREAM_VALIDATION"
	CodeUpstreamUnavailable = "UPSTREAM_UNAVAILABLE"
	CodeBadUserInput        = "BAD_USER_INPUT"
	CodeInternal            = "INTERNAL_SERVER_ERROR"
)

// Policy decides what happens to a failed field.
type Policy int

const (
	// Mandatory surfaces every failure to the caller.
	Mandatory Policy = iota
	// BestEffort replaces a failure with the field's fallback value.
	BestEffort
)

func (p Policy) String() string {
	switch p {
	case Mandatory:
		return "mandatory"
	case BestEffort:
		return "bestEffort"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

func newError(code, message string) *gqlerror.Error {
	return &gqlerror.Error{
		Message:    message,
		Extensions: map[string]interface{}{"code": code},
	}
}

func Unauthenticated() *gqlerror.Error {
	return newError(CodeUnauthenticated, "Authentication required")
}

func BadUserInput(format string, args ...interface{}) *gqlerror.Error {
	return newError(CodeBadUserInput, fmt.Sprintf(format, args...))
}

func Internal() *gqlerror.Error {
	return newError(CodeInternal, "Internal server error")
}

// Code returns extensions.code of err, or "" when it has none.
func Code(err error) string {
	var gErr *gqlerror.Error
	if !errors.As(err, &gErr) {
		return ""
	}
	code, _ := gErr.Extensions["code"].(string)
	return code
}

// Translate maps err to the caller visible error. Downstream 4xx messages
// are kept verbatim; everything else gets a stable message.
func Translate(err error) *gqlerror.Error {
	if err == nil {
		return nil
	}

	var gErr *gqlerror.Error
	if errors.As(err, &gErr) {
		return gErr
	}

	if uErr, ok := upstream.AsError(err); ok {
		return translateUpstream(uErr)
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return newError(CodeUpstreamUnavailable, "Request timed out")
	case errors.Is(err, context.Canceled):
		return newError(CodeUpstreamUnavailable, "Request cancelled")
	}

	return Internal()
}

func translateUpstream(uErr *upstream.Error) *gqlerror.Error {
	var e *gqlerror.Error
	switch {
	case uErr.StatusCode == http.StatusUnauthorized:
		e = newError(CodeUnauthenticated, uErr.Message)
	case uErr.StatusCode == http.StatusForbidden:
		e = newError(CodeForbidden, uErr.Message)
	case uErr.StatusCode == http.StatusNotFound:
		e = newError(CodeNotFound, uErr.Message)
	case uErr.ClientError():
		e = newError(CodeUpstreamValidation, uErr.Message)
	case uErr.Timeout:
		e = newError(CodeUpstreamUnavailable, fmt.Sprintf("%s service timed out", uErr.Service))
	default:
		e = newError(CodeUpstreamUnavailable, fmt.Sprintf("%s service is unavailable", uErr.Service))
	}
	e.Extensions["service"] = uErr.Service
	if uErr.StatusCode != 0 {
		e.Extensions["status"] = uErr.StatusCode
	}
	return e
}

// Guard runs call under policy. A Mandatory failure is translated and
// returned; a BestEffort failure is logged and replaced by fallback().
func Guard(ctx context.Context, policy Policy, call func() (interface{}, error), fallback func() interface{}) (interface{}, error) {
	v, err := call()
	if err == nil {
		return v, nil
	}

	if policy == BestEffort && fallback != nil {
		log.FromContext(ctx).Info("degraded to fallback value", "error", err.Error())
		return fallback(), nil
	}

	gErr := Translate(err)
	if Code(gErr) == CodeInternal {
		log.FromContext(ctx).Error(err, "resolver failed")
	}
	return nil, gErr
}
