// Package apierr turns the many failure shapes the backend produces into one
// user-displayable error.
package apierr

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a backend failure.
type Kind int

const (
	// Generic is a free-text message, often from the transport layer.
	Generic Kind = iota
	// Validation is a list of field complaints from request validation.
	Validation
	// Structured is a single descriptive detail string.
	Structured
	// Transport means the call never reached the backend.
	Transport
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case Structured:
		return "structured"
	case Transport:
		return "transport"
	default:
		return "generic"
	}
}

const (
	// DefaultFallback is used when a payload carries nothing usable.
	DefaultFallback = "Action failed"
	// RequestFallback is used for read requests.
	RequestFallback = "Request failed"
	// LoginFallback is used for authentication.
	LoginFallback = "Login failed"
)

// FieldError is one entry of a validation failure.
type FieldError struct {
	Field   string
	Message string
}

// Error is the normalized failure recorded by stores.
type Error struct {
	Kind    Kind
	Message string
	Status  int // HTTP status, 0 when no response was received
	Fields  []FieldError
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Invalid builds a validation error whose message is the first complaint.
func Invalid(fields ...FieldError) *Error {
	msg := DefaultFallback
	if len(fields) > 0 {
		msg = fields[0].Message
	}
	return &Error{Kind: Validation, Message: msg, Fields: fields}
}

// Normalize resolves payload with the default fallback.
func Normalize(payload any) *Error {
	return NormalizeWith(payload, DefaultFallback)
}

// NormalizeWith turns an arbitrary payload into an *Error. It never fails:
// the first usable entry of a detail list wins, then a detail string, then a
// message string, then fallback.
func NormalizeWith(payload any, fallback string) *Error {
	switch p := payload.(type) {
	case nil:
		return &Error{Kind: Generic, Message: fallback}
	case *Error:
		if p == nil {
			return &Error{Kind: Generic, Message: fallback}
		}
		return p
	case error:
		var re *ResponseError
		if errors.As(p, &re) {
			e := fromBytes(re.Body, fallback)
			e.Status = re.StatusCode
			e.Err = re
			return e
		}
		var ae *Error
		if errors.As(p, &ae) {
			return ae
		}
		return FromTransport(p)
	case json.RawMessage:
		return fromBytes(p, fallback)
	case []byte:
		return fromBytes(p, fallback)
	case string:
		if s := strings.TrimSpace(p); s != "" {
			return &Error{Kind: Generic, Message: s}
		}
		return &Error{Kind: Generic, Message: fallback}
	case map[string]any:
		return fromMap(p, fallback)
	default:
		// structs and other typed payloads go through their JSON form
		raw, err := json.Marshal(p)
		if err != nil {
			return &Error{Kind: Generic, Message: fallback}
		}
		return fromBytes(raw, fallback)
	}
}

// ResponseError carries a non-2xx response until a store normalizes it with
// the fallback that fits the operation.
type ResponseError struct {
	Method     string
	URL        string
	StatusCode int
	Body       []byte
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("%s %s: status %d", e.Method, e.URL, e.StatusCode)
}

// FromResponse normalizes a non-2xx response body.
func FromResponse(status int, body []byte) *Error {
	return Normalize(&ResponseError{StatusCode: status, Body: body})
}

// FromTransport wraps an error raised before any response was read.
func FromTransport(err error) *Error {
	if err == nil {
		return &Error{Kind: Transport, Message: RequestFallback}
	}
	return &Error{Kind: Transport, Message: err.Error(), Err: err}
}

// As extracts an *Error from err's chain.
func As(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// Message returns the user-facing text for any error.
func Message(err error) string {
	if err == nil {
		return ""
	}
	if ae, ok := As(err); ok {
		return ae.Message
	}
	return err.Error()
}

func fromBytes(raw []byte, fallback string) *Error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return &Error{Kind: Generic, Message: fallback}
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		// plain-text bodies from proxies and gateways
		return &Error{Kind: Generic, Message: string(raw)}
	}
	if m, ok := v.(map[string]any); ok {
		return fromMap(m, fallback)
	}
	if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
		return &Error{Kind: Generic, Message: s}
	}
	return &Error{Kind: Generic, Message: fallback}
}

func fromMap(m map[string]any, fallback string) *Error {
	switch detail := m["detail"].(type) {
	case []any:
		if fields := fieldErrors(detail); len(fields) > 0 && fields[0].Message != "" {
			return &Error{Kind: Validation, Message: fields[0].Message, Fields: fields}
		}
	case string:
		if detail != "" {
			return &Error{Kind: Structured, Message: detail}
		}
	}
	if msg, ok := m["message"].(string); ok && msg != "" {
		return &Error{Kind: Generic, Message: msg}
	}
	return &Error{Kind: Generic, Message: fallback}
}

// fieldErrors reads pydantic-style entries: {"loc": [...], "msg": "..."}.
// Entries keep their position; one without a msg has an empty Message.
func fieldErrors(list []any) []FieldError {
	out := make([]FieldError, 0, len(list))
	for _, item := range list {
		entry, _ := item.(map[string]any)
		msg, _ := entry["msg"].(string)
		out = append(out, FieldError{Field: fieldName(entry["loc"]), Message: msg})
	}
	return out
}

func fieldName(loc any) string {
	parts, ok := loc.([]any)
	if !ok || len(parts) == 0 {
		return ""
	}
	return fmt.Sprint(parts[len(parts)-1])
}
