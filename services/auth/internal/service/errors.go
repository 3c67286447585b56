package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

type Kind uint8

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindUnauthorized
	KindUpstream
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not found"
	case KindUnauthorized:
		return "unauthorized"
	case KindUpstream:
		return "upstream"
	default:
		return "unknown"
	}
}

// Error is the failure type returned by the auth and users services.
// Validation errors carry a field to code map, e.g. {"email": "notFound"}.
type Error struct {
	Kind    Kind
	Fields  map[string]string
	Message string
	Err     error
}

var (
	ErrValidation   = &Error{Kind: KindValidation}
	ErrNotFound     = &Error{Kind: KindNotFound}
	ErrUnauthorized = &Error{Kind: KindUnauthorized}
	ErrUpstream     = &Error{Kind: KindUpstream}
)

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	if len(e.Fields) > 0 {
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for i, k := range keys {
			if i == 0 {
				b.WriteString(": ")
			} else {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s=%s", k, e.Fields[k])
		}
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the kind sentinels, so errors.Is(err, ErrValidation) holds
// for any validation failure.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Fields == nil && t.Message == "" && t.Err == nil
}

func Invalid(field, code string) *Error {
	return &Error{Kind: KindValidation, Fields: map[string]string{field: code}}
}

func InvalidFields(fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Fields: fields}
}

func NotFound() *Error { return &Error{Kind: KindNotFound, Message: "notFound"} }

func Unauthorized(msg string) *Error { return &Error{Kind: KindUnauthorized, Message: msg} }

// upstream tags a store, notifier or signer failure. The cause stays
// reachable through errors.Is/As.
func upstream(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *Error
	if errors.As(err, &se) {
		return err
	}
	return &Error{Kind: KindUpstream, Message: op, Err: err}
}

// FieldsOf returns the field map of a validation error, or nil.
func FieldsOf(err error) map[string]string {
	var se *Error
	if errors.As(err, &se) && se.Kind == KindValidation {
		return se.Fields
	}
	return nil
}
