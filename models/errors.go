package models

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrForbidden is returned when the resource does not exist or is owned by someone else.
	// Missing and foreign resources are reported the same way.
	ErrForbidden = errors.New("not found or you don't have permission")
	// ErrUnauthenticated is returned when no caller identity is present.
	ErrUnauthenticated = errors.New("authentication required")
)

// ValidationError maps a field name to human readable messages.
type ValidationError struct {
	Fields map[string][]string `json:"fields"`
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(e.Fields[k], ", ")))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], msg)
}

// OrNil returns nil when no field failed so callers can return it directly.
func (e *ValidationError) OrNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// FirstMessage returns the first message of the lexically first failing field.
func (e *ValidationError) FirstMessage() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if len(e.Fields[k]) > 0 {
			return e.Fields[k][0]
		}
	}
	return ""
}

// UserMessage turns an error into text suitable for showing next to the control that failed.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		return verr.FirstMessage()
	case errors.Is(err, ErrForbidden):
		return "Not found or you don't have permission"
	case errors.Is(err, ErrUnauthenticated):
		return "Please sign in again"
	default:
		return "Something went wrong, please try again"
	}
}
