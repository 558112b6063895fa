package matcher

import (
	"errors"
	"fmt"
	"strings"
)

var errMissingMatch = errors.New("response has no match")

// ValidationError is returned when an input fails local checks. No request is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NetworkError describes a failed call to the matching service: either a
// transport failure (Err is set) or a non-success status (Status is set).
type NetworkError struct {
	Op     string
	Status int
	// Detail is the service-provided error detail, if any.
	Detail string
	// Fallback is used when the service did not provide a detail.
	Fallback string
	Err      error
}

func (e *NetworkError) Error() string {
	msg := e.Message()
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, msg, e.Err)
	}
	if e.Status != 0 {
		return fmt.Sprintf("%s: %s (status %d)", e.Op, msg, e.Status)
	}
	return fmt.Sprintf("%s: %s", e.Op, msg)
}

// Message returns the text shown to a user.
func (e *NetworkError) Message() string {
	if detail := strings.TrimSpace(e.Detail); detail != "" {
		return detail
	}
	if e.Fallback != "" {
		return e.Fallback
	}
	return "request failed"
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ParseError is returned when the service answered with a body that cannot be decoded.
type ParseError struct {
	Op       string
	Fallback string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: malformed response: %v", e.Op, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// UserMessage renders err the way it is shown next to the action that raised it.
// Parse errors read the same as network errors.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Message
	}

	var networkErr *NetworkError
	if errors.As(err, &networkErr) {
		return networkErr.Message()
	}

	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		if parseErr.Fallback != "" {
			return parseErr.Fallback
		}
		return "request failed"
	}

	return err.Error()
}
