package errors

import (
	"errors"
	"net/http"
	"strings"

	"github.com/stackcart/stackcart/internal/cli/client"
)

type ErrorKind string

const (
	ErrorKindAuth     ErrorKind = "auth"
	ErrorKindOffline  ErrorKind = "offline"
	ErrorKindHTTP     ErrorKind = "http"
	ErrorKindInput    ErrorKind = "bad-input"
	ErrorKindNotFound ErrorKind = "not-found"
	ErrorKindOther    ErrorKind = "other"
)

type ClassifiedError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
	Hint    string    `json:"hint,omitempty"` // User-friendly suggestion
	Raw     error     `json:"-"`
}

func (e ClassifiedError) Error() string {
	return e.Message
}

func (e ClassifiedError) Unwrap() error {
	return e.Raw
}

func Classify(err error) ClassifiedError {
	if err == nil {
		return ClassifiedError{}
	}

	var classified ClassifiedError
	if errors.As(err, &classified) {
		return classified
	}

	var statusErr *client.StatusError
	if errors.As(err, &statusErr) {
		return classifyStatus(statusErr, err)
	}

	msg := strings.ToLower(err.Error())

	switch {
	case strings.Contains(msg, "401") || strings.Contains(msg, "unauthorized") || strings.Contains(msg, "invalid_token"):
		return ClassifiedError{
			Kind:    ErrorKindAuth,
			Message: err.Error(),
			Hint:    "Check the registry token with 'stackcart-cli token status'",
			Raw:     err,
		}
	case strings.Contains(msg, "connection refused") || strings.Contains(msg, "timeout") || strings.Contains(msg, "no such host") || strings.Contains(msg, "econnrefused"):
		return ClassifiedError{
			Kind:    ErrorKindOffline,
			Message: err.Error(),
			Hint:    "Is the stackcart daemon running? Start it with 'stackcart' or pass --direct",
			Raw:     err,
		}
	case strings.Contains(msg, "not found"):
		return ClassifiedError{
			Kind:    ErrorKindNotFound,
			Message: err.Error(),
			Hint:    "Check the id with 'stackcart-cli catalog' or 'stackcart-cli presets'",
			Raw:     err,
		}
	case strings.Contains(msg, "http"):
		return ClassifiedError{
			Kind:    ErrorKindHTTP,
			Message: err.Error(),
			Hint:    "An HTTP error occurred during communication with the daemon.",
			Raw:     err,
		}
	default:
		return ClassifiedError{
			Kind:    ErrorKindOther,
			Message: err.Error(),
			Hint:    "An unexpected error occurred.",
			Raw:     err,
		}
	}
}

func classifyStatus(statusErr *client.StatusError, err error) ClassifiedError {
	switch statusErr.Code {
	case http.StatusNotFound:
		return ClassifiedError{
			Kind:    ErrorKindNotFound,
			Message: err.Error(),
			Hint:    "Check the id with 'stackcart-cli catalog', 'stackcart-cli presets' or 'stackcart-cli session list'",
			Raw:     err,
		}
	case http.StatusBadRequest:
		return ClassifiedError{
			Kind:    ErrorKindInput,
			Message: err.Error(),
			Hint:    "The daemon rejected the request. Check the arguments.",
			Raw:     err,
		}
	case http.StatusUnauthorized, http.StatusForbidden:
		return ClassifiedError{
			Kind:    ErrorKindAuth,
			Message: err.Error(),
			Hint:    "Check the registry token with 'stackcart-cli token status'",
			Raw:     err,
		}
	default:
		return ClassifiedError{
			Kind:    ErrorKindHTTP,
			Message: err.Error(),
			Hint:    "An HTTP error occurred during communication with the daemon.",
			Raw:     err,
		}
	}
}
