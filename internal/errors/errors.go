// Package errors provides the classified failure types for the EcoNexus reply pipeline.
package errors

import (
	"errors"
	"fmt"
)

// Kind classifies why a reply could not be generated
type Kind int

const (
	KindUnknown Kind = iota
	KindMissingCredential
	KindTimeout
	KindNetwork
	KindAPI
	KindEmptyResponse
)

// String returns the canonical name of the kind
func (k Kind) String() string {
	switch k {
	case KindMissingCredential:
		return "missing-credential"
	case KindTimeout:
		return "timeout"
	case KindNetwork:
		return "network"
	case KindAPI:
		return "api-error"
	case KindEmptyResponse:
		return "empty-response"
	default:
		return "unknown"
	}
}

// ErrMissingCredential matches any missing-credential ClassifiedError via errors.Is
var ErrMissingCredential = errors.New("missing API credential")

// ClassifiedError is a failure detected while generating a reply.
// Message is user-facing Dutch text; Cause keeps the underlying error.
type ClassifiedError struct {
	Kind       Kind
	Message    string
	Detail     string // raw server message for api errors
	StatusCode int
	Cause      error
}

func (e *ClassifiedError) Error() string {
	if e.Message == "" {
		return e.Kind.String()
	}
	return e.Message
}

// Unwrap returns the underlying cause
func (e *ClassifiedError) Unwrap() error {
	return e.Cause
}

// Is allows comparison with ErrMissingCredential
func (e *ClassifiedError) Is(target error) bool {
	return target == ErrMissingCredential && e.Kind == KindMissingCredential
}

// NewMissingCredentialError creates the error returned before any I/O when no key is set
func NewMissingCredentialError() *ClassifiedError {
	return &ClassifiedError{
		Kind:    KindMissingCredential,
		Message: "Er is geen Google Gemini API-sleutel ingesteld.",
	}
}

// NewTimeoutError creates a timeout error
func NewTimeoutError(cause error) *ClassifiedError {
	return &ClassifiedError{
		Kind:    KindTimeout,
		Message: "De aanvraag naar Gemini duurde te lang.",
		Cause:   cause,
	}
}

// NewNetworkError creates a transport failure error
func NewNetworkError(cause error) *ClassifiedError {
	return &ClassifiedError{
		Kind:    KindNetwork,
		Message: "Er is een netwerkfout opgetreden bij het verbinden met Gemini.",
		Cause:   cause,
	}
}

// NewAPIError creates an error for a non-success HTTP response
func NewAPIError(statusCode int, detail string) *ClassifiedError {
	return &ClassifiedError{
		Kind:       KindAPI,
		Message:    fmt.Sprintf("Gemini API-fout: %s", detail),
		Detail:     detail,
		StatusCode: statusCode,
	}
}

// NewEmptyResponseError creates an error for a reply without text
func NewEmptyResponseError() *ClassifiedError {
	return &ClassifiedError{
		Kind:    KindEmptyResponse,
		Message: "Gemini gaf een leeg antwoord.",
	}
}

// NewUnknownError wraps an unexpected failure
func NewUnknownError(cause error) *ClassifiedError {
	return &ClassifiedError{
		Kind:    KindUnknown,
		Message: "Er is een onverwachte fout opgetreden.",
		Cause:   cause,
	}
}

// Classify returns err as a ClassifiedError, mapping anything unclassified to KindUnknown.
// It returns nil for a nil error.
func Classify(err error) *ClassifiedError {
	if err == nil {
		return nil
	}
	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce
	}
	return NewUnknownError(err)
}

// KindOf returns the classification of err
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	return Classify(err).Kind
}

// IsMissingCredential checks if the error is a missing-credential error
func IsMissingCredential(err error) bool {
	return errors.Is(err, ErrMissingCredential)
}

// GetHTTPStatus returns the HTTP status code carried by err, or 0
func GetHTTPStatus(err error) int {
	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.StatusCode
	}
	return 0
}
