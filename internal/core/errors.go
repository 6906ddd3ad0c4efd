package core

import (
	"errors"
	"fmt"
)

// ErrorKind categorizes analysis failures for transport mapping.
type ErrorKind int

const (
	// KindUnknown represents an unclassified error.
	KindUnknown ErrorKind = iota
	// KindInvalidInput means the submission was rejected before analysis.
	KindInvalidInput
	// KindTimeout means the classifier did not answer in time.
	KindTimeout
	// KindServiceFailure means the classifier failed.
	KindServiceFailure
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindTimeout:
		return "timeout"
	case KindServiceFailure:
		return "service_failure"
	default:
		return "unknown"
	}
}

// AnalysisError carries a kind, a user-facing message and the original cause.
type AnalysisError struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *AnalysisError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AnalysisError) Unwrap() error {
	return e.Cause
}

// ErrEmptyInput is returned when the submitted content is empty or whitespace.
var ErrEmptyInput = &AnalysisError{Kind: KindInvalidInput, Message: "Email content is required."}

// NewContentTooLargeError rejects content over the configured limit.
func NewContentTooLargeError(size, limit int) error {
	return &AnalysisError{
		Kind:    KindInvalidInput,
		Message: fmt.Sprintf("Email content is too large (%d bytes, limit %d).", size, limit),
	}
}

// NewTimeoutError wraps a classifier deadline failure.
func NewTimeoutError(cause error) error {
	return &AnalysisError{
		Kind:    KindTimeout,
		Message: "Analysis timed out. Please try again.",
		Cause:   cause,
	}
}

// NewServiceError wraps any other classifier failure.
func NewServiceError(cause error) error {
	return &AnalysisError{
		Kind:    KindServiceFailure,
		Message: "The analysis service failed. Please try again.",
		Cause:   cause,
	}
}

// KindOf returns the kind of err, or KindUnknown if it is not an AnalysisError.
func KindOf(err error) ErrorKind {
	var ae *AnalysisError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindUnknown
}
