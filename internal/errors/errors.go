// Package errors defines the structured failure classification used across
// the remediation pipeline. Every failure carries a Kind so callers can
// route it (fatal vs. recorded vs. swallowed) without string matching.
package errors

import (
	stderrors "errors"
	"fmt"

	"github.com/aws/smithy-go"
)

// Kind categorizes a failure for propagation decisions.
type Kind string

const (
	// KindConfigUnavailable means the configuration store could not be
	// read. Fatal to the invocation.
	KindConfigUnavailable Kind = "config_unavailable"

	// KindActionFailure means a quarantine or tag action failed. Recorded
	// in the per-resource outcome, never fatal.
	KindActionFailure Kind = "action_failure"

	// KindAlertFailure means the downstream alert could not be published.
	// Logged and swallowed.
	KindAlertFailure Kind = "alert_failure"

	// KindBadEvent means the inbound payload could not be decoded.
	KindBadEvent Kind = "bad_event"
)

// Error is a classified failure with an optional underlying cause.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a classified error without a cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates a classified error around an underlying cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// HasKind reports whether err or anything it wraps carries the given Kind.
func HasKind(err error, kind Kind) bool {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// APIErrorCode extracts the AWS service error code from err, or returns an
// empty string when err is not an AWS API error.
func APIErrorCode(err error) string {
	var apiErr smithy.APIError
	if stderrors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}
