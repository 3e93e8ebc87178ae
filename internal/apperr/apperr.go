// Package apperr defines the error taxonomy shared by the recommendation
// pipeline. Each component wraps its failures with the most specific kind it
// can determine; callers branch on kinds with errors.Is and never reinterpret
// a kind reported by a lower layer.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned when the caller supplied no usable input.
	// User-correctable; never retried.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUpstreamAnalysis is returned when the inference service failed or
	// produced unusable output. Not retried: inference latency makes blind
	// retries costly and non-deterministic.
	ErrUpstreamAnalysis = errors.New("analysis failed")

	// ErrUpstreamUnavailable covers transient network/service failures,
	// including exceeded timeouts. Eligible for bounded retry.
	ErrUpstreamUnavailable = errors.New("service unavailable")

	// ErrAuthExchange is returned for an invalid or expired authorization
	// code. The user must restart the login flow.
	ErrAuthExchange = errors.New("authorization exchange failed")

	// ErrAuthExpired signals the catalog service rejected the session
	// mid-flow. Distinguished from other failures because the caller must
	// re-authenticate rather than retry the same request.
	ErrAuthExpired = errors.New("session expired")
)

// Error attaches a taxonomy kind and a short user-safe message to an
// underlying cause. errors.Is(err, kind) matches the kind, and Unwrap exposes
// the cause chain.
type Error struct {
	Kind error  // one of the sentinels above
	Msg  string // short, non-technical, safe to show to users
	Err  error  // underlying cause, may be nil
}

func (e *Error) Error() string {
	switch {
	case e.Err != nil && e.Msg != "":
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%v: %v", e.Kind, e.Err)
	case e.Msg != "":
		return e.Msg
	default:
		return e.Kind.Error()
	}
}

func (e *Error) Is(target error) bool {
	return e.Kind != nil && target == e.Kind
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a taxonomy error with no underlying cause.
func New(kind error, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap creates a taxonomy error around an underlying cause.
func Wrap(kind error, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// Message returns the user-visible message for err: the Msg of the outermost
// taxonomy error, or a generic fallback for unclassified failures so internal
// detail never leaks to clients.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Msg != "" {
			return e.Msg
		}
		return e.Kind.Error()
	}
	return "something went wrong"
}
