package catalog

import (
	"context"
	"errors"
	"fmt"
)

// Kind classifies a failure for logging. Every kind produces the same
// user-visible behaviour.
type Kind int

const (
	// KindNetwork covers connectivity failures and timeouts
	KindNetwork Kind = iota
	// KindServer indicates a non-success status from the API
	KindServer
	// KindDecode indicates a malformed payload
	KindDecode
	// KindCanceled indicates the caller's context ended first
	KindCanceled
)

// String returns the string representation of a Kind
func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindServer:
		return "server"
	case KindDecode:
		return "decode"
	case KindCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Error is the single error type crossing the engine boundary
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s error", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s error: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// AsError collapses err into an *Error. An *Error already in the chain is
// returned as is; nil stays nil.
func AsError(op string, err error) *Error {
	if err == nil {
		return nil
	}

	var e *Error
	if errors.As(err, &e) {
		return e
	}

	// deadlines are timeouts and stay network errors
	if errors.Is(err, context.Canceled) {
		return &Error{Kind: KindCanceled, Op: op, Err: err}
	}
	return &Error{Kind: KindNetwork, Op: op, Err: err}
}
