// Package apperr defines the closed set of failure kinds the service can produce
// and maps them onto externally visible outcomes.
package apperr

import (
	"errors"
	"fmt"
)

// Kind identifies a class of failure.
type Kind int

const (
	KindInternal Kind = iota
	KindClientInput
	KindMissingVerifier
	KindSessionState
	KindUserDenied
	KindCallbackNotConfirmed
	KindUnauthorized
	KindNoCredential
	KindNotFound
	KindTransient
)

var kindNames = map[Kind]string{
	KindInternal:             "internal",
	KindClientInput:          "client_input",
	KindMissingVerifier:      "missing_verifier",
	KindSessionState:         "session_state",
	KindUserDenied:           "user_denied",
	KindCallbackNotConfirmed: "callback_not_confirmed",
	KindUnauthorized:         "upstream_unauthorized",
	KindNoCredential:         "no_credential",
	KindNotFound:             "upstream_not_found",
	KindTransient:            "upstream_transient",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error carries a Kind plus the operation that failed. Err is for logs only.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Op + ": " + e.Kind.String()
	}
	return e.Op + ": " + e.Kind.String() + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// E builds an *Error.
func E(kind Kind, op string, err error) error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf returns the Kind of the outermost *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// OpOf returns the failing operation recorded on err, if any.
func OpOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Op
	}
	return ""
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
