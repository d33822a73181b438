package repository

import "errors"

// Kind names the contractual error categories from spec §7. Transport
// layers translate a Kind to a status code at the boundary; the core never
// does that translation itself.
type Kind string

const (
	KindInvalidInput          Kind = "invalid_input"
	KindNotFound              Kind = "not_found"
	KindAlreadyCompleted      Kind = "already_completed"
	KindLLMUnavailable        Kind = "llm_unavailable"
	KindEvaluationUnavailable Kind = "evaluation_unavailable"
	KindParseFailure          Kind = "parse_failure"
	KindRepositoryFailure     Kind = "repository_failure"
	KindAlreadyGenerating     Kind = "already_generating"
	KindTimeout               Kind = "timeout"
)

// Error is the core's single typed error shape. Every component wraps
// underlying causes with one of these so the boundary layer can dispatch
// on Kind without string-matching.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

// New builds an *Error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap builds an *Error of the given kind around an existing cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// KindOf extracts the Kind of err if it is (or wraps) an *Error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}
