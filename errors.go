package duoquiz

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by stores and accessors when a document does not exist
	ErrNotFound = errors.New("not found")
	// ErrForbidden is returned when the requester does not own the document
	ErrForbidden = errors.New("forbidden")

	ErrInvalidDuration   = errors.New("duration must be one of 5, 10 or 15")
	ErrInvalidDifficulty = errors.New("difficulty must be one of easier, same or harder")
)

// OracleError means the text-completion oracle could not be reached or refused
// the call (network, auth, timeout).
type OracleError struct {
	Err error
}

func (e *OracleError) Error() string {
	return fmt.Sprintf("generation oracle failed: %v", e.Err)
}

func (e *OracleError) Unwrap() error { return e.Err }

// ParseError means the oracle replied but no question list could be recovered
// from the reply, even after sanitizing it.
type ParseError struct {
	Reason string
	Raw    string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("could not parse generated questions: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("could not parse generated questions: %s", e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }

// UnsuitableTopicError means the oracle flagged the topic itself as out of policy.
type UnsuitableTopicError struct {
	Topic  string
	Reason string
}

func (e *UnsuitableTopicError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("topic %q is unsuitable: %s", e.Topic, e.Reason)
	}
	return fmt.Sprintf("topic %q is unsuitable", e.Topic)
}

// ValidationRejection explains why a single candidate was dropped. It never
// fails a batch.
type ValidationRejection struct {
	Index  int
	Reason string
}

func (e *ValidationRejection) Error() string {
	return fmt.Sprintf("candidate %d rejected: %s", e.Index, e.Reason)
}
