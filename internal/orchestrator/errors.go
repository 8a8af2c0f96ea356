package orchestrator

import "fmt"

// ValidationError reports the first missing or malformed request field. The
// message is user-facing and returned verbatim to the caller.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// ParseError means the model's accumulated reply was not valid JSON. It is
// recoverable: the caller can surface it and let the operator retry.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse model reply: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
