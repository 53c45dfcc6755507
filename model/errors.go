package model

import "fmt"

// ValidationError reports a Listing field that violates its invariants.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// SchemaError reports stored data that cannot be trusted: content that does not
// parse, or a record whose key is not the digest of its command.
type SchemaError struct {
	Key    string // empty when the whole document is at fault
	Reason string
	Err    error
}

func (e *SchemaError) Error() string {
	msg := e.Reason
	if e.Key != "" {
		msg = fmt.Sprintf("record %q: %s", e.Key, msg)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *SchemaError) Unwrap() error { return e.Err }
