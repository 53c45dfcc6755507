package cli

import (
	"errors"

	"cmdref/model"
	"cmdref/store"
)

// Exit codes returned by Execute.
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (bad config file, unknown backend)
	ExitDataError   = 3 // Invalid listing input or unreadable store file
	ExitNotFound    = 4 // No listing with the given id
	ExitConflict    = 5 // Listing already exists, or id prefix is ambiguous
)

// configError marks failures that happen before a store is available.
type configError struct{ err error }

func (e *configError) Error() string { return e.err.Error() }
func (e *configError) Unwrap() error { return e.err }

func exitCode(err error) int {
	var vErr *model.ValidationError
	var sErr *model.SchemaError
	var cErr *configError
	switch {
	case err == nil:
		return ExitSuccess
	case errors.As(err, &cErr):
		return ExitConfigError
	case errors.As(err, &vErr), errors.As(err, &sErr):
		return ExitDataError
	case errors.Is(err, store.ErrNotFound):
		return ExitNotFound
	case errors.Is(err, store.ErrConflict), errors.Is(err, store.ErrAmbiguous):
		return ExitConflict
	default:
		return ExitError
	}
}
