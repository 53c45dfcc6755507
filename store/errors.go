package store

import "errors"

var (
	ErrNotFound  = errors.New("listing not found")
	ErrConflict  = errors.New("listing already exists")
	ErrAmbiguous = errors.New("ambiguous listing id")
)
