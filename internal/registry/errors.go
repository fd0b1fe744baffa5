// Package registry implements the item registry core: the search/filter
// engine, the report submission pipeline, and contact disclosure. It talks
// to the persistent store only through the Repository interface and performs
// no I/O of its own beyond that.
package registry

import "fmt"

// AuthError means the attempted action requires a signed-in identity.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string { return e.Reason }

// ValidationError reports the first field that violated a submission rule.
// Validation is fail-fast: only one violation is ever reported per call.
type ValidationError struct {
	Field string
	Rule  string
}

func (e *ValidationError) Error() string { return fmt.Sprintf("%s: %s", e.Field, e.Rule) }

// FetchError means a store read failed. The store's message is carried
// verbatim for display.
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string { return e.Err.Error() }
func (e *FetchError) Unwrap() error { return e.Err }

// InsertError means a store write failed. The store's own atomicity is
// trusted: a failed insert leaves no partial record behind.
type InsertError struct {
	Err error
}

func (e *InsertError) Error() string { return e.Err.Error() }
func (e *InsertError) Unwrap() error { return e.Err }
