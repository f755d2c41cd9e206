// Package repository defines the data access layer and the sentinel error
// values shared across repositories.  Sentinels let handlers translate
// failure scenarios into HTTP responses: ErrForbidden means the caller does
// not own the resource (403), ErrConflict means dependent records block the
// operation (409), such as deleting a scheduled lesson that already has
// completions.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an update or delete cannot proceed because of
// conflicting state, such as removing a scheduled lesson with recorded
// completions.
var ErrConflict = errors.New("conflict")
