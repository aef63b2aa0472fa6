package registry

import (
	"errors"
	"fmt"
)

// ErrNotFound reports a zero-row lookup. Callers treat it as a normal
// condition (it drives create-on-demand during import), never as a store
// failure.
var ErrNotFound = errors.New("not found")

// ErrHouseExists rejects manual creation of a house that already exists in
// the given microdistrict. Import never returns it.
var ErrHouseExists = errors.New("house already exists in this microdistrict")

// MultipleMatchError means a lookup that must be unique matched more than one
// row, i.e. the uniqueness invariant was violated behind our back. It is a
// hard error and aborts any batch that hits it.
type MultipleMatchError struct {
	Entity string
	Key    string
}

func (e *MultipleMatchError) Error() string {
	return fmt.Sprintf("multiple %s rows match %s", e.Entity, e.Key)
}
