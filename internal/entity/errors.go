package entity

import "github.com/rotisserie/eris"

// Store outcomes. Store implementations wrap these so callers can classify
// with errors.Is; anything else is treated as a transport failure.
var (
	// ErrDuplicateLead means the store's uniqueness constraint rejected the
	// insert. The existing row is untouched.
	ErrDuplicateLead = eris.New("lead already exists")

	// ErrStoreRejected covers every other refusal: validation, malformed
	// payload, foreign keys, server errors.
	ErrStoreRejected = eris.New("store rejected write")

	// ErrEmptyEcho means the insert was acknowledged but no row came back.
	ErrEmptyEcho = eris.New("store acknowledged insert without returning a row")
)
