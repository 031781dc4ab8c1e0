package models

import "errors"

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrForbidden is returned when the actor may not act on the record.
	ErrForbidden = errors.New("forbidden")
	// ErrConcurrentModification is returned when a compare-and-set update finds
	// the record changed since it was read. Re-fetch and retry.
	ErrConcurrentModification = errors.New("payment request was modified concurrently")
	// ErrDuplicate is returned when a unique constraint rejects an insert.
	ErrDuplicate = errors.New("duplicate record")
)
