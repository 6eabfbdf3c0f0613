package todo

import "errors"

var (
	// ErrNotFound covers both missing todos and todos owned by someone else.
	ErrNotFound = errors.New("todo not found")
	// ErrMalformedID is returned before any storage access when an id is not a UUID.
	ErrMalformedID = errors.New("malformed todo id")
	// ErrStorageUnavailable wraps every persistence failure.
	ErrStorageUnavailable = errors.New("todo storage unavailable")
)
