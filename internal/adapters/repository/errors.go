package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound    = errors.New("not found")
	ErrNilEvent    = errors.New("nil event")
	ErrEmptyID     = errors.New("empty id")
	ErrStoreClosed = errors.New("store closed")
)
