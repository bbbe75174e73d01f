package service

import "errors"

var (
	// ErrNoContent signals that the acquired or normalized document had
	// nothing parseable in it.
	ErrNoContent = errors.New("no parseable content")

	// ErrCacheMiss is returned by ParseCache.Get when the key is absent.
	ErrCacheMiss = errors.New("cache miss")
)
