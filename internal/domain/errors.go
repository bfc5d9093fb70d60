package domain

import "errors"

var (
	// ErrInvalidRequest marks caller errors (e.g. empty synthesis text),
	// rejected before any network call.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrSynthesisFailed means the speech service returned no usable audio.
	ErrSynthesisFailed = errors.New("synthesis failed")

	// ErrCacheNotFound is the cache's distinguishable miss. Any other cache
	// error is transient and must not fail the request.
	ErrCacheNotFound = errors.New("cache entry not found")

	// ErrUnreachable marks connectivity/timeout failures on remote calls.
	ErrUnreachable = errors.New("backend unreachable")
)
