package server

import "errors"

var (
	// ErrSearchServiceRequired is returned when a search service is not provided.
	ErrSearchServiceRequired = errors.New("search service required")

	// ErrSessionNotFound is returned for unknown session IDs.
	ErrSessionNotFound = errors.New("session not found")
)
