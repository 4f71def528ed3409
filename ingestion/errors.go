package ingestion

import "errors"

var (
	// ErrPageRepositoryRequired is returned when a page repository is not provided.
	ErrPageRepositoryRequired = errors.New("page repository required")

	// ErrIndexPathRequired is returned when no index file path is given.
	ErrIndexPathRequired = errors.New("index file path required")

	// ErrInvalidIndexFile is returned when the index file cannot be decoded.
	ErrInvalidIndexFile = errors.New("invalid index file")

	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")
)
