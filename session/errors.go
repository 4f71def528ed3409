package session

import "errors"

var (
	// ErrSearchServiceRequired is returned when a search service is not provided.
	ErrSearchServiceRequired = errors.New("search service required")

	// ErrAddressRequired is returned when a page address is not provided.
	ErrAddressRequired = errors.New("address required")

	// ErrPageRequired is returned when a page is not provided.
	ErrPageRequired = errors.New("page required")
)
