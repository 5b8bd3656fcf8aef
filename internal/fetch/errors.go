package fetch

import (
	"fmt"

	"github.com/woozymasta/citymap/internal/feature"
)

// FetchError reports a transport failure or a non-success response status.
type FetchError struct {
	Err        error
	Category   feature.Category
	URL        string
	StatusCode int
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d: %v", e.Category, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.Category, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError reports a response body that is not a feature collection.
type ParseError struct {
	Err      error
	Category feature.Category
	URL      string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Category, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
