package skills

import (
	"errors"
	"fmt"
)

// ErrFetchUnavailable reports a sync attempted without a working fetcher.
var ErrFetchUnavailable = errors.New("fetch not available")

// ErrArchiveEmpty reports an archive that yielded no skill files.
var ErrArchiveEmpty = errors.New("archive contained no skill files")

// HTTPStatusError reports a non-success response for a fetched URL.
type HTTPStatusError struct {
	Status int
	URL    string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("unexpected status %d for %s", e.Status, e.URL)
}

// EmptyContentError reports a success response whose body was blank.
type EmptyContentError struct {
	URL string
}

func (e *EmptyContentError) Error() string {
	return fmt.Sprintf("empty content from %s", e.URL)
}
