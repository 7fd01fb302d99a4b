package catalog

import (
	"fmt"
)

// ErrMakeRequest implements "error", for the description see Error.
type ErrMakeRequest struct {
	Err error
	URL string
}

func (err ErrMakeRequest) Error() string {
	return fmt.Sprintf("unable to make an HTTP request to '%s': %v", err.URL, err.Err)
}

func (err ErrMakeRequest) Unwrap() error {
	return err.Err
}

// ErrFetch implements "error", for the description see Error.
type ErrFetch struct {
	Err error
	URL string
}

func (err ErrFetch) Error() string {
	return fmt.Sprintf("unable to fetch the catalog from '%s': %v", err.URL, err.Err)
}

func (err ErrFetch) Unwrap() error {
	return err.Err
}

// ErrBadStatus implements "error", for the description see Error.
type ErrBadStatus struct {
	URL        string
	StatusCode int
}

func (err ErrBadStatus) Error() string {
	return fmt.Sprintf("the catalog endpoint '%s' responded with status %d", err.URL, err.StatusCode)
}

// ErrDecode implements "error", for the description see Error.
type ErrDecode struct {
	Err error
	URL string
}

func (err ErrDecode) Error() string {
	return fmt.Sprintf("unable to decode the catalog document from '%s': %v", err.URL, err.Err)
}

func (err ErrDecode) Unwrap() error {
	return err.Err
}
