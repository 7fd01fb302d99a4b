package harvester

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

// ErrProbe implements "error", for the description see Error.
type ErrProbe struct {
	Err error
	URL string
}

func (err ErrProbe) Error() string {
	return fmt.Sprintf("unable to probe '%s': %v", err.URL, err.Err)
}

func (err ErrProbe) Unwrap() error {
	return err.Err
}

// ErrProbeStatus implements "error", for the description see Error.
type ErrProbeStatus struct {
	URL        string
	StatusCode int
}

func (err ErrProbeStatus) Error() string {
	return fmt.Sprintf("the probe of '%s' responded with status %d", err.URL, err.StatusCode)
}

// ErrProbeNoLength implements "error", for the description see Error.
type ErrProbeNoLength struct {
	URL string
}

func (err ErrProbeNoLength) Error() string {
	return fmt.Sprintf("the probe of '%s' did not declare a content length", err.URL)
}
