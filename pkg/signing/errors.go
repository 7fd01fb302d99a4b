package signing

import (
	"fmt"
)

// ErrEncodeRequest implements "error", for the description see Error.
type ErrEncodeRequest struct {
	Err error
}

func (err ErrEncodeRequest) Error() string {
	return fmt.Sprintf("unable to encode the ticket request: %v", err.Err)
}

func (err ErrEncodeRequest) Unwrap() error {
	return err.Err
}

// ErrParseEndpoint implements "error", for the description see Error.
type ErrParseEndpoint struct {
	Err      error
	Endpoint string
}

func (err ErrParseEndpoint) Error() string {
	return fmt.Sprintf("unable to parse the endpoint '%s': %v", err.Endpoint, err.Err)
}

func (err ErrParseEndpoint) Unwrap() error {
	return err.Err
}

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

// ErrSubmit implements "error", for the description see Error.
type ErrSubmit struct {
	Err error
	URL string
}

func (err ErrSubmit) Error() string {
	return fmt.Sprintf("unable to submit the ticket request to '%s': %v", err.URL, err.Err)
}

func (err ErrSubmit) Unwrap() error {
	return err.Err
}

// ErrReadResponse implements "error", for the description see Error.
type ErrReadResponse struct {
	Err error
	URL string
}

func (err ErrReadResponse) Error() string {
	return fmt.Sprintf("unable to read the ticket response from '%s': %v", err.URL, err.Err)
}

func (err ErrReadResponse) Unwrap() error {
	return err.Err
}
