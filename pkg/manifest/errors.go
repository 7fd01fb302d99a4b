package manifest

import (
	"fmt"
)

// ErrParseURL implements "error", for the description see Error.
type ErrParseURL struct {
	Err error
	URL string
}

func (err ErrParseURL) Error() string {
	return fmt.Sprintf("unable to parse '%s' as URL: %v", err.URL, err.Err)
}

func (err ErrParseURL) Unwrap() error {
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

// ErrFetch implements "error", for the description see Error.
type ErrFetch struct {
	Err error
	URL string
}

func (err ErrFetch) Error() string {
	return fmt.Sprintf("unable to GET '%s': %v", err.URL, err.Err)
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
	return fmt.Sprintf("'%s' responded with status %d", err.URL, err.StatusCode)
}

// ErrOpenArchive implements "error", for the description see Error.
type ErrOpenArchive struct {
	Err error
	URL string
}

func (err ErrOpenArchive) Error() string {
	return fmt.Sprintf("unable to open '%s' as a remote archive: %v", err.URL, err.Err)
}

func (err ErrOpenArchive) Unwrap() error {
	return err.Err
}

// ErrReadEntry implements "error", for the description see Error.
type ErrReadEntry struct {
	Err   error
	URL   string
	Entry string
}

func (err ErrReadEntry) Error() string {
	return fmt.Sprintf("unable to read entry '%s' of '%s': %v", err.Entry, err.URL, err.Err)
}

func (err ErrReadEntry) Unwrap() error {
	return err.Err
}

// ErrNoManifestEntry implements "error", for the description see Error.
type ErrNoManifestEntry struct {
	URL string
}

func (err ErrNoManifestEntry) Error() string {
	return fmt.Sprintf("no entry of '%s' looks like a build manifest", err.URL)
}

// ErrNoManifest implements "error", for the description see Error.
//
// It means "no manifest available right now": the sibling document does not
// exist and the archive fallback failed, both conditions a later attempt may
// not reproduce.
type ErrNoManifest struct {
	Err error
	URL string
}

func (err ErrNoManifest) Error() string {
	return fmt.Sprintf("no manifest available for '%s': %v", err.URL, err.Err)
}

func (err ErrNoManifest) Unwrap() error {
	return err.Err
}

// ErrParseManifest implements "error", for the description see Error.
type ErrParseManifest struct {
	Err error
}

func (err ErrParseManifest) Error() string {
	return fmt.Sprintf("unable to parse the manifest document: %v", err.Err)
}

func (err ErrParseManifest) Unwrap() error {
	return err.Err
}
