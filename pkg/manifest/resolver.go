// Copyright 2023 Meta Platforms, Inc. and affiliates.
//
// Redistribution and use in source and binary forms, with or without modification, are permitted provided that the following conditions are met:
//
// 1. Redistributions of source code must retain the above copyright notice, this list of conditions and the following disclaimer.
//
// 2. Redistributions in binary form must reproduce the above copyright notice, this list of conditions and the following disclaimer in the documentation and/or other materials provided with the distribution.
//
// 3. Neither the name of the copyright holder nor the names of its contributors may be used to endorse or promote products derived from this software without specific prior written permission.
//
// THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS "AS IS" AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT LIMITED TO, THE IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR CONTRIBUTORS BE LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL, SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER CAUSED AND ON ANY THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT (INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE.

// Package manifest recovers the build-manifest document of a remote firmware
// archive without downloading the archive itself.
package manifest

import (
	"archive/zip"
	"context"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/facebookincubator/go-belt/tool/logger"
	lru "github.com/hashicorp/golang-lru"
	"github.com/snabb/httpreaderat"
)

const (
	// FileName is the name of the sibling plaintext manifest published next
	// to most firmware archives.
	FileName = "BuildManifest.plist"

	// entryMarker selects the manifest entry inside an archive.
	entryMarker = "BuildManifest"

	// Manifests are kilobytes; the archives they come from are gigabytes and
	// are re-visited on every refresh pass, so successful results are worth
	// remembering.
	cacheSize = 512
)

// Resolver fetches the build manifest of a firmware archive: first as the
// sibling plaintext document, then by reading only the needed entry out of
// the remote archive via HTTP range requests.
type Resolver struct {
	HTTPClient *http.Client

	cache *lru.Cache
}

// NewResolver returns an instance of Resolver.
func NewResolver() *Resolver {
	cache, _ := lru.New(cacheSize)
	return &Resolver{
		HTTPClient: http.DefaultClient,
		cache:      cache,
	}
}

// SiblingURL derives the manifest URL from an archive URL by replacing the
// final path segment with the fixed manifest file name.
func SiblingURL(archiveURL string) (string, error) {
	parsed, err := url.Parse(archiveURL)
	if err != nil {
		return "", ErrParseURL{Err: err, URL: archiveURL}
	}
	parsed.Path = path.Join(path.Dir(parsed.Path), FileName)
	return parsed.String(), nil
}

// Fetch returns the manifest document of the given firmware archive.
//
// A failure of the fallback path is reported as ErrNoManifest so that the
// caller's retry policy can re-attempt cleanly.
func (resolver *Resolver) Fetch(ctx context.Context, archiveURL string) ([]byte, error) {
	if cached, ok := resolver.cache.Get(archiveURL); ok {
		return cached.([]byte), nil
	}

	manifestURL, err := SiblingURL(archiveURL)
	if err != nil {
		return nil, err
	}

	data, err := resolver.fetchSibling(ctx, manifestURL)
	if err == nil {
		resolver.cache.Add(archiveURL, data)
		return data, nil
	}
	logger.FromCtx(ctx).Debugf("no sibling manifest at '%s' (%v), falling back to the archive", manifestURL, err)

	data, err = resolver.fetchFromArchive(ctx, archiveURL)
	if err != nil {
		return nil, ErrNoManifest{URL: archiveURL, Err: err}
	}

	resolver.cache.Add(archiveURL, data)
	return data, nil
}

func (resolver *Resolver) fetchSibling(ctx context.Context, manifestURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, manifestURL, nil)
	if err != nil {
		return nil, ErrMakeRequest{Err: err, URL: manifestURL}
	}

	resp, err := resolver.HTTPClient.Do(req)
	if err != nil {
		return nil, ErrFetch{Err: err, URL: manifestURL}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ErrBadStatus{URL: manifestURL, StatusCode: resp.StatusCode}
	}

	return io.ReadAll(resp.Body)
}

// fetchFromArchive opens the archive as a random-accessible remote zip
// container: range requests read its central directory and the one entry
// whose name contains the manifest marker, nothing else is downloaded.
func (resolver *Resolver) fetchFromArchive(ctx context.Context, archiveURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, archiveURL, nil)
	if err != nil {
		return nil, ErrMakeRequest{Err: err, URL: archiveURL}
	}

	readerAt, err := httpreaderat.New(resolver.HTTPClient, req, nil)
	if err != nil {
		return nil, ErrOpenArchive{Err: err, URL: archiveURL}
	}

	zipReader, err := zip.NewReader(readerAt, readerAt.Size())
	if err != nil {
		return nil, ErrOpenArchive{Err: err, URL: archiveURL}
	}

	for _, entry := range zipReader.File {
		if !strings.Contains(entry.Name, entryMarker) {
			continue
		}

		entryReader, err := entry.Open()
		if err != nil {
			return nil, ErrReadEntry{Err: err, URL: archiveURL, Entry: entry.Name}
		}
		defer entryReader.Close()

		data, err := io.ReadAll(entryReader)
		if err != nil {
			return nil, ErrReadEntry{Err: err, URL: archiveURL, Entry: entry.Name}
		}
		return data, nil
	}

	return nil, ErrNoManifestEntry{URL: archiveURL}
}
