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

// Package catalog fetches and filters the upstream AppleDB device/firmware
// catalog document.
package catalog

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/facebookincubator/go-belt/tool/logger"
)

// DefaultURL is the upstream aggregator endpoint the catalog is fetched from.
const DefaultURL = "https://api.appledb.dev/main.json"

// Catalog is the subset of the upstream document this service consumes.
type Catalog struct {
	IOS     []Firmware `json:"ios"`
	Devices []Device   `json:"device"`
}

// Firmware is one firmware entry of the catalog.
//
// A nil Sources slice means the catalog entry carries no "sources" field at
// all; such entries cannot be resolved and are filtered out.
type Firmware struct {
	OSStr   string   `json:"osStr"`
	Version string   `json:"version"`
	Build   string   `json:"build"`
	Beta    bool     `json:"beta"`
	RC      bool     `json:"rc"`
	Sources []Source `json:"sources"`
}

// Source is one download source of a firmware entry.
type Source struct {
	Type      string   `json:"type"`
	DeviceMap []string `json:"deviceMap"`
	Links     []Link   `json:"links"`
}

// Link is one candidate download link of a source.
type Link struct {
	URL string `json:"url"`
}

// Device is one device entry of the catalog.
type Device struct {
	Key    string   `json:"key"`
	Arch   string   `json:"arch"`
	Type   string   `json:"type"`
	Boards []string `json:"board"`
}

// Client fetches the catalog document.
type Client struct {
	URL        string
	HTTPClient *http.Client
}

// NewClient returns a catalog Client for the given URL (DefaultURL if empty).
func NewClient(url string) *Client {
	if url == "" {
		url = DefaultURL
	}
	return &Client{
		URL:        url,
		HTTPClient: http.DefaultClient,
	}
}

// Fetch downloads and decodes the catalog. A non-2xx status is a hard
// failure: the caller must not persist anything from this pass.
func (client *Client) Fetch(ctx context.Context) (*Catalog, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, client.URL, nil)
	if err != nil {
		return nil, ErrMakeRequest{Err: err, URL: client.URL}
	}

	resp, err := client.HTTPClient.Do(req)
	if err != nil {
		return nil, ErrFetch{Err: err, URL: client.URL}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, ErrBadStatus{URL: client.URL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, ErrFetch{Err: err, URL: client.URL}
	}

	var result Catalog
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, ErrDecode{Err: err, URL: client.URL}
	}

	logger.FromCtx(ctx).Debugf("fetched the catalog: %d firmwares, %d devices",
		len(result.IOS), len(result.Devices))
	return &result, nil
}
