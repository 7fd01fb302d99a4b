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

// Package signing talks the vendor signing-ticket (TSS) protocol and
// interprets the answer as a yes/no "is this build still installable".
package signing

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"howett.net/plist"
)

// DefaultEndpoint is the vendor signing-ticket service.
const DefaultEndpoint = "http://gs.apple.com/TSS/controller"

const (
	actionParam   = "2"
	userAgent     = "InetURL/1.0"
	contentType   = `text/xml; charset="utf-8"`
	successMarker = "MESSAGE=SUCCESS"
)

// Chip ids in [legacyChipIDMin, legacyChipIDMax) are 32-bit SoCs which take
// the legacy ticket format.
const (
	legacyChipIDMin = 0x8900
	legacyChipIDMax = 0x8960
)

type ticketRequest struct {
	ApChipID         uint64 `plist:"ApChipID"`
	ApBoardID        uint64 `plist:"ApBoardID"`
	ApECID           uint64 `plist:"ApECID"`
	ApSecurityDomain uint64 `plist:"ApSecurityDomain"`
	ApNonce          []byte `plist:"ApNonce"`
	ApProductionMode bool   `plist:"ApProductionMode"`
	UniqueBuildID    []byte `plist:"UniqueBuildID"`

	APTicket       bool   `plist:"@APTicket,omitempty"`
	ApImg4Ticket   bool   `plist:"@ApImg4Ticket,omitempty"`
	ApSecurityMode bool   `plist:"ApSecurityMode,omitempty"`
	SepNonce       []byte `plist:"SepNonce,omitempty"`
}

// newTicketRequest builds the request for one (hardware, build) combination.
//
// ApECID is 1, not 0: a zero ECID makes the service mistakenly report some
// unsigned firmwares as signed. The same goes for the nonce placeholders,
// they must be non-empty.
func newTicketRequest(chipID, boardID uint64, uniqueBuildID []byte) ticketRequest {
	request := ticketRequest{
		ApChipID:         chipID,
		ApBoardID:        boardID,
		ApECID:           1,
		ApSecurityDomain: 1,
		ApNonce:          []byte("0"),
		ApProductionMode: true,
		UniqueBuildID:    uniqueBuildID,
	}

	if chipID >= legacyChipIDMin && chipID < legacyChipIDMax { // 32-bit
		request.APTicket = true
	} else { // 64-bit
		request.ApImg4Ticket = true
		request.ApSecurityMode = true
		request.SepNonce = []byte("0")
	}

	return request
}

// Client submits signing-ticket requests.
type Client struct {
	Endpoint   string
	HTTPClient *http.Client
}

// NewClient returns a signing Client for the given endpoint (DefaultEndpoint
// if empty).
func NewClient(endpoint string) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		Endpoint:   endpoint,
		HTTPClient: http.DefaultClient,
	}
}

// IsSigned asks the service whether the build identified by the given chip
// id, board id and unique build token is currently signed. A transport
// failure is returned as-is: retrying is the caller's business.
func (client *Client) IsSigned(ctx context.Context, chipID, boardID uint64, uniqueBuildID []byte) (bool, error) {
	requestBody, err := plist.Marshal(newTicketRequest(chipID, boardID, uniqueBuildID), plist.XMLFormat)
	if err != nil {
		return false, ErrEncodeRequest{Err: err}
	}

	endpoint, err := url.Parse(client.Endpoint)
	if err != nil {
		return false, ErrParseEndpoint{Err: err, Endpoint: client.Endpoint}
	}
	query := endpoint.Query()
	query.Set("action", actionParam)
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(requestBody))
	if err != nil {
		return false, ErrMakeRequest{Err: err, URL: endpoint.String()}
	}
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.HTTPClient.Do(req)
	if err != nil {
		return false, ErrSubmit{Err: err, URL: endpoint.String()}
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, ErrReadResponse{Err: err, URL: endpoint.String()}
	}

	return strings.Contains(string(responseBody), successMarker), nil
}
