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

package models

// Device is one row of the `devices` relation: the mapping from the public
// (marketing) device identifier to the internal hardware revision code.
//
// Each identifier maps to exactly one boardconfig; a device is created once
// per harvest pass and never updated.
type Device struct {
	Identifier  string `db:"identifier"`
	BoardConfig string `db:"boardconfig"`
}

// Firmware is one row of the `firmwares` relation: a pre-release firmware
// build together with the one download link that answered a metadata probe.
//
// Devices is the comma-joined list of device identifiers the build applies
// to; the pair (BuildID, Devices) is unique.
type Firmware struct {
	Version string `db:"version" json:"version"`
	BuildID string `db:"buildid" json:"buildid"`
	URL     string `db:"url" json:"url"`
	Size    int64  `db:"size" json:"filesize"`
	Devices string `db:"devices" json:"-"`

	// Signed is not persisted; it is filled in by a live signing check.
	Signed bool `db:"-" json:"signed"`
}

// BuildIdentity is one row of the `build_identities` relation: the subset of
// a build-manifest identity needed to ask the signing service about one
// (hardware, build) combination. Only erase-install identities are stored.
type BuildIdentity struct {
	BoardConfig   string `db:"boardconfig"`
	BuildID       string `db:"buildid"`
	ChipID        uint64 `db:"chip_id"`
	BoardID       uint64 `db:"board_id"`
	UniqueBuildID []byte `db:"unique_buildid"`
}
