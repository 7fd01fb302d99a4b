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

// Package harvester populates the store from the upstream catalog: devices,
// firmwares with a working download link, and the build identities recovered
// from each firmware's manifest.
package harvester

import (
	"context"
	"net/http"

	"github.com/facebookincubator/go-belt/tool/experimental/tracer"
	"golang.org/x/sync/errgroup"

	"github.com/m1stadev/beta-firmware-API/pkg/catalog"
	"github.com/m1stadev/beta-firmware-API/pkg/manifest"
	"github.com/m1stadev/beta-firmware-API/pkg/netlimit"
	"github.com/m1stadev/beta-firmware-API/pkg/storage"
	"github.com/m1stadev/beta-firmware-API/pkg/storage/models"
)

const (
	probeAttemptsDefault    = 3
	manifestAttemptsDefault = 3
)

// Harvester drives one catalog pass: fetch, filter, fan out, persist.
type Harvester struct {
	Storage    *storage.Storage
	Catalog    *catalog.Client
	Manifests  *manifest.Resolver
	Limiter    *netlimit.Limiter
	HTTPClient *http.Client

	probeAttempts    int
	manifestAttempts int
}

// New returns an instance of Harvester.
func New(
	stor *storage.Storage,
	catalogClient *catalog.Client,
	manifests *manifest.Resolver,
	limiter *netlimit.Limiter,
) *Harvester {
	return &Harvester{
		Storage:          stor,
		Catalog:          catalogClient,
		Manifests:        manifests,
		Limiter:          limiter,
		HTTPClient:       http.DefaultClient,
		probeAttempts:    probeAttemptsDefault,
		manifestAttempts: manifestAttemptsDefault,
	}
}

// Harvest runs one full pass. A failed catalog fetch aborts the pass with
// nothing persisted; per-firmware failures are isolated inside
// resolveFirmware and do not fail the pass, but an unrecovered error in any
// task (for example a broken store) fails the whole scope.
func (harvester *Harvester) Harvest(ctx context.Context) error {
	span, ctx := tracer.StartChildSpanFromCtx(ctx, "Harvester.Harvest")
	defer span.Finish()

	var document *catalog.Catalog
	err := harvester.Limiter.Do(ctx, func(ctx context.Context) error {
		var err error
		document, err = harvester.Catalog.Fetch(ctx)
		return err
	})
	if err != nil {
		return err
	}

	firmwares := catalog.FilterFirmwares(document.IOS)
	catalog.SortFirmwaresByBuildDesc(firmwares)
	devices := catalog.FilterDevices(document.Devices)

	group, groupCtx := errgroup.WithContext(ctx)
	for _, device := range devices {
		device := device
		group.Go(func() error {
			return harvester.Storage.InsertDevice(groupCtx, models.Device{
				Identifier:  device.Key,
				BoardConfig: device.Boards[0],
			})
		})
	}
	for _, firmware := range firmwares {
		firmware := firmware
		group.Go(func() error {
			return harvester.Limiter.Do(groupCtx, func(ctx context.Context) error {
				return harvester.resolveFirmware(ctx, firmware)
			})
		})
	}
	return group.Wait()
}
