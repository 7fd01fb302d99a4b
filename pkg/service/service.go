// Package service owns the periodic refresh loop and the per-device query
// operation of the beta-firmware signing tracker.
package service

import (
	"context"
	"sort"
	"time"

	"github.com/facebookincubator/go-belt/tool/logger"
	"golang.org/x/sync/errgroup"

	"github.com/m1stadev/beta-firmware-API/pkg/harvester"
	"github.com/m1stadev/beta-firmware-API/pkg/signing"
	"github.com/m1stadev/beta-firmware-API/pkg/storage"
	"github.com/m1stadev/beta-firmware-API/pkg/storage/models"
)

// DefaultRefreshInterval is the pause between two harvest passes.
const DefaultRefreshInterval = 60 * time.Second

// Service glues the harvester, the store and the signing verifier together.
type Service struct {
	Storage   *storage.Storage
	Harvester *harvester.Harvester
	Verifier  *signing.Verifier

	RefreshInterval time.Duration
}

// New returns an instance of Service.
func New(
	stor *storage.Storage,
	harv *harvester.Harvester,
	verifier *signing.Verifier,
) *Service {
	return &Service{
		Storage:         stor,
		Harvester:       harv,
		Verifier:        verifier,
		RefreshInterval: DefaultRefreshInterval,
	}
}

// RunRefreshLoop re-runs the harvester until the context is cancelled. A
// failed pass is logged, not retried within the same cycle, and does not
// stop the loop.
func (service *Service) RunRefreshLoop(ctx context.Context) {
	log := logger.FromCtx(ctx)
	for {
		if err := service.Harvester.Harvest(ctx); err != nil {
			log.Errorf("harvest pass failed: %v", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(service.RefreshInterval):
		}
	}
}

// Betas returns the stored firmwares applicable to the given device
// identifier, each annotated with its live signing status. Firmwares whose
// status cannot be determined are omitted rather than reported with an
// error; a device with zero matching firmwares yields an empty result.
func (service *Service) Betas(ctx context.Context, identifier string) ([]models.Firmware, error) {
	stored, err := service.Storage.FirmwaresForDevice(ctx, identifier)
	if err != nil {
		return nil, err
	}

	checked := make([]*models.Firmware, len(stored))
	group, groupCtx := errgroup.WithContext(ctx)
	for idx, firmware := range stored {
		idx, firmware := idx, firmware
		group.Go(func() error {
			result, err := service.Verifier.CheckSigned(groupCtx, identifier, firmware)
			if err != nil {
				return err
			}
			checked[idx] = result
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	var firmwares []models.Firmware
	for _, firmware := range checked {
		if firmware == nil {
			continue
		}
		firmwares = append(firmwares, *firmware)
	}

	sort.SliceStable(firmwares, func(i, j int) bool {
		return firmwares[i].BuildID > firmwares[j].BuildID
	})
	return firmwares, nil
}
