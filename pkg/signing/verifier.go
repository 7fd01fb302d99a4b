package signing

import (
	"context"

	"github.com/facebookincubator/go-belt/tool/logger"

	"github.com/m1stadev/beta-firmware-API/pkg/netlimit"
	"github.com/m1stadev/beta-firmware-API/pkg/storage"
	"github.com/m1stadev/beta-firmware-API/pkg/storage/models"
)

// Verifier answers the signing status of one stored (device, firmware) pair
// by combining store lookups with a live ticket request.
type Verifier struct {
	Storage *storage.Storage
	Client  *Client
	Limiter *netlimit.Limiter
}

// NewVerifier returns an instance of Verifier.
func NewVerifier(stor *storage.Storage, client *Client, limiter *netlimit.Limiter) *Verifier {
	return &Verifier{
		Storage: stor,
		Client:  client,
		Limiter: limiter,
	}
}

// CheckSigned returns the firmware annotated with its current signing
// status, or nil when the status cannot be determined: unknown device
// identifier, or no matching build identity. In the latter case the
// firmware rows are deleted so that a later harvest pass re-derives them
// (including the missing identity) from scratch.
//
// A transport failure of the ticket request is propagated, not retried.
func (verifier *Verifier) CheckSigned(
	ctx context.Context,
	identifier string,
	firmware models.Firmware,
) (*models.Firmware, error) {
	var result *models.Firmware
	err := verifier.Limiter.Do(ctx, func(ctx context.Context) error {
		boardConfig, found, err := verifier.Storage.BoardConfig(ctx, identifier)
		if err != nil {
			return err
		}
		if !found {
			logger.FromCtx(ctx).Debugf("no boardconfig for identifier '%s'", identifier)
			return nil
		}

		identity, found, err := verifier.Storage.BuildIdentity(ctx, boardConfig, firmware.BuildID)
		if err != nil {
			return err
		}
		if !found {
			// The identity extraction for this firmware never succeeded;
			// purge the row so the next harvest pass retries it cleanly.
			logger.FromCtx(ctx).Infof("no build identity for '%s'/'%s', deleting the firmware rows",
				boardConfig, firmware.BuildID)
			return verifier.Storage.DeleteFirmwares(ctx, firmware.BuildID, identifier)
		}

		signed, err := verifier.Client.IsSigned(ctx, identity.ChipID, identity.BoardID, identity.UniqueBuildID)
		if err != nil {
			return err
		}

		firmware.Signed = signed
		result = &firmware
		return nil
	})
	return result, err
}
