package storage

import (
	"context"

	"github.com/m1stadev/beta-firmware-API/pkg/storage/models"
)

// InsertFirmware adds a firmware, ignoring the insert if a row with the same
// (buildid, devices) pair already exists.
func (stor *Storage) InsertFirmware(ctx context.Context, firmware models.Firmware) error {
	_, err := stor.DB.ExecContext(ctx,
		stor.insertIgnoreVerb()+" firmwares (version, buildid, url, size, devices) VALUES (?, ?, ?, ?, ?)",
		firmware.Version, firmware.BuildID, firmware.URL, firmware.Size, firmware.Devices,
	)
	if err != nil {
		return ErrUnableToInsert{insertedValue: firmware.BuildID, Err: err}
	}
	return nil
}

// FirmwaresForDevice returns every firmware whose device list contains the
// given identifier as a substring.
func (stor *Storage) FirmwaresForDevice(ctx context.Context, identifier string) ([]models.Firmware, error) {
	var firmwares []models.Firmware
	err := stor.DB.SelectContext(ctx, &firmwares,
		"SELECT version, buildid, url, size, devices FROM firmwares WHERE devices LIKE ?",
		"%"+identifier+"%",
	)
	if err != nil {
		return nil, ErrSelect{Err: err}
	}
	return firmwares, nil
}

// DeleteFirmwares removes the firmware rows for the given buildid whose
// device list contains the identifier. This is the self-healing path: a
// firmware whose build identity was never extracted is purged so that a
// later harvest pass can re-derive it from scratch.
func (stor *Storage) DeleteFirmwares(ctx context.Context, buildID, identifier string) error {
	_, err := stor.DB.ExecContext(ctx,
		"DELETE FROM firmwares WHERE buildid = ? AND devices LIKE ?",
		buildID, "%"+identifier+"%",
	)
	if err != nil {
		return ErrDelete{Err: err}
	}
	return nil
}

// CountFirmwares returns the total amount of firmware rows.
func (stor *Storage) CountFirmwares(ctx context.Context) (int64, error) {
	var count int64
	if err := stor.DB.GetContext(ctx, &count, "SELECT COUNT(*) FROM firmwares"); err != nil {
		return 0, ErrSelect{Err: err}
	}
	return count, nil
}
