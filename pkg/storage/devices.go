package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/m1stadev/beta-firmware-API/pkg/storage/models"
)

// InsertDevice adds a device, ignoring the insert if a row with the same
// identifier (or boardconfig) already exists. Re-running a harvest pass over
// an unchanged catalog is therefore a no-op.
func (stor *Storage) InsertDevice(ctx context.Context, device models.Device) error {
	_, err := stor.DB.ExecContext(ctx,
		stor.insertIgnoreVerb()+" devices (identifier, boardconfig) VALUES (?, ?)",
		device.Identifier, device.BoardConfig,
	)
	if err != nil {
		return ErrUnableToInsert{insertedValue: device.Identifier, Err: err}
	}
	return nil
}

// BoardConfig returns the stored boardconfig of a device whose identifier
// contains the given value as a substring (identifiers may carry trailing
// variant suffixes). The second return value is false when no device
// matches; that is not an error.
func (stor *Storage) BoardConfig(ctx context.Context, identifier string) (string, bool, error) {
	var boardConfig string
	err := stor.DB.GetContext(ctx, &boardConfig,
		"SELECT boardconfig FROM devices WHERE identifier LIKE ?",
		"%"+identifier+"%",
	)
	switch {
	case err == nil:
		return boardConfig, true, nil
	case errors.Is(err, sql.ErrNoRows):
		return "", false, nil
	default:
		return "", false, ErrSelect{Err: err}
	}
}

// CountDevices returns the total amount of device rows.
func (stor *Storage) CountDevices(ctx context.Context) (int64, error) {
	var count int64
	if err := stor.DB.GetContext(ctx, &count, "SELECT COUNT(*) FROM devices"); err != nil {
		return 0, ErrSelect{Err: err}
	}
	return count, nil
}
