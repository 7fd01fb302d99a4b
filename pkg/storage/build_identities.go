package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/m1stadev/beta-firmware-API/pkg/storage/models"
)

// InsertBuildIdentity adds a build identity, ignoring the insert if a row
// with the same (boardconfig, buildid) pair or the same unique build token
// already exists.
func (stor *Storage) InsertBuildIdentity(ctx context.Context, identity models.BuildIdentity) error {
	_, err := stor.DB.ExecContext(ctx,
		stor.insertIgnoreVerb()+" build_identities (boardconfig, buildid, chip_id, board_id, unique_buildid) VALUES (?, ?, ?, ?, ?)",
		identity.BoardConfig, identity.BuildID, identity.ChipID, identity.BoardID, identity.UniqueBuildID,
	)
	if err != nil {
		return ErrUnableToInsert{insertedValue: identity.BoardConfig + "/" + identity.BuildID, Err: err}
	}
	return nil
}

// BuildIdentity returns the stored identity whose boardconfig contains the
// given value as a substring and whose buildid matches exactly. The second
// return value is false when no identity matches; that is not an error.
func (stor *Storage) BuildIdentity(ctx context.Context, boardConfig, buildID string) (*models.BuildIdentity, bool, error) {
	var identity models.BuildIdentity
	err := stor.DB.GetContext(ctx, &identity,
		"SELECT boardconfig, buildid, chip_id, board_id, unique_buildid FROM build_identities WHERE boardconfig LIKE ? AND buildid = ?",
		"%"+boardConfig+"%", buildID,
	)
	switch {
	case err == nil:
		return &identity, true, nil
	case errors.Is(err, sql.ErrNoRows):
		return nil, false, nil
	default:
		return nil, false, ErrSelect{Err: err}
	}
}

// CountBuildIdentities returns the total amount of build-identity rows.
func (stor *Storage) CountBuildIdentities(ctx context.Context) (int64, error) {
	var count int64
	if err := stor.DB.GetContext(ctx, &count, "SELECT COUNT(*) FROM build_identities"); err != nil {
		return 0, ErrSelect{Err: err}
	}
	return count, nil
}
