package manifest

import (
	"context"
	"strconv"
	"strings"

	"github.com/facebookincubator/go-belt/tool/logger"
	"howett.net/plist"
)

// Identity is one usable build identity of a manifest: the exact
// hardware+restore-mode combination the firmware supports, reduced to the
// fields the signing protocol needs.
type Identity struct {
	BoardConfig   string
	BuildID       string
	ChipID        uint64
	BoardID       uint64
	UniqueBuildID []byte
}

type manifestDocument struct {
	BuildIdentities []manifestIdentity `plist:"BuildIdentities"`
}

type manifestIdentity struct {
	ApChipID      string           `plist:"ApChipID"`
	ApBoardID     string           `plist:"ApBoardID"`
	UniqueBuildID []byte           `plist:"UniqueBuildID"`
	Info          manifestIdentInf `plist:"Info"`
}

type manifestIdentInf struct {
	DeviceClass     string `plist:"DeviceClass"`
	BuildNumber     string `plist:"BuildNumber"`
	RestoreBehavior string `plist:"RestoreBehavior"`
}

// ParseEraseIdentities decodes a manifest document and returns its
// erase-install identities. Update-in-place identities are excluded: they do
// not represent installable images for a clean signing check. An identity
// with malformed hex ids is skipped, not fatal.
func ParseEraseIdentities(ctx context.Context, manifestBytes []byte) ([]Identity, error) {
	var document manifestDocument
	if _, err := plist.Unmarshal(manifestBytes, &document); err != nil {
		return nil, ErrParseManifest{Err: err}
	}

	var result []Identity
	for _, entry := range document.BuildIdentities {
		if entry.Info.RestoreBehavior != "Erase" {
			continue
		}

		chipID, err := parseHexID(entry.ApChipID)
		if err != nil {
			logger.FromCtx(ctx).Warnf("skipping identity '%s'/'%s': bad ApChipID '%s': %v",
				entry.Info.DeviceClass, entry.Info.BuildNumber, entry.ApChipID, err)
			continue
		}
		boardID, err := parseHexID(entry.ApBoardID)
		if err != nil {
			logger.FromCtx(ctx).Warnf("skipping identity '%s'/'%s': bad ApBoardID '%s': %v",
				entry.Info.DeviceClass, entry.Info.BuildNumber, entry.ApBoardID, err)
			continue
		}

		result = append(result, Identity{
			BoardConfig:   entry.Info.DeviceClass,
			BuildID:       entry.Info.BuildNumber,
			ChipID:        chipID,
			BoardID:       boardID,
			UniqueBuildID: entry.UniqueBuildID,
		})
	}
	return result, nil
}

func parseHexID(value string) (uint64, error) {
	value = strings.TrimPrefix(strings.ToLower(value), "0x")
	return strconv.ParseUint(value, 16, 64)
}
