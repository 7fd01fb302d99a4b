package harvester

import (
	"context"
	"net/http"
	"strings"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/hashicorp/go-multierror"

	"github.com/m1stadev/beta-firmware-API/pkg/catalog"
	"github.com/m1stadev/beta-firmware-API/pkg/manifest"
	"github.com/m1stadev/beta-firmware-API/pkg/storage/models"
)

type probeResult struct {
	url       string
	size      int64
	deviceMap []string
}

// resolveFirmware persists one firmware entry: every ipsw source with a
// working download link becomes its own row (the sources of a build cover
// disjoint device groups), and each reachable source's manifest feeds the
// build-identity extraction.
//
// Every failure here is deliberately non-fatal for the pass: a source with
// no reachable link is skipped silently, and a source whose manifest could
// not be fetched stays persisted without identities, to be purged and
// re-derived by the self-healing path of the signing verifier.
func (harvester *Harvester) resolveFirmware(ctx context.Context, firmware catalog.Firmware) error {
	log := logger.FromCtx(ctx)

	resolvedAny := false
	for _, source := range firmware.Sources {
		if source.Type != "ipsw" {
			continue
		}

		probe, ok := harvester.probeSource(ctx, firmware.Build, source)
		if !ok {
			continue
		}
		resolvedAny = true

		if err := harvester.persistSource(ctx, firmware, probe); err != nil {
			return err
		}
	}

	if !resolvedAny {
		log.Debugf("no reachable download link for '%s'/'%s', skipping", firmware.Version, firmware.Build)
	}
	return nil
}

// persistSource stores the firmware row of one probed source and the build
// identities recovered from its manifest.
func (harvester *Harvester) persistSource(ctx context.Context, firmware catalog.Firmware, probe probeResult) error {
	log := logger.FromCtx(ctx)

	err := harvester.Storage.InsertFirmware(ctx, models.Firmware{
		Version: firmware.Version,
		BuildID: firmware.Build,
		URL:     probe.url,
		Size:    probe.size,
		Devices: strings.Join(probe.deviceMap, ", "),
	})
	if err != nil {
		return err
	}

	var manifestBytes []byte
	err = withAttempts(harvester.manifestAttempts, func() error {
		var err error
		manifestBytes, err = harvester.Manifests.Fetch(ctx, probe.url)
		return err
	})
	if err != nil {
		log.Warnf("unable to resolve the manifest of '%s' (%v); identity extraction is left to a later pass", probe.url, err)
		return nil
	}

	identities, err := manifest.ParseEraseIdentities(ctx, manifestBytes)
	if err != nil {
		log.Warnf("unable to parse the manifest of '%s': %v", probe.url, err)
		return nil
	}

	for _, identity := range identities {
		err := harvester.Storage.InsertBuildIdentity(ctx, models.BuildIdentity{
			BoardConfig:   identity.BoardConfig,
			BuildID:       identity.BuildID,
			ChipID:        identity.ChipID,
			BoardID:       identity.BoardID,
			UniqueBuildID: identity.UniqueBuildID,
		})
		if err != nil {
			// one unstorable identity should not cost us the rest
			log.Warnf("unable to insert the identity '%s'/'%s': %v", identity.BoardConfig, identity.BuildID, err)
		}
	}
	return nil
}

// probeSource iterates the candidate download links of one source and
// returns the first one whose metadata-only probe succeeds.
func (harvester *Harvester) probeSource(ctx context.Context, buildID string, source catalog.Source) (probeResult, bool) {
	var probeErrs *multierror.Error

	for _, link := range source.Links {
		var result probeResult
		err := withAttempts(harvester.probeAttempts, func() error {
			size, err := harvester.probeLink(ctx, link.URL)
			if err != nil {
				return err
			}
			result = probeResult{
				url:       link.URL,
				size:      size,
				deviceMap: source.DeviceMap,
			}
			return nil
		})
		if err == nil {
			return result, true
		}
		probeErrs = multierror.Append(probeErrs, err)
	}

	if err := probeErrs.ErrorOrNil(); err != nil {
		logger.FromCtx(ctx).Debugf("every link probe failed for '%s': %v", buildID, err)
	}
	return probeResult{}, false
}

// probeLink issues a HEAD request and returns the declared content length.
// A response which does not declare one is a failed probe: the stored size
// must come from the server, not be a placeholder.
func (harvester *Harvester) probeLink(ctx context.Context, linkURL string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, linkURL, nil)
	if err != nil {
		return 0, ErrMakeRequest{Err: err, URL: linkURL}
	}

	resp, err := harvester.HTTPClient.Do(req)
	if err != nil {
		return 0, ErrProbe{Err: err, URL: linkURL}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, ErrProbeStatus{URL: linkURL, StatusCode: resp.StatusCode}
	}

	if resp.ContentLength < 0 {
		return 0, ErrProbeNoLength{URL: linkURL}
	}
	return resp.ContentLength, nil
}
