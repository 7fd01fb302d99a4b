package manifest

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testManifest = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>BuildIdentities</key>
	<array>
		<dict>
			<key>ApChipID</key><string>0x8015</string>
			<key>ApBoardID</key><string>0x6</string>
			<key>UniqueBuildID</key><data>AAECAwQFBgcICQoLDA0ODw==</data>
			<key>Info</key>
			<dict>
				<key>DeviceClass</key><string>D21AP</string>
				<key>BuildNumber</key><string>20A1234</string>
				<key>RestoreBehavior</key><string>Erase</string>
			</dict>
		</dict>
		<dict>
			<key>ApChipID</key><string>0x8015</string>
			<key>ApBoardID</key><string>0x7</string>
			<key>UniqueBuildID</key><data>EBESExQVFhcYGRobHB0eHw==</data>
			<key>Info</key>
			<dict>
				<key>DeviceClass</key><string>D21AP</string>
				<key>BuildNumber</key><string>20A1234</string>
				<key>RestoreBehavior</key><string>Update</string>
			</dict>
		</dict>
	</array>
</dict>
</plist>`

func TestSiblingURL(t *testing.T) {
	manifestURL, err := SiblingURL("https://updates.example.com/ios/16.0/iPhone_20A1234_Restore.ipsw")
	require.NoError(t, err)
	assert.Equal(t, "https://updates.example.com/ios/16.0/BuildManifest.plist", manifestURL)
}

func TestFetchSibling(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/firmwares/BuildManifest.plist", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(testManifest))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	resolver := NewResolver()
	data, err := resolver.Fetch(context.Background(), server.URL+"/firmwares/y.ipsw")
	require.NoError(t, err)
	assert.Equal(t, []byte(testManifest), data)
}

func TestFetchArchiveFallback(t *testing.T) {
	var archive bytes.Buffer
	zipWriter := zip.NewWriter(&archive)
	entry, err := zipWriter.Create("BuildManifest.plist")
	require.NoError(t, err)
	_, err = entry.Write([]byte(testManifest))
	require.NoError(t, err)
	filler, err := zipWriter.Create("Firmware/payload.bin")
	require.NoError(t, err)
	_, err = filler.Write(bytes.Repeat([]byte{0x42}, 1<<16))
	require.NoError(t, err)
	require.NoError(t, zipWriter.Close())

	mux := http.NewServeMux()
	mux.HandleFunc("/firmwares/BuildManifest.plist", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	mux.HandleFunc("/firmwares/y.ipsw", func(w http.ResponseWriter, r *http.Request) {
		// ServeContent honors Range requests, which is what the remote
		// archive reader relies upon
		http.ServeContent(w, r, "y.ipsw", time.Now(), bytes.NewReader(archive.Bytes()))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	resolver := NewResolver()
	archiveURL := server.URL + "/firmwares/y.ipsw"
	data, err := resolver.Fetch(context.Background(), archiveURL)
	require.NoError(t, err)
	assert.Equal(t, []byte(testManifest), data)

	// a successful resolution is cached: a re-fetch must not need the server
	server.Close()
	data, err = resolver.Fetch(context.Background(), archiveURL)
	require.NoError(t, err)
	assert.Equal(t, []byte(testManifest), data)
}

func TestFetchNoManifestAvailable(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	resolver := NewResolver()
	_, err := resolver.Fetch(context.Background(), server.URL+"/firmwares/y.ipsw")
	require.Error(t, err)
	var noManifest ErrNoManifest
	require.ErrorAs(t, err, &noManifest)
}

func TestParseEraseIdentities(t *testing.T) {
	identities, err := ParseEraseIdentities(context.Background(), []byte(testManifest))
	require.NoError(t, err)

	// the Update identity must be excluded
	require.Len(t, identities, 1)
	assert.Equal(t, "D21AP", identities[0].BoardConfig)
	assert.Equal(t, "20A1234", identities[0].BuildID)
	assert.EqualValues(t, 0x8015, identities[0].ChipID)
	assert.EqualValues(t, 0x6, identities[0].BoardID)
	assert.Equal(t, []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}, identities[0].UniqueBuildID)
}

func TestParseEraseIdentitiesSkipsMalformedHex(t *testing.T) {
	malformed := `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>BuildIdentities</key>
	<array>
		<dict>
			<key>ApChipID</key><string>not-hex</string>
			<key>ApBoardID</key><string>0x6</string>
			<key>UniqueBuildID</key><data>AAECAwQFBgcICQoLDA0ODw==</data>
			<key>Info</key>
			<dict>
				<key>DeviceClass</key><string>D21AP</string>
				<key>BuildNumber</key><string>20A1234</string>
				<key>RestoreBehavior</key><string>Erase</string>
			</dict>
		</dict>
	</array>
</dict>
</plist>`

	identities, err := ParseEraseIdentities(context.Background(), []byte(malformed))
	require.NoError(t, err)
	require.Empty(t, identities)
}
