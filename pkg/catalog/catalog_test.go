package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{
				"ios": [{"osStr": "iOS", "version": "16.0", "build": "20A1234", "beta": true, "rc": false,
					"sources": [{"type": "ipsw", "deviceMap": ["iPhoneX"], "links": [{"url": "https://x/y.ipsw"}]}]}],
				"device": [{"key": "iPhoneX", "arch": "arm64", "type": "iPhone", "board": ["D21AP"]}]
			}`))
		}))
		defer server.Close()

		result, err := NewClient(server.URL).Fetch(context.Background())
		require.NoError(t, err)
		require.Len(t, result.IOS, 1)
		require.Len(t, result.Devices, 1)
		assert.Equal(t, "20A1234", result.IOS[0].Build)
		assert.Equal(t, "https://x/y.ipsw", result.IOS[0].Sources[0].Links[0].URL)
		assert.Equal(t, []string{"D21AP"}, result.Devices[0].Boards)
	})

	t.Run("non-2xx is a hard failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		_, err := NewClient(server.URL).Fetch(context.Background())
		require.Error(t, err)
		var badStatus ErrBadStatus
		require.ErrorAs(t, err, &badStatus)
		assert.Equal(t, http.StatusBadGateway, badStatus.StatusCode)
	})
}

func TestFilterFirmwares(t *testing.T) {
	sources := []Source{{Type: "ipsw"}}

	kept := FilterFirmwares([]Firmware{
		{OSStr: "iOS", Build: "20A1234", Beta: true, Sources: sources},
		{OSStr: "iPadOS", Build: "20A1235", RC: true, Sources: sources},
		{OSStr: "macOS", Build: "22A100", Beta: true, Sources: sources},  // wrong OS family
		{OSStr: "iOS", Build: "20A1236", Beta: true},                     // no sources
		{OSStr: "iOS", Build: "20A1237", Sources: sources},               // stable GA build
		{OSStr: "Apple TV Software", Build: "12A1", RC: true, Sources: sources},
	})

	var builds []string
	for _, firmware := range kept {
		builds = append(builds, firmware.Build)
	}
	assert.Equal(t, []string{"20A1234", "20A1235", "12A1"}, builds)
}

func TestFilterDevices(t *testing.T) {
	kept := FilterDevices([]Device{
		{Key: "iPhoneX", Arch: "arm64", Type: "iPhone", Boards: []string{"D21AP"}},
		{Key: "iPadZ", Arch: "arm64e", Type: "iPad Pro", Boards: []string{"J320AP"}},
		{Key: "MacY", Arch: "x86_64", Type: "iPhone", Boards: []string{"X86AP"}}, // not ARM
		{Key: "WatchW", Arch: "arm64", Type: "Apple Watch", Boards: []string{"N74AP"}},
		{Key: "Boardless", Arch: "arm64", Type: "iPhone"},
	})

	var keys []string
	for _, device := range kept {
		keys = append(keys, device.Key)
	}
	assert.Equal(t, []string{"iPhoneX", "iPadZ"}, keys)
}

func TestSortFirmwaresByBuildDesc(t *testing.T) {
	firmwares := []Firmware{
		{Build: "20A1234"},
		{Build: "21B5678"},
		{Build: "19C100"},
	}
	SortFirmwaresByBuildDesc(firmwares)

	assert.Equal(t, "21B5678", firmwares[0].Build)
	assert.Equal(t, "20A1234", firmwares[1].Build)
	assert.Equal(t, "19C100", firmwares[2].Build)
}
