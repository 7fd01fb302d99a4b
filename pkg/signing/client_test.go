package signing

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"howett.net/plist"
)

func TestNewTicketRequest(t *testing.T) {
	uniqueBuildID := []byte{0xde, 0xad, 0xbe, 0xef}

	t.Run("legacy 32-bit chip", func(t *testing.T) {
		for _, chipID := range []uint64{0x8900, 0x8920, 0x895F} {
			request := newTicketRequest(chipID, 0x6, uniqueBuildID)
			assert.True(t, request.APTicket, "chip 0x%X", chipID)
			assert.False(t, request.ApImg4Ticket, "chip 0x%X", chipID)
			assert.False(t, request.ApSecurityMode, "chip 0x%X", chipID)
			assert.Nil(t, request.SepNonce, "chip 0x%X", chipID)
		}
	})

	t.Run("modern chip", func(t *testing.T) {
		for _, chipID := range []uint64{0x8960, 0x8015, 0x8101} {
			request := newTicketRequest(chipID, 0x6, uniqueBuildID)
			assert.False(t, request.APTicket, "chip 0x%X", chipID)
			assert.True(t, request.ApImg4Ticket, "chip 0x%X", chipID)
			assert.True(t, request.ApSecurityMode, "chip 0x%X", chipID)
			assert.Equal(t, []byte("0"), request.SepNonce, "chip 0x%X", chipID)
		}
	})

	t.Run("anti-replay placeholders", func(t *testing.T) {
		request := newTicketRequest(0x8015, 0x6, uniqueBuildID)
		// an ECID of 0 or an empty nonce causes false "signed" reports
		assert.EqualValues(t, 1, request.ApECID)
		assert.Equal(t, []byte("0"), request.ApNonce)
		assert.True(t, request.ApProductionMode)
		assert.EqualValues(t, 1, request.ApSecurityDomain)
		assert.Equal(t, uniqueBuildID, request.UniqueBuildID)
	})
}

func TestTicketRequestEncoding(t *testing.T) {
	t.Run("legacy omits modern fields", func(t *testing.T) {
		encoded, err := plist.Marshal(newTicketRequest(0x8920, 0x4, []byte{1}), plist.XMLFormat)
		require.NoError(t, err)
		assert.Contains(t, string(encoded), "@APTicket")
		assert.NotContains(t, string(encoded), "@ApImg4Ticket")
		assert.NotContains(t, string(encoded), "ApSecurityMode")
		assert.NotContains(t, string(encoded), "SepNonce")
	})

	t.Run("modern omits legacy flag", func(t *testing.T) {
		encoded, err := plist.Marshal(newTicketRequest(0x8015, 0x6, []byte{1}), plist.XMLFormat)
		require.NoError(t, err)
		assert.NotContains(t, string(encoded), "@APTicket")
		assert.Contains(t, string(encoded), "@ApImg4Ticket")
		assert.Contains(t, string(encoded), "ApSecurityMode")
		assert.Contains(t, string(encoded), "SepNonce")
	})
}

func TestIsSigned(t *testing.T) {
	newServer := func(t *testing.T, responseBody string) *httptest.Server {
		return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "2", r.URL.Query().Get("action"))
			assert.Equal(t, "no-cache", r.Header.Get("Cache-Control"))
			assert.Equal(t, `text/xml; charset="utf-8"`, r.Header.Get("Content-Type"))
			assert.Equal(t, "InetURL/1.0", r.Header.Get("User-Agent"))

			body, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			assert.Contains(t, string(body), "ApChipID")

			_, _ = w.Write([]byte(responseBody))
		}))
	}

	t.Run("signed", func(t *testing.T) {
		server := newServer(t, "STATUS=0&MESSAGE=SUCCESS")
		defer server.Close()

		signed, err := NewClient(server.URL).IsSigned(context.Background(), 0x8015, 0x6, []byte{1, 2, 3})
		require.NoError(t, err)
		assert.True(t, signed)
	})

	t.Run("unsigned", func(t *testing.T) {
		server := newServer(t, "STATUS=94&MESSAGE=This device isn't eligible for the requested build.")
		defer server.Close()

		signed, err := NewClient(server.URL).IsSigned(context.Background(), 0x8015, 0x6, []byte{1, 2, 3})
		require.NoError(t, err)
		assert.False(t, signed)
	})

	t.Run("transport failure propagates", func(t *testing.T) {
		server := newServer(t, "")
		server.Close()

		_, err := NewClient(server.URL).IsSigned(context.Background(), 0x8015, 0x6, []byte{1, 2, 3})
		require.Error(t, err)
	})
}
