package assets

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"sz2r1-desktop/internal/api"
	"sz2r1-desktop/internal/environment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, handler http.HandlerFunc) (*Service, api.Credentials, func()) {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth2/token/", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "test-token",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("/", handler)
	server := httptest.NewServer(mux)

	env := environment.Environment{
		ApiOriginNA:     server.URL,
		ApiOriginEU:     server.URL,
		ApiOriginAsia:   server.URL,
		RequestTimeoutS: 5,
		TokenSweepSpec:  "",
	}
	tokens := api.NewTokenManager(env)

	creds := api.Credentials{
		TenantID:     "tenant-1",
		ClientID:     "client-1",
		ClientSecret: "secret",
		Region:       api.RegionNA,
	}

	return NewService(tokens), creds, func() {
		tokens.Close()
		server.Close()
	}
}

func TestListAccessPoints(t *testing.T) {
	t.Run("Should normalize duck-typed AP fields", func(t *testing.T) {
		service, creds, cleanup := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/venues/aps", r.URL.Path)
			fmt.Fprint(w, `{"data":[
				{"serialNumber":"SN1","name":"AP-1","model":"R650","ipAddress":"10.0.0.1","status":"Operational"},
				{"serial":"SN2","hostname":"ap-2","deviceModel":"R550","ip":"10.0.0.2","state":"Offline"},
				{"mac":"aa:bb:cc","id":"ap-3"}
			]}`)
		})
		defer cleanup()

		aps, err := service.ListAccessPoints(creds)
		require.NoError(t, err)
		require.Len(t, aps, 3)

		assert.Equal(t, AccessPoint{SerialNumber: "SN1", Name: "AP-1", Model: "R650", IPAddress: "10.0.0.1", Status: "Operational"}, aps[0])
		assert.Equal(t, AccessPoint{SerialNumber: "SN2", Name: "ap-2", Model: "R550", IPAddress: "10.0.0.2", Status: "Offline"}, aps[1])

		// Fallback chain bottoms out at mac/id, status defaults to unknown
		assert.Equal(t, AccessPoint{SerialNumber: "aa:bb:cc", Name: "ap-3", Status: "unknown"}, aps[2])
	})

	t.Run("Should accept a bare array response", func(t *testing.T) {
		service, creds, cleanup := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `[{"serialNumber":"SN1","name":"AP-1"}]`)
		})
		defer cleanup()

		aps, err := service.ListAccessPoints(creds)
		require.NoError(t, err)
		require.Len(t, aps, 1)
		assert.Equal(t, "SN1", aps[0].SerialNumber)
	})

	t.Run("Should surface upstream failures", func(t *testing.T) {
		service, creds, cleanup := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			fmt.Fprint(w, `{"error":"insufficient scope"}`)
		})
		defer cleanup()

		_, err := service.ListAccessPoints(creds)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to pull access points")
		assert.Contains(t, err.Error(), "insufficient scope")
	})

	t.Run("Should fail on an unparseable body", func(t *testing.T) {
		service, creds, cleanup := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `<html>proxy error</html>`)
		})
		defer cleanup()

		_, err := service.ListAccessPoints(creds)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse listing response")
	})
}

func TestListWlans(t *testing.T) {
	t.Run("Should return WLAN entries untouched", func(t *testing.T) {
		service, creds, cleanup := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/networks", r.URL.Path)
			fmt.Fprint(w, `{"data":[{"id":"wlan-1","name":"Corp","type":"psk"}]}`)
		})
		defer cleanup()

		wlans, err := service.ListWlans(creds)
		require.NoError(t, err)
		require.Len(t, wlans, 1)
		assert.Equal(t, "Corp", wlans[0]["name"])
		assert.Equal(t, "psk", wlans[0]["type"])
	})
}

func TestExportAccessPointsCsv(t *testing.T) {
	t.Run("Should render headers and quoted cells", func(t *testing.T) {
		aps := []AccessPoint{
			{SerialNumber: "SN1", Name: "AP-1", Model: "R650", IPAddress: "10.0.0.1", Status: "Operational"},
			{SerialNumber: "SN2", Name: "Lobby, East", Model: `R"550`, Status: "unknown"},
		}

		out := ExportAccessPointsCsv(aps)
		lines := strings.Split(out, "\n")
		require.Len(t, lines, 3)

		assert.Equal(t, "serial number,name,type,ip address,status", lines[0])
		assert.Equal(t, "SN1,AP-1,R650,10.0.0.1,Operational", lines[1])
		assert.Equal(t, `SN2,"Lobby, East","R""550",,unknown`, lines[2])
	})

	t.Run("Should render header only for an empty list", func(t *testing.T) {
		assert.Equal(t, "serial number,name,type,ip address,status", ExportAccessPointsCsv(nil))
	})
}
