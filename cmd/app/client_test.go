package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIClientMapsErrorStatuses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/ranks":
			assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{"ranks": []map[string]any{{"ID": 1, "Name": "Chief", "Level": 100}}})
		case "/api/officers":
			w.WriteHeader(http.StatusConflict)
			_ = json.NewEncoder(w).Encode(map[string]any{"error": "badge already registered: 0001"})
		case "/api/officers/2/rank":
			w.WriteHeader(http.StatusForbidden)
			_ = json.NewEncoder(w).Encode(map[string]any{"error": "permission denied"})
		default:
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("upstream down"))
		}
	}))
	t.Cleanup(srv.Close)

	client := newAPIClient(srv.URL+"/", "tok")
	ctx := context.Background()

	var ranks []struct {
		ID    uint
		Name  string
		Level int
	}
	require.NoError(t, client.requestList(ctx, "/api/ranks", "ranks", &ranks))
	require.Len(t, ranks, 1)
	assert.Equal(t, "Chief", ranks[0].Name)

	err := client.requestList(ctx, "/api/ranks", "officers", &ranks)
	assert.EqualError(t, err, `api response is missing "officers"`)

	tests := []struct {
		path   string
		status int
		want   string
	}{
		{"/api/officers", http.StatusConflict, "already on record: badge already registered: 0001"},
		{"/api/officers/2/rank", http.StatusForbidden, "not allowed: permission denied"},
		{"/api/elsewhere", http.StatusBadGateway, "api error (502): upstream down"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			err := client.request(ctx, http.MethodPost, tt.path, map[string]any{}, nil)
			var apiErr *apiError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.Status)
			assert.EqualError(t, err, tt.want)
		})
	}
}

func TestRPCErrorsShareMessages(t *testing.T) {
	assert.EqualError(t, &rpcCallError{Code: 40300, Message: "permission denied"}, "not allowed: permission denied")
	assert.EqualError(t, &rpcCallError{Code: 40900, Message: "duplicate serial"}, "already on record: duplicate serial")
	assert.EqualError(t, &rpcCallError{Code: -32601, Message: "method not found"}, "rpc error (-32601): method not found")
}

func TestConfigRoundTrip(t *testing.T) {
	t.Setenv("PCESP_CLI_CONFIG", filepath.Join(t.TempDir(), "nested", "config.json"))

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, cliConfig{Transport: "uds", Server: defaultServer, Socket: defaultSocket}, cfg)

	cfg.Transport = "http"
	cfg.Token = "secret"
	require.NoError(t, saveConfig(cfg))

	loaded, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
