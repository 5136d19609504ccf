package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/tasklane/internal/app"
	"github.com/felixgeelhaar/tasklane/pkg/config"
)

func TestHealthMux(t *testing.T) {
	cfg := &config.Config{
		AppEnv:                  "test",
		DataDir:                 filepath.Join(t.TempDir(), "data"),
		OutboxBatchSize:         10,
		OutboxMaxRetries:        3,
		BreakerFailureThreshold: 5,
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	c, err := app.NewContainer(context.Background(), cfg, logger)
	require.NoError(t, err)
	defer c.Close()

	mux := newHealthMux(c)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "stopped", body["status"])
	assert.Equal(t, false, body["running"])

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"database"`)
}
