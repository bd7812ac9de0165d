package cmd_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"orderflow/cmd"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig() cmd.Config {
	return cmd.Config{
		StoreDriver:           cmd.StoreDriverMemory,
		WorkerPoolSize:        2,
		RecoverPendingOnStart: true,
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func serve(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestNewCompositionRoot(t *testing.T) {
	t.Run("should reject unknown store driver", func(t *testing.T) {
		cfg := memoryConfig()
		cfg.StoreDriver = "sqlite"

		_, err := cmd.NewCompositionRoot(t.Context(), cfg, discardLogger())

		require.Error(t, err)
		assert.Contains(t, err.Error(), `unknown store driver "sqlite"`)
	})

	t.Run("should reject inverted processing delays", func(t *testing.T) {
		cfg := memoryConfig()
		cfg.ProcessingDelayMin = 2 * time.Second
		cfg.ProcessingDelayMax = time.Second

		_, err := cmd.NewCompositionRoot(t.Context(), cfg, discardLogger())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "processing delay is invalid")
	})
}

func TestCompositionRoot_Memory(t *testing.T) {
	app, err := cmd.NewCompositionRoot(t.Context(), memoryConfig(), discardLogger())
	require.NoError(t, err)
	defer func() { require.NoError(t, app.Close()) }()

	e, err := app.CreateHTTPRouter(t.Context())
	require.NoError(t, err)

	jobs := app.CreateJobManager()
	require.NoError(t, jobs.StartAll(t.Context()))
	defer jobs.StopAll()

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() { done <- app.Engine().Run(ctx) }()
	defer func() {
		cancel()
		require.NoError(t, <-done)
	}()

	rec := serve(e, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Healthy", rec.Body.String())

	rec = serve(e, http.MethodPost, "/orders", `{"user_id": 1, "order_id": "ORD-1", "item_ids": [101], "total_amount": 9.99}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = serve(e, http.MethodPost, "/orders", `{"user_id": 1, "order_id": "ORD-1", "item_ids": [101], "total_amount": 9.99}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(e, http.MethodPost, "/orders/populate", `{"total_entries": 5}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	require.Eventually(t, func() bool {
		rec := serve(e, http.MethodGet, "/orders/metrics", "")
		if rec.Code != http.StatusOK {
			return false
		}

		var body struct {
			TotalOrders int64 `json:"total_orders"`
			Completed   struct {
				Count int64 `json:"count"`
			} `json:"completed"`
		}
		return json.Unmarshal(rec.Body.Bytes(), &body) == nil &&
			body.TotalOrders == 6 && body.Completed.Count == 6
	}, 5*time.Second, 20*time.Millisecond)

	rec = serve(e, http.MethodGet, "/orders/ORD-1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var status map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "Completed", status["status"])
	assert.Contains(t, status, "total_duration")
}
