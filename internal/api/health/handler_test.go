package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokenpulse/pkg/errors"
	"tokenpulse/pkg/logger"
)

type stubPinger struct {
	err error
}

func (s stubPinger) Health(ctx context.Context) error {
	return s.err
}

func TestHandleLiveness(t *testing.T) {
	h := New(logger.Get(), nil, nil, "tokenpulse", "test")

	rec := httptest.NewRecorder()
	h.HandleLiveness(rec, httptest.NewRequest(http.MethodGet, "/live", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "alive")
}

func TestHandleReadinessMemoryCache(t *testing.T) {
	// Nil pinger means the in-process cache: always ready
	h := New(logger.Get(), nil, nil, "tokenpulse", "test")

	rec := httptest.NewRecorder()
	h.HandleReadiness(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var status HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, "healthy", status.Checks["cache"].Status)
}

func TestHandleReadinessUnreachableCache(t *testing.T) {
	h := New(logger.Get(), stubPinger{err: errors.ErrUnavailable}, nil, "tokenpulse", "test")

	rec := httptest.NewRecorder()
	h.HandleReadiness(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var status HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "unhealthy", status.Status)
	assert.NotEmpty(t, status.Checks["cache"].Error)
}
