package app

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/flightdrop/internal/testutil"
)

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthHandler(t *testing.T) {
	t.Parallel()

	a, _ := setupAppTest(t, Config{}, nil)
	h := a.Handler()

	rec := get(t, h, "/health")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "uninitialized\n", rec.Body.String())

	require.NoError(t, a.OnCreate(context.Background()))

	rec = get(t, h, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK\n", rec.Body.String())
}

func TestModulesHandler(t *testing.T) {
	t.Parallel()

	a, _ := setupAppTest(t, Config{}, nil)
	h := a.Handler()

	rec := get(t, h, "/modules")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	require.NoError(t, a.OnCreate(context.Background()))

	rec = get(t, h, "/modules")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got []moduleStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, len(expectedModuleOrder))
	for i, m := range got {
		assert.Equal(t, expectedModuleOrder[i], m.Name)
		assert.NotEmpty(t, m.Capabilities, "module %q exposes no capabilities", m.Name)
	}
	assert.Equal(t, []capabilityStatus{{Name: "BVLinearGradient", Kind: "view"}}, got[len(got)-1].Capabilities)
}

func TestModulesHandler_ConstructionFailure(t *testing.T) {
	t.Parallel()

	rec := testutil.NewRecorder()
	a, _ := setupAppTest(t, Config{}, nil, testutil.RecordingEntry(rec, "broken", errors.New("boom"), nil))
	require.NoError(t, a.OnCreate(context.Background()))

	resp := get(t, a.Handler(), "/modules")
	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Contains(t, resp.Body.String(), "boom")
}
