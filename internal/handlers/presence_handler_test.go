package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"presencebot/internal/config"
	"presencebot/internal/handlers"
	"presencebot/internal/models"
	"presencebot/internal/routes"
	"presencebot/internal/services"
	"presencebot/internal/testutil"
)

func newServer(t *testing.T, roster *testutil.FakeRoster, api config.APIConfig) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	presence := services.NewPresenceService(roster, []string{"u1"}, 20*time.Second)
	r := gin.New()
	return routes.SetupRoutes(r, api, handlers.NewPresenceHandler(presence))
}

func get(r *gin.Engine, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func connectedRoster() *testutil.FakeRoster {
	return &testutil.FakeRoster{
		Connected: true,
		Members: map[string]models.PresenceView{
			"u1": {ID: "u1", Username: "alice", Status: models.StatusOnline, Activities: []models.Activity{}},
		},
	}
}

func TestHealthz(t *testing.T) {
	r := newServer(t, &testutil.FakeRoster{}, config.APIConfig{Key: "secret"})

	w := get(r, "/healthz", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, false, body["discordReady"])
	assert.NotEmpty(t, body["now"])
}

func TestGetPresence(t *testing.T) {
	t.Run("rejects a missing or wrong key", func(t *testing.T) {
		r := newServer(t, connectedRoster(), config.APIConfig{Key: "secret"})

		w := get(r, "/api/presence", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		w = get(r, "/api/presence", map[string]string{"x-api-key": "wrong"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("accepts the configured key", func(t *testing.T) {
		r := newServer(t, connectedRoster(), config.APIConfig{Key: "secret"})

		w := get(r, "/api/presence", map[string]string{"x-api-key": "secret"})
		require.Equal(t, http.StatusOK, w.Code)

		var snap models.PresenceSnapshot
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
		require.Len(t, snap.Team, 1)
		assert.Equal(t, "alice", snap.Team[0].Username)
		assert.Equal(t, models.StatusOnline, snap.Team[0].Status)
	})

	t.Run("public_read bypasses the key check", func(t *testing.T) {
		r := newServer(t, connectedRoster(), config.APIConfig{Key: "secret", PublicRead: true})
		w := get(r, "/api/presence", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("an empty configured key disables the check", func(t *testing.T) {
		r := newServer(t, connectedRoster(), config.APIConfig{})
		w := get(r, "/api/presence", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("503 while the gateway is not ready", func(t *testing.T) {
		r := newServer(t, &testutil.FakeRoster{}, config.APIConfig{})
		w := get(r, "/api/presence", nil)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), "discord_not_ready")
	})

	t.Run("unknown roster member renders the sentinel, not an error", func(t *testing.T) {
		roster := &testutil.FakeRoster{Connected: true}
		r := newServer(t, roster, config.APIConfig{})

		w := get(r, "/api/presence", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var snap models.PresenceSnapshot
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
		require.Len(t, snap.Team, 1)
		assert.Equal(t, "unknown", snap.Team[0].Username)
		assert.Equal(t, models.StatusUnknown, snap.Team[0].Status)
	})
}
