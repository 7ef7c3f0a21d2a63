package api

import (
	"context"
	"crypto/rand"
	"encoding/json/v2"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/require"

	"github.com/vitalboard/vitalboard-server/internal/auth"
	"github.com/vitalboard/vitalboard-server/internal/config"
	"github.com/vitalboard/vitalboard-server/internal/domain"
	"github.com/vitalboard/vitalboard-server/internal/service"
	"github.com/vitalboard/vitalboard-server/internal/store/sqlite"
	"github.com/vitalboard/vitalboard-server/internal/validation"
	"github.com/vitalboard/vitalboard-server/internal/viewstate"
)

// testEnvelope mirrors the response envelope for unmarshaling in tests.
type testEnvelope[T any] struct {
	V       int    `json:"v"`
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Error   string `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// testServer wraps the API server for handler tests.
type testServer struct {
	*Server
	api   humatest.TestAPI
	store *sqlite.Store
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	st, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	key := make([]byte, 32)
	_, err = rand.Read(key)
	require.NoError(t, err)

	tokenService, err := auth.NewTokenService(key, 15*time.Minute, 30*24*time.Hour)
	require.NoError(t, err)

	validator := validation.New()
	sessionService := service.NewSessionService(st, tokenService, logger)
	authService := service.NewAuthService(st, tokenService, sessionService, validator, nil, logger)
	rosterService := service.NewRosterService(st, logger)
	dashboardService := service.NewDashboardService(st, rosterService, viewstate.NewRegistry(7), logger)
	rankingService := service.NewRankingService(st, 1.0, logger)
	metricService := service.NewMetricService(st, validator, logger)

	cfg := &config.Config{
		Server: config.ServerConfig{
			Name:        "VitalBoard Test",
			CORSOrigins: []string{"*"},
		},
	}

	s := NewServer(cfg, st, &Services{
		Auth:      authService,
		Session:   sessionService,
		Roster:    rosterService,
		Dashboard: dashboardService,
		Ranking:   rankingService,
		Metric:    metricService,
	}, logger)

	return &testServer{
		Server: s,
		api:    humatest.Wrap(t, s.api),
		store:  st,
	}
}

// setupAdmin runs initial setup and returns the admin's access token.
func (ts *testServer) setupAdmin(t *testing.T) (token, userID string) {
	t.Helper()

	resp := ts.api.Post("/api/v1/auth/setup", map[string]any{
		"email":        "admin@example.com",
		"password":     "correct horse battery staple",
		"display_name": "Admin",
	})
	require.Equal(t, http.StatusOK, resp.Code, "setup failed: %s", resp.Body.String())

	var envelope testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	return envelope.Data.AccessToken, envelope.Data.User.ID
}

// seedRoster creates two groups with participants directly in the store.
func (ts *testServer) seedRoster(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	now := time.Now()

	for _, g := range []struct{ id, name string }{
		{"grp-1", "Alpha"},
		{"grp-2", "Bravo"},
	} {
		require.NoError(t, ts.store.CreateGroup(ctx, &domain.Group{
			ID: g.id, Name: g.name, CreatedAt: now, UpdatedAt: now,
		}))
	}

	for _, u := range []struct{ id, group, name string }{
		{"usr-anna", "grp-1", "Anna"},
		{"usr-bob", "grp-1", "Bob"},
		{"usr-carl", "grp-2", "Carl"},
	} {
		require.NoError(t, ts.store.CreateUser(ctx, &domain.User{
			ID:           u.id,
			Email:        u.id + "@example.com",
			PasswordHash: "unused",
			DisplayName:  u.name,
			Role:         domain.RoleParticipant,
			GroupID:      u.group,
			Status:       domain.UserStatusActive,
			CreatedAt:    now,
			UpdatedAt:    now,
		}))
	}
}

func bearer(token string) string {
	return "Authorization: Bearer " + token
}

func TestHealthCheck(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[HealthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.True(t, envelope.Success)
	require.Equal(t, "healthy", envelope.Data.Status)
	require.Equal(t, "healthy", envelope.Data.Components["database"].Status)
}
