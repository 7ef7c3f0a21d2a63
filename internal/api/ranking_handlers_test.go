package api

import (
	"context"
	"encoding/json/v2"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalboard/vitalboard-server/internal/domain"
	"github.com/vitalboard/vitalboard-server/internal/service"
)

// seedRankingData gives Anna three recorded days and Bob one within the
// first ISO week of May 2025, then one and two days in the following week.
func (ts *testServer) seedRankingData(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	for _, m := range []struct {
		participant string
		day         int
	}{
		{"usr-anna", 5}, {"usr-anna", 6}, {"usr-anna", 7},
		{"usr-bob", 6},
		{"usr-anna", 12},
		{"usr-bob", 13}, {"usr-bob", 14},
	} {
		require.NoError(t, ts.store.UpsertMetric(ctx, &domain.DailyMetric{
			ParticipantID: m.participant,
			Date:          domain.Day(2025, 5, m.day),
			RestingHR:     60,
		}))
	}
}

func TestGetRanking(t *testing.T) {
	ts := setupTestServer(t)
	ts.seedRoster(t)
	ts.seedRankingData(t)
	token, _ := ts.setupAdmin(t)

	resp := ts.api.Get(
		"/api/v1/ranking?group_id=grp-1&participant_id=usr-anna&start=2025-05-05&end=2025-05-16",
		bearer(token))
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[service.RankingResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	assert.Equal(t, 1, envelope.Data.Result.Position)
	assert.Equal(t, 2, envelope.Data.Result.Total)
}

func TestGetRanking_CompletionRate(t *testing.T) {
	ts := setupTestServer(t)
	ts.seedRoster(t)
	token, _ := ts.setupAdmin(t)
	ctx := context.Background()

	// Anna completes the questionnaire on 2 of 10 window days, Bob never.
	for _, day := range []int{5, 6} {
		require.NoError(t, ts.store.UpsertMetric(ctx, &domain.DailyMetric{
			ParticipantID:          "usr-anna",
			Date:                   domain.Day(2025, 5, day),
			QuestionnaireCompleted: true,
		}))
	}

	resp := ts.api.Get(
		"/api/v1/ranking?group_id=grp-1&participant_id=usr-anna&start=2025-05-05&end=2025-05-14&metric=completion",
		bearer(token))
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[service.RankingResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	assert.Equal(t, service.RankCompletionRate, envelope.Data.Metric)
	assert.Equal(t, 1, envelope.Data.Result.Position)
	assert.Equal(t, 2, envelope.Data.Result.Total)

	rates := map[string]float64{}
	for _, e := range envelope.Data.Entries {
		rates[e.ParticipantID] = e.MetricValue
	}
	assert.InDelta(t, 20.0, rates["usr-anna"], 0.001)
}

func TestGetRanking_InvalidRange(t *testing.T) {
	ts := setupTestServer(t)
	ts.seedRoster(t)
	token, _ := ts.setupAdmin(t)

	resp := ts.api.Get(
		"/api/v1/ranking?group_id=grp-1&participant_id=usr-anna&start=2025-05-16&end=2025-05-05",
		bearer(token))
	require.Equal(t, http.StatusBadRequest, resp.Code)

	var envelope testEnvelope[any]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, "VALIDATION", envelope.Code)
}

func TestGetRanking_SubjectOutsideGroup(t *testing.T) {
	ts := setupTestServer(t)
	ts.seedRoster(t)
	ts.seedRankingData(t)
	token, _ := ts.setupAdmin(t)

	resp := ts.api.Get(
		"/api/v1/ranking?group_id=grp-1&participant_id=usr-carl&start=2025-05-05&end=2025-05-16",
		bearer(token))
	require.Equal(t, http.StatusNotFound, resp.Code)

	var envelope testEnvelope[any]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, "SUBJECT_NOT_FOUND", envelope.Code)
}

func TestGetRankingHistory_Weekly(t *testing.T) {
	ts := setupTestServer(t)
	ts.seedRoster(t)
	ts.seedRankingData(t)
	token, _ := ts.setupAdmin(t)

	resp := ts.api.Get(
		"/api/v1/ranking/history?group_id=grp-1&participant_id=usr-anna&start=2025-05-05&end=2025-05-16&interval=week",
		bearer(token))
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[RankPointsResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	points := envelope.Data.Points

	require.Len(t, points, 2)

	assert.Equal(t, "2025-W19", points[0].Bucket)
	assert.Equal(t, 1, points[0].Position)
	assert.Equal(t, 3.0, points[0].Value)

	// Week two goes to Bob, but Anna still leads the running total.
	assert.Equal(t, "2025-W20", points[1].Bucket)
	assert.Equal(t, 2, points[1].Position)
	assert.Equal(t, 1, points[1].CumulativePosition)
	assert.Equal(t, 4.0, points[1].CumulativeValue)
}

func TestGetRankingHistory_SubjectWithoutData(t *testing.T) {
	ts := setupTestServer(t)
	ts.seedRoster(t)
	ts.seedRankingData(t)
	token, _ := ts.setupAdmin(t)

	now := time.Now()
	require.NoError(t, ts.store.CreateUser(context.Background(), &domain.User{
		ID:           "usr-dana",
		Email:        "usr-dana@example.com",
		PasswordHash: "unused",
		DisplayName:  "Dana",
		Role:         domain.RoleParticipant,
		GroupID:      "grp-1",
		Status:       domain.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}))

	// A groupmate with no recorded days still gets a full series, ranked
	// last in every bucket, matching the point-in-time ranking.
	resp := ts.api.Get(
		"/api/v1/ranking/history?group_id=grp-1&participant_id=usr-dana&start=2025-05-05&end=2025-05-16&interval=week",
		bearer(token))
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[RankPointsResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	points := envelope.Data.Points

	require.Len(t, points, 2)
	for _, p := range points {
		assert.Equal(t, 3, p.Position)
		assert.Equal(t, 3, p.Total)
		assert.Equal(t, 0.0, p.Value)
	}
}
