package service

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vitalboard/vitalboard-server/internal/domain"
	"github.com/vitalboard/vitalboard-server/internal/store/sqlite"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	st, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func seedGroup(t *testing.T, st *sqlite.Store, id, name string) {
	t.Helper()
	now := time.Now()
	require.NoError(t, st.CreateGroup(context.Background(), &domain.Group{
		ID:        id,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}))
}

func seedUser(t *testing.T, st *sqlite.Store, id, groupID, name string, role domain.Role) *domain.User {
	t.Helper()
	now := time.Now()
	user := &domain.User{
		ID:           id,
		Email:        id + "@example.com",
		PasswordHash: "unused",
		DisplayName:  name,
		Role:         role,
		GroupID:      groupID,
		Status:       domain.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, st.CreateUser(context.Background(), user))
	return user
}

func seedMetricDay(t *testing.T, st *sqlite.Store, participantID, day string) {
	t.Helper()
	date, err := domain.ParseDate(day)
	require.NoError(t, err)
	require.NoError(t, st.UpsertMetric(context.Background(), &domain.DailyMetric{
		ParticipantID: participantID,
		Date:          date,
		RestingHR:     60,
		MaxHR:         150,
		SleepHours:    7,
		HRVRest:       55,
		Zone1Percent:  50,
		Zone2Percent:  30,
		Zone3Percent:  10,
		Zone4Percent:  7,
		Zone5Percent:  3,
	}))
}

// seedQuestionnaireDay records a day with a completed questionnaire,
// replacing any existing record for that day.
func seedQuestionnaireDay(t *testing.T, st *sqlite.Store, participantID, day string) {
	t.Helper()
	date, err := domain.ParseDate(day)
	require.NoError(t, err)
	require.NoError(t, st.UpsertMetric(context.Background(), &domain.DailyMetric{
		ParticipantID:          participantID,
		Date:                   date,
		RestingHR:              60,
		QuestionnaireCompleted: true,
	}))
}
