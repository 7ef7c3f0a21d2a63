// Package store defines the persistence interface consumed by services.
package store

import (
	"context"
	"time"

	"github.com/vitalboard/vitalboard-server/internal/domain"
	"github.com/vitalboard/vitalboard-server/internal/errors"
)

// Sentinel errors returned by store implementations.
var (
	ErrNotFound      = errors.NotFound("record not found")
	ErrAlreadyExists = errors.Conflict("record already exists")
)

// Store is the full persistence surface.
type Store interface {
	UserStore
	GroupStore
	SessionStore
	MetricStore

	Ping(ctx context.Context) error
	Close() error
}

// UserStore persists user accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)
	UpdateUserLastLogin(ctx context.Context, id string, at time.Time) error
	CountAdmins(ctx context.Context) (int, error)
}

// GroupStore persists groups and exposes roster queries.
type GroupStore interface {
	CreateGroup(ctx context.Context, group *domain.Group) error
	GetGroup(ctx context.Context, id string) (*domain.Group, error)
	ListGroups(ctx context.Context) ([]domain.GroupOption, error)
	// ListParticipants returns the active participants of a group.
	ListParticipants(ctx context.Context, groupID string) ([]domain.ParticipantOption, error)
}

// SessionStore persists refresh-token sessions.
type SessionStore interface {
	CreateSession(ctx context.Context, session *domain.Session) error
	GetSession(ctx context.Context, id string) (*domain.Session, error)
	GetSessionByTokenHash(ctx context.Context, tokenHash string) (*domain.Session, error)
	// RotateSession swaps the refresh token hash and pushes the expiry out.
	RotateSession(ctx context.Context, id, newTokenHash string, expiresAt, lastSeenAt time.Time) error
	DeleteSession(ctx context.Context, id string) error
	DeleteUserSessions(ctx context.Context, userID string) error
	DeleteExpiredSessions(ctx context.Context, before time.Time) (int64, error)
}

// MetricStore persists and queries daily health metrics.
type MetricStore interface {
	// UpsertMetric inserts or replaces one participant-day record.
	UpsertMetric(ctx context.Context, metric *domain.DailyMetric) error

	// Metric queries for the three render shapes. Start and end are
	// inclusive calendar days.
	QueryParticipantMetrics(ctx context.Context, participantID string, start, end time.Time) ([]domain.DailyMetric, error)
	QueryGroupMetrics(ctx context.Context, groupID string, start, end time.Time) ([]domain.DailyMetric, error)
	QueryAllMetrics(ctx context.Context, start, end time.Time) ([]domain.DailyMetric, error)

	// LatestDataDate returns the most recent day with data for a
	// participant; ok is false when the participant has no data at all.
	LatestDataDate(ctx context.Context, participantID string) (date time.Time, ok bool, err error)

	// DaysWithData returns one entry per group participant with the count
	// of days in the range that have a metric record. Participants with
	// no data appear with a zero value.
	DaysWithData(ctx context.Context, groupID string, start, end time.Time) ([]domain.RankingEntry, error)

	// DailyMetricPoints returns one point per participant-day with data,
	// value 1, feeding the time-bucketed ranking.
	DailyMetricPoints(ctx context.Context, groupID string, start, end time.Time) ([]domain.MetricPoint, error)

	// QuestionnaireCompletion returns one entry per group participant
	// with the count of days in the range whose daily questionnaire was
	// completed. Participants without completions appear with a zero
	// value.
	QuestionnaireCompletion(ctx context.Context, groupID string, start, end time.Time) ([]domain.RankingEntry, error)

	// QuestionnaireDailyPoints returns one point per participant-day
	// with a completed questionnaire, value 1.
	QuestionnaireDailyPoints(ctx context.Context, groupID string, start, end time.Time) ([]domain.MetricPoint, error)
}
