package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/vitalboard/vitalboard-server/internal/domain"
	domainerrors "github.com/vitalboard/vitalboard-server/internal/errors"
	"github.com/vitalboard/vitalboard-server/internal/store"
)

// RankingMetric selects the scalar a ranking pass is computed over.
type RankingMetric string

// Ranking metrics.
const (
	// RankDaysWithData counts days with any recorded health data.
	RankDaysWithData RankingMetric = "days"
	// RankCompletionRate ranks by the share of window days whose daily
	// questionnaire was completed, reported as a percentage.
	RankCompletionRate RankingMetric = "completion"
)

// RankingService ranks participants within a group, by days with
// recorded data or by questionnaire completion rate, both as a
// point-in-time standing and bucketed over time.
type RankingService struct {
	store store.Store
	// anomalyThreshold flags participants whose days-with-data count
	// exceeds the window length times this factor. Values above 1.0
	// tolerate duplicated imports.
	anomalyThreshold float64
	logger           *slog.Logger
}

// NewRankingService creates a ranking service.
func NewRankingService(store store.Store, anomalyThreshold float64, logger *slog.Logger) *RankingService {
	if anomalyThreshold <= 0 {
		anomalyThreshold = 1.0
	}
	return &RankingService{
		store:            store,
		anomalyThreshold: anomalyThreshold,
		logger:           logger,
	}
}

// RankingResponse is one participant's standing plus the full board.
// For the completion-rate metric, entry values are percentages of the
// window; for days-with-data they are day counts.
type RankingResponse struct {
	Metric  RankingMetric         `json:"metric"`
	Result  domain.RankResult     `json:"result"`
	Entries []domain.RankingEntry `json:"entries"`
	// Anomalies lists participants with more data days than the window
	// holds, which usually means a double import.
	Anomalies []string `json:"anomalies,omitempty"`
}

// Rank computes the participant's standing within their group over an
// inclusive date range, under the chosen metric.
func (s *RankingService) Rank(
	ctx context.Context,
	user *domain.User,
	groupID, participantID string,
	start, end time.Time,
	metric RankingMetric,
) (*RankingResponse, error) {
	if err := s.guardGroup(user, groupID); err != nil {
		return nil, err
	}

	var entries []domain.RankingEntry
	var err error
	switch metric {
	case RankCompletionRate:
		entries, err = s.store.QuestionnaireCompletion(ctx, groupID, start, end)
	case RankDaysWithData, "":
		metric = RankDaysWithData
		entries, err = s.store.DaysWithData(ctx, groupID, start, end)
	default:
		return nil, domainerrors.Validationf("unknown ranking metric %q", metric)
	}
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeDataUnavailable, "ranking data unavailable")
	}

	resp := &RankingResponse{Metric: metric}

	// Both metrics arrive as day counts; anomalies are judged before any
	// scaling so the threshold keeps its days-per-window meaning.
	windowDays := float64(end.Sub(start).Hours()/24) + 1
	for _, e := range entries {
		if e.MetricValue > windowDays*s.anomalyThreshold {
			resp.Anomalies = append(resp.Anomalies, e.ParticipantID)
		}
	}
	if len(resp.Anomalies) > 0 && s.logger != nil {
		s.logger.Warn("Ranking window contains participants with surplus data days",
			"group_id", groupID,
			"participants", resp.Anomalies,
		)
	}

	if metric == RankCompletionRate {
		for i := range entries {
			entries[i].MetricValue = entries[i].MetricValue / windowDays * 100
		}
	}

	result, err := domain.Rank(entries, participantID)
	if err != nil {
		return nil, err
	}
	resp.Result = result
	resp.Entries = entries

	return resp, nil
}

// History computes the participant's rank per calendar bucket over the
// range, including cumulative standings. The ranking universe is seeded
// from the group roster, so a participant with no recorded days still
// appears in every bucket with value 0 instead of falling out of the
// series.
func (s *RankingService) History(
	ctx context.Context,
	user *domain.User,
	groupID, participantID string,
	start, end time.Time,
	interval domain.BucketInterval,
	metric RankingMetric,
) ([]domain.RankPoint, error) {
	if err := s.guardGroup(user, groupID); err != nil {
		return nil, err
	}

	roster, err := s.store.ListParticipants(ctx, groupID)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeDataUnavailable, "ranking data unavailable")
	}
	universe := make([]string, len(roster))
	for i, p := range roster {
		universe[i] = p.ID
	}

	var points []domain.MetricPoint
	switch metric {
	case RankCompletionRate:
		points, err = s.store.QuestionnaireDailyPoints(ctx, groupID, start, end)
	case RankDaysWithData, "":
		points, err = s.store.DailyMetricPoints(ctx, groupID, start, end)
	default:
		return nil, domainerrors.Validationf("unknown ranking metric %q", metric)
	}
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeDataUnavailable, "ranking data unavailable")
	}

	return domain.RankOverTime(points, universe, participantID, interval)
}

// guardGroup restricts non-admin users to their own group.
func (s *RankingService) guardGroup(user *domain.User, groupID string) error {
	if groupID == "" {
		return domainerrors.InvalidSelection("group is required for ranking")
	}
	if !user.IsAdmin() && user.GroupID != groupID {
		return domainerrors.Forbidden("group is outside your scope")
	}
	return nil
}
