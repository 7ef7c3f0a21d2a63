package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/vitalboard/vitalboard-server/internal/domain"
	domainerrors "github.com/vitalboard/vitalboard-server/internal/errors"
	"github.com/vitalboard/vitalboard-server/internal/service"
)

func (s *Server) registerRankingRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getRanking",
		Method:      http.MethodGet,
		Path:        "/api/v1/ranking",
		Summary:     "Group ranking",
		Description: "Ranks a participant within their group over an inclusive date range, by days with recorded data or by questionnaire completion rate. Ties share a position.",
		Tags:        []string{"Ranking"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetRanking)

	huma.Register(s.api, huma.Operation{
		OperationID: "getRankingHistory",
		Method:      http.MethodGet,
		Path:        "/api/v1/ranking/history",
		Summary:     "Ranking history",
		Description: "Ranks a participant per calendar week or month across the range, with cumulative standings. Buckets without data are omitted.",
		Tags:        []string{"Ranking"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetRankingHistory)
}

// RankingInput identifies the subject and window of a ranking query.
type RankingInput struct {
	GroupID       string `query:"group_id" doc:"Group to rank within; defaults to the caller's group"`
	ParticipantID string `query:"participant_id" doc:"Subject participant; defaults to the caller for participants"`
	Start         string `query:"start" doc:"Range start (YYYY-MM-DD), inclusive"`
	End           string `query:"end" doc:"Range end (YYYY-MM-DD), inclusive"`
	Metric        string `query:"metric" enum:"days,completion" default:"days" doc:"Ranking scalar: days with recorded data, or questionnaire completion rate"`
}

// RankingOutput wraps the ranking response for Huma.
type RankingOutput struct {
	Body service.RankingResponse
}

// RankingHistoryInput extends the ranking query with a bucket interval.
type RankingHistoryInput struct {
	RankingInput
	Interval string `query:"interval" enum:"week,month" default:"week" doc:"Calendar bucket interval"`
}

// RankPointsResponse carries the bucketed rank series.
type RankPointsResponse struct {
	Points []domain.RankPoint `json:"points" doc:"One entry per calendar bucket with data, chronological"`
}

// RankingHistoryOutput wraps the rank series for Huma.
type RankingHistoryOutput struct {
	Body RankPointsResponse
}

func (s *Server) handleGetRanking(ctx context.Context, input *RankingInput) (*RankingOutput, error) {
	user, err := GetUser(ctx)
	if err != nil {
		return nil, err
	}

	groupID, participantID := resolveRankingSubject(user, input.GroupID, input.ParticipantID)
	start, end, err := parseRange(input.Start, input.End)
	if err != nil {
		return nil, err
	}

	resp, err := s.services.Ranking.Rank(ctx, user, groupID, participantID, start, end,
		service.RankingMetric(input.Metric))
	if err != nil {
		return nil, err
	}
	return &RankingOutput{Body: *resp}, nil
}

func (s *Server) handleGetRankingHistory(ctx context.Context, input *RankingHistoryInput) (*RankingHistoryOutput, error) {
	user, err := GetUser(ctx)
	if err != nil {
		return nil, err
	}

	groupID, participantID := resolveRankingSubject(user, input.GroupID, input.ParticipantID)
	start, end, err := parseRange(input.Start, input.End)
	if err != nil {
		return nil, err
	}

	points, err := s.services.Ranking.History(ctx, user, groupID, participantID, start, end,
		domain.BucketInterval(input.Interval), service.RankingMetric(input.Metric))
	if err != nil {
		return nil, err
	}
	return &RankingHistoryOutput{Body: RankPointsResponse{Points: points}}, nil
}

// resolveRankingSubject fills in defaults from the caller: their own
// group, and for participants their own standing.
func resolveRankingSubject(user *domain.User, groupID, participantID string) (string, string) {
	if groupID == "" {
		groupID = user.GroupID
	}
	if participantID == "" && user.Role == domain.RoleParticipant {
		participantID = user.ID
	}
	return groupID, participantID
}

// parseRange parses an inclusive YYYY-MM-DD range.
func parseRange(startStr, endStr string) (time.Time, time.Time, error) {
	start, err := domain.ParseDate(startStr)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := domain.ParseDate(endStr)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if start.After(end) {
		return time.Time{}, time.Time{}, domainerrors.Validationf("start %s is after end %s", startStr, endStr)
	}
	return start, end, nil
}
