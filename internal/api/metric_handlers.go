package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/vitalboard/vitalboard-server/internal/service"
)

func (s *Server) registerMetricRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "upsertMetric",
		Method:      http.MethodPost,
		Path:        "/api/v1/metrics",
		Summary:     "Import a daily metric",
		Description: "Inserts or replaces one participant-day health record. Admin only; intended for seeding and bulk import.",
		Tags:        []string{"Metrics"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpsertMetric)
}

// MetricRequest is one participant-day health record.
type MetricRequest struct {
	ParticipantID string  `json:"participant_id" validate:"required" doc:"Participant user ID"`
	Date          string  `json:"date" validate:"required,datetime=2006-01-02" doc:"Calendar day (YYYY-MM-DD)"`
	RestingHR     float64 `json:"resting_hr" validate:"gte=0,lte=300" doc:"Resting heart rate (bpm)"`
	MaxHR         float64 `json:"max_hr" validate:"gte=0,lte=300" doc:"Maximum heart rate (bpm)"`
	SleepHours    float64 `json:"sleep_hours" validate:"gte=0,lte=24" doc:"Hours slept"`
	HRVRest       float64 `json:"hrv_rest" validate:"gte=0" doc:"Resting heart rate variability (ms)"`
	Zone1Percent  float64 `json:"zone1_percent" validate:"gte=0,lte=100" doc:"Time share in heart-rate zone 1"`
	Zone2Percent  float64 `json:"zone2_percent" validate:"gte=0,lte=100" doc:"Time share in heart-rate zone 2"`
	Zone3Percent  float64 `json:"zone3_percent" validate:"gte=0,lte=100" doc:"Time share in heart-rate zone 3"`
	Zone4Percent  float64 `json:"zone4_percent" validate:"gte=0,lte=100" doc:"Time share in heart-rate zone 4"`
	Zone5Percent  float64 `json:"zone5_percent" validate:"gte=0,lte=100" doc:"Time share in heart-rate zone 5"`
	QuestionnaireCompleted bool `json:"questionnaire_completed" doc:"Whether the daily questionnaire was completed"`
}

// MetricInput wraps the metric request for Huma.
type MetricInput struct {
	Body MetricRequest
}

func (s *Server) handleUpsertMetric(ctx context.Context, input *MetricInput) (*MessageOutput, error) {
	if _, err := RequireAdmin(ctx); err != nil {
		return nil, err
	}

	err := s.services.Metric.Upsert(ctx, service.MetricUpsertRequest{
		ParticipantID: input.Body.ParticipantID,
		Date:          input.Body.Date,
		RestingHR:     input.Body.RestingHR,
		MaxHR:         input.Body.MaxHR,
		SleepHours:    input.Body.SleepHours,
		HRVRest:       input.Body.HRVRest,
		Zone1Percent:  input.Body.Zone1Percent,
		Zone2Percent:  input.Body.Zone2Percent,
		Zone3Percent:  input.Body.Zone3Percent,
		Zone4Percent:  input.Body.Zone4Percent,
		Zone5Percent:  input.Body.Zone5Percent,
		QuestionnaireCompleted: input.Body.QuestionnaireCompleted,
	})
	if err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Metric stored"}}, nil
}
