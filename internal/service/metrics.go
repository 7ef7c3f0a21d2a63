package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vitalboard/vitalboard-server/internal/domain"
	domainerrors "github.com/vitalboard/vitalboard-server/internal/errors"
	"github.com/vitalboard/vitalboard-server/internal/store"
	"github.com/vitalboard/vitalboard-server/internal/validation"
)

// MetricService handles health metric imports. Admin-only; regular data
// arrives through device sync outside this server's scope.
type MetricService struct {
	store     store.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewMetricService creates a metric import service.
func NewMetricService(store store.Store, validator *validation.Validator, logger *slog.Logger) *MetricService {
	return &MetricService{store: store, validator: validator, logger: logger}
}

// MetricUpsertRequest is one participant-day health record to import.
type MetricUpsertRequest struct {
	ParticipantID string  `json:"participant_id" validate:"required"`
	Date          string  `json:"date" validate:"required,datetime=2006-01-02"`
	RestingHR     float64 `json:"resting_hr" validate:"gte=0,lte=300"`
	MaxHR         float64 `json:"max_hr" validate:"gte=0,lte=300"`
	SleepHours    float64 `json:"sleep_hours" validate:"gte=0,lte=24"`
	HRVRest       float64 `json:"hrv_rest" validate:"gte=0"`
	Zone1Percent  float64 `json:"zone1_percent" validate:"gte=0,lte=100"`
	Zone2Percent  float64 `json:"zone2_percent" validate:"gte=0,lte=100"`
	Zone3Percent  float64 `json:"zone3_percent" validate:"gte=0,lte=100"`
	Zone4Percent  float64 `json:"zone4_percent" validate:"gte=0,lte=100"`
	Zone5Percent  float64 `json:"zone5_percent" validate:"gte=0,lte=100"`
	QuestionnaireCompleted bool `json:"questionnaire_completed"`
}

// Upsert stores one participant-day record, replacing any existing record
// for that day. The participant must exist and hold the participant role.
func (s *MetricService) Upsert(ctx context.Context, req MetricUpsertRequest) error {
	if err := s.validator.Validate(req); err != nil {
		return err
	}

	date, err := domain.ParseDate(req.Date)
	if err != nil {
		return err
	}

	user, err := s.store.GetUser(ctx, req.ParticipantID)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return domainerrors.SubjectNotFoundf("participant %q does not exist", req.ParticipantID)
		}
		return fmt.Errorf("lookup participant: %w", err)
	}
	if user.Role != domain.RoleParticipant {
		return domainerrors.Validationf("user %q is not a participant", req.ParticipantID)
	}

	metric := &domain.DailyMetric{
		ParticipantID: req.ParticipantID,
		Date:          date,
		RestingHR:     req.RestingHR,
		MaxHR:         req.MaxHR,
		SleepHours:    req.SleepHours,
		HRVRest:       req.HRVRest,
		Zone1Percent:  req.Zone1Percent,
		Zone2Percent:  req.Zone2Percent,
		Zone3Percent:  req.Zone3Percent,
		Zone4Percent:  req.Zone4Percent,
		Zone5Percent:  req.Zone5Percent,
		QuestionnaireCompleted: req.QuestionnaireCompleted,
	}
	if err := s.store.UpsertMetric(ctx, metric); err != nil {
		return fmt.Errorf("upsert metric: %w", err)
	}
	return nil
}
