package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/vitalboard/vitalboard-server/internal/domain"
)

func seedMetric(t *testing.T, s *Store, participantID string, day time.Time, restingHR float64) {
	t.Helper()
	m := &domain.DailyMetric{
		ParticipantID: participantID,
		Date:          day,
		RestingHR:     restingHR,
		MaxHR:         180,
		SleepHours:    7.5,
		HRVRest:       55,
		Zone1Percent:  50,
		Zone2Percent:  25,
		Zone3Percent:  15,
		Zone4Percent:  7,
		Zone5Percent:  3,
	}
	if err := s.UpsertMetric(context.Background(), m); err != nil {
		t.Fatalf("UpsertMetric(%s, %s): %v", participantID, domain.FormatDate(day), err)
	}
}

func seedQuestionnaire(t *testing.T, s *Store, participantID string, day time.Time) {
	t.Helper()
	m := &domain.DailyMetric{
		ParticipantID:          participantID,
		Date:                   day,
		RestingHR:              60,
		QuestionnaireCompleted: true,
	}
	if err := s.UpsertMetric(context.Background(), m); err != nil {
		t.Fatalf("UpsertMetric(%s, %s): %v", participantID, domain.FormatDate(day), err)
	}
}

func metricsFixture(t *testing.T) *Store {
	t.Helper()
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateGroup(ctx, makeTestGroup("grp-1", "Alpha")); err != nil {
		t.Fatalf("CreateGroup: %v", err)
	}
	if err := s.CreateGroup(ctx, makeTestGroup("grp-2", "Bravo")); err != nil {
		t.Fatalf("CreateGroup: %v", err)
	}
	seedParticipant(t, s, "grp-1", "usr-1", "Alice")
	seedParticipant(t, s, "grp-1", "usr-2", "Bob")
	seedParticipant(t, s, "grp-2", "usr-3", "Eve")
	return s
}

func TestUpsertMetric_ReplacesExistingDay(t *testing.T) {
	s := metricsFixture(t)
	ctx := context.Background()
	day := domain.Day(2025, time.May, 1)

	seedMetric(t, s, "usr-1", day, 60)
	seedMetric(t, s, "usr-1", day, 62)

	records, err := s.QueryParticipantMetrics(ctx, "usr-1", day, day)
	if err != nil {
		t.Fatalf("QueryParticipantMetrics: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record after upsert, got %d", len(records))
	}
	if records[0].RestingHR != 62 {
		t.Errorf("RestingHR: got %v, want 62", records[0].RestingHR)
	}
}

func TestQueryParticipantMetrics_RangeIsInclusive(t *testing.T) {
	s := metricsFixture(t)
	ctx := context.Background()

	for d := 1; d <= 5; d++ {
		seedMetric(t, s, "usr-1", domain.Day(2025, time.May, d), 60)
	}

	records, err := s.QueryParticipantMetrics(ctx, "usr-1",
		domain.Day(2025, time.May, 2), domain.Day(2025, time.May, 4))
	if err != nil {
		t.Fatalf("QueryParticipantMetrics: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	if !records[0].Date.Equal(domain.Day(2025, time.May, 2)) {
		t.Errorf("first record: %v", records[0].Date)
	}
	if !records[2].Date.Equal(domain.Day(2025, time.May, 4)) {
		t.Errorf("last record: %v", records[2].Date)
	}
}

func TestQueryGroupMetrics_FiltersByGroup(t *testing.T) {
	s := metricsFixture(t)
	ctx := context.Background()
	day := domain.Day(2025, time.May, 1)

	seedMetric(t, s, "usr-1", day, 60)
	seedMetric(t, s, "usr-2", day, 65)
	seedMetric(t, s, "usr-3", day, 70) // other group

	records, err := s.QueryGroupMetrics(ctx, "grp-1", day, day)
	if err != nil {
		t.Fatalf("QueryGroupMetrics: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	for _, r := range records {
		if r.ParticipantID == "usr-3" {
			t.Error("grp-2 participant leaked into grp-1 query")
		}
	}
}

func TestQueryAllMetrics(t *testing.T) {
	s := metricsFixture(t)
	ctx := context.Background()
	day := domain.Day(2025, time.May, 1)

	seedMetric(t, s, "usr-1", day, 60)
	seedMetric(t, s, "usr-3", day, 70)

	records, err := s.QueryAllMetrics(ctx, day, day)
	if err != nil {
		t.Fatalf("QueryAllMetrics: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
}

func TestLatestDataDate(t *testing.T) {
	s := metricsFixture(t)
	ctx := context.Background()

	_, ok, err := s.LatestDataDate(ctx, "usr-1")
	if err != nil {
		t.Fatalf("LatestDataDate: %v", err)
	}
	if ok {
		t.Fatal("expected no data for fresh participant")
	}

	seedMetric(t, s, "usr-1", domain.Day(2025, time.May, 3), 60)
	seedMetric(t, s, "usr-1", domain.Day(2025, time.May, 1), 60)

	date, ok, err := s.LatestDataDate(ctx, "usr-1")
	if err != nil {
		t.Fatalf("LatestDataDate: %v", err)
	}
	if !ok {
		t.Fatal("expected data")
	}
	if !date.Equal(domain.Day(2025, time.May, 3)) {
		t.Errorf("latest date: got %v", date)
	}
}

func TestDaysWithData_IncludesZeroCountParticipants(t *testing.T) {
	s := metricsFixture(t)
	ctx := context.Background()

	seedMetric(t, s, "usr-1", domain.Day(2025, time.May, 1), 60)
	seedMetric(t, s, "usr-1", domain.Day(2025, time.May, 2), 60)
	// usr-2 has no data at all.

	entries, err := s.DaysWithData(ctx, "grp-1",
		domain.Day(2025, time.May, 1), domain.Day(2025, time.May, 7))
	if err != nil {
		t.Fatalf("DaysWithData: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	byID := map[string]float64{}
	for _, e := range entries {
		byID[e.ParticipantID] = e.MetricValue
	}
	if byID["usr-1"] != 2 {
		t.Errorf("usr-1: got %v days, want 2", byID["usr-1"])
	}
	if v, present := byID["usr-2"]; !present || v != 0 {
		t.Errorf("usr-2: got %v (present=%v), want 0 with presence", v, present)
	}
}

func TestDaysWithData_RangeBounded(t *testing.T) {
	s := metricsFixture(t)
	ctx := context.Background()

	seedMetric(t, s, "usr-1", domain.Day(2025, time.April, 30), 60) // outside
	seedMetric(t, s, "usr-1", domain.Day(2025, time.May, 1), 60)    // inside

	entries, err := s.DaysWithData(ctx, "grp-1",
		domain.Day(2025, time.May, 1), domain.Day(2025, time.May, 7))
	if err != nil {
		t.Fatalf("DaysWithData: %v", err)
	}

	for _, e := range entries {
		if e.ParticipantID == "usr-1" && e.MetricValue != 1 {
			t.Errorf("usr-1: got %v days, want 1", e.MetricValue)
		}
	}
}

func TestQuestionnaireCompletion_CountsCompletedDaysOnly(t *testing.T) {
	s := metricsFixture(t)
	ctx := context.Background()

	seedQuestionnaire(t, s, "usr-1", domain.Day(2025, time.May, 1))
	seedQuestionnaire(t, s, "usr-1", domain.Day(2025, time.May, 2))
	seedMetric(t, s, "usr-1", domain.Day(2025, time.May, 3), 60) // data, no questionnaire
	// usr-2 has nothing at all.

	entries, err := s.QuestionnaireCompletion(ctx, "grp-1",
		domain.Day(2025, time.May, 1), domain.Day(2025, time.May, 7))
	if err != nil {
		t.Fatalf("QuestionnaireCompletion: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	byID := map[string]float64{}
	for _, e := range entries {
		byID[e.ParticipantID] = e.MetricValue
	}
	if byID["usr-1"] != 2 {
		t.Errorf("usr-1: got %v completed days, want 2", byID["usr-1"])
	}
	if v, present := byID["usr-2"]; !present || v != 0 {
		t.Errorf("usr-2: got %v (present=%v), want 0 with presence", v, present)
	}

	records, err := s.QueryParticipantMetrics(ctx, "usr-1",
		domain.Day(2025, time.May, 1), domain.Day(2025, time.May, 1))
	if err != nil {
		t.Fatalf("QueryParticipantMetrics: %v", err)
	}
	if len(records) != 1 || !records[0].QuestionnaireCompleted {
		t.Errorf("expected the completion flag to round-trip, got %+v", records)
	}
}

func TestQuestionnaireDailyPoints(t *testing.T) {
	s := metricsFixture(t)
	ctx := context.Background()

	seedQuestionnaire(t, s, "usr-1", domain.Day(2025, time.May, 1))
	seedMetric(t, s, "usr-2", domain.Day(2025, time.May, 2), 60)  // no questionnaire
	seedQuestionnaire(t, s, "usr-3", domain.Day(2025, time.May, 1)) // other group

	points, err := s.QuestionnaireDailyPoints(ctx, "grp-1",
		domain.Day(2025, time.May, 1), domain.Day(2025, time.May, 7))
	if err != nil {
		t.Fatalf("QuestionnaireDailyPoints: %v", err)
	}
	if len(points) != 1 {
		t.Fatalf("expected 1 point, got %d", len(points))
	}
	if points[0].ParticipantID != "usr-1" || points[0].Value != 1 {
		t.Errorf("unexpected point: %+v", points[0])
	}
}

func TestDailyMetricPoints(t *testing.T) {
	s := metricsFixture(t)
	ctx := context.Background()

	seedMetric(t, s, "usr-1", domain.Day(2025, time.May, 1), 60)
	seedMetric(t, s, "usr-2", domain.Day(2025, time.May, 2), 60)
	seedMetric(t, s, "usr-3", domain.Day(2025, time.May, 1), 60) // other group

	points, err := s.DailyMetricPoints(ctx, "grp-1",
		domain.Day(2025, time.May, 1), domain.Day(2025, time.May, 7))
	if err != nil {
		t.Fatalf("DailyMetricPoints: %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(points))
	}
	for _, p := range points {
		if p.Value != 1 {
			t.Errorf("point value: got %v, want 1", p.Value)
		}
	}
}
