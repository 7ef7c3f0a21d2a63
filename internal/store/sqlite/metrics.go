package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/vitalboard/vitalboard-server/internal/domain"
)

const metricColumns = `participant_id, day, resting_hr, max_hr, sleep_hours,
	hrv_rest, zone1_percent, zone2_percent, zone3_percent, zone4_percent, zone5_percent,
	questionnaire_completed`

func scanMetric(scanner interface{ Scan(dest ...any) error }) (domain.DailyMetric, error) {
	var m domain.DailyMetric
	var day string

	err := scanner.Scan(
		&m.ParticipantID,
		&day,
		&m.RestingHR,
		&m.MaxHR,
		&m.SleepHours,
		&m.HRVRest,
		&m.Zone1Percent,
		&m.Zone2Percent,
		&m.Zone3Percent,
		&m.Zone4Percent,
		&m.Zone5Percent,
		&m.QuestionnaireCompleted,
	)
	if err != nil {
		return m, err
	}

	m.Date, err = domain.ParseDate(day)
	return m, err
}

// UpsertMetric inserts or replaces one participant-day record.
func (s *Store) UpsertMetric(ctx context.Context, metric *domain.DailyMetric) error {
	now := formatTime(time.Now())
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO health_metrics (
			participant_id, day, resting_hr, max_hr, sleep_hours, hrv_rest,
			zone1_percent, zone2_percent, zone3_percent, zone4_percent, zone5_percent,
			questionnaire_completed, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(participant_id, day) DO UPDATE SET
			resting_hr = excluded.resting_hr,
			max_hr = excluded.max_hr,
			sleep_hours = excluded.sleep_hours,
			hrv_rest = excluded.hrv_rest,
			zone1_percent = excluded.zone1_percent,
			zone2_percent = excluded.zone2_percent,
			zone3_percent = excluded.zone3_percent,
			zone4_percent = excluded.zone4_percent,
			zone5_percent = excluded.zone5_percent,
			questionnaire_completed = excluded.questionnaire_completed,
			updated_at = excluded.updated_at`,
		metric.ParticipantID,
		domain.FormatDate(metric.Date),
		metric.RestingHR,
		metric.MaxHR,
		metric.SleepHours,
		metric.HRVRest,
		metric.Zone1Percent,
		metric.Zone2Percent,
		metric.Zone3Percent,
		metric.Zone4Percent,
		metric.Zone5Percent,
		metric.QuestionnaireCompleted,
		now,
		now,
	)
	return err
}

func (s *Store) queryMetrics(ctx context.Context, query string, args ...any) ([]domain.DailyMetric, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	metrics := []domain.DailyMetric{}
	for rows.Next() {
		m, err := scanMetric(rows)
		if err != nil {
			return nil, err
		}
		metrics = append(metrics, m)
	}
	return metrics, rows.Err()
}

// QueryParticipantMetrics returns one participant's records in the
// inclusive day range, oldest first.
func (s *Store) QueryParticipantMetrics(ctx context.Context, participantID string, start, end time.Time) ([]domain.DailyMetric, error) {
	return s.queryMetrics(ctx, `
		SELECT `+metricColumns+` FROM health_metrics
		WHERE participant_id = ? AND day >= ? AND day <= ?
		ORDER BY day`,
		participantID, domain.FormatDate(start), domain.FormatDate(end))
}

// QueryGroupMetrics returns all records of a group's participants in the
// inclusive day range.
func (s *Store) QueryGroupMetrics(ctx context.Context, groupID string, start, end time.Time) ([]domain.DailyMetric, error) {
	return s.queryMetrics(ctx, `
		SELECT m.participant_id, m.day, m.resting_hr, m.max_hr, m.sleep_hours,
			m.hrv_rest, m.zone1_percent, m.zone2_percent, m.zone3_percent,
			m.zone4_percent, m.zone5_percent, m.questionnaire_completed
		FROM health_metrics m
		JOIN users u ON u.id = m.participant_id
		WHERE u.group_id = ? AND m.day >= ? AND m.day <= ?
		ORDER BY m.day, m.participant_id`,
		groupID, domain.FormatDate(start), domain.FormatDate(end))
}

// QueryAllMetrics returns every record in the inclusive day range.
func (s *Store) QueryAllMetrics(ctx context.Context, start, end time.Time) ([]domain.DailyMetric, error) {
	return s.queryMetrics(ctx, `
		SELECT `+metricColumns+` FROM health_metrics
		WHERE day >= ? AND day <= ?
		ORDER BY day, participant_id`,
		domain.FormatDate(start), domain.FormatDate(end))
}

// LatestDataDate returns the most recent day with data for a participant.
// MAX over no rows yields NULL, which maps to ok = false.
func (s *Store) LatestDataDate(ctx context.Context, participantID string) (time.Time, bool, error) {
	var day sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT MAX(day) FROM health_metrics WHERE participant_id = ?`,
		participantID).Scan(&day)
	if err != nil {
		return time.Time{}, false, err
	}
	if !day.Valid || day.String == "" {
		return time.Time{}, false, nil
	}
	date, err := domain.ParseDate(day.String)
	if err != nil {
		return time.Time{}, false, err
	}
	return date, true, nil
}

// DaysWithData returns one entry per group participant with the count of
// days in the inclusive range that have a metric record. Participants
// with no data appear with a zero value.
func (s *Store) DaysWithData(ctx context.Context, groupID string, start, end time.Time) ([]domain.RankingEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT u.id, u.display_name, COUNT(m.day)
		FROM users u
		LEFT JOIN health_metrics m
			ON m.participant_id = u.id AND m.day >= ? AND m.day <= ?
		WHERE u.group_id = ? AND u.role = ? AND u.status = ?
		GROUP BY u.id, u.display_name
		ORDER BY u.display_name, u.id`,
		domain.FormatDate(start), domain.FormatDate(end),
		groupID, string(domain.RoleParticipant), string(domain.UserStatusActive))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []domain.RankingEntry{}
	for rows.Next() {
		var e domain.RankingEntry
		var count int
		if err := rows.Scan(&e.ParticipantID, &e.DisplayName, &count); err != nil {
			return nil, err
		}
		e.MetricValue = float64(count)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// QuestionnaireCompletion returns one entry per group participant with
// the count of days in the inclusive range whose daily questionnaire was
// completed. Participants without completions appear with a zero value.
func (s *Store) QuestionnaireCompletion(ctx context.Context, groupID string, start, end time.Time) ([]domain.RankingEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT u.id, u.display_name, COALESCE(SUM(m.questionnaire_completed), 0)
		FROM users u
		LEFT JOIN health_metrics m
			ON m.participant_id = u.id AND m.day >= ? AND m.day <= ?
		WHERE u.group_id = ? AND u.role = ? AND u.status = ?
		GROUP BY u.id, u.display_name
		ORDER BY u.display_name, u.id`,
		domain.FormatDate(start), domain.FormatDate(end),
		groupID, string(domain.RoleParticipant), string(domain.UserStatusActive))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []domain.RankingEntry{}
	for rows.Next() {
		var e domain.RankingEntry
		var count int
		if err := rows.Scan(&e.ParticipantID, &e.DisplayName, &count); err != nil {
			return nil, err
		}
		e.MetricValue = float64(count)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// DailyMetricPoints returns one point per participant-day with data,
// value 1, feeding the time-bucketed ranking.
func (s *Store) DailyMetricPoints(ctx context.Context, groupID string, start, end time.Time) ([]domain.MetricPoint, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT m.participant_id, m.day
		FROM health_metrics m
		JOIN users u ON u.id = m.participant_id
		WHERE u.group_id = ? AND m.day >= ? AND m.day <= ?
		ORDER BY m.day, m.participant_id`,
		groupID, domain.FormatDate(start), domain.FormatDate(end))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	points := []domain.MetricPoint{}
	for rows.Next() {
		var p domain.MetricPoint
		var day string
		if err := rows.Scan(&p.ParticipantID, &day); err != nil {
			return nil, err
		}
		if p.Date, err = domain.ParseDate(day); err != nil {
			return nil, err
		}
		p.Value = 1
		points = append(points, p)
	}
	return points, rows.Err()
}

// QuestionnaireDailyPoints returns one point per participant-day with a
// completed questionnaire, value 1, feeding the time-bucketed completion
// ranking.
func (s *Store) QuestionnaireDailyPoints(ctx context.Context, groupID string, start, end time.Time) ([]domain.MetricPoint, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT m.participant_id, m.day
		FROM health_metrics m
		JOIN users u ON u.id = m.participant_id
		WHERE u.group_id = ? AND m.day >= ? AND m.day <= ?
			AND m.questionnaire_completed = 1
		ORDER BY m.day, m.participant_id`,
		groupID, domain.FormatDate(start), domain.FormatDate(end))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	points := []domain.MetricPoint{}
	for rows.Next() {
		var p domain.MetricPoint
		var day string
		if err := rows.Scan(&p.ParticipantID, &day); err != nil {
			return nil, err
		}
		if p.Date, err = domain.ParseDate(day); err != nil {
			return nil, err
		}
		p.Value = 1
		points = append(points, p)
	}
	return points, rows.Err()
}
