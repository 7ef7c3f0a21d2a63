package domain

import "time"

// DailyMetric is one participant's health record for a single day.
// Zone percents describe time spent in each heart-rate zone and sum to
// roughly 100 when the day has wearable data.
type DailyMetric struct {
	ParticipantID string    `json:"participant_id"`
	Date          time.Time `json:"date"`
	RestingHR     float64   `json:"resting_hr"`
	MaxHR         float64   `json:"max_hr"`
	SleepHours    float64   `json:"sleep_hours"`
	HRVRest       float64   `json:"hrv_rest"`
	Zone1Percent  float64   `json:"zone1_percent"`
	Zone2Percent  float64   `json:"zone2_percent"`
	Zone3Percent  float64   `json:"zone3_percent"`
	Zone4Percent  float64   `json:"zone4_percent"`
	Zone5Percent  float64   `json:"zone5_percent"`
	// QuestionnaireCompleted marks whether the participant filled in the
	// daily self-report questionnaire for this day.
	QuestionnaireCompleted bool `json:"questionnaire_completed"`
}

// MetricSummary aggregates daily records into per-metric averages.
type MetricSummary struct {
	Days          int     `json:"days"`               // days with data in the window
	QuestionnaireDays int  `json:"questionnaire_days"` // days with a completed questionnaire
	AvgRestingHR  float64 `json:"avg_resting_hr"`
	AvgMaxHR      float64 `json:"avg_max_hr"`
	AvgSleepHours float64 `json:"avg_sleep_hours"`
	AvgHRVRest    float64 `json:"avg_hrv_rest"`
	AvgZone1      float64 `json:"avg_zone1"`
	AvgZone2      float64 `json:"avg_zone2"`
	AvgZone3      float64 `json:"avg_zone3"`
	AvgZone4      float64 `json:"avg_zone4"`
	AvgZone5      float64 `json:"avg_zone5"`
}

// Summarize averages a set of daily records. An empty input yields a
// zero summary with Days = 0, which consumers render as "no data".
func Summarize(records []DailyMetric) MetricSummary {
	if len(records) == 0 {
		return MetricSummary{}
	}

	var s MetricSummary
	for _, r := range records {
		if r.QuestionnaireCompleted {
			s.QuestionnaireDays++
		}
		s.AvgRestingHR += r.RestingHR
		s.AvgMaxHR += r.MaxHR
		s.AvgSleepHours += r.SleepHours
		s.AvgHRVRest += r.HRVRest
		s.AvgZone1 += r.Zone1Percent
		s.AvgZone2 += r.Zone2Percent
		s.AvgZone3 += r.Zone3Percent
		s.AvgZone4 += r.Zone4Percent
		s.AvgZone5 += r.Zone5Percent
	}

	n := float64(len(records))
	s.Days = len(records)
	s.AvgRestingHR /= n
	s.AvgMaxHR /= n
	s.AvgSleepHours /= n
	s.AvgHRVRest /= n
	s.AvgZone1 /= n
	s.AvgZone2 /= n
	s.AvgZone3 /= n
	s.AvgZone4 /= n
	s.AvgZone5 /= n
	return s
}

// ParticipantSummary is one row of a group summary table.
type ParticipantSummary struct {
	ParticipantID string        `json:"participant_id"`
	DisplayName   string        `json:"display_name"`
	Summary       MetricSummary `json:"summary"`
}
