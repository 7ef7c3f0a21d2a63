package domain

import (
	"fmt"
	"sort"
	"time"

	"github.com/vitalboard/vitalboard-server/internal/errors"
)

// RankingEntry is one participant's scalar for a ranking pass. Entries
// are transient; they exist only to compute a rank.
type RankingEntry struct {
	ParticipantID string  `json:"participant_id"`
	DisplayName   string  `json:"display_name"`
	MetricValue   float64 `json:"metric_value"`
}

// RankResult is a competition-ranking position within a group.
type RankResult struct {
	Position int `json:"position"`
	Total    int `json:"total"`
}

// Rank computes the subject's competition rank: one plus the count of
// entries with a strictly greater metric value. Equal values share the
// same position; ties are never broken by id or name, so the result is
// deterministic under reordering. The subject must be present in the
// entries, otherwise a subject-not-found error is returned.
func Rank(entries []RankingEntry, subjectID string) (RankResult, error) {
	var subject *RankingEntry
	for i := range entries {
		if entries[i].ParticipantID == subjectID {
			subject = &entries[i]
			break
		}
	}
	if subject == nil {
		return RankResult{}, errors.SubjectNotFoundf("participant %q is not in the ranking entries", subjectID)
	}

	position := 1
	for i := range entries {
		if entries[i].ParticipantID == subjectID {
			continue
		}
		if entries[i].MetricValue > subject.MetricValue {
			position++
		}
	}

	return RankResult{Position: position, Total: len(entries)}, nil
}

// BucketInterval is the calendar interval for rank-over-time buckets.
type BucketInterval string

// Bucket intervals.
const (
	BucketWeek  BucketInterval = "week"
	BucketMonth BucketInterval = "month"
)

// Valid returns true if the interval is a recognized value.
func (b BucketInterval) Valid() bool {
	return b == BucketWeek || b == BucketMonth
}

// MetricPoint is one participant-day scalar feeding the time-bucketed
// ranking.
type MetricPoint struct {
	ParticipantID string
	Date          time.Time
	Value         float64
}

// RankPoint is the subject's standing within one calendar bucket.
type RankPoint struct {
	Bucket      string    `json:"bucket"` // e.g. "2025-W18" or "2025-05"
	BucketStart time.Time `json:"bucket_start"`
	Position    int       `json:"position"`
	Total       int       `json:"total"`
	Value       float64   `json:"value"`
	// Cumulative fields rank the running totals up to and including this
	// bucket.
	CumulativePosition int     `json:"cumulative_position"`
	CumulativeValue    float64 `json:"cumulative_value"`
}

// RankOverTime applies Rank independently per calendar bucket (ISO week
// or month), chronologically, and additionally ranks each participant's
// cumulative running total. Buckets with no data at all are omitted; no
// gap-filling. Every bucket's ranking universe spans the given universe
// ids plus every participant seen anywhere in the series; a participant
// absent from a bucket contributes 0 to it. The subject must be in the
// universe or the series, otherwise a subject-not-found error is
// returned.
func RankOverTime(points []MetricPoint, universe []string, subjectID string, interval BucketInterval) ([]RankPoint, error) {
	if !interval.Valid() {
		return nil, errors.Validationf("invalid bucket interval %q", interval)
	}

	participants := make(map[string]bool, len(universe))
	for _, id := range universe {
		participants[id] = true
	}
	type bucket struct {
		label  string
		start  time.Time
		values map[string]float64
	}
	buckets := make(map[string]*bucket)

	for _, p := range points {
		participants[p.ParticipantID] = true

		label, start := bucketOf(p.Date, interval)
		b, ok := buckets[label]
		if !ok {
			b = &bucket{label: label, start: start, values: make(map[string]float64)}
			buckets[label] = b
		}
		b.values[p.ParticipantID] += p.Value
	}

	if !participants[subjectID] {
		return nil, errors.SubjectNotFoundf("participant %q is not in the ranking universe", subjectID)
	}

	ordered := make([]*bucket, 0, len(buckets))
	for _, b := range buckets {
		ordered = append(ordered, b)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].start.Before(ordered[j].start)
	})

	cumulative := make(map[string]float64, len(participants))
	out := make([]RankPoint, 0, len(ordered))

	for _, b := range ordered {
		entries := make([]RankingEntry, 0, len(participants))
		cumEntries := make([]RankingEntry, 0, len(participants))
		for pid := range participants {
			cumulative[pid] += b.values[pid]
			entries = append(entries, RankingEntry{ParticipantID: pid, MetricValue: b.values[pid]})
			cumEntries = append(cumEntries, RankingEntry{ParticipantID: pid, MetricValue: cumulative[pid]})
		}

		result, err := Rank(entries, subjectID)
		if err != nil {
			return nil, err
		}
		cumResult, err := Rank(cumEntries, subjectID)
		if err != nil {
			return nil, err
		}

		out = append(out, RankPoint{
			Bucket:             b.label,
			BucketStart:        b.start,
			Position:           result.Position,
			Total:              result.Total,
			Value:              b.values[subjectID],
			CumulativePosition: cumResult.Position,
			CumulativeValue:    cumulative[subjectID],
		})
	}

	return out, nil
}

// bucketOf maps a date to its bucket label and start day.
func bucketOf(date time.Time, interval BucketInterval) (string, time.Time) {
	if interval == BucketMonth {
		start := firstOfMonth(date)
		return date.Format("2006-01"), start
	}

	// ISO week: Monday start.
	year, week := date.ISOWeek()
	weekday := int(date.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday
	}
	start := normalizeDay(date).AddDate(0, 0, -(weekday - 1))
	return fmt.Sprintf("%04d-W%02d", year, week), start
}
