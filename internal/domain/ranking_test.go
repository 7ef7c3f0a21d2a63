package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalboard/vitalboard-server/internal/errors"
)

func TestRank_CompetitionTies(t *testing.T) {
	// Two participants tied at 5 share first place, the next value lands
	// third, not second.
	entries := []RankingEntry{
		{ParticipantID: "p1", MetricValue: 5},
		{ParticipantID: "p2", MetricValue: 5},
		{ParticipantID: "p3", MetricValue: 3},
	}

	r1, err := Rank(entries, "p1")
	require.NoError(t, err)
	r2, err := Rank(entries, "p2")
	require.NoError(t, err)
	r3, err := Rank(entries, "p3")
	require.NoError(t, err)

	assert.Equal(t, RankResult{Position: 1, Total: 3}, r1)
	assert.Equal(t, RankResult{Position: 1, Total: 3}, r2)
	assert.Equal(t, RankResult{Position: 3, Total: 3}, r3)
}

func TestRank_OrderIndependent(t *testing.T) {
	entries := []RankingEntry{
		{ParticipantID: "a", MetricValue: 1},
		{ParticipantID: "b", MetricValue: 9},
		{ParticipantID: "c", MetricValue: 4},
	}
	reversed := []RankingEntry{entries[2], entries[1], entries[0]}

	for _, id := range []string{"a", "b", "c"} {
		forward, err := Rank(entries, id)
		require.NoError(t, err)
		backward, err := Rank(reversed, id)
		require.NoError(t, err)
		assert.Equal(t, forward, backward, "subject %s", id)
	}
}

func TestRank_SingleEntry(t *testing.T) {
	r, err := Rank([]RankingEntry{{ParticipantID: "only", MetricValue: 0}}, "only")
	require.NoError(t, err)
	assert.Equal(t, RankResult{Position: 1, Total: 1}, r)
}

func TestRank_SubjectMissing(t *testing.T) {
	entries := []RankingEntry{{ParticipantID: "p1", MetricValue: 5}}

	_, err := Rank(entries, "ghost")

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrSubjectNotFound))
}

func TestRank_EqualValuesAlwaysEqualPositions(t *testing.T) {
	entries := []RankingEntry{
		{ParticipantID: "p1", MetricValue: 7},
		{ParticipantID: "p2", MetricValue: 2},
		{ParticipantID: "p3", MetricValue: 7},
		{ParticipantID: "p4", MetricValue: 2},
		{ParticipantID: "p5", MetricValue: 9},
	}

	positions := map[float64][]int{}
	for _, e := range entries {
		r, err := Rank(entries, e.ParticipantID)
		require.NoError(t, err)
		positions[e.MetricValue] = append(positions[e.MetricValue], r.Position)
	}

	for value, ps := range positions {
		for _, p := range ps {
			assert.Equal(t, ps[0], p, "value %v got mixed positions %v", value, ps)
		}
	}
}

func TestRankOverTime_WeeklyBuckets(t *testing.T) {
	// Two ISO weeks: p1 leads week one, p2 takes over in week two but p1
	// still leads cumulatively.
	points := []MetricPoint{
		{ParticipantID: "p1", Date: Day(2025, time.May, 5), Value: 3},  // Mon, W19
		{ParticipantID: "p2", Date: Day(2025, time.May, 6), Value: 1},  // Tue, W19
		{ParticipantID: "p1", Date: Day(2025, time.May, 12), Value: 1}, // Mon, W20
		{ParticipantID: "p2", Date: Day(2025, time.May, 13), Value: 2}, // Tue, W20
	}

	out, err := RankOverTime(points, nil, "p1", BucketWeek)
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, "2025-W19", out[0].Bucket)
	assert.Equal(t, 1, out[0].Position)
	assert.Equal(t, 2, out[0].Total)
	assert.Equal(t, 3.0, out[0].Value)
	assert.Equal(t, 1, out[0].CumulativePosition)

	assert.Equal(t, "2025-W20", out[1].Bucket)
	assert.Equal(t, 2, out[1].Position, "p2 wins the second week")
	assert.Equal(t, 4.0, out[1].CumulativeValue)
	assert.Equal(t, 1, out[1].CumulativePosition, "p1 still leads on running total")
}

func TestRankOverTime_AbsentBucketContributesZero(t *testing.T) {
	// p2 has no data in week two; they still appear in that bucket's
	// universe with 0, ranked below p1.
	points := []MetricPoint{
		{ParticipantID: "p1", Date: Day(2025, time.May, 5), Value: 1},
		{ParticipantID: "p2", Date: Day(2025, time.May, 6), Value: 5},
		{ParticipantID: "p1", Date: Day(2025, time.May, 12), Value: 2},
	}

	out, err := RankOverTime(points, nil, "p1", BucketWeek)
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, 2, out[0].Position)
	assert.Equal(t, 1, out[1].Position)
	assert.Equal(t, 2, out[1].Total)
}

func TestRankOverTime_NoGapFilling(t *testing.T) {
	// Data in W19 and W22 only: exactly two buckets, nothing synthesized
	// for the silent weeks in between.
	points := []MetricPoint{
		{ParticipantID: "p1", Date: Day(2025, time.May, 5), Value: 1},
		{ParticipantID: "p1", Date: Day(2025, time.May, 26), Value: 1},
	}

	out, err := RankOverTime(points, nil, "p1", BucketWeek)
	require.NoError(t, err)

	require.Len(t, out, 2)
	assert.Equal(t, "2025-W19", out[0].Bucket)
	assert.Equal(t, "2025-W22", out[1].Bucket)
}

func TestRankOverTime_MonthlyBuckets(t *testing.T) {
	points := []MetricPoint{
		{ParticipantID: "p1", Date: Day(2025, time.April, 28), Value: 2},
		{ParticipantID: "p1", Date: Day(2025, time.May, 2), Value: 1},
		{ParticipantID: "p2", Date: Day(2025, time.May, 3), Value: 4},
	}

	out, err := RankOverTime(points, nil, "p1", BucketMonth)
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, "2025-04", out[0].Bucket)
	assert.True(t, out[0].BucketStart.Equal(Day(2025, time.April, 1)))
	assert.Equal(t, "2025-05", out[1].Bucket)
	assert.Equal(t, 2, out[1].Position, "p2 outscores p1 in May")
}

func TestRankOverTime_ChronologicalOrder(t *testing.T) {
	// Input arrives shuffled; output buckets must still be chronological.
	points := []MetricPoint{
		{ParticipantID: "p1", Date: Day(2025, time.June, 2), Value: 1},
		{ParticipantID: "p1", Date: Day(2025, time.April, 7), Value: 1},
		{ParticipantID: "p1", Date: Day(2025, time.May, 5), Value: 1},
	}

	out, err := RankOverTime(points, nil, "p1", BucketWeek)
	require.NoError(t, err)
	require.Len(t, out, 3)

	for i := 1; i < len(out); i++ {
		assert.True(t, out[i-1].BucketStart.Before(out[i].BucketStart))
	}
}

func TestRankOverTime_UniverseIncludesZeroDataSubject(t *testing.T) {
	// p2 never logged anything. Seeded through the universe they still
	// rank last in every bucket with value 0, mirroring how Rank treats a
	// zero-count entry, instead of erroring out of the series.
	points := []MetricPoint{
		{ParticipantID: "p1", Date: Day(2025, time.May, 5), Value: 3},
		{ParticipantID: "p1", Date: Day(2025, time.May, 12), Value: 1},
	}

	out, err := RankOverTime(points, []string{"p1", "p2"}, "p2", BucketWeek)
	require.NoError(t, err)
	require.Len(t, out, 2)

	for _, p := range out {
		assert.Equal(t, 2, p.Position)
		assert.Equal(t, 2, p.Total)
		assert.Equal(t, 0.0, p.Value)
	}
	assert.Equal(t, 2, out[1].CumulativePosition)
	assert.Equal(t, 0.0, out[1].CumulativeValue)
}

func TestRankOverTime_SubjectMissing(t *testing.T) {
	points := []MetricPoint{{ParticipantID: "p1", Date: Day(2025, time.May, 5), Value: 1}}

	_, err := RankOverTime(points, nil, "ghost", BucketWeek)

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrSubjectNotFound))
}

func TestRankOverTime_InvalidInterval(t *testing.T) {
	points := []MetricPoint{{ParticipantID: "p1", Date: Day(2025, time.May, 5), Value: 1}}

	_, err := RankOverTime(points, nil, "p1", "fortnight")

	assert.Error(t, err)
}
