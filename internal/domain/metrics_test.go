package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	records := []DailyMetric{
		{Date: Day(2025, time.May, 1), RestingHR: 60, MaxHR: 180, SleepHours: 8, HRVRest: 50, Zone1Percent: 40, Zone2Percent: 30, Zone3Percent: 20, Zone4Percent: 8, Zone5Percent: 2, QuestionnaireCompleted: true},
		{Date: Day(2025, time.May, 2), RestingHR: 64, MaxHR: 170, SleepHours: 6, HRVRest: 40, Zone1Percent: 60, Zone2Percent: 20, Zone3Percent: 10, Zone4Percent: 6, Zone5Percent: 4},
	}

	s := Summarize(records)

	assert.Equal(t, 2, s.Days)
	assert.Equal(t, 1, s.QuestionnaireDays)
	assert.InDelta(t, 62, s.AvgRestingHR, 0.001)
	assert.InDelta(t, 175, s.AvgMaxHR, 0.001)
	assert.InDelta(t, 7, s.AvgSleepHours, 0.001)
	assert.InDelta(t, 45, s.AvgHRVRest, 0.001)
	assert.InDelta(t, 50, s.AvgZone1, 0.001)
	assert.InDelta(t, 3, s.AvgZone5, 0.001)
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)

	assert.Equal(t, 0, s.Days)
	assert.Zero(t, s.AvgRestingHR)
}
