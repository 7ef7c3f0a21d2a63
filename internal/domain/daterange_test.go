package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalboard/vitalboard-server/internal/errors"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{"valid date", "2025-05-01", Day(2025, time.May, 1), false},
		{"leap day", "2024-02-29", Day(2024, time.February, 29), false},
		{"not a date", "yesterday", time.Time{}, true},
		{"wrong order", "01-05-2025", time.Time{}, true},
		{"empty", "", time.Time{}, true},
		{"impossible day", "2025-02-30", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, errors.ErrDateParse))
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %v want %v", got, tt.want)
		})
	}
}

func TestLastN_WindowArithmetic(t *testing.T) {
	// Anchor 2025-05-01 with a 7-day window runs 2025-04-25 to 2025-05-01.
	anchor := Day(2025, time.May, 1)
	s := NewDateRange(anchor, 7)

	assert.Equal(t, RangeLastN, s.Mode)
	assert.True(t, s.Start.Equal(Day(2025, time.April, 25)), "start %v", s.Start)
	assert.True(t, s.End.Equal(anchor))
	assert.Equal(t, 7, s.Days())
}

func TestLastN_SpanIsAlwaysNMinusOneDays(t *testing.T) {
	anchors := []time.Time{
		Day(2025, time.January, 1),
		Day(2025, time.March, 1), // day after February
		Day(2024, time.March, 1), // leap year
		Day(2025, time.December, 31),
	}
	windows := []int{1, 7, 30, 90}

	for _, anchor := range anchors {
		for _, n := range windows {
			s, err := NewDateRange(anchor, 7).SetMode(RangeLastN, n)
			require.NoError(t, err)
			assert.Equal(t, n-1, int(s.End.Sub(s.Start).Hours()/24),
				"anchor %v n %d", anchor, n)
		}
	}
}

func TestThisMonth(t *testing.T) {
	s, err := NewDateRange(Day(2025, time.May, 15), 7).SetMode(RangeThisMonth, 0)
	require.NoError(t, err)

	assert.True(t, s.Start.Equal(Day(2025, time.May, 1)))
	assert.True(t, s.End.Equal(Day(2025, time.May, 15)), "end stops at the anchor, not month end")
}

func TestThisMonth_FirstOfMonthIsSingleDay(t *testing.T) {
	s, err := NewDateRange(Day(2025, time.June, 1), 7).SetMode(RangeThisMonth, 0)
	require.NoError(t, err)

	assert.True(t, s.SingleDay())
	assert.Equal(t, 1, s.Days())
}

func TestCustom_DefaultStartIsWeekBack(t *testing.T) {
	s, err := NewDateRange(Day(2025, time.May, 10), 7).SetMode(RangeCustom, 0)
	require.NoError(t, err)

	assert.True(t, s.Start.Equal(Day(2025, time.May, 4)))
	assert.True(t, s.End.Equal(Day(2025, time.May, 10)))
}

func TestCustom_StartSurvivesAnchorChange(t *testing.T) {
	// Set a custom start, then move the anchor; the start must hold.
	s, err := NewDateRange(Day(2025, time.April, 5), 7).SetMode(RangeCustom, 0)
	require.NoError(t, err)
	s, err = s.SetCustomStart(Day(2025, time.April, 1))
	require.NoError(t, err)

	s = s.SetAnchor(Day(2025, time.April, 10))

	assert.Equal(t, RangeCustom, s.Mode)
	assert.True(t, s.Start.Equal(Day(2025, time.April, 1)), "start %v", s.Start)
	assert.True(t, s.End.Equal(Day(2025, time.April, 10)))
}

func TestCustom_StartAfterEndCollapsesEnd(t *testing.T) {
	s, err := NewDateRange(Day(2025, time.May, 10), 7).SetMode(RangeCustom, 0)
	require.NoError(t, err)

	s, err = s.SetCustomStart(Day(2025, time.May, 20))
	require.NoError(t, err)

	assert.True(t, s.Start.Equal(Day(2025, time.May, 20)))
	assert.True(t, s.End.Equal(Day(2025, time.May, 20)))
	assert.True(t, s.SingleDay())
}

func TestCustom_AnchorBeforeStartCollapses(t *testing.T) {
	s, err := NewDateRange(Day(2025, time.May, 10), 7).SetMode(RangeCustom, 0)
	require.NoError(t, err)
	s, err = s.SetCustomStart(Day(2025, time.May, 8))
	require.NoError(t, err)

	s = s.SetAnchor(Day(2025, time.May, 5))

	assert.False(t, s.Start.After(s.End), "start %v end %v", s.Start, s.End)
}

func TestSetCustomStart_RejectedOutsideCustomMode(t *testing.T) {
	s := NewDateRange(Day(2025, time.May, 1), 7)

	_, err := s.SetCustomStart(Day(2025, time.April, 1))

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidSelection))
}

func TestSetAnchor_PreservesMode(t *testing.T) {
	for _, mode := range []RangeMode{RangeLastN, RangeThisMonth, RangeCustom} {
		s, err := NewDateRange(Day(2025, time.May, 1), 30).SetMode(mode, 30)
		require.NoError(t, err)

		moved := s.SetAnchor(Day(2025, time.July, 4))

		assert.Equal(t, mode, moved.Mode)
		assert.Equal(t, s.N, moved.N)
	}
}

func TestSetAnchor_LastNKeepsWindowLength(t *testing.T) {
	s := NewDateRange(Day(2025, time.May, 1), 30)

	moved := s.SetAnchor(Day(2025, time.May, 2))

	assert.Equal(t, 30, moved.Days())
	assert.True(t, moved.End.Equal(Day(2025, time.May, 2)))
}

func TestSetMode_RejectsBadInput(t *testing.T) {
	s := NewDateRange(Day(2025, time.May, 1), 7)

	_, err := s.SetMode("FOREVER", 0)
	assert.Error(t, err)

	_, err = s.SetMode(RangeLastN, 0)
	assert.Error(t, err)

	_, err = s.SetMode(RangeLastN, -7)
	assert.Error(t, err)
}

func TestTransitionsDoNotMutateReceiver(t *testing.T) {
	s := NewDateRange(Day(2025, time.May, 1), 7)
	before := s

	_ = s.SetAnchor(Day(2025, time.June, 1))
	_, _ = s.SetMode(RangeThisMonth, 0)

	assert.Equal(t, before, s)
}
