package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayCode(t *testing.T) {
	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	sunday := time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "Mon", DayCode(monday))
	assert.Equal(t, "Sun", DayCode(sunday))
}

func TestScheduleListNormalisation(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		want     int
		blackout bool
	}{
		{
			name: "flat list",
			raw:  `[{"day":"Mon","start":"09:00","end":"17:00"}]`,
			want: 1,
		},
		{
			name: "nested list",
			raw:  `[[{"day":"Mon","start":"09:00","end":"17:00"},{"day":"Tue","start":"10:00","end":"14:00"}]]`,
			want: 2,
		},
		{
			name: "mixed flat and nested",
			raw:  `[{"day":"Mon","start":"09:00","end":"17:00"},[{"day":"Fri","start":"08:00","end":"12:00"}]]`,
			want: 2,
		},
		{
			name:     "empty list is blackout",
			raw:      `[]`,
			want:     0,
			blackout: true,
		},
		{
			name:     "single empty inner array is blackout",
			raw:      `[[]]`,
			want:     0,
			blackout: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rule AvailabilityRule
			payload := `{"id":1,"daily_schedules":` + tt.raw + `}`
			require.NoError(t, json.Unmarshal([]byte(payload), &rule))
			assert.Len(t, rule.DailySchedules, tt.want)
			assert.Equal(t, tt.blackout, rule.IsBlackout())
		})
	}
}

func TestRuleDays(t *testing.T) {
	rule := AvailabilityRule{
		DailySchedules: ScheduleList{
			{Day: "Mon", Start: "09:00", End: "12:00"},
			{Day: "Mon", Start: "14:00", End: "17:00"},
			{Day: "Funday", Start: "09:00", End: "17:00"},
			{Day: "Fri", Start: "09:00", End: "17:00"},
		},
	}

	assert.Equal(t, []string{"Mon", "Fri"}, rule.Days())
}

func TestScheduleForFirstMatch(t *testing.T) {
	rule := AvailabilityRule{
		DailySchedules: ScheduleList{
			{Day: "Mon", Start: "09:00", End: "12:00"},
			{Day: "Mon", Start: "14:00", End: "17:00"},
		},
	}

	sched := rule.ScheduleFor("Mon")
	require.NotNil(t, sched)
	assert.Equal(t, "09:00", sched.Start)
	assert.Nil(t, rule.ScheduleFor("Tue"))
}

func TestNormalizeMillis(t *testing.T) {
	assert.Equal(t, int64(1764586800000), NormalizeMillis(1764586800000))
	assert.Equal(t, int64(1764586800000), NormalizeMillis(1764586800))
}
