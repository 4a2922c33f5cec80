package models

import (
	"encoding/json"
	"time"
)

// Weekday codes used across rules, schedules and working days.
var DayNames = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// DayCode returns the three-letter code for a date, Monday-first.
func DayCode(t time.Time) string {
	return DayNames[(int(t.Weekday())+6)%7]
}

// IsValidDayCode reports whether code is one of DayNames.
func IsValidDayCode(code string) bool {
	for _, d := range DayNames {
		if d == code {
			return true
		}
	}
	return false
}

// DailySchedule is one weekday's working window inside a rule.
// Multiple entries may share a weekday; the first match is used.
type DailySchedule struct {
	Day   string `json:"day"`
	Start string `json:"start"` // "09:00"
	End   string `json:"end"`   // "17:00"
}

// ScheduleList normalises the remote service's loosely shaped
// daily_schedules payload: it arrives flat, nested one level, empty,
// or as an array holding a single empty array. All shapes collapse to
// a canonical flat list so the resolution engines never see raw
// nesting.
type ScheduleList []DailySchedule

func (l *ScheduleList) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var out []DailySchedule
	for _, item := range raw {
		var entry DailySchedule
		if err := json.Unmarshal(item, &entry); err == nil && entry.Day != "" {
			out = append(out, entry)
			continue
		}
		// One level of nesting: an inner array of schedule objects.
		var nested []DailySchedule
		if err := json.Unmarshal(item, &nested); err == nil {
			out = append(out, nested...)
		}
	}
	*l = out
	return nil
}

// AvailabilityRule is a time-bounded override of the provider's default
// weekly schedule. Both bounds are optional; the end date is inclusive.
// A rule whose canonical schedule list is empty is a blackout rule and
// blocks its entire validity window.
type AvailabilityRule struct {
	ID             int          `json:"id"`
	StartDate      string       `json:"start_date,omitempty"` // "2025-12-01"
	EndDate        string       `json:"end_date,omitempty"`
	DailySchedules ScheduleList `json:"daily_schedules"`
}

// IsBlackout reports whether the rule blocks its whole window.
func (r *AvailabilityRule) IsBlackout() bool {
	return len(r.DailySchedules) == 0
}

// Days returns the deduplicated set of valid weekday codes appearing in
// the rule's schedule.
func (r *AvailabilityRule) Days() []string {
	seen := make(map[string]bool, len(r.DailySchedules))
	var out []string
	for _, s := range r.DailySchedules {
		if IsValidDayCode(s.Day) && !seen[s.Day] {
			seen[s.Day] = true
			out = append(out, s.Day)
		}
	}
	return out
}

// ScheduleFor returns the first schedule entry for the given weekday
// code, or nil when the rule has none for that day.
func (r *AvailabilityRule) ScheduleFor(dayCode string) *DailySchedule {
	for i := range r.DailySchedules {
		if r.DailySchedules[i].Day == dayCode {
			return &r.DailySchedules[i]
		}
	}
	return nil
}
