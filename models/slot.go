package models

// Slot is a concrete bookable window on a specific date with live
// capacity accounting. Slots are ephemeral: fetched per view, cached
// briefly, recomputed on every date change.
type Slot struct {
	ID          int   `json:"id"`
	ServiceID   int   `json:"service_id"`
	StartTime   int64 `json:"start_time"` // unix, seconds or milliseconds
	EndTime     int64 `json:"end_time"`
	Capacity    int   `json:"capacity"`
	BookedCount int   `json:"booked_count"`
	IsExclusive bool  `json:"is_exclusive"`
}

// NormalizeMillis converts a unix timestamp that may be encoded in
// seconds or milliseconds to milliseconds, detected by magnitude.
func NormalizeMillis(ts int64) int64 {
	if ts > 10_000_000_000 {
		return ts
	}
	return ts * 1000
}

// Hour status labels, in precedence order. Exclusivity and provider
// conflicts always dominate the displayed reason.
const (
	HourStatusExclusive    = "exclusive"
	HourStatusProviderBusy = "provider_busy"
	HourStatusFull         = "full"
	HourStatusLowTurnout   = "low_turnout"
	HourStatusOpen         = "open"
)

// HourStatus is the per-hour verdict handed to the presentation layer.
type HourStatus struct {
	Hour      float64 `json:"hour"`
	EndHour   float64 `json:"end_hour"`
	Status    string  `json:"status"`
	Blocked   bool    `json:"blocked"`
	Remaining int     `json:"remaining"`
	Suggested bool    `json:"suggested,omitempty"` // first open hour, a rendering hint only
}

// DayStatus is one calendar cell of the month selectability map.
type DayStatus struct {
	Date       string `json:"date"` // "2025-12-01"
	Day        int    `json:"day"`
	Weekday    string `json:"weekday"`
	Selectable bool   `json:"selectable"`
}

// MonthAvailability is the derived calendar for one displayed month.
type MonthAvailability struct {
	Month           string      `json:"month"` // "2025-12"
	Days            []DayStatus `json:"days"`
	FirstSelectable string      `json:"first_selectable,omitempty"`
}
