package booking

import (
	"strconv"
	"strings"
	"time"

	"bottega/models"

	"go.uber.org/zap"
)

// parseHour extracts the hour component from "HH:MM". Minutes are
// ignored, matching the remote contract where windows start on the
// hour.
func parseHour(s string) (int, bool) {
	h, _, _ := strings.Cut(s, ":")
	n, err := strconv.Atoi(strings.TrimSpace(h))
	if err != nil {
		return 0, false
	}
	return n, true
}

// GenerateHours produces the ordered candidate start hours for a date:
// the matched rule's schedule for that weekday when present, otherwise
// the service's default working hours, stepped by the service duration.
// An empty sequence means "no hours available" and the caller must not
// progress.
func GenerateHours(service *models.ServiceOffering, date time.Time, rules []models.AvailabilityRule, logger *zap.Logger) []float64 {
	step := service.DurationHours()
	if step <= 0 {
		return nil
	}

	weekday := models.DayCode(date)
	if rule := FindRule(rules, date); rule != nil {
		if sched := rule.ScheduleFor(weekday); sched != nil {
			start, okS := parseHour(sched.Start)
			end, okE := parseHour(sched.End)
			if okS && okE {
				if end < start {
					// Inverted bounds are assumed to be a data-entry
					// mistake and swapped. Suspect policy: this may be
					// masking upstream errors rather than fixing them.
					logger.Warn("schedule has inverted bounds, swapping",
						zap.Int("ruleID", rule.ID), zap.String("day", weekday),
						zap.Int("start", start), zap.Int("end", end))
					start, end = end, start
				}
				return stepHours(float64(start), float64(end), step)
			}
		}
	}

	start, okS := parseHour(service.WorkingHoursStart)
	end, okE := parseHour(service.WorkingHoursEnd)
	if !okS || !okE {
		return nil
	}
	if end < start {
		start, end = end, start
	}
	return stepHours(float64(start), float64(end), step)
}

// stepHours generates [start, end) stepped by step. Equal bounds yield
// an empty sequence rather than an error.
func stepHours(start, end, step float64) []float64 {
	var hours []float64
	for h := start; h < end; h += step {
		hours = append(hours, h)
	}
	return hours
}
