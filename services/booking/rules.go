package booking

import (
	"time"

	"bottega/models"
)

// dayStart strips the time-of-day to midnight for start comparisons.
func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// dayEnd pushes the time-of-day to the last instant of the day so an
// inclusive end bound does not exclude its own boundary day.
func dayEnd(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

// parseRuleDate parses the remote "YYYY-MM-DD" date format.
func parseRuleDate(s string, loc *time.Location) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation("2006-01-02", s, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ruleMatches reports whether date falls in the rule's validity window.
// Both bounds optional, end inclusive; a rule with neither bound
// matches every date. Comparison is at day granularity.
func ruleMatches(rule *models.AvailabilityRule, date time.Time) bool {
	check := dayStart(date)
	start, hasStart := parseRuleDate(rule.StartDate, date.Location())
	end, hasEnd := parseRuleDate(rule.EndDate, date.Location())

	switch {
	case hasStart && hasEnd:
		return !check.Before(dayStart(start)) && !check.After(dayEnd(end))
	case hasStart:
		return !check.Before(dayStart(start))
	case hasEnd:
		return !check.After(dayEnd(end))
	default:
		return true
	}
}

// FindRule scans rules in their given order and returns the first one
// whose validity window covers date, or nil. First structural match
// wins, not the narrowest: reordering the input changes behavior, and
// that ordering is part of the contract.
func FindRule(rules []models.AvailabilityRule, date time.Time) *models.AvailabilityRule {
	for i := range rules {
		if ruleMatches(&rules[i], date) {
			return &rules[i]
		}
	}
	return nil
}
