package booking

import (
	"fmt"
	"time"

	"bottega/models"
)

// providerRules returns the availability rules embedded in the service,
// or nil when the provider graph was not loaded.
func providerRules(service *models.ServiceOffering) []models.AvailabilityRule {
	if service.Provider == nil {
		return nil
	}
	return service.Provider.Rules
}

// IsDaySelectable decides whether a calendar day can be chosen. Checks
// short-circuit in a fixed order, first failure wins:
//
//  1. no past dates
//  2. no dates inside the minimum-notice window
//  3. a matched blackout rule blocks unconditionally
//  4. a matched non-empty rule decides alone, no fallback to defaults
//  5. otherwise the service's default working days decide
func IsDaySelectable(service *models.ServiceOffering, date, now time.Time) bool {
	today := dayStart(now)
	check := dayStart(date)

	if check.Before(today) {
		return false
	}
	if service.MinNoticeDays > 0 && check.Before(today.AddDate(0, 0, service.MinNoticeDays)) {
		return false
	}

	weekday := models.DayCode(date)
	rule := FindRule(providerRules(service), date)
	if rule != nil {
		if rule.IsBlackout() {
			return false
		}
		// A rule with entries but no valid weekday set is fully
		// restrictive for its window; defaults do not apply.
		days := rule.Days()
		for _, d := range days {
			if d == weekday {
				return true
			}
		}
		return false
	}

	for _, d := range service.WorkingDays {
		if d == weekday {
			return true
		}
	}
	return false
}

// BuildMonthAvailability computes the selectability map for a displayed
// month ("2025-12"), plus the first selectable day for the presentation
// layer's auto-select behavior.
func BuildMonthAvailability(service *models.ServiceOffering, month string, now time.Time) (*models.MonthAvailability, error) {
	first, err := time.ParseInLocation("2006-01", month, now.Location())
	if err != nil {
		return nil, NewValidationError(fmt.Sprintf("invalid month %q, expected YYYY-MM", month))
	}

	out := &models.MonthAvailability{Month: month}
	lastDay := first.AddDate(0, 1, -1).Day()
	for day := 1; day <= lastDay; day++ {
		date := time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, now.Location())
		status := models.DayStatus{
			Date:       date.Format("2006-01-02"),
			Day:        day,
			Weekday:    models.DayCode(date),
			Selectable: IsDaySelectable(service, date, now),
		}
		if status.Selectable && out.FirstSelectable == "" {
			out.FirstSelectable = status.Date
		}
		out.Days = append(out.Days, status)
	}
	return out, nil
}
