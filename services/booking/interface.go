package booking

import (
	"context"

	"bottega/models"
)

// HoursResult pairs the annotated hour list with the session state it
// was computed for.
type HoursResult struct {
	Date  string              `json:"date"`
	Hours []models.HourStatus `json:"hours"`
}

// QuoteResult is the price breakdown plus the optional group-discount
// disclosure.
type QuoteResult struct {
	Breakdown models.PriceBreakdown       `json:"breakdown"`
	Discount  *models.GroupDiscountNotice `json:"group_discount,omitempty"`
}

// WidgetService is the stateful surface exposed to the presentation
// layer: it owns the session context and returns only derived values.
type WidgetService interface {
	// InitiateSession loads the service offering for a slug and opens
	// a widget session anchored on the current month.
	InitiateSession(ctx context.Context, slug string) (*models.WidgetSession, *models.MonthAvailability, error)
	// Calendar recomputes the selectability map for a month. Changing
	// month invalidates the session's slot cache.
	Calendar(ctx context.Context, sessionID, month string) (*models.MonthAvailability, error)
	// Hours selects a date and returns its annotated candidate hours.
	Hours(ctx context.Context, sessionID, date string) (*HoursResult, error)
	// SelectHour records the chosen start hour on the session.
	SelectHour(ctx context.Context, sessionID string, hour float64) error
	// UpdateQuote records party size and extras and returns the price
	// breakdown. Rapid successive calls coalesce their session writes.
	UpdateQuote(ctx context.Context, sessionID string, numPeople int, extraIDs []int) (*QuoteResult, error)
	// Confirm validates and submits the booking, returning the payment
	// redirect.
	Confirm(ctx context.Context, sessionID string, contact models.ContactInfo) (*models.SubmissionResult, error)
}
