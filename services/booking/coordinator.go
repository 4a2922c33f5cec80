package booking

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"time"

	"bottega/models"
	"bottega/remote"

	"go.uber.org/zap"
)

// Submission states. A submission runs Idle -> Validating ->
// Submitting -> AwaitingPaymentRedirect and terminates in Redirected
// or Failed.
type SubmissionState string

const (
	StateIdle                    SubmissionState = "idle"
	StateValidating              SubmissionState = "validating"
	StateSubmitting              SubmissionState = "submitting"
	StateAwaitingPaymentRedirect SubmissionState = "awaiting_payment_redirect"
	StateRedirected              SubmissionState = "redirected"
	StateFailed                  SubmissionState = "failed"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// FollowupNotifier surfaces bookings that were written remotely but
// whose flow could not complete, so operators can reconcile them.
type FollowupNotifier interface {
	BookingNeedsFollowup(bookingID int, email, reason string)
}

// Coordinator sequences the final booking submission: validation,
// the remote write, identifier recovery and the payment-session
// request.
type Coordinator struct {
	Data      remote.DataService
	Checkout  remote.CheckoutClient
	Followups FollowupNotifier // optional
	Logger    *zap.Logger

	state SubmissionState
}

func NewCoordinator(data remote.DataService, checkout remote.CheckoutClient, followups FollowupNotifier, logger *zap.Logger) *Coordinator {
	return &Coordinator{Data: data, Checkout: checkout, Followups: followups, Logger: logger, state: StateIdle}
}

// State returns the coordinator's current submission state.
func (c *Coordinator) State() SubmissionState {
	return c.state
}

// Submit runs the full submission flow for a session's confirmed
// selections. Validation failures leave remote state untouched and
// return the coordinator to Idle; later failures terminate in Failed
// with a taxonomy error describing exactly what the user should retry.
func (c *Coordinator) Submit(ctx context.Context, session *models.WidgetSession, contact models.ContactInfo) (*models.SubmissionResult, error) {
	c.state = StateValidating
	if err := validateSubmission(session, contact); err != nil {
		c.state = StateIdle
		return nil, err
	}

	quote := Quote(session.Service, session.NumPeople, session.ExtraIDs)
	date, err := time.Parse("2006-01-02", session.SelectedDate)
	if err != nil {
		c.state = StateIdle
		return nil, NewValidationError("selected date is not valid")
	}

	payload := models.BookingPayload{
		UserName:     contact.Name,
		UserEmail:    contact.Email,
		UserPhone:    contact.Phone,
		ServiceID:    session.Service.ID,
		SelectedDate: session.SelectedDate,
		SelectedHour: hourStartMillis(date, session.SelectedHour),
		NumPeople:    quote.NumPeople,
		ExtraIDs:     session.ExtraIDs,
		TotalPrice:   quote.TotalPrice,
	}

	c.state = StateSubmitting
	resp, err := c.Data.CreateBooking(ctx, payload)
	if err != nil {
		c.state = StateFailed
		return nil, NewDataUnavailableError("booking could not be submitted, please try again", err)
	}

	bookingID, ok := probeBookingID(resp)
	if !ok {
		c.Logger.Warn("booking response carried no identifier, falling back to email lookup",
			zap.String("email", contact.Email))
		bookingID, err = c.lookupLatestBookingID(ctx, contact.Email)
		if err != nil {
			// The remote write may well have succeeded; the user must
			// not book again.
			c.state = StateFailed
			if c.Followups != nil {
				c.Followups.BookingNeedsFollowup(0, contact.Email, "booking recorded but identifier unresolved")
			}
			return nil, NewIdentifierResolutionError(err)
		}
	}

	c.state = StateAwaitingPaymentRedirect
	checkout, err := c.Checkout.CreateCheckout(ctx, models.CheckoutRequest{
		Email:       contact.Email,
		AmountMinor: int64(math.Round(quote.TotalPrice * 100)),
		BookingID:   bookingID,
	})
	if err != nil {
		c.state = StateFailed
		if c.Followups != nil {
			c.Followups.BookingNeedsFollowup(bookingID, contact.Email, "payment session creation failed")
		}
		return nil, NewPaymentSessionError(bookingID, err)
	}

	c.state = StateRedirected
	c.Logger.Info("booking submitted",
		zap.Int("bookingID", bookingID),
		zap.Float64("total", quote.TotalPrice),
		zap.String("redirect", checkout.RedirectURL))
	return &models.SubmissionResult{
		BookingID:   bookingID,
		RedirectURL: checkout.RedirectURL,
		SubmittedAt: time.Now(),
	}, nil
}

func validateSubmission(session *models.WidgetSession, contact models.ContactInfo) error {
	if session == nil || session.Service == nil {
		return NewValidationError("no service loaded for this session")
	}
	if contact.Name == "" || contact.Email == "" {
		return NewValidationError("name and email are required")
	}
	if !emailPattern.MatchString(contact.Email) {
		return NewValidationError("please enter a valid email address")
	}
	if !contact.Consent {
		return NewValidationError("consent to data processing is required")
	}
	if session.SelectedDate == "" || !session.HourChosen {
		return NewValidationError("please select a date and a time slot")
	}
	return nil
}

// probeBookingID looks for the booking identifier at every nesting
// level the remote service has been seen to use.
func probeBookingID(resp map[string]any) (int, bool) {
	if id, ok := numericID(resp["booking_id"]); ok {
		return id, true
	}
	if id, ok := numericID(resp["id"]); ok {
		return id, true
	}
	for _, key := range []string{"result", "booking"} {
		if nested, ok := resp[key].(map[string]any); ok {
			if id, ok := numericID(nested["booking_id"]); ok {
				return id, true
			}
			if id, ok := numericID(nested["id"]); ok {
				return id, true
			}
		}
	}
	return 0, false
}

func numericID(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		if n > 0 {
			return int(n), true
		}
	case int:
		if n > 0 {
			return n, true
		}
	}
	return 0, false
}

// lookupLatestBookingID recovers the identifier by fetching the
// submitter's bookings and taking the most recently created one.
func (c *Coordinator) lookupLatestBookingID(ctx context.Context, email string) (int, error) {
	bookings, err := c.Data.GetBookingsByEmail(ctx, email)
	if err != nil {
		return 0, fmt.Errorf("fallback booking lookup failed: %w", err)
	}
	if len(bookings) == 0 {
		return 0, fmt.Errorf("no bookings found for %s", email)
	}
	latest := bookings[0]
	for _, b := range bookings[1:] {
		if b.CreatedAt > latest.CreatedAt {
			latest = b
		}
	}
	return latest.ID, nil
}
