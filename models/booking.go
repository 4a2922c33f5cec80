package models

import "time"

// BookingPayload is the write shape accepted by the remote data
// service. Field names follow its wire contract.
type BookingPayload struct {
	UserName       string  `json:"user_name"`
	UserEmail      string  `json:"user_email"`
	UserPhone      string  `json:"user_phone"`
	ServiceID      int     `json:"service_id"`
	SelectedDate   string  `json:"selected_date"` // "2025-12-01"
	SelectedHour   int64   `json:"selected_hour"` // slot start, unix millis
	NumPeople      int     `json:"num_people"`
	ExtraIDs       []int   `json:"extra_ids"`
	TotalPrice     float64 `json:"total_price"`
}

// Booking is a booking record as read back from the remote service.
type Booking struct {
	ID        int     `json:"id"`
	ServiceID int     `json:"service_id"`
	UserEmail string  `json:"user_email"`
	Date      string  `json:"date"`
	Time      int64   `json:"time"`            // start timestamp, seconds or millis
	SlotStart int64   `json:"slot_start_time"` // booked window bounds, seconds or millis
	SlotEnd   int64   `json:"slot_end_time"`
	SlotID    int     `json:"slot_id"`
	NumPeople int     `json:"num_people"`
	Total     float64 `json:"total_price"`
	CreatedAt int64   `json:"created_at"`
}

// ContactInfo is the user-entered contact block validated before
// submission.
type ContactInfo struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Consent bool   `json:"consent"`
}

// PriceBreakdown is the derived pricing result for a party size and
// extras combination.
type PriceBreakdown struct {
	UnitPrice  float64 `json:"unit_price"`
	ExtraCost  float64 `json:"extra_cost"`
	TotalPrice float64 `json:"total_price"`
	NumPeople  int     `json:"num_people"`
}

// GroupDiscountNotice is read-only derived information: the cheapest
// tier open to groups, surfaced only when materially below base price.
type GroupDiscountNotice struct {
	MinPeople int     `json:"min_people"`
	Price     float64 `json:"price"`
	BasePrice float64 `json:"base_price"`
}

// CheckoutRequest is the single call made to the payment collaborator.
type CheckoutRequest struct {
	Email       string `json:"email"`
	AmountMinor int64  `json:"total_amount"` // minor currency units
	BookingID   int    `json:"booking_id"`
}

// CheckoutSession is the normalised payment-gateway response: whatever
// shape the gateway returns, it collapses to one redirect target.
type CheckoutSession struct {
	RedirectURL string `json:"redirect_url"`
}

// SubmissionResult reports the outcome of a completed booking flow.
type SubmissionResult struct {
	BookingID   int       `json:"booking_id"`
	RedirectURL string    `json:"redirect_url"`
	SubmittedAt time.Time `json:"submitted_at"`
}
