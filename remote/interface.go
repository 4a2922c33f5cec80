package remote

import (
	"context"

	"bottega/models"
)

// DataService is the read/write surface of the remote data service.
// Implementations return structured data or an error; they never hand
// raw payload shapes to callers.
type DataService interface {
	// GetServiceBySlug loads a service offering with its provider,
	// the provider's availability rules and sibling services embedded.
	GetServiceBySlug(ctx context.Context, slug string) (*models.ServiceOffering, error)
	// GetSlots returns the slot records for a (service, date) pair.
	GetSlots(ctx context.Context, serviceID int, date string) ([]models.Slot, error)
	// GetProviderBookings returns all bookings across a provider's
	// services for a date, used for cross-service conflict checks.
	GetProviderBookings(ctx context.Context, providerID int, date string) ([]models.Booking, error)
	// GetBookingsByEmail returns a user's bookings, newest discoverable
	// by created_at, used as the identifier-recovery fallback.
	GetBookingsByEmail(ctx context.Context, email string) ([]models.Booking, error)
	// CreateBooking submits a booking payload. The response shape is
	// not guaranteed consistent, so the raw decoded document is
	// returned for identifier probing.
	CreateBooking(ctx context.Context, payload models.BookingPayload) (map[string]any, error)
}

// CheckoutClient is the single call made to the payment collaborator.
// All acceptable response shapes are normalised to one redirect URL.
type CheckoutClient interface {
	CreateCheckout(ctx context.Context, req models.CheckoutRequest) (*models.CheckoutSession, error)
}
