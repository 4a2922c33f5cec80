package booking

import (
	"context"
	"errors"
	"sync"
	"time"

	"bottega/models"
)

// fakeData is a canned remote data service recording what was sent.
type fakeData struct {
	mu sync.Mutex

	service      *models.ServiceOffering
	serviceErr   error
	serviceCalls int

	slots      []models.Slot
	slotsErr   error
	slotsCalls int
	slotsHook  func() // runs inside GetSlots, before returning

	providerBookings    []models.Booking
	providerBookingsErr error

	emailBookings    []models.Booking
	emailBookingsErr error

	createResp    map[string]any
	createErr     error
	createPayload *models.BookingPayload
}

func (f *fakeData) GetServiceBySlug(ctx context.Context, slug string) (*models.ServiceOffering, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.serviceCalls++
	if f.serviceErr != nil {
		return nil, f.serviceErr
	}
	return f.service, nil
}

func (f *fakeData) GetSlots(ctx context.Context, serviceID int, date string) ([]models.Slot, error) {
	f.mu.Lock()
	f.slotsCalls++
	hook := f.slotsHook
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
	return f.slots, f.slotsErr
}

func (f *fakeData) GetProviderBookings(ctx context.Context, providerID int, date string) ([]models.Booking, error) {
	return f.providerBookings, f.providerBookingsErr
}

func (f *fakeData) GetBookingsByEmail(ctx context.Context, email string) ([]models.Booking, error) {
	return f.emailBookings, f.emailBookingsErr
}

func (f *fakeData) CreateBooking(ctx context.Context, payload models.BookingPayload) (map[string]any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createPayload = &payload
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.createResp, nil
}

// fakeCheckout records the checkout request it received.
type fakeCheckout struct {
	session *models.CheckoutSession
	err     error
	req     *models.CheckoutRequest
}

func (f *fakeCheckout) CreateCheckout(ctx context.Context, req models.CheckoutRequest) (*models.CheckoutSession, error) {
	f.req = &req
	if f.err != nil {
		return nil, f.err
	}
	return f.session, nil
}

// fakeFollowups records reconciliation notifications.
type fakeFollowups struct {
	bookingID int
	email     string
	reason    string
	calls     int
}

func (f *fakeFollowups) BookingNeedsFollowup(bookingID int, email, reason string) {
	f.calls++
	f.bookingID = bookingID
	f.email = email
	f.reason = reason
}

// memCache is an in-memory Cache for service-level tests.
type memCache struct {
	mu sync.Mutex
	m  map[string][]byte
}

func newMemCache() *memCache {
	return &memCache{m: make(map[string][]byte)}
}

func (c *memCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.m[key]
	return v, ok, nil
}

func (c *memCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = value
	return nil
}

func (c *memCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.m, key)
	return nil
}

func (c *memCache) DeleteByPrefix(ctx context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.m {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			delete(c.m, k)
		}
	}
	return nil
}

var errRemoteDown = errors.New("remote down")
