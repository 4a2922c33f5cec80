package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"bottega/cache"
	"bottega/models"
	"bottega/remote"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrSuperseded reports that a newer request for the same session
// started while this one was in flight; the stale result is discarded.
var ErrSuperseded = errors.New("superseded by a newer request")

// ErrSessionNotFound reports an unknown or expired widget session.
var ErrSessionNotFound = errors.New("widget session not found or expired")

// Tuning for the widget service, populated from config at startup.
type WidgetConfig struct {
	SlotCacheTTL     time.Duration
	BookingsCacheTTL time.Duration
	ServiceCacheTTL  time.Duration
	SessionTTL       time.Duration
	MinQuorum        int
	QuoteDebounce    time.Duration
	DiscountMinGroup int
}

// DefaultWidgetService implements WidgetService on top of the remote
// data service and two read-through caches.
type DefaultWidgetService struct {
	Data      remote.DataService
	Checkout  remote.CheckoutClient
	Followups FollowupNotifier // optional
	Cache     cache.Cache      // slot / bookings / service cache
	Sessions  cache.Cache      // widget session store
	Cfg       WidgetConfig
	Logger    *zap.Logger
	Now       func() time.Time // overridable in tests

	mu         sync.Mutex
	debouncers map[string]*Debouncer
}

func NewWidgetService(data remote.DataService, checkout remote.CheckoutClient, followups FollowupNotifier, c, sessions cache.Cache, cfg WidgetConfig, logger *zap.Logger) *DefaultWidgetService {
	return &DefaultWidgetService{
		Data:       data,
		Checkout:   checkout,
		Followups:  followups,
		Cache:      c,
		Sessions:   sessions,
		Cfg:        cfg,
		Logger:     logger,
		Now:        time.Now,
		debouncers: make(map[string]*Debouncer),
	}
}

func sessionKey(id string) string       { return "wsession:" + id }
func serviceKey(slug string) string     { return "service:" + slug }
func slotPrefix(serviceID int) string   { return fmt.Sprintf("slots:%d:", serviceID) }
func slotKey(id int, date string) string {
	return fmt.Sprintf("slots:%d:%s", id, date)
}
func bookingsKey(providerID int, date string) string {
	return fmt.Sprintf("pbookings:%d:%s", providerID, date)
}

// loadService reads the service offering through the cache; a slug is
// fetched remotely at most once per service TTL.
func (s *DefaultWidgetService) loadService(ctx context.Context, slug string) (*models.ServiceOffering, error) {
	var svc models.ServiceOffering
	if ok, _ := cache.GetJSON(ctx, s.Cache, serviceKey(slug), &svc); ok {
		return &svc, nil
	}

	fetched, err := s.Data.GetServiceBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, remote.ErrRateLimited) {
			return nil, NewRateLimitedError(err)
		}
		return nil, NewDataUnavailableError("service could not be loaded", err)
	}
	if err := cache.SetJSON(ctx, s.Cache, serviceKey(slug), fetched, s.Cfg.ServiceCacheTTL); err != nil {
		s.Logger.Warn("service cache write failed", zap.String("slug", slug), zap.Error(err))
	}
	return fetched, nil
}

func (s *DefaultWidgetService) loadSession(ctx context.Context, id string) (*models.WidgetSession, error) {
	var session models.WidgetSession
	ok, err := cache.GetJSON(ctx, s.Sessions, sessionKey(id), &session)
	if err != nil || !ok {
		return nil, ErrSessionNotFound
	}
	return &session, nil
}

func (s *DefaultWidgetService) saveSession(ctx context.Context, session *models.WidgetSession) error {
	session.UpdatedAt = s.Now()
	return cache.SetJSON(ctx, s.Sessions, sessionKey(session.ID), session, s.Cfg.SessionTTL)
}

// InitiateSession loads the service and opens a session on the current
// month, returning the month map so the widget renders in one round
// trip.
func (s *DefaultWidgetService) InitiateSession(ctx context.Context, slug string) (*models.WidgetSession, *models.MonthAvailability, error) {
	svc, err := s.loadService(ctx, slug)
	if err != nil {
		return nil, nil, err
	}

	now := s.Now()
	session := &models.WidgetSession{
		ID:        uuid.New().String(),
		Service:   svc,
		Month:     now.Format("2006-01"),
		NumPeople: 1,
		CreatedAt: now,
	}
	if err := s.saveSession(ctx, session); err != nil {
		return nil, nil, fmt.Errorf("storing widget session: %w", err)
	}

	monthMap, err := BuildMonthAvailability(svc, session.Month, now)
	if err != nil {
		return nil, nil, err
	}
	return session, monthMap, nil
}

// Calendar recomputes the selectability map. Navigating to a different
// month drops the service's slot cache and clears the date selection.
func (s *DefaultWidgetService) Calendar(ctx context.Context, sessionID, month string) (*models.MonthAvailability, error) {
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if month != "" && month != session.Month {
		if err := s.Cache.DeleteByPrefix(ctx, slotPrefix(session.Service.ID)); err != nil {
			s.Logger.Warn("slot cache invalidation failed", zap.Error(err))
		}
		session.Month = month
		session.SelectedDate = ""
		session.HourChosen = false
		session.Version++
		if err := s.saveSession(ctx, session); err != nil {
			return nil, err
		}
	}

	return BuildMonthAvailability(session.Service, session.Month, s.Now())
}

// Hours selects a date and computes its per-hour statuses. Last
// request wins: if another call for the same session starts while the
// remote reads are in flight, this result is discarded.
func (s *DefaultWidgetService) Hours(ctx context.Context, sessionID, date string) (*HoursResult, error) {
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	svc := session.Service

	day, err := time.ParseInLocation("2006-01-02", date, s.Now().Location())
	if err != nil {
		return nil, NewValidationError(fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", date))
	}
	if !IsDaySelectable(svc, day, s.Now()) {
		return nil, NewValidationError("this day cannot be booked")
	}

	session.SelectedDate = date
	session.HourChosen = false
	session.Version++
	version := session.Version
	if err := s.saveSession(ctx, session); err != nil {
		return nil, err
	}

	hours := GenerateHours(svc, day, providerRules(svc), s.Logger)
	if len(hours) == 0 {
		return &HoursResult{Date: date}, nil
	}

	slots, err := s.loadSlots(ctx, svc.ID, date)
	if err != nil {
		return nil, err
	}
	bookings := s.loadProviderBookings(ctx, svc, date)

	// Discard if a newer date change superseded this computation.
	current, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if current.Version != version {
		return nil, ErrSuperseded
	}

	return &HoursResult{
		Date:  date,
		Hours: AnnotateHours(svc, day, hours, slots, bookings, s.Cfg.MinQuorum),
	}, nil
}

func (s *DefaultWidgetService) loadSlots(ctx context.Context, serviceID int, date string) ([]models.Slot, error) {
	var slots []models.Slot
	if ok, _ := cache.GetJSON(ctx, s.Cache, slotKey(serviceID, date), &slots); ok {
		return slots, nil
	}
	slots, err := s.Data.GetSlots(ctx, serviceID, date)
	if err != nil {
		if errors.Is(err, remote.ErrRateLimited) {
			return nil, NewRateLimitedError(err)
		}
		return nil, NewDataUnavailableError("time slots could not be loaded", err)
	}
	if err := cache.SetJSON(ctx, s.Cache, slotKey(serviceID, date), slots, s.Cfg.SlotCacheTTL); err != nil {
		s.Logger.Warn("slot cache write failed", zap.Error(err))
	}
	return slots, nil
}

// loadProviderBookings degrades to "no conflicts" on failure: a
// missing busy check must not hide the whole hour grid.
func (s *DefaultWidgetService) loadProviderBookings(ctx context.Context, svc *models.ServiceOffering, date string) []models.Booking {
	if svc.Provider == nil {
		return nil
	}
	var bookings []models.Booking
	key := bookingsKey(svc.Provider.ID, date)
	if ok, _ := cache.GetJSON(ctx, s.Cache, key, &bookings); ok {
		return bookings
	}
	bookings, err := s.Data.GetProviderBookings(ctx, svc.Provider.ID, date)
	if err != nil {
		s.Logger.Warn("provider bookings fetch failed, skipping busy check",
			zap.Int("providerID", svc.Provider.ID), zap.Error(err))
		return nil
	}
	if err := cache.SetJSON(ctx, s.Cache, key, bookings, s.Cfg.BookingsCacheTTL); err != nil {
		s.Logger.Warn("bookings cache write failed", zap.Error(err))
	}
	return bookings
}

// SelectHour records the chosen start hour.
func (s *DefaultWidgetService) SelectHour(ctx context.Context, sessionID string, hour float64) error {
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return err
	}
	if session.SelectedDate == "" {
		return NewValidationError("select a day before choosing a time")
	}
	session.SelectedHour = hour
	session.HourChosen = true
	session.Version++
	return s.saveSession(ctx, session)
}

// UpdateQuote computes the price breakdown for the requested party
// size and extras. The computation is synchronous, but the session
// write is debounced so keystroke-driven edits coalesce into one
// store write carrying the final values.
func (s *DefaultWidgetService) UpdateQuote(ctx context.Context, sessionID string, numPeople int, extraIDs []int) (*QuoteResult, error) {
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	svc := session.Service

	breakdown := Quote(svc, numPeople, extraIDs)

	s.debounceFor(sessionID).Trigger(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		current, err := s.loadSession(ctx, sessionID)
		if err != nil {
			return
		}
		current.NumPeople = breakdown.NumPeople
		current.ExtraIDs = extraIDs
		current.Version++
		if err := s.saveSession(ctx, current); err != nil {
			s.Logger.Warn("session quote write failed", zap.String("sessionID", sessionID), zap.Error(err))
		}
	})

	return &QuoteResult{
		Breakdown: breakdown,
		Discount:  GroupDiscount(svc, s.Cfg.DiscountMinGroup),
	}, nil
}

func (s *DefaultWidgetService) debounceFor(sessionID string) *Debouncer {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.debouncers[sessionID]
	if !ok {
		d = NewDebouncer(s.Cfg.QuoteDebounce)
		s.debouncers[sessionID] = d
	}
	return d
}

// Confirm flushes any pending quote write, clamps the party size to
// the selected slot's remaining capacity and runs the submission
// coordinator.
func (s *DefaultWidgetService) Confirm(ctx context.Context, sessionID string, contact models.ContactInfo) (*models.SubmissionResult, error) {
	// A quote edit inside the debounce window must still land before
	// the session is read for submission.
	s.debounceFor(sessionID).Flush()

	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if session.SelectedDate != "" && session.HourChosen {
		if remaining, ok := s.remainingFor(ctx, session); ok {
			session.NumPeople = ClampPartySize(session.NumPeople, remaining, session.Service.MaxCapacityPerSlot)
		}
	}

	coordinator := NewCoordinator(s.Data, s.Checkout, s.Followups, s.Logger)
	result, err := coordinator.Submit(ctx, session, contact)
	if err != nil {
		return nil, err
	}
	if err := s.saveSession(ctx, session); err != nil {
		s.Logger.Warn("session write after submission failed", zap.Error(err))
	}
	return result, nil
}

// remainingFor reads the selected slot's remaining capacity from the
// cached slot list, when it is still present.
func (s *DefaultWidgetService) remainingFor(ctx context.Context, session *models.WidgetSession) (int, bool) {
	var slots []models.Slot
	ok, _ := cache.GetJSON(ctx, s.Cache, slotKey(session.Service.ID, session.SelectedDate), &slots)
	if !ok {
		return 0, false
	}
	day, err := time.ParseInLocation("2006-01-02", session.SelectedDate, s.Now().Location())
	if err != nil {
		return 0, false
	}
	slot := slotForHour(slots, day, session.SelectedHour)
	if slot == nil {
		return 0, false
	}
	remaining := slot.Capacity - slot.BookedCount
	if remaining < 0 {
		remaining = 0
	}
	return remaining, true
}
