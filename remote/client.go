package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"bottega/models"

	"go.uber.org/zap"
)

// ErrRateLimited is returned when the remote service keeps throttling
// even after the cooperative wait-and-retry.
var ErrRateLimited = errors.New("remote service rate limited")

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Client talks to the remote data service over HTTP, honouring the
// cooperative sliding-window rate limit before every call.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *SlidingLimiter
	logger  *zap.Logger
}

func NewClient(baseURL string, limiter *SlidingLimiter, logger *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
		limiter: limiter,
		logger:  logger,
	}
}

// request performs one rate-limited HTTP call and decodes the JSON
// response into out. A throttling response is retried once after
// waiting out a full window; the retry is transparent to the caller.
// The full wait applies even when the local window has room, since
// the throttle verdict came from the remote's own accounting.
func (c *Client) request(ctx context.Context, method, path string, body any, out any) error {
	if err := c.do(ctx, method, path, body, out); err != nil {
		if errors.Is(err, ErrRateLimited) {
			c.logger.Warn("remote throttled, waiting out window", zap.String("path", path))
			if werr := c.limiter.WaitFull(ctx); werr != nil {
				return werr
			}
			return c.do(ctx, method, path, body, out)
		}
		return err
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	c.limiter.Record()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("remote request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return ErrRateLimited
	}
	if resp.StatusCode >= 400 {
		raw, _ := io.ReadAll(resp.Body)
		var apiErr apiError
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Code == "ERROR_CODE_TOO_MANY_REQUESTS" {
			return ErrRateLimited
		}
		return fmt.Errorf("remote error %d: %s", resp.StatusCode, string(raw))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding remote response: %w", err)
	}
	return nil
}

// GetServiceBySlug loads a service with its provider graph embedded.
func (c *Client) GetServiceBySlug(ctx context.Context, slug string) (*models.ServiceOffering, error) {
	var svc models.ServiceOffering
	if err := c.request(ctx, http.MethodGet, "/services/slug/"+url.PathEscape(slug), nil, &svc); err != nil {
		return nil, fmt.Errorf("fetching service %q: %w", slug, err)
	}

	if svc.Provider == nil && svc.ProviderID != 0 {
		var prov models.ProviderRef
		path := fmt.Sprintf("/providers/%d", svc.ProviderID)
		if err := c.request(ctx, http.MethodGet, path, nil, &prov); err != nil {
			// The widget still works without rules; default days apply.
			c.logger.Warn("provider fetch failed, falling back to defaults",
				zap.Int("providerID", svc.ProviderID), zap.Error(err))
		} else {
			svc.Provider = &prov
		}
	}
	return &svc, nil
}

// GetSlots returns slot records for a service and date.
func (c *Client) GetSlots(ctx context.Context, serviceID int, date string) ([]models.Slot, error) {
	var slots []models.Slot
	path := fmt.Sprintf("/slots?service_id=%d&date=%s", serviceID, url.QueryEscape(date))
	if err := c.request(ctx, http.MethodGet, path, nil, &slots); err != nil {
		return nil, fmt.Errorf("fetching slots for service %d on %s: %w", serviceID, date, err)
	}
	return slots, nil
}

// GetProviderBookings returns all bookings across a provider's
// services for one date.
func (c *Client) GetProviderBookings(ctx context.Context, providerID int, date string) ([]models.Booking, error) {
	var bookings []models.Booking
	path := fmt.Sprintf("/provider_bookings?provider_id=%d&date=%s", providerID, url.QueryEscape(date))
	if err := c.request(ctx, http.MethodGet, path, nil, &bookings); err != nil {
		return nil, fmt.Errorf("fetching provider %d bookings on %s: %w", providerID, date, err)
	}
	return bookings, nil
}

// GetBookingsByEmail returns a user's bookings.
func (c *Client) GetBookingsByEmail(ctx context.Context, email string) ([]models.Booking, error) {
	var bookings []models.Booking
	if err := c.request(ctx, http.MethodGet, "/bookings?user_email="+url.QueryEscape(email), nil, &bookings); err != nil {
		return nil, fmt.Errorf("fetching bookings for %s: %w", email, err)
	}
	return bookings, nil
}

// CreateBooking submits the booking payload and returns the decoded
// response document as-is for identifier probing.
func (c *Client) CreateBooking(ctx context.Context, payload models.BookingPayload) (map[string]any, error) {
	var resp map[string]any
	if err := c.request(ctx, http.MethodPost, "/bookings", payload, &resp); err != nil {
		return nil, fmt.Errorf("creating booking: %w", err)
	}
	if resp == nil {
		return nil, errors.New("creating booking: empty response")
	}
	return resp, nil
}
