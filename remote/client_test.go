package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"bottega/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// testClient uses a short limiter window so throttle-retry tests wait
// milliseconds instead of the production twenty seconds.
func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, NewSlidingLimiter(100, 50*time.Millisecond), zap.NewNop())
}

func TestGetSlots(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/slots", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("service_id"))
		assert.Equal(t, "2026-03-04", r.URL.Query().Get("date"))
		_ = json.NewEncoder(w).Encode([]models.Slot{{ID: 3, Capacity: 5}})
	})

	slots, err := c.GetSlots(context.Background(), 1, "2026-03-04")
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, 3, slots[0].ID)
}

func TestThrottledRequestRetriesOnce(t *testing.T) {
	var calls atomic.Int32
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_ = json.NewEncoder(w).Encode([]models.Slot{{ID: 3}})
	})

	start := time.Now()
	slots, err := c.GetSlots(context.Background(), 1, "2026-03-04")
	require.NoError(t, err)
	assert.Len(t, slots, 1)
	assert.Equal(t, int32(2), calls.Load())

	// The retry waits out a full window even though the local window
	// has room; the throttle verdict was the remote's.
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestBodyEncodedThrottleDetected(t *testing.T) {
	var calls atomic.Int32
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"code": "ERROR_CODE_TOO_MANY_REQUESTS"})
			return
		}
		_ = json.NewEncoder(w).Encode([]models.Slot{})
	})

	_, err := c.GetSlots(context.Background(), 1, "2026-03-04")
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestCreateBookingReturnsRawDocument(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var payload models.BookingPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "ada@example.com", payload.UserEmail)
		_ = json.NewEncoder(w).Encode(map[string]any{"result": map[string]any{"booking_id": 7}})
	})

	resp, err := c.CreateBooking(context.Background(), models.BookingPayload{UserEmail: "ada@example.com"})
	require.NoError(t, err)
	nested, ok := resp["result"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(7), nested["booking_id"])
}

func TestGetServiceBySlugProviderFallback(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/services/slug/vineyard-tour":
			_ = json.NewEncoder(w).Encode(models.ServiceOffering{ID: 1, ProviderID: 9})
		default:
			// Provider endpoint is down; the service must still load.
			w.WriteHeader(http.StatusInternalServerError)
		}
	})

	svc, err := c.GetServiceBySlug(context.Background(), "vineyard-tour")
	require.NoError(t, err)
	assert.Equal(t, 1, svc.ID)
	assert.Nil(t, svc.Provider)
}

func TestRemoteErrorSurfaces(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.GetSlots(context.Background(), 1, "2026-03-04")
	assert.Error(t, err)
}
