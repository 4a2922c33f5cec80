package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bottega/models"
	"bottega/services/booking"
)

// stubWidget returns canned results per operation.
type stubWidget struct {
	initErr    error
	hoursErr   error
	confirmErr error
}

func (s *stubWidget) InitiateSession(ctx context.Context, slug string) (*models.WidgetSession, *models.MonthAvailability, error) {
	if s.initErr != nil {
		return nil, nil, s.initErr
	}
	return &models.WidgetSession{ID: "abc", Month: "2026-03"}, &models.MonthAvailability{Month: "2026-03"}, nil
}

func (s *stubWidget) Calendar(ctx context.Context, sessionID, month string) (*models.MonthAvailability, error) {
	return &models.MonthAvailability{Month: "2026-03"}, nil
}

func (s *stubWidget) Hours(ctx context.Context, sessionID, date string) (*booking.HoursResult, error) {
	if s.hoursErr != nil {
		return nil, s.hoursErr
	}
	return &booking.HoursResult{Date: date}, nil
}

func (s *stubWidget) SelectHour(ctx context.Context, sessionID string, hour float64) error {
	return nil
}

func (s *stubWidget) UpdateQuote(ctx context.Context, sessionID string, numPeople int, extraIDs []int) (*booking.QuoteResult, error) {
	return &booking.QuoteResult{Breakdown: models.PriceBreakdown{TotalPrice: 100, NumPeople: numPeople}}, nil
}

func (s *stubWidget) Confirm(ctx context.Context, sessionID string, contact models.ContactInfo) (*models.SubmissionResult, error) {
	if s.confirmErr != nil {
		return nil, s.confirmErr
	}
	return &models.SubmissionResult{BookingID: 42, RedirectURL: "https://pay.example/42"}, nil
}

func testRouter(stub *stubWidget) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	wh := NewWidgetHandler(stub)
	r.POST("/session", wh.InitiateSession)
	r.GET("/session/:sessionID/hours", wh.Hours)
	r.POST("/session/:sessionID/confirm", wh.Confirm)
	return r
}

func TestInitiateSessionHandler(t *testing.T) {
	r := testRouter(&stubWidget{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/session", strings.NewReader(`{"slug":"vineyard-tour"}`))
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"sessionID":"abc"`)
}

func TestInitiateSessionHandlerRejectsMissingSlug(t *testing.T) {
	r := testRouter(&stubWidget{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/session", strings.NewReader(`{}`))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", booking.NewValidationError("bad"), http.StatusBadRequest},
		{"rate limited", booking.NewRateLimitedError(nil), http.StatusTooManyRequests},
		{"data unavailable", booking.NewDataUnavailableError("down", nil), http.StatusBadGateway},
		{"session not found", booking.ErrSessionNotFound, http.StatusNotFound},
		{"superseded", booking.ErrSuperseded, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := testRouter(&stubWidget{hoursErr: tt.err})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/session/abc/hours?date=2026-03-04", nil)
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestConfirmHandlerPaymentError(t *testing.T) {
	r := testRouter(&stubWidget{confirmErr: booking.NewPaymentSessionError(42, nil)})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/session/abc/confirm",
		strings.NewReader(`{"name":"Ada","email":"ada@example.com","consent":true}`))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "#42")
}
