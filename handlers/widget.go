package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"bottega/models"
	"bottega/services/booking"
	"bottega/utils"
)

// WidgetHandler exposes the booking widget flow over HTTP. It owns no
// state: every request carries a session id and the service resolves it.
type WidgetHandler struct {
	Svc booking.WidgetService
}

func NewWidgetHandler(svc booking.WidgetService) *WidgetHandler {
	return &WidgetHandler{Svc: svc}
}

// statusFor maps taxonomy codes onto HTTP statuses.
func statusFor(err error) int {
	switch booking.CodeOf(err) {
	case booking.CodeValidation:
		return http.StatusBadRequest
	case booking.CodeRateLimited:
		return http.StatusTooManyRequests
	case booking.CodeDataUnavailable, booking.CodeIdentifierResolution, booking.CodePaymentSession:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func (h *WidgetHandler) respondError(c *gin.Context, err error) {
	if errors.Is(err, booking.ErrSessionNotFound) {
		utils.JSONError(c, http.StatusNotFound, "session not found or expired", "")
		return
	}
	if errors.Is(err, booking.ErrSuperseded) {
		// A newer request for this session replaced this one; the stale
		// result was discarded and the client should keep the newer view.
		c.JSON(http.StatusConflict, gin.H{"superseded": true})
		return
	}

	var ce *booking.CoreError
	if errors.As(err, &ce) {
		c.JSON(statusFor(err), gin.H{"error": ce.Message, "code": ce.Code})
		return
	}
	utils.JSONError(c, http.StatusInternalServerError, "internal error", err.Error())
}

// InitiateSession opens a widget session for a service slug.
func (h *WidgetHandler) InitiateSession(c *gin.Context) {
	var input struct {
		Slug string `json:"slug" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	session, month, err := h.Svc.InitiateSession(c.Request.Context(), input.Slug)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sessionID": session.ID,
		"service":   session.Service,
		"calendar":  month,
	})
}

// Calendar returns the selectability map, optionally navigating to a
// different month via ?month=YYYY-MM.
func (h *WidgetHandler) Calendar(c *gin.Context) {
	sessionID := c.Param("sessionID")
	month := c.Query("month")

	calendar, err := h.Svc.Calendar(c.Request.Context(), sessionID, month)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessionID": sessionID, "calendar": calendar})
}

// Hours selects a date and returns its annotated candidate hours.
func (h *WidgetHandler) Hours(c *gin.Context) {
	sessionID := c.Param("sessionID")
	date := c.Query("date")
	if date == "" {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "date query parameter is required")
		return
	}

	result, err := h.Svc.Hours(c.Request.Context(), sessionID, date)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessionID": sessionID, "date": result.Date, "hours": result.Hours})
}

// SelectHour records the chosen start hour on the session.
func (h *WidgetHandler) SelectHour(c *gin.Context) {
	sessionID := c.Param("sessionID")
	var input struct {
		Hour *float64 `json:"hour" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	if err := h.Svc.SelectHour(c.Request.Context(), sessionID, *input.Hour); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessionID": sessionID, "hour": *input.Hour})
}

// UpdateQuote recomputes the price breakdown for a party size and
// extras selection.
func (h *WidgetHandler) UpdateQuote(c *gin.Context) {
	sessionID := c.Param("sessionID")
	var input struct {
		NumPeople int   `json:"num_people"`
		ExtraIDs  []int `json:"extra_ids"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	quote, err := h.Svc.UpdateQuote(c.Request.Context(), sessionID, input.NumPeople, input.ExtraIDs)
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := gin.H{"sessionID": sessionID, "quote": quote.Breakdown}
	if quote.Discount != nil {
		resp["group_discount"] = quote.Discount
	}
	c.JSON(http.StatusOK, resp)
}

// Confirm submits the booking and returns the payment redirect.
func (h *WidgetHandler) Confirm(c *gin.Context) {
	sessionID := c.Param("sessionID")
	var contact models.ContactInfo
	if err := c.ShouldBindJSON(&contact); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	result, err := h.Svc.Confirm(c.Request.Context(), sessionID, contact)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"bookingID":    result.BookingID,
		"redirect_url": result.RedirectURL,
		"submitted_at": result.SubmittedAt,
	})
}

// HealthHandler reports liveness.
func HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
