package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"bottega/handlers"
)

// RegisterWidgetRoutes registers the booking-widget flow. Every
// stateful endpoint is keyed by the session id issued at initiation.
func RegisterWidgetRoutes(r *gin.Engine, wh *handlers.WidgetHandler) {
	api := r.Group("/api/widget")
	{
		api.POST("/session", wh.InitiateSession)
		api.GET("/session/:sessionID/calendar", wh.Calendar)
		api.GET("/session/:sessionID/hours", wh.Hours)
		api.PUT("/session/:sessionID/hour", wh.SelectHour)
		api.PUT("/session/:sessionID/quote", wh.UpdateQuote)
		api.POST("/session/:sessionID/confirm", wh.Confirm)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", handlers.HealthHandler)
}

// RegisterRoutes centralizes registration of all endpoints and
// cross-cutting middleware. The widget is embedded on third-party
// pages, so CORS is wide open.
func RegisterRoutes(r *gin.Engine, wh *handlers.WidgetHandler) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterWidgetRoutes(r, wh)
}
