package api

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/notexe/voice-reminder/internal/reminder"
)

const remindersPath = "/api/reminders"

// Store is the storage behind the REST API. *reminder.DB implements it.
type Store interface {
	reminder.Backend
}

// Counter reports stored totals for the metrics job.
type Counter interface {
	Counts(ctx context.Context) (total, done int, err error)
}

// NewRouter builds the gin engine serving the reminder API.
func NewRouter(store Store) *gin.Engine {
	RegisterValidators()

	router := gin.New()
	router.Use(RecoveryMiddleware())
	router.Use(RequestIDMiddleware())
	router.Use(LoggingMiddleware())
	router.Use(CORSMiddleware())
	router.Use(MetricsMiddleware())

	h := NewHandler(store)

	reminders := router.Group(remindersPath)
	{
		reminders.POST("", h.CreateReminder)
		reminders.GET("", h.ListReminders)
		reminders.PUT("/:id", h.SetReminderDone)
		reminders.DELETE("/:id", h.DeleteReminder)
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.String(200, "ok")
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}
