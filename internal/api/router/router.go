package router

import (
	"github.com/Freeeeeet/consultation_scheduler/internal/api/handler"
	"github.com/Freeeeeet/consultation_scheduler/internal/api/middleware"
	"github.com/Freeeeeet/consultation_scheduler/internal/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Setup создаёт gin engine со всеми маршрутами API
func Setup(env string, h *handler.Handler, tokens middleware.TokenParser, logger *zap.Logger) *gin.Engine {
	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	dto.RegisterTagNames()

	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	v1.Use(middleware.JWTAuth(tokens))
	{
		resources := v1.Group("/resources/:id")
		{
			resources.GET("/config", h.Config.GetConfig)
			resources.PUT("/config", h.Config.SaveConfig)
			resources.GET("/slots", h.Booking.Slots)

			resources.POST("/bookings", h.Booking.Create)
			resources.GET("/bookings", h.Booking.ListResource)
			resources.GET("/bookings/reconcile", h.Config.Reconcile)
			resources.GET("/bookings/export.ics", h.Export.ICS)
			resources.GET("/bookings/export.xlsx", h.Export.XLSX)
		}

		bookings := v1.Group("/bookings")
		{
			bookings.GET("/mine", h.Booking.Mine)
			bookings.GET("/:id", h.Booking.Get)
			bookings.POST("/:id/transition", h.Booking.Transition)
		}
	}

	return r
}
