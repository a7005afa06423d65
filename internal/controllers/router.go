package controllers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"fieldbook/internal/authz"
	"fieldbook/internal/middleware"
	"fieldbook/internal/service"
)

type RouterConfig struct {
	Logger *slog.Logger
	DB     *gorm.DB
	Redis  *redis.Client

	Tokens middleware.TokenParser
	Users  middleware.UserLoader

	Auth     *service.AuthSvc
	Venues   *service.VenueSvc
	Fields   *service.FieldSvc
	Bookings *service.BookingSvc
}

// NewRouter builds the HTTP API. Venue and field reads are public; writes and
// every booking route need a verified principal of the right role.
func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Tracing())
	r.Use(middleware.Metrics())
	r.Use(middleware.RequestLogger(cfg.Logger))

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "route not found"})
	})

	health := NewHealthController(cfg.DB, cfg.Redis)
	r.GET("/healthz", health.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	auth := NewAuthController(cfg.Auth, cfg.Logger)
	venues := NewVenueController(cfg.Venues, cfg.Logger)
	fields := NewFieldController(cfg.Fields, cfg.Logger)
	bookings := NewBookingController(cfg.Bookings, cfg.Logger)

	authenticate := middleware.Authenticate(cfg.Tokens, cfg.Users)
	verified := middleware.RequireVerified()
	owner := middleware.RequireRole(authz.RoleOwner)
	user := middleware.RequireRole(authz.RoleUser)

	api := r.Group("/api/v1")
	{
		api.POST("/register", auth.Register)
		api.POST("/otp-confirmation", auth.VerifyOTP)
		api.POST("/otp-resend", auth.ResendOTP)
		api.POST("/login", auth.Login)
		api.GET("/me", authenticate, auth.Me)

		api.GET("/venues", venues.Index)
		api.GET("/venues/:id", venues.Show)
		api.GET("/venues/:id/fields", fields.Index)
		api.GET("/venues/:id/fields/:field_id", fields.Show)
	}

	owners := api.Group("", authenticate, verified, owner)
	{
		owners.POST("/venues", venues.Store)
		owners.PUT("/venues/:id", venues.Update)
		owners.DELETE("/venues/:id", venues.Destroy)

		owners.POST("/venues/:id/fields", fields.Store)
		owners.PUT("/venues/:id/fields/:field_id", fields.Update)
		owners.DELETE("/venues/:id/fields/:field_id", fields.Destroy)
	}

	users := api.Group("", authenticate, verified, user)
	{
		users.POST("/venues/:id/bookings", bookings.Store)
		users.GET("/bookings", bookings.Index)
		users.GET("/bookings/:id", bookings.Show)
		users.PUT("/bookings/:id", bookings.Update)
		users.DELETE("/bookings/:id", bookings.Destroy)
		users.PUT("/bookings/:id/join", bookings.Join)
		users.PUT("/bookings/:id/unjoin", bookings.Unjoin)
		users.GET("/schedules", bookings.Schedules)
	}

	return r
}
