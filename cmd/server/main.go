package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"fieldbook/internal/config"
	"fieldbook/internal/controllers"
	"fieldbook/internal/db"
	"fieldbook/internal/events"
	"fieldbook/internal/obs"
	"fieldbook/internal/redis"
	"fieldbook/internal/repository"
	"fieldbook/internal/service"
	"fieldbook/internal/utils"
)

// eventPublisher is what the services need plus Close for shutdown.
type eventPublisher interface {
	service.Publisher
	Close() error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := obs.InitTracer(ctx, cfg.ServiceName, cfg.Env, cfg.OTLPEndpoint)
	if err != nil {
		logger.Error("init tracer", "error", err)
		os.Exit(1)
	}

	dbConn, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN, cfg.Local())
	if err != nil {
		logger.Error("open database", "driver", cfg.DBDriver, "error", err)
		os.Exit(1)
	}

	rdb, err := redis.Open(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Error("connect redis", "addr", cfg.RedisAddr, "error", err)
		os.Exit(1)
	}

	var pub eventPublisher = events.Noop{}
	if cfg.RabbitURL != "" {
		p, err := events.NewPublisher(cfg.RabbitURL, cfg.BookingExchange)
		if err != nil {
			logger.Error("connect rabbitmq", "error", err)
			os.Exit(1)
		}
		pub = p
	} else {
		logger.Info("RABBIT_URL not set, domain events are dropped")
	}

	mailer := utils.NewSMTPClient(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.FromEmail)
	tokens := utils.NewTokenIssuer(cfg.JWTSecret, cfg.AccessTokenTTL)
	otps := redis.NewOTPStore(rdb, cfg.OTPTTL, cfg.OTPResendInterval)

	users := repository.NewUserRepo(dbConn)
	venues := repository.NewVenueRepo(dbConn)
	fields := repository.NewFieldRepo(dbConn)
	bookings := repository.NewBookingRepo(dbConn)

	if !cfg.Local() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := controllers.NewRouter(controllers.RouterConfig{
		Logger:   logger,
		DB:       dbConn,
		Redis:    rdb,
		Tokens:   tokens,
		Users:    users,
		Auth:     service.NewAuthSvc(users, otps, mailer, tokens, pub, logger),
		Venues:   service.NewVenueSvc(venues, logger),
		Fields:   service.NewFieldSvc(venues, fields, logger),
		Bookings: service.NewBookingSvc(venues, fields, bookings, pub, logger),
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("http server started", "addr", cfg.Addr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "error", err)
	}
	if err := db.Close(dbConn); err != nil {
		logger.Error("close database", "error", err)
	}
	if err := rdb.Close(); err != nil {
		logger.Error("close redis", "error", err)
	}
	if err := pub.Close(); err != nil {
		logger.Error("close publisher", "error", err)
	}
	if err := shutdownTracer(shutdownCtx); err != nil {
		logger.Error("shutdown tracer", "error", err)
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
