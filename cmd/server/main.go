package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"hugo-automotriz/internal/auth"
	"hugo-automotriz/internal/cache"
	"hugo-automotriz/internal/config"
	"hugo-automotriz/internal/logging"
	"hugo-automotriz/internal/modules/ai"
	"hugo-automotriz/internal/modules/appointments"
	"hugo-automotriz/internal/modules/assistance"
	"hugo-automotriz/internal/modules/drivers"
	"hugo-automotriz/internal/modules/reviews"
	"hugo-automotriz/internal/modules/workshops"
	"hugo-automotriz/internal/observability"
	"hugo-automotriz/pkg/notify"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}
	logger := logging.NewLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("database connect failed", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	views := cache.ViewCache(cache.Noop{})
	if cfg.RedisAddr != "" {
		views = cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword)
	}

	var notifier notify.ServiceInterface = notify.Noop{}
	if cfg.NotifyFromEmail != "" {
		ses, err := notify.NewSESService(ctx, cfg.AWSRegion, cfg.NotifyFromEmail)
		if err != nil {
			logger.Warn("ses disabled", "error", err)
		} else {
			notifier = ses
		}
	}

	worker := ai.NewWorkerClient(cfg.AIWorkerURL)

	driverRepo := drivers.NewRepository(pool)
	driverSvc := drivers.NewService(driverRepo, views)
	assistanceSvc := assistance.NewService(assistance.NewRepository(pool), views)
	workshopSvc := workshops.NewService(workshops.NewRepository(pool), worker)
	appointmentSvc := appointments.NewService(appointments.NewRepository(pool), notifier, views, logger)
	reviewSvc := reviews.NewService(reviews.NewRepository(pool), views)
	aiSvc := ai.NewService(ai.NewRepository(pool), worker, logger)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(observability.Middleware())
	if cfg.ClientOrigin != "" {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: []string{cfg.ClientOrigin},
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		}))
	}

	e.GET("/healthz", func(c echo.Context) error {
		if err := pool.Ping(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "down"})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api")
	api.Use(auth.Middleware(cfg.JWTSecret, driverRepo))

	drivers.NewHandler(driverSvc).RegisterRoutes(api)
	assistance.NewHandler(assistanceSvc).RegisterRoutes(api)
	workshops.NewHandler(workshopSvc).RegisterRoutes(api)
	appointments.NewHandler(appointmentSvc).RegisterRoutes(api)
	reviews.NewHandler(reviewSvc).RegisterRoutes(api)
	ai.NewHandler(aiSvc).RegisterRoutes(api)

	go func() {
		logger.Info("server listening", "port", cfg.ServerPort)
		if err := e.Start(":" + cfg.ServerPort); err != nil && err != http.ErrServerClosed {
			logger.Error("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
	}
}
