package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "lingua-bot/cmd/linguabot/docs"
	"lingua-bot/internal/adapter/telegram"
	"lingua-bot/internal/config"
	"lingua-bot/internal/handler"
	"lingua-bot/internal/logger"
	"lingua-bot/internal/middleware"
	"lingua-bot/internal/scheduler"
	"lingua-bot/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the bot, the daily reminder and the ops API",
	RunE:  runServe,
}

// requestLogger is a middleware that logs HTTP requests
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		logger.Get().Info("HTTP Request",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("duration", time.Since(start)),
			zap.String("ip", c.IP()),
		)
		return err
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	appLogger := logger.Get()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, appLogger)
	if err != nil {
		return err
	}
	defer a.Close()

	hour, minute, err := config.ParseClock(cfg.Broadcast.Time)
	if err != nil {
		return err
	}
	loc, err := cfg.Broadcast.TimeLocation()
	if err != nil {
		return err
	}
	daily, err := scheduler.NewDailyAt(hour, minute, loc)
	if err != nil {
		return err
	}
	sched := scheduler.New(appLogger.Named("scheduler"))
	if err := sched.Register(service.NewBroadcastJob(a.broadcast, a.locker), daily); err != nil {
		return err
	}
	appLogger.Info("Daily reminder scheduled", zap.String("schedule", daily.String()))

	bot := telegram.NewBot(a.botAPI, a.botAPI, a.machine, a.presenter,
		cfg.Telegram.Workers, cfg.Telegram.PollTimeout, appLogger.Named("telegram"))

	var authService service.AuthService
	if cfg.Admin.JWTSecret != "" {
		authService, err = service.NewAuthService(cfg.Admin.JWTSecret)
		if err != nil {
			return err
		}
	} else {
		appLogger.Warn("ADMIN_JWT_SECRET is not set, admin endpoints are disabled")
	}

	server := fiber.New(fiber.Config{
		ReadTimeout:           cfg.Server.ReadTimeout,
		WriteTimeout:          cfg.Server.WriteTimeout,
		IdleTimeout:           cfg.Server.ReadTimeout,
		ErrorHandler:          middleware.ErrorHandler(),
		DisableStartupMessage: true,
	})
	server.Use(recover.New())
	server.Use(requestLogger())
	server.Get("/swagger/*", swagger.HandlerDefault)
	handler.RegisterRoutes(server,
		handler.NewHealthHandler(a.healthChecks()),
		handler.NewAdminHandler(a.broadcast, a.stores.users, a.stores.plans, a.stores.essays),
		authService)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return bot.Run(gctx) })
	g.Go(func() error { return sched.Run(gctx) })
	g.Go(func() error {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		appLogger.Info("Ops API listening", zap.String("addr", addr))
		return server.Listen(addr)
	})
	g.Go(func() error {
		<-gctx.Done()
		appLogger.Info("Shutting down")
		return server.ShutdownWithTimeout(10 * time.Second)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		appLogger.Error("Server stopped with error", zap.Error(err))
		return err
	}
	appLogger.Info("Server exited gracefully")
	return nil
}
