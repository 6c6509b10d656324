package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"tablediff/core/loader"
	"tablediff/core/logger"
	"tablediff/core/middleware/auth"
	"tablediff/core/middleware/rayid"
	"tablediff/feature/comparison"
	"tablediff/feature/connections"
	"tablediff/feature/dashboard"
	"tablediff/feature/schedules"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "tablediff/docs/swagger"
)

// @title Table Diff API
// @version 1.0
// @description API for comparing tables across databases and reporting field level differences.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the tablediff server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		env, err := setup()
		if err != nil {
			log.Fatalf("Failed to initialize: %v", err)
		}
		logg := env.logger
		zap.ReplaceGlobals(logg)

		publisher, err := env.publisher()
		if err != nil {
			logg.Fatal("Failed to configure export publishing", zap.Error(err))
		}
		if publisher == nil {
			logg.Info("Export publishing disabled")
		}

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
		})

		mgr := loader.NewManager(logg)
		mgr.Register(connections.NewFeature(env.db, env.runner.Cache(), logg))
		mgr.Register(comparison.NewFeature(env.runner, env.store, publisher, env.sink, logg))
		mgr.Register(dashboard.NewFeature(env.store, logg))
		scheduler := schedules.NewFeature(env.db, env.runner, env.cfg.Schedule, logg)
		mgr.Register(scheduler)

		// RayID first so every later log line carries it
		app.Use(rayid.New())

		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		app.Get("/swagger/*", swagger.HandlerDefault)

		app.Use(auth.New(auth.Config{ApiKey: env.cfg.Server.ApiKey}))

		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		go func() {
			logg.Info("Starting server", zap.String("port", env.cfg.Server.Port))
			if err := app.Listen(env.cfg.Server.Address()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), env.cfg.Server.ShutdownTimeout())
		defer cancel()
		if err := app.ShutdownWithContext(ctx); err != nil {
			logg.Warn("HTTP shutdown incomplete", zap.Error(err))
		}
		if err := scheduler.Service().Stop(ctx); err != nil {
			logg.Warn("Scheduler shutdown incomplete", zap.Error(err))
		}
		// In-flight runs are cancelled and recorded as failed before the database closes.
		env.close(ctx)
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
