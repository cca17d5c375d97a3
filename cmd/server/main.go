// Command server is the entry point for the My Film Friends API.
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/1willcobb/myfilmfriends-server/internal/auth"
	"github.com/1willcobb/myfilmfriends-server/internal/config"
	"github.com/1willcobb/myfilmfriends-server/internal/models"
	"github.com/1willcobb/myfilmfriends-server/internal/observability"
	"github.com/1willcobb/myfilmfriends-server/internal/server"

	"github.com/gofiber/fiber/v2"
)

const sessionSweepInterval = 15 * time.Minute

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	observability.Logger = observability.NewLogger(cfg.Env)

	shutdownTracing, err := observability.InitTracing(observability.TracingConfig{
		ServiceName:  "myfilmfriends-api",
		Environment:  cfg.Env,
		Enabled:      cfg.TracingEnabled,
		Exporter:     cfg.TracingExporter,
		OTLPEndpoint: cfg.OTLPEndpoint,
		SamplerRatio: 1,
	})
	if err != nil {
		log.Fatalf("Failed to initialize tracing: %v", err)
	}

	srv, err := server.NewServer(cfg)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	app := fiber.New(fiber.Config{
		AppName:   "My Film Friends API",
		BodyLimit: 4 * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				code := models.CodeInternal
				if fe.Code == fiber.StatusNotFound {
					code = models.CodeNotFound
				}
				return c.Status(fe.Code).JSON(models.ErrorResponse{Message: fe.Message, Code: code})
			}
			observability.Logger.ErrorContext(c.UserContext(), "unhandled error", "path", c.Path(), "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{
				Message: "Internal server error",
				Code:    models.CodeInternal,
			})
		},
	})

	srv.SetupMiddleware(app)
	srv.SetupRoutes(app)

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	if store, ok := srv.Sessions().(*auth.DBSessionStore); ok {
		go sweepSessions(sweepCtx, store)
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		stopSweep()

		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Server resource shutdown error: %v", err)
		}
		if err := app.ShutdownWithContext(ctx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
		if err := shutdownTracing(ctx); err != nil {
			log.Printf("Tracing shutdown error: %v", err)
		}
	}()

	log.Printf("Server starting on port %s...", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}

// sweepSessions deletes expired database sessions until ctx ends.
func sweepSessions(ctx context.Context, store *auth.DBSessionStore) {
	ticker := time.NewTicker(sessionSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := store.Sweep(ctx)
			if err != nil {
				observability.Logger.Warn("session sweep failed", "error", err)
				continue
			}
			if n > 0 {
				observability.Logger.Info("swept expired sessions", "count", n)
			}
		}
	}
}
