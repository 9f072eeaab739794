package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/wavewatch/surfcast/internal/api/http"
	"github.com/wavewatch/surfcast/internal/config"
	"github.com/wavewatch/surfcast/internal/scheduler"
	"github.com/wavewatch/surfcast/internal/store"
	"github.com/wavewatch/surfcast/internal/surf"
	"github.com/wavewatch/surfcast/internal/surf/narrative"
	"github.com/wavewatch/surfcast/internal/surf/providers"
)

func main() {
	// Load configuration (godotenv handled inside).
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// In-memory report cache with configured retention.
	reportStore := store.NewMemoryStore(cfg.CacheMaxReports, cfg.CacheTTL)

	// Provider clients with resilience (backoff + circuit breaker).
	marine := providers.NewStormglassClient(httpClient, cfg.StormglassAPIKey)
	tide := providers.NewNOAATideClient(httpClient)

	// Narrative generation is optional; without a key every report carries
	// the deterministic fallback narrative.
	var narrator surf.Narrator
	if cfg.OpenAIAPIKey != "" {
		n, err := narrative.NewClient(cfg.OpenAIAPIKey, "", cfg.OpenAIModel)
		if err != nil {
			log.Fatalf("failed to create narrative client: %v", err)
		}
		narrator = n
	} else {
		log.Println("INFO: OPENAI_API_KEY not set; reports will use fallback narratives")
	}

	resolver := surf.NewLocationResolver(cfg.GeocoderAPIKey)

	// Core service orchestrating the pipeline.
	service := surf.NewService(resolver, marine, tide, narrator, reportStore)
	service.SetTopWindows(cfg.TopWindows)
	service.SetNarrativeTimeout(cfg.NarrativeTimeout)

	// Scheduler that pre-warms reports for configured beaches.
	sched := scheduler.New(cfg.PrewarmBeaches, cfg.PrewarmInterval, service)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "surfcast",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          120 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "surfcast",
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, service)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
