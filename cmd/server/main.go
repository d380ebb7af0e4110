package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/royriv3r/fxtwitch/internal/api"
	"github.com/royriv3r/fxtwitch/internal/api/handler"
	"github.com/royriv3r/fxtwitch/internal/config"
	"github.com/royriv3r/fxtwitch/internal/service"
	"github.com/royriv3r/fxtwitch/pkg/twitch"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// Parse flags
	configPath := flag.String("config", "", "Path to config file")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("fxtwitch %s (built %s)\n", Version, BuildTime)
		os.Exit(0)
	}

	// A local .env is optional; environment variables win either way.
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	level := slog.LevelWarn
	if cfg.Logging.Enabled {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	logger.Info("starting fxtwitch",
		"version", Version,
		"build_time", BuildTime,
	)

	// Initialize dependencies
	tokens := twitch.NewClientCredentialsTokenSource(twitch.ClientCredentialsConfig{
		TokenURL:     cfg.Twitch.TokenURL,
		ClientID:     cfg.Twitch.ClientID,
		ClientSecret: cfg.Twitch.ClientSecret,
		HTTPTimeout:  cfg.Twitch.Timeout,
	})
	twitchClient := twitch.NewClient(tokens, twitch.ClientConfig{
		GQLURL:  cfg.Twitch.GQLURL,
		Timeout: cfg.Twitch.Timeout,
	})

	// Initialize services
	clipSvc := service.NewClipService(twitchClient, logger)

	// Initialize handlers
	clipHandler := handler.NewClipHandler(clipSvc, logger)
	healthHandler := handler.NewHealthHandler()

	// Setup router
	router := api.NewRouter(clipHandler, healthHandler, cfg.Server.HomepageURL)

	// Setup HTTP server
	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.Info("starting HTTP server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
