package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/vishakhaja/Transaction-Minimiser-proj/internal/api"
	"github.com/vishakhaja/Transaction-Minimiser-proj/internal/bot"
	"github.com/vishakhaja/Transaction-Minimiser-proj/internal/config"
	"github.com/vishakhaja/Transaction-Minimiser-proj/internal/logging"
	"github.com/vishakhaja/Transaction-Minimiser-proj/internal/session"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	sessions := session.NewService(logger.Named("session"), cfg.SettleOrder)

	// Initialize API server
	apiServer := api.New(cfg, sessions, logger.Named("api"))

	// Discord is optional; the HTTP API works on its own
	if cfg.DiscordToken != "" {
		discordBot, err := bot.New(cfg.DiscordToken, sessions, logger.Named("bot"), cfg.ReminderTick, cfg.WebUIBaseURL)
		if err != nil {
			logger.Fatal("failed to create discord bot", zap.Error(err))
		}
		if err := discordBot.Start(); err != nil {
			logger.Fatal("failed to start discord bot", zap.Error(err))
		}
		defer discordBot.Stop()
	} else {
		logger.Warn("DISCORD_TOKEN not set, running HTTP API only")
	}

	// Start API server
	go func() {
		if err := apiServer.Start(); err != nil {
			logger.Error("api server error", zap.Error(err))
		}
	}()

	// Wait for signal to stop
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctx); err != nil {
		logger.Warn("api shutdown", zap.Error(err))
	}
}
