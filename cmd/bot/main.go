package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"homework_status_bot/internal/app"
	"homework_status_bot/internal/infra/config"
	ihttp "homework_status_bot/internal/infra/http"
	"homework_status_bot/internal/infra/logger"
	"homework_status_bot/internal/infra/metrics"
	"homework_status_bot/internal/infra/practicum"
	"homework_status_bot/internal/infra/scheduler"
	"homework_status_bot/internal/infra/telegram"

	"github.com/sirupsen/logrus"
)

func main() {
	fmt.Println("Homework Status Bot starting...")

	cfg, err := config.Load()
	if err != nil {
		// The file logger needs configuration, so this goes to stderr only.
		logrus.WithError(err).Fatal("Could not load application configuration")
	}

	log, logCloser := logger.New(cfg)
	defer logCloser.Close()
	log.WithFields(logrus.Fields{
		"log_level":   cfg.LogLevel,
		"environment": cfg.Environment,
		"endpoint":    cfg.PracticumURL,
		"interval":    cfg.RetryInterval.String(),
		"chat_id":     cfg.TelegramChatID,
	}).Info("Configuration loaded")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize Telegram Bot
	bot, err := telegram.NewBot(telegram.BotOptions{Token: cfg.TelegramToken, Timeout: cfg.HTTPTimeout})
	if err != nil {
		log.WithError(err).Fatal("Could not create Telegram bot")
	}
	telegramClient := telegram.NewTelebotAdapter(bot)
	log.Info("Telegram client initialized.")

	statusClient := practicum.NewClient(cfg.PracticumURL, cfg.PracticumToken, cfg.HTTPTimeout)

	pollService := app.NewPollService(
		statusClient,
		telegramClient,
		cfg.TelegramChatID,
		app.InitialCursor(time.Now(), cfg.RetryInterval),
		log,
	)
	log.WithField("cursor", pollService.Cursor()).Info("Poll service initialized.")

	metrics.MustRegister()
	var httpServer *ihttp.Server
	if cfg.MetricsAddr != "" {
		httpServer = ihttp.NewServer(cfg.MetricsAddr, pollService, log)
		go func() {
			if err := httpServer.Start(); err != nil {
				log.WithError(err).Error("HTTP server stopped")
			}
		}()
	}

	// Graceful shutdown. Registered before the first poll, which runs synchronously in Start.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-quit
		log.WithField("signal", sig.String()).Info("Shutting down application...")
		cancel() // Aborts the in-flight poll
	}()

	pollScheduler := scheduler.NewPollScheduler(pollService, log, cfg.RetryInterval)
	if err := pollScheduler.Start(ctx); err != nil {
		log.WithError(err).Fatal("Could not start poll scheduler")
	}

	<-ctx.Done() // Block until a signal is received

	pollScheduler.Stop()
	if httpServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("HTTP server shutdown failed")
		}
	}
	log.Info("Application shut down gracefully.")
}
