package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eladbarak/snapcal/internal/agent/action"
	"github.com/eladbarak/snapcal/internal/agent/summary"
	"github.com/eladbarak/snapcal/internal/agent/vision"
	"github.com/eladbarak/snapcal/internal/committer"
	"github.com/eladbarak/snapcal/internal/config"
	"github.com/eladbarak/snapcal/internal/database"
	"github.com/eladbarak/snapcal/internal/gcal"
	"github.com/eladbarak/snapcal/internal/notify"
	"github.com/eladbarak/snapcal/internal/orchestrator"
	"github.com/eladbarak/snapcal/internal/server"
)

func main() {
	cfg := config.LoadFromEnv()

	if cfg.AnthropicAPIKey == "" {
		fatal("configuration", fmt.Errorf("ANTHROPIC_API_KEY is required"))
	}

	db, err := database.New(cfg.DBPath)
	if err != nil {
		fatal("creating database", err)
	}
	defer db.Close()

	gcalClient := initGCal(cfg)

	visionAgent := vision.NewAgent(vision.Config{
		APIKey:      cfg.AnthropicAPIKey,
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
	})
	actionAgent := action.NewAgent(action.Config{
		APIKey:      cfg.AnthropicAPIKey,
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
	})
	summaryAgent := summary.NewAgent(summary.Config{
		APIKey:      cfg.AnthropicAPIKey,
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
	})
	fmt.Println("Extraction, decision and summary agents configured")

	eventCommitter := committer.New(gcalClient, cfg.CalendarID, cfg.Timezone)
	notifyService := initNotifyService(cfg)

	pipeline := orchestrator.New(db, visionAgent, actionAgent, eventCommitter, summaryAgent, notifyService)

	srv := server.New(server.ServerConfig{
		DB:         db,
		Pipeline:   pipeline,
		GCalClient: gcalClient,
		Port:       cfg.HTTPPort,
	})
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			fmt.Fprintf(os.Stderr, "HTTP server error: %v\n", err)
		}
	}()

	waitForShutdown(srv)
}

func initGCal(cfg *config.Config) *gcal.Client {
	gcalClient, err := gcal.NewClient(cfg.GoogleCredentialsFile, cfg.GoogleTokenFile)
	if err != nil {
		fatal("creating Google Calendar client", err)
	}

	if gcalClient.IsAuthenticated() {
		fmt.Println("Google Calendar client authenticated")
	} else {
		fmt.Println("Google Calendar not authenticated - visit /api/gcal/status for the auth URL")
	}

	return gcalClient
}

func initNotifyService(cfg *config.Config) *notify.Service {
	var emailNotifier notify.Notifier
	if cfg.ResendAPIKey != "" {
		emailNotifier = notify.NewResendNotifier(cfg.ResendAPIKey, cfg.EmailFrom)
		if emailNotifier != nil && emailNotifier.IsConfigured() {
			fmt.Println("Email confirmation service configured (Resend)")
		}
	}

	return notify.NewService(emailNotifier, cfg.NotifyEmail)
}

func fatal(context string, err error) {
	fmt.Fprintf(os.Stderr, "Error %s: %v\n", context, err)
	os.Exit(1)
}

func waitForShutdown(srv *server.Server) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	fmt.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	srv.Shutdown(ctx)
}
