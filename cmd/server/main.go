package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/clintrovert/sarek/internal/agent"
	"github.com/clintrovert/sarek/internal/config"
	"github.com/clintrovert/sarek/internal/github"
	"github.com/clintrovert/sarek/internal/jira"
	"github.com/clintrovert/sarek/internal/webhook"
)

func main() {
	// Load .env if present; real deployments use environment variables
	_ = godotenv.Load()

	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		panic(fmt.Sprintf("failed to create logger: %v", err))
	}
	defer logger.Sync()

	cfg := config.FromEnv()

	// Optional GitHub verifier for ticket-supplied repo overrides
	var verifier agent.RepoVerifier
	if cfg.GitHubToken != "" {
		verifier = github.NewVerifier(cfg.GitHubToken, logger)
	}

	// Create agent launcher
	launcher := agent.NewLauncher(agent.Options{
		APIURL:      cfg.CursorAPIURL,
		APIKey:      cfg.CursorAPIKey,
		DefaultRepo: cfg.CursorRepo,
		Ref:         cfg.CursorRef,
		Verifier:    verifier,
	}, logger)

	// Optional Jira client for launch comment-back
	var commenter webhook.Commenter
	if cfg.JiraBaseURL != "" && cfg.JiraUsername != "" && cfg.JiraAPIToken != "" {
		jiraClient, err := jira.NewClient(cfg.JiraBaseURL, cfg.JiraUsername, cfg.JiraAPIToken, logger)
		if err != nil {
			logger.Fatal("failed to create jira client", zap.Error(err))
		}
		commenter = jiraClient
	}

	// Create webhook handler
	store := webhook.NewDedupeStore(cfg.DedupeCapacity)
	handler := webhook.NewHandler(webhook.HandlerOptions{
		Secret:      cfg.JiraWebhookSecret,
		JiraBaseURL: cfg.JiraBaseURL,
		RepoField:   cfg.JiraGHRepoField,
		Commenter:   commenter,
	}, store, launcher, logger)

	// Setup routes
	router := chi.NewRouter()
	handler.RegisterRoutes(router)
	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"hello": "world"}`))
	})
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		logger.Info("starting webhook server", zap.String("address", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	server.Shutdown(shutdownCtx)

	logger.Info("shutdown complete")
}
