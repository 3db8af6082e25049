package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/danielhkuo/calorie-tracker/cliparse"
	"github.com/danielhkuo/calorie-tracker/db"
	"github.com/danielhkuo/calorie-tracker/llm"
	"github.com/danielhkuo/calorie-tracker/logging"
	"github.com/danielhkuo/calorie-tracker/router"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "calorie-tracker:", err)
		os.Exit(1)
	}
}

func run() error {
	// Parse configuration
	if err := cliparse.LoadEnvFile(".env"); err != nil {
		return err
	}
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		return fmt.Errorf("error parsing flags: %w", err)
	}

	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dialect, err := db.ParseDialect(cfg.DatabaseType)
	if err != nil {
		return err
	}

	// Open the store and create the schema
	store, err := db.Open(ctx, dialect, cfg.DatabaseURL, db.WithLogger(log))
	if err != nil {
		log.Error("database setup failed", zap.Error(err))
		return err
	}
	defer store.Close()

	client := llm.NewClient(llm.ClientConfig{
		BaseURL: cfg.LLMBaseURL,
		Timeout: cfg.LLMTimeout,
		Referer: cfg.AppReferer,
		Title:   cfg.AppTitle,
	})
	gateway := llm.NewGateway(client, cfg.LLMModel, log)

	// Create router
	mux := router.NewRouter(store, gateway, cfg, log)

	// Create server
	server := http.Server{
		Handler:           router.Wrap(mux, log),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		// Wait for Ctrl-C or SIGTERM
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Warn("graceful shutdown failed", zap.Error(err))
		}
	}()

	// Start server
	log.Info("listening",
		zap.Int("port", cfg.Port),
		zap.String("database", cfg.DatabaseType),
		zap.String("model", cfg.LLMModel),
		zap.Bool("server_api_key", cfg.LLMAPIKey != ""),
	)
	err = server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server closed", zap.Error(err))
		return err
	}
	log.Info("server closed")
	return nil
}
