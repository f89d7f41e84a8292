package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/blinkit-analytics/backend/internal/assistant"
	"github.com/blinkit-analytics/backend/internal/config"
	"github.com/blinkit-analytics/backend/internal/dataset"
	"github.com/blinkit-analytics/backend/internal/db"
	"github.com/blinkit-analytics/backend/internal/estimator"
	httpapi "github.com/blinkit-analytics/backend/internal/http"
	"github.com/blinkit-analytics/backend/internal/model"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	zerolog.TimeFieldFormat = time.RFC3339
	level, _ := zerolog.ParseLevel(cfg.LogLevel)
	logger := log.Level(level).With().Str("service", "delivery-insights").Logger()

	ctx := context.Background()

	var store *db.Store
	if cfg.DatabaseURL != "" {
		store, err = db.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect db")
		}
		defer store.Close()
	}

	ds, err := loadDataset(ctx, cfg, store)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load reference dataset")
	}
	logger.Info().Int("rows", len(ds.Rows)).Msg("reference dataset loaded")

	defaults, err := dataset.ComputeDefaults(ds)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to compute feature defaults")
	}

	var predictor model.Predictor
	if cfg.ModelURL == "" {
		predictor = model.MockPredictor{ModelVersion: "mock-v1"}
		logger.Info().Msg("using mock delay model")
	} else {
		// Schema check happens here; a model trained on different columns
		// stops the process before it can serve a single bad estimate.
		predictor, err = model.NewHTTPPredictor(ctx, cfg.ModelURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("model schema validation failed")
		}
	}

	est := &estimator.Estimator{
		Dataset:  ds,
		Defaults: defaults,
		Model:    predictor,
		Logger:   logger,
	}

	var chat assistant.Assistant
	if cfg.AssistantBaseURL != "" {
		chat = &assistant.OpenAICompatAssistant{
			BaseURL: cfg.AssistantBaseURL,
			Model:   cfg.AssistantModel,
			APIKey:  cfg.AssistantAPIKey,
		}
	}
	retriever := assistant.NewRetriever(ds.Rows)

	router := httpapi.Router(cfg, store, est, chat, retriever, logger)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Msg("server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctxShutdown)
	logger.Info().Msg("server stopped")
}

// loadDataset prefers the orders table when a database is configured and
// falls back to the CSV export otherwise.
func loadDataset(ctx context.Context, cfg config.Config, store *db.Store) (*dataset.Dataset, error) {
	if store != nil {
		rows, err := store.LoadOrders(ctx)
		if err == nil && len(rows) > 0 {
			return dataset.New(rows, dataset.AllColumns), nil
		}
		if err != nil {
			return nil, err
		}
		// Empty table: fall through to the CSV so a fresh deployment still
		// comes up before the first import.
	}
	return dataset.Load(cfg.DatasetPath)
}
