package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/safepaws-ai/safepaws-backend/internal/api"
	"github.com/safepaws-ai/safepaws-backend/internal/classifier"
	"github.com/safepaws-ai/safepaws-backend/internal/config"
	"github.com/safepaws-ai/safepaws-backend/internal/docstore"
	"github.com/safepaws-ai/safepaws-backend/internal/geo"
	"github.com/safepaws-ai/safepaws-backend/internal/notify"
	"github.com/safepaws-ai/safepaws-backend/internal/payments"
	"github.com/safepaws-ai/safepaws-backend/internal/store"
	"github.com/safepaws-ai/safepaws-backend/internal/worker"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := newLogger(cfg.Env)
	slog.SetDefault(logger)

	backend, err := openBackend(cfg)
	if err != nil {
		return err
	}
	defer backend.Close()

	st := store.New(backend)
	if err := st.EnsureAdmin(); err != nil {
		return err
	}

	geoClient := geo.NewClient(cfg.NominatimURL, cfg.OSRMURL)

	var cls classifier.Classifier
	if cfg.ClassifierURL != "" {
		cls = classifier.NewHTTPClassifier(cfg.ClassifierURL)
	} else {
		logger.Warn("CLASSIFIER_URL not set, disease detection disabled")
	}

	var payClient payments.Client
	if cfg.StripeSecretKey != "" {
		payClient = payments.NewStripeClient(cfg.StripeSecretKey)
	} else {
		logger.Warn("STRIPE_SECRET_KEY not set, donations disabled")
	}

	var mailer notify.EmailSender = notify.Noop{}
	if cfg.SendGridAPIKey != "" {
		mailer = notify.NewSendGridClient(cfg.SendGridAPIKey, cfg.EmailFromAddr, cfg.EmailFromName)
	} else {
		logger.Warn("SENDGRID_API_KEY not set, alert emails run in demo mode")
	}

	var sms notify.SMSSender = notify.Noop{}
	if cfg.TwilioSID != "" {
		sms = notify.NewTwilioClient(cfg.TwilioSID, cfg.TwilioToken, cfg.TwilioPhone)
	} else {
		logger.Warn("TWILIO_SID not set, alert SMS runs in demo mode")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shelter := geo.Point{Lat: cfg.ShelterLat, Lon: cfg.ShelterLon}
	job := worker.NewJob(st, geoClient, mailer, sms, shelter, logger)
	runner := worker.NewRunner(job, st, worker.RunnerConfig{
		Workers:      cfg.WorkerCount,
		PollInterval: cfg.PollInterval,
		JobTimeout:   cfg.JobTimeout,
		MaxRetries:   cfg.MaxRetries,
	}, logger)

	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		runner.Start(ctx)
	}()

	server := api.NewServer(st, geoClient, cls, payClient, runner, cfg.StripeWebhookSecret, logger)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           server.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", httpServer.Addr, "env", cfg.Env, "backend", cfg.StoreBackend)
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "error", err)
	}
	<-workerDone

	return nil
}

// newLogger returns JSON logs in production, human-readable text elsewhere.
func newLogger(env string) *slog.Logger {
	if env == "production" {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// openBackend picks the flat-file store or the transactional sqlite store.
func openBackend(cfg *config.Config) (docstore.Backend, error) {
	if cfg.StoreBackend == config.BackendSQLite {
		return docstore.OpenSQLite(cfg.SQLitePath)
	}
	return docstore.Open(cfg.DataDir)
}
