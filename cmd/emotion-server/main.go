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

	"emodetect/internal/cache"
	"emodetect/internal/config"
	"emodetect/internal/db"
	"emodetect/internal/emotion"
	"emodetect/internal/logging"
	"emodetect/internal/mqtt"
	"emodetect/internal/polarity"
)

func main() {
	loaded := config.LoadEnvFiles("")
	cfg, err := config.LoadEmotionServerConfig()
	if err != nil {
		slog.Error("load config failed", "error", err)
		os.Exit(1)
	}
	logger := logging.New(os.Stdout, cfg.LogLevel)
	if len(loaded) == 0 {
		logger.Debug("no .env file found, using OS environment")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	scorer := emotion.NewScorer(emotion.DefaultCatalog())
	analyzer := emotion.NewAnalyzer(emotion.AnalyzerConfig{
		Detector: scorer,
		Polarity: polarity.NewScorer(),
		Logger:   logger,
	})

	var form emotion.EmotionClassifier
	switch cfg.FormClassifier {
	case config.FormClassifierLocal:
		form = emotion.NewLocalHeuristicClassifier(scorer, logger)
	default:
		form = emotion.NewRemoteServiceClassifier(emotion.NewClient(emotion.ClientConfig{
			URL:     cfg.RemoteURL,
			ModelID: cfg.RemoteModelID,
			Timeout: cfg.RemoteTimeout,
			Logger:  logger,
		}))
	}

	if cfg.ValkeyAddr != "" {
		store, err := cache.New(ctx, cache.Config{
			Addr:     cfg.ValkeyAddr,
			Password: cfg.ValkeyPassword,
			TLS:      cfg.ValkeyTLS,
		})
		if err != nil {
			logger.Error("connect valkey failed", "error", err)
			os.Exit(1)
		}
		defer store.Close()
		form = emotion.NewCachedClassifier(form, store, cfg.CacheTTL, logger)
		logger.Info("verdict cache enabled", "addr", cfg.ValkeyAddr, "ttl", cfg.CacheTTL)
	}

	srv := &server{
		cfg: serverConfig{
			ReadBodyMaxByte: cfg.ReadBodyMaxByte,
			HistoryLimit:    cfg.HistoryLimit,
		},
		analyzer: analyzer,
		form:     form,
		logger:   logger,
	}

	if cfg.DBDSN != "" {
		store, err := db.New(ctx, cfg.DBDSN)
		if err != nil {
			logger.Error("connect db failed", "error", err)
			os.Exit(1)
		}
		defer store.Close()

		if err := store.Migrate(ctx); err != nil {
			logger.Error("migrate db failed", "error", err)
			os.Exit(1)
		}
		srv.history = store
		logger.Info("analysis history enabled")
	}

	if cfg.MQTTBrokerURL != "" {
		hub := mqtt.NewHub(mqtt.HubConfig{
			BrokerURL:   cfg.MQTTBrokerURL,
			ClientID:    cfg.MQTTClientID,
			Username:    cfg.MQTTUsername,
			Password:    cfg.MQTTPassword,
			TopicPrefix: cfg.MQTTTopicPrefix,
		}, analyzer, srv, logger)
		if err := hub.Start(ctx); err != nil {
			logger.Error("start mqtt hub failed", "error", err)
			os.Exit(1)
		}
	}

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("emotion server started",
			"addr", cfg.HTTPAddr,
			"env", cfg.Env,
			"engine", emotion.Engine,
			"form_classifier", form.Name(),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			cancel()
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		logger.Info("received shutdown signal")
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown failed", "error", err)
	}
}
