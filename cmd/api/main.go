package main

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/arcanetranslator/arcane/pkg/config"
	"github.com/arcanetranslator/arcane/pkg/database"
	"github.com/arcanetranslator/arcane/pkg/gemini"
	"github.com/arcanetranslator/arcane/pkg/novels"
	"github.com/arcanetranslator/arcane/pkg/schema"
	"github.com/arcanetranslator/arcane/pkg/scraper"
	"github.com/arcanetranslator/arcane/pkg/server"
	"github.com/arcanetranslator/arcane/pkg/translation"
	"github.com/arcanetranslator/arcane/pkg/version"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/robinjoseph08/golib/signals"
)

func main() {
	ctx := context.Background()
	log := logger.New()

	log.Info("starting arcane", logger.Data{"version": version.Version})

	cfg, err := config.New()
	if err != nil {
		log.Err(err).Fatal("config error")
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Err(err).Fatal("database error")
	}

	err = schema.Initialize(ctx, db)
	if err != nil {
		log.Err(err).Fatal("schema error")
	}
	log.Info("schema initialized", logger.Data{"path": cfg.DatabaseFilePath})

	// A missing API key only disables extraction and translation.
	var provider translation.Provider
	if cfg.GeminiAPIKey == "" {
		log.Warn("GEMINI_API_KEY isn't set, extraction and translation are disabled")
		provider = translation.NewDisabledProvider("GEMINI_API_KEY is not set")
	} else {
		client, err := gemini.New(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Err(err).Fatal("gemini client error")
		}
		provider = client
	}

	collector := scraper.NewCollector(scraper.Options{
		UserAgent: cfg.ScraperUserAgent,
		Timeout:   cfg.ScraperTimeout,
	})
	svc := translation.NewService(collector, provider, novels.NewService(db), translation.Options{
		RequestsPerMinute: cfg.ProviderRequestsPerMinute,
		MaxContentRunes:   cfg.MaxContentRunes,
	})

	srv, err := server.New(cfg, db, svc, svc)
	if err != nil {
		log.Err(err).Fatal("server error")
	}

	graceful := signals.Setup()

	go func() {
		lc := net.ListenConfig{}
		listener, err := lc.Listen(ctx, "tcp", srv.Addr)
		if err != nil {
			log.Err(err).Fatal("failed to bind port")
		}
		log.Info("server started", logger.Data{"addr": listener.Addr().String()})

		err = srv.Serve(listener)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Err(err).Fatal("server stopped")
		}
		log.Info("server stopped")
	}()

	<-graceful
	log.Info("starting graceful shutdown")

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	err = srv.Shutdown(shutdownCtx)
	if err != nil {
		log.Err(err).Error("server shutdown error")
	}
	log.Info("server shutdown")

	err = db.Close()
	if err != nil {
		log.Err(err).Error("database close error")
	}
	log.Info("database closed")
}
