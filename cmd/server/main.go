package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/kvolkov/linejudge/internal/api"
	"github.com/kvolkov/linejudge/internal/catalog"
	"github.com/kvolkov/linejudge/internal/config"
	"github.com/kvolkov/linejudge/internal/frames"
	"github.com/kvolkov/linejudge/internal/logging"
	"github.com/kvolkov/linejudge/internal/session"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Invalid configuration: ", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatal("Failed to initialize logger: ", err)
	}
	defer logger.Sync()

	db, err := catalog.NewDB(cfg.DBPath)
	if err != nil {
		logger.Fatal("Failed to open catalog database", zap.Error(err))
	}
	defer db.Close()

	extractor, err := frames.NewExtractor(cfg.TempDir, cfg.JPEGQuality, logger)
	if err != nil {
		logger.Fatal("Failed to initialize frame extractor", zap.Error(err))
	}
	defer extractor.Cleanup()

	sess := session.New(cfg.DefaultFPS)
	if cfg.LibraryDir != "" {
		if err := sess.SelectLibrary(cfg.LibraryDir); err != nil {
			logger.Warn("preconfigured library directory unusable", zap.Error(err))
		}
	}
	if cfg.OutputDir != "" {
		if err := sess.SelectOutput(cfg.OutputDir); err != nil {
			logger.Warn("preconfigured output directory unusable", zap.Error(err))
		}
	}

	app := &api.App{
		Logger:    logger,
		Session:   sess,
		Videos:    catalog.NewVideoRepository(db),
		Extractor: extractor,
	}

	router := api.NewRouter(app)

	logger.Info("server starting",
		zap.Int("port", cfg.Port),
		zap.String("library_dir", cfg.LibraryDir),
		zap.String("output_dir", cfg.OutputDir),
		zap.Float64("fps", cfg.DefaultFPS))

	if err := http.ListenAndServe(fmt.Sprintf(":%d", cfg.Port), router); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
