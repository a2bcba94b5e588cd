package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"eye-diagnosis-api/internal/config"
	"eye-diagnosis-api/internal/diagnosis"
	"eye-diagnosis-api/internal/knowledge"
	"eye-diagnosis-api/internal/platform/logger"
)

// app holds the dependencies shared by commands.
type app struct {
	cfg *config.Config
	log *logrus.Entry
	kb  *knowledge.Base
	svc diagnosis.Service
}

// newApp loads configuration and the catalog. Any failure here is fatal for the command:
// no prediction is ever served from an invalid catalog.
func newApp(ctx context.Context, logOut io.Writer, opts func(*diagnosis.Options)) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	log := logger.New(logOut, cfg.LogLevel, cfg.LogFormat)

	kb, err := loadCatalog(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("catalog (%s): %w", cfg.CatalogSource, err)
	}
	log.WithFields(logrus.Fields{
		"source":     cfg.CatalogSource,
		"conditions": kb.Len(),
	}).Info("catalog loaded")
	for i, w := range kb.Weights() {
		if w == 0 {
			log.WithField("condition", kb.Condition(i).Name).Warn("condition has zero weight and will never be predicted")
		}
	}

	predictOpts := cfg.PredictOptions()
	if opts != nil {
		opts(&predictOpts)
	}
	svc, err := diagnosis.NewService(kb, newSource(cfg.Seed), predictOpts)
	if err != nil {
		return nil, err
	}

	return &app{cfg: cfg, log: log, kb: kb, svc: svc}, nil
}

func loadCatalog(ctx context.Context, cfg *config.Config) (*knowledge.Base, error) {
	switch cfg.CatalogSource {
	case config.SourceFile:
		return knowledge.LoadFile(cfg.CatalogFile)
	case config.SourcePostgres:
		return knowledge.LoadPostgres(ctx, cfg.DatabaseURL, cfg.MigrationsURL)
	default:
		return knowledge.Builtin()
	}
}

func newSource(seed uint64) diagnosis.Source {
	if seed == 0 {
		return diagnosis.NewSource()
	}
	return diagnosis.NewSeededSource(seed)
}
