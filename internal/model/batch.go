package model

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"tradeshifts/internal/config"
	"tradeshifts/internal/dataload"
)

// RunBatch runs the full pipeline for several crops in parallel, one
// independent Model per crop. The first failure cancels the remaining runs.
func RunBatch(ctx context.Context, cfg *config.Config, provider dataload.Provider, crops []string, year int, logger *slog.Logger) (map[string]*Model, error) {
	if logger == nil {
		logger = slog.Default()
	}

	models := make([]*Model, len(crops))
	g, ctx := errgroup.WithContext(ctx)
	for i, crop := range crops {
		i, crop := i, crop
		g.Go(func() error {
			m := New(cfg, provider, logger)
			if err := m.Run(ctx, crop, year); err != nil {
				return fmt.Errorf("crop %s: %w", crop, err)
			}
			models[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byCrop := make(map[string]*Model, len(crops))
	for i, crop := range crops {
		byCrop[crop] = models[i]
	}
	return byCrop, nil
}
