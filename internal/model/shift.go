package model

import (
	"context"
	"log/slog"

	"tradeshifts/internal/community"
	"tradeshifts/internal/correction"
	apperrors "tradeshifts/internal/errors"
	"tradeshifts/internal/tradegraph"
)

// ShiftResult holds the replayed pipeline artefacts for one scenario.
type ShiftResult struct {
	Scenario   *Scenario
	Correction *correction.Result
	Graph      *tradegraph.Graph
	Partition  community.Partition
}

// Shift replays the pipeline with the scenario's yield factors applied to
// production. The baseline artefacts are left untouched, so several
// scenarios can run against the same loaded model.
func (m *Model) Shift(ctx context.Context, sc *Scenario) (*ShiftResult, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	if !m.state.AtLeast(StateLoaded) {
		m.mu.RUnlock()
		return nil, apperrors.NewStateError("shift requires a loaded dataset")
	}
	flows := m.flows
	production := m.production
	crop, year := m.crop, m.year
	digest := m.dataDigest
	params := correction.Params{
		IterationCap: m.cfg.Model.IterationCap,
		Tolerance:    m.cfg.Model.Tolerance,
	}
	threshold := m.cfg.Model.FlowThreshold
	m.mu.RUnlock()

	if err := sc.checkMembership(production); err != nil {
		return nil, err
	}

	m.logger.Info("running scenario",
		slog.String("scenario", sc.Name),
		slog.Int("factors", len(sc.YieldFactors)))

	scaled := sc.apply(production)

	var result *correction.Result
	if cached, ok := m.cache.Get(crop, year, params, digest, sc.fingerprint()); ok {
		result = &correction.Result{Flows: cached, Converged: true}
	} else {
		var err error
		result, err = m.corrector.Correct(ctx, flows, scaled)
		if err != nil {
			return nil, err
		}
		if result.Converged {
			if err := m.cache.Put(crop, year, params, digest, sc.fingerprint(), result.Flows); err != nil {
				m.logger.Warn("cannot cache scenario flows",
					slog.String("scenario", sc.Name),
					slog.String("error", err.Error()))
			}
		}
	}

	g, err := tradegraph.Build(result.Flows, scaled, threshold)
	if err != nil {
		return nil, err
	}

	return &ShiftResult{
		Scenario:   sc,
		Correction: result,
		Graph:      g,
		Partition:  m.detector.Detect(ctx, g),
	}, nil
}
