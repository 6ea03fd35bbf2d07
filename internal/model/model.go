package model

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"tradeshifts/internal/community"
	"tradeshifts/internal/config"
	"tradeshifts/internal/correction"
	"tradeshifts/internal/dataload"
	apperrors "tradeshifts/internal/errors"
	"tradeshifts/internal/tradegraph"
	"tradeshifts/pkg/contracts/domain"
)

// Model runs the trade-shift pipeline for one crop and year. Stages must be
// run in order; each accessor returns a state error until its stage has
// completed. A Model is safe for concurrent reads once a stage is done, but
// stage transitions must not race each other.
type Model struct {
	mu sync.RWMutex

	cfg       *config.Config
	provider  dataload.Provider
	corrector *correction.Corrector
	detector  *community.Detector
	cache     *Cache
	logger    *slog.Logger

	runID      string
	state      State
	crop       string
	year       int
	dataDigest string

	flows      []domain.TradeFlow
	production []domain.Production
	correction *correction.Result
	graph      *tradegraph.Graph
	partition  community.Partition
}

// New creates a model wired to the given data provider. The configuration
// supplies the correction parameters, the flow threshold and the community
// detection seed.
func New(cfg *config.Config, provider dataload.Provider, logger *slog.Logger) *Model {
	if logger == nil {
		logger = slog.Default()
	}
	runID := uuid.New().String()
	logger = logger.With(slog.String("run_id", runID))

	params := correction.Params{
		IterationCap: cfg.Model.IterationCap,
		Tolerance:    cfg.Model.Tolerance,
	}
	return &Model{
		cfg:       cfg,
		provider:  provider,
		corrector: correction.NewCorrector(params, logger),
		detector:  community.NewDetector(cfg.Model.Seed, logger),
		cache:     NewCache(cfg.Paths.CacheDir, logger),
		logger:    logger,
		runID:     runID,
		state:     StateUninitialized,
	}
}

// RunID returns the unique identifier of this model instance.
func (m *Model) RunID() string { return m.runID }

// State returns the stage the pipeline has reached.
func (m *Model) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Crop returns the loaded crop name.
func (m *Model) Crop() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.crop
}

// Year returns the loaded dataset year.
func (m *Model) Year() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.year
}

// Load reads the trade and production tables for a crop and year. Loading
// discards any artefacts of a previous run.
func (m *Model) Load(ctx context.Context, crop string, year int) error {
	flows, production, err := m.provider.Load(ctx, crop, year)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.crop = crop
	m.year = year
	m.flows = flows
	m.production = production
	m.dataDigest = DatasetDigest(flows, production)
	m.correction = nil
	m.graph = nil
	m.partition = community.Partition{}
	m.state = StateLoaded

	m.logger.Info("dataset loaded",
		slog.String("crop", crop),
		slog.Int("year", year),
		slog.Int("flows", len(flows)),
		slog.Int("producers", len(production)))
	return nil
}

// Correct runs the re-export correction on the loaded tables. Cached results
// are reused when the crop, year, parameters and dataset content match a
// previous run.
func (m *Model) Correct(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.state.AtLeast(StateLoaded) {
		return apperrors.NewStateError("correct requires a loaded dataset")
	}

	params := correction.Params{
		IterationCap: m.cfg.Model.IterationCap,
		Tolerance:    m.cfg.Model.Tolerance,
	}
	if flows, ok := m.cache.Get(m.crop, m.year, params, m.dataDigest, ""); ok {
		m.correction = &correction.Result{Flows: flows, Converged: true}
		m.state = StateCorrected
		return nil
	}

	result, err := m.corrector.Correct(ctx, m.flows, m.production)
	if err != nil {
		return err
	}
	if !result.Converged {
		m.logger.Warn("re-export correction did not converge",
			slog.Int("iterations", result.Iterations),
			slog.Float64("max_violation", result.MaxViolation))
	} else if err := m.cache.Put(m.crop, m.year, params, m.dataDigest, "", result.Flows); err != nil {
		m.logger.Warn("cannot cache corrected flows", slog.String("error", err.Error()))
	}

	m.correction = result
	m.state = StateCorrected
	return nil
}

// BuildGraph assembles the directed trade graph from the corrected flows,
// dropping flows at or below the configured threshold.
func (m *Model) BuildGraph() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.state.AtLeast(StateCorrected) {
		return apperrors.NewStateError("build graph requires corrected flows")
	}

	g, err := tradegraph.Build(m.correction.Flows, m.production, m.cfg.Model.FlowThreshold)
	if err != nil {
		return err
	}
	m.graph = g
	m.state = StateGraphed

	m.logger.Info("trade graph built",
		slog.Int("countries", g.NumNodes()),
		slog.Int("flows", g.NumEdges()))
	return nil
}

// PartitionCommunities detects trading communities on the built graph.
func (m *Model) PartitionCommunities(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.state.AtLeast(StateGraphed) {
		return apperrors.NewStateError("partition requires a built graph")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m.partition = m.detector.Detect(ctx, m.graph)
	m.state = StatePartitioned

	m.logger.Info("communities detected",
		slog.Int("communities", m.partition.Len()),
		slog.Float64("modularity", community.Modularity(m.graph, m.partition)))
	return nil
}

// Run executes the whole pipeline for a crop and year.
func (m *Model) Run(ctx context.Context, crop string, year int) error {
	if err := m.Load(ctx, crop, year); err != nil {
		return fmt.Errorf("load %s %d: %w", crop, year, err)
	}
	if err := m.Correct(ctx); err != nil {
		return fmt.Errorf("correct %s %d: %w", crop, year, err)
	}
	if err := m.BuildGraph(); err != nil {
		return fmt.Errorf("build graph %s %d: %w", crop, year, err)
	}
	if err := m.PartitionCommunities(ctx); err != nil {
		return fmt.Errorf("partition %s %d: %w", crop, year, err)
	}
	return nil
}

// Flows returns the loaded raw trade flows.
func (m *Model) Flows() ([]domain.TradeFlow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.state.AtLeast(StateLoaded) {
		return nil, apperrors.NewStateError("no dataset loaded")
	}
	return m.flows, nil
}

// Production returns the loaded production table.
func (m *Model) Production() ([]domain.Production, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.state.AtLeast(StateLoaded) {
		return nil, apperrors.NewStateError("no dataset loaded")
	}
	return m.production, nil
}

// Correction returns the corrected flows and convergence diagnostics.
func (m *Model) Correction() (*correction.Result, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.state.AtLeast(StateCorrected) {
		return nil, apperrors.NewStateError("correction has not run")
	}
	return m.correction, nil
}

// Graph returns the built trade graph.
func (m *Model) Graph() (*tradegraph.Graph, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.state.AtLeast(StateGraphed) {
		return nil, apperrors.NewStateError("graph has not been built")
	}
	return m.graph, nil
}

// Communities returns the detected community partition.
func (m *Model) Communities() (community.Partition, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.state.AtLeast(StatePartitioned) {
		return community.Partition{}, apperrors.NewStateError("communities have not been detected")
	}
	return m.partition, nil
}

// Reset discards all artefacts and returns the model to its initial state.
func (m *Model) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.crop = ""
	m.year = 0
	m.flows = nil
	m.production = nil
	m.dataDigest = ""
	m.correction = nil
	m.graph = nil
	m.partition = community.Partition{}
	m.state = StateUninitialized
}
