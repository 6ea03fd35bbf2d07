package model

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradeshifts/internal/config"
	"tradeshifts/internal/dataload"
	apperrors "tradeshifts/internal/errors"
	"tradeshifts/internal/shared/testutil"
	"tradeshifts/pkg/contracts/domain"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Data: config.DataConfig{Region: "Global", Format: "csv"},
		Model: config.ModelConfig{
			IterationCap:     1000,
			Tolerance:        1e-6,
			Seed:             2,
			AttackSampleSize: 10,
			Normalisation:    "weak",
		},
		Paths: config.PathsConfig{CacheDir: t.TempDir()},
	}
}

// wheatProvider serves a small dataset with two clear trading blocs.
func wheatProvider() *dataload.MemoryProvider {
	flow := func(exp, imp string, q float64) domain.TradeFlow {
		return domain.TradeFlow{Exporter: exp, Importer: imp, Crop: "Wheat", Year: 2018, Quantity: q}
	}
	prod := func(country string, q float64) domain.Production {
		return domain.Production{Country: country, Crop: "Wheat", Year: 2018, Quantity: q}
	}
	return &dataload.MemoryProvider{
		Flows: []domain.TradeFlow{
			flow("Ukraine", "Poland", 100),
			flow("Poland", "Ukraine", 80),
			flow("Brazil", "Argentina", 90),
			flow("Argentina", "Brazil", 70),
			flow("Ukraine", "Brazil", 1),
		},
		Production: []domain.Production{
			prod("Ukraine", 500),
			prod("Poland", 400),
			prod("Brazil", 450),
			prod("Argentina", 350),
		},
	}
}

func TestModel_Run(t *testing.T) {
	m := New(testConfig(t), wheatProvider(), nil)
	require.Equal(t, StateUninitialized, m.State())

	require.NoError(t, m.Run(context.Background(), "Wheat", 2018))
	assert.Equal(t, StatePartitioned, m.State())
	assert.Equal(t, "Wheat", m.Crop())
	assert.Equal(t, 2018, m.Year())

	g, err := m.Graph()
	require.NoError(t, err)
	assert.Equal(t, 4, g.NumNodes())

	result, err := m.Correction()
	require.NoError(t, err)
	assert.True(t, result.Converged)

	p, err := m.Communities()
	require.NoError(t, err)
	assert.Equal(t, 2, p.Len())
	assert.True(t, p.SameCommunity("Ukraine", "Poland"))
	assert.True(t, p.SameCommunity("Brazil", "Argentina"))
	assert.False(t, p.SameCommunity("Ukraine", "Brazil"))
}

func TestModel_StageOrderEnforced(t *testing.T) {
	m := New(testConfig(t), wheatProvider(), nil)

	assert.True(t, apperrors.IsState(m.Correct(context.Background())))
	assert.True(t, apperrors.IsState(m.BuildGraph()))
	assert.True(t, apperrors.IsState(m.PartitionCommunities(context.Background())))

	_, err := m.Flows()
	assert.True(t, apperrors.IsState(err))
	_, err = m.Graph()
	assert.True(t, apperrors.IsState(err))
	_, err = m.Communities()
	assert.True(t, apperrors.IsState(err))
}

func TestModel_AccessorsGatedPerStage(t *testing.T) {
	m := New(testConfig(t), wheatProvider(), nil)
	require.NoError(t, m.Load(context.Background(), "Wheat", 2018))

	_, err := m.Flows()
	assert.NoError(t, err)
	_, err = m.Correction()
	assert.True(t, apperrors.IsState(err))

	require.NoError(t, m.Correct(context.Background()))
	_, err = m.Correction()
	assert.NoError(t, err)
	_, err = m.Graph()
	assert.True(t, apperrors.IsState(err))
}

func TestModel_LoadUnknownCrop(t *testing.T) {
	m := New(testConfig(t), wheatProvider(), nil)

	err := m.Load(context.Background(), "Soybeans", 2018)
	assert.True(t, apperrors.IsDataNotFound(err))
	assert.Equal(t, StateUninitialized, m.State())
}

func TestModel_CorrectionUsesCache(t *testing.T) {
	cfg := testConfig(t)
	provider := wheatProvider()

	first := New(cfg, provider, nil)
	require.NoError(t, first.Load(context.Background(), "Wheat", 2018))
	require.NoError(t, first.Correct(context.Background()))
	firstResult, err := first.Correction()
	require.NoError(t, err)

	// A second model with the same cache dir reuses the corrected flows.
	second := New(cfg, provider, nil)
	require.NoError(t, second.Load(context.Background(), "Wheat", 2018))
	require.NoError(t, second.Correct(context.Background()))
	secondResult, err := second.Correction()
	require.NoError(t, err)

	assert.Equal(t, firstResult.Flows, secondResult.Flows)
	assert.Zero(t, secondResult.Iterations, "cache hit skips the correction loop")
}

func TestModel_CacheIgnoredAfterDatasetEdit(t *testing.T) {
	cfg := testConfig(t)

	first := New(cfg, wheatProvider(), nil)
	require.NoError(t, first.Load(context.Background(), "Wheat", 2018))
	require.NoError(t, first.Correct(context.Background()))

	// Same crop, year and cache dir, but the dataset content changed.
	edited := wheatProvider()
	edited.Flows[0].Quantity = 250

	second := New(cfg, edited, nil)
	require.NoError(t, second.Load(context.Background(), "Wheat", 2018))
	require.NoError(t, second.Correct(context.Background()))
	secondResult, err := second.Correction()
	require.NoError(t, err)

	assert.Positive(t, secondResult.Iterations, "edited dataset must be corrected afresh")
}

func TestModel_LogsConvergenceWarning(t *testing.T) {
	cfg := testConfig(t)
	cfg.Model.IterationCap = 1
	cfg.Paths.CacheDir = ""

	// Cascading re-exports need more than one pass to settle.
	provider := &dataload.MemoryProvider{
		Flows: []domain.TradeFlow{
			{Exporter: "A", Importer: "B", Crop: "Wheat", Year: 2018, Quantity: 100},
			{Exporter: "B", Importer: "C", Crop: "Wheat", Year: 2018, Quantity: 100},
		},
		Production: []domain.Production{
			{Country: "A", Crop: "Wheat", Year: 2018, Quantity: 50},
		},
	}

	logger, captured := testutil.NewTestLogger()
	m := New(cfg, provider, logger)
	require.NoError(t, m.Load(context.Background(), "Wheat", 2018))
	require.NoError(t, m.Correct(context.Background()))

	result, err := m.Correction()
	require.NoError(t, err)
	assert.False(t, result.Converged)
	testutil.AssertLogged(t, captured, slog.LevelWarn, "did not converge")
}

func TestModel_Reset(t *testing.T) {
	m := New(testConfig(t), wheatProvider(), nil)
	require.NoError(t, m.Run(context.Background(), "Wheat", 2018))

	m.Reset()
	assert.Equal(t, StateUninitialized, m.State())
	_, err := m.Flows()
	assert.True(t, apperrors.IsState(err))
}

func TestModel_RunIDsAreUnique(t *testing.T) {
	cfg := testConfig(t)
	a := New(cfg, wheatProvider(), nil)
	b := New(cfg, wheatProvider(), nil)

	assert.NotEmpty(t, a.RunID())
	assert.NotEqual(t, a.RunID(), b.RunID())
}

func TestRunBatch(t *testing.T) {
	provider := wheatProvider()
	// Add a second crop so the batch covers two independent pipelines.
	provider.Flows = append(provider.Flows,
		domain.TradeFlow{Exporter: "India", Importer: "Nepal", Crop: "Rice", Year: 2018, Quantity: 40})
	provider.Production = append(provider.Production,
		domain.Production{Country: "India", Crop: "Rice", Year: 2018, Quantity: 200})

	models, err := RunBatch(context.Background(), testConfig(t), provider,
		[]string{"Wheat", "Rice"}, 2018, nil)
	require.NoError(t, err)
	require.Len(t, models, 2)
	assert.Equal(t, StatePartitioned, models["Wheat"].State())
	assert.Equal(t, StatePartitioned, models["Rice"].State())
}

func TestRunBatch_FailureStopsBatch(t *testing.T) {
	_, err := RunBatch(context.Background(), testConfig(t), wheatProvider(),
		[]string{"Wheat", "Soybeans"}, 2018, nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsDataNotFound(err))
}
