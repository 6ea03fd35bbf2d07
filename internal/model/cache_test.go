package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradeshifts/internal/correction"
	"tradeshifts/pkg/contracts/domain"
)

func TestCache_RoundTrip(t *testing.T) {
	cache := NewCache(t.TempDir(), nil)
	params := correction.Params{IterationCap: 1000, Tolerance: 1e-6}
	flows := []domain.CorrectedFlow{
		{Exporter: "Ukraine", Importer: "Egypt", Crop: "Wheat", Year: 2018, Quantity: 99.875},
		{Exporter: "France", Importer: "Egypt", Crop: "Wheat", Year: 2018, Quantity: 60},
	}

	_, ok := cache.Get("Wheat", 2018, params, "d1", "")
	assert.False(t, ok)

	require.NoError(t, cache.Put("Wheat", 2018, params, "d1", "", flows))
	got, ok := cache.Get("Wheat", 2018, params, "d1", "")
	require.True(t, ok)
	assert.Equal(t, flows, got)
}

func TestCache_KeySeparatesRuns(t *testing.T) {
	cache := NewCache(t.TempDir(), nil)
	params := correction.Params{IterationCap: 1000, Tolerance: 1e-6}
	flows := []domain.CorrectedFlow{
		{Exporter: "Ukraine", Importer: "Egypt", Crop: "Wheat", Year: 2018, Quantity: 10},
	}
	require.NoError(t, cache.Put("Wheat", 2018, params, "d1", "", flows))

	_, ok := cache.Get("Wheat", 2019, params, "d1", "")
	assert.False(t, ok, "different year")
	_, ok = cache.Get("Maize", 2018, params, "d1", "")
	assert.False(t, ok, "different crop")
	_, ok = cache.Get("Wheat", 2018, correction.Params{IterationCap: 5, Tolerance: 1e-6}, "d1", "")
	assert.False(t, ok, "different parameters")
	_, ok = cache.Get("Wheat", 2018, params, "d2", "")
	assert.False(t, ok, "different dataset content")
	_, ok = cache.Get("Wheat", 2018, params, "d1", "drought|Ukraine=0.5")
	assert.False(t, ok, "different scenario")
}

func TestCache_NilIsDisabled(t *testing.T) {
	cache := NewCache("", nil)
	require.Nil(t, cache)

	// A nil cache is a no-op, not a crash.
	assert.NoError(t, cache.Put("Wheat", 2018, correction.Params{}, "", "", nil))
	_, ok := cache.Get("Wheat", 2018, correction.Params{}, "", "")
	assert.False(t, ok)
}

func TestDatasetDigest(t *testing.T) {
	flows := []domain.TradeFlow{
		{Exporter: "Ukraine", Importer: "Egypt", Quantity: 100},
		{Exporter: "France", Importer: "Egypt", Quantity: 60},
	}
	production := []domain.Production{
		{Country: "Ukraine", Quantity: 500},
		{Country: "France", Quantity: 300},
	}

	digest := DatasetDigest(flows, production)

	reordered := DatasetDigest(
		[]domain.TradeFlow{flows[1], flows[0]},
		[]domain.Production{production[1], production[0]})
	assert.Equal(t, digest, reordered, "record order must not matter")

	edited := []domain.TradeFlow{
		{Exporter: "Ukraine", Importer: "Egypt", Quantity: 101},
		{Exporter: "France", Importer: "Egypt", Quantity: 60},
	}
	assert.NotEqual(t, digest, DatasetDigest(edited, production))

	lessProduction := DatasetDigest(flows, production[:1])
	assert.NotEqual(t, digest, lessProduction)
}
