package model

import (
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"tradeshifts/internal/correction"
	apperrors "tradeshifts/internal/errors"
	"tradeshifts/pkg/contracts/domain"
)

// Cache stores corrected flow tables on disk so repeated runs of the same
// crop, year and parameters skip the correction loop. Entries are keyed by a
// digest of everything that influences the correction output.
type Cache struct {
	dir    string
	logger *slog.Logger
}

// NewCache creates a cache rooted at dir. A nil cache is returned for an
// empty dir so callers can treat caching as optional.
func NewCache(dir string, logger *slog.Logger) *Cache {
	if dir == "" {
		return nil
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{dir: dir, logger: logger}
}

func (c *Cache) key(crop string, year int, params correction.Params, data, scenario string) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%d|%d|%g|%s|%s", crop, year, params.IterationCap, params.Tolerance, data, scenario)
	return hex.EncodeToString(h.Sum(nil))
}

// DatasetDigest fingerprints the loaded tables so cache entries go stale
// when a dataset file changes under the same crop and year.
func DatasetDigest(flows []domain.TradeFlow, production []domain.Production) string {
	lines := make([]string, 0, len(flows)+len(production))
	for _, f := range flows {
		lines = append(lines, fmt.Sprintf("t|%s|%s|%g", f.Exporter, f.Importer, f.Quantity))
	}
	for _, p := range production {
		lines = append(lines, fmt.Sprintf("p|%s|%g", p.Country, p.Quantity))
	}
	sort.Strings(lines)

	h := sha256.New()
	for _, line := range lines {
		fmt.Fprintln(h, line)
	}
	return hex.EncodeToString(h.Sum(nil))
}

func (c *Cache) path(key string) string {
	return filepath.Join(c.dir, key+".csv")
}

// Get returns the cached corrected flows, or false when no entry exists.
func (c *Cache) Get(crop string, year int, params correction.Params, data, scenario string) ([]domain.CorrectedFlow, bool) {
	if c == nil {
		return nil, false
	}
	path := c.path(c.key(crop, year, params, data, scenario))
	f, err := os.Open(path)
	if err != nil {
		return nil, false
	}
	defer f.Close()

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil || len(records) < 1 {
		c.logger.Warn("discarding unreadable cache entry", slog.String("path", path))
		return nil, false
	}

	flows := make([]domain.CorrectedFlow, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) != 3 {
			c.logger.Warn("discarding malformed cache entry", slog.String("path", path))
			return nil, false
		}
		quantity, err := strconv.ParseFloat(record[2], 64)
		if err != nil {
			c.logger.Warn("discarding malformed cache entry", slog.String("path", path))
			return nil, false
		}
		flows = append(flows, domain.CorrectedFlow{
			Exporter: record[0],
			Importer: record[1],
			Crop:     crop,
			Year:     year,
			Quantity: quantity,
		})
	}
	c.logger.Debug("correction cache hit",
		slog.String("crop", crop),
		slog.Int("year", year),
		slog.Int("flows", len(flows)))
	return flows, true
}

// Put writes a corrected flow table to the cache.
func (c *Cache) Put(crop string, year int, params correction.Params, data, scenario string, flows []domain.CorrectedFlow) error {
	if c == nil {
		return nil
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return apperrors.NewStorageError("cannot create cache directory", err)
	}

	path := c.path(c.key(crop, year, params, data, scenario))
	f, err := os.Create(path)
	if err != nil {
		return apperrors.NewStorageError("cannot create cache entry", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write([]string{"exporter", "importer", "quantity"}); err != nil {
		return apperrors.NewStorageError("cannot write cache entry", err)
	}
	for _, flow := range flows {
		record := []string{
			flow.Exporter,
			flow.Importer,
			strconv.FormatFloat(flow.Quantity, 'g', -1, 64),
		}
		if err := writer.Write(record); err != nil {
			return apperrors.NewStorageError("cannot write cache entry", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return apperrors.NewStorageError("cannot flush cache entry", err)
	}
	return nil
}
