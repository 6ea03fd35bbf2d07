// Package files discovers preprocessed dataset files on disk. Datasets
// follow the naming convention <crop>_Y<year>_<region>_trade.csv with a
// matching _production.csv, or a single <crop>_Y<year>_<region>.xlsx
// workbook.
package files

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Dataset identifies one loadable crop/year combination.
type Dataset struct {
	Crop   string
	Year   int
	Region string
	Format string
}

var datasetRe = regexp.MustCompile(`^(.+)_Y(\d{4})_(.+?)(?:_trade)?\.(csv|xlsx)$`)

// Discovery lists datasets under a base directory
type Discovery struct {
	basePath string
}

// NewDiscovery creates a discovery rooted at basePath
func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath}
}

// ListDatasets returns every dataset found in the base directory, sorted by
// crop, then year. CSV datasets are reported once even though they span a
// trade and a production file.
func (d *Discovery) ListDatasets() ([]Dataset, error) {
	entries, err := os.ReadDir(d.basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset directory %s: %w", d.basePath, err)
	}

	seen := make(map[Dataset]bool)
	var datasets []Dataset
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		// production files pair with trade files already counted
		if strings.HasSuffix(name, "_production.csv") {
			continue
		}
		m := datasetRe.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		year, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		ds := Dataset{Crop: m[1], Year: year, Region: m[3], Format: m[4]}
		if seen[ds] {
			continue
		}
		seen[ds] = true
		datasets = append(datasets, ds)
	}

	sort.Slice(datasets, func(i, j int) bool {
		if datasets[i].Crop != datasets[j].Crop {
			return datasets[i].Crop < datasets[j].Crop
		}
		if datasets[i].Year != datasets[j].Year {
			return datasets[i].Year < datasets[j].Year
		}
		return datasets[i].Region < datasets[j].Region
	})
	return datasets, nil
}

// Crops returns the distinct crops available, sorted.
func (d *Discovery) Crops() ([]string, error) {
	datasets, err := d.ListDatasets()
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var crops []string
	for _, ds := range datasets {
		if !seen[ds.Crop] {
			seen[ds.Crop] = true
			crops = append(crops, ds.Crop)
		}
	}
	sort.Strings(crops)
	return crops, nil
}

// Years returns the distinct years available for a crop, sorted.
func (d *Discovery) Years(crop string) ([]int, error) {
	datasets, err := d.ListDatasets()
	if err != nil {
		return nil, err
	}
	seen := make(map[int]bool)
	var years []int
	for _, ds := range datasets {
		if ds.Crop == crop && !seen[ds.Year] {
			seen[ds.Year] = true
			years = append(years, ds.Year)
		}
	}
	sort.Ints(years)
	return years, nil
}
