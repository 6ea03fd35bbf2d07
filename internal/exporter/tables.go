package exporter

import (
	"fmt"
	"sort"
	"strconv"

	"tradeshifts/internal/analysis"
	"tradeshifts/internal/community"
	"tradeshifts/internal/tradegraph"
	"tradeshifts/pkg/contracts/domain"
)

func formatQuantity(q float64) string {
	return strconv.FormatFloat(q, 'g', -1, 64)
}

// WriteFlows writes a corrected flow table as exporter/importer/quantity rows.
func (w *CSVWriter) WriteFlows(filePath string, flows []domain.CorrectedFlow) error {
	records := make([][]string, 0, len(flows))
	for _, f := range flows {
		records = append(records, []string{
			f.Exporter, f.Importer, f.Crop, strconv.Itoa(f.Year), formatQuantity(f.Quantity),
		})
	}
	return w.WriteSimpleCSV(filePath,
		[]string{"exporter", "importer", "crop", "year", "quantity"}, records)
}

// WriteGraph writes the edges of a trade graph, heaviest first.
func (w *CSVWriter) WriteGraph(filePath string, g *tradegraph.Graph) error {
	edges := g.Edges()
	sort.SliceStable(edges, func(i, j int) bool {
		return edges[i].Weight > edges[j].Weight
	})

	records := make([][]string, 0, len(edges))
	for _, e := range edges {
		records = append(records, []string{e.From, e.To, formatQuantity(e.Weight)})
	}
	return w.WriteSimpleCSV(filePath, []string{"exporter", "importer", "quantity"}, records)
}

// WritePartition writes one row per country with its community number.
// Communities are numbered in the partition's canonical order.
func (w *CSVWriter) WritePartition(filePath string, p community.Partition) error {
	var records [][]string
	for i, c := range p.Communities {
		for _, country := range c {
			records = append(records, []string{country, strconv.Itoa(i)})
		}
	}
	return w.WriteSimpleCSV(filePath, []string{"country", "community"}, records)
}

// WriteMetric writes a per-country metric sorted by descending value,
// ties by country name.
func (w *CSVWriter) WriteMetric(filePath, metricName string, values map[string]float64) error {
	countries := make([]string, 0, len(values))
	for country := range values {
		countries = append(countries, country)
	}
	sort.Slice(countries, func(i, j int) bool {
		if values[countries[i]] != values[countries[j]] {
			return values[countries[i]] > values[countries[j]]
		}
		return countries[i] < countries[j]
	})

	records := make([][]string, 0, len(countries))
	for _, country := range countries {
		records = append(records, []string{country, formatQuantity(values[country])})
	}
	return w.WriteSimpleCSV(filePath, []string{"country", metricName}, records)
}

// WriteRoles writes the community role coordinates per country.
func (w *CSVWriter) WriteRoles(filePath string, roles []analysis.NodeRole) error {
	records := make([][]string, 0, len(roles))
	for _, r := range roles {
		records = append(records, []string{
			r.Country, formatQuantity(r.ZScore), formatQuantity(r.Participation),
		})
	}
	return w.WriteSimpleCSV(filePath,
		[]string{"country", "z_score", "participation"}, records)
}

// WritePercolation writes the attack thresholds of one scenario.
func (w *CSVWriter) WritePercolation(filePath string, results []analysis.PercolationResult) error {
	records := make([][]string, 0, len(results))
	for _, r := range results {
		records = append(records, []string{
			string(r.Strategy), formatQuantity(r.Threshold), formatQuantity(r.StdError),
		})
	}
	return w.WriteSimpleCSV(filePath,
		[]string{"strategy", "threshold", "std_error"}, records)
}

// WriteDiffs writes the per-country drift of every scenario from the base.
func (w *CSVWriter) WriteDiffs(filePath string, diffs []analysis.ScenarioDiff) error {
	var records [][]string
	for _, d := range diffs {
		countries := make([]string, 0, len(d.CommunityJaccard))
		for country := range d.CommunityJaccard {
			countries = append(countries, country)
		}
		sort.Strings(countries)
		for _, country := range countries {
			records = append(records, []string{
				d.Name,
				country,
				formatQuantity(d.CommunityJaccard[country]),
				formatQuantity(d.CentralityDelta[country]),
				formatQuantity(d.SatisfactionDelta[country]),
				formatQuantity(d.ImportDelta[country]),
				formatQuantity(d.ImportRelDelta[country]),
			})
		}
	}
	return w.WriteSimpleCSV(filePath,
		[]string{"scenario", "country", "community_jaccard", "centrality_delta", "satisfaction_delta", "import_delta", "import_rel_delta"},
		records)
}

// ScenarioFileName builds the conventional artefact file name for a scenario,
// e.g. "Wheat_Y2018_drought_graph.csv".
func ScenarioFileName(crop string, year int, scenario, artefact string) string {
	return fmt.Sprintf("%s_Y%d_%s_%s.csv", crop, year, scenario, artefact)
}
