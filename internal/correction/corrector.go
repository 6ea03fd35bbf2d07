package correction

import (
	"context"
	"fmt"
	"log/slog"

	"tradeshifts/pkg/contracts/domain"
)

// Default parameter values used when a Params field is left zero.
const (
	DefaultIterationCap = 1000
	DefaultTolerance    = 1e-6
)

// Params bounds the correction loop
type Params struct {
	// IterationCap is the maximum number of scaling passes.
	IterationCap int
	// Tolerance is the largest remaining supply-bound violation (in tonnes)
	// still accepted as converged.
	Tolerance float64
}

func (p Params) withDefaults() Params {
	if p.IterationCap <= 0 {
		p.IterationCap = DefaultIterationCap
	}
	if p.Tolerance <= 0 {
		p.Tolerance = DefaultTolerance
	}
	return p
}

// Result holds the corrected flow table together with the convergence
// diagnostics callers need to assert on.
type Result struct {
	Flows        []domain.CorrectedFlow
	Converged    bool
	Iterations   int
	MaxViolation float64
}

// Corrector runs the iterative re-export correction
type Corrector struct {
	params Params
	logger *slog.Logger
}

// NewCorrector creates a corrector with the given parameters
func NewCorrector(params Params, logger *slog.Logger) *Corrector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Corrector{params: params.withDefaults(), logger: logger}
}

// Correct bounds every country's exports by production plus corrected
// imports. The input tables are not modified.
func (c *Corrector) Correct(ctx context.Context, flows []domain.TradeFlow, production []domain.Production) (*Result, error) {
	countries := domain.Countries(flows, production)
	index := make(map[string]int, len(countries))
	for i, country := range countries {
		index[country] = i
	}
	n := len(countries)
	if n == 0 {
		return &Result{Converged: true}, nil
	}

	// dense exporter-by-importer matrix; negative and missing quantities
	// are zero, self-loops are dropped
	matrix := make([][]float64, n)
	for i := range matrix {
		matrix[i] = make([]float64, n)
	}
	crop, year := "", 0
	for _, f := range flows {
		if crop == "" {
			crop, year = f.Crop, f.Year
		}
		if f.Exporter == f.Importer || f.Quantity <= 0 {
			continue
		}
		matrix[index[f.Exporter]][index[f.Importer]] += f.Quantity
	}

	prod := make([]float64, n)
	for country, q := range domain.ProductionByCountry(production) {
		prod[index[country]] = q
	}

	c.logger.DebugContext(ctx, "starting re-export correction",
		"countries", n,
		"iteration_cap", c.params.IterationCap,
		"tolerance", c.params.Tolerance,
	)

	result := &Result{}
	for result.Iterations < c.params.IterationCap {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("re-export correction cancelled: %w", ctx.Err())
		default:
		}
		result.Iterations++

		violation := scalePass(matrix, prod)
		result.MaxViolation = violation
		if violation <= c.params.Tolerance {
			result.Converged = true
			break
		}
	}

	if !result.Converged {
		c.logger.WarnContext(ctx, "re-export correction did not converge",
			"iterations", result.Iterations,
			"max_violation", result.MaxViolation,
		)
	} else {
		c.logger.DebugContext(ctx, "re-export correction converged",
			"iterations", result.Iterations,
		)
	}

	result.Flows = flowsFromMatrix(matrix, countries, crop, year)
	return result, nil
}

// scalePass performs one proportional scaling sweep and returns the largest
// supply-bound violation found before scaling.
func scalePass(matrix [][]float64, prod []float64) float64 {
	n := len(matrix)

	imports := make([]float64, n)
	exports := make([]float64, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			exports[i] += matrix[i][j]
			imports[j] += matrix[i][j]
		}
	}

	maxViolation := 0.0
	for i := 0; i < n; i++ {
		supply := prod[i] + imports[i]
		if exports[i] <= supply {
			continue
		}
		violation := exports[i] - supply
		if violation > maxViolation {
			maxViolation = violation
		}
		if supply <= 0 {
			// nothing produced, nothing imported: exports are fabricated
			for j := 0; j < n; j++ {
				matrix[i][j] = 0
			}
			continue
		}
		// scale all destinations by the same factor so the relative
		// proportions of bilateral flows are preserved
		factor := supply / exports[i]
		for j := 0; j < n; j++ {
			matrix[i][j] *= factor
		}
	}
	return maxViolation
}

// flowsFromMatrix converts the corrected matrix back to a flow table,
// keeping only positive quantities, in deterministic country order.
func flowsFromMatrix(matrix [][]float64, countries []string, crop string, year int) []domain.CorrectedFlow {
	var flows []domain.CorrectedFlow
	for i, row := range matrix {
		for j, q := range row {
			if q <= 0 {
				continue
			}
			flows = append(flows, domain.CorrectedFlow{
				Exporter: countries[i],
				Importer: countries[j],
				Crop:     crop,
				Year:     year,
				Quantity: q,
			})
		}
	}
	return flows
}
