package model

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"

	apperrors "tradeshifts/internal/errors"
	"tradeshifts/pkg/contracts/domain"
)

// Scenario describes a yield-change experiment: each listed country's
// production is multiplied by its factor before the pipeline is replayed.
// Countries not listed keep their baseline production.
type Scenario struct {
	Name         string             `yaml:"name" validate:"required"`
	Description  string             `yaml:"description"`
	YieldFactors map[string]float64 `yaml:"yield_factors" validate:"required,dive,gte=0"`
}

var scenarioValidator = validator.New(validator.WithRequiredStructEnabled())

// LoadScenarioFile reads and validates a scenario from a YAML file.
func LoadScenarioFile(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewInvalidScenarioError(
			fmt.Sprintf("cannot read scenario file %s", path), err)
	}

	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, apperrors.NewInvalidScenarioError(
			fmt.Sprintf("cannot parse scenario file %s", path), err)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Validate checks the scenario's own fields. Membership against a dataset is
// checked separately when the scenario is applied.
func (s *Scenario) Validate() error {
	if err := scenarioValidator.Struct(s); err != nil {
		return apperrors.NewInvalidScenarioError("scenario failed validation", err)
	}
	return nil
}

// checkMembership rejects factors naming countries absent from the dataset.
func (s *Scenario) checkMembership(production []domain.Production) error {
	known := make(map[string]bool, len(production))
	for _, p := range production {
		known[p.Country] = true
	}

	var unknown []string
	for country := range s.YieldFactors {
		if !known[country] {
			unknown = append(unknown, country)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return apperrors.NewInvalidScenarioError(
			fmt.Sprintf("scenario %q names countries not in the dataset: %v", s.Name, unknown), nil)
	}
	return nil
}

// fingerprint canonically encodes the scenario for cache keying, so renamed
// or edited scenarios never reuse stale entries.
func (s *Scenario) fingerprint() string {
	countries := make([]string, 0, len(s.YieldFactors))
	for country := range s.YieldFactors {
		countries = append(countries, country)
	}
	sort.Strings(countries)

	var b strings.Builder
	b.WriteString(s.Name)
	for _, country := range countries {
		fmt.Fprintf(&b, "|%s=%g", country, s.YieldFactors[country])
	}
	return b.String()
}

// apply returns a production table with the scenario's factors applied.
// The input table is not modified.
func (s *Scenario) apply(production []domain.Production) []domain.Production {
	scaled := make([]domain.Production, len(production))
	copy(scaled, production)
	for i := range scaled {
		if factor, ok := s.YieldFactors[scaled[i].Country]; ok {
			scaled[i].Quantity *= factor
		}
	}
	return scaled
}
