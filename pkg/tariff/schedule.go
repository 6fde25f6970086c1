package tariff

import (
	"fmt"
	"os"

	"github.com/ratecompass/ratecompass/pkg/types"
	"gopkg.in/yaml.v3"
)

// Tier is one block of a tiered energy charge. UpToKWH is the cumulative
// monthly usage the block ends at; zero means the block is unbounded.
type Tier struct {
	UpToKWH float64 `yaml:"upToKWH"`
	Rate    float64 `yaml:"rate"`
}

// PlanRates is the data-driven parameter set for one plan. A plan either
// carries Tiers (cumulative tiered pricing over total monthly kWh) or Rates
// (a per-period $/kWh table), plus an optional demand charge.
type PlanRates struct {
	CustomerCharge  float64                  `yaml:"customerCharge"`
	Tiers           []Tier                   `yaml:"tiers,omitempty"`
	Rates           map[types.Period]float64 `yaml:"rates,omitempty"`
	DemandRatePerKW float64                  `yaml:"demandRatePerKW,omitempty"`
	DemandCharge    bool                     `yaml:"demandCharge,omitempty"`
}

// Schedule is the immutable tariff configuration for all three plans. It is
// built once at startup and never mutated afterwards.
type Schedule struct {
	Standard PlanRates `yaml:"standard"`
	TOU      PlanRates `yaml:"tou"`
	TOUEV    PlanRates `yaml:"touEV"`
}

// ForPlan returns the parameter set for the given plan.
func (s Schedule) ForPlan(p types.RatePlan) (PlanRates, error) {
	switch p {
	case types.PlanStandard:
		return s.Standard, nil
	case types.PlanTOU:
		return s.TOU, nil
	case types.PlanTOUEV:
		return s.TOUEV, nil
	}
	return PlanRates{}, fmt.Errorf("unknown rate plan: %s", p)
}

// DefaultSchedule returns the built-in residential rate schedule.
func DefaultSchedule() Schedule {
	return Schedule{
		Standard: PlanRates{
			CustomerCharge: 14.00,
			Tiers: []Tier{
				{UpToKWH: 1000, Rate: 0.11623},
				{UpToKWH: 2000, Rate: 0.12623},
				{Rate: 0.13623},
			},
		},
		TOU: PlanRates{
			CustomerCharge: 14.00,
			Rates: map[types.Period]float64{
				types.PeriodOnPeak:   0.15638,
				types.PeriodOffPeak:  0.06633,
				types.PeriodDiscount: 0.04347,
			},
			DemandRatePerKW: 1.99,
			DemandCharge:    true,
		},
		TOUEV: PlanRates{
			CustomerCharge: 14.00,
			Rates: map[types.Period]float64{
				types.PeriodDiscount: 0.06548,
				types.PeriodStandard: 0.13096,
			},
		},
	}
}

// LoadSchedule reads an alternate rate schedule from a YAML file.
func LoadSchedule(path string) (Schedule, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Schedule{}, fmt.Errorf("failed to read schedule file %s: %w", path, err)
	}
	var s Schedule
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return Schedule{}, fmt.Errorf("failed to parse schedule file %s: %w", path, err)
	}
	if err := s.validate(); err != nil {
		return Schedule{}, fmt.Errorf("invalid schedule file %s: %w", path, err)
	}
	return s, nil
}

func (s Schedule) validate() error {
	if len(s.Standard.Tiers) == 0 {
		return fmt.Errorf("standard plan needs at least one tier")
	}
	for _, p := range []types.Period{types.PeriodOnPeak, types.PeriodOffPeak, types.PeriodDiscount} {
		if _, ok := s.TOU.Rates[p]; !ok {
			return fmt.Errorf("tou plan missing rate for period %s", p)
		}
	}
	for _, p := range []types.Period{types.PeriodDiscount, types.PeriodStandard} {
		if _, ok := s.TOUEV.Rates[p]; !ok {
			return fmt.Errorf("tou-ev plan missing rate for period %s", p)
		}
	}
	return nil
}
