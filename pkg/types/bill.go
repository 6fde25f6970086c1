package types

import "time"

// MonthlyBill is the cost of one calendar month's usage under one plan.
// Month is the first instant of the month in the utility's local time zone.
// Dollar amounts are unrounded; rounding to cents happens only when the
// report payload is built.
type MonthlyBill struct {
	Plan           RatePlan           `json:"plan"`
	Month          time.Time          `json:"month"`
	EnergyByPeriod map[Period]float64 `json:"energyByPeriod"`
	TotalKWH       float64            `json:"totalKWH"`

	// PeakDemandKW is the maximum single-interval average power observed in
	// on-peak intervals. Only populated for plans with a demand charge.
	PeakDemandKW float64 `json:"peakDemandKW,omitempty"`

	CustomerCharge float64 `json:"customerCharge"`
	EnergyCharge   float64 `json:"energyCharge"`
	DemandCharge   float64 `json:"demandCharge"`
	Cost           float64 `json:"cost"`
}

// ComparisonResult is the full, unrounded output of the comparison pipeline.
// It is derived per upload and never persisted as-is.
type ComparisonResult struct {
	AnnualTotals map[RatePlan]float64       `json:"annualTotals"`
	MonthlyBills map[RatePlan][]MonthlyBill `json:"monthlyBills"`

	// UsageBreakdown maps each time-differentiated plan to the share (0-100)
	// of total dataset kWh that fell in each of its periods.
	UsageBreakdown map[RatePlan]map[Period]float64 `json:"usageBreakdown"`

	// UsageKWH maps each time-differentiated plan to total kWh per period.
	UsageKWH map[RatePlan]map[Period]float64 `json:"usageKWH"`

	BestPlan RatePlan `json:"bestPlan"`
}
