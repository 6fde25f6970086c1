package types

// RangePeriodUsage is one time-of-use period's share of a date range and
// what that energy costs under the plan's rate.
type RangePeriodUsage struct {
	EnergyKWH       float64 `json:"energy_kwh"`
	Percentage      float64 `json:"percentage"`
	Cost            float64 `json:"cost"`
	RateCentsPerKWH float64 `json:"rate_cents_per_kwh"`
}

// RangePlanCost is one plan's cost over a date range. Costs cover energy and
// demand only; the fixed monthly customer charge is excluded because a range
// is not a billing month.
type RangePlanCost struct {
	Periods      map[Period]RangePeriodUsage `json:"periods,omitempty"`
	DemandCharge float64                     `json:"demand_charge,omitempty"`
	TotalCost    float64                     `json:"total_cost"`
}

// RangeAnalysis is the wire payload of the date-range analysis endpoint: the
// usage inside [start, end] broken down per plan and period.
type RangeAnalysis struct {
	Success bool   `json:"success"`
	Start   string `json:"start"`
	End     string `json:"end"`
	Days    int    `json:"days"`

	Readings    int     `json:"readings"`
	TotalKWH    float64 `json:"total_kwh"`
	AvgDailyKWH float64 `json:"avg_daily_kwh"`

	Standard RangePlanCost `json:"standard"`
	TOU      RangePlanCost `json:"tou"`
	TOUEV    RangePlanCost `json:"tou_ev"`

	// OnPeakDemandKW is the maximum single-interval average power in on-peak
	// intervals; MaxDemandKW is the same maximum over every interval.
	OnPeakDemandKW float64 `json:"on_peak_demand_kw"`
	MaxDemandKW    float64 `json:"max_demand_kw"`

	CheapestPlan RatePlan    `json:"cheapest_plan"`
	Savings      PlanSavings `json:"savings"`
}
