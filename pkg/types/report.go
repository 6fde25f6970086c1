package types

import "time"

// Report is the wire payload returned by the compare endpoint. Field
// presence is exact: the report renderer depends on this shape, so fields
// are never added to or removed from the success payload.
type Report struct {
	Success        bool              `json:"success"`
	Error          string            `json:"error,omitempty"`
	BestRate       BestRate          `json:"best_rate"`
	Totals         PlanTotals        `json:"totals"`
	Savings        PlanSavings       `json:"savings"`
	Percentages    PlanPercentages   `json:"percentages"`
	UsageBreakdown UsageBreakdown    `json:"usage_breakdown"`
	MonthlyData    []MonthComparison `json:"monthly_data"`
}

// BestRate names the cheapest plan and its annual cost.
type BestRate struct {
	Name string  `json:"name"`
	Cost float64 `json:"cost"`
}

// PlanTotals holds annual totals per plan, rounded to cents.
type PlanTotals struct {
	Standard float64 `json:"standard"`
	TOU      float64 `json:"tou"`
	TOUEV    float64 `json:"tou_ev"`
}

// PlanSavings holds annual savings relative to the Standard plan, plus the
// TOU-EV vs TOU difference.
type PlanSavings struct {
	TOU        float64 `json:"tou"`
	TOUEV      float64 `json:"tou_ev"`
	TOUEVVsTOU float64 `json:"tou_ev_vs_tou"`
}

// PlanPercentages holds savings as a percentage of the Standard annual cost.
type PlanPercentages struct {
	TOU   float64 `json:"tou"`
	TOUEV float64 `json:"tou_ev"`
}

// UsageBreakdown describes where energy was used under each
// time-differentiated plan's schedule.
type UsageBreakdown struct {
	TOU   TOUBreakdown   `json:"tou"`
	TOUEV TOUEVBreakdown `json:"tou_ev"`
}

// TOUBreakdown is the usage split under the TOU schedule across the full
// dataset, with the average monthly demand charge.
type TOUBreakdown struct {
	OnPeakKWH       float64 `json:"on_peak_kwh"`
	OffPeakKWH      float64 `json:"off_peak_kwh"`
	DiscountKWH     float64 `json:"discount_kwh"`
	OnPeakPct       float64 `json:"on_peak_pct"`
	OffPeakPct      float64 `json:"off_peak_pct"`
	DiscountPct     float64 `json:"discount_pct"`
	AvgDemandCharge float64 `json:"avg_demand_charge"`
}

// TOUEVBreakdown is the usage split under the TOU-EV schedule.
type TOUEVBreakdown struct {
	DiscountKWH float64 `json:"discount_kwh"`
	StandardKWH float64 `json:"standard_kwh"`
	DiscountPct float64 `json:"discount_pct"`
	StandardPct float64 `json:"standard_pct"`
}

// MonthComparison is one row of the per-month cost table.
type MonthComparison struct {
	Month        string  `json:"month"`
	StandardCost float64 `json:"standard_cost"`
	TOUCost      float64 `json:"tou_cost"`
	TOUEVCost    float64 `json:"tou_ev_cost"`
}

// AnalysisRecord is a stored result of one comparison run.
type AnalysisRecord struct {
	ID           string    `json:"id"`
	CreatedAt    time.Time `json:"createdAt"`
	MeterID      string    `json:"meterID"`
	ReadingCount int       `json:"readingCount"`
	FirstReading time.Time `json:"firstReading"`
	LastReading  time.Time `json:"lastReading"`
	Report       Report    `json:"report"`
}
