package types

// RatePlan identifies one of the fixed residential rate schedules.
type RatePlan string

const (
	PlanStandard RatePlan = "Standard"
	PlanTOU      RatePlan = "TOU"
	PlanTOUEV    RatePlan = "TOU-EV"
)

// Period is a time-of-use bucket a reading is classified into. The set of
// valid periods depends on the plan being evaluated: TOU uses
// OnPeak/OffPeak/Discount, TOU-EV uses Discount/Standard, and the Standard
// plan doesn't classify at all.
type Period string

const (
	PeriodOnPeak   Period = "on_peak"
	PeriodOffPeak  Period = "off_peak"
	PeriodDiscount Period = "discount"
	PeriodStandard Period = "standard"
)

// Season splits the year for seasonal TOU schedules.
type Season string

const (
	SeasonSummer Season = "summer"
	SeasonWinter Season = "winter"
)

// ClassifiedReading is a reading plus the period it falls in under a
// particular plan's calendar rules.
type ClassifiedReading struct {
	Reading
	Period Period `json:"period"`
}
