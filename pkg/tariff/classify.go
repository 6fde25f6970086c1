package tariff

import (
	"time"

	"github.com/ratecompass/ratecompass/pkg/types"
)

// hourWindow is a daily [Start, End) hour range. A window with Start > End
// wraps past midnight (e.g. 23 -> 5 covers 23:00-23:59 and 00:00-04:59).
type hourWindow struct {
	Start int
	End   int
}

func (w hourWindow) contains(hour int) bool {
	if w.Start > w.End {
		return hour >= w.Start || hour < w.End
	}
	return hour >= w.Start && hour < w.End
}

// The TOU calendar. The discount window applies every day year-round; the
// on-peak window applies on weekdays only and shifts with the season.
var (
	discountWindow     = hourWindow{Start: 23, End: 5}
	summerOnPeakWindow = hourWindow{Start: 18, End: 21}
	winterOnPeakWindow = hourWindow{Start: 6, End: 9}
)

// SeasonOf returns the rate season for a local timestamp. Summer runs June
// through September.
func SeasonOf(t time.Time) types.Season {
	if m := t.Month(); m >= time.June && m <= time.September {
		return types.SeasonSummer
	}
	return types.SeasonWinter
}

func isWeekday(t time.Time) bool {
	d := t.Weekday()
	return d != time.Saturday && d != time.Sunday
}

// Classify maps a local timestamp to the TOU period it falls in under the
// given plan's calendar rules. The timestamp must already be in the
// utility's local time zone; classification is by civil local time.
//
// The discount window is checked before the on-peak window so the rule stays
// order-independent if the schedule is ever edited to overlap them.
func Classify(t time.Time, plan types.RatePlan) types.Period {
	switch plan {
	case types.PlanTOU:
		if discountWindow.contains(t.Hour()) {
			return types.PeriodDiscount
		}
		onPeak := winterOnPeakWindow
		if SeasonOf(t) == types.SeasonSummer {
			onPeak = summerOnPeakWindow
		}
		if isWeekday(t) && onPeak.contains(t.Hour()) {
			return types.PeriodOnPeak
		}
		return types.PeriodOffPeak
	case types.PlanTOUEV:
		if discountWindow.contains(t.Hour()) {
			return types.PeriodDiscount
		}
		return types.PeriodStandard
	default:
		// The Standard plan prices by cumulative monthly tiers, not by time.
		return types.PeriodStandard
	}
}
