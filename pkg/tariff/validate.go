package tariff

import (
	"fmt"
	"math"

	"github.com/ratecompass/ratecompass/pkg/types"
)

// MinReadings is the minimum number of interval readings needed for a
// comparison: one day of 30-minute intervals.
const MinReadings = 48

// Validate checks the structural completeness and minimum volume of the
// reading sequence handed over by the Green Button parser. On success the
// time-ordered sequence is returned unchanged; the input is never mutated.
func Validate(data types.UsageData) ([]types.Reading, error) {
	if len(data.Readings) < MinReadings {
		return nil, &InsufficientDataError{Count: len(data.Readings)}
	}
	if data.Meter.ID() == "" {
		return nil, &MissingFieldError{Field: "meter identity"}
	}

	for i, r := range data.Readings {
		if r.Timestamp.IsZero() {
			return nil, &MissingFieldError{Field: "timestamp"}
		}
		// NaN marks a reading whose value element was absent; negative energy
		// is equally unusable and reported the same way.
		if math.IsNaN(r.EnergyKWH) || r.EnergyKWH < 0 {
			return nil, &MissingFieldError{Field: "value"}
		}
		if i > 0 && !data.Readings[i-1].Timestamp.Before(r.Timestamp) {
			return nil, &ProcessingError{
				Op:  "validate",
				Err: fmt.Errorf("readings not strictly increasing at %s", r.Timestamp),
			}
		}
	}
	return data.Readings, nil
}
