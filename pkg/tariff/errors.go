package tariff

import (
	"fmt"
	"time"
)

// InsufficientDataError indicates the upload had fewer readings than the
// minimum needed for a meaningful comparison.
type InsufficientDataError struct {
	Count int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: only %d readings found, need at least %d (1 day of 30-minute intervals)", e.Count, MinReadings)
}

// MissingFieldError indicates a structurally incomplete reading or document,
// naming the field that was absent or unusable.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}

// EmptyRangeError indicates a date-range analysis request whose range is
// inverted or contains none of the uploaded readings.
type EmptyRangeError struct {
	Start time.Time
	End   time.Time
}

func (e *EmptyRangeError) Error() string {
	return fmt.Sprintf("no readings in range %s to %s",
		e.Start.Format("2006-01-02"), e.End.Format("2006-01-02"))
}

// ProcessingError wraps an unexpected internal failure during classification
// or pricing. The boundary layer reports these generically and logs the
// detail.
type ProcessingError struct {
	Op  string
	Err error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("processing failed during %s: %v", e.Op, e.Err)
}

func (e *ProcessingError) Unwrap() error { return e.Err }
