package types

import "time"

// Reading is a single interval energy-usage measurement extracted from a
// Green Button document. Timestamp is the start of the interval in the
// utility's local time zone.
type Reading struct {
	Timestamp time.Time `json:"timestamp"`
	EnergyKWH float64   `json:"energyKWH"`
}

// MeterInfo describes the meter a set of readings came from.
type MeterInfo struct {
	ServicePointID     string `json:"servicePointID,omitempty"`
	SerialNumber       string `json:"serialNumber,omitempty"`
	ServiceType        string `json:"serviceType,omitempty"`
	UnitOfMeasure      string `json:"unitOfMeasure,omitempty"`
	SecondsPerInterval int    `json:"secondsPerInterval,omitempty"`
}

// ID returns the best available identity for the meter.
func (m MeterInfo) ID() string {
	if m.SerialNumber != "" {
		return m.SerialNumber
	}
	return m.ServicePointID
}

// UsageData is the validated input contract handed to the tariff engine: an
// ordered sequence of interval readings plus the meter they belong to.
type UsageData struct {
	Meter    MeterInfo `json:"meter"`
	Readings []Reading `json:"readings"`
}

// IntervalSeconds returns the reading interval length in seconds, defaulting
// to 30 minutes when the document didn't carry one.
func (u UsageData) IntervalSeconds() int {
	if u.Meter.SecondsPerInterval > 0 {
		return u.Meter.SecondsPerInterval
	}
	return 1800
}
