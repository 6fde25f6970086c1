// Package greenbutton extracts interval usage data from Green Button ESPI
// XML exports. It only pulls the meter metadata and interval readings out of
// the document; structural validation of the readings themselves is the
// tariff engine's job.
package greenbutton

import (
	"encoding/xml"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ratecompass/ratecompass/pkg/types"
)

// xmlIntervalReading mirrors an espi:IntervalReading element. Pointers
// distinguish absent elements from zero values so incomplete readings can be
// reported by name downstream.
type xmlIntervalReading struct {
	TimePeriod *struct {
		Start    *int64 `xml:"start"`
		Duration *int64 `xml:"duration"`
	} `xml:"timePeriod"`
	Value   *float64 `xml:"value"`
	Quality string   `xml:"readingQuality"`
}

// Parse reads a Green Button document and returns the meter info and
// interval readings it contains, sorted by timestamp and interpreted in loc.
//
// Malformed XML yields *XMLParseError; a well-formed document with no
// interval readings yields *SchemaMismatchError. Readings missing their
// timestamp or value are kept with sentinel values (zero time, NaN) so the
// validator can name the missing field.
func Parse(r io.Reader, loc *time.Location) (types.UsageData, error) {
	if loc == nil {
		loc = time.UTC
	}

	var data types.UsageData
	var sawRoot bool

	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return types.UsageData{}, &XMLParseError{Err: err}
		}

		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		sawRoot = true

		switch se.Name.Local {
		case "servicePointId":
			if err := decodeString(dec, &se, &data.Meter.ServicePointID); err != nil {
				return types.UsageData{}, err
			}
		case "meterSerialNumber":
			if err := decodeString(dec, &se, &data.Meter.SerialNumber); err != nil {
				return types.UsageData{}, err
			}
		case "serviceType":
			if err := decodeString(dec, &se, &data.Meter.ServiceType); err != nil {
				return types.UsageData{}, err
			}
		case "unitOfMeasure":
			if err := decodeString(dec, &se, &data.Meter.UnitOfMeasure); err != nil {
				return types.UsageData{}, err
			}
		case "secondsPerInterval":
			var raw string
			if err := decodeString(dec, &se, &raw); err != nil {
				return types.UsageData{}, err
			}
			if secs, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil {
				data.Meter.SecondsPerInterval = secs
			}
		case "IntervalReading":
			var xr xmlIntervalReading
			if err := dec.DecodeElement(&xr, &se); err != nil {
				return types.UsageData{}, &XMLParseError{Err: err}
			}
			data.Readings = append(data.Readings, toReading(xr, loc))
		}
	}

	if !sawRoot {
		return types.UsageData{}, &XMLParseError{Err: io.ErrUnexpectedEOF}
	}
	if len(data.Readings) == 0 {
		return types.UsageData{}, &SchemaMismatchError{Reason: "document has no interval readings"}
	}

	sort.SliceStable(data.Readings, func(i, j int) bool {
		return data.Readings[i].Timestamp.Before(data.Readings[j].Timestamp)
	})
	return data, nil
}

func decodeString(dec *xml.Decoder, se *xml.StartElement, dst *string) error {
	var s string
	if err := dec.DecodeElement(&s, se); err != nil {
		return &XMLParseError{Err: err}
	}
	*dst = strings.TrimSpace(s)
	return nil
}

func toReading(xr xmlIntervalReading, loc *time.Location) types.Reading {
	var r types.Reading
	if xr.TimePeriod != nil && xr.TimePeriod.Start != nil {
		r.Timestamp = time.Unix(*xr.TimePeriod.Start, 0).In(loc)
	}
	if xr.Value != nil {
		r.EnergyKWH = *xr.Value
	} else {
		r.EnergyKWH = math.NaN()
	}
	return r
}
