package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/ratecompass/ratecompass/pkg/metrics"
)

const rangeDateFormat = "2006-01-02"

func (s *Server) handleRange(w http.ResponseWriter, r *http.Request) {
	data, err := s.parseUsageUpload(w, r)
	if err != nil {
		metrics.UploadsTotal.WithLabelValues("rejected").Inc()
		s.handleUploadError(w, r, err)
		return
	}

	start, end, err := s.parseRangeDates(r)
	if err != nil {
		metrics.UploadsTotal.WithLabelValues("rejected").Inc()
		s.handleUploadError(w, r, err)
		return
	}

	res, err := s.engine.AnalyzeRange(data, start, end)
	if err != nil {
		metrics.UploadsTotal.WithLabelValues("rejected").Inc()
		s.handleUploadError(w, r, err)
		return
	}

	metrics.UploadsTotal.WithLabelValues("accepted").Inc()
	metrics.UploadReadings.Observe(float64(len(data.Readings)))

	writeJSON(w, res, http.StatusOK)
}

// parseRangeDates reads the from/to form fields as local calendar dates. The
// range is inclusive, so the end covers the whole "to" day.
func (s *Server) parseRangeDates(r *http.Request) (start, end time.Time, err error) {
	loc := s.engine.Location()
	start, err = parseRangeDate(r.FormValue("from"), "from", loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err = parseRangeDate(r.FormValue("to"), "to", loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end = end.AddDate(0, 0, 1).Add(-time.Nanosecond)
	return start, end, nil
}

func parseRangeDate(raw, field string, loc *time.Location) (time.Time, error) {
	if raw == "" {
		return time.Time{}, &badUploadError{msg: fmt.Sprintf("missing %q form field", field)}
	}
	t, err := time.ParseInLocation(rangeDateFormat, raw, loc)
	if err != nil {
		return time.Time{}, &badUploadError{msg: fmt.Sprintf("invalid %q date %q, expected YYYY-MM-DD", field, raw)}
	}
	return t, nil
}
