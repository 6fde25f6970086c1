package server

import (
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/ratecompass/ratecompass/pkg/greenbutton"
	"github.com/ratecompass/ratecompass/pkg/log"
	"github.com/ratecompass/ratecompass/pkg/tariff"
	"github.com/ratecompass/ratecompass/pkg/types"
)

// uploadFileField is the multipart form field carrying the usage file.
const uploadFileField = "file"

// badUploadError marks a request-shaped failure whose message is safe to
// return to the client.
type badUploadError struct {
	msg string
}

func (e *badUploadError) Error() string {
	return e.msg
}

// parseUsageUpload reads the uploaded Green Button file from the request and
// parses it into usage data. The request body is capped at maxUploadBytes.
func (s *Server) parseUsageUpload(w http.ResponseWriter, r *http.Request) (types.UsageData, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)

	file, header, err := r.FormFile(uploadFileField)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return types.UsageData{}, err
		}
		return types.UsageData{}, &badUploadError{msg: fmt.Sprintf("missing %q form field", uploadFileField)}
	}
	defer file.Close()

	if err := checkUploadName(header); err != nil {
		return types.UsageData{}, err
	}

	data, err := greenbutton.Parse(file, s.engine.Location())
	if err != nil {
		return types.UsageData{}, err
	}
	return data, nil
}

func checkUploadName(header *multipart.FileHeader) error {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext != ".xml" {
		return &badUploadError{msg: fmt.Sprintf("unsupported file type %q, expected an .xml file", ext)}
	}
	return nil
}

// handleUploadError maps a failure from parsing or analyzing an upload to an
// HTTP response. Input-shaped failures carry their message back to the
// client; anything else is logged and returned as a generic 500.
func (s *Server) handleUploadError(w http.ResponseWriter, r *http.Request, err error) {
	code, msg := classifyUploadError(err)
	if code == http.StatusInternalServerError {
		ctx := r.Context()
		log.Ctx(ctx).ErrorContext(ctx, "failed to analyze upload", slog.Any("error", err))
	}
	writeJSONError(w, msg, code)
}

func classifyUploadError(err error) (int, string) {
	var maxErr *http.MaxBytesError
	var badErr *badUploadError
	var parseErr *greenbutton.XMLParseError
	var schemaErr *greenbutton.SchemaMismatchError
	var insufficientErr *tariff.InsufficientDataError
	var missingErr *tariff.MissingFieldError
	var rangeErr *tariff.EmptyRangeError
	switch {
	case errors.As(err, &maxErr):
		return http.StatusRequestEntityTooLarge, "uploaded file is too large"
	case errors.As(err, &badErr),
		errors.As(err, &parseErr),
		errors.As(err, &schemaErr),
		errors.As(err, &insufficientErr),
		errors.As(err, &missingErr),
		errors.As(err, &rangeErr):
		return http.StatusBadRequest, err.Error()
	}
	return http.StatusInternalServerError, "internal server error"
}
