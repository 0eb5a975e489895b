package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/go-gota/gota/dataframe"

	"github.com/couchcryptid/mesonet-data/internal/domain"
	"github.com/couchcryptid/mesonet-data/internal/table"
)

var errUnsupportedFormat = errors.New("format must be csv or json")

// respond writes df in the negotiated format, or the error for err.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, df dataframe.DataFrame, err error) {
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	format, err := negotiateFormat(r)
	if err != nil {
		s.writeError(w, r, badRequest("format", err))
		return
	}

	if format == table.FormatJSON {
		w.Header().Set("Content-Type", "application/json")
	} else {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	}
	w.WriteHeader(http.StatusOK)
	if err := table.Write(w, df, format); err != nil {
		s.logger.Warn("write response failed", "path", r.URL.Path, "error", err)
	}
}

// negotiateFormat prefers the format query parameter, then the Accept header. CSV is the default.
func negotiateFormat(r *http.Request) (string, error) {
	switch f := strings.ToLower(r.URL.Query().Get("format")); f {
	case table.FormatCSV, table.FormatJSON:
		return f, nil
	case "":
	default:
		return "", errUnsupportedFormat
	}
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return table.FormatJSON, nil
	}
	return table.FormatCSV, nil
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("retrieval failed", "path", r.URL.Path, "query", r.URL.RawQuery, "status", status, "error", err)
	}
	sharedobs.WriteJSON(w, status, map[string]string{"error": err.Error()})
}

// statusFor maps retrieval errors to HTTP status codes.
func statusFor(err error) int {
	var pe *paramError
	switch {
	case errors.As(err, &pe),
		errors.Is(err, domain.ErrInvalidDate),
		errors.Is(err, domain.ErrInvalidDepth),
		errors.Is(err, domain.ErrInvalidStation),
		errors.Is(err, domain.ErrUnknownVariableGroup):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnknownStation), errors.Is(err, domain.ErrNoData):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrSoilParamsUnavailable):
		return http.StatusNotImplemented
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}
