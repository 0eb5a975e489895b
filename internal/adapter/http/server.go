package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/go-gota/gota/dataframe"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/mesonet-data/internal/observability"
	"github.com/couchcryptid/mesonet-data/internal/retrieval"
)

// Retriever runs the four retrieval operations. *mesonet.Client implements it.
type Retriever interface {
	RetrieveGeoInfo(ctx context.Context, q retrieval.GeoInfoQuery) (dataframe.DataFrame, error)
	RetrieveHydraulicParams(ctx context.Context, q retrieval.HydraulicQuery) (dataframe.DataFrame, error)
	RetrieveDailySummary(ctx context.Context, q retrieval.DailyQuery) (dataframe.DataFrame, error)
	RetrieveMonthlySummary(ctx context.Context, q retrieval.MonthlyQuery) (dataframe.DataFrame, error)
}

// Server is a read-only proxy over the retrieval operations, plus health,
// readiness and metrics endpoints.
type Server struct {
	httpServer *http.Server
	retriever  Retriever
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewServer creates the proxy with /v1/{geoinfo,hydraulic,daily,monthly},
// /healthz, /readyz and /metrics routes.
func NewServer(addr string, retriever Retriever, ready sharedobs.ReadinessChecker, metrics *observability.Metrics, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:        addr,
			Handler:     mux,
			ReadTimeout: 10 * time.Second,
			// A monthly summary is a month of throttled fetches.
			WriteTimeout: 3 * time.Minute,
			IdleTimeout:  60 * time.Second,
		},
		retriever: retriever,
		metrics:   metrics,
		logger:    logger,
	}

	mux.Handle("GET /v1/geoinfo", s.instrument("geoinfo", s.handleGeoInfo))
	mux.Handle("GET /v1/hydraulic", s.instrument("hydraulic", s.handleHydraulic))
	mux.Handle("GET /v1/daily", s.instrument("daily", s.handleDaily))
	mux.Handle("GET /v1/monthly", s.instrument("monthly", s.handleMonthly))
	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleGeoInfo(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	all, err := parseBool(q.Get("all"))
	if err != nil {
		s.writeError(w, r, badRequest("all", err))
		return
	}
	df, err := s.retriever.RetrieveGeoInfo(r.Context(), retrieval.GeoInfoQuery{
		Station:    q.Get("station"),
		AllColumns: all,
	})
	s.respond(w, r, df, err)
}

func (s *Server) handleHydraulic(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	depth, err := parseInt(q.Get("depth"))
	if err != nil {
		s.writeError(w, r, badRequest("depth", err))
		return
	}
	df, err := s.retriever.RetrieveHydraulicParams(r.Context(), retrieval.HydraulicQuery{
		Station: q.Get("station"),
		Depth:   depth,
	})
	s.respond(w, r, df, err)
}

func (s *Server) handleDaily(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var date time.Time
	if v := q.Get("date"); v != "" {
		d, err := time.Parse(time.DateOnly, v)
		if err != nil {
			s.writeError(w, r, badRequest("date", err))
			return
		}
		date = d
	}
	df, err := s.retriever.RetrieveDailySummary(r.Context(), retrieval.DailyQuery{
		Station:   q.Get("station"),
		Date:      date,
		Variables: q.Get("variables"),
	})
	s.respond(w, r, df, err)
}

func (s *Server) handleMonthly(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	year, err := parseInt(q.Get("year"))
	if err != nil {
		s.writeError(w, r, badRequest("year", err))
		return
	}
	month, err := parseInt(q.Get("month"))
	if err != nil {
		s.writeError(w, r, badRequest("month", err))
		return
	}
	df, err := s.retriever.RetrieveMonthlySummary(r.Context(), retrieval.MonthlyQuery{
		Station:   q.Get("station"),
		Year:      year,
		Month:     month,
		Variables: q.Get("variables"),
	})
	s.respond(w, r, df, err)
}

func parseInt(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}

func parseBool(v string) (bool, error) {
	if v == "" {
		return false, nil
	}
	return strconv.ParseBool(v)
}

// paramError is a malformed query parameter.
type paramError struct {
	param string
	err   error
}

func (e *paramError) Error() string {
	return "invalid " + e.param + ": " + e.err.Error()
}

func (e *paramError) Unwrap() error { return e.err }

func badRequest(param string, err error) error {
	return &paramError{param: param, err: err}
}

// statusRecorder captures the status code for metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) instrument(route string, h http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		h(rec, r)
		s.metrics.ProxyRequests.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
		s.logger.Debug("proxy request", "route", route, "query", r.URL.RawQuery, "status", rec.status, "duration", time.Since(start))
	})
}
