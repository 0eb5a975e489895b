// Package retrieval validates Mesonet queries, fetches the files they need
// from a Source and shapes the results into tables.
package retrieval

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-gota/gota/dataframe"
	"golang.org/x/time/rate"

	"github.com/couchcryptid/mesonet-data/internal/domain"
	"github.com/couchcryptid/mesonet-data/internal/observability"
)

// Operation names, used as the "operation" metric label.
const (
	opGeoInfo   = "geoinfo"
	opHydraulic = "hydraulic"
	opDaily     = "daily"
	opMonthly   = "monthly"
)

// Source fetches raw Mesonet tables. MDF frames carry the station code in
// domain.StationColumn; StationInfo and HydraulicParams already use domain.SiteColumn.
type Source interface {
	StationInfo(ctx context.Context) (dataframe.DataFrame, error)
	HydraulicParams(ctx context.Context) (dataframe.DataFrame, error)
	FiveMinute(ctx context.Context, date time.Time, fields []string) (dataframe.DataFrame, error)
	DailySummary(ctx context.Context, date time.Time, fields []string) (dataframe.DataFrame, error)
}

// Retriever runs the four retrieval operations against a Source.
// It is safe for concurrent use.
type Retriever struct {
	source  Source
	limiter *rate.Limiter
	loc     *time.Location
	logger  *slog.Logger
	metrics *observability.Metrics
}

// New creates a Retriever. Monthly summaries fetch at most one day per interval;
// a non-positive interval disables throttling. Default dates are computed in loc.
func New(source Source, interval time.Duration, loc *time.Location, logger *slog.Logger, metrics *observability.Metrics) *Retriever {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Retriever{
		source:  source,
		limiter: rate.NewLimiter(limit, 1),
		loc:     loc,
		logger:  logger,
		metrics: metrics,
	}
}

// now is the package clock in the retriever's location.
func (r *Retriever) now() time.Time {
	return domain.Now().In(r.loc)
}

// finish records the outcome of an operation.
func (r *Retriever) finish(op string, df dataframe.DataFrame, err error) (dataframe.DataFrame, error) {
	if err != nil {
		r.metrics.RetrievalErrors.WithLabelValues(op).Inc()
		return dataframe.DataFrame{}, err
	}
	r.metrics.RowsReturned.WithLabelValues(op).Observe(float64(df.Nrow()))
	return df, nil
}

// subset keeps the rows for which keep returns true.
func subset(df dataframe.DataFrame, keep func(i int) bool) (dataframe.DataFrame, int) {
	var idx []int
	for i := 0; i < df.Nrow(); i++ {
		if keep(i) {
			idx = append(idx, i)
		}
	}
	if len(idx) == 0 {
		return dataframe.DataFrame{}, 0
	}
	return df.Subset(idx), len(idx)
}

// filterStation narrows df to one station. A station absent from df is ErrUnknownStation.
func filterStation(df dataframe.DataFrame, station domain.StationID) (dataframe.DataFrame, error) {
	if station.IsAll() {
		return df, nil
	}
	sites := df.Col(domain.SiteColumn).Records()
	out, n := subset(df, func(i int) bool { return sites[i] == string(station) })
	if n == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("%w: %s", domain.ErrUnknownStation, station)
	}
	return out, out.Err
}

func hasColumns(df dataframe.DataFrame, names []string) error {
	have := make(map[string]bool, df.Ncol())
	for _, n := range df.Names() {
		have[n] = true
	}
	for _, n := range names {
		if !have[n] {
			return fmt.Errorf("column %q not found", n)
		}
	}
	return nil
}
