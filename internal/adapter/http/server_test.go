package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/couchcryptid/mesonet-data/internal/adapter/http"
	"github.com/couchcryptid/mesonet-data/internal/domain"
	"github.com/couchcryptid/mesonet-data/internal/observability"
	"github.com/couchcryptid/mesonet-data/internal/retrieval"
)

type mockReadiness struct {
	err error
}

func (m *mockReadiness) CheckReadiness(_ context.Context) error { return m.err }

// mockRetriever returns a one-row table and remembers the last query.
type mockRetriever struct {
	err       error
	geo       retrieval.GeoInfoQuery
	hydraulic retrieval.HydraulicQuery
	daily     retrieval.DailyQuery
	monthly   retrieval.MonthlyQuery
}

func oneRow() dataframe.DataFrame {
	return dataframe.New(
		series.New([]string{"ACME"}, series.String, "Site"),
		series.New([]string{"2024-04-25"}, series.String, "Date"),
		series.New([]float64{27.4}, series.Float, "TMAX"),
	)
}

func (m *mockRetriever) RetrieveGeoInfo(_ context.Context, q retrieval.GeoInfoQuery) (dataframe.DataFrame, error) {
	m.geo = q
	return oneRow(), m.err
}

func (m *mockRetriever) RetrieveHydraulicParams(_ context.Context, q retrieval.HydraulicQuery) (dataframe.DataFrame, error) {
	m.hydraulic = q
	return oneRow(), m.err
}

func (m *mockRetriever) RetrieveDailySummary(_ context.Context, q retrieval.DailyQuery) (dataframe.DataFrame, error) {
	m.daily = q
	return oneRow(), m.err
}

func (m *mockRetriever) RetrieveMonthlySummary(_ context.Context, q retrieval.MonthlyQuery) (dataframe.DataFrame, error) {
	m.monthly = q
	return oneRow(), m.err
}

func newTestServer(ret *mockRetriever, readyErr error) (*httpadapter.Server, *observability.Metrics) {
	metrics := observability.NewMetricsForTesting()
	return httpadapter.NewServer(":0", ret, &mockReadiness{err: readyErr}, metrics, observability.DiscardLogger()), metrics
}

func get(srv http.Handler, target string, header ...string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	srv.ServeHTTP(rec, req)
	return rec
}

func TestHealthzReturns200(t *testing.T) {
	srv, _ := newTestServer(&mockRetriever{}, nil)
	rec := get(srv, "/healthz")

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	srv, _ := newTestServer(&mockRetriever{}, fmt.Errorf("mesonet unreachable"))
	rec := get(srv, "/readyz")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not ready", body["status"])
	assert.Equal(t, "mesonet unreachable", body["error"])
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newTestServer(&mockRetriever{}, nil)
	rec := get(srv, "/metrics")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestDaily_CSV(t *testing.T) {
	ret := &mockRetriever{}
	srv, metrics := newTestServer(ret, nil)

	rec := get(srv, "/v1/daily?station=acme&date=2024-04-25&variables=weather")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "Site,Date,TMAX\nACME,2024-04-25,27.4\n", rec.Body.String())

	assert.Equal(t, "acme", ret.daily.Station)
	assert.Equal(t, "weather", ret.daily.Variables)
	assert.Equal(t, time.Date(2024, time.April, 25, 0, 0, 0, 0, time.UTC), ret.daily.Date)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.ProxyRequests.WithLabelValues("daily", "200")), 0)
}

func TestDaily_JSON(t *testing.T) {
	srv, _ := newTestServer(&mockRetriever{}, nil)

	for _, rec := range []*httptest.ResponseRecorder{
		get(srv, "/v1/daily?format=json"),
		get(srv, "/v1/daily", "Accept", "application/json"),
	} {
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.JSONEq(t, `[{"Site":"ACME","Date":"2024-04-25","TMAX":27.4}]`, rec.Body.String())
	}
}

func TestQueryParsing(t *testing.T) {
	ret := &mockRetriever{}
	srv, _ := newTestServer(ret, nil)

	require.Equal(t, http.StatusOK, get(srv, "/v1/geoinfo?station=ADAX&all=true").Code)
	assert.Equal(t, retrieval.GeoInfoQuery{Station: "ADAX", AllColumns: true}, ret.geo)

	require.Equal(t, http.StatusOK, get(srv, "/v1/hydraulic?depth=25").Code)
	assert.Equal(t, retrieval.HydraulicQuery{Depth: 25}, ret.hydraulic)

	require.Equal(t, http.StatusOK, get(srv, "/v1/monthly?year=2024&month=3&variables=soil_temp").Code)
	assert.Equal(t, retrieval.MonthlyQuery{Year: 2024, Month: 3, Variables: "soil_temp"}, ret.monthly)
}

func TestBadParameters(t *testing.T) {
	srv, metrics := newTestServer(&mockRetriever{}, nil)

	for _, target := range []string{
		"/v1/geoinfo?all=maybe",
		"/v1/hydraulic?depth=deep",
		"/v1/daily?date=04/25/2024",
		"/v1/monthly?year=last",
		"/v1/monthly?month=april",
		"/v1/daily?format=xml",
	} {
		rec := get(srv, target)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		assert.Contains(t, rec.Body.String(), `"error"`, target)
	}
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.ProxyRequests.WithLabelValues("geoinfo", "400")), 0)
}

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: month 13", domain.ErrInvalidDate), http.StatusBadRequest},
		{domain.ErrInvalidDepth, http.StatusBadRequest},
		{domain.ErrInvalidStation, http.StatusBadRequest},
		{domain.ErrUnknownVariableGroup, http.StatusBadRequest},
		{fmt.Errorf("%w: ZZZZ", domain.ErrUnknownStation), http.StatusNotFound},
		{domain.ErrNoData, http.StatusNotFound},
		{domain.ErrSoilParamsUnavailable, http.StatusNotImplemented},
		{fmt.Errorf("fetch: %w", context.DeadlineExceeded), http.StatusGatewayTimeout},
		{fmt.Errorf("mesonet API error: status 500"), http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			srv, _ := newTestServer(&mockRetriever{err: tt.err}, nil)
			rec := get(srv, "/v1/daily")

			assert.Equal(t, tt.want, rec.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.err.Error(), body["error"])
		})
	}
}
