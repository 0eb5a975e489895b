package mesonet

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/mesonet-data/internal/domain"
	"github.com/couchcryptid/mesonet-data/internal/observability"
)

const testUserAgent = "mesonet-data-test"

var testDate = time.Date(2024, time.April, 25, 0, 0, 0, 0, time.UTC)

func testClient(baseURL, soilParams string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		dataURL:    baseURL + "/data",
		apiURL:     baseURL + "/api",
		soilParams: soilParams,
		userAgent:  testUserAgent,
		metrics:    observability.NewMetricsForTesting(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// fixtureServer serves the testdata files at the paths the Mesonet hosts use.
func fixtureServer(t *testing.T) *httptest.Server {
	t.Helper()
	routes := map[string]string{
		"/api/export/station_location_soil_information":      "station_info.csv",
		"/data/mdf/2024/04/25/202404250000.mdf":               "202404250000.mdf",
		"/data/summaries/daily/mdf/2024/04/20240425.daily.mdf": "20240425.daily.mdf",
		"/soil/mesosoil.csv":                                  "mesosoil.csv",
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, testUserAgent, r.Header.Get("User-Agent"))
		name, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		http.ServeFile(w, r, filepath.Join("testdata", name))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_StationInfo(t *testing.T) {
	srv := fixtureServer(t)
	c := testClient(srv.URL, "")

	df, err := c.StationInfo(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, df.Nrow())
	assert.Equal(t, []string{"ACME", "ADAX", "ALTU"}, df.Col(domain.SiteColumn).Records())
	assert.Equal(t, []string{"Acme", "Ada", "Altus"}, df.Col("Name").Records())
	assert.Equal(t, []string{"Grady", "Pontotoc", "Jackson"}, df.Col("County").Records())
	assert.InDelta(t, 34.80833, df.Col("nLat").Float()[0], 1e-9)
	assert.Contains(t, df.Names(), "BULK5")
	assert.NotContains(t, df.Names(), "stid")
}

func TestClient_FiveMinute(t *testing.T) {
	srv := fixtureServer(t)
	c := testClient(srv.URL, "")

	df, err := c.FiveMinute(context.Background(), testDate.Add(13*time.Hour), []string{"TR05", "TR25", "TR60"})
	require.NoError(t, err)

	assert.Equal(t, []string{domain.StationColumn, "TR05", "TR25", "TR60"}, df.Names())
	assert.Equal(t, []string{"ACME", "ADAX", "ALTU"}, df.Col(domain.StationColumn).Records())

	tr05 := df.Col("TR05").Float()
	assert.InDelta(t, 3.17, tr05[0], 1e-9)
	assert.True(t, math.IsNaN(tr05[1]), "sentinel -996 should decode as NaN")
	assert.True(t, math.IsNaN(df.Col("TR60").Float()[1]))
}

func TestClient_DailySummary(t *testing.T) {
	srv := fixtureServer(t)
	c := testClient(srv.URL, "")

	df, err := c.DailySummary(context.Background(), testDate, []string{"TMAX", "RAIN", "S5MN"})
	require.NoError(t, err)

	assert.Equal(t, 3, df.Nrow())
	assert.Equal(t, []float64{27.4, 25.9, 31.2}, df.Col("TMAX").Float())
	rain := df.Col("RAIN").Float()
	assert.InDelta(t, 12.45, rain[1], 1e-9)
	assert.True(t, math.IsNaN(rain[2]))
	assert.True(t, math.IsNaN(df.Col("S5MN").Float()[2]))
}

func TestClient_DailySummary_MissingFile(t *testing.T) {
	srv := fixtureServer(t)
	c := testClient(srv.URL, "")

	_, err := c.DailySummary(context.Background(), testDate.AddDate(0, 0, 1), []string{"TMAX"})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Contains(t, apiErr.URL, "20240426.daily.mdf")
	assert.InDelta(t, 1, testutil.ToFloat64(c.metrics.FetchRequests.WithLabelValues(kindDailySummary, "error")), 0)
}

func TestClient_DailySummary_UnknownField(t *testing.T) {
	srv := fixtureServer(t)
	c := testClient(srv.URL, "")

	_, err := c.DailySummary(context.Background(), testDate, []string{"TMAX", "NOPE"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"NOPE"`)
}

func TestClient_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := testClient(srv.URL, "")
	_, err := c.StationInfo(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
	assert.Equal(t, "upstream unavailable", apiErr.Body)
	assert.Contains(t, err.Error(), "status 503")
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := testClient(srv.URL, "")
	c.httpClient.Timeout = 50 * time.Millisecond

	_, err := c.FiveMinute(context.Background(), testDate, []string{"TR05"})
	require.Error(t, err)

	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
	assert.InDelta(t, 1, testutil.ToFloat64(c.metrics.FetchRequests.WithLabelValues(kindFiveMinute, "error")), 0)
}

func TestClient_ContextCanceled(t *testing.T) {
	srv := fixtureServer(t)
	c := testClient(srv.URL, "")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.StationInfo(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestClient_HydraulicParams_File(t *testing.T) {
	c := testClient("http://unused.invalid", filepath.Join("testdata", "mesosoil.csv"))

	df, err := c.HydraulicParams(context.Background())
	require.NoError(t, err)

	assert.Equal(t, domain.HydraulicColumns, df.Names())
	assert.Equal(t, 6, df.Nrow())
	assert.Equal(t, []string{"ACME", "ACME", "ACME", "ADAX", "ADAX", "ADAX"}, df.Col(domain.SiteColumn).Records())

	depths, err := df.Col("Depth").Int()
	require.NoError(t, err)
	assert.Equal(t, []int{5, 25, 60, 5, 25, 60}, depths)

	th33 := df.Col("Th33").Float()
	assert.InDelta(t, 0.30, th33[0], 1e-9)
	assert.True(t, math.IsNaN(th33[5]), "-9.9 should decode as NaN")
}

func TestClient_HydraulicParams_URL(t *testing.T) {
	srv := fixtureServer(t)
	c := testClient(srv.URL, srv.URL+"/soil/mesosoil.csv")

	df, err := c.HydraulicParams(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 6, df.Nrow())
	assert.InDelta(t, 1, testutil.ToFloat64(c.metrics.FetchRequests.WithLabelValues(kindSoilParams, "success")), 0)
}

func TestClient_HydraulicParams_Unconfigured(t *testing.T) {
	c := testClient("http://unused.invalid", "")

	_, err := c.HydraulicParams(context.Background())
	require.ErrorIs(t, err, domain.ErrSoilParamsUnavailable)
}

func TestClient_HydraulicParams_MissingColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "soil.csv")
	require.NoError(t, os.WriteFile(path, []byte("Site,Depth,Sand\nACME,5,40.1\n"), 0o600))
	c := testClient("http://unused.invalid", path)

	_, err := c.HydraulicParams(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"Silt"`)
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient(Endpoints{
		DataURL: "https://data.mesonet.org/data/public/mesonet/",
		APIURL:  "https://api.mesonet.org/index.php",
	}, nil, "", slog.Default(), observability.NewMetricsForTesting())

	assert.Equal(t, 30*time.Second, c.httpClient.Timeout)
	assert.Equal(t, "https://data.mesonet.org/data/public/mesonet", c.dataURL)
}

func TestURLs(t *testing.T) {
	base := "https://data.mesonet.org/data/public/mesonet"
	date := time.Date(2009, time.March, 7, 18, 45, 0, 0, time.UTC)

	assert.Equal(t, base+"/mdf/2009/03/07/200903070000.mdf", fiveMinuteURL(base, date))
	assert.Equal(t, base+"/summaries/daily/mdf/2009/03/20090307.daily.mdf", dailySummaryURL(base, date))
	assert.Equal(t, "https://api.mesonet.org/index.php/export/station_location_soil_information",
		stationInfoURL("https://api.mesonet.org/index.php"))
}
