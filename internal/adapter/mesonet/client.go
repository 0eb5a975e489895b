package mesonet

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"

	"github.com/couchcryptid/mesonet-data/internal/domain"
	"github.com/couchcryptid/mesonet-data/internal/observability"
)

// Fetch kinds, used as the "kind" metric label.
const (
	kindStationInfo  = "station_info"
	kindFiveMinute   = "five_minute"
	kindDailySummary = "daily_summary"
	kindSoilParams   = "soil_params"
)

// maxErrorBody caps how much of a failed response body ends up in an error.
const maxErrorBody = 512

// Endpoints locates the Mesonet hosts and the MesoSoil parameter table.
type Endpoints struct {
	DataURL string // e.g. https://data.mesonet.org/data/public/mesonet
	APIURL  string // e.g. https://api.mesonet.org/index.php

	// SoilParams is a file path or http(s) URL of the MesoSoil CSV. Empty disables soil moisture.
	SoilParams string
}

// Client fetches Mesonet station exports and MDF files over HTTP.
// It implements retrieval.Source.
type Client struct {
	httpClient *http.Client
	dataURL    string
	apiURL     string
	soilParams string
	userAgent  string
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates a Mesonet client. A nil httpClient gets a 30s timeout.
func NewClient(endpoints Endpoints, httpClient *http.Client, userAgent string, logger *slog.Logger, metrics *observability.Metrics) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		httpClient: httpClient,
		dataURL:    strings.TrimRight(endpoints.DataURL, "/"),
		apiURL:     strings.TrimRight(endpoints.APIURL, "/"),
		soilParams: endpoints.SoilParams,
		userAgent:  userAgent,
		logger:     logger,
		metrics:    metrics,
	}
}

// StationInfo downloads the station location and soil export with renamed columns.
func (c *Client) StationInfo(ctx context.Context) (dataframe.DataFrame, error) {
	body, err := c.get(ctx, kindStationInfo, stationInfoURL(c.apiURL))
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	df, err := decodeStationInfo(body)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("decode %s: %w", kindStationInfo, err)
	}
	return df, nil
}

// FiveMinute downloads the 00:00 five-minute observation file for date and
// keeps STID plus fields.
func (c *Client) FiveMinute(ctx context.Context, date time.Time, fields []string) (dataframe.DataFrame, error) {
	return c.mdf(ctx, kindFiveMinute, fiveMinuteURL(c.dataURL, date), fields)
}

// DailySummary downloads the daily summary file for date and keeps STID plus fields.
func (c *Client) DailySummary(ctx context.Context, date time.Time, fields []string) (dataframe.DataFrame, error) {
	return c.mdf(ctx, kindDailySummary, dailySummaryURL(c.dataURL, date), fields)
}

func (c *Client) mdf(ctx context.Context, kind, rawURL string, fields []string) (dataframe.DataFrame, error) {
	body, err := c.get(ctx, kind, rawURL)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	df, err := decodeMDF(bytes.NewReader(body), fields)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("decode %s: %w", kind, err)
	}
	return df, nil
}

// get performs one GET and records its outcome.
func (c *Client) get(ctx context.Context, kind, rawURL string) ([]byte, error) {
	start := time.Now()
	body, status, err := c.doRequest(ctx, kind, rawURL)
	elapsed := time.Since(start)

	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	c.metrics.FetchRequests.WithLabelValues(kind, outcome).Inc()
	c.metrics.FetchDuration.WithLabelValues(kind).Observe(elapsed.Seconds())

	if err != nil {
		c.logger.Warn("mesonet fetch failed", "kind", kind, "url", rawURL, "status", status, "error", err)
		return nil, err
	}
	c.logger.Debug("mesonet fetch", "kind", kind, "url", rawURL, "status", status, "bytes", len(body), "duration", elapsed)
	return body, nil
}

func (c *Client) doRequest(ctx context.Context, kind, rawURL string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("fetch %s: %w", kind, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, resp.StatusCode, &APIError{StatusCode: resp.StatusCode, URL: rawURL, Body: strings.TrimSpace(string(body))}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read %s: %w", kind, err)
	}
	return body, resp.StatusCode, nil
}

// APIError is a non-200 response from a Mesonet host.
type APIError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("mesonet API error: status %d: %s: %s", e.StatusCode, e.URL, e.Body)
}

func stationInfoURL(apiURL string) string {
	return apiURL + "/export/station_location_soil_information"
}

// fiveMinuteURL addresses the 00:00 observation file: mdf/YYYY/MM/DD/YYYYMMDD0000.mdf.
func fiveMinuteURL(dataURL string, date time.Time) string {
	day := domain.StartOfDay(date)
	return fmt.Sprintf("%s/mdf/%s/%s.mdf", dataURL, day.Format("2006/01/02"), day.Format("200601021504"))
}

// dailySummaryURL addresses summaries/daily/mdf/YYYY/MM/YYYYMMDD.daily.mdf.
func dailySummaryURL(dataURL string, date time.Time) string {
	return fmt.Sprintf("%s/summaries/daily/mdf/%s/%s.daily.mdf", dataURL, date.Format("2006/01"), date.Format("20060102"))
}
