package mesonet

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/mesonet-data/internal/observability"
)

// Default Mesonet endpoints.
const (
	DefaultDataURL = "https://data.mesonet.org/data/public/mesonet"
	DefaultAPIURL  = "https://api.mesonet.org/index.php"
)

// Option configures a Client.
type Option func(*options)

type options struct {
	httpClient      *http.Client
	timeout         time.Duration
	dataURL         string
	apiURL          string
	soilParams      string // file path or http(s) URL of the MesoSoil CSV
	userAgent       string
	location        *time.Location
	requestInterval time.Duration // spacing between days of a monthly summary
	logger          *slog.Logger
	metrics         *observability.Metrics
}

// WithHTTPClient replaces the HTTP client. It takes precedence over WithTimeout.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.httpClient = c
	}
}

// WithTimeout bounds each request. Defaults to 30s.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithDataURL overrides the host serving MDF files.
func WithDataURL(u string) Option {
	return func(o *options) {
		o.dataURL = u
	}
}

// WithAPIURL overrides the host serving the station export.
func WithAPIURL(u string) Option {
	return func(o *options) {
		o.apiURL = u
	}
}

// WithSoilParams names the MesoSoil hydraulic parameter CSV, as a file path or
// http(s) URL. Without it, hydraulic parameters and soil moisture are unavailable.
func WithSoilParams(source string) Option {
	return func(o *options) {
		o.soilParams = source
	}
}

// WithUserAgent sets the User-Agent header sent to the Mesonet hosts.
func WithUserAgent(ua string) Option {
	return func(o *options) {
		o.userAgent = ua
	}
}

// WithLocation sets the time zone used for default dates and GenerateDate. Defaults to UTC.
func WithLocation(loc *time.Location) Option {
	return func(o *options) {
		o.location = loc
	}
}

// WithRequestInterval spaces the daily fetches of a monthly summary. Defaults to 1s;
// zero disables throttling.
func WithRequestInterval(d time.Duration) Option {
	return func(o *options) {
		o.requestInterval = d
	}
}

// WithLogger sets the logger. The default discards output.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithMetrics records fetch and retrieval metrics into m. The default is an
// unregistered set.
func WithMetrics(m *observability.Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

func applyOptions(opts []Option) *options {
	o := &options{
		timeout:         30 * time.Second,
		dataURL:         DefaultDataURL,
		apiURL:          DefaultAPIURL,
		userAgent:       "mesonet-data/1.0",
		location:        time.UTC,
		requestInterval: time.Second,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.httpClient == nil {
		o.httpClient = &http.Client{Timeout: o.timeout}
	}
	if o.location == nil {
		o.location = time.UTC
	}
	if o.logger == nil {
		o.logger = observability.DiscardLogger()
	}
	if o.metrics == nil {
		o.metrics = observability.NewMetricsForTesting()
	}
	return o
}
