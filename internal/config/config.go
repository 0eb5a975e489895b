package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata" // MESONET_TIMEZONE must resolve on hosts without zoneinfo

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all client and command settings, populated from environment variables.
type Config struct {
	DataURL         string
	APIURL          string
	Timeout         time.Duration
	RequestInterval time.Duration
	Location        *time.Location
	UserAgent       string

	// SoilParamsSource is a file path or http(s) URL of the MesoSoil CSV.
	SoilParamsSource string

	LogLevel        string
	LogFormat       string
	HTTPAddr        string
	ShutdownTimeout time.Duration

	// Export sinks.
	KafkaBrokers []string
	KafkaTopic   string
	InfluxURL    string
	InfluxToken  string
	InfluxOrg    string
	InfluxBucket string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	timeout, err := parsePositiveDuration("MESONET_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}

	interval, err := time.ParseDuration(sharedcfg.EnvOrDefault("MESONET_REQUEST_INTERVAL", "1s"))
	if err != nil || interval < 0 {
		return nil, errors.New("invalid MESONET_REQUEST_INTERVAL")
	}

	tz := sharedcfg.EnvOrDefault("MESONET_TIMEZONE", "UTC")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid MESONET_TIMEZONE %q: %w", tz, err)
	}

	cfg := &Config{
		DataURL:          sharedcfg.EnvOrDefault("MESONET_DATA_URL", "https://data.mesonet.org/data/public/mesonet"),
		APIURL:           sharedcfg.EnvOrDefault("MESONET_API_URL", "https://api.mesonet.org/index.php"),
		Timeout:          timeout,
		RequestInterval:  interval,
		Location:         loc,
		UserAgent:        sharedcfg.EnvOrDefault("MESONET_USER_AGENT", "mesonet-data/1.0"),
		SoilParamsSource: os.Getenv("SOIL_PARAMS_SOURCE"),
		LogLevel:         strings.ToLower(sharedcfg.EnvOrDefault("LOG_LEVEL", "info")),
		LogFormat:        strings.ToLower(sharedcfg.EnvOrDefault("LOG_FORMAT", "json")),
		HTTPAddr:         sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		ShutdownTimeout:  shutdownTimeout,

		KafkaBrokers: sharedcfg.ParseBrokers(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   sharedcfg.EnvOrDefault("KAFKA_TOPIC", "mesonet-summaries"),
		InfluxURL:    os.Getenv("INFLUX_URL"),
		InfluxToken:  os.Getenv("INFLUX_TOKEN"),
		InfluxOrg:    os.Getenv("INFLUX_ORG"),
		InfluxBucket: sharedcfg.EnvOrDefault("INFLUX_BUCKET", "mesonet"),
	}

	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", cfg.LogLevel)
	}
	switch cfg.LogFormat {
	case "json", "text":
	default:
		return nil, fmt.Errorf("invalid LOG_FORMAT %q (allowed: json, text)", cfg.LogFormat)
	}
	if cfg.DataURL == "" || cfg.APIURL == "" {
		return nil, errors.New("MESONET_DATA_URL and MESONET_API_URL must not be empty")
	}

	return cfg, nil
}

// KafkaEnabled reports whether a Kafka sink can be built.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0 && c.KafkaTopic != ""
}

// InfluxEnabled reports whether an InfluxDB sink can be built.
func (c *Config) InfluxEnabled() bool {
	return c.InfluxURL != "" && c.InfluxToken != "" && c.InfluxOrg != ""
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}
