package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-gota/gota/dataframe"

	mesonet "github.com/couchcryptid/mesonet-data"
	httpadapter "github.com/couchcryptid/mesonet-data/internal/adapter/http"
	"github.com/couchcryptid/mesonet-data/internal/adapter/influx"
	kafkaadapter "github.com/couchcryptid/mesonet-data/internal/adapter/kafka"
	"github.com/couchcryptid/mesonet-data/internal/config"
	"github.com/couchcryptid/mesonet-data/internal/observability"
	"github.com/couchcryptid/mesonet-data/internal/table"
)

// errUsage reports a bad command line; the flag package has already printed why.
var errUsage = errors.New("usage")

// tableSink receives exported tables.
type tableSink interface {
	WriteTable(ctx context.Context, operation string, df dataframe.DataFrame) error
	Close() error
}

type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *observability.Metrics
	stdout  io.Writer
	stderr  io.Writer
}

func (a *app) client() *mesonet.Client {
	return mesonet.New(
		mesonet.WithDataURL(a.cfg.DataURL),
		mesonet.WithAPIURL(a.cfg.APIURL),
		mesonet.WithSoilParams(a.cfg.SoilParamsSource),
		mesonet.WithTimeout(a.cfg.Timeout),
		mesonet.WithUserAgent(a.cfg.UserAgent),
		mesonet.WithLocation(a.cfg.Location),
		mesonet.WithRequestInterval(a.cfg.RequestInterval),
		mesonet.WithLogger(a.logger),
		mesonet.WithMetrics(a.metrics),
	)
}

func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.errOut(), "usage: mesonet geoinfo|hydraulic|daily|monthly|serve [flags]")
		return errUsage
	}
	cmd, args := args[0], args[1:]
	if cmd == "serve" {
		return a.serve(ctx)
	}

	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(a.errOut())
	station := fs.String("station", "", "4-letter station ID (default all stations)")
	format := fs.String("format", table.FormatCSV, "stdout format: csv or json")
	sinkName := fs.String("sink", "", "publish rows to kafka or influx instead of stdout")

	var retrieve func(context.Context, *mesonet.Client) (dataframe.DataFrame, error)
	switch cmd {
	case "geoinfo":
		all := fs.Bool("all", false, "return every station export column")
		retrieve = func(ctx context.Context, c *mesonet.Client) (dataframe.DataFrame, error) {
			return c.RetrieveGeoInfo(ctx, mesonet.GeoInfoQuery{Station: *station, AllColumns: *all})
		}
	case "hydraulic":
		depth := fs.Int("depth", 0, "soil depth in cm: 5, 25 or 60 (default all)")
		retrieve = func(ctx context.Context, c *mesonet.Client) (dataframe.DataFrame, error) {
			return c.RetrieveHydraulicParams(ctx, mesonet.HydraulicQuery{Station: *station, Depth: *depth})
		}
	case "daily":
		date := fs.String("date", "", "YYYY-MM-DD (default yesterday)")
		variables := fs.String("variables", mesonet.AllVariables, "weather, soil_moist, soil_temp or all")
		retrieve = func(ctx context.Context, c *mesonet.Client) (dataframe.DataFrame, error) {
			q := mesonet.DailyQuery{Station: *station, Variables: *variables}
			if *date != "" {
				d, err := time.ParseInLocation(time.DateOnly, *date, a.cfg.Location)
				if err != nil {
					return dataframe.DataFrame{}, fmt.Errorf("%w: %w", mesonet.ErrInvalidDate, err)
				}
				q.Date = d
			}
			return c.RetrieveDailySummary(ctx, q)
		}
	case "monthly":
		year := fs.Int("year", 0, "year (default current)")
		month := fs.Int("month", 0, "month 1-12 (default current)")
		variables := fs.String("variables", mesonet.AllVariables, "weather, soil_moist, soil_temp or all")
		retrieve = func(ctx context.Context, c *mesonet.Client) (dataframe.DataFrame, error) {
			return c.RetrieveMonthlySummary(ctx, mesonet.MonthlyQuery{Station: *station, Year: *year, Month: *month, Variables: *variables})
		}
	default:
		fmt.Fprintf(a.errOut(), "unknown command %q\n", cmd)
		return errUsage
	}
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	df, err := retrieve(ctx, a.client())
	if err != nil {
		return fmt.Errorf("%s: %w", cmd, err)
	}

	if *sinkName == "" {
		return table.Write(a.stdout, df, *format)
	}
	sink, err := a.sink(*sinkName)
	if err != nil {
		return err
	}
	defer func() {
		if err := sink.Close(); err != nil {
			a.logger.Error("sink close error", "sink", *sinkName, "error", err)
		}
	}()
	return sink.WriteTable(ctx, cmd, df)
}

func (a *app) sink(name string) (tableSink, error) {
	switch name {
	case "kafka":
		if !a.cfg.KafkaEnabled() {
			return nil, errors.New("kafka sink needs KAFKA_BROKERS and KAFKA_TOPIC")
		}
		return kafkaadapter.NewWriter(a.cfg, a.logger), nil
	case "influx":
		if !a.cfg.InfluxEnabled() {
			return nil, errors.New("influx sink needs INFLUX_URL, INFLUX_TOKEN and INFLUX_ORG")
		}
		return influx.NewWriter(a.cfg, a.logger), nil
	default:
		return nil, fmt.Errorf("unknown sink %q (want kafka or influx)", name)
	}
}

// upstreamCheck reports ready when the station export can be fetched.
type upstreamCheck struct {
	client *mesonet.Client
}

func (u upstreamCheck) CheckReadiness(ctx context.Context) error {
	_, err := u.client.RetrieveGeoInfo(ctx, mesonet.GeoInfoQuery{})
	return err
}

func (a *app) serve(ctx context.Context) error {
	client := a.client()
	srv := httpadapter.NewServer(a.cfg.HTTPAddr, client, upstreamCheck{client: client}, a.metrics, a.logger)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
	}
	a.logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	a.logger.Info("shutdown complete")
	return nil
}

func (a *app) errOut() io.Writer {
	if a.stderr != nil {
		return a.stderr
	}
	return io.Discard
}
