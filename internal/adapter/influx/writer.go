// Package influx writes retrieved tables to InfluxDB as points.
package influx

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/couchcryptid/mesonet-data/internal/config"
	"github.com/couchcryptid/mesonet-data/internal/domain"
)

// pointWriter is the subset of api.WriteAPIBlocking used here.
type pointWriter interface {
	WritePoint(ctx context.Context, point ...*write.Point) error
}

// Writer stores retrieved tables in an InfluxDB bucket. Each row becomes one
// point in measurement "mesonet_<operation>", tagged by Site (and Depth),
// timestamped by its Date column.
type Writer struct {
	client influxdb2.Client
	api    pointWriter
	loc    *time.Location
	logger *slog.Logger
}

// NewWriter connects a blocking write API to the configured org and bucket.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	client := influxdb2.NewClient(cfg.InfluxURL, cfg.InfluxToken)
	return &Writer{
		client: client,
		api:    client.WriteAPIBlocking(cfg.InfluxOrg, cfg.InfluxBucket),
		loc:    cfg.Location,
		logger: logger,
	}
}

// WriteTable converts df to points and writes them in one request.
func (w *Writer) WriteTable(ctx context.Context, operation string, df dataframe.DataFrame) error {
	if df.Err != nil {
		return df.Err
	}
	points, err := tablePoints(operation, df, domain.Now(), w.loc)
	if err != nil {
		return err
	}
	if len(points) == 0 {
		return nil
	}
	if err := w.api.WritePoint(ctx, points...); err != nil {
		return fmt.Errorf("write %s points: %w", operation, err)
	}
	w.logger.Info("wrote points", "operation", operation, "points", len(points))
	return nil
}

func (w *Writer) Close() error {
	if w.client != nil {
		w.client.Close()
	}
	return nil
}

// tablePoints builds one point per row. Float columns are fields (NaN skipped),
// string and int columns other than Date are tags. Rows without a single
// field are dropped. Tables without Date are stamped at now.
func tablePoints(operation string, df dataframe.DataFrame, now time.Time, loc *time.Location) ([]*write.Point, error) {
	if loc == nil {
		loc = time.UTC
	}
	measurement := "mesonet_" + operation

	var fieldCols, tagCols []series.Series
	var dates []string
	for _, name := range df.Names() {
		col := df.Col(name)
		switch {
		case name == domain.DateColumn:
			dates = col.Records()
		case col.Type() == series.Float:
			fieldCols = append(fieldCols, col)
		default:
			tagCols = append(tagCols, col)
		}
	}

	points := make([]*write.Point, 0, df.Nrow())
	for i := 0; i < df.Nrow(); i++ {
		ts := now
		if dates != nil {
			t, err := time.ParseInLocation(time.DateOnly, dates[i], loc)
			if err != nil {
				return nil, fmt.Errorf("row %d: parse %s: %w", i, domain.DateColumn, err)
			}
			ts = t
		}

		p := influxdb2.NewPointWithMeasurement(measurement).SetTime(ts)
		for _, col := range tagCols {
			if e := col.Elem(i); !e.IsNA() {
				p.AddTag(col.Name, tagValue(e))
			}
		}
		fields := 0
		for _, col := range fieldCols {
			if v := col.Elem(i).Float(); !math.IsNaN(v) {
				p.AddField(col.Name, v)
				fields++
			}
		}
		if fields > 0 {
			points = append(points, p)
		}
	}
	return points, nil
}

func tagValue(e series.Element) string {
	if e.Type() == series.Int {
		if v, err := e.Int(); err == nil {
			return strconv.Itoa(v)
		}
	}
	return e.String()
}
