package retrieval

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/couchcryptid/mesonet-data/internal/domain"
)

// dateLayout formats the Date column.
const dateLayout = time.DateOnly

// DailySummary returns one row per station for a single day.
func (r *Retriever) DailySummary(ctx context.Context, q DailyQuery) (dataframe.DataFrame, error) {
	df, err := r.dailySummary(ctx, q)
	return r.finish(opDaily, df, err)
}

func (r *Retriever) dailySummary(ctx context.Context, q DailyQuery) (dataframe.DataFrame, error) {
	station, err := domain.ParseStationID(q.Station)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	group, err := domain.ParseVariableGroup(q.Variables)
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	now := r.now()
	date := domain.Yesterday(now)
	if !q.Date.IsZero() {
		date = time.Date(q.Date.Year(), q.Date.Month(), q.Date.Day(), 0, 0, 0, 0, r.loc)
	}
	if err := domain.ValidateDate(date, now); err != nil {
		return dataframe.DataFrame{}, err
	}

	params, err := r.soilParamsFor(ctx, group)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	df, err := r.day(ctx, date, group, params)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	return filterStation(df, station)
}

// MonthlySummary returns the daily summaries of every complete day in a month,
// fetched one day at a time and concatenated in date order.
func (r *Retriever) MonthlySummary(ctx context.Context, q MonthlyQuery) (dataframe.DataFrame, error) {
	df, err := r.monthlySummary(ctx, q)
	return r.finish(opMonthly, df, err)
}

func (r *Retriever) monthlySummary(ctx context.Context, q MonthlyQuery) (dataframe.DataFrame, error) {
	station, err := domain.ParseStationID(q.Station)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	group, err := domain.ParseVariableGroup(q.Variables)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	days, err := domain.MonthDays(q.Year, q.Month, r.now())
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	params, err := r.soilParamsFor(ctx, group)
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	var out dataframe.DataFrame
	for i, date := range days {
		if err := r.limiter.Wait(ctx); err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("throttle %s: %w", date.Format(dateLayout), err)
		}
		r.logger.Info("retrieving daily summary", "date", date.Format(dateLayout), "day", i+1, "days", len(days))

		df, err := r.day(ctx, date, group, params)
		if err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("%s: %w", date.Format(dateLayout), err)
		}
		if i == 0 {
			out = df
			continue
		}
		out = out.RBind(df)
		if out.Err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("concatenate %s: %w", date.Format(dateLayout), out.Err)
		}
	}
	return filterStation(out, station)
}

// soilParamsFor loads hydraulic parameters when group needs soil moisture.
func (r *Retriever) soilParamsFor(ctx context.Context, group domain.VariableGroup) (soilParams, error) {
	if group != domain.SoilMoisture && group != domain.AllVariables {
		return nil, nil
	}
	df, err := r.source.HydraulicParams(ctx)
	if err != nil {
		return nil, err
	}
	records, err := HydraulicRecords(df)
	if err != nil {
		return nil, fmt.Errorf("soil params: %w", err)
	}
	return newSoilParams(records), nil
}

// day builds the summary table for one date: Site, Date, then group.Fields().
func (r *Retriever) day(ctx context.Context, date time.Time, group domain.VariableGroup, params soilParams) (dataframe.DataFrame, error) {
	var summaryFields []string
	switch group {
	case domain.Weather:
		summaryFields = domain.WeatherFields()
	case domain.SoilTemperature:
		summaryFields = domain.SoilTemperatureFields()
	case domain.AllVariables:
		summaryFields = append(domain.WeatherFields(), domain.SoilTemperatureFields()...)
	}

	var summary dataframe.DataFrame
	if len(summaryFields) > 0 {
		df, err := r.source.DailySummary(ctx, date, summaryFields)
		if err != nil {
			return dataframe.DataFrame{}, err
		}
		summary = df.Rename(domain.SiteColumn, domain.StationColumn)
	}

	var df dataframe.DataFrame
	switch group {
	case domain.Weather, domain.SoilTemperature:
		df = summary
	case domain.SoilMoisture, domain.AllVariables:
		deltaT, err := r.source.FiveMinute(ctx, date, deltaTFields())
		if err != nil {
			return dataframe.DataFrame{}, err
		}
		moist, err := soilMoistureFrame(deltaT, params)
		if err != nil {
			return dataframe.DataFrame{}, err
		}
		df = moist
		if group == domain.AllVariables {
			df = summary.InnerJoin(moist, domain.SiteColumn)
		}
	}
	if df.Err != nil {
		return dataframe.DataFrame{}, df.Err
	}
	if df.Nrow() == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("%w: %s", domain.ErrNoData, date.Format(dateLayout))
	}

	dates := make([]string, df.Nrow())
	for i := range dates {
		dates[i] = date.Format(dateLayout)
	}
	df = df.Mutate(series.New(dates, series.String, domain.DateColumn))
	df = df.Select(append([]string{domain.SiteColumn, domain.DateColumn}, group.Fields()...))
	return df, df.Err
}

func deltaTFields() []string {
	fields := make([]string, len(domain.Depths))
	for i, d := range domain.Depths {
		fields[i] = domain.DeltaTColumns[d]
	}
	return fields
}

// soilParams indexes hydraulic parameters by station and depth.
type soilParams map[domain.StationID]map[domain.Depth]domain.HydraulicParamRecord

func newSoilParams(records []domain.HydraulicParamRecord) soilParams {
	p := make(soilParams)
	for _, rec := range records {
		if p[rec.Site] == nil {
			p[rec.Site] = make(map[domain.Depth]domain.HydraulicParamRecord, len(domain.Depths))
		}
		p[rec.Site][rec.Depth] = rec
	}
	return p
}

// errNoSoilStations is returned when no station in the five-minute file has parameters.
var errNoSoilStations = errors.New("no station has both delta-T readings and soil parameters")

// soilMoistureFrame derives domain.SoilMoistureFields for every station in
// deltaT that has hydraulic parameters. Stations without parameters are
// dropped; a depth without parameters is NaN.
func soilMoistureFrame(deltaT dataframe.DataFrame, params soilParams) (dataframe.DataFrame, error) {
	if err := hasColumns(deltaT, append([]string{domain.StationColumn}, deltaTFields()...)); err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("five-minute data: %w", err)
	}

	readings := make(map[domain.Depth][]float64, len(domain.Depths))
	for _, d := range domain.Depths {
		readings[d] = deltaT.Col(domain.DeltaTColumns[d]).Float()
	}

	fields := domain.SoilMoistureFields()
	values := make([][]float64, len(fields))
	var sites []string
	for i, site := range deltaT.Col(domain.StationColumn).Records() {
		byDepth, ok := params[domain.StationID(site)]
		if !ok {
			continue
		}
		sites = append(sites, site)
		for di, d := range domain.Depths {
			reading := domain.MissingSoilMoisture()
			if p, ok := byDepth[d]; ok {
				reading = domain.DeriveSoilMoisture(readings[d][i], p)
			}
			// fields are quantity-major: FC05 FC25 FC60 WP05 ...
			for qi, v := range reading.Values() {
				col := qi*len(domain.Depths) + di
				values[col] = append(values[col], v)
			}
		}
	}
	if len(sites) == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("%w: %w", domain.ErrNoData, errNoSoilStations)
	}

	cols := make([]series.Series, 0, len(fields)+1)
	cols = append(cols, series.New(sites, series.String, domain.SiteColumn))
	for i, name := range fields {
		cols = append(cols, series.New(values[i], series.Float, name))
	}
	df := dataframe.New(cols...)
	return df, df.Err
}
