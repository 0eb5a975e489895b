// Package mesonet downloads public station data from the Oklahoma Mesonet and
// returns it as gota data frames.
//
// Four operations are available: station metadata (RetrieveGeoInfo), MesoSoil
// hydraulic parameters (RetrieveHydraulicParams), one day of summary data for
// every station (RetrieveDailySummary) and a month of daily summaries
// (RetrieveMonthlySummary). Summary tables start with Site and Date columns
// followed by the fields of the requested variable group. Missing observations
// are NaN.
//
//	c := mesonet.New(mesonet.WithSoilParams("mesosoil.csv"))
//	day, _ := mesonet.GenerateDate(2024, 4, 25, 0, 0)
//	df, err := c.RetrieveDailySummary(ctx, mesonet.DailyQuery{Station: "ACME", Date: day})
//
// Nothing is cached; every call fetches from the Mesonet hosts.
package mesonet

import (
	"context"
	"time"

	"github.com/go-gota/gota/dataframe"

	source "github.com/couchcryptid/mesonet-data/internal/adapter/mesonet"
	"github.com/couchcryptid/mesonet-data/internal/domain"
	"github.com/couchcryptid/mesonet-data/internal/retrieval"
)

// Query types.
type (
	GeoInfoQuery   = retrieval.GeoInfoQuery
	HydraulicQuery = retrieval.HydraulicQuery
	DailyQuery     = retrieval.DailyQuery
	MonthlyQuery   = retrieval.MonthlyQuery
)

// HydraulicParamRecord is one row of the MesoSoil table.
type HydraulicParamRecord = domain.HydraulicParamRecord

// APIError is a non-200 response from a Mesonet host.
type APIError = source.APIError

// Variable groups accepted in DailyQuery.Variables and MonthlyQuery.Variables.
const (
	Weather         = string(domain.Weather)
	SoilMoisture    = string(domain.SoilMoisture)
	SoilTemperature = string(domain.SoilTemperature)
	AllVariables    = string(domain.AllVariables)
)

// Errors returned by the retrieval operations, wrapped with detail. Use errors.Is.
var (
	ErrInvalidDate           = domain.ErrInvalidDate
	ErrInvalidDepth          = domain.ErrInvalidDepth
	ErrUnknownVariableGroup  = domain.ErrUnknownVariableGroup
	ErrInvalidStation        = domain.ErrInvalidStation
	ErrUnknownStation        = domain.ErrUnknownStation
	ErrNoData                = domain.ErrNoData
	ErrSoilParamsUnavailable = domain.ErrSoilParamsUnavailable
)

// Client retrieves Mesonet tables. It is safe for concurrent use.
type Client struct {
	retriever *retrieval.Retriever
	loc       *time.Location
}

// New creates a Client.
func New(opts ...Option) *Client {
	o := applyOptions(opts)
	src := source.NewClient(source.Endpoints{
		DataURL:    o.dataURL,
		APIURL:     o.apiURL,
		SoilParams: o.soilParams,
	}, o.httpClient, o.userAgent, o.logger, o.metrics)

	return &Client{
		retriever: retrieval.New(src, o.requestInterval, o.location, o.logger, o.metrics),
		loc:       o.location,
	}
}

// RetrieveGeoInfo returns station location and soil texture metadata.
func (c *Client) RetrieveGeoInfo(ctx context.Context, q GeoInfoQuery) (dataframe.DataFrame, error) {
	return c.retriever.GeoInfo(ctx, q)
}

// RetrieveHydraulicParams returns MesoSoil parameters filtered by station and depth.
func (c *Client) RetrieveHydraulicParams(ctx context.Context, q HydraulicQuery) (dataframe.DataFrame, error) {
	return c.retriever.HydraulicParams(ctx, q)
}

// RetrieveDailySummary returns one row per station for q.Date (yesterday by default).
func (c *Client) RetrieveDailySummary(ctx context.Context, q DailyQuery) (dataframe.DataFrame, error) {
	return c.retriever.DailySummary(ctx, q)
}

// RetrieveMonthlySummary returns the daily summaries of a month, through
// yesterday for the current month. Days are fetched one at a time.
func (c *Client) RetrieveMonthlySummary(ctx context.Context, q MonthlyQuery) (dataframe.DataFrame, error) {
	return c.retriever.MonthlySummary(ctx, q)
}

// GenerateDate builds a timestamp in the client's location. Out-of-range
// components are ErrInvalidDate.
func (c *Client) GenerateDate(year, month, day, hour, minute int) (time.Time, error) {
	return domain.GenerateDate(year, month, day, hour, minute, c.loc)
}

// GenerateDate builds a UTC timestamp. Out-of-range components are
// ErrInvalidDate; February 30 is rejected, not normalized.
func GenerateDate(year, month, day, hour, minute int) (time.Time, error) {
	return domain.GenerateDate(year, month, day, hour, minute, time.UTC)
}

// MonthStart is GenerateDate(year, month, 1, 0, 0).
func MonthStart(year, month int) (time.Time, error) {
	return GenerateDate(year, month, 1, 0, 0)
}

// HydraulicRecords converts a RetrieveHydraulicParams table into records.
func HydraulicRecords(df dataframe.DataFrame) ([]HydraulicParamRecord, error) {
	return retrieval.HydraulicRecords(df)
}

// SoilMoistureFields lists the soil moisture columns in table order.
func SoilMoistureFields() []string {
	return domain.SoilMoistureFields()
}
