package retrieval

import (
	"context"
	"fmt"

	"github.com/go-gota/gota/dataframe"

	"github.com/couchcryptid/mesonet-data/internal/domain"
)

// GeoInfo returns station location and soil metadata.
func (r *Retriever) GeoInfo(ctx context.Context, q GeoInfoQuery) (dataframe.DataFrame, error) {
	df, err := r.geoInfo(ctx, q)
	return r.finish(opGeoInfo, df, err)
}

func (r *Retriever) geoInfo(ctx context.Context, q GeoInfoQuery) (dataframe.DataFrame, error) {
	station, err := domain.ParseStationID(q.Station)
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	df, err := r.source.StationInfo(ctx)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	if !q.AllColumns {
		if err := hasColumns(df, domain.GeoInfoDefaultColumns); err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("station info: %w", err)
		}
		df = df.Select(domain.GeoInfoDefaultColumns)
	}
	return filterStation(df, station)
}

// HydraulicParams returns MesoSoil parameters for the selected station and depth.
func (r *Retriever) HydraulicParams(ctx context.Context, q HydraulicQuery) (dataframe.DataFrame, error) {
	df, err := r.hydraulicParams(ctx, q)
	return r.finish(opHydraulic, df, err)
}

func (r *Retriever) hydraulicParams(ctx context.Context, q HydraulicQuery) (dataframe.DataFrame, error) {
	station, err := domain.ParseStationID(q.Station)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	depth, err := domain.ParseDepth(q.Depth)
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	df, err := r.source.HydraulicParams(ctx)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	df, err = filterStation(df, station)
	if err != nil || depth == 0 {
		return df, err
	}

	depths, err := df.Col("Depth").Int()
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("soil params depth: %w", err)
	}
	out, n := subset(df, func(i int) bool { return depths[i] == int(depth) })
	if n == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("%w: no parameters at %d cm", domain.ErrNoData, depth)
	}
	return out, out.Err
}

// HydraulicRecords converts a hydraulic parameter table into typed records.
func HydraulicRecords(df dataframe.DataFrame) ([]domain.HydraulicParamRecord, error) {
	if err := hasColumns(df, domain.HydraulicColumns); err != nil {
		return nil, err
	}
	depths, err := df.Col("Depth").Int()
	if err != nil {
		return nil, fmt.Errorf("soil params depth: %w", err)
	}
	sites := df.Col(domain.SiteColumn).Records()
	col := func(name string) []float64 { return df.Col(name).Float() }
	sand, silt, clay, bulk := col("Sand"), col("Silt"), col("Clay"), col("BulkD")
	th33, th1500 := col("Th33"), col("Th1500")
	thetaR, thetaS, alpha, n, ks := col("Theta_r"), col("Theta_s"), col("Alpha"), col("N"), col("Ks")

	records := make([]domain.HydraulicParamRecord, len(sites))
	for i := range sites {
		records[i] = domain.HydraulicParamRecord{
			Site:   domain.StationID(sites[i]),
			Depth:  domain.Depth(depths[i]),
			Sand:   sand[i],
			Silt:   silt[i],
			Clay:   clay[i],
			BulkD:  bulk[i],
			Th33:   th33[i],
			Th1500: th1500[i],
			ThetaR: thetaR[i],
			ThetaS: thetaS[i],
			Alpha:  alpha[i],
			N:      n[i],
			Ks:     ks[i],
		}
	}
	return records, nil
}
