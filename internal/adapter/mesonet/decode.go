package mesonet

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/couchcryptid/mesonet-data/internal/domain"
)

// mdfPreambleLines precede the header row: copyright, then base timestamp.
const mdfPreambleLines = 2

// decodeMDF parses a whitespace-aligned MDF file into a frame holding STID
// (string) and the requested fields (float, sentinels as NaN).
func decodeMDF(r io.Reader, fields []string) (dataframe.DataFrame, error) {
	var rows [][]string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for line := 1; sc.Scan(); line++ {
		if line <= mdfPreambleLines {
			continue
		}
		if tokens := strings.Fields(sc.Text()); len(tokens) > 0 {
			rows = append(rows, tokens)
		}
	}
	if err := sc.Err(); err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("scan mdf: %w", err)
	}
	if len(rows) == 0 {
		return dataframe.DataFrame{}, errors.New("mdf has no header row")
	}
	if len(rows) == 1 {
		return dataframe.DataFrame{}, errors.New("mdf has no station rows")
	}

	header := rows[0]
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}

	want := append([]string{domain.StationColumn}, fields...)
	cols := make([]int, len(want))
	for i, name := range want {
		idx, ok := index[name]
		if !ok {
			return dataframe.DataFrame{}, fmt.Errorf("mdf column %q not found", name)
		}
		cols[i] = idx
	}

	records := make([][]string, 0, len(rows))
	records = append(records, want)
	for n, row := range rows[1:] {
		if len(row) != len(header) {
			return dataframe.DataFrame{}, fmt.Errorf("mdf row %d: got %d fields, want %d", n+1, len(row), len(header))
		}
		rec := make([]string, len(want))
		for i, c := range cols {
			rec[i] = row[c]
			if i > 0 && domain.IsMissingValue(rec[i]) {
				rec[i] = "NaN"
			}
		}
		records = append(records, rec)
	}

	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.Float),
		dataframe.WithTypes(map[string]series.Type{domain.StationColumn: series.String}),
	)
	return df, df.Err
}

// decodeStationInfo parses the station export CSV and applies domain.GeoInfoRenames.
func decodeStationInfo(body []byte) (dataframe.DataFrame, error) {
	df := dataframe.ReadCSV(bytes.NewReader(body),
		dataframe.WithTypes(map[string]series.Type{"stid": series.String}),
	)
	if df.Err != nil {
		return df, df.Err
	}
	if !hasColumn(df, "stid") {
		return dataframe.DataFrame{}, errors.New(`station export has no "stid" column`)
	}
	for _, old := range df.Names() {
		if renamed, ok := domain.GeoInfoRenames[old]; ok {
			df = df.Rename(renamed, old)
		}
	}
	return df, df.Err
}

// decodeHydraulicParams parses the MesoSoil CSV into domain.HydraulicColumns.
func decodeHydraulicParams(body []byte) (dataframe.DataFrame, error) {
	df := dataframe.ReadCSV(bytes.NewReader(body),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.Float),
		dataframe.WithTypes(map[string]series.Type{
			domain.SiteColumn: series.String,
			"Depth":           series.Int,
		}),
		dataframe.NaNValues([]string{domain.HydraulicMissingValue, "", "NA", "NaN"}),
	)
	if df.Err != nil {
		return df, df.Err
	}
	for _, col := range domain.HydraulicColumns {
		if !hasColumn(df, col) {
			return dataframe.DataFrame{}, fmt.Errorf("soil parameter column %q not found", col)
		}
	}
	df = df.Select(domain.HydraulicColumns)

	sites := df.Col(domain.SiteColumn).Records()
	for i := range sites {
		sites[i] = strings.ToUpper(strings.TrimSpace(sites[i]))
	}
	df = df.Mutate(series.New(sites, series.String, domain.SiteColumn))
	return df, df.Err
}

func hasColumn(df dataframe.DataFrame, name string) bool {
	for _, n := range df.Names() {
		if n == name {
			return true
		}
	}
	return false
}
