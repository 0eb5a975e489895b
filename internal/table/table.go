// Package table renders retrieval results for the command and the proxy.
package table

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Formats accepted by Write.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// Records returns the header followed by one string row per table row.
// Floats use the shortest exact representation; NaN becomes an empty field.
func Records(df dataframe.DataFrame) [][]string {
	names := df.Names()
	out := make([][]string, 0, df.Nrow()+1)
	out = append(out, names)
	for i := 0; i < df.Nrow(); i++ {
		out = append(out, make([]string, len(names)))
	}
	for c, name := range names {
		col := df.Col(name)
		for i := 0; i < df.Nrow(); i++ {
			out[i+1][c] = cell(col, i)
		}
	}
	return out
}

func cell(col series.Series, i int) string {
	e := col.Elem(i)
	if e.IsNA() {
		return ""
	}
	if col.Type() == series.Float {
		return strconv.FormatFloat(e.Float(), 'f', -1, 64)
	}
	return e.String()
}

// Rows returns one map per table row keyed by column name. Missing values are nil.
func Rows(df dataframe.DataFrame) []map[string]any {
	rows := df.Maps()
	for _, row := range rows {
		for k, v := range row {
			if f, ok := v.(float64); ok && math.IsNaN(f) {
				row[k] = nil
			}
		}
	}
	return rows
}

// WriteCSV writes df with a header row.
func WriteCSV(w io.Writer, df dataframe.DataFrame) error {
	if df.Err != nil {
		return df.Err
	}
	return csv.NewWriter(w).WriteAll(Records(df))
}

// WriteJSON writes df as a JSON array of row objects.
func WriteJSON(w io.Writer, df dataframe.DataFrame) error {
	if df.Err != nil {
		return df.Err
	}
	return json.NewEncoder(w).Encode(Rows(df))
}

// Write renders df in the named format.
func Write(w io.Writer, df dataframe.DataFrame, format string) error {
	switch format {
	case FormatCSV, "":
		return WriteCSV(w, df)
	case FormatJSON:
		return WriteJSON(w, df)
	default:
		return fmt.Errorf("unknown output format %q (want csv or json)", format)
	}
}
