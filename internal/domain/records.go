package domain

import (
	"math"
	"strconv"
)

// MissingValues are the MDF sentinels for missing or flagged observations.
var MissingValues = []string{"-999", "-998", "-997", "-996", "-995", "-994"}

// IsMissingValue reports whether an MDF token is one of MissingValues,
// including decimal spellings such as "-996.00".
func IsMissingValue(token string) bool {
	for _, m := range MissingValues {
		if token == m {
			return true
		}
	}
	v, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return false
	}
	return v >= -999 && v <= -994 && v == math.Trunc(v)
}

// StationColumn is the station code column in MDF files.
const StationColumn = "STID"

// DeltaTColumns maps each soil depth to its calibrated delta-T column in the
// five-minute MDF files.
var DeltaTColumns = map[Depth]string{
	5:  "TR05",
	25: "TR25",
	60: "TR60",
}

// GeoInfoRenames maps station export columns to the names used in returned tables.
var GeoInfoRenames = map[string]string{
	"stnm": "Number",
	"stid": SiteColumn,
	"name": "Name",
	"city": "City",
	"cnty": "County",
	"nlat": "nLat",
	"elon": "eLon",
	"elev": "Elev",
	"cdiv": "Division",
	"rang": "Range",
	"cdir": "Direction",
	"clas": "Class",
	"datc": "Commission",
	"datd": "Decommission",
}

// GeoInfoDefaultColumns is the reduced station column set, in output order.
var GeoInfoDefaultColumns = []string{
	"Number", SiteColumn, "Name", "City", "County", "nLat", "eLon", "Elev",
	"TEXT5", "TEXT10", "TEXT25", "TEXT60", "TEXT75", "Commission", "Decommission",
}

// HydraulicMissingValue is the MesoSoil sentinel for an unmeasured parameter.
const HydraulicMissingValue = "-9.9"

// HydraulicColumns are the MesoSoil columns returned for hydraulic parameters, in order.
var HydraulicColumns = []string{
	SiteColumn, "Depth", "Sand", "Silt", "Clay", "BulkD",
	"Th33", "Th1500", "Theta_r", "Theta_s", "Alpha", "N", "Ks",
}

// HydraulicParamRecord holds the MesoSoil soil physical and van Genuchten
// parameters for one station and depth.
type HydraulicParamRecord struct {
	Site   StationID
	Depth  Depth
	Sand   float64 // %
	Silt   float64 // %
	Clay   float64 // %
	BulkD  float64 // bulk density, g/cm³
	Th33   float64 // water content at -33 kPa (field capacity), cm³/cm³
	Th1500 float64 // water content at -1500 kPa (wilting point), cm³/cm³
	ThetaR float64 // residual water content, cm³/cm³
	ThetaS float64 // saturated water content, cm³/cm³
	Alpha  float64 // van Genuchten alpha, 1/kPa
	N      float64 // van Genuchten n
	Ks     float64 // saturated hydraulic conductivity, cm/day
}
