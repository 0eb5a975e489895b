package domain

import (
	"fmt"
	"strings"
)

// VariableGroup selects a fixed set of summary fields.
type VariableGroup string

const (
	Weather         VariableGroup = "weather"
	SoilMoisture    VariableGroup = "soil_moist"
	SoilTemperature VariableGroup = "soil_temp"
	AllVariables    VariableGroup = "all"
)

// SiteColumn and DateColumn lead every summary table.
const (
	SiteColumn = "Site"
	DateColumn = "Date"
)

// Daily summary fields: air temperature and humidity extremes/averages (°C, %),
// rainfall (mm), solar radiation total (MJ/m²) and average wind speed (m/s).
var weatherFields = []string{"TMAX", "TMIN", "TAVG", "HMAX", "HMIN", "HAVG", "RAIN", "ATOT", "WSPD"}

// Soil temperature extremes at 10 cm under bare soil (B*) and sod (S*), and at 5 cm under sod.
var soilTempFields = []string{"BMIN", "BMAX", "SMAX", "SMIN", "S5MN", "S5MX"}

// soilMoistPrefixes are the derived soil-water quantities, each reported per depth.
var soilMoistPrefixes = []string{"FC", "WP", "WHC", "VWC", "FAW", "MP", "Ks"}

// ParseVariableGroup resolves a keyword. An empty keyword means AllVariables.
func ParseVariableGroup(s string) (VariableGroup, error) {
	switch g := VariableGroup(strings.ToLower(strings.TrimSpace(s))); g {
	case "":
		return AllVariables, nil
	case Weather, SoilMoisture, SoilTemperature, AllVariables:
		return g, nil
	default:
		return "", fmt.Errorf("%w: %q (want weather, soil_moist, soil_temp or all)", ErrUnknownVariableGroup, s)
	}
}

// Fields returns the ordered field names the group contributes to a summary table.
func (g VariableGroup) Fields() []string {
	switch g {
	case Weather:
		return WeatherFields()
	case SoilMoisture:
		return SoilMoistureFields()
	case SoilTemperature:
		return SoilTemperatureFields()
	case AllVariables:
		fields := WeatherFields()
		fields = append(fields, SoilMoistureFields()...)
		return append(fields, SoilTemperatureFields()...)
	default:
		return nil
	}
}

// WeatherFields lists the daily summary weather columns.
func WeatherFields() []string {
	return append([]string(nil), weatherFields...)
}

// SoilTemperatureFields lists the daily summary soil temperature columns.
func SoilTemperatureFields() []string {
	return append([]string(nil), soilTempFields...)
}

// SoilMoistureFields lists derived soil moisture columns, grouped by quantity
// and ordered by depth: FC05 FC25 FC60 WP05 ... Ks60.
func SoilMoistureFields() []string {
	fields := make([]string, 0, len(soilMoistPrefixes)*len(Depths))
	for _, p := range soilMoistPrefixes {
		for _, d := range Depths {
			fields = append(fields, p+d.Suffix())
		}
	}
	return fields
}
