package retrieval

import "time"

// GeoInfoQuery selects station metadata.
type GeoInfoQuery struct {
	Station    string // empty for every station
	AllColumns bool   // false keeps domain.GeoInfoDefaultColumns
}

// HydraulicQuery selects MesoSoil parameters.
type HydraulicQuery struct {
	Station string // empty for every station
	Depth   int    // 5, 25 or 60 cm; 0 for all depths
}

// DailyQuery selects one day of summary data.
type DailyQuery struct {
	Station   string
	Date      time.Time // zero means yesterday; only the calendar date is used
	Variables string    // weather, soil_moist, soil_temp or all (the default)
}

// MonthlyQuery selects a month of daily summaries.
type MonthlyQuery struct {
	Station   string
	Year      int // zero means the current year
	Month     int // zero means the current month
	Variables string
}
