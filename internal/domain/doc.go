// Package domain models Oklahoma Mesonet station data and the rules for
// requesting it.
//
// # Data Source
//
// The Mesonet publishes its observations as static text files under
// https://data.mesonet.org/data/public/mesonet/ and station metadata through
// https://api.mesonet.org/index.php/export/. Two file families are used:
//
//	five-minute MDF:   mdf/YYYY/MM/DD/YYYYMMDDHHMM.mdf
//	daily summary MDF: summaries/daily/mdf/YYYY/MM/YYYYMMDD.daily.mdf
//
// # MDF Conventions
//
// An MDF file starts with a two-line preamble (copyright line, then the
// base timestamp), followed by a whitespace-separated header row and one row
// per station. Columns are right-aligned with a variable number of spaces.
//
//	 STID  STNM  TIME   TR05   TR25   TR60
//	 ACME   110     0   2.31   2.87   3.02
//
// Missing or flagged values are encoded with sentinels -999 through -994
// and are loaded as NaN.
//
// # Stations
//
// Stations are identified by a four-letter code (STID), e.g. "ACME" or "NRMN".
// The empty [StationID] means every station in the network.
//
// # Soil Moisture
//
// Soil moisture sensors report a calibrated temperature rise (delta-T, °C) at
// 5, 25, and 60 cm. Delta-T is converted to matric potential and then to
// volumetric water content using per-station, per-depth van Genuchten
// parameters from the MesoSoil database (Illston et al., 2007; Zhang et al.,
// 2019). See [MatricPotential] and [VolumetricWaterContent].
package domain
