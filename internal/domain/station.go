package domain

import (
	"fmt"
	"strings"
)

// StationID is a four-letter Mesonet station code. The zero value selects all stations.
type StationID string

// AllStations is the sentinel for "every station in the network".
const AllStations StationID = ""

// ParseStationID trims and upper-cases s. An empty input yields AllStations.
func ParseStationID(s string) (StationID, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return AllStations, nil
	}
	if len(s) != 4 {
		return AllStations, fmt.Errorf("%w: %q must be 4 characters", ErrInvalidStation, s)
	}
	return StationID(s), nil
}

// IsAll reports whether the ID selects every station.
func (s StationID) IsAll() bool {
	return s == AllStations
}
