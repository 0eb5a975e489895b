package domain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVariableGroup(t *testing.T) {
	cases := map[string]VariableGroup{
		"":           AllVariables,
		"all":        AllVariables,
		"weather":    Weather,
		"WEATHER":    Weather,
		" soil_temp": SoilTemperature,
		"soil_moist": SoilMoisture,
	}
	for in, want := range cases {
		got, err := ParseVariableGroup(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestParseVariableGroup_Unknown(t *testing.T) {
	for _, in := range []string{"soil", "temperature", "weather,soil_temp", "*"} {
		_, err := ParseVariableGroup(in)
		require.ErrorIs(t, err, ErrUnknownVariableGroup, in)
	}
}

func TestSoilMoistureFields_Order(t *testing.T) {
	want := []string{
		"FC05", "FC25", "FC60", "WP05", "WP25", "WP60", "WHC05", "WHC25", "WHC60",
		"VWC05", "VWC25", "VWC60", "FAW05", "FAW25", "FAW60", "MP05", "MP25", "MP60",
		"Ks05", "Ks25", "Ks60",
	}
	if diff := cmp.Diff(want, SoilMoistureFields()); diff != "" {
		t.Fatalf("soil moisture fields mismatch (-want +got):\n%s", diff)
	}
}

func TestVariableGroup_AllIsWeatherMoistureTemperature(t *testing.T) {
	all := AllVariables.Fields()
	assert.Len(t, all, len(weatherFields)+21+len(soilTempFields))
	assert.Equal(t, "TMAX", all[0])
	assert.Equal(t, "FC05", all[len(weatherFields)])
	assert.Equal(t, "S5MX", all[len(all)-1])
}

func TestVariableGroup_FieldsAreCopies(t *testing.T) {
	f := Weather.Fields()
	f[0] = "mutated"
	assert.Equal(t, "TMAX", Weather.Fields()[0])
}

func TestParseDepth(t *testing.T) {
	for _, cm := range []int{0, 5, 25, 60} {
		d, err := ParseDepth(cm)
		require.NoError(t, err)
		assert.Equal(t, Depth(cm), d)
	}
	for _, cm := range []int{-5, 1, 10, 50, 75, 100} {
		_, err := ParseDepth(cm)
		require.ErrorIs(t, err, ErrInvalidDepth, cm)
	}
}

func TestParseStationID(t *testing.T) {
	id, err := ParseStationID(" acme ")
	require.NoError(t, err)
	assert.Equal(t, StationID("ACME"), id)

	id, err = ParseStationID("")
	require.NoError(t, err)
	assert.True(t, id.IsAll())

	_, err = ParseStationID("NORMAN")
	require.ErrorIs(t, err, ErrInvalidStation)
}
