package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

var loamParams = HydraulicParamRecord{
	Site:   "ACME",
	Depth:  5,
	Th33:   0.30,
	Th1500: 0.10,
	ThetaR: 0.05,
	ThetaS: 0.45,
	Alpha:  0.02,
	N:      1.5,
	Ks:     12.5,
}

func TestMatricPotential(t *testing.T) {
	// Inflection point of the logistic curve sits at delta-T = 3.17.
	assert.InDelta(t, -1041.5, MatricPotential(3.17), 1e-9)
	assert.InDelta(t, -7.7164397, MatricPotential(1.5), 1e-6)
	assert.InDelta(t, -110.6090347, MatricPotential(2.31), 1e-6)
	assert.True(t, math.IsNaN(MatricPotential(math.NaN())))
}

func TestVolumetricWaterContent(t *testing.T) {
	vwc := VolumetricWaterContent(-1041.5, loamParams)
	assert.InDelta(t, 0.13733746, vwc, 1e-7)

	// Near saturation the curve approaches theta_s.
	assert.InDelta(t, loamParams.ThetaS, VolumetricWaterContent(-1e-9, loamParams), 1e-6)

	missing := loamParams
	missing.Alpha = math.NaN()
	assert.True(t, math.IsNaN(VolumetricWaterContent(-100, missing)))
}

func TestFractionAvailableWater(t *testing.T) {
	assert.InDelta(t, 0.1866873, FractionAvailableWater(0.13733746, 0.10, 0.30), 1e-6)
	assert.True(t, math.IsNaN(FractionAvailableWater(0.2, 0.2, 0.2)))
	assert.True(t, math.IsNaN(FractionAvailableWater(math.NaN(), 0.1, 0.3)))
}

func TestWaterHoldingCapacity(t *testing.T) {
	assert.InDelta(t, 0.20, WaterHoldingCapacity(0.10, 0.30), 1e-12)
	assert.True(t, math.IsNaN(WaterHoldingCapacity(math.NaN(), 0.30)))
}

func TestDeriveSoilMoisture(t *testing.T) {
	r := DeriveSoilMoisture(3.17, loamParams)

	assert.InDelta(t, 0.30, r.FieldCapacity, 1e-12)
	assert.InDelta(t, 0.10, r.WiltingPoint, 1e-12)
	assert.InDelta(t, 0.20, r.HoldingCap, 1e-12)
	assert.InDelta(t, 0.13733746, r.VWC, 1e-7)
	assert.InDelta(t, 0.1866873, r.FAW, 1e-6)
	assert.InDelta(t, -1041.5, r.MatricPot, 1e-9)
	assert.InDelta(t, 12.5, r.Ks, 1e-12)
	assert.Len(t, r.Values(), len(soilMoistPrefixes))
}

func TestMissingSoilMoisture(t *testing.T) {
	for _, v := range MissingSoilMoisture().Values() {
		assert.True(t, math.IsNaN(v))
	}
}
