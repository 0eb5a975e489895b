package domain

import "math"

// SoilMoistureReading is the set of derived soil-water values for one station and depth.
type SoilMoistureReading struct {
	FieldCapacity float64 // FC, cm³/cm³
	WiltingPoint  float64 // WP, cm³/cm³
	HoldingCap    float64 // WHC, cm³/cm³
	VWC           float64 // cm³/cm³
	FAW           float64 // 0..1
	MatricPot     float64 // MP, kPa
	Ks            float64 // cm/day
}

// MatricPotential converts calibrated delta-T (°C) to soil matric potential (kPa).
// Illston et al. (2007), Eq. 5.
func MatricPotential(deltaT float64) float64 {
	if math.IsNaN(deltaT) {
		return math.NaN()
	}
	return -2083 / (1 + math.Exp(-3.35*(deltaT-3.17)))
}

// VolumetricWaterContent applies the van Genuchten retention curve to a matric
// potential (kPa) using the record's residual/saturated contents, alpha and n.
func VolumetricWaterContent(mp float64, p HydraulicParamRecord) float64 {
	if anyNaN(mp, p.ThetaR, p.ThetaS, p.Alpha, p.N) || p.N == 0 {
		return math.NaN()
	}
	base := 1 + math.Pow(-p.Alpha*mp, p.N)
	return p.ThetaR + (p.ThetaS-p.ThetaR)/math.Pow(base, 1-1/p.N)
}

// FractionAvailableWater is (theta - WP) / (FC - WP).
func FractionAvailableWater(theta, wiltingPoint, fieldCapacity float64) float64 {
	if anyNaN(theta, wiltingPoint, fieldCapacity) || fieldCapacity == wiltingPoint {
		return math.NaN()
	}
	return (theta - wiltingPoint) / (fieldCapacity - wiltingPoint)
}

// WaterHoldingCapacity is FC - WP.
func WaterHoldingCapacity(wiltingPoint, fieldCapacity float64) float64 {
	if anyNaN(wiltingPoint, fieldCapacity) {
		return math.NaN()
	}
	return fieldCapacity - wiltingPoint
}

// DeriveSoilMoisture computes every soil-water value for one delta-T reading.
func DeriveSoilMoisture(deltaT float64, p HydraulicParamRecord) SoilMoistureReading {
	mp := MatricPotential(deltaT)
	vwc := VolumetricWaterContent(mp, p)
	return SoilMoistureReading{
		FieldCapacity: p.Th33,
		WiltingPoint:  p.Th1500,
		HoldingCap:    WaterHoldingCapacity(p.Th1500, p.Th33),
		VWC:           vwc,
		FAW:           FractionAvailableWater(vwc, p.Th1500, p.Th33),
		MatricPot:     mp,
		Ks:            p.Ks,
	}
}

// Values returns the reading in soilMoistPrefixes order: FC WP WHC VWC FAW MP Ks.
func (r SoilMoistureReading) Values() []float64 {
	return []float64{r.FieldCapacity, r.WiltingPoint, r.HoldingCap, r.VWC, r.FAW, r.MatricPot, r.Ks}
}

// MissingSoilMoisture is the reading for a depth without parameters.
func MissingSoilMoisture() SoilMoistureReading {
	nan := math.NaN()
	return SoilMoistureReading{nan, nan, nan, nan, nan, nan, nan}
}

func anyNaN(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}
