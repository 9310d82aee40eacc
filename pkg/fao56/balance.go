package fao56

import "math"

// CropET returns crop evapotranspiration, Kc·ETo.
func CropET(kc, eto float64) float64 {
	return kc * eto
}

// Balance is the result of one root-zone water balance step.
type Balance struct {
	Depletion float64 // Dr, mm, ≥ 0
	Ks        float64 // water stress coefficient

	// StressIndex is a placeholder for a future water-stress index and
	// currently mirrors Depletion.
	StressIndex float64
}

// SoilWaterBalance advances root-zone depletion by one step (Eq. 85 without
// runoff, capillary rise or deep percolation):
//
//	Dr = max(0, Dr,prev − Pe − I + ETc)
//
// Ks is 1 whenever the resulting depletion is non-negative, which after the
// floor is always; no readily-available-water threshold is applied yet.
func SoilWaterBalance(prevDepletion, etc, effectivePrecip, irrigation float64) Balance {
	depletion := math.Max(0, prevDepletion-effectivePrecip-irrigation+etc)

	ks := 0.0
	if depletion >= 0 {
		ks = 1.0
	}

	return Balance{
		Depletion:   depletion,
		Ks:          ks,
		StressIndex: depletion,
	}
}
