package fao56

import "math"

// SaturationVaporPressure returns e°(T) in kPa (Eq. 11).
func SaturationVaporPressure(tempC float64) float64 {
	return 0.6108 * math.Exp((17.27*tempC)/(tempC+237.3))
}

// ActualVaporPressure returns ea in kPa from relative humidity in percent (Eq. 54).
func ActualVaporPressure(rhPercent, saturationKPa float64) float64 {
	return rhPercent / 100 * saturationKPa
}

// SaturationSlope returns Δ, the slope of the saturation vapour pressure
// curve, in kPa/°C (Eq. 13).
func SaturationSlope(tempC float64) float64 {
	return 4098 * SaturationVaporPressure(tempC) / math.Pow(tempC+237.3, 2)
}

// PsychrometricConstant returns γ in kPa/°C (Eq. 8).
func PsychrometricConstant(pressureKPa float64) float64 {
	return 0.000665 * pressureKPa
}

// AtmosphericPressure returns the standard-atmosphere pressure in kPa at the
// given elevation above sea level in metres (Eq. 7).
func AtmosphericPressure(elevationM float64) float64 {
	return 101.3 * math.Pow((293-0.0065*elevationM)/293, 5.26)
}
