package fao56

import "math"

const (
	// DefaultAlbedo is the albedo of the hypothetical grass reference crop.
	DefaultAlbedo = 0.23

	stefanBoltzmannHourly = 2.043e-10 // σ, MJ K⁻⁴ m⁻² h⁻¹

	// nightCloudiness replaces Rs/Rso when the sun is below the horizon.
	nightCloudiness = 0.7

	// wattsToMJPerHour converts W m⁻² to MJ m⁻² h⁻¹.
	wattsToMJPerHour = 0.0036

	// celsiusToKelvin is the offset used for longwave emission.
	celsiusToKelvin = 273.16
)

// NetShortwaveRadiation returns Rns in MJ m⁻² h⁻¹ (Eq. 38).
func NetShortwaveRadiation(incoming, albedo float64) float64 {
	return (1 - albedo) * incoming
}

// CloudinessFactor returns the relative shortwave term 1.35·Rs/Rso − 0.35
// clamped to [0.05, 1]. A zero Ra (night) yields the fixed night factor.
func CloudinessFactor(incoming, ra float64) float64 {
	f := nightCloudiness
	if ra > 0 {
		f = 1.35*(incoming/ClearSkyRadiation(ra)) - 0.35
	}
	return clamp(f, 0.05, 1.0)
}

// NetLongwaveRadiation returns Rnl in MJ m⁻² h⁻¹ (Eq. 39) from the maximum and
// minimum absolute temperatures of the period, actual vapour pressure, and
// the incoming and extraterrestrial radiation.
func NetLongwaveRadiation(tMaxK, tMinK, eaKPa, incoming, ra float64) float64 {
	emission := stefanBoltzmannHourly * (math.Pow(tMaxK, 4) + math.Pow(tMinK, 4)) / 2
	humidity := 0.34 - 0.14*math.Sqrt(eaKPa)
	return emission * humidity * CloudinessFactor(incoming, ra)
}

// SoilHeatFlux returns G in MJ m⁻² h⁻¹ (Eq. 45, 46).
func SoilHeatFlux(netRadiation float64, daytime bool) float64 {
	if daytime {
		return 0.1 * netRadiation
	}
	return 0.5 * netRadiation
}

// LongwaveModel computes net longwave radiation for one step of the pipeline.
type LongwaveModel interface {
	NetLongwave(tempC, eaKPa, incoming, ra float64) float64
}

// HourlyLongwave is the hourly simplification of Eq. 39: with no daily
// extremes tracked, the current temperature stands in for both Tmax and Tmin.
type HourlyLongwave struct{}

// NetLongwave implements LongwaveModel.
func (HourlyLongwave) NetLongwave(tempC, eaKPa, incoming, ra float64) float64 {
	tK := tempC + celsiusToKelvin
	return NetLongwaveRadiation(tK, tK, eaKPa, incoming, ra)
}

// DailyExtremesLongwave uses known extremes of the surrounding day.
type DailyExtremesLongwave struct {
	TMaxC float64
	TMinC float64
}

// NetLongwave implements LongwaveModel; tempC is ignored.
func (d DailyExtremesLongwave) NetLongwave(_ float64, eaKPa, incoming, ra float64) float64 {
	return NetLongwaveRadiation(d.TMaxC+celsiusToKelvin, d.TMinC+celsiusToKelvin, eaKPa, incoming, ra)
}
