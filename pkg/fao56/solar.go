package fao56

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

const (
	solarConstant = 0.0820 // Gsc, MJ m⁻² min⁻¹

	// The solar time angle ignores the longitude and equation-of-time
	// correction (Eq. 32); the fixed offset stands in for it.
	solarTimeOffsetHours = -0.5
)

// DayOfYear returns the calendar day ordinal (1-366) of the civil date in t.
// The wall-clock fields of t are used as-is; no timezone conversion happens.
func DayOfYear(t time.Time) int {
	return julian.DayOfYearGregorian(t.Year(), int(t.Month()), t.Day())
}

// SolarDeclination returns the solar declination in radians (Eq. 24).
func SolarDeclination(dayOfYear int) float64 {
	return 0.409 * math.Sin(2*math.Pi/365*float64(dayOfYear)-1.39)
}

// InverseRelativeDistance returns dr, the inverse relative Earth-Sun distance (Eq. 23).
func InverseRelativeDistance(dayOfYear int) float64 {
	return 1 + 0.033*math.Cos(2*math.Pi/365*float64(dayOfYear))
}

// SunsetHourAngle returns ωs in radians (Eq. 25). The arccos argument is
// clamped to [-1, 1] so polar day and polar night yield π and 0 instead of NaN.
func SunsetHourAngle(latitudeRad, declinationRad float64) float64 {
	cosOmega := -math.Tan(latitudeRad) * math.Tan(declinationRad)
	return math.Acos(clamp(cosOmega, -1, 1))
}

// SolarTimeAngle returns ω, the solar time angle at the midpoint of the hour
// starting at hour (Eq. 31).
func SolarTimeAngle(hour int) float64 {
	mid := float64(hour) + 0.5
	return math.Pi / 12 * ((mid - 12) + solarTimeOffsetHours)
}

// ExtraterrestrialRadiationHourly returns Ra for the hour starting at hour, in
// MJ m⁻² h⁻¹ (Eq. 28). The integration window [ω1, ω2] is clamped to
// [-ωs, ωs] so hours outside daylight contribute nothing.
func ExtraterrestrialRadiationHourly(latitudeRad, declinationRad, sunsetHourAngle float64, dayOfYear, hour int) float64 {
	omega := SolarTimeAngle(hour)
	omega1 := clamp(omega-math.Pi/24, -sunsetHourAngle, sunsetHourAngle)
	omega2 := clamp(omega+math.Pi/24, -sunsetHourAngle, sunsetHourAngle)

	dr := InverseRelativeDistance(dayOfYear)
	geometric := (omega2-omega1)*math.Sin(latitudeRad)*math.Sin(declinationRad) +
		math.Cos(latitudeRad)*math.Cos(declinationRad)*(math.Sin(omega2)-math.Sin(omega1))

	ra := 12 * 60 / math.Pi * solarConstant * dr * geometric
	return math.Max(0, ra)
}

// ClearSkyRadiation is the simplified hourly Rso used for the cloudiness
// factor: 75% of extraterrestrial radiation.
func ClearSkyRadiation(ra float64) float64 {
	return 0.75 * ra
}

func degToRad(deg float64) float64 {
	return deg * (math.Pi / 180.0)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}
