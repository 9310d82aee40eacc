package fao56

import (
	"math"
	"time"
)

// Inputs are the per-hour weather values the Penman-Monteith pipeline needs.
type Inputs struct {
	Time           time.Time // civil solar-local time; only date and hour are used
	Latitude       float64   // degrees, north positive
	TempC          float64   // °C
	RelHumidity    float64   // %
	WindSpeed      float64   // m/s at 2 m
	SolarRadiation float64   // W/m²
	Pressure       float64   // kPa
}

// Intermediates holds every stage value of one pipeline evaluation.
type Intermediates struct {
	DayOfYear int
	Hour      int

	SaturationVP     float64 // es, kPa
	ActualVP         float64 // ea, kPa
	VPD              float64 // es - ea, kPa
	Slope            float64 // Δ, kPa/°C
	Psychrometric    float64 // γ, kPa/°C
	Declination      float64 // δ, rad
	SunsetAngle      float64 // ωs, rad
	Extraterrestrial float64 // Ra, MJ m⁻² h⁻¹
	Incoming         float64 // Rs, MJ m⁻² h⁻¹
	NetShortwave     float64 // Rns
	NetLongwave      float64 // Rnl
	NetRadiation     float64 // Rn
	SoilHeatFlux     float64 // G
	Daytime          bool
	RadiationTerm    float64 // 0.408·Δ·(Rn − G)
	AerodynamicTerm  float64 // γ·37/(T+273)·u2·VPD
	UnclampedETo     float64
	ReferenceET      float64 // ETo, mm/h, ≥ 0
}

// Pipeline evaluates the hourly FAO-56 Penman-Monteith equation (Eq. 53).
type Pipeline struct {
	Albedo   float64
	Longwave LongwaveModel
}

// DefaultPipeline returns the grass reference pipeline with the hourly
// longwave simplification.
func DefaultPipeline() Pipeline {
	return Pipeline{Albedo: DefaultAlbedo, Longwave: HourlyLongwave{}}
}

// Evaluate runs every stage for one hour and returns the intermediate record.
func (p Pipeline) Evaluate(in Inputs) Intermediates {
	longwave := p.Longwave
	if longwave == nil {
		longwave = HourlyLongwave{}
	}

	var r Intermediates
	r.DayOfYear = DayOfYear(in.Time)
	r.Hour = in.Time.Hour()
	r.Incoming = in.SolarRadiation * wattsToMJPerHour

	r.SaturationVP = SaturationVaporPressure(in.TempC)
	r.ActualVP = ActualVaporPressure(in.RelHumidity, r.SaturationVP)
	r.VPD = r.SaturationVP - r.ActualVP

	r.Slope = SaturationSlope(in.TempC)
	r.Psychrometric = PsychrometricConstant(in.Pressure)

	latRad := degToRad(in.Latitude)
	r.Declination = SolarDeclination(r.DayOfYear)
	r.SunsetAngle = SunsetHourAngle(latRad, r.Declination)
	r.Extraterrestrial = ExtraterrestrialRadiationHourly(latRad, r.Declination, r.SunsetAngle, r.DayOfYear, r.Hour)

	r.NetShortwave = NetShortwaveRadiation(r.Incoming, p.Albedo)
	r.NetLongwave = longwave.NetLongwave(in.TempC, r.ActualVP, r.Incoming, r.Extraterrestrial)
	r.NetRadiation = r.NetShortwave - r.NetLongwave

	r.Daytime = r.Incoming > 0
	r.SoilHeatFlux = SoilHeatFlux(r.NetRadiation, r.Daytime)

	r.RadiationTerm = 0.408 * r.Slope * (r.NetRadiation - r.SoilHeatFlux)
	r.AerodynamicTerm = r.Psychrometric * (37 / (in.TempC + 273)) * in.WindSpeed * r.VPD
	denominator := r.Slope + r.Psychrometric*(1+0.34*in.WindSpeed)

	r.UnclampedETo = (r.RadiationTerm + r.AerodynamicTerm) / denominator
	r.ReferenceET = math.Max(0, r.UnclampedETo)
	return r
}

// ReferenceET returns hourly grass reference evapotranspiration in mm/h
// using the default pipeline.
func ReferenceET(in Inputs) float64 {
	return DefaultPipeline().Evaluate(in).ReferenceET
}
