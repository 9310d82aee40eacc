// Package fao56 implements the FAO Irrigation and Drainage Paper 56 equations
// needed for an hourly grass-reference evapotranspiration and root-zone
// depletion model. Every function is pure: outputs depend only on the
// arguments, nothing is logged, and nothing is cached.
//
// Units follow the paper: temperatures in °C unless the name says Kelvin,
// pressures in kPa, radiation in MJ m⁻² h⁻¹, water depths in mm.
package fao56
