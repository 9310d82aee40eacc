package simulation

import (
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary aggregates the metrics of a run.
type Summary struct {
	ParcelID       string    `json:"parcel_id"`
	Start          time.Time `json:"start"`
	End            time.Time `json:"end"`
	Hours          int       `json:"hours"`
	TotalETo       float64   `json:"total_eto_mm"`
	MeanETo        float64   `json:"mean_eto_mm_h"`
	TotalETc       float64   `json:"total_etc_mm"`
	TotalPrecip    float64   `json:"total_pe_mm"`
	MeanDepletion  float64   `json:"mean_depletion_mm"`
	MaxDepletion   float64   `json:"max_depletion_mm"`
	FinalDepletion float64   `json:"final_depletion_mm"`
	StressHours    int       `json:"stress_hours"`
}

// Summarize computes totals and means over metrics, which must belong to a
// single parcel and be in chronological order.
func Summarize(metrics []HourlyMetric) Summary {
	if len(metrics) == 0 {
		return Summary{}
	}

	eto := make([]float64, len(metrics))
	etc := make([]float64, len(metrics))
	pe := make([]float64, len(metrics))
	dep := make([]float64, len(metrics))
	stress := 0
	for i, m := range metrics {
		eto[i], etc[i], pe[i], dep[i] = m.ETo, m.ETc, m.EffectivePrecip, m.Depletion
		if m.Ks < 1 {
			stress++
		}
	}

	last := metrics[len(metrics)-1]
	return Summary{
		ParcelID:       metrics[0].ParcelID,
		Start:          metrics[0].Time,
		End:            last.Time,
		Hours:          len(metrics),
		TotalETo:       floats.Sum(eto),
		MeanETo:        stat.Mean(eto, nil),
		TotalETc:       floats.Sum(etc),
		TotalPrecip:    floats.Sum(pe),
		MeanDepletion:  stat.Mean(dep, nil),
		MaxDepletion:   floats.Max(dep),
		FinalDepletion: last.Depletion,
		StressHours:    stress,
	}
}
