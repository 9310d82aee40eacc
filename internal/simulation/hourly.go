package simulation

import (
	"fmt"
	"time"

	"github.com/chrissnell/fastclime/pkg/fao56"
)

const timeLayout = "2006-01-02 15:04"

// Simulator runs the hourly water balance. The zero value uses the default
// FAO-56 pipeline.
type Simulator struct {
	Pipeline *fao56.Pipeline
}

// NewSimulator returns a Simulator with the given albedo and the hourly
// longwave simplification.
func NewSimulator(albedo float64) *Simulator {
	p := fao56.DefaultPipeline()
	if albedo > 0 {
		p.Albedo = albedo
	}
	return &Simulator{Pipeline: &p}
}

func (s *Simulator) pipeline() fao56.Pipeline {
	if s == nil || s.Pipeline == nil {
		return fao56.DefaultPipeline()
	}
	return *s.Pipeline
}

// Step advances one hour: ETo, ETc, effective precipitation and the water
// balance. Effective precipitation is the observed precipitation.
func (s *Simulator) Step(p Parcel, o Observation, prevDepletion float64) HourlyMetric {
	eto := s.pipeline().Evaluate(fao56.Inputs{
		Time:           o.Time,
		Latitude:       p.Latitude,
		TempC:          o.TempC,
		RelHumidity:    o.RelHumidity,
		WindSpeed:      o.WindSpeed,
		SolarRadiation: o.SolarRadiation,
		Pressure:       o.Pressure,
	}).ReferenceET

	etc := fao56.CropET(p.CropCoefficient, eto)
	pe := o.Precipitation
	b := fao56.SoilWaterBalance(prevDepletion, etc, pe, o.Irrigation)

	return HourlyMetric{
		Time:            o.Time,
		ParcelID:        p.ID,
		ETo:             eto,
		ETc:             etc,
		EffectivePrecip: pe,
		Depletion:       b.Depletion,
		Ks:              b.Ks,
		StressIndex:     b.StressIndex,
	}
}

// RunHourly simulates every observation with start <= Time <= end, in order,
// starting from seed depletion. An empty selection returns a Run with no
// metrics and FinalDepletion equal to seed.
func (s *Simulator) RunHourly(p Parcel, start, end time.Time, obs []Observation, seed float64) (*Run, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := validateSeed(seed); err != nil {
		return nil, err
	}

	selected := make([]Observation, 0, len(obs))
	for _, o := range obs {
		if o.Time.Before(start) || o.Time.After(end) {
			continue
		}
		selected = append(selected, o)
	}

	run := &Run{
		ParcelID:       p.ID,
		Metrics:        make([]HourlyMetric, 0, len(selected)),
		SeedDepletion:  seed,
		FinalDepletion: seed,
	}

	for i, o := range selected {
		if err := o.Validate(); err != nil {
			return nil, fmt.Errorf("parcel %s: %w", p.ID, err)
		}
		if i > 0 {
			prev := selected[i-1].Time
			if !o.Time.After(prev) {
				return nil, fmt.Errorf("%w: parcel %s: %s follows %s", ErrOutOfOrder, p.ID,
					o.Time.Format(timeLayout), prev.Format(timeLayout))
			}
			if o.Time.Sub(prev) > time.Hour {
				run.Gaps++
			}
		}

		m := s.Step(p, o, run.FinalDepletion)
		run.Metrics = append(run.Metrics, m)
		run.FinalDepletion = m.Depletion
	}

	return run, nil
}
