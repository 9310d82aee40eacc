package simulation

import (
	"fmt"
	"time"
)

// ProjectDeficit returns one no-irrigation projection per day for the days
// following from. No forecast weather is integrated yet, so every day
// carries the seed deficit forward unchanged.
//
// TODO: drive the projection from forecast observations through RunHourly
// once a forecast source is ingested into climate_hourly.
func ProjectDeficit(p Parcel, from time.Time, seed float64, days int) ([]DeficitProjection, error) {
	if days < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidHorizon, days)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := validateSeed(seed); err != nil {
		return nil, err
	}

	day := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())
	out := make([]DeficitProjection, days)
	for i := range out {
		out[i] = DeficitProjection{
			Date:      day.AddDate(0, 0, i+1),
			ParcelID:  p.ID,
			Scenario:  ScenarioNoIrrigation,
			DeficitMM: seed,
		}
	}
	return out, nil
}
