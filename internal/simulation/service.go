package simulation

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Store is the catalog the service reads inputs from and writes results to.
type Store interface {
	Parcel(ctx context.Context, id string) (Parcel, error)
	ClimateBetween(ctx context.Context, parcelID string, start, end time.Time) ([]Observation, error)
	// LastDepletion returns the most recent stored depletion strictly before
	// the given time, and false when there is none.
	LastDepletion(ctx context.Context, parcelID string, before time.Time) (float64, bool, error)
	UpsertMetrics(ctx context.Context, metrics []HourlyMetric) error
	UpsertProjections(ctx context.Context, projections []DeficitProjection) error
}

// Service runs simulations against a Store. It holds no mutable state, so a
// single Service may run many parcels concurrently.
type Service struct {
	store     Store
	simulator *Simulator
	logger    *zap.SugaredLogger
}

// NewService creates a Service. A nil simulator uses the default pipeline.
func NewService(store Store, simulator *Simulator, logger *zap.SugaredLogger) *Service {
	if simulator == nil {
		simulator = &Simulator{}
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Service{store: store, simulator: simulator, logger: logger}
}

// RunHourly simulates one parcel over [start, end], seeding depletion from
// the last stored value before start, and upserts the resulting metrics.
func (s *Service) RunHourly(ctx context.Context, parcelID string, start, end time.Time) (*Run, error) {
	s.logger.Infow("running hourly simulation", "parcel", parcelID,
		"start", start.Format(timeLayout), "end", end.Format(timeLayout))

	parcel, err := s.store.Parcel(ctx, parcelID)
	if err != nil {
		return nil, fmt.Errorf("loading parcel %s: %w", parcelID, err)
	}

	obs, err := s.store.ClimateBetween(ctx, parcelID, start, end)
	if err != nil {
		return nil, fmt.Errorf("loading climate for parcel %s: %w", parcelID, err)
	}

	seed, found, err := s.store.LastDepletion(ctx, parcelID, start)
	if err != nil {
		return nil, fmt.Errorf("loading seed depletion for parcel %s: %w", parcelID, err)
	}
	if !found {
		s.logger.Debugw("no prior depletion, seeding with zero", "parcel", parcelID)
	}

	run, err := s.simulator.RunHourly(parcel, start, end, obs, seed)
	if err != nil {
		return nil, err
	}
	if run.Gaps > 0 {
		s.logger.Warnw("climate series has gaps", "parcel", parcelID, "gaps", run.Gaps)
	}

	if len(run.Metrics) == 0 {
		s.logger.Warnw("no climate observations in range", "parcel", parcelID)
		return run, nil
	}

	if err := s.store.UpsertMetrics(ctx, run.Metrics); err != nil {
		return nil, fmt.Errorf("storing metrics for parcel %s: %w", parcelID, err)
	}

	s.logger.Infow("hourly simulation complete", "parcel", parcelID,
		"rows_written", len(run.Metrics), "final_depletion_mm", run.FinalDepletion)
	return run, nil
}

// RunAll runs RunHourly for each parcel, at most workers at a time. Each
// parcel's hourly chain stays sequential. The first failure cancels the
// parcels that have not finished.
func (s *Service) RunAll(ctx context.Context, parcelIDs []string, start, end time.Time, workers int) ([]*Run, error) {
	if workers < 1 {
		workers = 1
	}

	runs := make([]*Run, len(parcelIDs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, id := range parcelIDs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			run, err := s.RunHourly(ctx, id, start, end)
			if err != nil {
				return err
			}
			runs[i] = run
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return runs, nil
}

// ProjectDeficit projects depletion for days after from under the
// no-irrigation scenario and stores the projections.
func (s *Service) ProjectDeficit(ctx context.Context, parcelID string, from time.Time, days int) ([]DeficitProjection, error) {
	s.logger.Infow("projecting deficit (placeholder: no forecast data)", "parcel", parcelID, "days", days)

	parcel, err := s.store.Parcel(ctx, parcelID)
	if err != nil {
		return nil, fmt.Errorf("loading parcel %s: %w", parcelID, err)
	}

	seed, _, err := s.store.LastDepletion(ctx, parcelID, from)
	if err != nil {
		return nil, fmt.Errorf("loading seed depletion for parcel %s: %w", parcelID, err)
	}

	projections, err := ProjectDeficit(parcel, from, seed, days)
	if err != nil {
		return nil, err
	}

	if err := s.store.UpsertProjections(ctx, projections); err != nil {
		return nil, fmt.Errorf("storing projections for parcel %s: %w", parcelID, err)
	}
	return projections, nil
}
