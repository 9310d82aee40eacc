package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/chrissnell/fastclime/internal/app"
	"github.com/chrissnell/fastclime/internal/catalog"
	"github.com/chrissnell/fastclime/internal/climate"
	"github.com/chrissnell/fastclime/internal/log"
	"github.com/chrissnell/fastclime/internal/simulation"
	"github.com/chrissnell/fastclime/pkg/config"
)

func runModel(ctx context.Context, cfg *config.ConfigData, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("model requires a subcommand: run or project")
	}

	switch args[0] {
	case "run":
		return runModelRun(ctx, cfg, args[1:])
	case "project":
		return runModelProject(ctx, cfg, args[1:])
	default:
		return fmt.Errorf("unknown model subcommand %q", args[0])
	}
}

func runModelRun(ctx context.Context, cfg *config.ConfigData, args []string) error {
	fs := flag.NewFlagSet("model run", flag.ExitOnError)
	startStr := fs.String("start", "", "First hour to simulate: 2006-01-02 or 2006-01-02T15 (required)")
	endStr := fs.String("end", "", "Last hour to simulate, inclusive; a bare date means its last hour (required)")
	parcelID := fs.String("parcel", "", "Parcel to simulate")
	all := fs.Bool("all", false, "Simulate every parcel in the catalog")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *startStr == "" || *endStr == "" {
		fs.Usage()
		return fmt.Errorf("-start and -end are required")
	}
	if (*parcelID == "") == !*all {
		return fmt.Errorf("exactly one of -parcel or -all is required")
	}

	start, err := parseHourFlag(*startStr, false)
	if err != nil {
		return err
	}
	end, err := parseHourFlag(*endStr, true)
	if err != nil {
		return err
	}
	if end.Before(start) {
		return fmt.Errorf("-end is before -start")
	}

	c, _, err := app.OpenCatalog(ctx, cfg)
	if err != nil {
		return err
	}
	defer c.Close()

	ids := []string{*parcelID}
	if *all {
		parcels, err := c.Parcels(ctx)
		if err != nil {
			return err
		}
		ids = ids[:0]
		for _, p := range parcels {
			ids = append(ids, p.ID)
		}
		if len(ids) == 0 {
			return fmt.Errorf("no parcels in the catalog")
		}
	}

	svc := simulation.NewService(c, simulation.NewSimulator(cfg.Simulation.Albedo), log.GetSugaredLogger())
	runs, err := svc.RunAll(ctx, ids, start, end, cfg.Simulation.Workers)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PARCEL\tHOURS\tGAPS\tETO_MM\tETC_MM\tPE_MM\tSEED_MM\tFINAL_MM")
	for _, run := range runs {
		s := simulation.Summarize(run.Metrics)
		fmt.Fprintf(w, "%s\t%d\t%d\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\n", run.ParcelID, s.Hours, run.Gaps,
			s.TotalETo, s.TotalETc, s.TotalPrecip, run.SeedDepletion, run.FinalDepletion)
	}
	return w.Flush()
}

func runModelProject(ctx context.Context, cfg *config.ConfigData, args []string) error {
	fs := flag.NewFlagSet("model project", flag.ExitOnError)
	parcelID := fs.String("parcel", "", "Parcel to project (required)")
	days := fs.Int("days", 7, "Number of days to project")
	fromStr := fs.String("from", "", "Project from this hour (defaults to the hour after the latest stored metric)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *parcelID == "" {
		fs.Usage()
		return fmt.Errorf("-parcel is required")
	}

	c, _, err := app.OpenCatalog(ctx, cfg)
	if err != nil {
		return err
	}
	defer c.Close()

	var from time.Time
	if *fromStr != "" {
		if from, err = parseHourFlag(*fromStr, false); err != nil {
			return err
		}
	} else {
		latest, err := c.LatestMetric(ctx, *parcelID)
		switch {
		case errors.Is(err, catalog.ErrNotFound):
			now := time.Now()
			from = time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), 0, 0, 0, time.UTC)
		case err != nil:
			return err
		default:
			from = latest.Time.Add(time.Hour)
		}
	}

	svc := simulation.NewService(c, simulation.NewSimulator(cfg.Simulation.Albedo), log.GetSugaredLogger())
	projections, err := svc.ProjectDeficit(ctx, *parcelID, from, *days)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tSCENARIO\tDEFICIT_MM")
	for _, p := range projections {
		fmt.Fprintf(w, "%s\t%s\t%.2f\n", p.Date.Format("2006-01-02"), p.Scenario, p.DeficitMM)
	}
	return w.Flush()
}

// parseHourFlag accepts the civil timestamp forms of climate files plus a
// bare date or 2006-01-02T15. A bare date is the day's first hour, or its
// last hour when endOfDay is set.
func parseHourFlag(s string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		if endOfDay {
			return t.Add(23 * time.Hour), nil
		}
		return t, nil
	}
	if t, err := time.Parse("2006-01-02T15", s); err == nil {
		return t, nil
	}
	return climate.ParseTime(s)
}
