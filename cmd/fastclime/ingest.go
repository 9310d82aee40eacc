package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/chrissnell/fastclime/internal/app"
	"github.com/chrissnell/fastclime/internal/climate"
	"github.com/chrissnell/fastclime/internal/log"
	"github.com/chrissnell/fastclime/pkg/config"
)

func runIngest(ctx context.Context, cfg *config.ConfigData, args []string) error {
	if len(args) == 0 || args[0] != "climate" {
		return fmt.Errorf("ingest requires a subcommand: climate")
	}

	fs := flag.NewFlagSet("ingest climate", flag.ExitOnError)
	parcelID := fs.String("parcel", "", "Parcel ID the climate series belongs to (required)")
	file := fs.String("file", "", "Hourly climate CSV (required)")
	elevation := fs.Float64("elevation", 0, "Site elevation in metres, used to estimate missing surface pressure (defaults to the parcel's configured elevation)")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	if *parcelID == "" || *file == "" {
		fs.Usage()
		return fmt.Errorf("-parcel and -file are required")
	}

	var elev *float64
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "elevation" {
			elev = elevation
		}
	})
	if elev == nil {
		if p, ok := cfg.Parcel(*parcelID); ok {
			elev = &p.Elevation
		}
	}

	c, layout, err := app.OpenCatalog(ctx, cfg)
	if err != nil {
		return err
	}
	defer c.Close()

	if _, err := c.Parcel(ctx, *parcelID); err != nil {
		return err
	}

	res, err := climate.NewIngester(c, layout, log.GetSugaredLogger()).IngestFile(ctx, *parcelID, *file, elev)
	if err != nil {
		return err
	}

	fmt.Printf("Ingested %d hours for %s (%s to %s), artifact %s\n", res.Rows, res.ParcelID,
		res.Start.Format("2006-01-02 15:04"), res.End.Format("2006-01-02 15:04"), res.ArtifactID)
	return nil
}
