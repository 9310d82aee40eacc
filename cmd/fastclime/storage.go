package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/chrissnell/fastclime/internal/app"
	"github.com/chrissnell/fastclime/internal/catalog"
	"github.com/chrissnell/fastclime/pkg/config"
)

func runStorage(ctx context.Context, cfg *config.ConfigData, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("storage requires a subcommand: init, info or clean-temp")
	}

	fs := flag.NewFlagSet("storage "+args[0], flag.ExitOnError)
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	switch args[0] {
	case "init":
		c, layout, err := app.OpenCatalog(ctx, cfg)
		if err != nil {
			return err
		}
		defer c.Close()
		fmt.Printf("Initialized data directory %s (%s catalog, %d parcels)\n", layout.Root, c.Backend(), len(cfg.Parcels))
		return nil

	case "info":
		c, layout, err := app.OpenCatalog(ctx, cfg)
		if err != nil {
			return err
		}
		defer c.Close()
		return printStorageInfo(ctx, c, layout)

	case "clean-temp":
		n, err := catalog.NewLayout(cfg.DataDir).CleanTemp()
		if err != nil {
			return err
		}
		fmt.Printf("Removed %d entries from temporary storage\n", n)
		return nil

	default:
		return fmt.Errorf("unknown storage subcommand %q", args[0])
	}
}

func printStorageInfo(ctx context.Context, c *catalog.Catalog, layout catalog.Layout) error {
	stats, err := c.Stats(ctx)
	if err != nil {
		return err
	}
	datasets, err := c.Datasets(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Data directory: %s\n", layout.Root)
	fmt.Printf("Catalog backend: %s\n\n", c.Backend())

	tables := make([]string, 0, len(stats))
	for t := range stats {
		tables = append(tables, t)
	}
	sort.Strings(tables)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TABLE\tROWS")
	for _, t := range tables {
		fmt.Fprintf(w, "%s\t%d\n", t, stats[t])
	}
	w.Flush()

	if len(datasets) == 0 {
		return nil
	}

	fmt.Println()
	w = tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DATASET\tSOURCE\tVERSION\tARTIFACTS")
	for _, ds := range datasets {
		artifacts, err := c.Artifacts(ctx, ds.Name)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", ds.Name, ds.Source, ds.Version, len(artifacts))
	}
	return w.Flush()
}
