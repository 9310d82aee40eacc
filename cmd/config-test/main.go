package main

import (
	"flag"
	"fmt"
	"os"
	"reflect"

	"github.com/chrissnell/fastclime/internal/simulation"
	"github.com/chrissnell/fastclime/pkg/config"
)

func main() {
	var (
		yamlFile   = flag.String("yaml", "", "Path to YAML configuration file")
		sqliteFile = flag.String("sqlite", "", "Path to SQLite configuration file")
	)
	flag.Parse()

	if *yamlFile == "" || *sqliteFile == "" {
		fmt.Fprintf(os.Stderr, "Usage: %s -yaml <fastclime.yaml> -sqlite <fastclime.db>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}

	fmt.Println("Configuration Comparison Test")
	fmt.Println("===========================")

	// Load YAML configuration
	fmt.Printf("Loading YAML configuration: %s\n", *yamlFile)
	yamlConfig, err := config.NewYAMLProvider(*yamlFile).LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading YAML config: %v\n", err)
		os.Exit(1)
	}

	// Load SQLite configuration
	fmt.Printf("Loading SQLite configuration: %s\n", *sqliteFile)
	sqliteProvider, err := config.NewSQLiteProvider(*sqliteFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating SQLite provider: %v\n", err)
		os.Exit(1)
	}
	defer sqliteProvider.Close()

	sqliteConfig, err := sqliteProvider.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading SQLite config: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("\nComparison Results:")
	fmt.Println("==================")

	problems := compareConfigs(yamlConfig, sqliteConfig)
	problems += validateParcels(sqliteConfig.Parcels)

	if problems > 0 {
		fmt.Printf("\n%d problem(s) found\n", problems)
		os.Exit(1)
	}
	fmt.Println("\nConfigurations match and every parcel is valid")
}

// compareConfigs prints one line per section and returns the number of
// mismatches.
func compareConfigs(a, b *config.ConfigData) int {
	mismatches := 0
	check := func(name string, x, y any) {
		if reflect.DeepEqual(x, y) {
			fmt.Printf("✓ %s matches\n", name)
			return
		}
		fmt.Printf("✗ %s differs\n    YAML:   %+v\n    SQLite: %+v\n", name, x, y)
		mismatches++
	}

	check("Data directory", a.DataDir, b.DataDir)
	check("Storage", a.Storage, b.Storage)
	check("Simulation", a.Simulation, b.Simulation)
	check("REST server", a.REST, b.REST)
	check("Logging", a.Logging, b.Logging)

	fmt.Printf("\nParcels - YAML: %d, SQLite: %d\n", len(a.Parcels), len(b.Parcels))
	for _, p := range a.Parcels {
		q, ok := b.Parcel(p.ID)
		if !ok {
			fmt.Printf("✗ Parcel %s missing from SQLite\n", p.ID)
			mismatches++
			continue
		}
		check("Parcel "+p.ID, p, q)
	}
	for _, q := range b.Parcels {
		if _, ok := a.Parcel(q.ID); !ok {
			fmt.Printf("✗ Parcel %s only in SQLite\n", q.ID)
			mismatches++
		}
	}
	return mismatches
}

// validateParcels checks every parcel against the simulation's parcel
// rules and returns the number of invalid parcels.
func validateParcels(parcels []config.ParcelData) int {
	invalid := 0
	for _, p := range parcels {
		sp := simulation.Parcel{ID: p.ID, Name: p.Name, Latitude: p.Latitude, CropCoefficient: p.CropCoefficient}
		if err := sp.Validate(); err != nil {
			fmt.Printf("✗ Parcel %s is invalid: %v\n", p.ID, err)
			invalid++
		}
	}
	return invalid
}
