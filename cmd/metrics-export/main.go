package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chrissnell/fastclime/internal/log"
	"github.com/chrissnell/fastclime/pkg/config"
)

type ExportFormat string

const (
	FormatCSV  ExportFormat = "csv"
	FormatJSON ExportFormat = "json"
)

type Config struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
	SSLMode  string
	DSN      string
	Format   ExportFormat
	Output   string
	Filter   Filter
}

func main() {
	var cfg Config
	var startStr, endStr string

	// Parse command line flags
	flag.StringVar(&cfg.DSN, "dsn", os.Getenv(config.EnvDB), "PostgreSQL connection string (overrides -host and friends; defaults to $FASTCLIME_DB)")
	flag.StringVar(&cfg.Host, "host", "localhost", "Database host")
	flag.IntVar(&cfg.Port, "port", 5432, "Database port")
	flag.StringVar(&cfg.Database, "database", "fastclime", "Database name")
	flag.StringVar(&cfg.User, "user", "postgres", "Database user")
	flag.StringVar(&cfg.Password, "password", "", "Database password")
	flag.StringVar(&cfg.SSLMode, "sslmode", "disable", "SSL mode (disable, require, etc)")
	formatStr := flag.String("format", "csv", "Export format: csv or json")
	flag.StringVar(&cfg.Output, "output", "metrics_hourly", "Output file base name (extension added automatically)")
	flag.StringVar(&cfg.Filter.ParcelID, "parcel", "", "Only export this parcel")
	flag.StringVar(&startStr, "start", "", "Only export hours at or after this RFC 3339 time")
	flag.StringVar(&endStr, "end", "", "Only export hours at or before this RFC 3339 time")
	debug := flag.Bool("debug", false, "Turn on debugging output")
	flag.Parse()

	if err := log.Init(*debug); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Validate format
	switch ExportFormat(*formatStr) {
	case FormatCSV, FormatJSON:
		cfg.Format = ExportFormat(*formatStr)
	default:
		log.Fatalf("Invalid format: %s. Must be csv or json", *formatStr)
	}

	var err error
	if startStr != "" {
		if cfg.Filter.Start, err = time.Parse(time.RFC3339, startStr); err != nil {
			log.Fatalf("Invalid -start: %v", err)
		}
	}
	if endStr != "" {
		if cfg.Filter.End, err = time.Parse(time.RFC3339, endStr); err != nil {
			log.Fatalf("Invalid -end: %v", err)
		}
	}

	// Build connection string
	connStr := cfg.DSN
	if connStr == "" {
		connStr = fmt.Sprintf("host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
			cfg.Host, cfg.Port, cfg.Database, cfg.User, cfg.Password, cfg.SSLMode)
	}

	// Connect to database
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	log.Infof("Connected to database %s", pool.Config().ConnConfig.Database)

	query, queryArgs := cfg.Filter.Query()

	var totalCount int64
	countQuery, countArgs := cfg.Filter.CountQuery()
	if err := pool.QueryRow(ctx, countQuery, countArgs...).Scan(&totalCount); err != nil {
		log.Fatalf("Failed to get record count: %v", err)
	}
	log.Infof("Found %d hourly metrics to export", totalCount)

	rows, err := fetchMetrics(ctx, pool, query, queryArgs)
	if err != nil {
		log.Fatalf("Export failed: %v", err)
	}

	filename := cfg.Output + "." + string(cfg.Format)
	file, err := os.Create(filename)
	if err != nil {
		log.Fatalf("Failed to create file: %v", err)
	}
	defer file.Close()

	switch cfg.Format {
	case FormatCSV:
		err = writeCSV(file, rows)
	case FormatJSON:
		err = writeJSON(file, rows)
	}
	if err != nil {
		log.Fatalf("Writing %s failed: %v", filename, err)
	}

	log.Infof("Exported %d records to %s", len(rows), filename)
}
