package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/chrissnell/fastclime/internal/app"
	"github.com/chrissnell/fastclime/internal/log"
	"github.com/chrissnell/fastclime/pkg/config"
)

const version = "0.3-" + runtime.GOOS + "/" + runtime.GOARCH

const usage = `Usage: fastclime [global flags] <command> [subcommand] [flags]

Commands:
  storage init|info|clean-temp   Manage the data directory and catalog
  ingest climate                 Load an hourly climate CSV for a parcel
  model run                      Run the hourly water balance
  model project                  Project soil-water deficit forward
  serve                          Serve the metrics API
  version                        Print the version

Global flags:
`

func main() {
	cfgFile := flag.String("config", "fastclime.yaml", "Path to configuration source:\n\t\t\t  YAML: fastclime.yaml\n\t\t\t  SQLite: fastclime.db\n\t\t\t  Use 'config-convert' tool to convert YAML→SQLite")
	cfgBackend := flag.String("config-backend", "yaml", "Configuration backend type: 'yaml' for YAML files, 'sqlite' for SQLite databases")
	debug := flag.Bool("debug", false, "Turn on debugging output")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}
	if args[0] == "version" {
		fmt.Printf("fastclime %s\n", version)
		return
	}

	// Set up logging
	if err := log.Init(*debug); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	cfgData, err := loadConfig(*cfgFile, *cfgBackend)
	if err != nil {
		log.Errorf("Failed to load configuration: %v", err)
		os.Exit(1)
	}

	if cfgData.Logging.File != "" || cfgData.Logging.Debug {
		if err := log.InitWithFile(*debug || cfgData.Logging.Debug, logFilePath(cfgData.DataDir, cfgData.Logging.File)); err != nil {
			log.Errorf("Failed to initialize log file: %v", err)
			os.Exit(1)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch args[0] {
	case "storage":
		err = runStorage(ctx, cfgData, args[1:])
	case "ingest":
		err = runIngest(ctx, cfgData, args[1:])
	case "model":
		err = runModel(ctx, cfgData, args[1:])
	case "serve":
		err = app.New(cfgData, log.GetSugaredLogger()).Run(ctx)
	default:
		flag.Usage()
		err = fmt.Errorf("unknown command %q", args[0])
	}

	if err != nil {
		log.Errorf("%s: %v", args[0], err)
		log.Sync()
		os.Exit(1)
	}
}

// loadConfig reads the configuration source. A missing default YAML file
// is not an error: defaults and environment overrides are used instead.
func loadConfig(cfgFile, cfgBackend string) (*config.ConfigData, error) {
	filename, _ := filepath.Abs(cfgFile)

	var provider config.ConfigProvider
	var err error

	switch cfgBackend {
	case "yaml":
		if _, statErr := os.Stat(filename); os.IsNotExist(statErr) && cfgFile == "fastclime.yaml" {
			log.Debugf("no configuration file at %s; using defaults", filename)
			cfg := &config.ConfigData{}
			cfg.ApplyEnv()
			cfg.ApplyDefaults()
			return cfg, nil
		}
		provider = config.NewYAMLProvider(filename)
	case "sqlite":
		provider, err = config.NewSQLiteProvider(filename)
		if err != nil {
			return nil, fmt.Errorf("error creating SQLite provider: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported configuration backend: %s. Use 'yaml' or 'sqlite'", cfgBackend)
	}
	defer provider.Close()

	cfgData, err := provider.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error reading config file. Did you pass the -config flag? Run with -h for help: %w", err)
	}

	return cfgData, nil
}

// logFilePath resolves the configured log file. Relative paths are placed
// in the data directory's logs stage; an empty name disables the file.
func logFilePath(dataDir, file string) string {
	if file == "" || filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(dataDir, "logs", file)
}
