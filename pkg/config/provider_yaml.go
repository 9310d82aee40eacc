package config

import (
	"os"

	"gopkg.in/yaml.v2"
)

// YAMLProvider implements ConfigProvider for YAML configuration files
type YAMLProvider struct {
	filename string
	config   *ConfigData
}

// NewYAMLProvider creates a new YAML configuration provider
func NewYAMLProvider(filename string) *YAMLProvider {
	return &YAMLProvider{
		filename: filename,
	}
}

// LoadConfig loads the complete configuration from YAML file
func (y *YAMLProvider) LoadConfig() (*ConfigData, error) {
	cfgFile, err := os.ReadFile(y.filename)
	if err != nil {
		return nil, err
	}

	var yamlConfig ConfigYAML
	if err := yaml.Unmarshal(cfgFile, &yamlConfig); err != nil {
		return nil, err
	}

	config := &ConfigData{
		DataDir: yamlConfig.DataDir,
		Storage: StorageData{
			Backend:          yamlConfig.Storage.Backend,
			ConnectionString: yamlConfig.Storage.ConnectionString,
			SQLitePath:       yamlConfig.Storage.SQLitePath,
		},
		Simulation: SimulationData{
			Albedo:  yamlConfig.Simulation.Albedo,
			Workers: yamlConfig.Simulation.Workers,
		},
		REST: RESTServerData{
			Cert:       yamlConfig.REST.Cert,
			Key:        yamlConfig.REST.Key,
			Port:       yamlConfig.REST.Port,
			ListenAddr: yamlConfig.REST.ListenAddr,
		},
		Logging: LoggingData{
			Debug: yamlConfig.Logging.Debug,
			File:  yamlConfig.Logging.File,
		},
		Parcels: make([]ParcelData, len(yamlConfig.Parcels)),
	}

	for i, p := range yamlConfig.Parcels {
		config.Parcels[i] = ParcelData{
			ID:              p.ID,
			Name:            p.Name,
			Crop:            p.Crop,
			Latitude:        p.Latitude,
			Longitude:       p.Longitude,
			Elevation:       p.Elevation,
			CropCoefficient: p.CropCoefficient,
		}
	}

	config.ApplyEnv()
	config.ApplyDefaults()

	y.config = config
	return config, nil
}

// GetParcels returns parcel configurations
func (y *YAMLProvider) GetParcels() ([]ParcelData, error) {
	if y.config == nil {
		_, err := y.LoadConfig()
		if err != nil {
			return nil, err
		}
	}
	return y.config.Parcels, nil
}

// GetStorageConfig returns storage configuration
func (y *YAMLProvider) GetStorageConfig() (*StorageData, error) {
	if y.config == nil {
		_, err := y.LoadConfig()
		if err != nil {
			return nil, err
		}
	}
	return &y.config.Storage, nil
}

// IsReadOnly returns true since YAML files are read-only through this interface
func (y *YAMLProvider) IsReadOnly() bool {
	return true
}

// Close is a no-op for YAML provider
func (y *YAMLProvider) Close() error {
	return nil
}

// YAML-specific structs

type ConfigYAML struct {
	DataDir    string         `yaml:"data-dir,omitempty"`
	Storage    StorageYAML    `yaml:"storage,omitempty"`
	Simulation SimulationYAML `yaml:"simulation,omitempty"`
	Parcels    []ParcelYAML   `yaml:"parcels"`
	REST       RESTYAML       `yaml:"rest,omitempty"`
	Logging    LoggingYAML    `yaml:"logging,omitempty"`
}

type StorageYAML struct {
	Backend          string `yaml:"backend,omitempty"`
	ConnectionString string `yaml:"connection-string,omitempty"`
	SQLitePath       string `yaml:"sqlite-path,omitempty"`
}

type SimulationYAML struct {
	Albedo  float64 `yaml:"albedo,omitempty"`
	Workers int     `yaml:"workers,omitempty"`
}

type ParcelYAML struct {
	ID              string  `yaml:"id"`
	Name            string  `yaml:"name,omitempty"`
	Crop            string  `yaml:"crop,omitempty"`
	Latitude        float64 `yaml:"latitude"`
	Longitude       float64 `yaml:"longitude"`
	Elevation       float64 `yaml:"elevation,omitempty"`
	CropCoefficient float64 `yaml:"kc"`
}

type RESTYAML struct {
	Cert       string `yaml:"cert,omitempty"`
	Key        string `yaml:"key,omitempty"`
	Port       int    `yaml:"port,omitempty"`
	ListenAddr string `yaml:"listen-addr,omitempty"`
}

type LoggingYAML struct {
	Debug bool   `yaml:"debug,omitempty"`
	File  string `yaml:"file,omitempty"`
}
