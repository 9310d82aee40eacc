package config

// ConfigProvider defines the interface for configuration data sources
type ConfigProvider interface {
	// Load complete configuration
	LoadConfig() (*ConfigData, error)

	// Get specific configuration sections
	GetParcels() ([]ParcelData, error)
	GetStorageConfig() (*StorageData, error)

	IsReadOnly() bool
	Close() error
}

// ConfigData represents the complete configuration structure
type ConfigData struct {
	DataDir    string         `json:"data_dir,omitempty"`
	Storage    StorageData    `json:"storage"`
	Simulation SimulationData `json:"simulation"`
	Parcels    []ParcelData   `json:"parcels"`
	REST       RESTServerData `json:"rest"`
	Logging    LoggingData    `json:"logging"`
}

// ParcelData describes one irrigated parcel
type ParcelData struct {
	ID              string  `json:"id"`
	Name            string  `json:"name,omitempty"`
	Crop            string  `json:"crop,omitempty"`
	Latitude        float64 `json:"latitude"`
	Longitude       float64 `json:"longitude"`
	Elevation       float64 `json:"elevation"`
	CropCoefficient float64 `json:"kc"`
}

// Storage backends
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// StorageData holds the catalog database configuration
type StorageData struct {
	Backend          string `json:"backend"`
	ConnectionString string `json:"connection_string,omitempty"`
	SQLitePath       string `json:"sqlite_path,omitempty"`
}

// SimulationData holds tunables of the water balance model
type SimulationData struct {
	Albedo  float64 `json:"albedo,omitempty"`
	Workers int     `json:"workers,omitempty"`
}

// RESTServerData configures the read-only metrics API
type RESTServerData struct {
	Cert       string `json:"cert,omitempty"`
	Key        string `json:"key,omitempty"`
	Port       int    `json:"port,omitempty"`
	ListenAddr string `json:"listen_addr,omitempty"`
}

// LoggingData configures log output
type LoggingData struct {
	Debug bool   `json:"debug,omitempty"`
	File  string `json:"file,omitempty"`
}

// Parcel returns the parcel with the given ID
func (c *ConfigData) Parcel(id string) (ParcelData, bool) {
	for _, p := range c.Parcels {
		if p.ID == id {
			return p, true
		}
	}
	return ParcelData{}, false
}
