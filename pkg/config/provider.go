// Package config loads scenario configuration for the simulation engine:
// parameter definitions, the timestep window, storage backends, controllers,
// and measurement devices.
package config

import "time"

// ConfigProvider defines the interface for configuration data sources
type ConfigProvider interface {
	// Load complete configuration
	LoadConfig() (*ConfigData, error)

	// Get specific configuration sections
	GetSimulation() (*SimulationData, error)
	GetParameters() ([]ParameterData, error)
	GetDevices() ([]DeviceData, error)
	GetStorageConfig() (*StorageData, error)
	GetControllers() ([]ControllerData, error)

	IsReadOnly() bool
	Close() error
}

// ConfigData represents the complete configuration structure
type ConfigData struct {
	Simulation  SimulationData   `json:"simulation"`
	Parameters  []ParameterData  `json:"parameters"`
	Devices     []DeviceData     `json:"devices,omitempty"`
	Storage     StorageData      `json:"storage,omitempty"`
	Controllers []ControllerData `json:"controllers,omitempty"`
}

// SimulationData describes the timestep window the runner iterates.
type SimulationData struct {
	Start     time.Time     `json:"start"`
	End       time.Time     `json:"end"`
	Interval  time.Duration `json:"interval"`
	Scenarios int           `json:"scenarios"`
	// VSOP87Dir is the directory holding the planetary ephemeris dataset
	// used by solar-generation parameters. Empty means the loader's default
	// search path.
	VSOP87Dir string `json:"vsop87_dir,omitempty"`
}

// PositionData is a geographic observer position.
type PositionData struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Elevation float64 `json:"elevation,omitempty"`
}

// ParameterData holds one parameter definition. Which fields apply depends on
// Type; pointer fields distinguish "absent" from zero so required-field
// validation can be exact.
type ParameterData struct {
	Name string `json:"name"`
	Type string `json:"type"`
	// Output marks parameters the runner evaluates and records each timestep.
	Output bool `json:"output,omitempty"`

	// solar-generation
	Position                  *PositionData `json:"position,omitempty"`
	Azimuth                   *float64      `json:"azimuth,omitempty"`
	Tilt                      *float64      `json:"tilt,omitempty"`
	Area                      *float64      `json:"area,omitempty"`
	DirectRadiationParameter  string        `json:"direct_radiation_parameter,omitempty"`
	DiffuseRadiationParameter string        `json:"diffuse_radiation_parameter,omitempty"`

	// hourly-diurnal
	Values []float64 `json:"values,omitempty"`

	// constant
	Value float64 `json:"value,omitempty"`

	// csv-series
	CSVFile     string `json:"csv_file,omitempty"`
	CSVColumn   string `json:"csv_column,omitempty"`
	Interpolate bool   `json:"interpolate,omitempty"`

	// live-feed
	Device string `json:"device,omitempty"`
	Field  string `json:"field,omitempty"`
}

// DeviceData holds configuration for measurement devices that feed live
// radiation values into parameters.
type DeviceData struct {
	Name         string `json:"name"`
	Type         string `json:"type,omitempty"`
	Enabled      bool   `json:"enabled,omitempty"`
	SerialDevice string `json:"serial_device,omitempty"`
	Baud         int    `json:"baud,omitempty"`
	Hostname     string `json:"hostname,omitempty"`
	Port         string `json:"port,omitempty"`
}

// StorageData holds the configuration for various storage backends
type StorageData struct {
	TimescaleDB *TimescaleDBData `json:"timescaledb,omitempty"`
	CSVFile     *CSVFileData     `json:"csvfile,omitempty"`
}

type TimescaleDBData struct {
	ConnectionString string `json:"connection_string"`
}

type CSVFileData struct {
	Path string `json:"path"`
}

// ControllerData holds the configuration for controller backends
type ControllerData struct {
	Type       string          `json:"type,omitempty"`
	RESTServer *RESTServerData `json:"rest,omitempty"`
}

type RESTServerData struct {
	ListenAddr string `json:"listen_addr,omitempty"`
	Port       int    `json:"port,omitempty"`
}
