package config

import (
	"fmt"
	"os"
	"time"

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

	// Load into temporary struct with YAML tags
	var yamlConfig struct {
		Simulation  SimulationYAML   `yaml:"simulation"`
		Parameters  []ParameterYAML  `yaml:"parameters"`
		Devices     []DeviceYAML     `yaml:"devices,omitempty"`
		Storage     StorageYAML      `yaml:"storage,omitempty"`
		Controllers []ControllerYAML `yaml:"controllers,omitempty"`
	}

	err = yaml.Unmarshal(cfgFile, &yamlConfig)
	if err != nil {
		return nil, err
	}

	sim, err := yamlConfig.Simulation.toData()
	if err != nil {
		return nil, fmt.Errorf("simulation section: %w", err)
	}

	config := &ConfigData{
		Simulation: *sim,
		Parameters: make([]ParameterData, len(yamlConfig.Parameters)),
		Devices:    make([]DeviceData, len(yamlConfig.Devices)),
	}

	for i, p := range yamlConfig.Parameters {
		config.Parameters[i] = ParameterData{
			Name:                      p.Name,
			Type:                      p.Type,
			Output:                    p.Output,
			Azimuth:                   p.Azimuth,
			Tilt:                      p.Tilt,
			Area:                      p.Area,
			DirectRadiationParameter:  p.DirectRadiationParameter,
			DiffuseRadiationParameter: p.DiffuseRadiationParameter,
			Values:                    p.Values,
			Value:                     p.Value,
			CSVFile:                   p.CSVFile,
			CSVColumn:                 p.CSVColumn,
			Interpolate:               p.Interpolate,
			Device:                    p.Device,
			Field:                     p.Field,
		}
		if p.Position != nil {
			config.Parameters[i].Position = &PositionData{
				Latitude:  p.Position.Latitude,
				Longitude: p.Position.Longitude,
				Elevation: p.Position.Elevation,
			}
		}
	}

	for i, d := range yamlConfig.Devices {
		config.Devices[i] = DeviceData{
			Name:         d.Name,
			Type:         d.Type,
			Enabled:      d.Enabled,
			SerialDevice: d.SerialDevice,
			Baud:         d.Baud,
			Hostname:     d.Hostname,
			Port:         d.Port,
		}
	}

	config.Storage = StorageData{}
	if yamlConfig.Storage.TimescaleDB != nil {
		config.Storage.TimescaleDB = &TimescaleDBData{
			ConnectionString: yamlConfig.Storage.TimescaleDB.ConnectionString,
		}
	}
	if yamlConfig.Storage.CSVFile != nil {
		config.Storage.CSVFile = &CSVFileData{
			Path: yamlConfig.Storage.CSVFile.Path,
		}
	}

	for _, c := range yamlConfig.Controllers {
		controller := ControllerData{Type: c.Type}
		if c.RESTServer != nil {
			controller.RESTServer = &RESTServerData{
				ListenAddr: c.RESTServer.ListenAddr,
				Port:       c.RESTServer.Port,
			}
		}
		config.Controllers = append(config.Controllers, controller)
	}

	y.config = config
	return config, nil
}

// GetSimulation returns the simulation window configuration
func (y *YAMLProvider) GetSimulation() (*SimulationData, error) {
	if err := y.ensureLoaded(); err != nil {
		return nil, err
	}
	return &y.config.Simulation, nil
}

// GetParameters returns parameter definitions
func (y *YAMLProvider) GetParameters() ([]ParameterData, error) {
	if err := y.ensureLoaded(); err != nil {
		return nil, err
	}
	return y.config.Parameters, nil
}

// GetDevices returns device configurations
func (y *YAMLProvider) GetDevices() ([]DeviceData, error) {
	if err := y.ensureLoaded(); err != nil {
		return nil, err
	}
	return y.config.Devices, nil
}

// GetStorageConfig returns storage configuration
func (y *YAMLProvider) GetStorageConfig() (*StorageData, error) {
	if err := y.ensureLoaded(); err != nil {
		return nil, err
	}
	return &y.config.Storage, nil
}

// GetControllers returns controller configurations
func (y *YAMLProvider) GetControllers() ([]ControllerData, error) {
	if err := y.ensureLoaded(); err != nil {
		return nil, err
	}
	return y.config.Controllers, nil
}

// IsReadOnly returns true since YAML files are read-only through this interface
func (y *YAMLProvider) IsReadOnly() bool {
	return true
}

// Close is a no-op for YAML provider
func (y *YAMLProvider) Close() error {
	return nil
}

func (y *YAMLProvider) ensureLoaded() error {
	if y.config == nil {
		_, err := y.LoadConfig()
		return err
	}
	return nil
}

// YAML-specific structs with proper YAML tags for parsing the file format

type SimulationYAML struct {
	Start     string `yaml:"start"`
	End       string `yaml:"end"`
	Interval  string `yaml:"interval"`
	Scenarios int    `yaml:"scenarios,omitempty"`
	VSOP87Dir string `yaml:"vsop87-dir,omitempty"`
}

func (s SimulationYAML) toData() (*SimulationData, error) {
	start, err := time.Parse(time.RFC3339, s.Start)
	if err != nil {
		return nil, fmt.Errorf("parsing start time %q: %w", s.Start, err)
	}
	end, err := time.Parse(time.RFC3339, s.End)
	if err != nil {
		return nil, fmt.Errorf("parsing end time %q: %w", s.End, err)
	}
	interval, err := time.ParseDuration(s.Interval)
	if err != nil {
		return nil, fmt.Errorf("parsing interval %q: %w", s.Interval, err)
	}
	scenarios := s.Scenarios
	if scenarios == 0 {
		scenarios = 1
	}
	return &SimulationData{
		Start:     start,
		End:       end,
		Interval:  interval,
		Scenarios: scenarios,
		VSOP87Dir: s.VSOP87Dir,
	}, nil
}

type ParameterYAML struct {
	Name                      string        `yaml:"name"`
	Type                      string        `yaml:"type"`
	Output                    bool          `yaml:"output,omitempty"`
	Position                  *PositionYAML `yaml:"position,omitempty"`
	Azimuth                   *float64      `yaml:"azimuth,omitempty"`
	Tilt                      *float64      `yaml:"tilt,omitempty"`
	Area                      *float64      `yaml:"area,omitempty"`
	DirectRadiationParameter  string        `yaml:"direct-radiation-parameter,omitempty"`
	DiffuseRadiationParameter string        `yaml:"diffuse-radiation-parameter,omitempty"`
	Values                    []float64     `yaml:"values,omitempty"`
	Value                     float64       `yaml:"value,omitempty"`
	CSVFile                   string        `yaml:"csv-file,omitempty"`
	CSVColumn                 string        `yaml:"csv-column,omitempty"`
	Interpolate               bool          `yaml:"interpolate,omitempty"`
	Device                    string        `yaml:"device,omitempty"`
	Field                     string        `yaml:"field,omitempty"`
}

type PositionYAML struct {
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
	Elevation float64 `yaml:"elevation,omitempty"`
}

type DeviceYAML struct {
	Name         string `yaml:"name"`
	Type         string `yaml:"type,omitempty"`
	Enabled      bool   `yaml:"enabled,omitempty"`
	SerialDevice string `yaml:"serial-device,omitempty"`
	Baud         int    `yaml:"baud,omitempty"`
	Hostname     string `yaml:"hostname,omitempty"`
	Port         string `yaml:"port,omitempty"`
}

type StorageYAML struct {
	TimescaleDB *TimescaleDBYAML `yaml:"timescaledb,omitempty"`
	CSVFile     *CSVFileYAML     `yaml:"csvfile,omitempty"`
}

type TimescaleDBYAML struct {
	ConnectionString string `yaml:"connection-string"`
}

type CSVFileYAML struct {
	Path string `yaml:"path"`
}

type ControllerYAML struct {
	Type       string          `yaml:"type,omitempty"`
	RESTServer *RESTServerYAML `yaml:"rest,omitempty"`
}

type RESTServerYAML struct {
	ListenAddr string `yaml:"listen-addr,omitempty"`
	Port       int    `yaml:"port,omitempty"`
}
