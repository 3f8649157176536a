package config

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteProvider implements ConfigProvider for SQLite database configuration
type SQLiteProvider struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteProvider creates a new SQLite configuration provider
func NewSQLiteProvider(dbPath string) (*SQLiteProvider, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	return &SQLiteProvider{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// LoadConfig loads the complete configuration from SQLite database
func (s *SQLiteProvider) LoadConfig() (*ConfigData, error) {
	config := &ConfigData{}

	sim, err := s.GetSimulation()
	if err != nil {
		return nil, fmt.Errorf("failed to load simulation config: %w", err)
	}
	config.Simulation = *sim

	parameters, err := s.GetParameters()
	if err != nil {
		return nil, fmt.Errorf("failed to load parameters: %w", err)
	}
	config.Parameters = parameters

	devices, err := s.GetDevices()
	if err != nil {
		return nil, fmt.Errorf("failed to load devices: %w", err)
	}
	config.Devices = devices

	storage, err := s.GetStorageConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load storage config: %w", err)
	}
	config.Storage = *storage

	controllers, err := s.GetControllers()
	if err != nil {
		return nil, fmt.Errorf("failed to load controllers: %w", err)
	}
	config.Controllers = controllers

	return config, nil
}

// GetSimulation returns the simulation window from the database
func (s *SQLiteProvider) GetSimulation() (*SimulationData, error) {
	query := `
		SELECT start_time, end_time, interval_seconds, scenarios, vsop87_dir
		FROM simulation
		WHERE config_id = (SELECT id FROM configs WHERE name = 'default')
	`

	var startStr, endStr string
	var intervalSeconds int64
	var scenarios sql.NullInt64
	var vsop87Dir sql.NullString

	err := s.db.QueryRow(query).Scan(&startStr, &endStr, &intervalSeconds, &scenarios, &vsop87Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to query simulation config: %w", err)
	}

	start, err := time.Parse(time.RFC3339, startStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse simulation start time: %w", err)
	}
	end, err := time.Parse(time.RFC3339, endStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse simulation end time: %w", err)
	}

	sim := &SimulationData{
		Start:     start,
		End:       end,
		Interval:  time.Duration(intervalSeconds) * time.Second,
		Scenarios: 1,
	}
	if scenarios.Valid && scenarios.Int64 > 0 {
		sim.Scenarios = int(scenarios.Int64)
	}
	if vsop87Dir.Valid {
		sim.VSOP87Dir = vsop87Dir.String
	}

	return sim, nil
}

// GetParameters returns parameter definitions from the database
func (s *SQLiteProvider) GetParameters() ([]ParameterData, error) {
	query := `
		SELECT name, type, output,
		       position_latitude, position_longitude, position_elevation,
		       azimuth, tilt, area,
		       direct_radiation_parameter, diffuse_radiation_parameter,
		       values_json, value,
		       csv_file, csv_column, interpolate,
		       device, field
		FROM parameters
		WHERE config_id = (SELECT id FROM configs WHERE name = 'default')
		ORDER BY name
	`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query parameters: %w", err)
	}
	defer rows.Close()

	var parameters []ParameterData
	for rows.Next() {
		var p ParameterData
		var output, interpolate sql.NullInt64
		var lat, lon, elev, azimuth, tilt, area, value sql.NullFloat64
		var directRef, diffuseRef, valuesJSON, csvFile, csvColumn, device, field sql.NullString

		err := rows.Scan(
			&p.Name, &p.Type, &output,
			&lat, &lon, &elev,
			&azimuth, &tilt, &area,
			&directRef, &diffuseRef,
			&valuesJSON, &value,
			&csvFile, &csvColumn, &interpolate,
			&device, &field,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan parameter row: %w", err)
		}

		p.Output = output.Valid && output.Int64 != 0
		p.Interpolate = interpolate.Valid && interpolate.Int64 != 0

		if lat.Valid && lon.Valid {
			p.Position = &PositionData{
				Latitude:  lat.Float64,
				Longitude: lon.Float64,
			}
			if elev.Valid {
				p.Position.Elevation = elev.Float64
			}
		}
		if azimuth.Valid {
			p.Azimuth = &azimuth.Float64
		}
		if tilt.Valid {
			p.Tilt = &tilt.Float64
		}
		if area.Valid {
			p.Area = &area.Float64
		}
		if directRef.Valid {
			p.DirectRadiationParameter = directRef.String
		}
		if diffuseRef.Valid {
			p.DiffuseRadiationParameter = diffuseRef.String
		}
		if valuesJSON.Valid && valuesJSON.String != "" {
			if err := json.Unmarshal([]byte(valuesJSON.String), &p.Values); err != nil {
				return nil, fmt.Errorf("failed to parse values for parameter %s: %w", p.Name, err)
			}
		}
		if value.Valid {
			p.Value = value.Float64
		}
		if csvFile.Valid {
			p.CSVFile = csvFile.String
		}
		if csvColumn.Valid {
			p.CSVColumn = csvColumn.String
		}
		if device.Valid {
			p.Device = device.String
		}
		if field.Valid {
			p.Field = field.String
		}

		parameters = append(parameters, p)
	}

	return parameters, rows.Err()
}

// GetDevices returns device configurations from the database
func (s *SQLiteProvider) GetDevices() ([]DeviceData, error) {
	query := `
		SELECT name, type, enabled, serial_device, baud, hostname, port
		FROM devices
		WHERE config_id = (SELECT id FROM configs WHERE name = 'default')
		ORDER BY name
	`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query devices: %w", err)
	}
	defer rows.Close()

	var devices []DeviceData
	for rows.Next() {
		var device DeviceData
		var enabled sql.NullInt64
		var serialDevice, hostname, port sql.NullString
		var baud sql.NullInt64

		err := rows.Scan(&device.Name, &device.Type, &enabled, &serialDevice, &baud, &hostname, &port)
		if err != nil {
			return nil, fmt.Errorf("failed to scan device row: %w", err)
		}

		device.Enabled = enabled.Valid && enabled.Int64 != 0
		if serialDevice.Valid {
			device.SerialDevice = serialDevice.String
		}
		if baud.Valid {
			device.Baud = int(baud.Int64)
		}
		if hostname.Valid {
			device.Hostname = hostname.String
		}
		if port.Valid {
			device.Port = port.String
		}

		devices = append(devices, device)
	}

	return devices, rows.Err()
}

// GetStorageConfig returns storage configuration from the database
func (s *SQLiteProvider) GetStorageConfig() (*StorageData, error) {
	query := `
		SELECT backend_type, timescale_connection_string, csv_path
		FROM storage_configs
		WHERE config_id = (SELECT id FROM configs WHERE name = 'default') AND enabled = 1
	`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query storage configs: %w", err)
	}
	defer rows.Close()

	storage := &StorageData{}

	for rows.Next() {
		var backendType string
		var connString, csvPath sql.NullString

		if err := rows.Scan(&backendType, &connString, &csvPath); err != nil {
			return nil, fmt.Errorf("failed to scan storage config row: %w", err)
		}

		switch backendType {
		case "timescaledb":
			if connString.Valid {
				storage.TimescaleDB = &TimescaleDBData{ConnectionString: connString.String}
			}
		case "csvfile":
			if csvPath.Valid {
				storage.CSVFile = &CSVFileData{Path: csvPath.String}
			}
		}
	}

	return storage, rows.Err()
}

// GetControllers returns controller configurations from the database
func (s *SQLiteProvider) GetControllers() ([]ControllerData, error) {
	query := `
		SELECT controller_type, rest_listen_addr, rest_port
		FROM controllers
		WHERE config_id = (SELECT id FROM configs WHERE name = 'default') AND enabled = 1
	`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query controllers: %w", err)
	}
	defer rows.Close()

	var controllers []ControllerData
	for rows.Next() {
		var controllerType string
		var listenAddr sql.NullString
		var port sql.NullInt64

		if err := rows.Scan(&controllerType, &listenAddr, &port); err != nil {
			return nil, fmt.Errorf("failed to scan controller row: %w", err)
		}

		controller := ControllerData{Type: controllerType}
		if controllerType == "rest" {
			controller.RESTServer = &RESTServerData{}
			if listenAddr.Valid {
				controller.RESTServer.ListenAddr = listenAddr.String
			}
			if port.Valid {
				controller.RESTServer.Port = int(port.Int64)
			}
		}

		controllers = append(controllers, controller)
	}

	return controllers, rows.Err()
}

// IsReadOnly returns false; the SQLite provider supports updates
func (s *SQLiteProvider) IsReadOnly() bool {
	return false
}

// Close closes the database connection
func (s *SQLiteProvider) Close() error {
	return s.db.Close()
}
