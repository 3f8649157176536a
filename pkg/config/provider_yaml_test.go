package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const sampleYAML = `
simulation:
  start: "2025-06-21T00:00:00Z"
  end: "2025-06-22T00:00:00Z"
  interval: "15m"
  vsop87-dir: "/data/vsop87"

parameters:
  - name: direct-irradiance
    type: constant
    value: 800.0
  - name: rooftop-array
    type: solar-generation
    output: true
    position:
      latitude: 35.08
      longitude: -106.65
      elevation: 1600
    azimuth: 3.14159
    tilt: 0.52
    area: 24.0
    direct-radiation-parameter: direct-irradiance

devices:
  - name: roof-gauge
    type: serial-gauge
    enabled: true
    serial-device: /dev/ttyUSB0
    baud: 9600

storage:
  csvfile:
    path: "samples.csv"

controllers:
  - type: rest
    rest:
      port: 9090
`

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestYAMLProviderLoadConfig(t *testing.T) {
	provider := NewYAMLProvider(writeConfig(t, sampleYAML))
	cfg, err := provider.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() returned error: %v", err)
	}

	t.Run("simulation", func(t *testing.T) {
		want := time.Date(2025, 6, 21, 0, 0, 0, 0, time.UTC)
		if !cfg.Simulation.Start.Equal(want) {
			t.Errorf("Start = %v, want %v", cfg.Simulation.Start, want)
		}
		if cfg.Simulation.Interval != 15*time.Minute {
			t.Errorf("Interval = %v, want 15m", cfg.Simulation.Interval)
		}
		if cfg.Simulation.Scenarios != 1 {
			t.Errorf("Scenarios = %d, want default 1", cfg.Simulation.Scenarios)
		}
		if cfg.Simulation.VSOP87Dir != "/data/vsop87" {
			t.Errorf("VSOP87Dir = %q", cfg.Simulation.VSOP87Dir)
		}
	})

	t.Run("parameters", func(t *testing.T) {
		if len(cfg.Parameters) != 2 {
			t.Fatalf("got %d parameters, want 2", len(cfg.Parameters))
		}
		solar := cfg.Parameters[1]
		if solar.Type != "solar-generation" || !solar.Output {
			t.Errorf("unexpected solar parameter: %+v", solar)
		}
		if solar.Position == nil || solar.Position.Latitude != 35.08 {
			t.Errorf("Position = %+v", solar.Position)
		}
		if solar.Azimuth == nil || *solar.Azimuth != 3.14159 {
			t.Errorf("Azimuth = %v", solar.Azimuth)
		}
		if solar.DirectRadiationParameter != "direct-irradiance" {
			t.Errorf("DirectRadiationParameter = %q", solar.DirectRadiationParameter)
		}
		if solar.DiffuseRadiationParameter != "" {
			t.Errorf("DiffuseRadiationParameter = %q, want empty", solar.DiffuseRadiationParameter)
		}
	})

	t.Run("devices and storage", func(t *testing.T) {
		if len(cfg.Devices) != 1 || cfg.Devices[0].SerialDevice != "/dev/ttyUSB0" {
			t.Errorf("Devices = %+v", cfg.Devices)
		}
		if cfg.Storage.CSVFile == nil || cfg.Storage.CSVFile.Path != "samples.csv" {
			t.Errorf("Storage.CSVFile = %+v", cfg.Storage.CSVFile)
		}
		if cfg.Storage.TimescaleDB != nil {
			t.Errorf("Storage.TimescaleDB = %+v, want nil", cfg.Storage.TimescaleDB)
		}
	})

	t.Run("controllers", func(t *testing.T) {
		if len(cfg.Controllers) != 1 {
			t.Fatalf("got %d controllers, want 1", len(cfg.Controllers))
		}
		c := cfg.Controllers[0]
		if c.Type != "rest" || c.RESTServer == nil || c.RESTServer.Port != 9090 {
			t.Errorf("controller = %+v", c)
		}
	})
}

func TestYAMLProviderBadSimulation(t *testing.T) {
	tests := []struct {
		name     string
		contents string
	}{
		{"bad start", "simulation:\n  start: \"yesterday\"\n  end: \"2025-06-22T00:00:00Z\"\n  interval: \"15m\"\n"},
		{"bad interval", "simulation:\n  start: \"2025-06-21T00:00:00Z\"\n  end: \"2025-06-22T00:00:00Z\"\n  interval: \"fortnight\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := NewYAMLProvider(writeConfig(t, tt.contents))
			if _, err := provider.LoadConfig(); err == nil {
				t.Error("LoadConfig() succeeded, want error")
			}
		})
	}
}

func TestYAMLProviderAccessors(t *testing.T) {
	provider := NewYAMLProvider(writeConfig(t, sampleYAML))

	params, err := provider.GetParameters()
	if err != nil {
		t.Fatalf("GetParameters() returned error: %v", err)
	}
	if len(params) != 2 {
		t.Errorf("GetParameters() returned %d entries, want 2", len(params))
	}

	if !provider.IsReadOnly() {
		t.Error("IsReadOnly() = false, want true")
	}
	if err := provider.Close(); err != nil {
		t.Errorf("Close() returned error: %v", err)
	}
}
