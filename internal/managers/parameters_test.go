package managers

import (
	"strings"
	"testing"
	"time"

	"github.com/powersim/solarparam/pkg/config"
	"github.com/powersim/solarparam/pkg/ephemeris"
	"go.uber.org/zap"
)

type stubSession struct{}

func (stubSession) SunPosition(t time.Time) ephemeris.TopocentricPosition {
	return ephemeris.TopocentricPosition{Altitude: 1, Azimuth: 3, Distance: 1}
}

func (stubSession) Close() error { return nil }

type stubOpener struct{}

func (stubOpener) Open(obs ephemeris.Observer) (ephemeris.Session, error) {
	return stubSession{}, nil
}

func floatPtr(v float64) *float64 { return &v }

func solarDef(name, directRef string) config.ParameterData {
	return config.ParameterData{
		Name:                     name,
		Type:                     "solar-generation",
		Output:                   true,
		Position:                 &config.PositionData{Latitude: 35, Longitude: -106},
		Azimuth:                  floatPtr(3.14),
		Tilt:                     floatPtr(0.5),
		Area:                     floatPtr(10),
		DirectRadiationParameter: directRef,
	}
}

func TestNewParameterManager(t *testing.T) {
	logger := zap.NewNop().Sugar()

	t.Run("resolves references across definition order", func(t *testing.T) {
		// The solar parameter comes first and references a parameter
		// defined after it.
		defs := []config.ParameterData{
			solarDef("array", "dni"),
			{Name: "dni", Type: "constant", Value: 700},
		}
		pm, err := NewParameterManager(defs, stubOpener{}, logger)
		if err != nil {
			t.Fatalf("NewParameterManager() returned error: %v", err)
		}

		if _, ok := pm.Get("dni"); !ok {
			t.Error("referenced parameter was not built")
		}
		outputs := pm.Outputs()
		if len(outputs) != 1 || outputs[0].Name() != "array" {
			t.Errorf("Outputs() = %v", outputs)
		}
	})

	t.Run("undefined reference fails", func(t *testing.T) {
		defs := []config.ParameterData{solarDef("array", "missing")}
		_, err := NewParameterManager(defs, stubOpener{}, logger)
		if err == nil || !strings.Contains(err.Error(), "missing") {
			t.Errorf("error = %v, want mention of missing reference", err)
		}
	})

	t.Run("duplicate names fail", func(t *testing.T) {
		defs := []config.ParameterData{
			{Name: "dni", Type: "constant", Value: 1},
			{Name: "dni", Type: "constant", Value: 2},
		}
		if _, err := NewParameterManager(defs, stubOpener{}, logger); err == nil {
			t.Error("NewParameterManager() succeeded with duplicate names")
		}
	})

	t.Run("reference cycle fails", func(t *testing.T) {
		defs := []config.ParameterData{solarDef("array", "array")}
		_, err := NewParameterManager(defs, stubOpener{}, logger)
		if err == nil || !strings.Contains(err.Error(), "cycle") {
			t.Errorf("error = %v, want cycle detection", err)
		}
	})
}

func TestParameterManagerSetupAndFeeds(t *testing.T) {
	logger := zap.NewNop().Sugar()
	defs := []config.ParameterData{
		{Name: "dni-live", Type: "live-feed", Device: "roof-gauge", Field: "dni"},
		solarDef("array", "dni-live"),
	}
	pm, err := NewParameterManager(defs, stubOpener{}, logger)
	if err != nil {
		t.Fatalf("NewParameterManager() returned error: %v", err)
	}

	if err := pm.SetupAll(); err != nil {
		t.Fatalf("SetupAll() returned error: %v", err)
	}
	defer pm.CloseAll()

	feeds := pm.LiveFeeds()
	if len(feeds) != 1 || feeds[0].Device() != "roof-gauge" {
		t.Fatalf("LiveFeeds() = %v", feeds)
	}

	// After setup the solar parameter is queryable; the live feed has no
	// reading yet so only diffuse would contribute, which is absent too.
	array, _ := pm.Get("array")
	v, err := array.Value(time.Date(2025, 6, 21, 18, 0, 0, 0, time.UTC), 0)
	if err != nil {
		t.Fatalf("Value() returned error: %v", err)
	}
	if v != 0 {
		t.Errorf("Value() with empty feed = %v, want 0", v)
	}

	feeds[0].Set(650)
	v, err = array.Value(time.Date(2025, 6, 21, 18, 0, 0, 0, time.UTC), 0)
	if err != nil {
		t.Fatalf("Value() returned error: %v", err)
	}
	if v <= 0 {
		t.Errorf("Value() after feed update = %v, want positive", v)
	}
}
