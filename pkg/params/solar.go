package params

import (
	"errors"
	"math"
	"time"

	"github.com/powersim/solarparam/pkg/config"
	"github.com/powersim/solarparam/pkg/ephemeris"
)

func init() {
	Register("solar-generation", newSolarGeneration)
}

// SolarGeneration computes the power output of a fixed-orientation solar PV
// collector. Each query asks the bound ephemeris session for the apparent sun
// position, derives the geometric incidence factor for the collector plane
// and the isotropic-sky diffuse view factor, and combines them with the
// direct and diffuse radiation inputs scaled by collector area.
//
// The collector geometry is immutable after construction. The only state
// change over the parameter's lifetime is the one-time session binding in
// Setup; a single instance is not safe for concurrent Value calls, so
// scenarios run in parallel need independently constructed instances.
type SolarGeneration struct {
	name     string
	position ephemeris.Observer
	// azimuth is the collector facing direction, radians from north.
	azimuth float64
	// tilt is the collector inclination from horizontal, radians, in [0, π].
	tilt float64
	area float64

	// direct provides beam radiation per unit area normal to the sun;
	// diffuse provides sky-diffuse radiation per unit area on a horizontal
	// surface. Either may be nil, which is a constant zero contribution.
	direct  Parameter
	diffuse Parameter

	opener  ephemeris.Opener
	session ephemeris.Session
}

func newSolarGeneration(data config.ParameterData, deps Dependencies) (Parameter, error) {
	if data.Position == nil {
		return nil, &ConfigError{Parameter: data.Name, Field: "position", Reason: "required field missing"}
	}
	if data.Azimuth == nil {
		return nil, &ConfigError{Parameter: data.Name, Field: "azimuth", Reason: "required field missing"}
	}
	if data.Tilt == nil {
		return nil, &ConfigError{Parameter: data.Name, Field: "tilt", Reason: "required field missing"}
	}
	if data.Area == nil {
		return nil, &ConfigError{Parameter: data.Name, Field: "area", Reason: "required field missing"}
	}
	if *data.Tilt < 0 || *data.Tilt > math.Pi {
		return nil, &ConfigError{Parameter: data.Name, Field: "tilt", Reason: "must be within [0, π] radians"}
	}
	if *data.Area <= 0 {
		return nil, &ConfigError{Parameter: data.Name, Field: "area", Reason: "must be positive"}
	}
	if deps.Ephemeris == nil {
		return nil, &ConfigError{Parameter: data.Name, Field: "type", Reason: "no ephemeris provider available"}
	}

	p := &SolarGeneration{
		name: data.Name,
		position: ephemeris.Observer{
			Latitude:  data.Position.Latitude,
			Longitude: data.Position.Longitude,
			Elevation: data.Position.Elevation,
		},
		azimuth: *data.Azimuth,
		tilt:    *data.Tilt,
		area:    *data.Area,
		opener:  deps.Ephemeris,
	}

	// Radiation source references are resolved to live parameters at load
	// time; absence is not an error.
	var err error
	if data.DirectRadiationParameter != "" {
		p.direct, err = deps.Resolve(data.DirectRadiationParameter)
		if err != nil {
			return nil, err
		}
	}
	if data.DiffuseRadiationParameter != "" {
		p.diffuse, err = deps.Resolve(data.DiffuseRadiationParameter)
		if err != nil {
			return nil, err
		}
	}

	return p, nil
}

// NewSolarGeneration constructs a solar generation parameter directly, for
// callers that assemble their own geometry rather than loading declarative
// configuration. direct and diffuse may be nil.
func NewSolarGeneration(name string, opener ephemeris.Opener, position ephemeris.Observer, azimuth, tilt, area float64, direct, diffuse Parameter) *SolarGeneration {
	return &SolarGeneration{
		name:     name,
		position: position,
		azimuth:  azimuth,
		tilt:     tilt,
		area:     area,
		direct:   direct,
		diffuse:  diffuse,
		opener:   opener,
	}
}

func (p *SolarGeneration) Name() string { return p.name }

// Setup acquires the ephemeris session: it loads the planetary dataset and
// binds it to the collector's geographic position. This is the expensive half
// of the two-phase lifecycle and the session is held until Close.
func (p *SolarGeneration) Setup() error {
	if p.session != nil {
		return nil
	}
	session, err := p.opener.Open(p.position)
	if err != nil {
		return &ResourceError{Parameter: p.name, Resource: "ephemeris dataset", Err: err}
	}
	p.session = session
	return nil
}

// Close releases the ephemeris session.
func (p *SolarGeneration) Close() error {
	if p.session == nil {
		return nil
	}
	err := p.session.Close()
	p.session = nil
	return err
}

// Value returns the collector power output at t. When the sun is below the
// horizon the output is exactly zero, including the diffuse sky term.
func (p *SolarGeneration) Value(t time.Time, scenario int) (float64, error) {
	if p.session == nil {
		return 0, &ResourceError{Parameter: p.name, Resource: "ephemeris session", Err: errors.New("setup has not run")}
	}

	pos := p.session.SunPosition(t)
	if pos.Altitude < 0 {
		return 0, nil
	}

	// Cosine of the angle between the sun ray and the collector normal.
	// Negative means the sun is behind the collector plane and contributes
	// no direct gain.
	incidence := math.Cos(pos.Altitude)*math.Cos(pos.Azimuth-p.azimuth)*math.Sin(p.tilt) +
		math.Sin(pos.Altitude)*math.Cos(p.tilt)
	incidence = math.Max(incidence, 0)

	// Isotropic sky view factor for a tilted plane.
	diffuseFactor := math.Max((1+math.Cos(p.tilt))/2, 0)

	direct, err := p.sourceValue(p.direct, t, scenario)
	if err != nil {
		return 0, err
	}
	diffuse, err := p.sourceValue(p.diffuse, t, scenario)
	if err != nil {
		return 0, err
	}

	collector := direct*incidence + diffuseFactor*diffuse
	return collector * p.area, nil
}

// sourceValue queries an optional radiation source, clamping the result to
// non-negative. NaN and infinities from upstream are passed through
// unsanitized; bounding malformed inputs is the upstream provider's job.
func (p *SolarGeneration) sourceValue(src Parameter, t time.Time, scenario int) (float64, error) {
	if src == nil {
		return 0, nil
	}
	v, err := src.Value(t, scenario)
	if err != nil {
		return 0, err
	}
	return math.Max(v, 0), nil
}
