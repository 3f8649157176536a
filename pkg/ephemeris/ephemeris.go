// Package ephemeris provides apparent sun positions for an Earth-based
// observer. The estimator consumes the narrow SunLocator capability; the
// VSOP87 implementation in this package is the production provider.
package ephemeris

import "time"

// Observer identifies a fixed topocentric position on Earth.
type Observer struct {
	// Latitude in degrees, north positive.
	Latitude float64
	// Longitude in degrees, east positive.
	Longitude float64
	// Elevation above mean sea level in meters.
	Elevation float64
}

// TopocentricPosition is the apparent position of the sun as seen from an
// observer: corrected for parallax and atmospheric refraction.
type TopocentricPosition struct {
	// Altitude above the horizon, radians. Negative when the sun is set.
	Altitude float64
	// Azimuth measured eastward from north, radians, in [0, 2π).
	Azimuth float64
	// Distance from the observer in astronomical units.
	Distance float64
}

// SunLocator answers apparent sun position queries for one bound observer.
type SunLocator interface {
	// SunPosition returns the apparent topocentric position of the sun at t.
	// t is interpreted as UTC wall-clock time.
	SunPosition(t time.Time) TopocentricPosition
}

// Session is a SunLocator bound to one observer for its whole lifetime,
// holding whatever ephemeris resources the implementation loaded. Close
// releases those resources; the session must not be used afterwards.
type Session interface {
	SunLocator
	Close() error
}

// Opener acquires ephemeris sessions. Opening is expensive (it typically
// loads a planetary dataset from disk), so callers open once per estimator
// and hold the session for the estimator's lifetime.
type Opener interface {
	Open(obs Observer) (Session, error)
}
