package ephemeris

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/soniakeys/meeus/v3/coord"
	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/parallax"
	pp "github.com/soniakeys/meeus/v3/planetposition"
	"github.com/soniakeys/meeus/v3/refraction"
	"github.com/soniakeys/meeus/v3/sidereal"
	"github.com/soniakeys/meeus/v3/solar"
	"github.com/soniakeys/unit"
)

// VSOP87 opens sessions backed by the VSOP87 planetary theory. Opening the
// first session parses the Earth dataset file (VSOP87B.ear), which is the
// expensive, failure-prone step; the parsed dataset is shared by every
// session the opener hands out, and position queries are pure computation.
type VSOP87 struct {
	// Dir is the directory holding the VSOP87 data files. When empty, the
	// meeus loader falls back to the VSOP87 environment variable.
	Dir string

	once  sync.Once
	earth *pp.V87Planet
	err   error
}

// NewVSOP87 returns an Opener that reads VSOP87 data files from dir.
func NewVSOP87(dir string) *VSOP87 {
	return &VSOP87{Dir: dir}
}

// Open loads the Earth VSOP87 dataset (once) and binds it to the observer.
func (v *VSOP87) Open(obs Observer) (Session, error) {
	v.once.Do(func() {
		if v.Dir == "" {
			v.earth, v.err = pp.LoadPlanet(pp.Earth)
		} else {
			v.earth, v.err = pp.LoadPlanetPath(pp.Earth, v.Dir)
		}
	})
	if v.err != nil {
		return nil, fmt.Errorf("loading VSOP87 earth dataset: %w", v.err)
	}
	return &vsop87Session{
		earth: v.earth,
		lat:   unit.AngleFromDeg(obs.Latitude),
		// meeus takes geographic longitude positive westward.
		lonWest: unit.AngleFromDeg(-obs.Longitude),
	}, nil
}

type vsop87Session struct {
	earth   *pp.V87Planet
	lat     unit.Angle
	lonWest unit.Angle
}

// SunPosition computes the apparent topocentric altitude and azimuth of the
// sun at t. The geocentric apparent place comes from the VSOP87 solar theory;
// the horizontal conversion uses apparent sidereal time, then the altitude is
// corrected for horizontal parallax and atmospheric refraction. Observer
// elevation is below the accuracy of these corrections and is not applied.
func (s *vsop87Session) SunPosition(t time.Time) TopocentricPosition {
	jd := julian.TimeToJD(t.UTC())

	α, δ, r := solar.ApparentEquatorialVSOP87(s.earth, jd)
	st := sidereal.Apparent(jd)

	// A is measured westward from south; convert to eastward from north.
	a, h := coord.EqToHz(α, δ, s.lat, s.lonWest, st)
	az := unit.PMod(a.Rad()+math.Pi, 2*math.Pi)

	// Parallax lowers the sun; refraction raises it. The refraction formula
	// is only meaningful near and above the horizon.
	h -= parallax.Horizontal(r).Mul(h.Cos())
	if h.Deg() > -1 {
		h += refraction.Saemundsson(h)
	}

	return TopocentricPosition{
		Altitude: h.Rad(),
		Azimuth:  az,
		Distance: r,
	}
}

// Close releases the session. The VSOP87 dataset is plain in-memory state, so
// this is a no-op, but callers treat sessions as scoped acquisitions.
func (s *vsop87Session) Close() error { return nil }
