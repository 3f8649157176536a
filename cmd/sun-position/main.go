package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/powersim/solarparam/pkg/ephemeris"
)

func main() {
	var timeStr, vsop87Dir string
	var lat, lon, elev float64
	var azimuth, tilt float64
	flag.StringVar(&timeStr, "time", "", "UTC time to calculate position for (RFC3339 format, e.g., 2024-01-15T12:00:00Z)")
	flag.Float64Var(&lat, "lat", 0, "Observer latitude in degrees, north positive")
	flag.Float64Var(&lon, "lon", 0, "Observer longitude in degrees, east positive")
	flag.Float64Var(&elev, "elev", 0, "Observer elevation in meters")
	flag.Float64Var(&azimuth, "azimuth", 0, "Collector azimuth in radians from north, for the incidence factor")
	flag.Float64Var(&tilt, "tilt", -1, "Collector tilt in radians from horizontal; set to also print the incidence factor")
	flag.StringVar(&vsop87Dir, "vsop87", "", "Directory holding the VSOP87 data files (defaults to $VSOP87)")
	flag.Parse()

	var t time.Time
	if timeStr == "" {
		t = time.Now().UTC()
	} else {
		var err error
		t, err = time.Parse(time.RFC3339, timeStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing time: %v\n", err)
			os.Exit(1)
		}
	}

	opener := ephemeris.NewVSOP87(vsop87Dir)
	session, err := opener.Open(ephemeris.Observer{Latitude: lat, Longitude: lon, Elevation: elev})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening ephemeris: %v\n", err)
		os.Exit(1)
	}
	defer session.Close()

	pos := session.SunPosition(t)

	fmt.Printf("Sun position for %s at %.4f°, %.4f°\n", t.Format(time.RFC3339), lat, lon)
	fmt.Printf("  Altitude: %.3f°\n", pos.Altitude*180/math.Pi)
	fmt.Printf("  Azimuth:  %.3f°\n", pos.Azimuth*180/math.Pi)
	fmt.Printf("  Distance: %.6f AU\n", pos.Distance)
	if pos.Altitude < 0 {
		fmt.Printf("  The sun is below the horizon.\n")
	}

	if tilt >= 0 {
		incidence := math.Cos(pos.Altitude)*math.Cos(pos.Azimuth-azimuth)*math.Sin(tilt) +
			math.Sin(pos.Altitude)*math.Cos(tilt)
		fmt.Printf("  Incidence factor for azimuth=%.3f tilt=%.3f: %.4f\n", azimuth, tilt, math.Max(incidence, 0))
	}
}
