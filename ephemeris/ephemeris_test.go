package ephemeris

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   Body
		wantOK bool
	}{
		{"proper name", "Mars", Mars, true},
		{"lower case", "jupiter", Jupiter, true},
		{"leading article", "the Moon", Moon, true},
		{"extra whitespace", "  the   sun ", Sun, true},
		{"pluto", "Pluto", Pluto, true},
		{"earth is not a body", "Earth", 0, false},
		{"empty", "", 0, false},
		{"unknown", "Vulcan", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Lookup(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestBodiesRoundTripThroughNames(t *testing.T) {
	for _, b := range Bodies() {
		got, ok := Lookup(b.String())
		require.True(t, ok, b.String())
		assert.Equal(t, b, got)
	}
	assert.Len(t, Bodies(), 10)
	assert.Equal(t, "Unknown", Body(42).String())
}

func TestJulianDay(t *testing.T) {
	assert.InDelta(t, 2451545.0, JulianDay(time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)), 1e-9)
	assert.InDelta(t, 2460463.0, JulianDay(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)), 1e-9)
}

func TestEccentricAnomalyHighEccentricity(t *testing.T) {
	for _, M := range []float64{0, 10, 90, 179, 270, 359} {
		E := eccentricAnomaly(M, 0.2056)
		assert.InDelta(t, rev(M), rev(E-deg(0.2056*sind(E))), 1e-6, "M=%v", M)
	}
}

func TestEquatorialAgainstAlmanac(t *testing.T) {
	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		body    Body
		ra, dec float64
	}{
		{Sun, 69.95, 22.16},
		{Mars, 22.9, 8.3},
		{Jupiter, 59.6, 19.8},
		{Saturn, 350.4, -6.2},
		{Neptune, 0.2, -1.3},
		{Pluto, 304.9, -22.8},
	}

	for _, tt := range tests {
		t.Run(tt.body.String(), func(t *testing.T) {
			ra, dec, dist := Equatorial(tt.body, at)
			assert.InDelta(t, tt.ra, ra, 0.5)
			assert.InDelta(t, tt.dec, dec, 0.5)
			assert.Greater(t, dist, 1000.0)
		})
	}
}

func TestFullMoonOpposesSun(t *testing.T) {
	at := time.Date(2024, 6, 22, 1, 8, 0, 0, time.UTC)
	sunRA, sunDec, _ := Equatorial(Sun, at)
	moonRA, moonDec, moonDist := Equatorial(Moon, at)

	assert.InDelta(t, 180, rev(moonRA-sunRA), 1.0)
	assert.Less(t, moonDec, -(sunDec - 6))
	assert.InDelta(t, 60, moonDist, 5)
}

func TestPositionSolsticeNoonAtGreenwich(t *testing.T) {
	pos := Position(Sun, time.Date(2024, 6, 21, 12, 0, 0, 0, time.UTC), Observer{Latitude: 51.48, Longitude: 0})
	assert.InDelta(t, 179, pos.Azimuth, 1.0)
	assert.InDelta(t, 62, pos.Altitude, 0.5)
}

func TestPositionMarsFromParis(t *testing.T) {
	pos := Position(Mars, time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC), Observer{Latitude: 48.85, Longitude: 2.35})
	assert.InDelta(t, 243.1, pos.Azimuth, 1.0)
	assert.InDelta(t, 31.9, pos.Altitude, 1.0)
}

func TestPositionIsDeterministic(t *testing.T) {
	at := time.Date(2031, 3, 14, 3, 30, 0, 0, time.UTC)
	obs := Observer{Latitude: -33.87, Longitude: 151.21}
	for _, b := range Bodies() {
		assert.Equal(t, Position(b, at, obs), Position(b, at, obs), b.String())
	}
}

func TestPositionRanges(t *testing.T) {
	observers := []Observer{
		{Latitude: 90, Longitude: 0},
		{Latitude: -90, Longitude: 0},
		{Latitude: 0, Longitude: 180},
		{Latitude: 0, Longitude: -180},
		{Latitude: 48.85, Longitude: 2.35},
		{Latitude: -33.87, Longitude: 151.21},
	}
	start := time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)

	for _, b := range Bodies() {
		for _, obs := range observers {
			for step := 0; step < 48; step++ {
				at := start.Add(time.Duration(step) * 4513 * time.Hour)
				pos := Position(b, at, obs)
				require.False(t, math.IsNaN(pos.Azimuth) || math.IsNaN(pos.Altitude), "%s at %s", b, at)
				require.GreaterOrEqual(t, pos.Azimuth, 0.0)
				require.Less(t, pos.Azimuth, 360.0)
				require.GreaterOrEqual(t, pos.Altitude, -90.0)
				require.LessOrEqual(t, pos.Altitude, 90.0)
			}
		}
	}
}

func TestRefractionLiftsNearHorizon(t *testing.T) {
	assert.InDelta(t, 0.48, refraction(0), 0.05)
	assert.Less(t, refraction(45), 0.02)
	assert.Zero(t, refraction(-5))
}

func TestRev(t *testing.T) {
	assert.Equal(t, 0.0, rev(360))
	assert.InDelta(t, 350.0, rev(-10), 1e-9)
	assert.InDelta(t, 10.0, rev(730), 1e-9)
	assert.Less(t, rev(-1e-17), 360.0)
}
