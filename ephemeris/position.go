/*
# Module: ephemeris/position.go
Apparent topocentric azimuth and altitude of a body.

## Linked Modules
- [ephemeris/body](./body.go) - Supported bodies
- [ephemeris/orbit](./orbit.go) - Orbital elements and Kepler solver

## Tags
astronomy, ephemeris, coordinates

## Exports
Observer, Horizontal, Position, Equatorial, JulianDay

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "ephemeris/position.go" ;
    code:description "Apparent topocentric azimuth and altitude of a body" ;
    code:linksTo [
        code:name "ephemeris/body" ;
        code:path "./body.go" ;
        code:relationship "Supported bodies"
    ], [
        code:name "ephemeris/orbit" ;
        code:path "./orbit.go" ;
        code:relationship "Orbital elements and Kepler solver"
    ] ;
    code:exports :Observer, :Horizontal, :Position, :Equatorial, :JulianDay ;
    code:tags "astronomy", "ephemeris", "coordinates" .
<!-- End LinkedDoc RDF -->
*/
package ephemeris

import (
	"math"
	"time"
)

const (
	// earthRadiiPerAU converts AU distances for the parallax correction.
	earthRadiiPerAU = 23454.78
	// dayZero is the Julian day of 1999 Dec 31.0, the origin of element day numbers.
	dayZero = 2451543.5
	j2000   = 2451545.0
)

// Observer is a point on the Earth's surface. Degrees, longitude east positive.
type Observer struct {
	Latitude  float64
	Longitude float64
}

// Horizontal is an apparent direction on the observer's sky in degrees.
// Azimuth runs clockwise from north in [0, 360); Altitude is in [-90, 90].
type Horizontal struct {
	Azimuth  float64
	Altitude float64
}

// JulianDay converts an instant to a Julian day number.
func JulianDay(t time.Time) float64 {
	return float64(t.UnixNano())/86400e9 + 2440587.5
}

// Equatorial returns the geocentric right ascension and declination of date
// in degrees and the distance in Earth radii.
func Equatorial(b Body, t time.Time) (ra, dec, distance float64) {
	d := JulianDay(t) - dayZero
	g, dist := geocentricEcliptic(b, d)

	ecl := 23.4393 - 3.563e-7*d
	eq := vec3{
		x: g.x,
		y: g.y*cosd(ecl) - g.z*sind(ecl),
		z: g.y*sind(ecl) + g.z*cosd(ecl),
	}
	ra, dec, _ = eq.spherical()
	return ra, dec, dist
}

// Position returns the apparent topocentric direction of b seen by obs at t.
// The altitude includes lunar and solar parallax and standard atmospheric
// refraction.
func Position(b Body, t time.Time, obs Observer) Horizontal {
	ra, dec, dist := Equatorial(b, t)

	ha := localSiderealTime(t, obs.Longitude) - ra
	lat := obs.Latitude

	sinAlt := sind(lat)*sind(dec) + cosd(lat)*cosd(dec)*cosd(ha)
	alt := deg(math.Asin(clamp(sinAlt, -1, 1)))
	az := rev(deg(math.Atan2(-sind(ha)*cosd(dec), cosd(lat)*sind(dec)-sind(lat)*cosd(dec)*cosd(ha))))

	alt -= deg(math.Asin(1/dist)) * cosd(alt)
	alt += refraction(alt)

	return Horizontal{Azimuth: az, Altitude: clamp(alt, -90, 90)}
}

// geocentricEcliptic returns rectangular ecliptic coordinates of date and the
// distance in Earth radii.
func geocentricEcliptic(b Body, d float64) (vec3, float64) {
	sun := elementsAt(Sun, d).position()

	switch b {
	case Sun:
		_, _, r := sun.spherical()
		return sun, r * earthRadiiPerAU
	case Moon:
		g := moonPosition(d)
		_, _, r := g.spherical()
		return g, r
	case Pluto:
		g := plutoHeliocentric(d).add(sun)
		_, _, r := g.spherical()
		return g, r * earthRadiiPerAU
	}

	h := elementsAt(b, d).position()
	lon, lat, r := h.spherical()
	dLon, dLat := planetPerturbations(b, d)
	g := fromSpherical(lon+dLon, lat+dLat, r).add(sun)
	_, _, dist := g.spherical()
	return g, dist * earthRadiiPerAU
}

// planetPerturbations corrects the mutual pull of Jupiter, Saturn and Uranus.
func planetPerturbations(b Body, d float64) (dLon, dLat float64) {
	mj := elementsAt(Jupiter, d).M
	ms := elementsAt(Saturn, d).M
	mu := elementsAt(Uranus, d).M

	switch b {
	case Jupiter:
		dLon = -0.332*sind(2*mj-5*ms-67.6) -
			0.056*sind(2*mj-2*ms+21) +
			0.042*sind(3*mj-5*ms+21) -
			0.036*sind(mj-2*ms) +
			0.022*cosd(mj-ms) +
			0.023*sind(2*mj-3*ms+52) -
			0.016*sind(mj-5*ms-69)
	case Saturn:
		dLon = 0.812*sind(2*mj-5*ms-67.6) -
			0.229*cosd(2*mj-4*ms-2) +
			0.119*sind(mj-2*ms-3) +
			0.046*sind(2*mj-6*ms-69) +
			0.014*sind(mj-3*ms+32)
		dLat = -0.020*cosd(2*mj-4*ms-2) +
			0.018*sind(2*mj-6*ms-49)
	case Uranus:
		dLon = 0.040*sind(ms-2*mu+6) +
			0.035*sind(ms-3*mu+33) -
			0.015*sind(mj-mu+20)
	}
	return dLon, dLat
}

// moonPosition returns the Moon's geocentric ecliptic position in Earth radii
// with the largest periodic terms applied.
func moonPosition(d float64) vec3 {
	moon := elementsAt(Moon, d)
	sun := elementsAt(Sun, d)
	lon, lat, r := moon.position().spherical()

	ms, mm := sun.M, moon.M
	ls := sun.M + sun.w
	lm := moon.M + moon.w + moon.N
	D := lm - ls
	F := lm - moon.N

	lon += -1.274*sind(mm-2*D) +
		0.658*sind(2*D) -
		0.186*sind(ms) -
		0.059*sind(2*mm-2*D) -
		0.057*sind(mm-2*D+ms) +
		0.053*sind(mm+2*D) +
		0.046*sind(2*D-ms) +
		0.041*sind(mm-ms) -
		0.035*sind(D) -
		0.031*sind(mm+ms) -
		0.015*sind(2*F-2*D) +
		0.011*sind(mm-4*D)
	lat += -0.173*sind(F-2*D) -
		0.055*sind(mm-F-2*D) -
		0.046*sind(mm+F-2*D) +
		0.033*sind(F+2*D) +
		0.017*sind(2*mm+F)
	r += -0.58*cosd(mm-2*D) - 0.46*cosd(2*D)

	return fromSpherical(lon, lat, r)
}

// plutoHeliocentric is a fitted series valid for roughly 1800-2100.
func plutoHeliocentric(d float64) vec3 {
	S := 50.03 + 0.033459652*d
	P := 238.95 + 0.003968789*d

	lon := 238.9508 + 0.00400703*d -
		19.799*sind(P) + 19.848*cosd(P) +
		0.897*sind(2*P) - 4.956*cosd(2*P) +
		0.610*sind(3*P) + 1.211*cosd(3*P) -
		0.341*sind(4*P) - 0.190*cosd(4*P) +
		0.128*sind(5*P) - 0.034*cosd(5*P) -
		0.038*sind(6*P) + 0.031*cosd(6*P) +
		0.020*sind(S-P) - 0.010*cosd(S-P)
	lat := -3.9082 -
		5.453*sind(P) - 14.975*cosd(P) +
		3.527*sind(2*P) + 1.673*cosd(2*P) -
		1.051*sind(3*P) + 0.328*cosd(3*P) +
		0.179*sind(4*P) - 0.292*cosd(4*P) +
		0.019*sind(5*P) + 0.100*cosd(5*P) -
		0.031*sind(6*P) - 0.026*cosd(6*P) +
		0.011*cosd(S-P)
	r := 40.72 +
		6.68*sind(P) + 6.90*cosd(P) -
		1.18*sind(2*P) - 0.03*cosd(2*P) +
		0.15*sind(3*P) - 0.14*cosd(3*P)

	return fromSpherical(lon, lat, r)
}

// localSiderealTime returns the mean sidereal time in degrees at the given
// east longitude.
func localSiderealTime(t time.Time, longitude float64) float64 {
	jd := JulianDay(t)
	T := (jd - j2000) / 36525
	gmst := 280.46061837 + 360.98564736629*(jd-j2000) + 0.000387933*T*T - T*T*T/38710000
	return rev(gmst + longitude)
}

// refraction returns the lift in degrees applied by a standard atmosphere
// to a body at true altitude alt. Bodies well below the horizon are left alone.
func refraction(alt float64) float64 {
	if alt < -1 || alt >= 90 {
		return 0
	}
	return 1.02 / math.Tan(rad(alt+10.3/(alt+5.11))) / 60
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
