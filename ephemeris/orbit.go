/*
# Module: ephemeris/orbit.go
Orbital elements and Kepler's equation.

## Linked Modules
- [ephemeris/math](./math.go) - Vector helpers

## Tags
astronomy, orbits

## Exports
elementsAt, eccentricAnomaly

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "ephemeris/orbit.go" ;
    code:description "Orbital elements and Kepler's equation" ;
    code:linksTo [
        code:name "ephemeris/math" ;
        code:path "./math.go" ;
        code:relationship "Vector helpers"
    ] ;
    code:exports :elementsAt, :eccentricAnomaly ;
    code:tags "astronomy", "orbits" .
<!-- End LinkedDoc RDF -->
*/
package ephemeris

import "math"

// elements are osculating orbital elements of date. Angles in degrees, a in
// AU (Earth radii for the Moon).
type elements struct {
	N, i, w, a, e, M float64
}

// elementsAt returns the mean elements for day number d, counted from
// 1999 Dec 31.0 TT. The Sun entry describes the Sun's apparent orbit around
// the Earth.
func elementsAt(b Body, d float64) elements {
	switch b {
	case Sun:
		return elements{0, 0, 282.9404 + 4.70935e-5*d, 1.0, 0.016709 - 1.151e-9*d, 356.0470 + 0.9856002585*d}
	case Moon:
		return elements{125.1228 - 0.0529538083*d, 5.1454, 318.0634 + 0.1643573223*d, 60.2666, 0.054900, 115.3654 + 13.0649929509*d}
	case Mercury:
		return elements{48.3313 + 3.24587e-5*d, 7.0047 + 5.00e-8*d, 29.1241 + 1.01444e-5*d, 0.387098, 0.205635 + 5.59e-10*d, 168.6562 + 4.0923344368*d}
	case Venus:
		return elements{76.6799 + 2.46590e-5*d, 3.3946 + 2.75e-8*d, 54.8910 + 1.38374e-5*d, 0.723330, 0.006773 - 1.302e-9*d, 48.0052 + 1.6021302244*d}
	case Mars:
		return elements{49.5574 + 2.11081e-5*d, 1.8497 - 1.78e-8*d, 286.5016 + 2.92961e-5*d, 1.523688, 0.093405 + 2.516e-9*d, 18.6021 + 0.5240207766*d}
	case Jupiter:
		return elements{100.4542 + 2.76854e-5*d, 1.3030 - 1.557e-7*d, 273.8777 + 1.64505e-5*d, 5.20256, 0.048498 + 4.469e-9*d, 19.8950 + 0.0830853001*d}
	case Saturn:
		return elements{113.6634 + 2.38980e-5*d, 2.4886 - 1.081e-7*d, 339.3939 + 2.97661e-5*d, 9.55475, 0.055546 - 9.499e-9*d, 316.9670 + 0.0334442282*d}
	case Uranus:
		return elements{74.0005 + 1.3978e-5*d, 0.7733 + 1.9e-8*d, 96.6612 + 3.0565e-5*d, 19.18171 - 1.55e-8*d, 0.047318 + 7.45e-9*d, 142.5905 + 0.011725806*d}
	case Neptune:
		return elements{131.7806 + 3.0173e-5*d, 1.7700 - 2.55e-7*d, 272.8461 - 6.027e-6*d, 30.05826 + 3.313e-8*d, 0.008606 + 2.15e-9*d, 260.2471 + 0.005995147*d}
	}
	panic("ephemeris: no orbital elements for " + b.String())
}

// eccentricAnomaly solves Kepler's equation by Newton iteration. Degrees.
func eccentricAnomaly(M, e float64) float64 {
	M = rev(M)
	E := M + deg(e*sind(M)*(1+e*cosd(M)))
	for k := 0; k < 30; k++ {
		dE := (E - deg(e*sind(E)) - M) / (1 - e*cosd(E))
		E -= dE
		if math.Abs(dE) < 1e-9 {
			break
		}
	}
	return E
}

// position returns rectangular ecliptic coordinates of the orbiting body
// relative to its primary.
func (el elements) position() vec3 {
	E := eccentricAnomaly(el.M, el.e)
	xv := el.a * (cosd(E) - el.e)
	yv := el.a * math.Sqrt(1-el.e*el.e) * sind(E)
	v := deg(math.Atan2(yv, xv))
	r := math.Hypot(xv, yv)

	vw := v + el.w
	return vec3{
		x: r * (cosd(el.N)*cosd(vw) - sind(el.N)*sind(vw)*cosd(el.i)),
		y: r * (sind(el.N)*cosd(vw) + cosd(el.N)*sind(vw)*cosd(el.i)),
		z: r * sind(vw) * sind(el.i),
	}
}
