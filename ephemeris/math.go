/*
# Module: ephemeris/math.go
Vector and angle helpers for the ephemeris.

## Linked Modules
(None - pure computation with no dependencies)

## Tags
astronomy, math

## Exports
vec3, rev

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "ephemeris/math.go" ;
    code:description "Vector and angle helpers for the ephemeris" ;
    code:exports :vec3, :rev ;
    code:tags "astronomy", "math" .
<!-- End LinkedDoc RDF -->
*/
package ephemeris

import "math"

type vec3 struct{ x, y, z float64 }

func (v vec3) add(o vec3) vec3 { return vec3{v.x + o.x, v.y + o.y, v.z + o.z} }

// spherical returns longitude and latitude in degrees and the radius.
func (v vec3) spherical() (lon, lat, r float64) {
	lon = rev(deg(math.Atan2(v.y, v.x)))
	lat = deg(math.Atan2(v.z, math.Hypot(v.x, v.y)))
	r = math.Sqrt(v.x*v.x + v.y*v.y + v.z*v.z)
	return lon, lat, r
}

func fromSpherical(lon, lat, r float64) vec3 {
	return vec3{
		x: r * cosd(lon) * cosd(lat),
		y: r * sind(lon) * cosd(lat),
		z: r * sind(lat),
	}
}

func rad(d float64) float64 { return d * math.Pi / 180 }
func deg(r float64) float64 { return r * 180 / math.Pi }

func sind(d float64) float64 { return math.Sin(rad(d)) }
func cosd(d float64) float64 { return math.Cos(rad(d)) }

// rev normalizes an angle into [0, 360).
func rev(d float64) float64 {
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	if d >= 360 {
		d = 0
	}
	return d
}
