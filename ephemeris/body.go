/*
# Module: ephemeris/body.go
Fixed set of supported celestial bodies.

## Linked Modules
- [ephemeris/position](./position.go) - Position computation

## Tags
astronomy, ephemeris, lookup

## Exports
Body, Lookup, Bodies

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "ephemeris/body.go" ;
    code:description "Fixed set of supported celestial bodies" ;
    code:exports :Body, :Lookup, :Bodies ;
    code:tags "astronomy", "ephemeris", "lookup" .
<!-- End LinkedDoc RDF -->
*/

// Package ephemeris computes low-precision apparent positions of the Sun,
// the Moon and the planets. Accuracy is a few arcminutes for the planets and
// better than a quarter degree for the Moon, between roughly 1900 and 2100.
package ephemeris

import "strings"

// Body identifies a supported celestial body.
type Body int

const (
	Sun Body = iota
	Moon
	Mercury
	Venus
	Mars
	Jupiter
	Saturn
	Uranus
	Neptune
	Pluto
)

var bodyNames = [...]string{
	Sun:     "Sun",
	Moon:    "Moon",
	Mercury: "Mercury",
	Venus:   "Venus",
	Mars:    "Mars",
	Jupiter: "Jupiter",
	Saturn:  "Saturn",
	Uranus:  "Uranus",
	Neptune: "Neptune",
	Pluto:   "Pluto",
}

var bodiesByName = func() map[string]Body {
	m := make(map[string]Body, len(bodyNames))
	for b, name := range bodyNames {
		m[strings.ToLower(name)] = Body(b)
	}
	return m
}()

// String returns the body's proper name.
func (b Body) String() string {
	if b < 0 || int(b) >= len(bodyNames) {
		return "Unknown"
	}
	return bodyNames[b]
}

// Lookup maps a spoken body name to a Body. Matching ignores case,
// surrounding whitespace and a leading "the".
func Lookup(name string) (Body, bool) {
	key := strings.ToLower(strings.Join(strings.Fields(name), " "))
	key = strings.TrimPrefix(key, "the ")
	b, ok := bodiesByName[key]
	return b, ok
}

// Bodies lists every supported body.
func Bodies() []Body {
	out := make([]Body, len(bodyNames))
	for i := range bodyNames {
		out[i] = Body(i)
	}
	return out
}
