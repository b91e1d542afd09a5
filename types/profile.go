/*
# Module: types/profile.go
Per-user location profile persisted between voice sessions.

## Linked Modules
- [types/errors](./errors.go) - Error taxonomy

## Tags
data-types, location, profile

## Exports
LocationProfile, RoundCoordinate

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "types/profile.go" ;
    code:description "Per-user location profile persisted between voice sessions" ;
    code:linksTo [
        code:name "types/errors" ;
        code:path "./errors.go" ;
        code:relationship "Error taxonomy"
    ] ;
    code:exports :LocationProfile, :RoundCoordinate ;
    code:tags "data-types", "location", "profile" .
<!-- End LinkedDoc RDF -->
*/
package types

import (
	"fmt"
	"math"
	"strings"
)

// LocationProfile is a user's resolved location. A profile is either fully
// resolved or not stored at all.
type LocationProfile struct {
	UserID     string  `json:"user_id"`
	PlaceName  string  `json:"user_city"`
	Latitude   float64 `json:"lat"`
	Longitude  float64 `json:"lon"`
	TimezoneID string  `json:"user_tz"`
}

// Validate reports ErrIncompleteProfile when any field is missing or a
// coordinate is out of range.
func (p LocationProfile) Validate() error {
	switch {
	case strings.TrimSpace(p.UserID) == "":
		return fmt.Errorf("%w: missing user id", ErrIncompleteProfile)
	case strings.TrimSpace(p.PlaceName) == "":
		return fmt.Errorf("%w: missing place name", ErrIncompleteProfile)
	case strings.TrimSpace(p.TimezoneID) == "":
		return fmt.Errorf("%w: missing timezone", ErrIncompleteProfile)
	case math.IsNaN(p.Latitude) || p.Latitude < -90 || p.Latitude > 90:
		return fmt.Errorf("%w: latitude %v out of range", ErrIncompleteProfile, p.Latitude)
	case math.IsNaN(p.Longitude) || p.Longitude < -180 || p.Longitude > 180:
		return fmt.Errorf("%w: longitude %v out of range", ErrIncompleteProfile, p.Longitude)
	}
	return nil
}

// IsResolved is Validate as a predicate.
func (p LocationProfile) IsResolved() bool {
	return p.Validate() == nil
}

// RoundCoordinate rounds a coordinate to the given number of decimal places.
// Zero keeps whole degrees.
func RoundCoordinate(v float64, places int) float64 {
	if places <= 0 {
		return math.Round(v)
	}
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
