/*
# Module: services/sky.go
Rounded sky position of a named body for an observer and instant.

## Linked Modules
- [ephemeris/position](../ephemeris/position.go) - Astronomical computation
- [types/sky](../types/sky.go) - Sky position data structures

## Tags
business-logic, astronomy

## Exports
SkyCalculator, NewSkyCalculator, PositionOf, Locate

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "services/sky.go" ;
    code:description "Rounded sky position of a named body for an observer and instant" ;
    code:linksTo [
        code:name "ephemeris/position" ;
        code:path "../ephemeris/position.go" ;
        code:relationship "Astronomical computation"
    ], [
        code:name "types/sky" ;
        code:path "../types/sky.go" ;
        code:relationship "Sky position data structures"
    ] ;
    code:exports :SkyCalculator, :NewSkyCalculator, :PositionOf, :Locate ;
    code:tags "business-logic", "astronomy" .
<!-- End LinkedDoc RDF -->
*/
package services

import (
	"fmt"
	"math"
	"time"

	"github.com/pavelanni/NightSky/ephemeris"
	"github.com/pavelanni/NightSky/types"
)

// SkyCalculator is stateless and safe for concurrent use
type SkyCalculator struct{}

// NewSkyCalculator creates a SkyCalculator
func NewSkyCalculator() *SkyCalculator {
	return &SkyCalculator{}
}

// PositionOf returns the body's azimuth and elevation in whole degrees.
func (c *SkyCalculator) PositionOf(bodyName string, instant time.Time, lat, lon float64) (types.SkyPosition, error) {
	res, err := c.Locate(bodyName, instant, lat, lon)
	if err != nil {
		return types.SkyPosition{}, err
	}
	return res.Position, nil
}

// Locate is PositionOf plus the body's canonical name and the instant.
func (c *SkyCalculator) Locate(bodyName string, instant time.Time, lat, lon float64) (types.PositionResult, error) {
	body, ok := ephemeris.Lookup(bodyName)
	if !ok {
		return types.PositionResult{}, fmt.Errorf("%w: %q", types.ErrUnknownBody, bodyName)
	}
	if math.IsNaN(lat) || math.IsNaN(lon) || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return types.PositionResult{}, fmt.Errorf("%w: (%v, %v)", types.ErrInvalidCoordinate, lat, lon)
	}

	h := ephemeris.Position(body, instant.UTC(), ephemeris.Observer{Latitude: lat, Longitude: lon})

	az := int(math.Round(h.Azimuth))
	if az >= 360 {
		az -= 360
	}
	alt := int(math.Round(h.Altitude))

	return types.PositionResult{
		Body:     body.String(),
		Instant:  instant.UTC(),
		Position: types.SkyPosition{AzimuthDegrees: az, ElevationDegrees: alt},
	}, nil
}
