/*
# Module: types/sky.go
Position of a celestial body on the observer's sky.

## Linked Modules
(None - types package has no dependencies)

## Tags
data-types, astronomy

## Exports
SkyPosition, PositionResult

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "types/sky.go" ;
    code:description "Position of a celestial body on the observer's sky" ;
    code:exports :SkyPosition, :PositionResult ;
    code:tags "data-types", "astronomy" .
<!-- End LinkedDoc RDF -->
*/
package types

import "time"

// SkyPosition is a body's direction in whole degrees. Azimuth is clockwise
// from north in [0, 360); elevation is in [-90, 90].
type SkyPosition struct {
	AzimuthDegrees   int `json:"azimuth"`
	ElevationDegrees int `json:"elevation"`
}

// BelowHorizon reports whether the body cannot be seen. Zero elevation
// counts as below.
func (p SkyPosition) BelowHorizon() bool {
	return p.ElevationDegrees <= 0
}

// PositionResult is what a position query hands to the presentation layer.
type PositionResult struct {
	Body     string      `json:"body"`
	Instant  time.Time   `json:"instant"`
	Position SkyPosition `json:"position"`
	Place    string      `json:"place"`
}
