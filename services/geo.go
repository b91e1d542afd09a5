/*
# Module: services/geo.go
Place name to coordinate and timezone resolution.

## Linked Modules
- [clients/nominatim](../clients/nominatim.go) - Geocoding client
- [gazetteer/gazetteer](../gazetteer/gazetteer.go) - City gazetteer
- [types/errors](../types/errors.go) - Error taxonomy

## Tags
business-logic, geolocation, timezone

## Exports
Geocoder, Gazetteer, ZoneLocator, LatLongZones, GeoResolver, NewGeoResolver

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "services/geo.go" ;
    code:description "Place name to coordinate and timezone resolution" ;
    code:linksTo [
        code:name "clients/nominatim" ;
        code:path "../clients/nominatim.go" ;
        code:relationship "Geocoding client"
    ], [
        code:name "gazetteer/gazetteer" ;
        code:path "../gazetteer/gazetteer.go" ;
        code:relationship "City gazetteer"
    ] ;
    code:exports :GeoResolver, :NewGeoResolver, :LatLongZones ;
    code:tags "business-logic", "geolocation", "timezone" .
<!-- End LinkedDoc RDF -->
*/
package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/bradfitz/latlong"
	"go.uber.org/zap"

	"github.com/pavelanni/NightSky/gazetteer"
	"github.com/pavelanni/NightSky/types"
)

// A gazetteer entry further than this from the geocoded coordinate names a
// different place, e.g. Paris, France for a user in Paris, Texas.
const maxGazetteerDriftKm = 300

const earthRadiusKm = 6371.0

// Geocoder resolves a free-text place with a live service
type Geocoder interface {
	Geocode(ctx context.Context, place string) (*types.GeocodeResult, error)
}

// Gazetteer resolves a city name from a local table
type Gazetteer interface {
	Lookup(name string) (gazetteer.Coordinate, bool)
}

// ZoneLocator returns the IANA zone containing a coordinate, or "" when the
// point is in no known zone.
type ZoneLocator interface {
	ZoneAt(lat, lon float64) string
}

// LatLongZones looks zones up in the compiled-in world timezone map
type LatLongZones struct{}

// ZoneAt implements ZoneLocator
func (LatLongZones) ZoneAt(lat, lon float64) string {
	return latlong.LookupZoneName(lat, lon)
}

// GeoResolver turns place names into coordinates and timezones. The timezone
// path uses the gazetteer only, so a geocoding outage never blocks it; the
// two sources may disagree slightly on a city's exact coordinate.
type GeoResolver struct {
	geocoder  Geocoder
	gazetteer Gazetteer
	zones     ZoneLocator
	timeout   time.Duration
	logger    *zap.Logger
}

// NewGeoResolver creates a resolver. timeout bounds each geocoding call.
func NewGeoResolver(geocoder Geocoder, gaz Gazetteer, zones ZoneLocator, timeout time.Duration, logger *zap.Logger) *GeoResolver {
	return &GeoResolver{
		geocoder:  geocoder,
		gazetteer: gaz,
		zones:     zones,
		timeout:   timeout,
		logger:    logger,
	}
}

// ResolveTimezone returns the IANA timezone of a gazetteer city, or "" when
// the city is not in the gazetteer or its zone cannot be determined. An
// empty result is an expected outcome, not a failure.
func (r *GeoResolver) ResolveTimezone(place string) string {
	c, ok := r.gazetteer.Lookup(place)
	if !ok {
		r.logger.Info("🧭 Place not in gazetteer", zap.String("place", place))
		return ""
	}
	return r.TimezoneAt(c.Latitude, c.Longitude)
}

// GazetteerAgrees reports whether the gazetteer entry for place lies within
// maxGazetteerDriftKm of (lat, lon). A place missing from the gazetteer
// does not agree.
func (r *GeoResolver) GazetteerAgrees(place string, lat, lon float64) bool {
	c, ok := r.gazetteer.Lookup(place)
	if !ok {
		return false
	}
	return distanceKm(c.Latitude, c.Longitude, lat, lon) <= maxGazetteerDriftKm
}

// TimezoneAt returns the loadable IANA zone at a coordinate, or "".
func (r *GeoResolver) TimezoneAt(lat, lon float64) string {
	zone := r.zones.ZoneAt(lat, lon)
	if zone == "" {
		return ""
	}
	if _, err := time.LoadLocation(zone); err != nil {
		r.logger.Warn("⚠️  Zone lookup returned an unknown zone",
			zap.String("zone", zone), zap.Float64("lat", lat), zap.Float64("lon", lon))
		return ""
	}
	return zone
}

// ResolveCoordinates geocodes a place with the live service. It fails with
// types.ErrGeocodeNotFound or types.ErrGeocodeServiceUnavailable.
func (r *GeoResolver) ResolveCoordinates(ctx context.Context, place string) (lat, lon float64, err error) {
	place = strings.TrimSpace(place)
	if place == "" {
		return 0, 0, fmt.Errorf("%w: empty place name", types.ErrGeocodeNotFound)
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	res, err := r.geocoder.Geocode(ctx, place)
	switch {
	case err == nil:
	case errors.Is(err, types.ErrGeocodeNotFound), errors.Is(err, types.ErrGeocodeServiceUnavailable):
		return 0, 0, err
	default:
		return 0, 0, fmt.Errorf("%w: %v", types.ErrGeocodeServiceUnavailable, err)
	}

	if res.Latitude < -90 || res.Latitude > 90 || res.Longitude < -180 || res.Longitude > 180 {
		return 0, 0, fmt.Errorf("%w: geocoder returned (%v, %v)",
			types.ErrGeocodeServiceUnavailable, res.Latitude, res.Longitude)
	}
	return res.Latitude, res.Longitude, nil
}

// distanceKm is the great-circle distance by the haversine formula
func distanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	toRad := func(d float64) float64 { return d * math.Pi / 180 }
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Min(1, math.Sqrt(a)))
}
