/*
# Module: clients/nominatim.go
OpenStreetMap Nominatim client for forward geocoding.

## Linked Modules
- [types/geocode](../types/geocode.go) - Geocoding data structures
- [types/errors](../types/errors.go) - Error taxonomy

## Tags
api-client, nominatim, openstreetmap, geolocation

## Exports
NominatimClient, NewNominatimClient, Geocode

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "clients/nominatim.go" ;
    code:description "OpenStreetMap Nominatim client for forward geocoding" ;
    code:linksTo [
        code:name "types/geocode" ;
        code:path "../types/geocode.go" ;
        code:relationship "Geocoding data structures"
    ], [
        code:name "types/errors" ;
        code:path "../types/errors.go" ;
        code:relationship "Error taxonomy"
    ] ;
    code:exports :NominatimClient, :NewNominatimClient, :Geocode ;
    code:tags "api-client", "nominatim", "openstreetmap", "geolocation" .
<!-- End LinkedDoc RDF -->
*/
package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pavelanni/NightSky/types"
)

// DefaultNominatimURL is the public OpenStreetMap instance
const DefaultNominatimURL = "https://nominatim.openstreetmap.org"

// NominatimClient handles Nominatim search requests
type NominatimClient struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewNominatimClient creates a new Nominatim client. The usage policy of the
// public instance requires an identifying User-Agent.
func NewNominatimClient(baseURL, userAgent string, timeout time.Duration, logger *zap.Logger) *NominatimClient {
	if baseURL == "" {
		baseURL = DefaultNominatimURL
	}
	return &NominatimClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Geocode returns the best match for a free-text place name
func (c *NominatimClient) Geocode(ctx context.Context, place string) (*types.GeocodeResult, error) {
	params := url.Values{}
	params.Add("q", place)
	params.Add("format", "jsonv2")
	params.Add("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Nominatim request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to call Nominatim: %v", types.ErrGeocodeServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: Nominatim error (status %d): %s",
			types.ErrGeocodeServiceUnavailable, resp.StatusCode, string(body))
	}

	var places []types.NominatimPlace
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return nil, fmt.Errorf("%w: failed to parse Nominatim response: %v", types.ErrGeocodeServiceUnavailable, err)
	}
	if len(places) == 0 {
		return nil, fmt.Errorf("%w: %q", types.ErrGeocodeNotFound, place)
	}

	lat, errLat := strconv.ParseFloat(places[0].Lat, 64)
	lon, errLon := strconv.ParseFloat(places[0].Lon, 64)
	if errLat != nil || errLon != nil {
		return nil, fmt.Errorf("%w: malformed coordinates %q,%q",
			types.ErrGeocodeServiceUnavailable, places[0].Lat, places[0].Lon)
	}

	c.logger.Debug("🗺️  Nominatim match",
		zap.String("place", place),
		zap.String("display_name", places[0].DisplayName),
		zap.Float64("lat", lat),
		zap.Float64("lon", lon))

	return &types.GeocodeResult{
		Latitude:    lat,
		Longitude:   lon,
		DisplayName: places[0].DisplayName,
	}, nil
}
