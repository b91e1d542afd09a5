/*
# Module: clients/google_geocode.go
Google Geocoding API client.

## Linked Modules
- [types/geocode](../types/geocode.go) - Geocoding data structures
- [types/errors](../types/errors.go) - Error taxonomy

## Tags
api-client, google, geocoding, geolocation

## Exports
GoogleGeocodeClient, NewGoogleGeocodeClient, Geocode

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "clients/google_geocode.go" ;
    code:description "Google Geocoding API client" ;
    code:linksTo [
        code:name "types/geocode" ;
        code:path "../types/geocode.go" ;
        code:relationship "Geocoding data structures"
    ], [
        code:name "types/errors" ;
        code:path "../types/errors.go" ;
        code:relationship "Error taxonomy"
    ] ;
    code:exports :GoogleGeocodeClient, :NewGoogleGeocodeClient, :Geocode ;
    code:tags "api-client", "google", "geocoding", "geolocation" .
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
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pavelanni/NightSky/types"
)

// DefaultGoogleGeocodeURL is the Google Geocoding endpoint
const DefaultGoogleGeocodeURL = "https://maps.googleapis.com/maps/api/geocode/json"

// GoogleGeocodeClient handles Google Geocoding API requests
type GoogleGeocodeClient struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewGoogleGeocodeClient creates a new Google Geocoding API client
func NewGoogleGeocodeClient(apiKey, endpoint string, timeout time.Duration, logger *zap.Logger) *GoogleGeocodeClient {
	if endpoint == "" {
		endpoint = DefaultGoogleGeocodeURL
	}
	return &GoogleGeocodeClient{
		apiKey:     apiKey,
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Geocode returns the first result for a free-text place name
func (c *GoogleGeocodeClient) Geocode(ctx context.Context, place string) (*types.GeocodeResult, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("%w: Google Maps API key not configured", types.ErrGeocodeServiceUnavailable)
	}

	params := url.Values{}
	params.Add("address", place)
	params.Add("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create geocode request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to call Google Geocoding API: %v", types.ErrGeocodeServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: Google Geocoding API error (status %d): %s",
			types.ErrGeocodeServiceUnavailable, resp.StatusCode, string(body))
	}

	var result types.GoogleGeocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: failed to parse Google Geocoding response: %v", types.ErrGeocodeServiceUnavailable, err)
	}

	switch strings.ToUpper(result.Status) {
	case "OK":
	case "ZERO_RESULTS":
		return nil, fmt.Errorf("%w: %q", types.ErrGeocodeNotFound, place)
	default:
		return nil, fmt.Errorf("%w: Google Geocoding status %s: %s",
			types.ErrGeocodeServiceUnavailable, result.Status, result.ErrorMessage)
	}
	if len(result.Results) == 0 {
		return nil, fmt.Errorf("%w: %q", types.ErrGeocodeNotFound, place)
	}

	first := result.Results[0]
	c.logger.Debug("🗺️  Google geocode match",
		zap.String("place", place),
		zap.String("formatted_address", first.FormattedAddress))

	return &types.GeocodeResult{
		Latitude:    first.Geometry.Location.Lat,
		Longitude:   first.Geometry.Location.Lng,
		DisplayName: first.FormattedAddress,
	}, nil
}
