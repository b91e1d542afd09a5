/*
# Module: types/geocode.go
Geocoding results and provider wire formats.

## Linked Modules
(None - types package has no dependencies)

## Tags
data-types, geocoding, api-client

## Exports
GeocodeResult, NominatimPlace, GoogleGeocodeResponse

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "types/geocode.go" ;
    code:description "Geocoding results and provider wire formats" ;
    code:exports :GeocodeResult, :NominatimPlace, :GoogleGeocodeResponse ;
    code:tags "data-types", "geocoding", "api-client" .
<!-- End LinkedDoc RDF -->
*/
package types

// GeocodeResult is a place resolved by a geocoding provider
type GeocodeResult struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	DisplayName string  `json:"display_name"`
}

// NominatimPlace is one element of a Nominatim /search response.
// Nominatim encodes coordinates as strings.
type NominatimPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// GoogleGeocodeResponse represents Google Geocoding API response
type GoogleGeocodeResponse struct {
	Results []struct {
		FormattedAddress string `json:"formatted_address"`
		PlaceID          string `json:"place_id"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message,omitempty"`
}
