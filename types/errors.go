/*
# Module: types/errors.go
Error taxonomy shared by resolvers, stores and the skill handler.

## Linked Modules
(None - types package has no dependencies)

## Tags
data-types, errors

## Exports
ErrGeocodeNotFound, ErrGeocodeServiceUnavailable, ErrStoreUnavailable,
ErrAmbiguousTime, ErrUnparseableTime, ErrUnknownBody, ErrProfileNotFound,
ErrIncompleteProfile, ErrTimezoneUnresolved, ErrInvalidCoordinate,
ErrNoLocation, ErrDialogInProgress, ErrRateLimited

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "types/errors.go" ;
    code:description "Error taxonomy shared by resolvers, stores and the skill handler" ;
    code:exports :ErrGeocodeNotFound, :ErrGeocodeServiceUnavailable, :ErrStoreUnavailable ;
    code:tags "data-types", "errors" .
<!-- End LinkedDoc RDF -->
*/
package types

import "errors"

var (
	// ErrGeocodeNotFound means the geocoding service had no match for the place.
	ErrGeocodeNotFound = errors.New("geocode: place not found")
	// ErrGeocodeServiceUnavailable covers network failures, timeouts and
	// unexpected responses from the geocoding service.
	ErrGeocodeServiceUnavailable = errors.New("geocode: service unavailable")
	// ErrStoreUnavailable means the profile backend could not be reached.
	ErrStoreUnavailable = errors.New("profile store unavailable")
	// ErrAmbiguousTime means a local time cannot be placed without a timezone.
	ErrAmbiguousTime = errors.New("ambiguous time: timezone unresolved")
	// ErrUnparseableTime means the date or time phrase was not understood.
	ErrUnparseableTime = errors.New("unparseable date or time")
	// ErrUnknownBody means the body name is not in the supported set.
	ErrUnknownBody = errors.New("unknown celestial body")

	ErrProfileNotFound    = errors.New("profile not found")
	ErrIncompleteProfile  = errors.New("incomplete profile")
	ErrTimezoneUnresolved = errors.New("timezone unresolved for place")
	ErrInvalidCoordinate  = errors.New("invalid coordinate")
	ErrNoLocation         = errors.New("no location set for user")
	ErrDialogInProgress   = errors.New("dialog still in progress")
	ErrRateLimited        = errors.New("too many location changes")
)
