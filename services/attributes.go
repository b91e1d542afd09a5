/*
# Module: services/attributes.go
Session attribute bag carried between turns of one voice session.

## Linked Modules
- [types/session](../types/session.go) - Session context
- [handlers/skill](../handlers/skill.go) - Reads and writes the bag

## Tags
session, serialization

## Exports
SessionAttributes, ResumeSession

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "services/attributes.go" ;
    code:description "Session attribute bag carried between turns of one voice session" ;
    code:linksTo [
        code:name "types/session" ;
        code:path "../types/session.go" ;
        code:relationship "Session context"
    ], [
        code:name "handlers/skill" ;
        code:path "../handlers/skill.go" ;
        code:relationship "Reads and writes the bag"
    ] ;
    code:exports :SessionAttributes, :ResumeSession ;
    code:tags "session", "serialization" .
<!-- End LinkedDoc RDF -->
*/
package services

import (
	"encoding/json"
	"strconv"

	"github.com/pavelanni/NightSky/types"
)

// Session attribute keys carried between turns of one voice session
const (
	AttrUserID   = "user_id"
	AttrCity     = "city"
	AttrTimezone = "tz"
	AttrLat      = "lat"
	AttrLon      = "lon"
)

// SessionAttributes flattens a session into the platform's attribute bag
func SessionAttributes(sess *types.SessionContext) map[string]interface{} {
	attrs := map[string]interface{}{
		AttrUserID: sess.UserID,
	}
	if p := sess.ActiveProfile; p != nil {
		attrs[AttrCity] = p.PlaceName
		attrs[AttrTimezone] = p.TimezoneID
		attrs[AttrLat] = p.Latitude
		attrs[AttrLon] = p.Longitude
	}
	return attrs
}

// ResumeSession rebuilds a session from a previous turn's attribute bag. It
// reports false when the bag carries no complete profile.
func ResumeSession(userID string, attrs map[string]interface{}) (*types.SessionContext, bool) {
	sess := &types.SessionContext{UserID: userID, DialogState: types.DialogCompleted}

	city, _ := attrs[AttrCity].(string)
	tz, _ := attrs[AttrTimezone].(string)
	lat, latOK := attrNumber(attrs[AttrLat])
	lon, lonOK := attrNumber(attrs[AttrLon])
	if !latOK || !lonOK {
		return sess, false
	}

	p := types.LocationProfile{
		UserID:     userID,
		PlaceName:  city,
		Latitude:   lat,
		Longitude:  lon,
		TimezoneID: tz,
	}
	if p.Validate() != nil {
		return sess, false
	}
	sess.ActiveProfile = &p
	return sess, true
}

func attrNumber(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
