/*
# Module: services/session.go
Per-session dialog state and the skill's three user-facing flows:
starting a session, changing location, and asking where a body is.

## Linked Modules
- [services/geo](./geo.go) - Place resolution
- [services/time_normalizer](./time_normalizer.go) - Spoken time parsing
- [services/sky](./sky.go) - Sky positions
- [storage/repository](../storage/repository.go) - Profile persistence

## Tags
business-logic, session, dialog

## Exports
SessionService, SessionOptions, PositionQuery, NewSessionService, ObserveDialog

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "services/session.go" ;
    code:description "Per-session dialog state and the skill's user-facing flows" ;
    code:linksTo [
        code:name "services/geo" ;
        code:path "./geo.go" ;
        code:relationship "Place resolution"
    ], [
        code:name "services/time_normalizer" ;
        code:path "./time_normalizer.go" ;
        code:relationship "Spoken time parsing"
    ], [
        code:name "services/sky" ;
        code:path "./sky.go" ;
        code:relationship "Sky positions"
    ], [
        code:name "storage/repository" ;
        code:path "../storage/repository.go" ;
        code:relationship "Profile persistence"
    ] ;
    code:exports :SessionService, :NewSessionService, :ObserveDialog ;
    code:tags "business-logic", "session", "dialog" .
<!-- End LinkedDoc RDF -->
*/
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pavelanni/NightSky/storage"
	"github.com/pavelanni/NightSky/types"
)

// SessionOptions tune how a new location is turned into a profile
type SessionOptions struct {
	// CoordinatePrecision is the number of decimal places kept on stored
	// coordinates. Zero keeps whole degrees.
	CoordinatePrecision int
	// TimezoneFallback derives the zone from the geocoded coordinate when the
	// gazetteer does not know the place.
	TimezoneFallback bool
}

// PositionQuery is one "where is X" request as spoken
type PositionQuery struct {
	Body string
	Date string
	Time string
}

// SessionService owns the dialog session lifecycle
type SessionService struct {
	profiles storage.ProfileRepository
	geo      *GeoResolver
	times    *TimeNormalizer
	sky      *SkyCalculator
	limiter  *LocationChangeLimiter
	opts     SessionOptions
	logger   *zap.Logger
}

// NewSessionService wires the session flows. limiter may be nil.
func NewSessionService(
	profiles storage.ProfileRepository,
	geo *GeoResolver,
	times *TimeNormalizer,
	sky *SkyCalculator,
	limiter *LocationChangeLimiter,
	opts SessionOptions,
	logger *zap.Logger,
) *SessionService {
	return &SessionService{
		profiles: profiles,
		geo:      geo,
		times:    times,
		sky:      sky,
		limiter:  limiter,
		opts:     opts,
		logger:   logger,
	}
}

// Start opens a session for userID, loading the stored profile if any. A
// user with no profile gets a session in new-user mode and a nil error. When
// the store fails, the returned session is still usable in new-user mode and
// the error is returned alongside it.
func (s *SessionService) Start(ctx context.Context, userID string) (*types.SessionContext, error) {
	sess := &types.SessionContext{
		UserID:      userID,
		DialogState: types.DialogCompleted,
	}

	profile, err := s.profiles.Load(ctx, userID)
	switch {
	case err == nil:
		sess.ActiveProfile = profile
		s.logger.Info("🌌 Session started",
			zap.String("user_id", userID),
			zap.String("city", profile.PlaceName))
		return sess, nil
	case errors.Is(err, types.ErrProfileNotFound):
		s.logger.Info("🌌 Session started for new user", zap.String("user_id", userID))
		return sess, nil
	default:
		s.logger.Warn("⚠️  Could not load profile, continuing without location",
			zap.String("user_id", userID), zap.Error(err))
		return sess, err
	}
}

// ObserveDialog applies the dialog manager's reported state for the current
// request. Only a completed dialog lets a position query run; any other
// report, including a fresh start, puts the session back in progress.
func ObserveDialog(sess *types.SessionContext, reported string) types.DialogState {
	if types.DialogState(strings.ToUpper(strings.TrimSpace(reported))) == types.DialogCompleted {
		sess.DialogState = types.DialogCompleted
	} else {
		sess.DialogState = types.DialogInProgress
	}
	return sess.DialogState
}

// SetLocation resolves place, persists it, and makes it the session's active
// profile. On any failure the session keeps its previous profile, and only
// a saved change counts against the user's hourly limit.
func (s *SessionService) SetLocation(ctx context.Context, sess *types.SessionContext, place string) (*types.LocationProfile, error) {
	place = strings.TrimSpace(place)
	if place == "" {
		return nil, fmt.Errorf("%w: no place given", types.ErrGeocodeNotFound)
	}

	if !s.limiter.Allowed(sess.UserID) {
		s.logger.Warn("⚠️  Location change rate limit exceeded", zap.String("user_id", sess.UserID))
		return nil, types.ErrRateLimited
	}

	timezoneID := s.geo.ResolveTimezone(place)

	lat, lon, err := s.geo.ResolveCoordinates(ctx, place)
	if err != nil {
		s.logger.Warn("⚠️  Could not geocode place",
			zap.String("place", place), zap.Error(err))
		return nil, err
	}

	if timezoneID != "" && !s.geo.GazetteerAgrees(place, lat, lon) {
		s.logger.Info("🧭 Gazetteer entry is a different place, ignoring its timezone",
			zap.String("place", place),
			zap.String("gazetteer_tz", timezoneID),
			zap.Float64("lat", lat),
			zap.Float64("lon", lon))
		timezoneID = ""
	}

	if timezoneID == "" && s.opts.TimezoneFallback {
		timezoneID = s.geo.TimezoneAt(lat, lon)
		if timezoneID != "" {
			s.logger.Info("🧭 Timezone taken from geocoded coordinate",
				zap.String("place", place), zap.String("tz", timezoneID))
		}
	}
	if timezoneID == "" {
		return nil, fmt.Errorf("%w: %q", types.ErrTimezoneUnresolved, place)
	}

	profile := types.LocationProfile{
		UserID:     sess.UserID,
		PlaceName:  place,
		Latitude:   types.RoundCoordinate(lat, s.opts.CoordinatePrecision),
		Longitude:  types.RoundCoordinate(lon, s.opts.CoordinatePrecision),
		TimezoneID: timezoneID,
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	if err := s.profiles.Save(ctx, profile); err != nil {
		s.logger.Error("❌ Failed to save location",
			zap.String("user_id", sess.UserID), zap.Error(err))
		return nil, err
	}

	s.limiter.Record(sess.UserID)
	sess.ActiveProfile = &profile
	s.logger.Info("📍 Location set",
		zap.String("user_id", sess.UserID),
		zap.String("city", profile.PlaceName),
		zap.String("tz", profile.TimezoneID),
		zap.Float64("lat", profile.Latitude),
		zap.Float64("lon", profile.Longitude))
	return &profile, nil
}

// QueryPosition answers a position query against the session's profile.
// It refuses to run while the dialog is still collecting slots.
func (s *SessionService) QueryPosition(sess *types.SessionContext, q PositionQuery, now time.Time) (*types.PositionResult, error) {
	if sess.DialogState != types.DialogCompleted {
		return nil, types.ErrDialogInProgress
	}
	if !sess.HasLocation() {
		return nil, types.ErrNoLocation
	}
	p := sess.ActiveProfile

	instant, err := s.times.Normalize(q.Date, q.Time, p.TimezoneID, now)
	if err != nil {
		return nil, err
	}

	res, err := s.sky.Locate(q.Body, instant, p.Latitude, p.Longitude)
	if err != nil {
		return nil, err
	}
	res.Place = p.PlaceName

	s.logger.Info("🔭 Position computed",
		zap.String("user_id", sess.UserID),
		zap.String("body", res.Body),
		zap.Time("instant", res.Instant),
		zap.Int("azimuth", res.Position.AzimuthDegrees),
		zap.Int("elevation", res.Position.ElevationDegrees))
	return &res, nil
}
