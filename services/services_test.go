package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pavelanni/NightSky/gazetteer"
	"github.com/pavelanni/NightSky/storage"
	"github.com/pavelanni/NightSky/types"
)

type fakeGeocoder struct {
	mu      sync.Mutex
	results map[string]types.GeocodeResult
	err     error
	block   bool
	calls   int
}

func (f *fakeGeocoder) Geocode(ctx context.Context, place string) (*types.GeocodeResult, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.err != nil {
		return nil, f.err
	}
	r, ok := f.results[place]
	if !ok {
		return nil, types.ErrGeocodeNotFound
	}
	return &r, nil
}

type fakeZones map[[2]float64]string

func (z fakeZones) ZoneAt(lat, lon float64) string {
	return z[[2]float64{lat, lon}]
}

type fakeGazetteer map[string]gazetteer.Coordinate

func (g fakeGazetteer) Lookup(name string) (gazetteer.Coordinate, bool) {
	c, ok := g[name]
	return c, ok
}

type failingRepo struct {
	err error
}

func (r failingRepo) Load(context.Context, string) (*types.LocationProfile, error) {
	return nil, r.err
}

func (r failingRepo) Save(context.Context, types.LocationProfile) error {
	return r.err
}

const testUser = "amzn1.ask.account.TEST"

func newTestGeocoder() *fakeGeocoder {
	return &fakeGeocoder{results: map[string]types.GeocodeResult{
		"Paris":        {Latitude: 48.8534, Longitude: 2.3488, DisplayName: "Paris, Île-de-France, France"},
		"Reykjavik":    {Latitude: 64.1466, Longitude: -21.9426, DisplayName: "Reykjavík, Iceland"},
		"Atlantis":     {Latitude: 30.0, Longitude: -40.0, DisplayName: "Atlantis"},
		"Smalltown":    {Latitude: 45.0, Longitude: 5.0, DisplayName: "Smalltown, France"},
		"Paris, Texas": {Latitude: 33.6609, Longitude: -95.5555, DisplayName: "Paris, Lamar County, Texas, United States"},
		"Portland":     {Latitude: 45.5152, Longitude: -122.6784, DisplayName: "Portland, Oregon, United States"},
	}}
}

func newTestGazetteer() fakeGazetteer {
	return fakeGazetteer{
		"Paris":     {Latitude: 48.8566, Longitude: 2.3522},
		"Reykjavik": {Latitude: 64.1466, Longitude: -21.9426},
		"Portland":  {Latitude: 43.6591, Longitude: -70.2568},
	}
}

func newTestZones() fakeZones {
	return fakeZones{
		{48.8566, 2.3522}:    "Europe/Paris",
		{64.1466, -21.9426}:  "Atlantic/Reykjavik",
		{45.0, 5.0}:          "Europe/Paris",
		{48.8534, 2.3488}:    "Europe/Paris",
		{-10.0, -10.0}:       "Not/AZone",
		{33.6609, -95.5555}:  "America/Chicago",
		{43.6591, -70.2568}:  "America/New_York",
		{45.5152, -122.6784}: "America/Los_Angeles",
	}
}

type fixture struct {
	svc      *SessionService
	repo     *storage.MemoryProfileRepository
	geocoder *fakeGeocoder
}

func newFixture(t *testing.T, opts SessionOptions, limiter *LocationChangeLimiter) fixture {
	t.Helper()
	geocoder := newTestGeocoder()
	repo := storage.NewMemoryProfileRepository()
	geo := NewGeoResolver(geocoder, newTestGazetteer(), newTestZones(), time.Second, zap.NewNop())
	svc := NewSessionService(repo, geo, NewTimeNormalizer(), NewSkyCalculator(), limiter, opts, zap.NewNop())
	return fixture{svc: svc, repo: repo, geocoder: geocoder}
}

// --- GeoResolver ---

func TestResolveTimezone(t *testing.T) {
	geo := NewGeoResolver(newTestGeocoder(), newTestGazetteer(), newTestZones(), time.Second, zap.NewNop())

	assert.Equal(t, "Europe/Paris", geo.ResolveTimezone("Paris"))
	assert.Equal(t, "Atlantic/Reykjavik", geo.ResolveTimezone("Reykjavik"))
	assert.Empty(t, geo.ResolveTimezone("Smalltown"))
	assert.Empty(t, geo.ResolveTimezone(""))
}

func TestTimezoneAtRejectsUnknownZone(t *testing.T) {
	geo := NewGeoResolver(newTestGeocoder(), newTestGazetteer(), newTestZones(), time.Second, zap.NewNop())

	assert.Equal(t, "Europe/Paris", geo.TimezoneAt(45.0, 5.0))
	assert.Empty(t, geo.TimezoneAt(-10.0, -10.0))
	assert.Empty(t, geo.TimezoneAt(0, 0))
}

func TestLatLongZonesWithDefaultGazetteer(t *testing.T) {
	geo := NewGeoResolver(newTestGeocoder(), gazetteer.Default(), LatLongZones{}, time.Second, zap.NewNop())

	assert.Equal(t, "Europe/Paris", geo.ResolveTimezone("Paris"))
	assert.Equal(t, "Asia/Tokyo", geo.ResolveTimezone("tokyo"))
	assert.Empty(t, geo.ResolveTimezone("Nowhereville"))
}

func TestResolveCoordinates(t *testing.T) {
	geo := NewGeoResolver(newTestGeocoder(), newTestGazetteer(), newTestZones(), time.Second, zap.NewNop())

	lat, lon, err := geo.ResolveCoordinates(context.Background(), "Paris")
	require.NoError(t, err)
	assert.InDelta(t, 48.85, lat, 0.01)
	assert.InDelta(t, 2.35, lon, 0.01)

	_, _, err = geo.ResolveCoordinates(context.Background(), "Xyzzyville")
	assert.ErrorIs(t, err, types.ErrGeocodeNotFound)

	_, _, err = geo.ResolveCoordinates(context.Background(), "   ")
	assert.ErrorIs(t, err, types.ErrGeocodeNotFound)
}

func TestResolveCoordinatesServiceFailures(t *testing.T) {
	t.Run("unclassified error", func(t *testing.T) {
		g := &fakeGeocoder{err: errors.New("connection reset")}
		geo := NewGeoResolver(g, newTestGazetteer(), newTestZones(), time.Second, zap.NewNop())

		_, _, err := geo.ResolveCoordinates(context.Background(), "Paris")
		assert.ErrorIs(t, err, types.ErrGeocodeServiceUnavailable)
	})

	t.Run("timeout", func(t *testing.T) {
		g := &fakeGeocoder{block: true}
		geo := NewGeoResolver(g, newTestGazetteer(), newTestZones(), 20*time.Millisecond, zap.NewNop())

		_, _, err := geo.ResolveCoordinates(context.Background(), "Paris")
		assert.ErrorIs(t, err, types.ErrGeocodeServiceUnavailable)
	})

	t.Run("out of range result", func(t *testing.T) {
		g := &fakeGeocoder{results: map[string]types.GeocodeResult{"Bad": {Latitude: 123, Longitude: 0}}}
		geo := NewGeoResolver(g, newTestGazetteer(), newTestZones(), time.Second, zap.NewNop())

		_, _, err := geo.ResolveCoordinates(context.Background(), "Bad")
		assert.ErrorIs(t, err, types.ErrGeocodeServiceUnavailable)
	})
}

func TestGazetteerAgrees(t *testing.T) {
	geo := NewGeoResolver(newTestGeocoder(), newTestGazetteer(), newTestZones(), time.Second, zap.NewNop())

	assert.True(t, geo.GazetteerAgrees("Paris", 48.8534, 2.3488))
	assert.False(t, geo.GazetteerAgrees("Portland", 45.5152, -122.6784), "Maine entry, Oregon coordinate")
	assert.False(t, geo.GazetteerAgrees("Smalltown", 45.0, 5.0), "not in gazetteer")
}

func TestDistanceKm(t *testing.T) {
	assert.InDelta(t, 344, distanceKm(51.5074, -0.1278, 48.8566, 2.3522), 5)
	assert.InDelta(t, 0, distanceKm(10, 20, 10, 20), 1e-9)
}

func TestDefaultGazetteerMissesQualifiedHomonym(t *testing.T) {
	geo := NewGeoResolver(newTestGeocoder(), gazetteer.Default(), LatLongZones{}, time.Second, zap.NewNop())

	assert.Empty(t, geo.ResolveTimezone("Paris, Texas"))
	assert.Empty(t, geo.ResolveTimezone("Moscow, Idaho"))
}

// --- SkyCalculator ---

func TestPositionOfMarsFromParis(t *testing.T) {
	sky := NewSkyCalculator()
	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	pos, err := sky.PositionOf("Mars", at, 48.85, 2.35)
	require.NoError(t, err)
	assert.InDelta(t, 243, pos.AzimuthDegrees, 1)
	assert.InDelta(t, 32, pos.ElevationDegrees, 1)
	assert.False(t, pos.BelowHorizon())

	again, err := sky.PositionOf("mars", at, 48.85, 2.35)
	require.NoError(t, err)
	assert.Equal(t, pos, again)
}

func TestPositionOfSunAtMidnightIsBelowHorizon(t *testing.T) {
	sky := NewSkyCalculator()
	at := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	pos, err := sky.PositionOf("Sun", at, 51.48, 0)
	require.NoError(t, err)
	assert.True(t, pos.BelowHorizon())
}

func TestPositionOfRanges(t *testing.T) {
	sky := NewSkyCalculator()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 200; i++ {
		at := start.Add(time.Duration(i) * 37 * time.Hour)
		for _, name := range []string{"Sun", "Moon", "Venus", "Saturn", "Pluto"} {
			pos, err := sky.PositionOf(name, at, -33.87, 151.21)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, pos.AzimuthDegrees, 0)
			assert.Less(t, pos.AzimuthDegrees, 360)
			assert.GreaterOrEqual(t, pos.ElevationDegrees, -90)
			assert.LessOrEqual(t, pos.ElevationDegrees, 90)
		}
	}
}

func TestPositionOfErrors(t *testing.T) {
	sky := NewSkyCalculator()
	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	_, err := sky.PositionOf("Vulcan", at, 48.85, 2.35)
	assert.ErrorIs(t, err, types.ErrUnknownBody)

	_, err = sky.PositionOf("Mars", at, 91, 2.35)
	assert.ErrorIs(t, err, types.ErrInvalidCoordinate)

	_, err = sky.PositionOf("Mars", at, 48.85, -181)
	assert.ErrorIs(t, err, types.ErrInvalidCoordinate)
}

func TestLocateCanonicalName(t *testing.T) {
	res, err := NewSkyCalculator().Locate("the moon", time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC), 48.85, 2.35)
	require.NoError(t, err)
	assert.Equal(t, "Moon", res.Body)
}

// --- LocationChangeLimiter ---

func TestLocationChangeLimiter(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	l := NewLocationChangeLimiter(2)
	l.now = func() time.Time { return now }

	assert.Equal(t, 2, l.Remaining("u1"))
	assert.True(t, l.Allowed("u1"))
	assert.Equal(t, 2, l.Remaining("u1"), "checking records nothing")

	l.Record("u1")
	assert.Equal(t, 1, l.Remaining("u1"))
	l.Record("u1")
	assert.False(t, l.Allowed("u1"))

	assert.True(t, l.Allowed("u2"), "limits are per user")

	now = now.Add(61 * time.Minute)
	assert.True(t, l.Allowed("u1"), "window slides")

	now = now.Add(2 * time.Hour)
	l.cleanup()
	assert.Equal(t, 0, l.tracked())
}

func TestLocationChangeLimiterDisabled(t *testing.T) {
	var nilLimiter *LocationChangeLimiter
	assert.True(t, nilLimiter.Allowed("u1"))
	nilLimiter.Record("u1")

	l := NewLocationChangeLimiter(0)
	for i := 0; i < 50; i++ {
		l.Record("u1")
		require.True(t, l.Allowed("u1"))
	}
	assert.Equal(t, 0, l.tracked())
}

func TestLocationChangeLimiterRunStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		NewLocationChangeLimiter(1).Run(ctx, time.Millisecond)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

// --- Session attributes ---

func TestSessionAttributesRoundTrip(t *testing.T) {
	sess := &types.SessionContext{
		UserID: testUser,
		ActiveProfile: &types.LocationProfile{
			UserID: testUser, PlaceName: "Paris", Latitude: 48.85, Longitude: 2.35, TimezoneID: "Europe/Paris",
		},
	}

	resumed, ok := ResumeSession(testUser, SessionAttributes(sess))
	require.True(t, ok)
	assert.Equal(t, sess.ActiveProfile, resumed.ActiveProfile)
}

func TestResumeSessionAcceptsStringCoordinates(t *testing.T) {
	sess, ok := ResumeSession(testUser, map[string]interface{}{
		AttrCity: "Paris", AttrTimezone: "Europe/Paris", AttrLat: "48.85", AttrLon: "2.35",
	})
	require.True(t, ok)
	assert.Equal(t, 48.85, sess.ActiveProfile.Latitude)
}

func TestResumeSessionWithoutProfile(t *testing.T) {
	sess, ok := ResumeSession(testUser, map[string]interface{}{AttrUserID: testUser})
	assert.False(t, ok)
	assert.False(t, sess.HasLocation())

	sess, ok = ResumeSession(testUser, map[string]interface{}{
		AttrCity: "Paris", AttrLat: 48.85, AttrLon: 2.35,
	})
	assert.False(t, ok, "missing timezone")
	assert.Nil(t, sess.ActiveProfile)

	_, ok = ResumeSession(testUser, nil)
	assert.False(t, ok)
}
