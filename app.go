/*
# Module: app.go
Component wiring for the skill server.

## Linked Modules
- [config/config](./config/config.go) - Configuration
- [storage/repository](./storage/repository.go) - Profile backends
- [handlers/router](./handlers/router.go) - HTTP routes

## Tags
wiring, startup

## Exports
newApp

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "app.go" ;
    code:description "Component wiring for the skill server" ;
    code:linksTo [
        code:name "config/config" ;
        code:path "./config/config.go" ;
        code:relationship "Configuration"
    ], [
        code:name "storage/repository" ;
        code:path "./storage/repository.go" ;
        code:relationship "Profile backends"
    ], [
        code:name "handlers/router" ;
        code:path "./handlers/router.go" ;
        code:relationship "HTTP routes"
    ] ;
    code:exports :newApp ;
    code:tags "wiring", "startup" .
<!-- End LinkedDoc RDF -->
*/
package main

import (
	"context"
	"fmt"
	"net/http"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pavelanni/NightSky/clients"
	"github.com/pavelanni/NightSky/config"
	"github.com/pavelanni/NightSky/gazetteer"
	"github.com/pavelanni/NightSky/handlers"
	"github.com/pavelanni/NightSky/services"
	"github.com/pavelanni/NightSky/storage"
)

// app holds the wired components and whatever must be closed on exit
type app struct {
	router  http.Handler
	limiter *services.LocationChangeLimiter
	closers []func()
}

func newApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app, error) {
	a := &app{}

	repo, err := a.profileRepository(ctx, cfg, logger)
	if err != nil {
		a.Close()
		return nil, err
	}

	geocoder, err := newGeocoder(cfg.Geocoder, logger)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.limiter = services.NewLocationChangeLimiter(cfg.Skill.LocationChangesPerHour)
	geo := services.NewGeoResolver(geocoder, gazetteer.Default(), services.LatLongZones{}, cfg.Geocoder.Timeout, logger)
	sessions := services.NewSessionService(
		repo,
		geo,
		services.NewTimeNormalizer(),
		services.NewSkyCalculator(),
		a.limiter,
		services.SessionOptions{
			CoordinatePrecision: cfg.Skill.CoordinatePrecision,
			TimezoneFallback:    cfg.Skill.TimezoneFallback,
		},
		logger,
	)

	a.router = handlers.NewRouter(handlers.NewSkillHandler(sessions, logger), cfg.Store.Backend, logger)
	return a, nil
}

// Close releases connections in reverse order of creation
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func (a *app) profileRepository(ctx context.Context, cfg *config.Config, logger *zap.Logger) (storage.ProfileRepository, error) {
	var repo storage.ProfileRepository

	switch cfg.Store.Backend {
	case config.StoreDynamoDB:
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		repo = storage.NewDynamoDBProfileRepository(dynamodb.NewFromConfig(awsCfg), cfg.Store.DynamoDBTable, cfg.Store.Timeout, logger)
		logger.Info("💾 Using DynamoDB profile store", zap.String("table", cfg.Store.DynamoDBTable))

	case config.StorePostgres:
		pool, err := storage.ConnectPostgres(ctx, cfg.Store.DatabaseURL, logger)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, pool.Close)

		pg := storage.NewPostgresProfileRepository(pool, cfg.Store.Timeout, logger)
		if err := pg.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		repo = pg

	case config.StoreMemory:
		logger.Warn("⚠️  Using in-memory profile store, locations are lost on restart")
		repo = storage.NewMemoryProfileRepository()

	default:
		return nil, fmt.Errorf("unsupported store backend %q", cfg.Store.Backend)
	}

	if cfg.Store.RedisAddr != "" {
		rdb := storage.NewRedisClient(cfg.Store.RedisAddr, cfg.Store.RedisPassword)
		a.closers = append(a.closers, func() { closeRedis(rdb, logger) })
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("⚠️  Redis not reachable, cache will retry per request",
				zap.String("addr", cfg.Store.RedisAddr), zap.Error(err))
		}
		repo = storage.NewCachedProfileRepository(repo, rdb, cfg.Store.CacheTTL, logger)
		logger.Info("🗄️ Profile cache enabled", zap.String("addr", cfg.Store.RedisAddr))
	}

	return repo, nil
}

func closeRedis(rdb *redis.Client, logger *zap.Logger) {
	if err := rdb.Close(); err != nil {
		logger.Warn("⚠️  Failed to close Redis client", zap.Error(err))
	}
}

func newGeocoder(cfg config.GeocoderConfig, logger *zap.Logger) (services.Geocoder, error) {
	switch cfg.Provider {
	case config.GeocoderNominatim:
		return clients.NewNominatimClient(cfg.NominatimURL, cfg.NominatimUserAgent, cfg.Timeout, logger), nil
	case config.GeocoderGoogle:
		return clients.NewGoogleGeocodeClient(cfg.GoogleAPIKey, clients.DefaultGoogleGeocodeURL, cfg.Timeout, logger), nil
	default:
		return nil, fmt.Errorf("unsupported geocoder %q", cfg.Provider)
	}
}
