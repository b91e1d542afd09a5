/*
# Module: storage/postgres.go
PostgreSQL profile repository using a pgx pool.

## Linked Modules
- [storage/repository](./repository.go) - Repository interface
- [types/profile](../types/profile.go) - Location profile

## Tags
storage, postgres, persistence, repository

## Exports
PgxQuerier, PostgresProfileRepository, NewPostgresProfileRepository, ConnectPostgres

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "storage/postgres.go" ;
    code:description "PostgreSQL profile repository using a pgx pool" ;
    code:linksTo [
        code:name "storage/repository" ;
        code:path "./repository.go" ;
        code:relationship "Repository interface"
    ], [
        code:name "types/profile" ;
        code:path "../types/profile.go" ;
        code:relationship "Location profile"
    ] ;
    code:exports :PgxQuerier, :PostgresProfileRepository, :NewPostgresProfileRepository, :ConnectPostgres ;
    code:tags "storage", "postgres", "persistence", "repository" .
<!-- End LinkedDoc RDF -->
*/
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/pavelanni/NightSky/types"
)

// PgxQuerier is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx
type PgxQuerier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const (
	createProfilesTable = `CREATE TABLE IF NOT EXISTS user_locations (
	user_id    TEXT PRIMARY KEY,
	user_city  TEXT NOT NULL,
	user_tz    TEXT NOT NULL,
	lat        DOUBLE PRECISION NOT NULL,
	lon        DOUBLE PRECISION NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

	upsertProfile = `INSERT INTO user_locations (user_id, user_city, user_tz, lat, lon, updated_at)
VALUES ($1, $2, $3, $4, $5, now())
ON CONFLICT (user_id) DO UPDATE SET
	user_city = EXCLUDED.user_city,
	user_tz = EXCLUDED.user_tz,
	lat = EXCLUDED.lat,
	lon = EXCLUDED.lon,
	updated_at = now()`

	selectProfile = `SELECT user_id, user_city, user_tz, lat, lon FROM user_locations WHERE user_id = $1`
)

// ConnectPostgres opens a pool and verifies the connection
func ConnectPostgres(ctx context.Context, dsn string, logger *zap.Logger) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database url: %w", err)
	}
	cfg.MaxConns = 10
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.HealthCheckPeriod = time.Minute
	cfg.ConnConfig.ConnectTimeout = 10 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}

	logger.Info("🐘 Connected to PostgreSQL",
		zap.String("host", cfg.ConnConfig.Host),
		zap.String("database", cfg.ConnConfig.Database))
	return pool, nil
}

// PostgresProfileRepository implements ProfileRepository using PostgreSQL
type PostgresProfileRepository struct {
	db      PgxQuerier
	timeout time.Duration
	logger  *zap.Logger
}

// NewPostgresProfileRepository creates a new PostgreSQL profile repository
func NewPostgresProfileRepository(db PgxQuerier, timeout time.Duration, logger *zap.Logger) *PostgresProfileRepository {
	return &PostgresProfileRepository{
		db:      db,
		timeout: timeout,
		logger:  logger,
	}
}

// EnsureSchema creates the profile table when missing
func (r *PostgresProfileRepository) EnsureSchema(ctx context.Context) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	if _, err := r.db.Exec(ctx, createProfilesTable); err != nil {
		return unavailable("create user_locations", err)
	}
	return nil
}

// Load retrieves a profile by user id
func (r *PostgresProfileRepository) Load(ctx context.Context, userID string) (*types.LocationProfile, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var p types.LocationProfile
	err := r.db.QueryRow(ctx, selectProfile, userID).
		Scan(&p.UserID, &p.PlaceName, &p.TimezoneID, &p.Latitude, &p.Longitude)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", types.ErrProfileNotFound, userID)
	}
	if err != nil {
		return nil, unavailable("select profile", err)
	}
	return &p, nil
}

// Save upserts the profile row
func (r *PostgresProfileRepository) Save(ctx context.Context, profile types.LocationProfile) error {
	if err := profile.Validate(); err != nil {
		return err
	}

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.db.Exec(ctx, upsertProfile,
		profile.UserID, profile.PlaceName, profile.TimezoneID, profile.Latitude, profile.Longitude)
	if err != nil {
		return unavailable("upsert profile", err)
	}

	r.logger.Info("💾 Profile saved to PostgreSQL",
		zap.String("user_id", profile.UserID),
		zap.String("user_city", profile.PlaceName))
	return nil
}
