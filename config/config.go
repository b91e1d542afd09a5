/*
# Module: config/config.go
Environment-driven configuration for the skill server.

## Linked Modules
- [main](../main.go) - Server wiring

## Tags
configuration

## Exports
Config, ServerConfig, StoreConfig, GeocoderConfig, SkillConfig, Load

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "config/config.go" ;
    code:description "Environment-driven configuration for the skill server" ;
    code:linksTo [
        code:name "main" ;
        code:path "../main.go" ;
        code:relationship "Server wiring"
    ] ;
    code:exports :Config, :Load ;
    code:tags "configuration" .
<!-- End LinkedDoc RDF -->
*/
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Profile store backends
const (
	StoreDynamoDB = "dynamodb"
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Geocoding providers
const (
	GeocoderNominatim = "nominatim"
	GeocoderGoogle    = "google"
)

type Config struct {
	Server   ServerConfig
	Store    StoreConfig
	Geocoder GeocoderConfig
	Skill    SkillConfig
}

type ServerConfig struct {
	Port        string
	Development bool
	UseHTTPS    bool
	CertFile    string
	KeyFile     string
}

type StoreConfig struct {
	Backend       string // dynamodb, postgres, memory
	DynamoDBTable string
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	CacheTTL      time.Duration
	Timeout       time.Duration
}

type GeocoderConfig struct {
	Provider           string // nominatim, google
	NominatimURL       string
	NominatimUserAgent string
	GoogleAPIKey       string
	Timeout            time.Duration
}

type SkillConfig struct {
	CoordinatePrecision    int
	TimezoneFallback       bool
	LocationChangesPerHour int
}

// Load reads the configuration from the environment and validates it
func Load() (*Config, error) {
	var errs []string
	parseErr := func(err error) {
		if err != nil {
			errs = append(errs, err.Error())
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			Development: strings.EqualFold(getEnv("APP_ENV", "production"), "development"),
			CertFile:    getEnv("CERT_FILE", ""),
			KeyFile:     getEnv("KEY_FILE", ""),
		},
		Store: StoreConfig{
			Backend:       strings.ToLower(getEnv("STORE_BACKEND", StoreDynamoDB)),
			DynamoDBTable: getEnv("DYNAMODB_TABLE", "user_locations"),
			DatabaseURL:   getEnv("DATABASE_URL", ""),
			RedisAddr:     getEnv("REDIS_ADDR", ""),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
		},
		Geocoder: GeocoderConfig{
			Provider:           strings.ToLower(getEnv("GEOCODER", GeocoderNominatim)),
			NominatimURL:       getEnv("NOMINATIM_URL", "https://nominatim.openstreetmap.org"),
			NominatimUserAgent: getEnv("NOMINATIM_USER_AGENT", "NightSky"),
			GoogleAPIKey:       getEnv("GOOGLE_MAPS_API_KEY", ""),
		},
	}

	var err error
	cfg.Server.UseHTTPS, err = getEnvAsBool("USE_HTTPS", false)
	parseErr(err)
	cfg.Store.CacheTTL, err = getEnvAsDuration("PROFILE_CACHE_TTL", 24*time.Hour)
	parseErr(err)
	cfg.Store.Timeout, err = getEnvAsDuration("STORE_TIMEOUT", 5*time.Second)
	parseErr(err)
	cfg.Geocoder.Timeout, err = getEnvAsDuration("GEOCODE_TIMEOUT", 10*time.Second)
	parseErr(err)
	cfg.Skill.CoordinatePrecision, err = getEnvAsInt("COORD_PRECISION", 2)
	parseErr(err)
	cfg.Skill.TimezoneFallback, err = getEnvAsBool("TZ_FALLBACK", true)
	parseErr(err)
	cfg.Skill.LocationChangesPerHour, err = getEnvAsInt("LOCATION_CHANGES_PER_HOUR", 10)
	parseErr(err)

	errs = append(errs, cfg.validate()...)
	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	return cfg, nil
}

// TLSEnabled reports whether the server should listen with TLS
func (c *Config) TLSEnabled() bool {
	return c.Server.UseHTTPS || (c.Server.CertFile != "" && c.Server.KeyFile != "")
}

func (c *Config) validate() []string {
	var errs []string

	switch c.Store.Backend {
	case StoreDynamoDB:
		if c.Store.DynamoDBTable == "" {
			errs = append(errs, "DYNAMODB_TABLE must not be empty")
		}
	case StorePostgres:
		if c.Store.DatabaseURL == "" {
			errs = append(errs, "DATABASE_URL is required for the postgres store")
		}
	case StoreMemory:
	default:
		errs = append(errs, fmt.Sprintf("STORE_BACKEND %q is not one of dynamodb, postgres, memory", c.Store.Backend))
	}

	switch c.Geocoder.Provider {
	case GeocoderNominatim:
		if c.Geocoder.NominatimUserAgent == "" {
			errs = append(errs, "NOMINATIM_USER_AGENT must not be empty")
		}
	case GeocoderGoogle:
		if c.Geocoder.GoogleAPIKey == "" {
			errs = append(errs, "GOOGLE_MAPS_API_KEY is required for the google geocoder")
		}
	default:
		errs = append(errs, fmt.Sprintf("GEOCODER %q is not one of nominatim, google", c.Geocoder.Provider))
	}

	if (c.Server.CertFile == "") != (c.Server.KeyFile == "") {
		errs = append(errs, "CERT_FILE and KEY_FILE must be set together")
	}
	if c.Skill.CoordinatePrecision < 0 || c.Skill.CoordinatePrecision > 6 {
		errs = append(errs, "COORD_PRECISION must be between 0 and 6")
	}
	if c.Skill.LocationChangesPerHour < 0 {
		errs = append(errs, "LOCATION_CHANGES_PER_HOUR must not be negative")
	}
	for _, d := range []struct {
		name  string
		value time.Duration
	}{
		{"STORE_TIMEOUT", c.Store.Timeout},
		{"GEOCODE_TIMEOUT", c.Geocoder.Timeout},
		{"PROFILE_CACHE_TTL", c.Store.CacheTTL},
	} {
		if d.value <= 0 {
			errs = append(errs, d.name+" must be positive")
		}
	}
	return errs
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) (int, error) {
	v := getEnv(key, "")
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback, fmt.Errorf("%s: %q is not an integer", key, v)
	}
	return n, nil
}

func getEnvAsBool(key string, fallback bool) (bool, error) {
	v := getEnv(key, "")
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback, fmt.Errorf("%s: %q is not a boolean", key, v)
	}
	return b, nil
}

func getEnvAsDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := getEnv(key, "")
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback, fmt.Errorf("%s: %q is not a duration", key, v)
	}
	return d, nil
}
