/*
# Module: main.go
Sky Guide skill server entry point.

## Linked Modules
- [app](./app.go) - Component wiring
- [tls](./tls.go) - Certificate handling
- [config/config](./config/config.go) - Configuration

## Tags
entrypoint, http

## Exports
main

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "main.go" ;
    code:description "Sky Guide skill server entry point" ;
    code:linksTo [
        code:name "app" ;
        code:path "./app.go" ;
        code:relationship "Component wiring"
    ], [
        code:name "tls" ;
        code:path "./tls.go" ;
        code:relationship "Certificate handling"
    ], [
        code:name "config/config" ;
        code:path "./config/config.go" ;
        code:relationship "Configuration"
    ] ;
    code:exports :main ;
    code:tags "entrypoint", "http" .
<!-- End LinkedDoc RDF -->
*/
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/pavelanni/NightSky/config"
)

const (
	limiterCleanupInterval = 5 * time.Minute
	shutdownTimeout        = 10 * time.Second
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to create logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := newApp(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("❌ Failed to initialize", zap.Error(err))
	}
	defer app.Close()

	go app.limiter.Run(ctx, limiterCleanupInterval)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           app.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("✅ Sky Guide starting",
			zap.String("port", cfg.Server.Port),
			zap.String("store", cfg.Store.Backend),
			zap.String("geocoder", cfg.Geocoder.Provider))

		if cfg.TLSEnabled() {
			certFile, keyFile, err := ensureCertificate(cfg.Server.CertFile, cfg.Server.KeyFile, logger)
			if err != nil {
				errCh <- err
				return
			}
			logger.Info("🔐 HTTPS mode enabled")
			errCh <- srv.ListenAndServeTLS(certFile, keyFile)
			return
		}
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("❌ Server failed", zap.Error(err))
		}
	case <-ctx.Done():
		logger.Info("🛑 Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("❌ Graceful shutdown failed", zap.Error(err))
		}
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Server.Development {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
