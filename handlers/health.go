/*
# Module: handlers/health.go
Health check endpoint handler.

## Linked Modules
(None - simple health check with no dependencies)

## Tags
http, health, api

## Exports
HandleHealth

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "handlers/health.go" ;
    code:description "Health check endpoint handler" ;
    code:exports :HandleHealth ;
    code:tags "http", "health", "api" .
<!-- End LinkedDoc RDF -->
*/
package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// HandleHealth returns the GET /api/health handler. store names the
// configured profile backend.
func HandleHealth(store string, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "ok",
			"store":  store,
		}, logger)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}, logger *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("⚠️  Failed to write response", zap.Int("status", status), zap.Error(err))
	}
}
