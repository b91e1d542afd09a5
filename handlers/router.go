/*
# Module: handlers/router.go
HTTP route table for the skill server.

## Linked Modules
- [handlers/skill](./skill.go) - Skill endpoint
- [handlers/health](./health.go) - Health check

## Tags
http, routing

## Exports
NewRouter

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "handlers/router.go" ;
    code:description "HTTP route table for the skill server" ;
    code:linksTo [
        code:name "handlers/skill" ;
        code:path "./skill.go" ;
        code:relationship "Skill endpoint"
    ], [
        code:name "handlers/health" ;
        code:path "./health.go" ;
        code:relationship "Health check"
    ] ;
    code:exports :NewRouter ;
    code:tags "http", "routing" .
<!-- End LinkedDoc RDF -->
*/
package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// NewRouter mounts the skill and health endpoints
func NewRouter(skill http.Handler, store string, logger *zap.Logger) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/api/health", HandleHealth(store, logger))
	r.Method(http.MethodPost, "/skill", skill)

	return r
}
