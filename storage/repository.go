/*
# Module: storage/repository.go
Profile repository contract shared by every backend.

## Linked Modules
- [types/profile](../types/profile.go) - Location profile
- [types/errors](../types/errors.go) - Error taxonomy

## Tags
storage, repository, interface, persistence

## Exports
ProfileRepository

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "storage/repository.go" ;
    code:description "Profile repository contract shared by every backend" ;
    code:linksTo [
        code:name "types/profile" ;
        code:path "../types/profile.go" ;
        code:relationship "Location profile"
    ], [
        code:name "types/errors" ;
        code:path "../types/errors.go" ;
        code:relationship "Error taxonomy"
    ] ;
    code:exports :ProfileRepository ;
    code:tags "storage", "repository", "interface", "persistence" .
<!-- End LinkedDoc RDF -->
*/
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pavelanni/NightSky/types"
)

// ProfileRepository handles location profile persistence.
//
// Load returns types.ErrProfileNotFound when the user has no profile and
// types.ErrStoreUnavailable when the backend cannot answer. Save is an upsert
// keyed by user id and refuses incomplete profiles with
// types.ErrIncompleteProfile.
type ProfileRepository interface {
	Load(ctx context.Context, userID string) (*types.LocationProfile, error)
	Save(ctx context.Context, profile types.LocationProfile) error
}

// DefaultTableName matches the table the skill has always used
const DefaultTableName = "user_locations"

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// unavailable wraps a backend failure. Deadline and cancellation errors are
// reported the same way so callers never hang on a slow store.
func unavailable(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s timed out", types.ErrStoreUnavailable, op)
	}
	return fmt.Errorf("%w: %s: %v", types.ErrStoreUnavailable, op, err)
}
