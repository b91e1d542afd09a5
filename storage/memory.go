/*
# Module: storage/memory.go
In-memory profile repository for local runs and tests.

## Linked Modules
- [storage/repository](./repository.go) - Repository interface

## Tags
storage, memory, persistence

## Exports
MemoryProfileRepository, NewMemoryProfileRepository

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "storage/memory.go" ;
    code:description "In-memory profile repository for local runs and tests" ;
    code:linksTo [
        code:name "storage/repository" ;
        code:path "./repository.go" ;
        code:relationship "Repository interface"
    ] ;
    code:exports :MemoryProfileRepository, :NewMemoryProfileRepository ;
    code:tags "storage", "memory", "persistence" .
<!-- End LinkedDoc RDF -->
*/
package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/pavelanni/NightSky/types"
)

// MemoryProfileRepository keeps profiles in a map. Data is lost on restart.
type MemoryProfileRepository struct {
	profiles map[string]types.LocationProfile
	mu       sync.RWMutex
}

// NewMemoryProfileRepository creates an empty in-memory repository
func NewMemoryProfileRepository() *MemoryProfileRepository {
	return &MemoryProfileRepository{
		profiles: make(map[string]types.LocationProfile),
	}
}

// Load returns a copy of the stored profile
func (r *MemoryProfileRepository) Load(ctx context.Context, userID string) (*types.LocationProfile, error) {
	if err := ctx.Err(); err != nil {
		return nil, unavailable("load profile", err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.profiles[userID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", types.ErrProfileNotFound, userID)
	}
	return &p, nil
}

// Save upserts the profile
func (r *MemoryProfileRepository) Save(ctx context.Context, profile types.LocationProfile) error {
	if err := profile.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return unavailable("save profile", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[profile.UserID] = profile
	return nil
}

// Count returns the number of stored profiles
func (r *MemoryProfileRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.profiles)
}
