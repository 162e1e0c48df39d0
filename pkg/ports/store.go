package ports

import (
	"context"
	"time"

	"github.com/aretw0/lattice/pkg/domain"
)

// Values holds the committed node values of a session, keyed by node id.
type Values map[domain.NodeID]domain.Value

// ValueStore persists the values a host needs to hydrate a freshly built graph
// on the next interaction. The graph itself is never stored.
type ValueStore interface {
	// Save replaces the values stored for sessionID.
	Save(ctx context.Context, sessionID string, values Values) error

	// Load retrieves the values for sessionID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (Values, error)

	// Delete removes the session.
	Delete(ctx context.Context, sessionID string) error

	// List returns the ids of the active sessions.
	List(ctx context.Context) ([]string, error)
}

// UnlockFunc is a function that releases a distributed lock.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker coordinates access to one session across several replicas.
type DistributedLocker interface {
	// Lock blocks until the lock for key is held or ctx is done.
	// The returned UnlockFunc MUST be called to release the lock.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
