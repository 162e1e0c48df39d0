package ports

import (
	"context"

	"github.com/aretw0/lattice/pkg/domain"
)

// RemoteResolver is the host capability used by fetch nodes.
// The engine treats it as an opaque synchronous call: it never retries and never caches,
// and any error it returns reaches the caller of Compute/ComputeUpdate unchanged.
type RemoteResolver interface {
	Resolve(ctx context.Context, call domain.RemoteCall) (domain.Value, error)
}

// ResolverFunc adapts a plain function to the RemoteResolver interface.
type ResolverFunc func(ctx context.Context, call domain.RemoteCall) (domain.Value, error)

// Resolve calls f(ctx, call).
func (f ResolverFunc) Resolve(ctx context.Context, call domain.RemoteCall) (domain.Value, error) {
	return f(ctx, call)
}
