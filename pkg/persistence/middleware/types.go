package middleware

import "github.com/aretw0/lattice/pkg/ports"

// Middleware allows wrapping a ValueStore to add behavior.
type Middleware func(ports.ValueStore) ports.ValueStore

// Chain applies mws so that the first one is the outermost wrapper.
func Chain(store ports.ValueStore, mws ...Middleware) ports.ValueStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
