package domain

import "fmt"

// FetchStrategy is the capability a fetch node expects from its route.
// It is fixed when the node is constructed.
type FetchStrategy string

const (
	// FetchPort routes return an arbitrary value computed from the params.
	FetchPort FetchStrategy = "port"
	// FetchQuery routes return a sequence of records.
	FetchQuery FetchStrategy = "query"
)

// ParseFetchStrategy validates a strategy name. An empty name means FetchPort.
func ParseFetchStrategy(s string) (FetchStrategy, error) {
	switch FetchStrategy(s) {
	case "", FetchPort:
		return FetchPort, nil
	case FetchQuery:
		return FetchQuery, nil
	default:
		return "", fmt.Errorf("unknown fetch strategy %q (expected port or query)", s)
	}
}

// RemoteCall is the request a fetch node hands to the remote resolver.
type RemoteCall struct {
	NodeID   NodeID         `json:"node_id"`
	Route    string         `json:"route"`
	Strategy FetchStrategy  `json:"strategy"`
	Params   map[string]any `json:"params"`
}
