package middleware

import (
	"context"
	"fmt"
	"regexp"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/ports"
)

// Mask replaces every masked value before it reaches the store.
const Mask = "***"

type piiMiddleware struct {
	next     ports.ValueStore
	patterns []*regexp.Regexp
}

// NewPIIMiddleware creates a middleware that masks stored values whose node id, or
// nested object key, matches one of the patterns. Loaded values keep the mask.
func NewPIIMiddleware(patternStrings []string) (Middleware, error) {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid mask pattern %q: %w", p, err)
		}
		patterns[i] = re
	}
	return func(next ports.ValueStore) ports.ValueStore {
		return &piiMiddleware{next: next, patterns: patterns}
	}, nil
}

func (m *piiMiddleware) Save(ctx context.Context, sessionID string, values ports.Values) error {
	masked := make(ports.Values, len(values))
	for id, v := range values {
		if m.matches(string(id)) {
			masked[id] = Mask
			continue
		}
		masked[id] = m.maskValue(v)
	}
	return m.next.Save(ctx, sessionID, masked)
}

func (m *piiMiddleware) Load(ctx context.Context, sessionID string) (ports.Values, error) {
	return m.next.Load(ctx, sessionID)
}

func (m *piiMiddleware) Delete(ctx context.Context, sessionID string) error {
	return m.next.Delete(ctx, sessionID)
}

func (m *piiMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

func (m *piiMiddleware) matches(key string) bool {
	for _, p := range m.patterns {
		if p.MatchString(key) {
			return true
		}
	}
	return false
}

// maskValue returns a masked copy; the caller's value is never modified.
func (m *piiMiddleware) maskValue(v domain.Value) domain.Value {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, sub := range t {
			if m.matches(k) {
				out[k] = Mask
			} else {
				out[k] = m.maskValue(sub)
			}
		}
		return out
	case *domain.Mapping:
		out := domain.NewMapping()
		for pair := t.Oldest(); pair != nil; pair = pair.Next() {
			if m.matches(pair.Key) {
				out.Set(pair.Key, Mask)
			} else {
				out.Set(pair.Key, m.maskValue(pair.Value))
			}
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, sub := range t {
			out[i] = m.maskValue(sub)
		}
		return out
	default:
		return v
	}
}
