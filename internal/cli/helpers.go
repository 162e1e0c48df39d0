package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/observability"
)

// createDebugHooks logs every pass, node and remote call.
func createDebugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return observability.LogHooks(logger.With("source", "hooks"))
}

// ParseValues decodes a JSON object of node edits, e.g. {"year.value": 2001}.
// An empty string means no edits.
func ParseValues(raw string) (map[domain.NodeID]domain.Value, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var values map[domain.NodeID]domain.Value
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, fmt.Errorf("error parsing values JSON: %w", err)
	}
	return values, nil
}

// ParseIDs turns "a,b" into node ids.
func ParseIDs(raw []string) []domain.NodeID {
	var ids []domain.NodeID
	for _, r := range raw {
		for _, part := range splitList(r) {
			ids = append(ids, domain.NodeID(part))
		}
	}
	return ids
}
