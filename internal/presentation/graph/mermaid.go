package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/lattice/pkg/domain"
	lgraph "github.com/aretw0/lattice/pkg/graph"
)

// GraphOverlay contains pass data to visualize on the graph.
type GraphOverlay struct {
	Visited []domain.NodeID
	Changed []domain.NodeID
}

// GenerateMermaid produces a Mermaid flowchart from a list of nodes.
// Arrows point from a dependency to its dependent. It applies semantic styling:
// - Input: [/Parallelogram/]
// - Remote fetch: [[Subroutine]]
// - Clamp: {{Hexagon}}
// - Aggregate: ([Stadium])
// - Default: [Rectangle]
// Propagating edges are solid, ResetOnly edges dotted.
func GenerateMermaid(nodes []*lgraph.Node, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, node := range nodes {
		safeID := sanitizeMermaidID(node.ID)

		opener, closer := "[", "]"
		if node.Computator != nil {
			switch node.Computator.Kind() {
			case lgraph.KindInput:
				opener, closer = "[/", "/]"
			case lgraph.KindRemoteFetch:
				opener, closer = "[[", "]]"
			case lgraph.KindRangeClamped:
				opener, closer = "{{", "}}"
			case lgraph.KindAggregate:
				opener, closer = "([", "])"
			}
		}

		label := string(node.ID)
		if node.Writable {
			label += " ✎"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", safeID, opener, label, closer)
	}

	for _, node := range nodes {
		for _, e := range node.Edges {
			arrow := "-->"
			if e.Kind == domain.ResetOnly {
				arrow = "-.->"
			}
			fmt.Fprintf(&sb, "    %s %s %s\n", sanitizeMermaidID(e.Target), arrow, sanitizeMermaidID(node.ID))
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text for contrast on both light and dark themes.
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef changed fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		writeClass(&sb, overlay.Visited, "visited")
		writeClass(&sb, overlay.Changed, "changed")
	}

	return sb.String()
}

func writeClass(sb *strings.Builder, ids []domain.NodeID, class string) {
	seen := make(map[string]bool)
	for _, id := range ids {
		safeID := sanitizeMermaidID(id)
		if safeID == "" || seen[safeID] {
			continue
		}
		seen[safeID] = true
		fmt.Fprintf(sb, "    class %s %s;\n", safeID, class)
	}
}

func sanitizeMermaidID(id domain.NodeID) string {
	return strings.NewReplacer(
		".", "_",
		"-", "_",
		"/", "_",
		"\\", "_",
		":", "_",
		" ", "_",
	).Replace(string(id))
}
