package manifest

import (
	"fmt"
	"os"
	"slices"

	"github.com/aretw0/lattice/internal/compiler"
	"github.com/aretw0/lattice/internal/dto"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/dsl"
	"github.com/aretw0/lattice/pkg/graph"
)

// Node kinds accepted in manifests.
const (
	KindConstant  = "constant"
	KindValue     = "value"
	KindFetch     = "fetch"
	KindQuery     = "query"
	KindClamp     = "clamp"
	KindAggregate = "aggregate"
)

// Definition is a parsed manifest. It is immutable and can build any number of graphs,
// one per request.
type Definition struct {
	doc *dto.Manifest
}

// Load reads a YAML or JSON manifest from path.
func Load(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	return Parse(data, compiler.FormatFromPath(path))
}

// Parse decodes a manifest and checks that it builds.
func Parse(data []byte, format compiler.Format) (*Definition, error) {
	doc, err := compiler.NewParser().Parse(data, format)
	if err != nil {
		return nil, err
	}
	def := &Definition{doc: doc}
	if _, err := def.Build(); err != nil {
		return nil, err
	}
	return def, nil
}

// Name returns the manifest name.
func (d *Definition) Name() string { return d.doc.Name }

// Description returns the manifest description.
func (d *Definition) Description() string { return d.doc.Description }

// Len returns the number of declared nodes.
func (d *Definition) Len() int { return len(d.doc.Nodes) }

// Build assembles a fresh graph from the manifest.
func (d *Definition) Build() (*graph.Graph, error) {
	b := dsl.New()
	for _, n := range d.doc.Nodes {
		if err := declare(b.Add(n.ID), n); err != nil {
			return nil, err
		}
	}
	return b.Build()
}

func declare(nb *dsl.NodeBuilder, n dto.NodeSpec) error {
	switch n.Kind {
	case KindConstant:
		nb.Constant(n.Value)
	case KindValue:
		def := n.Default
		if def == nil {
			def = n.Value
		}
		nb.Value(def)
	case KindFetch:
		nb.Fetch(n.Route)
	case KindQuery:
		nb.Query(n.Route)
	case KindClamp:
		nb.Clamp(n.Source, n.Default)
	case KindAggregate:
		nb.Aggregate()
	default:
		return fmt.Errorf("node %q: unknown kind %q", n.ID, n.Kind)
	}

	if (n.Kind == KindFetch || n.Kind == KindQuery) && n.Route == "" {
		return fmt.Errorf("node %q: %s needs a route", n.ID, n.Kind)
	}
	if n.Kind == KindClamp && n.Source == "" {
		return fmt.Errorf("node %q: clamp needs a source", n.ID)
	}

	names := make([]string, 0, len(n.Params))
	for name := range n.Params {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		nb.Param(name, n.Params[name])
	}
	for _, f := range n.Fields {
		nb.Field(f.Key, f.Ref)
	}
	if n.IDKey != "" {
		nb.IDKey(n.IDKey)
	}
	for _, dep := range n.Dependencies {
		if dep.ResetOnly {
			nb.ResetOn(dep.ID)
		} else {
			nb.DependsOn(dep.ID)
		}
	}
	if n.Passive {
		nb.Passive()
	}
	if n.Writable {
		nb.Writable()
	}
	return nil
}

// Describe returns the manifest's nodes with their edges, as declared, without values.
func (d *Definition) Describe() ([]domain.Snapshot, error) {
	g, err := d.Build()
	if err != nil {
		return nil, err
	}
	nodes := g.Nodes()
	out := make([]domain.Snapshot, len(nodes))
	for i, n := range nodes {
		out[i] = n.Snapshot()
	}
	return out, nil
}
