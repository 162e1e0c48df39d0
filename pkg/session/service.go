package session

import (
	"context"
	"fmt"
	"maps"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/graph"
)

// GraphFactory builds a fresh graph for one interaction.
type GraphFactory func() (*graph.Graph, error)

// Evaluator is the subset of the engine a Service drives.
type Evaluator interface {
	Compute(ctx context.Context, g *graph.Graph) (map[domain.NodeID]domain.Snapshot, error)
	Apply(ctx context.Context, g *graph.Graph, edits map[domain.NodeID]domain.Value, explicit ...domain.NodeID) (map[domain.NodeID]domain.Snapshot, domain.IDSet, error)
}

// Result is the outcome of one interaction, in graph declaration order.
type Result struct {
	SessionID string            `json:"session_id"`
	Nodes     []domain.Snapshot `json:"nodes"`
	Visited   []domain.NodeID   `json:"visited"`
	// Changed lists the visited nodes whose committed value actually differs.
	Changed []domain.NodeID `json:"changed"`
}

// Service runs engine interactions against stored sessions. Each call builds its own
// graph from the factory, so a Service is safe for concurrent use.
type Service struct {
	factory GraphFactory
	engine  Evaluator
	manager *Manager
}

// NewService wires a graph factory, an engine and a session manager together.
func NewService(factory GraphFactory, engine Evaluator, manager *Manager) *Service {
	return &Service{factory: factory, engine: engine, manager: manager}
}

// Manager returns the session manager.
func (s *Service) Manager() *Manager {
	return s.manager
}

// Graph builds a fresh, unevaluated graph.
func (s *Service) Graph() (*graph.Graph, error) {
	return s.factory()
}

// Start runs a full evaluation, after writing the initial edits, and stores the result
// under sessionID. An empty sessionID gets a fresh one. An existing session is replaced.
func (s *Service) Start(ctx context.Context, sessionID string, edits map[domain.NodeID]domain.Value) (*Result, error) {
	if sessionID == "" {
		sessionID = NewID()
	}
	g, err := s.factory()
	if err != nil {
		return nil, err
	}

	var res *Result
	err = s.manager.WithLock(ctx, sessionID, func(ctx context.Context) error {
		if err := g.SetMany(edits); err != nil {
			return err
		}
		if _, err := s.engine.Compute(ctx, g); err != nil {
			return err
		}
		if err := s.manager.store.Save(ctx, sessionID, g.Values()); err != nil {
			return fmt.Errorf("failed to save session %s: %w", sessionID, err)
		}
		res = result(sessionID, g, domain.NewIDSet(g.IDs()...), domain.Diff(nil, g.Values()))
		return nil
	})
	return res, err
}

// Update applies edits to a stored session and recomputes the affected nodes.
// explicit names nodes to recompute even if nothing they propagate from changed.
func (s *Service) Update(ctx context.Context, sessionID string, edits map[domain.NodeID]domain.Value, explicit ...domain.NodeID) (*Result, error) {
	g, err := s.factory()
	if err != nil {
		return nil, err
	}

	var res *Result
	err = s.manager.Interact(ctx, sessionID, g, func(ctx context.Context, g *graph.Graph, existing bool) error {
		if !existing {
			return fmt.Errorf("session %s: %w", sessionID, domain.ErrSessionNotFound)
		}
		before := g.Values()
		_, visited, err := s.engine.Apply(ctx, g, maps.Clone(edits), explicit...)
		if err != nil {
			return err
		}
		res = result(sessionID, g, visited, domain.Diff(before, g.Values()))
		return nil
	})
	return res, err
}

// Get returns the stored state of a session without evaluating anything.
func (s *Service) Get(ctx context.Context, sessionID string) (*Result, error) {
	values, err := s.manager.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	g, err := s.factory()
	if err != nil {
		return nil, err
	}
	g.Restore(values)
	return result(sessionID, g, nil, nil), nil
}

// Delete removes a session.
func (s *Service) Delete(ctx context.Context, sessionID string) error {
	return s.manager.Delete(ctx, sessionID)
}

// Describe lists the graph's nodes without values.
func (s *Service) Describe() ([]domain.NodeInfo, error) {
	g, err := s.factory()
	if err != nil {
		return nil, err
	}
	nodes := g.Nodes()
	out := make([]domain.NodeInfo, len(nodes))
	for i, n := range nodes {
		out[i] = n.Info()
	}
	return out, nil
}

func result(sessionID string, g *graph.Graph, visited domain.IDSet, delta *domain.Delta) *Result {
	res := &Result{SessionID: sessionID, Visited: []domain.NodeID{}, Changed: []domain.NodeID{}}
	for _, n := range g.Nodes() {
		res.Nodes = append(res.Nodes, n.Snapshot())
		if visited.Has(n.ID) {
			res.Visited = append(res.Visited, n.ID)
		}
		if delta.Has(n.ID) {
			res.Changed = append(res.Changed, n.ID)
		}
	}
	return res
}
