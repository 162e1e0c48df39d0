package runtime

import (
	"context"
	"fmt"
	"time"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/graph"
)

// pass is the state of one evaluation. Values computed during the pass are staged
// and only reach the graph through Commit once every node succeeded.
type pass struct {
	ctx     context.Context
	eval    *Evaluator
	g       *graph.Graph
	changed domain.IDSet
	staged  map[domain.NodeID]domain.Value
}

func newPass(ctx context.Context, eval *Evaluator, g *graph.Graph, changed domain.IDSet) *pass {
	return &pass{
		ctx:     ctx,
		eval:    eval,
		g:       g,
		changed: changed,
		staged:  make(map[domain.NodeID]domain.Value),
	}
}

func (p *pass) Has(id domain.NodeID) bool {
	return p.g.Has(id)
}

// Current prefers the value staged in this pass over the committed one.
func (p *pass) Current(id domain.NodeID) (domain.Value, bool) {
	if v, ok := p.staged[id]; ok {
		return v, true
	}
	return p.g.Current(id)
}

func (p *pass) compute(id domain.NodeID) error {
	n, ok := p.g.Node(id)
	if !ok {
		return &domain.UnknownNodeError{ID: id}
	}

	start := time.Now()
	v, err := n.Computator.Compute(&nodeScope{pass: p, self: id}, p.changed)
	elapsed := time.Since(start)
	p.eval.emitNodeCompute(p.ctx, id, n.Computator.Kind(), elapsed, err)
	if err != nil {
		return err
	}

	p.staged[id] = v
	p.eval.logger.Debug("node computed", "node_id", id, "computator", n.Computator.Kind(), "duration", elapsed)
	return nil
}

// nodeScope is the graph.Scope handed to the computator of a single node.
type nodeScope struct {
	pass *pass
	self domain.NodeID
}

func (s *nodeScope) Context() context.Context { return s.pass.ctx }

func (s *nodeScope) Self() domain.NodeID { return s.self }

func (s *nodeScope) Deref(ref string) (domain.Value, error) {
	return graph.DerefFrom(s.pass, ref)
}

func (s *nodeScope) Current(id domain.NodeID) (domain.Value, bool) {
	return s.pass.Current(id)
}

func (s *nodeScope) Resolve(call domain.RemoteCall) (domain.Value, error) {
	e := s.pass.eval
	if e.resolver == nil {
		return nil, fmt.Errorf("node %q route %q: %w", s.self, call.Route, domain.ErrNoResolver)
	}
	if call.NodeID == "" {
		call.NodeID = s.self
	}

	e.emitRemoteCall(s.pass.ctx, call)
	start := time.Now()
	v, err := e.resolver.Resolve(s.pass.ctx, call)
	e.emitRemoteReturn(s.pass.ctx, call, time.Since(start), err != nil)

	if err != nil {
		e.logger.Debug("remote call failed", "node_id", s.self, "route", call.Route, "strategy", call.Strategy, "err", err)
		return nil, err
	}
	return v, nil
}
