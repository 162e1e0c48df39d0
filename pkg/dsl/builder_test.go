package dsl

import (
	"errors"
	"reflect"
	"testing"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/graph"
)

func TestBuilder_ReviewerFilter(t *testing.T) {
	b := New()

	b.Add("A.data").Query("reviewers")
	b.Add("A.value").Clamp("A.data", nil)
	b.Add("B.data").
		Query("years").
		Param("reviewer", "A.value")
	b.Add("B.value").Clamp("B.data", nil).IDKey("year")
	b.Add("combinedFilter").
		Aggregate().
		Field("A", "A.value").
		Field("B", "B.value").
		Passive()
	b.Add("statistics").
		Fetch("statistics").
		Param("filter", "combinedFilter")

	g, err := b.Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	wantOrder := []domain.NodeID{"A.data", "A.value", "B.data", "B.value", "combinedFilter", "statistics"}
	if got := g.IDs(); !reflect.DeepEqual(got, wantOrder) {
		t.Errorf("Expected declaration order %v, got %v", wantOrder, got)
	}

	filter, _ := g.Node("combinedFilter")
	wantEdges := []domain.Edge{graph.ResetOn("A.value"), graph.ResetOn("B.value")}
	if !reflect.DeepEqual(filter.Edges, wantEdges) {
		t.Errorf("Expected passive edges %v, got %v", wantEdges, filter.Edges)
	}
	if filter.Writable {
		t.Error("Expected aggregate to be read-only")
	}

	clamp, _ := g.Node("B.value")
	if !clamp.Writable {
		t.Error("Expected clamp to be writable")
	}
	rc, ok := clamp.Computator.(graph.RangeClamped)
	if !ok || rc.IDKey != "year" || rc.Source != "B.data" {
		t.Errorf("Unexpected clamp computator: %#v", clamp.Computator)
	}

	years, _ := g.Node("B.data")
	fetch := years.Computator.(graph.RemoteFetch)
	if fetch.Strategy != domain.FetchQuery {
		t.Errorf("Expected query strategy, got %q", fetch.Strategy)
	}
	if !reflect.DeepEqual(years.Edges, []domain.Edge{graph.On("A.value")}) {
		t.Errorf("Expected propagating edge on A.value, got %v", years.Edges)
	}

	stats, _ := g.Node("statistics")
	if stats.Computator.(graph.RemoteFetch).Strategy != domain.FetchPort {
		t.Error("Expected Fetch to use the port strategy")
	}
}

func TestBuilder_ExplicitEdgesWin(t *testing.T) {
	b := New()
	b.Add("src").Value(0)
	b.Add("view").
		Aggregate().
		Field("v", "src:key").
		ResetOn("src")

	g, err := b.Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	n, _ := g.Node("view")
	if !reflect.DeepEqual(n.Edges, []domain.Edge{graph.ResetOn("src")}) {
		t.Errorf("Expected a single ResetOnly edge, got %v", n.Edges)
	}

	src, _ := g.Node("src")
	if !src.Writable || src.Computator.Kind() != graph.KindInput {
		t.Errorf("Expected src to be a writable input, got %#v", src)
	}
}

func TestBuilder_AddReturnsExisting(t *testing.T) {
	b := New()
	first := b.Add("x")
	if b.Add("x") != first {
		t.Error("Expected Add to return the existing builder")
	}
}

func TestBuilder_Errors(t *testing.T) {
	t.Run("Missing Computator", func(t *testing.T) {
		b := New()
		b.Add("empty")
		if _, err := b.Build(); err == nil {
			t.Fatal("Expected error for node without computator")
		}
	})

	t.Run("Dangling Reference", func(t *testing.T) {
		b := New()
		b.Add("view").Aggregate().Field("v", "ghost")
		_, err := b.Build()
		if !errors.Is(err, domain.ErrDeref) {
			t.Fatalf("Expected DerefError, got %v", err)
		}
	})

	t.Run("Cycle", func(t *testing.T) {
		b := New()
		b.Add("a").Aggregate().Field("b", "b")
		b.Add("b").Aggregate().Field("a", "a")
		_, err := b.Build()
		if !errors.Is(err, domain.ErrCycle) {
			t.Fatalf("Expected CycleError, got %v", err)
		}
	})
}
