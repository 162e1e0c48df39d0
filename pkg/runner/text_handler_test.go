package runner

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/session"
)

func sampleResult() *session.Result {
	return &session.Result{
		SessionID: "s1",
		Nodes: []domain.Snapshot{
			{ID: "year", Value: 2024, Writable: true},
			{ID: "stats", Value: map[string]any{"n": 3}, DependencyIDs: []domain.NodeID{"year"}},
		},
		Visited: []domain.NodeID{"stats"},
	}
}

func TestTextHandler_Output(t *testing.T) {
	outBuf := &bytes.Buffer{}
	handler := NewTextHandler(strings.NewReader(""), outBuf)

	if err := handler.Output(context.Background(), sampleResult(), false); err != nil {
		t.Fatalf("Output failed: %v", err)
	}
	if got := outBuf.String(); got != "stats = {\"n\":3}\n" {
		t.Errorf("Expected only visited nodes, got %q", got)
	}

	outBuf.Reset()
	handler.Output(context.Background(), sampleResult(), true)
	if !strings.Contains(outBuf.String(), "year = 2024\n") {
		t.Errorf("Expected full output to list year, got %q", outBuf.String())
	}

	outBuf.Reset()
	handler.Output(context.Background(), &session.Result{Visited: []domain.NodeID{}}, false)
	if !strings.Contains(outBuf.String(), "nothing recomputed") {
		t.Errorf("Expected empty notice, got %q", outBuf.String())
	}
}

func TestTextHandler_OutputRenderer(t *testing.T) {
	outBuf := &bytes.Buffer{}
	handler := NewTextHandler(strings.NewReader(""), outBuf, WithTextHandlerRenderer(func(s string) (string, error) {
		return "Rendered: " + s, nil
	}))

	handler.Output(context.Background(), sampleResult(), true)

	output := outBuf.String()
	if !strings.HasPrefix(output, "Rendered: | | Node |") {
		t.Errorf("Expected rendered markdown table, got %q", output)
	}
	if !strings.Contains(output, "| ● | `stats` |") {
		t.Errorf("Expected visited marker on stats, got %q", output)
	}
}

func TestTextHandler_Input(t *testing.T) {
	outBuf := &bytes.Buffer{}
	handler := NewTextHandler(strings.NewReader("\nnonsense\nyear=2025\n"), outBuf)

	cmd, err := handler.Input(context.Background())
	if err != nil {
		t.Fatalf("Input failed: %v", err)
	}
	if v := cmd.Values["year"]; v != float64(2025) {
		t.Errorf("Expected year=2025, got %#v", cmd)
	}
	if !strings.Contains(outBuf.String(), "Error: unrecognized command") {
		t.Errorf("Expected feedback for invalid line, got %q", outBuf.String())
	}
	if strings.Count(outBuf.String(), "> ") != 3 {
		t.Errorf("Expected a prompt per line, got %q", outBuf.String())
	}

	if _, err := handler.Input(context.Background()); err != io.EOF {
		t.Errorf("Expected io.EOF at end of input, got %v", err)
	}
}

func TestTextHandler_InputCancelled(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	handler := NewTextHandler(pr, io.Discard)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := handler.Input(ctx); err != context.DeadlineExceeded {
		t.Errorf("Expected deadline exceeded, got %v", err)
	}
}
