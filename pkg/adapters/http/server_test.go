package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aretw0/lattice"
	httpadapter "github.com/aretw0/lattice/pkg/adapters/http"
	"github.com/aretw0/lattice/pkg/adapters/memory"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/dsl"
	"github.com/aretw0/lattice/pkg/graph"
	"github.com/aretw0/lattice/pkg/observability"
	"github.com/aretw0/lattice/pkg/ports"
	"github.com/aretw0/lattice/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func factory() (*graph.Graph, error) {
	b := dsl.New()
	b.Add("year").Value(2024)
	b.Add("stats").Fetch("statistics").Param("year", "year")
	b.Add("report").Aggregate().Field("stats", "stats").Passive()
	return b.Build()
}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	reg := prometheus.NewRegistry()
	metrics, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	resolver := ports.ResolverFunc(func(_ context.Context, call domain.RemoteCall) (domain.Value, error) {
		if y, _ := call.Params["year"].(float64); y < 0 {
			return nil, &domain.RemoteError{Route: call.Route, Err: errors.New("negative year")}
		}
		return fmt.Sprintf("stats for %v", call.Params["year"]), nil
	})
	eng := lattice.New(lattice.WithResolver(resolver), lattice.WithLifecycleHooks(metrics.Hooks()))
	svc := session.NewService(factory, eng, session.NewManager(memory.NewStore()))

	srv := httptest.NewServer(httpadapter.NewHandler(svc,
		httpadapter.WithGatherer(reg),
		httpadapter.WithVersion("v0.0.0-test"),
	))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, body string) (*http.Response, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	if resp.StatusCode != http.StatusNoContent && strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	}
	return resp, out
}

func valueOf(t *testing.T, res map[string]any, id string) any {
	t.Helper()
	for _, n := range res["nodes"].([]any) {
		node := n.(map[string]any)
		if node["id"] == id {
			return node["value"]
		}
	}
	t.Fatalf("node %s not in response", id)
	return nil
}

func TestSessionLifecycle(t *testing.T) {
	srv := newServer(t)

	resp, started := do(t, http.MethodPost, srv.URL+"/v1/sessions", `{"session_id":"s1","values":{"year":2020}}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "s1", started["session_id"])
	assert.Equal(t, "stats for 2020", valueOf(t, started, "stats"))
	assert.Len(t, started["visited"], 3)

	resp, updated := do(t, http.MethodPost, srv.URL+"/v1/sessions/s1/update", `{"values":{"year":2021}}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []any{"year", "stats"}, updated["visited"])
	assert.Equal(t, "stats for 2021", valueOf(t, updated, "stats"))
	assert.Equal(t, map[string]any{"stats": "stats for 2020"}, valueOf(t, updated, "report"))

	resp, refreshed := do(t, http.MethodPost, srv.URL+"/v1/sessions/s1/update", `{"changed":["report"]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []any{"report"}, refreshed["visited"])
	assert.Equal(t, map[string]any{"stats": "stats for 2021"}, valueOf(t, refreshed, "report"))

	resp, list := do(t, http.MethodGet, srv.URL+"/v1/sessions", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []any{"s1"}, list["sessions"])

	resp, got := do(t, http.MethodGet, srv.URL+"/v1/sessions/s1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(2021), valueOf(t, got, "year"))

	resp, _ = do(t, http.MethodDelete, srv.URL+"/v1/sessions/s1", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, body := do(t, http.MethodGet, srv.URL+"/v1/sessions/s1", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body["error"], "session not found")
}

func TestErrorStatus(t *testing.T) {
	srv := newServer(t)

	resp, _ := do(t, http.MethodPost, srv.URL+"/v1/sessions", "")
	require.Equal(t, http.StatusCreated, resp.StatusCode, "empty body starts with defaults")

	resp, _ = do(t, http.MethodPost, srv.URL+"/v1/sessions", `{"values":{"ghost":1}}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, http.MethodPost, srv.URL+"/v1/sessions", `{"values":{"stats":1}}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, http.MethodPost, srv.URL+"/v1/sessions", `{not json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body := do(t, http.MethodPost, srv.URL+"/v1/sessions", `{"values":{"year":-1}}`)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Contains(t, body["error"], "negative year")

	resp, _ = do(t, http.MethodPost, srv.URL+"/v1/sessions/nope/update", `{}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, httpadapter.StatusFor(&domain.CycleError{Path: []domain.NodeID{"a", "b", "a"}}))
	assert.Equal(t, http.StatusBadGateway, httpadapter.StatusFor(domain.ErrNoResolver))
	assert.Equal(t, http.StatusInternalServerError, httpadapter.StatusFor(errors.New("boom")))
}

func TestGraphEndpoints(t *testing.T) {
	srv := newServer(t)

	resp, body := do(t, http.MethodGet, srv.URL+"/v1/graph", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	nodes := body["nodes"].([]any)
	require.Len(t, nodes, 3)
	report := nodes[2].(map[string]any)
	assert.Equal(t, "aggregate", report["computator"])
	assert.Equal(t, []any{map[string]any{"target": "stats", "kind": "reset_only"}}, report["edges"])

	do(t, http.MethodPost, srv.URL+"/v1/sessions", `{"session_id":"m1"}`)

	resp, err := http.Get(srv.URL + "/v1/graph/mermaid?session=m1")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	chart := readAll(t, resp)
	assert.Contains(t, chart, "graph TD")
	assert.Contains(t, chart, "stats -.-> report")
	assert.Contains(t, chart, "class report visited;")
}

func TestHealthAndMetrics(t *testing.T) {
	srv := newServer(t)

	resp, body := do(t, http.MethodGet, srv.URL+"/health", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "v0.0.0-test", body["version"])

	do(t, http.MethodPost, srv.URL+"/v1/sessions", "")

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Contains(t, readAll(t, resp), `lattice_passes_total{mode="full",outcome="ok"} 1`)
}

func readAll(t *testing.T, resp *http.Response) string {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(data)
}
