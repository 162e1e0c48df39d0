package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/lattice/internal/presentation/graph"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// GraphResponse lists the graph's node shapes.
type GraphResponse struct {
	Nodes []domain.NodeInfo `json:"nodes" jsonschema_description:"Nodes in declaration order, with their edges"`
}

// Server wraps a session service and exposes it as an MCP server.
type Server struct {
	service   *session.Service
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates a new MCP server instance.
func NewServer(svc *session.Service, version string, opts ...Option) *Server {
	s := &Server{
		service:   svc,
		logger:    slog.New(slog.NewJSONHandler(io.Discard, nil)),
		mcpServer: server.NewMCPServer("lattice-mcp", version),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops it when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: compute_graph
	computeTool := mcp.NewTool("compute_graph",
		mcp.WithDescription("Start a session: write the initial values and evaluate every node."),
		mcp.WithString("session_id", mcp.Description("Session to create or replace (optional, generated if omitted)")),
		mcp.WithString("values", mcp.Description("JSON object of initial values for writable nodes (optional)")),
		mcp.WithOutputSchema[session.Result](),
	)
	s.mcpServer.AddTool(computeTool, mcp.NewStructuredToolHandler(s.handleCompute))

	// TOOL: update_graph
	updateTool := mcp.NewTool("update_graph",
		mcp.WithDescription("Write values to a session and recompute only the nodes they affect."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session to update")),
		mcp.WithString("values", mcp.Description("JSON object of node id to new value")),
		mcp.WithString("changed", mcp.Description("JSON array of node ids to recompute even without edits")),
		mcp.WithOutputSchema[session.Result](),
	)
	s.mcpServer.AddTool(updateTool, mcp.NewStructuredToolHandler(s.handleUpdate))

	// TOOL: get_graph
	graphTool := mcp.NewTool("get_graph",
		mcp.WithDescription("Get the graph's nodes and edges for introspection."),
		mcp.WithOutputSchema[GraphResponse](),
	)
	s.mcpServer.AddTool(graphTool, mcp.NewStructuredToolHandler(s.handleGetGraph))
}

func (s *Server) handleCompute(ctx context.Context, _ mcp.CallToolRequest, args map[string]any) (*session.Result, error) {
	sessionID, _ := args["session_id"].(string)
	values, err := decodeValues(args)
	if err != nil {
		return nil, err
	}

	res, err := s.service.Start(ctx, sessionID, values)
	if err != nil {
		s.logger.Warn("MCP compute_graph failed", "session_id", sessionID, "err", err)
		return nil, fmt.Errorf("compute failed: %w", err)
	}
	return res, nil
}

func (s *Server) handleUpdate(ctx context.Context, _ mcp.CallToolRequest, args map[string]any) (*session.Result, error) {
	sessionID, _ := args["session_id"].(string)
	if sessionID == "" {
		return nil, errors.New("session_id is required")
	}
	values, err := decodeValues(args)
	if err != nil {
		return nil, err
	}
	var changed []domain.NodeID
	if raw, ok := args["changed"].(string); ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &changed); err != nil {
			return nil, fmt.Errorf("invalid changed: %w", err)
		}
	}

	res, err := s.service.Update(ctx, sessionID, values, changed...)
	if err != nil {
		s.logger.Warn("MCP update_graph failed", "session_id", sessionID, "err", err)
		return nil, fmt.Errorf("update failed: %w", err)
	}
	return res, nil
}

func (s *Server) handleGetGraph(_ context.Context, _ mcp.CallToolRequest, _ map[string]any) (GraphResponse, error) {
	nodes, err := s.service.Describe()
	if err != nil {
		return GraphResponse{}, fmt.Errorf("describe failed: %w", err)
	}
	return GraphResponse{Nodes: nodes}, nil
}

func decodeValues(args map[string]any) (map[domain.NodeID]domain.Value, error) {
	switch raw := args["values"].(type) {
	case nil:
		return nil, nil
	case string:
		if raw == "" {
			return nil, nil
		}
		var values map[domain.NodeID]domain.Value
		if err := json.Unmarshal([]byte(raw), &values); err != nil {
			return nil, fmt.Errorf("invalid values: %w", err)
		}
		return values, nil
	case map[string]any:
		values := make(map[domain.NodeID]domain.Value, len(raw))
		for k, v := range raw {
			values[domain.NodeID(k)] = v
		}
		return values, nil
	default:
		return nil, fmt.Errorf("invalid values: expected a JSON object, got %T", raw)
	}
}

func (s *Server) registerResources() {
	// EXPOSE: lattice://graph
	s.mcpServer.AddResource(mcp.NewResource("lattice://graph", "Graph Definition",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		nodes, err := s.service.Describe()
		if err != nil {
			return nil, fmt.Errorf("failed to describe graph: %w", err)
		}
		jsonBytes, _ := json.Marshal(nodes)

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "lattice://graph",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})

	// EXPOSE: lattice://graph/mermaid
	s.mcpServer.AddResource(mcp.NewResource("lattice://graph/mermaid", "Graph Diagram",
		mcp.WithMIMEType("text/vnd.mermaid"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		g, err := s.service.Graph()
		if err != nil {
			return nil, fmt.Errorf("failed to build graph: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "lattice://graph/mermaid",
				MIMEType: "text/vnd.mermaid",
				Text:     graph.GenerateMermaid(g.Nodes(), nil),
			},
		}, nil
	})
}
