// Package mcp exposes a tracker as Model Context Protocol tools, so assistants can
// read accessibility and drive the tracker.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aretw0/checkmark/internal/logging"
	"github.com/aretw0/checkmark/pkg/domain"
	"github.com/aretw0/checkmark/pkg/ports"
)

// StatusURI is the resource holding the status of every location.
const StatusURI = "checkmark://status"

// LocationsResponse lists location statuses.
type LocationsResponse struct {
	Locations []domain.LocationStatus `json:"locations" jsonschema_description:"Every location with its sections and accessibility"`
}

// ChangeResponse reports what a command changed in the persisted state.
type ChangeResponse struct {
	Changed bool                 `json:"changed" jsonschema_description:"Whether the command changed persisted state"`
	Diff    *domain.SnapshotDiff `json:"diff,omitempty" jsonschema_description:"Changed sections, items, modes and placements"`
}

// Server wraps a tracker and exposes it as an MCP Server.
type Server struct {
	tracker   ports.Tracker
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// NewServer creates a new MCP Server instance.
func NewServer(tracker ports.Tracker, version string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		tracker:   tracker,
		mcpServer: server.NewMCPServer("checkmark-mcp", version),
		logger:    logger,
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops when ctx is done.
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
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, shutting down MCP server")
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
	s.mcpServer.AddTool(mcp.NewTool("list_locations",
		mcp.WithDescription("List every location with its sections, remaining items and accessibility (none, inspect, partial, sequence_break, normal)."),
		mcp.WithOutputSchema[LocationsResponse](),
	), mcp.NewStructuredToolHandler(s.handleListLocations))

	s.mcpServer.AddTool(mcp.NewTool("collect_section",
		mcp.WithDescription("Collect a section. Declined when the section is not accessible unless force is set."),
		mcp.WithString("location", mcp.Required(), mcp.Description("Location ID")),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("Section index inside the location, starting at 0")),
		mcp.WithBoolean("force", mcp.Description("Collect even when the section is not accessible")),
		mcp.WithOutputSchema[domain.LocationStatus](),
	), mcp.NewStructuredToolHandler(s.handleCollect))

	s.mcpServer.AddTool(mcp.NewTool("uncollect_section",
		mcp.WithDescription("Give back what the last collect took from a section."),
		mcp.WithString("location", mcp.Required(), mcp.Description("Location ID")),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("Section index inside the location, starting at 0")),
		mcp.WithOutputSchema[domain.LocationStatus](),
	), mcp.NewStructuredToolHandler(s.handleUncollect))

	s.mcpServer.AddTool(mcp.NewTool("set_item",
		mcp.WithDescription("Set how many of an item the player owns."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Item name")),
		mcp.WithNumber("count", mcp.Required(), mcp.Description("Owned count, 0 or more")),
		mcp.WithOutputSchema[ChangeResponse](),
	), mcp.NewStructuredToolHandler(s.handleSetItem))

	s.mcpServer.AddTool(mcp.NewTool("undo",
		mcp.WithDescription("Undo the most recent command."),
		mcp.WithOutputSchema[ChangeResponse](),
	), mcp.NewStructuredToolHandler(s.handleUndo))

	s.mcpServer.AddTool(mcp.NewTool("redo",
		mcp.WithDescription("Redo the most recently undone command."),
		mcp.WithOutputSchema[ChangeResponse](),
	), mcp.NewStructuredToolHandler(s.handleRedo))
}

func (s *Server) handleListLocations(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (LocationsResponse, error) {
	return LocationsResponse{Locations: s.tracker.Locations()}, nil
}

func (s *Server) handleCollect(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (domain.LocationStatus, error) {
	ref, err := sectionRef(args)
	if err != nil {
		return domain.LocationStatus{}, err
	}
	force, _ := args["force"].(bool)
	if err := s.tracker.Collect(ctx, ref, force); err != nil {
		return domain.LocationStatus{}, fmt.Errorf("collect failed: %w", err)
	}
	return s.tracker.Location(ref.Location)
}

func (s *Server) handleUncollect(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (domain.LocationStatus, error) {
	ref, err := sectionRef(args)
	if err != nil {
		return domain.LocationStatus{}, err
	}
	if err := s.tracker.Uncollect(ctx, ref); err != nil {
		return domain.LocationStatus{}, fmt.Errorf("uncollect failed: %w", err)
	}
	return s.tracker.Location(ref.Location)
}

func (s *Server) handleSetItem(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ChangeResponse, error) {
	name, _ := args["name"].(string)
	if name == "" {
		return ChangeResponse{}, fmt.Errorf("name is required")
	}
	count, ok := number(args["count"])
	if !ok {
		return ChangeResponse{}, fmt.Errorf("count must be a number")
	}
	return s.change(ctx, func(ctx context.Context) error {
		return s.tracker.SetItem(ctx, name, count)
	})
}

func (s *Server) handleUndo(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ChangeResponse, error) {
	return s.change(ctx, s.tracker.Undo)
}

func (s *Server) handleRedo(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ChangeResponse, error) {
	return s.change(ctx, s.tracker.Redo)
}

func (s *Server) change(ctx context.Context, fn func(context.Context) error) (ChangeResponse, error) {
	before := s.tracker.Snapshot()
	if err := fn(ctx); err != nil {
		s.logger.DebugContext(ctx, "MCP command rejected", "err", err)
		return ChangeResponse{}, err
	}
	diff := domain.Diff(before, s.tracker.Snapshot())
	return ChangeResponse{Changed: diff != nil, Diff: diff}, nil
}

func sectionRef(args map[string]interface{}) (domain.SectionRef, error) {
	location, _ := args["location"].(string)
	if location == "" {
		return domain.SectionRef{}, fmt.Errorf("location is required")
	}
	index, ok := number(args["index"])
	if !ok {
		return domain.SectionRef{}, fmt.Errorf("index must be a number")
	}
	return domain.SectionRef{Location: location, Index: index}, nil
}

// number accepts the float64 JSON numbers arrive as.
func number(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), n == float64(int(n))
	case int:
		return n, true
	case json.Number:
		i, err := n.Int64()
		return int(i), err == nil
	}
	return 0, false
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(StatusURI, "Tracker Status",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(s.tracker.Locations())
		if err != nil {
			return nil, fmt.Errorf("failed to encode status: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      StatusURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
