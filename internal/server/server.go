// Package server exposes a tools.Registry over the Model Context Protocol.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dtnitsch/stealth-fetch-mcp/pkg/tools"
	"github.com/modelcontextprotocol/go-sdk/jsonrpc"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type Server struct {
	mcp      *mcp.Server
	registry *tools.Registry
	logger   *slog.Logger
}

// New registers every operation of registry with an MCP server named name.
func New(name, version string, registry *tools.Registry, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		mcp:      mcp.NewServer(&mcp.Implementation{Name: name, Version: version}, nil),
		registry: registry,
		logger:   logger,
	}

	for _, d := range registry.Descriptors() {
		s.mcp.AddTool(&mcp.Tool{
			Name:        d.Name,
			Description: d.Description,
			InputSchema: d.InputSchema,
		}, s.handle)
	}
	// Calls to unregistered tools go through the registry too, so they get
	// the same error shape as everything else.
	s.mcp.AddReceivingMiddleware(s.unknownTools)

	return s
}

// Run serves on stdin/stdout until ctx is cancelled or the client hangs up.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("MCP server listening on stdio", "tools", len(s.registry.Descriptors()))
	if err := s.mcp.Run(ctx, &mcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("mcp server stopped: %w", err)
	}
	return nil
}

// Connect serves a single session over t.
func (s *Server) Connect(ctx context.Context, t mcp.Transport) (*mcp.ServerSession, error) {
	return s.mcp.Connect(ctx, t, nil)
}

func (s *Server) handle(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.Params.Name
	start := time.Now()

	args, err := decodeArguments(req.Params.Arguments)
	if err != nil {
		return nil, &jsonrpc.Error{Code: tools.CodeInvalidParams, Message: err.Error()}
	}

	out, err := s.registry.Invoke(ctx, name, args)
	if err != nil {
		s.logger.Warn("Tool call failed", "tool", name, "error", err, "took", time.Since(start))
		return nil, wireError(err)
	}

	s.logger.Info("Tool call finished", "tool", name, "chars", len([]rune(out)), "took", time.Since(start))
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: out}},
	}, nil
}

func (s *Server) unknownTools(next mcp.MethodHandler) mcp.MethodHandler {
	return func(ctx context.Context, method string, req mcp.Request) (mcp.Result, error) {
		call, ok := req.(*mcp.CallToolRequest)
		if !ok || method != "tools/call" || s.registered(call.Params.Name) {
			return next(ctx, method, req)
		}
		_, err := s.registry.Invoke(ctx, call.Params.Name, nil)
		s.logger.Warn("Unknown tool requested", "tool", call.Params.Name)
		return nil, wireError(err)
	}
}

func (s *Server) registered(name string) bool {
	for _, d := range s.registry.Descriptors() {
		if d.Name == name {
			return true
		}
	}
	return false
}

// decodeArguments accepts an absent or null argument object as empty.
func decodeArguments(raw json.RawMessage) (map[string]any, error) {
	args := map[string]any{}
	if len(raw) == 0 || string(raw) == "null" {
		return args, nil
	}
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, fmt.Errorf("arguments must be a JSON object: %w", err)
	}
	return args, nil
}

func wireError(err error) error {
	var toolErr *tools.ToolError
	if errors.As(err, &toolErr) {
		return &jsonrpc.Error{Code: toolErr.Code, Message: toolErr.Message}
	}
	return &jsonrpc.Error{Code: tools.CodeInternalError, Message: err.Error()}
}
