package server

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dtnitsch/stealth-fetch-mcp/pkg/tools"
	"github.com/modelcontextprotocol/go-sdk/jsonrpc"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func echoRegistry(t *testing.T) *tools.Registry {
	t.Helper()
	reg, err := tools.NewRegistry(
		tools.Operation{
			Descriptor: tools.Descriptor{
				Name:        "echo",
				Description: "Echo the text argument.",
				InputSchema: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"text": map[string]any{"type": "string"},
					},
				},
			},
			Handler: func(_ context.Context, args map[string]any) (string, error) {
				text, _ := args["text"].(string)
				if text == "boom" {
					return "", errors.New("exploded")
				}
				return text, nil
			},
		},
	)
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	return reg
}

func connect(t *testing.T) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()

	srv := New("test-server", "v0.0.1", echoRegistry(t), nil)
	clientTransport, serverTransport := mcp.NewInMemoryTransports()
	if _, err := srv.Connect(ctx, serverTransport); err != nil {
		t.Fatalf("server Connect() error = %v", err)
	}

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("client Connect() error = %v", err)
	}
	t.Cleanup(func() { _ = session.Close() })
	return session
}

func TestServer_ListTools(t *testing.T) {
	session := connect(t)

	res, err := session.ListTools(context.Background(), &mcp.ListToolsParams{})
	if err != nil {
		t.Fatalf("ListTools() error = %v", err)
	}
	if len(res.Tools) != 1 || res.Tools[0].Name != "echo" {
		t.Errorf("tools = %+v, want only echo", res.Tools)
	}
}

func TestServer_CallTool(t *testing.T) {
	session := connect(t)

	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "echo",
		Arguments: map[string]any{"text": "hello"},
	})
	if err != nil {
		t.Fatalf("CallTool() error = %v", err)
	}
	if len(res.Content) != 1 {
		t.Fatalf("content = %+v, want one item", res.Content)
	}
	text, ok := res.Content[0].(*mcp.TextContent)
	if !ok || text.Text != "hello" {
		t.Errorf("content = %+v, want text hello", res.Content[0])
	}
}

func TestServer_CallToolErrors(t *testing.T) {
	tests := []struct {
		name     string
		tool     string
		args     map[string]any
		wantCode int64
		wantMsg  string
	}{
		{
			name:     "unknown tool",
			tool:     "nope",
			wantCode: tools.CodeInvalidParams,
			wantMsg:  "Unknown tool: nope",
		},
		{
			name:     "handler failure",
			tool:     "echo",
			args:     map[string]any{"text": "boom"},
			wantCode: tools.CodeInternalError,
			wantMsg:  "Error processing echo: exploded",
		},
	}

	session := connect(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := session.CallTool(context.Background(), &mcp.CallToolParams{Name: tt.tool, Arguments: tt.args})
			if err == nil {
				t.Fatal("CallTool() should fail")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error = %q, want it to contain %q", err.Error(), tt.wantMsg)
			}
			var wire *jsonrpc.Error
			if errors.As(err, &wire) && wire.Code != tt.wantCode {
				t.Errorf("code = %d, want %d", wire.Code, tt.wantCode)
			}
		})
	}
}

func TestDecodeArguments(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantLen int
		wantErr bool
	}{
		{"absent", "", 0, false},
		{"null", "null", 0, false},
		{"object", `{"url":"https://example.com","max_length":20}`, 2, false},
		{"array", `[1,2]`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeArguments([]byte(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("decodeArguments() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && len(got) != tt.wantLen {
				t.Errorf("len = %d, want %d", len(got), tt.wantLen)
			}
		})
	}
}
