package mcptool

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	mcpclient "github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	"github.com/mark3labs/mcp-go/mcp"

	"mcp-gateway/internal/config"
	"mcp-gateway/internal/llm"
)

// Client wraps an MCP session against one configured tool server. Tool
// definitions are listed once at connect time and cached.
type Client struct {
	session *mcpclient.Client
	server  string
	tools   []llm.ToolDefinition
}

// Connect dials the first enabled MCP server that has a URL, initializes
// the session, and lists its tools. Returns (nil, nil) when no usable
// server is configured; the agent then runs without tools.
func Connect(ctx context.Context, servers map[string]config.MCPServerConfig) (*Client, error) {
	names := make([]string, 0, len(servers))
	for name := range servers {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		sc := servers[name]
		if sc.Disabled || sc.URL == "" {
			continue
		}
		c, err := dial(ctx, name, sc)
		if err != nil {
			return nil, fmt.Errorf("connecting to MCP server %s: %w", name, err)
		}
		return c, nil
	}
	return nil, nil
}

func dial(ctx context.Context, name string, sc config.MCPServerConfig) (*Client, error) {
	var (
		session *mcpclient.Client
		err     error
	)
	if strings.HasSuffix(sc.URL, "/sse") {
		session, err = mcpclient.NewSSEMCPClient(sc.URL, transport.WithHeaders(sc.Headers))
	} else {
		session, err = mcpclient.NewStreamableHttpClient(sc.URL, transport.WithHTTPHeaders(sc.Headers))
	}
	if err != nil {
		return nil, err
	}

	if err := session.Start(ctx); err != nil {
		return nil, err
	}

	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{Name: "mcp-gateway", Version: "1.0.0"}
	if _, err := session.Initialize(ctx, initReq); err != nil {
		_ = session.Close()
		return nil, err
	}

	listed, err := session.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		_ = session.Close()
		return nil, err
	}

	tools := make([]llm.ToolDefinition, 0, len(listed.Tools))
	for _, t := range listed.Tools {
		schema, err := json.Marshal(t.InputSchema)
		if err != nil {
			continue
		}
		tools = append(tools, llm.ToolDefinition{
			Name:        t.Name,
			Description: t.Description,
			Parameters:  schema,
		})
	}

	log.Info("connected to MCP server", "server", name, "url", sc.URL, "tools", len(tools))

	return &Client{session: session, server: name, tools: tools}, nil
}

// Server returns the configured name of the connected server.
func (c *Client) Server() string { return c.server }

// Tools returns the cached tool definitions.
func (c *Client) Tools() []llm.ToolDefinition {
	if c == nil {
		return nil
	}
	return c.tools
}

// Call invokes one tool and flattens its text content into a single string.
func (c *Client) Call(ctx context.Context, name string, args json.RawMessage) (string, error) {
	var arguments map[string]any
	if len(args) > 0 {
		if err := json.Unmarshal(args, &arguments); err != nil {
			return "", fmt.Errorf("parsing arguments for %s: %w", name, err)
		}
	}

	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = arguments

	result, err := c.session.CallTool(ctx, req)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, content := range result.Content {
		if tc, ok := content.(mcp.TextContent); ok {
			b.WriteString(tc.Text)
		}
	}
	if result.IsError {
		return "", fmt.Errorf("tool %s failed: %s", name, b.String())
	}
	return b.String(), nil
}

// Close terminates the MCP session.
func (c *Client) Close() error {
	if c == nil || c.session == nil {
		return nil
	}
	return c.session.Close()
}
