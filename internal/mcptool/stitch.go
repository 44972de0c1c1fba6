package mcptool

import (
	"context"
	"fmt"
	"strings"
	"time"

	mcpclient "github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"
	"google.golang.org/adk/tool"
	"google.golang.org/adk/tool/functiontool"
)

// Config controls how the stdio video-clip MCP server is launched and which
// of its tools performs the stitch.
type Config struct {
	Command  string
	Args     []string
	ToolName string
	Timeout  time.Duration
}

// defaultCallTimeout bounds a stitch call when no timeout is configured.
const defaultCallTimeout = 600 * time.Second

// callTimeout normalizes the configured timeout; zero or negative values
// would otherwise yield an already-expired context.
func callTimeout(d time.Duration) time.Duration {
	if d <= 0 {
		return defaultCallTimeout
	}
	return d
}

type stitchInput struct {
	Clips      []string `json:"clips"`
	OutputPath string   `json:"output_path"`
}

type stitchOutput struct {
	Result string `json:"result"`
}

// NewStitchTool launches the MCP server process and wraps its stitch tool
// as an ADK function tool. The returned cleanup func shuts the server down
// and must be called when the agent exits.
func NewStitchTool(ctx context.Context, cfg Config, log *zap.Logger) (tool.Tool, func(), error) {
	if log == nil {
		log = zap.NewNop()
	}

	c, err := mcpclient.NewStdioMCPClient(cfg.Command, nil, cfg.Args...)
	if err != nil {
		return nil, nil, fmt.Errorf("starting MCP server %s: %w", cfg.Command, err)
	}
	cleanup := func() { _ = c.Close() }

	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{Name: "agentdemo", Version: "0.1.0"}
	initResult, err := c.Initialize(ctx, initReq)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("initializing MCP session: %w", err)
	}
	log.Info("connected to MCP server",
		zap.String("server", initResult.ServerInfo.Name),
		zap.String("version", initResult.ServerInfo.Version))

	listResult, err := c.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("listing MCP tools: %w", err)
	}
	available := false
	for _, remote := range listResult.Tools {
		if remote.Name == cfg.ToolName {
			available = true
			break
		}
	}
	if !available {
		log.Warn("stitch tool not advertised by MCP server; calls will fail",
			zap.String("tool", cfg.ToolName))
	}

	t, err := functiontool.New(functiontool.Config{
		Name:        "stitch_videos",
		Description: "Concatenate a list of local video clips into a single video file. Pass the clip paths in playback order and the desired output path.",
	}, func(tctx tool.Context, in stitchInput) (stitchOutput, error) {
		callCtx, cancel := context.WithTimeout(tctx, callTimeout(cfg.Timeout))
		defer cancel()

		req := mcp.CallToolRequest{}
		req.Params.Name = cfg.ToolName
		req.Params.Arguments = map[string]any{
			"clips":       in.Clips,
			"output_path": in.OutputPath,
		}
		res, err := c.CallTool(callCtx, req)
		if err != nil {
			return stitchOutput{}, fmt.Errorf("calling %s: %w", cfg.ToolName, err)
		}

		var sb strings.Builder
		for _, content := range res.Content {
			if tc, ok := content.(mcp.TextContent); ok {
				sb.WriteString(tc.Text)
			}
		}
		if res.IsError {
			return stitchOutput{}, fmt.Errorf("video-clip server: %s", sb.String())
		}
		return stitchOutput{Result: sb.String()}, nil
	})
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("creating stitch tool: %w", err)
	}

	return t, cleanup, nil
}
