package main

import (
	"context"
	"log"
	"os"

	veagent "github.com/volcengine/veadk-go/agent/llmagent"
	"github.com/volcengine/veadk-go/common"
	"github.com/volcengine/veadk-go/tool/builtin_tools"
	"google.golang.org/adk/agent"
	"google.golang.org/adk/agent/llmagent"
	"google.golang.org/adk/artifact"
	"google.golang.org/adk/cmd/launcher"
	"google.golang.org/adk/cmd/launcher/full"
	"google.golang.org/adk/session"
	"google.golang.org/adk/tool"

	"agentdemo/internal/agenttool"
	"agentdemo/internal/config"
	"agentdemo/internal/logger"
	"agentdemo/internal/mcptool"
	"agentdemo/internal/upload"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	zlog, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	videoModelName := cfg.Video.Name
	if videoModelName == "" {
		videoModelName = common.DEFAULT_MODEL_VIDEO_NAME
	}
	videoAPIBase := cfg.Video.APIBase
	if videoAPIBase == "" {
		videoAPIBase = common.DEFAULT_MODEL_VIDEO_API_BASE
	}
	videoAPIKey := cfg.Video.APIKey
	if videoAPIKey == "" {
		videoAPIKey = os.Getenv(common.MODEL_VIDEO_API_KEY)
	}

	videoGenerate, err := builtin_tools.NewVideoGenerateTool(&builtin_tools.VideoGenerateConfig{
		ModelName: videoModelName,
		BaseURL:   videoAPIBase,
		APIKey:    videoAPIKey,
	})
	if err != nil {
		log.Fatalf("NewVideoGenerateTool failed: %v", err)
	}

	stitchTool, stopMCP, err := mcptool.NewStitchTool(ctx, mcptool.Config{
		Command:  cfg.MCP.Command,
		Args:     cfg.MCP.Args,
		ToolName: cfg.MCP.ToolName,
		Timeout:  cfg.MCP.Timeout,
	}, zlog)
	if err != nil {
		log.Fatalf("Failed to start video-clip MCP server: %v", err)
	}
	defer stopMCP()

	uploader := upload.New(upload.Config{
		DefaultBucket: cfg.Storage.DefaultBucket,
		DefaultRegion: cfg.Storage.DefaultRegion,
		DefaultExpiry: cfg.Storage.PresignExpiry,
		BucketEnv:     cfg.Storage.BucketEnv,
		RegionEnv:     cfg.Storage.RegionEnv,
		AccessKeyEnv:  cfg.Storage.AccessKeyEnv,
		SecretKeyEnv:  cfg.Storage.SecretKeyEnv,
		IAMEndpoint:   cfg.Storage.IAMEndpoint,
	}, upload.WithLogger(zlog))
	uploadTool, err := agenttool.NewUploadTool(uploader)
	if err != nil {
		log.Fatalf("Failed to create upload tool: %v", err)
	}

	modelName := cfg.Model.Name
	if modelName == "" {
		modelName = common.DEFAULT_MODEL_AGENT_NAME
	}
	modelAPIBase := cfg.Model.APIBase
	if modelAPIBase == "" {
		modelAPIBase = common.DEFAULT_MODEL_AGENT_API_BASE
	}
	modelAPIKey := cfg.Model.APIKey
	if modelAPIKey == "" {
		modelAPIKey = os.Getenv(common.MODEL_AGENT_API_KEY)
	}

	rootAgent, err := veagent.New(&veagent.Config{
		Config: llmagent.Config{
			Name:        "story_video_agent",
			Description: "Agent that generates story videos, stitches clips together, and shares them via signed links.",
			Instruction: "You create short story videos. Generate clips with the video generation tool, stitch them into one file with stitch_videos, then upload the final file with upload_file_to_tos and reply with the signed URL. If the upload tool returns a message starting with ERROR:, relay that message to the user instead of a link.",
			Tools:       []tool.Tool{videoGenerate, stitchTool, uploadTool},
		},
		ModelName:    modelName,
		ModelAPIBase: modelAPIBase,
		ModelAPIKey:  modelAPIKey,
	})
	if err != nil {
		log.Fatalf("Failed to create agent: %v", err)
	}

	agentLoader, err := agent.NewMultiLoader(rootAgent)
	if err != nil {
		log.Fatalf("Failed to create agent loader: %v", err)
	}

	launcherCfg := &launcher.Config{
		ArtifactService: artifact.InMemoryService(),
		SessionService:  session.InMemoryService(),
		AgentLoader:     agentLoader,
	}

	l := full.NewLauncher()
	if err := l.Execute(ctx, launcherCfg, os.Args[1:]); err != nil {
		log.Fatalf("Run failed: %v\n\n%s", err, l.CommandLineSyntax())
	}
}
