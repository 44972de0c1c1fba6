package main

import (
	"context"
	"log"
	"os"

	veagent "github.com/volcengine/veadk-go/agent/llmagent"
	"github.com/volcengine/veadk-go/apps"
	"github.com/volcengine/veadk-go/apps/agentkit_server_app"
	"github.com/volcengine/veadk-go/common"
	"github.com/volcengine/veadk-go/tool/builtin_tools"
	"google.golang.org/adk/agent"
	"google.golang.org/adk/agent/llmagent"
	"google.golang.org/adk/tool"

	"agentdemo/internal/config"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
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

	runCode, err := builtin_tools.NewRunCodeSandboxTool()
	if err != nil {
		log.Fatalf("NewRunCodeSandboxTool failed: %v", err)
	}

	rootAgent, err := veagent.New(&veagent.Config{
		Config: llmagent.Config{
			Name:        "code_agent",
			Description: "A fun Python coding assistant",
			Instruction: "You are a playful Python code experimenter. Your task is to leverage the sandbox environment to solve a variety of interesting problems. For example: simulating probability problems using the Monte Carlo method, generating fun ASCII art, or solving logic puzzles through algorithms. Please rely on the Python standard library as much as possible. You must use the run_code tool to execute your code and display the results to the user. Avoid installing complex external dependencies",
			Tools:       []tool.Tool{runCode},
		},
		ModelName:    modelName,
		ModelAPIBase: modelAPIBase,
		ModelAPIKey:  modelAPIKey,
	})
	if err != nil {
		log.Fatalf("Failed to create agent: %v", err)
	}

	app := agentkit_server_app.NewAgentkitServerApp(apps.DefaultApiConfig())

	if err := app.Run(ctx, &apps.RunConfig{
		AgentLoader: agent.NewSingleLoader(rootAgent),
	}); err != nil {
		log.Fatalf("Run failed: %v", err)
	}
}
