package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agentdemo/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)

	assert.Equal(t, "agent-demo-uploads", cfg.Storage.DefaultBucket)
	assert.Equal(t, "cn-beijing", cfg.Storage.DefaultRegion)
	assert.Equal(t, int64(604800), cfg.Storage.PresignExpiry)
	assert.Equal(t, "DATABASE_TOS_BUCKET", cfg.Storage.BucketEnv)
	assert.Equal(t, "DATABASE_TOS_REGION", cfg.Storage.RegionEnv)
	assert.Equal(t, "VOLCENGINE_ACCESS_KEY", cfg.Storage.AccessKeyEnv)
	assert.Equal(t, "VOLCENGINE_SECRET_KEY", cfg.Storage.SecretKeyEnv)

	assert.Equal(t, "npx", cfg.MCP.Command)
	assert.Equal(t, []string{"@pickstar-2002/video-clip-mcp@latest"}, cfg.MCP.Args)
	assert.Equal(t, 600*time.Second, cfg.MCP.Timeout)

	assert.Empty(t, cfg.Auth.JWTSecret)
	assert.Equal(t, "agentdemo", cfg.Auth.Issuer)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("AGENTDEMO_SERVER_PORT", ":9090")
	t.Setenv("AGENTDEMO_STORAGE_DEFAULT_BUCKET", "other-bucket")
	t.Setenv("AGENTDEMO_STORAGE_PRESIGN_EXPIRY", "3600")
	t.Setenv("AGENTDEMO_MCP_ARGS", "serve, --verbose")
	t.Setenv("AGENTDEMO_AUTH_JWT_SECRET", "s3cret")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Port)
	assert.Equal(t, "other-bucket", cfg.Storage.DefaultBucket)
	assert.Equal(t, int64(3600), cfg.Storage.PresignExpiry)
	assert.Equal(t, []string{"serve", "--verbose"}, cfg.MCP.Args)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
}

func TestLoad_ModelEnvBindings(t *testing.T) {
	t.Setenv("MODEL_AGENT_NAME", "doubao-seed-1-6")
	t.Setenv("MODEL_AGENT_API_BASE", "https://example.invalid/v3")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "doubao-seed-1-6", cfg.Model.Name)
	assert.Equal(t, "https://example.invalid/v3", cfg.Model.APIBase)
}
