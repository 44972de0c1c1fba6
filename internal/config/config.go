package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	Model   ModelConfig
	Video   VideoModelConfig
	MCP     MCPConfig
	Auth    AuthConfig
	Log     LogConfig
}

// ServerConfig holds HTTP server settings for the upload sidecar.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// StorageConfig holds TOS object storage settings. The *Env fields name the
// deployment-specific environment variables consulted at upload time when a
// request does not carry the value explicitly.
type StorageConfig struct {
	DefaultBucket string `mapstructure:"default_bucket"`
	DefaultRegion string `mapstructure:"default_region"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
	BucketEnv     string `mapstructure:"bucket_env"`
	RegionEnv     string `mapstructure:"region_env"`
	AccessKeyEnv  string `mapstructure:"access_key_env"`
	SecretKeyEnv  string `mapstructure:"secret_key_env"`
	IAMEndpoint   string `mapstructure:"iam_endpoint"`
}

// ModelConfig holds chat model settings for the demo agents.
type ModelConfig struct {
	Name    string `mapstructure:"name"`
	APIBase string `mapstructure:"api_base"`
	APIKey  string `mapstructure:"api_key"`
}

// VideoModelConfig holds video generation model settings.
type VideoModelConfig struct {
	Name    string `mapstructure:"name"`
	APIBase string `mapstructure:"api_base"`
	APIKey  string `mapstructure:"api_key"`
}

// MCPConfig holds settings for the stdio video-clip MCP server.
type MCPConfig struct {
	Command  string        `mapstructure:"command"`
	Args     []string      `mapstructure:"args"`
	ToolName string        `mapstructure:"tool_name"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// AuthConfig holds bearer auth settings for the upload sidecar. An empty
// secret disables authentication.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
	Issuer    string `mapstructure:"issuer"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from environment variables with the AGENTDEMO_
// prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("AGENTDEMO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// Storage defaults
	v.SetDefault("storage.default_bucket", "agent-demo-uploads")
	v.SetDefault("storage.default_region", "cn-beijing")
	v.SetDefault("storage.presign_expiry", 604800)
	v.SetDefault("storage.bucket_env", "DATABASE_TOS_BUCKET")
	v.SetDefault("storage.region_env", "DATABASE_TOS_REGION")
	v.SetDefault("storage.access_key_env", "VOLCENGINE_ACCESS_KEY")
	v.SetDefault("storage.secret_key_env", "VOLCENGINE_SECRET_KEY")
	v.SetDefault("storage.iam_endpoint", "")

	// Model defaults (empty values fall back to the SDK defaults)
	v.SetDefault("model.name", "")
	v.SetDefault("model.api_base", "")
	v.SetDefault("model.api_key", "")
	v.SetDefault("video.name", "")
	v.SetDefault("video.api_base", "")
	v.SetDefault("video.api_key", "")

	// MCP defaults (the video stitching server from the original demo)
	v.SetDefault("mcp.command", "npx")
	v.SetDefault("mcp.args", "@pickstar-2002/video-clip-mcp@latest")
	v.SetDefault("mcp.tool_name", "concat_videos")
	v.SetDefault("mcp.timeout", "600s")

	// Auth defaults
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.issuer", "agentdemo")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":            "AGENTDEMO_SERVER_PORT",
		"server.read_timeout":    "AGENTDEMO_SERVER_READ_TIMEOUT",
		"server.write_timeout":   "AGENTDEMO_SERVER_WRITE_TIMEOUT",
		"server.environment":     "AGENTDEMO_SERVER_ENVIRONMENT",
		"storage.default_bucket": "AGENTDEMO_STORAGE_DEFAULT_BUCKET",
		"storage.default_region": "AGENTDEMO_STORAGE_DEFAULT_REGION",
		"storage.presign_expiry": "AGENTDEMO_STORAGE_PRESIGN_EXPIRY",
		"storage.bucket_env":     "AGENTDEMO_STORAGE_BUCKET_ENV",
		"storage.region_env":     "AGENTDEMO_STORAGE_REGION_ENV",
		"storage.access_key_env": "AGENTDEMO_STORAGE_ACCESS_KEY_ENV",
		"storage.secret_key_env": "AGENTDEMO_STORAGE_SECRET_KEY_ENV",
		"storage.iam_endpoint":   "AGENTDEMO_STORAGE_IAM_ENDPOINT",
		"model.name":             "MODEL_AGENT_NAME",
		"model.api_base":         "MODEL_AGENT_API_BASE",
		"model.api_key":          "MODEL_AGENT_API_KEY",
		"video.name":             "MODEL_VIDEO_NAME",
		"video.api_base":         "MODEL_VIDEO_API_BASE",
		"video.api_key":          "MODEL_VIDEO_API_KEY",
		"mcp.command":            "AGENTDEMO_MCP_COMMAND",
		"mcp.args":               "AGENTDEMO_MCP_ARGS",
		"mcp.tool_name":          "AGENTDEMO_MCP_TOOL_NAME",
		"mcp.timeout":            "AGENTDEMO_MCP_TIMEOUT",
		"auth.jwt_secret":        "AGENTDEMO_AUTH_JWT_SECRET",
		"auth.issuer":            "AGENTDEMO_AUTH_ISSUER",
		"log.level":              "AGENTDEMO_LOG_LEVEL",
		"log.format":             "AGENTDEMO_LOG_FORMAT",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	cfg.Server = ServerConfig{
		Port:         v.GetString("server.port"),
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.Storage = StorageConfig{
		DefaultBucket: v.GetString("storage.default_bucket"),
		DefaultRegion: v.GetString("storage.default_region"),
		PresignExpiry: v.GetInt64("storage.presign_expiry"),
		BucketEnv:     v.GetString("storage.bucket_env"),
		RegionEnv:     v.GetString("storage.region_env"),
		AccessKeyEnv:  v.GetString("storage.access_key_env"),
		SecretKeyEnv:  v.GetString("storage.secret_key_env"),
		IAMEndpoint:   v.GetString("storage.iam_endpoint"),
	}
	cfg.Model = ModelConfig{
		Name:    v.GetString("model.name"),
		APIBase: v.GetString("model.api_base"),
		APIKey:  v.GetString("model.api_key"),
	}
	cfg.Video = VideoModelConfig{
		Name:    v.GetString("video.name"),
		APIBase: v.GetString("video.api_base"),
		APIKey:  v.GetString("video.api_key"),
	}
	// Parse MCP args from a comma-separated string
	var mcpArgs []string
	for _, a := range strings.Split(v.GetString("mcp.args"), ",") {
		a = strings.TrimSpace(a)
		if a != "" {
			mcpArgs = append(mcpArgs, a)
		}
	}
	cfg.MCP = MCPConfig{
		Command:  v.GetString("mcp.command"),
		Args:     mcpArgs,
		ToolName: v.GetString("mcp.tool_name"),
		Timeout:  v.GetDuration("mcp.timeout"),
	}
	cfg.Auth = AuthConfig{
		JWTSecret: v.GetString("auth.jwt_secret"),
		Issuer:    v.GetString("auth.issuer"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	return cfg, nil
}
