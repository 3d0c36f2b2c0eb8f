package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/viki-m13/reddit-data-api/internal/model"
	"github.com/viki-m13/reddit-data-api/pkg/llm"
)

type Config struct {
	Server   Server   `mapstructure:"server"`
	Reddit   Reddit   `mapstructure:"reddit"`
	LLM      LLM      `mapstructure:"llm"`
	Defaults Defaults `mapstructure:"defaults"`
	LogLevel string   `mapstructure:"log_level"`
}

type Server struct {
	Port           string   `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	FrontendURL    string   `mapstructure:"frontend_url"`
}

// Reddit holds the script-app credentials and endpoints used for client-credentials search.
type Reddit struct {
	ClientID      string        `mapstructure:"client_id"`
	ClientSecret  string        `mapstructure:"client_secret"`
	UserAgent     string        `mapstructure:"user_agent"`
	TokenURL      string        `mapstructure:"token_url"`
	APIBaseURL    string        `mapstructure:"api_base_url"`
	PermalinkBase string        `mapstructure:"permalink_base"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

type LLM struct {
	Provider    string        `mapstructure:"provider"`
	APIKey      string        `mapstructure:"api_key"`
	Model       string        `mapstructure:"model"`
	BaseURL     string        `mapstructure:"base_url"`
	Mode        string        `mapstructure:"mode"`
	Strategy    string        `mapstructure:"strategy"`
	BatchSize   int           `mapstructure:"batch_size"`
	Concurrency int           `mapstructure:"concurrency"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type Defaults struct {
	Subreddit string `mapstructure:"subreddit"`
	Query     string `mapstructure:"query"`
	Limit     int    `mapstructure:"limit"`
	MaxLimit  int    `mapstructure:"max_limit"`
}

// envBindings keeps the variable names the service has always been deployed with.
var envBindings = map[string][]string{
	"server.port":          {"PORT"},
	"server.frontend_url":  {"FRONTEND_URL"},
	"reddit.client_id":     {"REDDIT_ID"},
	"reddit.client_secret": {"REDDIT_SECRET"},
	"reddit.user_agent":    {"REDDIT_USER_AGENT"},
	"reddit.timeout":       {"REDDIT_TIMEOUT"},
	"llm.provider":         {"LLM_PROVIDER"},
	"llm.api_key":          {"LLM_API_KEY", "DEEPSEEK_KEY"},
	"llm.model":            {"LLM_MODEL"},
	"llm.base_url":         {"LLM_BASE_URL"},
	"llm.mode":             {"LLM_MODE"},
	"llm.strategy":         {"LLM_STRATEGY"},
	"llm.batch_size":       {"LLM_BATCH_SIZE"},
	"llm.concurrency":      {"LLM_CONCURRENCY"},
	"llm.timeout":          {"LLM_TIMEOUT"},
	"log_level":            {"LOG_LEVEL"},
}

// Load reads .env (if present) and the process environment. Missing credentials are not
// an error here; they surface as *model.ConfigError when a request needs them.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return LoadFrom(viper.New())
}

// LoadFrom layers defaults, an optional reddit-data-api.yaml (or the file already set with
// v.SetConfigFile) and the environment, in increasing precedence.
func LoadFrom(v *viper.Viper) (*Config, error) {
	if v.ConfigFileUsed() == "" {
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME")
		v.SetConfigName("reddit-data-api")
		v.SetConfigType("yaml")
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	for key, envs := range envBindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("bind env for %s: %w", key, err)
		}
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if cfg.Server.FrontendURL != "" {
		cfg.Server.AllowedOrigins = append(cfg.Server.AllowedOrigins, cfg.Server.FrontendURL)
	}
	cfg.LLM.Provider = strings.ToLower(strings.TrimSpace(cfg.LLM.Provider))
	cfg.LLM.BatchSize = max(1, min(cfg.LLM.BatchSize, llm.MaxBatchSize))
	if cfg.LLM.Concurrency < 1 {
		cfg.LLM.Concurrency = 1
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "3000")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	v.SetDefault("reddit.user_agent", "myRedditApp/0.1")
	v.SetDefault("reddit.token_url", "https://www.reddit.com/api/v1/access_token")
	v.SetDefault("reddit.api_base_url", "https://oauth.reddit.com")
	v.SetDefault("reddit.permalink_base", "https://reddit.com")
	v.SetDefault("reddit.timeout", 30*time.Second)

	v.SetDefault("llm.provider", "deepseek")
	v.SetDefault("llm.mode", "tool")
	v.SetDefault("llm.strategy", "batch")
	v.SetDefault("llm.batch_size", 10)
	v.SetDefault("llm.concurrency", 4)
	v.SetDefault("llm.timeout", 60*time.Second)

	v.SetDefault("defaults.subreddit", "python")
	v.SetDefault("defaults.query", "API")
	v.SetDefault("defaults.limit", 5)
	v.SetDefault("defaults.max_limit", 100)

	v.SetDefault("log_level", "info")
}

// RequireCredentials reports the first missing Reddit credential.
func (r Reddit) RequireCredentials() error {
	if r.ClientID == "" {
		return &model.ConfigError{Key: "REDDIT_ID"}
	}
	if r.ClientSecret == "" {
		return &model.ConfigError{Key: "REDDIT_SECRET"}
	}
	return nil
}

func (l LLM) Configured() bool {
	return l.APIKey != ""
}

// SlogLevel maps LOG_LEVEL onto a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
