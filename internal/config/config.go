package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Search    SearchConfig    `yaml:"search" mapstructure:"search"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Research  ResearchConfig  `yaml:"research" mapstructure:"research"`
	Replace   ReplaceConfig   `yaml:"replace" mapstructure:"replace"`
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// SearchConfig holds Google Custom Search API settings.
type SearchConfig struct {
	Key         string `yaml:"key" mapstructure:"key"`
	EngineID    string `yaml:"engine_id" mapstructure:"engine_id"`
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// AnthropicConfig holds Anthropic API settings for AI-assisted extraction.
type AnthropicConfig struct {
	Key         string `yaml:"key" mapstructure:"key"`
	Model       string `yaml:"model" mapstructure:"model"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// ResearchConfig configures specification resolution.
type ResearchConfig struct {
	UseAI            bool    `yaml:"use_ai" mapstructure:"use_ai"`
	QualityThreshold float64 `yaml:"quality_threshold" mapstructure:"quality_threshold"`
}

// ReplaceConfig configures the replacement search.
type ReplaceConfig struct {
	MaxConcurrent int              `yaml:"max_concurrent" mapstructure:"max_concurrent"`
	Retailers     []RetailerConfig `yaml:"retailers" mapstructure:"retailers"`
}

// RetailerConfig names one retail source and its domain.
type RetailerConfig struct {
	Name   string `yaml:"name" mapstructure:"name"`
	Domain string `yaml:"domain" mapstructure:"domain"`
}

// StoreConfig configures run persistence.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DSN         string `yaml:"dsn" mapstructure:"dsn"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ServerConfig configures the REST API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("APPLIANCE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults. Credentials default to empty so their env bindings resolve.
	v.SetDefault("search.key", "")
	v.SetDefault("search.engine_id", "")
	v.SetDefault("anthropic.key", "")
	v.SetDefault("store.database_url", "")
	v.SetDefault("search.base_url", "https://www.googleapis.com/customsearch/v1")
	v.SetDefault("search.timeout_secs", 10)
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.timeout_secs", 30)
	v.SetDefault("research.use_ai", true)
	v.SetDefault("research.quality_threshold", 0.7)
	v.SetDefault("replace.max_concurrent", 4)
	v.SetDefault("replace.retailers", []map[string]string{
		{"name": "Home Depot", "domain": "homedepot.com"},
		{"name": "Lowe's", "domain": "lowes.com"},
		{"name": "Best Buy", "domain": "bestbuy.com"},
		{"name": "P.C. Richard & Son", "domain": "pcrichard.com"},
	})
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.dsn", "appliance-research.db")
	v.SetDefault("server.port", 5001)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks that the configuration required for the given command mode
// is present and sane. Modes: "research", "replace", "complete", "serve",
// "runs".
func (c *Config) Validate(mode string) error {
	var missing []string

	needsSearch := false
	switch mode {
	case "research", "replace", "complete", "serve":
		needsSearch = true
	case "runs":
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if needsSearch {
		if c.Search.Key == "" {
			missing = append(missing, "search.key is required")
		}
		if c.Search.EngineID == "" {
			missing = append(missing, "search.engine_id is required")
		}
		if c.Research.UseAI && c.Anthropic.Key == "" {
			missing = append(missing, "anthropic.key is required when research.use_ai is enabled")
		}
	}

	if c.Research.QualityThreshold < 0 || c.Research.QualityThreshold > 1 {
		missing = append(missing, "research.quality_threshold must be between 0 and 1")
	}
	if c.Replace.MaxConcurrent < 1 || c.Replace.MaxConcurrent > 16 {
		missing = append(missing, "replace.max_concurrent must be between 1 and 16")
	}

	switch c.Store.Driver {
	case "sqlite", "none":
	case "postgres":
		if c.Store.DatabaseURL == "" {
			missing = append(missing, "store.database_url is required for the postgres driver")
		}
	default:
		missing = append(missing, "store.driver must be sqlite, postgres, or none")
	}

	if mode == "serve" && c.Server.Port <= 0 {
		missing = append(missing, "server.port must be > 0")
	}

	if len(missing) > 0 {
		return eris.New("config: " + strings.Join(missing, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
