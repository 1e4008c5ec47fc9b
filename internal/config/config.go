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
	Fence   FenceConfig   `yaml:"fence" mapstructure:"fence"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Resolve ResolveConfig `yaml:"resolve" mapstructure:"resolve"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// FenceConfig holds Fence360 CRM access settings. Cookie is the session
// cookie used when the caller does not forward one; it must come from
// configuration or environment, never from source.
type FenceConfig struct {
	BaseURL   string  `yaml:"base_url" mapstructure:"base_url"`
	Cookie    string  `yaml:"cookie" mapstructure:"cookie"`
	RateLimit float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// ServerConfig configures the HTTP route layer.
type ServerConfig struct {
	Port      int    `yaml:"port" mapstructure:"port"`
	APISecret string `yaml:"api_secret" mapstructure:"api_secret"`
}

// ResolveConfig configures the resolution engine.
type ResolveConfig struct {
	Concurrency      int      `yaml:"concurrency" mapstructure:"concurrency"`
	TrackStates      []int    `yaml:"track_states" mapstructure:"track_states"`
	ContractStatuses []string `yaml:"contract_statuses" mapstructure:"contract_statuses"`
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
	v.SetEnvPrefix("RESOLVER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("fence.base_url", "https://www.fence360.net")
	v.SetDefault("fence.rate_limit", 5.0)
	v.SetDefault("server.port", 8080)
	v.SetDefault("resolve.concurrency", 5)
	v.SetDefault("resolve.track_states", []int{13, 14})
	v.SetDefault("resolve.contract_statuses", []string{"Processing"})
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
