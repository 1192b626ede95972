package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Trigger   TriggerConfig   `mapstructure:"trigger"`
	Uploads   UploadsConfig   `mapstructure:"uploads"`
	Staging   StagingConfig   `mapstructure:"staging"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Release   ReleaseConfig   `mapstructure:"release"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	TemplatesDir string        `mapstructure:"templates_dir"`
	StaticDir    string        `mapstructure:"static_dir"`
}

// TriggerConfig selects and configures the build trigger backend.
// Mode "script" invokes an external shell script; mode "api" performs
// the provider POST in-process.
type TriggerConfig struct {
	Mode       string        `mapstructure:"mode"`
	ScriptPath string        `mapstructure:"script_path"`
	WorkDir    string        `mapstructure:"work_dir"`
	Timeout    time.Duration `mapstructure:"timeout"`
	Processor  string        `mapstructure:"processor"`
	API        APIConfig     `mapstructure:"api"`
}

type APIConfig struct {
	URL     string `mapstructure:"url"`
	Owner   string `mapstructure:"owner"`
	Project string `mapstructure:"project"`
	Branch  string `mapstructure:"branch"`
	Script  string `mapstructure:"script"`
	Token   string `mapstructure:"token"`
}

type UploadsConfig struct {
	MaxSize           int64    `mapstructure:"max_size"`
	AllowedExtensions []string `mapstructure:"allowed_extensions"`
}

type StagingConfig struct {
	FeatureFile string `mapstructure:"feature_file"`
}

type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	RedisURL string        `mapstructure:"redis_url"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

type ReleaseConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	ISOPrefix string `mapstructure:"iso_prefix"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.templates_dir", "./web/templates")
	v.SetDefault("server.static_dir", "./web/static")
	v.SetDefault("trigger.mode", "api")
	v.SetDefault("trigger.script_path", "./build.sh")
	v.SetDefault("trigger.work_dir", ".")
	v.SetDefault("trigger.timeout", "30s")
	v.SetDefault("trigger.processor", "i386")
	v.SetDefault("trigger.api.url", "https://api.travis-ci.org")
	v.SetDefault("trigger.api.owner", "fossasia")
	v.SetDefault("trigger.api.project", "meilix")
	v.SetDefault("trigger.api.branch", "master")
	v.SetDefault("trigger.api.script", "")
	v.SetDefault("trigger.api.token", "")
	v.SetDefault("uploads.max_size", 8388608)
	v.SetDefault("uploads.allowed_extensions", []string{"png", "jpg", "jpeg", "gif", "svg"})
	v.SetDefault("staging.feature_file", "./features.txt")
	v.SetDefault("catalog.path", "")
	v.SetDefault("rate_limit.enabled", false)
	v.SetDefault("rate_limit.redis_url", "redis://localhost:6379/0")
	v.SetDefault("rate_limit.requests", 10)
	v.SetDefault("rate_limit.window", "1h")
	v.SetDefault("release.base_url", "https://github.com/fossasia/meilix/releases/download")
	v.SetDefault("release.iso_prefix", "meilix-zesty")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// Read config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/isoforge")
	}

	// Environment variables override, e.g. ISOFORGE_TRIGGER_API_TOKEN
	v.SetEnvPrefix("ISOFORGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found; use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
