package configs

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang-line-connect/pkg/validator"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config struct
type Config struct {
	App     `mapstructure:"app"`
	Line    `mapstructure:"line"`
	Client  `mapstructure:"client"`
	Metrics `mapstructure:"metrics"`
	Webhook `mapstructure:"webhook"`
}

// App struct
type App struct {
	Debug bool   `mapstructure:"debug"`
	Env   string `mapstructure:"env"`
	Port  string `mapstructure:"port" validate:"required"`
}

// Line struct - channel credentials and platform endpoint
type Line struct {
	ChannelSecret string `mapstructure:"channel_secret" validate:"required"`
	ChannelToken  string `mapstructure:"channel_token" validate:"required"`
	APIEndpoint   string `mapstructure:"api_endpoint" validate:"required,url"`
}

// Client struct - messaging API client tuning
type Client struct {
	// TimeoutSeconds applies to every call; 0 leaves calls without a deadline
	TimeoutSeconds int `mapstructure:"timeout_seconds" validate:"gte=0"`
	MaxConcurrency int `mapstructure:"max_concurrency" validate:"gte=1"`
	MaxIdleConns   int `mapstructure:"max_idle_conns" validate:"gte=1"`
}

// Timeout returns the configured per-call timeout
func (c Client) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Metrics struct
type Metrics struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// Webhook struct
type Webhook struct {
	// RedeliveryTTLMinutes is how long a processed webhookEventId is remembered
	RedeliveryTTLMinutes int `mapstructure:"redelivery_ttl_minutes" validate:"gte=1"`
}

// RedeliveryTTL returns the redelivery window as a duration
func (w Webhook) RedeliveryTTL() time.Duration {
	return time.Duration(w.RedeliveryTTLMinutes) * time.Minute
}

var (
	config   Config
	configMu sync.RWMutex
)

var defaults = map[string]any{
	"app.debug":                      false,
	"app.env":                        "development",
	"app.port":                       "9089",
	"line.channel_secret":            "",
	"line.channel_token":             "",
	"line.api_endpoint":              "https://api.line.me",
	"client.timeout_seconds":         0,
	"client.max_concurrency":         16,
	"client.max_idle_conns":          100,
	"metrics.enabled":                true,
	"metrics.path":                   "/metrics",
	"webhook.redelivery_ttl_minutes": 60,
}

// Load reads config.yaml from path, applies environment overrides
// (LINE_CHANNEL_SECRET overrides line.channel_secret) and validates the result.
// A missing config file is not an error; defaults and environment are used.
func Load(path string) (*Config, error) {
	v := newViper(path)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}
	return decode(v)
}

// InitViper func - loads the process configuration and watches the file for changes
func InitViper(path, env string) {
	v := newViper(path)
	if env != "" {
		v.Set("app.env", env)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			panic(err)
		}
		logrus.Warnf("No config file under %s, using defaults and environment", path)
	} else {
		v.WatchConfig()
		v.OnConfigChange(func(e fsnotify.Event) {
			logrus.Infof("Config file has changed: %s", e.Name)
			cfg, err := decode(v)
			if err != nil {
				logrus.Errorf("Ignoring invalid config change: %v", err)
				return
			}
			configMu.Lock()
			config = *cfg
			configMu.Unlock()
		})
	}

	cfg, err := decode(v)
	if err != nil {
		logrus.Fatalln(err)
	}
	configMu.Lock()
	config = *cfg
	configMu.Unlock()
}

// GetViper func - returns a snapshot of the process configuration
func GetViper() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	cfg := config
	return &cfg
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigName("config")
	v.AddConfigPath(path)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := validator.New().ValidateStruct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}
