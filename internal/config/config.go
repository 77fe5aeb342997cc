// Package config loads the catalog service settings. Sources are layered,
// later ones winning: built-in defaults, an optional YAML file, an optional
// .env file, then CATALOG_-prefixed process environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap/zapcore"
)

const EnvPrefix = "CATALOG_"

type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Shutdown ShutdownConfig `koanf:"shutdown"`
	Log      LogConfig      `koanf:"log"`
	Metrics  MetricsConfig  `koanf:"metrics"`
	Seed     bool           `koanf:"seed"`
}

type ServerConfig struct {
	Port    int `koanf:"port"`
	Timeout struct {
		ReadHeader time.Duration `koanf:"readheader"`
		Read       time.Duration `koanf:"read"`
		Write      time.Duration `koanf:"write"`
		Idle       time.Duration `koanf:"idle"`
	} `koanf:"timeout"`
}

type ShutdownConfig struct {
	Timeout time.Duration `koanf:"timeout"`
}

type LogConfig struct {
	Level string `koanf:"level"`
}

type MetricsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Token   string `koanf:"token"`
}

func defaults() map[string]any {
	return map[string]any{
		"server.port":               8082,
		"server.timeout.readheader": 5 * time.Second,
		"server.timeout.read":       10 * time.Second,
		"server.timeout.write":      10 * time.Second,
		"server.timeout.idle":       60 * time.Second,
		"shutdown.timeout":          10 * time.Second,
		"log.level":                 "info",
		"metrics.enabled":           true,
		"metrics.token":             "",
		"seed":                      true,
	}
}

// Load reads configFile and envFile if they exist; a missing file is not an
// error. A bare PORT variable overrides server.port unless CATALOG_SERVER_PORT is set.
func Load(configFile, envFile string) (Config, error) {
	var cfg Config
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return cfg, fmt.Errorf("load defaults: %w", err)
	}

	if configFile != "" {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return cfg, fmt.Errorf("load config file %q: %w", configFile, err)
		}
	}

	if envFile != "" {
		envMap, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			m := make(map[string]any, len(envMap))
			for key, value := range envMap {
				if strings.HasPrefix(key, EnvPrefix) {
					m[envKey(key)] = value
				}
			}
			if err := k.Load(confmap.Provider(m, "."), nil); err != nil {
				return cfg, fmt.Errorf("load env file %q: %w", envFile, err)
			}
		case !errors.Is(err, fs.ErrNotExist):
			return cfg, fmt.Errorf("read env file %q: %w", envFile, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return cfg, fmt.Errorf("load environment: %w", err)
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.applyPlatformPort(); err != nil {
		return cfg, err
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// CATALOG_SERVER_TIMEOUT_READ -> server.timeout.read
func envKey(key string) string {
	key = strings.TrimPrefix(key, EnvPrefix)
	return strings.ReplaceAll(strings.ToLower(key), "_", ".")
}

func (c *Config) applyPlatformPort() error {
	if _, ok := os.LookupEnv(EnvPrefix + "SERVER_PORT"); ok {
		return nil
	}
	v := os.Getenv("PORT")
	if v == "" {
		return nil
	}
	p, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid PORT %q: %w", v, err)
	}
	c.Server.Port = p
	return nil
}

func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Server.Port)
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid HTTP server port: %d", c.Server.Port)
	}
	if c.Server.Timeout.ReadHeader <= 0 {
		return fmt.Errorf("invalid HTTP server read header timeout: %v", c.Server.Timeout.ReadHeader)
	}
	if c.Server.Timeout.Read <= 0 {
		return fmt.Errorf("invalid HTTP server read timeout: %v", c.Server.Timeout.Read)
	}
	if c.Server.Timeout.Write <= 0 {
		return fmt.Errorf("invalid HTTP server write timeout: %v", c.Server.Timeout.Write)
	}
	if c.Server.Timeout.Idle <= 0 {
		return fmt.Errorf("invalid HTTP server idle timeout: %v", c.Server.Timeout.Idle)
	}
	if c.Shutdown.Timeout <= 0 {
		return fmt.Errorf("invalid shutdown timeout: %v", c.Shutdown.Timeout)
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.Log.Level, err)
	}
	return nil
}

// String renders the effective settings for the startup log. The metrics
// token is masked.
func (c *Config) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "server.port=%d ", c.Server.Port)
	fmt.Fprintf(&b, "server.timeout.readheader=%v server.timeout.read=%v ", c.Server.Timeout.ReadHeader, c.Server.Timeout.Read)
	fmt.Fprintf(&b, "server.timeout.write=%v server.timeout.idle=%v ", c.Server.Timeout.Write, c.Server.Timeout.Idle)
	fmt.Fprintf(&b, "shutdown.timeout=%v log.level=%s ", c.Shutdown.Timeout, c.Log.Level)
	fmt.Fprintf(&b, "metrics.enabled=%t metrics.token=%s seed=%t", c.Metrics.Enabled, mask(c.Metrics.Token), c.Seed)
	return b.String()
}

func mask(s string) string {
	if s == "" {
		return "<not configured>"
	}
	return "****"
}
