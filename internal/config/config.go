// Package config loads the shop's settings from defaults, an optional YAML
// file, an optional .env file and SHOP_* environment variables, in that order
// of increasing priority.
package config

import (
	"errors"
	"fmt"
	"os"
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

const (
	envPrefix      = "SHOP_"
	DefaultEnvFile = ".env"
	DefaultFile    = "config.yaml"
)

type Config struct {
	Server struct {
		Port       int           `koanf:"port"`
		ReadHeader time.Duration `koanf:"readheader"`
		Shutdown   time.Duration `koanf:"shutdown"`
	} `koanf:"server"`

	Log struct {
		Level string `koanf:"level"`
	} `koanf:"log"`

	Metrics struct {
		Enabled bool   `koanf:"enabled"`
		Token   string `koanf:"token"`
	} `koanf:"metrics"`

	Shop struct {
		Seed     bool `koanf:"seed"`
		LowStock int  `koanf:"lowstock"`
	} `koanf:"shop"`

	RateLimit struct {
		Limit  int           `koanf:"limit"`
		Window time.Duration `koanf:"window"`
	} `koanf:"ratelimit"`
}

func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

func (c Config) String() string {
	return fmt.Sprintf("server.port=%d, server.readheader=%v, server.shutdown=%v, log.level=%s, metrics.enabled=%t, metrics.token=%s, shop.seed=%t, shop.lowstock=%d, ratelimit.limit=%d, ratelimit.window=%v",
		c.Server.Port,
		c.Server.ReadHeader,
		c.Server.Shutdown,
		c.Log.Level,
		c.Metrics.Enabled,
		mask(c.Metrics.Token),
		c.Shop.Seed,
		c.Shop.LowStock,
		c.RateLimit.Limit,
		c.RateLimit.Window)
}

func mask(secret string) string {
	if secret == "" {
		return "<not configured>"
	}
	return "****"
}

var defaults = map[string]any{
	"server.port":       8080,
	"server.readheader": "5s",
	"server.shutdown":   "10s",
	"log.level":         "info",
	"metrics.enabled":   true,
	"metrics.token":     "",
	"shop.seed":         true,
	"shop.lowstock":     5,
	"ratelimit.limit":   60,
	"ratelimit.window":  "1m",
}

func Load() (*Config, error) {
	return LoadFrom(DefaultFile, DefaultEnvFile)
}

// LoadFrom is Load with explicit file locations. Missing files are skipped.
func LoadFrom(configFile, envFile string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if configFile != "" {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", configFile, err)
		}
	}

	if envFile != "" {
		vars, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			m := make(map[string]any, len(vars))
			for key, value := range vars {
				if strings.HasPrefix(strings.ToUpper(key), envPrefix) {
					m[keyTransformer(key)] = value
				}
			}
			if err := k.Load(confmap.Provider(m, "."), nil); err != nil {
				return nil, fmt.Errorf("load %s: %w", envFile, err)
			}
		case !errors.Is(err, os.ErrNotExist):
			return nil, fmt.Errorf("read %s: %w", envFile, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", keyTransformer), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validate(cfg Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", cfg.Server.Port)
	}
	if cfg.Server.ReadHeader <= 0 {
		return fmt.Errorf("invalid server read header timeout: %v", cfg.Server.ReadHeader)
	}
	if cfg.Server.Shutdown <= 0 {
		return fmt.Errorf("invalid server shutdown timeout: %v", cfg.Server.Shutdown)
	}
	if _, err := zapcore.ParseLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.Log.Level, err)
	}
	if cfg.Shop.LowStock < 0 {
		return fmt.Errorf("invalid low stock threshold: %d", cfg.Shop.LowStock)
	}
	if cfg.RateLimit.Limit <= 0 {
		return fmt.Errorf("invalid rate limit: %d", cfg.RateLimit.Limit)
	}
	if cfg.RateLimit.Window <= 0 {
		return fmt.Errorf("invalid rate limit window: %v", cfg.RateLimit.Window)
	}
	return nil
}

// SHOP_SERVER_PORT -> server.port
func keyTransformer(key string) string {
	key = strings.ToLower(key)
	key = strings.TrimPrefix(key, strings.ToLower(envPrefix))
	return strings.ReplaceAll(key, "_", ".")
}
