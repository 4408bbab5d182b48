// Package config loads gateway configuration from layered sources:
// built-in defaults, an optional TOML file, and GATEWAY_-prefixed
// environment variables, in increasing order of precedence.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	toml "github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/confmap"
	env "github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// envPrefix namespaces the environment variables the gateway reads,
// e.g. GATEWAY_PORT, GATEWAY_API_KEY, GATEWAY_BACKEND_URL.
const envPrefix = "GATEWAY_"

// Config holds the values the gateway consumes.
type Config struct {
	// Host and Port form the listen address.
	Host string `koanf:"host" validate:"required"`
	Port int    `koanf:"port" validate:"required,gt=0,lte=65535"`

	// APIKey enables bearer authentication when set; empty disables it.
	APIKey string `koanf:"api_key"`

	// TimeoutMs bounds one backend call end to end, streams included.
	TimeoutMs int `koanf:"timeout_ms" validate:"required,gt=0"`

	// BackendURL is the OpenCode server base URL.
	BackendURL string `koanf:"backend_url" validate:"required,url"`
}

// defaults are the lowest-precedence configuration layer.
var defaults = map[string]any{
	"host":        "127.0.0.1",
	"port":        4040,
	"api_key":     "",
	"timeout_ms":  60000,
	"backend_url": "http://127.0.0.1:4096",
}

// Load reads configuration from defaults, an optional TOML file, and the
// environment. An empty path skips the file layer; a path that does not
// exist is an error so misconfigured deployments fail at startup.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	envOpt := env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(key, value string) (string, any) {
			return strings.ToLower(strings.TrimPrefix(key, envPrefix)), value
		},
	}
	if err := k.Load(env.Provider(".", envOpt), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}
