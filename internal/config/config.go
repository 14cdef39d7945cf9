// Package config manages environment variables.
//
// It reads variables from the process environment (optionally seeded
// from a `.env` file), loads them into structured Go types, and
// validates that required values are present so the application can
// fail fast on bad or missing configuration.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	// Side-effect import: loads a `.env` file into the process env
	// before any env vars are read.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"
)

// Config is the root configuration object for the application.
//
// Env vars are read with the SCI_ prefix and mapped into nested fields
// via the "." delimiter, e.g. SCI_SERVER.PORT -> Config.Server.Port.
//
// Observability is a pointer because it is optional; defaults are
// injected at load time when it is absent.
type Config struct {
	Primary       Primary              `koanf:"primary"`
	Server        ServerConfig         `koanf:"server"`
	Pinning       PinningConfig        `koanf:"pinning"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment,
// used to tag logs and switch behavior between dev and production.
type Primary struct {
	Env string `koanf:"env" validate:"required,oneof=development staging production"`
}

// ServerConfig groups settings for the HTTP server runtime.
// Timeout values are interpreted as seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required,min=1"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required,min=1"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required,min=1"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`
}

// PinningConfig selects and configures the content-pinning provider.
//
// Provider "pinata" uses the hosted Pinata API and requires PinataJWT.
// Provider "ipfs" pins through the HTTP API of a self-hosted IPFS node
// and requires IPFSNodeAddress.
type PinningConfig struct {
	Provider        string        `koanf:"provider" validate:"required,oneof=pinata ipfs"`
	PinataJWT       string        `koanf:"pinata_jwt" validate:"required_if=Provider pinata"`
	IPFSNodeAddress string        `koanf:"ipfs_node_address" validate:"required_if=Provider ipfs"`
	JSONName        string        `koanf:"json_name" validate:"required"`
	UploadTimeout   time.Duration `koanf:"upload_timeout" validate:"required,min=1s"`
}

// loadConfig loads configuration from environment variables, applies
// defaults for optional values, validates the result, and returns it.
func loadConfig() (*Config, error) {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	k := koanf.New(".")

	err := k.Load(env.Provider("SCI_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "SCI_"))
	}), nil)
	if err != nil {
		logger.Fatal().Err(err).Msg("Could not load initial env variables.")
	}

	mainConfig := &Config{}

	err = k.Unmarshal("", mainConfig)
	if err != nil {
		logger.Fatal().Err(err).Msg("Could not unmarshal main config.")
	}

	mainConfig.applyDefaults()

	validate := validator.New()

	err = validate.Struct(mainConfig)
	if err != nil {
		logger.Fatal().Err(err).Msg("Config validation failed.")
	}

	if mainConfig.Observability == nil {
		mainConfig.Observability = DefaultObservabilityConfig()
	}

	// Service name and environment are forced from the primary block so
	// logging and tracing see consistent values.
	mainConfig.Observability.ServiceName = "sci-backend"
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := mainConfig.Observability.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid observability config")
	}

	return mainConfig, nil
}

// applyDefaults fills optional values that were not provided via env.
// The pinning auth settings deliberately get no default: a missing
// token must fail validation at startup, not at pin time.
//
// The bare PORT and PINATA_JWT variables are honored as fallbacks so
// existing deployments keep working without the SCI_ prefix scheme.
func (c *Config) applyDefaults() {
	if c.Primary.Env == "" {
		c.Primary.Env = "development"
	}
	if c.Server.Port == "" {
		c.Server.Port = os.Getenv("PORT")
	}
	if c.Pinning.PinataJWT == "" {
		c.Pinning.PinataJWT = os.Getenv("PINATA_JWT")
	}
	if c.Server.Port == "" {
		c.Server.Port = "3000"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 120
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}
	if len(c.Server.CORSAllowedOrigins) == 0 {
		c.Server.CORSAllowedOrigins = []string{"*"}
	}
	if c.Pinning.Provider == "" {
		c.Pinning.Provider = "pinata"
	}
	if c.Pinning.JSONName == "" {
		c.Pinning.JSONName = "upload.json"
	}
	if c.Pinning.UploadTimeout == 0 {
		c.Pinning.UploadTimeout = 60 * time.Second
	}
}

// Load is the public entrypoint used by cmd/api to obtain the config.
func Load() (*Config, error) {
	return loadConfig()
}
