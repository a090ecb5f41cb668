// Package appconf holds the runtime configuration for the travel
// schedule API. Values come from command-line flags, optionally
// overlaid by a YAML config file.
package appconf

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Environment describes which deployment environment the process runs in.
type Environment int

const (
	Development Environment = iota
	Test
	Production
)

// EnvFlagToEnvironment converts an environment flag value to an Environment.
func EnvFlagToEnvironment(env string) Environment {
	switch env {
	case "production":
		return Production
	case "test":
		return Test
	default:
		return Development
	}
}

func (e Environment) String() string {
	switch e {
	case Production:
		return "production"
	case Test:
		return "test"
	default:
		return "development"
	}
}

// Config holds everything the server needs at startup.
type Config struct {
	Port         int         `yaml:"port" validate:"gt=0,lte=65535"`
	Env          Environment `yaml:"-"`
	ApiKeys      []string    `yaml:"apiKeys"`
	Verbose      bool        `yaml:"verbose"`
	RateLimit    int         `yaml:"rateLimit" validate:"gte=0"`
	GoogleAPIKey string      `yaml:"googleApiKey"`
	DatabaseURL  string      `yaml:"databaseUrl"`
	// DisableCache serves every schedule read freshly computed. Meant
	// for debugging cache behavior, not production use.
	DisableCache bool `yaml:"disableCache"`
}

// LoadFile overlays cfg with values from a YAML config file and
// validates the result. Missing file is an error; callers skip the
// call entirely when no -config flag was given.
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return cfg.Validate()
}

// Validate checks the configuration invariants.
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
