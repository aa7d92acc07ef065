package internal

import (
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/larder/internal/reference"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App    ApplicationConfig `yaml:"app"`
	Corpus CorpusConfig      `yaml:"corpus"`
	SQLite SQLiteConfig      `yaml:"sqlite"`
	Store  StoreConfig       `yaml:"store"`
	Auth   AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Corpus.Validate(); err != nil {
		return err
	}
	if err := c.SQLite.Validate(); err != nil {
		return err
	}
	if err := c.Store.Validate(); err != nil {
		return err
	}
	return c.Auth.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// CorpusConfig holds the path to the recipe corpus directory.
type CorpusConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the corpus configuration.
func (c *CorpusConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// SQLiteConfig holds SQLite database configuration.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// StoreConfig identifies the content store dataset the engine works
// against, and the reference marker used when scanning ingredients.
type StoreConfig struct {
	URL     string `yaml:"url"`
	Project string `yaml:"project"`
	Dataset string `yaml:"dataset"`
	Marker  string `yaml:"marker"`
}

// Validate validates the store configuration.
func (c *StoreConfig) Validate() error {
	if c.Marker == "" {
		c.Marker = reference.DefaultMarker
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.URL, validation.Required),
		validation.Field(&c.Project, validation.Required),
		validation.Field(&c.Dataset, validation.Required),
	)
}

// AuthConfig holds authentication configuration for the content store
// server.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local dev.
//   - "token": Bearer token authentication; WriteTokens must be non-empty.
//
// Read tokens authenticate but may not mutate visibility.
type AuthConfig struct {
	Mode        string   `yaml:"mode"`
	WriteTokens []string `yaml:"write_tokens"`
	ReadTokens  []string `yaml:"read_tokens"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	// Normalise empty mode to "disabled" for backward compatibility.
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && len(c.WriteTokens) == 0 {
		return fmt.Errorf("auth: mode is %q but no write tokens configured", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Corpus: CorpusConfig{
			Path: "./corpus",
		},
		SQLite: SQLiteConfig{
			Path: "./larder.db",
		},
		Store: StoreConfig{
			URL:     "http://localhost:8080",
			Project: "kitchen",
			Dataset: "recipes",
			Marker:  reference.DefaultMarker,
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}
