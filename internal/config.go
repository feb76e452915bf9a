package internal

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Config represents the application configuration.
type Config struct {
	App    ApplicationConfig `yaml:"app"`
	Mock   MockConfig        `yaml:"mock"`
	Client ClientConfig      `yaml:"client"`
	Mirror MirrorConfig      `yaml:"mirror"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return fmt.Errorf("app: %w", err)
	}
	if err := c.Mock.Validate(); err != nil {
		return fmt.Errorf("mock: %w", err)
	}
	if err := c.Client.Validate(); err != nil {
		return fmt.Errorf("client: %w", err)
	}
	if err := c.Mirror.Validate(); err != nil {
		return fmt.Errorf("mirror: %w", err)
	}
	return nil
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

// MockConfig configures the mock notes service.
//
// SeedFile is optional. When set, the YAML file replaces the built-in notes
// and is watched for changes.
type MockConfig struct {
	Latency       time.Duration `yaml:"latency"`
	SeedFile      string        `yaml:"seed_file"`
	EventThrottle time.Duration `yaml:"event_throttle"`
}

// Validate validates the mock configuration.
func (c *MockConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Latency, validation.Min(time.Duration(0)), validation.Max(time.Minute)),
		validation.Field(&c.EventThrottle, validation.Min(time.Duration(0))),
	)
}

// ClientConfig configures the API client used by the mcp command.
type ClientConfig struct {
	BaseURL  string        `yaml:"base_url"`
	Timeout  time.Duration `yaml:"timeout"`
	Debounce time.Duration `yaml:"debounce"`
}

// Validate validates the client configuration.
func (c *ClientConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.BaseURL, validation.Required, validation.By(httpURL)),
		validation.Field(&c.Timeout, validation.Required, validation.Min(time.Millisecond)),
		validation.Field(&c.Debounce, validation.Min(time.Duration(0))),
	)
}

// MirrorConfig holds the optional SQLite cache mirror.
type MirrorConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Validate validates the mirror configuration.
func (c *MirrorConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.When(c.Enabled, validation.Required)),
	)
}

func httpURL(value any) error {
	s, _ := value.(string)
	u, err := url.Parse(s)
	if err != nil {
		return errors.New("must be a valid URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return errors.New("must be an absolute http(s) URL")
	}
	return nil
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 4300,
			},
		},
		Mock: MockConfig{
			Latency:       300 * time.Millisecond,
			EventThrottle: 2 * time.Second,
		},
		Client: ClientConfig{
			BaseURL:  "http://localhost:4300",
			Timeout:  10 * time.Second,
			Debounce: 200 * time.Millisecond,
		},
		Mirror: MirrorConfig{
			Path: "./pinboard.db",
		},
	}
}
