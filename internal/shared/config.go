package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Paths    PathsConfig    `toml:"paths"`
	Spotify  SpotifyConfig  `toml:"spotify"`
	Database DatabaseConfig `toml:"database"`
}

// PathsConfig locates the plain-text inputs and the record file.
type PathsConfig struct {
	Credentials string `toml:"credentials"`
	Songs       string `toml:"songs"`
	Record      string `toml:"record"`
}

// SpotifyConfig contains Spotify API behaviour settings.
//
// Credentials are not stored here; they come from the positional credentials file.
type SpotifyConfig struct {
	Scopes      []string `toml:"scopes"`
	Public      bool     `toml:"public"`
	Market      string   `toml:"market"`
	SearchRate  float64  `toml:"search_rate"`
	AuthTimeout int      `toml:"auth_timeout"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// AuthTimeoutDuration returns the OAuth callback wait, falling back to two minutes.
func (c SpotifyConfig) AuthTimeoutDuration() time.Duration {
	if c.AuthTimeout <= 0 {
		return 2 * time.Minute
	}
	return time.Duration(c.AuthTimeout) * time.Second
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep the values of [DefaultConfig].
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// LoadConfigOrDefault loads path when it exists and returns the defaults otherwise.
func LoadConfigOrDefault(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	if _, err := os.Stat(path); err != nil {
		return DefaultConfig(), nil
	}
	return LoadConfig(path)
}

// Validate checks settings that would otherwise fail late.
func (c *Config) Validate() error {
	if c.Paths.Credentials == "" || c.Paths.Songs == "" || c.Paths.Record == "" {
		return fmt.Errorf("%w: paths.credentials, paths.songs and paths.record must be set", ErrInvalidConfig)
	}
	if len(c.Spotify.Scopes) == 0 {
		return fmt.Errorf("%w: spotify.scopes must not be empty", ErrInvalidConfig)
	}
	if c.Spotify.SearchRate < 0 {
		return fmt.Errorf("%w: spotify.search_rate must not be negative", ErrInvalidConfig)
	}
	return nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
