// Package config provides configuration loading from YAML files.
package config

import (
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Server   ServerConfig            `yaml:"server"`
	Admin    AdminConfig             `yaml:"admin"`
	Library  LibraryConfig           `yaml:"library"`
	Storage  StorageConfig           `yaml:"storage"`
	Filters  map[string]FilterConfig `yaml:"filters"`
	Messages MessagesConfig          `yaml:"messages"`
	Spotify  SpotifyConfig           `yaml:"spotify"`
}

// ServerConfig represents server configuration.
type ServerConfig struct {
	Addr  string      `yaml:"addr" default:":8080"`
	Hooks HooksConfig `yaml:"hooks"`
}

// HooksConfig represents lifecycle hooks configuration.
type HooksConfig struct {
	OnStarted []string `yaml:"on_started"`
	OnStopped []string `yaml:"on_stopped"`
}

// AdminConfig represents admin-related configuration.
type AdminConfig struct {
	Token string `yaml:"token" validate:"required"`
}

// LibraryConfig represents the music library settings.
type LibraryConfig struct {
	MusicDir          string   `yaml:"music_dir" default:"static/music" validate:"required"`
	MaxUploadMB       int      `yaml:"max_upload_mb" default:"16" validate:"gte=1,lte=1024"`
	RecentLimit       int      `yaml:"recent_limit" default:"20" validate:"gte=1,lte=500"`
	AllowedExtensions []string `yaml:"allowed_extensions" default:"[\".mp3\",\".m4a\",\".flac\",\".ogg\"]"`
}

// StorageConfig selects the persistence driver. Settings are driver specific
// and decoded by the store package.
type StorageConfig struct {
	Driver   string         `yaml:"driver" default:"json" validate:"oneof=json sqlite"`
	Settings map[string]any `yaml:"settings"`
}

// FilterConfig represents a filter's configuration.
type FilterConfig struct {
	Enabled  bool           `yaml:"enabled"`
	Settings map[string]any `yaml:"settings,omitempty"`
}

// MessagesConfig represents user-facing messages.
type MessagesConfig struct {
	Success           string `yaml:"success" default:"Done"`
	TrackAdded        string `yaml:"track_added" default:"Song added"`
	DefaultError      string `yaml:"default_error" default:"Request failed"`
	DuplicateTrack    string `yaml:"duplicate_track" default:"Song is already in the playlist"`
	UnsupportedFormat string `yaml:"unsupported_format" default:"Unsupported audio format"`
	TrackNotFound     string `yaml:"track_not_found" default:"Song not found"`
	UploadTooLarge    string `yaml:"upload_too_large" default:"File is too large"`
}

// SpotifyConfig represents Spotify API configuration. Spotify import is
// disabled unless all credentials are present.
type SpotifyConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	RefreshToken string `yaml:"refresh_token"`
	Market       string `yaml:"market" validate:"omitempty,len=2" default:"JP"`
}

// Enabled reports whether Spotify credentials are configured.
func (s SpotifyConfig) Enabled() bool {
	return s.ClientID != "" && s.ClientSecret != "" && s.RefreshToken != ""
}

// Load loads configuration from a YAML file.
// Environment variables take precedence over file values for sensitive fields.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}
	return Parse(data)
}

// Parse builds a configuration from YAML bytes.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}

	// Override with environment variables
	cfg.overrideFromEnv()

	// Set defaults using creasty/defaults
	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

// overrideFromEnv overrides config values with environment variables.
func (c *Config) overrideFromEnv() {
	if v := os.Getenv("ADMIN_TOKEN"); v != "" {
		c.Admin.Token = v
	}
	if v := os.Getenv("SPOTIFY_CLIENT_ID"); v != "" {
		c.Spotify.ClientID = v
	}
	if v := os.Getenv("SPOTIFY_CLIENT_SECRET"); v != "" {
		c.Spotify.ClientSecret = v
	}
	if v := os.Getenv("SPOTIFY_REFRESH_TOKEN"); v != "" {
		c.Spotify.RefreshToken = v
	}
	if v := os.Getenv("TUNEDECK_STORAGE_PATH"); v != "" {
		if c.Storage.Settings == nil {
			c.Storage.Settings = make(map[string]any)
		}
		c.Storage.Settings["path"] = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}

	for _, ext := range c.Library.AllowedExtensions {
		if !strings.HasPrefix(ext, ".") {
			return errors.Newf("allowed extension %q must start with a dot", ext)
		}
	}

	return nil
}

// GetMessage returns the message for the given code.
func (c *Config) GetMessage(code string) string {
	switch code {
	case "success":
		return c.Messages.Success
	case "track_added":
		return c.Messages.TrackAdded
	case "duplicate_track":
		return c.Messages.DuplicateTrack
	case "unsupported_format":
		return c.Messages.UnsupportedFormat
	case "track_not_found":
		return c.Messages.TrackNotFound
	case "upload_too_large":
		return c.Messages.UploadTooLarge
	default:
		return c.Messages.DefaultError
	}
}

// IsFilterEnabled checks if a filter is enabled.
func (c *Config) IsFilterEnabled(filterName string) bool {
	if f, ok := c.Filters[filterName]; ok {
		return f.Enabled
	}
	return false
}

// MaxUploadBytes returns the upload size limit in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.Library.MaxUploadMB) << 20
}
