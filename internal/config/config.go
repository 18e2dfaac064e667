package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/gobwas/glob"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration structure.
// Intervals are plain seconds in the file; the short UI delays are
// milliseconds. Accessor methods return time.Duration.
type Config struct {
	Server struct {
		URL            string `yaml:"url"`             // Base URL of the transcription API
		TimeoutSeconds int    `yaml:"timeout_seconds"` // Per-request timeout
	} `yaml:"server"`
	Poll struct {
		IntervalSeconds int `yaml:"interval_seconds"` // Status poll period
		RefreshDelayMs  int `yaml:"refresh_delay_ms"` // Delay before refresh after upload/transcribe
	} `yaml:"poll"`
	Dedupe struct {
		// Tuning constants inherited from the web client; no stated
		// rationale there, so they stay configurable rather than fixed.
		GuardSeconds    int `yaml:"guard_seconds"`    // In-flight lease held from request issue
		CooldownSeconds int `yaml:"cooldown_seconds"` // Lease retention after the response lands
	} `yaml:"dedupe"`
	Audio struct {
		Patterns []string `yaml:"patterns"` // Glob patterns accepted into the queue
	} `yaml:"audio"`
	Watch struct {
		Directories    []string `yaml:"directories"`     // Directories watched for new audio files
		AutoUpload     bool     `yaml:"auto_upload"`     // Upload as soon as a file appears
		AutoTranscribe bool     `yaml:"auto_transcribe"` // Start transcription right after upload
	} `yaml:"watch"`
	UI struct {
		CopyConfirmMs int `yaml:"copy_confirm_ms"` // How long the "Copiado!" label sticks
	} `yaml:"ui"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// New returns the default configuration.
func New() *Config {
	return defaultConfig()
}

// DefaultConfigPath returns ~/.config/scribe/config.yaml.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "scribe", "config.yaml"), nil
}

// LoadConfig loads configuration from the default location.
func LoadConfig() (*Config, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadConfigFile(path)
}

// LoadConfigFile loads configuration from a specific file path.
// If the file doesn't exist, returns default configuration.
func LoadConfigFile(path string) (*Config, error) {
	// Start with default configuration
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if file doesn't exist
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Unmarshal into a temporary config to preserve defaults for unset fields
	var tempCfg Config
	if err := yaml.Unmarshal(data, &tempCfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if tempCfg.Server.URL != "" {
		cfg.Server.URL = tempCfg.Server.URL
	}
	if tempCfg.Server.TimeoutSeconds > 0 {
		cfg.Server.TimeoutSeconds = tempCfg.Server.TimeoutSeconds
	}
	if tempCfg.Poll.IntervalSeconds > 0 {
		cfg.Poll.IntervalSeconds = tempCfg.Poll.IntervalSeconds
	}
	if tempCfg.Poll.RefreshDelayMs > 0 {
		cfg.Poll.RefreshDelayMs = tempCfg.Poll.RefreshDelayMs
	}
	if tempCfg.Dedupe.GuardSeconds > 0 {
		cfg.Dedupe.GuardSeconds = tempCfg.Dedupe.GuardSeconds
	}
	if tempCfg.Dedupe.CooldownSeconds > 0 {
		cfg.Dedupe.CooldownSeconds = tempCfg.Dedupe.CooldownSeconds
	}
	if len(tempCfg.Audio.Patterns) > 0 {
		cfg.Audio.Patterns = tempCfg.Audio.Patterns
	}
	if len(tempCfg.Watch.Directories) > 0 {
		cfg.Watch.Directories = tempCfg.Watch.Directories
	}
	cfg.Watch.AutoUpload = tempCfg.Watch.AutoUpload
	cfg.Watch.AutoTranscribe = tempCfg.Watch.AutoTranscribe
	if tempCfg.UI.CopyConfirmMs > 0 {
		cfg.UI.CopyConfirmMs = tempCfg.UI.CopyConfirmMs
	}
	if tempCfg.Log.Level != "" {
		cfg.Log.Level = tempCfg.Log.Level
	}

	// Validate the final configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns the default configuration with safe defaults.
func defaultConfig() *Config {
	cfg := &Config{}

	cfg.Server.URL = "http://localhost:8000"
	cfg.Server.TimeoutSeconds = 30

	cfg.Poll.IntervalSeconds = 5
	cfg.Poll.RefreshDelayMs = 1500

	cfg.Dedupe.GuardSeconds = 60
	cfg.Dedupe.CooldownSeconds = 10

	cfg.Audio.Patterns = []string{
		"*.mp3", "*.wav", "*.ogg", "*.oga", "*.m4a",
		"*.flac", "*.aac", "*.opus", "*.wma", "*.webm",
	}

	cfg.Watch.Directories = []string{}
	cfg.Watch.AutoUpload = false
	cfg.Watch.AutoTranscribe = false

	cfg.UI.CopyConfirmMs = 2000

	cfg.Log.Level = "info"

	return cfg
}

// SaveConfig saves the configuration to the specified file.
// It creates parent directories if they don't exist.
func SaveConfig(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid.
// Returns error if any settings are invalid.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("configuration is nil")
	}

	u, err := url.Parse(c.Server.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("server.url %q is not a valid URL", c.Server.URL)
	}

	if c.Poll.IntervalSeconds <= 0 {
		return fmt.Errorf("poll.interval_seconds must be positive")
	}
	if c.Dedupe.GuardSeconds <= 0 || c.Dedupe.CooldownSeconds <= 0 {
		return fmt.Errorf("dedupe windows must be positive")
	}

	if _, err := c.AudioGlobs(); err != nil {
		return err
	}

	return nil
}

// AudioGlobs compiles the audio file patterns.
func (c *Config) AudioGlobs() ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(c.Audio.Patterns))
	for _, pattern := range c.Audio.Patterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid audio pattern %q: %w", pattern, err)
		}
		globs = append(globs, g)
	}
	return globs, nil
}

// ServerTimeout returns the per-request HTTP timeout.
func (c *Config) ServerTimeout() time.Duration {
	return time.Duration(c.Server.TimeoutSeconds) * time.Second
}

// PollInterval returns the status poll period.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Poll.IntervalSeconds) * time.Second
}

// RefreshDelay returns the pause before a scheduled refresh, long enough
// for the server to register freshly uploaded files.
func (c *Config) RefreshDelay() time.Duration {
	return time.Duration(c.Poll.RefreshDelayMs) * time.Millisecond
}

// GuardTTL returns how long a transcription start holds its in-flight lease.
func (c *Config) GuardTTL() time.Duration {
	return time.Duration(c.Dedupe.GuardSeconds) * time.Second
}

// Cooldown returns how long the lease lingers after a response.
func (c *Config) Cooldown() time.Duration {
	return time.Duration(c.Dedupe.CooldownSeconds) * time.Second
}

// CopyConfirm returns how long the clipboard confirmation label shows.
func (c *Config) CopyConfirm() time.Duration {
	return time.Duration(c.UI.CopyConfirmMs) * time.Millisecond
}
