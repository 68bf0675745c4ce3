package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Duration is a time.Duration stored as a string such as "450ms"
type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	d.Duration = parsed
	return nil
}

const (
	DefaultLatency       = 450 * time.Millisecond
	DefaultSearchResults = 3
	DefaultMarkdownStyle = "auto"
	DefaultLogLevel      = "info"
	DefaultGreeting      = "Hello! I’m your planning + execution AI. Ask me anything — I’ll plan steps, call tools, and show my work."
)

// MarkdownStyles lists the accepted markdown_style values
var MarkdownStyles = []string{"auto", "dark", "light", "notty", "basic"}

type Config struct {
	Latency       Duration `toml:"latency"`
	SearchResults int      `toml:"search_results"`
	Greeting      string   `toml:"greeting"`
	ShowLogs      bool     `toml:"show_logs"`
	MarkdownStyle string   `toml:"markdown_style"`
	LogFile       string   `toml:"log_file"`
	LogLevel      string   `toml:"log_level"`

	path string
}

func Default() *Config {
	return &Config{
		Latency:       Duration{DefaultLatency},
		SearchResults: DefaultSearchResults,
		Greeting:      DefaultGreeting,
		ShowLogs:      true,
		MarkdownStyle: DefaultMarkdownStyle,
		LogLevel:      DefaultLogLevel,
	}
}

// LoadConfig loads the config from the default location, creating it with
// defaults when missing
func LoadConfig() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}
	return LoadConfigFrom(configPath)
}

// LoadConfigFrom loads the config at configPath, creating it with defaults
// when missing
func LoadConfigFrom(configPath string) (*Config, error) {
	if err := ensureConfigDir(configPath); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	config, err := loadConfigFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configPath, err)
	}
	return config, nil
}

// Path is the file the config was loaded from or will be saved to
func (c *Config) Path() string {
	return c.path
}

// LogPath resolves log_file; relative paths sit next to the config file
func (c *Config) LogPath() string {
	logFile := c.LogFile
	if logFile == "" {
		logFile = "cosmic.log"
	}
	if filepath.IsAbs(logFile) || c.path == "" {
		return logFile
	}
	return filepath.Join(filepath.Dir(c.path), logFile)
}

func (c *Config) Validate() error {
	var errs []error
	if c.Latency.Duration < 0 {
		errs = append(errs, fmt.Errorf("latency must not be negative, got %s", c.Latency))
	}
	if c.SearchResults < 1 {
		errs = append(errs, fmt.Errorf("search_results must be at least 1, got %d", c.SearchResults))
	}
	if !validStyle(c.MarkdownStyle) {
		errs = append(errs, fmt.Errorf("unknown markdown_style %q", c.MarkdownStyle))
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown log_level %q", c.LogLevel))
	}
	return errors.Join(errs...)
}

func validStyle(style string) bool {
	for _, s := range MarkdownStyles {
		if s == style {
			return true
		}
	}
	return false
}

func GetConfigPath() (string, error) {
	var configDir string

	// Use COSMIC_HOME if set, otherwise use user's home directory
	if home := os.Getenv("COSMIC_HOME"); home != "" {
		configDir = home
	} else {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = homeDir
	}

	return filepath.Join(configDir, ".cosmic", "config.toml"), nil
}

func ensureConfigDir(configPath string) error {
	return os.MkdirAll(filepath.Dir(configPath), 0755)
}

func loadConfigFile(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return createDefaultConfig(configPath)
	}

	return decodeConfigFile(configPath)
}

// ReadConfigFrom reads configPath without validating or creating it. A
// missing file yields the defaults. Used to repair a broken config.
func ReadConfigFrom(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		config := Default()
		config.path = configPath
		return config, nil
	}
	return decodeConfigFile(configPath)
}

func decodeConfigFile(configPath string) (*Config, error) {
	// Missing keys keep their defaults
	config := Default()
	if _, err := toml.DecodeFile(configPath, config); err != nil {
		return nil, err
	}
	config.path = configPath
	return config, nil
}

func createDefaultConfig(configPath string) (*Config, error) {
	config := Default()
	config.path = configPath

	if err := config.Save(); err != nil {
		return nil, err
	}
	return config, nil
}

const fileHeader = `# Cosmic Dialog configuration
# This file uses TOML format: https://toml.io
#
# latency         simulated time each tool takes, e.g. "450ms"
# search_results  how many results the simulated web search reports
# greeting        first assistant message; empty disables it
# markdown_style  auto, dark, light, notty or basic
# log_file        relative paths are resolved next to this file

`

// Save writes the config to its path
func (c *Config) Save() error {
	if c.path == "" {
		configPath, err := GetConfigPath()
		if err != nil {
			return fmt.Errorf("failed to get config path: %w", err)
		}
		c.path = configPath
	}
	if err := ensureConfigDir(c.path); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.OpenFile(c.path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(fileHeader); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// SetPath changes where Save writes
func (c *Config) SetPath(path string) {
	c.path = path
}
