// Package config holds the settings of the denon command-line client.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/theves/denon4go/denonprotocol"
)

// DefaultFileName is the configuration file looked up in the home directory.
const DefaultFileName = ".denon.yaml"

// Common errors for configuration loading.
var (
	ErrFileNotFound = errors.New("configuration file not found")
	ErrEmptyFile    = errors.New("configuration file is empty")
	ErrInvalidYAML  = errors.New("invalid YAML syntax")
	ErrInvalid      = errors.New("invalid configuration")
)

// Config holds all client configuration.
type Config struct {
	// Receiver settings
	Host           string        `yaml:"host"`
	Port           int           `yaml:"port"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// Logging
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	LogFile   string `yaml:"log_file"`

	// REPL
	HistoryFile string `yaml:"history_file"`
	PrintEvents bool   `yaml:"print_events"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Host:           denonprotocol.DefaultHost,
		Port:           denonprotocol.DefaultPort,
		ConnectTimeout: denonprotocol.DefaultConnectTimeout,
		RequestTimeout: 2 * time.Second,
		LogLevel:       "warn",
		LogFormat:      "console", // or "json"
		HistoryFile:    filepath.Join(homeDir(), ".denon_history"),
	}
}

// DefaultPath returns the path of the configuration file in the user's
// home directory.
func DefaultPath() string {
	return filepath.Join(homeDir(), DefaultFileName)
}

// Load reads a YAML configuration file. Values missing from the file keep
// their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFile, path)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w in %s: %v", ErrInvalidYAML, path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads path, or the default file when path is empty. A
// missing default file yields the default configuration; a missing
// explicit file is an error.
func LoadOrDefault(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	cfg, err := Load(path)
	if err != nil {
		if !explicit && errors.Is(err, ErrFileNotFound) {
			return Default(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the client cannot use.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", ErrInvalid, c.Port)
	}
	if c.ConnectTimeout < 0 {
		return fmt.Errorf("%w: negative connect_timeout %v", ErrInvalid, c.ConnectTimeout)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("%w: request_timeout must be positive, got %v", ErrInvalid, c.RequestTimeout)
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("%w: log_format %q (want console or json)", ErrInvalid, c.LogFormat)
	}
	return nil
}

// Address returns the receiver address in host:port form.
func (c *Config) Address() string {
	return denonprotocol.Address(c.Host, c.Port)
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Host:%s, Port:%d, ConnectTimeout:%v, RequestTimeout:%v, LogLevel:%s}",
		c.Host, c.Port, c.ConnectTimeout, c.RequestTimeout, c.LogLevel,
	)
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home
}
