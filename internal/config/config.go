package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/ini.v1"
)

// Config represents the teamsmine configuration
type Config struct {
	file *ini.File
	path string
}

// Path returns the default config file location, ~/.teamsmine/config
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".teamsmine", "config"), nil
}

// Load reads the configuration file from ~/.teamsmine/config
func Load() (*Config, error) {
	configPath, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFile(configPath)
}

// LoadFile reads the configuration from path. A missing file yields an
// empty config, not an error.
func LoadFile(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return &Config{file: ini.Empty(), path: configPath}, nil
	}

	file, err := ini.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	return &Config{file: file, path: configPath}, nil
}

// Empty returns a config with no keys.
func Empty() *Config {
	return &Config{file: ini.Empty()}
}

// FilePath returns the file the config was loaded from, if any.
func (c *Config) FilePath() string { return c.path }

// GetString retrieves a string value from the config
// section.key format (e.g., "generate.users")
func (c *Config) GetString(key string) string {
	section, keyName := c.parseKey(key)
	if section == "" {
		return ""
	}

	sec := c.file.Section(section)
	if sec == nil {
		return ""
	}

	return sec.Key(keyName).String()
}

// GetInt retrieves an integer value from the config
func (c *Config) GetInt(key string) (int, error) {
	val := c.GetString(key)
	if val == "" {
		return 0, nil
	}

	intVal, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid integer value for %s: %w", key, err)
	}

	return intVal, nil
}

// GetInt64 retrieves a 64-bit integer value, used for seeds
func (c *Config) GetInt64(key string) (int64, error) {
	val := c.GetString(key)
	if val == "" {
		return 0, nil
	}

	intVal, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid integer value for %s: %w", key, err)
	}

	return intVal, nil
}

// GetBool retrieves a boolean value from the config
func (c *Config) GetBool(key string) bool {
	val := c.GetString(key)
	if val == "" {
		return false
	}

	val = strings.ToLower(val)
	return val == "true" || val == "yes" || val == "1" || val == "on"
}

// HasKey checks if a key exists in the config
func (c *Config) HasKey(key string) bool {
	section, keyName := c.parseKey(key)
	if section == "" {
		return false
	}

	sec := c.file.Section(section)
	if sec == nil {
		return false
	}

	return sec.HasKey(keyName)
}

// parseKey splits a dotted key into section and key name
// e.g., "generate.min_messages" -> ("generate", "min_messages")
// For Git config compatibility, we use the last dot as the separator
func (c *Config) parseKey(key string) (string, string) {
	lastDot := strings.LastIndex(key, ".")
	if lastDot == -1 {
		return "", ""
	}

	return key[:lastDot], key[lastDot+1:]
}

// GetStringWithFallback retrieves a string value with a fallback default
func (c *Config) GetStringWithFallback(key, fallback string) string {
	if c.HasKey(key) {
		return c.GetString(key)
	}
	return fallback
}

// GetIntWithFallback retrieves an int value with a fallback default
func (c *Config) GetIntWithFallback(key string, fallback int) int {
	if c.HasKey(key) {
		val, err := c.GetInt(key)
		if err == nil {
			return val
		}
	}
	return fallback
}

// GetInt64WithFallback retrieves an int64 value with a fallback default
func (c *Config) GetInt64WithFallback(key string, fallback int64) int64 {
	if c.HasKey(key) {
		val, err := c.GetInt64(key)
		if err == nil {
			return val
		}
	}
	return fallback
}
