// Package config resolves docask settings from defaults, a JSON config
// file, and environment variables, in that order of increasing
// precedence. The Groq credential is optional at load time: surfaces
// warn about its absence, and generation degrades to a guidance
// message instead of failing.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultModel is used when neither an explicit argument, GROQ_MODEL,
// nor the config file names one.
const DefaultModel = "groq-mixtral-v1"

type Config struct {
	Groq    GroqConfig
	Storage StorageConfig
	Server  ServerConfig
	Log     LogConfig
}

type GroqConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout string // parsed with time.ParseDuration at use site
}

type StorageConfig struct {
	DataDir   string
	UsersFile string
}

type ServerConfig struct {
	Port  int
	Token string
}

type LogConfig struct {
	Level string
}

func defaults() Config {
	dataDir := defaultDataDir()
	return Config{
		Groq: GroqConfig{
			Model:   DefaultModel,
			BaseURL: "https://api.groq.com/openai/v1",
			Timeout: "60s",
		},
		Storage: StorageConfig{
			DataDir:   dataDir,
			UsersFile: filepath.Join(dataDir, "users.json"),
		},
		Server: ServerConfig{
			Port: 4600,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from the JSON file at
// $XDG_CONFIG_HOME/docask/config.json with DOCASK_* environment
// variables (plus GROQ_API_KEY / GROQ_MODEL) overriding file values.
func Load() (Config, error) {
	return loadWith(newFileBackend(configFilePath()))
}

func loadWith(b Backend) (Config, error) {
	cfg := defaults()

	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}
	applyEnvOverrides(&cfg)

	return cfg, nil
}

// ResolveModel applies the model precedence: explicit argument, then
// environment/config value, then the built-in default.
func (c Config) ResolveModel(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if c.Groq.Model != "" {
		return c.Groq.Model
	}
	return DefaultModel
}

func defaultDataDir() string {
	dir := os.Getenv("XDG_DATA_HOME")
	if dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, ".local", "share")
		} else {
			return "docask-data"
		}
	}
	return filepath.Join(dir, "docask")
}

func configFilePath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, ".config")
		} else {
			dir = "."
		}
	}
	return filepath.Join(dir, "docask", "config.json")
}

// MissingKeyWarning is the startup warning printed when no Groq
// credential is configured.
func MissingKeyWarning() string {
	return fmt.Sprintf("GROQ_API_KEY is not set. Set it to enable generation (model default: %s).", DefaultModel)
}
