package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	appName    = "guide"
	configFile = "config.yaml"

	BackendFile   = "file"
	BackendSQLite = "sqlite"

	UIAuto  = "auto"
	UIChat  = "tui"
	UIPlain = "plain"
)

// Config is read from config.yaml. Zero fields fall back to the defaults.
type Config struct {
	Backend  string `yaml:"backend"`
	DataFile string `yaml:"data_file"`
	DBFile   string `yaml:"db_file"`
	LogFile  string `yaml:"log_file"`
	UI       string `yaml:"ui"`
	Verbose  bool   `yaml:"verbose"`
}

// Default keeps everything under a relative data directory.
func Default() Config {
	return Config{
		Backend:  BackendFile,
		DataFile: filepath.Join("data", "tasks.txt"),
		DBFile:   filepath.Join("data", "tasks.db"),
		LogFile:  filepath.Join("data", "guide.log"),
		UI:       UIAuto,
	}
}

// Path returns $XDG_CONFIG_HOME/guide/config.yaml, falling back to ~/.config.
func Path() (string, error) {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, appName, configFile), nil
}

// Load reads path (or the default location when empty). A missing file
// yields the defaults. GUIDE_DATA overrides the data file.
func Load(path string) (Config, error) {
	if path == "" {
		var err error
		path, err = Path()
		if err != nil {
			return Config{}, fmt.Errorf("determine config path: %w", err)
		}
	}

	cfg := Default()
	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return Config{}, fmt.Errorf("read config: %w", err)
	default:
		var fromFile Config
		if err := yaml.Unmarshal(b, &fromFile); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
		cfg.merge(fromFile)
	}

	if env := os.Getenv("GUIDE_DATA"); env != "" {
		cfg.DataFile = env
	}
	return cfg, cfg.Validate()
}

func (c *Config) merge(o Config) {
	if o.Backend != "" {
		c.Backend = o.Backend
	}
	if o.DataFile != "" {
		c.DataFile = o.DataFile
	}
	if o.DBFile != "" {
		c.DBFile = o.DBFile
	}
	if o.LogFile != "" {
		c.LogFile = o.LogFile
	}
	if o.UI != "" {
		c.UI = o.UI
	}
	c.Verbose = c.Verbose || o.Verbose
}

// Validate rejects unknown backend and ui values.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendFile, BackendSQLite:
	default:
		return fmt.Errorf("unknown backend %q (want %s or %s)", c.Backend, BackendFile, BackendSQLite)
	}
	switch c.UI {
	case UIAuto, UIChat, UIPlain:
	default:
		return fmt.Errorf("unknown ui %q (want %s, %s or %s)", c.UI, UIAuto, UIChat, UIPlain)
	}
	return nil
}
