package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"

	"todo/internal/task"
)

const (
	DefaultConfigFileName = "config.toml"
	EnvConfigPath         = "TODO_CONFIG"

	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

type Keymap struct {
	Quit      string `toml:"quit"`
	Add       string `toml:"add"`
	Up        string `toml:"up"`
	Down      string `toml:"down"`
	Toggle    string `toml:"toggle"`
	Delete    string `toml:"delete"`
	Edit      string `toml:"edit"`
	Confirm   string `toml:"confirm"`
	Cancel    string `toml:"cancel"`
	NextField string `toml:"next_field"`
	Filter    string `toml:"filter"`
	Sort      string `toml:"sort"`
	Theme     string `toml:"theme"`
}

type Config struct {
	// Backend selects the session task store: "memory" or "sqlite".
	Backend       string `toml:"backend"`
	DefaultFilter string `toml:"default_filter"`
	DefaultSort   string `toml:"default_sort"`
	// LogFile is where the program logs; empty disables logging.
	LogFile  string `toml:"log_file"`
	LogLevel string `toml:"log_level"`
	Keys     Keymap `toml:"keys"`
}

// ResolveConfigPath returns $TODO_CONFIG when set, otherwise
// <user config dir>/todo/config.toml, falling back to the working directory.
func ResolveConfigPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return DefaultConfigFileName
	}
	return filepath.Join(dir, "todo", DefaultConfigFileName)
}

// LoadOrCreate reads the config at path, writing the defaults there first
// when the file does not exist. Keys missing from the file keep defaults.
func LoadOrCreate(path string) (Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.Backend == "" {
		cfg.Backend = BackendMemory
	}
	return cfg, cfg.Validate()
}

// Validate rejects unknown backend, filter and sort names.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendMemory, BackendSQLite:
	default:
		return fmt.Errorf("config: unknown backend %q", c.Backend)
	}
	if _, err := task.ParseFilter(c.DefaultFilter); err != nil {
		return fmt.Errorf("config: default_filter: %w", err)
	}
	if _, err := task.ParseSort(c.DefaultSort); err != nil {
		return fmt.Errorf("config: default_sort: %w", err)
	}
	return nil
}

func Marshal(cfg Config) ([]byte, error) {
	return toml.Marshal(cfg)
}

func write(path string, cfg Config) error {
	data, err := Marshal(cfg)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}

func Default() Config {
	return Config{
		Backend:       BackendMemory,
		DefaultFilter: "all",
		DefaultSort:   "added",
		LogLevel:      "info",
		Keys: Keymap{
			Quit:      "q",
			Add:       "a",
			Up:        "k",
			Down:      "j",
			Toggle:    " ",
			Delete:    "d",
			Edit:      "e",
			Confirm:   "enter",
			Cancel:    "esc",
			NextField: "tab",
			Filter:    "f",
			Sort:      "s",
			Theme:     "t",
		},
	}
}
