package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "gtd.db"
	DefaultLogName        = "gtd.log"
	DefaultApp            = "gtdpro"
	appDirName            = "gtd"
)

type Keymap struct {
	Quit           string `toml:"quit"`
	Add            string `toml:"add"`
	Up             string `toml:"up"`
	Down           string `toml:"down"`
	Toggle         string `toml:"toggle"`
	Delete         string `toml:"delete"`
	Edit           string `toml:"edit"`
	Move           string `toml:"move"`
	Help           string `toml:"help"`
	Confirm        string `toml:"confirm"`
	Cancel         string `toml:"cancel"`
	NextList       string `toml:"next_list"`
	PrevList       string `toml:"prev_list"`
	FilterAll      string `toml:"filter_all"`
	FilterToday    string `toml:"filter_today"`
	FilterWeek     string `toml:"filter_week"`
	FilterContext  string `toml:"filter_context"`
	Review         string `toml:"review"`
	ClearCompleted string `toml:"clear_completed"`
	Theme          string `toml:"theme"`
}

type Config struct {
	DBPath      string `toml:"db_path"`
	App         string `toml:"app"`
	LogPath     string `toml:"log_path"`
	LogLevel    string `toml:"log_level"`
	IDScheme    string `toml:"id_scheme"`
	DefaultList string `toml:"default_list"`
	Keys        Keymap `toml:"keys"`
}

// ResolveConfigPath returns $XDG_CONFIG_HOME/gtd/config.toml, falling back
// to ~/.config and finally the working directory.
func ResolveConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return DefaultConfigFileName
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, appDirName, DefaultConfigFileName)
}

// LoadOrCreate reads the config at path, writing the defaults there first
// when the file does not exist. Relative db and log paths are resolved
// against the config directory.
func LoadOrCreate(path string) (Config, error) {
	cfg := Default(filepath.Dir(path))
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, fmt.Errorf("write default config: %w", err)
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.fillDefaults(filepath.Dir(path))
	return cfg, nil
}

func write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (c *Config) fillDefaults(dir string) {
	def := Default(dir)
	if c.DBPath == "" {
		c.DBPath = def.DBPath
	} else if !filepath.IsAbs(c.DBPath) && c.DBPath != ":memory:" {
		c.DBPath = filepath.Join(dir, c.DBPath)
	}
	if c.LogPath == "" {
		c.LogPath = def.LogPath
	} else if c.LogPath != "-" && !filepath.IsAbs(c.LogPath) {
		c.LogPath = filepath.Join(dir, c.LogPath)
	}
	if c.App == "" {
		c.App = def.App
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	if c.IDScheme == "" {
		c.IDScheme = def.IDScheme
	}
	if c.DefaultList == "" {
		c.DefaultList = def.DefaultList
	}
	c.Keys.fillDefaults(def.Keys)
}

func (k *Keymap) fillDefaults(def Keymap) {
	set := func(dst *string, v string) {
		if *dst == "" {
			*dst = v
		}
	}
	set(&k.Quit, def.Quit)
	set(&k.Add, def.Add)
	set(&k.Up, def.Up)
	set(&k.Down, def.Down)
	set(&k.Toggle, def.Toggle)
	set(&k.Delete, def.Delete)
	set(&k.Edit, def.Edit)
	set(&k.Move, def.Move)
	set(&k.Help, def.Help)
	set(&k.Confirm, def.Confirm)
	set(&k.Cancel, def.Cancel)
	set(&k.NextList, def.NextList)
	set(&k.PrevList, def.PrevList)
	set(&k.FilterAll, def.FilterAll)
	set(&k.FilterToday, def.FilterToday)
	set(&k.FilterWeek, def.FilterWeek)
	set(&k.FilterContext, def.FilterContext)
	set(&k.Review, def.Review)
	set(&k.ClearCompleted, def.ClearCompleted)
	set(&k.Theme, def.Theme)
}

// Default returns the built-in configuration with files placed in dir.
func Default(dir string) Config {
	return Config{
		DBPath:      filepath.Join(dir, DefaultDBName),
		App:         DefaultApp,
		LogPath:     filepath.Join(dir, DefaultLogName),
		LogLevel:    "info",
		IDScheme:    "base36",
		DefaultList: "inbox",
		Keys:        DefaultKeymap(),
	}
}

func DefaultKeymap() Keymap {
	return Keymap{
		Quit:           "q",
		Add:            "n",
		Up:             "k",
		Down:           "j",
		Toggle:         "x",
		Delete:         "d",
		Edit:           "e",
		Move:           "m",
		Help:           "?",
		Confirm:        "enter",
		Cancel:         "esc",
		NextList:       "tab",
		PrevList:       "shift+tab",
		FilterAll:      "a",
		FilterToday:    "t",
		FilterWeek:     "w",
		FilterContext:  "c",
		Review:         "r",
		ClearCompleted: "C",
		Theme:          "T",
	}
}
