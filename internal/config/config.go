package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/solidcopy/tagcore/internal/model"
	"github.com/solidcopy/tagcore/internal/picture"
	log "github.com/sirupsen/logrus"
)

const defaultWorkers = 4

type Config struct {
	LogLevel string         `koanf:"log_level"` // logrus level name (default: "info")
	Workers  int            `koanf:"workers"`   // concurrent file reads (default: 4)
	Pictures PicturesConfig `koanf:"pictures"`
}

// PicturesConfig controls picture export and import.
type PicturesConfig struct {
	Prefix string   `koanf:"prefix"` // file name prefix, e.g. "Folder"
	Types  []string `koanf:"types"`  // picture type names (default: FrontCover)
	All    bool     `koanf:"all"`    // every picture regardless of Types
	Dir    string   `koanf:"dir"`    // output directory (default: next to the audio files)
}

// Load reads the config files that exist, later files overriding earlier
// ones, and applies defaults.
func Load() (*Config, error) {
	return LoadFiles(getConfigPaths()...)
}

func LoadFiles(paths ...string) (*Config, error) {
	k := koanf.New(".")

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}
	cfg.Pictures.Dir = expandPath(cfg.Pictures.Dir)

	return cfg, nil
}

func getConfigPaths() []string {
	return []string{
		filepath.Join(xdg.ConfigHome, "tagcore", "config.toml"),
		"tagcore.toml",
	}
}

func expandPath(path string) string {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return path
	}
	return expanded
}

// Level returns the configured log level, or info if it is not a level name.
func (c *Config) Level() log.Level {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// PictureTypes resolves Pictures.Types. Unknown names are skipped with a
// warning.
func (c *Config) PictureTypes() []model.PictureType {
	types, err := picture.ParseTypes(c.Pictures.Types)
	if err != nil {
		log.Warn(err)
	}
	if len(types) == 0 {
		return picture.DefaultTypes
	}
	return types
}
