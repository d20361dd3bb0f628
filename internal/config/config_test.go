package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/solidcopy/tagcore/internal/model"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFiles_Defaults(t *testing.T) {
	cfg, err := LoadFiles(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, defaultWorkers, cfg.Workers)
	assert.Equal(t, log.InfoLevel, cfg.Level())
	assert.Equal(t, []model.PictureType{model.PictureFrontCover}, cfg.PictureTypes())
	assert.False(t, cfg.Pictures.All)
}

func TestLoadFiles_Overrides(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.toml")
	second := filepath.Join(dir, "second.toml")

	require.NoError(t, os.WriteFile(first, []byte(`
log_level = "debug"
workers = 2

[pictures]
prefix = "Folder"
types = ["FrontCover", "BackCover"]
`), 0644))
	require.NoError(t, os.WriteFile(second, []byte(`
workers = 8

[pictures]
all = true
`), 0644))

	cfg, err := LoadFiles(first, second)
	require.NoError(t, err)

	assert.Equal(t, log.DebugLevel, cfg.Level())
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, "Folder", cfg.Pictures.Prefix)
	assert.True(t, cfg.Pictures.All)
	assert.Equal(t, []model.PictureType{model.PictureFrontCover, model.PictureBackCover}, cfg.PictureTypes())
}

func TestLoadFiles_InvalidToml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.toml")
	require.NoError(t, os.WriteFile(path, []byte("workers = ["), 0644))

	_, err := LoadFiles(path)
	assert.Error(t, err)
}

func TestPictureTypes_SkipsUnknownNames(t *testing.T) {
	cfg := &Config{Pictures: PicturesConfig{Types: []string{"Nope", "Media"}}}
	assert.Equal(t, []model.PictureType{model.PictureMedia}, cfg.PictureTypes())
}

func TestExpandPath(t *testing.T) {
	home, err := homedir.Dir()
	if err != nil {
		t.Skipf("Could not get home dir: %v", err)
	}

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "tilde expands to home", input: "~/covers", expected: filepath.Join(home, "covers")},
		{name: "absolute path unchanged", input: "/srv/covers", expected: "/srv/covers"},
		{name: "empty string unchanged", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, expandPath(tt.input))
		})
	}
}

func TestGetConfigPaths(t *testing.T) {
	paths := getConfigPaths()
	assert.Equal(t, []string{filepath.Join(xdg.ConfigHome, "tagcore", "config.toml"), "tagcore.toml"}, paths)
}
