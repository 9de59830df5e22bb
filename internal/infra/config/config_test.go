package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "server.yaml")
	assert.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
site:
  title: My Festival
`)

	cfg, err := Load(path)
	assert.NoError(t, err)

	assert.Equal(t, "My Festival", cfg.Site.Title)
	assert.Equal(t, "data.json", cfg.Site.DataSource)
	assert.Equal(t, "fr", cfg.Site.Lang)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "state/selected.json", cfg.Storage.FavoritesPath)
	assert.Equal(t, 1200, cfg.Playback.ScrollLockPlayMs)
	assert.Equal(t, 500, cfg.Playback.ScrollLockIdleMs)
	assert.Equal(t, 1000, cfg.Playback.DrawerCloseMs)
	assert.Equal(t, 2000, cfg.Playback.ToastHideMs)
	assert.Equal(t, 3000, cfg.Playback.MenuHideMs)

	// Feature flag defaults.
	assert.True(t, cfg.Settings.AutoPlayNext)
	assert.True(t, cfg.Settings.AutoPlayLoop)
	assert.True(t, cfg.Settings.ResumeOnFocus)
	assert.True(t, cfg.Settings.DisplayControlBar)
	assert.False(t, cfg.Settings.MenuAutoHide)
	assert.False(t, cfg.Settings.DisplayYear)
}

func TestLoad_FeatureOverrides(t *testing.T) {
	path := writeConfig(t, `
features:
  is_auto_play_next: false
  is_menu_auto_hide: true
  is_display_year: 1
  displayed_statuses:
    - canceled
    - postponed
`)

	cfg, err := Load(path)
	assert.NoError(t, err)

	assert.False(t, cfg.Settings.AutoPlayNext)
	assert.True(t, cfg.Settings.MenuAutoHide)
	// Weakly typed values decode.
	assert.True(t, cfg.Settings.DisplayYear)
	assert.Equal(t, []string{"canceled", "postponed"}, cfg.Settings.DisplayedStatuses)

	// Untouched flags keep their defaults.
	assert.True(t, cfg.Settings.AutoPlayLoop)
	assert.True(t, cfg.Settings.ResumeOnFocus)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("FESTFEED_FEED_SOURCE", "https://feeds.example/data.json")
	t.Setenv("FESTFEED_ADDR", ":9090")
	t.Setenv("FESTFEED_LANG", "en")

	path := writeConfig(t, `
site:
  data_source: local.json
  lang: fr
server:
  addr: ":8080"
`)

	cfg, err := Load(path)
	assert.NoError(t, err)

	assert.Equal(t, "https://feeds.example/data.json", cfg.Site.DataSource)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "en", cfg.Site.Lang)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "unsupported language",
			body: "site:\n  lang: de\n",
		},
		{
			name: "scroll lock window out of range",
			body: "playback:\n  scroll_lock_play_ms: 99999\n",
		},
		{
			name: "unknown displayed status",
			body: "features:\n  displayed_statuses:\n    - bogus\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoad_MalformedYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "site: [unclosed"))
	assert.Error(t, err)
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "data.json", cfg.Site.DataSource)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.True(t, cfg.Settings.AutoPlayNext)
}
