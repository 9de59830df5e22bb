// Package config provides configuration loading from YAML files.
package config

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Site     SiteConfig     `yaml:"site"`
	Server   ServerConfig   `yaml:"server"`
	Storage  StorageConfig  `yaml:"storage"`
	Playback PlaybackConfig `yaml:"playback"`

	// Features is the flat feature-flag map from the deployment; it is
	// decoded into Settings so unknown flags are ignored rather than
	// rejected.
	Features map[string]any `yaml:"features"`

	Settings Settings `yaml:"-"`
}

// SiteConfig represents site-level configuration.
type SiteConfig struct {
	Title      string `yaml:"title" default:"festfeed"`
	DataSource string `yaml:"data_source" default:"data.json" validate:"required"`
	BaseURL    string `yaml:"base_url" default:"/"`
	Lang       string `yaml:"lang" default:"fr" validate:"oneof=fr en"`
	Version    string `yaml:"version"`
}

// ServerConfig represents the feed server configuration.
type ServerConfig struct {
	Addr string `yaml:"addr" default:":8080"`
}

// StorageConfig represents client-state persistence configuration.
type StorageConfig struct {
	FavoritesPath string `yaml:"favorites_path" default:"state/selected.json"`
}

// PlaybackConfig represents playback timing configuration. The scroll
// lock windows bound the suppression of intersection side effects
// during a programmatic scroll.
type PlaybackConfig struct {
	ScrollLockPlayMs int `yaml:"scroll_lock_play_ms" default:"1200" validate:"gte=0,lte=10000"`
	ScrollLockIdleMs int `yaml:"scroll_lock_idle_ms" default:"500" validate:"gte=0,lte=10000"`
	DrawerCloseMs    int `yaml:"drawer_close_ms" default:"1000" validate:"gte=0,lte=30000"`
	ToastHideMs      int `yaml:"toast_hide_ms" default:"2000" validate:"gte=0,lte=30000"`
	MenuHideMs       int `yaml:"menu_hide_ms" default:"3000" validate:"gte=0,lte=60000"`
}

// Settings holds the decoded feature flags consumed by the core.
// Mapstructure keys match the feed deployment's flag names.
type Settings struct {
	DisplayDay          bool `mapstructure:"is_display_day" json:"is_display_day" default:"true"`
	DisplayDate         bool `mapstructure:"is_display_date" json:"is_display_date" default:"true"`
	DisplayTime         bool `mapstructure:"is_display_time" json:"is_display_time" default:"true"`
	DisplayYear         bool `mapstructure:"is_display_year" json:"is_display_year"`
	DisplayTag          bool `mapstructure:"is_display_tag" json:"is_display_tag" default:"true"`
	DisplayPlace        bool `mapstructure:"is_display_place" json:"is_display_place" default:"true"`
	DisplayControlBar   bool `mapstructure:"is_display_control_bar" json:"is_display_control_bar" default:"true"`
	DisplayImagePause   bool `mapstructure:"is_display_image_video_pause" json:"is_display_image_video_pause" default:"true"`
	DisplayImageEnd     bool `mapstructure:"is_display_image_video_end" json:"is_display_image_video_end" default:"true"`
	MenuAutoHide        bool `mapstructure:"is_menu_auto_hide" json:"is_menu_auto_hide"`
	DescriptionAutoHide bool `mapstructure:"is_description_auto_hide" json:"is_description_auto_hide" default:"true"`
	AutoPlayNext        bool `mapstructure:"is_auto_play_next" json:"is_auto_play_next" default:"true"`
	AutoPlayLoop        bool `mapstructure:"is_auto_play_loop" json:"is_auto_play_loop" default:"true"`
	ResumeOnFocus       bool `mapstructure:"is_resume_on_focus" json:"is_resume_on_focus" default:"true"`
	ForceZoom           bool `mapstructure:"is_force_zoom" json:"is_force_zoom"`
	ToastScrollFavorite bool `mapstructure:"is_toast_scroll_favorite" json:"is_toast_scroll_favorite"`
	ToastScrollFilter   bool `mapstructure:"is_toast_scroll_filter" json:"is_toast_scroll_filter"`
	ToastScrollPage     bool `mapstructure:"is_toast_scroll_page" json:"is_toast_scroll_page"`

	// DisplayedStatuses lists the event statuses rendered as badges.
	DisplayedStatuses []string `mapstructure:"displayed_statuses" json:"displayed_statuses"`
}

// Load loads configuration from a YAML file. Environment variables
// take precedence over file values for deployment-specific fields.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}

	cfg.overrideFromEnv()

	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}

	if err := cfg.decodeFeatures(); err != nil {
		return nil, errors.Wrap(err, "failed to decode feature flags")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

// Default returns a configuration with all defaults applied and no
// feature overrides, for callers that run without a config file.
func Default() *Config {
	cfg := &Config{}
	_ = defaults.Set(cfg)
	_ = cfg.decodeFeatures()
	return cfg
}

// overrideFromEnv overrides config values with environment variables.
func (c *Config) overrideFromEnv() {
	if v := os.Getenv("FESTFEED_FEED_SOURCE"); v != "" {
		c.Site.DataSource = v
	}
	if v := os.Getenv("FESTFEED_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("FESTFEED_LANG"); v != "" {
		c.Site.Lang = v
	}
	if v := os.Getenv("FESTFEED_FAVORITES_PATH"); v != "" {
		c.Storage.FavoritesPath = v
	}
}

// decodeFeatures decodes the flat feature map into Settings. Defaults
// are applied first so absent flags keep their documented values, and
// unknown keys in the map are ignored.
func (c *Config) decodeFeatures() error {
	if err := defaults.Set(&c.Settings); err != nil {
		return err
	}
	if len(c.Features) == 0 {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &c.Settings,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(c.Features)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}
	for _, s := range c.Settings.DisplayedStatuses {
		switch s {
		case "scheduled", "canceled", "postponed", "rescheduled", "moved_online":
		default:
			return errors.Newf("unknown status in displayed_statuses: %q", s)
		}
	}
	return nil
}
