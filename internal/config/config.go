package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	WordPress WordPressConfig `yaml:"wordpress" mapstructure:"wordpress"`
	Google    GoogleConfig    `yaml:"google" mapstructure:"google"`
	HTTP      HTTPConfig      `yaml:"http" mapstructure:"http"`
	Output    OutputConfig    `yaml:"output" mapstructure:"output"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// WordPressConfig configures the places collection endpoint.
type WordPressConfig struct {
	BaseURL   string `yaml:"base_url" mapstructure:"base_url"`
	UserAgent string `yaml:"user_agent" mapstructure:"user_agent"`
	PerPage   int    `yaml:"per_page" mapstructure:"per_page"`
}

// GoogleConfig holds Google Geocoding API settings.
type GoogleConfig struct {
	MapsKey     string `yaml:"maps_key" mapstructure:"maps_key"`
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	Language    string `yaml:"language" mapstructure:"language"`
	CountryHint string `yaml:"country_hint" mapstructure:"country_hint"`
}

// HTTPConfig configures outbound requests.
type HTTPConfig struct {
	TimeoutSecs int `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// OutputConfig configures the written artifacts.
type OutputConfig struct {
	Path        string `yaml:"path" mapstructure:"path"`
	GeoJSONPath string `yaml:"geojson_path" mapstructure:"geojson_path"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// MaxPerPage is the largest page size the WordPress REST API accepts.
const MaxPerPage = 100

// Load reads configuration from file and environment. A .env file in the
// working directory is loaded first; it never overrides variables that are
// already set in the process environment.
func Load() (*Config, error) {
	if err := gotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, eris.Wrap(err, "config: read .env")
	}

	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("PILGRIMAGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("google.maps_key", "PILGRIMAGE_GOOGLE_MAPS_KEY", "GOOGLE_MAPS_KEY"); err != nil {
		return nil, eris.Wrap(err, "config: bind google.maps_key")
	}

	// Defaults
	v.SetDefault("wordpress.base_url", "https://animetourism88.com/wp-json/wp/v2/places")
	v.SetDefault("wordpress.user_agent", "Mozilla/5.0 (Anime-Location Scraper)")
	v.SetDefault("wordpress.per_page", MaxPerPage)
	v.SetDefault("google.base_url", "https://maps.googleapis.com/maps/api/geocode/json")
	v.SetDefault("google.language", "en")
	v.SetDefault("google.country_hint", "Japan")
	v.SetDefault("http.timeout_secs", 15)
	v.SetDefault("output.path", "data/places.json")
	v.SetDefault("output.geojson_path", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings a scrape run cannot start without.
func (c *Config) Validate() error {
	var errs []string
	if strings.TrimSpace(c.Google.MapsKey) == "" {
		errs = append(errs, "GOOGLE_MAPS_KEY is required")
	}
	if c.WordPress.BaseURL == "" {
		errs = append(errs, "wordpress.base_url is required")
	}
	if c.Output.Path == "" {
		errs = append(errs, "output.path is required")
	}
	if c.WordPress.PerPage < 1 || c.WordPress.PerPage > MaxPerPage {
		errs = append(errs, fmt.Sprintf("wordpress.per_page must be between 1 and %d (got %d)", MaxPerPage, c.WordPress.PerPage))
	}
	if c.HTTP.TimeoutSecs < 1 {
		errs = append(errs, fmt.Sprintf("http.timeout_secs must be positive (got %d)", c.HTTP.TimeoutSecs))
	}

	if len(errs) > 0 {
		return eris.New("config: " + strings.Join(errs, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
