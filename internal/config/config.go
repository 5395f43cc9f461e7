package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store          StoreConfig          `yaml:"store" mapstructure:"store"`
	HubSpot        HubSpotConfig        `yaml:"hubspot" mapstructure:"hubspot"`
	ActiveCampaign ActiveCampaignConfig `yaml:"activecampaign" mapstructure:"activecampaign"`
	Cache          CacheConfig          `yaml:"cache" mapstructure:"cache"`
	Analysis       AnalysisConfig       `yaml:"analysis" mapstructure:"analysis"`
	Server         ServerConfig         `yaml:"server" mapstructure:"server"`
	Log            LogConfig            `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns    int32  `yaml:"min_conns" mapstructure:"min_conns"`
}

// HubSpotConfig holds primary CRM API settings.
type HubSpotConfig struct {
	Token     string  `yaml:"token" mapstructure:"token"`
	BaseURL   string  `yaml:"base_url" mapstructure:"base_url"`
	RateLimit float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// ActiveCampaignConfig holds legacy platform API settings.
type ActiveCampaignConfig struct {
	APIURL    string  `yaml:"api_url" mapstructure:"api_url"`
	Token     string  `yaml:"token" mapstructure:"token"`
	RateLimit float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// CacheConfig configures snapshot caching.
type CacheConfig struct {
	TTLHours int `yaml:"ttl_hours" mapstructure:"ttl_hours"`
}

// TTL returns the snapshot lifetime as a duration.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLHours) * time.Hour
}

// AnalysisConfig tunes the reconciliation analyses.
type AnalysisConfig struct {
	IncludeContacts  bool `yaml:"include_contacts" mapstructure:"include_contacts"`
	IncludeCompanies bool `yaml:"include_companies" mapstructure:"include_companies"`
	IncludeDeals     bool `yaml:"include_deals" mapstructure:"include_deals"`
	FocusOnDeals     bool `yaml:"focus_on_deals" mapstructure:"focus_on_deals"`
	// MigrationDate is the placeholder close date bulk-assigned during
	// the migration, in YYYY-MM-DD form.
	MigrationDate string `yaml:"migration_date" mapstructure:"migration_date"`
	// FieldCatalog optionally points at a YAML file overriding the
	// audited field lists.
	FieldCatalog string `yaml:"field_catalog" mapstructure:"field_catalog"`
}

// ParseMigrationDate parses MigrationDate, returning the zero time when
// it is unset so callers can fall back to the built-in default.
func (c AnalysisConfig) ParseMigrationDate() (time.Time, error) {
	if strings.TrimSpace(c.MigrationDate) == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", c.MigrationDate)
	if err != nil {
		return time.Time{}, eris.Wrapf(err, "config: parse migration_date %q", c.MigrationDate)
	}
	return t.UTC(), nil
}

// ServerConfig configures the HTTP trigger server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("RECONCILE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "reconcile.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("cache.ttl_hours", 24)
	v.SetDefault("hubspot.base_url", "https://api.hubapi.com")
	v.SetDefault("hubspot.rate_limit", 9)
	v.SetDefault("activecampaign.rate_limit", 5)
	v.SetDefault("analysis.include_contacts", true)
	v.SetDefault("analysis.include_companies", true)
	v.SetDefault("analysis.include_deals", true)
	v.SetDefault("analysis.migration_date", "2025-07-16")

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

// Validate checks that the fields the given command mode depends on are
// populated. Collected problems are reported together so one run
// surfaces every missing setting.
func (c *Config) Validate(mode string) error {
	var problems []string

	switch c.Store.Driver {
	case "sqlite", "postgres":
	default:
		problems = append(problems, "store.driver must be sqlite or postgres")
	}
	if c.Store.DatabaseURL == "" {
		problems = append(problems, "store.database_url is required")
	}

	needsPlatforms := false
	switch mode {
	case "analyze", "fixdates", "serve":
		needsPlatforms = true
	case "runs":
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if needsPlatforms {
		if c.HubSpot.Token == "" {
			problems = append(problems, "hubspot.token is required")
		}
		if c.ActiveCampaign.APIURL == "" {
			problems = append(problems, "activecampaign.api_url is required")
		}
		if c.ActiveCampaign.Token == "" {
			problems = append(problems, "activecampaign.token is required")
		}
	}
	if mode == "serve" && c.Server.Port <= 0 {
		problems = append(problems, "server.port must be > 0")
	}
	if _, err := c.Analysis.ParseMigrationDate(); err != nil {
		problems = append(problems, "analysis.migration_date must be YYYY-MM-DD")
	}

	if len(problems) > 0 {
		return eris.Errorf("config: %s", strings.Join(problems, "; "))
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
