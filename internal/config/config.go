package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string   `mapstructure:"PORT"`
	Env         string   `mapstructure:"ENV"`
	CORSOrigins []string `mapstructure:"CORS_ORIGINS"`

	AuthMode     string `mapstructure:"AUTH_MODE"`
	AuthIssuer   string `mapstructure:"AUTH_ISSUER"`
	AuthAudience string `mapstructure:"AUTH_AUDIENCE"`
	AuthJWKSURL  string `mapstructure:"AUTH_JWKS_URL"`
	AuthHSSecret string `mapstructure:"AUTH_HS_SECRET"`

	// Hospital dataset: Postgres when DATABASE_URL is set, otherwise the
	// CSV file at HOSPITAL_DATASET.
	DatabaseURL     string `mapstructure:"DATABASE_URL"`
	DBMaxConns      int32  `mapstructure:"DB_MAX_CONNS"`
	DBMinConns      int32  `mapstructure:"DB_MIN_CONNS"`
	HospitalDataset string `mapstructure:"HOSPITAL_DATASET"`

	// Travel-time service. Routing falls back to dataset estimates when the
	// key is unset or the service fails.
	GMapsAPIKey       string  `mapstructure:"GMAPS_API_KEY"`
	GMapsBaseURL      string  `mapstructure:"GMAPS_BASE_URL"`
	ETATimeoutSeconds int     `mapstructure:"ETA_TIMEOUT_SECONDS"`
	FallbackETAMin    float64 `mapstructure:"FALLBACK_ETA_MIN"`

	// SpecialtyCatalog optionally points at a JSON file overriding the
	// built-in canonical specialty set.
	SpecialtyCatalog string `mapstructure:"SPECIALTY_CATALOG"`

	RequestTimeoutSeconds int `mapstructure:"REQUEST_TIMEOUT_SECONDS"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("AUTH_MODE", "") // auto-detect: "" -> inferred from ENV
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("ETA_TIMEOUT_SECONDS", 10)
	v.SetDefault("FALLBACK_ETA_MIN", 999)
	v.SetDefault("REQUEST_TIMEOUT_SECONDS", 30)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("AUTH_MODE")
	v.BindEnv("AUTH_ISSUER")
	v.BindEnv("AUTH_AUDIENCE")
	v.BindEnv("AUTH_JWKS_URL")
	v.BindEnv("AUTH_HS_SECRET")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("HOSPITAL_DATASET")
	v.BindEnv("GMAPS_API_KEY")
	v.BindEnv("GMAPS_BASE_URL")
	v.BindEnv("ETA_TIMEOUT_SECONDS")
	v.BindEnv("FALLBACK_ETA_MIN")
	v.BindEnv("SPECIALTY_CATALOG")
	v.BindEnv("REQUEST_TIMEOUT_SECONDS")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// ResolvedAuthMode returns the effective auth mode. If AUTH_MODE is set, it
// wins; otherwise development mode in ENV=development, JWT otherwise.
func (c *Config) ResolvedAuthMode() string {
	if c.AuthMode != "" {
		return c.AuthMode
	}
	if c.IsDev() {
		return "development"
	}
	return "jwt"
}

// Validate checks that the configuration is safe to run: a hospital source
// must be configured, and outside development mode JWT validation needs
// either a JWKS endpoint or an HMAC secret.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" && c.HospitalDataset == "" {
		return fmt.Errorf("either DATABASE_URL or HOSPITAL_DATASET is required")
	}

	mode := c.ResolvedAuthMode()
	switch mode {
	case "development":
		// permissive; nothing to check
	case "jwt":
		if c.AuthJWKSURL == "" && c.AuthIssuer == "" && c.AuthHSSecret == "" {
			return fmt.Errorf(
				"AUTH_JWKS_URL, AUTH_ISSUER, or AUTH_HS_SECRET must be set when AUTH_MODE is \"jwt\" (current ENV=%q). "+
					"Refusing to start without authentication configuration", c.Env)
		}
	default:
		return fmt.Errorf("AUTH_MODE must be \"development\" or \"jwt\", got %q", mode)
	}

	if c.ETATimeoutSeconds <= 0 {
		return fmt.Errorf("ETA_TIMEOUT_SECONDS must be positive, got %d", c.ETATimeoutSeconds)
	}
	if c.FallbackETAMin <= 0 {
		return fmt.Errorf("FALLBACK_ETA_MIN must be positive, got %v", c.FallbackETAMin)
	}

	return nil
}
