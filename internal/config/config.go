package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application, loaded from the
// environment.
type Config struct {
	Port    string `mapstructure:"PORT"`
	GinMode string `mapstructure:"GIN_MODE"`

	FirebaseProjectID                string `mapstructure:"FIREBASE_PROJECT_ID"`
	GoogleApplicationCredentials     string `mapstructure:"GOOGLE_APPLICATION_CREDENTIALS"`
	FirebaseServiceAccountJSONBase64 string `mapstructure:"FIREBASE_SERVICE_ACCOUNT_JSON_BASE64"`
	FirebaseDatabaseURL              string `mapstructure:"FIREBASE_DATABASE_URL"`

	ClientURL string `mapstructure:"CLIENT_URL"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	NRELAPIKey    string `mapstructure:"NREL_API_KEY"`
	NOAAUserAgent string `mapstructure:"NOAA_USER_AGENT"`

	SMTPHost           string `mapstructure:"SMTP_HOST"`
	SMTPPort           string `mapstructure:"SMTP_PORT"`
	SMTPUser           string `mapstructure:"SMTP_USER"`
	SMTPPass           string `mapstructure:"SMTP_PASS"`
	ContactNotifyEmail string `mapstructure:"CONTACT_NOTIFY_EMAIL"`
	ContactFromEmail   string `mapstructure:"CONTACT_FROM_EMAIL"`

	OrderTaxRate         string `mapstructure:"ORDER_TAX_RATE"` // e.g. "0.0825"
	OrderFlatShippingUSD string `mapstructure:"ORDER_FLAT_SHIPPING_USD"`

	ContactRateLimit         int `mapstructure:"CONTACT_RATE_LIMIT"`
	ContactRateWindowMinutes int `mapstructure:"CONTACT_RATE_WINDOW_MINUTES"`
}

var appConfig *Config

// LoadConfig loads configuration from environment variables using Viper.
func LoadConfig() (*Config, error) {
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("GIN_MODE", "debug")
	viper.SetDefault("NOAA_USER_AGENT", "solarify-backend (ops@solarify.example)")
	viper.SetDefault("ORDER_TAX_RATE", "0.0825")
	viper.SetDefault("ORDER_FLAT_SHIPPING_USD", "25.00")
	viper.SetDefault("CONTACT_RATE_LIMIT", 5)
	viper.SetDefault("CONTACT_RATE_WINDOW_MINUTES", 60)

	for _, key := range []string{
		"PORT", "GIN_MODE",
		"FIREBASE_PROJECT_ID", "GOOGLE_APPLICATION_CREDENTIALS",
		"FIREBASE_SERVICE_ACCOUNT_JSON_BASE64", "FIREBASE_DATABASE_URL",
		"CLIENT_URL",
		"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB",
		"NREL_API_KEY", "NOAA_USER_AGENT",
		"SMTP_HOST", "SMTP_PORT", "SMTP_USER", "SMTP_PASS",
		"CONTACT_NOTIFY_EMAIL", "CONTACT_FROM_EMAIL",
		"ORDER_TAX_RATE", "ORDER_FLAT_SHIPPING_USD",
		"CONTACT_RATE_LIMIT", "CONTACT_RATE_WINDOW_MINUTES",
	} {
		viper.BindEnv(key)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.New("failed to unmarshal config: " + err.Error())
	}

	if cfg.FirebaseProjectID == "" {
		return nil, errors.New("FIREBASE_PROJECT_ID is required")
	}
	if cfg.GoogleApplicationCredentials == "" && cfg.FirebaseServiceAccountJSONBase64 == "" {
		return nil, errors.New("either GOOGLE_APPLICATION_CREDENTIALS or FIREBASE_SERVICE_ACCOUNT_JSON_BASE64 is required")
	}
	if cfg.FirebaseDatabaseURL == "" {
		return nil, errors.New("FIREBASE_DATABASE_URL is required (contact messages live in the Realtime Database)")
	}

	appConfig = &cfg
	return appConfig, nil
}

// GetConfig returns the loaded application configuration.
// It panics if LoadConfig has not been called successfully.
func GetConfig() *Config {
	if appConfig == nil {
		panic("config not loaded; call LoadConfig first")
	}
	return appConfig
}
