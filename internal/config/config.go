package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application. Values are read by
// Viper from a config file or environment variables.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Billing  BillingConfig  `mapstructure:"billing"`
	S3       S3Config       `mapstructure:"s3"`
	Mailer   MailerConfig   `mapstructure:"mailer"`
	Limits   LimitsConfig   `mapstructure:"limits"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

type DatabaseConfig struct {
	URI  string `mapstructure:"uri"`
	Name string `mapstructure:"name"`
}

// JWTConfig defines JWT specific configuration. Expiration is parsed from a
// duration string ("1h", "60m").
type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
}

// BillingConfig configures the external billing provider: outbound API
// access plus the shared secret validating inbound webhook signatures.
type BillingConfig struct {
	BaseURL       string `mapstructure:"base_url"`
	APIKey        string `mapstructure:"api_key"`
	WebhookSecret string `mapstructure:"webhook_secret"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

// MailerConfig configures outbound notification mail. With an empty API key
// the no-op mailer is used.
type MailerConfig struct {
	ResendAPIKey string `mapstructure:"resend_api_key"`
	From         string `mapstructure:"from"`
}

// LimitsConfig holds the tier client-count ceilings. The free ceiling is the
// point at which an unsubscribed coach is sent to checkout.
type LimitsConfig struct {
	FreeClients int `mapstructure:"free_clients"`
	PaidClients int `mapstructure:"paid_clients"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Nested keys map onto env vars: billing.webhook_secret ->
	// BILLING_WEBHOOK_SECRET.
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	viper.SetDefault("server.address", ":8080")
	viper.SetDefault("database.uri", "mongodb://localhost:27017")
	viper.SetDefault("database.name", "coaching_app")
	viper.SetDefault("jwt.expiration", "24h")
	viper.SetDefault("s3.use_ssl", true)
	viper.SetDefault("mailer.from", "no-reply@coachhub.app")
	viper.SetDefault("limits.free_clients", 3)
	viper.SetDefault("limits.paid_clients", 25)

	err = viper.ReadInConfig()
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		// No config file is fine; env vars and defaults cover everything.
		err = nil
	} else if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	return
}
