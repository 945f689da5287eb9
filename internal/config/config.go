package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	S3       S3Config       `mapstructure:"s3"`
	JWT      JWTConfig      `mapstructure:"jwt"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

type DatabaseConfig struct {
	URI  string `mapstructure:"uri"`
	Name string `mapstructure:"name"`
}

type S3Config struct {
	Endpoint        string        `mapstructure:"endpoint"`
	Region          string        `mapstructure:"region"`
	AccessKeyID     string        `mapstructure:"access_key_id"`
	SecretAccessKey string        `mapstructure:"secret_access_key"`
	BucketName      string        `mapstructure:"bucket_name"`
	UseSSL          bool          `mapstructure:"use_ssl"`
	PresignExpiry   time.Duration `mapstructure:"presign_expiry"` // Lifetime of history export download links
}

// JWTConfig defines JWT specific configuration.
// Tokens are issued by the auth service; this service only verifies them.
type JWTConfig struct {
	Secret string `mapstructure:"secret"`
}

var ErrMissingJWTSecret = errors.New("jwt.secret must be set")

// defaults registers every key so that Unmarshal also picks values up from
// the environment when no config file is present.
var defaults = map[string]interface{}{
	"server.address":       ":8080",
	"database.uri":         "mongodb://localhost:27017",
	"database.name":        "fitness_app_default",
	"s3.endpoint":          "",
	"s3.region":            "us-east-1",
	"s3.access_key_id":     "",
	"s3.secret_access_key": "",
	"s3.bucket_name":       "fitness-exports",
	"s3.use_ssl":           true,
	"s3.presign_expiry":    "15m",
	"jwt.secret":           "",
}

// LoadConfig reads configuration from file or environment variables.
// Nested keys map to env vars with dots replaced: s3.bucket_name -> S3_BUCKET_NAME.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, err
		}
		// No file: defaults and env vars only.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.JWT.Secret == "" {
		return Config{}, ErrMissingJWTSecret
	}
	return cfg, nil
}
