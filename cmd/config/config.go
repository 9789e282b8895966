package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type Config struct {
	Port           string
	CORSOrigins    []string
	TrustedProxies []string

	JWTSecret    string
	JWTExpiresIn time.Duration

	DatabaseDriver string
	DatabaseDSN    string

	RedisURL         string
	LoginMaxAttempts int
	LoginWindow      time.Duration

	AWSRegion  string
	S3Bucket   string
	CatalogKey string

	LogLevel  string
	LogFormat string
	LogFile   string

	ReorderConcurrency int
}

// DefaultJWTSecret is only meant for local development; the server warns when it is in use.
const DefaultJWTSecret = "change-me-in-production"

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "3000")
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.trusted_proxies", []string{})
	v.SetDefault("jwt.secret", DefaultJWTSecret)
	v.SetDefault("jwt.expires_in", "24h")
	v.SetDefault("database.driver", "sqlite3")
	v.SetDefault("database.dsn", "portfolio.db")
	v.SetDefault("redis.url", "")
	v.SetDefault("login.max_attempts", 10)
	v.SetDefault("login.window", "15m")
	v.SetDefault("aws.region", "eu-west-3")
	v.SetDefault("aws.s3_bucket", "")
	v.SetDefault("aws.catalog_key", "catalog/videos.json")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")
	v.SetDefault("reorder.concurrency", 8)
}

// Load reads .env, then config.yaml, then the environment. Later sources win.
// A missing .env or config.yaml is not an error.
func Load(paths ...string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{"cmd/config/", "."}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errors.Wrap(err, "read config file")
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// names kept from the original deployment
	_ = v.BindEnv("server.port", "PORT")
	_ = v.BindEnv("jwt.expires_in", "JWT_EXPIRES_IN")
	_ = v.BindEnv("database.dsn", "DATABASE_URL")
	_ = v.BindEnv("database.driver", "DATABASE_DRIVER")
	_ = v.BindEnv("redis.url", "REDIS_URL")
	_ = v.BindEnv("aws.region", "AWS_REGION")
	_ = v.BindEnv("aws.s3_bucket", "S3_BUCKET")

	cfg := &Config{
		Port:               v.GetString("server.port"),
		CORSOrigins:        v.GetStringSlice("server.cors_origins"),
		TrustedProxies:     v.GetStringSlice("server.trusted_proxies"),
		JWTSecret:          v.GetString("jwt.secret"),
		JWTExpiresIn:       v.GetDuration("jwt.expires_in"),
		DatabaseDriver:     v.GetString("database.driver"),
		DatabaseDSN:        v.GetString("database.dsn"),
		RedisURL:           v.GetString("redis.url"),
		LoginMaxAttempts:   v.GetInt("login.max_attempts"),
		LoginWindow:        v.GetDuration("login.window"),
		AWSRegion:          v.GetString("aws.region"),
		S3Bucket:           v.GetString("aws.s3_bucket"),
		CatalogKey:         v.GetString("aws.catalog_key"),
		LogLevel:           v.GetString("log.level"),
		LogFormat:          v.GetString("log.format"),
		LogFile:            v.GetString("log.file"),
		ReorderConcurrency: v.GetInt("reorder.concurrency"),
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DatabaseDriver {
	case "sqlite3", "postgres":
	default:
		return errors.Errorf("unsupported database driver %q", c.DatabaseDriver)
	}
	if c.JWTSecret == "" {
		return errors.New("jwt secret is required")
	}
	if c.JWTExpiresIn <= 0 {
		return errors.New("jwt expiry must be a positive duration")
	}
	if c.LoginMaxAttempts <= 0 || c.LoginWindow <= 0 {
		return errors.New("login throttle needs positive max_attempts and window")
	}
	return nil
}
