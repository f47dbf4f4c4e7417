package gatekeeper

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/square/go-jose.v2"
)

var ErrMissingSecretKey = errors.New("Missing secret key")

type Config struct {
	Server struct {
		Addr string `mapstructure:"addr"`
	} `mapstructure:"server"`

	Auth struct {
		SecretKey string        `mapstructure:"secret_key"`
		Algorithm string        `mapstructure:"algorithm"`
		Leeway    time.Duration `mapstructure:"leeway"`
	} `mapstructure:"auth"`

	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`
}

// LoadConfig reads config.yaml from the first of paths that has one, then
// applies GATEKEEPER_* environment overrides. SECRET_KEY is honoured as
// well. A config file is optional; a secret key is not.
func LoadConfig(paths ...string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.addr", ":3001")
	v.SetDefault("auth.algorithm", string(jose.HS256))
	v.SetDefault("auth.leeway", time.Minute)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, path := range paths {
		v.AddConfigPath(path)
	}

	v.SetEnvPrefix("GATEKEEPER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.BindEnv("auth.secret_key", "GATEKEEPER_AUTH_SECRET_KEY", "SECRET_KEY"); err != nil {
		return nil, err
	}

	if len(paths) > 0 {
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, err
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.Auth.SecretKey == "" {
		return nil, ErrMissingSecretKey
	}

	return &cfg, nil
}

// NewAuthorizer builds the authorizer described by the auth section.
func (c *Config) NewAuthorizer(logger Logger) *authorizer {
	notary := NewNotary(
		c.Auth.SecretKey,
		WithAlgorithm(jose.SignatureAlgorithm(c.Auth.Algorithm)),
		WithLeeway(c.Auth.Leeway),
	)

	return New(c.Auth.SecretKey, WithNotary(notary), WithLogger(logger))
}
