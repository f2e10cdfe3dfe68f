package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

var (
	ErrConfigNotLoaded = errors.New("config not loaded")
)

type Environment string

const (
	Production  Environment = "prod"
	Development Environment = "dev"
)

func (e *Environment) SetValue(s string) error {
	*e = Environment(s)
	if *e != Production && *e != Development {
		return configNotLoadedErr(`only "prod" and "dev" environments are allowed`)
	}
	return nil
}

type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverMemory   Driver = "memory"
)

func (d *Driver) SetValue(s string) error {
	*d = Driver(s)
	if *d != DriverPostgres && *d != DriverMemory {
		return configNotLoadedErr(`only "postgres" and "memory" drivers are allowed`)
	}
	return nil
}

type AuthMode string

const (
	AuthJWT    AuthMode = "jwt"
	AuthRemote AuthMode = "remote"
)

func (m *AuthMode) SetValue(s string) error {
	*m = AuthMode(s)
	if *m != AuthJWT && *m != AuthRemote {
		return configNotLoadedErr(`only "jwt" and "remote" auth modes are allowed`)
	}
	return nil
}

type Config struct {
	App struct {
		Env    Environment `yaml:"env" env:"ENV" env-required:""`
		Locale string      `yaml:"locale" env:"LOCALE" env-default:"pt-BR"`
	} `yaml:"app" env-prefix:"APP_" env-required:""`

	Server struct {
		Host string `yaml:"host" env:"HOST" env-default:"localhost"`
		Port int    `yaml:"port" env:"PORT" env-default:"8080"`
	} `yaml:"server" env-prefix:"SERVER_"`

	DB struct {
		Driver         Driver        `yaml:"driver" env:"DRIVER" env-default:"postgres"`
		DSN            string        `yaml:"dsn" env:"DSN"`
		RequestTimeout time.Duration `yaml:"request_timeout" env:"REQUEST_TIMEOUT" env-default:"5s"`
		Migrate        bool          `yaml:"migrate" env:"MIGRATE" env-default:"false"`
	} `yaml:"db" env-prefix:"DB_"`

	Auth struct {
		Mode        AuthMode      `yaml:"mode" env:"MODE" env-default:"jwt"`
		JWTSecret   string        `yaml:"jwt_secret" env:"JWT_SECRET"`
		ProviderURL string        `yaml:"provider_url" env:"PROVIDER_URL"`
		APIKey      string        `yaml:"api_key" env:"API_KEY"`
		Timeout     time.Duration `yaml:"timeout" env:"TIMEOUT" env-default:"5s"`
	} `yaml:"auth" env-prefix:"AUTH_"`

	Redis struct {
		URL string        `yaml:"url" env:"URL"`
		TTL time.Duration `yaml:"ttl" env:"TTL" env-default:"10m"`
	} `yaml:"redis" env-prefix:"REDIS_"`
}

// Validate checks the settings that depend on each other.
func (c *Config) Validate() error {
	if c.DB.Driver == DriverPostgres && c.DB.DSN == "" {
		return configNotLoadedErr("db.dsn is required for the postgres driver")
	}
	switch c.Auth.Mode {
	case AuthJWT:
		if c.Auth.JWTSecret == "" {
			return configNotLoadedErr("auth.jwt_secret is required in jwt mode")
		}
	case AuthRemote:
		if c.Auth.ProviderURL == "" {
			return configNotLoadedErr("auth.provider_url is required in remote mode")
		}
	}
	return nil
}

func Load(filePath string) (*Config, error) {
	cfg := &Config{}
	if err := cleanenv.ReadConfig(filePath, cfg); err != nil {
		return nil, configNotLoadedErr("config not loaded: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func MustLoad(filePath string) *Config {
	cfg, err := Load(filePath)
	if err != nil {
		panic(err)
	}
	return cfg
}

func configNotLoadedErr(format string, args ...any) error {
	return errors.Join(fmt.Errorf(format, args...), ErrConfigNotLoaded)
}
