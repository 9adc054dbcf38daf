package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Port      string `yaml:"port" env:"PORT" env-default:"8080"`
	LogLevel  string `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	LogFormat string `yaml:"log-format" env:"LOG_FORMAT" env-default:"json"`

	DatabaseURL          string `yaml:"database-url" env:"DATABASE_URL"`
	DBMaxOpenConns       int    `yaml:"db-max-open-conns" env:"DB_MAX_OPEN_CONNS" env-default:"25"`
	DBMaxIdleConns       int    `yaml:"db-max-idle-conns" env:"DB_MAX_IDLE_CONNS" env-default:"25"`
	DBConnMaxLifetimeMin int    `yaml:"db-conn-max-lifetime-minutes" env:"DB_CONN_MAX_LIFETIME_MINUTES" env-default:"5"`

	Redis Redis `yaml:"redis"`

	JWTSecret            string `yaml:"jwt-secret" env:"JWT_SECRET" env-default:"change-this-in-production"`
	AccessTokenTTLMin    int    `yaml:"access-token-ttl-minutes" env:"ACCESS_TOKEN_TTL_MINUTES" env-default:"60"`
	SessionTTLHours      int    `yaml:"session-ttl-hours" env:"SESSION_TTL_HOURS" env-default:"168"`
	FinishedSessionTTLMin int   `yaml:"finished-session-ttl-minutes" env:"FINISHED_SESSION_TTL_MINUTES" env-default:"60"`

	GoogleOAuth GoogleOAuth `yaml:"google-oauth"`

	FrontendURL string `yaml:"frontend-url" env:"FRONTEND_URL" env-default:"http://localhost:5173"`
}

type Redis struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD" env-default:""`
}

type GoogleOAuth struct {
	ClientID     string `yaml:"client-id" env:"GOOGLE_CLIENT_ID" env-default:""`
	ClientSecret string `yaml:"client-secret" env:"GOOGLE_CLIENT_SECRET" env-default:""`
	RedirectURL  string `yaml:"redirect-url" env:"GOOGLE_REDIRECT_URL" env-default:""`
}

// Load reads the optional config file, then lets environment variables
// override everything.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := cleanenv.ReadConfig(path, cfg); err != nil {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
			return cfg, nil
		}
	}

	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("read config from env: %w", err)
	}
	return cfg, nil
}
