package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
)

const minJWTSecretBytes = 32

// Config holds everything the API needs at startup. It is decoded from
// the environment once in main and passed down explicitly.
type Config struct {
	ListenAddr string `env:"LISTEN_ADDR,default=:8080"`
	LogLevel   string `env:"LOG_LEVEL,default=info"`

	DB struct {
		Host            string        `env:"DB_HOST,default=localhost"`
		Port            string        `env:"DB_PORT,default=5432"`
		User            string        `env:"DB_USER,default=postgres"`
		Password        string        `env:"DB_PASSWORD,default=password"`
		Name            string        `env:"DB_NAME,default=linkmark"`
		SSLMode         string        `env:"DB_SSLMODE,default=disable"`
		MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS,default=25"`
		MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS,default=25"`
		ConnMaxIdleTime time.Duration `env:"DB_CONN_MAX_IDLE,default=5m"`
		ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME,default=30m"`
	}

	JWT struct {
		Secret     string        `env:"JWT_SECRET,required"`
		Issuer     string        `env:"JWT_ISSUER,default=linkmark-api"`
		AccessTTL  time.Duration `env:"JWT_ACCESS_TTL,default=15m"`
		RefreshTTL time.Duration `env:"JWT_REFRESH_TTL,default=168h"`
	}

	PasswordMinLength int    `env:"PASSWORD_MIN_LENGTH,default=8"`
	LoginPage         string `env:"LOGIN_PAGE,default=/login.html"`
	MonitoringKey     string `env:"MONITORING_API_KEY"`
}

// Load decodes the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envdecode.StrictDecode(&cfg); err != nil {
		return nil, err
	}

	cfg.JWT.Secret = strings.TrimSpace(cfg.JWT.Secret)
	if len(cfg.JWT.Secret) < minJWTSecretBytes {
		return nil, fmt.Errorf("JWT_SECRET must be at least %d characters", minJWTSecretBytes)
	}
	if cfg.PasswordMinLength <= 0 {
		cfg.PasswordMinLength = 8
	}

	return &cfg, nil
}

// DSN builds the lib/pq connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DB.Host, c.DB.Port, c.DB.User, c.DB.Password, c.DB.Name, c.DB.SSLMode)
}
