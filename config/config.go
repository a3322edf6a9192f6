package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"geolog/internal/domain"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	JWT       JWTConfig       `koanf:"jwt"`
	Location  LocationConfig  `koanf:"location"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
	Log       LogConfig       `koanf:"log"`
	Redis     RedisConfig     `koanf:"redis"`
	Admin     AdminConfig     `koanf:"admin"`
}

type ServerConfig struct {
	Port            string        `koanf:"port"`
	Env             string        `koanf:"env"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	TrustedProxies  []string      `koanf:"trusted_proxies"`
}

type DatabaseConfig struct {
	DSN             string        `koanf:"dsn"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
}

type JWTConfig struct {
	AccessSecret  string        `koanf:"access_secret"`
	RefreshSecret string        `koanf:"refresh_secret"`
	AccessExpiry  time.Duration `koanf:"access_expiry"`
	RefreshExpiry time.Duration `koanf:"refresh_expiry"`
	Issuer        string        `koanf:"issuer"`
}

type LocationConfig struct {
	// PrivilegedRoles may see every user's locations.
	PrivilegedRoles     []string      `koanf:"privileged_roles"`
	DefaultListLimit    int           `koanf:"default_list_limit"`
	DefaultHistoryLimit int           `koanf:"default_history_limit"`
	MaxLimit            int           `koanf:"max_limit"`
	ProfileCacheTTL     time.Duration `koanf:"profile_cache_ttl"`
}

type RateLimitConfig struct {
	Requests int           `koanf:"requests"`
	Window   time.Duration `koanf:"window"`
	Disabled bool          `koanf:"disabled"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// RedisConfig enables the profile cache when Addr is set.
type RedisConfig struct {
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

// AdminConfig seeds the first administrator on an empty database.
type AdminConfig struct {
	Email    string `koanf:"email"`
	Password string `koanf:"password"`
	FullName string `koanf:"full_name"`
}

// EnvPrefix is stripped from environment variables: GEOLOG_SERVER_PORT -> server.port.
const EnvPrefix = "GEOLOG_"

// ConfigPathEnvVar points at a YAML file when --config is not given.
const ConfigPathEnvVar = "GEOLOG_CONFIG"

// top-level sections; used to split env var names into koanf paths
var sections = []string{"server", "database", "jwt", "location", "rate_limit", "log", "redis", "admin"}

var sliceConfigPaths = []string{"location.privileged_roles", "server.trusted_proxies"}

func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8099",
			Env:             "development",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			TrustedProxies:  []string{},
		},
		Database: DatabaseConfig{
			DSN:             "geolog:geolog@tcp(localhost:3306)/geolog?charset=utf8mb4&parseTime=True&loc=UTC",
			MaxIdleConns:    10,
			MaxOpenConns:    100,
			ConnMaxLifetime: time.Hour,
		},
		JWT: JWTConfig{
			AccessSecret:  "change-me-in-production",
			RefreshSecret: "change-me-refresh",
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: 168 * time.Hour,
			Issuer:        "geolog",
		},
		Location: LocationConfig{
			PrivilegedRoles: []string{
				domain.RoleAdministrator,
				domain.RoleSystemManager,
				domain.RoleHRManager,
				domain.RoleLocationManager,
			},
			DefaultListLimit:    domain.DefaultListLimit,
			DefaultHistoryLimit: domain.DefaultHistoryLimit,
			MaxLimit:            1000,
			ProfileCacheTTL:     5 * time.Minute,
		},
		RateLimit: RateLimitConfig{
			Requests: 100,
			Window:   60 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Admin: AdminConfig{
			Email:    "admin@example.com",
			FullName: "Administrator",
		},
	}
}

// Load layers defaults, an optional YAML file and GEOLOG_* environment
// variables, in that order. An empty path falls back to $GEOLOG_CONFIG.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(structs.Provider(Defaults(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}
	if path == "" {
		path = os.Getenv(ConfigPathEnvVar)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}
	if err := splitSlices(k); err != nil {
		return nil, err
	}
	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// envKey maps GEOLOG_RATE_LIMIT_REQUESTS to rate_limit.requests.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	if key == "config" {
		return ""
	}
	for _, sec := range sections {
		if strings.HasPrefix(key, sec+"_") {
			return sec + "." + strings.TrimPrefix(key, sec+"_")
		}
	}
	return key
}

func splitSlices(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		s, ok := k.Get(path).(string)
		if !ok {
			continue
		}
		parts := []string{}
		for _, p := range strings.Split(s, ",") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		if err := k.Set(path, parts); err != nil {
			return fmt.Errorf("set %s: %w", path, err)
		}
	}
	return nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port == "" {
		errs = append(errs, errors.New("server.port is required"))
	}
	if c.Database.DSN == "" {
		errs = append(errs, errors.New("database.dsn is required"))
	}
	if c.JWT.AccessSecret == "" || c.JWT.RefreshSecret == "" {
		errs = append(errs, errors.New("jwt secrets are required"))
	}
	if c.Server.Env == "production" && c.JWT.AccessSecret == Defaults().JWT.AccessSecret {
		errs = append(errs, errors.New("jwt.access_secret must be changed in production"))
	}
	if c.Location.DefaultListLimit <= 0 || c.Location.DefaultHistoryLimit <= 0 {
		errs = append(errs, errors.New("location default limits must be positive"))
	}
	if c.Location.MaxLimit < c.Location.DefaultHistoryLimit || c.Location.MaxLimit < c.Location.DefaultListLimit {
		errs = append(errs, errors.New("location.max_limit must not be below the default limits"))
	}
	return errors.Join(errs...)
}
