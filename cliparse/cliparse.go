package cliparse

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

const (
	DefaultPort         = 3318
	DefaultDatabaseType = "sqlite"
	DefaultCachePrefix  = "voter_index"
	DefaultCacheTTL     = 24 * time.Hour
	defaultEnvFile      = ".env"
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string
	RedisURL     string
	CachePrefix  string
	CacheTTL     time.Duration
	AdminKeySalt string
	EnvFile      string
	LogLevel     string
}

// Bind registers all config flags on fs. Call Resolve after fs is parsed.
func Bind(fs *pflag.FlagSet, cfg *Config) {
	// Network and storage config (can be CLI args or env)
	fs.IntVarP(&cfg.Port, "port", "p", 0, "Server port")
	fs.StringVarP(&cfg.DatabaseURL, "database-url", "d", "", "Database URL")
	fs.StringVarP(&cfg.DatabaseType, "database-type", "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&cfg.RedisURL, "redis-url", "", "Redis URL for the index cache (empty disables caching)")
	fs.StringVar(&cfg.CachePrefix, "cache-prefix", "", "Redis key prefix for the index")
	fs.DurationVar(&cfg.CacheTTL, "cache-ttl", 0, "How long a cached index stays valid")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.AdminKeySalt, "admin-salt", "", "Admin key salt (prefer env)")

	fs.StringVar(&cfg.EnvFile, "env-file", "", "Environment file to load (default .env if present)")
	fs.StringVar(&cfg.LogLevel, "log-level", "", "Log level: debug, info, warn, error")
}

// ParseFlags validates flags and fills the rest from the environment
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := pflag.NewFlagSet("quickly-find", pflag.ContinueOnError)
	Bind(fs, &cfg)

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if err := cfg.Resolve(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Resolve fills unset fields from the environment and defaults, then validates.
func (cfg *Config) Resolve() error {
	if err := loadEnvFile(cfg.EnvFile); err != nil {
		return err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = DefaultPort
		}
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = DefaultDatabaseType
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return fmt.Errorf("invalid database type %q (want sqlite or postgres)", cfg.DatabaseType)
	}

	if cfg.RedisURL == "" {
		cfg.RedisURL = os.Getenv("REDIS_URL")
	}

	if cfg.CachePrefix == "" {
		cfg.CachePrefix = os.Getenv("INDEX_CACHE_PREFIX")
		if cfg.CachePrefix == "" {
			cfg.CachePrefix = DefaultCachePrefix
		}
	}

	if cfg.CacheTTL == 0 {
		if ttlStr := os.Getenv("INDEX_CACHE_TTL"); ttlStr != "" {
			ttl, err := time.ParseDuration(ttlStr)
			if err != nil {
				return errors.New("invalid INDEX_CACHE_TTL env variable")
			}
			cfg.CacheTTL = ttl
		} else {
			cfg.CacheTTL = DefaultCacheTTL
		}
	}
	if cfg.CacheTTL < 0 {
		return errors.New("cache TTL must be positive")
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = os.Getenv("LOG_LEVEL")
	}
	if _, err := cfg.SlogLevel(); err != nil {
		return err
	}

	// Secrets - MUST be provided
	if cfg.AdminKeySalt == "" {
		cfg.AdminKeySalt = os.Getenv("ADMIN_KEY_SALT")
	}
	if cfg.AdminKeySalt == "" {
		return errors.New("ADMIN_KEY_SALT required")
	}

	return nil
}

// SlogLevel parses LogLevel; empty means info
func (cfg Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if cfg.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", cfg.LogLevel)
	}
	return level, nil
}

// loadEnvFile never overrides variables that are already set
func loadEnvFile(path string) error {
	if path == "" {
		if _, err := os.Stat(defaultEnvFile); err != nil {
			return nil
		}
		path = defaultEnvFile
	}

	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}
