package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Database. DatabaseURL wins over the individual DB_* parts when set.
	DatabaseURL string `yaml:"database_url"`
	DBHost      string `yaml:"db_host"`
	DBPort      string `yaml:"db_port"`
	DBUser      string `yaml:"db_user"`
	DBPassword  string `yaml:"db_password"`
	DBName      string `yaml:"db_name"`
	DBSSLMode   string `yaml:"db_sslmode"`

	// JWT
	JWTSecret     string `yaml:"jwt_secret"`
	JWTAlgorithm  string `yaml:"jwt_algo"`
	JWTExpMinutes int    `yaml:"jwt_exp_minutes"`
	BcryptCost    int    `yaml:"bcrypt_cost"`

	// Text analysis provider
	GeminiAPIKey string        `yaml:"gemini_api_key"`
	GeminiAPIURL string        `yaml:"gemini_api_url"`
	GeminiModel  string        `yaml:"gemini_model"`
	AITimeout    time.Duration `yaml:"ai_timeout"`

	// Redis cache. An empty host disables caching.
	RedisHost       string `yaml:"redis_host"`
	RedisPort       int    `yaml:"redis_port"`
	RedisDB         int    `yaml:"redis_db"`
	RedisPassword   string `yaml:"redis_password"`
	CacheTTLSeconds int    `yaml:"redis_cache_ttl"`

	// Server
	Port               string `yaml:"port"`
	CORSOrigins        string `yaml:"cors_origins"`
	RateLimitPerMinute int    `yaml:"rate_limit_per_minute"`

	// Error tracking
	SentryDSN string `yaml:"sentry_dsn"`
	AppEnv    string `yaml:"app_env"`
}

// Load builds the configuration from defaults, an optional YAML file named by
// CONFIG_FILE, and finally environment variables.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		DBHost:    "localhost",
		DBPort:    "5432",
		DBUser:    "postgres",
		DBName:    "contentdb",
		DBSSLMode: "disable",

		JWTAlgorithm:  "HS256",
		JWTExpMinutes: 60,
		BcryptCost:    10,

		GeminiAPIURL: "https://generativelanguage.googleapis.com/v1beta",
		GeminiModel:  "gemini-2.5-flash",
		AITimeout:    60 * time.Second,

		RedisHost:       "localhost",
		RedisPort:       6379,
		CacheTTLSeconds: 60,

		Port:               "8000",
		CORSOrigins:        "*",
		RateLimitPerMinute: 60,
	}
}

func (c *Config) loadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config file: %w", err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(c); err != nil {
		return fmt.Errorf("decode config file: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.DatabaseURL = getEnv("DATABASE_URL", c.DatabaseURL)
	c.DBHost = getEnv("DB_HOST", c.DBHost)
	c.DBPort = getEnv("DB_PORT", c.DBPort)
	c.DBUser = getEnv("DB_USER", c.DBUser)
	c.DBPassword = getEnv("DB_PASSWORD", c.DBPassword)
	c.DBName = getEnv("DB_NAME", c.DBName)
	c.DBSSLMode = getEnv("DB_SSLMODE", c.DBSSLMode)

	c.JWTSecret = getEnv("JWT_SECRET", c.JWTSecret)
	c.JWTAlgorithm = getEnv("JWT_ALGO", c.JWTAlgorithm)
	c.JWTExpMinutes = getEnvInt("JWT_EXP_MINUTES", c.JWTExpMinutes)
	c.BcryptCost = getEnvInt("BCRYPT_COST", c.BcryptCost)

	c.GeminiAPIKey = getEnv("GEMINI_API_KEY", c.GeminiAPIKey)
	c.GeminiAPIURL = getEnv("GEMINI_API_URL", c.GeminiAPIURL)
	c.GeminiModel = getEnv("GEMINI_MODEL", c.GeminiModel)
	c.AITimeout = parseDuration(getEnv("AI_TIMEOUT", ""), c.AITimeout)

	if host, ok := os.LookupEnv("REDIS_HOST"); ok {
		c.RedisHost = host
	}
	c.RedisPort = getEnvInt("REDIS_PORT", c.RedisPort)
	c.RedisDB = getEnvInt("REDIS_DB", c.RedisDB)
	c.RedisPassword = getEnv("REDIS_PASSWORD", c.RedisPassword)
	c.CacheTTLSeconds = getEnvInt("REDIS_CACHE_TTL", c.CacheTTLSeconds)

	c.Port = getEnv("PORT", c.Port)
	c.CORSOrigins = getEnv("CORS_ORIGINS", c.CORSOrigins)
	c.RateLimitPerMinute = getEnvInt("RATE_LIMIT_PER_MINUTE", c.RateLimitPerMinute)

	c.SentryDSN = getEnv("SENTRY_DSN", c.SentryDSN)
	c.AppEnv = getEnv("APP_ENV", c.AppEnv)
}

// Validate reports the first setting that would make the server unusable.
func (c *Config) Validate() error {
	switch {
	case c.JWTSecret == "":
		return errors.New("JWT_SECRET environment variable is required")
	case c.JWTAlgorithm != "HS256" && c.JWTAlgorithm != "HS384" && c.JWTAlgorithm != "HS512":
		return fmt.Errorf("unsupported JWT_ALGO %q", c.JWTAlgorithm)
	case c.JWTExpMinutes <= 0:
		return errors.New("JWT_EXP_MINUTES must be positive")
	case c.CacheTTLSeconds <= 0:
		return errors.New("REDIS_CACHE_TTL must be positive")
	case c.AITimeout <= 0:
		return errors.New("AI_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func (c *Config) TokenExpiry() time.Duration {
	return time.Duration(c.JWTExpMinutes) * time.Minute
}

func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

func (c *Config) RedisAddr() string {
	return c.RedisHost + ":" + strconv.Itoa(c.RedisPort)
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
