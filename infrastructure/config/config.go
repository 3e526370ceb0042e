package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Session backends
const (
	SessionBackendMemory = "memory"
	SessionBackendFile   = "file"
	SessionBackendRedis  = "redis"
)

const developmentSecret = "development-secret-change-in-production"

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string `yaml:"server_address"`
	Environment   string `yaml:"environment"`

	// Logging
	LogLevel string `yaml:"log_level"`

	// Authentication
	JWTSecret      string        `yaml:"jwt_secret"`
	JWTIssuer      string        `yaml:"jwt_issuer"`
	TokenTTL       time.Duration `yaml:"token_ttl"`
	LoginRateLimit int           `yaml:"login_rate_limit"`

	// Session persistence
	SessionBackend string `yaml:"session_backend"`
	SessionFile    string `yaml:"session_file"`
	SessionKey     string `yaml:"session_key"`
	RedisAddr      string `yaml:"redis_addr"`
	RedisPassword  string `yaml:"redis_password"`
	RedisDB        int    `yaml:"redis_db"`

	// Mock backend
	MockLatency bool  `yaml:"mock_latency"`
	RandomSeed  int64 `yaml:"random_seed"`

	// Store limits; 0 means unbounded
	ConversationCap   int `yaml:"conversation_cap"`
	EmotionHistoryCap int `yaml:"emotion_history_cap"`
	PADTrendCap       int `yaml:"pad_trend_cap"`

	// Seed data
	SeedData bool   `yaml:"seed_data"`
	SeedFile string `yaml:"seed_file"`

	// Feature flags
	EnableMetrics bool     `yaml:"enable_metrics"`
	EnableCORS    bool     `yaml:"enable_cors"`
	CORSOrigins   []string `yaml:"cors_origins"`
	// TrustProxy takes the client address from forwarding headers
	TrustProxy bool `yaml:"trust_proxy"`
}

// Default returns the configuration used when nothing is set
func Default() *Config {
	return &Config{
		ServerAddress:     ":8080",
		Environment:       "development",
		LogLevel:          "info",
		JWTIssuer:         "ris-backend",
		TokenTTL:          24 * time.Hour,
		LoginRateLimit:    20,
		SessionBackend:    SessionBackendMemory,
		SessionFile:       "ris-session.json",
		SessionKey:        "ris_user",
		RedisAddr:         "localhost:6379",
		MockLatency:       true,
		EmotionHistoryCap: 1000,
		PADTrendCap:       500,
		SeedData:          true,
		EnableMetrics:     true,
		EnableCORS:        true,
	}
}

// LoadConfig loads configuration from defaults, an optional YAML file named
// by CONFIG_FILE and environment variables, in increasing precedence. A .env
// file in the working directory is loaded into the environment first.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.overlayFile(path); err != nil {
			return nil, err
		}
	}

	cfg.ServerAddress = getEnv("SERVER_ADDRESS", cfg.ServerAddress)
	cfg.Environment = getEnv("ENVIRONMENT", cfg.Environment)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)

	cfg.JWTSecret = getEnv("JWT_SECRET", cfg.JWTSecret)
	cfg.JWTIssuer = getEnv("JWT_ISSUER", cfg.JWTIssuer)
	cfg.TokenTTL = getEnvDuration("TOKEN_TTL", cfg.TokenTTL)
	cfg.LoginRateLimit = getEnvInt("LOGIN_RATE_LIMIT", cfg.LoginRateLimit)

	cfg.SessionBackend = getEnv("SESSION_BACKEND", cfg.SessionBackend)
	cfg.SessionFile = getEnv("SESSION_FILE", cfg.SessionFile)
	cfg.SessionKey = getEnv("SESSION_KEY", cfg.SessionKey)
	cfg.RedisAddr = getEnv("REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", cfg.RedisPassword)
	cfg.RedisDB = getEnvInt("REDIS_DB", cfg.RedisDB)

	cfg.MockLatency = getEnvBool("MOCK_LATENCY", cfg.MockLatency)
	cfg.RandomSeed = int64(getEnvInt("RANDOM_SEED", int(cfg.RandomSeed)))

	cfg.ConversationCap = getEnvInt("CONVERSATION_CAP", cfg.ConversationCap)
	cfg.EmotionHistoryCap = getEnvInt("EMOTION_HISTORY_CAP", cfg.EmotionHistoryCap)
	cfg.PADTrendCap = getEnvInt("PAD_TREND_CAP", cfg.PADTrendCap)

	cfg.SeedData = getEnvBool("SEED_DATA", cfg.SeedData)
	cfg.SeedFile = getEnv("SEED_FILE", cfg.SeedFile)

	cfg.EnableMetrics = getEnvBool("ENABLE_METRICS", cfg.EnableMetrics)
	cfg.EnableCORS = getEnvBool("ENABLE_CORS", cfg.EnableCORS)
	cfg.TrustProxy = getEnvBool("TRUST_PROXY", cfg.TrustProxy)
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		cfg.CORSOrigins = splitList(origins)
	}

	if cfg.JWTSecret == "" && !cfg.IsProduction() {
		cfg.JWTSecret = developmentSecret
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) overlayFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if c.IsProduction() && (c.JWTSecret == "" || c.JWTSecret == developmentSecret) {
		return fmt.Errorf("JWT_SECRET is required in production")
	}

	switch c.SessionBackend {
	case SessionBackendMemory:
	case SessionBackendFile:
		if c.SessionFile == "" {
			return fmt.Errorf("SESSION_FILE is required for the file session backend")
		}
	case SessionBackendRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required for the redis session backend")
		}
	default:
		return fmt.Errorf("unknown SESSION_BACKEND %q", c.SessionBackend)
	}

	if c.SessionKey == "" {
		return fmt.Errorf("SESSION_KEY must not be empty")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	if c.ConversationCap < 0 || c.EmotionHistoryCap < 0 || c.PADTrendCap < 0 {
		return fmt.Errorf("store caps must not be negative")
	}

	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	switch strings.ToLower(value) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration accepts Go durations ("12h") or plain seconds
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
