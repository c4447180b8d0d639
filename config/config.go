package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server       ServerConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	App          AppConfig
	LLM          LLMConfig
	GasOptimizer GasOptimizerConfig
	Chain        ChainConfig
	Alchemy      AlchemyConfig
	Pinata       PinataConfig
}

type ServerConfig struct {
	Port           string
	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int
}

// DatabaseConfig describes the Postgres connection. With Optional set the
// API starts without the mint record routes when the database is unreachable.
type DatabaseConfig struct {
	Optional bool
	DSN      string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type AppConfig struct {
	Environment    string
	LogLevel       string
	Version        string
	MetricsEnabled bool
}

// LLMConfig selects the backend the gas optimizer consults.
// Provider is one of "gemini", "openai" or "local".
type LLMConfig struct {
	Provider      string
	GeminiAPIKey  string
	GeminiModel   string
	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string
	Timeout       time.Duration
}

type GasOptimizerConfig struct {
	MinGasPriceGwei float64
}

type ChainConfig struct {
	RPCURL          string
	ChainID         int64
	ContractAddress string
	RefreshSpec     string
}

type AlchemyConfig struct {
	APIKey   string
	BaseURL  string
	CacheTTL time.Duration
}

type PinataConfig struct {
	JWT     string
	APIURL  string
	Gateway string
}

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderLocal  = "local"
)

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
			RateLimitRPS:   getEnvAsFloat("RATE_LIMIT_RPS", 1),
			RateLimitBurst: getEnvAsInt("RATE_LIMIT_BURST", 5),
		},
		Database: DatabaseConfig{
			Optional: getEnvAsBool("DB_OPTIONAL", false),
			DSN:      getEnv("DB_DSN", ""),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "chaincanvas"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		App: AppConfig{
			Environment:    getEnv("APP_ENV", "development"),
			LogLevel:       getEnv("LOG_LEVEL", "info"),
			Version:        getEnv("APP_VERSION", "1.0.0"),
			MetricsEnabled: getEnvAsBool("METRICS_ENABLED", true),
		},
		LLM: LLMConfig{
			Provider:      strings.ToLower(getEnv("LLM_PROVIDER", ProviderGemini)),
			GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
			GeminiModel:   getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
			OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			OpenAIBaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Timeout:       getEnvAsDuration("LLM_TIMEOUT", 30*time.Second),
		},
		GasOptimizer: GasOptimizerConfig{
			MinGasPriceGwei: getEnvAsFloat("GAS_MIN_PRICE_GWEI", 0.1),
		},
		Chain: ChainConfig{
			RPCURL:          getEnv("BASE_RPC_URL", "https://mainnet.base.org"),
			ChainID:         int64(getEnvAsInt("CHAIN_ID", 8453)),
			ContractAddress: getEnv("CONTRACT_ADDRESS", "0x2C4581D4cE74EeE134a0129CB9dF36e6300F5812"),
			RefreshSpec:     getEnv("GAS_PRICE_REFRESH_CRON", "*/30 * * * * *"),
		},
		Alchemy: AlchemyConfig{
			APIKey:   getEnv("ALCHEMY_API_KEY", ""),
			BaseURL:  getEnv("ALCHEMY_BASE_URL", "https://base-mainnet.g.alchemy.com"),
			CacheTTL: getEnvAsDuration("GALLERY_CACHE_TTL", 5*time.Minute),
		},
		Pinata: PinataConfig{
			JWT:     getEnv("PINATA_JWT", ""),
			APIURL:  getEnv("PINATA_API_URL", "https://api.pinata.cloud"),
			Gateway: getEnv("PINATA_GATEWAY", "gateway.pinata.cloud"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Database.DSN == "" && c.Database.Host == "" {
		return fmt.Errorf("DB_DSN or DB_HOST is required")
	}

	switch c.LLM.Provider {
	case ProviderGemini:
		if c.LLM.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required for LLM_PROVIDER=gemini")
		}
	case ProviderOpenAI:
		if c.LLM.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for LLM_PROVIDER=openai")
		}
	case ProviderLocal:
	default:
		return fmt.Errorf("unknown LLM_PROVIDER %q", c.LLM.Provider)
	}

	if c.LLM.Timeout <= 0 {
		return fmt.Errorf("LLM_TIMEOUT must be positive")
	}

	if c.GasOptimizer.MinGasPriceGwei < 0 {
		return fmt.Errorf("GAS_MIN_PRICE_GWEI must not be negative")
	}

	return nil
}

// PostgresDSN prefers DB_DSN and otherwise assembles one from the discrete settings.
func (c DatabaseConfig) PostgresDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		c.Host, c.Port, c.User, c.Password, c.Name,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid number for %s, using default: %v", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid boolean for %s, using default: %t", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration for %s, using default: %s", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
