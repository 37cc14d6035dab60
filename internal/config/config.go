package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Azure OpenAI provider. Deliberately optional at load time: the proxy
	// endpoints validate these per request and surface a 500, matching the
	// serverless functions they replace (no persistent startup phase).
	AzureOpenAIEndpoint   string
	AzureOpenAIKey        string
	AzureOpenAIDeployment string
	AzureOpenAIAPIVersion string

	// Managed auth. When empty the proxy routes accept unauthenticated
	// calls (native builds go through the managed gateway).
	SupabaseJWTSecret string

	// Quota
	QuotaDBPath string

	// Rate limiting (per IP, per minute) on the proxy routes
	ProxyRateLimit int
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port: getEnvOrDefault("PORT", "8080"),
		Env:  getEnvOrDefault("ENV", "development"),

		AzureOpenAIEndpoint:   getEnvOrDefault("AZURE_OPENAI_ENDPOINT", ""),
		AzureOpenAIKey:        getEnvOrDefault("AZURE_OPENAI_KEY", ""),
		AzureOpenAIDeployment: getEnvOrDefault("AZURE_OPENAI_DEPLOYMENT", ""),
		AzureOpenAIAPIVersion: getEnvOrDefault("AZURE_OPENAI_API_VERSION", "2024-08-01-preview"),

		SupabaseJWTSecret: getEnvOrDefault("SUPABASE_JWT_SECRET", ""),

		QuotaDBPath: getEnvOrDefault("QUOTA_DB_PATH", "./data/quota.db"),

		ProxyRateLimit: getEnvAsIntOrDefault("PROXY_RATE_LIMIT", 30),
	}

	return cfg
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}
