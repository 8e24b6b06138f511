package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort int
	Mongo      MongoConfig
	Codeforces CodeforcesConfig
}

type MongoConfig struct {
	URI      string
	Database string
}

// CodeforcesConfig controls the outbound Codeforces API client.
type CodeforcesConfig struct {
	BaseURL string

	// MinCallInterval is the global minimum spacing between any two
	// outbound calls. Codeforces allows roughly one call per two seconds.
	MinCallInterval time.Duration

	// CacheTTL applies to the user.info/user.status/user.rating caches.
	CacheTTL time.Duration

	// SummaryCacheTTL applies to the lighter per-user summary used by the
	// team validation and leaderboard paths.
	SummaryCacheTTL time.Duration

	HTTPTimeout time.Duration
}

func LoadConfig() Config {
	if os.Getenv("ENV") == "dev" {
		godotenv.Load()
	}

	mongoConfig := MongoConfig{
		URI:      getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		Database: getEnv("MONGODB_DATABASE", "codeforces-teams"),
	}

	cfConfig := CodeforcesConfig{
		BaseURL:         getEnv("CF_API_BASE_URL", "https://codeforces.com/api"),
		MinCallInterval: time.Duration(getEnvInt("CF_MIN_CALL_INTERVAL_MS", 2000)) * time.Millisecond,
		CacheTTL:        time.Duration(getEnvInt("CACHE_TTL_SECONDS", 600)) * time.Second,
		SummaryCacheTTL: time.Duration(getEnvInt("SUMMARY_CACHE_TTL_SECONDS", 300)) * time.Second,
		HTTPTimeout:     time.Duration(getEnvInt("HTTP_CLIENT_TIMEOUT_SECONDS", 30)) * time.Second,
	}

	return Config{
		ServerPort: getEnvInt("SERVER_PORT", 8080),
		Mongo:      mongoConfig,
		Codeforces: cfConfig,
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if valueStr, exists := os.LookupEnv(key); exists {
		var value int
		fmt.Sscanf(valueStr, "%d", &value)
		return value
	}
	return defaultValue
}
