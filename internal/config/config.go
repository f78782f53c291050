package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds application configuration values.
type Config struct {
	HTTPPort      string
	SessionSecret string
	BackendURL    string
	AuthEnabled   bool

	SessionStore  string
	SessionDriver string
	DatabaseDSN   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	SessionTTL    time.Duration

	RequestTimeout time.Duration
	ToastDelay     time.Duration
	SeedCSV        string
}

// Load reads configuration from environment variables with reasonable defaults.
func Load() Config {
	port := getEnv("HTTP_PORT", "8080")
	// Validate that port is numeric.
	if _, err := strconv.Atoi(port); err != nil {
		log.Printf("invalid HTTP_PORT value %q, defaulting to 8080", port)
		port = "8080"
	}

	store := getEnv("SESSION_STORE", "sql")
	if store != "sql" && store != "redis" {
		log.Printf("invalid SESSION_STORE value %q, defaulting to sql", store)
		store = "sql"
	}

	driver := getEnv("SESSION_DRIVER", "sqlite")
	if driver != "sqlite" && driver != "pgx" {
		log.Printf("invalid SESSION_DRIVER value %q, defaulting to sqlite", driver)
		driver = "sqlite"
	}

	return Config{
		HTTPPort:      port,
		SessionSecret: getEnv("SESSION_SECRET", "dev_secret"),
		BackendURL:    getEnv("BACKEND_URL", "http://localhost:8000"),
		AuthEnabled:   getBool("AUTH_ENABLED", false),

		SessionStore:  store,
		SessionDriver: driver,
		DatabaseDSN:   getEnv("DATABASE_DSN", "console.db"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getInt("REDIS_DB", 0),
		SessionTTL:    getDuration("SESSION_TTL", 24*time.Hour),

		RequestTimeout: getDuration("REQUEST_TIMEOUT", 10*time.Second),
		ToastDelay:     getDuration("TOAST_DELAY", 3*time.Second),
		SeedCSV:        os.Getenv("SEED_CSV"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("invalid %s value %q, defaulting to %t", key, v, fallback)
		return fallback
	}
	return b
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("invalid %s value %q, defaulting to %d", key, v, fallback)
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Printf("invalid %s value %q, defaulting to %s", key, v, fallback)
		return fallback
	}
	return d
}
