package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	TransportMode string // "stdio" or "sse"
	Host          string
	Port          string

	BaseURL   string
	ChromeBin string
	Headless  bool

	NavTimeoutMs      int
	ResultsWaitMs     int
	ViewCounterWaitMs int
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	cfg := &Config{
		TransportMode: getEnv("TRANSPORT_MODE", "stdio"),
		Host:          getEnv("HOST", "0.0.0.0"),
		Port:          getEnv("PORT", "8000"),

		BaseURL:   getEnv("BASE_URL", "https://www.kleinanzeigen.de"),
		ChromeBin: getEnv("CHROME_BIN", ""),
		Headless:  getEnvBool("HEADLESS", true),

		NavTimeoutMs:      getEnvInt("NAV_TIMEOUT_MS", 30000),
		ResultsWaitMs:     getEnvInt("RESULTS_WAIT_MS", 5000),
		ViewCounterWaitMs: getEnvInt("VIEW_COUNTER_WAIT_MS", 2500),
	}

	if cfg.TransportMode != "stdio" && cfg.TransportMode != "sse" {
		log.Printf("[config] Invalid TRANSPORT_MODE %q, defaulting to stdio", cfg.TransportMode)
		cfg.TransportMode = "stdio"
	}

	return cfg
}

// Addr returns the listen address for the SSE transport.
func (c *Config) Addr() string {
	return c.Host + ":" + c.Port
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}
