package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenAddr  string
	StoreURL    string
	AccessCodes []string
	PrefsPath   string
}

func Load() *Config {
	// Missing .env is fine; real env vars still apply.
	_ = godotenv.Load()

	return &Config{
		ListenAddr:  getEnv("LISTEN_ADDR", ":8080"),
		StoreURL:    getEnv("STORE_URL", "http://localhost:3000/api"),
		AccessCodes: splitCodes(getEnv("ACCESS_CODES", "1234")),
		PrefsPath:   getEnv("PREFS_PATH", "gamenight-prefs.json"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitCodes(raw string) []string {
	var codes []string
	for _, c := range strings.Split(raw, ",") {
		if c = strings.TrimSpace(c); c != "" {
			codes = append(codes, c)
		}
	}
	return codes
}
