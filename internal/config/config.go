package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const defaultJWTSecret = "supersecretkey"

type Config struct {
	Port int

	StoreBackend string
	DataDir      string
	DatabaseURL  string

	JWTSecret        []byte
	JWTSecretDefault bool

	CatalogAdminAuth bool

	KafkaBrokers []string

	LogLevel string
}

func Load() *Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	secret := EnvDefault("JWT_SECRET", defaultJWTSecret)

	return &Config{
		Port:             EnvIntDefault("PORT", 4000),
		StoreBackend:     EnvDefault("STORE_BACKEND", "file"),
		DataDir:          EnvDefault("DATA_DIR", "./data"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		JWTSecret:        []byte(secret),
		JWTSecretDefault: secret == defaultJWTSecret,
		CatalogAdminAuth: EnvBoolDefault("CATALOG_ADMIN_AUTH", true),
		KafkaBrokers:     CSV(os.Getenv("KAFKA_BROKERS")),
		LogLevel:         EnvDefault("LOG_LEVEL", "info"),
	}
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func EnvBoolDefault(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
