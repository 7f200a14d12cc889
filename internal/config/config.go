package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	ServerPort string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	PoolMaxConns   int
	AcquireTimeout time.Duration
	QueryTimeout   time.Duration

	JWTSecret string
	TokenTTL  time.Duration

	BcryptCost int

	LogLevel string
}

// Load reads configuration from the environment once at startup. A .env
// file, when present, seeds missing variables. The returned value is never
// mutated afterward.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "prescriptiondb"),
		DBPassword: getEnv("DB_PASSWORD", "prescriptiondb_dev_password"),
		DBName:     getEnv("DB_NAME", "prescriptiondb"),

		PoolMaxConns:   getEnvInt("DB_POOL_MAX_CONNS", 10),
		AcquireTimeout: getEnvDuration("DB_ACQUIRE_TIMEOUT", 5*time.Second),
		QueryTimeout:   getEnvDuration("DB_QUERY_TIMEOUT", 10*time.Second),

		JWTSecret: getEnv("JWT_SECRET", "dev-secret-change-me"),
		TokenTTL:  getEnvDuration("TOKEN_TTL", 7*24*time.Hour),

		BcryptCost: getEnvInt("BCRYPT_COST", bcrypt.DefaultCost),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, fallback string) string {
	val, exists := os.LookupEnv(key)
	if exists {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	val, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	val, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return fallback
	}
	return d
}
