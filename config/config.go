package config

import "os"

// Environment configuration, loaded once at startup.
// A .env file is autoloaded by main through godotenv.
var (
	Port             string
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	JWTSecret        string
	UploadDir        string
	RedisAddr        string
	DefaultPassword  string
	SeedDemoData     bool
)

// Init reads the environment into the package variables.
func Init() {
	Port = getEnv("PORT", "5000")
	PostgresHost = getEnv("POSTGRES_HOST", "localhost")
	PostgresPort = getEnv("POSTGRES_PORT", "5432")
	PostgresUser = getEnv("POSTGRES_USER", "gallery")
	PostgresPassword = getEnv("POSTGRES_PASSWORD", "gallery")
	PostgresDB = getEnv("POSTGRES_DB", "gallery")
	JWTSecret = getEnv("JWT_SECRET", "change-me")
	UploadDir = getEnv("UPLOAD_DIR", "./uploads")
	RedisAddr = os.Getenv("REDIS_ADDR")
	DefaultPassword = os.Getenv("DEFAULT_ADMIN_PASSWORD")
	SeedDemoData = os.Getenv("SEED_DEMO_DATA") == "true"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
