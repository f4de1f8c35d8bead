package config

import (
	"errors"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv            string
	Addr              string
	DbDsn             string
	StorageURL        string
	StorageServiceKey string
	StorageBucket     string
	AllowedOriginsRaw string
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		AppEnv:            getEnv("APP_ENV", "local"),
		Addr:              getEnv("APP_ADDR", ":8080"),
		DbDsn:             os.Getenv("DB_DSN"),
		StorageURL:        os.Getenv("STORAGE_URL"),
		StorageServiceKey: os.Getenv("STORAGE_SERVICE_KEY"),
		StorageBucket:     getEnv("STORAGE_BUCKET", "files"),
		AllowedOriginsRaw: getEnv("ALLOWED_ORIGINS", ""),
	}

	missing := []string{}
	if cfg.DbDsn == "" {
		missing = append(missing, "DB_DSN")
	}
	if cfg.StorageURL == "" {
		missing = append(missing, "STORAGE_URL")
	}
	if cfg.StorageServiceKey == "" {
		missing = append(missing, "STORAGE_SERVICE_KEY")
	}
	if len(missing) > 0 {
		return cfg, errors.New("missing env: " + strings.Join(missing, ", "))
	}

	if !looksLikeJWT(cfg.StorageServiceKey) {
		return cfg, errors.New("STORAGE_SERVICE_KEY is not a valid JWT")
	}

	return cfg, nil
}

// looksLikeJWT is a shape check only; the storage backend verifies the key.
func looksLikeJWT(token string) bool {
	if !strings.HasPrefix(token, "eyJ") {
		return false
	}
	segments := strings.Split(token, ".")
	if len(segments) != 3 {
		return false
	}
	for _, segment := range segments {
		if segment == "" {
			return false
		}
	}
	return true
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}
