package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/seolens/seolens/internal/crypto"
)

type Config struct {
	DatabaseURL        string
	GoogleClientID     string
	GoogleClientSecret string
	// EncryptionKeyHex is the raw env value; EncryptionKey is the parsed
	// 32-byte key, populated by Validate.
	EncryptionKeyHex string
	EncryptionKey    []byte
	// BaseURL overrides the callback base URL derived from the request.
	BaseURL        string
	HTTPListenAddr string
	LogLevel       string
	CORSOrigins    []string
	DevMode        bool
	// SkipAuth disables the session middleware. Only honored in dev mode.
	SkipAuth bool
}

func Load() (*Config, error) {
	origins := getEnv("CORS_ORIGINS", "http://localhost:3000")
	var corsList []string
	for _, o := range strings.Split(origins, ",") {
		if trimmed := strings.TrimSpace(o); trimmed != "" {
			corsList = append(corsList, trimmed)
		}
	}

	cfg := &Config{
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		EncryptionKeyHex:   getEnv("ENCRYPTION_KEY", ""),
		BaseURL:            strings.TrimRight(getEnv("BASE_URL", ""), "/"),
		HTTPListenAddr:     getEnv("HTTP_LISTEN_ADDR", ":8080"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSOrigins:        corsList,
		DevMode:            getEnv("DEV_MODE", "") == "true",
		SkipAuth:           getEnv("SKIP_AUTH", "") == "true",
	}

	return cfg, nil
}

// Validate checks required configuration and parses the encryption key.
// Key parsing happens here so a malformed key fails at startup, not on the
// first encrypt or decrypt.
func (c *Config) Validate() error {
	var missing []string
	if c.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if c.GoogleClientID == "" {
		missing = append(missing, "GOOGLE_CLIENT_ID")
	}
	if c.GoogleClientSecret == "" {
		missing = append(missing, "GOOGLE_CLIENT_SECRET")
	}
	if c.EncryptionKeyHex == "" {
		missing = append(missing, "ENCRYPTION_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required config: %s", strings.Join(missing, ", "))
	}

	key, err := crypto.ParseKey(c.EncryptionKeyHex)
	if err != nil {
		return fmt.Errorf("ENCRYPTION_KEY: %w", err)
	}
	c.EncryptionKey = key

	if c.SkipAuth && !c.DevMode {
		return fmt.Errorf("SKIP_AUTH requires DEV_MODE=true")
	}

	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
