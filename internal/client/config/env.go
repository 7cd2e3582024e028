package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// parseEnv overlays cfg with SLIDESMITH_* variables. A .env file in the
// working directory is loaded first when present; variables already set in
// the process environment win over it.
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	setString := func(key string, dst *string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}

	setString("SLIDESMITH_API_URL", &cfg.APIBaseURL)
	setString("SLIDESMITH_STATE", &cfg.StatePath)
	setString("SLIDESMITH_DOWNLOAD_DIR", &cfg.DownloadDir)
	setString("SLIDESMITH_LOG_FILE", &cfg.LogFile)
	setString("SLIDESMITH_LOG_LEVEL", &cfg.LogLevel)
}
