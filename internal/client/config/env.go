package config

import (
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const envPrefix = "TRIPJOURNAL_"

// loadDotEnv copies variables from path into the process environment.
// Variables that are already set win, and a missing file is not an error.
func loadDotEnv(path string) {
	_ = godotenv.Load(path)
}

// parseEnv overlays cfg with TRIPJOURNAL_* variables. Values that do not
// parse are ignored and the previous setting is kept.
func parseEnv(cfg *Config, lookup func(string) (string, bool)) {
	str := func(name string, dst *string) {
		if v, ok := lookup(envPrefix + name); ok && v != "" {
			*dst = v
		}
	}
	dur := func(name string, dst *time.Duration) {
		if v, ok := lookup(envPrefix + name); ok {
			if d, err := time.ParseDuration(v); err == nil && d > 0 {
				*dst = d
			}
		}
	}
	boolean := func(name string, dst *bool) {
		if v, ok := lookup(envPrefix + name); ok {
			if b, err := strconv.ParseBool(v); err == nil {
				*dst = b
			}
		}
	}

	str("BASE_URL", &cfg.BaseURL)
	dur("REQUEST_TIMEOUT", &cfg.RequestTimeout)
	dur("RESOURCE_TIMEOUT", &cfg.ResourceTimeout)
	dur("TOKEN_TTL", &cfg.TokenTTL)
	boolean("ENFORCE_EXPIRY", &cfg.EnforceExpiry)
	str("TRIPS_FALLBACK", &cfg.TripsFallback)

	str("MEDIA_MODE", &cfg.MediaMode)
	str("MEDIA_UPLOADER", &cfg.MediaUploader)
	str("MEDIA_PATH", &cfg.MediaPath)
	str("UPLOAD_PATH", &cfg.UploadPath)
	if v, ok := lookup(envPrefix + "MAX_IMAGE_DIMENSION"); ok {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.MaxImageDimension = n
		}
	}

	str("S3_ENDPOINT", &cfg.S3.Endpoint)
	str("S3_REGION", &cfg.S3.Region)
	str("S3_BUCKET", &cfg.S3.Bucket)
	str("S3_ACCESS_KEY_ID", &cfg.S3.AccessKeyID)
	str("S3_SECRET_ACCESS_KEY", &cfg.S3.SecretAccessKey)
	str("S3_PUBLIC_URL", &cfg.S3.PublicURL)
	str("S3_PREFIX", &cfg.S3.Prefix)

	str("VAULT_PATH", &cfg.VaultPath)
	str("VAULT_PASSPHRASE", &cfg.VaultPassphrase)
	str("LOG_LEVEL", &cfg.LogLevel)
}
