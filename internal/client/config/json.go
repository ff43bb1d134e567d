package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/tripjournal/internal/client/media"
	"github.com/dmitrijs2005/tripjournal/internal/flagx"
	"github.com/dmitrijs2005/tripjournal/internal/timex"
)

// JsonConfig is a DTO used only for unmarshalling. Keys that are absent
// (or zero) leave the current value alone.
type JsonConfig struct {
	BaseURL           string           `json:"base_url"`
	RequestTimeout    timex.Duration   `json:"request_timeout"`
	ResourceTimeout   timex.Duration   `json:"resource_timeout"`
	TokenTTL          timex.Duration   `json:"token_ttl"`
	EnforceExpiry     *bool            `json:"enforce_expiry"`
	TripsFallback     string           `json:"trips_fallback"`
	MediaMode         string           `json:"media_mode"`
	MediaUploader     string           `json:"media_uploader"`
	MediaPath         string           `json:"media_path"`
	UploadPath        string           `json:"upload_path"`
	MaxImageDimension *int             `json:"max_image_dimension"`
	S3                *media.S3Options `json:"s3"`
	VaultPath         string           `json:"vault_path"`
	LogLevel          string           `json:"log_level"`
}

// parseJson overlays cfg with the file named by -c / -config in args, if
// any. The vault passphrase is never read from files.
func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&cfg.BaseURL, jc.BaseURL)
	setDuration(&cfg.RequestTimeout, jc.RequestTimeout)
	setDuration(&cfg.ResourceTimeout, jc.ResourceTimeout)
	setDuration(&cfg.TokenTTL, jc.TokenTTL)
	if jc.EnforceExpiry != nil {
		cfg.EnforceExpiry = *jc.EnforceExpiry
	}
	setString(&cfg.TripsFallback, jc.TripsFallback)
	setString(&cfg.MediaMode, jc.MediaMode)
	setString(&cfg.MediaUploader, jc.MediaUploader)
	setString(&cfg.MediaPath, jc.MediaPath)
	setString(&cfg.UploadPath, jc.UploadPath)
	if jc.MaxImageDimension != nil {
		cfg.MaxImageDimension = *jc.MaxImageDimension
	}
	if jc.S3 != nil {
		cfg.S3 = *jc.S3
	}
	setString(&cfg.VaultPath, jc.VaultPath)
	setString(&cfg.LogLevel, jc.LogLevel)
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v timex.Duration) {
	if v.Duration > 0 {
		*dst = v.Duration
	}
}
