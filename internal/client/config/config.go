package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/tripjournal/internal/client/media"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds runtime settings for the journal client.
type Config struct {
	BaseURL string

	// RequestTimeout bounds the wait for response headers, ResourceTimeout
	// the whole exchange.
	RequestTimeout  time.Duration
	ResourceTimeout time.Duration

	TokenTTL      time.Duration
	EnforceExpiry bool
	TripsFallback string

	MediaMode         string
	MediaUploader     string
	MediaPath         string
	UploadPath        string
	MaxImageDimension int
	S3                media.S3Options

	VaultPath       string
	VaultPassphrase string

	LogLevel string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BaseURL = "http://localhost:8000/"
	c.RequestTimeout = 30 * time.Second
	c.ResourceTimeout = 60 * time.Second
	c.TokenTTL = time.Hour
	c.EnforceExpiry = false
	c.TripsFallback = "empty"
	c.MediaMode = media.ModeURL
	c.MediaUploader = media.UploaderServer
	c.MediaPath = "medias"
	c.UploadPath = ""
	c.MaxImageDimension = 0
	c.VaultPath = "tripjournal.db"
	c.LogLevel = "info"
}

// Validate checks the enumerated settings.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("%w: base url is empty", ErrInvalidConfig)
	}
	switch c.MediaMode {
	case media.ModeURL, media.ModeBase64:
	default:
		return fmt.Errorf("%w: media mode %q", ErrInvalidConfig, c.MediaMode)
	}
	switch c.MediaUploader {
	case media.UploaderServer, media.UploaderS3:
	default:
		return fmt.Errorf("%w: media uploader %q", ErrInvalidConfig, c.MediaUploader)
	}
	switch c.TripsFallback {
	case "empty", "propagate":
	default:
		return fmt.Errorf("%w: trips fallback %q", ErrInvalidConfig, c.TripsFallback)
	}
	if c.MaxImageDimension < 0 {
		return fmt.Errorf("%w: max image dimension %d", ErrInvalidConfig, c.MaxImageDimension)
	}
	return nil
}

// Load builds a Config from defaults, the environment, an optional JSON file
// and args, in that order.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	loadDotEnv(".env")
	parseEnv(cfg, os.LookupEnv)

	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig is Load over os.Args.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}
