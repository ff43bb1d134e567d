package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/tripjournal/internal/client/media"
)

func defaults() *Config {
	c := &Config{}
	c.LoadDefaults()
	return c
}

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	c := defaults()

	assert.Equal(t, "http://localhost:8000/", c.BaseURL)
	assert.Equal(t, 30*time.Second, c.RequestTimeout)
	assert.Equal(t, 60*time.Second, c.ResourceTimeout)
	assert.Equal(t, time.Hour, c.TokenTTL)
	assert.False(t, c.EnforceExpiry)
	assert.Equal(t, "empty", c.TripsFallback)
	assert.Equal(t, media.ModeURL, c.MediaMode)
	assert.Equal(t, media.UploaderServer, c.MediaUploader)
	require.NoError(t, c.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty base url", func(c *Config) { c.BaseURL = "" }},
		{"media mode", func(c *Config) { c.MediaMode = "ftp" }},
		{"uploader", func(c *Config) { c.MediaUploader = "gcs" }},
		{"fallback", func(c *Config) { c.TripsFallback = "cache" }},
		{"dimension", func(c *Config) { c.MaxImageDimension = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := defaults()
			tt.mutate(c)
			require.ErrorIs(t, c.Validate(), ErrInvalidConfig)
		})
	}
}

func TestParseEnv(t *testing.T) {
	env := map[string]string{
		"TRIPJOURNAL_BASE_URL":             "https://journal.example.com/",
		"TRIPJOURNAL_REQUEST_TIMEOUT":      "5s",
		"TRIPJOURNAL_RESOURCE_TIMEOUT":     "bogus",
		"TRIPJOURNAL_TOKEN_TTL":            "2h",
		"TRIPJOURNAL_ENFORCE_EXPIRY":       "true",
		"TRIPJOURNAL_MEDIA_MODE":           "base64",
		"TRIPJOURNAL_MAX_IMAGE_DIMENSION":  "1024",
		"TRIPJOURNAL_S3_BUCKET":            "photos",
		"TRIPJOURNAL_VAULT_PASSPHRASE":     "hunter2",
		"TRIPJOURNAL_UPLOAD_PATH":          "mediasUploaded",
		"TRIPJOURNAL_UNRELATED_SETTING_XX": "ignored",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	c := defaults()
	parseEnv(c, lookup)

	want := defaults()
	want.BaseURL = "https://journal.example.com/"
	want.RequestTimeout = 5 * time.Second
	want.TokenTTL = 2 * time.Hour
	want.EnforceExpiry = true
	want.MediaMode = media.ModeBase64
	want.MaxImageDimension = 1024
	want.S3.Bucket = "photos"
	want.VaultPassphrase = "hunter2"
	want.UploadPath = "mediasUploaded"

	assert.Empty(t, cmp.Diff(want, c))
}

func TestLoadDotEnv_DoesNotOverrideEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("TRIPJOURNAL_TEST_DOTENV_A=file\nTRIPJOURNAL_TEST_DOTENV_B=file\n"), 0o600))
	t.Setenv("TRIPJOURNAL_TEST_DOTENV_A", "process")
	t.Cleanup(func() { _ = os.Unsetenv("TRIPJOURNAL_TEST_DOTENV_B") })

	loadDotEnv(path)

	assert.Equal(t, "process", os.Getenv("TRIPJOURNAL_TEST_DOTENV_A"))
	assert.Equal(t, "file", os.Getenv("TRIPJOURNAL_TEST_DOTENV_B"))

	loadDotEnv(filepath.Join(t.TempDir(), "missing.env"))
}

func TestParseJson(t *testing.T) {
	path := writeTempJSON(t, map[string]any{
		"base_url":            "https://j.example.com/",
		"request_timeout":     "10s",
		"token_ttl":           1800000000000,
		"enforce_expiry":      true,
		"trips_fallback":      "propagate",
		"media_uploader":      "s3",
		"max_image_dimension": 2048,
		"s3": map[string]any{
			"endpoint":   "https://r2.example.com",
			"bucket":     "journal",
			"public_url": "https://cdn.example.com",
		},
	})

	t.Run("overlays present keys", func(t *testing.T) {
		c := defaults()
		require.NoError(t, parseJson(c, []string{"-c", path}))

		want := defaults()
		want.BaseURL = "https://j.example.com/"
		want.RequestTimeout = 10 * time.Second
		want.TokenTTL = 30 * time.Minute
		want.EnforceExpiry = true
		want.TripsFallback = "propagate"
		want.MediaUploader = media.UploaderS3
		want.MaxImageDimension = 2048
		want.S3 = media.S3Options{Endpoint: "https://r2.example.com", Bucket: "journal", PublicURL: "https://cdn.example.com"}

		assert.Empty(t, cmp.Diff(want, c))
	})

	t.Run("no flag leaves config alone", func(t *testing.T) {
		c := defaults()
		require.NoError(t, parseJson(c, []string{"-a", "http://x/"}))
		assert.Empty(t, cmp.Diff(defaults(), c))
	})

	t.Run("missing file", func(t *testing.T) {
		require.Error(t, parseJson(defaults(), []string{"-config", filepath.Join(t.TempDir(), "nope.json")}))
	})

	t.Run("malformed file", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{"request_timeout": "soon"}`), 0o600))
		require.Error(t, parseJson(defaults(), []string{"-c", bad}))
	})
}

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    func(*Config)
		wantErr bool
	}{
		{
			name: "all flags",
			args: []string{"-a", "http://127.0.0.1:9000/", "-t", "10", "-d", "/tmp/v.db", "-l", "debug", "-m", "base64"},
			want: func(c *Config) {
				c.BaseURL = "http://127.0.0.1:9000/"
				c.RequestTimeout = 10 * time.Second
				c.VaultPath = "/tmp/v.db"
				c.LogLevel = "debug"
				c.MediaMode = "base64"
			},
		},
		{
			name: "unknown flags ignored",
			args: []string{"-x", "1", "-c", "cfg.json", "-l", "warn"},
			want: func(c *Config) { c.LogLevel = "warn" },
		},
		{name: "bad timeout", args: []string{"-t", "abc"}, wantErr: true},
		{name: "zero timeout", args: []string{"-t", "0"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := defaults()
			err := parseFlags(c, tt.args)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)

			want := defaults()
			tt.want(want)
			assert.Empty(t, cmp.Diff(want, c))
		})
	}
}

func TestLoad_Precedence(t *testing.T) {
	t.Setenv("TRIPJOURNAL_BASE_URL", "http://env/")
	t.Setenv("TRIPJOURNAL_LOG_LEVEL", "error")
	t.Setenv("TRIPJOURNAL_MEDIA_PATH", "photos")

	path := writeTempJSON(t, map[string]any{
		"base_url":  "http://json/",
		"log_level": "warn",
	})

	cfg, err := Load([]string{"-c", path, "-l", "debug"})
	require.NoError(t, err)

	assert.Equal(t, "http://json/", cfg.BaseURL)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "photos", cfg.MediaPath)
}

func TestLoad_RejectsInvalidResult(t *testing.T) {
	_, err := Load([]string{"-m", "carrier-pigeon"})
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoad_KeepsSubSecondTimeouts(t *testing.T) {
	t.Run("environment", func(t *testing.T) {
		t.Setenv("TRIPJOURNAL_REQUEST_TIMEOUT", "500ms")
		cfg, err := Load(nil)
		require.NoError(t, err)
		assert.Equal(t, 500*time.Millisecond, cfg.RequestTimeout)
	})

	t.Run("json", func(t *testing.T) {
		path := writeTempJSON(t, map[string]any{"request_timeout": "1500ms"})
		cfg, err := Load([]string{"-c", path, "-l", "debug"})
		require.NoError(t, err)
		assert.Equal(t, 1500*time.Millisecond, cfg.RequestTimeout)
	})

	t.Run("flag still wins", func(t *testing.T) {
		t.Setenv("TRIPJOURNAL_REQUEST_TIMEOUT", "500ms")
		cfg, err := Load([]string{"-t", "3"})
		require.NoError(t, err)
		assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
	})
}
