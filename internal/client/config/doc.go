// Package config loads runtime configuration for the journal client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment: TRIPJOURNAL_* variables, optionally from a .env file.
//  3. Optional JSON file selected with -c or -config.
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string   base URL of the journal service
//	-t int      request timeout (seconds)
//	-d string   path of the token vault database
//	-l string   log level (debug, info, warn, error)
//	-m string   media mode (url, base64)
//
// # JSON schema
//
// Durations accept strings like "30s" or integer nanoseconds:
//
//	{
//	  "base_url": "http://localhost:8000/",
//	  "request_timeout": "30s",
//	  "resource_timeout": "60s",
//	  "token_ttl": "1h",
//	  "enforce_expiry": false,
//	  "trips_fallback": "empty",
//	  "media_mode": "url",
//	  "media_uploader": "server",
//	  "media_path": "medias",
//	  "upload_path": "medias",
//	  "max_image_dimension": 0,
//	  "vault_path": "tripjournal.db",
//	  "log_level": "info",
//	  "s3": {"endpoint": "", "bucket": "", "public_url": ""}
//	}
package config
