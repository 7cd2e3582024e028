// Package config loads runtime configuration for the slidesmith client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment, optionally seeded from a .env file in the working
//     directory (see parseEnv).
//  3. Optional JSON file selected with -c or -config (see parseJson).
//  4. Command-line flags (see parseFlags), which override everything.
//
// Supported flags
//
//	-a string   base URL of the backend API
//	-t int      request timeout (seconds)
//	-d int      autosave quiet period (milliseconds)
//
// Environment
//
//	SLIDESMITH_API_URL, SLIDESMITH_STATE, SLIDESMITH_DOWNLOAD_DIR,
//	SLIDESMITH_LOG_FILE, SLIDESMITH_LOG_LEVEL
//
// # JSON schema
//
// Durations use timex.Duration, so "1200ms" and integer nanoseconds both work:
//
//	{
//	  "api_base_url": "http://localhost:8000",
//	  "request_timeout": "15s",
//	  "autosave_delay": "1200ms",
//	  "state_path": "slidesmith.db",
//	  "download_dir": "downloads",
//	  "log_file": "slidesmith.log",
//	  "log_level": "info"
//	}
package config
