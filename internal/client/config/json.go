package config

import (
	"encoding/json"
	"os"

	"github.com/slidesmith/slidesmith/internal/flagx"
	"github.com/slidesmith/slidesmith/internal/timex"
)

// JsonConfig is a DTO used only for unmarshalling. Zero values leave the
// corresponding Config field untouched.
type JsonConfig struct {
	APIBaseURL     string         `json:"api_base_url"`
	RequestTimeout timex.Duration `json:"request_timeout"`
	AutosaveDelay  timex.Duration `json:"autosave_delay"`
	StatePath      string         `json:"state_path"`
	DownloadDir    string         `json:"download_dir"`
	LogFile        string         `json:"log_file"`
	LogLevel       string         `json:"log_level"`
}

// parseJson overlays cfg with the JSON file named by -c/-config in args.
// It panics on read or decode errors.
func parseJson(cfg *Config, args []string) {
	path := flagx.ConfigPath(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.APIBaseURL != "" {
		cfg.APIBaseURL = jc.APIBaseURL
	}
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.AutosaveDelay.Duration > 0 {
		cfg.AutosaveDelay = jc.AutosaveDelay.Duration
	}
	if jc.StatePath != "" {
		cfg.StatePath = jc.StatePath
	}
	if jc.DownloadDir != "" {
		cfg.DownloadDir = jc.DownloadDir
	}
	if jc.LogFile != "" {
		cfg.LogFile = jc.LogFile
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
}
