package config

import (
	"os"
	"time"
)

// Config holds runtime settings for the slidesmith client.
type Config struct {
	APIBaseURL     string
	RequestTimeout time.Duration
	AutosaveDelay  time.Duration
	StatePath      string
	DownloadDir    string
	LogFile        string
	LogLevel       string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:8000"
	c.RequestTimeout = 30 * time.Second
	c.AutosaveDelay = 1200 * time.Millisecond
	c.StatePath = "slidesmith.db"
	c.DownloadDir = "downloads"
	c.LogFile = "slidesmith.log"
	c.LogLevel = "info"
}

// LoadConfig builds a Config from defaults, the environment, an optional
// JSON file and flags, in that order.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg, os.Args[1:])
	parseFlags(cfg, os.Args[1:])
	return cfg
}

// Flags lists the global flags LoadConfig consumes from the command line.
// Everything else belongs to the command tree.
var Flags = []string{"-a", "-t", "-d", "-c", "-config"}
