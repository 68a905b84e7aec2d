package config

import (
	"encoding/json"
	"os"
	"strconv"
)

// Create new config instance
func NewConfig() *Config {
	return &Config{}
}

// Load configuration file in json format, then apply defaults and
// environment overrides.
func (c *Config) Read(file string) error {
	data, err := os.ReadFile(file)
	if err == nil {
		_ = json.Unmarshal(data, c)
	}

	c.applyEnv()
	c.applyDefaults()
	return err
}

// applyEnv lets deployment-specific values come from the environment
// (typically a .env file loaded in main) without editing the config file.
func (c *Config) applyEnv() {
	if v := os.Getenv("IMAGETOOL_API_BASE"); v != "" {
		c.Convert.APIBase = v
	}
	if v := os.Getenv("IMAGETOOL_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Server.Port = p
		}
	}
	if v := os.Getenv("IMAGETOOL_SENTRY_DSN"); v != "" {
		c.Sentry.SentryDSN = v
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8090
	}
	if c.Upload.MaxRequestBodyMB == 0 {
		c.Upload.MaxRequestBodyMB = 256
	}
	if c.Upload.MaxMultipartMemoryMB == 0 {
		c.Upload.MaxMultipartMemoryMB = 32
	}
	if c.Convert.APIBase == "" {
		c.Convert.APIBase = "http://127.0.0.1:8000"
	}
	if c.Convert.Timeout == 0 {
		c.Convert.Timeout = 120
	}
	if c.Preview.MaxThumbSide == 0 {
		c.Preview.MaxThumbSide = 256
	}
	if c.Settings.DefaultTheme == "" {
		c.Settings.DefaultTheme = "light"
	}
	if c.Settings.Namespace == "" {
		c.Settings.Namespace = "imagetool:settings"
	}
}
