package config

import (
	"fmt"
	"time"
)

type Config struct {
	Server   ServerConfig   `json:"server"`
	Upload   UploadConfig   `json:"upload"`
	Convert  ConvertConfig  `json:"convert"`
	Preview  PreviewConfig  `json:"preview"`
	Settings SettingsConfig `json:"settings"`
	Sentry   SentryConfig   `json:"sentry"`
}

type ServerConfig struct {
	Port         int           `json:"port"`
	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
}

type UploadConfig struct {
	MaxRequestBodyMB     int64 `json:"max_request_body"`
	MaxMultipartMemoryMB int64 `json:"max_multipart_memory"`
}

// ConvertConfig points at the remote conversion service.
type ConvertConfig struct {
	APIBase string        `json:"api_base"`
	Timeout time.Duration `json:"timeout"` // seconds
}

type PreviewConfig struct {
	MaxThumbSide int `json:"max_thumb_side"`
}

// SettingsConfig selects the preference backend: redis when nodes are
// configured, else the JSON file at FilePath, else in-memory only.
type SettingsConfig struct {
	FilePath     string      `json:"file_path"`
	DefaultTheme string      `json:"default_theme"`
	Namespace    string      `json:"namespace"`
	Redis        RedisConfig `json:"redis"`
}

type RedisConfig struct {
	Password     string        `json:"password"`
	DatabaseID   int           `json:"database_id"`
	DialTimeout  time.Duration `json:"dial_timeout"`  // seconds
	ReadTimeout  time.Duration `json:"read_timeout"`  // seconds
	WriteTimeout time.Duration `json:"write_timeout"` // seconds
	Nodes        []RedisNode   `json:"nodes"`
}

type RedisNode struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

func (n RedisNode) Addr() string { return fmt.Sprintf("%s:%d", n.Host, n.Port) }

type SentryConfig struct {
	SentryDSN   string `json:"sentry_dsn"`
	Environment string `json:"environment"`
}
