package config

import (
	"time"
)

type Config struct {
	API           APIConfig           `yaml:"api" mapstructure:"api"`
	Space         SpaceConfig         `yaml:"space" mapstructure:"space"`
	Credential    CredentialConfig    `yaml:"credential" mapstructure:"credential"`
	Log           LogConfig           `yaml:"log" mapstructure:"log"`
	Observability ObservabilityConfig `yaml:"observability" mapstructure:"observability"`
}

// APIConfig points at the first-party article/user backend.
type APIConfig struct {
	BaseURL string        `yaml:"base_url" mapstructure:"base_url"`
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
	// Retries applies to transport failures only; 401 is never retried.
	Retries int `yaml:"retries" mapstructure:"retries"`
}

// SpaceConfig points at the third-party space-data API.
type SpaceConfig struct {
	BaseURL string        `yaml:"base_url" mapstructure:"base_url"`
	APIKey  string        `yaml:"api_key" mapstructure:"api_key"`
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

type CredentialConfig struct {
	Driver string           `yaml:"driver" mapstructure:"driver"`
	Key    string           `yaml:"key" mapstructure:"key"`
	SQLite CredentialSQLite `yaml:"sqlite,omitempty" mapstructure:"sqlite"`
	Redis  CredentialRedis  `yaml:"redis,omitempty" mapstructure:"redis"`
}

type CredentialSQLite struct {
	DSN string `yaml:"dsn,omitempty" mapstructure:"dsn"`
}

type CredentialRedis struct {
	Addr     string `yaml:"addr" mapstructure:"addr"`
	Username string `yaml:"username,omitempty" mapstructure:"username"`
	Password string `yaml:"password,omitempty" mapstructure:"password"`
	DB       int    `yaml:"db,omitempty" mapstructure:"db"`
	Prefix   string `yaml:"prefix,omitempty" mapstructure:"prefix"`
}

type LogConfig struct {
	Level string `yaml:"log_level" mapstructure:"log_level"`
	Dir   string `yaml:"log_dir" mapstructure:"log_dir"`
	File  string `yaml:"log_file" mapstructure:"log_file"`
	Color bool   `yaml:"color" mapstructure:"color"`
}

type ObservabilityConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
}
