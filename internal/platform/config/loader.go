package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	platformerrors "stellar-client-go/internal/platform/errors"
)

// DefaultSearchPaths are tried in order when no explicit path is configured.
var DefaultSearchPaths = []string{".config.yaml", "config.yaml"}

// Environment overrides applied after the file is read.
const (
	EnvAPIBaseURL       = "STELLAR_API_BASE_URL"
	EnvSpaceBaseURL     = "STELLAR_SPACE_BASE_URL"
	EnvSpaceAPIKey      = "NASA_API_KEY"
	EnvCredentialDriver = "STELLAR_CREDENTIAL_DRIVER"
	EnvRedisAddr        = "STELLAR_REDIS_ADDR"
	EnvLogLevel         = "STELLAR_LOG_LEVEL"
	EnvAPIRetries       = "STELLAR_API_RETRIES"
)

// Loader reads configuration from a YAML file, .env and the process environment.
type Loader struct {
	useDotEnv bool
	path      string
	lookupEnv func(string) (string, bool)
}

// NewLoader creates a loader that reads .env and searches DefaultSearchPaths.
func NewLoader() *Loader {
	return &Loader{
		useDotEnv: true,
		lookupEnv: os.LookupEnv,
	}
}

// WithDotEnv toggles loading variables from a .env file before reading config.
func (l *Loader) WithDotEnv(enabled bool) *Loader {
	l.useDotEnv = enabled
	return l
}

// WithPath pins the configuration file; a missing pinned file is an error.
func (l *Loader) WithPath(path string) *Loader {
	l.path = path
	return l
}

// WithLookupEnv overrides the environment lookup (useful for tests).
func (l *Loader) WithLookupEnv(fn func(string) (string, bool)) *Loader {
	if fn != nil {
		l.lookupEnv = fn
	}
	return l
}

// Result captures the loaded configuration and its origin path.
type Result struct {
	Config *Config
	Path   string
}

// Load builds the effective configuration: defaults, then file, then environment.
func (l *Loader) Load() (*Result, error) {
	if l.useDotEnv {
		// A missing .env is normal; the process environment is used as is.
		_ = godotenv.Load()
	}

	cfg := DefaultConfig()
	path := "defaults"

	candidates := DefaultSearchPaths
	if l.path != "" {
		candidates = []string{l.path}
	}
	for _, candidate := range candidates {
		data, err := os.ReadFile(candidate)
		if errors.Is(err, fs.ErrNotExist) && l.path == "" {
			continue
		}
		if err != nil {
			return nil, platformerrors.Wrap(platformerrors.KindConfig, "config.read", "failed to read config file", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, platformerrors.Wrap(platformerrors.KindConfig, "config.parse", "failed to parse "+candidate, err)
		}
		path = candidate
		break
	}

	if err := l.applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := l.validate(cfg); err != nil {
		return nil, err
	}

	return &Result{
		Config: cfg,
		Path:   path,
	}, nil
}

func (l *Loader) applyEnv(cfg *Config) error {
	if v, ok := l.lookupEnv(EnvAPIBaseURL); ok && v != "" {
		cfg.API.BaseURL = v
	}
	if v, ok := l.lookupEnv(EnvSpaceBaseURL); ok && v != "" {
		cfg.Space.BaseURL = v
	}
	if v, ok := l.lookupEnv(EnvSpaceAPIKey); ok && v != "" {
		cfg.Space.APIKey = v
	}
	if v, ok := l.lookupEnv(EnvCredentialDriver); ok && v != "" {
		cfg.Credential.Driver = v
	}
	if v, ok := l.lookupEnv(EnvRedisAddr); ok && v != "" {
		cfg.Credential.Redis.Addr = v
	}
	if v, ok := l.lookupEnv(EnvLogLevel); ok && v != "" {
		cfg.Log.Level = v
	}
	if v, ok := l.lookupEnv(EnvAPIRetries); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return platformerrors.Wrap(platformerrors.KindConfig, "config.env", EnvAPIRetries+" must be an integer", err)
		}
		cfg.API.Retries = n
	}
	return nil
}

func (l *Loader) validate(cfg *Config) error {
	if err := validateURL("api.base_url", cfg.API.BaseURL); err != nil {
		return err
	}
	if err := validateURL("space.base_url", cfg.Space.BaseURL); err != nil {
		return err
	}
	if cfg.API.Timeout < 0 || cfg.Space.Timeout < 0 {
		return platformerrors.New(platformerrors.KindConfig, "config.validate", "timeouts must not be negative")
	}
	if cfg.API.Retries < 0 {
		return platformerrors.New(platformerrors.KindConfig, "config.validate", "api.retries must not be negative")
	}
	switch cfg.Credential.Driver {
	case "memory", "sqlite", "redis":
	default:
		return platformerrors.New(platformerrors.KindConfig, "config.validate",
			fmt.Sprintf("unsupported credential driver %q", cfg.Credential.Driver))
	}
	if cfg.Credential.Key == "" {
		return platformerrors.New(platformerrors.KindConfig, "config.validate", "credential.key is required")
	}
	return nil
}

func validateURL(field, raw string) error {
	if raw == "" {
		return platformerrors.New(platformerrors.KindConfig, "config.validate", field+" is required")
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return platformerrors.New(platformerrors.KindConfig, "config.validate", field+" must be an absolute URL")
	}
	return nil
}
