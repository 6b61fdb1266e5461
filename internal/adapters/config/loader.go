// Package config loads the crawler configuration from mutuals.yaml and the environment.
package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"go.trai.ch/mutuals/internal/core/domain"
	"go.trai.ch/mutuals/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Environment variables that override the file.
const (
	EnvIdentifier = "MUTUALS_IDENTIFIER"
	EnvPassword   = "MUTUALS_PASSWORD"
	EnvService    = "MUTUALS_SERVICE"
)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load resolves the configuration: defaults, then the file, then the environment.
// An empty path reads mutuals.yaml from the working directory when present.
// An explicit path must exist.
func (l *Loader) Load(path string) (*domain.Config, error) {
	cfg := domain.DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = domain.ConfigFileName
	}

	file, err := readFile(path)
	switch {
	case err == nil:
		if err := l.apply(cfg, file); err != nil {
			return nil, zerr.With(err, "path", path)
		}
	case !explicit && errors.Is(err, fs.ErrNotExist):
		// No config file; defaults and environment only.
	default:
		return nil, zerr.With(err, "path", path)
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func readFile(path string) (*File, error) {
	// #nosec G304 -- path is chosen by the operator
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, zerr.Wrap(err, domain.ErrConfigParseFailed.Error())
	}
	return &file, nil
}

func (l *Loader) apply(cfg *domain.Config, file *File) error {
	if file.Version != "" && file.Version != "1" {
		return zerr.With(zerr.With(domain.ErrInvalidConfig, "key", "version"), "version", file.Version)
	}

	if s := file.Service; s != nil {
		set(&cfg.Service.Host, s.Host)
		set(&cfg.Service.PageSize, s.PageSize)
		set(&cfg.Service.RequestsPerSecond, s.RequestsPerSecond)
		set(&cfg.Service.Burst, s.Burst)
		if err := setDuration(&cfg.Service.Timeout, s.Timeout, "service.timeout"); err != nil {
			return err
		}
		if b := s.Breaker; b != nil {
			set(&cfg.Service.Breaker.MaxFailures, b.MaxFailures)
			if err := setDuration(&cfg.Service.Breaker.Cooldown, b.Cooldown, "service.breaker.cooldown"); err != nil {
				return err
			}
		}
	}

	if a := file.Auth; a != nil {
		set(&cfg.Auth.Identifier, a.Identifier)
		set(&cfg.Auth.Password, a.Password)
		if a.Password != nil && *a.Password != "" {
			l.Logger.Warn("auth.password is set in the config file; prefer " + EnvPassword)
		}
	}

	if c := file.Crawl; c != nil {
		set(&cfg.Crawl.Workers, c.Workers)
		set(&cfg.Crawl.Prefetch, c.Prefetch)
		set(&cfg.Crawl.DetectWorkers, c.DetectWorkers)
	}

	if r := file.Render; r != nil {
		set(&cfg.Render.Format, r.Format)
		set(&cfg.Render.MinIntensity, r.MinIntensity)
	}
	return nil
}

func applyEnv(cfg *domain.Config) {
	if v, ok := os.LookupEnv(EnvIdentifier); ok {
		cfg.Auth.Identifier = v
	}
	if v, ok := os.LookupEnv(EnvPassword); ok {
		cfg.Auth.Password = v
	}
	if v, ok := os.LookupEnv(EnvService); ok && v != "" {
		cfg.Service.Host = v
	}
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func setDuration(dst *time.Duration, src *string, key string) error {
	if src == nil {
		return nil
	}
	d, err := time.ParseDuration(*src)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrInvalidConfig.Error()), "key", key)
	}
	*dst = d
	return nil
}
