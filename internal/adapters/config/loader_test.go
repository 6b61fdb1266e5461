package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mutuals/internal/adapters/config"
	"go.trai.ch/mutuals/internal/core/domain"
	"go.trai.ch/mutuals/internal/core/ports/mocks"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

// clearEnv unsets the override variables for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{config.EnvIdentifier, config.EnvPassword, config.EnvService} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func newLoader(t *testing.T) (*config.Loader, *mocks.MockLogger) {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	return config.NewLoader(log), log
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoader_Defaults(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())
	loader, _ := newLoader(t)

	cfg, err := loader.Load("")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultConfig(), cfg)
}

func TestLoader_FullFile(t *testing.T) {
	clearEnv(t)
	loader, _ := newLoader(t)

	path := writeFile(t, t.TempDir(), "custom.yaml", `
version: "1"
service:
  host: https://pds.example.com
  timeout: 5s
  page_size: 50
  requests_per_second: 2.5
  burst: 3
  breaker:
    max_failures: 2
    cooldown: 1m
auth:
  identifier: alice.test
crawl:
  workers: 16
  prefetch: false
  detect_workers: 4
render:
  format: dot
  min_intensity: 0.5
`)

	cfg, err := loader.Load(path)
	require.NoError(t, err)

	assert.Equal(t, domain.Config{
		Service: domain.ServiceConfig{
			Host:              "https://pds.example.com",
			Timeout:           5 * time.Second,
			PageSize:          50,
			RequestsPerSecond: 2.5,
			Burst:             3,
			Breaker:           domain.BreakerConfig{MaxFailures: 2, Cooldown: time.Minute},
		},
		Auth:   domain.AuthConfig{Identifier: "alice.test"},
		Crawl:  domain.CrawlConfig{Workers: 16, Prefetch: false, DetectWorkers: 4},
		Render: domain.RenderConfig{Format: domain.FormatDOT, MinIntensity: 0.5},
	}, *cfg)
}

func TestLoader_PartialFileKeepsDefaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeFile(t, dir, domain.ConfigFileName, "crawl:\n  workers: 2\n")
	t.Chdir(dir)
	loader, _ := newLoader(t)

	cfg, err := loader.Load("")
	require.NoError(t, err)

	want := domain.DefaultConfig()
	want.Crawl.Workers = 2
	assert.Equal(t, want, cfg)
}

func TestLoader_EnvironmentOverridesFile(t *testing.T) {
	clearEnv(t)
	t.Setenv(config.EnvIdentifier, "bob.test")
	t.Setenv(config.EnvPassword, "app-password")
	t.Setenv(config.EnvService, "https://other.example")
	loader, _ := newLoader(t)

	path := writeFile(t, t.TempDir(), "c.yaml", "auth:\n  identifier: alice.test\n")

	cfg, err := loader.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "bob.test", cfg.Auth.Identifier)
	assert.Equal(t, "app-password", cfg.Auth.Password)
	assert.Equal(t, "https://other.example", cfg.Service.Host)
}

func TestLoader_WarnsOnPasswordInFile(t *testing.T) {
	clearEnv(t)
	loader, log := newLoader(t)
	log.EXPECT().Warn(gomock.Any()).Times(1)

	path := writeFile(t, t.TempDir(), "c.yaml", "auth:\n  password: hunter2\n")

	cfg, err := loader.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "hunter2", cfg.Auth.Password)
}

func TestLoader_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
		wantKey string
	}{
		{
			name:    "malformed yaml",
			content: "crawl: [unterminated",
			wantErr: "failed to parse config file",
		},
		{
			name:    "bad duration",
			content: "service:\n  timeout: soon\n",
			wantErr: "invalid configuration",
			wantKey: "service.timeout",
		},
		{
			name:    "bad cooldown",
			content: "service:\n  breaker:\n    cooldown: 5 parsecs\n",
			wantErr: "invalid configuration",
			wantKey: "service.breaker.cooldown",
		},
		{
			name:    "unknown version",
			content: "version: \"2\"\n",
			wantErr: "invalid configuration",
			wantKey: "version",
		},
		{
			name:    "out of range value",
			content: "crawl:\n  workers: 0\n",
			wantErr: "invalid configuration",
			wantKey: "crawl.workers",
		},
		{
			name:    "unknown format",
			content: "render:\n  format: svg\n",
			wantErr: "unsupported render format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			loader, _ := newLoader(t)
			path := writeFile(t, t.TempDir(), "c.yaml", tt.content)

			_, err := loader.Load(path)
			require.Error(t, err)
			assert.ErrorContains(t, err, tt.wantErr)

			if tt.wantKey != "" {
				var zErr *zerr.Error
				require.ErrorAs(t, err, &zErr)
				assert.Equal(t, tt.wantKey, zErr.Metadata()["key"])
			}
		})
	}
}

func TestLoader_MissingExplicitFile(t *testing.T) {
	clearEnv(t)
	loader, _ := newLoader(t)

	_, err := loader.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	require.ErrorIs(t, err, os.ErrNotExist)
	assert.ErrorContains(t, err, "failed to read config file")
}
