package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"reelcheck/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Provider.APIKey = "test"
	cfgVal.Provider.IndexID = "test-index"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithProvider points the config at a fake provider endpoint.
func WithProvider(baseURL, apiKey string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Provider.BaseURL = baseURL
		b.cfg.Provider.APIKey = apiKey
	}
}

// WithPolicyFile writes body to a policy file named name and selects it.
func WithPolicyFile(name, body string) ConfigOption {
	return func(b *configBuilder) {
		path := filepath.Join(b.baseDir, name)
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			b.t.Fatalf("write policy file %s: %v", name, err)
		}
		b.cfg.Policies.Path = path
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
