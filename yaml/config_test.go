package yaml_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/yomu"
	"github.com/fwojciec/yomu/fetch"
	"github.com/fwojciec/yomu/yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func mapLookup(env map[string]string) yaml.LookupFunc {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("missing file returns defaults", func(t *testing.T) {
		t.Parallel()

		cfg, err := yaml.Load(filepath.Join(t.TempDir(), "config.yaml"))

		require.NoError(t, err)
		assert.Equal(t, yaml.DefaultConfig(), cfg)
		assert.Equal(t, yaml.ProviderGemini, cfg.Provider)
	})

	t.Run("reads file over defaults", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, "config.yaml", `
provider: openai
model: gpt-4o
api_key: sk-file
base_url: http://localhost:11434/v1
output_dir: ~/notes
min_content_length: 200
cleaner:
  min_line_length: 15
pdf_hosts:
  - host: papers.example.org
    path_prefix: /download/
unipdf_license: metered-key
`)

		cfg, err := yaml.Load(path)

		require.NoError(t, err)
		assert.Equal(t, yaml.ProviderOpenAI, cfg.Provider)
		assert.Equal(t, "gpt-4o", cfg.Model)
		assert.Equal(t, "sk-file", cfg.APIKey)
		assert.Equal(t, "http://localhost:11434/v1", cfg.BaseURL)
		assert.Equal(t, "~/notes", cfg.OutputDir)
		assert.Equal(t, 200, cfg.MinContentLength)
		assert.Equal(t, yomu.DefaultMaxPromptRunes, cfg.MaxPromptRunes)
		assert.Equal(t, 15, cfg.Cleaner.MinLineLength)
		assert.Equal(t, yomu.DefaultCleanerConfig().MaxRepeatRun, cfg.Cleaner.MaxRepeatRun)
		assert.Equal(t, []fetch.PDFRule{{Host: "papers.example.org", PathPrefix: "/download/"}}, cfg.PDFHosts)
		assert.Equal(t, "metered-key", cfg.UniPDFLicense)
	})

	t.Run("malformed YAML is invalid", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, "config.yaml", "provider: [unclosed\n")

		_, err := yaml.Load(path)

		require.Error(t, err)
		assert.Equal(t, yomu.EINVALID, yomu.ErrorCode(err))
	})

	t.Run("unknown provider is invalid", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, "config.yaml", "provider: claude\n")

		_, err := yaml.Load(path)

		require.Error(t, err)
		assert.Equal(t, yomu.EINVALID, yomu.ErrorCode(err))
		assert.Contains(t, yomu.ErrorMessage(err), "claude")
	})
}

func TestConfig_ApplyEnv(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		file     yaml.Config
		env      map[string]string
		wantKey  string
		wantProv string
	}{
		{
			name:     "generic key wins",
			file:     yaml.Config{Provider: yaml.ProviderGemini, APIKey: "file"},
			env:      map[string]string{yaml.EnvAPIKey: "generic", yaml.EnvGeminiAPIKey: "gemini"},
			wantKey:  "generic",
			wantProv: yaml.ProviderGemini,
		},
		{
			name:     "provider key",
			file:     yaml.Config{Provider: yaml.ProviderGemini, APIKey: "file"},
			env:      map[string]string{yaml.EnvGeminiAPIKey: "gemini", yaml.EnvOpenAIAPIKey: "openai"},
			wantKey:  "gemini",
			wantProv: yaml.ProviderGemini,
		},
		{
			name:     "provider override selects its key",
			file:     yaml.Config{Provider: yaml.ProviderGemini},
			env:      map[string]string{yaml.EnvProvider: "OpenAI", yaml.EnvGeminiAPIKey: "gemini", yaml.EnvOpenAIAPIKey: "openai"},
			wantKey:  "openai",
			wantProv: yaml.ProviderOpenAI,
		},
		{
			name:     "file key when env is empty",
			file:     yaml.Config{Provider: yaml.ProviderOpenAI, APIKey: "file"},
			env:      map[string]string{yaml.EnvAPIKey: "  "},
			wantKey:  "file",
			wantProv: yaml.ProviderOpenAI,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := tt.file
			cfg.ApplyEnv(mapLookup(tt.env))

			assert.Equal(t, tt.wantKey, cfg.APIKey)
			assert.Equal(t, tt.wantProv, cfg.Provider)
		})
	}

	t.Run("unipdf license", func(t *testing.T) {
		t.Parallel()

		cfg := yaml.DefaultConfig()
		assert.False(t, cfg.PDFTextEnabled())

		cfg.ApplyEnv(mapLookup(map[string]string{yaml.EnvUniPDFLicense: "metered-key"}))

		assert.Equal(t, "metered-key", cfg.UniPDFLicense)
		assert.True(t, cfg.PDFTextEnabled())
	})

	t.Run("model and output dir", func(t *testing.T) {
		t.Parallel()

		cfg := yaml.DefaultConfig()
		cfg.ApplyEnv(mapLookup(map[string]string{yaml.EnvModel: "gemini-2.5-pro", yaml.EnvOutputDir: "/tmp/out"}))

		assert.Equal(t, "gemini-2.5-pro", cfg.Model)
		assert.Equal(t, "/tmp/out", cfg.OutputDir)
	})
}

func TestEnvLookup(t *testing.T) {
	t.Parallel()

	t.Run("reads dotenv files in order", func(t *testing.T) {
		t.Parallel()

		first := writeFile(t, ".env", "YOMU_DOTENV_TEST_A=first\n")
		second := writeFile(t, ".env", "YOMU_DOTENV_TEST_A=second\nYOMU_DOTENV_TEST_B=second\n")

		lookup, err := yaml.EnvLookup(first, second, filepath.Join(t.TempDir(), "missing.env"))
		require.NoError(t, err)

		a, ok := lookup("YOMU_DOTENV_TEST_A")
		assert.True(t, ok)
		assert.Equal(t, "first", a)

		b, ok := lookup("YOMU_DOTENV_TEST_B")
		assert.True(t, ok)
		assert.Equal(t, "second", b)

		_, ok = lookup("YOMU_DOTENV_TEST_MISSING")
		assert.False(t, ok)
	})
}

func TestConfig_Credential(t *testing.T) {
	t.Parallel()

	t.Run("returns key", func(t *testing.T) {
		t.Parallel()

		cfg := &yaml.Config{Provider: yaml.ProviderGemini, APIKey: " secret "}

		assert.True(t, cfg.HasCredential())
		key, err := cfg.Credential()
		require.NoError(t, err)
		assert.Equal(t, "secret", key)
	})

	t.Run("missing key is not found", func(t *testing.T) {
		t.Parallel()

		cfg := yaml.DefaultConfig()

		assert.False(t, cfg.HasCredential())
		_, err := cfg.Credential()
		require.Error(t, err)
		assert.Equal(t, yomu.ENOTFOUND, yomu.ErrorCode(err))
	})
}

func TestConfig_PDFRules(t *testing.T) {
	t.Parallel()

	cfg := yaml.DefaultConfig()
	cfg.PDFHosts = []fetch.PDFRule{{Host: "papers.example.org", PathPrefix: "/download/"}}

	rules := cfg.PDFRules()

	assert.Len(t, rules, len(fetch.DefaultPDFRules())+1)
	assert.Equal(t, cfg.PDFHosts[0], rules[len(rules)-1])
}
