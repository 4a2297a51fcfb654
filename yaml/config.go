// Package yaml loads yomu's configuration file and implements
// yomu.CredentialStore on top of it.
package yaml

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/yomu"
	"github.com/fwojciec/yomu/fetch"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Supported summarization providers.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Environment variables that override the file.
const (
	EnvAPIKey       = "YOMU_API_KEY"
	EnvGeminiAPIKey = "GEMINI_API_KEY"
	EnvOpenAIAPIKey = "OPENAI_API_KEY"
	EnvProvider     = "YOMU_PROVIDER"
	EnvModel        = "YOMU_MODEL"
	EnvOutputDir    = "YOMU_OUTPUT_DIR"

	// EnvUniPDFLicense is the variable unipdf's own examples read the
	// metered key from.
	EnvUniPDFLicense = "UNIPDF_LICENSE_KEY"
)

// Ensure Config implements yomu.CredentialStore at compile time.
var _ yomu.CredentialStore = (*Config)(nil)

// Config is the contents of config.yaml after environment overrides.
type Config struct {
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"api_key"`

	// BaseURL points the openai provider at a compatible endpoint.
	BaseURL string `yaml:"base_url"`

	OutputDir   string `yaml:"output_dir"`
	HistoryPath string `yaml:"history_db"`

	MinContentLength int                `yaml:"min_content_length"`
	MaxPromptRunes   int                `yaml:"max_prompt_runes"`
	Cleaner          yomu.CleanerConfig `yaml:"cleaner"`

	// PDFHosts are classification rules added to the defaults.
	PDFHosts []fetch.PDFRule `yaml:"pdf_hosts"`

	UniPDFLicense string `yaml:"unipdf_license"`
	BrowserBin    string `yaml:"browser_bin"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Provider:         ProviderGemini,
		OutputDir:        ".",
		MinContentLength: yomu.DefaultMinContentLength,
		MaxPromptRunes:   yomu.DefaultMaxPromptRunes,
		Cleaner:          yomu.DefaultCleanerConfig(),
	}
}

// DefaultDir returns $XDG_CONFIG_HOME/yomu, or ~/.config/yomu.
func DefaultDir() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "yomu"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "yomu"), nil
}

// DefaultPath returns the default config.yaml location.
func DefaultPath() (string, error) {
	dir, err := DefaultDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the config file at path over the defaults. A missing file is
// not an error. Malformed YAML or unknown providers return EINVALID.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, yomu.WrapError(yomu.EINVALID, err, "parse %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the provider and numeric settings.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderGemini, ProviderOpenAI:
	default:
		return yomu.Errorf(yomu.EINVALID, "unknown provider %q (want %s or %s)", c.Provider, ProviderGemini, ProviderOpenAI)
	}
	if c.MinContentLength < 0 || c.MaxPromptRunes < 0 {
		return yomu.Errorf(yomu.EINVALID, "negative limits are not allowed")
	}
	return nil
}

// LookupFunc reports the value of an environment variable.
type LookupFunc func(key string) (string, bool)

// EnvLookup returns a LookupFunc reading the process environment first and
// the given .env files second. Missing .env files are skipped.
func EnvLookup(dotenvPaths ...string) (LookupFunc, error) {
	dotenv := make(map[string]string)
	for _, p := range dotenvPaths {
		vars, err := godotenv.Read(p)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, yomu.WrapError(yomu.EINVALID, err, "parse %s", p)
		}
		for k, v := range vars {
			if _, ok := dotenv[k]; !ok {
				dotenv[k] = v
			}
		}
	}

	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}, nil
}

// ApplyEnv overrides file values with environment variables. The API key
// comes from YOMU_API_KEY, then the provider's own variable, then the file.
func (c *Config) ApplyEnv(lookup LookupFunc) {
	get := func(key string) string {
		v, _ := lookup(key)
		return strings.TrimSpace(v)
	}

	if v := get(EnvProvider); v != "" {
		c.Provider = strings.ToLower(v)
	}
	if v := get(EnvModel); v != "" {
		c.Model = v
	}
	if v := get(EnvOutputDir); v != "" {
		c.OutputDir = v
	}
	if v := get(EnvUniPDFLicense); v != "" {
		c.UniPDFLicense = v
	}

	providerKey := EnvGeminiAPIKey
	if c.Provider == ProviderOpenAI {
		providerKey = EnvOpenAIAPIKey
	}
	for _, key := range []string{EnvAPIKey, providerKey} {
		if v := get(key); v != "" {
			c.APIKey = v
			return
		}
	}
}

// PDFTextEnabled reports whether a unipdf license key is configured.
// Without one, unipdf refuses to extract text and every PDF fails with EPDF.
func (c *Config) PDFTextEnabled() bool {
	return strings.TrimSpace(c.UniPDFLicense) != ""
}

// PDFRules returns the default classification rules followed by PDFHosts.
func (c *Config) PDFRules() []fetch.PDFRule {
	return append(fetch.DefaultPDFRules(), c.PDFHosts...)
}

// HasCredential reports whether an API key is configured.
func (c *Config) HasCredential() bool {
	return strings.TrimSpace(c.APIKey) != ""
}

// Credential returns the API key, or ENOTFOUND when none is configured.
func (c *Config) Credential() (string, error) {
	if !c.HasCredential() {
		return "", yomu.Errorf(yomu.ENOTFOUND, "no API key configured for %s: set %s or api_key in config.yaml", c.Provider, EnvAPIKey)
	}
	return strings.TrimSpace(c.APIKey), nil
}
