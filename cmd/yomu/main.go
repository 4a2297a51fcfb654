package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/yomu"
	"github.com/fwojciec/yomu/fetch"
	"github.com/fwojciec/yomu/fs"
	"github.com/fwojciec/yomu/gemini"
	"github.com/fwojciec/yomu/goquery"
	"github.com/fwojciec/yomu/htmltomarkdown"
	yomuhttp "github.com/fwojciec/yomu/http"
	"github.com/fwojciec/yomu/openai"
	"github.com/fwojciec/yomu/readability"
	"github.com/fwojciec/yomu/rod"
	yomuslog "github.com/fwojciec/yomu/slog"
	"github.com/fwojciec/yomu/sqlite"
	"github.com/fwojciec/yomu/trafilatura"
	"github.com/fwojciec/yomu/unipdf"
	"github.com/fwojciec/yomu/yaml"
	"google.golang.org/genai"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Overrides history_db from the config when set.
	DBPath string

	// SQLite database used by the history service.
	DB *sqlite.DB

	// Config is the loaded configuration, available after Run.
	Config *yaml.Config

	closers []io.Closer
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	var firstErr error
	for i := len(m.closers) - 1; i >= 0; i-- {
		if err := m.closers[i].Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	m.closers = nil
	if m.DB != nil {
		if err := m.DB.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Initialize dependencies struct for Kong binding
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("yomu"),
		kong.Description("Summarize web articles and PDFs in Japanese as Markdown files"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no URL specified. Run 'yomu --help' for usage")
	}

	if cmd := args[0]; cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cli.Config, flagOverrides(cli))
	if err != nil {
		return err
	}
	m.Config = cfg

	dbPath, err := m.dbPath(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}
	m.DB = sqlite.NewDB(dbPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintln(stderr, "Hint: set history_db in config.yaml to use a different database path")
		return fmt.Errorf("failed to open history at %q: %w", dbPath, err)
	}
	defer m.Close()

	deps.DB = m.DB
	deps.Articles = sqlite.NewArticleService(m.DB)

	if strings.HasPrefix(kongCtx.Command(), "summarize") {
		pipeline, err := m.wirePipeline(ctx, cli, cfg, deps.Articles, stderr)
		if err != nil {
			return err
		}
		deps.Pipeline = pipeline
		deps.PDFTextEnabled = cfg.PDFTextEnabled()
	}

	return kongCtx.Run(deps)
}

func (m *Main) dbPath(cfg *yaml.Config) (string, error) {
	if m.DBPath != "" {
		return m.DBPath, nil
	}
	if cfg.HistoryPath != "" {
		return cfg.HistoryPath, nil
	}
	dir, err := yaml.DefaultDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history.db"), nil
}

// flagOverrides maps command-line flags onto the environment variables
// they take precedence over.
func flagOverrides(cli *CLI) map[string]string {
	overrides := make(map[string]string)
	if v := cli.Summarize.Provider; v != "" {
		overrides[yaml.EnvProvider] = v
	}
	if v := cli.Summarize.Model; v != "" {
		overrides[yaml.EnvModel] = v
	}
	if v := cli.Summarize.OutputDir; v != "" {
		overrides[yaml.EnvOutputDir] = v
	}
	return overrides
}

// loadConfig reads config.yaml and applies overrides, the environment and
// .env files, in that order of precedence. A .env in the working directory
// wins over one next to config.yaml.
func loadConfig(path string, overrides map[string]string) (*yaml.Config, error) {
	if path == "" {
		p, err := yaml.DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	cfg, err := yaml.Load(path)
	if err != nil {
		return nil, err
	}

	lookup, err := yaml.EnvLookup(".env", filepath.Join(filepath.Dir(path), ".env"))
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv(func(key string) (string, bool) {
		if v, ok := overrides[key]; ok {
			return v, true
		}
		return lookup(key)
	})
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// wirePipeline builds the fetch, summarize and write services for the
// summarize command.
func (m *Main) wirePipeline(ctx context.Context, cli *CLI, cfg *yaml.Config, history yomu.ArticleService, stderr io.Writer) (*Pipeline, error) {
	cmd := cli.Summarize

	apiKey, err := cfg.Credential()
	if err != nil {
		fmt.Fprintf(stderr, "Hint: set %s or add api_key to config.yaml\n", yaml.EnvAPIKey)
		return nil, err
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))

	if cfg.UniPDFLicense != "" {
		if err := unipdf.SetLicense(cfg.UniPDFLicense); err != nil {
			return nil, err
		}
	}

	cleaner := yomu.NewCleaner(cfg.Cleaner, nil)
	extractor := goquery.NewHTMLExtractor(
		[]yomu.Extractor{readability.NewExtractor(), trafilatura.NewExtractor()},
		goquery.WithCleaner(cleaner),
		goquery.WithMinContentLength(cfg.MinContentLength),
	)

	var (
		light      yomu.Fetcher
		browser    yomu.Fetcher
		downloader yomu.Downloader
	)
	httpFetcher := yomuhttp.NewFetcher()
	light, downloader = httpFetcher, httpFetcher
	m.closers = append(m.closers, httpFetcher)

	manager := rod.NewBrowserManager(
		rod.WithBrowserBin(cfg.BrowserBin),
		rod.WithDebug(cli.Debug),
	)
	browser = rod.NewFetcher(manager)
	m.closers = append(m.closers, browser)

	if cli.Debug {
		light = yomuslog.NewLoggingFetcher(light, logger, "http")
		browser = yomuslog.NewLoggingFetcher(browser, logger, "browser")
		downloader = yomuslog.NewLoggingDownloader(downloader, logger)
	}

	opts := []fetch.Option{
		fetch.WithCleaner(cleaner),
		fetch.WithMinContentLength(cfg.MinContentLength),
		fetch.WithPDFRules(cfg.PDFRules()),
		fetch.WithLimiter(fetch.NewDomainLimiter(cmd.Rate)),
	}
	if !cli.Quiet {
		opts = append(opts, fetch.WithProgress(progressTo(stderr)))
	}

	var articles yomu.ArticleFetcher = fetch.NewContentFetcher(
		light, browser, downloader, extractor,
		unipdf.NewExtractor(unipdf.WithDebug(cli.Debug)),
		opts...,
	)

	summarizer, err := newSummarizer(ctx, cfg, apiKey)
	if err != nil {
		fmt.Fprintf(stderr, "Hint: check the API key for %s\n", cfg.Provider)
		return nil, err
	}

	if cli.Debug {
		articles = yomuslog.NewLoggingArticleFetcher(articles, logger)
		summarizer = yomuslog.NewLoggingSummarizer(summarizer, logger)
	}

	return &Pipeline{
		Fetcher:    articles,
		Summarizer: summarizer,
		Writer:     fs.NewWriter(cfg.OutputDir),
		History:    history,
		Timeout:    cmd.Timeout,
	}, nil
}

func newSummarizer(ctx context.Context, cfg *yaml.Config, apiKey string) (yomu.Summarizer, error) {
	conv := htmltomarkdown.NewConverter()

	switch cfg.Provider {
	case yaml.ProviderOpenAI:
		client := openai.NewClient(apiKey, cfg.BaseURL)
		return openai.NewSummarizer(client, conv,
			openai.WithModel(cfg.Model),
			openai.WithMaxPromptRunes(cfg.MaxPromptRunes),
		), nil
	default:
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  apiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
		}
		return gemini.NewSummarizer(client, conv,
			gemini.WithModel(cfg.Model),
			gemini.WithMaxPromptRunes(cfg.MaxPromptRunes),
		), nil
	}
}

// progressTo returns a ProgressFunc writing one line per message to w.
// Concurrent articles report through the same writer.
func progressTo(w io.Writer) yomu.ProgressFunc {
	var mu sync.Mutex
	return func(msg string) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintln(w, msg)
	}
}
