package main

import (
	"context"
	"io"
	"time"

	"github.com/fwojciec/yomu"
	"github.com/fwojciec/yomu/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	DB       *sqlite.DB
	Articles yomu.ArticleService
	Pipeline *Pipeline

	// PDFTextEnabled is false when no unipdf license key is configured.
	PDFTextEnabled bool
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config string `short:"C" env:"YOMU_CONFIG" type:"path" help:"Path to config.yaml"`
	Debug  bool   `help:"Log every fetch, download and LLM call to stderr"`
	Quiet  bool   `short:"q" help:"Suppress progress messages"`

	Summarize SummarizeCmd `cmd:"" default:"withargs" help:"Fetch articles and write Japanese summaries (default)"`
	History   HistoryCmd   `cmd:"" help:"List processed articles"`
	Forget    ForgetCmd    `cmd:"" help:"Remove an article from the history so it can be processed again"`
}

// SummarizeCmd is the "summarize" subcommand.
type SummarizeCmd struct {
	URLs        []string      `arg:"" name:"url" help:"Article or PDF URLs"`
	OutputDir   string        `short:"o" type:"path" help:"Directory for Markdown files (overrides config)"`
	Provider    string        `short:"p" help:"LLM provider: gemini or openai (overrides config)"`
	Model       string        `short:"m" help:"LLM model (overrides config)"`
	Force       bool          `short:"f" help:"Process URLs already in the history"`
	Concurrency int           `short:"c" default:"5" help:"Articles processed at once (max 5)"`
	Rate        float64       `default:"1" help:"Requests per second per domain (0 disables)"`
	Timeout     time.Duration `default:"2m" help:"Time limit per article"`
}

// HistoryCmd is the "history" subcommand.
type HistoryCmd struct {
	Source string        `short:"s" help:"Only articles fetched by http, browser or pdf"`
	Since  time.Duration `help:"Only articles processed within this duration, e.g. 72h"`
	Limit  int           `short:"n" default:"20" help:"Maximum number of articles (0 for all)"`
}

// ForgetCmd is the "forget" subcommand.
type ForgetCmd struct {
	URL string `arg:"" help:"Article URL"`
}
