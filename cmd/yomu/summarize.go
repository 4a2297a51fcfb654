package main

import (
	"fmt"
	"sync"

	"github.com/fwojciec/yomu"
	"github.com/fwojciec/yomu/fetch"
	"github.com/fwojciec/yomu/yaml"
	"golang.org/x/sync/errgroup"
)

// Run executes the summarize command.
func (c *SummarizeCmd) Run(deps *Dependencies) error {
	urls, err := uniqueURLs(c.URLs)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", yomu.ErrorMessage(err))
		return err
	}

	concurrency := c.Concurrency
	if concurrency <= 0 || concurrency > MaxConcurrency {
		concurrency = MaxConcurrency
	}

	var (
		mu      sync.Mutex
		failed  int
		pdfHint bool
	)

	g, ctx := errgroup.WithContext(deps.Ctx)
	g.SetLimit(concurrency)
	for _, u := range urls {
		g.Go(func() error {
			outcome, err := deps.Pipeline.Process(ctx, u, c.Force)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				failed++
				fmt.Fprintf(deps.Stderr, "error: %s: %s\n", u, yomu.ErrorMessage(err))
				if yomu.ErrorCode(err) == yomu.EPDF && !deps.PDFTextEnabled && !pdfHint {
					pdfHint = true
					fmt.Fprintf(deps.Stderr, "Hint: PDF text extraction needs unipdf_license in config.yaml or %s\n", yaml.EnvUniPDFLicense)
				}
			case outcome.Skipped:
				fmt.Fprintf(deps.Stdout, "skipped %s (already summarized in %s, use --force to redo)\n", outcome.URL, outcome.Filename)
			default:
				fmt.Fprintf(deps.Stdout, "%s -> %s\n", outcome.URL, outcome.Filename)
			}
			// A failed article never stops the others.
			return nil
		})
	}
	_ = g.Wait()

	if failed > 0 {
		return fmt.Errorf("%d of %d articles failed", failed, len(urls))
	}
	return nil
}

// uniqueURLs validates every URL up front and drops repeats, keeping the
// first occurrence of each canonical URL.
func uniqueURLs(raw []string) ([]string, error) {
	seen := make(map[string]bool, len(raw))
	urls := make([]string, 0, len(raw))
	for _, r := range raw {
		u, err := fetch.ParseURL(r)
		if err != nil {
			return nil, err
		}
		s := u.String()
		if seen[s] {
			continue
		}
		seen[s] = true
		urls = append(urls, s)
	}
	if len(urls) == 0 {
		return nil, yomu.Errorf(yomu.EINVALID, "at least one URL is required")
	}
	return urls, nil
}
