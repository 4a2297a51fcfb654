package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/fwojciec/yomu"
	"github.com/fwojciec/yomu/fetch"
)

// Run executes the history command.
func (c *HistoryCmd) Run(deps *Dependencies) error {
	filter := yomu.ArticleFilter{Limit: c.Limit}
	if c.Source != "" {
		source := yomu.FetchSource(c.Source)
		switch source {
		case yomu.FetchSourceHTTP, yomu.FetchSourceBrowser, yomu.FetchSourcePDF:
		default:
			fmt.Fprintf(deps.Stderr, "error: unknown source %q (want http, browser or pdf)\n", c.Source)
			return yomu.Errorf(yomu.EINVALID, "unknown source %q", c.Source)
		}
		filter.Source = &source
	}
	if c.Since > 0 {
		since := time.Now().Add(-c.Since)
		filter.Since = &since
	}

	records, err := deps.Articles.FindArticles(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", yomu.ErrorMessage(err))
		return err
	}

	if len(records) == 0 {
		fmt.Fprintln(deps.Stdout, "No articles found. Use 'yomu <url>' to summarize one.")
		return nil
	}

	w := tabwriter.NewWriter(deps.Stdout, 0, 0, 2, ' ', 0)
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.CreatedAt.Local().Format("2006-01-02 15:04"), r.Source, r.Title, r.Filename)
		fmt.Fprintf(w, "\t\t%s\t\n", r.URL)
	}
	return w.Flush()
}

// Run executes the forget command.
func (c *ForgetCmd) Run(deps *Dependencies) error {
	u, err := fetch.ParseURL(c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", yomu.ErrorMessage(err))
		return err
	}

	if err := deps.Articles.DeleteArticle(deps.Ctx, u.String()); err != nil {
		if yomu.ErrorCode(err) == yomu.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: %s is not in the history. Use 'yomu history' to list processed articles.\n", u)
			return err
		}
		fmt.Fprintf(deps.Stderr, "error: %s\n", yomu.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Forgot %s\n", u)
	return nil
}
