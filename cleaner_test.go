package yomu_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/yomu"
	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	t.Parallel()

	t.Run("joins surviving lines with blank lines", func(t *testing.T) {
		t.Parallel()

		input := "  The first paragraph of the article body.  \n\n\nThe second paragraph follows here."

		got := yomu.CleanText(input)

		assert.Equal(t, "The first paragraph of the article body.\n\nThe second paragraph follows here.", got)
	})

	t.Run("drops lines shorter than ten characters", func(t *testing.T) {
		t.Parallel()

		got := yomu.CleanText("Short\nThis line is long enough to keep.")

		assert.Equal(t, "This line is long enough to keep.", got)
	})

	t.Run("counts characters not bytes", func(t *testing.T) {
		t.Parallel()

		// 9 characters, 27 bytes.
		got := yomu.CleanText("今日は晴れでした。\n今日は一日中とても良い天気でした。")

		assert.Equal(t, "今日は一日中とても良い天気でした。", got)
	})

	t.Run("drops decorative separators", func(t *testing.T) {
		t.Parallel()

		got := yomu.CleanText("Section -------- continues\nA real sentence about the topic at hand.")

		assert.Equal(t, "A real sentence about the topic at hand.", got)
	})

	t.Run("keeps long lines with repeated punctuation", func(t *testing.T) {
		t.Parallel()

		line := "He waited and waited...... " + strings.Repeat("and the story goes on for a while ", 3)
		line = strings.TrimSpace(line)
		assert.GreaterOrEqual(t, yomu.TextLength(line), 100)

		got := yomu.CleanText(line)

		assert.Equal(t, line, got)
	})

	t.Run("drops boilerplate and UI lines", func(t *testing.T) {
		t.Parallel()

		body := "The council approved the new budget on Tuesday evening."
		noise := []string{
			"Advertisement: buy now",
			"Share this article with friends",
			"We use cookies to improve your experience.",
			"Privacy Policy and terms",
			"Subscribe to our newsletter today",
			"Read more about this story",
			"Continue reading below",
			"Tags: politics, budget",
			"Home > News > Politics",
			"Posted by: editorial team",
			"By Jane Smith",
			"2024-01-15 10:30",
			"2024年1月15日",
			"January 15, 2024",
			"[edit this section]",
			"123 456 789 000",
			"→→ next page here",
			"Click here to download the report",
			"このエントリーをはてなブックマークに追加",
			"続きを読むにはログインが必要です",
			"関連記事 | 人気の記事一覧",
			"公開日：2024年1月15日",
			"スポンサーリンクの下に本文があります",
		}

		got := yomu.CleanText(strings.Join(append(noise, body), "\n"))

		assert.Equal(t, body, got)
	})

	t.Run("keeps prose starting with navigation words", func(t *testing.T) {
		t.Parallel()

		line := "Next year the company plans to open three new offices."

		assert.Equal(t, line, yomu.CleanText(line))
	})

	t.Run("returns empty string when everything is noise", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, yomu.CleanText("Menu\nHome\n==========\n"))
	})
}

func TestCleanText_Idempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"",
		"one line that is long enough",
		"Menu\nHome\nActual content line number one.\n\n\nActual content line number two.\n*****",
		"  leading and trailing spaces around this line  \r\nwindows line endings are fine too\r\n",
		"本文の一行目はここにあります。\n広告\n本文の二行目もここにあります。",
	}

	for _, input := range inputs {
		once := yomu.CleanText(input)
		twice := yomu.CleanText(once)
		assert.Equal(t, once, twice, "input %q", input)
	}
}

func TestCleanText_NoShortLines(t *testing.T) {
	t.Parallel()

	input := "a\nbb\nccc\nThis is long enough to stay.\n短い\n日本語の文章はここで十分な長さです。\n123456789"

	for _, line := range strings.Split(yomu.CleanText(input), "\n") {
		if line == "" {
			continue
		}
		assert.GreaterOrEqual(t, yomu.TextLength(strings.TrimSpace(line)), 10, "line %q", line)
	}
}

func TestCleaner_Reject(t *testing.T) {
	t.Parallel()

	c := yomu.NewCleaner(yomu.DefaultCleanerConfig(), nil)

	tests := []struct {
		line   string
		reason string
	}{
		{line: "tiny", reason: "too-short"},
		{line: "wow!!!!!!! amazing", reason: "repeated-run"},
		{line: "Sponsored content", reason: "advertisement"},
		{line: "(c) 2024 Example Corp", reason: "privacy-notice"},
		{line: "【この記事の目次を表示する】", reason: "bracket-only"},
		{line: "Tap here to open in the app", reason: "click-here"},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			t.Parallel()

			reason, rejected := c.Reject(tt.line)

			assert.True(t, rejected)
			assert.Equal(t, tt.reason, reason)
		})
	}
}

func TestNewCleaner_CustomThresholds(t *testing.T) {
	t.Parallel()

	t.Run("minimum line length", func(t *testing.T) {
		t.Parallel()

		c := yomu.NewCleaner(yomu.CleanerConfig{MinLineLength: 3}, nil)

		assert.Equal(t, "Hello world", c.Clean("ab\nHello world"))
	})

	t.Run("custom pattern list replaces defaults", func(t *testing.T) {
		t.Parallel()

		c := yomu.NewCleaner(yomu.DefaultCleanerConfig(), []yomu.LineRule{
			yomu.PatternRule("internal", `^INTERNAL`),
		})

		got := c.Clean("INTERNAL memo text here\nRead more about this story")

		assert.Equal(t, "Read more about this story", got)
	})
}
