package yomu

import (
	"regexp"
	"strings"
)

// LineRule rejects a single line of extracted text.
type LineRule struct {
	// Reason names the rule in logs and tests.
	Reason string

	// Match reports whether the trimmed, non-empty line should be dropped.
	Match func(line string) bool
}

// PatternRule returns a LineRule that rejects lines matching expr.
// It panics if expr does not compile.
func PatternRule(reason, expr string) LineRule {
	re := regexp.MustCompile(expr)
	return LineRule{Reason: reason, Match: re.MatchString}
}

// DefaultPatternRules are the boilerplate and UI-element patterns applied
// after the length checks. Order matters only for the reported reason.
var DefaultPatternRules = []LineRule{
	// Boilerplate phrases.
	PatternRule("advertisement", `(?i)^(advertisements?|sponsored( content| links?| posts?)?|promoted( content)?)(\s*[:：|].*)?$`),
	PatternRule("advertisement", `^(広告|スポンサーリンク|【PR】|\[PR\]|PR[:：])`),
	PatternRule("social-share", `(?i)^(share (this|on)|tweet this|follow us on|シェアする|ツイートする|このエントリーをはてなブックマークに追加|LINEで送る|Facebookでシェア|Xでシェア|Xでポスト)`),
	PatternRule("cookie-notice", `(?i)(we use cookies|this (site|website) uses cookies|cookie (policy|settings|preferences)|accept (all )?cookies|cookieを使用|クッキー(ポリシー|を使用))`),
	PatternRule("privacy-notice", `(?i)(^(privacy policy|terms of (use|service)|プライバシーポリシー|利用規約|個人情報保護方針)|all rights reserved|^(©|copyright\s|\(c\)\s))`),
	PatternRule("subscribe", `(?i)^(subscribe|sign up|newsletter|get (our|the) newsletter|メルマガ|ニュースレター|購読|会員登録|無料登録|ログインして)`),
	PatternRule("read-more", `(?i)^(read more|continue reading|see more|show more|load more|続きを読む|もっと見る|さらに表示|全文を読む|記事を読む)`),
	PatternRule("navigation", `(?i)^(home|menu|navigation|skip to (main )?content|back to top|previous( post| article)?|next( post| article)?|related (posts|articles)|popular (posts|articles)|categories|category|tags?|ホーム|メニュー|トップへ戻る|ページトップへ|前の記事|次の記事|関連記事|人気記事|カテゴリー?|タグ)\s*([:：|>»/›].*)?$`),
	PatternRule("byline", `(?i)^(by|written by|author|posted by|posted on|published( on)?|updated( on)?|source|photo( by)?|image( by| credit)?)\s*[:：]`),
	PatternRule("byline", `^By [A-Z][\w.'-]*( [A-Z][\w.'-]*){0,3}$`),
	PatternRule("byline", `^(著者|筆者|執筆者|投稿者|文|写真|出典|出所|ソース|投稿日|公開日|更新日|最終更新日)\s*[:：／/=]`),
	PatternRule("date", `^\d{4}\s*[-/.年]\s*\d{1,2}\s*[-/.月]\s*\d{1,2}日?(\s*[(（].[)）])?(\s+\d{1,2}:\d{2}(:\d{2})?)?$`),
	PatternRule("date", `(?i)^(jan|feb|mar|apr|may|jun|jul|aug|sep|sept|oct|nov|dec)[a-z]*\.?\s+\d{1,2}(st|nd|rd|th)?,?\s+\d{4}$`),
	PatternRule("date", `(?i)^\d{1,2}\s+(jan|feb|mar|apr|may|jun|jul|aug|sep|sept|oct|nov|dec)[a-z]*\.?,?\s+\d{4}$`),

	// UI elements.
	PatternRule("bracket-only", `^[\[【「(（<〈《][^\]】」)）>〉》]*[\]】」)）>〉》]$`),
	PatternRule("symbol-only", `^[\p{N}\p{P}\p{S}\s]+$`),
	PatternRule("arrow-run", `[←→↑↓⇒⇐»«›‹•▶►▸▹◀◁◆◇■□●○★☆▼▲▽△]{2,}`),
	PatternRule("click-here", `(?i)((click|tap|press) here|こちらをクリック|ここをクリック|こちらをタップ|タップして|クリックして)`),
}

// CleanerConfig holds the tunable thresholds of a Cleaner.
type CleanerConfig struct {
	// MinLineLength drops lines with fewer characters.
	MinLineLength int `yaml:"min_line_length"`

	// MaxRepeatRun drops lines containing a run of one character longer than this.
	MaxRepeatRun int `yaml:"max_repeat_run"`

	// RepeatCheckMaxLength exempts lines at least this long from the repeat check.
	RepeatCheckMaxLength int `yaml:"repeat_check_max_length"`
}

// DefaultCleanerConfig returns the thresholds tuned for news and blog articles.
func DefaultCleanerConfig() CleanerConfig {
	return CleanerConfig{
		MinLineLength:        10,
		MaxRepeatRun:         5,
		RepeatCheckMaxLength: 100,
	}
}

// Cleaner removes boilerplate lines from extracted text.
// Cleaner is stateless and safe for concurrent use.
type Cleaner struct {
	rules []LineRule
}

// NewCleaner returns a Cleaner applying the threshold rules from cfg followed
// by patterns. A nil patterns slice uses DefaultPatternRules.
func NewCleaner(cfg CleanerConfig, patterns []LineRule) *Cleaner {
	def := DefaultCleanerConfig()
	if cfg.MinLineLength <= 0 {
		cfg.MinLineLength = def.MinLineLength
	}
	if cfg.MaxRepeatRun <= 0 {
		cfg.MaxRepeatRun = def.MaxRepeatRun
	}
	if cfg.RepeatCheckMaxLength <= 0 {
		cfg.RepeatCheckMaxLength = def.RepeatCheckMaxLength
	}
	if patterns == nil {
		patterns = DefaultPatternRules
	}

	rules := make([]LineRule, 0, len(patterns)+2)
	rules = append(rules,
		LineRule{
			Reason: "too-short",
			Match: func(line string) bool {
				return TextLength(line) < cfg.MinLineLength
			},
		},
		LineRule{
			Reason: "repeated-run",
			Match: func(line string) bool {
				return TextLength(line) < cfg.RepeatCheckMaxLength &&
					longestRun(line) > cfg.MaxRepeatRun
			},
		},
	)
	rules = append(rules, patterns...)
	return &Cleaner{rules: rules}
}

var defaultCleaner = NewCleaner(DefaultCleanerConfig(), nil)

// CleanText cleans text with the default thresholds and patterns.
func CleanText(text string) string {
	return defaultCleaner.Clean(text)
}

// Clean drops empty and rejected lines and joins the survivors with a blank
// line. Clean is idempotent.
func (c *Cleaner) Clean(text string) string {
	var kept []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if _, rejected := c.Reject(line); rejected {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n\n")
}

// Reject returns the reason of the first rule matching line.
func (c *Cleaner) Reject(line string) (reason string, rejected bool) {
	for _, rule := range c.rules {
		if rule.Match(line) {
			return rule.Reason, true
		}
	}
	return "", false
}

// longestRun returns the length of the longest run of one repeated rune.
func longestRun(s string) int {
	var longest, run int
	var prev rune = -1
	for _, r := range s {
		if r == prev {
			run++
		} else {
			run = 1
			prev = r
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}
