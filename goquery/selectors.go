// Package goquery implements HTML content extraction and thumbnail
// selection on top of goquery and cascadia.
package goquery

import "github.com/andybalholm/cascadia"

// regionSelectors locate the main content region of an article page, in
// probe order. They are shared by text extraction, article HTML reduction
// and thumbnail selection.
var regionSelectors = compileAll(
	"article",
	"main",
	`[role="main"]`,
	".post-content",
	".entry-content",
	".article-content",
	".article-body",
	".post-body",
	".story-body",
	"#content",
	".content",
)

// frameworkSelectors match the body containers of common blogging
// platforms. They are probed before regionSelectors when reducing article
// HTML because they are tighter than the generic regions.
var frameworkSelectors = compileAll(
	".it-MdContent",                     // Qiita
	".znc",                              // Zenn
	".note-common-styles__textnote-body", // note
	".meteredContent",                   // Medium
	".hatenablog-entry .entry-content",  // Hatena Blog
	".wp-block-post-content",            // WordPress block themes
	".markdown-body",                    // GitHub
)

// articleSelectors is the probe order for article HTML reduction.
var articleSelectors = append(append([]cascadia.Selector{}, frameworkSelectors...), regionSelectors...)

// nonContentSelector matches elements that never carry readable text.
const nonContentSelector = "script, style, noscript, template"

// boilerplateSelector matches page chrome removed before article HTML
// reduction.
const boilerplateSelector = nonContentSelector + `, nav, header, footer, aside, menu, form, iframe,
	.sidebar, #sidebar, .ads, .ad, .advertisement, .sponsored,
	[class^="ad-"], [class*=" ad-"], [id^="ad-"],
	.share, .social-share, .related-posts, .comments, #comments`

func compileAll(selectors ...string) []cascadia.Selector {
	compiled := make([]cascadia.Selector, len(selectors))
	for i, s := range selectors {
		compiled[i] = cascadia.MustCompile(s)
	}
	return compiled
}
