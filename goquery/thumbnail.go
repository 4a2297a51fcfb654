package goquery

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/yomu"
)

// Ensure ThumbnailSelector implements yomu.ThumbnailSelector at compile time.
var _ yomu.ThumbnailSelector = (*ThumbnailSelector)(nil)

// Thumbnail size thresholds in pixels.
const (
	minThumbnailSize       = 100
	preferredThumbnailSize = 300
)

// metaImageSelectors are probed in order; the first match wins the meta tier.
var metaImageSelectors = []struct {
	selector string
	attr     string
}{
	{`meta[property="og:image"], meta[name="og:image"]`, "content"},
	{`meta[name="twitter:image"], meta[property="twitter:image"]`, "content"},
	{`meta[property="og:image:url"]`, "content"},
	{`link[rel="image_src"]`, "href"},
}

// imageBlocklist matches URLs, alt texts and class names of decorative images.
var imageBlocklist = regexp.MustCompile(`(?i)(favicon|icon|logo|avatar|sprite|placeholder|default|thumb|button|arrow|bullet|sponsor|(^|[^a-z])(ads?|mini)([^a-z]|$))`)

// ThumbnailSelector picks a representative image from meta tags, the
// article region, or the rest of the page, in that priority.
type ThumbnailSelector struct{}

// NewThumbnailSelector creates a new ThumbnailSelector.
func NewThumbnailSelector() *ThumbnailSelector {
	return &ThumbnailSelector{}
}

// SelectThumbnail returns the absolute URL of the best image in html, or ""
// when none qualifies.
func (s *ThumbnailSelector) SelectThumbnail(html, baseURL string) string {
	base, err := url.Parse(baseURL)
	if err != nil {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	tiers := candidates(doc, base)
	for _, tier := range tiers {
		if c, ok := pick(tier); ok {
			return c.URL
		}
	}
	return ""
}

// candidates collects image candidates grouped by tier in priority order:
// meta, article region, general. URLs are absolute and unique across tiers.
func candidates(doc *goquery.Document, base *url.URL) [3][]yomu.ImageCandidate {
	var tiers [3][]yomu.ImageCandidate
	seen := make(map[string]bool)

	add := func(c yomu.ImageCandidate) {
		if c.URL == "" || seen[c.URL] {
			return
		}
		seen[c.URL] = true
		tiers[c.Source] = append(tiers[c.Source], c)
	}

	for _, m := range metaImageSelectors {
		v, ok := doc.Find(m.selector).First().Attr(m.attr)
		if !ok || strings.TrimSpace(v) == "" {
			continue
		}
		add(yomu.ImageCandidate{URL: resolveURL(base, v), Source: yomu.ImageSourceMeta})
		break
	}

	// Images keep document order within each tier.
	doc.Find("img").Each(func(_ int, img *goquery.Selection) {
		source := yomu.ImageSourceGeneral
		if inRegion(img) {
			source = yomu.ImageSourceArticle
		}
		add(imageCandidate(img, base, source))
	})

	return tiers
}

// inRegion reports whether img sits inside an article content region.
func inRegion(img *goquery.Selection) bool {
	for _, sel := range regionSelectors {
		if img.ParentsMatcher(sel).Length() > 0 {
			return true
		}
	}
	return false
}

func imageCandidate(img *goquery.Selection, base *url.URL, source yomu.ImageSource) yomu.ImageCandidate {
	src := imageSource(img)
	if src == "" {
		return yomu.ImageCandidate{}
	}

	alt, _ := img.Attr("alt")
	class, _ := img.Attr("class")
	return yomu.ImageCandidate{
		URL:    resolveURL(base, src),
		Width:  dimension(img, "width"),
		Height: dimension(img, "height"),
		Alt:    alt,
		Class:  class,
		Source: source,
	}
}

// imageSource returns src, falling back to lazy-loading attributes when src
// is missing or an inline placeholder.
func imageSource(img *goquery.Selection) string {
	src := strings.TrimSpace(img.AttrOr("src", ""))
	if src != "" && !isDataURL(src) {
		return src
	}
	for _, attr := range []string{"data-src", "data-lazy-src", "data-original"} {
		if v := strings.TrimSpace(img.AttrOr(attr, "")); v != "" {
			return v
		}
	}
	return src
}

// dimension parses the leading digits of a width or height attribute.
// It returns 0 when the value is missing or not a pixel count.
func dimension(img *goquery.Selection, attr string) int {
	v := strings.TrimSpace(img.AttrOr(attr, ""))
	end := 0
	for end < len(v) && v[end] >= '0' && v[end] <= '9' {
		end++
	}
	if end == 0 || strings.HasPrefix(v[end:], "%") {
		return 0
	}
	n, err := strconv.Atoi(v[:end])
	if err != nil {
		return 0
	}
	return n
}

// acceptable reports whether c survives the thumbnail filters.
func acceptable(c yomu.ImageCandidate) bool {
	if isDataURL(c.URL) {
		return false
	}
	if (c.Width > 0 && c.Width < minThumbnailSize) || (c.Height > 0 && c.Height < minThumbnailSize) {
		return false
	}
	return !imageBlocklist.MatchString(c.URL) &&
		!imageBlocklist.MatchString(c.Alt) &&
		!imageBlocklist.MatchString(c.Class)
}

// pick returns the first acceptable candidate, preferring large images
// outside the meta tier.
func pick(tier []yomu.ImageCandidate) (yomu.ImageCandidate, bool) {
	var first *yomu.ImageCandidate
	for i := range tier {
		c := tier[i]
		if !acceptable(c) {
			continue
		}
		if c.Source == yomu.ImageSourceMeta {
			return c, true
		}
		if c.Width > preferredThumbnailSize || c.Height > preferredThumbnailSize {
			return c, true
		}
		if first == nil {
			first = &tier[i]
		}
	}
	if first == nil {
		return yomu.ImageCandidate{}, false
	}
	return *first, true
}

func isDataURL(s string) bool {
	return strings.HasPrefix(strings.ToLower(s), "data:")
}

// resolveURL resolves href against base. Relative and protocol-relative
// references become absolute; unparseable references resolve to "".
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	if isDataURL(ref.String()) {
		return ref.String()
	}
	resolved := base.ResolveReference(ref)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	return resolved.String()
}
