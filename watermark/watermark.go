// Package watermark finds injected advertisement pages in a document.
//
// Pirated and aggregator-distributed books commonly carry extra pages
// pushing a download site. Two heuristics catch most of them: a list of
// telltale phrases, and near-empty pages whose only content is a web
// address. Detection is read-only; removing the pages it reports is the
// cleaner package's job.
//
//	det, err := watermark.New(watermark.DefaultConfig())
//	findings := det.Detect(doc)
//	pages := watermark.Pages(findings)
package watermark

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// ShortPageLabel marks pages flagged by the short-page rule rather than
// a phrase match.
const ShortPageLabel = "short-ad-page"

// Finding reports one flagged page. Label is the pattern that matched,
// or ShortPageLabel for the short-page rule. Each page appears at most
// once; when several phrases would match, the first in the configured
// order wins.
type Finding struct {
	Page  int
	Label string
}

// Config controls detection. Patterns are regular expressions matched
// against lower-cased page text in order. MinPageChars is the length
// below which a page containing "www." is considered an ad page even
// without a phrase match.
type Config struct {
	Patterns     []string `yaml:"patterns"`
	MinPageChars int      `yaml:"min_page_chars"`
}

// DefaultConfig returns the stock pattern list, tuned against the ad
// pages that circulate in ebook collections.
func DefaultConfig() Config {
	return Config{
		Patterns: []string{
			`plentyofebooks`,
			`free\s*ebooks?\s*download`,
			`uploaded\s*by`,
			`this\s*ebook\s*is\s*provided\s*by`,
			`visit\s*www\.`,
			`download\s*more\s*ebooks?`,
			`ebookee\.com`,
			`ebook3000`,
			`freebookspot`,
			`all\s*it\s*ebooks`,
			`foxebook`,
			`free\s*pdf\s*books`,
		},
		MinPageChars: 100,
	}
}

// Source is the page view a Detector scans. *document.Document
// satisfies it.
type Source interface {
	PageCount() int
	Text(i int) (string, error)
}

// Detector scans documents for ad pages. Safe for reuse across
// documents.
type Detector struct {
	labels       []string
	patterns     []*regexp.Regexp
	minPageChars int
}

// New compiles the configured patterns. Zero-value fields fall back to
// DefaultConfig.
func New(cfg Config) (*Detector, error) {
	def := DefaultConfig()
	if cfg.Patterns == nil {
		cfg.Patterns = def.Patterns
	}
	if cfg.MinPageChars <= 0 {
		cfg.MinPageChars = def.MinPageChars
	}

	d := &Detector{minPageChars: cfg.MinPageChars}
	for _, p := range cfg.Patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compile pattern %q: %w", p, err)
		}
		d.labels = append(d.labels, p)
		d.patterns = append(d.patterns, re)
	}
	return d, nil
}

// Detect scans every page and returns the findings in ascending page
// order. Pages whose text cannot be read are skipped; detection never
// fails outright.
func (d *Detector) Detect(src Source) []Finding {
	var findings []Finding
	for i := 0; i < src.PageCount(); i++ {
		text, err := src.Text(i)
		if err != nil {
			continue
		}
		if f, ok := d.checkPage(i, text); ok {
			findings = append(findings, f)
		}
	}
	return findings
}

func (d *Detector) checkPage(page int, text string) (Finding, bool) {
	lower := strings.ToLower(text)
	for j, re := range d.patterns {
		if re.MatchString(lower) {
			return Finding{Page: page, Label: d.labels[j]}, true
		}
	}
	trimmed := strings.TrimSpace(text)
	if utf8.RuneCountInString(trimmed) < d.minPageChars && strings.Contains(lower, "www.") {
		return Finding{Page: page, Label: ShortPageLabel}, true
	}
	return Finding{}, false
}

// Pages returns the sorted, deduplicated page indices of findings.
func Pages(findings []Finding) []int {
	seen := make(map[int]bool, len(findings))
	var pages []int
	for _, f := range findings {
		if !seen[f.Page] {
			seen[f.Page] = true
			pages = append(pages, f.Page)
		}
	}
	sort.Ints(pages)
	return pages
}
