// Package cover parses recognized cover text into bibliographic fields.
//
// The text that comes back from OCR on a book cover is a loose stack
// of lines: title split over one or more lines, author names, maybe a
// publisher imprint and an ISBN. Parse applies layout heuristics tuned
// on real covers to pull those apart. Empty fields mean the heuristic
// found nothing; callers treat every field as best-effort.
//
//	fields := cover.Parse(ocrText, cover.DefaultConfig())
//	if fields.Title != "" { ... }
//
// Description text is deliberately never taken from a cover; covers
// carry blurbs and quotes that read badly as catalog copy.
package cover

import (
	"regexp"
	"strings"
	"unicode"
)

// Fields is the result of parsing one cover. Absent fields are empty.
type Fields struct {
	Title     string
	Author    string
	Publisher string
	ISBN      string
}

// Config tunes the parsing heuristics.
type Config struct {
	// Stoplist disqualifies lines from being person names when any of
	// their lower-cased words appears in it.
	Stoplist []string `yaml:"stoplist"`
	// PublisherKeywords mark a line as naming a publisher.
	PublisherKeywords []string `yaml:"publisher_keywords"`
	// MaxTitleLines is how many leading lines may contribute to the title.
	MaxTitleLines int `yaml:"max_title_lines"`
	// MaxLineLen is the length at or above which a line is neither a
	// name nor a title fragment.
	MaxLineLen int `yaml:"max_line_len"`
}

// DefaultConfig returns the stock heuristics.
func DefaultConfig() Config {
	return Config{
		Stoplist: []string{
			"programming", "code", "edition", "volume", "series",
			"guide", "introduction", "advanced", "complete",
			"professional", "press", "publishing",
		},
		PublisherKeywords: []string{
			"osborne", "press", "publishing", "books", "mcgraw", "wiley",
			"oreilly", "o'reilly", "pearson", "apress", "manning",
			"packt", "springer", "elsevier",
		},
		MaxTitleLines: 4,
		MaxLineLen:    50,
	}
}

var isbnRe = regexp.MustCompile(`(?i)ISBN[:\s-]*([0-9]{13}|[0-9]{10}|[0-9-]{10,17})`)

// authorKeywordRe marks a line as introducing authors. "authors?"
// covers the plural headings OCR often produces.
var authorKeywordRe = regexp.MustCompile(`(?i)\b(written\s+by|authors?|by)\b`)

// publisherFixes repairs misreads OCR makes of stylized imprint logos.
// Order matters: the specific forms go before the generic ones.
var publisherFixes = []struct{ old, new string }{
	{"me OSBORNE", "McGraw-Hill/Osborne"},
	{"OSBORNE", "McGraw-Hill/Osborne"},
	{"me ", ""},
}

// Parse extracts bibliographic fields from cover text. Zero-value
// config fields fall back to DefaultConfig.
func Parse(text string, cfg Config) Fields {
	cfg = normalize(cfg)

	var f Fields
	if strings.TrimSpace(text) == "" {
		return f
	}

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}

	f.ISBN = findISBN(lines)
	var titleEnd int
	f.Title, titleEnd = findTitle(lines, cfg)
	f.Author = findAuthor(lines, titleEnd, cfg)
	f.Publisher = findPublisher(lines, cfg)
	return f
}

// IsPersonName reports whether a line reads like a person's name: two
// to four words, each starting upper-case and spelled with letters and
// name punctuation only, none of them on the stoplist, and the whole
// line shorter than maxLen.
func IsPersonName(line string, stoplist []string, maxLen int) bool {
	words := strings.Fields(line)
	if len(words) < 2 || len(words) > 4 {
		return false
	}
	if len(line) >= maxLen {
		return false
	}
	for _, word := range words {
		runes := []rune(word)
		if !unicode.IsUpper(runes[0]) {
			return false
		}
		for _, r := range runes {
			if !unicode.IsLetter(r) && !strings.ContainsRune(".,-'", r) {
				return false
			}
		}
	}
	for _, word := range words {
		lower := strings.ToLower(word)
		for _, stop := range stoplist {
			if lower == stop {
				return false
			}
		}
	}
	return true
}

func findISBN(lines []string) string {
	for _, line := range lines {
		m := isbnRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		digits := strings.NewReplacer("-", "", " ", "").Replace(m[1])
		if len(digits) == 10 || len(digits) == 13 {
			return digits
		}
	}
	return ""
}

// findTitle joins the leading short lines that are not person names.
// It also returns the index where the title stopped, which is where
// the author search picks up.
func findTitle(lines []string, cfg Config) (string, int) {
	var titleLines []string
	titleEnd := 0
	limit := min(cfg.MaxTitleLines, len(lines))
	for i := 0; i < limit; i++ {
		line := lines[i]
		if IsPersonName(line, cfg.Stoplist, cfg.MaxLineLen) {
			titleEnd = i
			break
		}
		if len(line) >= cfg.MaxLineLen {
			break
		}
		titleLines = append(titleLines, line)
	}
	return strings.Join(titleLines, " "), titleEnd
}

func findAuthor(lines []string, titleEnd int, cfg Config) string {
	// Keyword pass: "by Jane Doe", "Authors: ...".
	for i, line := range lines {
		if !authorKeywordRe.MatchString(line) {
			continue
		}
		author := authorKeywordRe.ReplaceAllString(line, "")
		author = strings.TrimSpace(strings.ReplaceAll(author, ":", ""))
		if author == "" && i+1 < len(lines) {
			author = lines[i+1]
		}
		if author != "" {
			return author
		}
	}

	// Layout pass: the first run of name lines after the title.
	var authors []string
	end := min(titleEnd+5, len(lines))
	for i := titleEnd; i < end; i++ {
		if !IsPersonName(lines[i], cfg.Stoplist, cfg.MaxLineLen) {
			continue
		}
		authors = append(authors, lines[i])
		if i+1 < len(lines) && IsPersonName(lines[i+1], cfg.Stoplist, cfg.MaxLineLen) {
			continue
		}
		break
	}
	return strings.Join(authors, ", ")
}

func findPublisher(lines []string, cfg Config) string {
	for _, line := range lines {
		lower := strings.ToLower(line)
		for _, kw := range cfg.PublisherKeywords {
			if !strings.Contains(lower, kw) {
				continue
			}
			publisher := line
			for _, fix := range publisherFixes {
				publisher = strings.ReplaceAll(publisher, fix.old, fix.new)
			}
			return strings.TrimSpace(publisher)
		}
	}
	return ""
}

func normalize(cfg Config) Config {
	def := DefaultConfig()
	if cfg.Stoplist == nil {
		cfg.Stoplist = def.Stoplist
	}
	if cfg.PublisherKeywords == nil {
		cfg.PublisherKeywords = def.PublisherKeywords
	}
	if cfg.MaxTitleLines <= 0 {
		cfg.MaxTitleLines = def.MaxTitleLines
	}
	if cfg.MaxLineLen <= 0 {
		cfg.MaxLineLen = def.MaxLineLen
	}
	return cfg
}
