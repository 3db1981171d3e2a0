package metadata

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Keywords that mark a page as introduction-like. The scan prefers
// these pages for description text over arbitrary front matter.
var descriptionKeywords = []string{"introduction", "summary", "abstract", "preface", "overview", "foreword"}

var trailingNumberRe = regexp.MustCompile(`\d+\s*$`)

// Partial descriptions, taken when no paragraph reached the target
// length, are capped at this many runes.
const partialDescriptionCap = 600

// findDescriptionPage scans the front of the document for a page
// carrying one of the description keywords. Pages whose text is more
// than cfg.TOCDotRatio dots are tables of contents in disguise and
// are skipped. When no keyword page exists the scan falls back to
// page 3, or page 0 for very short documents. The returned keyword is
// empty for fallback pages.
func findDescriptionPage(src Source, cfg Config) (page int, keyword string, ok bool) {
	count := src.PageCount()
	for i := 0; i < min(cfg.DescriptionPages, count); i++ {
		text, err := src.Text(i)
		if err != nil {
			continue
		}
		lower := strings.ToLower(text)
		match := ""
		for _, kw := range descriptionKeywords {
			if strings.Contains(lower, kw) {
				match = kw
				break
			}
		}
		if match == "" || tocLike(text, cfg.TOCDotRatio) {
			continue
		}
		return i, match, true
	}
	if count > 3 {
		return 3, "", true
	}
	if count > 0 {
		return 0, "", true
	}
	return 0, "", false
}

// tocLike reports whether text has the dot density of a table of
// contents page.
func tocLike(text string, ratio float64) bool {
	total := utf8.RuneCountInString(text)
	if total == 0 {
		return false
	}
	return float64(strings.Count(text, "."))/float64(total) > ratio
}

// mineDescription extracts a paragraph of description text from a
// page. When keyword is non-empty the scan looks for the heading line
// containing it and starts collecting after that; the heading line is
// returned so callers can recover a missing title from it. Page
// numbers, TOC entries, and header junk are dropped. Collected lines
// are joined until the paragraph reaches cfg.DescriptionTarget runes,
// then cut at a sentence boundary within cfg.DescriptionCap runes.
func mineDescription(text, keyword string, cfg Config) (description, heading string) {
	lines := splitLines(text)
	var collected []string
	foundHeading := false
	skipAfterHeading := 0

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		n := utf8.RuneCountInString(line)

		if !foundHeading && keyword != "" && strings.Contains(strings.ToLower(line), keyword) {
			foundHeading = true
			heading = line
			continue
		}

		// The first lines under the heading are often blank filler or
		// subheadings; allow a few before demanding paragraph text.
		if foundHeading && skipAfterHeading < 3 {
			if n < 20 {
				// A stranded syllable at a line break gets glued onto
				// the next line so the paragraph scan can use it.
				if n <= 3 && isAlpha(line) && i+1 < len(lines) {
					lines[i+1] = line + lines[i+1]
				}
				skipAfterHeading++
				continue
			}
			skipAfterHeading = 999
		}

		if !foundHeading && n < 20 {
			continue
		}
		if isDigits(line) || n < 20 {
			continue
		}
		punct := strings.Count(line, ".") + strings.Count(line, "_") + strings.Count(line, "-")
		if float64(punct) > float64(n)*cfg.JunkLineRatio {
			continue
		}
		if trailingNumberRe.MatchString(line) {
			continue
		}
		letters := 0
		for _, r := range line {
			if unicode.IsLetter(r) {
				letters++
			}
		}
		if float64(letters) < float64(n)*0.5 {
			continue
		}

		collected = append(collected, line)
		joined := strings.Join(collected, " ")
		if utf8.RuneCountInString(joined) >= cfg.DescriptionTarget {
			return alignSentence(joined, cfg.DescriptionTarget, cfg.DescriptionCap), heading
		}
	}

	if len(collected) > 0 {
		return truncateRunes(strings.Join(collected, " "), partialDescriptionCap), heading
	}
	return "", heading
}

// alignSentence trims s to a sentence boundary. Paragraphs longer
// than limit runes are cut at the last ". " inside the limit, or at
// the last "." when that still leaves more than target runes; shorter
// paragraphs keep up to their last complete sentence.
func alignSentence(s string, target, limit int) string {
	runes := []rune(s)
	if len(runes) > limit {
		head := runes[:limit]
		if pos := lastPeriodSpace(head); pos > target {
			return strings.TrimSpace(string(head[:pos+1]))
		}
		if pos := lastPeriod(head); pos > target {
			return strings.TrimSpace(string(head[:pos+1]))
		}
		return strings.TrimSpace(s)
	}
	if strings.HasSuffix(s, ".") {
		return strings.TrimSpace(s)
	}
	if pos := lastPeriodSpace(runes); pos >= 0 {
		return strings.TrimSpace(string(runes[:pos+1]))
	}
	return strings.TrimSpace(s)
}

// lastPeriodSpace returns the index of the final ". " in runes, or -1.
func lastPeriodSpace(runes []rune) int {
	for i := len(runes) - 2; i >= 0; i-- {
		if runes[i] == '.' && runes[i+1] == ' ' {
			return i
		}
	}
	return -1
}

// lastPeriod returns the index of the final '.' in runes, or -1.
func lastPeriod(runes []rune) int {
	for i := len(runes) - 1; i >= 0; i-- {
		if runes[i] == '.' {
			return i
		}
	}
	return -1
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
