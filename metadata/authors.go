package metadata

import (
	"strings"
	"unicode"

	"github.com/tsawler/folio/cover"
)

// Words that signal a line is front-matter boilerplate rather than a
// person's name. Extends the cover stoplist with terms common on
// copyright and table-of-contents pages.
var authorStopExtra = []string{"some", "view", "project"}

// findAuthors scans the first page's lines for author names. A line
// containing "author" and a colon anchors the search to the lines that
// follow it; otherwise the first standalone person-name line starts a
// run. Consecutive name lines are collected and joined with ", ".
func findAuthors(text string, cfg Config) string {
	lines := splitLines(text)
	stoplist := append(append([]string(nil), cfg.Cover.Stoplist...), authorStopExtra...)
	maxLen := cfg.Cover.MaxLineLen

	limit := min(cfg.AuthorScanLines, len(lines))
	for i := 0; i < limit; i++ {
		line := lines[i]
		if strings.Contains(strings.ToLower(line), "author") && strings.Contains(line, ":") {
			if names := nameRun(lines, i+1, min(i+16, len(lines)), stoplist, maxLen); len(names) > 0 {
				return strings.Join(names, ", ")
			}
			continue
		}
		if cover.IsPersonName(line, stoplist, maxLen) {
			names := []string{line}
			for j := i + 1; j < min(i+5, len(lines)); j++ {
				if !cover.IsPersonName(lines[j], stoplist, maxLen) {
					break
				}
				names = append(names, lines[j])
			}
			return strings.Join(names, ", ")
		}
	}
	return ""
}

// nameRun finds the first person-name line in lines[from:to] and
// collects the consecutive name lines that follow it.
func nameRun(lines []string, from, to int, stoplist []string, maxLen int) []string {
	for j := from; j < to; j++ {
		if !cover.IsPersonName(lines[j], stoplist, maxLen) {
			continue
		}
		names := []string{lines[j]}
		for k := j + 1; k < min(j+5, len(lines)); k++ {
			if !cover.IsPersonName(lines[k], stoplist, maxLen) {
				break
			}
			names = append(names, lines[k])
		}
		return names
	}
	return nil
}

// isValidAuthor reports whether s looks like real author names: it
// must be non-empty, contain no digits, and hold at least two words
// once comma separators are ignored.
func isValidAuthor(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if unicode.IsDigit(r) {
			return false
		}
	}
	words := strings.Fields(strings.ReplaceAll(s, ",", " "))
	return len(words) >= 2
}

// splitLines breaks text into trimmed, non-empty lines.
func splitLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
