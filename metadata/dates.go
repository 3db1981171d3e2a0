package metadata

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Publication-date shapes, tried in order against each scanned page.
// The canonical output is DD/MM/YYYY throughout; year-only finds
// normalize to 01/01/YYYY. Month names are required to be alphabetic
// here so that fully numeric dates fall through to the validated
// numeric shape instead of getting a default month.
type dateKind int

const (
	dateDMY dateKind = iota // 12 March 2004, 3-May-1999
	dateMDY                 // March 12, 2004
	dateNumeric             // 12/03/2004
	dateYearOnly            // Copyright 2004, 2004 by ..., Third Edition 2004
)

var datePatterns = []struct {
	re   *regexp.Regexp
	kind dateKind
}{
	{regexp.MustCompile(`(?i)(?:published|first published|copyright|©)\s*(?:on\s*)?(\d{1,2})[/\s-]+([a-z]{3,})[/\s-]+([12]\d{3})`), dateDMY},
	{regexp.MustCompile(`(?i)(?:published|first published|copyright|©)\s*(?:on\s*)?([a-z]{3,})\s+(\d{1,2})[,\s]+([12]\d{3})`), dateMDY},
	{regexp.MustCompile(`(?i)(?:published|first published|copyright|©)\s*(?:on\s*)?(\d{1,2})[/-](\d{1,2})[/-]([12]\d{3})`), dateNumeric},
	{regexp.MustCompile(`(?i)(?:published|first published|copyright|©)\s*(?:in\s*)?([12]\d{3})`), dateYearOnly},
	{regexp.MustCompile(`(?i)([12]\d{3})\s*(?:by|publication)`), dateYearOnly},
	{regexp.MustCompile(`(?i)edition\s*[^0-9]*([12]\d{3})`), dateYearOnly},
}

var monthNums = map[string]string{
	"jan": "01", "feb": "02", "mar": "03", "apr": "04",
	"may": "05", "jun": "06", "jul": "07", "aug": "08",
	"sep": "09", "oct": "10", "nov": "11", "dec": "12",
}

// monthNum resolves a month name by its first three letters. Unknown
// names default to January rather than discarding the whole date.
func monthNum(name string) string {
	name = strings.ToLower(name)
	if len(name) > 3 {
		name = name[:3]
	}
	if m, ok := monthNums[name]; ok {
		return m
	}
	return "01"
}

// findPublicationDate returns the first date-shape match in text as
// DD/MM/YYYY, or "" when no shape matches.
func findPublicationDate(text string) string {
	for _, p := range datePatterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		switch p.kind {
		case dateDMY:
			return fmt.Sprintf("%s/%s/%s", pad2(m[1]), monthNum(m[2]), m[3])
		case dateMDY:
			return fmt.Sprintf("%s/%s/%s", pad2(m[2]), monthNum(m[1]), m[3])
		case dateNumeric:
			day, _ := strconv.Atoi(m[1])
			month, _ := strconv.Atoi(m[2])
			year, _ := strconv.Atoi(m[3])
			if year >= 1900 && year <= 2100 && month >= 1 && month <= 12 && day >= 1 && day <= 31 {
				return fmt.Sprintf("%s/%s/%s", pad2(m[1]), pad2(m[2]), m[3])
			}
		case dateYearOnly:
			if year, _ := strconv.Atoi(m[1]); year >= 1900 && year <= 2100 {
				return "01/01/" + m[1]
			}
		}
	}
	return ""
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}
