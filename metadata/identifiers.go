package metadata

import (
	"regexp"
	"strings"
)

// Identifier patterns. Copyright pages print ISBNs with arbitrary
// hyphenation, so the regex accepts the separated form and validity is
// decided on the stripped digit count.
var (
	isbnRe = regexp.MustCompile(`(?i)ISBN[:\s-]*([0-9]{13}|[0-9]{10}|[0-9-]{10,17})`)
	doiRe  = regexp.MustCompile(`(?i)DOI[:\s]*(\d{2}\.\d{4,}/\S+)`)
)

var digitStrip = strings.NewReplacer("-", "", " ", "")

// FindISBN returns the first labeled ISBN in text whose stripped form
// is exactly 10 or 13 digits, or "" when there is none.
func FindISBN(text string) string {
	m := isbnRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	digits := digitStrip.Replace(m[1])
	if len(digits) == 10 || len(digits) == 13 {
		return digits
	}
	return ""
}

// FindDOI returns the first labeled DOI in text, or "".
func FindDOI(text string) string {
	m := doiRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[1]
}
