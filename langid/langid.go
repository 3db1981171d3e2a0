// Package langid identifies the language of prose samples.
//
// Identification is statistical (trigram-based, via whatlanggo) and
// needs a reasonable amount of clean running text to be trustworthy.
// Samples are stripped to letters and spaces first; short or
// low-confidence results are rejected rather than guessed.
package langid

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/RadhiFadlillah/whatlanggo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// minSampleChars is the cleaned-sample length below which detection is
// refused outright; trigram models are noise at this size.
const minSampleChars = 50

// Identifier detects languages from text samples. The zero value is
// ready to use.
type Identifier struct{}

// New returns an Identifier.
func New() *Identifier { return &Identifier{} }

// Identify returns the ISO 639-1 code of the sample's language, or the
// 639-3 code for languages without a two-letter one. ok is false when
// the cleaned sample is too short or the detection not confident
// enough to report.
func (id *Identifier) Identify(text string) (code string, ok bool) {
	sample := cleanSample(text)
	if utf8.RuneCountInString(sample) < minSampleChars {
		return "", false
	}
	info := whatlanggo.Detect(sample)
	if !info.IsReliable() {
		return "", false
	}
	code = info.Lang.Iso6391()
	if code == "" {
		code = info.Lang.Iso6393()
	}
	return code, true
}

// cleanSample reduces text to letters and single spaces. Numbers,
// punctuation and markup only mislead the trigram model.
func cleanSample(text string) string {
	var b strings.Builder
	space := true
	for _, r := range text {
		switch {
		case unicode.IsLetter(r):
			b.WriteRune(r)
			space = false
		case !space:
			b.WriteByte(' ')
			space = true
		}
	}
	return strings.TrimSpace(b.String())
}

// names maps detector codes to the catalog-facing language names.
// Both the hyphenated Chinese variants and the bare "zh" that modern
// detectors emit collapse onto "Chinese"; likewise "nb" for Norwegian
// Bokmål.
var names = map[string]string{
	"en":    "English",
	"es":    "Spanish",
	"fr":    "French",
	"de":    "German",
	"it":    "Italian",
	"pt":    "Portuguese",
	"ru":    "Russian",
	"zh":    "Chinese",
	"zh-cn": "Chinese",
	"zh-tw": "Chinese",
	"ja":    "Japanese",
	"ko":    "Korean",
	"ar":    "Arabic",
	"hi":    "Hindi",
	"nl":    "Dutch",
	"pl":    "Polish",
	"tr":    "Turkish",
	"sv":    "Swedish",
	"da":    "Danish",
	"no":    "Norwegian",
	"nb":    "Norwegian",
	"fi":    "Finnish",
}

var titleCaser = cases.Title(language.English)

// Name renders a detector code as a human-readable language name.
// Codes outside the fixed table come back title-cased, so an unmapped
// "eo" still displays acceptably as "Eo".
func Name(code string) string {
	if code == "" {
		return ""
	}
	if name, ok := names[strings.ToLower(code)]; ok {
		return name
	}
	return titleCaser.String(strings.ToLower(code))
}
