package metadata

import "github.com/tsawler/folio/cover"

// Config bounds the text scans the pipeline runs. The zero value is
// usable; zero fields take the defaults from DefaultConfig.
type Config struct {
	// FrontPages is how many leading pages the identifier scan reads.
	FrontPages int `yaml:"front_pages"`
	// BackPages is how many trailing pages are retried for
	// identifiers the front scan missed.
	BackPages int `yaml:"back_pages"`
	// DatePages is how many leading pages the publication-date scan
	// reads.
	DatePages int `yaml:"date_pages"`
	// OCRScanPages is how many pages after the cover the OCR
	// identifier scan renders.
	OCRScanPages int `yaml:"ocr_scan_pages"`
	// OCRZoom is the render scale for pages sent to the recognizer.
	// Scanned pages need 2.0 or more for usable recognition.
	OCRZoom float64 `yaml:"ocr_zoom"`
	// AuthorScanLines is how many lines of the first page the author
	// scan considers.
	AuthorScanLines int `yaml:"author_scan_lines"`
	// DescriptionPages is how many leading pages are searched for an
	// introduction-like page.
	DescriptionPages int `yaml:"description_pages"`
	// LanguagePages is how many leading pages feed the language
	// sample when no description exists.
	LanguagePages int `yaml:"language_pages"`
	// LanguageMinChars stops the language sample once it has grown
	// past this many runes.
	LanguageMinChars int `yaml:"language_min_chars"`
	// TOCDotRatio is the dot density above which a page is treated as
	// a table of contents.
	TOCDotRatio float64 `yaml:"toc_dot_ratio"`
	// JunkLineRatio is the dot/dash density above which a line is
	// dropped from description text.
	JunkLineRatio float64 `yaml:"junk_line_ratio"`
	// DescriptionTarget is the rune length a description paragraph
	// must reach before the scan stops.
	DescriptionTarget int `yaml:"description_target"`
	// DescriptionCap is the rune length past which a description is
	// cut back to a sentence boundary.
	DescriptionCap int `yaml:"description_cap"`
	// Cover configures cover-page parsing and the author name
	// heuristics.
	Cover cover.Config `yaml:"cover"`
}

// DefaultConfig returns the scan bounds used when fields are left at
// their zero values.
func DefaultConfig() Config {
	return Config{
		FrontPages:        15,
		BackPages:         3,
		DatePages:         10,
		OCRScanPages:      4,
		OCRZoom:           2.0,
		AuthorScanLines:   30,
		DescriptionPages:  30,
		LanguagePages:     5,
		LanguageMinChars:  500,
		TOCDotRatio:       0.10,
		JunkLineRatio:     0.30,
		DescriptionTarget: 200,
		DescriptionCap:    800,
		Cover:             cover.DefaultConfig(),
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.FrontPages <= 0 {
		c.FrontPages = def.FrontPages
	}
	if c.BackPages <= 0 {
		c.BackPages = def.BackPages
	}
	if c.DatePages <= 0 {
		c.DatePages = def.DatePages
	}
	if c.OCRScanPages <= 0 {
		c.OCRScanPages = def.OCRScanPages
	}
	if c.OCRZoom <= 0 {
		c.OCRZoom = def.OCRZoom
	}
	if c.AuthorScanLines <= 0 {
		c.AuthorScanLines = def.AuthorScanLines
	}
	if c.DescriptionPages <= 0 {
		c.DescriptionPages = def.DescriptionPages
	}
	if c.LanguagePages <= 0 {
		c.LanguagePages = def.LanguagePages
	}
	if c.LanguageMinChars <= 0 {
		c.LanguageMinChars = def.LanguageMinChars
	}
	if c.TOCDotRatio <= 0 {
		c.TOCDotRatio = def.TOCDotRatio
	}
	if c.JunkLineRatio <= 0 {
		c.JunkLineRatio = def.JunkLineRatio
	}
	if c.DescriptionTarget <= 0 {
		c.DescriptionTarget = def.DescriptionTarget
	}
	if c.DescriptionCap <= 0 {
		c.DescriptionCap = def.DescriptionCap
	}
	if len(c.Cover.Stoplist) == 0 {
		c.Cover.Stoplist = def.Cover.Stoplist
	}
	if len(c.Cover.PublisherKeywords) == 0 {
		c.Cover.PublisherKeywords = def.Cover.PublisherKeywords
	}
	if c.Cover.MaxTitleLines <= 0 {
		c.Cover.MaxTitleLines = def.Cover.MaxTitleLines
	}
	if c.Cover.MaxLineLen <= 0 {
		c.Cover.MaxLineLen = def.Cover.MaxLineLen
	}
	return c
}
