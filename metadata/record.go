// Package metadata recovers a bibliographic record from a book file.
//
// Books arrive with unreliable or absent embedded metadata, so the
// record is assembled by an ordered pipeline of heuristics: embedded
// info first, then pattern searches over front and back matter, then
// OCR fallbacks, a first-page author scan, description mining from the
// introduction, and language identification. Every stage only fills
// fields that are still empty; nothing a higher-priority stage found
// is ever overwritten.
//
//	pipe := metadata.NewPipeline(metadata.Config{}, recognizer, langid.New(), logger)
//	rec, err := pipe.ExtractFile("book.pdf")
//
// Extraction is best-effort by contract. Fields the heuristics cannot
// recover stay empty; only an unreadable file is an error.
package metadata

import (
	"strconv"
	"time"
)

// Record is the recovered bibliographic description of one book.
// Absent values are empty strings, zero time, or zero count. A Record
// is always fully constructed; consumers never see partial maps.
type Record struct {
	Title       string
	Author      string // possibly several names, comma-joined
	Description string
	Subject     string
	Keywords    string
	Creator     string
	Producer    string
	Publisher   string

	CreationDate    time.Time
	PublicationDate string // DD/MM/YYYY; year-only finds normalize to 01/01/YYYY

	ISBN string // 10 or 13 digits, separators stripped
	DOI  string

	PageCount int
	Language  string // human-readable name, e.g. "English"
}

// Flat renders the record as the flat key to value mapping consuming
// systems persist. Absent fields are present with empty values, so the
// key set is stable. Consumers that want a single identifier are
// expected to fall back from isbn to doi themselves.
func (r Record) Flat() map[string]string {
	creation := ""
	if !r.CreationDate.IsZero() {
		creation = r.CreationDate.Format("2006-01-02")
	}
	return map[string]string{
		"title":            r.Title,
		"author":           r.Author,
		"description":      r.Description,
		"subject":          r.Subject,
		"keywords":         r.Keywords,
		"creator":          r.Creator,
		"producer":         r.Producer,
		"publisher":        r.Publisher,
		"creation_date":    creation,
		"publication_date": r.PublicationDate,
		"isbn":             r.ISBN,
		"doi":              r.DOI,
		"pages":            strconv.Itoa(r.PageCount),
		"language":         r.Language,
	}
}
