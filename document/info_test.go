package document

import (
	"testing"
	"time"

	"github.com/tsawler/folio/internal/pdfgen"
)

// TestInfoFields tests reading an embedded information dictionary.
func TestInfoFields(t *testing.T) {
	path := writePDF(t, "meta.pdf", []string{"body"}, &pdfgen.Info{
		Title:        "Network Programming",
		Author:       "Ada Lovelace",
		Subject:      "A hands-on tour of sockets.",
		Creator:      "folio-test",
		Producer:     "pdfgen",
		CreationDate: "D:20240315120000Z",
	})

	doc, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer doc.Close()

	info := doc.Info()
	if info.Title != "Network Programming" {
		t.Errorf("Title = %q", info.Title)
	}
	if info.Author != "Ada Lovelace" {
		t.Errorf("Author = %q", info.Author)
	}
	if info.Subject != "A hands-on tour of sockets." {
		t.Errorf("Subject = %q", info.Subject)
	}
	want := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	if !info.CreationDate.Equal(want) {
		t.Errorf("CreationDate = %v, want %v", info.CreationDate, want)
	}
	if !info.ModDate.IsZero() {
		t.Errorf("ModDate = %v, want zero", info.ModDate)
	}
}

// TestInfoAbsent tests that a file without an information dictionary
// yields the zero Info rather than an error.
func TestInfoAbsent(t *testing.T) {
	path := writePDF(t, "bare.pdf", []string{"body"}, nil)

	doc, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer doc.Close()

	info := doc.Info()
	if info.Title != "" || info.Author != "" {
		t.Errorf("expected empty info, got %+v", info)
	}
	if !info.CreationDate.IsZero() {
		t.Errorf("CreationDate = %v, want zero", info.CreationDate)
	}
}

// TestParseDate tests the PDF date forms that matter in practice.
func TestParseDate(t *testing.T) {
	got := parseDate("D:20240102150405Z")
	want := time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("parseDate full form = %v, want %v", got, want)
	}

	// Date-only form: the calendar day is what matters, not the zone.
	got = parseDate("D:20240102")
	if got.Year() != 2024 || got.Month() != time.January || got.Day() != 2 {
		t.Errorf("parseDate date-only form = %v, want 2024-01-02", got)
	}

	for _, in := range []string{"", "   ", "not a date"} {
		if got := parseDate(in); !got.IsZero() {
			t.Errorf("parseDate(%q) = %v, want zero", in, got)
		}
	}
}

// TestStat tests the file summary used for administrative display.
func TestStat(t *testing.T) {
	path := writePDF(t, "stat.pdf", []string{"a", "b", "c"}, &pdfgen.Info{Title: "Stats"})

	fi, err := Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if fi.PageCount != 3 {
		t.Errorf("PageCount = %d, want 3", fi.PageCount)
	}
	if fi.Size <= 0 {
		t.Errorf("Size = %d, want > 0", fi.Size)
	}
	if fi.Info.Title != "Stats" {
		t.Errorf("Info.Title = %q", fi.Info.Title)
	}
	if fi.Path != path {
		t.Errorf("Path = %q, want %q", fi.Path, path)
	}
}

// TestStatMissing tests that Stat reports missing files as OpenError.
func TestStatMissing(t *testing.T) {
	if _, err := Stat("/does/not/exist.pdf"); err == nil {
		t.Fatal("expected error")
	}
}
