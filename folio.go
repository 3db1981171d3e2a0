// Package folio ingests PDF ebooks: it recovers bibliographic
// metadata, strips watermark and advertisement pages, and renders
// cover thumbnails.
//
// Basic usage:
//
//	book := folio.Open("upload.pdf")
//	defer book.Close()
//
//	rec, err := book.Metadata()
//	if err != nil {
//	    // handle error
//	}
//	fmt.Println(rec.Title, rec.Author)
//
// With options:
//
//	rec, err := folio.Open("upload.pdf").
//	    WithIdentifier(langid.New()).
//	    WithLogger(logger).
//	    Metadata()
//
// Cleaning rewrites the file in place and reports what was removed:
//
//	res, err := folio.Open("upload.pdf").Clean()
//	if err != nil {
//	    // handle error
//	}
//	fmt.Printf("removed %d ad pages\n", res.RemovedCount)
//
// For finer control the lower-level document, metadata, watermark,
// cleaner, and thumbnail packages are also available.
package folio

import (
	"image"

	"go.uber.org/zap"

	"github.com/tsawler/folio/cleaner"
	"github.com/tsawler/folio/document"
	"github.com/tsawler/folio/metadata"
	"github.com/tsawler/folio/thumbnail"
	"github.com/tsawler/folio/watermark"
)

// Previews render at 150 DPI, enough to read body text on screen.
const previewZoom = 150.0 / 72.0

// Book provides a fluent interface over one PDF file. Configuration
// methods return a new Book instance, so a configured Book is safe to
// share and chain. The file itself is opened lazily by the first
// terminal operation that needs it.
type Book struct {
	path string

	// Read handle, opened on demand. Mutating operations drop it
	// before touching the file.
	doc *document.Document

	rec  metadata.TextRecognizer
	lang metadata.LanguageIdentifier
	log  *zap.Logger
	cfg  Config
}

// Open returns a Book for the PDF at path. The file is not touched
// until a terminal operation runs. Close the Book when done.
//
// Example:
//
//	rec, err := folio.Open("upload.pdf").Metadata()
func Open(path string) *Book {
	return &Book{
		path: path,
		log:  zap.NewNop(),
		cfg:  DefaultConfig(),
	}
}

// Path returns the file path the Book was opened with.
func (b *Book) Path() string { return b.path }

func (b *Book) clone() *Book {
	nb := *b
	return &nb
}

// WithRecognizer supplies an OCR backend for the image-based
// metadata stages. Without one those stages are skipped.
//
// Example:
//
//	client, err := ocr.New()
//	if err != nil {
//	    // built without OCR support
//	}
//	rec, err := folio.Open("scan.pdf").WithRecognizer(client).Metadata()
func (b *Book) WithRecognizer(rec metadata.TextRecognizer) *Book {
	nb := b.clone()
	nb.rec = rec
	return nb
}

// WithIdentifier supplies a language identifier for the language
// stage. Without one the stage is skipped.
func (b *Book) WithIdentifier(lang metadata.LanguageIdentifier) *Book {
	nb := b.clone()
	nb.lang = lang
	return nb
}

// WithLogger routes the Book's logging through logger. A nil logger
// silences it.
func (b *Book) WithLogger(logger *zap.Logger) *Book {
	nb := b.clone()
	if logger == nil {
		logger = zap.NewNop()
	}
	nb.log = logger
	return nb
}

// WithConfig replaces the whole configuration. Zero-valued fields
// inside it fall back to their package defaults.
func (b *Book) WithConfig(cfg Config) *Book {
	nb := b.clone()
	nb.cfg = cfg
	return nb
}

func (b *Book) ensureDoc() (*document.Document, error) {
	if b.doc == nil {
		doc, err := document.Open(b.path)
		if err != nil {
			return nil, err
		}
		b.doc = doc
	}
	return b.doc, nil
}

// closeDoc drops the read handle. The cleaner rewrites the file in
// place, so no handle may be open over it.
func (b *Book) closeDoc() error {
	if b.doc == nil {
		return nil
	}
	err := b.doc.Close()
	b.doc = nil
	return err
}

// Metadata runs the extraction pipeline and returns the recovered
// record.
func (b *Book) Metadata() (metadata.Record, error) {
	doc, err := b.ensureDoc()
	if err != nil {
		return metadata.Record{}, err
	}
	pipe := metadata.NewPipeline(b.cfg.Metadata, b.rec, b.lang, b.log)
	return pipe.Extract(doc), nil
}

// Clean detects watermark and advertisement pages and rewrites the
// file without them. Running it on an already clean file changes
// nothing.
func (b *Book) Clean() (cleaner.Result, error) {
	det, err := watermark.New(b.cfg.Watermark)
	if err != nil {
		return cleaner.Result{}, err
	}
	if err := b.closeDoc(); err != nil {
		return cleaner.Result{}, err
	}
	return cleaner.AutoClean(b.path, det, b.log)
}

// Thumbnail renders a first-page cover thumbnail to outPath and
// reports success.
func (b *Book) Thumbnail(outPath string) bool {
	return thumbnail.Generate(b.path, outPath, b.cfg.Thumbnail, b.log)
}

// PreviewPage renders the given 1-indexed page for review. Pages out
// of range return a *document.PageIndexError.
func (b *Book) PreviewPage(pageNum int) (image.Image, error) {
	doc, err := b.ensureDoc()
	if err != nil {
		return nil, err
	}
	return doc.Render(pageNum-1, previewZoom)
}

// PreviewText returns up to maxChars of text from the given 1-indexed
// page, with a trailing ellipsis when truncated.
func (b *Book) PreviewText(pageNum, maxChars int) (string, error) {
	doc, err := b.ensureDoc()
	if err != nil {
		return "", err
	}
	return doc.PreviewText(pageNum-1, maxChars)
}

// RemovePage deletes the given 1-indexed page from the file and
// returns the new page count.
func (b *Book) RemovePage(pageNum int) (int, error) {
	if err := b.closeDoc(); err != nil {
		return 0, err
	}
	return cleaner.RemoveSingle(b.path, pageNum)
}

// Stat returns the file's size, page count, and embedded info without
// holding the Book's read handle open.
func (b *Book) Stat() (document.FileInfo, error) {
	return document.Stat(b.path)
}

// Close releases the read handle if one is open. It is safe to call
// more than once; a later terminal operation reopens the file.
func (b *Book) Close() error {
	return b.closeDoc()
}

// Must is a helper that wraps a call to a function returning
// (T, error) and panics if the error is non-nil. It is intended for
// scripts and tests where error handling would be cumbersome.
//
// Example:
//
//	rec := folio.Must(folio.Open("upload.pdf").Metadata())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
