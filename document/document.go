// Package document provides page-level access to PDF files.
//
// A Document wraps an open PDF and exposes its pages as text, rendered
// images and dimensions, plus whatever metadata the file embeds. It is
// the read side of the library; rewriting files is the cleaner
// package's job.
//
//	doc, err := document.Open("book.pdf")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer doc.Close()
//
//	text, err := doc.Text(0)
//	img, err := doc.Render(0, 2.0)
//
// Page indices are zero-based and only stable while the underlying file
// is unchanged. A Document holds native resources and is not safe for
// concurrent use; callers that rewrite a file must close every open
// Document for it first.
package document

import (
	"fmt"
	"image"
	"os"
	"strings"

	"github.com/gen2brain/go-fitz"
)

// OpenError reports a file that could not be opened as a PDF, whether
// missing, unreadable or structurally broken.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("cannot open %s: %v", e.Path, e.Err)
}

func (e *OpenError) Unwrap() error { return e.Err }

// PageIndexError reports a page index outside the document.
type PageIndexError struct {
	Index int
	Count int
}

func (e *PageIndexError) Error() string {
	return fmt.Sprintf("page index %d out of range (document has %d pages)", e.Index, e.Count)
}

// Document is an open PDF file. Obtain one with Open and release it
// with Close.
type Document struct {
	path   string
	fz     *fitz.Document
	closed bool
}

// Open opens the PDF at path. Missing and corrupt files both return an
// *OpenError.
func Open(path string) (*Document, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}
	fz, err := fitz.New(path)
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}
	return &Document{path: path, fz: fz}, nil
}

// Path returns the file path the document was opened from.
func (d *Document) Path() string { return d.path }

// PageCount returns the number of pages.
func (d *Document) PageCount() int {
	if d.closed {
		return 0
	}
	return d.fz.NumPage()
}

// Text returns the embedded text of page i.
func (d *Document) Text(i int) (string, error) {
	if err := d.checkPage(i); err != nil {
		return "", err
	}
	text, err := d.fz.Text(i)
	if err != nil {
		return "", fmt.Errorf("extract text of page %d: %w", i, err)
	}
	return text, nil
}

// PreviewText returns the text of page i truncated to maxChars runes,
// with an ellipsis appended when truncation happened. maxChars <= 0
// means no limit.
func (d *Document) PreviewText(i, maxChars int) (string, error) {
	text, err := d.Text(i)
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if maxChars <= 0 {
		return text, nil
	}
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text, nil
	}
	return string(runes[:maxChars]) + "...", nil
}

// Render rasterizes page i at the given zoom factor, where 1.0 renders
// at 72 DPI. Scanned pages usually need 2.0 or more before OCR produces
// anything useful.
func (d *Document) Render(i int, zoom float64) (image.Image, error) {
	if err := d.checkPage(i); err != nil {
		return nil, err
	}
	img, err := d.fz.ImageDPI(i, zoom*72)
	if err != nil {
		return nil, fmt.Errorf("render page %d: %w", i, err)
	}
	return img, nil
}

// RenderPNG rasterizes page i at the given zoom factor and returns the
// PNG encoding.
func (d *Document) RenderPNG(i int, zoom float64) ([]byte, error) {
	if err := d.checkPage(i); err != nil {
		return nil, err
	}
	png, err := d.fz.ImagePNG(i, zoom*72)
	if err != nil {
		return nil, fmt.Errorf("render page %d: %w", i, err)
	}
	return png, nil
}

// Bounds returns the size of page i in points (1/72 inch).
func (d *Document) Bounds(i int) (image.Rectangle, error) {
	if err := d.checkPage(i); err != nil {
		return image.Rectangle{}, err
	}
	rect, err := d.fz.Bound(i)
	if err != nil {
		return image.Rectangle{}, fmt.Errorf("bounds of page %d: %w", i, err)
	}
	return rect, nil
}

// Close releases the native resources. It is safe to call more than
// once; only the first call does anything.
func (d *Document) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	return d.fz.Close()
}

func (d *Document) checkPage(i int) error {
	if d.closed {
		return fmt.Errorf("document %s is closed", d.path)
	}
	if n := d.fz.NumPage(); i < 0 || i >= n {
		return &PageIndexError{Index: i, Count: n}
	}
	return nil
}
