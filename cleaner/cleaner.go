// Package cleaner rewrites PDF files to drop unwanted pages.
//
// It is the write side of the library: the watermark package decides
// which pages are advertisement filler, cleaner removes them. Rewrites
// go to a temporary file in the same directory first and replace the
// original only after a fully successful write, so a crash mid-rewrite
// cannot leave a half-written book behind.
//
//	res, err := cleaner.AutoClean("book.pdf", nil, logger)
//	if err == nil && res.RemovedCount > 0 {
//	    fmt.Printf("dropped pages %v\n", res.Removed)
//	}
//
// Removal interprets all page indices against the document as it was
// before the call. Running AutoClean on an already clean file is a
// no-op that reports zero removals.
package cleaner

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"go.uber.org/zap"

	"github.com/tsawler/folio/document"
	"github.com/tsawler/folio/watermark"
)

// Result summarizes one rewrite. PageCount is the page count after
// removal, Removed the zero-based indices dropped (ascending, against
// the original numbering), RemovedCount their number. PageCount plus
// RemovedCount always equals the original page count.
type Result struct {
	PageCount    int
	Removed      []int
	RemovedCount int
}

// RemovalError reports a failed removal. The original file is left
// untouched: either the requested pages were out of range, or the
// rewrite itself failed before the original was replaced.
type RemovalError struct {
	Path  string
	Pages []int // offending zero-based indices, when the request was invalid
	Count int   // page count of the original document
	Err   error
}

func (e *RemovalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("remove pages from %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("remove pages from %s: indices %v out of range (document has %d pages)",
		e.Path, e.Pages, e.Count)
}

func (e *RemovalError) Unwrap() error { return e.Err }

// RemovePages removes the given zero-based pages from the file at
// path, rewriting it in place. Duplicates are tolerated; any index
// outside the document fails the whole call before anything is
// written. An empty request leaves the file alone.
func RemovePages(path string, pages []int) (Result, error) {
	count, err := api.PageCountFile(path)
	if err != nil {
		return Result{}, &document.OpenError{Path: path, Err: err}
	}

	pages = dedupe(pages)
	if len(pages) == 0 {
		return Result{PageCount: count}, nil
	}

	var bad []int
	for _, p := range pages {
		if p < 0 || p >= count {
			bad = append(bad, p)
		}
	}
	if len(bad) > 0 {
		return Result{}, &RemovalError{Path: path, Pages: bad, Count: count}
	}

	if err := rewrite(path, pages); err != nil {
		return Result{}, &RemovalError{Path: path, Count: count, Err: err}
	}

	return Result{
		PageCount:    count - len(pages),
		Removed:      pages,
		RemovedCount: len(pages),
	}, nil
}

// RemoveSingle removes one page given its one-based number, the way
// page numbers are shown to people, and returns the new page count.
func RemoveSingle(path string, pageNum int) (int, error) {
	res, err := RemovePages(path, []int{pageNum - 1})
	if err != nil {
		return 0, err
	}
	return res.PageCount, nil
}

// AutoClean detects advertisement pages and removes them in one step.
// A nil detector means watermark.DefaultConfig; a nil logger silences
// the run. The operation is idempotent: cleaning a clean file reports
// zero removals and rewrites nothing.
func AutoClean(path string, det *watermark.Detector, logger *zap.Logger) (Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if det == nil {
		var err error
		det, err = watermark.New(watermark.DefaultConfig())
		if err != nil {
			return Result{}, err
		}
	}

	doc, err := document.Open(path)
	if err != nil {
		return Result{}, err
	}
	findings := det.Detect(doc)
	count := doc.PageCount()
	// The read handle must go before the rewrite touches the file.
	doc.Close()

	for _, f := range findings {
		logger.Debug("flagged ad page",
			zap.String("path", path),
			zap.Int("page", f.Page),
			zap.String("label", f.Label))
	}

	pages := watermark.Pages(findings)
	if len(pages) == 0 {
		logger.Info("document already clean", zap.String("path", path), zap.Int("pages", count))
		return Result{PageCount: count}, nil
	}

	res, err := RemovePages(path, pages)
	if err != nil {
		return Result{}, err
	}
	logger.Info("removed ad pages",
		zap.String("path", path),
		zap.Ints("removed", res.Removed),
		zap.Int("page_count", res.PageCount))
	return res, nil
}

// rewrite writes a copy of path without the given pages to a temporary
// file next to it, then swaps the copy in. pdfcpu interprets the whole
// selection against the original document, and its writer drops
// unreferenced objects, so the output is both consistent and compact.
func rewrite(path string, pages []int) error {
	sel := make([]string, len(pages))
	for i, p := range pages {
		sel[i] = strconv.Itoa(p + 1) // pdfcpu selections are one-based
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()

	if err := api.RemovePagesFile(path, tmpPath, sel, model.NewDefaultConfiguration()); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rewrite without pages %v: %w", pages, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace original: %w", err)
	}
	return nil
}

// dedupe sorts and deduplicates page indices.
func dedupe(pages []int) []int {
	if len(pages) == 0 {
		return nil
	}
	sorted := append([]int(nil), pages...)
	sort.Ints(sorted)
	out := sorted[:1]
	for _, p := range sorted[1:] {
		if p != out[len(out)-1] {
			out = append(out, p)
		}
	}
	return out
}
