// Package thumbnail renders first-page cover thumbnails for PDF
// documents.
//
// Rendering is tried in process first. When that fails, for example
// on a damaged cross-reference table the embedded engine refuses, the
// package shells out to poppler's pdftoppm and downscales its output.
// Callers get a bool rather than an error: catalogs treat a missing
// thumbnail as cosmetic.
package thumbnail

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/image/draw"

	"github.com/tsawler/folio/document"
)

// Options bounds the rendered thumbnail. The zero value takes the
// defaults from DefaultOptions.
type Options struct {
	// MaxWidth and MaxHeight bound the output image; the page is
	// scaled to fit inside them with its aspect ratio kept.
	MaxWidth  int `yaml:"max_width"`
	MaxHeight int `yaml:"max_height"`
	// FallbackDPI is the render resolution handed to pdftoppm when
	// the in-process renderer fails.
	FallbackDPI int `yaml:"fallback_dpi"`
}

// DefaultOptions returns the standard cover-thumbnail bounds.
func DefaultOptions() Options {
	return Options{MaxWidth: 300, MaxHeight: 450, FallbackDPI: 150}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.MaxWidth <= 0 {
		o.MaxWidth = def.MaxWidth
	}
	if o.MaxHeight <= 0 {
		o.MaxHeight = def.MaxHeight
	}
	if o.FallbackDPI <= 0 {
		o.FallbackDPI = def.FallbackDPI
	}
	return o
}

// Generate renders the first page of the document at path into a PNG
// at outPath, scaled to fit the Options box. It reports success;
// failures are logged and absorbed because a missing thumbnail is not
// worth failing an ingest over.
func Generate(path, outPath string, opts Options, logger *zap.Logger) bool {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts = opts.withDefaults()

	err := renderFitz(path, outPath, opts)
	if err == nil {
		logger.Debug("thumbnail rendered", zap.String("path", path), zap.String("out", outPath))
		return true
	}
	logger.Debug("in-process render failed", zap.String("path", path), zap.Error(err))

	if err := renderPdftoppm(path, outPath, opts); err != nil {
		logger.Warn("thumbnail generation failed", zap.String("path", path), zap.Error(err))
		return false
	}
	logger.Debug("thumbnail rendered by pdftoppm", zap.String("path", path), zap.String("out", outPath))
	return true
}

// renderFitz renders page 0 with the embedded engine, scaled so the
// page fits the bounding box.
func renderFitz(path, outPath string, opts Options) error {
	doc, err := document.Open(path)
	if err != nil {
		return err
	}
	defer doc.Close()

	if doc.PageCount() == 0 {
		return errors.New("document has no pages")
	}
	bounds, err := doc.Bounds(0)
	if err != nil {
		return err
	}
	w, h := float64(bounds.Dx()), float64(bounds.Dy())
	if w <= 0 || h <= 0 {
		return fmt.Errorf("page 0 has degenerate bounds %v", bounds)
	}
	zoom := min(float64(opts.MaxWidth)/w, float64(opts.MaxHeight)/h)
	data, err := doc.RenderPNG(0, zoom)
	if err != nil {
		return err
	}
	return os.WriteFile(outPath, data, 0644)
}

// renderPdftoppm shells out to poppler for the first page, then
// downscales the result to fit the bounding box.
func renderPdftoppm(path, outPath string, opts Options) error {
	bin, err := exec.LookPath("pdftoppm")
	if err != nil {
		return fmt.Errorf("no fallback renderer: %w", err)
	}

	dir, err := os.MkdirTemp("", "thumb-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)

	prefix := filepath.Join(dir, "page")
	cmd := exec.Command(bin, "-f", "1", "-l", "1", "-r", strconv.Itoa(opts.FallbackDPI), "-png", path, prefix)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("pdftoppm: %v: %s", err, bytes.TrimSpace(out))
	}

	rendered, err := firstRendered(prefix)
	if err != nil {
		return err
	}
	src, err := readPNG(rendered)
	if err != nil {
		return err
	}
	return writePNG(outPath, fit(src, opts.MaxWidth, opts.MaxHeight))
}

// firstRendered finds the page image pdftoppm wrote. The page-number
// suffix is zero-padded by document length, so the name is globbed
// rather than predicted.
func firstRendered(prefix string) (string, error) {
	matches, err := filepath.Glob(prefix + "-*.png")
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", errors.New("pdftoppm produced no output")
	}
	sort.Strings(matches)
	return matches[0], nil
}

// fit scales src down to fit within maxW by maxH, keeping the aspect
// ratio. Images already inside the box pass through untouched.
func fit(src image.Image, maxW, maxH int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxW && h <= maxH {
		return src
	}
	scale := min(float64(maxW)/float64(w), float64(maxH)/float64(h))
	dw := max(int(float64(w)*scale), 1)
	dh := max(int(float64(h)*scale), 1)
	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

func readPNG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return img, nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
