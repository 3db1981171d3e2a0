package thumbnail

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/tsawler/folio/internal/pdfgen"
)

func writePDF(t *testing.T, pages []string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.pdf")
	if err := os.WriteFile(path, pdfgen.Build(pages, nil), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func decodePNG(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode thumbnail: %v", err)
	}
	return img
}

// TestGenerate tests rendering a thumbnail that fits the default box.
func TestGenerate(t *testing.T) {
	path := writePDF(t, []string{"The Cover Page", "second page"})
	out := filepath.Join(t.TempDir(), "thumb.png")

	if !Generate(path, out, Options{}, zap.NewNop()) {
		t.Fatal("Generate reported failure")
	}

	img := decodePNG(t, out)
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if w > 301 || h > 451 {
		t.Errorf("thumbnail %dx%d exceeds the 300x450 box", w, h)
	}
	// A letter page is width-bound in the default box.
	if w < 295 {
		t.Errorf("width %d, want close to 300", w)
	}
}

// TestGenerateCustomSize tests that a square box binds a letter page
// by height.
func TestGenerateCustomSize(t *testing.T) {
	path := writePDF(t, []string{"cover"})
	out := filepath.Join(t.TempDir(), "thumb.png")

	if !Generate(path, out, Options{MaxWidth: 100, MaxHeight: 100}, nil) {
		t.Fatal("Generate reported failure")
	}

	img := decodePNG(t, out)
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if h < 99 || h > 101 {
		t.Errorf("height %d, want close to 100", h)
	}
	if w > 79 {
		t.Errorf("width %d, want under 80 to keep the aspect ratio", w)
	}
}

// TestGenerateMissingFile tests that failures come back as false with
// no output file.
func TestGenerateMissingFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "thumb.png")
	if Generate(filepath.Join(t.TempDir(), "absent.pdf"), out, Options{}, zap.NewNop()) {
		t.Fatal("Generate reported success for a missing document")
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Errorf("unexpected output file state: %v", err)
	}
}

// TestFit tests the aspect-preserving downscale.
func TestFit(t *testing.T) {
	tests := []struct {
		name         string
		srcW, srcH   int
		wantW, wantH int
	}{
		{"wide image scales by width", 1000, 500, 300, 150},
		{"tall image scales by height", 500, 1000, 225, 450},
		{"small image passes through", 100, 100, 100, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := image.NewRGBA(image.Rect(0, 0, tt.srcW, tt.srcH))
			got := fit(src, 300, 450)
			if w, h := got.Bounds().Dx(), got.Bounds().Dy(); w != tt.wantW || h != tt.wantH {
				t.Errorf("fit() = %dx%d, want %dx%d", w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

// TestFirstRendered tests locating pdftoppm's zero-padded output.
func TestFirstRendered(t *testing.T) {
	dir := t.TempDir()
	prefix := filepath.Join(dir, "page")

	if _, err := firstRendered(prefix); err == nil {
		t.Error("expected an error with no rendered pages")
	}

	if err := os.WriteFile(prefix+"-01.png", []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	got, err := firstRendered(prefix)
	if err != nil {
		t.Fatal(err)
	}
	if got != prefix+"-01.png" {
		t.Errorf("firstRendered() = %q", got)
	}
}

// TestOptionsWithDefaults tests zero-value normalization.
func TestOptionsWithDefaults(t *testing.T) {
	got := Options{}.withDefaults()
	if got != DefaultOptions() {
		t.Errorf("withDefaults() = %+v", got)
	}

	got = Options{MaxWidth: 64}.withDefaults()
	if got.MaxWidth != 64 || got.MaxHeight != 450 || got.FallbackDPI != 150 {
		t.Errorf("withDefaults() = %+v", got)
	}
}
