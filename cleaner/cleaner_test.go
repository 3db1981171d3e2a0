package cleaner

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/tsawler/folio/document"
	"github.com/tsawler/folio/internal/pdfgen"
	"github.com/tsawler/folio/watermark"
)

func writePDF(t *testing.T, pages []string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.pdf")
	if err := os.WriteFile(path, pdfgen.Build(pages, nil), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// pageTexts reads back every page of the file at path.
func pageTexts(t *testing.T, path string) []string {
	t.Helper()
	doc, err := document.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer doc.Close()
	texts := make([]string, doc.PageCount())
	for i := range texts {
		text, err := doc.Text(i)
		if err != nil {
			t.Fatal(err)
		}
		texts[i] = text
	}
	return texts
}

func checkInvariants(t *testing.T, res Result, originalCount int) {
	t.Helper()
	if res.RemovedCount != len(res.Removed) {
		t.Errorf("RemovedCount = %d, len(Removed) = %d", res.RemovedCount, len(res.Removed))
	}
	if res.PageCount+res.RemovedCount != originalCount {
		t.Errorf("PageCount %d + RemovedCount %d != original %d",
			res.PageCount, res.RemovedCount, originalCount)
	}
	for i, p := range res.Removed {
		if p < 0 || p >= originalCount {
			t.Errorf("Removed[%d] = %d outside original document", i, p)
		}
		if i > 0 && res.Removed[i-1] >= p {
			t.Errorf("Removed not strictly ascending: %v", res.Removed)
		}
	}
}

// TestRemovePages tests that indices are interpreted against the
// original numbering regardless of request order.
func TestRemovePages(t *testing.T) {
	path := writePDF(t, []string{
		"page zero keep", "page one drop", "page two drop",
		"page three keep", "page four drop", "page five keep",
	})

	res, err := RemovePages(path, []int{4, 1, 4, 2})
	if err != nil {
		t.Fatal(err)
	}
	checkInvariants(t, res, 6)
	if res.PageCount != 3 || res.RemovedCount != 3 {
		t.Fatalf("Result = %+v", res)
	}

	texts := pageTexts(t, path)
	if len(texts) != 3 {
		t.Fatalf("file has %d pages, want 3", len(texts))
	}
	for i, want := range []string{"page zero keep", "page three keep", "page five keep"} {
		if !strings.Contains(texts[i], want) {
			t.Errorf("page %d = %q, want %q", i, texts[i], want)
		}
	}
}

// TestRemovePagesOutOfRange tests the all-or-nothing validation.
func TestRemovePagesOutOfRange(t *testing.T) {
	path := writePDF(t, []string{"a", "b", "c"})

	_, err := RemovePages(path, []int{0, 99, -1})
	var re *RemovalError
	if !errors.As(err, &re) {
		t.Fatalf("want *RemovalError, got %v", err)
	}
	if re.Count != 3 || len(re.Pages) != 2 {
		t.Errorf("RemovalError = %+v", re)
	}

	// Valid index 0 must not have been removed.
	if texts := pageTexts(t, path); len(texts) != 3 {
		t.Errorf("file has %d pages after failed removal, want 3", len(texts))
	}
}

// TestRemovePagesEmpty tests that an empty request is a no-op.
func TestRemovePagesEmpty(t *testing.T) {
	path := writePDF(t, []string{"a", "b"})
	before, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	res, err := RemovePages(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.PageCount != 2 || res.RemovedCount != 0 || res.Removed != nil {
		t.Errorf("Result = %+v", res)
	}

	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(before) != string(after) {
		t.Error("no-op request rewrote the file")
	}
}

// TestRemovePagesMissingFile tests the unreadable-file error path.
func TestRemovePagesMissingFile(t *testing.T) {
	_, err := RemovePages(filepath.Join(t.TempDir(), "gone.pdf"), []int{0})
	var oe *document.OpenError
	if !errors.As(err, &oe) {
		t.Fatalf("want *document.OpenError, got %v", err)
	}
}

// TestRemovePagesLeavesNoTemp tests that failed rewrites do not litter
// the directory.
func TestRemovePagesLeavesNoTemp(t *testing.T) {
	path := writePDF(t, []string{"a", "b", "c"})
	if _, err := RemovePages(path, []int{7}); err == nil {
		t.Fatal("expected error")
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.Contains(e.Name(), ".tmp-") {
			t.Errorf("leftover temp file %s", e.Name())
		}
	}
}

// TestRemoveSingle tests one-based single page removal.
func TestRemoveSingle(t *testing.T) {
	path := writePDF(t, []string{"first", "second", "third"})

	count, err := RemoveSingle(path, 1)
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("new count = %d, want 2", count)
	}
	texts := pageTexts(t, path)
	if !strings.Contains(texts[0], "second") {
		t.Errorf("page 0 = %q, want the old second page", texts[0])
	}

	if _, err := RemoveSingle(path, 0); err == nil {
		t.Error("page number 0 should be rejected")
	}
	if _, err := RemoveSingle(path, 99); err == nil {
		t.Error("page number past the end should be rejected")
	}
}

// TestAutoClean tests detection plus removal plus idempotency in one
// pass over a typical polluted book.
func TestAutoClean(t *testing.T) {
	body := strings.Repeat("Ordinary prose about the subject matter. ", 10)
	path := writePDF(t, []string{
		"The Example Book\nA. Author",
		"Uploaded by ebook-warez " + body,
		body + " chapter one",
		"www.adsite.example",
		body + " chapter two",
	})

	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core)

	res, err := AutoClean(path, nil, logger)
	if err != nil {
		t.Fatal(err)
	}
	checkInvariants(t, res, 5)
	if res.PageCount != 3 {
		t.Errorf("PageCount = %d, want 3", res.PageCount)
	}
	if len(res.Removed) != 2 || res.Removed[0] != 1 || res.Removed[1] != 3 {
		t.Errorf("Removed = %v, want [1 3]", res.Removed)
	}

	if got := logs.FilterMessage("flagged ad page").Len(); got != 2 {
		t.Errorf("flagged ad page logged %d times, want 2", got)
	}
	if logs.FilterMessage("removed ad pages").Len() != 1 {
		t.Error("expected a removal summary log entry")
	}

	texts := pageTexts(t, path)
	for i, text := range texts {
		lower := strings.ToLower(text)
		if strings.Contains(lower, "uploaded by") || strings.Contains(lower, "adsite") {
			t.Errorf("page %d still carries ad text: %q", i, text)
		}
	}

	// Second run: nothing left to do, file untouched.
	before, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	res2, err := AutoClean(path, nil, logger)
	if err != nil {
		t.Fatal(err)
	}
	if res2.RemovedCount != 0 || res2.PageCount != 3 {
		t.Errorf("second run Result = %+v, want no removals", res2)
	}
	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(before) != string(after) {
		t.Error("idempotent run rewrote the file")
	}
}

// TestAutoCleanCustomDetector tests cleaning with a caller-supplied
// pattern set.
func TestAutoCleanCustomDetector(t *testing.T) {
	body := strings.Repeat("Plain page text for padding out the page. ", 8)
	path := writePDF(t, []string{body, "REVIEW COPY stamp " + body, body})

	det, err := watermark.New(watermark.Config{Patterns: []string{`review\s*copy`}})
	if err != nil {
		t.Fatal(err)
	}
	res, err := AutoClean(path, det, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.RemovedCount != 1 || res.Removed[0] != 1 {
		t.Errorf("Result = %+v, want page 1 removed", res)
	}
}
