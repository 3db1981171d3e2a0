package catalog

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tsawler/folio/metadata"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "data", "catalog.db"), zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// TestPutGet tests the store round trip for a flattened record.
func TestPutGet(t *testing.T) {
	store := openStore(t)

	rec := metadata.Record{
		Title:     "Engineering a Compiler",
		Author:    "Keith D. Cooper, Linda Torczon",
		ISBN:      "9780120884780",
		PageCount: 824,
	}
	entry := Entry{ID: "b1", StoredName: StoredName("upload.pdf"), Fields: rec.Flat()}
	if err := store.Put(entry); err != nil {
		t.Fatal(err)
	}

	got, err := store.Get("b1")
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != "b1" || got.StoredName != entry.StoredName {
		t.Errorf("got ID %q stored name %q", got.ID, got.StoredName)
	}
	if got.Fields["title"] != "Engineering a Compiler" {
		t.Errorf("title = %q", got.Fields["title"])
	}
	if got.Fields["isbn"] != "9780120884780" {
		t.Errorf("isbn = %q", got.Fields["isbn"])
	}
	if got.Fields["pages"] != "824" {
		t.Errorf("pages = %q", got.Fields["pages"])
	}
}

// TestPutISBNFallback tests that an empty isbn is backfilled from the
// doi without touching the caller's map.
func TestPutISBNFallback(t *testing.T) {
	store := openStore(t)

	fields := metadata.Record{DOI: "10.1000/182"}.Flat()
	if err := store.Put(Entry{ID: "b2", Fields: fields}); err != nil {
		t.Fatal(err)
	}

	got, err := store.Get("b2")
	if err != nil {
		t.Fatal(err)
	}
	if got.Fields["isbn"] != "10.1000/182" {
		t.Errorf("isbn = %q, want the doi", got.Fields["isbn"])
	}
	if got.Fields["doi"] != "10.1000/182" {
		t.Errorf("doi = %q", got.Fields["doi"])
	}
	if fields["isbn"] != "" {
		t.Errorf("caller's map was mutated: isbn = %q", fields["isbn"])
	}
}

// TestPutNoFallbackWhenSet tests that a recovered isbn survives.
func TestPutNoFallbackWhenSet(t *testing.T) {
	store := openStore(t)

	fields := metadata.Record{ISBN: "0072194847", DOI: "10.1000/182"}.Flat()
	if err := store.Put(Entry{ID: "b3", Fields: fields}); err != nil {
		t.Fatal(err)
	}

	got, err := store.Get("b3")
	if err != nil {
		t.Fatal(err)
	}
	if got.Fields["isbn"] != "0072194847" {
		t.Errorf("isbn = %q", got.Fields["isbn"])
	}
}

// TestPutRequiresID tests the empty-ID rejection.
func TestPutRequiresID(t *testing.T) {
	store := openStore(t)
	if err := store.Put(Entry{}); err == nil {
		t.Error("expected an error for an entry with no ID")
	}
}

// TestGetMissing tests the not-found sentinel.
func TestGetMissing(t *testing.T) {
	store := openStore(t)
	if _, err := store.Get("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

// TestList tests ordered listing.
func TestList(t *testing.T) {
	store := openStore(t)
	for _, id := range []string{"c", "a", "b"} {
		if err := store.Put(Entry{ID: id, Fields: map[string]string{"title": id}}); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	for i, want := range []string{"a", "b", "c"} {
		if entries[i].ID != want {
			t.Errorf("entries[%d].ID = %q, want %q", i, entries[i].ID, want)
		}
	}
}

// TestReopen tests that entries survive a close and reopen.
func TestReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")

	store, err := Open(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Put(Entry{ID: "keep", Fields: map[string]string{"title": "still here"}}); err != nil {
		t.Fatal(err)
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	store, err = Open(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	got, err := store.Get("keep")
	if err != nil {
		t.Fatal(err)
	}
	if got.Fields["title"] != "still here" {
		t.Errorf("title = %q", got.Fields["title"])
	}
}

// TestStoredName tests the uuid-plus-extension naming rule.
func TestStoredName(t *testing.T) {
	name := StoredName("My Book (final) v2.pdf")
	if !strings.HasSuffix(name, ".pdf") {
		t.Errorf("name %q does not keep the extension", name)
	}
	if _, err := uuid.Parse(strings.TrimSuffix(name, ".pdf")); err != nil {
		t.Errorf("name %q is not uuid-based: %v", name, err)
	}
	if StoredName("a.pdf") == StoredName("a.pdf") {
		t.Error("stored names must be unique per call")
	}
	if ext := filepath.Ext(StoredName("archive.tar.epub")); ext != ".epub" {
		t.Errorf("extension %q, want .epub", ext)
	}
}
