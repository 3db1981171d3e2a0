// Package catalog stores extracted book records in a bbolt file.
//
// The catalog is the consuming side of an ingest: documents are
// renamed with StoredName, their recovered metadata is flattened into
// string fields, and entries are kept under caller-chosen IDs. The
// store applies the one schema rule consumers rely on: an empty isbn
// field is backfilled from the doi, so the identifier column is
// populated whenever either was recovered.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"
)

var bookBucket = []byte("books")

// ErrNotFound is returned by Get when no entry has the given ID.
var ErrNotFound = errors.New("catalog: entry not found")

// Entry is one stored book: the name its document is kept under on
// disk plus the flat metadata fields.
type Entry struct {
	ID         string            `json:"id"`
	StoredName string            `json:"stored_name"`
	Fields     map[string]string `json:"fields"`
}

// Store persists book entries in a single bbolt file. It is safe for
// concurrent use.
type Store struct {
	db  *bolt.DB
	log *zap.Logger
}

// Open opens or creates the catalog database at path, creating parent
// directories as needed.
func Open(path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create catalog directory: %w", err)
	}
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bookBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create bucket: %w", err)
	}
	return &Store{db: db, log: logger}, nil
}

// StoredName builds the name a document is kept under on disk: a
// fresh UUID with the original extension. Uploaded names never reach
// the filesystem.
func StoredName(original string) string {
	return uuid.NewString() + filepath.Ext(original)
}

// Put stores the entry under its ID, replacing any previous version.
// An empty isbn field is backfilled from the doi; the caller's map is
// left untouched.
func (s *Store) Put(e Entry) error {
	if e.ID == "" {
		return errors.New("catalog: entry has no ID")
	}
	fields := make(map[string]string, len(e.Fields))
	for k, v := range e.Fields {
		fields[k] = v
	}
	if fields["isbn"] == "" && fields["doi"] != "" {
		fields["isbn"] = fields["doi"]
	}
	e.Fields = fields

	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode entry %s: %w", e.ID, err)
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bookBucket).Put([]byte(e.ID), data)
	})
	if err != nil {
		return fmt.Errorf("store entry %s: %w", e.ID, err)
	}
	s.log.Debug("entry stored", zap.String("id", e.ID), zap.String("stored_name", e.StoredName))
	return nil
}

// Get returns the entry stored under id.
func (s *Store) Get(id string) (Entry, error) {
	var e Entry
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bookBucket).Get([]byte(id))
		if data == nil {
			return ErrNotFound
		}
		return json.Unmarshal(data, &e)
	})
	if err != nil {
		return Entry{}, err
	}
	return e, nil
}

// List returns every entry ordered by ID.
func (s *Store) List() ([]Entry, error) {
	var entries []Entry
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bookBucket).ForEach(func(k, v []byte) error {
			var e Entry
			if err := json.Unmarshal(v, &e); err != nil {
				return fmt.Errorf("decode entry %s: %w", k, err)
			}
			entries = append(entries, e)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return entries, nil
}

// Close closes the underlying database. It is safe to call on a nil
// or already closed store.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
