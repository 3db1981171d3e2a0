package document

import (
	"os"
	"strings"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// Info holds the document information dictionary of a PDF. Fields the
// file does not set are empty strings; unparseable or absent dates are
// the zero time.
type Info struct {
	Title    string
	Author   string
	Subject  string
	Keywords string
	Creator  string
	Producer string

	CreationDate time.Time
	ModDate      time.Time
}

// Info returns the embedded document information. Files written without
// an information dictionary return the zero Info.
func (d *Document) Info() Info {
	if d.closed {
		return Info{}
	}
	meta := d.fz.Metadata()
	return Info{
		Title:        strings.TrimSpace(meta["title"]),
		Author:       strings.TrimSpace(meta["author"]),
		Subject:      strings.TrimSpace(meta["subject"]),
		Keywords:     strings.TrimSpace(meta["keywords"]),
		Creator:      strings.TrimSpace(meta["creator"]),
		Producer:     strings.TrimSpace(meta["producer"]),
		CreationDate: parseDate(meta["creationDate"]),
		ModDate:      parseDate(meta["modDate"]),
	}
}

// parseDate parses a PDF date string such as "D:20240102150405Z".
// Relaxed mode tolerates the malformed variants real-world tools emit;
// anything still unparseable becomes the zero time.
func parseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	t, ok := types.DateTime(s, true)
	if !ok {
		return time.Time{}
	}
	return t
}

// FileInfo is the administrative summary of a PDF file on disk.
type FileInfo struct {
	Path      string
	PageCount int
	Size      int64
	Info      Info
}

// Stat opens the file at path just long enough to gather its summary.
func Stat(path string) (FileInfo, error) {
	st, err := os.Stat(path)
	if err != nil {
		return FileInfo{}, &OpenError{Path: path, Err: err}
	}
	doc, err := Open(path)
	if err != nil {
		return FileInfo{}, err
	}
	defer doc.Close()

	return FileInfo{
		Path:      path,
		PageCount: doc.PageCount(),
		Size:      st.Size(),
		Info:      doc.Info(),
	}, nil
}
