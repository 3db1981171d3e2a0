// Package pdfgen builds small, valid PDF files in memory for tests.
//
// The generated files carry a correct cross-reference table, one content
// stream per page with 12pt Helvetica text, and an optional document
// information dictionary. They are minimal but standards-conformant, so
// both MuPDF and pdfcpu parse them without repair.
//
//	raw := pdfgen.Build([]string{"page one text", "page two text"}, nil)
//	os.WriteFile(path, raw, 0644)
//
// Multi-line pages are written one text-show operation per line:
//
//	pdfgen.Build([]string{"Title Line\nAuthor Name"}, &pdfgen.Info{Title: "T"})
package pdfgen

import (
	"fmt"
	"strings"
)

// Info holds the fields of a PDF document information dictionary.
// Empty fields are omitted from the generated dictionary.
type Info struct {
	Title        string
	Author       string
	Subject      string
	Keywords     string
	Creator      string
	Producer     string
	CreationDate string // raw PDF date string, e.g. "D:20240102150405Z"
}

// Build returns a complete PDF file with one page per entry of pages.
// Each entry may contain newlines; lines are drawn top-down starting at
// the upper left of a US Letter page. A nil info omits the information
// dictionary entirely, which most readers report as "no metadata".
func Build(pages []string, info *Info) []byte {
	if len(pages) == 0 {
		pages = []string{""}
	}

	// Object numbering: 1 catalog, 2 page tree, 3 font, then for page i
	// (0-based) object 4+2i is the page and 5+2i its content stream. The
	// info dictionary, when present, takes the next free number.
	pageObj := func(i int) int { return 4 + 2*i }
	contObj := func(i int) int { return 5 + 2*i }
	infoObj := 4 + 2*len(pages)

	total := 3 + 2*len(pages)
	if info != nil {
		total++
	}

	offsets := make([]int, total+1)
	var b strings.Builder
	b.WriteString("%PDF-1.4\n")

	writeObj := func(num int, body string) {
		offsets[num] = b.Len()
		fmt.Fprintf(&b, "%d 0 obj\n%s\nendobj\n", num, body)
	}

	writeObj(1, "<< /Type /Catalog /Pages 2 0 R >>")

	var kids strings.Builder
	for i := range pages {
		if i > 0 {
			kids.WriteByte(' ')
		}
		fmt.Fprintf(&kids, "%d 0 R", pageObj(i))
	}
	writeObj(2, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", kids.String(), len(pages)))

	writeObj(3, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>")

	for i, text := range pages {
		writeObj(pageObj(i), fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents %d 0 R /Resources << /Font << /F1 3 0 R >> >> >>",
			contObj(i)))

		stream := contentStream(text)
		offsets[contObj(i)] = b.Len()
		fmt.Fprintf(&b, "%d 0 obj\n<< /Length %d >>\nstream\n%s\nendstream\nendobj\n",
			contObj(i), len(stream), stream)
	}

	if info != nil {
		writeObj(infoObj, infoDict(info))
	}

	xref := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n", total+1)
	b.WriteString("0000000000 65535 f \n")
	for num := 1; num <= total; num++ {
		fmt.Fprintf(&b, "%010d 00000 n \n", offsets[num])
	}

	b.WriteString("trailer\n<< /Size ")
	fmt.Fprintf(&b, "%d /Root 1 0 R", total+1)
	if info != nil {
		fmt.Fprintf(&b, " /Info %d 0 R", infoObj)
	}
	fmt.Fprintf(&b, " >>\nstartxref\n%d\n%%%%EOF\n", xref)

	return []byte(b.String())
}

// contentStream renders each line of text as a separate show operation.
// The leading is 14pt so consecutive lines read as separate lines to
// text extractors.
func contentStream(text string) string {
	var s strings.Builder
	s.WriteString("BT\n/F1 12 Tf\n14 TL\n72 720 Td\n")
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			s.WriteString("T*\n")
		}
		fmt.Fprintf(&s, "(%s) Tj\n", escape(line))
	}
	s.WriteString("ET")
	return s.String()
}

func infoDict(info *Info) string {
	var s strings.Builder
	s.WriteString("<<")
	add := func(key, val string) {
		if val != "" {
			fmt.Fprintf(&s, " /%s (%s)", key, escape(val))
		}
	}
	add("Title", info.Title)
	add("Author", info.Author)
	add("Subject", info.Subject)
	add("Keywords", info.Keywords)
	add("Creator", info.Creator)
	add("Producer", info.Producer)
	add("CreationDate", info.CreationDate)
	s.WriteString(" >>")
	return s.String()
}

// escape protects the PDF literal-string delimiters.
func escape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "(", `\(`)
	s = strings.ReplaceAll(s, ")", `\)`)
	return s
}
