package metadata

import (
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/tsawler/folio/cover"
	"github.com/tsawler/folio/document"
	"github.com/tsawler/folio/langid"
)

// Source supplies the document views the pipeline reads. A
// *document.Document satisfies it.
type Source interface {
	PageCount() int
	Text(i int) (string, error)
	RenderPNG(i int, zoom float64) ([]byte, error)
	Info() document.Info
}

// TextRecognizer turns a rendered page image into text. An OCR-built
// *ocr.Client satisfies it. A nil recognizer disables the OCR stages.
type TextRecognizer interface {
	RecognizeImage(imageData []byte) (string, error)
}

// LanguageIdentifier guesses the language of a text sample.
// *langid.Identifier satisfies it. A nil identifier disables the
// language stage.
type LanguageIdentifier interface {
	Identify(text string) (code string, ok bool)
}

// Pipeline recovers bibliographic metadata from a document by running
// a fixed sequence of stages. Each stage only fills fields earlier
// stages left empty, so cheap sources always win over recovered ones.
type Pipeline struct {
	cfg  Config
	rec  TextRecognizer
	lang LanguageIdentifier
	log  *zap.Logger
}

// NewPipeline builds a pipeline. rec, lang, and logger may each be
// nil; a nil recognizer or identifier skips the stages that need it.
func NewPipeline(cfg Config, rec TextRecognizer, lang LanguageIdentifier, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{cfg: cfg.withDefaults(), rec: rec, lang: lang, log: logger}
}

// Extract runs every stage against src and returns the recovered
// record. Stages that produce nothing leave their fields empty;
// Extract itself never fails.
func (p *Pipeline) Extract(src Source) Record {
	var r Record
	r.PageCount = src.PageCount()

	p.fillEmbedded(&r, src)
	p.scanIdentifiers(&r, src)
	p.scanPublicationDate(&r, src)
	p.ocrIdentifiers(&r, src)
	p.ocrCover(&r, src)
	p.scanAuthors(&r, src)
	p.describe(&r, src)
	p.identifyLanguage(&r, src)
	return r
}

// ExtractFile opens the document at path, extracts its metadata, and
// closes it again.
func (p *Pipeline) ExtractFile(path string) (Record, error) {
	doc, err := document.Open(path)
	if err != nil {
		return Record{}, err
	}
	defer doc.Close()

	rec := p.Extract(doc)
	p.log.Info("metadata extracted",
		zap.String("path", path),
		zap.String("title", rec.Title),
		zap.String("author", rec.Author),
		zap.Int("pages", rec.PageCount))
	return rec, nil
}

// fill sets *dst to value when *dst is empty and value is not,
// logging which stage supplied the field.
func (p *Pipeline) fill(dst *string, value, field, stage string) bool {
	value = strings.TrimSpace(value)
	if *dst != "" || value == "" {
		return false
	}
	*dst = value
	p.log.Debug("field filled", zap.String("field", field), zap.String("stage", stage))
	return true
}

// fillEmbedded copies the document's embedded info dictionary into
// the record. The subject doubles as a description until a better one
// is mined from the text.
func (p *Pipeline) fillEmbedded(r *Record, src Source) {
	info := src.Info()
	p.fill(&r.Title, info.Title, "title", "embedded")
	p.fill(&r.Author, info.Author, "author", "embedded")
	p.fill(&r.Subject, info.Subject, "subject", "embedded")
	p.fill(&r.Description, info.Subject, "description", "embedded")
	p.fill(&r.Keywords, info.Keywords, "keywords", "embedded")
	p.fill(&r.Creator, info.Creator, "creator", "embedded")
	p.fill(&r.Producer, info.Producer, "producer", "embedded")
	if !info.CreationDate.IsZero() {
		r.CreationDate = info.CreationDate
	}
}

// scanIdentifiers searches page text for ISBN and DOI labels, first
// across the front of the document and then across the last few
// pages, where some publishers put the printing data.
func (p *Pipeline) scanIdentifiers(r *Record, src Source) {
	count := src.PageCount()
	scan := func(from, to int) {
		for i := from; i < to && (r.ISBN == "" || r.DOI == ""); i++ {
			text, err := src.Text(i)
			if err != nil {
				continue
			}
			if r.ISBN == "" {
				if isbn := FindISBN(text); isbn != "" {
					r.ISBN = isbn
					p.log.Debug("field filled", zap.String("field", "isbn"), zap.String("stage", "text-scan"), zap.Int("page", i))
				}
			}
			if r.DOI == "" {
				if doi := FindDOI(text); doi != "" {
					r.DOI = doi
					p.log.Debug("field filled", zap.String("field", "doi"), zap.String("stage", "text-scan"), zap.Int("page", i))
				}
			}
		}
	}
	scan(0, min(p.cfg.FrontPages, count))
	if r.ISBN == "" || r.DOI == "" {
		scan(max(0, count-p.cfg.BackPages), count)
	}
}

// scanPublicationDate searches the front pages for a publication or
// copyright date. The first page with a match wins.
func (p *Pipeline) scanPublicationDate(r *Record, src Source) {
	if r.PublicationDate != "" {
		return
	}
	count := src.PageCount()
	for i := 0; i < min(p.cfg.DatePages, count); i++ {
		text, err := src.Text(i)
		if err != nil {
			continue
		}
		if date := findPublicationDate(text); date != "" {
			r.PublicationDate = date
			p.log.Debug("field filled", zap.String("field", "publication_date"), zap.String("stage", "text-scan"), zap.Int("page", i))
			return
		}
	}
}

// ocrIdentifiers renders the pages after the cover and runs the
// recognizer over them when the text scans left an identifier empty.
// Scanned books carry their ISBN as pixels, not text.
func (p *Pipeline) ocrIdentifiers(r *Record, src Source) {
	if p.rec == nil || (r.ISBN != "" && r.DOI != "") {
		return
	}
	count := src.PageCount()
	for i := 1; i <= min(p.cfg.OCRScanPages, count-1); i++ {
		text, ok := p.recognizePage(src, i)
		if !ok {
			continue
		}
		if r.ISBN == "" {
			if isbn := FindISBN(text); isbn != "" {
				r.ISBN = isbn
				p.log.Debug("field filled", zap.String("field", "isbn"), zap.String("stage", "ocr"), zap.Int("page", i))
			}
		}
		if r.DOI == "" {
			if doi := FindDOI(text); doi != "" {
				r.DOI = doi
				p.log.Debug("field filled", zap.String("field", "doi"), zap.String("stage", "ocr"), zap.Int("page", i))
			}
		}
		if r.ISBN != "" && r.DOI != "" {
			return
		}
	}
}

// ocrCover recognizes the cover page and parses its layout for title,
// author, publisher, and ISBN.
func (p *Pipeline) ocrCover(r *Record, src Source) {
	if p.rec == nil || (r.Title != "" && r.Author != "") {
		return
	}
	if src.PageCount() == 0 {
		return
	}
	text, ok := p.recognizePage(src, 0)
	if !ok {
		return
	}
	fields := cover.Parse(text, p.cfg.Cover)
	p.fill(&r.Title, fields.Title, "title", "cover-ocr")
	p.fill(&r.Author, fields.Author, "author", "cover-ocr")
	p.fill(&r.Publisher, fields.Publisher, "publisher", "cover-ocr")
	p.fill(&r.ISBN, fields.ISBN, "isbn", "cover-ocr")
}

// recognizePage renders page i and runs the recognizer over the
// image. Failures are logged and reported as a miss.
func (p *Pipeline) recognizePage(src Source, i int) (string, bool) {
	png, err := src.RenderPNG(i, p.cfg.OCRZoom)
	if err != nil {
		p.log.Debug("page render failed", zap.Int("page", i), zap.Error(err))
		return "", false
	}
	text, err := p.rec.RecognizeImage(png)
	if err != nil {
		p.log.Debug("recognition failed", zap.Int("page", i), zap.Error(err))
		return "", false
	}
	return text, true
}

// scanAuthors reads the first page's lines for author names when the
// earlier stages produced nothing usable. An author of "admin" or a
// lone surname fails the validity check and gets replaced.
func (p *Pipeline) scanAuthors(r *Record, src Source) {
	if r.Author != "" && isValidAuthor(r.Author) {
		return
	}
	if src.PageCount() == 0 {
		return
	}
	text, err := src.Text(0)
	if err != nil {
		return
	}
	if names := findAuthors(text, p.cfg); names != "" {
		r.Author = names
		p.log.Debug("field filled", zap.String("field", "author"), zap.String("stage", "author-scan"))
	}
}

// describe mines introduction-like pages for a description paragraph
// when no embedded subject provided one. A long heading found on the
// way doubles as a recovered title for documents with none.
func (p *Pipeline) describe(r *Record, src Source) {
	if r.Description != "" {
		return
	}
	page, keyword, ok := findDescriptionPage(src, p.cfg)
	if !ok {
		return
	}
	text, err := src.Text(page)
	if err != nil {
		return
	}
	desc, heading := mineDescription(text, keyword, p.cfg)
	if desc != "" {
		r.Description = desc
		p.log.Debug("field filled", zap.String("field", "description"), zap.String("stage", "description"), zap.Int("page", page))
	}
	if heading != "" && utf8.RuneCountInString(heading) > 15 {
		switch strings.ToLower(r.Title) {
		case "", "title", "untitled":
			r.Title = heading
			p.log.Debug("field filled", zap.String("field", "title"), zap.String("stage", "description"))
		}
	}
}

// identifyLanguage guesses the document language from the description
// or, failing that, from the first pages' text.
func (p *Pipeline) identifyLanguage(r *Record, src Source) {
	if p.lang == nil || r.Language != "" {
		return
	}
	sample := r.Description
	if sample == "" {
		var b strings.Builder
		count := src.PageCount()
		for i := 0; i < min(p.cfg.LanguagePages, count); i++ {
			text, err := src.Text(i)
			if err != nil {
				continue
			}
			b.WriteString(text)
			b.WriteString(" ")
			if utf8.RuneCountInString(b.String()) > p.cfg.LanguageMinChars {
				break
			}
		}
		sample = b.String()
	}
	if strings.TrimSpace(sample) == "" {
		return
	}
	code, ok := p.lang.Identify(sample)
	if !ok {
		return
	}
	r.Language = langid.Name(code)
	p.log.Debug("field filled", zap.String("field", "language"), zap.String("stage", "language"), zap.String("code", code))
}
