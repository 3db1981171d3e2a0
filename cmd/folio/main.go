// Command folio inspects and repairs book files before they enter a
// library. It recovers bibliographic metadata, strips injected
// advertisement pages, renders cover thumbnails and page previews, and
// can file the result into a catalog database.
//
// Usage:
//
//	folio [-config file] [-v] <command> [arguments]
//
// Run without arguments for the command list.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/tsawler/folio"
	"github.com/tsawler/folio/catalog"
	"github.com/tsawler/folio/langid"
	"github.com/tsawler/folio/ocr"
)

const usageText = `usage: folio [-config file] [-v] <command> [arguments]

commands:
  extract [-catalog db] [-json] <book.pdf>      recover bibliographic metadata
  clean <book.pdf>                              remove injected advertisement pages
  thumb <book.pdf> [out.png]                    render a cover thumbnail
  preview [-text n] <book.pdf> <page> [out.png] rasterize one page at 150 DPI
  rmpage <book.pdf> <page>                      delete a single page in place
  info <book.pdf>                               show the file summary
`

// usageError marks bad invocations; main exits 2 for these and 1 for
// operational failures.
type usageError string

func (e usageError) Error() string { return string(e) }

func main() {
	configPath := flag.String("config", "", "YAML configuration file")
	verbose := flag.Bool("v", false, "verbose logging to stderr")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usageText) }
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	logger := newLogger(*verbose)
	defer logger.Sync()

	cfg := folio.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = folio.LoadConfig(*configPath)
		if err != nil {
			fatal(err)
		}
	}

	cmd, args := flag.Arg(0), flag.Args()[1:]
	var err error
	switch cmd {
	case "extract":
		err = cmdExtract(args, cfg, logger)
	case "clean":
		err = cmdClean(args, cfg, logger)
	case "thumb":
		err = cmdThumb(args, cfg, logger)
	case "preview":
		err = cmdPreview(args, cfg, logger)
	case "rmpage":
		err = cmdRemovePage(args, cfg, logger)
	case "info":
		err = cmdInfo(args, cfg, logger)
	default:
		fmt.Fprintf(os.Stderr, "folio: unknown command %q\n\n", cmd)
		flag.Usage()
		os.Exit(2)
	}

	if err != nil {
		var ue usageError
		if errors.As(err, &ue) {
			fmt.Fprintln(os.Stderr, "folio:", err)
			os.Exit(2)
		}
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "folio:", err)
	os.Exit(1)
}

func newLogger(verbose bool) *zap.Logger {
	if verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			return zap.NewNop()
		}
		return logger
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// openBook assembles the configured Book for path, attaching OCR when
// the binary was built with it.
func openBook(path string, cfg folio.Config, logger *zap.Logger) (*folio.Book, func()) {
	book := folio.Open(path).
		WithConfig(cfg).
		WithIdentifier(langid.New()).
		WithLogger(logger)

	cleanup := func() { book.Close() }
	oc, err := ocr.New()
	if err != nil {
		logger.Debug("ocr unavailable", zap.Error(err))
		return book, cleanup
	}
	book = book.WithRecognizer(oc)
	cleanup = func() {
		book.Close()
		oc.Close()
	}
	return book, cleanup
}

// recordKeys is the display and JSON ordering of extracted fields.
var recordKeys = []string{
	"title", "author", "publisher", "isbn", "doi",
	"publication_date", "creation_date", "language", "pages",
	"subject", "keywords", "creator", "producer", "description",
}

func cmdExtract(args []string, cfg folio.Config, logger *zap.Logger) error {
	fs := flag.NewFlagSet("extract", flag.ExitOnError)
	catalogPath := fs.String("catalog", "", "store the record in this catalog database")
	asJSON := fs.Bool("json", false, "print the record as JSON")
	fs.Parse(args)
	if fs.NArg() != 1 {
		return usageError("extract: expected one book file")
	}
	path := fs.Arg(0)

	book, cleanup := openBook(path, cfg, logger)
	defer cleanup()

	rec, err := book.Metadata()
	if err != nil {
		return err
	}
	flat := rec.Flat()

	if *asJSON {
		data, err := json.MarshalIndent(flat, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	} else {
		for _, k := range recordKeys {
			if v := flat[k]; v != "" {
				fmt.Printf("%-18s%s\n", k+":", v)
			}
		}
	}

	if *catalogPath == "" {
		return nil
	}
	store, err := catalog.Open(*catalogPath, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	stored := catalog.StoredName(path)
	if err := store.Put(catalog.Entry{ID: stored, StoredName: stored, Fields: flat}); err != nil {
		return err
	}
	fmt.Printf("%-18s%s\n", "stored as:", stored)
	return nil
}

func cmdClean(args []string, cfg folio.Config, logger *zap.Logger) error {
	if len(args) != 1 {
		return usageError("clean: expected one book file")
	}

	res, err := folio.Open(args[0]).WithConfig(cfg).WithLogger(logger).Clean()
	if err != nil {
		return err
	}
	if res.RemovedCount == 0 {
		fmt.Printf("already clean, %d pages\n", res.PageCount)
		return nil
	}
	fmt.Printf("removed pages %v, %d pages remain\n", onesBased(res.Removed), res.PageCount)
	return nil
}

func cmdThumb(args []string, cfg folio.Config, logger *zap.Logger) error {
	if len(args) < 1 || len(args) > 2 {
		return usageError("thumb: expected a book file and an optional output file")
	}
	path := args[0]
	out := strings.TrimSuffix(path, filepath.Ext(path)) + ".png"
	if len(args) == 2 {
		out = args[1]
	}

	if !folio.Open(path).WithConfig(cfg).WithLogger(logger).Thumbnail(out) {
		return fmt.Errorf("no thumbnail could be rendered for %s", path)
	}
	fmt.Println("wrote", out)
	return nil
}

func cmdPreview(args []string, cfg folio.Config, logger *zap.Logger) error {
	fs := flag.NewFlagSet("preview", flag.ExitOnError)
	textChars := fs.Int("text", 0, "print the first n characters of page text instead of rendering")
	fs.Parse(args)
	if fs.NArg() < 2 || fs.NArg() > 3 {
		return usageError("preview: expected a book file and a page number")
	}
	path := fs.Arg(0)
	pageNum, err := strconv.Atoi(fs.Arg(1))
	if err != nil {
		return usageError("preview: page number must be an integer")
	}

	book := folio.Open(path).WithConfig(cfg).WithLogger(logger)
	defer book.Close()

	if *textChars > 0 {
		text, err := book.PreviewText(pageNum, *textChars)
		if err != nil {
			return err
		}
		fmt.Println(text)
		return nil
	}

	img, err := book.PreviewPage(pageNum)
	if err != nil {
		return err
	}
	out := fmt.Sprintf("page-%d.png", pageNum)
	if fs.NArg() == 3 {
		out = fs.Arg(2)
	}
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Println("wrote", out)
	return nil
}

func cmdRemovePage(args []string, cfg folio.Config, logger *zap.Logger) error {
	if len(args) != 2 {
		return usageError("rmpage: expected a book file and a page number")
	}
	pageNum, err := strconv.Atoi(args[1])
	if err != nil {
		return usageError("rmpage: page number must be an integer")
	}

	count, err := folio.Open(args[0]).WithConfig(cfg).WithLogger(logger).RemovePage(pageNum)
	if err != nil {
		return err
	}
	fmt.Printf("removed page %d, %d pages remain\n", pageNum, count)
	return nil
}

func cmdInfo(args []string, cfg folio.Config, logger *zap.Logger) error {
	if len(args) != 1 {
		return usageError("info: expected one book file")
	}

	info, err := folio.Open(args[0]).WithConfig(cfg).WithLogger(logger).Stat()
	if err != nil {
		return err
	}
	fmt.Printf("%-17s%s\n", "path:", info.Path)
	fmt.Printf("%-17s%d\n", "pages:", info.PageCount)
	fmt.Printf("%-17s%d bytes\n", "size:", info.Size)
	if info.Info.Title != "" {
		fmt.Printf("%-17s%s\n", "title:", info.Info.Title)
	}
	if info.Info.Author != "" {
		fmt.Printf("%-17s%s\n", "author:", info.Info.Author)
	}
	if info.Info.Creator != "" {
		fmt.Printf("%-17s%s\n", "creator:", info.Info.Creator)
	}
	if info.Info.Producer != "" {
		fmt.Printf("%-17s%s\n", "producer:", info.Info.Producer)
	}
	if !info.Info.CreationDate.IsZero() {
		fmt.Printf("%-17s%s\n", "created:", info.Info.CreationDate.Format("2006-01-02"))
	}
	return nil
}

// onesBased renders zero-based page indices the way readers count them.
func onesBased(pages []int) []int {
	out := make([]int, len(pages))
	for i, p := range pages {
		out[i] = p + 1
	}
	return out
}
