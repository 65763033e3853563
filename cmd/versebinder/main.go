// Command versebinder converts MySword SQLite Bible modules into a single
// interlinked EPUB package: a book index, one page per chapter, and an
// optional cross-reference section.
package main

import (
	"database/sql"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/jubilate/versebinder/core/epub"
	"github.com/jubilate/versebinder/core/errors"
	"github.com/jubilate/versebinder/core/xref"
	"github.com/jubilate/versebinder/internal/logging"
	"github.com/jubilate/versebinder/internal/source"
)

const version = "0.2.0"

// CLI defines the command-line interface for versebinder.
var CLI struct {
	Bbl   string `required:"" help:"Path to the .bbl.mybible SQLite text database" type:"existingfile"`
	Lang  string `required:"" help:"Path to the .lang.mybible SQLite books database" type:"existingfile"`
	Xrefs string `help:"Path to the .xrefs.twm SQLite cross-reference database (optional)" type:"existingfile"`

	Title    string `help:"Title for the EPUB (defaults to the --bbl basename without .bbl.mybible)"`
	Output   string `help:"Output EPUB file (defaults to <title>.epub)" type:"path"`
	StableID bool   `name:"stable-id" help:"Derive a deterministic package identifier from the assembled content"`

	LogLevel  string           `name:"log-level" default:"info" enum:"debug,info,warn,error" help:"Log level"`
	LogFormat string           `name:"log-format" default:"text" enum:"text,json" help:"Log output format"`
	Version   kong.VersionFlag `help:"Print version information"`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("versebinder"),
		kong.Description("Convert MySword SQLite Bible modules into interlinked EPUB packages."),
		kong.Vars{"version": version},
	)
	logging.InitLogger(logging.ParseLevel(CLI.LogLevel), logging.ParseFormat(CLI.LogFormat))
	ctx.FatalIfErrorf(run())
}

func run() error {
	title := CLI.Title
	if title == "" {
		title = deriveTitle(CLI.Bbl)
	}
	output := CLI.Output
	if output == "" {
		output = title + ".epub"
	}

	text, err := source.Open(CLI.Bbl)
	if err != nil {
		return err
	}
	defer text.Close()
	if err := requireTable(text, "Bible", CLI.Bbl); err != nil {
		return err
	}

	booksDB, err := source.Open(CLI.Lang)
	if err != nil {
		return err
	}
	defer booksDB.Close()
	if err := requireTable(booksDB, "biblebooks", CLI.Lang); err != nil {
		return err
	}

	books, err := source.LoadBooks(booksDB)
	if err != nil {
		return errors.Wrap(err, "loading books")
	}
	verses, err := source.LoadVerses(text)
	if err != nil {
		return errors.Wrap(err, "loading verses")
	}
	logging.Debug("source loaded", "books", len(books), "books_with_verses", len(verses))

	refs := loadCrossRefs(CLI.Xrefs)

	pkg, err := epub.Assemble(books, verses, refs, title)
	if err != nil {
		return err
	}
	if CLI.StableID {
		pkg.Identifier = epub.StableIdentifier(pkg.Documents)
	}

	data, err := pkg.Build()
	if err != nil {
		return err
	}
	if err := os.WriteFile(output, data, 0644); err != nil {
		return errors.NewIO("write", output, err)
	}

	logging.Info("EPUB created",
		"path", output,
		"documents", len(pkg.Documents),
		"bytes", len(data),
	)
	return nil
}

func requireTable(db *sql.DB, table, path string) error {
	ok, err := source.TableExists(db, table)
	if err != nil {
		return errors.Wrapf(err, "checking for table %s", table)
	}
	if !ok {
		return errors.NewParse("MySword", path, "table '"+table+"' not found")
	}
	return nil
}

// loadCrossRefs loads the optional cross-reference index. Any failure here
// degrades to a package without a cross-reference section; it never aborts
// the conversion.
func loadCrossRefs(path string) *xref.Index {
	if path == "" {
		return nil
	}
	db, err := source.Open(path)
	if err != nil {
		logging.Warn("unable to open cross-reference database, continuing without cross-references",
			"path", path, "error", err)
		return nil
	}
	defer db.Close()

	ok, err := source.TableExists(db, "xrefs_bcv")
	if err != nil || !ok {
		logging.Warn("table or view 'xrefs_bcv' not found, continuing without cross-references",
			"path", path)
		return nil
	}

	pairs, err := source.LoadCrossRefs(db)
	if err != nil {
		logging.Warn("error loading cross-references, continuing without them",
			"path", path, "error", err)
		return nil
	}

	refs := xref.Build(pairs)
	logging.Info("cross-references loaded",
		"pairs", len(pairs),
		"verses_with_outgoing", len(refs.From),
		"verses_with_incoming", len(refs.To),
	)
	return refs
}

// deriveTitle takes the EPUB title from the text database filename,
// dropping the conventional .bbl.mybible extension when present.
func deriveTitle(bblPath string) string {
	base := filepath.Base(bblPath)
	return strings.TrimSuffix(base, ".bbl.mybible")
}
