package epub

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jubilate/versebinder/core/bible"
	"github.com/jubilate/versebinder/core/encoding"
	"github.com/jubilate/versebinder/core/errors"
	"github.com/jubilate/versebinder/core/mysword"
	"github.com/jubilate/versebinder/core/xref"
)

// Fixed filenames and anchors. Every hyperlink in the generated documents
// is built from these, so they must not change independently.
const (
	indexFileName = "i.html"
	xrefFileName  = "x.html"

	indexAnchor = "b"   // top of the index page
	bookAnchor  = "toc" // book heading on a first-chapter page
	xrefAnchor  = "c"   // top of the cross-reference page

	booksPerRow = 4
)

func chapterFileName(book, chapter int) string {
	return fmt.Sprintf("b%dc%d.html", book, chapter)
}

func verseXrefAnchor(c bible.Coord) string {
	return fmt.Sprintf("x%d-%d-%d", c.Book, c.Chapter, c.Verse)
}

// assembler accumulates documents, manifest/spine entries, and navigation
// nodes over one traversal. playOrder is threaded through it rather than
// held in package state so assembly stays referentially transparent.
type assembler struct {
	books  bible.Books
	verses bible.Verses
	refs   *xref.Index

	docs      []Document
	manifest  []ManifestItem
	spine     []SpineItem
	nav       []NavPoint
	playOrder int
}

// Assemble turns the materialized book, verse, and cross-reference inputs
// into a complete Package. It fails only when the book or verse mapping is
// structurally absent; missing or unusable cross-reference data degrades to
// a package without the cross-reference page, and books whose id carries no
// name are omitted entirely.
func Assemble(books bible.Books, verses bible.Verses, refs *xref.Index, title string) (*Package, error) {
	if len(books) == 0 {
		return nil, errors.NewValidation("books", "book name mapping is empty")
	}
	if len(verses) == 0 {
		return nil, errors.NewValidation("verses", "verse mapping is empty")
	}

	a := &assembler{books: books, verses: verses, refs: refs}

	a.addIndexPage()
	for _, bookID := range bible.SortedBookIDs(verses) {
		name, ok := books[bookID]
		if !ok || name == "" {
			continue
		}
		a.addBook(bookID, FormatBookTitle(name))
	}
	a.addCrossReferencePage()

	pkg := &Package{
		Title:     title,
		Documents: a.docs,
		Manifest:  a.manifest,
		Spine:     a.spine,
		Nav:       a.nav,
	}
	if err := pkg.Verify(); err != nil {
		return nil, err
	}
	return pkg, nil
}

// addIndexPage emits i.html: a fixed-width table of named books, each cell
// linking to the book's first chapter, the final row padded to keep the
// layout rectangular.
func (a *assembler) addIndexPage() {
	type entry struct {
		id    int
		first int
		name  string
	}
	var entries []entry
	for _, id := range bible.SortedBookIDs(a.verses) {
		name, ok := a.books[id]
		if !ok || name == "" {
			continue
		}
		chapters := bible.SortedChapters(a.verses[id])
		entries = append(entries, entry{id: id, first: chapters[0], name: FormatBookTitle(name)})
	}

	var rows strings.Builder
	for i := 0; i < len(entries); i += booksPerRow {
		rows.WriteString("<tr>")
		for j := i; j < i+booksPerRow; j++ {
			if j < len(entries) {
				e := entries[j]
				fmt.Fprintf(&rows, `<td><a href="%s">%s</a></td>`,
					chapterFileName(e.id, e.first), encoding.EscapeXMLText(e.name))
			} else {
				rows.WriteString("<td></td>")
			}
		}
		rows.WriteString("</tr>")
	}

	page := fmt.Sprintf(`<html><head><title>Books</title><link rel="stylesheet" href="styles.css"/></head><body><a id="%s"/><table class="b">%s</table></body></html>`,
		indexAnchor, rows.String())

	a.docs = append(a.docs, Document{Name: indexFileName, Content: []byte(page)})
	a.manifest = append(a.manifest, ManifestItem{ID: "index", Href: indexFileName, MediaType: mediaTypeXHTML})
	a.spine = append(a.spine, SpineItem{IDRef: "index"})
}

// addBook emits every chapter page of one book and its navigation subtree.
func (a *assembler) addBook(bookID int, displayName string) {
	chapters := bible.SortedChapters(a.verses[bookID])
	first := chapters[0]

	a.playOrder++
	bookNode := NavPoint{
		ID:        strconv.Itoa(bookID),
		Label:     displayName,
		Src:       chapterFileName(bookID, first),
		PlayOrder: a.playOrder,
	}

	var strip strings.Builder
	for _, c := range chapters {
		fmt.Fprintf(&strip, `<a href="%s">%d</a>`, chapterFileName(bookID, c), c)
	}

	for _, chap := range chapters {
		fname := chapterFileName(bookID, chap)
		itemID := fmt.Sprintf("%d-%d", bookID, chap)
		a.manifest = append(a.manifest, ManifestItem{ID: itemID, Href: fname, MediaType: mediaTypeXHTML})
		a.spine = append(a.spine, SpineItem{IDRef: itemID})

		a.playOrder++
		chapNode := NavPoint{
			ID:        itemID,
			Label:     fmt.Sprintf("%s %d", displayName, chap),
			Src:       fname,
			PlayOrder: a.playOrder,
		}
		for _, v := range a.verses[bookID][chap] {
			a.playOrder++
			chapNode.Children = append(chapNode.Children, NavPoint{
				ID:        fmt.Sprintf("%d-%d-%d", bookID, chap, v.Number),
				Label:     fmt.Sprintf("%s %d:%d", displayName, chap, v.Number),
				Src:       fname + "#" + strconv.Itoa(v.Number),
				PlayOrder: a.playOrder,
			})
		}
		bookNode.Children = append(bookNode.Children, chapNode)

		a.docs = append(a.docs, Document{
			Name:    fname,
			Content: []byte(a.renderChapter(bookID, displayName, chap, first, strip.String())),
		})
	}

	a.nav = append(a.nav, bookNode)
}

// renderChapter builds one chapter page. The first chapter of a book carries
// the book heading (the book-level anchor) and the chapter link strip; later
// chapters link back to that anchor instead.
func (a *assembler) renderChapter(bookID int, displayName string, chap, first int, strip string) string {
	name := encoding.EscapeXMLText(displayName)

	var b strings.Builder
	if chap == first {
		fmt.Fprintf(&b, `<html><head><title>%s %d</title><link rel="stylesheet" href="styles.css"/></head><body><h1 id="%s">%s</h1><div class="c">%s</div><h2>%s %d <a href="%s#%s">⇑</a> <a href="#%s">↑</a></h2>`,
			name, chap, bookAnchor, name, strip, name, chap, indexFileName, indexAnchor, bookAnchor)
	} else {
		fmt.Fprintf(&b, `<html><head><title>%s %d</title><link rel="stylesheet" href="styles.css"/></head><body><h2>%s %d <a href="%s#%s">⇑</a> <a href="%s#%s">↑</a></h2>`,
			name, chap, name, chap, indexFileName, indexAnchor, chapterFileName(bookID, first), bookAnchor)
	}

	for _, v := range a.verses[bookID][chap] {
		text := encoding.EscapeXMLText(mysword.StripTags(v.Text))
		fmt.Fprintf(&b, `<a href="#%d" id="%d">%d</a> %s %s<br/>`,
			v.Number, v.Number, v.Number, text,
			a.indicator(bible.Coord{Book: bookID, Chapter: chap, Verse: v.Number}))
	}

	b.WriteString("\n</body>\n</html>")
	return b.String()
}

// indicator returns the cross-reference indicator link for a verse, or ""
// when the verse participates in no reference. The glyph is identical for
// outgoing-only, incoming-only, and bidirectional verses.
func (a *assembler) indicator(c bible.Coord) string {
	if !a.refs.Has(c) {
		return ""
	}
	return fmt.Sprintf(`<a href="%s#%s" class="x">⊗</a>`, xrefFileName, verseXrefAnchor(c))
}

// addCrossReferencePage emits x.html when any verse participates in a
// cross-reference, plus its manifest item, trailing spine entry, and
// trailing navigation node.
func (a *assembler) addCrossReferencePage() {
	if a.refs.Empty() {
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<html><head><title>X</title><link rel="stylesheet" href="styles.css"/></head><body><h1 id="%s">X</h1>`, xrefAnchor)

	for _, c := range a.refs.Coords() {
		fmt.Fprintf(&b, `<h2 id="%s"><a href="%s#%d">↩</a> %s %d:%d <a href="%s#%s">⇑</a></h2>`,
			verseXrefAnchor(c), chapterFileName(c.Book, c.Chapter), c.Verse,
			a.bookLabel(c.Book), c.Chapter, c.Verse, indexFileName, indexAnchor)

		if targets := a.refs.From[c]; len(targets) > 0 {
			b.WriteString("<h4>From</h4><ul>")
			for _, t := range targets {
				fmt.Fprintf(&b, `<li><a href="%s#%d">%s %d:%d</a></li>`,
					chapterFileName(t.Book, t.Chapter), t.Verse, a.bookLabel(t.Book), t.Chapter, t.Verse)
			}
			b.WriteString("</ul>")
		}
		if sources := a.refs.To[c]; len(sources) > 0 {
			b.WriteString("<h3>To</h3><ul>")
			for _, s := range sources {
				fmt.Fprintf(&b, `<li><a href="%s#%d">%s %d:%d</a></li>`,
					chapterFileName(s.Book, s.Chapter), s.Verse, a.bookLabel(s.Book), s.Chapter, s.Verse)
			}
			b.WriteString("</ul>")
		}
	}

	b.WriteString("</body></html>")

	a.docs = append(a.docs, Document{Name: xrefFileName, Content: []byte(b.String())})
	a.manifest = append(a.manifest, ManifestItem{ID: "xrefs", Href: xrefFileName, MediaType: mediaTypeXHTML})
	a.spine = append(a.spine, SpineItem{IDRef: "xrefs"})

	a.playOrder++
	a.nav = append(a.nav, NavPoint{
		ID:        "x",
		Label:     "Cross References",
		Src:       xrefFileName + "#" + xrefAnchor,
		PlayOrder: a.playOrder,
	})
}

// bookLabel resolves a book id to its formatted display name, escaped for
// embedding. Cross-reference targets are not required to resolve to a known
// book, so unknown ids get a synthesized placeholder label.
func (a *assembler) bookLabel(id int) string {
	name, ok := a.books[id]
	if !ok || name == "" {
		return fmt.Sprintf("Book %d", id)
	}
	return encoding.EscapeXMLText(FormatBookTitle(name))
}
