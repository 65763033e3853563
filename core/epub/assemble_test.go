package epub

import (
	"strings"
	"testing"

	"github.com/jubilate/versebinder/core/bible"
	"github.com/jubilate/versebinder/core/errors"
	"github.com/jubilate/versebinder/core/xref"
)

func coord(b, c, v int) bible.Coord {
	return bible.Coord{Book: b, Chapter: c, Verse: v}
}

// testData builds a small corpus: two named books, one book (id 9) with
// verses but no name, and cross-references giving verse 1:1:1 both
// directions, 2:3:1 incoming only, 1:2:1 and 1:1:2 outgoing only, plus one
// reference into an unknown book id 77.
func testData() (bible.Books, bible.Verses, *xref.Index) {
	books := bible.Books{1: "Genesis", 2: "Exodus"}
	verses := bible.Verses{
		1: {
			1: {{Number: 1, Text: "<FI>In<Fi> the beginning"}, {Number: 2, Text: ""}},
			2: {{Number: 1, Text: "Thus the heavens"}},
		},
		2: {
			3: {{Number: 1, Text: "God & Moses"}},
		},
		9: {
			1: {{Number: 1, Text: "orphaned"}},
		},
	}
	refs := xref.Build([]xref.Pair{
		{From: coord(1, 1, 1), To: coord(2, 3, 1)},
		{From: coord(1, 2, 1), To: coord(1, 1, 1)},
		{From: coord(1, 1, 2), To: coord(77, 1, 1)},
	})
	return books, verses, refs
}

func assemble(t *testing.T) *Package {
	t.Helper()
	books, verses, refs := testData()
	pkg, err := Assemble(books, verses, refs, "Test Bible")
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	return pkg
}

func findDoc(t *testing.T, pkg *Package, name string) string {
	t.Helper()
	for _, d := range pkg.Documents {
		if d.Name == name {
			return string(d.Content)
		}
	}
	t.Fatalf("document %s not found (have %d documents)", name, len(pkg.Documents))
	return ""
}

func TestAssembleIndexPage(t *testing.T) {
	pkg := assemble(t)
	index := findDoc(t, pkg, "i.html")

	if !strings.Contains(index, `<a id="b"/>`) {
		t.Error("index page missing global index anchor")
	}
	wantRow := `<tr><td><a href="b1c1.html">Genesis</a></td><td><a href="b2c3.html">Exodus</a></td><td></td><td></td></tr>`
	if !strings.Contains(index, wantRow) {
		t.Errorf("index table row missing or not padded to 4 cells:\n%s", index)
	}
	if strings.Count(index, "Genesis") != 1 {
		t.Error("Genesis must appear exactly once in the index page")
	}
}

func TestAssembleChapterPages(t *testing.T) {
	pkg := assemble(t)

	first := findDoc(t, pkg, "b1c1.html")
	if !strings.Contains(first, `<h1 id="toc">Genesis</h1>`) {
		t.Error("first chapter page missing book-level anchor heading")
	}
	if !strings.Contains(first, `<div class="c"><a href="b1c1.html">1</a><a href="b1c2.html">2</a></div>`) {
		t.Errorf("first chapter page missing chapter link strip:\n%s", first)
	}
	if !strings.Contains(first, `<a href="i.html#b">⇑</a>`) {
		t.Error("first chapter page missing up-link to index anchor")
	}
	if !strings.Contains(first, `<a href="#1" id="1">1</a> In the beginning`) {
		t.Error("verse 1 not rendered with anchor and stripped text")
	}
	// Empty verse text renders as an empty span between anchor and indicator.
	if !strings.Contains(first, `<a href="#2" id="2">2</a> `) {
		t.Error("empty verse text not normalized to empty string")
	}

	second := findDoc(t, pkg, "b1c2.html")
	if strings.Contains(second, `<div class="c">`) {
		t.Error("non-first chapter page must not carry the chapter strip")
	}
	if !strings.Contains(second, `<a href="b1c1.html#toc">↑</a>`) {
		t.Error("non-first chapter page missing back-link to book anchor")
	}
}

func TestAssembleVerseTextEscaped(t *testing.T) {
	pkg := assemble(t)
	page := findDoc(t, pkg, "b2c3.html")
	if !strings.Contains(page, "God &amp; Moses") {
		t.Errorf("verse text not escaped:\n%s", page)
	}
}

func TestAssembleIndicatorCollapse(t *testing.T) {
	pkg := assemble(t)

	// Both directions, outgoing only, incoming only: identical glyph and
	// class, each pointing at the verse's own cross-reference anchor.
	cases := []struct {
		page string
		want string
	}{
		{"b1c1.html", `<a href="x.html#x1-1-1" class="x">⊗</a>`}, // both
		{"b1c1.html", `<a href="x.html#x1-1-2" class="x">⊗</a>`}, // outgoing only
		{"b1c2.html", `<a href="x.html#x1-2-1" class="x">⊗</a>`}, // outgoing only
		{"b2c3.html", `<a href="x.html#x2-3-1" class="x">⊗</a>`}, // incoming only
	}
	for _, tc := range cases {
		page := findDoc(t, pkg, tc.page)
		if !strings.Contains(page, tc.want) {
			t.Errorf("%s missing indicator %s", tc.page, tc.want)
		}
	}
}

func TestAssembleCrossReferencePage(t *testing.T) {
	pkg := assemble(t)
	x := findDoc(t, pkg, "x.html")

	if !strings.Contains(x, `<h1 id="c">X</h1>`) {
		t.Error("cross-reference page missing title anchor")
	}
	if !strings.Contains(x, `<h2 id="x1-1-1"><a href="b1c1.html#1">↩</a> Genesis 1:1 <a href="i.html#b">⇑</a></h2>`) {
		t.Errorf("verse heading with back-link and up-link missing:\n%s", x)
	}
	if !strings.Contains(x, `<h4>From</h4><ul><li><a href="b2c3.html#1">Exodus 3:1</a></li></ul>`) {
		t.Error("outgoing list for 1:1:1 missing")
	}
	if !strings.Contains(x, `<h3>To</h3><ul><li><a href="b1c2.html#1">Genesis 2:1</a></li></ul>`) {
		t.Error("incoming list for 1:1:1 missing")
	}
	// Unknown target book renders a synthesized placeholder, never omitted.
	if !strings.Contains(x, `Book 77 1:1`) {
		t.Error("unknown book id not rendered with placeholder label")
	}

	// Headings sorted by (book, chapter, verse).
	order := []string{`id="x1-1-1"`, `id="x1-1-2"`, `id="x1-2-1"`, `id="x2-3-1"`, `id="x77-1-1"`}
	pos := -1
	for _, anchor := range order {
		next := strings.Index(x, anchor)
		if next == -1 {
			t.Fatalf("anchor %s missing from cross-reference page", anchor)
		}
		if next < pos {
			t.Errorf("anchor %s out of order", anchor)
		}
		pos = next
	}
}

func TestAssembleManifestSpine(t *testing.T) {
	pkg := assemble(t)

	wantSpine := []string{"index", "1-1", "1-2", "2-3", "xrefs"}
	if len(pkg.Spine) != len(wantSpine) {
		t.Fatalf("spine length = %d, want %d", len(pkg.Spine), len(wantSpine))
	}
	for i, want := range wantSpine {
		if pkg.Spine[i].IDRef != want {
			t.Errorf("spine[%d] = %s, want %s", i, pkg.Spine[i].IDRef, want)
		}
	}

	seen := map[string]bool{}
	for _, m := range pkg.Manifest {
		if seen[m.ID] {
			t.Errorf("duplicate manifest id %s", m.ID)
		}
		seen[m.ID] = true
	}
	if len(pkg.Manifest) != len(pkg.Documents) {
		t.Errorf("manifest items = %d, documents = %d", len(pkg.Manifest), len(pkg.Documents))
	}
}

func collectPlayOrders(nodes []NavPoint, out *[]int) {
	for _, n := range nodes {
		*out = append(*out, n.PlayOrder)
		collectPlayOrders(n.Children, out)
	}
}

func TestAssemblePlayOrder(t *testing.T) {
	pkg := assemble(t)

	var orders []int
	collectPlayOrders(pkg.Nav, &orders)

	// book 1, ch 1, v1, v2, ch 2, v1, book 2, ch 3, v1, xrefs = 10 nodes
	if len(orders) != 10 {
		t.Fatalf("navigation node count = %d, want 10", len(orders))
	}
	for i, got := range orders {
		if got != i+1 {
			t.Fatalf("playOrder sequence = %v, want permutation 1..%d in traversal order", orders, len(orders))
		}
	}
}

func TestAssembleNavTargets(t *testing.T) {
	pkg := assemble(t)

	book := pkg.Nav[0]
	if book.Label != "Genesis" || book.Src != "b1c1.html" {
		t.Errorf("book node = %q -> %q, want Genesis -> b1c1.html", book.Label, book.Src)
	}
	chap := book.Children[0]
	if chap.Label != "Genesis 1" || chap.Src != "b1c1.html" {
		t.Errorf("chapter node = %q -> %q", chap.Label, chap.Src)
	}
	verse := chap.Children[1]
	if verse.Label != "Genesis 1:2" || verse.Src != "b1c1.html#2" {
		t.Errorf("verse node = %q -> %q, want Genesis 1:2 -> b1c1.html#2", verse.Label, verse.Src)
	}
	last := pkg.Nav[len(pkg.Nav)-1]
	if last.Label != "Cross References" || last.Src != "x.html#c" {
		t.Errorf("trailing node = %q -> %q, want Cross References -> x.html#c", last.Label, last.Src)
	}
}

func TestAssembleOmitsUnnamedBook(t *testing.T) {
	pkg := assemble(t)

	for _, d := range pkg.Documents {
		if strings.HasPrefix(d.Name, "b9c") {
			t.Errorf("page emitted for unnamed book 9: %s", d.Name)
		}
		if strings.Contains(string(d.Content), "b9c") {
			t.Errorf("%s contains a dangling link into unnamed book 9", d.Name)
		}
	}
	for _, m := range pkg.Manifest {
		if strings.HasPrefix(m.ID, "9-") {
			t.Errorf("manifest item for unnamed book 9: %s", m.ID)
		}
	}
	var walk func(nodes []NavPoint)
	walk = func(nodes []NavPoint) {
		for _, n := range nodes {
			if n.ID == "9" || strings.HasPrefix(n.ID, "9-") {
				t.Errorf("navigation node for unnamed book 9: %s", n.ID)
			}
			walk(n.Children)
		}
	}
	walk(pkg.Nav)
}

func TestAssembleNumberedBookTitle(t *testing.T) {
	books := bible.Books{9: "1Samuel"}
	verses := bible.Verses{9: {1: {{Number: 1, Text: "Now there was"}}}}
	pkg, err := Assemble(books, verses, nil, "Test")
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if !strings.Contains(findDoc(t, pkg, "i.html"), ">1. Samuel</a>") {
		t.Error("index page label not title-formatted")
	}
	if pkg.Nav[0].Label != "1. Samuel" {
		t.Errorf("nav label = %q, want 1. Samuel", pkg.Nav[0].Label)
	}
}

func TestAssembleWithoutCrossReferences(t *testing.T) {
	books, verses, _ := testData()

	for _, refs := range []*xref.Index{nil, xref.Build(nil)} {
		pkg, err := Assemble(books, verses, refs, "Test Bible")
		if err != nil {
			t.Fatalf("Assemble failed: %v", err)
		}
		for _, d := range pkg.Documents {
			if d.Name == "x.html" {
				t.Error("cross-reference page emitted without references")
			}
			if strings.Contains(string(d.Content), `class="x"`) {
				t.Errorf("%s carries an indicator without references", d.Name)
			}
		}
		if pkg.Spine[len(pkg.Spine)-1].IDRef == "xrefs" {
			t.Error("spine carries xrefs entry without references")
		}
	}
}

func TestAssembleFatalOnMissingInputs(t *testing.T) {
	books, verses, _ := testData()

	if _, err := Assemble(nil, verses, nil, "Test"); !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("empty books: err = %v, want ErrInvalidInput", err)
	}
	if _, err := Assemble(books, nil, nil, "Test"); !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("empty verses: err = %v, want ErrInvalidInput", err)
	}
}

func TestVerifyRejectsCorruptPackages(t *testing.T) {
	doc := Document{Name: "i.html", Content: []byte("x")}
	item := ManifestItem{ID: "index", Href: "i.html", MediaType: mediaTypeXHTML}

	tests := []struct {
		name string
		pkg  Package
	}{
		{"duplicate manifest id", Package{
			Documents: []Document{doc, {Name: "b1c1.html"}},
			Manifest:  []ManifestItem{item, {ID: "index", Href: "b1c1.html"}},
		}},
		{"dangling spine entry", Package{
			Documents: []Document{doc},
			Manifest:  []ManifestItem{item},
			Spine:     []SpineItem{{IDRef: "missing"}},
		}},
		{"duplicate spine entry", Package{
			Documents: []Document{doc},
			Manifest:  []ManifestItem{item},
			Spine:     []SpineItem{{IDRef: "index"}, {IDRef: "index"}},
		}},
		{"manifest item without document", Package{
			Documents: []Document{doc},
			Manifest:  []ManifestItem{item, {ID: "ghost", Href: "ghost.html"}},
			Spine:     []SpineItem{{IDRef: "index"}, {IDRef: "ghost"}},
		}},
		{"playOrder reversal", Package{
			Documents: []Document{doc},
			Manifest:  []ManifestItem{item},
			Spine:     []SpineItem{{IDRef: "index"}},
			Nav: []NavPoint{
				{ID: "1", PlayOrder: 2},
				{ID: "2", PlayOrder: 1},
			},
		}},
		{"playOrder duplicate", Package{
			Documents: []Document{doc},
			Manifest:  []ManifestItem{item},
			Spine:     []SpineItem{{IDRef: "index"}},
			Nav: []NavPoint{
				{ID: "1", PlayOrder: 1, Children: []NavPoint{{ID: "1-1", PlayOrder: 1}}},
			},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.pkg.Verify(); err == nil {
				t.Error("Verify accepted a corrupt package")
			}
		})
	}
}
