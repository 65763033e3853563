// Package epub assembles scripture data into an internally-linked EPUB 2.0
// package: a book index page, one page per chapter, an optional
// cross-reference page, an NCX navigation tree with strictly ordered
// playOrder values, and a mutually consistent manifest/spine. It also
// serializes the assembled package into the final EPUB container.
package epub

import (
	"archive/zip"
	"bytes"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/zeebo/blake3"

	"github.com/jubilate/versebinder/core/encoding"
	"github.com/jubilate/versebinder/core/errors"
)

// Document is one generated page: a filename relative to OEBPS/ plus its
// full body bytes.
type Document struct {
	Name    string
	Content []byte
}

// ManifestItem declares one file of the package in content.opf.
type ManifestItem struct {
	ID        string
	Href      string
	MediaType string
}

// SpineItem is one position in the linear reading order, referencing a
// manifest item by id.
type SpineItem struct {
	IDRef string
}

// NavPoint is one node of the NCX navigation tree. PlayOrder values are
// globally unique and strictly increasing in pre-order traversal.
type NavPoint struct {
	ID        string
	Label     string
	Src       string
	PlayOrder int
	Children  []NavPoint
}

// Package is the assembled output handed to the container writer.
// Identifier may be left empty, in which case Build generates a random one.
type Package struct {
	Title      string
	Identifier string
	Documents  []Document
	Manifest   []ManifestItem
	Spine      []SpineItem
	Nav        []NavPoint
}

const mediaTypeXHTML = "application/xhtml+xml"

// styles.css shipped with every package. KoReader-compatible.
// Class mappings: c=chapter toc strip, b=book index table, x=xref indicator.
const globalCSS = `
.c a{display:inline-block;padding:.1em;font-weight:bold;margin:.1em;border:1px solid #888;min-width:2em;text-align:center;text-decoration:none}
.c{margin-bottom:1em}
.b{width:100%;border-collapse:collapse;margin-bottom:1em}
.b td{border:1px solid #888;margin:0;padding:0;text-align:center;width:25%}
.b a{display:block;text-decoration:none;font-weight:bold;font-family:Arial;font-size:.8em;text-transform:uppercase;margin:0;padding:4px 0}
#books{margin:0 0 0 5px;font-size:.7em}
.x{font-size:.9em;color:#cfcfcf;text-decoration:none;font-weight:bold;padding:0 2px;margin:0 1px;background-color:#f0f8ff;border-radius:2px}
.x:hover{color:#0044aa;text-decoration:underline;background-color:#e6f3ff}
`

const containerXML = `<?xml version="1.0"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
<rootfiles><rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/></rootfiles>
</container>`

// RandomIdentifier returns a fresh urn:uuid package identifier.
func RandomIdentifier() string {
	return "urn:uuid:" + uuid.New().String()
}

// StableIdentifier derives a deterministic package identifier from the
// assembled document contents, so identical inputs yield byte-identical
// identifiers across runs.
func StableIdentifier(docs []Document) string {
	h := blake3.New()
	for _, d := range docs {
		h.Write([]byte(d.Name))
		h.Write([]byte{0})
		h.Write(d.Content)
		h.Write([]byte{0})
	}
	return "urn:blake3:" + hex.EncodeToString(h.Sum(nil))
}

// Build serializes the package into EPUB container bytes: the mimetype
// entry first and uncompressed, the container descriptor, the stylesheet,
// every assembled document under OEBPS/, and the content.opf / toc.ncx
// metadata derived from the manifest, spine, and navigation tree.
func (p *Package) Build() ([]byte, error) {
	if len(p.Documents) == 0 {
		return nil, errors.NewValidation("documents", "package has no documents")
	}

	ident := p.Identifier
	if ident == "" {
		ident = RandomIdentifier()
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	// mimetype must be the first entry and stored uncompressed.
	mw, err := zw.CreateHeader(&zip.FileHeader{
		Name:   "mimetype",
		Method: zip.Store,
	})
	if err != nil {
		return nil, err
	}
	if _, err := mw.Write([]byte("application/epub+zip")); err != nil {
		return nil, err
	}

	if err := writeEntry(zw, "META-INF/container.xml", encoding.MinifyXML(containerXML)); err != nil {
		return nil, err
	}
	if err := writeEntry(zw, "OEBPS/styles.css", globalCSS); err != nil {
		return nil, err
	}

	for _, d := range p.Documents {
		w, err := zw.Create("OEBPS/" + d.Name)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(d.Content); err != nil {
			return nil, err
		}
	}

	if err := writeEntry(zw, "OEBPS/content.opf", p.contentOPF(ident)); err != nil {
		return nil, err
	}
	if err := writeEntry(zw, "OEBPS/toc.ncx", p.tocNCX(ident)); err != nil {
		return nil, err
	}

	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeEntry(zw *zip.Writer, name, content string) error {
	w, err := zw.Create(name)
	if err != nil {
		return err
	}
	_, err = w.Write([]byte(content))
	return err
}

func (p *Package) contentOPF(ident string) string {
	var manifest strings.Builder
	manifest.WriteString(`<item id="ncx" href="toc.ncx" media-type="application/x-dtbncx+xml"/>`)
	manifest.WriteString(`<item id="css" href="styles.css" media-type="text/css"/>`)
	for _, m := range p.Manifest {
		fmt.Fprintf(&manifest, `<item id="%s" href="%s" media-type="%s"/>`,
			encoding.EscapeXMLAttr(m.ID), encoding.EscapeXMLAttr(m.Href), m.MediaType)
	}

	var spine strings.Builder
	for _, s := range p.Spine {
		fmt.Fprintf(&spine, `<itemref idref="%s"/>`, encoding.EscapeXMLAttr(s.IDRef))
	}

	return fmt.Sprintf(`<?xml version="1.0"?>
<package version="2.0" unique-identifier="BookId" xmlns="http://www.idpf.org/2007/opf">
<metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
<dc:title>%s</dc:title>
<dc:language>en</dc:language>
<dc:identifier id="BookId">%s</dc:identifier>
</metadata>
<manifest>
%s
</manifest>
<spine toc="ncx">
%s
</spine>
</package>`,
		encoding.EscapeXMLText(p.Title),
		encoding.EscapeXMLText(ident),
		manifest.String(),
		spine.String(),
	)
}

func (p *Package) tocNCX(ident string) string {
	var nav strings.Builder
	for _, n := range p.Nav {
		writeNavPoint(&nav, n)
	}

	return fmt.Sprintf(`<?xml version="1.0"?>
<ncx xmlns="http://www.daisy.org/z3986/2005/ncx/" version="2005-1">
<head><meta name="dtb:uid" content="%s"/></head>
<docTitle><text>%s</text></docTitle>
<navMap>%s</navMap>
</ncx>`,
		encoding.EscapeXMLAttr(ident),
		encoding.EscapeXMLText(p.Title),
		nav.String(),
	)
}

func writeNavPoint(b *strings.Builder, n NavPoint) {
	fmt.Fprintf(b, `<navPoint id="%s" playOrder="%d"><navLabel><text>%s</text></navLabel><content src="%s"/>`,
		encoding.EscapeXMLAttr(n.ID), n.PlayOrder,
		encoding.EscapeXMLText(n.Label), encoding.EscapeXMLAttr(n.Src))
	for _, c := range n.Children {
		writeNavPoint(b, c)
	}
	b.WriteString(`</navPoint>`)
}
