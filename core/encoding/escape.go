// Package encoding provides the text escaping and XML minification helpers
// shared by the document assembler and the EPUB container writer.
package encoding

import (
	"regexp"
	"strings"
)

// EscapeXMLText escapes the basic XML entities for text content.
// The ampersand is replaced first so entities introduced by the later
// replacements are not double-escaped.
func EscapeXMLText(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

// EscapeXMLAttr escapes text for use in XML attribute values.
// Includes quote escaping in addition to the basic XML entities.
func EscapeXMLAttr(s string) string {
	s = EscapeXMLText(s)
	s = strings.ReplaceAll(s, "\"", "&quot;")
	return s
}

var interTagSpace = regexp.MustCompile(`>\s+<`)

// MinifyXML collapses whitespace between adjacent tags and trims the
// document. Used for the fixed container scaffolding so readers parse
// less; it is not a general-purpose minifier and must not be applied to
// documents with significant inter-element text.
func MinifyXML(s string) string {
	return strings.TrimSpace(interTagSpace.ReplaceAllString(s, "><"))
}
