package epub

import "regexp"

// Matches a leading digit run immediately followed by a character that is
// neither a digit, a period, nor whitespace ("1Samuel", "3John").
var numberedBook = regexp.MustCompile(`^(\d+)([^\d.\s])`)

// FormatBookTitle normalizes a book display name by inserting ". " after a
// leading digit run that abuts the rest of the name. Names already carrying
// a separator, or not beginning with digits, are returned unchanged.
func FormatBookTitle(name string) string {
	return numberedBook.ReplaceAllString(name, "${1}. ${2}")
}
