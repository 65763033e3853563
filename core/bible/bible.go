// Package bible defines the in-memory data model shared by the data source
// and the EPUB assembler: verse coordinates, verses, and the nested
// book -> chapter -> verse maps with deterministic sorted-key iteration.
package bible

import "sort"

// Coord uniquely identifies one verse as a (book, chapter, verse) triple.
type Coord struct {
	Book    int
	Chapter int
	Verse   int
}

// Less orders coordinates by book, then chapter, then verse.
func (c Coord) Less(o Coord) bool {
	if c.Book != o.Book {
		return c.Book < o.Book
	}
	if c.Chapter != o.Chapter {
		return c.Chapter < o.Chapter
	}
	return c.Verse < o.Verse
}

// Verse is a single verse within a chapter. Text holds the raw annotated
// scripture text; a NULL column in the source is normalized to "".
type Verse struct {
	Number int
	Text   string
}

// Books maps book id to display name.
type Books map[int]string

// Verses maps book id -> chapter -> verses in source order.
// The source is expected to supply verse slices already sorted by
// chapter then verse; consumers preserve that order.
type Verses map[int]map[int][]Verse

// SortedBookIDs returns the book ids present in v in ascending order.
func SortedBookIDs(v Verses) []int {
	ids := make([]int, 0, len(v))
	for id := range v {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// SortedChapters returns the chapter numbers of one book in ascending order.
// Map keys are unique, so the result is deduplicated by construction.
func SortedChapters(chapters map[int][]Verse) []int {
	nums := make([]int, 0, len(chapters))
	for n := range chapters {
		nums = append(nums, n)
	}
	sort.Ints(nums)
	return nums
}
