// Package xref builds bidirectional verse-keyed cross-reference indices
// from a flat list of directed reference pairs.
package xref

import (
	"sort"

	"github.com/jubilate/versebinder/core/bible"
)

// Pair is one directed cross-reference between two verse coordinates.
type Pair struct {
	From bible.Coord
	To   bible.Coord
}

// Index holds the two derived lookup maps. From is keyed by source verse
// and lists outgoing targets; To is keyed by target verse and lists
// incoming sources. Bucket order preserves pair insertion order.
//
// All methods are nil-safe so callers can treat "no cross-reference data"
// as a nil *Index without guarding every call site.
type Index struct {
	From map[bible.Coord][]bible.Coord
	To   map[bible.Coord][]bible.Coord
}

// Build indexes pairs in a single pass. Empty input yields an Index with
// two empty maps, never an error.
func Build(pairs []Pair) *Index {
	ix := &Index{
		From: make(map[bible.Coord][]bible.Coord, len(pairs)),
		To:   make(map[bible.Coord][]bible.Coord, len(pairs)),
	}
	for _, p := range pairs {
		ix.From[p.From] = append(ix.From[p.From], p.To)
		ix.To[p.To] = append(ix.To[p.To], p.From)
	}
	return ix
}

// Has reports whether c participates in any cross-reference, in either
// direction.
func (ix *Index) Has(c bible.Coord) bool {
	if ix == nil {
		return false
	}
	if _, ok := ix.From[c]; ok {
		return true
	}
	_, ok := ix.To[c]
	return ok
}

// Empty reports whether the index carries no references at all.
func (ix *Index) Empty() bool {
	return ix == nil || (len(ix.From) == 0 && len(ix.To) == 0)
}

// Coords returns every coordinate appearing in either direction, sorted by
// (book, chapter, verse). This is the iteration order of the generated
// cross-reference page.
func (ix *Index) Coords() []bible.Coord {
	if ix == nil {
		return nil
	}
	seen := make(map[bible.Coord]struct{}, len(ix.From)+len(ix.To))
	for c := range ix.From {
		seen[c] = struct{}{}
	}
	for c := range ix.To {
		seen[c] = struct{}{}
	}
	coords := make([]bible.Coord, 0, len(seen))
	for c := range seen {
		coords = append(coords, c)
	}
	sort.Slice(coords, func(i, j int) bool { return coords[i].Less(coords[j]) })
	return coords
}
