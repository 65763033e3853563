// Package source loads the assembler inputs from MySword SQLite databases:
// the text database (Bible table), the books database (biblebooks table),
// and the optional cross-reference database (xrefs_bcv table or view).
package source

import (
	"database/sql"

	"github.com/jubilate/versebinder/core/bible"
	"github.com/jubilate/versebinder/core/errors"
	"github.com/jubilate/versebinder/core/sqlite"
	"github.com/jubilate/versebinder/core/xref"
)

// Open opens one of the source databases read-only.
func Open(path string) (*sql.DB, error) {
	db, err := sqlite.OpenReadOnly(path)
	if err != nil {
		return nil, errors.NewIO("open", path, err)
	}
	return db, nil
}

// TableExists reports whether a table or view with the given name exists.
func TableExists(db *sql.DB, name string) (bool, error) {
	row := db.QueryRow(
		"SELECT name FROM sqlite_master WHERE (type='table' OR type='view') AND name=?", name)
	var found string
	switch err := row.Scan(&found); err {
	case nil:
		return true, nil
	case sql.ErrNoRows:
		return false, nil
	default:
		return false, err
	}
}

// LoadBooks reads the book id to display name mapping.
func LoadBooks(db *sql.DB) (bible.Books, error) {
	rows, err := db.Query("SELECT id, name FROM biblebooks ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	books := make(bible.Books)
	for rows.Next() {
		var id int
		var name sql.NullString
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		books[id] = name.String
	}
	return books, rows.Err()
}

// LoadVerses reads the full verse corpus, nested as book -> chapter ->
// verses. The ORDER BY keeps each chapter's verse slice sorted; downstream
// consumers preserve this order rather than re-sorting. NULL scripture is
// normalized to the empty string.
func LoadVerses(db *sql.DB) (bible.Verses, error) {
	rows, err := db.Query(
		"SELECT Book, Chapter, Verse, Scripture FROM Bible ORDER BY Book, Chapter, Verse")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	verses := make(bible.Verses)
	for rows.Next() {
		var book, chapter, number int
		var text sql.NullString
		if err := rows.Scan(&book, &chapter, &number, &text); err != nil {
			return nil, err
		}
		chapters, ok := verses[book]
		if !ok {
			chapters = make(map[int][]bible.Verse)
			verses[book] = chapters
		}
		chapters[chapter] = append(chapters[chapter], bible.Verse{Number: number, Text: text.String})
	}
	return verses, rows.Err()
}

// LoadCrossRefs reads the directed cross-reference pairs in source order.
func LoadCrossRefs(db *sql.DB) ([]xref.Pair, error) {
	rows, err := db.Query(
		"SELECT fbi, fci, fvi, tbi, tci, tvi FROM xrefs_bcv ORDER BY fbi, fci, fvi")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pairs []xref.Pair
	for rows.Next() {
		var p xref.Pair
		if err := rows.Scan(
			&p.From.Book, &p.From.Chapter, &p.From.Verse,
			&p.To.Book, &p.To.Chapter, &p.To.Verse,
		); err != nil {
			return nil, err
		}
		pairs = append(pairs, p)
	}
	return pairs, rows.Err()
}
