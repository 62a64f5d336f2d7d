// Copyright (c) 2026 ZgBooks. All rights reserved.
// Author: contact@zgbooks.dev

/*
Package book implements the catalogue and content surface of the books API.

A book is a language-independent spine: an ordered structure document whose
leaves reference text fragments (by UUID) and images (by id). Publication is
per language through the book_language join; the same spine hydrates into a
different client tree for every published language.

The package is layered the usual way: entities here, a Repository contract in
store.go with the PostgreSQL implementation beside it, a Redis cache for
rendered content, the Service orchestrating the structure engine, and thin
chi handlers on top.
*/
package book

import (
	"time"
)

// Book is one catalogue entry. RawStructure is the stored structure document,
// decoded on demand by the structure engine.
type Book struct {
	ID           int64
	Position     int
	AuthorID     *int64
	RawStructure []byte
}

// BookLanguage is one (book, language) publication state.
type BookLanguage struct {
	LangCode     string
	Hidden       bool
	LastModified time.Time
}

// PreviewImage is a catalogue preview in its client shape. File is the stored
// locator; URL is filled by the service from the media base URL.
type PreviewImage struct {
	ID   int64  `json:"id"`
	File string `json:"-"`
	URL  string `json:"url"`
}

// Summary is the book-list item shape.
type Summary struct {
	ID           int64                `json:"id"`
	Title        string               `json:"title"`
	Preview      *PreviewImage        `json:"preview"`
	LastModified map[string]time.Time `json:"last_modified"`
}

// Detail is the single-book shape: the summary data plus the annotation and
// the full preview set.
type Detail struct {
	ID           int64                `json:"id"`
	Title        string               `json:"title"`
	Annotation   string               `json:"annotation"`
	Previews     []PreviewImage       `json:"previews"`
	LastModified map[string]time.Time `json:"last_modified"`
}

// Orphans lists stored content rows of a (book, language) that the structure
// tree never references. They are bookkeeping for editors, not findings: an
// orphaned row never blocks publication.
type Orphans struct {
	TextFragments []string `json:"text_fragments"`
	Images        []int64  `json:"images"`
}

// Global field names for validation
const (
	FieldLang = "lang"
	FieldID   = "id"
	FieldMode = "mode"
)
