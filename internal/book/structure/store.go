// Copyright (c) 2026 ZgBooks. All rights reserved.
// Author: contact@zgbooks.dev

package structure

import (
	"context"

	"github.com/google/uuid"
)

// # Referenced Entities

// FragmentKind classifies a [TextFragment]'s role within a book.
type FragmentKind string

const (
	// KindTitle is the book title fragment.
	KindTitle FragmentKind = "title"

	// KindAnnotation is the book annotation fragment.
	KindAnnotation FragmentKind = "ann"

	// KindBody is a body text fragment referenced from the structure tree.
	KindBody FragmentKind = "body"

	// KindImageTitle is the caption fragment referenced by an [ImageL1] title.
	KindImageTitle FragmentKind = "imgtitle"
)

// IsValid reports whether k is a recognised [FragmentKind] value.
func (k FragmentKind) IsValid() bool {
	switch k {
	case KindTitle, KindAnnotation, KindBody, KindImageTitle:
		return true
	}
	return false
}

// ImageCategory classifies where an image belongs.
type ImageCategory string

const (
	// CategoryPreview marks catalogue preview images, ordered by position.
	CategoryPreview ImageCategory = "preview"

	// CategoryBody marks body images, ordered by the structure tree.
	CategoryBody ImageCategory = "body"
)

// TextFragment is one localized text row. A given UUID always resolves to
// fragments of the same kind across languages.
type TextFragment struct {
	UUID uuid.UUID
	Kind FragmentKind
	Text string
}

// Image is one stored image row of a book. File is an opaque locator managed
// by an external upload pipeline; AuthorID is an optional reference.
type Image struct {
	ID       int64
	File     string
	Position int
	Category ImageCategory
	AuthorID *int64
}

// Author is the attribution payload attached to hydrated images.
type Author struct {
	ID        int64
	Name      string
	Link      string
	Countries []string
	Age       *int16
}

// # Entity Store Adapter

// EntityStore is the read-only lookup boundary the engine depends on.
//
// Implementations resolve references in batches — the engine issues at most
// one call per method per validation or hydration pass, regardless of tree
// size, so each method must accept the full id set at once.
//
// # Contract
//
//   - GetTextFragments returns only structure-resolvable fragments (kinds
//     [KindBody] and [KindImageTitle]) of the given book and language, keyed
//     by UUID. Absent UUIDs are simply omitted from the map.
//   - GetImages returns the book's images keyed by id, regardless of
//     category; the engine decides how to treat preview-category rows
//     referenced from the body.
//   - GetAuthors returns author rows keyed by id.
//   - GetBookTitleAndAnnotation returns the designated [KindTitle] and
//     [KindAnnotation] fragments for the (book, language) pair; either may
//     be nil when absent.
//
// The engine never mutates any entity.
type EntityStore interface {
	GetTextFragments(ctx context.Context, bookID int64, lang string, uuids []uuid.UUID) (map[uuid.UUID]*TextFragment, error)
	GetImages(ctx context.Context, bookID int64, ids []int64) (map[int64]*Image, error)
	GetAuthors(ctx context.Context, ids []int64) (map[int64]*Author, error)
	GetBookTitleAndAnnotation(ctx context.Context, bookID int64, lang string) (title, annotation *TextFragment, err error)
}
