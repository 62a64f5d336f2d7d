// Copyright (c) 2026 ZgBooks. All rights reserved.
// Author: contact@zgbooks.dev

package book

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/zgbooks/books-api/internal/book/structure"
)

// Repository defines the data access contract for the catalogue.
//
// It embeds [structure.EntityStore] so the same implementation backs both the
// catalogue endpoints and the structure engine's batched lookups.
type Repository interface {
	structure.EntityStore

	// ListBooks returns one page of books published (not hidden) in lang,
	// ordered by position then id, plus the total count for pagination.
	ListBooks(context context.Context, lang string, limit, offset int) ([]*Summary, int, error)

	// FindBook returns the raw book row, including its structure document.
	FindBook(context context.Context, id int64) (*Book, error)

	// GetBookLanguage returns the publication state for (book, lang), or a
	// not-found error when the book has no such translation at all.
	GetBookLanguage(context context.Context, bookID int64, lang string) (*BookLanguage, error)

	// ListBookLanguages returns every translation row of a book.
	ListBookLanguages(context context.Context, bookID int64) ([]*BookLanguage, error)

	// ListPreviewImages returns the book's preview-category images ordered by
	// position.
	ListPreviewImages(context context.Context, bookID int64) ([]PreviewImage, error)

	// ListBodyFragmentUUIDs returns the UUIDs of every structure-resolvable
	// fragment stored for (book, lang). Used for orphan detection.
	ListBodyFragmentUUIDs(context context.Context, bookID int64, lang string) ([]uuid.UUID, error)

	// ListBodyImageIDs returns the ids of every body-category image of the
	// book. Used for orphan detection.
	ListBodyImageIDs(context context.Context, bookID int64) ([]int64, error)
}

// ContentCache is the rendered-content cache contract. A miss is not an
// error: Get reports it through the found flag.
type ContentCache interface {
	Get(context context.Context, bookID int64, lang string) (payload []byte, found bool, err error)
	Set(context context.Context, bookID int64, lang string, payload []byte, ttl time.Duration) error
	Delete(context context.Context, bookID int64, lang string) error
}
