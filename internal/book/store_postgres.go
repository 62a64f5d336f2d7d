// Copyright (c) 2026 ZgBooks. All rights reserved.
// Author: contact@zgbooks.dev

package book

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zgbooks/books-api/internal/book/structure"
	"github.com/zgbooks/books-api/internal/core/author"
	"github.com/zgbooks/books-api/internal/platform/database/schema"
	"github.com/zgbooks/books-api/internal/platform/dberr"
)

// PostgresRepository implements [Repository] over pgx. All multi-id lookups
// use `= ANY($n)` so the structure engine's batching maps to single queries.
type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// # Catalogue Queries

func (repository *PostgresRepository) ListBooks(context context.Context, lang string, limit, offset int) ([]*Summary, int, error) {
	query := fmt.Sprintf(`
		SELECT b.%s, COALESCE(title.%s, ''), COUNT(*) OVER ()
		FROM %s b
		JOIN %s bl ON bl.%s = b.%s
		JOIN %s l ON l.%s = bl.%s
		LEFT JOIN %s title
			ON title.%s = b.%s AND title.%s = bl.%s AND title.%s = $1
		WHERE l.%s = $2 AND bl.%s = FALSE
		ORDER BY b.%s ASC, b.%s ASC
		LIMIT $3 OFFSET $4;
	`,
		schema.BooksBook.ID,
		schema.BooksTextFragment.Text,
		schema.BooksBook.Table,
		schema.BooksBookLanguage.Table,
		schema.BooksBookLanguage.BookID,
		schema.BooksBook.ID,
		schema.BooksLanguage.Table,
		schema.BooksLanguage.ID,
		schema.BooksBookLanguage.LangID,
		schema.BooksTextFragment.Table,
		schema.BooksTextFragment.BookID,
		schema.BooksBook.ID,
		schema.BooksTextFragment.LangID,
		schema.BooksBookLanguage.LangID,
		schema.BooksTextFragment.Kind,
		schema.BooksLanguage.Code,
		schema.BooksBookLanguage.Hidden,
		schema.BooksBook.Position,
		schema.BooksBook.ID,
	)

	rows, err := repository.db.Query(context, query, string(structure.KindTitle), lang, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_books")
	}
	defer rows.Close()

	var summaries []*Summary
	var bookIDs []int64
	total := 0
	for rows.Next() {
		s := &Summary{LastModified: make(map[string]time.Time)}
		if err := rows.Scan(&s.ID, &s.Title, &total); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_book_summary")
		}
		summaries = append(summaries, s)
		bookIDs = append(bookIDs, s.ID)
	}

	if len(summaries) == 0 {
		return summaries, total, nil
	}

	if err := repository.attachFirstPreviews(context, bookIDs, summaries); err != nil {
		return nil, 0, err
	}
	if err := repository.attachLastModified(context, bookIDs, summaries); err != nil {
		return nil, 0, err
	}

	return summaries, total, nil
}

// attachFirstPreviews fills each summary's Preview with the book's first
// preview image (lowest position).
func (repository *PostgresRepository) attachFirstPreviews(context context.Context, bookIDs []int64, summaries []*Summary) error {
	query := fmt.Sprintf(`
		SELECT DISTINCT ON (%s) %s, %s, %s
		FROM %s
		WHERE %s = ANY($1) AND %s = $2
		ORDER BY %s, %s ASC, %s ASC;
	`,
		schema.BooksImage.BookID,
		schema.BooksImage.BookID,
		schema.BooksImage.ID,
		schema.BooksImage.File,
		schema.BooksImage.Table,
		schema.BooksImage.BookID,
		schema.BooksImage.Category,
		schema.BooksImage.BookID,
		schema.BooksImage.Position,
		schema.BooksImage.ID,
	)

	rows, err := repository.db.Query(context, query, bookIDs, string(structure.CategoryPreview))
	if err != nil {
		return dberr.Wrap(err, "list_first_previews")
	}
	defer rows.Close()

	previews := make(map[int64]*PreviewImage)
	for rows.Next() {
		var bookID int64
		preview := &PreviewImage{}
		if err := rows.Scan(&bookID, &preview.ID, &preview.File); err != nil {
			return dberr.Wrap(err, "scan_first_preview")
		}
		previews[bookID] = preview
	}

	for _, summary := range summaries {
		summary.Preview = previews[summary.ID]
	}
	return nil
}

// attachLastModified fills each summary's per-language last_modified map.
func (repository *PostgresRepository) attachLastModified(context context.Context, bookIDs []int64, summaries []*Summary) error {
	query := fmt.Sprintf(`
		SELECT bl.%s, l.%s, bl.%s
		FROM %s bl
		JOIN %s l ON l.%s = bl.%s
		WHERE bl.%s = ANY($1);
	`,
		schema.BooksBookLanguage.BookID,
		schema.BooksLanguage.Code,
		schema.BooksBookLanguage.LastModified,
		schema.BooksBookLanguage.Table,
		schema.BooksLanguage.Table,
		schema.BooksLanguage.ID,
		schema.BooksBookLanguage.LangID,
		schema.BooksBookLanguage.BookID,
	)

	rows, err := repository.db.Query(context, query, bookIDs)
	if err != nil {
		return dberr.Wrap(err, "list_last_modified")
	}
	defer rows.Close()

	modified := make(map[int64]map[string]time.Time)
	for rows.Next() {
		var bookID int64
		var code string
		var lastModified time.Time
		if err := rows.Scan(&bookID, &code, &lastModified); err != nil {
			return dberr.Wrap(err, "scan_last_modified")
		}
		if modified[bookID] == nil {
			modified[bookID] = make(map[string]time.Time)
		}
		modified[bookID][code] = lastModified
	}

	for _, summary := range summaries {
		if m := modified[summary.ID]; m != nil {
			summary.LastModified = m
		}
	}
	return nil
}

func (repository *PostgresRepository) FindBook(context context.Context, id int64) (*Book, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s
		FROM %s
		WHERE %s = $1;
	`,
		schema.BooksBook.ID,
		schema.BooksBook.Position,
		schema.BooksBook.Structure,
		schema.BooksBook.AuthorID,
		schema.BooksBook.Table,
		schema.BooksBook.ID,
	)

	b := &Book{}
	err := repository.db.QueryRow(context, query, id).Scan(&b.ID, &b.Position, &b.RawStructure, &b.AuthorID)
	if err != nil {
		return nil, dberr.Wrap(err, "find_book")
	}
	return b, nil
}

func (repository *PostgresRepository) GetBookLanguage(context context.Context, bookID int64, lang string) (*BookLanguage, error) {
	query := fmt.Sprintf(`
		SELECT l.%s, bl.%s, bl.%s
		FROM %s bl
		JOIN %s l ON l.%s = bl.%s
		WHERE bl.%s = $1 AND l.%s = $2;
	`,
		schema.BooksLanguage.Code,
		schema.BooksBookLanguage.Hidden,
		schema.BooksBookLanguage.LastModified,
		schema.BooksBookLanguage.Table,
		schema.BooksLanguage.Table,
		schema.BooksLanguage.ID,
		schema.BooksBookLanguage.LangID,
		schema.BooksBookLanguage.BookID,
		schema.BooksLanguage.Code,
	)

	bl := &BookLanguage{}
	err := repository.db.QueryRow(context, query, bookID, lang).Scan(&bl.LangCode, &bl.Hidden, &bl.LastModified)
	if err != nil {
		return nil, dberr.Wrap(err, "get_book_language")
	}
	return bl, nil
}

func (repository *PostgresRepository) ListBookLanguages(context context.Context, bookID int64) ([]*BookLanguage, error) {
	query := fmt.Sprintf(`
		SELECT l.%s, bl.%s, bl.%s
		FROM %s bl
		JOIN %s l ON l.%s = bl.%s
		WHERE bl.%s = $1
		ORDER BY bl.%s DESC;
	`,
		schema.BooksLanguage.Code,
		schema.BooksBookLanguage.Hidden,
		schema.BooksBookLanguage.LastModified,
		schema.BooksBookLanguage.Table,
		schema.BooksLanguage.Table,
		schema.BooksLanguage.ID,
		schema.BooksBookLanguage.LangID,
		schema.BooksBookLanguage.BookID,
		schema.BooksBookLanguage.LastModified,
	)

	rows, err := repository.db.Query(context, query, bookID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_book_languages")
	}
	defer rows.Close()

	var languages []*BookLanguage
	for rows.Next() {
		bl := &BookLanguage{}
		if err := rows.Scan(&bl.LangCode, &bl.Hidden, &bl.LastModified); err != nil {
			return nil, dberr.Wrap(err, "scan_book_language")
		}
		languages = append(languages, bl)
	}
	return languages, nil
}

func (repository *PostgresRepository) ListPreviewImages(context context.Context, bookID int64) ([]PreviewImage, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s
		FROM %s
		WHERE %s = $1 AND %s = $2
		ORDER BY %s ASC, %s ASC;
	`,
		schema.BooksImage.ID,
		schema.BooksImage.File,
		schema.BooksImage.Table,
		schema.BooksImage.BookID,
		schema.BooksImage.Category,
		schema.BooksImage.Position,
		schema.BooksImage.ID,
	)

	rows, err := repository.db.Query(context, query, bookID, string(structure.CategoryPreview))
	if err != nil {
		return nil, dberr.Wrap(err, "list_preview_images")
	}
	defer rows.Close()

	previews := make([]PreviewImage, 0)
	for rows.Next() {
		preview := PreviewImage{}
		if err := rows.Scan(&preview.ID, &preview.File); err != nil {
			return nil, dberr.Wrap(err, "scan_preview_image")
		}
		previews = append(previews, preview)
	}
	return previews, nil
}

// # Orphan Bookkeeping

func (repository *PostgresRepository) ListBodyFragmentUUIDs(context context.Context, bookID int64, lang string) ([]uuid.UUID, error) {
	query := fmt.Sprintf(`
		SELECT tf.%s
		FROM %s tf
		JOIN %s l ON l.%s = tf.%s
		WHERE tf.%s = $1 AND l.%s = $2 AND tf.%s = ANY($3)
		ORDER BY tf.%s ASC;
	`,
		schema.BooksTextFragment.UUID,
		schema.BooksTextFragment.Table,
		schema.BooksLanguage.Table,
		schema.BooksLanguage.ID,
		schema.BooksTextFragment.LangID,
		schema.BooksTextFragment.BookID,
		schema.BooksLanguage.Code,
		schema.BooksTextFragment.Kind,
		schema.BooksTextFragment.ID,
	)

	rows, err := repository.db.Query(context, query, bookID, lang, resolvableKinds())
	if err != nil {
		return nil, dberr.Wrap(err, "list_body_fragment_uuids")
	}
	defer rows.Close()

	var uuids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, dberr.Wrap(err, "scan_body_fragment_uuid")
		}
		uuids = append(uuids, id)
	}
	return uuids, nil
}

func (repository *PostgresRepository) ListBodyImageIDs(context context.Context, bookID int64) ([]int64, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1 AND %s = $2
		ORDER BY %s ASC;
	`,
		schema.BooksImage.ID,
		schema.BooksImage.Table,
		schema.BooksImage.BookID,
		schema.BooksImage.Category,
		schema.BooksImage.ID,
	)

	rows, err := repository.db.Query(context, query, bookID, string(structure.CategoryBody))
	if err != nil {
		return nil, dberr.Wrap(err, "list_body_image_ids")
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, dberr.Wrap(err, "scan_body_image_id")
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// # Entity Store (structure engine)

func (repository *PostgresRepository) GetTextFragments(context context.Context, bookID int64, lang string, uuids []uuid.UUID) (map[uuid.UUID]*structure.TextFragment, error) {
	query := fmt.Sprintf(`
		SELECT tf.%s, tf.%s, tf.%s
		FROM %s tf
		JOIN %s l ON l.%s = tf.%s
		WHERE tf.%s = $1 AND l.%s = $2 AND tf.%s = ANY($3) AND tf.%s = ANY($4);
	`,
		schema.BooksTextFragment.UUID,
		schema.BooksTextFragment.Kind,
		schema.BooksTextFragment.Text,
		schema.BooksTextFragment.Table,
		schema.BooksLanguage.Table,
		schema.BooksLanguage.ID,
		schema.BooksTextFragment.LangID,
		schema.BooksTextFragment.BookID,
		schema.BooksLanguage.Code,
		schema.BooksTextFragment.UUID,
		schema.BooksTextFragment.Kind,
	)

	rows, err := repository.db.Query(context, query, bookID, lang, uuids, resolvableKinds())
	if err != nil {
		return nil, dberr.Wrap(err, "get_text_fragments")
	}
	defer rows.Close()

	fragments := make(map[uuid.UUID]*structure.TextFragment, len(uuids))
	for rows.Next() {
		fragment := &structure.TextFragment{}
		if err := rows.Scan(&fragment.UUID, &fragment.Kind, &fragment.Text); err != nil {
			return nil, dberr.Wrap(err, "scan_text_fragment")
		}
		fragments[fragment.UUID] = fragment
	}
	return fragments, nil
}

func (repository *PostgresRepository) GetImages(context context.Context, bookID int64, ids []int64) (map[int64]*structure.Image, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1 AND %s = ANY($2);
	`,
		schema.BooksImage.ID,
		schema.BooksImage.File,
		schema.BooksImage.Position,
		schema.BooksImage.Category,
		schema.BooksImage.AuthorID,
		schema.BooksImage.Table,
		schema.BooksImage.BookID,
		schema.BooksImage.ID,
	)

	rows, err := repository.db.Query(context, query, bookID, ids)
	if err != nil {
		return nil, dberr.Wrap(err, "get_images")
	}
	defer rows.Close()

	images := make(map[int64]*structure.Image, len(ids))
	for rows.Next() {
		image := &structure.Image{}
		if err := rows.Scan(&image.ID, &image.File, &image.Position, &image.Category, &image.AuthorID); err != nil {
			return nil, dberr.Wrap(err, "scan_image")
		}
		images[image.ID] = image
	}
	return images, nil
}

func (repository *PostgresRepository) GetAuthors(context context.Context, ids []int64) (map[int64]*structure.Author, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = ANY($1);
	`,
		schema.BooksAuthor.ID,
		schema.BooksAuthor.Name,
		schema.BooksAuthor.Country,
		schema.BooksAuthor.Link,
		schema.BooksAuthor.Age,
		schema.BooksAuthor.Table,
		schema.BooksAuthor.ID,
	)

	rows, err := repository.db.Query(context, query, ids)
	if err != nil {
		return nil, dberr.Wrap(err, "get_authors")
	}
	defer rows.Close()

	authors := make(map[int64]*structure.Author, len(ids))
	for rows.Next() {
		a := &structure.Author{}
		var countryCSV string
		if err := rows.Scan(&a.ID, &a.Name, &countryCSV, &a.Link, &a.Age); err != nil {
			return nil, dberr.Wrap(err, "scan_author")
		}
		a.Countries = author.ParseCountryList(countryCSV)
		authors[a.ID] = a
	}
	return authors, nil
}

func (repository *PostgresRepository) GetBookTitleAndAnnotation(context context.Context, bookID int64, lang string) (*structure.TextFragment, *structure.TextFragment, error) {
	query := fmt.Sprintf(`
		SELECT tf.%s, tf.%s, tf.%s
		FROM %s tf
		JOIN %s l ON l.%s = tf.%s
		WHERE tf.%s = $1 AND l.%s = $2 AND tf.%s = ANY($3);
	`,
		schema.BooksTextFragment.UUID,
		schema.BooksTextFragment.Kind,
		schema.BooksTextFragment.Text,
		schema.BooksTextFragment.Table,
		schema.BooksLanguage.Table,
		schema.BooksLanguage.ID,
		schema.BooksTextFragment.LangID,
		schema.BooksTextFragment.BookID,
		schema.BooksLanguage.Code,
		schema.BooksTextFragment.Kind,
	)

	kinds := []string{string(structure.KindTitle), string(structure.KindAnnotation)}
	rows, err := repository.db.Query(context, query, bookID, lang, kinds)
	if err != nil {
		return nil, nil, dberr.Wrap(err, "get_title_annotation")
	}
	defer rows.Close()

	var title, annotation *structure.TextFragment
	for rows.Next() {
		fragment := &structure.TextFragment{}
		if err := rows.Scan(&fragment.UUID, &fragment.Kind, &fragment.Text); err != nil {
			return nil, nil, dberr.Wrap(err, "scan_title_annotation")
		}
		switch fragment.Kind {
		case structure.KindTitle:
			title = fragment
		case structure.KindAnnotation:
			annotation = fragment
		}
	}
	return title, annotation, nil
}

// resolvableKinds returns the fragment kinds the structure tree can reference.
func resolvableKinds() []string {
	return []string{string(structure.KindBody), string(structure.KindImageTitle)}
}
