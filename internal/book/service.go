// Copyright (c) 2026 ZgBooks. All rights reserved.
// Author: contact@zgbooks.dev

package book

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/zgbooks/books-api/internal/book/structure"
	"github.com/zgbooks/books-api/internal/platform/apperr"
	"github.com/zgbooks/books-api/internal/platform/validate"
	"github.com/zgbooks/books-api/pkg/pagination"
	"github.com/zgbooks/books-api/pkg/slice"
)

// ContentOptions controls a content render.
type ContentOptions struct {
	// Mode selects strict or lenient hydration. Empty defaults to strict.
	Mode structure.Mode

	// Refresh bypasses the cache read (the result is still written back).
	Refresh bool
}

// ValidationReport is the outcome of validating one (book, language):
// the ordered engine diagnostics plus orphaned-content bookkeeping.
type ValidationReport struct {
	Diagnostics []structure.Diagnostic
	Orphans     Orphans
}

// Service orchestrates the catalogue endpoints and the structure engine.
type Service struct {
	repo      Repository
	cache     ContentCache
	validator *structure.Validator
	hydrator  *structure.Hydrator
	logger    *slog.Logger
	cacheTTL  time.Duration
}

// NewService wires the catalogue service. mediaBaseURL prefixes stored file
// locators into public URLs; cacheTTL bounds the rendered-content cache.
func NewService(repo Repository, cache ContentCache, logger *slog.Logger, mediaBaseURL string, cacheTTL time.Duration) *Service {
	resolveURL := mediaURLResolver(mediaBaseURL)
	return &Service{
		repo:      repo,
		cache:     cache,
		validator: structure.NewValidator(repo),
		hydrator:  structure.NewHydrator(repo, resolveURL),
		logger:    logger,
		cacheTTL:  cacheTTL,
	}
}

// mediaURLResolver maps stored file locators onto the public media URL space.
func mediaURLResolver(base string) func(string) string {
	base = strings.TrimSuffix(base, "/")
	return func(file string) string {
		if file == "" {
			return ""
		}
		return base + "/" + strings.TrimPrefix(file, "/")
	}
}

// # Catalogue

func (service *Service) ListBooks(context context.Context, lang string, params pagination.Params) ([]*Summary, pagination.Meta, error) {
	validator := &validate.Validator{}
	validator.LanguageCode(FieldLang, lang)
	if err := validator.Err(); err != nil {
		return nil, pagination.Meta{}, err
	}

	summaries, total, err := service.repo.ListBooks(context, lang, params.Limit, params.Offset())
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	resolve := service.hydrator.ResolveURL
	for _, summary := range summaries {
		if summary.Preview != nil {
			summary.Preview.URL = resolve(summary.Preview.File)
		}
	}

	if summaries == nil {
		summaries = []*Summary{}
	}
	return summaries, pagination.NewMeta(params.Page, params.Limit, total), nil
}

func (service *Service) GetBook(context context.Context, lang string, bookID int64) (*Detail, error) {
	validator := &validate.Validator{}
	validator.LanguageCode(FieldLang, lang).PositiveID(FieldID, bookID)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	bookLang, err := service.repo.GetBookLanguage(context, bookID, lang)
	if err != nil {
		return nil, err
	}
	if bookLang.Hidden {
		// Hidden translations are invisible on the public surface.
		return nil, apperr.NotFound("Book")
	}

	title, annotation, err := service.repo.GetBookTitleAndAnnotation(context, bookID, lang)
	if err != nil {
		return nil, err
	}

	previews, err := service.repo.ListPreviewImages(context, bookID)
	if err != nil {
		return nil, err
	}
	resolve := service.hydrator.ResolveURL
	for i := range previews {
		previews[i].URL = resolve(previews[i].File)
	}

	languages, err := service.repo.ListBookLanguages(context, bookID)
	if err != nil {
		return nil, err
	}
	lastModified := make(map[string]time.Time, len(languages))
	for _, bl := range languages {
		lastModified[bl.LangCode] = bl.LastModified
	}

	detail := &Detail{
		ID:           bookID,
		Previews:     previews,
		LastModified: lastModified,
	}
	if title != nil {
		detail.Title = title.Text
	}
	if annotation != nil {
		detail.Annotation = annotation.Text
	}
	return detail, nil
}

// # Content Rendering

/*
GetContent returns the hydrated client tree for (book, lang) as serialized
JSON, plus whether it was served from the cache.

Strict renders of visible translations are cached; lenient renders and hidden
translations always go to the database. A hidden translation is not found in
strict mode but is renderable leniently, which is how editors preview
unpublished work. Cache failures degrade to a render, never to an error.
*/
func (service *Service) GetContent(context context.Context, lang string, bookID int64, options ContentOptions) (json.RawMessage, bool, error) {
	mode := options.Mode
	if mode == "" {
		mode = structure.ModeStrict
	}

	validator := &validate.Validator{}
	validator.LanguageCode(FieldLang, lang).PositiveID(FieldID, bookID)
	validator.OneOf(FieldMode, string(mode), string(structure.ModeStrict), string(structure.ModeLenient))
	if err := validator.Err(); err != nil {
		return nil, false, err
	}

	bookLang, err := service.repo.GetBookLanguage(context, bookID, lang)
	if err != nil {
		return nil, false, err
	}
	if bookLang.Hidden && mode != structure.ModeLenient {
		return nil, false, apperr.NotFound("Book")
	}

	cacheable := mode == structure.ModeStrict && !bookLang.Hidden

	if cacheable && !options.Refresh {
		payload, found, err := service.cache.Get(context, bookID, lang)
		if err != nil {
			service.logger.Warn("content_cache_read_failed",
				slog.Int64("book_id", bookID),
				slog.String("lang", lang),
				slog.String("error", err.Error()),
			)
		} else if found {
			return payload, true, nil
		}
	}

	payload, err := service.renderContent(context, lang, bookID, mode)
	if err != nil {
		return nil, false, err
	}

	if cacheable {
		if err := service.cache.Set(context, bookID, lang, payload, service.cacheTTL); err != nil {
			service.logger.Warn("content_cache_write_failed",
				slog.Int64("book_id", bookID),
				slog.String("lang", lang),
				slog.String("error", err.Error()),
			)
		}
	}

	return payload, false, nil
}

// renderContent decodes the stored structure and hydrates it for lang.
func (service *Service) renderContent(context context.Context, lang string, bookID int64, mode structure.Mode) (json.RawMessage, error) {
	book, err := service.repo.FindBook(context, bookID)
	if err != nil {
		return nil, err
	}

	tree, err := structure.DecodeTree(book.RawStructure)
	if err != nil {
		return nil, wrapEngineError(err)
	}

	nodes, err := service.hydrator.Hydrate(context, bookID, lang, tree, mode)
	if err != nil {
		return nil, wrapEngineError(err)
	}

	payload, err := json.Marshal(nodes)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return payload, nil
}

// # Validation

/*
ValidateBook runs the structure engine's validation for (book, lang) and
augments it with orphan detection: stored body fragments and body images the
tree never references.

Hidden translations are accepted here — validation is an editorial tool and
runs before publication. When the report carries diagnostics the cached
render is evicted so a broken book stops serving stale content.
*/
func (service *Service) ValidateBook(context context.Context, lang string, bookID int64) (*ValidationReport, error) {
	validator := &validate.Validator{}
	validator.LanguageCode(FieldLang, lang).PositiveID(FieldID, bookID)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if _, err := service.repo.GetBookLanguage(context, bookID, lang); err != nil {
		return nil, err
	}

	book, err := service.repo.FindBook(context, bookID)
	if err != nil {
		return nil, err
	}

	tree, err := structure.DecodeTree(book.RawStructure)
	if err != nil {
		return nil, wrapEngineError(err)
	}

	diagnostics, err := service.validator.Validate(context, bookID, lang, tree)
	if err != nil {
		return nil, err
	}

	orphans, err := service.collectOrphans(context, lang, bookID, tree)
	if err != nil {
		return nil, err
	}

	if len(orphans.TextFragments) > 0 || len(orphans.Images) > 0 {
		service.logger.Warn("unreferenced_content",
			slog.Int64("book_id", bookID),
			slog.String("lang", lang),
			slog.Int("text_fragments", len(orphans.TextFragments)),
			slog.Int("images", len(orphans.Images)),
		)
	}

	if len(diagnostics) > 0 {
		if err := service.cache.Delete(context, bookID, lang); err != nil {
			service.logger.Warn("content_cache_evict_failed",
				slog.Int64("book_id", bookID),
				slog.String("lang", lang),
				slog.String("error", err.Error()),
			)
		}
	}

	return &ValidationReport{Diagnostics: diagnostics, Orphans: orphans}, nil
}

// collectOrphans diffs the stored content rows against the tree's references.
func (service *Service) collectOrphans(context context.Context, lang string, bookID int64, tree structure.Tree) (Orphans, error) {
	refs := structure.CollectRefs(tree)

	storedFragments, err := service.repo.ListBodyFragmentUUIDs(context, bookID, lang)
	if err != nil {
		return Orphans{}, err
	}
	storedImages, err := service.repo.ListBodyImageIDs(context, bookID)
	if err != nil {
		return Orphans{}, err
	}

	orphanFragments := slice.Map(
		slice.Diff(storedFragments, refs.Texts),
		func(id uuid.UUID) string { return structure.CompactUUID(id) },
	)
	orphanImages := slice.Diff(storedImages, refs.Images)

	orphans := Orphans{TextFragments: []string{}, Images: []int64{}}
	if orphanFragments != nil {
		orphans.TextFragments = orphanFragments
	}
	if orphanImages != nil {
		orphans.Images = orphanImages
	}
	return orphans, nil
}

// wrapEngineError maps structure engine failures onto API errors. A corrupt
// stored document is 422; a strict-mode resolution failure means published
// data is broken server-side, which is 500.
func wrapEngineError(err error) error {
	var schemaErr *structure.SchemaError
	if errors.As(err, &schemaErr) {
		return apperr.Unprocessable("Book structure is malformed: " + schemaErr.Message)
	}

	var resolutionErr *structure.ResolutionError
	if errors.As(err, &resolutionErr) {
		return apperr.Internal(err)
	}

	return err
}
