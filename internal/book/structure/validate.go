// Copyright (c) 2026 ZgBooks. All rights reserved.
// Author: contact@zgbooks.dev

package structure

import (
	"context"
	"strings"
)

// # Diagnostics

// Code classifies a validation finding.
type Code string

const (
	// CodeNotFound means the referenced entity row does not exist.
	CodeNotFound Code = "NotFound"

	// CodeEmpty means the entity exists but carries no usable content
	// (blank text, unset image file).
	CodeEmpty Code = "Empty"
)

// ObjectType names the kind of entity a diagnostic is about.
type ObjectType string

const (
	ObjectTextFragment   ObjectType = "TextFragment"
	ObjectImage          ObjectType = "Image"
	ObjectImageTitle     ObjectType = "ImageTitle"
	ObjectImageAuthor    ObjectType = "ImageAuthor"
	ObjectTextTitle      ObjectType = "TextTitle"
	ObjectTextAnnotation ObjectType = "TextAnnotation"
)

// Object identifies the entity a diagnostic refers to. ID is the fragment
// UUID (compact wire form) or the integer image id, and is null when the id
// itself could not be determined (e.g. a missing author reference).
type Object struct {
	ID   any        `json:"id"`
	Type ObjectType `json:"type"`
}

// Diagnostic is one structured validation finding.
//
// Diagnostics are data, never errors: validation is total and returns every
// finding across the whole tree so an editor sees the complete list in one
// pass. A book with zero diagnostics for a language is publishable in it.
type Diagnostic struct {
	// Source is where the finding originates: Preview, Content or SubContent.
	Source Source `json:"source"`

	// Code is NotFound or Empty.
	Code Code `json:"code"`

	// Object identifies the offending entity.
	Object Object `json:"object"`

	// Index is the position within the nearest enclosing array; null for
	// Preview-source findings.
	Index *int `json:"index"`

	// Other is an open map for kind-specific extra detail. It is validated
	// for presence only, never for shape.
	Other map[string]any `json:"other"`
}

// # Validator

// Validator checks every entity referenced by a book's structure tree for a
// given language. It is stateless: each call performs its own batched
// lookups and accumulates its own diagnostics, so concurrent validations of
// different languages need no coordination.
type Validator struct {
	Store EntityStore
}

// NewValidator constructs a [Validator] over the given entity store.
func NewValidator(store EntityStore) *Validator {
	return &Validator{Store: store}
}

/*
Validate returns the ordered list of diagnostics for (book, language).

Rules by node kind:

  - TextRef: NotFound when no fragment row exists for (uuid, language);
    Empty when the row exists but its text is blank or whitespace-only.
  - ImageL1/ImageL2: NotFound when no image row exists with that id for the
    book, or when the row is not a body image; Empty when the image's file
    locator is unset.
  - ImageL1 title: resolved like a TextRef, reported as ImageTitle.
  - ImageL1 author: NotFound (ImageAuthor, null id) when the image carries no
    author reference. Only the reference is checked, never the author's data.
  - Book title/annotation: checked once in the preview pass as
    TextTitle/TextAnnotation, with a null index.

The two lookup batches plus the title/annotation pair are the only entity
store calls — one per entity kind per invocation, regardless of tree size.
An error is returned only when the store itself fails; content findings are
always collected, never raised.
*/
func (v *Validator) Validate(ctx context.Context, bookID int64, lang string, tree Tree) ([]Diagnostic, error) {

	// Phase 1: collect every reference in one traversal.
	refs := CollectRefs(tree)

	// Phase 2: batched resolution, one call per entity kind.
	fragments, err := v.Store.GetTextFragments(ctx, bookID, lang, refs.Texts)
	if err != nil {
		return nil, err
	}

	images, err := v.Store.GetImages(ctx, bookID, refs.Images)
	if err != nil {
		return nil, err
	}

	title, annotation, err := v.Store.GetBookTitleAndAnnotation(ctx, bookID, lang)
	if err != nil {
		return nil, err
	}

	// Phase 3: pure in-memory walk against the batch results.
	diagnostics := make([]Diagnostic, 0)
	report := func(vctx VisitContext, code Code, objType ObjectType, id any, other map[string]any) {
		if other == nil {
			other = map[string]any{}
		}
		diagnostics = append(diagnostics, Diagnostic{
			Source: vctx.Source,
			Code:   code,
			Object: Object{ID: id, Type: objType},
			Index:  vctx.Index,
			Other:  other,
		})
	}

	checkFragment := func(vctx VisitContext, id any, objType ObjectType, fragment *TextFragment) {
		if fragment == nil {
			report(vctx, CodeNotFound, objType, id, nil)
			return
		}
		if strings.TrimSpace(fragment.Text) == "" {
			report(vctx, CodeEmpty, objType, id, nil)
		}
	}

	// checkImage reports problems with an image row and returns it when the
	// row is usable for further checks (author reference).
	checkImage := func(vctx VisitContext, id int64) *Image {
		image := images[id]
		if image == nil {
			report(vctx, CodeNotFound, ObjectImage, id, nil)
			return nil
		}
		if image.Category != CategoryBody {
			// A preview-category image referenced from the body resolves to
			// nothing as far as content is concerned.
			report(vctx, CodeNotFound, ObjectImage, id, map[string]any{
				"category": string(image.Category),
			})
			return nil
		}
		if image.File == "" {
			report(vctx, CodeEmpty, ObjectImage, id, nil)
		}
		return image
	}

	visit := func(node Node, vctx VisitContext) error {
		switch n := node.(type) {
		case BookTitle:
			checkFragment(vctx, nil, ObjectTextTitle, title)

		case BookAnnotation:
			checkFragment(vctx, nil, ObjectTextAnnotation, annotation)

		case TextRef:
			checkFragment(vctx, CompactUUID(n.ID), ObjectTextFragment, fragments[n.ID])

		case TitleRef:
			checkFragment(vctx, CompactUUID(n.ID), ObjectImageTitle, fragments[n.ID])

		case ImageL1:
			if image := checkImage(vctx, n.ID); image != nil && image.AuthorID == nil {
				report(vctx, CodeNotFound, ObjectImageAuthor, nil, nil)
			}

		case ImageL2:
			checkImage(vctx, n.ID)
		}
		return nil
	}

	if err := WalkPreview(visit); err != nil {
		return nil, err
	}
	if err := Walk(tree, visit); err != nil {
		return nil, err
	}

	return diagnostics, nil
}
