// Copyright (c) 2026 ZgBooks. All rights reserved.
// Author: contact@zgbooks.dev

package structure_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zgbooks/books-api/internal/book/structure"
	"github.com/zgbooks/books-api/pkg/pointer"
)

const (
	testBookID = int64(42)
	testLang   = "en"
)

// populatedStore builds a store where every reference of the given tree
// resolves cleanly, so individual tests can knock out one entity at a time.
func populatedStore(tree structure.Tree) *fakeStore {
	store := newFakeStore()
	store.title = &structure.TextFragment{UUID: uuid.New(), Kind: structure.KindTitle, Text: "The Book"}
	store.annotation = &structure.TextFragment{UUID: uuid.New(), Kind: structure.KindAnnotation, Text: "About the book"}

	refs := structure.CollectRefs(tree)
	for _, id := range refs.Texts {
		store.addFragment(id, structure.KindBody, "text for "+compact(id))
	}
	authorID := int64(900)
	store.addAuthor(authorID, "Ada Artysta", "https://ada.example", "PL")
	for _, id := range refs.Images {
		store.addImage(id, "images/body.png", structure.CategoryBody, &authorID)
	}

	return store
}

/*
TestValidate_CleanBook checks that a fully-resolvable book yields an empty
(but non-nil) diagnostics slice and exactly one store call per entity kind.
*/
func TestValidate_CleanBook(t *testing.T) {
	title := uuid.New()
	tree := structure.Tree{
		structure.TextRef{ID: uuid.New()},
		structure.ImageL1{
			ID:    1,
			Title: title,
			Content: []structure.Node{
				structure.TextRef{ID: uuid.New()},
				structure.ImageL2{ID: 2},
			},
		},
	}
	store := populatedStore(tree)

	diagnostics, err := structure.NewValidator(store).Validate(context.Background(), testBookID, testLang, tree)
	require.NoError(t, err)

	assert.NotNil(t, diagnostics)
	assert.Empty(t, diagnostics)

	assert.Equal(t, 1, store.calls["GetTextFragments"])
	assert.Equal(t, 1, store.calls["GetImages"])
	assert.Equal(t, 1, store.calls["GetBookTitleAndAnnotation"])
	assert.Zero(t, store.calls["GetAuthors"], "validation never loads author rows")
}

/*
TestValidate_MissingImageTitle pins the exact diagnostic for an image whose
title fragment has no row: the finding points at the image's own position in
the content array, not at a nested one.
*/
func TestValidate_MissingImageTitle(t *testing.T) {
	titleA := uuid.New()
	tree := structure.Tree{
		structure.ImageL1{ID: 1, Title: titleA, Content: []structure.Node{}},
	}
	store := populatedStore(tree)
	delete(store.fragments, titleA)

	diagnostics, err := structure.NewValidator(store).Validate(context.Background(), testBookID, testLang, tree)
	require.NoError(t, err)
	require.Len(t, diagnostics, 1)

	assert.Equal(t, structure.Diagnostic{
		Source: structure.SourceContent,
		Code:   structure.CodeNotFound,
		Object: structure.Object{ID: compact(titleA), Type: structure.ObjectImageTitle},
		Index:  pointer.To(0),
		Other:  map[string]any{},
	}, diagnostics[0])
}

/*
TestValidate_FindingsByKind covers one scenario per rule, each on the
smallest tree that triggers it.
*/
func TestValidate_FindingsByKind(t *testing.T) {
	fragmentID := uuid.New()
	titleID := uuid.New()

	tests := []struct {
		name     string
		tree     structure.Tree
		mutate   func(store *fakeStore)
		expected structure.Diagnostic
	}{
		{
			name: "fragment_not_found",
			tree: structure.Tree{structure.TextRef{ID: fragmentID}},
			mutate: func(store *fakeStore) {
				delete(store.fragments, fragmentID)
			},
			expected: structure.Diagnostic{
				Source: structure.SourceContent,
				Code:   structure.CodeNotFound,
				Object: structure.Object{ID: compact(fragmentID), Type: structure.ObjectTextFragment},
				Index:  pointer.To(0),
				Other:  map[string]any{},
			},
		},
		{
			name: "fragment_blank",
			tree: structure.Tree{structure.TextRef{ID: fragmentID}},
			mutate: func(store *fakeStore) {
				store.addFragment(fragmentID, structure.KindBody, "   \n\t")
			},
			expected: structure.Diagnostic{
				Source: structure.SourceContent,
				Code:   structure.CodeEmpty,
				Object: structure.Object{ID: compact(fragmentID), Type: structure.ObjectTextFragment},
				Index:  pointer.To(0),
				Other:  map[string]any{},
			},
		},
		{
			name: "image_not_found",
			tree: structure.Tree{structure.TextRef{ID: fragmentID}, structure.ImageL1{ID: 5, Title: titleID, Content: []structure.Node{}}},
			mutate: func(store *fakeStore) {
				delete(store.images, 5)
			},
			expected: structure.Diagnostic{
				Source: structure.SourceContent,
				Code:   structure.CodeNotFound,
				Object: structure.Object{ID: int64(5), Type: structure.ObjectImage},
				Index:  pointer.To(1),
				Other:  map[string]any{},
			},
		},
		{
			name: "image_wrong_category",
			tree: structure.Tree{structure.ImageL1{ID: 5, Title: titleID, Content: []structure.Node{}}},
			mutate: func(store *fakeStore) {
				authorID := int64(900)
				store.addImage(5, "images/cover.png", structure.CategoryPreview, &authorID)
			},
			expected: structure.Diagnostic{
				Source: structure.SourceContent,
				Code:   structure.CodeNotFound,
				Object: structure.Object{ID: int64(5), Type: structure.ObjectImage},
				Index:  pointer.To(0),
				Other:  map[string]any{"category": "preview"},
			},
		},
		{
			name: "image_file_unset",
			tree: structure.Tree{structure.ImageL1{ID: 5, Title: titleID, Content: []structure.Node{}}},
			mutate: func(store *fakeStore) {
				authorID := int64(900)
				store.addImage(5, "", structure.CategoryBody, &authorID)
			},
			expected: structure.Diagnostic{
				Source: structure.SourceContent,
				Code:   structure.CodeEmpty,
				Object: structure.Object{ID: int64(5), Type: structure.ObjectImage},
				Index:  pointer.To(0),
				Other:  map[string]any{},
			},
		},
		{
			name: "image_author_reference_missing",
			tree: structure.Tree{structure.ImageL1{ID: 5, Title: titleID, Content: []structure.Node{}}},
			mutate: func(store *fakeStore) {
				store.addImage(5, "images/body.png", structure.CategoryBody, nil)
			},
			expected: structure.Diagnostic{
				Source: structure.SourceContent,
				Code:   structure.CodeNotFound,
				Object: structure.Object{ID: nil, Type: structure.ObjectImageAuthor},
				Index:  pointer.To(0),
				Other:  map[string]any{},
			},
		},
		{
			name: "nested_image_not_found",
			tree: structure.Tree{structure.ImageL1{ID: 5, Title: titleID, Content: []structure.Node{
				structure.TextRef{ID: fragmentID},
				structure.ImageL2{ID: 6},
			}}},
			mutate: func(store *fakeStore) {
				delete(store.images, 6)
			},
			expected: structure.Diagnostic{
				Source: structure.SourceSubContent,
				Code:   structure.CodeNotFound,
				Object: structure.Object{ID: int64(6), Type: structure.ObjectImage},
				Index:  pointer.To(1),
				Other:  map[string]any{},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := populatedStore(tt.tree)
			tt.mutate(store)

			diagnostics, err := structure.NewValidator(store).Validate(context.Background(), testBookID, testLang, tt.tree)
			require.NoError(t, err)
			require.Len(t, diagnostics, 1)
			assert.Equal(t, tt.expected, diagnostics[0])
		})
	}
}

/*
TestValidate_PreviewFindings checks the synthetic preview pass: a missing
book title and a blank annotation are reported with a Preview source and a
null index, before any content finding.
*/
func TestValidate_PreviewFindings(t *testing.T) {
	fragmentID := uuid.New()
	tree := structure.Tree{structure.TextRef{ID: fragmentID}}

	store := populatedStore(tree)
	store.title = nil
	store.annotation = &structure.TextFragment{UUID: uuid.New(), Kind: structure.KindAnnotation, Text: ""}
	delete(store.fragments, fragmentID)

	diagnostics, err := structure.NewValidator(store).Validate(context.Background(), testBookID, testLang, tree)
	require.NoError(t, err)
	require.Len(t, diagnostics, 3)

	assert.Equal(t, structure.Diagnostic{
		Source: structure.SourcePreview,
		Code:   structure.CodeNotFound,
		Object: structure.Object{ID: nil, Type: structure.ObjectTextTitle},
		Index:  nil,
		Other:  map[string]any{},
	}, diagnostics[0])

	assert.Equal(t, structure.Diagnostic{
		Source: structure.SourcePreview,
		Code:   structure.CodeEmpty,
		Object: structure.Object{ID: nil, Type: structure.ObjectTextAnnotation},
		Index:  nil,
		Other:  map[string]any{},
	}, diagnostics[1])

	// The content finding comes last: the preview pass precedes the body walk.
	assert.Equal(t, structure.SourceContent, diagnostics[2].Source)
}

/*
TestValidate_Idempotent runs validation twice over the same store and expects
identical reports: lookups never consume or mutate anything.
*/
func TestValidate_Idempotent(t *testing.T) {
	repeated := uuid.New()
	tree := structure.Tree{
		structure.TextRef{ID: repeated},
		structure.TextRef{ID: repeated},
	}
	store := populatedStore(tree)
	delete(store.fragments, repeated)

	validator := structure.NewValidator(store)

	first, err := validator.Validate(context.Background(), testBookID, testLang, tree)
	require.NoError(t, err)
	second, err := validator.Validate(context.Background(), testBookID, testLang, tree)
	require.NoError(t, err)

	// Both occurrences are reported, both times.
	require.Len(t, first, 2)
	assert.Equal(t, first, second)
}

/*
TestValidate_BatchCallsIndependentOfTreeSize builds a large tree and confirms
the one-call-per-entity-kind property holds regardless of node count.
*/
func TestValidate_BatchCallsIndependentOfTreeSize(t *testing.T) {
	var tree structure.Tree
	for i := 0; i < 50; i++ {
		tree = append(tree,
			structure.TextRef{ID: uuid.New()},
			structure.ImageL1{
				ID:    int64(i + 1),
				Title: uuid.New(),
				Content: []structure.Node{
					structure.TextRef{ID: uuid.New()},
					structure.ImageL2{ID: int64(1000 + i)},
				},
			},
		)
	}
	store := populatedStore(tree)

	diagnostics, err := structure.NewValidator(store).Validate(context.Background(), testBookID, testLang, tree)
	require.NoError(t, err)
	assert.Empty(t, diagnostics)

	assert.Equal(t, 1, store.calls["GetTextFragments"])
	assert.Equal(t, 1, store.calls["GetImages"])
	assert.Equal(t, 1, store.calls["GetBookTitleAndAnnotation"])
}

/*
TestDiagnostic_JSONShape pins the wire form of a diagnostic: the index key is
present-and-null for preview findings, and the open "other" map is always
emitted even when empty.
*/
func TestDiagnostic_JSONShape(t *testing.T) {
	fragmentID := uuid.New()

	preview := structure.Diagnostic{
		Source: structure.SourcePreview,
		Code:   structure.CodeNotFound,
		Object: structure.Object{ID: nil, Type: structure.ObjectTextTitle},
		Index:  nil,
		Other:  map[string]any{},
	}
	content := structure.Diagnostic{
		Source: structure.SourceContent,
		Code:   structure.CodeEmpty,
		Object: structure.Object{ID: compact(fragmentID), Type: structure.ObjectTextFragment},
		Index:  pointer.To(3),
		Other:  map[string]any{"category": "preview"},
	}

	previewJSON, err := json.Marshal(preview)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"source":"Preview","code":"NotFound","object":{"id":null,"type":"TextTitle"},"index":null,"other":{}}`,
		string(previewJSON))

	contentJSON, err := json.Marshal(content)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"source":"Content","code":"Empty","object":{"id":"`+compact(fragmentID)+`","type":"TextFragment"},"index":3,"other":{"category":"preview"}}`,
		string(contentJSON))
}
