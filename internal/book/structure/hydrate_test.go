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
)

func mediaURL(file string) string { return "/media/" + file }

/*
TestHydrate_FullTree hydrates a tree with every node variant and checks the
complete client shape: resolved text, image URL mapping, inlined caption and
author payload, and the nested children.
*/
func TestHydrate_FullTree(t *testing.T) {
	textA := uuid.New()
	textB := uuid.New()
	title := uuid.New()

	tree := structure.Tree{
		structure.TextRef{ID: textA},
		structure.ImageL1{
			ID:    1,
			Title: title,
			Content: []structure.Node{
				structure.TextRef{ID: textB},
				structure.ImageL2{ID: 2},
			},
		},
	}

	store := newFakeStore()
	store.addFragment(textA, structure.KindBody, "Once upon a time.")
	store.addFragment(textB, structure.KindBody, "Deep in the forest.")
	store.addFragment(title, structure.KindImageTitle, "The forest at dawn")
	authorID := int64(900)
	store.addAuthor(authorID, "Ada Artysta", "https://ada.example", "PL", "DE")
	store.addImage(1, "images/forest.png", structure.CategoryBody, &authorID)
	store.addImage(2, "images/dawn.png", structure.CategoryBody, &authorID)

	hydrator := structure.NewHydrator(store, mediaURL)
	nodes, err := hydrator.Hydrate(context.Background(), testBookID, testLang, tree, structure.ModeStrict)
	require.NoError(t, err)
	require.Len(t, nodes, 2)

	assert.Equal(t, structure.TextNode{Type: structure.TypeTextFragment, Text: "Once upon a time."}, nodes[0])

	image, ok := nodes[1].(structure.ImageNode)
	require.True(t, ok)
	assert.Equal(t, int64(1), image.ID)
	assert.Equal(t, "/media/images/forest.png", image.URL)
	assert.Equal(t, "The forest at dawn", image.Title)
	require.NotNil(t, image.Author)
	assert.Equal(t, structure.AuthorInfo{
		Name:      "Ada Artysta",
		Countries: []string{"PL", "DE"},
		Link:      "https://ada.example",
	}, *image.Author)

	require.Len(t, image.Content, 2)
	assert.Equal(t, structure.TextNode{Type: structure.TypeTextFragment, Text: "Deep in the forest."}, image.Content[0])
	assert.Equal(t, structure.ImageRefNode{Type: structure.TypeImage, ID: 2, URL: "/media/images/dawn.png"}, image.Content[1])

	// One batch per entity kind, author lookup included.
	assert.Equal(t, 1, store.calls["GetTextFragments"])
	assert.Equal(t, 1, store.calls["GetImages"])
	assert.Equal(t, 1, store.calls["GetAuthors"])
	assert.Zero(t, store.calls["GetBookTitleAndAnnotation"], "hydration never touches preview data")
}

/*
TestHydrate_JSONShape pins the client wire form: an image without an author
reference serializes with an explicit author:null, and an image with no
children with content:[] — the keys are never omitted.
*/
func TestHydrate_JSONShape(t *testing.T) {
	title := uuid.New()
	tree := structure.Tree{
		structure.ImageL1{ID: 1, Title: title, Content: []structure.Node{}},
	}

	store := newFakeStore()
	store.addFragment(title, structure.KindImageTitle, "Caption")
	store.addImage(1, "images/a.png", structure.CategoryBody, nil)

	hydrator := structure.NewHydrator(store, mediaURL)
	nodes, err := hydrator.Hydrate(context.Background(), testBookID, testLang, tree, structure.ModeStrict)
	require.NoError(t, err)
	require.Len(t, nodes, 1)

	encoded, err := json.Marshal(nodes[0])
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"type":"image","id":1,"url":"/media/images/a.png","title":"Caption","author":null,"content":[]}`,
		string(encoded))
}

/*
TestHydrate_StrictFailures checks that strict mode aborts with a
ResolutionError identifying the first unresolvable reference.
*/
func TestHydrate_StrictFailures(t *testing.T) {
	fragmentID := uuid.New()
	titleID := uuid.New()
	authorID := int64(900)

	tests := []struct {
		name     string
		tree     structure.Tree
		seed     func(store *fakeStore)
		expected structure.Object
	}{
		{
			name: "missing_fragment",
			tree: structure.Tree{structure.TextRef{ID: fragmentID}},
			seed: func(store *fakeStore) {},
			expected: structure.Object{
				ID:   compact(fragmentID),
				Type: structure.ObjectTextFragment,
			},
		},
		{
			name: "missing_image",
			tree: structure.Tree{structure.ImageL1{ID: 7, Title: titleID, Content: []structure.Node{}}},
			seed: func(store *fakeStore) {
				store.addFragment(titleID, structure.KindImageTitle, "Caption")
			},
			expected: structure.Object{ID: int64(7), Type: structure.ObjectImage},
		},
		{
			name: "preview_category_image",
			tree: structure.Tree{structure.ImageL1{ID: 7, Title: titleID, Content: []structure.Node{}}},
			seed: func(store *fakeStore) {
				store.addFragment(titleID, structure.KindImageTitle, "Caption")
				store.addImage(7, "images/cover.png", structure.CategoryPreview, &authorID)
			},
			expected: structure.Object{ID: int64(7), Type: structure.ObjectImage},
		},
		{
			name: "missing_image_title",
			tree: structure.Tree{structure.ImageL1{ID: 7, Title: titleID, Content: []structure.Node{}}},
			seed: func(store *fakeStore) {
				store.addImage(7, "images/a.png", structure.CategoryBody, nil)
			},
			expected: structure.Object{ID: compact(titleID), Type: structure.ObjectImageTitle},
		},
		{
			name: "dangling_author_reference",
			tree: structure.Tree{structure.ImageL1{ID: 7, Title: titleID, Content: []structure.Node{}}},
			seed: func(store *fakeStore) {
				store.addFragment(titleID, structure.KindImageTitle, "Caption")
				store.addImage(7, "images/a.png", structure.CategoryBody, &authorID)
				// The author row itself is absent.
			},
			expected: structure.Object{ID: authorID, Type: structure.ObjectImageAuthor},
		},
		{
			name: "missing_nested_image",
			tree: structure.Tree{structure.ImageL1{ID: 7, Title: titleID, Content: []structure.Node{
				structure.ImageL2{ID: 8},
			}}},
			seed: func(store *fakeStore) {
				store.addFragment(titleID, structure.KindImageTitle, "Caption")
				store.addImage(7, "images/a.png", structure.CategoryBody, nil)
			},
			expected: structure.Object{ID: int64(8), Type: structure.ObjectImage},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			tt.seed(store)

			hydrator := structure.NewHydrator(store, mediaURL)
			nodes, err := hydrator.Hydrate(context.Background(), testBookID, testLang, tt.tree, structure.ModeStrict)
			assert.Nil(t, nodes)

			var resErr *structure.ResolutionError
			require.ErrorAs(t, err, &resErr)
			assert.Equal(t, tt.expected, resErr.Object)
		})
	}
}

/*
TestHydrate_LenientPlaceholders checks lenient mode: unresolvable references
become marked placeholders, a failed first-level image swallows its title and
children, and a missing caption leaves the image with an empty title.
*/
func TestHydrate_LenientPlaceholders(t *testing.T) {
	textA := uuid.New()
	missingText := uuid.New()
	titleOK := uuid.New()
	missingTitle := uuid.New()

	tree := structure.Tree{
		structure.TextRef{ID: textA},
		structure.TextRef{ID: missingText},
		// Image 1 is absent from the store entirely.
		structure.ImageL1{ID: 1, Title: titleOK, Content: []structure.Node{
			structure.TextRef{ID: textA},
		}},
		// Image 2 resolves but its caption does not.
		structure.ImageL1{ID: 2, Title: missingTitle, Content: []structure.Node{
			structure.ImageL2{ID: 3}, // also absent
		}},
	}

	store := newFakeStore()
	store.addFragment(textA, structure.KindBody, "Hello.")
	store.addFragment(titleOK, structure.KindImageTitle, "Caption")
	store.addImage(2, "images/b.png", structure.CategoryBody, nil)

	hydrator := structure.NewHydrator(store, mediaURL)
	nodes, err := hydrator.Hydrate(context.Background(), testBookID, testLang, tree, structure.ModeLenient)
	require.NoError(t, err)
	require.Len(t, nodes, 4)

	assert.Equal(t, structure.TextNode{Type: structure.TypeTextFragment, Text: "Hello."}, nodes[0])
	assert.Equal(t, structure.MissingNode{Type: structure.TypeTextFragment, Missing: true, Ref: compact(missingText)}, nodes[1])

	// The placeholder stands in for the whole missing image element: its
	// resolvable child is dropped, not promoted.
	assert.Equal(t, structure.MissingNode{Type: structure.TypeImage, Missing: true, Ref: int64(1)}, nodes[2])

	image, ok := nodes[3].(structure.ImageNode)
	require.True(t, ok)
	assert.Equal(t, int64(2), image.ID)
	assert.Empty(t, image.Title)
	require.Len(t, image.Content, 1)
	assert.Equal(t, structure.MissingNode{Type: structure.TypeImage, Missing: true, Ref: int64(3)}, image.Content[0])
}

/*
TestHydrate_LenientDanglingAuthor checks that a dangling author reference
hydrates to a null author in lenient mode instead of failing.
*/
func TestHydrate_LenientDanglingAuthor(t *testing.T) {
	title := uuid.New()
	authorID := int64(900)
	tree := structure.Tree{
		structure.ImageL1{ID: 1, Title: title, Content: []structure.Node{}},
	}

	store := newFakeStore()
	store.addFragment(title, structure.KindImageTitle, "Caption")
	store.addImage(1, "images/a.png", structure.CategoryBody, &authorID)

	hydrator := structure.NewHydrator(store, mediaURL)
	nodes, err := hydrator.Hydrate(context.Background(), testBookID, testLang, tree, structure.ModeLenient)
	require.NoError(t, err)
	require.Len(t, nodes, 1)

	image, ok := nodes[0].(structure.ImageNode)
	require.True(t, ok)
	assert.Nil(t, image.Author)
}

/*
TestHydrate_AfterCleanValidation is the contract test behind strict mode:
a tree that validates without diagnostics always hydrates strictly without
error.
*/
func TestHydrate_AfterCleanValidation(t *testing.T) {
	tree := structure.Tree{
		structure.TextRef{ID: uuid.New()},
		structure.ImageL1{
			ID:    1,
			Title: uuid.New(),
			Content: []structure.Node{
				structure.TextRef{ID: uuid.New()},
				structure.ImageL2{ID: 2},
			},
		},
	}
	store := populatedStore(tree)

	diagnostics, err := structure.NewValidator(store).Validate(context.Background(), testBookID, testLang, tree)
	require.NoError(t, err)
	require.Empty(t, diagnostics)

	nodes, err := structure.NewHydrator(store, mediaURL).Hydrate(context.Background(), testBookID, testLang, tree, structure.ModeStrict)
	require.NoError(t, err)
	assert.Len(t, nodes, 2)
}

/*
TestHydrate_PassthroughURL checks that a nil URL resolver leaves the stored
locator untouched.
*/
func TestHydrate_PassthroughURL(t *testing.T) {
	title := uuid.New()
	tree := structure.Tree{
		structure.ImageL1{ID: 1, Title: title, Content: []structure.Node{}},
	}

	store := newFakeStore()
	store.addFragment(title, structure.KindImageTitle, "Caption")
	store.addImage(1, "images/a.png", structure.CategoryBody, nil)

	hydrator := structure.NewHydrator(store, nil)
	nodes, err := hydrator.Hydrate(context.Background(), testBookID, testLang, tree, structure.ModeStrict)
	require.NoError(t, err)

	image, ok := nodes[0].(structure.ImageNode)
	require.True(t, ok)
	assert.Equal(t, "images/a.png", image.URL)
}
