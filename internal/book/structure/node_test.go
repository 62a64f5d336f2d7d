// Copyright (c) 2026 ZgBooks. All rights reserved.
// Author: contact@zgbooks.dev

package structure_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zgbooks/books-api/internal/book/structure"
)

// compact renders a UUID the way stored documents do: 32 hex, no dashes.
func compact(id uuid.UUID) string {
	return strings.ReplaceAll(id.String(), "-", "")
}

/*
TestDecodeTree_TypedShape decodes a representative server document and checks
the resulting typed tree node by node.
*/
func TestDecodeTree_TypedShape(t *testing.T) {
	titleUUID := uuid.New()
	bodyUUID := uuid.New()

	document := fmt.Sprintf(`[
		{"type": "textfragment", "id": "%s"},
		{"type": "image", "id": 1, "title": "%s", "content": [
			{"type": "textfragment", "id": "%s"},
			{"type": "image", "id": 2}
		]}
	]`, compact(bodyUUID), compact(titleUUID), compact(bodyUUID))

	tree, err := structure.DecodeTree([]byte(document))
	require.NoError(t, err)
	require.Len(t, tree, 2)

	assert.Equal(t, structure.TextRef{ID: bodyUUID}, tree[0])

	image, ok := tree[1].(structure.ImageL1)
	require.True(t, ok)
	assert.Equal(t, int64(1), image.ID)
	assert.Equal(t, titleUUID, image.Title)
	require.Len(t, image.Content, 2)
	assert.Equal(t, structure.TextRef{ID: bodyUUID}, image.Content[0])
	assert.Equal(t, structure.ImageL2{ID: 2}, image.Content[1])
}

/*
TestDecodeTree_AcceptsCanonicalUUIDs verifies that dashed UUIDs decode the
same as the compact wire form.
*/
func TestDecodeTree_AcceptsCanonicalUUIDs(t *testing.T) {
	id := uuid.New()
	document := fmt.Sprintf(`[{"type": "textfragment", "id": "%s"}]`, id.String())

	tree, err := structure.DecodeTree([]byte(document))
	require.NoError(t, err)
	require.Len(t, tree, 1)
	assert.Equal(t, structure.TextRef{ID: id}, tree[0])
}

/*
TestDecodeTree_RoundTrip checks that decode(encode(tree)) == tree for a tree
exercising every variant, including an empty image content array.
*/
func TestDecodeTree_RoundTrip(t *testing.T) {
	tree := structure.Tree{
		structure.TextRef{ID: uuid.New()},
		structure.ImageL1{
			ID:    7,
			Title: uuid.New(),
			Content: []structure.Node{
				structure.TextRef{ID: uuid.New()},
				structure.ImageL2{ID: 8},
			},
		},
		structure.ImageL1{ID: 9, Title: uuid.New(), Content: []structure.Node{}},
	}

	encoded, err := structure.EncodeTree(tree)
	require.NoError(t, err)

	decoded, err := structure.DecodeTree(encoded)
	require.NoError(t, err)

	assert.Equal(t, tree, decoded)
}

/*
TestDecodeTree_SchemaErrors tests every decode-time rejection: unknown type
tags, missing required fields, depth violations, and wrong primitive types.
*/
func TestDecodeTree_SchemaErrors(t *testing.T) {
	titleHex := compact(uuid.New())

	tests := []struct {
		name     string
		document string
	}{
		{"not_an_array", `{"type": "textfragment"}`},
		{"element_not_an_object", `[42]`},
		{"unknown_type", `[{"type": "video", "id": 1}]`},
		{"missing_type", `[{"id": 1}]`},
		{"fragment_id_not_a_string", `[{"type": "textfragment", "id": 42}]`},
		{"fragment_id_not_a_uuid", `[{"type": "textfragment", "id": "not-a-uuid"}]`},
		{"image_id_not_an_integer", `[{"type": "image", "id": "one", "title": "` + titleHex + `", "content": []}]`},
		{"image_missing_title", `[{"type": "image", "id": 1, "content": []}]`},
		{"image_missing_content", `[{"type": "image", "id": 1, "title": "` + titleHex + `"}]`},
		{"image_content_not_an_array", `[{"type": "image", "id": 1, "title": "` + titleHex + `", "content": {}}]`},
		{"nested_image_with_title", `[{"type": "image", "id": 1, "title": "` + titleHex + `", "content": [
			{"type": "image", "id": 2, "title": "` + titleHex + `"}]}]`},
		{"nested_image_with_content", `[{"type": "image", "id": 1, "title": "` + titleHex + `", "content": [
			{"type": "image", "id": 2, "content": []}]}]`},
		{"triple_nesting", `[{"type": "image", "id": 1, "title": "` + titleHex + `", "content": [
			{"type": "image", "id": 2, "title": "` + titleHex + `", "content": []}]}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, err := structure.DecodeTree([]byte(tt.document))
			assert.Nil(t, tree)
			require.Error(t, err)

			var schemaErr *structure.SchemaError
			require.True(t, errors.As(err, &schemaErr), "expected a SchemaError, got %T", err)
			assert.NotEmpty(t, schemaErr.Message)
		})
	}
}

/*
TestDecodeTree_EmptyDocument checks that an empty structure array decodes to
an empty (but valid) tree.
*/
func TestDecodeTree_EmptyDocument(t *testing.T) {
	tree, err := structure.DecodeTree([]byte(`[]`))
	require.NoError(t, err)
	assert.Empty(t, tree)
}

/*
TestEncodeTree_WireShape checks the exact wire JSON: compact UUIDs and the
depth asymmetry (no title/content keys on second-level images).
*/
func TestEncodeTree_WireShape(t *testing.T) {
	bodyUUID := uuid.New()
	titleUUID := uuid.New()

	tree := structure.Tree{
		structure.ImageL1{
			ID:      1,
			Title:   titleUUID,
			Content: []structure.Node{structure.TextRef{ID: bodyUUID}, structure.ImageL2{ID: 2}},
		},
	}

	encoded, err := structure.EncodeTree(tree)
	require.NoError(t, err)

	expected := fmt.Sprintf(
		`[{"content":[{"id":"%s","type":"textfragment"},{"id":2,"type":"image"}],"id":1,"title":"%s","type":"image"}]`,
		compact(bodyUUID), compact(titleUUID),
	)
	assert.JSONEq(t, expected, string(encoded))
}
