// Copyright (c) 2026 ZgBooks. All rights reserved.
// Author: contact@zgbooks.dev

package structure_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zgbooks/books-api/internal/book/structure"
)

// visit is one recorded walker step, flattened for easy comparison.
type visit struct {
	node   string
	source structure.Source
	index  int // -1 when the context carries no index
}

func record(visits *[]visit) structure.VisitFunc {
	return func(node structure.Node, vctx structure.VisitContext) error {
		index := -1
		if vctx.Index != nil {
			index = *vctx.Index
		}

		var name string
		switch n := node.(type) {
		case structure.TextRef:
			name = "text:" + compact(n.ID)
		case structure.ImageL1:
			name = fmt.Sprintf("image:%d", n.ID)
		case structure.TitleRef:
			name = fmt.Sprintf("title:%d:%s", n.ImageID, compact(n.ID))
		case structure.ImageL2:
			name = fmt.Sprintf("imageref:%d", n.ID)
		case structure.BookTitle:
			name = "booktitle"
		case structure.BookAnnotation:
			name = "bookannotation"
		}

		*visits = append(*visits, visit{node: name, source: vctx.Source, index: index})
		return nil
	}
}

/*
TestWalk_VisitSequence pins the full visit order and context for a tree with
every node variant: depth-1 nodes in declared order, an image followed by its
title reference at the image's own position, then the image's children with
sub-content indices.
*/
func TestWalk_VisitSequence(t *testing.T) {
	textA := uuid.New()
	textB := uuid.New()
	textC := uuid.New()
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
		structure.TextRef{ID: textC},
	}

	var visits []visit
	require.NoError(t, structure.Walk(tree, record(&visits)))

	expected := []visit{
		{"text:" + compact(textA), structure.SourceContent, 0},
		{"image:1", structure.SourceContent, 1},
		{"title:1:" + compact(title), structure.SourceContent, 1},
		{"text:" + compact(textB), structure.SourceSubContent, 0},
		{"imageref:2", structure.SourceSubContent, 1},
		{"text:" + compact(textC), structure.SourceContent, 2},
	}
	assert.Equal(t, expected, visits)
}

/*
TestWalk_AbortsOnVisitorError verifies that a visitor error stops the walk
immediately and propagates unchanged.
*/
func TestWalk_AbortsOnVisitorError(t *testing.T) {
	tree := structure.Tree{
		structure.TextRef{ID: uuid.New()},
		structure.TextRef{ID: uuid.New()},
	}

	boom := errors.New("boom")
	steps := 0

	err := structure.Walk(tree, func(structure.Node, structure.VisitContext) error {
		steps++
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, steps)
}

/*
TestWalkPreview_Sequence checks that the preview pass visits the book title
then the annotation, both with a Preview source and no index.
*/
func TestWalkPreview_Sequence(t *testing.T) {
	var visits []visit
	require.NoError(t, structure.WalkPreview(record(&visits)))

	expected := []visit{
		{"booktitle", structure.SourcePreview, -1},
		{"bookannotation", structure.SourcePreview, -1},
	}
	assert.Equal(t, expected, visits)
}

/*
TestCollectRefs_DedupesInVisitOrder checks that repeated references collapse
to one entry each, in first-seen order, and that title UUIDs land in the text
batch alongside body fragment UUIDs.
*/
func TestCollectRefs_DedupesInVisitOrder(t *testing.T) {
	textA := uuid.New()
	textB := uuid.New()
	title := uuid.New()

	tree := structure.Tree{
		structure.TextRef{ID: textA},
		structure.ImageL1{
			ID:    1,
			Title: title,
			Content: []structure.Node{
				structure.TextRef{ID: textA}, // repeated fragment
				structure.ImageL2{ID: 1},     // same id as the enclosing image
				structure.ImageL2{ID: 2},
			},
		},
		structure.TextRef{ID: textB},
	}

	refs := structure.CollectRefs(tree)

	assert.Equal(t, []uuid.UUID{textA, title, textB}, refs.Texts)
	assert.Equal(t, []int64{1, 2}, refs.Images)
}

func TestCollectRefs_EmptyTree(t *testing.T) {
	refs := structure.CollectRefs(structure.Tree{})

	assert.Empty(t, refs.Texts)
	assert.Empty(t, refs.Images)
}
