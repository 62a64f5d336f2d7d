// Copyright (c) 2026 ZgBooks. All rights reserved.
// Author: contact@zgbooks.dev

package structure

import (
	"github.com/google/uuid"
)

// # Traversal Context

// Source categorizes where in the book a visited node (and any diagnostic
// produced for it) originates.
type Source string

const (
	// SourcePreview marks the synthetic preview pass: book title, annotation
	// and other data shown outside the body tree.
	SourcePreview Source = "Preview"

	// SourceContent marks depth-1 nodes of the body tree.
	SourceContent Source = "Content"

	// SourceSubContent marks depth-2 nodes (an ImageL1's children).
	SourceSubContent Source = "SubContent"
)

// VisitContext carries the traversal position handed to a visitor.
type VisitContext struct {
	// Source is the category of the current pass/depth.
	Source Source

	// Index is the position within the nearest enclosing array. It is nil
	// where no array position is meaningful (the preview pass).
	Index *int
}

// VisitFunc is the visitor contract: invoked once per node, in the stable
// declared order of the tree. Returning an error aborts the walk.
type VisitFunc func(node Node, vctx VisitContext) error

// # Synthetic Nodes

// TitleRef is the synthetic node visited for an [ImageL1]'s title reference.
// It resolves like a [TextRef] but reports as an image title.
type TitleRef struct {
	ImageID int64
	ID      uuid.UUID
}

// BookTitle is the synthetic preview-pass node for the book's title fragment.
type BookTitle struct{}

// BookAnnotation is the synthetic preview-pass node for the book's
// annotation fragment.
type BookAnnotation struct{}

func (TitleRef) isNode()       {}
func (BookTitle) isNode()      {}
func (BookAnnotation) isNode() {}

// # Traversal

/*
Walk traverses the body tree in declared order, invoking visit once per node.

Traversal rules:

  - Depth-1 nodes are visited with [SourceContent] and their array index.
  - An [ImageL1] is visited first itself, then its title reference as a
    [TitleRef] (same source and index as the image — the title belongs to the
    depth-1 element), then each content child with [SourceSubContent] and the
    child's index within the content array.

The walker does no I/O and resolves no entities; it is pure tree shape and
context bookkeeping, which keeps [Validator] and [Hydrator] stateless per
node. Identical input always produces the identical visit sequence.
*/
func Walk(tree Tree, visit VisitFunc) error {
	for i := range tree {
		index := i
		vctx := VisitContext{Source: SourceContent, Index: &index}

		switch node := tree[i].(type) {
		case TextRef:
			if err := visit(node, vctx); err != nil {
				return err
			}

		case ImageL1:
			if err := visit(node, vctx); err != nil {
				return err
			}
			if err := visit(TitleRef{ImageID: node.ID, ID: node.Title}, vctx); err != nil {
				return err
			}

			for j := range node.Content {
				childIndex := j
				childCtx := VisitContext{Source: SourceSubContent, Index: &childIndex}
				if err := visit(node.Content[j], childCtx); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

// WalkPreview runs the synthetic preview pass: the book title and annotation
// references that live outside the structure array. They are visited through
// the same visitor contract for uniformity, with [SourcePreview] and no index.
func WalkPreview(visit VisitFunc) error {
	vctx := VisitContext{Source: SourcePreview, Index: nil}

	if err := visit(BookTitle{}, vctx); err != nil {
		return err
	}
	return visit(BookAnnotation{}, vctx)
}

// # Reference Collection

// Refs is the deduplicated, order-preserving set of entity references found
// in one traversal of a tree. It is the input to the batched [EntityStore]
// lookups that precede validation and hydration.
type Refs struct {
	// Texts holds body fragment UUIDs and image title UUIDs, in visit order.
	Texts []uuid.UUID

	// Images holds image ids at both depths, in visit order.
	Images []int64
}

// CollectRefs gathers every entity reference in the tree.
func CollectRefs(tree Tree) Refs {
	var refs Refs
	seenTexts := make(map[uuid.UUID]struct{})
	seenImages := make(map[int64]struct{})

	addText := func(id uuid.UUID) {
		if _, found := seenTexts[id]; !found {
			seenTexts[id] = struct{}{}
			refs.Texts = append(refs.Texts, id)
		}
	}
	addImage := func(id int64) {
		if _, found := seenImages[id]; !found {
			seenImages[id] = struct{}{}
			refs.Images = append(refs.Images, id)
		}
	}

	// The walker never fails when the visitor never fails.
	_ = Walk(tree, func(node Node, vctx VisitContext) error {
		switch n := node.(type) {
		case TextRef:
			addText(n.ID)
		case TitleRef:
			addText(n.ID)
		case ImageL1:
			addImage(n.ID)
		case ImageL2:
			addImage(n.ID)
		}
		return nil
	})

	return refs
}
