// Copyright (c) 2026 ZgBooks. All rights reserved.
// Author: contact@zgbooks.dev

package structure

import (
	"context"
	"fmt"
)

// # Hydration Modes

// Mode selects how the [Hydrator] treats unresolvable references.
type Mode string

const (
	// ModeStrict aborts with a [ResolutionError] on the first unresolvable
	// reference. This is the end-user mode: callers are expected to validate
	// before hydrating, so a failure here is a caller-contract violation.
	ModeStrict Mode = "strict"

	// ModeLenient substitutes a placeholder node for each unresolvable
	// reference so editors can preview a book that is still incomplete.
	ModeLenient Mode = "lenient"
)

// IsValid reports whether m is a recognised [Mode] value.
func (m Mode) IsValid() bool {
	return m == ModeStrict || m == ModeLenient
}

// # Resolution Errors

// ResolutionError is raised by strict hydration when a reference that
// validation would have reported fails to resolve. It indicates
// hydrate-before-validate misuse and is fatal per request — never retried.
type ResolutionError struct {
	Object Object
}

// Error implements the error interface.
func (e *ResolutionError) Error() string {
	return fmt.Sprintf("structure: cannot resolve %s %v", e.Object.Type, e.Object.ID)
}

// # Client-Facing Nodes

// ContentNode is one element of the hydrated, client-facing tree.
type ContentNode interface {
	isContentNode()
}

// TextNode is a hydrated text fragment: the localized text itself, with the
// UUID indirection resolved away.
type TextNode struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// AuthorInfo is the attribution payload inlined on first-level images.
type AuthorInfo struct {
	Name      string   `json:"name"`
	Countries []string `json:"countries"`
	Link      string   `json:"link"`
}

// ImageNode is a hydrated first-level image: public URL, the resolved title
// text (not its UUID), optional author payload, and the hydrated children.
// Author is null and Content is empty rather than omitted — clients rely on
// the keys being present.
type ImageNode struct {
	Type    string        `json:"type"`
	ID      int64         `json:"id"`
	URL     string        `json:"url"`
	Title   string        `json:"title"`
	Author  *AuthorInfo   `json:"author"`
	Content []ContentNode `json:"content"`
}

// ImageRefNode is a hydrated second-level image. Matching the depth
// asymmetry of the structure model, it carries no title, author or content.
type ImageRefNode struct {
	Type string `json:"type"`
	ID   int64  `json:"id"`
	URL  string `json:"url"`
}

// MissingNode is the lenient-mode placeholder for an unresolvable reference.
// Ref echoes the reference that failed (fragment UUID or image id).
type MissingNode struct {
	Type    string `json:"type"`
	Missing bool   `json:"missing"`
	Ref     any    `json:"ref"`
}

func (TextNode) isContentNode()     {}
func (ImageNode) isContentNode()    {}
func (ImageRefNode) isContentNode() {}
func (MissingNode) isContentNode()  {}

// # Hydrator

// Hydrator resolves a structure tree into the language-specific client tree.
// Like the [Validator] it is stateless per call and safe for concurrent use
// across invocations.
type Hydrator struct {
	Store EntityStore

	// ResolveURL maps a stored image file locator to its public URL.
	// When nil the locator is passed through unchanged.
	ResolveURL func(file string) string
}

// NewHydrator constructs a [Hydrator] over the given entity store.
func NewHydrator(store EntityStore, resolveURL func(file string) string) *Hydrator {
	return &Hydrator{Store: store, ResolveURL: resolveURL}
}

/*
Hydrate resolves the tree for (book, language) into client-facing nodes.

Per node:

  - TextRef becomes {"type":"textfragment","text":...}.
  - ImageL1 becomes {"type":"image","id","url","title","author","content"}
    where title is the resolved caption text and content holds the hydrated
    depth-2 children.
  - ImageL2 becomes {"type":"image","id","url"}.

Resolution failures follow the mode: [ModeStrict] aborts with a
[ResolutionError]; [ModeLenient] substitutes a [MissingNode] (children of a
missing first-level image are dropped — the placeholder stands in for the
whole element). Blank-but-present text is not a resolution failure.

Lookups are batched exactly as in validation: one entity store call per
entity kind per invocation, regardless of tree size.
*/
func (h *Hydrator) Hydrate(ctx context.Context, bookID int64, lang string, tree Tree, mode Mode) ([]ContentNode, error) {
	if !mode.IsValid() {
		mode = ModeStrict
	}

	// Phase 1: collect references.
	refs := CollectRefs(tree)

	// Phase 2: batched resolution.
	fragments, err := h.Store.GetTextFragments(ctx, bookID, lang, refs.Texts)
	if err != nil {
		return nil, err
	}

	images, err := h.Store.GetImages(ctx, bookID, refs.Images)
	if err != nil {
		return nil, err
	}

	authors, err := h.Store.GetAuthors(ctx, collectAuthorIDs(refs.Images, images))
	if err != nil {
		return nil, err
	}

	// Phase 3: assemble the client tree while walking.
	out := make([]ContentNode, 0, len(tree))

	// current is the first-level image being assembled; skipping is set when
	// that image itself failed to resolve in lenient mode, so its title and
	// children are swallowed.
	var current *ImageNode
	skipping := false

	flush := func() {
		if current != nil {
			out = append(out, *current)
			current = nil
		}
		skipping = false
	}

	emit := func(vctx VisitContext, node ContentNode) {
		if vctx.Source == SourceSubContent {
			if current != nil {
				current.Content = append(current.Content, node)
			}
			return
		}
		flush()
		out = append(out, node)
	}

	fail := func(objType ObjectType, id any) error {
		return &ResolutionError{Object: Object{ID: id, Type: objType}}
	}

	// resolveImage returns the usable body image row or nil.
	resolveImage := func(id int64) *Image {
		image := images[id]
		if image == nil || image.Category != CategoryBody {
			return nil
		}
		return image
	}

	visit := func(node Node, vctx VisitContext) error {
		switch n := node.(type) {
		case TextRef:
			if skipping && vctx.Source == SourceSubContent {
				return nil
			}
			fragment := fragments[n.ID]
			if fragment == nil {
				if mode == ModeStrict {
					return fail(ObjectTextFragment, CompactUUID(n.ID))
				}
				emit(vctx, MissingNode{Type: TypeTextFragment, Missing: true, Ref: CompactUUID(n.ID)})
				return nil
			}
			emit(vctx, TextNode{Type: TypeTextFragment, Text: fragment.Text})

		case ImageL1:
			flush()
			image := resolveImage(n.ID)
			if image == nil {
				if mode == ModeStrict {
					return fail(ObjectImage, n.ID)
				}
				out = append(out, MissingNode{Type: TypeImage, Missing: true, Ref: n.ID})
				skipping = true
				return nil
			}

			authorInfo, err := h.resolveAuthor(image, authors, mode)
			if err != nil {
				return err
			}

			current = &ImageNode{
				Type:    TypeImage,
				ID:      image.ID,
				URL:     h.resolveURL(image.File),
				Author:  authorInfo,
				Content: make([]ContentNode, 0, len(n.Content)),
			}

		case TitleRef:
			if skipping {
				return nil
			}
			fragment := fragments[n.ID]
			if fragment == nil {
				if mode == ModeStrict {
					return fail(ObjectImageTitle, CompactUUID(n.ID))
				}
				// Lenient: the image survives with an empty caption.
				return nil
			}
			if current != nil {
				current.Title = fragment.Text
			}

		case ImageL2:
			if skipping {
				return nil
			}
			image := resolveImage(n.ID)
			if image == nil {
				if mode == ModeStrict {
					return fail(ObjectImage, n.ID)
				}
				emit(vctx, MissingNode{Type: TypeImage, Missing: true, Ref: n.ID})
				return nil
			}
			emit(vctx, ImageRefNode{Type: TypeImage, ID: image.ID, URL: h.resolveURL(image.File)})
		}
		return nil
	}

	if err := Walk(tree, visit); err != nil {
		return nil, err
	}
	flush()

	return out, nil
}

// resolveAuthor builds the attribution payload for a body image. An image
// without an author reference hydrates with a null author; a dangling
// reference is a resolution failure in strict mode.
func (h *Hydrator) resolveAuthor(image *Image, authors map[int64]*Author, mode Mode) (*AuthorInfo, error) {
	if image.AuthorID == nil {
		return nil, nil
	}

	author := authors[*image.AuthorID]
	if author == nil {
		if mode == ModeStrict {
			return nil, &ResolutionError{Object: Object{ID: *image.AuthorID, Type: ObjectImageAuthor}}
		}
		return nil, nil
	}

	return &AuthorInfo{
		Name:      author.Name,
		Countries: author.Countries,
		Link:      author.Link,
	}, nil
}

// resolveURL applies the configured locator-to-URL mapping.
func (h *Hydrator) resolveURL(file string) string {
	if h.ResolveURL == nil {
		return file
	}
	return h.ResolveURL(file)
}

// collectAuthorIDs gathers the deduplicated author references of the
// resolved images, preserving reference order.
func collectAuthorIDs(imageIDs []int64, images map[int64]*Image) []int64 {
	var ids []int64
	seen := make(map[int64]struct{})

	for _, imageID := range imageIDs {
		image := images[imageID]
		if image == nil || image.AuthorID == nil {
			continue
		}
		if _, found := seen[*image.AuthorID]; found {
			continue
		}
		seen[*image.AuthorID] = struct{}{}
		ids = append(ids, *image.AuthorID)
	}

	return ids
}
