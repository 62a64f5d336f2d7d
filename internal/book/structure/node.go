// Copyright (c) 2026 ZgBooks. All rights reserved.
// Author: contact@zgbooks.dev

/*
Package structure implements the book structure engine: the typed tree that
describes a multilingual book's body, plus the validation and hydration
passes that run over it.

A book's body is an ordered sequence of nodes, nested at most two levels:

  - TextRef: a reference to a [TextFragment] by UUID (depth 1 or 2).
  - ImageL1: a first-level image with a title fragment reference and an
    ordered sequence of depth-2 children.
  - ImageL2: a second-level image reference — no title, no children.

The tree is stored on the book as JSON (ids/uuids only), is shared across all
languages, and is read-only from the engine's perspective. Only the resolution
of each reference varies by language.

Engine passes:

  - [Validator]: checks every referenced entity for existence and
    non-blankness, returning the full ordered list of [Diagnostic] findings.
  - [Hydrator]: resolves the tree into the language-specific, client-facing
    content representation.

Both passes are two-phase: collect all references in one traversal, resolve
them through a single batched [EntityStore] call per entity kind, then walk
again resolving per node. The engine performs no persistence and no HTTP.
*/
package structure

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// # Wire Type Tags

const (
	// TypeTextFragment is the wire discriminator for text reference nodes.
	TypeTextFragment = "textfragment"

	// TypeImage is the wire discriminator for image nodes at both depths.
	TypeImage = "image"
)

// # Node Variants

// Node is one element of a book's structure tree.
//
// It is a closed tagged union: the only implementations are [TextRef],
// [ImageL1], [ImageL2], and the synthetic marker nodes visited by the
// walker ([TitleRef], [BookTitle], [BookAnnotation]).
type Node interface {
	isNode()
}

// Tree is the ordered sequence of depth-1 nodes owned by a book.
type Tree []Node

// TextRef references a [TextFragment] by its language-independent UUID.
// It is valid at depth 1 and depth 2.
type TextRef struct {
	ID uuid.UUID
}

// ImageL1 is a first-level image node. Its title references a [TextFragment]
// of kind [KindImageTitle], and its content holds the ordered depth-2
// children (which may be empty).
type ImageL1 struct {
	ID      int64
	Title   uuid.UUID
	Content []Node
}

// ImageL2 is a second-level image node. Second-level images are references
// only: no title, no children.
type ImageL2 struct {
	ID int64
}

func (TextRef) isNode() {}
func (ImageL1) isNode() {}
func (ImageL2) isNode() {}

// # Schema Errors

// SchemaError reports a malformed structure document: unrecognized node
// types, depth violations, missing required fields, or wrong primitive
// types. It is fatal to decoding and is surfaced before any validation or
// hydration runs — a SchemaError means the stored document is corrupt, not
// that referenced content is missing.
type SchemaError struct {
	// Path locates the offending element, e.g. "[2].content[0]".
	Path string
	// Message describes the violation.
	Message string
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	if e.Path == "" {
		return "structure schema: " + e.Message
	}
	return fmt.Sprintf("structure schema: %s: %s", e.Path, e.Message)
}

// schemaErrorf constructs a [SchemaError] with a formatted message.
func schemaErrorf(path, format string, args ...any) *SchemaError {
	return &SchemaError{Path: path, Message: fmt.Sprintf(format, args...)}
}

// # Decoding

// DecodeTree parses the server-side structure JSON into a typed [Tree].
//
// Decoding enforces shape only: recognized type tags, required fields,
// primitive types, and the two-level depth discipline. It never checks
// entity existence — that is the [Validator]'s job.
func DecodeTree(data []byte) (Tree, error) {
	var elements []json.RawMessage
	if err := json.Unmarshal(data, &elements); err != nil {
		return nil, schemaErrorf("", "document must be a JSON array of nodes")
	}

	tree := make(Tree, 0, len(elements))
	for i, raw := range elements {
		node, err := decodeNode(raw, 1, fmt.Sprintf("[%d]", i))
		if err != nil {
			return nil, err
		}
		tree = append(tree, node)
	}

	return tree, nil
}

// decodeNode parses a single element at the given depth (1 or 2).
func decodeNode(raw json.RawMessage, depth int, path string) (Node, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, schemaErrorf(path, "node must be a JSON object")
	}

	typeTag, err := decodeString(fields, "type", path)
	if err != nil {
		return nil, err
	}

	switch typeTag {
	case TypeTextFragment:
		id, err := decodeUUID(fields, "id", path)
		if err != nil {
			return nil, err
		}
		return TextRef{ID: id}, nil

	case TypeImage:
		id, err := decodeInt(fields, "id", path)
		if err != nil {
			return nil, err
		}

		if depth >= 2 {
			// Second-level images carry a bare reference. A title or content
			// field here is a depth violation.
			if _, found := fields["title"]; found {
				return nil, schemaErrorf(path, "second-level image must not carry a title")
			}
			if _, found := fields["content"]; found {
				return nil, schemaErrorf(path, "second-level image must not carry content")
			}
			return ImageL2{ID: id}, nil
		}

		title, err := decodeUUID(fields, "title", path)
		if err != nil {
			return nil, err
		}

		contentRaw, found := fields["content"]
		if !found {
			return nil, schemaErrorf(path, "first-level image is missing content")
		}

		var children []json.RawMessage
		if err := json.Unmarshal(contentRaw, &children); err != nil {
			return nil, schemaErrorf(path, "image content must be a JSON array")
		}

		content := make([]Node, 0, len(children))
		for j, childRaw := range children {
			child, err := decodeNode(childRaw, 2, fmt.Sprintf("%s.content[%d]", path, j))
			if err != nil {
				return nil, err
			}
			content = append(content, child)
		}

		return ImageL1{ID: id, Title: title, Content: content}, nil

	default:
		return nil, schemaErrorf(path, "unrecognized node type %q", typeTag)
	}
}

// decodeString extracts a required string field.
func decodeString(fields map[string]json.RawMessage, key, path string) (string, error) {
	raw, found := fields[key]
	if !found {
		return "", schemaErrorf(path, "missing required field %q", key)
	}

	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return "", schemaErrorf(path, "field %q must be a string", key)
	}
	return value, nil
}

// decodeInt extracts a required integer field.
func decodeInt(fields map[string]json.RawMessage, key, path string) (int64, error) {
	raw, found := fields[key]
	if !found {
		return 0, schemaErrorf(path, "missing required field %q", key)
	}

	var value int64
	if err := json.Unmarshal(raw, &value); err != nil {
		return 0, schemaErrorf(path, "field %q must be an integer", key)
	}
	return value, nil
}

// decodeUUID extracts a required UUID field. Both the canonical dashed form
// and the compact 32-hex wire form are accepted.
func decodeUUID(fields map[string]json.RawMessage, key, path string) (uuid.UUID, error) {
	value, err := decodeString(fields, key, path)
	if err != nil {
		return uuid.Nil, err
	}

	id, parseErr := uuid.Parse(value)
	if parseErr != nil {
		return uuid.Nil, schemaErrorf(path, "field %q must be a UUID", key)
	}
	return id, nil
}

// # Encoding

// EncodeTree serializes a typed [Tree] back into the server-side wire JSON.
// UUIDs are written in the compact 32-hex form used by the stored documents.
func EncodeTree(tree Tree) ([]byte, error) {
	if tree == nil {
		tree = Tree{}
	}
	return json.Marshal(tree)
}

// MarshalJSON implements [json.Marshaler] for the wire shape
// {"type":"textfragment","id":"<32hex>"}.
func (n TextRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"type": TypeTextFragment,
		"id":   CompactUUID(n.ID),
	})
}

// MarshalJSON implements [json.Marshaler] for the wire shape
// {"type":"image","id":1,"title":"<32hex>","content":[...]}.
func (n ImageL1) MarshalJSON() ([]byte, error) {
	content := n.Content
	if content == nil {
		content = []Node{}
	}
	return json.Marshal(map[string]any{
		"type":    TypeImage,
		"id":      n.ID,
		"title":   CompactUUID(n.Title),
		"content": content,
	})
}

// MarshalJSON implements [json.Marshaler] for the wire shape
// {"type":"image","id":2}.
func (n ImageL2) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"type": TypeImage,
		"id":   n.ID,
	})
}

// CompactUUID renders a UUID in the 32-hex wire form (no dashes) used by
// stored structure documents and diagnostic object ids.
func CompactUUID(id uuid.UUID) string {
	return strings.ReplaceAll(id.String(), "-", "")
}
