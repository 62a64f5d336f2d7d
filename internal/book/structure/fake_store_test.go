// Copyright (c) 2026 ZgBooks. All rights reserved.
// Author: contact@zgbooks.dev

package structure_test

import (
	"context"

	"github.com/google/uuid"

	"github.com/zgbooks/books-api/internal/book/structure"
)

// fakeStore is an in-memory [structure.EntityStore] that records how many
// times each batch lookup is invoked, so tests can assert the engine's
// one-call-per-entity-kind property.
type fakeStore struct {
	fragments  map[uuid.UUID]*structure.TextFragment
	images     map[int64]*structure.Image
	authors    map[int64]*structure.Author
	title      *structure.TextFragment
	annotation *structure.TextFragment

	calls map[string]int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		fragments: make(map[uuid.UUID]*structure.TextFragment),
		images:    make(map[int64]*structure.Image),
		authors:   make(map[int64]*structure.Author),
		calls:     make(map[string]int),
	}
}

func (s *fakeStore) addFragment(id uuid.UUID, kind structure.FragmentKind, text string) {
	s.fragments[id] = &structure.TextFragment{UUID: id, Kind: kind, Text: text}
}

func (s *fakeStore) addImage(id int64, file string, category structure.ImageCategory, authorID *int64) {
	s.images[id] = &structure.Image{ID: id, File: file, Category: category, AuthorID: authorID}
}

func (s *fakeStore) addAuthor(id int64, name, link string, countries ...string) {
	s.authors[id] = &structure.Author{ID: id, Name: name, Link: link, Countries: countries}
}

func (s *fakeStore) GetTextFragments(_ context.Context, _ int64, _ string, uuids []uuid.UUID) (map[uuid.UUID]*structure.TextFragment, error) {
	s.calls["GetTextFragments"]++

	result := make(map[uuid.UUID]*structure.TextFragment, len(uuids))
	for _, id := range uuids {
		if fragment, found := s.fragments[id]; found {
			result[id] = fragment
		}
	}
	return result, nil
}

func (s *fakeStore) GetImages(_ context.Context, _ int64, ids []int64) (map[int64]*structure.Image, error) {
	s.calls["GetImages"]++

	result := make(map[int64]*structure.Image, len(ids))
	for _, id := range ids {
		if image, found := s.images[id]; found {
			result[id] = image
		}
	}
	return result, nil
}

func (s *fakeStore) GetAuthors(_ context.Context, ids []int64) (map[int64]*structure.Author, error) {
	s.calls["GetAuthors"]++

	result := make(map[int64]*structure.Author, len(ids))
	for _, id := range ids {
		if author, found := s.authors[id]; found {
			result[id] = author
		}
	}
	return result, nil
}

func (s *fakeStore) GetBookTitleAndAnnotation(_ context.Context, _ int64, _ string) (*structure.TextFragment, *structure.TextFragment, error) {
	s.calls["GetBookTitleAndAnnotation"]++
	return s.title, s.annotation, nil
}
