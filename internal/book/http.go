// Copyright (c) 2026 ZgBooks. All rights reserved.
// Author: contact@zgbooks.dev

package book

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zgbooks/books-api/internal/book/structure"
	"github.com/zgbooks/books-api/internal/platform/constants"
	"github.com/zgbooks/books-api/internal/platform/respond"
	"github.com/zgbooks/books-api/pkg/convert"
	"github.com/zgbooks/books-api/pkg/pagination"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Route("/{lang}", func(router chi.Router) {
		router.Get("/", handler.listBooks)
		router.Route("/{id}", func(router chi.Router) {
			router.Get("/", handler.getBook)
			router.Get("/content", handler.getContent)
			router.Get("/validation", handler.validateBook)
		})
	})
}

func (handler *Handler) listBooks(writer http.ResponseWriter, request *http.Request) {
	lang := chi.URLParam(request, "lang")
	params := pagination.FromRequest(request)

	summaries, meta, err := handler.service.ListBooks(request.Context(), lang, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, summaries, meta)
}

func (handler *Handler) getBook(writer http.ResponseWriter, request *http.Request) {
	lang := chi.URLParam(request, "lang")
	bookID := convert.ToInt64(chi.URLParam(request, "id"))

	detail, err := handler.service.GetBook(request.Context(), lang, bookID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, detail)
}

func (handler *Handler) getContent(writer http.ResponseWriter, request *http.Request) {
	lang := chi.URLParam(request, "lang")
	bookID := convert.ToInt64(chi.URLParam(request, "id"))

	options := ContentOptions{
		Mode:    structure.Mode(request.URL.Query().Get("mode")),
		Refresh: convert.ToBool(request.URL.Query().Get("refresh")),
	}

	payload, cacheHit, err := handler.service.GetContent(request.Context(), lang, bookID, options)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	cacheStatus := "MISS"
	if cacheHit {
		cacheStatus = "HIT"
	}
	writer.Header().Set(constants.HeaderCacheStatus, cacheStatus)

	respond.OK(writer, payload)
}

func (handler *Handler) validateBook(writer http.ResponseWriter, request *http.Request) {
	lang := chi.URLParam(request, "lang")
	bookID := convert.ToInt64(chi.URLParam(request, "id"))

	report, err := handler.service.ValidateBook(request.Context(), lang, bookID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.WithMeta(writer, report.Diagnostics, map[string]any{
		"orphans": report.Orphans,
	})
}
