// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

package history

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vidorahq/vidora/internal/platform/middleware"
	requestutil "github.com/vidorahq/vidora/internal/platform/request"
	"github.com/vidorahq/vidora/internal/platform/respond"
	"github.com/vidorahq/vidora/internal/platform/validate"
)

// Handler exposes watch history over HTTP.
type Handler struct {
	service *Service
}

// NewHandler wires the history HTTP layer.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the history endpoints on the history subrouter.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireAuth)
		protected.Get("/", handler.WatchHistory)
		protected.Post("/{videoID}", handler.RecordWatch)
	})
}

// WatchHistory handles GET /history.
func (handler *Handler) WatchHistory(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	entries, err := handler.service.WatchHistory(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entries, "Watch history fetched successfully")
}

// RecordWatch handles POST /history/{videoID}.
func (handler *Handler) RecordWatch(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	videoID := requestutil.Param(request, "videoID")
	validator := &validate.Validator{}
	validator.Required("videoID", videoID).UUID("videoID", videoID)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	event, err := handler.service.RecordWatch(request.Context(), userID, videoID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, event, "Watch event recorded")
}
