// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

package subscription

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vidorahq/vidora/internal/platform/middleware"
	requestutil "github.com/vidorahq/vidora/internal/platform/request"
	"github.com/vidorahq/vidora/internal/platform/respond"
	"github.com/vidorahq/vidora/internal/platform/validate"
)

// Handler exposes channel profiles and subscription edges over HTTP.
type Handler struct {
	service *Service
}

// NewHandler wires the subscription HTTP layer.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the channel endpoints on the channel subrouter.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireAuth)
		protected.Get("/{username}", handler.GetChannelProfile)
		protected.Post("/{username}/subscribe", handler.Subscribe)
		protected.Delete("/{username}/subscribe", handler.Unsubscribe)
	})
}

// GetChannelProfile handles GET /channel/{username}.
func (handler *Handler) GetChannelProfile(writer http.ResponseWriter, request *http.Request) {
	viewerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	channelUsername := requestutil.Param(request, "username")
	if channelUsername == "" {
		respond.Error(writer, request, validate.RequiredError("username", "Channel username is required"))
		return
	}

	profile, err := handler.service.GetChannelProfile(request.Context(), channelUsername, viewerID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profile, "Channel profile fetched successfully")
}

// Subscribe handles POST /channel/{username}/subscribe.
func (handler *Handler) Subscribe(writer http.ResponseWriter, request *http.Request) {
	viewerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	edge, err := handler.service.Subscribe(request.Context(), viewerID, requestutil.Param(request, "username"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, edge, "Subscribed successfully")
}

// Unsubscribe handles DELETE /channel/{username}/subscribe.
func (handler *Handler) Unsubscribe(writer http.ResponseWriter, request *http.Request) {
	viewerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Unsubscribe(request.Context(), viewerID, requestutil.Param(request, "username")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, nil, "Unsubscribed successfully")
}
