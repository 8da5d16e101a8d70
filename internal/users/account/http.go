// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

package account

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vidorahq/vidora/internal/media"
	"github.com/vidorahq/vidora/internal/platform/constants"
	"github.com/vidorahq/vidora/internal/platform/middleware"
	requestutil "github.com/vidorahq/vidora/internal/platform/request"
	"github.com/vidorahq/vidora/internal/platform/respond"
	"github.com/vidorahq/vidora/internal/platform/validate"
	"github.com/vidorahq/vidora/internal/users/auth"
)

// Handler exposes account management over HTTP. Every route requires an
// authenticated caller.
type Handler struct {
	service *Service
	staging *media.Staging
}

// NewHandler wires the account HTTP layer.
func NewHandler(service *Service, staging *media.Staging) *Handler {
	return &Handler{service: service, staging: staging}
}

// RegisterRoutes mounts the account endpoints on the users subrouter.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireAuth)
		protected.Get("/current-user", handler.CurrentUser)
		protected.Patch("/update-account", handler.UpdateAccount)
		protected.Patch("/update-avatar", handler.UpdateAvatar)
		protected.Patch("/update-cover-image", handler.UpdateCoverImage)
	})
}

// CurrentUser handles GET /users/current-user.
func (handler *Handler) CurrentUser(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.CurrentUser(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user, "Current user fetched successfully")
}

// updateAccountRequest uses pointers so "absent" and "empty" are distinct.
type updateAccountRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Fullname *string `json:"fullname"`
}

// UpdateAccount handles PATCH /users/update-account.
func (handler *Handler) UpdateAccount(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateAccountRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	if input.Username != nil {
		validator.Required("username", *input.Username).
			MinLen("username", *input.Username, 3).
			MaxLen("username", *input.Username, 30)
	}
	if input.Email != nil {
		validator.Required("email", *input.Email).Email("email", *input.Email)
	}
	if input.Fullname != nil {
		validator.Required("fullname", *input.Fullname).MaxLen("fullname", *input.Fullname, 100)
	}
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.UpdateProfile(request.Context(), userID, ProfileChanges{
		Username: input.Username,
		Email:    input.Email,
		Fullname: input.Fullname,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user, "Account details updated successfully")
}

// UpdateAvatar handles PATCH /users/update-avatar (single file field "avatar").
func (handler *Handler) UpdateAvatar(writer http.ResponseWriter, request *http.Request) {
	handler.updateMedia(writer, request, "avatar", handler.service.UpdateAvatar, "Avatar updated successfully")
}

// UpdateCoverImage handles PATCH /users/update-cover-image (single file field
// "coverImage").
func (handler *Handler) UpdateCoverImage(writer http.ResponseWriter, request *http.Request) {
	handler.updateMedia(writer, request, "coverImage", handler.service.UpdateCoverImage, "Cover image updated successfully")
}

// updateMedia is the shared single-file swap flow for avatar and cover.
func (handler *Handler) updateMedia(writer http.ResponseWriter, request *http.Request, field string,
	swap func(ctx context.Context, userID, stagedPath string) (*auth.User, error), message string) {

	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	request.Body = http.MaxBytesReader(writer, request.Body, constants.MaxUploadBytes)
	if err := request.ParseMultipartForm(constants.MaxUploadBytes); err != nil {
		respond.Error(writer, request, validate.RequiredError(field, "Invalid multipart payload"))
		return
	}

	stagedPath, err := handler.stageFormFile(request, field)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if stagedPath == "" {
		respond.Error(writer, request, validate.RequiredError(field, "File is required"))
		return
	}
	defer handler.staging.Discard(stagedPath)

	user, err := swap(request.Context(), userID, stagedPath)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user, message)
}

// stageFormFile spools a multipart file field to the staging area.
// A missing file yields an empty path; presence is the caller's rule.
func (handler *Handler) stageFormFile(request *http.Request, field string) (string, error) {
	file, header, err := request.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", nil
		}
		return "", validate.RequiredError(field, "Invalid file upload")
	}
	defer file.Close()

	return handler.staging.Save(file, header.Filename)
}
