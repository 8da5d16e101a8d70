// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

package auth

import (
	"errors"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vidorahq/vidora/internal/media"
	"github.com/vidorahq/vidora/internal/platform/constants"
	"github.com/vidorahq/vidora/internal/platform/middleware"
	requestutil "github.com/vidorahq/vidora/internal/platform/request"
	"github.com/vidorahq/vidora/internal/platform/respond"
	"github.com/vidorahq/vidora/internal/platform/validate"
)

// Handler exposes the session lifecycle over HTTP.
type Handler struct {
	service    *Service
	staging    *media.Staging
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewHandler wires the auth HTTP layer. The TTLs size the cookie lifetimes to
// match the tokens they carry.
func NewHandler(service *Service, staging *media.Staging, accessTTL, refreshTTL time.Duration) *Handler {
	return &Handler{
		service:    service,
		staging:    staging,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// RegisterRoutes mounts the auth endpoints on the users subrouter.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/register", handler.Register)
	router.Post("/login", handler.Login)
	router.Post("/refresh-token", handler.RefreshToken)

	router.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireAuth)
		protected.Post("/logout", handler.Logout)
		protected.Delete("/logout", handler.Logout)
		protected.Patch("/change-password", handler.ChangePassword)
	})
}

// sessionResponse is the login/refresh payload: the public user view plus
// both tokens, mirrored into cookies for browser clients.
type sessionResponse struct {
	User *User `json:"user"`
	TokenPair
}

// Register handles POST /users/register (multipart).
//
// The staged files are discarded on EVERY outcome — success, validation
// failure, duplicate identity — via the deferred Discard below.
func (handler *Handler) Register(writer http.ResponseWriter, request *http.Request) {
	request.Body = http.MaxBytesReader(writer, request.Body, constants.MaxUploadBytes)
	if err := request.ParseMultipartForm(constants.MaxUploadBytes); err != nil {
		respond.Error(writer, request, validate.RequiredError("body", "Invalid multipart payload"))
		return
	}

	input := RegisterInput{
		Fullname: request.FormValue("fullname"),
		Email:    request.FormValue("email"),
		Username: request.FormValue("username"),
		Password: request.FormValue("password"),
	}

	avatarPath, err := handler.stageFormFile(request, "avatar")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	coverPath, err := handler.stageFormFile(request, "coverImage")
	if err != nil {
		handler.staging.Discard(avatarPath)
		respond.Error(writer, request, err)
		return
	}
	defer handler.staging.Discard(avatarPath, coverPath)

	validator := &validate.Validator{}
	validator.
		Required("fullname", input.Fullname).MaxLen("fullname", input.Fullname, 100).
		Required("email", input.Email).Email("email", input.Email).
		Required("username", input.Username).MinLen("username", input.Username, 3).MaxLen("username", input.Username, 30).
		Required("password", input.Password).MinLen("password", input.Password, 8).
		Custom("avatar", avatarPath == "", "Avatar image is required")
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.Register(request.Context(), input, avatarPath, coverPath)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user, "User registered successfully")
}

// loginRequest accepts either identifier; exactly one must be present.
type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /users/login.
func (handler *Handler) Login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	login := input.Username
	if login == "" {
		login = input.Email
	}

	validator := &validate.Validator{}
	validator.
		Custom("username", login == "", "Username or email is required").
		Required("password", input.Password)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, pair, err := handler.service.Login(request.Context(), login, input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.setSessionCookies(writer, pair)
	respond.OK(writer, sessionResponse{User: user, TokenPair: *pair}, "User logged in successfully")
}

// Logout handles POST|DELETE /users/logout.
func (handler *Handler) Logout(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Logout(request.Context(), userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.clearSessionCookies(writer)
	respond.OK(writer, nil, "User logged out successfully")
}

// refreshRequest is the JSON fallback for clients not using the cookie.
type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// RefreshToken handles POST /users/refresh-token. The token is read from the
// scoped cookie first, then from the JSON body; both transports are honored.
func (handler *Handler) RefreshToken(writer http.ResponseWriter, request *http.Request) {
	rawToken := ""
	if cookie, err := request.Cookie(constants.RefreshTokenCookieName); err == nil {
		rawToken = cookie.Value
	}
	if rawToken == "" {
		var input refreshRequest
		// An absent or malformed body simply means no token was supplied;
		// the service turns that into Unauthorized.
		if err := requestutil.DecodeJSON(request, &input); err == nil {
			rawToken = input.RefreshToken
		}
	}

	user, pair, err := handler.service.Refresh(request.Context(), rawToken)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.setSessionCookies(writer, pair)
	respond.OK(writer, sessionResponse{User: user, TokenPair: *pair}, "Access token refreshed")
}

// changePasswordRequest carries the password rotation payload.
type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// ChangePassword handles PATCH /users/change-password.
//
// A successful change ends the caller's session too: the refresh digest is
// cleared server-side and the cookies are cleared here.
func (handler *Handler) ChangePassword(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input changePasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.
		Required("currentPassword", input.CurrentPassword).
		Required("newPassword", input.NewPassword).MinLen("newPassword", input.NewPassword, 8).
		Custom("newPassword", input.NewPassword != "" && input.NewPassword == input.CurrentPassword, "Must differ from the current password")
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.ChangePassword(request.Context(), userID, input.CurrentPassword, input.NewPassword); err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.clearSessionCookies(writer)
	respond.OK(writer, nil, "Password changed successfully")
}

// stageFormFile spools a multipart file field to the staging area.
// A missing file is not an error here; presence rules live in the validator.
func (handler *Handler) stageFormFile(request *http.Request, field string) (string, error) {
	file, header, err := request.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", nil
		}
		return "", validate.RequiredError(field, "Invalid file upload")
	}
	defer file.Close()

	return handler.saveStaged(file, header)
}

// saveStaged writes the upload stream to local staging.
func (handler *Handler) saveStaged(file multipart.File, header *multipart.FileHeader) (string, error) {
	path, err := handler.staging.Save(file, header.Filename)
	if err != nil {
		return "", err
	}
	return path, nil
}

// # Session cookies
//
// Cross-site policy is fixed: HttpOnly + Secure + SameSite=None, with the
// refresh cookie scoped to the user lifecycle routes only.

func (handler *Handler) setSessionCookies(writer http.ResponseWriter, pair *TokenPair) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.AccessTokenCookieName,
		Value:    pair.AccessToken,
		Path:     constants.AccessTokenCookiePath,
		MaxAge:   int(handler.accessTTL.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.RefreshTokenCookieName,
		Value:    pair.RefreshToken,
		Path:     constants.RefreshTokenCookiePath,
		MaxAge:   int(handler.refreshTTL.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}

func (handler *Handler) clearSessionCookies(writer http.ResponseWriter) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.AccessTokenCookieName,
		Value:    "",
		Path:     constants.AccessTokenCookiePath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.RefreshTokenCookieName,
		Value:    "",
		Path:     constants.RefreshTokenCookiePath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}
