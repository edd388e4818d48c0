// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/confkb/internal/platform/middleware"
	requestutil "github.com/taibuivan/confkb/internal/platform/request"
	"github.com/taibuivan/confkb/internal/platform/respond"
)

// Handler implements the login endpoints.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns the router mounted at /api/auth.
//
// # Endpoints
//   - POST /login  : Exchanges the admin password for a token.
//   - GET  /verify : Confirms the bearer token is a valid admin token.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/login", handler.login)
	router.With(middleware.RequireAdmin).Get("/verify", handler.verify)

	return router
}

type loginRequest struct {
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

/*
POST /api/auth/login.

Response:
  - 200: {token}
  - 400: VALIDATION_ERROR: Empty password
  - 401: UNAUTHORIZED: Wrong password
  - 429: RATE_LIMITED: Too many failures from this client
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	token, err := handler.authService.Login(request.Context(), input.Password, middleware.RealIP(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, loginResponse{Token: token})
}

type verifyResponse struct {
	Admin         bool `json:"admin"`
	Authenticated bool `json:"authenticated"`
}

// GET /api/auth/verify. Reaching the handler means RequireAdmin passed.
func (handler *Handler) verify(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, verifyResponse{Admin: true, Authenticated: true})
}
