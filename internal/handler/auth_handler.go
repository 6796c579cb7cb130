package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"notefold-server/internal/domain"
	"notefold-server/internal/middleware"
	"notefold-server/internal/service"
	"notefold-server/pkg/response"

	"github.com/go-playground/validator/v10"
)

type AuthHandler struct {
	authService *service.AuthService
	validate    *validator.Validate
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
	}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req domain.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	token, err := h.authService.Signup(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			response.BadRequest(w, service.ErrEmailTaken.Error())
			return
		}
		response.InternalError(w, "internal server error")
		return
	}

	response.Success(w, token)
}

// Login accepts the OAuth2 password form: username (the email) and password.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		response.BadRequest(w, "invalid form body")
		return
	}

	email := r.PostFormValue("username")
	password := r.PostFormValue("password")

	token, err := h.authService.Login(email, password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Unauthorized(w, service.ErrInvalidCredentials.Error())
			return
		}
		response.InternalError(w, "internal server error")
		return
	}

	response.Success(w, token)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	response.Success(w, user.Public())
}
