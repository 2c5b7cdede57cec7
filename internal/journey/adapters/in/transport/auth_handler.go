package transport

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jacantwell/kairos-backend/internal/shared/auth"
	"github.com/jacantwell/kairos-backend/internal/shared/logger"
	"github.com/jacantwell/kairos-backend/internal/shared/user"
)

const minPasswordLength = 8

// AuthHandler обрабатывает регистрацию и вход
type AuthHandler struct {
	users      user.Repository
	jwtService *auth.JWTService
	log        *logger.Logger
}

// NewAuthHandler создает новый auth handler
func NewAuthHandler(users user.Repository, jwtService *auth.JWTService, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		users:      users,
		jwtService: jwtService,
		log:        log,
	}
}

// RegisterRoutes регистрирует auth маршруты (без аутентификации)
func (h *AuthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /auth/register", h.handleRegister)
	mux.HandleFunc("POST /auth/login", h.handleLogin)
}

// CredentialsHTTPRequest — HTTP DTO для register/login
type CredentialsHTTPRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenHTTPResponse — ответ с JWT токеном
type TokenHTTPResponse struct {
	Token string `json:"token"`
	User  struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Role  string `json:"role"`
	} `json:"user"`
}

// handleRegister обрабатывает POST /auth/register
func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := h.decodeCredentials(w, r)
	if !ok {
		return
	}
	if len(req.Password) < minPasswordLength {
		h.respondError(w, http.StatusBadRequest, "password too short (minimum 8 characters)")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.log.Error(logger.Entry{
			Action:  "hash_password_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
		h.respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	now := time.Now()
	u := &user.User{
		ID:           uuid.New().String(),
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         user.RoleTraveler,
		Status:       user.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := h.users.Create(ctx, u); err != nil {
		if errors.Is(err, user.ErrUserExists) {
			h.respondError(w, http.StatusConflict, "user already exists")
			return
		}
		h.log.Error(logger.Entry{
			Action:  "create_user_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
		h.respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.log.Info(logger.Entry{
		Action:  "user_registered",
		Message: "new user registered",
	})

	h.respondToken(w, http.StatusCreated, u)
}

// handleLogin обрабатывает POST /auth/login
func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := h.decodeCredentials(w, r)
	if !ok {
		return
	}

	u, err := h.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			h.respondError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		h.log.Error(logger.Entry{
			Action:  "login_lookup_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
		h.respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if !u.IsActive() {
		h.respondError(w, http.StatusForbidden, "user is inactive")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		h.respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	h.respondToken(w, http.StatusOK, u)
}

func (h *AuthHandler) decodeCredentials(w http.ResponseWriter, r *http.Request) (CredentialsHTTPRequest, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	var req CredentialsHTTPRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			h.respondError(w, http.StatusBadRequest, "empty request body")
			return req, false
		}
		h.log.Error(logger.Entry{
			Action:  "parse_auth_request_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
		h.respondError(w, http.StatusBadRequest, "invalid request format")
		return req, false
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		h.respondError(w, http.StatusBadRequest, "invalid email format")
		return req, false
	}
	if req.Password == "" {
		h.respondError(w, http.StatusBadRequest, "password is required")
		return req, false
	}

	return req, true
}

func (h *AuthHandler) respondToken(w http.ResponseWriter, status int, u *user.User) {
	token, err := h.jwtService.GenerateToken(u.ID, u.Email, u.Role)
	if err != nil {
		h.log.Error(logger.Entry{
			Action:  "generate_token_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
		h.respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	var resp TokenHTTPResponse
	resp.Token = token
	resp.User.ID = u.ID
	resp.User.Email = u.Email
	resp.User.Role = u.Role

	h.respondJSON(w, status, resp)
}

func (h *AuthHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error(logger.Entry{
			Action:  "encode_auth_response_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
	}
}

func (h *AuthHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
