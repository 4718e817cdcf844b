package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/semenovda/todo-vault/internal/auth/service"
	commonerrors "github.com/semenovda/todo-vault/internal/common/errors"
	commonhttp "github.com/semenovda/todo-vault/internal/common/http"
	"github.com/semenovda/todo-vault/internal/common/logger"
)

type registerRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type registerResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type loginResponse struct {
	Auth  bool   `json:"auth"`
	Token string `json:"token"`
}

type Handler struct {
	auth     *service.AuthService
	validate *validator.Validate
	errors   *commonhttp.ErrorHandler
	log      *logger.Logger
	timeout  time.Duration
}

func NewHandler(auth *service.AuthService, timeout time.Duration, log *logger.Logger) http.Handler {
	h := &Handler{
		auth:     auth,
		validate: validator.New(),
		errors:   commonhttp.NewErrorHandler(log),
		log:      log,
		timeout:  timeout,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/register", h.register)
	mux.HandleFunc("/api/auth/login", h.login)
	return mux
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		commonhttp.WriteErrorEnvelope(w, http.StatusMethodNotAllowed,
			commonhttp.CodeMethodNotAllowed, "method not allowed", "")
		return
	}

	var req registerRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.Warnf("register failed: invalid json: %v", err)
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest,
			commonhttp.CodeInvalidJSON, "invalid json", "")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		h.errors.HandleError(w, r, commonerrors.ErrValidationFailed.WithCause(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	user, err := h.auth.Register(ctx, service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, registerResponse{
		ID:    string(user.ID),
		Email: user.Email,
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		commonhttp.WriteErrorEnvelope(w, http.StatusMethodNotAllowed,
			commonhttp.CodeMethodNotAllowed, "method not allowed", "")
		return
	}

	var req loginRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.Warnf("login failed: invalid json: %v", err)
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest,
			commonhttp.CodeInvalidJSON, "invalid json", "")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		h.errors.HandleError(w, r, commonerrors.ErrValidationFailed.WithCause(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	result, err := h.auth.Login(ctx, service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, loginResponse{
		Auth:  true,
		Token: result.Token,
	})
}
