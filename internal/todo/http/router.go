package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	commonerrors "github.com/semenovda/todo-vault/internal/common/errors"
	commonhttp "github.com/semenovda/todo-vault/internal/common/http"
	"github.com/semenovda/todo-vault/internal/common/jwtverify"
	"github.com/semenovda/todo-vault/internal/common/logger"
	"github.com/semenovda/todo-vault/internal/todo/domain"
	"github.com/semenovda/todo-vault/internal/todo/service"
	userdomain "github.com/semenovda/todo-vault/internal/user/domain"
)

type createTodoRequest struct {
	ID        string    `json:"id" validate:"required,max=64"`
	Text      string    `json:"text" validate:"required,max=4000"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt" validate:"required"`
}

type toggleTodoRequest struct {
	Completed bool `json:"completed"`
}

type todoResponse struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type Handler struct {
	todos    *service.TodoService
	validate *validator.Validate
	errors   *commonhttp.ErrorHandler
	log      *logger.Logger
	timeout  time.Duration
}

// NewHandler serves the four todo operations. It assumes the identity
// middleware already ran; a request reaching it without a verified identity
// is rejected, never served unscoped.
func NewHandler(todos *service.TodoService, timeout time.Duration, log *logger.Logger) http.Handler {
	h := &Handler{
		todos:    todos,
		validate: validator.New(),
		errors:   commonhttp.NewErrorHandler(log),
		log:      log,
		timeout:  timeout,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/todos", h.collection)
	mux.HandleFunc("/api/todos/", h.item)
	return mux
}

func (h *Handler) collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		commonhttp.WriteErrorEnvelope(w, http.StatusMethodNotAllowed,
			commonhttp.CodeMethodNotAllowed, "method not allowed", "")
	}
}

func (h *Handler) item(w http.ResponseWriter, r *http.Request) {
	id, ok := extractTodoID(r.URL.Path)
	if !ok {
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest,
			commonhttp.CodeInvalidPath, "missing todo id", "")
		return
	}

	switch r.Method {
	case http.MethodPut:
		h.toggle(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		commonhttp.WriteErrorEnvelope(w, http.StatusMethodNotAllowed,
			commonhttp.CodeMethodNotAllowed, "method not allowed", "")
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.identity(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	todos, err := h.todos.List(ctx, ownerID)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	resp := make([]todoResponse, 0, len(todos))
	for _, t := range todos {
		resp = append(resp, todoResponse{
			ID:        string(t.ID),
			Text:      t.Text,
			Completed: t.Completed,
			CreatedAt: t.CreatedAt,
		})
	}

	commonhttp.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.identity(w, r)
	if !ok {
		return
	}

	var req createTodoRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.Warnf("create todo failed: invalid json: %v", err)
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

	err := h.todos.Create(ctx, ownerID, service.CreateInput{
		ID:        domain.ID(req.ID),
		Text:      req.Text,
		Completed: req.Completed,
		CreatedAt: req.CreatedAt,
	})
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, messageResponse{Message: "todo created"})
}

func (h *Handler) toggle(w http.ResponseWriter, r *http.Request, id string) {
	ownerID, ok := h.identity(w, r)
	if !ok {
		return
	}

	var req toggleTodoRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.Warnf("update todo failed: invalid json: %v", err)
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest,
			commonhttp.CodeInvalidJSON, "invalid json", "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.todos.SetCompleted(ctx, domain.ID(id), ownerID, req.Completed); err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, messageResponse{Message: "todo updated"})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request, id string) {
	ownerID, ok := h.identity(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.todos.Delete(ctx, domain.ID(id), ownerID); err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, messageResponse{Message: "todo deleted"})
}

func (h *Handler) identity(w http.ResponseWriter, r *http.Request) (userdomain.ID, bool) {
	claims, ok := jwtverify.FromContext(r.Context())
	if !ok || claims.UserID == "" {
		h.errors.HandleError(w, r, commonerrors.ErrMissingAuthorization)
		return "", false
	}
	return userdomain.ID(claims.UserID), true
}

func extractTodoID(path string) (string, bool) {
	remaining := strings.TrimPrefix(path, "/api/todos/")
	if remaining == "" || strings.Contains(remaining, "/") {
		return "", false
	}
	return remaining, true
}
