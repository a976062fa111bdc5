package handlers

import (
	"net/http"
	"strconv"
	"time"
	"todoTracker/internal/filter"
	"todoTracker/internal/handlers/dto"
	"todoTracker/internal/logger"
	"todoTracker/internal/presenter"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type TodoHandler struct {
	TodoService Service
	validate    *validator.Validate
	now         func() time.Time
}

func NewTodoHandler(todoService Service) *TodoHandler {
	return &TodoHandler{
		TodoService: todoService,
		validate:    newValidator(time.Now),
		now:         time.Now,
	}
}

// WithClock replaces the clock behind due date checks and report names.
func (h *TodoHandler) WithClock(now func() time.Time) *TodoHandler {
	h.now = now
	h.validate = newValidator(now)
	return h
}

// requireJSON rejects bodies sent with a Content-Type other than JSON.
// A missing Content-Type is accepted.
func requireJSON(w http.ResponseWriter, r *http.Request) bool {
	if r.Header.Get("Content-Type") == "" || checkContentType(r, "application/json") {
		return true
	}

	logger.Warn("HTTP: wrong content type",
		zap.String("expected", "application/json"),
		zap.String("received", r.Header.Get("Content-Type")),
		zap.String("client_ip", r.RemoteAddr))

	responseWithMessage(w, r, http.StatusUnsupportedMediaType, false, "unsupported_media_type", nil)
	return false
}

// pathID reads {id}. Ids that are not positive integers cannot exist.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func (h *TodoHandler) List(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	query := r.URL.Query()
	search := query.Get("search")
	sort := filter.ParseSort(query.Get("sort_by"), query.Get("order_direction"))

	todos, err := h.TodoService.ListTodos(r.Context(), search, sort)
	if err != nil {
		handleFailure(w, r, err, "failed_retrieve_todos")
		return
	}

	var echoed any
	if query.Has("search") {
		echoed = search
	}

	logger.Info("HTTP_OUT: todos listed",
		zap.Int("count", len(todos)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithSuccess(w, r, http.StatusOK, "todos_retrieved",
		toPayload("data", presenter.ToListItems(todos)),
		toPayload("search", echoed),
		toPayload("total_count", len(todos)),
	)
}

func (h *TodoHandler) Create(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	if !requireJSON(w, r) {
		return
	}

	var request dto.CreateTodoRequest
	if err := decodeBody(w, r, &request); err != nil {
		handleBusinessError(w, r, err, "todo_not_found")
		return
	}
	if err := h.validateStruct(request); err != nil {
		if !handleBusinessError(w, r, err, "todo_not_found") {
			handleFailure(w, r, err, "failed_create_todo")
		}
		return
	}

	created, err := h.TodoService.CreateTodo(r.Context(), request.ToTodo())
	if err != nil {
		if !handleBusinessError(w, r, err, "todo_not_found") {
			handleFailure(w, r, err, "failed_create_todo")
		}
		return
	}

	logger.Info("HTTP_OUT: todo created",
		zap.Int64("id", created.ID),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithSuccess(w, r, http.StatusCreated, "todo_created", toPayload("data", dto.FromTodo(created)))
}

func (h *TodoHandler) Get(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := pathID(r)
	if !ok {
		responseWithMessage(w, r, http.StatusNotFound, false, "todo_not_found", nil)
		return
	}

	t, err := h.TodoService.GetTodo(r.Context(), id)
	if err != nil {
		if !handleBusinessError(w, r, err, "todo_not_found") {
			handleFailure(w, r, err, "failed_retrieve_todo")
		}
		return
	}

	responseWithSuccess(w, r, http.StatusOK, "todo_retrieved", toPayload("data", dto.FromTodo(t)))
}

// Update serves both PUT and PATCH. The body is validated before the todo is
// looked up.
func (h *TodoHandler) Update(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	if !requireJSON(w, r) {
		return
	}

	id, ok := pathID(r)
	if !ok {
		responseWithMessage(w, r, http.StatusNotFound, false, "todo_not_found", nil)
		return
	}

	// a missing todo answers 404 whatever the body holds
	if _, err := h.TodoService.GetTodo(r.Context(), id); err != nil {
		if !handleBusinessError(w, r, err, "todo_not_found") {
			handleFailure(w, r, err, "failed_update_todo")
		}
		return
	}

	var request dto.UpdateTodoRequest
	if err := decodeBody(w, r, &request); err != nil {
		handleBusinessError(w, r, err, "todo_not_found")
		return
	}
	if err := h.validateStruct(request); err != nil {
		if !handleBusinessError(w, r, err, "todo_not_found") {
			handleFailure(w, r, err, "failed_update_todo")
		}
		return
	}

	updated, err := h.TodoService.UpdateTodo(r.Context(), id, request.Options()...)
	if err != nil {
		if !handleBusinessError(w, r, err, "todo_not_found") {
			handleFailure(w, r, err, "failed_update_todo")
		}
		return
	}

	logger.Info("HTTP_OUT: todo updated",
		zap.Int64("id", id),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithSuccess(w, r, http.StatusOK, "todo_updated", toPayload("data", dto.FromTodo(updated)))
}

func (h *TodoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := pathID(r)
	if !ok {
		responseWithMessage(w, r, http.StatusNotFound, false, "todo_not_found", nil)
		return
	}

	if err := h.TodoService.DeleteTodo(r.Context(), id); err != nil {
		if !handleBusinessError(w, r, err, "todo_not_found") {
			handleFailure(w, r, err, "failed_delete_todos")
		}
		return
	}

	responseWithSuccess(w, r, http.StatusOK, "todo_deleted", toPayload("deleted_id", id))
}

// BulkDelete removes every requested id or none of them.
func (h *TodoHandler) BulkDelete(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	if !requireJSON(w, r) {
		return
	}

	var request dto.BulkDeleteRequest
	if err := decodeBody(w, r, &request); err != nil {
		handleBusinessError(w, r, err, "todos_not_found_to_delete")
		return
	}
	if err := h.validateStruct(request); err != nil {
		if !handleBusinessError(w, r, err, "todos_not_found_to_delete") {
			handleFailure(w, r, err, "failed_delete_todos")
		}
		return
	}

	ids, err := parseIDs(request.IDs)
	if err != nil {
		handleBusinessError(w, r, err, "todos_not_found_to_delete")
		return
	}

	deleted, err := h.TodoService.BulkDeleteTodos(r.Context(), ids)
	if err != nil {
		if !handleBusinessError(w, r, err, "todos_not_found_to_delete") {
			handleFailure(w, r, err, "failed_delete_todos")
		}
		return
	}

	logger.Info("HTTP_OUT: todos deleted",
		zap.Int64("count", deleted),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithMessage(w, r, http.StatusOK, true, "todos_deleted", map[string]any{"Count": deleted},
		toPayload("deleted_count", deleted),
		toPayload("deleted_ids", ids),
	)
}

func (h *TodoHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.TodoService.HealthCheck(r.Context()); err != nil {
		logger.Error("HTTP: health check failed", err)
		responseWithError(w, r, http.StatusServiceUnavailable, "health_failed", err)
		return
	}

	responseWithSuccess(w, r, http.StatusOK, "health_ok")
}
