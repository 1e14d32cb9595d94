package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"taskforce/internal/domain"
	"taskforce/internal/http/dto"
	"taskforce/internal/logger"
	"taskforce/internal/service"
	"taskforce/internal/workflow"
)

// UserHeader carries the id of the authenticated viewer. Authentication
// itself happens upstream.
const UserHeader = "X-User-ID"

type TaskService interface {
	CreateTask(ctx context.Context, customerID int64, title, description string) (domain.Task, error)
	ListTasks(ctx context.Context) ([]domain.Task, error)
	ViewTask(ctx context.Context, id, userID int64) (service.TaskView, error)
	ApplyAction(ctx context.Context, id, userID int64, code string) (domain.Task, error)
	TaskEvents(ctx context.Context, id int64) ([]domain.TaskEvent, error)
}

type TaskHandler struct {
	taskService TaskService
	log         logger.Logger
}

func New(taskService TaskService, log logger.Logger) *TaskHandler {
	if log == nil {
		log = logger.NewNop()
	}
	return &TaskHandler{taskService: taskService, log: log}
}

// POST /tasks
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())

		return
	}

	task, err := h.taskService.CreateTask(r.Context(), req.CustomerID, req.Title, req.Description)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, taskResponse(task))
}

// GET /tasks/{id}
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	userID, err := viewerID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, service.ErrInvalidUser.Error())
		return
	}

	view, err := h.taskService.ViewTask(r.Context(), id, userID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, viewResponse(view))
}

// GET /tasks
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.taskService.ListTasks(r.Context())
	if err != nil {
		h.log.Error("failed listing tasks", "error", err)
		writeError(w, http.StatusInternalServerError, "failed getting tasks")

		return
	}

	response := make([]dto.TaskSummaryResponse, 0, len(tasks))
	for _, task := range tasks {
		response = append(response, dto.TaskSummaryResponse{
			ID:     task.ID,
			Title:  task.Title,
			Status: statusResponse(task.Status),
		})
	}

	writeJSON(w, http.StatusOK, response)
}

// POST /tasks/{id}/actions/{code}
func (h *TaskHandler) Apply(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	userID, err := viewerID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, service.ErrInvalidUser.Error())
		return
	}
	if userID == 0 {
		writeError(w, http.StatusUnauthorized, "missing "+UserHeader+" header")
		return
	}

	task, err := h.taskService.ApplyAction(r.Context(), id, userID, r.PathValue("code"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, taskResponse(task))
}

// GET /tasks/{id}/events
func (h *TaskHandler) Events(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	events, err := h.taskService.TaskEvents(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	response := make([]dto.TaskEventResponse, 0, len(events))
	for _, e := range events {
		response = append(response, eventResponse(e))
	}

	writeJSON(w, http.StatusOK, response)
}

// GET /health
func (h *TaskHandler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *TaskHandler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, service.ErrInvalidInput.Error())
	case errors.Is(err, service.ErrInvalidID):
		writeError(w, http.StatusBadRequest, service.ErrInvalidID.Error())
	case errors.Is(err, service.ErrInvalidUser):
		writeError(w, http.StatusBadRequest, service.ErrInvalidUser.Error())
	case errors.Is(err, service.ErrUnknownAction):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, service.ErrNotFound.Error())
	case errors.Is(err, service.ErrActionNotPermitted):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrConflict):
		writeError(w, http.StatusConflict, service.ErrConflict.Error())
	case errors.Is(err, workflow.ErrInvalidStatus):
		h.log.Error("task data integrity fault", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "task has an invalid status")
	default:
		h.log.Error("request failed", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idStr := r.PathValue("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, service.ErrInvalidID.Error())

		return 0, false
	}
	return id, true
}

// viewerID returns 0 when no viewer header was sent.
func viewerID(r *http.Request) (int64, error) {
	raw := strings.TrimSpace(r.Header.Get(UserHeader))
	if raw == "" {
		return 0, nil
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, service.ErrInvalidUser
	}
	return id, nil
}
