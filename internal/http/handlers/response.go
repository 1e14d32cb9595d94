package handlers

import (
	"encoding/json"
	"net/http"

	"taskforce/internal/domain"
	"taskforce/internal/http/dto"
	"taskforce/internal/service"
	"taskforce/internal/workflow"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, dto.ErrorResponse{Error: msg})
}

func statusResponse(s workflow.Status) dto.StatusResponse {
	return dto.StatusResponse{Code: int(s), Name: s.String(), Label: s.Label()}
}

func taskResponse(task domain.Task) dto.TaskResponse {
	return dto.TaskResponse{
		ID:          task.ID,
		CustomerID:  task.CustomerID,
		PerformerID: task.PerformerID,
		Title:       task.Title,
		Description: task.Description,
		Status:      statusResponse(task.Status),
		Version:     task.Version,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

func viewResponse(view service.TaskView) dto.TaskResponse {
	resp := taskResponse(view.Task)

	resp.AvailableActions = make([]string, 0, len(view.Available))
	for _, a := range view.Available {
		resp.AvailableActions = append(resp.AvailableActions, a.Code())
	}

	if view.Action != nil {
		resp.Action = &dto.ActionResponse{
			Code:  view.Action.Code,
			Title: view.Action.Title,
		}
		if view.NextStatus != nil {
			next := statusResponse(*view.NextStatus)
			resp.Action.NextStatus = &next
		}
	}
	return resp
}

func eventResponse(e domain.TaskEvent) dto.TaskEventResponse {
	resp := dto.TaskEventResponse{
		ID:        e.ID,
		ActorID:   e.ActorID,
		Action:    e.Action,
		ToStatus:  e.ToStatus.String(),
		CreatedAt: e.CreatedAt,
	}
	if e.FromStatus != 0 {
		resp.FromStatus = e.FromStatus.String()
	}
	return resp
}
