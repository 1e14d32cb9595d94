package dto

import "time"

type CreateTaskRequest struct {
	CustomerID  int64  `json:"customer_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type StatusResponse struct {
	Code  int    `json:"code"`
	Name  string `json:"name"`
	Label string `json:"label"`
}

type ActionResponse struct {
	Code       string          `json:"code"`
	Title      string          `json:"title"`
	NextStatus *StatusResponse `json:"next_status,omitempty"`
}

type TaskResponse struct {
	ID          int64          `json:"id"`
	CustomerID  int64          `json:"customer_id"`
	PerformerID *int64         `json:"performer_id,omitempty"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Status      StatusResponse `json:"status"`
	Version     int64          `json:"version"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`

	AvailableActions []string        `json:"available_actions,omitempty"`
	Action           *ActionResponse `json:"action,omitempty"`
}

type TaskSummaryResponse struct {
	ID     int64          `json:"id"`
	Title  string         `json:"title"`
	Status StatusResponse `json:"status"`
}

type TaskEventResponse struct {
	ID         string    `json:"id"`
	ActorID    int64     `json:"actor_id"`
	Action     string    `json:"action"`
	FromStatus string    `json:"from_status,omitempty"`
	ToStatus   string    `json:"to_status"`
	CreatedAt  time.Time `json:"created_at"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
