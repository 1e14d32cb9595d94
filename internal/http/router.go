package router

import (
	"net/http"

	"taskforce/internal/http/handlers"
	"taskforce/internal/logger"
)

func New(handler *handlers.TaskHandler, log logger.Logger) http.Handler {
	if log == nil {
		log = logger.NewNop()
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", handler.Health)
	mux.HandleFunc("POST /tasks", handler.Create)
	mux.HandleFunc("GET /tasks", handler.List)
	mux.HandleFunc("GET /tasks/{id}", handler.Get)
	mux.HandleFunc("GET /tasks/{id}/events", handler.Events)
	mux.HandleFunc("POST /tasks/{id}/actions/{code}", handler.Apply)

	return handlers.Logging(log, mux)
}
