package api

import (
	"encoding/json"
	"net/http"

	"github.com/studymate/reviewd/internal/logger"
	"github.com/studymate/reviewd/internal/models"
)

// envelope is the uniform response shape of every endpoint.
type envelope struct {
	Success    bool               `json:"success"`
	Message    string             `json:"message,omitempty"`
	Data       any                `json:"data,omitempty"`
	Pagination *models.Pagination `json:"pagination,omitempty"`
}

func respond(w http.ResponseWriter, r *http.Request, status int, data any) {
	respondPaged(w, r, status, data, nil)
}

func respondPaged(w http.ResponseWriter, r *http.Request, status int, data any, page *models.Pagination) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{Success: true, Data: data, Pagination: page}); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode response: %v", err)
	}
}
