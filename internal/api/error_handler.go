package api

import (
	"encoding/json"
	"net/http"

	"github.com/studymate/reviewd/internal/errors"
	"github.com/studymate/reviewd/internal/logger"
)

// handleError centralizes error handling for HTTP responses
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())

	appErr, ok := err.(*errors.AppError)
	if !ok {
		appErr = errors.NewInternalError(err)
	}

	if appErr.Status >= 500 {
		log.Error("server error: %v", appErr)
	} else if appErr.Status >= 400 {
		log.Warn("client error: %v", appErr)
	} else {
		log.Debug("error: %v", appErr)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.Status)
	if encErr := json.NewEncoder(w).Encode(envelope{
		Success: false,
		Message: appErr.Message,
		Data:    map[string]string{"code": appErr.Code},
	}); encErr != nil {
		log.Error("failed to encode error response: %v", encErr)
	}
}
