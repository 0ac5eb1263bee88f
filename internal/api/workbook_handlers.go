package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/studymate/reviewd/internal/errors"
	"github.com/studymate/reviewd/internal/logger"
	"github.com/studymate/reviewd/internal/services"
)

func (s *Server) handleListWorkbooks(w http.ResponseWriter, r *http.Request) {
	userID := userFromContext(r.Context())
	page, limit := s.parsePaging(r)

	schedules, pagination, err := s.WorkbookService.ListSchedules(r.Context(), userID, page, limit)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondPaged(w, r, http.StatusOK, schedules, &pagination)
}

type enrollWorkbookRequest struct {
	ProblemSetID string `json:"problemSetId"`
}

func (s *Server) handleEnrollWorkbook(w http.ResponseWriter, r *http.Request) {
	userID := userFromContext(r.Context())

	var req enrollWorkbookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleError(w, r, errors.NewBadRequestError("invalid JSON body"))
		return
	}

	sched, err := s.WorkbookService.EnsureSchedule(r.Context(), userID, req.ProblemSetID)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, sched)
}

type completeSessionRequest struct {
	SubmissionID string   `json:"submissionId"`
	Success      *bool    `json:"success"`
	TimeSpent    *float64 `json:"timeSpent"`
}

func (s *Server) handleCompleteSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	userID := userFromContext(r.Context())

	idStr := chi.URLParam(r, "scheduleID")
	scheduleID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		log.Warn("invalid schedule ID: %s", idStr)
		handleError(w, r, errors.NewValidationError("scheduleID", "must be an integer"))
		return
	}

	var req completeSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleError(w, r, errors.NewBadRequestError("invalid JSON body"))
		return
	}
	if req.Success == nil {
		handleError(w, r, errors.NewValidationError("success", "is required"))
		return
	}

	result, err := s.WorkbookService.CompleteSession(r.Context(), userID, scheduleID, services.CompleteSessionInput{
		SubmissionID:     req.SubmissionID,
		Success:          *req.Success,
		TimeSpentSeconds: req.TimeSpent,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, result)
}
