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

func (s *Server) handleTodayQueue(w http.ResponseWriter, r *http.Request) {
	userID := userFromContext(r.Context())
	page, limit := s.parsePaging(r)

	items, pagination, err := s.ReviewService.GetDueQueue(r.Context(), userID, page, limit)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondPaged(w, r, http.StatusOK, items, &pagination)
}

func (s *Server) handlePriorityQueue(w http.ResponseWriter, r *http.Request) {
	userID := userFromContext(r.Context())
	page, limit := s.parsePaging(r)

	maxOverdueDays, err := optionalIntParam(r, "maxOverdueDays")
	if err != nil {
		handleError(w, r, err)
		return
	}

	items, pagination, err := s.ReviewService.GetPriorityQueue(r.Context(), userID, maxOverdueDays, page, limit)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondPaged(w, r, http.StatusOK, items, &pagination)
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	userID := userFromContext(r.Context())

	progress, err := s.ReviewService.GetProgress(r.Context(), userID)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, progress)
}

type enrollProblemRequest struct {
	ProblemID string `json:"problemId"`
}

func (s *Server) handleEnrollProblem(w http.ResponseWriter, r *http.Request) {
	userID := userFromContext(r.Context())

	var req enrollProblemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleError(w, r, errors.NewBadRequestError("invalid JSON body"))
		return
	}

	state, err := s.ReviewService.EnsureState(r.Context(), userID, req.ProblemID)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, state)
}

type completeReviewRequest struct {
	SubmissionID        string   `json:"submissionId"`
	IsCorrect           *bool    `json:"isCorrect"`
	TimeSpent           *float64 `json:"timeSpent"`
	ConfidenceLevel     *int     `json:"confidenceLevel"`
	DifficultyPerceived *int     `json:"difficultyPerceived"`
}

func (s *Server) handleCompleteReview(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	userID := userFromContext(r.Context())

	idStr := chi.URLParam(r, "recordID")
	recordID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		log.Warn("invalid record ID: %s", idStr)
		handleError(w, r, errors.NewValidationError("recordID", "must be an integer"))
		return
	}

	var req completeReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleError(w, r, errors.NewBadRequestError("invalid JSON body"))
		return
	}
	if req.IsCorrect == nil {
		handleError(w, r, errors.NewValidationError("isCorrect", "is required"))
		return
	}

	result, err := s.ReviewService.CompleteReview(r.Context(), userID, recordID, services.CompleteReviewInput{
		SubmissionID:        req.SubmissionID,
		IsCorrect:           *req.IsCorrect,
		TimeSpentSeconds:    req.TimeSpent,
		ConfidenceLevel:     req.ConfidenceLevel,
		DifficultyPerceived: req.DifficultyPerceived,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, result)
}
