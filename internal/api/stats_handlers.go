package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/studymate/reviewd/internal/errors"
	"github.com/studymate/reviewd/internal/logger"
	"github.com/studymate/reviewd/internal/models"
)

func (s *Server) handleDailyStats(w http.ResponseWriter, r *http.Request) {
	userID := userFromContext(r.Context())

	day := models.Day(r.URL.Query().Get("date"))
	if day == "" {
		day = models.DayOf(time.Now())
	}

	stats, err := s.StatsService.GetDailyStats(r.Context(), userID, day)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, stats)
}

func (s *Server) handleEfficiencyReport(w http.ResponseWriter, r *http.Request) {
	userID := userFromContext(r.Context())

	from := models.Day(r.URL.Query().Get("startDate"))
	to := models.Day(r.URL.Query().Get("endDate"))
	if from == "" {
		handleError(w, r, errors.NewValidationError("startDate", "is required"))
		return
	}
	if to == "" {
		handleError(w, r, errors.NewValidationError("endDate", "is required"))
		return
	}

	report, err := s.StatsService.GetEfficiencyReport(r.Context(), userID, from, to)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, report)
}

type recomputeStatsRequest struct {
	StartDate models.Day `json:"startDate"`
	EndDate   models.Day `json:"endDate"`
}

// handleRecomputeStats queues a cache rebuild for the given day range. The
// rebuild runs on the worker pool; the request returns as soon as the job is
// accepted.
func (s *Server) handleRecomputeStats(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	userID := userFromContext(r.Context())

	var req recomputeStatsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleError(w, r, errors.NewBadRequestError("invalid JSON body"))
		return
	}
	if !req.StartDate.Valid() || !req.EndDate.Valid() {
		handleError(w, r, errors.NewValidationError("startDate", "dates must be formatted YYYY-MM-DD"))
		return
	}
	if req.EndDate.Before(req.StartDate) {
		handleError(w, r, errors.NewValidationError("endDate", "must not precede startDate"))
		return
	}

	if err := s.JobQueue.EnqueueStatsRecompute(userID, req.StartDate, req.EndDate); err != nil {
		log.Warn("failed to queue stats recompute: %v", err)
		handleError(w, r, errors.NewInternalError(err))
		return
	}

	log.Info("stats recompute queued: from=%s, to=%s", req.StartDate, req.EndDate)
	respond(w, r, http.StatusAccepted, map[string]string{
		"status": "queued",
	})
}
