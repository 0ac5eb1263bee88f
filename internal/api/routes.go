package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(cors.New(cors.Options{
		AllowedOrigins: s.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "X-User-ID", "X-Request-ID"},
	}).Handler)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Route("/review", func(r chi.Router) {
		r.Use(s.identityMiddleware)

		r.Get("/today", s.handleTodayQueue)
		r.Get("/priority", s.handlePriorityQueue)
		r.Get("/progress", s.handleProgress)
		r.Get("/efficiency", s.handleEfficiencyReport)
		r.Post("/items", s.handleEnrollProblem)
		r.Post("/complete/{recordID}", s.handleCompleteReview)

		r.Get("/stats/daily", s.handleDailyStats)
		r.Post("/stats/recompute", s.handleRecomputeStats)

		r.Get("/workbooks", s.handleListWorkbooks)
		r.Post("/workbooks", s.handleEnrollWorkbook)
		r.Post("/workbooks/complete/{scheduleID}", s.handleCompleteSession)
	})

	return r
}
