package api

import (
	"github.com/studymate/reviewd/internal/db"
	"github.com/studymate/reviewd/internal/jobs"
	"github.com/studymate/reviewd/internal/services"
	"github.com/studymate/reviewd/internal/worker"
)

type Server struct {
	DB              *db.DB
	ReviewService   services.ReviewService
	StatsService    services.StatsService
	WorkbookService services.WorkbookService
	JobQueue        jobs.JobQueue
	StatsPool       *worker.Pool
	CORSOrigins     []string
	DefaultPageSize int
	MaxPageSize     int
}
