package worker

import (
	"context"

	"github.com/studymate/reviewd/internal/models"
)

// StatsRecomputer rebuilds cached daily stats from the event log. Defined
// here so jobs can depend on the behaviour without importing services.
type StatsRecomputer interface {
	RecomputeRange(ctx context.Context, userID string, from, to models.Day) error
}
