package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/studymate/reviewd/internal/models"
	"github.com/studymate/reviewd/internal/repository/sqlite"
	"github.com/studymate/reviewd/internal/scheduler"
	"github.com/studymate/reviewd/internal/testutil"
	"github.com/studymate/reviewd/internal/testutil/mocks"
)

// Concurrent completions against the real store must serialize instead of
// losing updates or surfacing spurious conflicts.
func TestCompleteReview_ConcurrentSubmissionsSerialize(t *testing.T) {
	database := testutil.NewTestDB(t)

	queue := new(mocks.MockJobQueue)
	queue.On("EnqueueStatsRecompute", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()

	svc := &reviewService{
		masteryRepo: sqlite.NewMasteryRepository(database),
		eventRepo:   sqlite.NewEventRepository(database),
		jobQueue:    queue,
		table:       scheduler.DefaultItemTable(),
		locks:       newKeyLock(),
		now:         func() time.Time { return time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC) },
	}

	ctx := context.Background()
	state, err := svc.EnsureState(ctx, "user-1", "prob-1")
	require.NoError(t, err)

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.CompleteReview(ctx, "user-1", state.ID, CompleteReviewInput{
				SubmissionID: fmt.Sprintf("sub-%d", i),
				IsCorrect:    true,
			})
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "submission %d", i)
	}

	final, err := svc.masteryRepo.Get(ctx, state.ID)
	require.NoError(t, err)
	// Four corrects reach completed; the remaining corrects keep it there.
	require.Equal(t, models.LevelCompleted, final.MasteryLevel)
	require.Nil(t, final.ScheduledDate)
	require.Equal(t, n, final.TotalAttempts)
}

// Replaying the same submission ID concurrently must apply it exactly once.
func TestCompleteReview_ConcurrentDuplicatesApplyOnce(t *testing.T) {
	database := testutil.NewTestDB(t)

	queue := new(mocks.MockJobQueue)
	queue.On("EnqueueStatsRecompute", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()

	svc := &reviewService{
		masteryRepo: sqlite.NewMasteryRepository(database),
		eventRepo:   sqlite.NewEventRepository(database),
		jobQueue:    queue,
		table:       scheduler.DefaultItemTable(),
		locks:       newKeyLock(),
		now:         func() time.Time { return time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC) },
	}

	ctx := context.Background()
	state, err := svc.EnsureState(ctx, "user-1", "prob-1")
	require.NoError(t, err)

	const n = 8
	var wg sync.WaitGroup
	results := make([]*ReviewResult, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.CompleteReview(ctx, "user-1", state.ID, CompleteReviewInput{
				SubmissionID: "sub-1",
				IsCorrect:    true,
			})
		}(i)
	}
	wg.Wait()

	applied := 0
	for i := range results {
		require.NoError(t, errs[i])
		require.Equal(t, models.Level1, results[i].NewLevel, "every caller sees the same transition")
		if !results[i].Duplicate {
			applied++
		}
	}
	require.Equal(t, 1, applied)

	final, err := svc.masteryRepo.Get(ctx, state.ID)
	require.NoError(t, err)
	require.Equal(t, models.Level1, final.MasteryLevel)
	require.Equal(t, 1, final.TotalAttempts)
}
