package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/studymate/reviewd/internal/models"
	"github.com/studymate/reviewd/internal/repository"
	"github.com/studymate/reviewd/internal/repository/sqlite"
	"github.com/studymate/reviewd/internal/testutil"
)

type WorkbookRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.WorkbookRepository
}

func (s *WorkbookRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewWorkbookRepository(s.db)
}

func (s *WorkbookRepositorySuite) insertSchedule(userID, setID string, stage int, next models.Day) int64 {
	id, err := s.repo.Insert(context.Background(), models.WorkbookReviewSchedule{
		UserID:            userID,
		ProblemSetID:      setID,
		ReviewStage:       stage,
		NextReviewDate:    next,
		StageTableVersion: "wb-v1",
		Version:           1,
		CreatedAt:         time.Now(),
	})
	s.Require().NoError(err)
	return id
}

func (s *WorkbookRepositorySuite) TestInsertAndGet() {
	ctx := context.Background()
	id := s.insertSchedule("user-1", "set-1", 0, "2026-03-17")

	sched, err := s.repo.Get(ctx, id)
	s.Require().NoError(err)
	s.Require().NotNil(sched)
	s.Assert().Equal("user-1", sched.UserID)
	s.Assert().Equal("set-1", sched.ProblemSetID)
	s.Assert().Equal(0, sched.ReviewStage)
	s.Assert().Equal(models.Day("2026-03-17"), sched.NextReviewDate)

	byKey, err := s.repo.GetByUserSet(ctx, "user-1", "set-1")
	s.Require().NoError(err)
	s.Require().NotNil(byKey)
	s.Assert().Equal(id, byKey.ID)

	missing, err := s.repo.GetByUserSet(ctx, "user-1", "set-nope")
	s.Require().NoError(err)
	s.Assert().Nil(missing)
}

func (s *WorkbookRepositorySuite) TestUpdateVersioned_Conflict() {
	ctx := context.Background()
	id := s.insertSchedule("user-1", "set-1", 0, "2026-03-17")

	sched, err := s.repo.Get(ctx, id)
	s.Require().NoError(err)

	sched.ReviewStage = 1
	sched.NextReviewDate = "2026-03-24"
	s.Require().NoError(s.repo.UpdateVersioned(ctx, *sched))

	// Stale version loses.
	err = s.repo.UpdateVersioned(ctx, *sched)
	s.Assert().ErrorIs(err, repository.ErrVersionConflict)

	updated, err := s.repo.Get(ctx, id)
	s.Require().NoError(err)
	s.Assert().Equal(1, updated.ReviewStage)
	s.Assert().Equal(int64(2), updated.Version)
}

func (s *WorkbookRepositorySuite) TestListAndCount() {
	ctx := context.Background()
	s.insertSchedule("user-1", "set-b", 2, "2026-03-20")
	s.insertSchedule("user-1", "set-a", 0, "2026-03-17")
	s.insertSchedule("user-1", "set-c", 1, "2026-03-17")
	s.insertSchedule("user-2", "set-x", 0, "2026-03-01")

	list, err := s.repo.List(ctx, "user-1", 10, 0)
	s.Require().NoError(err)
	s.Require().Len(list, 3)

	// Next review date ascending, set ID breaking the tie.
	s.Assert().Equal("set-a", list[0].ProblemSetID)
	s.Assert().Equal("set-c", list[1].ProblemSetID)
	s.Assert().Equal("set-b", list[2].ProblemSetID)

	page, err := s.repo.List(ctx, "user-1", 2, 2)
	s.Require().NoError(err)
	s.Require().Len(page, 1)
	s.Assert().Equal("set-b", page[0].ProblemSetID)

	count, err := s.repo.Count(ctx, "user-1")
	s.Require().NoError(err)
	s.Assert().Equal(3, count)
}

func TestWorkbookRepositorySuite(t *testing.T) {
	suite.Run(t, new(WorkbookRepositorySuite))
}
