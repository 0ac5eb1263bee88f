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

type MasteryRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.MasteryRepository
}

func (s *MasteryRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewMasteryRepository(s.db)
}

func day(d string) *models.Day {
	v := models.Day(d)
	return &v
}

func (s *MasteryRepositorySuite) insertState(userID, problemID string, level models.MasteryLevel, scheduled *models.Day) int64 {
	id, err := s.repo.Insert(context.Background(), models.MasteryState{
		UserID:            userID,
		ProblemID:         problemID,
		MasteryLevel:      level,
		ScheduledDate:     scheduled,
		StageTableVersion: "v1",
		Version:           1,
		CreatedAt:         time.Now(),
	})
	s.Require().NoError(err)
	return id
}

func (s *MasteryRepositorySuite) TestInsertAndGet() {
	ctx := context.Background()
	id := s.insertState("user-1", "prob-1", models.Level0, day("2026-03-14"))

	state, err := s.repo.Get(ctx, id)
	s.Require().NoError(err)
	s.Require().NotNil(state)
	s.Assert().Equal("user-1", state.UserID)
	s.Assert().Equal("prob-1", state.ProblemID)
	s.Assert().Equal(models.Level0, state.MasteryLevel)
	s.Require().NotNil(state.ScheduledDate)
	s.Assert().Equal(models.Day("2026-03-14"), *state.ScheduledDate)
	s.Assert().Equal(int64(1), state.Version)

	byKey, err := s.repo.GetByUserProblem(ctx, "user-1", "prob-1")
	s.Require().NoError(err)
	s.Require().NotNil(byKey)
	s.Assert().Equal(id, byKey.ID)

	missing, err := s.repo.Get(ctx, id+999)
	s.Require().NoError(err)
	s.Assert().Nil(missing)
}

func (s *MasteryRepositorySuite) TestUpdateVersioned() {
	ctx := context.Background()
	id := s.insertState("user-1", "prob-1", models.Level0, day("2026-03-14"))

	state, err := s.repo.Get(ctx, id)
	s.Require().NoError(err)

	state.MasteryLevel = models.Level1
	state.ScheduledDate = day("2026-03-17")
	err = s.repo.UpdateVersioned(ctx, *state)
	s.Require().NoError(err)

	updated, err := s.repo.Get(ctx, id)
	s.Require().NoError(err)
	s.Assert().Equal(models.Level1, updated.MasteryLevel)
	s.Assert().Equal(int64(2), updated.Version, "version increments on update")
}

func (s *MasteryRepositorySuite) TestUpdateVersioned_Conflict() {
	ctx := context.Background()
	id := s.insertState("user-1", "prob-1", models.Level0, day("2026-03-14"))

	state, err := s.repo.Get(ctx, id)
	s.Require().NoError(err)

	// First writer wins.
	s.Require().NoError(s.repo.UpdateVersioned(ctx, *state))

	// Second writer still holds the stale version.
	err = s.repo.UpdateVersioned(ctx, *state)
	s.Assert().ErrorIs(err, repository.ErrVersionConflict)
}

func (s *MasteryRepositorySuite) TestUpdateVersioned_CompletedClearsDate() {
	ctx := context.Background()
	id := s.insertState("user-1", "prob-1", models.Level3, day("2026-03-14"))

	state, err := s.repo.Get(ctx, id)
	s.Require().NoError(err)
	state.MasteryLevel = models.LevelCompleted
	state.ScheduledDate = nil
	s.Require().NoError(s.repo.UpdateVersioned(ctx, *state))

	updated, err := s.repo.Get(ctx, id)
	s.Require().NoError(err)
	s.Assert().Equal(models.LevelCompleted, updated.MasteryLevel)
	s.Assert().Nil(updated.ScheduledDate)
}

func (s *MasteryRepositorySuite) TestListDue_OrderingAndExclusions() {
	ctx := context.Background()
	asOf := models.Day("2026-03-14")

	s.insertState("user-1", "prob-b", models.Level1, day("2026-03-10"))
	s.insertState("user-1", "prob-a", models.Level2, day("2026-03-10"))
	s.insertState("user-1", "prob-c", models.Level0, day("2026-03-14"))
	s.insertState("user-1", "prob-future", models.Level0, day("2026-03-20"))
	s.insertState("user-1", "prob-done", models.LevelCompleted, nil)
	s.insertState("user-2", "prob-other", models.Level0, day("2026-03-01"))

	due, err := s.repo.ListDue(ctx, repository.DueFilter{UserID: "user-1", AsOf: asOf, Limit: 10})
	s.Require().NoError(err)
	s.Require().Len(due, 3)

	// Scheduled date ascending, problem ID breaking the tie.
	s.Assert().Equal("prob-a", due[0].ProblemID)
	s.Assert().Equal("prob-b", due[1].ProblemID)
	s.Assert().Equal("prob-c", due[2].ProblemID)
	for _, st := range due {
		s.Assert().NotEqual(models.LevelCompleted, st.MasteryLevel)
	}

	count, err := s.repo.CountDue(ctx, repository.DueFilter{UserID: "user-1", AsOf: asOf})
	s.Require().NoError(err)
	s.Assert().Equal(3, count)
}

func (s *MasteryRepositorySuite) TestListDue_Pagination() {
	ctx := context.Background()
	asOf := models.Day("2026-03-14")
	s.insertState("user-1", "prob-a", models.Level0, day("2026-03-10"))
	s.insertState("user-1", "prob-b", models.Level0, day("2026-03-11"))
	s.insertState("user-1", "prob-c", models.Level0, day("2026-03-12"))

	page1, err := s.repo.ListDue(ctx, repository.DueFilter{UserID: "user-1", AsOf: asOf, Limit: 2})
	s.Require().NoError(err)
	s.Require().Len(page1, 2)
	s.Assert().Equal("prob-a", page1[0].ProblemID)

	page2, err := s.repo.ListDue(ctx, repository.DueFilter{UserID: "user-1", AsOf: asOf, Limit: 2, Offset: 2})
	s.Require().NoError(err)
	s.Require().Len(page2, 1)
	s.Assert().Equal("prob-c", page2[0].ProblemID)
}

func (s *MasteryRepositorySuite) TestListByPriority_OrderingAndCap() {
	ctx := context.Background()
	asOf := models.Day("2026-03-14")

	s.insertState("user-1", "prob-stale", models.Level1, day("2026-02-01")) // 41 days overdue
	s.insertState("user-1", "prob-old-hi", models.Level3, day("2026-03-09"))
	s.insertState("user-1", "prob-old-lo", models.Level1, day("2026-03-09"))
	s.insertState("user-1", "prob-today", models.Level0, day("2026-03-14"))

	capped := 7
	got, err := s.repo.ListByPriority(ctx, repository.DueFilter{UserID: "user-1", AsOf: asOf, MaxOverdueDays: &capped, Limit: 10})
	s.Require().NoError(err)
	s.Require().Len(got, 3, "items past the overdue cap are excluded")

	// Most overdue first; at equal overdue-ness the lower-mastered item wins.
	s.Assert().Equal("prob-old-lo", got[0].ProblemID)
	s.Assert().Equal("prob-old-hi", got[1].ProblemID)
	s.Assert().Equal("prob-today", got[2].ProblemID)

	for _, st := range got {
		s.Assert().LessOrEqual(st.OverdueDays(asOf), capped)
	}

	uncapped, err := s.repo.ListByPriority(ctx, repository.DueFilter{UserID: "user-1", AsOf: asOf, Limit: 10})
	s.Require().NoError(err)
	s.Require().Len(uncapped, 4)
	s.Assert().Equal("prob-stale", uncapped[0].ProblemID, "without a cap the stalest item leads")
}

func (s *MasteryRepositorySuite) TestDistribution() {
	ctx := context.Background()
	s.insertState("user-1", "p1", models.Level0, day("2026-03-14"))
	s.insertState("user-1", "p2", models.Level0, day("2026-03-14"))
	s.insertState("user-1", "p3", models.Level2, day("2026-03-14"))
	s.insertState("user-1", "p4", models.LevelCompleted, nil)
	s.insertState("user-2", "p5", models.Level1, day("2026-03-14"))

	dist, err := s.repo.Distribution(ctx, "user-1")
	s.Require().NoError(err)
	s.Assert().Equal(2, dist.Level0)
	s.Assert().Equal(0, dist.Level1)
	s.Assert().Equal(1, dist.Level2)
	s.Assert().Equal(0, dist.Level3)
	s.Assert().Equal(1, dist.Completed)
}

func TestMasteryRepositorySuite(t *testing.T) {
	suite.Run(t, new(MasteryRepositorySuite))
}
