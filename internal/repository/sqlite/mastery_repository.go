package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/studymate/reviewd/internal/logger"
	"github.com/studymate/reviewd/internal/models"
	"github.com/studymate/reviewd/internal/repository"
)

const masteryColumns = `id, user_id, problem_id, mastery_level, scheduled_date, consecutive_correct, total_attempts, last_reviewed_at, stage_table_version, version, created_at`

type masteryRepository struct {
	db *sql.DB
}

// NewMasteryRepository creates a new MasteryRepository implementation
func NewMasteryRepository(db *sql.DB) repository.MasteryRepository {
	return &masteryRepository{db: db}
}

func scanMastery(row interface{ Scan(...any) error }) (*models.MasteryState, error) {
	var s models.MasteryState
	var scheduled sql.NullString
	var reviewed sql.NullTime
	err := row.Scan(&s.ID, &s.UserID, &s.ProblemID, &s.MasteryLevel, &scheduled,
		&s.ConsecutiveCorrect, &s.TotalAttempts, &reviewed, &s.StageTableVersion, &s.Version, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	s.ScheduledDate = nullDay(scheduled)
	s.LastReviewedAt = nullTime(reviewed)
	return &s, nil
}

func (r *masteryRepository) Get(ctx context.Context, id int64) (*models.MasteryState, error) {
	log := logger.FromContext(ctx).WithPrefix("mastery_repo")
	log.Debug("getting mastery state: id=%d", id)

	s, err := scanMastery(r.db.QueryRowContext(ctx, `
SELECT `+masteryColumns+`
FROM mastery_states
WHERE id = ?
`, id))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("mastery state not found: id=%d", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get mastery state: %v", err)
		return nil, err
	}
	return s, nil
}

func (r *masteryRepository) GetByUserProblem(ctx context.Context, userID, problemID string) (*models.MasteryState, error) {
	log := logger.FromContext(ctx).WithPrefix("mastery_repo")
	log.Debug("getting mastery state: user_id=%s, problem_id=%s", userID, problemID)

	s, err := scanMastery(r.db.QueryRowContext(ctx, `
SELECT `+masteryColumns+`
FROM mastery_states
WHERE user_id = ? AND problem_id = ?
`, userID, problemID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get mastery state: %v", err)
		return nil, err
	}
	return s, nil
}

func (r *masteryRepository) Insert(ctx context.Context, s models.MasteryState) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("mastery_repo")
	log.Debug("inserting mastery state: user_id=%s, problem_id=%s", s.UserID, s.ProblemID)

	res, err := r.db.ExecContext(ctx, `
INSERT INTO mastery_states (user_id, problem_id, mastery_level, scheduled_date, consecutive_correct, total_attempts, last_reviewed_at, stage_table_version, version, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, s.UserID, s.ProblemID, s.MasteryLevel, dayArg(s.ScheduledDate), s.ConsecutiveCorrect, s.TotalAttempts, timeArg(s.LastReviewedAt), s.StageTableVersion, s.Version, s.CreatedAt)
	if err != nil {
		log.Error("failed to insert mastery state: %v", err)
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		log.Error("failed to get mastery state id: %v", err)
		return 0, err
	}
	log.Debug("mastery state inserted: id=%d", id)
	return id, nil
}

func (r *masteryRepository) UpdateVersioned(ctx context.Context, s models.MasteryState) error {
	log := logger.FromContext(ctx).WithPrefix("mastery_repo")
	log.Debug("updating mastery state: id=%d, level=%d, version=%d", s.ID, s.MasteryLevel, s.Version)

	res, err := r.db.ExecContext(ctx, `
UPDATE mastery_states
SET mastery_level = ?, scheduled_date = ?, consecutive_correct = ?, total_attempts = ?, last_reviewed_at = ?, stage_table_version = ?, version = version + 1
WHERE id = ? AND version = ?
`, s.MasteryLevel, dayArg(s.ScheduledDate), s.ConsecutiveCorrect, s.TotalAttempts, timeArg(s.LastReviewedAt), s.StageTableVersion, s.ID, s.Version)
	if err != nil {
		log.Error("failed to update mastery state: %v", err)
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		log.Debug("version conflict on mastery state: id=%d, version=%d", s.ID, s.Version)
		return repository.ErrVersionConflict
	}
	return nil
}

func dueQuery(f repository.DueFilter) squirrel.SelectBuilder {
	q := sqlBuilder.Select().From("mastery_states").
		Where(squirrel.Eq{"user_id": f.UserID}).
		Where("scheduled_date IS NOT NULL").
		Where(squirrel.LtOrEq{"scheduled_date": string(f.AsOf)})
	if f.MaxOverdueDays != nil {
		// overdueDays(item) <= cap, expressed on the stored day key.
		oldest := f.AsOf.AddDays(-*f.MaxOverdueDays)
		q = q.Where(squirrel.GtOrEq{"scheduled_date": string(oldest)})
	}
	return q
}

func (r *masteryRepository) queryStates(ctx context.Context, q squirrel.SelectBuilder) ([]models.MasteryState, error) {
	log := logger.FromContext(ctx).WithPrefix("mastery_repo")

	sqlStr, args, err := q.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to query mastery states: %v", err)
		return nil, err
	}
	defer rows.Close()

	var states []models.MasteryState
	for rows.Next() {
		s, err := scanMastery(rows)
		if err != nil {
			log.Error("failed to scan mastery state row: %v", err)
			return nil, err
		}
		states = append(states, *s)
	}
	return states, rows.Err()
}

func (r *masteryRepository) ListDue(ctx context.Context, f repository.DueFilter) ([]models.MasteryState, error) {
	log := logger.FromContext(ctx).WithPrefix("mastery_repo")
	log.Debug("listing due states: user_id=%s, as_of=%s, limit=%d, offset=%d", f.UserID, f.AsOf, f.Limit, f.Offset)

	q := dueQuery(f).Columns(masteryColumns).
		OrderBy("scheduled_date ASC", "problem_id ASC").
		Limit(uint64(f.Limit)).Offset(uint64(f.Offset))
	return r.queryStates(ctx, q)
}

func (r *masteryRepository) CountDue(ctx context.Context, f repository.DueFilter) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("mastery_repo")

	sqlStr, args, err := dueQuery(f).Columns("COUNT(*)").ToSql()
	if err != nil {
		log.Error("failed to build count query: %v", err)
		return 0, err
	}
	var count int
	if err := r.db.QueryRowContext(ctx, sqlStr, args...).Scan(&count); err != nil {
		log.Error("failed to count due states: %v", err)
		return 0, err
	}
	log.Debug("found %d due states", count)
	return count, nil
}

func (r *masteryRepository) ListByPriority(ctx context.Context, f repository.DueFilter) ([]models.MasteryState, error) {
	log := logger.FromContext(ctx).WithPrefix("mastery_repo")
	log.Debug("listing due states by priority: user_id=%s, as_of=%s", f.UserID, f.AsOf)

	// Overdue days descending is scheduled date ascending; ties break toward
	// lower-mastered items, then problem ID for determinism.
	q := dueQuery(f).Columns(masteryColumns).
		OrderBy("scheduled_date ASC", "mastery_level ASC", "problem_id ASC").
		Limit(uint64(f.Limit)).Offset(uint64(f.Offset))
	return r.queryStates(ctx, q)
}

func (r *masteryRepository) Distribution(ctx context.Context, userID string) (*models.MasteryDistribution, error) {
	log := logger.FromContext(ctx).WithPrefix("mastery_repo")
	log.Debug("computing mastery distribution: user_id=%s", userID)

	rows, err := r.db.QueryContext(ctx, `
SELECT mastery_level, COUNT(*)
FROM mastery_states
WHERE user_id = ?
GROUP BY mastery_level
`, userID)
	if err != nil {
		log.Error("failed to query distribution: %v", err)
		return nil, err
	}
	defer rows.Close()

	var dist models.MasteryDistribution
	for rows.Next() {
		var level, count int
		if err := rows.Scan(&level, &count); err != nil {
			log.Error("failed to scan distribution row: %v", err)
			return nil, err
		}
		switch models.MasteryLevel(level) {
		case models.Level0:
			dist.Level0 = count
		case models.Level1:
			dist.Level1 = count
		case models.Level2:
			dist.Level2 = count
		case models.Level3:
			dist.Level3 = count
		case models.LevelCompleted:
			dist.Completed = count
		}
	}
	return &dist, rows.Err()
}
