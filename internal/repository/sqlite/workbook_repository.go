package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/studymate/reviewd/internal/logger"
	"github.com/studymate/reviewd/internal/models"
	"github.com/studymate/reviewd/internal/repository"
)

const workbookColumns = `id, user_id, problem_set_id, review_stage, next_review_date, total_attempts, last_reviewed_at, stage_table_version, version, created_at`

type workbookRepository struct {
	db *sql.DB
}

// NewWorkbookRepository creates a new WorkbookRepository implementation
func NewWorkbookRepository(db *sql.DB) repository.WorkbookRepository {
	return &workbookRepository{db: db}
}

func scanWorkbook(row interface{ Scan(...any) error }) (*models.WorkbookReviewSchedule, error) {
	var s models.WorkbookReviewSchedule
	var reviewed sql.NullTime
	err := row.Scan(&s.ID, &s.UserID, &s.ProblemSetID, &s.ReviewStage, &s.NextReviewDate,
		&s.TotalAttempts, &reviewed, &s.StageTableVersion, &s.Version, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	s.LastReviewedAt = nullTime(reviewed)
	return &s, nil
}

func (r *workbookRepository) Get(ctx context.Context, id int64) (*models.WorkbookReviewSchedule, error) {
	log := logger.FromContext(ctx).WithPrefix("workbook_repo")
	log.Debug("getting workbook schedule: id=%d", id)

	s, err := scanWorkbook(r.db.QueryRowContext(ctx, `
SELECT `+workbookColumns+`
FROM workbook_schedules
WHERE id = ?
`, id))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("workbook schedule not found: id=%d", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get workbook schedule: %v", err)
		return nil, err
	}
	return s, nil
}

func (r *workbookRepository) GetByUserSet(ctx context.Context, userID, problemSetID string) (*models.WorkbookReviewSchedule, error) {
	log := logger.FromContext(ctx).WithPrefix("workbook_repo")
	log.Debug("getting workbook schedule: user_id=%s, problem_set_id=%s", userID, problemSetID)

	s, err := scanWorkbook(r.db.QueryRowContext(ctx, `
SELECT `+workbookColumns+`
FROM workbook_schedules
WHERE user_id = ? AND problem_set_id = ?
`, userID, problemSetID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get workbook schedule: %v", err)
		return nil, err
	}
	return s, nil
}

func (r *workbookRepository) Insert(ctx context.Context, s models.WorkbookReviewSchedule) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("workbook_repo")
	log.Debug("inserting workbook schedule: user_id=%s, problem_set_id=%s", s.UserID, s.ProblemSetID)

	res, err := r.db.ExecContext(ctx, `
INSERT INTO workbook_schedules (user_id, problem_set_id, review_stage, next_review_date, total_attempts, last_reviewed_at, stage_table_version, version, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`, s.UserID, s.ProblemSetID, s.ReviewStage, string(s.NextReviewDate), s.TotalAttempts, timeArg(s.LastReviewedAt), s.StageTableVersion, s.Version, s.CreatedAt)
	if err != nil {
		log.Error("failed to insert workbook schedule: %v", err)
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		log.Error("failed to get workbook schedule id: %v", err)
		return 0, err
	}
	log.Debug("workbook schedule inserted: id=%d", id)
	return id, nil
}

func (r *workbookRepository) UpdateVersioned(ctx context.Context, s models.WorkbookReviewSchedule) error {
	log := logger.FromContext(ctx).WithPrefix("workbook_repo")
	log.Debug("updating workbook schedule: id=%d, stage=%d, version=%d", s.ID, s.ReviewStage, s.Version)

	res, err := r.db.ExecContext(ctx, `
UPDATE workbook_schedules
SET review_stage = ?, next_review_date = ?, total_attempts = ?, last_reviewed_at = ?, stage_table_version = ?, version = version + 1
WHERE id = ? AND version = ?
`, s.ReviewStage, string(s.NextReviewDate), s.TotalAttempts, timeArg(s.LastReviewedAt), s.StageTableVersion, s.ID, s.Version)
	if err != nil {
		log.Error("failed to update workbook schedule: %v", err)
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		log.Debug("version conflict on workbook schedule: id=%d, version=%d", s.ID, s.Version)
		return repository.ErrVersionConflict
	}
	return nil
}

func (r *workbookRepository) List(ctx context.Context, userID string, limit, offset int) ([]models.WorkbookReviewSchedule, error) {
	log := logger.FromContext(ctx).WithPrefix("workbook_repo")
	log.Debug("listing workbook schedules: user_id=%s, limit=%d, offset=%d", userID, limit, offset)

	rows, err := r.db.QueryContext(ctx, `
SELECT `+workbookColumns+`
FROM workbook_schedules
WHERE user_id = ?
ORDER BY next_review_date ASC, problem_set_id ASC
LIMIT ? OFFSET ?
`, userID, limit, offset)
	if err != nil {
		log.Error("failed to list workbook schedules: %v", err)
		return nil, err
	}
	defer rows.Close()

	var schedules []models.WorkbookReviewSchedule
	for rows.Next() {
		s, err := scanWorkbook(rows)
		if err != nil {
			log.Error("failed to scan workbook schedule row: %v", err)
			return nil, err
		}
		schedules = append(schedules, *s)
	}
	log.Debug("found %d workbook schedules", len(schedules))
	return schedules, rows.Err()
}

func (r *workbookRepository) Count(ctx context.Context, userID string) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("workbook_repo")

	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM workbook_schedules WHERE user_id = ?`, userID).Scan(&count)
	if err != nil {
		log.Error("failed to count workbook schedules: %v", err)
		return 0, err
	}
	return count, nil
}
