package sqlite

import (
	"database/sql"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/studymate/reviewd/internal/models"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

// Shared scan helpers for nullable columns.

func nullDay(s sql.NullString) *models.Day {
	if !s.Valid {
		return nil
	}
	d := models.Day(s.String)
	return &d
}

func dayArg(d *models.Day) any {
	if d == nil {
		return nil
	}
	return string(*d)
}

func nullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func timeArg(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

func nullFloat(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}

func floatArg(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

func nullInt(i sql.NullInt64) *int {
	if !i.Valid {
		return nil
	}
	v := int(i.Int64)
	return &v
}

func intArg(i *int) any {
	if i == nil {
		return nil
	}
	return *i
}

func nullID(i sql.NullInt64) *int64 {
	if !i.Valid {
		return nil
	}
	v := i.Int64
	return &v
}

func idArg(i *int64) any {
	if i == nil {
		return nil
	}
	return *i
}
