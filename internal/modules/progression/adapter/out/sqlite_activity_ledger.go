package out

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"shadowgate/internal/modules/progression/domain"
	progressionout "shadowgate/internal/modules/progression/port/out"
	"shadowgate/internal/platform/tx"
)

// createdLayout has a fixed width so created_at sorts as text.
const createdLayout = "2006-01-02T15:04:05.000000000Z07:00"

type SQLiteActivityLedger struct {
	db *sql.DB
}

func NewSQLiteActivityLedger(ctx context.Context, db *sql.DB) (progressionout.ActivityLedger, error) {
	ledger := &SQLiteActivityLedger{db: db}
	if err := ledger.ensureSchema(ctx); err != nil {
		return nil, err
	}
	return ledger, nil
}

func (l *SQLiteActivityLedger) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS activity_logs (
  id TEXT PRIMARY KEY,
  activity TEXT NOT NULL,
  minutes INTEGER NOT NULL,
  grade TEXT NOT NULL,
  xp_gained INTEGER NOT NULL,
  str_points INTEGER NOT NULL,
  int_points INTEGER NOT NULL,
  wis_points INTEGER NOT NULL,
  vit_points INTEGER NOT NULL,
  created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_activity_logs_created_at ON activity_logs(created_at);
`
	if _, err := l.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("ensure activity schema: %w", err)
	}
	return nil
}

func (l *SQLiteActivityLedger) Append(ctx context.Context, log domain.ActivityLog) error {
	const stmt = `
INSERT INTO activity_logs (id, activity, minutes, grade, xp_gained, str_points, int_points, wis_points, vit_points, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
`
	_, err := tx.Executor(ctx, l.db).ExecContext(ctx, stmt,
		log.ID,
		string(log.Activity),
		log.Minutes,
		string(log.Grade),
		log.XPGained,
		log.StatPoints.STR,
		log.StatPoints.INT,
		log.StatPoints.WIS,
		log.StatPoints.VIT,
		log.CreatedAt.UTC().Format(createdLayout),
	)
	if err != nil {
		return fmt.Errorf("insert activity log: %w", err)
	}
	return nil
}

// List returns the newest entries first. A non-positive limit returns all.
func (l *SQLiteActivityLedger) List(ctx context.Context, limit int) ([]domain.ActivityLog, error) {
	query := `
SELECT id, activity, minutes, grade, xp_gained, str_points, int_points, wis_points, vit_points, created_at
FROM activity_logs
ORDER BY created_at DESC, id DESC
`
	args := []any{}
	if limit > 0 {
		query += "LIMIT ?"
		args = append(args, limit)
	}
	rows, err := tx.Executor(ctx, l.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query activity logs: %w", err)
	}
	defer rows.Close()

	items := []domain.ActivityLog{}
	for rows.Next() {
		var (
			item      domain.ActivityLog
			activity  string
			grade     string
			createdAt string
		)
		if err := rows.Scan(&item.ID, &activity, &item.Minutes, &grade, &item.XPGained,
			&item.StatPoints.STR, &item.StatPoints.INT, &item.StatPoints.WIS, &item.StatPoints.VIT, &createdAt); err != nil {
			return nil, fmt.Errorf("scan activity log: %w", err)
		}
		item.Activity = domain.Activity(activity)
		item.Grade = domain.Grade(grade)
		if parsed, parseErr := time.Parse(createdLayout, createdAt); parseErr == nil {
			item.CreatedAt = parsed
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activity logs: %w", err)
	}
	return items, nil
}
