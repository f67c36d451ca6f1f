package mysql

import (
	"context"
	"database/sql"
	"time"

	"github.com/bryanwahyu/geo-gap-compass/internal/domain/visibility"
)

type RunRepository struct {
	db *sql.DB
}

func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Save inserts a run record
func (r *RunRepository) Save(ctx context.Context, run *visibility.Run) error {
	const q = `
INSERT INTO analysis_runs
  (id, kind, brand, subjects_json, result_json, is_mock, created_at)
VALUES (?,?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE
  kind=VALUES(kind), brand=VALUES(brand), subjects_json=VALUES(subjects_json),
  result_json=VALUES(result_json), is_mock=VALUES(is_mock);
`
	createdAt := run.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, q,
		run.ID, stringOrDash(run.Kind), stringOrDash(run.Brand),
		encodeList(run.Subjects), jsonOrEmpty(run.Result), run.IsMock, createdAt,
	)
	return err
}

// Get returns sql.ErrNoRows when the run does not exist
func (r *RunRepository) Get(ctx context.Context, id visibility.RunID) (*visibility.Run, error) {
	const q = `
SELECT id, kind, brand, subjects_json, result_json, is_mock, created_at
FROM analysis_runs
WHERE id=?;
`
	return scanRun(r.db.QueryRowContext(ctx, q, id))
}

// Paginate returns a page of runs ordered by created_at desc
func (r *RunRepository) Paginate(ctx context.Context, page, pageSize int) ([]*visibility.Run, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	const q = `
SELECT id, kind, brand, subjects_json, result_json, is_mock, created_at
FROM analysis_runs
ORDER BY created_at DESC, id DESC
LIMIT ? OFFSET ?;
`
	rows, err := r.db.QueryContext(ctx, q, pageSize, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*visibility.Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*visibility.Run, error) {
	var (
		run      visibility.Run
		subjects string
	)
	if err := s.Scan(&run.ID, &run.Kind, &run.Brand, &subjects, &run.Result, &run.IsMock, &run.CreatedAt); err != nil {
		return nil, err
	}
	run.Subjects = decodeList(subjects)
	return &run, nil
}
