package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/bryanwahyu/geo-gap-compass/internal/domain/visibility"
)

type RunRepository struct {
	db *sql.DB
}

func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Save inserts or updates a run record
func (r *RunRepository) Save(ctx context.Context, run *visibility.Run) error {
	const q = `
INSERT INTO analysis_runs
  (id, kind, brand, subjects_json, result_json, is_mock, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)
ON CONFLICT (id) DO UPDATE SET
  kind=EXCLUDED.kind,
  brand=EXCLUDED.brand,
  subjects_json=EXCLUDED.subjects_json,
  result_json=EXCLUDED.result_json,
  is_mock=EXCLUDED.is_mock;
`
	result := run.Result
	if strings.TrimSpace(result) == "" {
		result = "{}"
	}
	subjects := run.Subjects
	if subjects == nil {
		subjects = []string{}
	}
	subjectsJSON, _ := json.Marshal(subjects)
	createdAt := run.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err := r.db.ExecContext(ctx, q, run.ID, run.Kind, run.Brand, string(subjectsJSON), result, run.IsMock, createdAt)
	return err
}

// Get returns sql.ErrNoRows when the run does not exist
func (r *RunRepository) Get(ctx context.Context, id visibility.RunID) (*visibility.Run, error) {
	const q = `
SELECT id, kind, brand, subjects_json, result_json, is_mock, created_at
FROM analysis_runs
WHERE id=$1;
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
LIMIT $1 OFFSET $2;
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

func scanRun(s interface{ Scan(dest ...any) error }) (*visibility.Run, error) {
	var (
		run      visibility.Run
		subjects string
	)
	if err := s.Scan(&run.ID, &run.Kind, &run.Brand, &subjects, &run.Result, &run.IsMock, &run.CreatedAt); err != nil {
		return nil, err
	}
	run.Subjects = []string{}
	_ = json.Unmarshal([]byte(subjects), &run.Subjects)
	return &run, nil
}
