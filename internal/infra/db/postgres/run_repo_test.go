package postgres

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/geo-gap-compass/internal/domain/visibility"
)

func TestRunRepositorySaveDefaultsBlankResult(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (id) DO UPDATE")).
		WithArgs(visibility.RunID("r1"), "domains", "Acme", `[]`, "{}", false, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = NewRunRepository(db).Save(context.Background(), &visibility.Run{ID: "r1", Kind: "domains", Brand: "Acme"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunRepositoryGetAndPaginate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	cols := []string{"id", "kind", "brand", "subjects_json", "result_json", "is_mock", "created_at"}
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE id=$1")).
		WithArgs(visibility.RunID("missing")).
		WillReturnRows(sqlmock.NewRows(cols))
	mock.ExpectQuery(regexp.QuoteMeta("LIMIT $1 OFFSET $2")).
		WithArgs(5, 5).
		WillReturnRows(sqlmock.NewRows(cols).AddRow("r6", "single", "Acme", `["a"]`, `{}`, true, now))

	repo := NewRunRepository(db)
	_, err = repo.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	runs, err := repo.Paginate(context.Background(), 2, 5)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, []string{"a"}, runs[0].Subjects)
	assert.NoError(t, mock.ExpectationsWereMet())
}
