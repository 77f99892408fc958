package sqldb

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDB_ExecQueryAndTx(t *testing.T) {
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	db := New(raw)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectExec("UPDATE jobs").WithArgs("closed", "j1").WillReturnResult(sqlmock.NewResult(0, 1))
	n, err := db.Exec(ctx, "UPDATE jobs SET status = $1 WHERE id = $2", "closed", "j1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	mock.ExpectQuery("SELECT id FROM jobs").WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("j1").AddRow("j2"))
	rows, err := db.Query(ctx, "SELECT id FROM jobs")
	require.NoError(t, err)
	var ids []string
	for rows.Next() {
		var id string
		require.NoError(t, rows.Scan(&id))
		ids = append(ids, id)
	}
	require.NoError(t, rows.Err())
	rows.Close()
	assert.Equal(t, []string{"j1", "j2"}, ids)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM jobs").WithArgs("j2").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	tx, err := db.Begin(ctx)
	require.NoError(t, err)
	_, err = tx.Exec(ctx, "DELETE FROM jobs WHERE id = $1", "j2")
	require.NoError(t, err)
	require.NoError(t, tx.Commit(ctx))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDB_NilSafe(t *testing.T) {
	var db *DB
	_, err := db.Exec(context.Background(), "SELECT 1")
	assert.Error(t, err)
	assert.Error(t, db.QueryRow(context.Background(), "SELECT 1").Scan())
	assert.NoError(t, db.Close())
}
