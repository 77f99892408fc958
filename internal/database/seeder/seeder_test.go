package seeder

import (
	"context"
	"errors"
	"testing"

	"recruit-dash/internal/database/sqldb"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func columnRows(cols ...string) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"column_name"})
	for _, c := range cols {
		rows.AddRow(c)
	}
	return rows
}

func TestRequireColumns_ListsEveryMissingColumn(t *testing.T) {
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	db := sqldb.New(raw)
	defer db.Close()

	mock.ExpectQuery("information_schema.columns").WithArgs("jobs").WillReturnRows(columnRows("id", "title"))

	err = RequireColumns(context.Background(), db, "jobs", "id", "title", "status", "location")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSchemaMismatch)
	assert.Contains(t, err.Error(), "jobs.status, jobs.location")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestJobsSeeder_InsertsInOneTransaction(t *testing.T) {
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	db := sqldb.New(raw)
	defer db.Close()

	mock.ExpectQuery("information_schema.columns").WithArgs("jobs").
		WillReturnRows(columnRows("id", "title", "hiring_manager", "status", "closing_date", "location", "experience_required"))
	mock.ExpectBegin()
	for _, j := range demoJobs {
		mock.ExpectExec("INSERT INTO jobs").
			WithArgs(j.ID, j.Title, j.HiringManager, j.Status, sqlmock.AnyArg(), j.Location, j.Experience).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectCommit()

	require.NoError(t, JobsSeeder{}.Run(context.Background(), db))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicantsSeeder_RollsBackOnInsertFailure(t *testing.T) {
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	db := sqldb.New(raw)
	defer db.Close()

	mock.ExpectQuery("information_schema.columns").WithArgs("applicants").
		WillReturnRows(columnRows("id", "job_id", "name", "email", "status", "overall", "scores", "strengths", "gaps"))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO applicants").WillReturnError(errors.New("fk violation"))
	mock.ExpectRollback()

	err = ApplicantsSeeder{}.Run(context.Background(), db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "demo-app-1")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunner_NamesFailingSeeder(t *testing.T) {
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	db := sqldb.New(raw)
	defer db.Close()

	mock.ExpectQuery("information_schema.columns").WithArgs("jobs").WillReturnRows(columnRows("id"))

	err = Runner{Seeders: Defaults()}.Run(context.Background(), db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "seed jobs")
	assert.ErrorIs(t, err, ErrSchemaMismatch)
}

func TestJSONOrNil(t *testing.T) {
	v, err := jsonOrNil([]string(nil))
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = jsonOrNil([]string{"a"})
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.JSONEq(t, `["a"]`, *v)
}
