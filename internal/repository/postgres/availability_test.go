package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/telehealth-api/internal/model"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func TestReplaceAllCommitsDeleteAndInserts(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAvailabilityRepository(db)
	providerID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM availability_rules").
		WithArgs(providerID).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("INSERT INTO availability_rules").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO availability_rules").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	rules := []*model.AvailabilityRule{
		{DayOfWeek: 1, StartTime: "09:00", EndTime: "17:00"},
		{DayOfWeek: 3, StartTime: "10:00", EndTime: "14:00"},
	}

	count, err := repo.ReplaceAll(context.Background(), providerID, rules)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceAllRollsBackOnInsertFailure(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAvailabilityRepository(db)
	providerID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM availability_rules").
		WithArgs(providerID).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO availability_rules").
		WillReturnError(errors.New("constraint violation"))
	mock.ExpectRollback()

	rules := []*model.AvailabilityRule{
		{DayOfWeek: 1, StartTime: "09:00", EndTime: "17:00"},
	}

	_, err := repo.ReplaceAll(context.Background(), providerID, rules)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceAllEmptySetOnlyDeletes(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAvailabilityRepository(db)
	providerID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM availability_rules").
		WithArgs(providerID).
		WillReturnResult(sqlmock.NewResult(0, 5))
	mock.ExpectCommit()

	count, err := repo.ReplaceAll(context.Background(), providerID, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListBlockingExcludesCanceled(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentRepository(db)

	providerID := uuid.New()
	from := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 7)

	rows := sqlmock.NewRows([]string{
		"id", "provider_id", "patient_id", "start_time", "end_time",
		"status", "created_at", "updated_at",
	}).AddRow(
		uuid.New(), providerID, uuid.New(),
		from.Add(9*time.Hour), from.Add(10*time.Hour),
		"scheduled", time.Now(), time.Now(),
	)

	// The canceled-status filter lives in the SQL itself.
	mock.ExpectQuery(`status != 'canceled'`).
		WithArgs(providerID, from, to).
		WillReturnRows(rows)

	appointments, err := repo.ListBlocking(context.Background(), providerID, from, to)
	require.NoError(t, err)
	require.Len(t, appointments, 1)
	assert.Equal(t, model.AppointmentStatusScheduled, appointments[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
