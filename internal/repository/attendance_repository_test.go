package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/absensi-api/internal/models"
	appErrors "github.com/noah-isme/absensi-api/pkg/errors"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "postgres"), mock
}

func attendanceColumns() []string {
	return []string{"id", "student_id", "date", "status", "reason", "created_at"}
}

func TestFindByStudentAndDate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAttendanceRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, student_id, to_char(date, 'YYYY-MM-DD') AS date, status, reason, created_at
FROM attendance WHERE student_id = $1 AND date = $2`)).
		WithArgs(int64(1), "2024-05-02").
		WillReturnRows(sqlmock.NewRows(attendanceColumns()).
			AddRow(int64(10), int64(1), "2024-05-02", "HADIR", nil, now))

	record, err := repo.FindByStudentAndDate(context.Background(), 1, "2024-05-02")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, int64(10), record.ID)
	assert.Equal(t, models.StatusHadir, record.Status)
	assert.Nil(t, record.Reason)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByStudentAndDateMissReturnsNil(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAttendanceRepository(db)

	mock.ExpectQuery("SELECT id, student_id").
		WithArgs(int64(1), "2024-05-02").
		WillReturnError(sql.ErrNoRows)

	record, err := repo.FindByStudentAndDate(context.Background(), 1, "2024-05-02")
	require.NoError(t, err)
	assert.Nil(t, record)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertReturnsStoredRecord(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAttendanceRepository(db)

	reason := "demam"
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO attendance (student_id, date, status, reason)`)).
		WithArgs(int64(1), "2024-05-02", models.StatusSakit, &reason).
		WillReturnRows(sqlmock.NewRows(attendanceColumns()).
			AddRow(int64(11), int64(1), "2024-05-02", "SAKIT", reason, now))

	stored, err := repo.Insert(context.Background(), &models.AttendanceRecord{
		StudentID: 1, Date: "2024-05-02", Status: models.StatusSakit, Reason: &reason,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(11), stored.ID)
	require.NotNil(t, stored.Reason)
	assert.Equal(t, "demam", *stored.Reason)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertDuplicateMapsToAlreadyAttended(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAttendanceRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO attendance`)).
		WithArgs(int64(1), "2024-05-02", models.StatusHadir, nil).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "attendance_student_date_key"})

	_, err := repo.Insert(context.Background(), &models.AttendanceRecord{
		StudentID: 1, Date: "2024-05-02", Status: models.StatusHadir,
	})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrAlreadyAttended.Code))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListByStudent(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAttendanceRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY date DESC`)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(attendanceColumns()).
			AddRow(int64(12), int64(1), "2024-05-03", "IZIN", "acara keluarga", now).
			AddRow(int64(11), int64(1), "2024-05-02", "HADIR", nil, now))

	records, err := repo.ListByStudent(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "2024-05-03", records[0].Date)
	assert.Equal(t, "2024-05-02", records[1].Date)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListByStudentEmptyHistory(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAttendanceRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY date DESC`)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(attendanceColumns()))

	records, err := repo.ListByStudent(context.Background(), 1)
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
	require.NoError(t, mock.ExpectationsWereMet())
}

func aggregatedColumns() []string {
	return []string{"record_id", "student_id", "student_nim", "student_name", "student_class", "date", "status", "reason"}
}

func TestQueryAggregatedAppliesFilter(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAttendanceRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`u.nim = $1 AND u.class = $2`)).
		WithArgs("2110511001", "TI-3A").
		WillReturnRows(sqlmock.NewRows(aggregatedColumns()).
			AddRow(int64(1), int64(1), "2110511001", "Budi", "TI-3A", "2024-05-02", "HADIR", nil))

	rows, err := repo.QueryAggregated(context.Background(), models.AttendanceFilter{
		NIM: "2110511001", ClassName: "TI-3A",
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Budi", rows[0].StudentName)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryAggregatedSingleDatePinsBothBounds(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAttendanceRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`a.date >= $1 AND a.date <= $2`)).
		WithArgs("2024-05-02", "2024-05-02").
		WillReturnRows(sqlmock.NewRows(aggregatedColumns()))

	rows, err := repo.QueryAggregated(context.Background(), models.AttendanceFilter{Date: "2024-05-02"})
	require.NoError(t, err)
	assert.Empty(t, rows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryAggregatedStatusFilter(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAttendanceRepository(db)

	status := models.StatusSakit
	mock.ExpectQuery(regexp.QuoteMeta(`a.status = $1`)).
		WithArgs(status).
		WillReturnRows(sqlmock.NewRows(aggregatedColumns()).
			AddRow(int64(2), int64(2), "2110511002", "Sari", "TI-3A", "2024-05-02", "SAKIT", "demam"))

	rows, err := repo.QueryAggregated(context.Background(), models.AttendanceFilter{Status: &status})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, models.StatusSakit, rows[0].Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateMissingRecord(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAttendanceRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE attendance SET status = $2`)).
		WithArgs(int64(99), models.StatusIzin, nil).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Update(context.Background(), 99, &models.AttendanceRecord{Status: models.StatusIzin})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound.Code))
	require.NoError(t, mock.ExpectationsWereMet())
}
