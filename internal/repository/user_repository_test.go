package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/absensi-api/internal/models"
	appErrors "github.com/noah-isme/absensi-api/pkg/errors"
)

func studentColumns() []string {
	return []string{"id", "name", "username", "nim", "password", "class", "role", "created_at"}
}

func TestCreateStudentAssignsID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	student := models.NewStudent("Budi Santoso", "2110511001", "2110511001", "rahasia", "TI-3A")
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users (name, username, nim, password, class, role, created_at)`)).
		WithArgs(student.Name, student.Username, student.NIM, student.Password, student.ClassName, student.Role, student.CreatedAt).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(5)))

	require.NoError(t, repo.CreateStudent(context.Background(), student))
	assert.Equal(t, int64(5), student.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateStudentDuplicateMapsToDuplicateNIM(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	student := models.NewStudent("Budi Santoso", "2110511001", "2110511001", "rahasia", "TI-3A")
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).
		WithArgs(student.Name, student.Username, student.NIM, student.Password, student.ClassName, student.Role, student.CreatedAt).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "users_nim_key"})

	err := repo.CreateStudent(context.Background(), student)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrDuplicateNIM.Code))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindStudentByNIM(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`(nim = $1 OR username = $1)`)).
		WithArgs("2110511001").
		WillReturnRows(sqlmock.NewRows(studentColumns()).
			AddRow(int64(5), "Budi Santoso", "2110511001", "2110511001", "rahasia", "TI-3A", "student", now))

	student, err := repo.FindStudentByNIM(context.Background(), "2110511001")
	require.NoError(t, err)
	require.NotNil(t, student)
	assert.Equal(t, "Budi Santoso", student.Name)
	assert.Equal(t, models.RoleStudent, student.Role)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindStudentByNIMMissReturnsNil(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`(nim = $1 OR username = $1)`)).
		WithArgs("9999999999").
		WillReturnError(sql.ErrNoRows)

	student, err := repo.FindStudentByNIM(context.Background(), "9999999999")
	require.NoError(t, err)
	assert.Nil(t, student)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindStudentByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`role = 'student' AND id = $1`)).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(studentColumns()).
			AddRow(int64(5), "Budi Santoso", "2110511001", "2110511001", "rahasia", "TI-3A", "student", now))

	student, err := repo.FindStudentByID(context.Background(), 5)
	require.NoError(t, err)
	require.NotNil(t, student)
	assert.Equal(t, int64(5), student.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindAdminByUsername(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`role = 'admin' AND username = $1`)).
		WithArgs("admin").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "username", "password", "role", "created_at"}).
			AddRow(int64(1), "Administrator", "admin", "admin123", "admin", now))

	admin, err := repo.FindAdminByUsername(context.Background(), "admin")
	require.NoError(t, err)
	require.NotNil(t, admin)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureAdminIgnoresExistingRow(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	admin := models.NewAdmin("Administrator", "admin", "admin123")
	mock.ExpectExec(regexp.QuoteMeta(`ON CONFLICT (username) DO NOTHING`)).
		WithArgs(admin.Name, admin.Username, admin.Password, admin.Role, admin.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.EnsureAdmin(context.Background(), admin))
	require.NoError(t, mock.ExpectationsWereMet())
}
