package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/absensi-api/internal/models"
	appErrors "github.com/noah-isme/absensi-api/pkg/errors"
)

// UserRepository manages persistence for both account variants, which share
// the users table with role-specific columns left null for admins.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository constructs a UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// CreateStudent inserts a new student row and fills in the assigned id. NIM
// uniqueness is enforced by the database.
func (r *UserRepository) CreateStudent(ctx context.Context, student *models.Student) error {
	const query = `INSERT INTO users (name, username, nim, password, class, role, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id`
	if err := r.db.GetContext(ctx, &student.ID, query,
		student.Name, student.Username, student.NIM, student.Password, student.ClassName, student.Role, student.CreatedAt); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return appErrors.Clone(appErrors.ErrDuplicateNIM, "")
		}
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

// FindStudentByNIM fetches a student by NIM or username; nil when absent.
func (r *UserRepository) FindStudentByNIM(ctx context.Context, nim string) (*models.Student, error) {
	const query = `SELECT id, name, username, nim, password, class, role, created_at
FROM users WHERE role = 'student' AND (nim = $1 OR username = $1) LIMIT 1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, nim); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find student by nim: %w", err)
	}
	return &student, nil
}

// FindStudentByID fetches a student by its numeric id; nil when absent.
func (r *UserRepository) FindStudentByID(ctx context.Context, id int64) (*models.Student, error) {
	const query = `SELECT id, name, username, nim, password, class, role, created_at
FROM users WHERE role = 'student' AND id = $1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find student by id: %w", err)
	}
	return &student, nil
}

// FindAdminByUsername fetches the admin account; nil when absent.
func (r *UserRepository) FindAdminByUsername(ctx context.Context, username string) (*models.Admin, error) {
	const query = `SELECT id, name, username, password, role, created_at
FROM users WHERE role = 'admin' AND username = $1 LIMIT 1`
	var admin models.Admin
	if err := r.db.GetContext(ctx, &admin, query, username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find admin by username: %w", err)
	}
	return &admin, nil
}

// EnsureAdmin seeds the configured admin account on first run. An existing
// row is left untouched.
func (r *UserRepository) EnsureAdmin(ctx context.Context, admin *models.Admin) error {
	const query = `INSERT INTO users (name, username, password, role, created_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (username) DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query,
		admin.Name, admin.Username, admin.Password, admin.Role, admin.CreatedAt); err != nil {
		return fmt.Errorf("ensure admin: %w", err)
	}
	return nil
}
