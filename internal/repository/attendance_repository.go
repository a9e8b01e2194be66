package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/absensi-api/internal/models"
	appErrors "github.com/noah-isme/absensi-api/pkg/errors"
)

const pqUniqueViolation = "23505"

// AttendanceRepository handles persistence for attendance records. The
// attendance table carries a UNIQUE (student_id, date) index, which is the
// authoritative guard against duplicate same-day records; callers treat the
// service-level existence check as a fast path only.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs the repository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// FindByStudentAndDate returns the record for a (student, date) slot, or nil
// when the slot is unset. A miss is a valid outcome, not an error.
func (r *AttendanceRepository) FindByStudentAndDate(ctx context.Context, studentID int64, date string) (*models.AttendanceRecord, error) {
	const query = `SELECT id, student_id, to_char(date, 'YYYY-MM-DD') AS date, status, reason, created_at
FROM attendance WHERE student_id = $1 AND date = $2`
	var record models.AttendanceRecord
	if err := r.db.GetContext(ctx, &record, query, studentID, date); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find attendance by student and date: %w", err)
	}
	return &record, nil
}

// Insert persists a new record and returns it with the assigned id. A
// duplicate (student_id, date) pair surfaces as the already-attended error.
func (r *AttendanceRepository) Insert(ctx context.Context, record *models.AttendanceRecord) (*models.AttendanceRecord, error) {
	const query = `INSERT INTO attendance (student_id, date, status, reason)
VALUES ($1, $2, $3, $4)
RETURNING id, student_id, to_char(date, 'YYYY-MM-DD') AS date, status, reason, created_at`
	var stored models.AttendanceRecord
	if err := r.db.GetContext(ctx, &stored, query, record.StudentID, record.Date, record.Status, record.Reason); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return nil, appErrors.Clone(appErrors.ErrAlreadyAttended, "")
		}
		return nil, fmt.Errorf("insert attendance: %w", err)
	}
	return &stored, nil
}

// Update replaces the status and reason of an existing record under the same
// id. No current flow calls this; it exists so an administrative correction
// can be added without schema work.
func (r *AttendanceRepository) Update(ctx context.Context, id int64, record *models.AttendanceRecord) (*models.AttendanceRecord, error) {
	const query = `UPDATE attendance SET status = $2, reason = $3 WHERE id = $1
RETURNING id, student_id, to_char(date, 'YYYY-MM-DD') AS date, status, reason, created_at`
	var stored models.AttendanceRecord
	if err := r.db.GetContext(ctx, &stored, query, id, record.Status, record.Reason); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "attendance record not found")
		}
		return nil, fmt.Errorf("update attendance: %w", err)
	}
	return &stored, nil
}

// ListByStudent returns every record for a student, newest date first.
func (r *AttendanceRepository) ListByStudent(ctx context.Context, studentID int64) ([]models.AttendanceRecord, error) {
	const query = `SELECT id, student_id, to_char(date, 'YYYY-MM-DD') AS date, status, reason, created_at
FROM attendance WHERE student_id = $1 ORDER BY date DESC`
	records := []models.AttendanceRecord{}
	if err := r.db.SelectContext(ctx, &records, query, studentID); err != nil {
		return nil, fmt.Errorf("list attendance by student: %w", err)
	}
	return records, nil
}

// QueryAggregated joins attendance rows with student identity, scoped by the
// provided filter. Filter fields combine with AND; empty fields are skipped.
func (r *AttendanceRepository) QueryAggregated(ctx context.Context, filter models.AttendanceFilter) ([]models.AggregatedRow, error) {
	base := `FROM attendance a
JOIN users u ON u.id = a.student_id`
	where := []string{"u.role = 'student'"}
	args := []interface{}{}
	if filter.NIM != "" {
		where = append(where, fmt.Sprintf("u.nim = $%d", len(args)+1))
		args = append(args, filter.NIM)
	}
	if filter.ClassName != "" {
		where = append(where, fmt.Sprintf("u.class = $%d", len(args)+1))
		args = append(args, filter.ClassName)
	}
	if filter.Status != nil && filter.Status.Valid() {
		where = append(where, fmt.Sprintf("a.status = $%d", len(args)+1))
		args = append(args, *filter.Status)
	}
	startDate, endDate := filter.DateRange()
	if startDate != "" {
		where = append(where, fmt.Sprintf("a.date >= $%d", len(args)+1))
		args = append(args, startDate)
	}
	if endDate != "" {
		where = append(where, fmt.Sprintf("a.date <= $%d", len(args)+1))
		args = append(args, endDate)
	}

	query := fmt.Sprintf(`SELECT a.id AS record_id, a.student_id, u.nim AS student_nim, u.name AS student_name,
        u.class AS student_class, to_char(a.date, 'YYYY-MM-DD') AS date, a.status, a.reason
        %s WHERE %s
        ORDER BY a.date DESC, u.name ASC`, base, strings.Join(where, " AND "))

	rows := []models.AggregatedRow{}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("query aggregated attendance: %w", err)
	}
	return rows, nil
}
