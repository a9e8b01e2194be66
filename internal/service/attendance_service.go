package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/absensi-api/internal/models"
	"github.com/noah-isme/absensi-api/internal/policy"
	appErrors "github.com/noah-isme/absensi-api/pkg/errors"
)

type attendanceRepository interface {
	FindByStudentAndDate(ctx context.Context, studentID int64, date string) (*models.AttendanceRecord, error)
	Insert(ctx context.Context, record *models.AttendanceRecord) (*models.AttendanceRecord, error)
	ListByStudent(ctx context.Context, studentID int64) ([]models.AttendanceRecord, error)
	QueryAggregated(ctx context.Context, filter models.AttendanceFilter) ([]models.AggregatedRow, error)
}

type attendanceWindow interface {
	Evaluate() policy.Verdict
}

// AttendanceService coordinates the daily attendance workflow: one record per
// (student, date), with HADIR gated by the time window.
type AttendanceService struct {
	repo      attendanceRepository
	window    attendanceWindow
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAttendanceService constructs the attendance service.
func NewAttendanceService(repo attendanceRepository, window attendanceWindow, validate *validator.Validate, logger *zap.Logger) *AttendanceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &AttendanceService{repo: repo, window: window, validator: validate, logger: logger}
	_ = svc.validator.RegisterValidation("attendance_status", func(fl validator.FieldLevel) bool {
		return models.AttendanceStatus(strings.ToUpper(fl.Field().String())).Valid()
	})
	return svc
}

// SubmitRequest describes one attendance submission.
type SubmitRequest struct {
	StudentID int64   `json:"student_id" validate:"required"`
	Date      string  `json:"date" validate:"required"`
	Status    string  `json:"status" validate:"required,attendance_status"`
	Reason    *string `json:"reason"`
}

// Submit records one day's status for a student. HADIR submissions must pass
// the time window; the other statuses bypass it so reporting an absence is
// never blocked by the clock. A same-day duplicate is a terminal conflict,
// never an overwrite.
func (s *AttendanceService) Submit(ctx context.Context, req SubmitRequest) (*models.AttendanceRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid attendance payload")
	}
	if _, err := time.Parse(models.DateLayout, req.Date); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date must use YYYY-MM-DD")
	}

	status := models.AttendanceStatus(strings.ToUpper(req.Status))
	if status == models.StatusHadir {
		verdict := s.window.Evaluate()
		if !verdict.Valid {
			return nil, appErrors.Clone(appErrors.ErrOutsideWindow, verdict.Message)
		}
		if verdict.Override {
			s.logger.Info("attendance window override active",
				zap.Int64("student_id", req.StudentID),
				zap.String("current_time", verdict.CurrentTime))
		}
	}

	// Reason only carries meaning for IZIN and SAKIT.
	reason := req.Reason
	if status != models.StatusIzin && status != models.StatusSakit {
		reason = nil
	}

	existing, err := s.repo.FindByStudentAndDate(ctx, req.StudentID, req.Date)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, appErrors.Clone(appErrors.ErrAlreadyAttended, "")
	}

	record := &models.AttendanceRecord{
		StudentID: req.StudentID,
		Date:      req.Date,
		Status:    status,
		Reason:    reason,
	}
	stored, err := s.repo.Insert(ctx, record)
	if err != nil {
		return nil, err
	}

	s.logger.Info("attendance recorded",
		zap.Int64("student_id", stored.StudentID),
		zap.String("date", stored.Date),
		zap.String("status", string(stored.Status)))
	return stored, nil
}

// ListForStudent returns all records for a student, newest date first. An
// empty history is a valid result.
func (s *AttendanceService) ListForStudent(ctx context.Context, studentID int64) ([]models.AttendanceRecord, error) {
	return s.repo.ListByStudent(ctx, studentID)
}

// GetForStudentAndDate returns the record for a slot, or nil when the slot is
// unset. Callers use this to drive the already-attended state before a
// submission attempt.
func (s *AttendanceService) GetForStudentAndDate(ctx context.Context, studentID int64, date string) (*models.AttendanceRecord, error) {
	if _, err := time.Parse(models.DateLayout, date); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date must use YYYY-MM-DD")
	}
	return s.repo.FindByStudentAndDate(ctx, studentID, date)
}

// Aggregate returns the admin recap for the given filter. No matches yields
// an empty slice, not an error.
func (s *AttendanceService) Aggregate(ctx context.Context, filter models.AttendanceFilter) ([]models.AggregatedRow, error) {
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown attendance status filter")
	}
	for _, d := range []string{filter.Date, filter.StartDate, filter.EndDate} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(models.DateLayout, d); err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "dates must use YYYY-MM-DD")
		}
	}
	return s.repo.QueryAggregated(ctx, filter)
}

// WindowVerdict exposes the current policy evaluation for display.
func (s *AttendanceService) WindowVerdict() policy.Verdict {
	return s.window.Evaluate()
}
