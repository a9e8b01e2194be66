package models

import "time"

// DateLayout is the calendar-date format used across the attendance domain.
// Dates carry no time component.
const DateLayout = "2006-01-02"

// AttendanceStatus represents the status for attendance records.
type AttendanceStatus string

const (
	StatusHadir AttendanceStatus = "HADIR" // present
	StatusIzin  AttendanceStatus = "IZIN"  // excused
	StatusSakit AttendanceStatus = "SAKIT" // sick
	StatusAlfa  AttendanceStatus = "ALFA"  // absent without excuse
)

// AttendanceStatuses lists every supported status value.
var AttendanceStatuses = []AttendanceStatus{StatusHadir, StatusIzin, StatusSakit, StatusAlfa}

// Valid returns true when the status is a supported value.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case StatusHadir, StatusIzin, StatusSakit, StatusAlfa:
		return true
	default:
		return false
	}
}

// AttendanceRecord is one day's status for one student. Records are immutable
// after construction; correcting a day is modeled as replacing the record,
// not mutating it.
type AttendanceRecord struct {
	ID        int64            `db:"id" json:"id"`
	StudentID int64            `db:"student_id" json:"student_id"`
	Date      string           `db:"date" json:"date"`
	Status    AttendanceStatus `db:"status" json:"status"`
	Reason    *string          `db:"reason" json:"reason"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
}

// AggregatedRow joins a record with its student's identity. Used for admin
// recap display and export only, never persisted.
type AggregatedRow struct {
	RecordID     int64            `db:"record_id" json:"record_id"`
	StudentID    int64            `db:"student_id" json:"student_id"`
	StudentNIM   string           `db:"student_nim" json:"student_nim"`
	StudentName  string           `db:"student_name" json:"student_name"`
	StudentClass *string          `db:"student_class" json:"student_class"`
	Date         string           `db:"date" json:"date"`
	Status       AttendanceStatus `db:"status" json:"status"`
	Reason       *string          `db:"reason" json:"reason"`
}

// AttendanceFilter scopes the aggregated recap query. Provided fields combine
// with logical AND.
type AttendanceFilter struct {
	NIM       string
	ClassName string
	Status    *AttendanceStatus
	Date      string
	StartDate string
	EndDate   string
}

// DateRange resolves the effective date bounds: a single Date pins both ends.
func (f AttendanceFilter) DateRange() (string, string) {
	if f.Date != "" {
		return f.Date, f.Date
	}
	return f.StartDate, f.EndDate
}
