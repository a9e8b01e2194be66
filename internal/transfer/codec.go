// Package transfer implements the portable attendance interchange payload: a
// single student's identity plus their records, validated on the way in. The
// codec never touches storage; persisting decoded records is a separate
// concern.
package transfer

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/noah-isme/absensi-api/internal/models"
	appErrors "github.com/noah-isme/absensi-api/pkg/errors"
)

// StudentIdentity is the denormalized student block of a payload.
type StudentIdentity struct {
	NIM   string `json:"nim"`
	Name  string `json:"name"`
	Class string `json:"class"`
}

// RecordEntry is one attendance row in a payload.
type RecordEntry struct {
	Date   string                  `json:"date"`
	Status models.AttendanceStatus `json:"status"`
	Reason *string                 `json:"reason"`
}

// Payload is the interchange document.
type Payload struct {
	Student    StudentIdentity `json:"student"`
	Records    []RecordEntry   `json:"records"`
	ExportedAt time.Time       `json:"exportedAt"`
}

// Encode builds a payload from a student and any number of records. A single
// record still yields a records list of length one, so consumers never
// special-case cardinality.
func Encode(student *models.Student, records ...models.AttendanceRecord) Payload {
	entries := make([]RecordEntry, 0, len(records))
	for _, record := range records {
		entries = append(entries, RecordEntry{
			Date:   record.Date,
			Status: record.Status,
			Reason: record.Reason,
		})
	}
	return Payload{
		Student: StudentIdentity{
			NIM:   student.NIM,
			Name:  student.Name,
			Class: student.ClassName,
		},
		Records:    entries,
		ExportedAt: time.Now().UTC(),
	}
}

// rawPayload separates shape errors from field validation: records stays raw
// so a non-list value is reported as a format problem, not a decode panic.
type rawPayload struct {
	Student    *StudentIdentity `json:"student"`
	Records    json.RawMessage  `json:"records"`
	ExportedAt *time.Time       `json:"exportedAt"`
}

// Decode parses and validates an interchange document. Absent reasons are
// normalized to null.
func Decode(data []byte) (*Payload, error) {
	var raw rawPayload
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrFormat.Code, appErrors.ErrFormat.Status, "Payload tidak valid")
	}

	if raw.Student == nil || raw.Student.NIM == "" || raw.Student.Name == "" || raw.Student.Class == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Informasi mahasiswa tidak lengkap")
	}

	if len(raw.Records) == 0 {
		return nil, appErrors.Clone(appErrors.ErrFormat, "Daftar absensi tidak ditemukan")
	}
	var records []RecordEntry
	if err := json.Unmarshal(raw.Records, &records); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrFormat.Code, appErrors.ErrFormat.Status, "Daftar absensi tidak ditemukan")
	}
	if records == nil {
		return nil, appErrors.Clone(appErrors.ErrFormat, "Daftar absensi tidak ditemukan")
	}

	for _, record := range records {
		if record.Date == "" || record.Status == "" {
			return nil, appErrors.Clone(appErrors.ErrFormat, "Record absensi tidak lengkap")
		}
		if !record.Status.Valid() {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("Status %s tidak dikenali", record.Status))
		}
	}

	payload := &Payload{
		Student: *raw.Student,
		Records: records,
	}
	if raw.ExportedAt != nil {
		payload.ExportedAt = *raw.ExportedAt
	}
	return payload, nil
}
