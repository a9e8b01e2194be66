// Package policy implements the attendance time window: the clock interval
// during which a HADIR submission is accepted. The other statuses bypass the
// window entirely, so reporting leave or sickness is never blocked by a clock.
package policy

import (
	"fmt"
	"time"
)

// WindowConfig fixes the permitted interval, inclusive on both ends at
// minute granularity. AlwaysAllow permits submissions at any time and is
// meant for development and testing environments.
type WindowConfig struct {
	StartHour   int
	StartMinute int
	EndHour     int
	EndMinute   int
	AlwaysAllow bool
}

// Verdict is the result of evaluating the window against the current time.
type Verdict struct {
	Valid       bool   `json:"valid"`
	Override    bool   `json:"override"`
	Message     string `json:"message"`
	CurrentTime string `json:"current_time"`
	WindowStart string `json:"window_start"`
	WindowEnd   string `json:"window_end"`
}

// AttendanceWindow evaluates submissions against a configured window using an
// injectable clock.
type AttendanceWindow struct {
	cfg WindowConfig
	now func() time.Time
}

// NewAttendanceWindow constructs the policy. A nil clock falls back to
// time.Now.
func NewAttendanceWindow(cfg WindowConfig, now func() time.Time) *AttendanceWindow {
	if now == nil {
		now = time.Now
	}
	return &AttendanceWindow{cfg: cfg, now: now}
}

// Evaluate reports whether a HADIR submission is currently permitted.
func (w *AttendanceWindow) Evaluate() Verdict {
	now := w.now()

	currentMin := now.Hour()*60 + now.Minute()
	startMin := w.cfg.StartHour*60 + w.cfg.StartMinute
	endMin := w.cfg.EndHour*60 + w.cfg.EndMinute
	within := currentMin >= startMin && currentMin <= endMin

	verdict := Verdict{
		CurrentTime: fmt.Sprintf("%02d:%02d", now.Hour(), now.Minute()),
		WindowStart: fmt.Sprintf("%02d:%02d", w.cfg.StartHour, w.cfg.StartMinute),
		WindowEnd:   fmt.Sprintf("%02d:%02d", w.cfg.EndHour, w.cfg.EndMinute),
	}

	switch {
	case within:
		verdict.Valid = true
		verdict.Message = "Waktu absen valid"
	case w.cfg.AlwaysAllow:
		verdict.Valid = true
		verdict.Override = true
		verdict.Message = fmt.Sprintf("Diluar jam absen (%s-%s), diizinkan oleh mode pengujian", verdict.WindowStart, verdict.WindowEnd)
	default:
		verdict.Message = fmt.Sprintf("Absen HADIR hanya diperbolehkan jam %s-%s", verdict.WindowStart, verdict.WindowEnd)
	}

	return verdict
}

// Window returns the formatted bounds for display purposes.
func (w *AttendanceWindow) Window() (string, string) {
	return fmt.Sprintf("%02d:%02d", w.cfg.StartHour, w.cfg.StartMinute),
		fmt.Sprintf("%02d:%02d", w.cfg.EndHour, w.cfg.EndMinute)
}
