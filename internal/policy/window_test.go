package policy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fixedClock(hour, min int) func() time.Time {
	return func() time.Time {
		return time.Date(2024, 5, 2, hour, min, 0, 0, time.UTC)
	}
}

func TestAttendanceWindowEvaluate(t *testing.T) {
	cfg := WindowConfig{StartHour: 8, StartMinute: 0, EndHour: 8, EndMinute: 30}

	tests := []struct {
		name        string
		hour, min   int
		alwaysAllow bool
		wantValid   bool
		wantOverr   bool
	}{
		{name: "inside window", hour: 8, min: 15, wantValid: true},
		{name: "start boundary inclusive", hour: 8, min: 0, wantValid: true},
		{name: "end boundary inclusive", hour: 8, min: 30, wantValid: true},
		{name: "before window", hour: 7, min: 59, wantValid: false},
		{name: "after window", hour: 8, min: 31, wantValid: false},
		{name: "outside with override", hour: 14, min: 0, alwaysAllow: true, wantValid: true, wantOverr: true},
		{name: "inside with override not flagged", hour: 8, min: 10, alwaysAllow: true, wantValid: true, wantOverr: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := cfg
			c.AlwaysAllow = tc.alwaysAllow
			window := NewAttendanceWindow(c, fixedClock(tc.hour, tc.min))

			verdict := window.Evaluate()
			assert.Equal(t, tc.wantValid, verdict.Valid)
			assert.Equal(t, tc.wantOverr, verdict.Override)
			assert.NotEmpty(t, verdict.Message)
			assert.Equal(t, "08:00", verdict.WindowStart)
			assert.Equal(t, "08:30", verdict.WindowEnd)
		})
	}
}

func TestAttendanceWindowInvalidMessageCitesWindow(t *testing.T) {
	window := NewAttendanceWindow(WindowConfig{StartHour: 8, EndHour: 8, EndMinute: 30}, fixedClock(17, 45))

	verdict := window.Evaluate()
	assert.False(t, verdict.Valid)
	assert.Contains(t, verdict.Message, "08:00-08:30")
	assert.Equal(t, "17:45", verdict.CurrentTime)
}

func TestAttendanceWindowDefaultsClock(t *testing.T) {
	window := NewAttendanceWindow(WindowConfig{EndHour: 23, EndMinute: 59}, nil)
	assert.True(t, window.Evaluate().Valid)
}
