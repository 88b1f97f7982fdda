package ratelimit

import (
	"testing"
	"time"
)

func TestQuotaState_Remaining(t *testing.T) {
	tests := []struct {
		name      string
		used      int
		limit     int
		remaining int
		exhausted bool
		warning   bool
	}{
		{name: "fresh day", used: 0, limit: 200, remaining: 200},
		{name: "half used", used: 100, limit: 200, remaining: 100},
		{name: "at warning threshold", used: 180, limit: 200, remaining: 20},
		{name: "below warning threshold", used: 181, limit: 200, remaining: 19, warning: true},
		{name: "exhausted", used: 200, limit: 200, remaining: 0, exhausted: true, warning: true},
		{name: "over budget", used: 250, limit: 200, remaining: 0, exhausted: true, warning: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &QuotaState{Used: tt.used, Limit: tt.limit}
			if got := s.Remaining(); got != tt.remaining {
				t.Errorf("Remaining() = %d, want %d", got, tt.remaining)
			}
			if got := s.Exhausted(); got != tt.exhausted {
				t.Errorf("Exhausted() = %v, want %v", got, tt.exhausted)
			}
			if got := s.NeedsWarning(); got != tt.warning {
				t.Errorf("NeedsWarning() = %v, want %v", got, tt.warning)
			}
		})
	}
}

func TestQuotaState_ThrottledWithin(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	s := &QuotaState{}
	if s.ThrottledWithin(now, time.Hour) {
		t.Error("state without throttle should not report one")
	}

	s.LastThrottle = &Throttle{StatusCode: 429, At: now.Add(-30 * time.Minute)}
	if !s.ThrottledWithin(now, time.Hour) {
		t.Error("throttle 30m ago should be within 1h")
	}
	if s.ThrottledWithin(now, 10*time.Minute) {
		t.Error("throttle 30m ago should not be within 10m")
	}
}

func TestDayKey(t *testing.T) {
	moscow := time.FixedZone("MSK", 3*60*60)
	ts := time.Date(2025, 3, 2, 1, 30, 0, 0, moscow) // 2025-03-01 22:30 UTC

	if got := DayKey(ts); got != "2025-03-01" {
		t.Errorf("DayKey() = %q, want 2025-03-01", got)
	}

	want := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)
	if got := EndOfDay(ts); !got.Equal(want) {
		t.Errorf("EndOfDay() = %v, want %v", got, want)
	}
}
