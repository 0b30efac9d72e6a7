package backoff

import (
	"testing"
	"time"
)

func TestExponentialWait(t *testing.T) {
	strategy := Exponential{Multiplier: 2.0}

	tests := []struct {
		name     string
		attempt  int
		min      time.Duration
		max      time.Duration
		expected time.Duration
	}{
		{"attempt 0", 0, 100 * time.Millisecond, 5 * time.Second, 100 * time.Millisecond},
		{"attempt 1", 1, 100 * time.Millisecond, 5 * time.Second, 200 * time.Millisecond},
		{"attempt 2", 2, 100 * time.Millisecond, 5 * time.Second, 400 * time.Millisecond},
		{"capped", 10, 100 * time.Millisecond, 1 * time.Second, 1 * time.Second},
		{"negative attempt", -3, 100 * time.Millisecond, 5 * time.Second, 100 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := strategy.Wait(tt.attempt, tt.min, tt.max)
			if result != tt.expected {
				t.Errorf("Wait(%d, %v, %v) = %v, want %v", tt.attempt, tt.min, tt.max, result, tt.expected)
			}
		})
	}
}

func TestExponentialJitterStaysInBounds(t *testing.T) {
	strategy := Exponential{Multiplier: 2.0, Jitter: 0.5}

	for i := 0; i < 100; i++ {
		result := strategy.Wait(1, 100*time.Millisecond, 250*time.Millisecond)
		if result < 200*time.Millisecond || result > 250*time.Millisecond {
			t.Fatalf("Wait(1) = %v, want between 200ms and 250ms", result)
		}
	}
}

func TestExponentialDefaultMultiplier(t *testing.T) {
	result := Exponential{}.Wait(1, 100*time.Millisecond, 5*time.Second)
	if result != 200*time.Millisecond {
		t.Errorf("Wait(1) with zero multiplier = %v, want 200ms", result)
	}
}

func TestDecorrelatedWait(t *testing.T) {
	strategy := Decorrelated{}

	tests := []struct {
		name        string
		attempt     int
		minExpected time.Duration
		maxExpected time.Duration
	}{
		{"attempt 0", 0, 100 * time.Millisecond, 100 * time.Millisecond},
		{"attempt 1", 1, 100 * time.Millisecond, 300 * time.Millisecond},
		{"attempt 2", 2, 100 * time.Millisecond, 900 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := strategy.Wait(tt.attempt, 100*time.Millisecond, 5*time.Second)
			if result < tt.minExpected || result > tt.maxExpected {
				t.Errorf("Wait(%d) = %v, want between %v and %v",
					tt.attempt, result, tt.minExpected, tt.maxExpected)
			}
		})
	}
}

func TestByName(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
		check   func(Strategy) bool
	}{
		{"", false, func(s Strategy) bool { _, ok := s.(Exponential); return ok }},
		{"Exponential", false, func(s Strategy) bool { _, ok := s.(Exponential); return ok }},
		{" decorrelated ", false, func(s Strategy) bool { _, ok := s.(Decorrelated); return ok }},
		{"fibonacci", true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := ByName(tt.name, 0.1)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ByName(%q) expected error", tt.name)
				}
				return
			}
			if err != nil {
				t.Fatalf("ByName(%q) error = %v", tt.name, err)
			}
			if !tt.check(s) {
				t.Errorf("ByName(%q) returned %T", tt.name, s)
			}
		})
	}
}

func TestClampJitter(t *testing.T) {
	tests := []struct {
		input    float64
		expected float64
	}{
		{-0.5, 0.0},
		{0.0, 0.0},
		{0.5, 0.5},
		{1.0, 1.0},
		{1.5, 1.0},
	}

	for _, tt := range tests {
		if result := clampJitter(tt.input); result != tt.expected {
			t.Errorf("clampJitter(%f) = %f, want %f", tt.input, result, tt.expected)
		}
	}
}

func BenchmarkExponentialWait(b *testing.B) {
	strategy := Exponential{Multiplier: 2.0, Jitter: 0.1}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		strategy.Wait(i%10, 100*time.Millisecond, 5*time.Second)
	}
}
