package backoff

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// Strategy computes how long the transport waits before retry attempt n
// (n starts at 0), bounded by [min, max].
type Strategy interface {
	Wait(attempt int, min, max time.Duration) time.Duration
}

// Exponential grows the wait by Multiplier per attempt and adds up to
// Jitter*wait of uniform noise.
type Exponential struct {
	Multiplier float64
	Jitter     float64
}

// Wait implements Strategy.
func (s Exponential) Wait(attempt int, min, max time.Duration) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	// keep pow() finite
	if attempt > 30 {
		attempt = 30
	}

	multiplier := s.Multiplier
	if multiplier <= 0 {
		multiplier = 2.0
	}

	wait := time.Duration(float64(min) * pow(multiplier, attempt))
	if wait < 0 || wait > max {
		wait = max
	}

	jitter := clampJitter(s.Jitter)
	if jitter > 0 {
		extra := time.Duration(float64(wait) * jitter * rand.Float64())
		if wait+extra > max {
			wait = max
		} else {
			wait += extra
		}
	}
	return wait
}

// Decorrelated picks a random wait in [min, min*3^attempt], capped at max.
type Decorrelated struct{}

// Wait implements Strategy.
func (Decorrelated) Wait(attempt int, min, max time.Duration) time.Duration {
	if attempt <= 0 {
		return min
	}
	if attempt > 10 {
		attempt = 10
	}

	base := float64(min)
	upper := base * pow(3.0, attempt)
	if upper > float64(max) || upper < 0 {
		upper = float64(max)
	}
	if upper < base {
		upper = base
	}

	wait := time.Duration(base + rand.Float64()*(upper-base))
	if wait < 0 || wait > max {
		wait = max
	}
	return wait
}

// ByName resolves a configured strategy name. An empty name selects
// exponential backoff.
func ByName(name string, jitter float64) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "exponential":
		return Exponential{Multiplier: 2.0, Jitter: jitter}, nil
	case "decorrelated":
		return Decorrelated{}, nil
	default:
		return nil, fmt.Errorf("unknown backoff strategy %q", name)
	}
}

func clampJitter(jitter float64) float64 {
	if jitter < 0 {
		return 0
	}
	if jitter > 1 {
		return 1
	}
	return jitter
}

func pow(base float64, exponent int) float64 {
	result := 1.0
	for i := 0; i < exponent; i++ {
		result *= base
	}
	return result
}
