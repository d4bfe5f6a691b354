// Package breaker wraps sony/gobreaker with the settings used for outbound
// calls to third-party APIs.
package breaker

import (
	"errors"
	"time"

	"github.com/sony/gobreaker"
)

// ErrOpen is returned when the breaker rejects a call without trying it.
var ErrOpen = errors.New("circuit breaker open")

// Settings tunes a Breaker. Zero values fall back to defaults.
type Settings struct {
	Name                string
	Interval            time.Duration
	OpenTimeout         time.Duration
	ConsecutiveFailures uint32
	MinRequests         uint32
	FailureRatio        float64
	// IsSuccessful marks errors that should not count against the breaker.
	IsSuccessful  func(err error) bool
	OnStateChange func(name string, from, to string)
}

// Breaker guards a flaky dependency.
type Breaker struct {
	cb *gobreaker.CircuitBreaker
}

// New creates a breaker that trips after a run of consecutive failures or
// once the failure ratio over a window exceeds the configured threshold.
func New(s Settings) *Breaker {
	if s.Interval <= 0 {
		s.Interval = 60 * time.Second
	}
	if s.OpenTimeout <= 0 {
		s.OpenTimeout = 30 * time.Second
	}
	if s.ConsecutiveFailures == 0 {
		s.ConsecutiveFailures = 3
	}
	if s.MinRequests == 0 {
		s.MinRequests = 20
	}
	if s.FailureRatio <= 0 {
		s.FailureRatio = 0.5
	}

	st := gobreaker.Settings{
		Name:     s.Name,
		Interval: s.Interval,
		Timeout:  s.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.ConsecutiveFailures >= s.ConsecutiveFailures {
				return true
			}
			if counts.Requests < s.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) > s.FailureRatio
		},
		IsSuccessful: s.IsSuccessful,
	}
	if s.OnStateChange != nil {
		st.OnStateChange = func(name string, from, to gobreaker.State) {
			s.OnStateChange(name, from.String(), to.String())
		}
	}

	return &Breaker{cb: gobreaker.NewCircuitBreaker(st)}
}

// Execute runs fn through the breaker.
func Execute[T any](b *Breaker, fn func() (T, error)) (T, error) {
	var zero T
	out, err := b.cb.Execute(func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return zero, ErrOpen
		}
		return zero, err
	}
	value, _ := out.(T)
	return value, nil
}

// State reports the breaker state as "closed", "half-open" or "open".
func (b *Breaker) State() string {
	return b.cb.State().String()
}
