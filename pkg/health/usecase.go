package health

import (
	"context"
	"fmt"
	"time"
)

// Checker represents a dependency health check.
type Checker interface {
	Name() string
	Check(ctx context.Context) error
}

// Liveness is the payload of the liveness probe.
type Liveness struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Uptime      float64   `json:"uptime"`
	Environment string    `json:"environment"`
}

// UseCase describes liveness and readiness verification.
type UseCase interface {
	Live() Liveness
	Ready(ctx context.Context) error
}

type service struct {
	env      string
	started  time.Time
	now      func() time.Time
	checkers []Checker
}

// NewService aggregates dependency checkers.
func NewService(env string, checkers ...Checker) UseCase {
	return &service{env: env, started: time.Now(), now: time.Now, checkers: checkers}
}

func (s *service) Live() Liveness {
	now := s.now()
	return Liveness{
		Status:      "OK",
		Timestamp:   now.UTC(),
		Uptime:      now.Sub(s.started).Seconds(),
		Environment: s.env,
	}
}

func (s *service) Ready(ctx context.Context) error {
	for _, ch := range s.checkers {
		if err := ch.Check(ctx); err != nil {
			return fmt.Errorf("%s: %w", ch.Name(), err)
		}
	}
	return nil
}
