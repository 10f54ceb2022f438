package health

import (
	"context"
	"time"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates at least one failing component.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// ComponentDatabase is the check name of the document store.
const ComponentDatabase = "database"

const defaultCheckTimeout = 2 * time.Second

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

type check struct {
	name   string
	pinger Pinger
}

// Service coordinates health checks.
type Service struct {
	checks  []check
	timeout time.Duration
}

// Option configures a Service.
type Option func(*Service)

// WithCheck adds a named component check.
func WithCheck(name string, p Pinger) Option {
	return func(s *Service) { s.checks = append(s.checks, check{name: name, pinger: p}) }
}

// WithTimeout bounds each component check.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// New creates a Service that always checks the document store.
func New(db Pinger, opts ...Option) *Service {
	s := &Service{
		checks:  []check{{name: ComponentDatabase, pinger: db}},
		timeout: defaultCheckTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Check runs every component check.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult, len(s.checks))
	status := Healthy

	for _, c := range s.checks {
		cctx, cancel := context.WithTimeout(ctx, s.timeout)
		err := c.pinger.Ping(cctx)
		cancel()

		if err != nil {
			checks[c.name] = CheckError
			status = Degraded
			continue
		}
		checks[c.name] = CheckOK
	}

	return Report{Status: status, Checks: checks}
}
