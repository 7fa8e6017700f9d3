package health

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Status values reported by checks and by the aggregate.
const (
	StatusOK        = "ok"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// DefaultCheckTimeout bounds a single check when New is given 0.
const DefaultCheckTimeout = 2 * time.Second

// CheckFunc returns nil when the checked resource is healthy.
type CheckFunc func(ctx context.Context) error

// CheckResult is the outcome of one check.
type CheckResult struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// HealthStatus is the aggregate report served on the health endpoint.
type HealthStatus struct {
	// Status is "ok" when every check passes, "degraded" otherwise.
	Status    string                 `json:"status"`
	Checks    map[string]CheckResult `json:"checks,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// Checker evaluates named checks in name order. The daemon's checks are a
// few stat calls and a lookup of the last report, so they run one after
// another; each still gets its own timeout so a hung mount cannot stall the
// endpoint.
type Checker struct {
	mu      sync.RWMutex
	checks  map[string]CheckFunc
	timeout time.Duration
}

// New creates a checker. A timeout of 0 means DefaultCheckTimeout.
func New(timeout time.Duration) *Checker {
	if timeout <= 0 {
		timeout = DefaultCheckTimeout
	}
	return &Checker{
		checks:  make(map[string]CheckFunc),
		timeout: timeout,
	}
}

// RegisterCheck adds check under name, replacing any check of that name.
// Configuration reloads use this to point directory checks at new paths.
func (c *Checker) RegisterCheck(name string, check CheckFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks[name] = check
}

// Names returns the registered check names, sorted.
func (c *Checker) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.checks))
	for name := range c.checks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Check evaluates every registered check.
func (c *Checker) Check(ctx context.Context) HealthStatus {
	c.mu.RLock()
	checks := make(map[string]CheckFunc, len(c.checks))
	for name, check := range c.checks {
		checks[name] = check
	}
	c.mu.RUnlock()

	status := HealthStatus{
		Status:    StatusOK,
		Checks:    make(map[string]CheckResult, len(checks)),
		Timestamp: time.Now(),
	}
	for _, name := range c.Names() {
		check, ok := checks[name]
		if !ok {
			continue
		}
		result := c.evaluate(ctx, check)
		if result.Status != StatusOK {
			status.Status = StatusDegraded
		}
		status.Checks[name] = result
	}
	return status
}

func (c *Checker) evaluate(ctx context.Context, check CheckFunc) CheckResult {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- check(ctx) }()

	select {
	case err := <-done:
		if err != nil {
			return CheckResult{Status: StatusUnhealthy, Message: err.Error()}
		}
		return CheckResult{Status: StatusOK}
	case <-ctx.Done():
		return CheckResult{Status: StatusUnhealthy, Message: "timed out after " + c.timeout.String()}
	}
}
