// Package health provides periodic daemon health checks.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/purpleschool/purpleschool/internal/domain"
	"github.com/purpleschool/purpleschool/internal/infra/store"
)

// Check defines a single health check.
type Check struct {
	Name    string
	CheckFn func(ctx context.Context) error
}

// Status represents the result of a health check.
type Status struct {
	Name      string    `json:"name"`
	Healthy   bool      `json:"healthy"`
	Error     string    `json:"error,omitempty"`
	CheckedAt time.Time `json:"checked_at"`
}

// Checker runs periodic health checks.
type Checker struct {
	mu       sync.RWMutex
	checks   []Check
	statuses []Status
	interval time.Duration
}

// NewChecker creates a health checker with the standard checks: database
// connectivity, data directory sanity, and progress document integrity.
func NewChecker(db *store.SQLite, dataDir string) *Checker {
	return &Checker{
		interval: 60 * time.Second,
		checks: []Check{
			{
				Name: "sqlite",
				CheckFn: func(ctx context.Context) error {
					return db.Ping()
				},
			},
			{
				Name: "data_dir",
				CheckFn: func(ctx context.Context) error {
					return checkDataDir(dataDir)
				},
			},
			{
				Name: "progress_document",
				CheckFn: func(ctx context.Context) error {
					return checkProgressDocument(db)
				},
			},
		},
	}
}

// Run starts the health check loop. Call in a goroutine.
func (c *Checker) Run(ctx context.Context) {
	// Run immediately on start
	c.runAll(ctx)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.runAll(ctx)
		}
	}
}

func (c *Checker) runAll(ctx context.Context) {
	statuses := make([]Status, len(c.checks))
	for i, check := range c.checks {
		s := Status{
			Name:      check.Name,
			CheckedAt: time.Now(),
		}
		if err := check.CheckFn(ctx); err != nil {
			s.Healthy = false
			s.Error = err.Error()
		} else {
			s.Healthy = true
		}
		statuses[i] = s
	}

	c.mu.Lock()
	c.statuses = statuses
	c.mu.Unlock()
}

// Statuses returns the latest health check results.
func (c *Checker) Statuses() []Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make([]Status, len(c.statuses))
	copy(result, c.statuses)
	return result
}

// IsHealthy returns true if all checks pass.
func (c *Checker) IsHealthy() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, s := range c.statuses {
		if !s.Healthy {
			return false
		}
	}
	return true
}

// ─── Check Implementations ──────────────────────────────────────────────────

func checkDataDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // First run, created on demand
		}
		return fmt.Errorf("check data dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	return nil
}

// checkProgressDocument verifies the stored state still parses. A corrupt
// document is not fatal (the engine falls back to defaults) but it means
// progress was lost, which is worth surfacing.
func checkProgressDocument(db *store.SQLite) error {
	data, found, err := db.Load(store.KeyProgressState)
	if err != nil {
		return fmt.Errorf("load progress document: %w", err)
	}
	if !found {
		return nil // Fresh install
	}
	var state domain.ProgressState
	if err := json.Unmarshal(data, &state); err != nil {
		return fmt.Errorf("progress document corrupt: %w", err)
	}
	if state.CurrentXP < 0 {
		return fmt.Errorf("progress document invalid: negative XP")
	}
	return nil
}
