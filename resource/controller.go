// Package resource enforces the map server's resource budgets: the total
// memory ceiling that gates map admission, a single-writer load slot, and
// optional IO throttling for map file reads.
package resource

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Config holds resource limits.
type Config struct {
	// MemoryLimitBytes is the hard ceiling for estimated map memory.
	// If 0, no ceiling is enforced (only tracking).
	MemoryLimitBytes int64

	// IOLimitBytesPerSec throttles map file reads during load.
	// If 0, unlimited.
	IOLimitBytesPerSec int64
}

// Controller manages the server's memory and IO budgets.
type Controller struct {
	cfg Config

	memSem  *semaphore.Weighted // nil if unlimited
	memUsed atomic.Int64

	loadSem *semaphore.Weighted

	ioLimiter *rate.Limiter
}

// NewController creates a controller for the given limits.
func NewController(cfg Config) *Controller {
	c := &Controller{
		cfg:     cfg,
		loadSem: semaphore.NewWeighted(1),
	}

	if cfg.MemoryLimitBytes > 0 {
		c.memSem = semaphore.NewWeighted(cfg.MemoryLimitBytes)
	}

	if cfg.IOLimitBytesPerSec > 0 {
		c.ioLimiter = rate.NewLimiter(rate.Limit(cfg.IOLimitBytesPerSec), int(cfg.IOLimitBytesPerSec))
	}

	return c
}

// TryAcquireMemory attempts to reserve estimated map memory without
// blocking. Returns false if the ceiling would be exceeded.
func (c *Controller) TryAcquireMemory(bytes int64) bool {
	if c == nil || bytes <= 0 {
		return true
	}

	if c.memSem != nil {
		if !c.memSem.TryAcquire(bytes) {
			return false
		}
	}

	c.memUsed.Add(bytes)
	return true
}

// ReleaseMemory releases reserved memory.
func (c *Controller) ReleaseMemory(bytes int64) {
	if c == nil || bytes <= 0 {
		return
	}

	if c.memSem != nil {
		c.memSem.Release(bytes)
	}
	c.memUsed.Add(-bytes)
}

// MemoryUsage returns the currently reserved bytes.
func (c *Controller) MemoryUsage() int64 {
	return c.memUsed.Load()
}

// AcquireLoad takes the single load slot, blocking until any in-flight load
// releases it or ctx is canceled. Loads are serialized; queries are not
// gated here.
func (c *Controller) AcquireLoad(ctx context.Context) error {
	return c.loadSem.Acquire(ctx, 1)
}

// ReleaseLoad releases the load slot.
func (c *Controller) ReleaseLoad() {
	c.loadSem.Release(1)
}

// AcquireIO waits until the IO limit allows the specified number of bytes.
// Requests larger than the burst are clamped to it; WaitN rejects them
// outright otherwise.
func (c *Controller) AcquireIO(ctx context.Context, bytes int) error {
	if c == nil || c.ioLimiter == nil {
		return nil
	}
	if b := c.ioLimiter.Burst(); bytes > b {
		bytes = b
	}
	return c.ioLimiter.WaitN(ctx, bytes)
}

// Throttled reports whether an IO limit is configured.
func (c *Controller) Throttled() bool {
	return c != nil && c.ioLimiter != nil
}
