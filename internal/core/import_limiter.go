package core

// import_limiter.go bounds how many uploaded files are parsed at once.
// Workbook parsing holds the whole file in memory, so parallel imports are
// capped. When every slot is busy a request waits up to maxWait and then
// fails with ErrTooManyImports.

import (
	"context"
	"errors"
	"sync/atomic"
	"time"
)

// ErrTooManyImports is returned when no import slot frees up in time.
var ErrTooManyImports = errors.New("too many imports in progress, please try again later")

const (
	DefaultMaxConcurrentImports = 5
	DefaultMaxWaitTime          = 30 * time.Second
)

// ImportLimiter is a counting semaphore for import parsing.
type ImportLimiter struct {
	semaphore chan struct{}
	maxWait   time.Duration
	active    atomic.Int64
}

// NewImportLimiter allows at most maxConcurrent parallel imports.
// Non-positive arguments select the defaults.
func NewImportLimiter(maxConcurrent int, maxWait time.Duration) *ImportLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentImports
	}
	if maxWait <= 0 {
		maxWait = DefaultMaxWaitTime
	}
	return &ImportLimiter{
		semaphore: make(chan struct{}, maxConcurrent),
		maxWait:   maxWait,
	}
}

// Acquire takes a slot. The caller must Release it (use defer).
func (l *ImportLimiter) Acquire(ctx context.Context) error {
	waitCtx, cancel := context.WithTimeout(ctx, l.maxWait)
	defer cancel()

	select {
	case l.semaphore <- struct{}{}:
		l.active.Add(1)
		return nil
	case <-waitCtx.Done():
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return ErrTooManyImports
	}
}

// TryAcquire takes a slot without waiting.
func (l *ImportLimiter) TryAcquire() bool {
	select {
	case l.semaphore <- struct{}{}:
		l.active.Add(1)
		return true
	default:
		return false
	}
}

// Release returns a slot taken by Acquire or TryAcquire.
func (l *ImportLimiter) Release() {
	l.active.Add(-1)
	<-l.semaphore
}

// ActiveCount returns the number of imports currently parsing.
func (l *ImportLimiter) ActiveCount() int {
	return int(l.active.Load())
}

// WaitForDrain blocks until no import is parsing or ctx ends.
// Used during graceful shutdown.
func (l *ImportLimiter) WaitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		if l.ActiveCount() == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// ImportLimiterStatus is a snapshot of the limiter.
type ImportLimiterStatus struct {
	Active        int `json:"active"`
	Available     int `json:"available"`
	MaxConcurrent int `json:"max_concurrent"`
}

// Status returns the current limiter state for health checks.
func (l *ImportLimiter) Status() ImportLimiterStatus {
	return ImportLimiterStatus{
		Active:        l.ActiveCount(),
		Available:     cap(l.semaphore) - len(l.semaphore),
		MaxConcurrent: cap(l.semaphore),
	}
}
