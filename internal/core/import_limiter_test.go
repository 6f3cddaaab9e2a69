package core

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestImportLimiter_AcquireRelease(t *testing.T) {
	limiter := NewImportLimiter(2, time.Second)
	ctx := context.Background()

	if got := limiter.Status().Available; got != 2 {
		t.Errorf("initial Available = %d, want 2", got)
	}

	if err := limiter.Acquire(ctx); err != nil {
		t.Fatalf("first Acquire failed: %v", err)
	}
	if err := limiter.Acquire(ctx); err != nil {
		t.Fatalf("second Acquire failed: %v", err)
	}
	if got := limiter.ActiveCount(); got != 2 {
		t.Errorf("ActiveCount = %d, want 2", got)
	}
	if got := limiter.Status().Available; got != 0 {
		t.Errorf("Available = %d, want 0", got)
	}

	limiter.Release()
	limiter.Release()

	if got := limiter.ActiveCount(); got != 0 {
		t.Errorf("after Release, ActiveCount = %d, want 0", got)
	}
}

func TestImportLimiter_TimesOutWhenFull(t *testing.T) {
	limiter := NewImportLimiter(1, 50*time.Millisecond)
	ctx := context.Background()

	if !limiter.TryAcquire() {
		t.Fatal("TryAcquire on empty limiter failed")
	}
	defer limiter.Release()

	if limiter.TryAcquire() {
		t.Fatal("TryAcquire on full limiter succeeded")
	}

	start := time.Now()
	err := limiter.Acquire(ctx)
	if !errors.Is(err, ErrTooManyImports) {
		t.Fatalf("Acquire error = %v, want ErrTooManyImports", err)
	}
	if elapsed := time.Since(start); elapsed < 40*time.Millisecond {
		t.Errorf("Acquire returned after %v, expected to wait", elapsed)
	}
}

func TestImportLimiter_ContextCancellation(t *testing.T) {
	limiter := NewImportLimiter(1, time.Minute)
	limiter.TryAcquire()
	defer limiter.Release()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	if err := limiter.Acquire(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Acquire error = %v, want context.Canceled", err)
	}
}

func TestImportLimiter_UnblocksWaiter(t *testing.T) {
	limiter := NewImportLimiter(1, time.Second)
	limiter.TryAcquire()

	done := make(chan error, 1)
	go func() {
		done <- limiter.Acquire(context.Background())
	}()

	time.Sleep(20 * time.Millisecond)
	limiter.Release()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("waiter Acquire failed: %v", err)
		}
		limiter.Release()
	case <-time.After(time.Second):
		t.Fatal("waiter never acquired the slot")
	}
}

func TestImportLimiter_ConcurrentAccess(t *testing.T) {
	limiter := NewImportLimiter(3, time.Second)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		maxSeen int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := limiter.Acquire(context.Background()); err != nil {
				t.Errorf("Acquire failed: %v", err)
				return
			}
			mu.Lock()
			if n := limiter.ActiveCount(); n > maxSeen {
				maxSeen = n
			}
			mu.Unlock()
			time.Sleep(5 * time.Millisecond)
			limiter.Release()
		}()
	}
	wg.Wait()

	if maxSeen > 3 {
		t.Errorf("saw %d concurrent imports, limit is 3", maxSeen)
	}
}

func TestImportLimiter_WaitForDrain(t *testing.T) {
	limiter := NewImportLimiter(2, time.Second)
	limiter.TryAcquire()

	go func() {
		time.Sleep(30 * time.Millisecond)
		limiter.Release()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := limiter.WaitForDrain(ctx); err != nil {
		t.Errorf("WaitForDrain error = %v", err)
	}
}

func TestImportLimiter_Defaults(t *testing.T) {
	limiter := NewImportLimiter(0, 0)
	if got := limiter.Status().MaxConcurrent; got != DefaultMaxConcurrentImports {
		t.Errorf("MaxConcurrent = %d, want %d", got, DefaultMaxConcurrentImports)
	}
	if limiter.maxWait != DefaultMaxWaitTime {
		t.Errorf("maxWait = %v, want %v", limiter.maxWait, DefaultMaxWaitTime)
	}
}
