package usecase

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestLockSerializesSameAccount(t *testing.T) {
	locks := newAccountLocks()
	unlock, err := locks.Lock(context.Background(), "a")
	if err != nil {
		t.Fatalf("lock: %v", err)
	}

	acquired := make(chan struct{})
	go func() {
		unlock2, err := locks.Lock(context.Background(), "a")
		if err == nil {
			close(acquired)
			unlock2()
		}
	}()

	select {
	case <-acquired:
		t.Fatal("second lock acquired while first is held")
	case <-time.After(50 * time.Millisecond):
	}
	unlock()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second lock never acquired")
	}
}

func TestLockWaitIsCancellable(t *testing.T) {
	locks := newAccountLocks()
	unlock, _ := locks.Lock(context.Background(), "b")
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	// a 先拿到，b 等待逾時，a 必須被釋放
	if _, err := locks.Lock(ctx, "a", "b"); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want DeadlineExceeded", err)
	}

	unlockA, err := locks.Lock(context.Background(), "a")
	if err != nil {
		t.Fatalf("a still held after cancelled wait: %v", err)
	}
	unlockA()
}

func TestUnlockIsIdempotentAndTableShrinks(t *testing.T) {
	locks := newAccountLocks()
	unlock, err := locks.Lock(context.Background(), "a", "a", "b")
	if err != nil {
		t.Fatalf("lock: %v", err)
	}
	if locks.size() != 2 {
		t.Fatalf("size = %d, want 2", locks.size())
	}
	unlock()
	unlock()
	if locks.size() != 0 {
		t.Fatalf("size = %d, want 0", locks.size())
	}
}
