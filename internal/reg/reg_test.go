package reg

import (
	"context"
	"testing"
	"time"
)

func TestMemReadWriteRoundTrip(t *testing.T) {
	m := NewMem(4)

	m.Write32(0, 0xDEADBEEF)
	m.Write32(4, 0x12345678)

	if got := m.Read32(0); got != 0xDEADBEEF {
		t.Errorf("Read32(0) = %#x, want 0xDEADBEEF", got)
	}
	if got := m.Read32(4); got != 0x12345678 {
		t.Errorf("Read32(4) = %#x, want 0x12345678", got)
	}
}

func TestMemOutOfRangeIsNoop(t *testing.T) {
	m := NewMem(1)

	m.Write32(0x100, 1) // out of range, must not panic
	if got := m.Read32(0x100); got != 0 {
		t.Errorf("Read32 out of range = %#x, want 0", got)
	}
}

func TestSetClearGet(t *testing.T) {
	m := NewMem(1)

	Set(m, 0, 5)
	if got := Get(m, 0, 5, 1); got != 1 {
		t.Fatalf("after Set: Get = %d, want 1", got)
	}

	Clear(m, 0, 5)
	if got := Get(m, 0, 5, 1); got != 0 {
		t.Fatalf("after Clear: Get = %d, want 0", got)
	}
}

func TestSetNClearN(t *testing.T) {
	m := NewMem(1)

	SetN(m, 0, 8, 0xFF, 0xAB)
	if got := Get(m, 0, 8, 0xFF); got != 0xAB {
		t.Fatalf("after SetN: Get = %#x, want 0xAB", got)
	}

	ClearN(m, 0, 8, 0xFF)
	if got := Get(m, 0, 8, 0xFF); got != 0 {
		t.Fatalf("after ClearN: Get = %#x, want 0", got)
	}
}

func TestWaitSucceedsOnceBitSet(t *testing.T) {
	m := NewMem(1)

	go func() {
		time.Sleep(5 * time.Millisecond)
		Set(m, 0, 0)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := Wait(ctx, m, 0, 0, 1, 1); err != nil {
		t.Fatalf("Wait returned error: %v", err)
	}
}

func TestWaitTimeoutExpires(t *testing.T) {
	m := NewMem(1)

	err := WaitTimeout(m, 0, 0, 1, 1, 10*time.Millisecond)
	if err == nil {
		t.Fatal("WaitTimeout: expected timeout error, got nil")
	}
}
