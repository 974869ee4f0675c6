package devices

import "testing"

func TestEnterExit(t *testing.T) {
	d := New()
	d.Enter()
	d.Exit()
	d.Enter()
	d.Exit()
}

func TestReentrantEnterPanics(t *testing.T) {
	d := New()
	d.Enter()
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic on reentrant Enter")
		}
	}()
	d.Enter()
}

func TestSyncedOrderIsGpuTimersDmaSound(t *testing.T) {
	d := New()
	order := d.Synced()
	if order[0] != SyncedIoDevice(d.Gpu) {
		t.Fatalf("order[0] should be Gpu")
	}
	if order[1] != SyncedIoDevice(d.Timers) {
		t.Fatalf("order[1] should be Timers")
	}
	if order[2] != SyncedIoDevice(d.Dma) {
		t.Fatalf("order[2] should be Dma")
	}
	if order[3] != SyncedIoDevice(d.Sound) {
		t.Fatalf("order[3] should be Sound")
	}
}
