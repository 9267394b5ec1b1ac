package main

import (
	"testing"

	"torchfw-go/torch/store"
)

func TestLoadScenario(t *testing.T) {
	sc, err := LoadScenario("testdata/scenario.yaml")
	if err != nil {
		t.Fatalf("LoadScenario: %v", err)
	}
	if sc.Variant != "single-wide" || sc.Policy != "next" {
		t.Errorf("got variant=%q policy=%q", sc.Variant, sc.Policy)
	}
	if len(sc.Clicks) != 3 {
		t.Fatalf("got %d clicks, want 3", len(sc.Clicks))
	}
	// off_ms defaults when omitted.
	if sc.Clicks[0].OffMs != 300 {
		t.Errorf("click 0 off_ms = %d, want 300", sc.Clicks[0].OffMs)
	}
	if sc.Clicks[1].OffMs != 200 {
		t.Errorf("click 1 off_ms = %d, want 200", sc.Clicks[1].OffMs)
	}
}

func TestScenarioValidate(t *testing.T) {
	base := func() Scenario {
		return Scenario{
			Variant: "single-wide",
			Battery: 180,
			Clicks:  []Click{{OnMs: 120, OffMs: 300}},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Scenario)
		wantErr bool
	}{
		{"ok", func(*Scenario) {}, false},
		{"bad variant", func(sc *Scenario) { sc.Variant = "triple" }, true},
		{"bad policy", func(sc *Scenario) { sc.Policy = "random" }, true},
		{"no clicks", func(sc *Scenario) { sc.Clicks = nil }, true},
		{"zero on time", func(sc *Scenario) { sc.Clicks[0].OnMs = 0 }, true},
		{"negative off time", func(sc *Scenario) { sc.Clicks[0].OffMs = -1 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := base()
			tt.mutate(&sc)
			err := sc.validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestDeviceClickWalk drives three quick clicks and checks the mode list
// advances each boot.
func TestDeviceClickWalk(t *testing.T) {
	dev := newTestDevice(t, "single-wide", "next")

	want := []int{0, 1, 2}
	for i, wm := range want {
		rep, err := dev.PowerCycle(120, 300)
		if err != nil {
			t.Fatalf("cycle %d: %v", i, err)
		}
		if rep.Boot.Mode != wm {
			t.Errorf("boot %d: mode = %d, want %d", i, rep.Boot.Mode, wm)
		}
	}
}

// TestDeviceLongGap checks a long power gap is not treated as a short
// press: the mode holds still under the last-used policy.
func TestDeviceLongGap(t *testing.T) {
	dev := newTestDevice(t, "single-wide", "last")

	first, err := dev.PowerCycle(120, 300)
	if err != nil {
		t.Fatalf("first cycle: %v", err)
	}
	// Run long enough for the supervisor to lock the mode in (50 ticks),
	// then leave power off for ten seconds.
	if _, err := dev.PowerCycle(2000, 10_000); err != nil {
		t.Fatalf("lock-in cycle: %v", err)
	}
	rep, err := dev.PowerCycle(120, 300)
	if err != nil {
		t.Fatalf("third cycle: %v", err)
	}
	if rep.Boot.Short {
		t.Error("boot after long-run cycle classified short")
	}
	if rep.Boot.Mode != first.Boot.Mode+1 {
		t.Errorf("mode = %d, want the locked-in %d", rep.Boot.Mode, first.Boot.Mode+1)
	}
}

func newTestDevice(t *testing.T, variant, policy string) *Device {
	t.Helper()
	dev, err := NewDevice(variant, policy, store.NewMemStore(32), 180)
	if err != nil {
		t.Fatalf("NewDevice: %v", err)
	}
	return dev
}
