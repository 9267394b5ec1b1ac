package torch

import (
	"testing"

	"torchfw-go/platform"
	"torchfw-go/torch/boot"
	"torchfw-go/torch/store"
)

func TestLookupVariants(t *testing.T) {
	for _, name := range Variants() {
		p, err := Lookup(name)
		if err != nil {
			t.Fatalf("Lookup(%q): %v", name, err)
		}
		if p.Name != name {
			t.Errorf("profile name %q, want %q", p.Name, name)
		}
		if err := p.Table.Validate(); err != nil {
			t.Errorf("%s: invalid table: %v", name, err)
		}
		// The store window must hold a whole number of this codec's slots.
		if 32%p.Codec.Size() != 0 {
			t.Errorf("%s: record size %d does not divide the store window", name, p.Codec.Size())
		}
	}
	if _, err := Lookup("triple"); err == nil {
		t.Error("unknown variant accepted")
	}
}

func TestLookupPackedWidth(t *testing.T) {
	p, err := Lookup("single-packed")
	if err != nil {
		t.Fatal(err)
	}
	// The one-byte record caps mode indices at 7.
	if w := p.Table.Width(); w > 8 {
		t.Errorf("packed table width %d exceeds the encoding's 3 mode bits", w)
	}
	if !p.VolatileTally {
		t.Error("packed profile must keep its tally in volatile memory")
	}
}

func TestApplyOverrides(t *testing.T) {
	p, err := Lookup("dual-otc")
	if err != nil {
		t.Fatal(err)
	}
	cfg := applyOverrides(p.Defaults, map[string]any{
		"policy":        "next",
		"lock_ticks":    float64(25),
		"otc_threshold": float64(200),
		"bogus":         true,
	})
	if cfg.Policy != boot.PolicyNext {
		t.Errorf("policy = %v, want next", cfg.Policy)
	}
	if cfg.LockTicks != 25 || cfg.OTCThreshold != 200 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	// Untouched knobs keep their defaults.
	if cfg.BattcheckClicks != 16 || cfg.TurboLoops != 60 {
		t.Errorf("defaults clobbered: %+v", cfg)
	}

	// Malformed values keep the current setting.
	cfg = applyOverrides(cfg, map[string]any{"policy": "random", "lock_ticks": "fast"})
	if cfg.Policy != boot.PolicyNext || cfg.LockTicks != 25 {
		t.Errorf("malformed override changed config: %+v", cfg)
	}
}

func TestBuild(t *testing.T) {
	hw := Hardware{
		Disp:  &platform.ConsoleDisplay{},
		Clock: platform.TickClock{},
		Batt:  platform.FixedBattery{Value: 180},
		Store: store.NewMemStore(32),
	}
	rt, err := Build("single-wide", hw)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if rt.Config != rt.Profile.Defaults {
		t.Error("runtime config does not start from the profile defaults")
	}
	if rt.Log.Slots() != 16 {
		t.Errorf("log slots = %d, want 16", rt.Log.Slots())
	}

	if _, err := Build("nope", hw); err == nil {
		t.Error("unknown variant built")
	}

	hw.Store = store.NewMemStore(31) // not a multiple of the 2-byte record
	if _, err := Build("single-wide", hw); err == nil {
		t.Error("bad store geometry accepted")
	}
}
