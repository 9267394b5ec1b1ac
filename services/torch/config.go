package torch

import (
	"torchfw-go/torch/boot"
)

// Config carries the tunables a variant exposes. Zero values fall back
// to the profile defaults at build time.
type Config struct {
	Policy          boot.Policy
	BattcheckClicks uint8
	LockTicks       int
	PollTicks       int
	LowWater        uint8
	LowReadings     int
	TurboLoops      int
	OTCThreshold    uint8
}

// applyOverrides merges a JSON-shaped config map (as published by the
// config service) over cfg. Unknown keys are ignored; malformed values
// keep the current setting.
func applyOverrides(cfg Config, m map[string]any) Config {
	if v, ok := m["policy"].(string); ok {
		if p, err := boot.ParsePolicy(v); err == nil {
			cfg.Policy = p
		} else {
			println("Warn: torch config: bad policy:", v)
		}
	}
	if n, ok := num(m, "battcheck_clicks"); ok {
		cfg.BattcheckClicks = uint8(n)
	}
	if n, ok := num(m, "lock_ticks"); ok {
		cfg.LockTicks = int(n)
	}
	if n, ok := num(m, "poll_ticks"); ok {
		cfg.PollTicks = int(n)
	}
	if n, ok := num(m, "low_water"); ok {
		cfg.LowWater = uint8(n)
	}
	if n, ok := num(m, "low_readings"); ok {
		cfg.LowReadings = int(n)
	}
	if n, ok := num(m, "turbo_loops"); ok {
		cfg.TurboLoops = int(n)
	}
	if n, ok := num(m, "otc_threshold"); ok {
		cfg.OTCThreshold = uint8(n)
	}
	return cfg
}

func num(m map[string]any, key string) (float64, bool) {
	v, ok := m[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}
