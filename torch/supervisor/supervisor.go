// Package supervisor owns the active output value during normal
// operation: it counts ticks toward the lock-in commit, ratchets the
// output down on sustained low battery, and applies the one-shot turbo
// timeout.
package supervisor

import (
	"context"
	"sync"

	"torchfw-go/torch/boot"
	"torchfw-go/torch/modes"
	"torchfw-go/torch/ports"
	"torchfw-go/torch/wearlog"
)

// Counter is the tick counter shared between the run loop and observers
// such as the diagnostics console. It replaces the ambient global the
// tick interrupt used to write.
type Counter struct {
	mu sync.Mutex
	n  uint32
}

func (c *Counter) Inc() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n++
	return c.n
}

func (c *Counter) Load() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}

// Config holds the runtime policy knobs.
type Config struct {
	// PollTicks is the number of ticks between battery/output refreshes
	// (50 ≙ 1s on reference hardware).
	PollTicks int

	// LockTicks is the on-time after which the current mode is committed
	// as the one to resume into. 0 disables lock-in (variants that
	// classify via the off-time capacitor need none).
	LockTicks int

	// LowWater is the battery threshold; 0 disables monitoring.
	LowWater uint8

	// LowReadings is how many consecutive low samples trigger a
	// step-down.
	LowReadings int

	// TurboLoops is how many poll iterations the maximum-brightness code
	// may run before the one-shot step-down; 0 disables it.
	TurboLoops int
}

// Event reports a supervisor state transition.
type Event struct {
	Kind   string // "lockin", "stepdown", "turbo"
	Level  modes.ModeValue
	Sample uint8
}

// Deps are the supervisor's collaborators.
type Deps struct {
	Disp  ports.Display
	Clock ports.Clock
	Batt  ports.Analog
	Log   *wearlog.Log
	Table *modes.Table
	Ticks *Counter
	Tally boot.TallyStore // optional; reset on lock-in
	Emit  func(Event)     // optional
}

// Run drives the steady-state loop for the resolved (g, m). It returns
// only when ctx is cancelled; on hardware that is never.
func Run(ctx context.Context, cfg Config, d Deps, g, m uint8) {
	if cfg.PollTicks <= 0 {
		cfg.PollTicks = 50
	}
	if cfg.LowReadings <= 0 {
		cfg.LowReadings = 8
	}

	level := d.Table.Value(g, m)
	d.Disp.Apply(level)

	lowCount := 0
	loops := 0
	locked := cfg.LockTicks <= 0
	turboDone := false

	for {
		if ctx.Err() != nil {
			d.Disp.Apply(0)
			return
		}
		d.Clock.SleepTicks(1)
		t := d.Ticks.Inc()

		if !locked && t >= uint32(cfg.LockTicks) {
			locked = true
			lockIn(d, g, m)
		}

		if int(t)%cfg.PollTicks != 0 {
			continue
		}
		loops++

		if cfg.LowWater > 0 {
			s := d.Batt.Sample()
			if s < cfg.LowWater {
				lowCount++
				if lowCount > cfg.LowReadings {
					// Ratchet: roughly half, never back up.
					level = level>>1 + 3
					lowCount = 0
					emit(d, Event{Kind: "stepdown", Level: level, Sample: s})
				}
			} else {
				lowCount = 0
			}
		}

		if cfg.TurboLoops > 0 && !turboDone && loops > cfg.TurboLoops &&
			d.Table.Turbo != 0 && level == d.Table.Turbo {
			level >>= 1
			turboDone = true
			emit(d, Event{Kind: "turbo", Level: level})
		}

		d.Disp.Apply(level)
	}
}

// lockIn commits the currently displayed mode, clearing the short marker
// and the click tally. The memory policy is the resolver's job; applying
// it here too would advance twice per long cycle.
func lockIn(d Deps, g, m uint8) {
	if err := d.Log.Append(wearlog.Record{Group: g, Mode: m}); err != nil {
		println("Warn: lock-in append failed:", err.Error())
		return
	}
	if d.Tally != nil {
		d.Tally.Save(0)
	}
	emit(d, Event{Kind: "lockin", Level: d.Table.Value(g, m)})
}

func emit(d Deps, e Event) {
	if d.Emit != nil {
		d.Emit(e)
	}
}
