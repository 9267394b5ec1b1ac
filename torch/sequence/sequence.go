// Package sequence implements the timed display sequences: the
// group-change confirm/cancel blink, the battery-level blink-out, and the
// decorative patterns.
package sequence

import (
	"context"

	"torchfw-go/torch/modes"
	"torchfw-go/torch/ports"
	"torchfw-go/torch/wearlog"
)

// Deps are the output-side collaborators every sequence needs.
type Deps struct {
	Disp  ports.Display
	Clock ports.Clock
}

// Impulses drives count full-power flashes of onTicks on / offTicks off.
func Impulses(d Deps, full modes.ModeValue, count, onTicks, offTicks int) {
	for ; count > 0; count-- {
		d.Disp.Apply(full)
		d.Clock.SleepTicks(onTicks)
		d.Disp.Apply(0)
		d.Clock.SleepTicks(offTicks)
	}
}

// GroupChange runs only when the resolved mode is the group-change slot.
// The light stays on for two lock periods with the next group committed
// in between: powering off during the first phase lands in the next
// group, riding out both phases cancels and recommits the original
// (group, mode) exactly as resolved. Returns the pair that is current
// once the sequence completes.
func GroupChange(log *wearlog.Log, table *modes.Table, d Deps, lockTicks int, g, m uint8) (uint8, uint8, error) {
	v := table.Value(g, m)

	d.Disp.Apply(v)
	d.Clock.SleepTicks(lockTicks * 2)
	if err := log.Append(wearlog.Record{Group: table.NextGroup(g), Mode: 0}); err != nil {
		return g, m, err
	}

	d.Disp.Apply(0)
	d.Clock.SleepTicks(lockTicks / 10)
	d.Disp.Apply(v)
	d.Clock.SleepTicks(lockTicks)

	if err := log.Append(wearlog.Record{Group: g, Mode: m}); err != nil {
		return g, m, err
	}
	return g, m, nil
}

// BlinkCount maps a battery sample to 1..4 level blinks.
func BlinkCount(sample uint8) int {
	switch {
	case sample >= 170:
		return 4
	case sample >= 160:
		return 3
	case sample >= 145:
		return 2
	}
	return 1
}

// Battcheck blinks out the remaining charge, then persists a zero tally
// so the gesture does not retrigger.
func Battcheck(log *wearlog.Log, d Deps, batt ports.Analog, full modes.ModeValue, g, m uint8) (int, error) {
	d.Disp.Apply(0)
	d.Clock.SleepTicks(50)
	n := BlinkCount(batt.Sample())
	Impulses(d, full, n, 10, 20)
	d.Clock.SleepTicks(50)
	return n, log.Append(wearlog.Record{Group: g, Mode: m})
}

// RunPattern loops the decorative sequence. Patterns bypass persistence,
// battery monitoring and the turbo timeout entirely; on hardware the
// context never cancels and the loop runs until power loss.
func RunPattern(ctx context.Context, p modes.Pattern, d Deps, full modes.ModeValue) {
	for ctx.Err() == nil {
		switch p {
		case modes.PatternStrobe:
			Impulses(d, full, 1, 1, 2)
		case modes.PatternPolice:
			Impulses(d, full, 5, 1, 2)
			d.Clock.SleepTicks(50)
		case modes.PatternSOS:
			Impulses(d, full, 3, 5, 12)
			d.Clock.SleepTicks(25)
			Impulses(d, full, 3, 25, 25)
			d.Clock.SleepTicks(12)
			Impulses(d, full, 3, 5, 12)
			d.Clock.SleepTicks(100)
		default:
			d.Disp.Apply(0)
			return
		}
	}
	d.Disp.Apply(0)
}
