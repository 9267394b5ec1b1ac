//go:build !(rp2040 || rp2350)

package platform

import (
	"torchfw-go/torch/modes"
)

// ConsoleDisplay logs output changes instead of driving a PWM pin.
type ConsoleDisplay struct {
	last modes.ModeValue
}

func (d *ConsoleDisplay) Apply(v modes.ModeValue) {
	if v == d.last {
		return
	}
	d.last = v
	println("[disp] level", int(v))
}

// FixedBattery returns a constant sample, standing in for the ADC.
type FixedBattery struct {
	Value uint8
}

func (b FixedBattery) Sample() uint8 { return b.Value }

// RAMTally models the boot-surviving RAM word the packed-record variant
// keeps its click tally in. On host it simply lives for the process.
type RAMTally struct {
	v uint8
}

func (t *RAMTally) Load() uint8  { return t.v }
func (t *RAMTally) Save(v uint8) { t.v = v }
