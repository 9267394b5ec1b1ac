// Package ports defines the collaborator contracts the torch core consumes.
// Hardware targets and the simulator supply the implementations.
package ports

import (
	"sync"

	"torchfw-go/torch/modes"
)

// Clock blocks for n fixed time units (~20ms each on reference hardware).
// SleepTicks never returns early and never fails; only power loss (or, on
// host builds, context cancellation routed through the caller) interrupts it.
type Clock interface {
	SleepTicks(n int)
}

// Display renders a raw mode code on the physical output(s).
// Apply(0) turns the light off. Negative codes drive the secondary
// channel on dual-channel hardware.
type Display interface {
	Apply(v modes.ModeValue)
}

// Analog is a blocking analog read returning a monotonic proxy for a
// voltage on an implementation-defined 8-bit scale. It has no failure
// mode; absent hardware returns a stale or default value.
type Analog interface {
	Sample() uint8
}

// OTC is the off-time capacitor channel: sampled at boot to classify the
// previous power gap, recharged once the boot decision is made.
type OTC interface {
	Analog
	Recharge()
}

// Store is a byte-addressable non-volatile region with EEPROM semantics:
// a programmed byte must be erased (back to 0xFF) before it can hold a
// new value. Writes and erases poll for completion before returning.
type Store interface {
	Size() int
	ReadByte(addr int) (byte, error)
	WriteByte(addr int, b byte) error
	EraseByte(addr int) error
}

// Guard is the critical-section abstraction around multi-step persistent
// state transitions. On MCU targets it masks the tick interrupt source;
// elsewhere it is a plain mutex.
type Guard interface {
	Lock()
	Unlock()
}

// NopGuard is for strictly single-threaded contexts (tests, resolver-only
// tools).
type NopGuard struct{}

func (NopGuard) Lock()   {}
func (NopGuard) Unlock() {}

// MutexGuard serialises log transitions against the tick counter.
type MutexGuard struct {
	mu sync.Mutex
}

func (g *MutexGuard) Lock()   { g.mu.Lock() }
func (g *MutexGuard) Unlock() { g.mu.Unlock() }
