// Package platform supplies the peripheral-layer implementations of the
// torch ports for the supported targets.
package platform

import (
	"time"

	"torchfw-go/x/timex"
)

// TickClock sleeps in the firmware's fixed ~20ms units.
type TickClock struct{}

func (TickClock) SleepTicks(n int) {
	if n <= 0 {
		return
	}
	time.Sleep(timex.Ticks(n))
}
