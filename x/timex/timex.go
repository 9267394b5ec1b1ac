package timex

import "time"

// NowMs returns Unix milliseconds as int64.
func NowMs() int64 { return time.Now().UnixMilli() }

// TickDuration is the firmware's fixed time unit.
// One tick is ~20ms on the reference hardware (watchdog interval).
const TickDuration = 20 * time.Millisecond

// Ticks converts a tick count into a wall-clock duration.
func Ticks(n int) time.Duration { return time.Duration(n) * TickDuration }
