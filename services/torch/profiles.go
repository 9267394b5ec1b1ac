package torch

import (
	"torchfw-go/errcode"
	"torchfw-go/torch/modes"
	"torchfw-go/torch/wearlog"
)

// Classify selects how a boot decides the previous session was short.
type Classify uint8

const (
	// ClassifyFlag trusts the short marker the lock-in tick clears.
	ClassifyFlag Classify = iota
	// ClassifyOTC samples the off-time capacitor after boot.
	ClassifyOTC
)

// Profile binds one hardware variant to its table, record encoding,
// classification mechanism and default configuration. All three variants
// implement the same behavioral contract.
type Profile struct {
	Name          string
	Table         *modes.Table
	Codec         wearlog.Codec
	Classify      Classify
	VolatileTally bool // tally lives outside the record
	Defaults      Config
}

// Lookup returns the profile for a variant name.
func Lookup(name string) (Profile, error) {
	switch name {
	case "dual-otc":
		// FET+AMC board with an off-time capacitor and two-byte records.
		return Profile{
			Name:     name,
			Table:    modes.DualReference(),
			Codec:    wearlog.WideCodec{},
			Classify: ClassifyOTC,
			Defaults: Config{
				Policy:          0, // last
				BattcheckClicks: 16,
				LockTicks:       50,
				PollTicks:       50,
				LowWater:        125,
				LowReadings:     8,
				TurboLoops:      60,
				OTCThreshold:    190,
			},
		}, nil
	case "single-wide":
		// Single-channel board, tick-flag classification, two-byte records.
		return Profile{
			Name:     name,
			Table:    modes.SingleReference(),
			Codec:    wearlog.WideCodec{},
			Classify: ClassifyFlag,
			Defaults: Config{
				BattcheckClicks: 16,
				LockTicks:       50,
				PollTicks:       10,
				LowWater:        125,
				LowReadings:     8,
			},
		}, nil
	case "single-packed":
		// Single-channel board, tick-flag classification, one-byte
		// records with the tally in boot-surviving RAM.
		return Profile{
			Name:          name,
			Table:         modes.SingleCompactReference(),
			Codec:         wearlog.PackedCodec{},
			Classify:      ClassifyFlag,
			VolatileTally: true,
			Defaults: Config{
				BattcheckClicks: 10,
				LockTicks:       50,
				PollTicks:       10,
				LowWater:        125,
				LowReadings:     8,
			},
		}, nil
	}
	return Profile{}, &errcode.E{C: errcode.UnknownVariant, Op: "lookup", Msg: name}
}

// Variants lists the supported profile names.
func Variants() []string {
	return []string{"dual-otc", "single-wide", "single-packed"}
}
