package main

import (
	"context"
	"fmt"

	"torchfw-go/platform"
	torchsvc "torchfw-go/services/torch"
	"torchfw-go/torch/boot"
	"torchfw-go/torch/modes"
	"torchfw-go/torch/ports"
	"torchfw-go/x/mathx"
)

// powerCut aborts execution at the current sleep point, the way a real
// power loss does.
type powerCut struct{}

// budgetClock spends a fixed tick budget and then cuts power.
type budgetClock struct {
	remaining int
}

func (c *budgetClock) SleepTicks(n int) {
	if n <= 0 {
		return
	}
	c.remaining -= n
	if c.remaining <= 0 {
		panic(powerCut{})
	}
}

// recordingDisplay tracks the level the device would be showing.
type recordingDisplay struct {
	level   modes.ModeValue
	changes int
}

func (d *recordingDisplay) Apply(v modes.ModeValue) {
	if v != d.level {
		d.level = v
		d.changes++
	}
}

// simOTC models the off-time capacitor: fully charged at power-down, it
// loses charge while power is off.
type simOTC struct {
	offMs int
}

func (o simOTC) Sample() uint8 {
	level := 255 - o.offMs/8
	if level < 20 {
		level = 20
	}
	return uint8(level)
}

func (o simOTC) Recharge() {}

// Device simulates one flashlight across power cycles. The store (and,
// for the packed variant, the tally word) is the only state that
// survives between boots — exactly as on hardware.
type Device struct {
	variant string
	policy  boot.Policy
	hasPol  bool
	store   ports.Store
	tally   *platform.RAMTally
	battery uint8

	lastOffMs int // power gap preceding the next boot
}

// Report summarizes one power cycle.
type Report struct {
	Boot   torchsvc.State
	Events []string
	Level  int // displayed level at power cut
}

func NewDevice(variant, policy string, st ports.Store, battery uint8) (*Device, error) {
	if _, err := torchsvc.Lookup(variant); err != nil {
		return nil, err
	}
	d := &Device{
		variant:   variant,
		store:     st,
		tally:     &platform.RAMTally{},
		battery:   battery,
		lastOffMs: 1 << 20, // first boot follows a long-dead cap
	}
	if policy != "" {
		p, err := boot.ParsePolicy(policy)
		if err != nil {
			return nil, err
		}
		d.policy = p
		d.hasPol = true
	}
	return d, nil
}

// PowerCycle boots the device, keeps it on for onMs, then cuts power for
// offMs before the next boot.
func (d *Device) PowerCycle(onMs, offMs int) (rep Report, err error) {
	disp := &recordingDisplay{}
	clock := &budgetClock{remaining: mathx.Max(onMs/20, 1)}

	hw := torchsvc.Hardware{
		Disp:  disp,
		Clock: clock,
		Batt:  platform.FixedBattery{Value: d.battery},
		OTC:   simOTC{offMs: d.lastOffMs},
		Store: d.store,
		Guard: ports.NopGuard{},
		Tally: d.tally,
	}
	rt, err := torchsvc.Build(d.variant, hw)
	if err != nil {
		return Report{}, err
	}
	if d.hasPol {
		rt.Config.Policy = d.policy
	}

	d.lastOffMs = offMs

	defer func() {
		rep.Level = int(disp.level)
		if r := recover(); r != nil {
			if _, ok := r.(powerCut); !ok {
				panic(r)
			}
		}
	}()

	rt.Run(context.Background(), func(kind string, payload any) {
		if kind == "state" {
			if st, ok := payload.(torchsvc.State); ok {
				rep.Boot = st
			}
			return
		}
		rep.Events = append(rep.Events, fmt.Sprintf("%s %v", kind, payload))
	})
	return rep, nil
}

// Reset erases the store and the RAM tally, like a factory part.
func (d *Device) Reset() error {
	for i := 0; i < d.store.Size(); i++ {
		if err := d.store.EraseByte(i); err != nil {
			return err
		}
	}
	d.tally.Save(0)
	d.lastOffMs = 1 << 20
	return nil
}

// DumpStore returns the raw store image.
func (d *Device) DumpStore() ([]byte, error) {
	img := make([]byte, d.store.Size())
	for i := range img {
		b, err := d.store.ReadByte(i)
		if err != nil {
			return nil, err
		}
		img[i] = b
	}
	return img, nil
}
