//go:build rp2040 || rp2350

package main

import (
	"context"
	"time"

	"machine"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"

	"torchfw-go/bus"
	"torchfw-go/platform"
	"torchfw-go/services/config"
	"torchfw-go/services/diag"
	torchsvc "torchfw-go/services/torch"
	"torchfw-go/torch/ports"
	"torchfw-go/torch/store"
)

// variant selects the behavior profile this build drives.
const variant = "single-wide"

// Wear log window in the external EEPROM.
const (
	logBase = 0
	logSize = 32
)

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)
	println("boot torch", variant)

	ctx := context.WithValue(context.Background(), config.CtxVariantKey, variant)
	b := bus.NewBus(8)

	config.NewConfigService().Start(ctx, b.NewConnection("config"))

	hw, err := buildHardware()
	if err != nil {
		println("fatal: hardware:", err.Error())
		return
	}
	rt, err := torchsvc.Build(variant, hw)
	if err != nil {
		println("fatal: build:", err.Error())
		return
	}

	// Diagnostics console on UART0.
	u := uartx.UART0
	_ = u.Configure(uartx.UARTConfig{
		BaudRate: 115200,
		TX:       machine.UART0_TX_PIN,
		RX:       machine.UART0_RX_PIN,
	})
	dg := &diag.Service{
		In:    &uartIn{u: u, ctx: ctx},
		Out:   u,
		Log:   rt.Log,
		Ticks: rt.Ticks,
		Table: rt.Profile.Table,
	}
	_ = dg.Start(ctx, b.NewConnection("diag"))

	svc := &torchsvc.Service{RT: rt}
	_ = svc.Start(ctx, b.NewConnection("torch"))

	select {}
}

// buildHardware wires the peripherals for the selected variant.
func buildHardware() (torchsvc.Hardware, error) {
	i2c := machine.I2C0
	err := i2c.Configure(machine.I2CConfig{
		Frequency: 400 * machine.KHz,
		SDA:       machine.I2C0_SDA_PIN,
		SCL:       machine.I2C0_SCL_PIN,
	})
	if err != nil {
		return torchsvc.Hardware{}, err
	}

	hw := torchsvc.Hardware{
		Clock: platform.TickClock{},
		Batt:  platform.NewADCSampler(machine.ADC0),
		Store: store.NewEEPROM(i2c, logBase, logSize),
		Guard: &ports.MutexGuard{},
	}

	switch variant {
	case "dual-otc":
		disp, err := platform.NewDualPWM(4, machine.GP8, machine.GP9)
		if err != nil {
			return hw, err
		}
		hw.Disp = disp
		hw.OTC = platform.NewOTCPin(machine.ADC1)
	case "single-packed":
		disp, err := platform.NewSinglePWM(4, machine.GP8)
		if err != nil {
			return hw, err
		}
		hw.Disp = disp
		hw.Tally = platform.RAMTally{}
	default:
		disp, err := platform.NewSinglePWM(4, machine.GP8)
		if err != nil {
			return hw, err
		}
		hw.Disp = disp
	}
	return hw, nil
}

// uartIn adapts uartx's context read to io.Reader for the console.
type uartIn struct {
	u   *uartx.UART
	ctx context.Context
}

func (r *uartIn) Read(p []byte) (int, error) {
	return r.u.RecvSomeContext(r.ctx, p)
}
