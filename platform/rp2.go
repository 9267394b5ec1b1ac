//go:build rp2040 || rp2350

package platform

import (
	"machine"
	"sync"

	"torchfw-go/torch/modes"
	"torchfw-go/x/mathx"
)

// pwmPeriodNs gives roughly the 9.4kHz the reference drivers run at.
const pwmPeriodNs uint64 = 106_000

// Local interface to avoid depending on an unexported concrete type in
// machine.
type pwmCtrl interface {
	Configure(cfg machine.PWMConfig) error
	Channel(pin machine.Pin) (uint8, error)
	Top() uint32
	Set(channel uint8, value uint32)
}

// PWMBySlice selects the controller handle for a slice number (0..7).
func PWMBySlice(slice uint8) pwmCtrl {
	switch slice {
	case 0:
		return machine.PWM0
	case 1:
		return machine.PWM1
	case 2:
		return machine.PWM2
	case 3:
		return machine.PWM3
	case 4:
		return machine.PWM4
	case 5:
		return machine.PWM5
	case 6:
		return machine.PWM6
	default:
		return machine.PWM7
	}
}

type pwmChan struct {
	ctrl pwmCtrl
	ch   uint8
	top  uint32
}

func newPWMChan(ctrl pwmCtrl, pin machine.Pin) (pwmChan, error) {
	if err := ctrl.Configure(machine.PWMConfig{Period: pwmPeriodNs}); err != nil {
		return pwmChan{}, err
	}
	pin.Configure(machine.PinConfig{Mode: machine.PinPWM})
	ch, err := ctrl.Channel(pin)
	if err != nil {
		return pwmChan{}, err
	}
	return pwmChan{ctrl: ctrl, ch: ch, top: ctrl.Top()}, nil
}

// set drives an 8-bit duty value scaled to the slice's top.
func (p pwmChan) set(duty uint8) {
	p.ctrl.Set(p.ch, uint32(duty)*p.top/255)
}

// SinglePWM drives one output channel from positive mode codes 0..255.
type SinglePWM struct {
	out pwmChan
}

func NewSinglePWM(slice uint8, pin machine.Pin) (*SinglePWM, error) {
	out, err := newPWMChan(PWMBySlice(slice), pin)
	if err != nil {
		return nil, err
	}
	return &SinglePWM{out: out}, nil
}

func (d *SinglePWM) Apply(v modes.ModeValue) {
	d.out.set(uint8(mathx.Clamp(v, 0, 255)))
}

// DualPWM drives a FET+AMC pair: positive codes select the FET channel,
// negative codes the AMC channel, scaled code*2+1 as on the reference
// board.
type DualPWM struct {
	fet pwmChan
	amc pwmChan
}

func NewDualPWM(slice uint8, fetPin, amcPin machine.Pin) (*DualPWM, error) {
	ctrl := PWMBySlice(slice)
	fet, err := newPWMChan(ctrl, fetPin)
	if err != nil {
		return nil, err
	}
	amc, err := newPWMChan(ctrl, amcPin)
	if err != nil {
		return nil, err
	}
	return &DualPWM{fet: fet, amc: amc}, nil
}

func (d *DualPWM) Apply(v modes.ModeValue) {
	v = mathx.Clamp(v, -127, 127)
	switch {
	case v > 0:
		d.amc.set(0)
		d.fet.set(uint8(v)<<1 + 1)
	case v < 0:
		d.fet.set(0)
		d.amc.set(uint8(-v)<<1 + 1)
	default:
		d.fet.set(0)
		d.amc.set(0)
	}
}

// -----------------------------------------------------------------------------
// ADC
// -----------------------------------------------------------------------------

var adcInit sync.Once

// ADCSampler reads one analog pin as an 8-bit left-adjusted sample, the
// scale the thresholds are calibrated against.
type ADCSampler struct {
	adc machine.ADC
}

func NewADCSampler(pin machine.Pin) *ADCSampler {
	adcInit.Do(machine.InitADC)
	a := machine.ADC{Pin: pin}
	a.Configure(machine.ADCConfig{})
	return &ADCSampler{adc: a}
}

func (s *ADCSampler) Sample() uint8 {
	return uint8(s.adc.Get() >> 8)
}

// OTCPin is the off-time capacitor channel: sampled once at boot, then
// recharged by driving the pin high for the rest of the session.
type OTCPin struct {
	sampler *ADCSampler
	pin     machine.Pin
}

func NewOTCPin(pin machine.Pin) *OTCPin {
	return &OTCPin{sampler: NewADCSampler(pin), pin: pin}
}

func (o *OTCPin) Sample() uint8 { return o.sampler.Sample() }

func (o *OTCPin) Recharge() {
	o.pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	o.pin.High()
}

// RAMTally keeps the click tally in a plain global, which on this family
// survives the brief power dip of a quick click the same way the
// reference hardware's noinit RAM does.
var ramTally uint8

type RAMTally struct{}

func (RAMTally) Load() uint8  { return ramTally }
func (RAMTally) Save(v uint8) { ramTally = v }
