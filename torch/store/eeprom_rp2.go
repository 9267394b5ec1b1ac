//go:build rp2040 || rp2350

package store

import (
	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/at24cx"

	"torchfw-go/errcode"
)

// EEPROM adapts an AT24Cxx I2C EEPROM to the store port. Only a small
// window at the given base address is used; the chip's erased state is
// the same 0xFF sentinel the wear log expects.
type EEPROM struct {
	dev  at24cx.Device
	base uint16
	size int
}

// NewEEPROM configures the device and claims size bytes at base.
func NewEEPROM(bus drivers.I2C, base uint16, size int) *EEPROM {
	dev := at24cx.New(bus)
	dev.Configure(at24cx.Config{})
	return &EEPROM{dev: dev, base: base, size: size}
}

func (s *EEPROM) Size() int { return s.size }

func (s *EEPROM) ReadByte(addr int) (byte, error) {
	if addr < 0 || addr >= s.size {
		return 0, &errcode.E{C: errcode.InvalidParams, Op: "read", Msg: "address out of range"}
	}
	b, err := s.dev.ReadByte(s.base + uint16(addr))
	if err != nil {
		return 0, &errcode.E{C: errcode.StoreIO, Op: "read", Err: err}
	}
	return b, nil
}

func (s *EEPROM) WriteByte(addr int, b byte) error {
	if addr < 0 || addr >= s.size {
		return &errcode.E{C: errcode.InvalidParams, Op: "write", Msg: "address out of range"}
	}
	if err := s.dev.WriteByte(s.base+uint16(addr), b); err != nil {
		return &errcode.E{C: errcode.StoreIO, Op: "write", Err: err}
	}
	return nil
}

func (s *EEPROM) EraseByte(addr int) error {
	if addr < 0 || addr >= s.size {
		return &errcode.E{C: errcode.InvalidParams, Op: "erase", Msg: "address out of range"}
	}
	if err := s.dev.WriteByte(s.base+uint16(addr), 0xff); err != nil {
		return &errcode.E{C: errcode.StoreIO, Op: "erase", Err: err}
	}
	return nil
}
