// Package store provides ports.Store backends: in-memory for tests and
// the simulator, file-backed for host persistence, and an I2C EEPROM for
// hardware targets.
package store

import (
	"torchfw-go/errcode"
)

// MemStore models EEPROM semantics in RAM: cells start erased (0xFF) and
// a programmed cell must be erased before it can be rewritten. The strict
// model makes wear-leveling bugs fail loudly in tests.
type MemStore struct {
	cells []byte

	// Writes counts WriteByte calls per cell, for endurance assertions.
	Writes []int
}

// NewMemStore returns a fully erased store of the given size.
func NewMemStore(size int) *MemStore {
	s := &MemStore{
		cells:  make([]byte, size),
		Writes: make([]int, size),
	}
	for i := range s.cells {
		s.cells[i] = 0xff
	}
	return s
}

func (s *MemStore) Size() int { return len(s.cells) }

func (s *MemStore) ReadByte(addr int) (byte, error) {
	if addr < 0 || addr >= len(s.cells) {
		return 0, &errcode.E{C: errcode.InvalidParams, Op: "read", Msg: "address out of range"}
	}
	return s.cells[addr], nil
}

func (s *MemStore) WriteByte(addr int, b byte) error {
	if addr < 0 || addr >= len(s.cells) {
		return &errcode.E{C: errcode.InvalidParams, Op: "write", Msg: "address out of range"}
	}
	if s.cells[addr] != 0xff {
		return &errcode.E{C: errcode.StoreIO, Op: "write", Msg: "cell not erased"}
	}
	s.cells[addr] = b
	s.Writes[addr]++
	return nil
}

func (s *MemStore) EraseByte(addr int) error {
	if addr < 0 || addr >= len(s.cells) {
		return &errcode.E{C: errcode.InvalidParams, Op: "erase", Msg: "address out of range"}
	}
	s.cells[addr] = 0xff
	return nil
}

// LoadImage overwrites the cells from a raw image (test setup helper).
func (s *MemStore) LoadImage(img []byte) {
	copy(s.cells, img)
}
