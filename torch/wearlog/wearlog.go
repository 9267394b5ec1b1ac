// Package wearlog implements the wear-leveled, append-only record log
// kept in the device's byte-addressable non-volatile store. Each append
// lands in the next slot of a circular region; the previous slot is
// erased only after the new record is durably written, so a power cut
// mid-transition leaves the new record valid and at worst a stale,
// erasable old one.
package wearlog

import (
	"torchfw-go/errcode"
	"torchfw-go/torch/ports"
)

// Erased is the sentinel value of a cleared store cell.
const Erased = 0xff

// Log is the wear-leveled record log. All access runs under the guard so
// a tick handler can never observe a half-written transition.
type Log struct {
	store ports.Store
	codec Codec
	guard ports.Guard
	pos   int // byte offset of the current record's slot
}

// New validates the store geometry against the codec and returns a log
// positioned for Find.
func New(store ports.Store, codec Codec, guard ports.Guard) (*Log, error) {
	rs := codec.Size()
	size := store.Size()
	if size <= 0 || rs <= 0 || rs > 2 || size%rs != 0 {
		return nil, &errcode.E{C: errcode.StoreGeometry, Op: "new",
			Msg: "store size must be a positive multiple of the record size (1 or 2)"}
	}
	if guard == nil {
		guard = ports.NopGuard{}
	}
	return &Log{store: store, codec: codec, guard: guard}, nil
}

// RecordSize returns the slot width in bytes.
func (l *Log) RecordSize() int { return l.codec.Size() }

// Slots returns the number of slots in the store.
func (l *Log) Slots() int { return l.store.Size() / l.codec.Size() }

// Pos returns the byte offset of the current slot.
func (l *Log) Pos() int { return l.pos }

// Find scans slot positions from 0 and returns the first slot whose
// first byte is not the erased sentinel. A fully erased store returns
// found == false and leaves the log positioned so that the next Append
// lands in slot 0.
func (l *Log) Find() (Record, bool, error) {
	l.guard.Lock()
	defer l.guard.Unlock()

	rs := l.codec.Size()
	size := l.store.Size()
	var buf [2]byte

	for off := 0; off < size; off += rs {
		b, err := l.store.ReadByte(off)
		if err != nil {
			return Record{}, false, &errcode.E{C: errcode.StoreIO, Op: "find", Err: err}
		}
		if b == Erased {
			continue
		}
		buf[0] = b
		for i := 1; i < rs; i++ {
			buf[i], err = l.store.ReadByte(off + i)
			if err != nil {
				return Record{}, false, &errcode.E{C: errcode.StoreIO, Op: "find", Err: err}
			}
		}
		l.pos = off
		return l.codec.Decode(buf[:rs]), true, nil
	}

	// Fresh device: park on the last slot so the next append wraps to 0.
	l.pos = size - rs
	return Record{}, false, nil
}

// Append writes r into the next slot (wrapped), waits for the write, then
// erases the previous slot. The write/erase pair runs inside the guard's
// critical section.
func (l *Log) Append(r Record) error {
	l.guard.Lock()
	defer l.guard.Unlock()

	rs := l.codec.Size()
	old := l.pos
	l.pos = (l.pos + rs) % l.store.Size()

	var buf [2]byte
	l.codec.Encode(r, buf[:rs])

	// New record first.
	for i := 0; i < rs; i++ {
		if err := l.store.WriteByte(l.pos+i, buf[i]); err != nil {
			return &errcode.E{C: errcode.StoreIO, Op: "append", Err: err}
		}
	}
	// Then retire the old slot.
	for i := 0; i < rs; i++ {
		if err := l.store.EraseByte(old + i); err != nil {
			return &errcode.E{C: errcode.StoreIO, Op: "append", Err: err}
		}
	}
	return nil
}

// Reset erases every slot and re-parks the log as on a fresh device.
func (l *Log) Reset() error {
	l.guard.Lock()
	defer l.guard.Unlock()

	size := l.store.Size()
	for i := 0; i < size; i++ {
		if err := l.store.EraseByte(i); err != nil {
			return &errcode.E{C: errcode.StoreIO, Op: "reset", Err: err}
		}
	}
	l.pos = size - l.codec.Size()
	return nil
}

// Snapshot copies the raw store contents into dst (sized Store.Size()),
// for the diagnostics console and external harnesses.
func (l *Log) Snapshot(dst []byte) error {
	l.guard.Lock()
	defer l.guard.Unlock()

	size := l.store.Size()
	if len(dst) < size {
		return &errcode.E{C: errcode.InvalidParams, Op: "snapshot", Msg: "buffer too small"}
	}
	for i := 0; i < size; i++ {
		b, err := l.store.ReadByte(i)
		if err != nil {
			return &errcode.E{C: errcode.StoreIO, Op: "snapshot", Err: err}
		}
		dst[i] = b
	}
	return nil
}
