package wearlog

import (
	"strconv"
	"testing"

	"torchfw-go/torch/ports"
	"torchfw-go/torch/store"
)

func newWideLog(t *testing.T, size int) (*Log, *store.MemStore) {
	t.Helper()
	st := store.NewMemStore(size)
	l, err := New(st, WideCodec{}, ports.NopGuard{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return l, st
}

func TestNewGeometry(t *testing.T) {
	if _, err := New(store.NewMemStore(31), WideCodec{}, nil); err == nil {
		t.Error("odd store size accepted for a two-byte codec")
	}
	if _, err := New(store.NewMemStore(0), WideCodec{}, nil); err == nil {
		t.Error("empty store accepted")
	}
	if _, err := New(store.NewMemStore(31), PackedCodec{}, nil); err != nil {
		t.Errorf("one-byte codec on odd store size: %v", err)
	}
}

func TestWideCodecRoundTrip(t *testing.T) {
	tests := []Record{
		{},
		{Group: 1, Mode: 3, Tally: 5, Short: true},
		{Group: 15, Mode: 15, Tally: 0x7e},
		{Group: 0, Mode: 0, Tally: 1, Short: true},
	}
	var buf [2]byte
	for _, r := range tests {
		WideCodec{}.Encode(r, buf[:])
		if got := (WideCodec{}).Decode(buf[:]); got != r {
			t.Errorf("round trip %+v = %+v", r, got)
		}
	}
}

// TestWideCodecErasedCollision: tally 127 with the short flag would encode
// byte 0 as 0xFF, indistinguishable from an erased cell. The encoder must
// saturate below it.
func TestWideCodecErasedCollision(t *testing.T) {
	var buf [2]byte
	WideCodec{}.Encode(Record{Tally: 0x7f, Short: true}, buf[:])
	if buf[0] == Erased {
		t.Fatalf("encoded first byte %#x collides with the erased sentinel", buf[0])
	}
	if got := (WideCodec{}).Decode(buf[:]).Tally; got != 0x7e {
		t.Errorf("saturated tally = %d, want 126", got)
	}
}

func TestPackedCodecRoundTrip(t *testing.T) {
	tests := []Record{
		{},
		{Group: 2, Mode: 5, Short: true},
		{Group: 15, Mode: 7},
	}
	var buf [1]byte
	for _, r := range tests {
		PackedCodec{}.Encode(r, buf[:])
		if got := (PackedCodec{}).Decode(buf[:]); got != r {
			t.Errorf("round trip %+v = %+v", r, got)
		}
	}
}

// TestPackedCodecErasedCollision: the one pair whose packed form would
// equal the erased sentinel keeps its position and loses only the short
// flag.
func TestPackedCodecErasedCollision(t *testing.T) {
	var buf [1]byte
	PackedCodec{}.Encode(Record{Group: 15, Mode: 7, Short: true}, buf[:])
	if buf[0] == Erased {
		t.Fatalf("encoded byte %#x collides with the erased sentinel", buf[0])
	}
	got := PackedCodec{}.Decode(buf[:])
	if got.Group != 15 || got.Mode != 7 {
		t.Errorf("decoded pair = (%d, %d), want (15, 7)", got.Group, got.Mode)
	}
	if got.Short {
		t.Error("short flag survived the sentinel guard")
	}
}

func TestFindEmpty(t *testing.T) {
	l, _ := newWideLog(t, 32)
	_, found, err := l.Find()
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if found {
		t.Fatal("found a record in an erased store")
	}
	// The first append after a fresh Find must land in slot 0.
	if err := l.Append(Record{Group: 1, Mode: 2}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if l.Pos() != 0 {
		t.Errorf("first append landed at %d, want 0", l.Pos())
	}
}

func TestFindAfterReopen(t *testing.T) {
	l, st := newWideLog(t, 32)
	if _, _, err := l.Find(); err != nil {
		t.Fatal(err)
	}
	want := Record{Group: 1, Mode: 3, Tally: 2, Short: true}
	for i := 0; i < 5; i++ {
		if err := l.Append(want); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	// A new log over the same store, as after a power cycle.
	l2, err := New(st, WideCodec{}, ports.NopGuard{})
	if err != nil {
		t.Fatal(err)
	}
	rec, found, err := l2.Find()
	if err != nil || !found {
		t.Fatalf("Find = (%v, %v), want record", found, err)
	}
	if rec != want {
		t.Errorf("reread record = %+v, want %+v", rec, want)
	}
	if l2.Pos() != l.Pos() {
		t.Errorf("reopened position %d, want %d", l2.Pos(), l.Pos())
	}
}

// TestAppendWrap drives 16 appends through a 32-byte store with 2-byte
// records: positions must walk every slot and wrap back to 0, and after
// each append exactly one slot may be non-erased.
func TestAppendWrap(t *testing.T) {
	l, st := newWideLog(t, 32)
	if _, _, err := l.Find(); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 17; i++ {
		if err := l.Append(Record{Group: 0, Mode: uint8(i % 4)}); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
		wantPos := (i * 2) % 32
		if l.Pos() != wantPos {
			t.Fatalf("append %d: pos = %d, want %d", i, l.Pos(), wantPos)
		}
		if n := liveSlots(t, st, 2); n != 1 {
			t.Fatalf("append %d: %d live slots, want exactly 1", i, n)
		}
	}
}

// TestWriteBeforeErase checks the commit order: the new record is fully
// written before any byte of the old slot is erased.
func TestWriteBeforeErase(t *testing.T) {
	st := store.NewMemStore(32)
	ops := &opStore{MemStore: st}
	l, err := New(ops, WideCodec{}, ports.NopGuard{})
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := l.Find(); err != nil {
		t.Fatal(err)
	}
	if err := l.Append(Record{Mode: 1}); err != nil {
		t.Fatal(err)
	}

	ops.log = nil
	if err := l.Append(Record{Mode: 2}); err != nil {
		t.Fatal(err)
	}
	want := []string{"write 2", "write 3", "erase 0", "erase 1"}
	if len(ops.log) != len(want) {
		t.Fatalf("op log %v, want %v", ops.log, want)
	}
	for i, op := range want {
		if ops.log[i] != op {
			t.Fatalf("op log %v, want %v", ops.log, want)
		}
	}
}

// TestEnduranceSpread: wear leveling must spread writes evenly, never
// hammering one cell.
func TestEnduranceSpread(t *testing.T) {
	l, st := newWideLog(t, 32)
	if _, _, err := l.Find(); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 160; i++ {
		if err := l.Append(Record{Mode: uint8(i % 4)}); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}
	for addr, n := range st.Writes {
		if n != 10 {
			t.Errorf("cell %d written %d times, want 10", addr, n)
		}
	}
}

func TestReset(t *testing.T) {
	l, st := newWideLog(t, 32)
	if _, _, err := l.Find(); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if err := l.Append(Record{Mode: 1}); err != nil {
			t.Fatal(err)
		}
	}
	if err := l.Reset(); err != nil {
		t.Fatal(err)
	}
	if n := liveSlots(t, st, 2); n != 0 {
		t.Fatalf("%d live slots after reset", n)
	}
	// Behaves like a fresh device again.
	if _, found, _ := l.Find(); found {
		t.Error("record found after reset")
	}
	if err := l.Append(Record{Mode: 2}); err != nil {
		t.Fatal(err)
	}
	if l.Pos() != 0 {
		t.Errorf("first append after reset at %d, want 0", l.Pos())
	}
}

func liveSlots(t *testing.T, st *store.MemStore, rs int) int {
	t.Helper()
	n := 0
	for off := 0; off < st.Size(); off += rs {
		b, err := st.ReadByte(off)
		if err != nil {
			t.Fatal(err)
		}
		if b != Erased {
			n++
		}
	}
	return n
}

// opStore records the order of mutating operations.
type opStore struct {
	*store.MemStore
	log []string
}

func (s *opStore) WriteByte(addr int, b byte) error {
	s.log = append(s.log, "write "+strconv.Itoa(addr))
	return s.MemStore.WriteByte(addr, b)
}

func (s *opStore) EraseByte(addr int) error {
	s.log = append(s.log, "erase "+strconv.Itoa(addr))
	return s.MemStore.EraseByte(addr)
}
