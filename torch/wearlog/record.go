package wearlog

// Record is the logical content of one log slot: where the light was
// (group, mode), how many consecutive short clicks have been seen, and
// whether the session that wrote it was still uncommitted ("short").
type Record struct {
	Group uint8 // 0..15
	Mode  uint8 // 0..15
	Tally uint8 // consecutive short clicks, 0..126
	Short bool  // set on pre-commit, cleared by lock-in
}

// Codec packs a Record into its stored form. Two encodings exist across
// the hardware variants; both describe the same logical record.
type Codec interface {
	Size() int
	Encode(r Record, buf []byte)
	Decode(buf []byte) Record
}

// WideCodec is the canonical two-byte encoding:
//
//	byte 0: S TTTTTTT   (short flag, tally)
//	byte 1: GGGG MMMM   (group, mode)
type WideCodec struct{}

func (WideCodec) Size() int { return 2 }

func (WideCodec) Encode(r Record, buf []byte) {
	t := r.Tally
	// Tally 127 with the flag set would read back as the erased
	// sentinel; saturate one short of it.
	if t > 0x7e {
		t = 0x7e
	}
	b0 := t
	if r.Short {
		b0 |= 0x80
	}
	buf[0] = b0
	buf[1] = r.Group<<4 | r.Mode&0x0f
}

func (WideCodec) Decode(buf []byte) Record {
	return Record{
		Group: buf[1] >> 4,
		Mode:  buf[1] & 0x0f,
		Tally: buf[0] & 0x7f,
		Short: buf[0]&0x80 != 0,
	}
}

// PackedCodec is the reduced one-byte encoding used where the tally lives
// in volatile boot-surviving memory instead of the store:
//
//	byte 0: S GGGG MMM   (short flag, group, mode)
//
// Mode indices are limited to 0..7 in this encoding.
type PackedCodec struct{}

func (PackedCodec) Size() int { return 1 }

func (PackedCodec) Encode(r Record, buf []byte) {
	b := (r.Group&0x0f)<<3 | r.Mode&0x07
	if r.Short {
		b |= 0x80
	}
	// Group 15, mode 7 with the flag set would read back as the erased
	// sentinel and the record would vanish at the next scan. Drop the
	// flag for that one pair: a long boot on the same mode beats losing
	// the position entirely.
	if b == Erased {
		b &^= 0x80
	}
	buf[0] = b
}

func (PackedCodec) Decode(buf []byte) Record {
	return Record{
		Group: (buf[0] >> 3) & 0x0f,
		Mode:  buf[0] & 0x07,
		Short: buf[0]&0x80 != 0,
	}
}
