package modes

// Reference tables for the supported driver boards. Two groups each: a
// plain brightness ladder, and the same ladder with the decorative
// patterns appended.

// Codes reserved near the top of the positive range on single-channel
// boards.
const (
	singleStrobe ModeValue = 254
	singlePolice ModeValue = 253
	singleSOS    ModeValue = 252
)

// Codes reserved just under full drive on dual-channel boards, where the
// usable range is -127..127.
const (
	dualStrobe ModeValue = 126
	dualPolice ModeValue = 125
	dualSOS    ModeValue = 124
)

// SingleReference is the stock two-group table for single-channel boards.
func SingleReference() *Table {
	return &Table{
		Groups: [][]ModeValue{
			{6, 32, 128, 255, 0, 0, 0, 0},
			{6, 32, 128, 255, singleStrobe, singlePolice, singleSOS, 0},
		},
		Special: Special{Strobe: singleStrobe, Police: singlePolice, SOS: singleSOS},
		Full:    255,
	}
}

// SingleCompactReference is the seven-slot variant of the single-channel
// table, for boards whose packed one-byte record caps mode indices at 7.
func SingleCompactReference() *Table {
	return &Table{
		Groups: [][]ModeValue{
			{6, 32, 128, 255, 0, 0, 0},
			{6, 32, 128, 255, singleStrobe, singlePolice, singleSOS},
		},
		Special: Special{Strobe: singleStrobe, Police: singlePolice, SOS: singleSOS},
		Full:    255,
	}
}

// DualReference is the stock two-group table for FET+AMC boards.
// Negative values drive the regulated (AMC) channel, positive values the
// FET channel.
func DualReference() *Table {
	return &Table{
		Groups: [][]ModeValue{
			{-3, -127, 64, 127, 0, 0, 0, 0},
			{-3, -127, 64, 127, dualStrobe, dualPolice, dualSOS, 0},
		},
		Special: Special{Strobe: dualStrobe, Police: dualPolice, SOS: dualSOS},
		Full:    127,
		Turbo:   127,
	}
}
