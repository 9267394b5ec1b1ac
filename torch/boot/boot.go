// Package boot resolves the mode to run after a power cycle: it reads the
// last log record, classifies the previous session as short or long,
// applies the configured memory policy, and pre-commits the result so the
// next boot can in turn classify this session.
package boot

import (
	"torchfw-go/errcode"
	"torchfw-go/torch/modes"
	"torchfw-go/torch/wearlog"
)

// Policy selects what a long (committed) session resumes into.
type Policy uint8

const (
	PolicyLast  Policy = iota // resume the stored mode unchanged
	PolicyFirst               // reset to mode 0
	PolicyNext                // advance to the next mode regardless
)

// ParsePolicy maps a config string to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "", "last":
		return PolicyLast, nil
	case "first":
		return PolicyFirst, nil
	case "next":
		return PolicyNext, nil
	}
	return PolicyLast, &errcode.E{C: errcode.InvalidConfig, Op: "policy", Msg: s}
}

// Classifier decides whether the previous session was a short click.
type Classifier interface {
	ShortBoot(rec wearlog.Record, found bool) bool
}

// FlagClassifier trusts the short marker left in the record: the tick
// handler clears it after the lock time, so a surviving marker means the
// light was cut early.
type FlagClassifier struct{}

func (FlagClassifier) ShortBoot(rec wearlog.Record, found bool) bool {
	return found && rec.Short
}

// Sampler is the analog input consumed by OTCClassifier.
type Sampler interface {
	Sample() uint8
}

// OTCClassifier reads the off-time capacitor shortly after boot: a
// voltage still above the threshold means the power gap was brief.
type OTCClassifier struct {
	Sampler   Sampler
	Threshold uint8
}

func (c OTCClassifier) ShortBoot(rec wearlog.Record, found bool) bool {
	if !found || c.Sampler == nil {
		return false
	}
	c.Sampler.Sample() // first read settles the ADC mux
	return c.Sampler.Sample() > c.Threshold
}

// TallyStore keeps the short-click tally outside the record for the
// packed encoding (volatile RAM that survives a quick power dip).
type TallyStore interface {
	Load() uint8
	Save(uint8)
}

// Config is the resolver's policy knobs.
type Config struct {
	Policy Policy

	// BattcheckClicks is the consecutive-short-click threshold for the
	// battery-check gesture; 0 disables it.
	BattcheckClicks uint8

	// VolatileTally is set when the codec does not persist the tally.
	VolatileTally TallyStore
}

// Result is the resolved boot state handed to main control.
type Result struct {
	Group uint8
	Mode  uint8
	Tally uint8
	Value modes.ModeValue
	Fresh bool // store was empty
	Short bool // previous session classified short
}

// Resolve runs once per boot. It always pre-commits the resolved state
// with the short marker set, so the next boot sees this session as a
// short-click candidate until the lock-in clears it.
func Resolve(log *wearlog.Log, table *modes.Table, cls Classifier, cfg Config) (Result, error) {
	rec, found, err := log.Find()
	if err != nil {
		return Result{}, err
	}

	var g, m, tally uint8
	short := false
	if found {
		g, m = table.Reduce(rec.Group, rec.Mode)
		if cfg.VolatileTally != nil {
			tally = cfg.VolatileTally.Load()
		} else {
			tally = rec.Tally
		}
		if cls.ShortBoot(rec, found) {
			short = true
			m = table.Next(g, m)
			if tally < 0x7e {
				tally++
			}
		} else {
			switch cfg.Policy {
			case PolicyFirst:
				m = 0
			case PolicyNext:
				m = table.Next(g, m)
			}
			tally = 0
		}
	}

	if cfg.VolatileTally != nil {
		cfg.VolatileTally.Save(tally)
	}

	res := Result{
		Group: g, Mode: m, Tally: tally,
		Value: table.Value(g, m),
		Fresh: !found, Short: short,
	}
	err = log.Append(wearlog.Record{Group: g, Mode: m, Tally: tally, Short: true})
	return res, err
}

// BattcheckDue reports whether the battery-check gesture fired.
func BattcheckDue(res Result, cfg Config) bool {
	return cfg.BattcheckClicks > 0 && res.Tally >= cfg.BattcheckClicks
}
