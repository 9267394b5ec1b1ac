package torch

import (
	"context"

	"torchfw-go/x/timex"

	"torchfw-go/torch/boot"
	"torchfw-go/torch/modes"
	"torchfw-go/torch/ports"
	"torchfw-go/torch/sequence"
	"torchfw-go/torch/supervisor"
	"torchfw-go/torch/wearlog"
)

// GroupChangeSlot is the reserved mode index that triggers the
// group-change sequence.
const GroupChangeSlot = 0

// Hardware bundles the peripheral-layer collaborators a variant runs on.
type Hardware struct {
	Disp  ports.Display
	Clock ports.Clock
	Batt  ports.Analog
	OTC   ports.OTC // required by OTC-classified profiles
	Store ports.Store
	Guard ports.Guard
	Tally boot.TallyStore // required by volatile-tally profiles
}

// State is the retained boot outcome published on torch/state.
type State struct {
	Variant string `json:"variant"`
	Group   int    `json:"group"`
	Mode    int    `json:"mode"`
	Value   int    `json:"value"`
	Tally   int    `json:"tally"`
	Fresh   bool   `json:"fresh"`
	Short   bool   `json:"short"`
	Pattern string `json:"pattern,omitempty"`
	TS      int64  `json:"ts_ms"`
}

// Runtime is one variant's fully wired pipeline.
type Runtime struct {
	Profile Profile
	Config  Config
	Log     *wearlog.Log
	hw      Hardware
	Ticks   *supervisor.Counter
}

// Build wires a profile to its hardware and returns a ready runtime.
func Build(variant string, hw Hardware) (*Runtime, error) {
	p, err := Lookup(variant)
	if err != nil {
		return nil, err
	}
	if err := p.Table.Validate(); err != nil {
		return nil, err
	}
	log, err := wearlog.New(hw.Store, p.Codec, hw.Guard)
	if err != nil {
		return nil, err
	}
	return &Runtime{
		Profile: p,
		Config:  p.Defaults,
		Log:     log,
		hw:      hw,
		Ticks:   &supervisor.Counter{},
	}, nil
}

func (rt *Runtime) classifier() boot.Classifier {
	if rt.Profile.Classify == ClassifyOTC {
		return boot.OTCClassifier{Sampler: rt.hw.OTC, Threshold: rt.Config.OTCThreshold}
	}
	return boot.FlagClassifier{}
}

func (rt *Runtime) bootConfig() boot.Config {
	cfg := boot.Config{
		Policy:          rt.Config.Policy,
		BattcheckClicks: rt.Config.BattcheckClicks,
	}
	if rt.Profile.VolatileTally {
		cfg.VolatileTally = rt.hw.Tally
	}
	return cfg
}

// Run executes one full power-on session: resolve, gestures, then the
// pattern loop or the runtime supervisor. It blocks until ctx is
// cancelled (on hardware: until power loss). emit receives lifecycle
// events; it may be nil.
func (rt *Runtime) Run(ctx context.Context, emit func(kind string, payload any)) {
	if emit == nil {
		emit = func(string, any) {}
	}
	d := sequence.Deps{Disp: rt.hw.Disp, Clock: rt.hw.Clock}
	table := rt.Profile.Table
	bootCfg := rt.bootConfig()

	res, err := boot.Resolve(rt.Log, table, rt.classifier(), bootCfg)
	if err != nil {
		// Availability over durability: keep running on whatever the
		// resolver salvaged.
		println("Warn: boot resolve:", err.Error())
	}
	if rt.hw.OTC != nil {
		rt.hw.OTC.Recharge()
	}

	g, m := res.Group, res.Mode
	emit("state", rt.stateFor(res, table))

	if boot.BattcheckDue(res, bootCfg) {
		n, err := sequence.Battcheck(rt.Log, d, rt.hw.Batt, table.Full, g, m)
		if err != nil {
			println("Warn: battcheck commit:", err.Error())
		}
		if rt.hw.Tally != nil {
			rt.hw.Tally.Save(0)
		}
		emit("battcheck", n)
	}

	if m == GroupChangeSlot {
		var err error
		g, m, err = sequence.GroupChange(rt.Log, table, d, rt.Config.LockTicks, g, m)
		if err != nil {
			println("Warn: group change commit:", err.Error())
		}
		emit("groupchange", map[string]any{"group": int(g), "mode": int(m)})
	}

	value := table.Value(g, m)
	if pat, ok := table.Pattern(value); ok {
		emit("pattern", patternName(pat))
		sequence.RunPattern(ctx, pat, d, table.Full)
		return
	}

	supervisor.Run(ctx, rt.supervisorConfig(), rt.supervisorDeps(emit), g, m)
}

func (rt *Runtime) supervisorConfig() supervisor.Config {
	cfg := supervisor.Config{
		PollTicks:   rt.Config.PollTicks,
		LowWater:    rt.Config.LowWater,
		LowReadings: rt.Config.LowReadings,
		TurboLoops:  rt.Config.TurboLoops,
	}
	// OTC boards classify by capacitor charge; only flag boards commit a
	// lock-in from the tick counter.
	if rt.Profile.Classify == ClassifyFlag {
		cfg.LockTicks = rt.Config.LockTicks
	}
	return cfg
}

func (rt *Runtime) supervisorDeps(emit func(kind string, payload any)) supervisor.Deps {
	dep := supervisor.Deps{
		Disp:  rt.hw.Disp,
		Clock: rt.hw.Clock,
		Batt:  rt.hw.Batt,
		Log:   rt.Log,
		Table: rt.Profile.Table,
		Ticks: rt.Ticks,
		Emit: func(e supervisor.Event) {
			emit(e.Kind, map[string]any{"level": int(e.Level), "sample": int(e.Sample)})
		},
	}
	if rt.Profile.VolatileTally {
		dep.Tally = rt.hw.Tally
	}
	return dep
}

func (rt *Runtime) stateFor(res boot.Result, table *modes.Table) State {
	st := State{
		Variant: rt.Profile.Name,
		Group:   int(res.Group),
		Mode:    int(res.Mode),
		Value:   int(res.Value),
		Tally:   int(res.Tally),
		Fresh:   res.Fresh,
		Short:   res.Short,
		TS:      timex.NowMs(),
	}
	if pat, ok := table.Pattern(res.Value); ok {
		st.Pattern = patternName(pat)
	}
	return st
}

func patternName(p modes.Pattern) string {
	switch p {
	case modes.PatternStrobe:
		return "strobe"
	case modes.PatternPolice:
		return "police"
	case modes.PatternSOS:
		return "sos"
	}
	return ""
}
