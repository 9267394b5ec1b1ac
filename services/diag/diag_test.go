package diag

import (
	"strings"
	"testing"

	"torchfw-go/torch/modes"
	"torchfw-go/torch/ports"
	"torchfw-go/torch/store"
	"torchfw-go/torch/supervisor"
	"torchfw-go/torch/wearlog"
)

func newService(t *testing.T) (*Service, *strings.Builder) {
	t.Helper()
	l, err := wearlog.New(store.NewMemStore(8), wearlog.WideCodec{}, ports.NopGuard{})
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := l.Find(); err != nil {
		t.Fatal(err)
	}
	out := &strings.Builder{}
	return &Service{
		Out:   out,
		Log:   l,
		Ticks: &supervisor.Counter{},
		Table: modes.SingleReference(),
	}, out
}

func TestExecTicks(t *testing.T) {
	s, out := newService(t)
	s.Ticks.Inc()
	s.Ticks.Inc()
	s.Exec("ticks")
	if got := strings.TrimSpace(out.String()); got != "2" {
		t.Errorf("ticks output = %q, want 2", got)
	}
}

func TestExecDump(t *testing.T) {
	s, out := newService(t)
	if err := s.Log.Append(wearlog.Record{Group: 1, Mode: 2, Short: true}); err != nil {
		t.Fatal(err)
	}
	s.Exec("dump")

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("dump printed %d lines, want one per slot (4):\n%s", len(lines), out.String())
	}
	// Slot 0 holds the record and is the current position.
	if !strings.HasPrefix(lines[0], "*") {
		t.Errorf("current slot not marked: %q", lines[0])
	}
	if !strings.Contains(lines[0], "80 12") {
		t.Errorf("slot 0 = %q, want encoded record 80 12", lines[0])
	}
	if !strings.Contains(lines[1], "ff ff") {
		t.Errorf("slot 1 = %q, want erased", lines[1])
	}
}

func TestExecTable(t *testing.T) {
	s, out := newService(t)
	s.Exec("table")
	if !strings.Contains(out.String(), "group 0 (len 4):") {
		t.Errorf("table output missing group line:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "group 1 (len 7):") {
		t.Errorf("table output missing group line:\n%s", out.String())
	}
}

func TestExecState(t *testing.T) {
	s, out := newService(t)
	s.Exec("state")
	if !strings.Contains(out.String(), "no state yet") {
		t.Errorf("output = %q", out.String())
	}

	out.Reset()
	s.lastState = map[string]any{"mode": 2}
	s.Exec("state")
	if !strings.Contains(out.String(), "mode:2") {
		t.Errorf("output = %q", out.String())
	}
}

func TestExecUnknownAndEmpty(t *testing.T) {
	s, out := newService(t)
	s.Exec("")
	if out.Len() != 0 {
		t.Errorf("empty line produced output %q", out.String())
	}
	s.Exec("reboot")
	if !strings.Contains(out.String(), "unknown command") {
		t.Errorf("output = %q", out.String())
	}
}
