// Package diag is a line-oriented diagnostics console: it dumps the wear
// log, the shared tick counter and the last resolved state over any
// serial transport (UART on hardware, stdin on host builds).
package diag

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/google/shlex"

	"torchfw-go/bus"
	"torchfw-go/torch/modes"
	"torchfw-go/torch/supervisor"
	"torchfw-go/torch/wearlog"
)

var topicState = bus.T("torch", "state")

// Service wires the console to one runtime's log and counter.
type Service struct {
	In    io.Reader
	Out   io.Writer
	Log   *wearlog.Log
	Ticks *supervisor.Counter
	Table *modes.Table

	Prompt string

	lastState any
}

// Start launches the reader loop in a goroutine.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	if s.Prompt == "" {
		s.Prompt = "torch> "
	}
	go s.watchState(ctx, conn)
	go s.readLoop(ctx)
	return nil
}

func (s *Service) watchState(ctx context.Context, conn *bus.Connection) {
	sub := conn.Subscribe(topicState)
	defer conn.Unsubscribe(sub)
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-sub.Channel():
			s.lastState = msg.Payload
		}
	}
}

func (s *Service) readLoop(ctx context.Context) {
	sc := bufio.NewScanner(s.In)
	fmt.Fprint(s.Out, s.Prompt)
	for sc.Scan() {
		if ctx.Err() != nil {
			return
		}
		s.Exec(sc.Text())
		fmt.Fprint(s.Out, s.Prompt)
	}
}

// Exec runs a single console command line.
func (s *Service) Exec(line string) {
	args, err := shlex.Split(line)
	if err != nil {
		fmt.Fprintln(s.Out, "parse error:", err)
		return
	}
	if len(args) == 0 {
		return
	}

	switch args[0] {
	case "help":
		fmt.Fprintln(s.Out, "commands: state dump ticks table reset help")

	case "state":
		if s.lastState == nil {
			fmt.Fprintln(s.Out, "no state yet")
			return
		}
		fmt.Fprintf(s.Out, "%+v\n", s.lastState)

	case "ticks":
		fmt.Fprintln(s.Out, s.Ticks.Load())

	case "dump":
		s.dump()

	case "table":
		s.table()

	case "reset":
		if err := s.Log.Reset(); err != nil {
			fmt.Fprintln(s.Out, "reset:", err)
			return
		}
		fmt.Fprintln(s.Out, "log erased; takes effect next boot")

	default:
		fmt.Fprintln(s.Out, "unknown command:", args[0])
	}
}

// dump prints the raw store image one slot per line, marking the current
// slot.
func (s *Service) dump() {
	size := s.Log.Slots() * s.Log.RecordSize()
	buf := make([]byte, size)
	if err := s.Log.Snapshot(buf); err != nil {
		fmt.Fprintln(s.Out, "snapshot:", err)
		return
	}
	rs := s.Log.RecordSize()
	for off := 0; off < size; off += rs {
		mark := " "
		if off == s.Log.Pos() {
			mark = "*"
		}
		fmt.Fprintf(s.Out, "%s %02x:", mark, off)
		for i := 0; i < rs; i++ {
			fmt.Fprintf(s.Out, " %02x", buf[off+i])
		}
		fmt.Fprintln(s.Out)
	}
}

func (s *Service) table() {
	for gi := 0; gi < s.Table.GroupCount(); gi++ {
		fmt.Fprintf(s.Out, "group %d (len %d):", gi, s.Table.EffectiveLen(uint8(gi)))
		for _, v := range s.Table.Groups[gi] {
			fmt.Fprintf(s.Out, " %d", v)
		}
		fmt.Fprintln(s.Out)
	}
}
