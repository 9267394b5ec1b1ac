// Command powersim replays power-cycle gestures against the resolver
// pipeline on the host. It runs a scripted YAML scenario, or an
// interactive console when no scenario is given.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/google/shlex"

	"torchfw-go/torch/ports"
	"torchfw-go/torch/store"
)

func main() {
	var (
		scenario = flag.String("scenario", "", "scenario yaml; empty starts the interactive console")
		variant  = flag.String("variant", "single-wide", "behavior profile")
		policy   = flag.String("policy", "", "override power-on policy (last|first|next)")
		storeImg = flag.String("store", "", "store image file; empty keeps the log in memory")
		battery  = flag.Uint("battery", 180, "fixed battery sample, 8-bit scale")
	)
	flag.Parse()

	if *scenario != "" {
		sc, err := LoadScenario(*scenario)
		if err != nil {
			fatal(err)
		}
		if sc.Store == "" {
			sc.Store = *storeImg
		}
		if err := runScenario(sc); err != nil {
			fatal(err)
		}
		return
	}

	st, cleanup, err := openStore(*storeImg, 32)
	if err != nil {
		fatal(err)
	}
	defer cleanup()

	dev, err := NewDevice(*variant, *policy, st, uint8(*battery))
	if err != nil {
		fatal(err)
	}
	console(dev, os.Stdin, os.Stdout)
}

func runScenario(sc *Scenario) error {
	st, cleanup, err := openStore(sc.Store, 32)
	if err != nil {
		return err
	}
	defer cleanup()

	dev, err := NewDevice(sc.Variant, sc.Policy, st, sc.Battery)
	if err != nil {
		return err
	}
	for i, c := range sc.Clicks {
		rep, err := dev.PowerCycle(c.OnMs, c.OffMs)
		if err != nil {
			return fmt.Errorf("click %d: %w", i, err)
		}
		printReport(os.Stdout, i, rep)
	}
	return nil
}

func openStore(path string, size int) (ports.Store, func(), error) {
	if path == "" {
		return store.NewMemStore(size), func() {}, nil
	}
	fs, err := store.OpenFileStore(path, size)
	if err != nil {
		return nil, nil, err
	}
	return fs, func() { _ = fs.Close() }, nil
}

// console is the interactive loop. One command per line, shell quoting
// rules.
func console(dev *Device, in io.Reader, out io.Writer) {
	var (
		boots   int
		lastRep Report
		haveRep bool
	)
	fmt.Fprintln(out, "powersim console; 'help' lists commands")
	sc := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "sim> ")
		if !sc.Scan() {
			return
		}
		args, err := shlex.Split(sc.Text())
		if err != nil {
			fmt.Fprintln(out, "parse:", err)
			continue
		}
		if len(args) == 0 {
			continue
		}
		switch args[0] {
		case "help":
			fmt.Fprintln(out, "click [n] [offMs]  n quick clicks (on 120ms)")
			fmt.Fprintln(out, "hold <onMs> [offMs]  one long press")
			fmt.Fprintln(out, "state  last boot report")
			fmt.Fprintln(out, "dump   store image")
			fmt.Fprintln(out, "reset  erase the store")
			fmt.Fprintln(out, "quit")
		case "click":
			n := argInt(args, 1, 1)
			offMs := argInt(args, 2, 300)
			for i := 0; i < n; i++ {
				rep, err := dev.PowerCycle(120, offMs)
				if err != nil {
					fmt.Fprintln(out, "cycle:", err)
					break
				}
				printReport(out, boots, rep)
				lastRep, haveRep = rep, true
				boots++
			}
		case "hold":
			if len(args) < 2 {
				fmt.Fprintln(out, "usage: hold <onMs> [offMs]")
				continue
			}
			onMs := argInt(args, 1, 0)
			if onMs <= 0 {
				fmt.Fprintln(out, "hold: on time must be positive")
				continue
			}
			rep, err := dev.PowerCycle(onMs, argInt(args, 2, 300))
			if err != nil {
				fmt.Fprintln(out, "cycle:", err)
				continue
			}
			printReport(out, boots, rep)
			lastRep, haveRep = rep, true
			boots++
		case "state":
			if !haveRep {
				fmt.Fprintln(out, "no boots yet")
				continue
			}
			printReport(out, boots-1, lastRep)
		case "dump":
			img, err := dev.DumpStore()
			if err != nil {
				fmt.Fprintln(out, "dump:", err)
				continue
			}
			fmt.Fprintf(out, "% x\n", img)
		case "reset":
			if err := dev.Reset(); err != nil {
				fmt.Fprintln(out, "reset:", err)
				continue
			}
			boots, haveRep = 0, false
			fmt.Fprintln(out, "store erased")
		case "quit", "exit":
			return
		default:
			fmt.Fprintln(out, "unknown command:", args[0])
		}
	}
}

func argInt(args []string, i, def int) int {
	if i >= len(args) {
		return def
	}
	n, err := strconv.Atoi(args[i])
	if err != nil {
		return def
	}
	return n
}

func printReport(out io.Writer, boot int, rep Report) {
	b := rep.Boot
	fmt.Fprintf(out, "boot %d: group=%d mode=%d value=%d tally=%d short=%v level=%d",
		boot, b.Group, b.Mode, b.Value, b.Tally, b.Short, rep.Level)
	if b.Pattern != "" {
		fmt.Fprintf(out, " pattern=%s", b.Pattern)
	}
	fmt.Fprintln(out)
	for _, ev := range rep.Events {
		fmt.Fprintln(out, "  event:", ev)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "powersim:", err)
	os.Exit(1)
}
