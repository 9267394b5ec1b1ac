//go:build !(rp2040 || rp2350)

// Host demo: boots the single-channel profile a few times against an
// in-memory store and prints what each power cycle resolved to. Use
// cmd/powersim for scripted scenarios.
package main

import (
	"context"
	"fmt"

	"torchfw-go/platform"
	torchsvc "torchfw-go/services/torch"
	"torchfw-go/torch/store"
)

func main() {
	st := store.NewMemStore(32)

	// Three quick clicks walk down the mode list.
	for i := 0; i < 3; i++ {
		rt, err := torchsvc.Build("single-wide", torchsvc.Hardware{
			Disp:  &platform.ConsoleDisplay{},
			Clock: platform.TickClock{},
			Batt:  platform.FixedBattery{Value: 180},
			Store: st,
		})
		if err != nil {
			fmt.Println("build:", err)
			return
		}

		ctx, cancel := context.WithCancel(context.Background())
		rt.Run(ctx, func(kind string, payload any) {
			if kind == "state" {
				fmt.Printf("boot %d: %+v\n", i, payload)
				cancel() // quick click: cut power right after resolve
			}
		})
	}

	var img [32]byte
	rt, _ := torchsvc.Build("single-wide", torchsvc.Hardware{Store: st})
	_ = rt.Log.Snapshot(img[:])
	fmt.Printf("store image: % x\n", img)
}
