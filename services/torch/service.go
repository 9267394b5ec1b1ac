// Package torch is the firmware's main service: it resolves the boot
// state, runs the gesture sequences, and supervises the steady output,
// publishing lifecycle events on the bus.
package torch

import (
	"context"
	"time"

	"torchfw-go/bus"
)

var (
	topicConfig = bus.T("config", "torch")
	topicState  = bus.T("torch", "state")
)

// Service runs one Runtime against the bus.
type Service struct {
	RT *Runtime
}

// Start launches the service loop in a goroutine.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	go s.run(ctx, conn)
	return nil
}

func (s *Service) run(ctx context.Context, conn *bus.Connection) {
	cfgSub := conn.Subscribe(topicConfig)
	defer conn.Unsubscribe(cfgSub)

	// The config service publishes retained; give it one beat, then run
	// with profile defaults. The light must come on regardless.
	select {
	case msg := <-cfgSub.Channel():
		if m, ok := msg.Payload.(map[string]any); ok {
			s.RT.Config = applyOverrides(s.RT.Config, m)
		}
	case <-time.After(200 * time.Millisecond):
		println("Info: torch: no config, using", s.RT.Profile.Name, "defaults")
	case <-ctx.Done():
		return
	}

	s.RT.Run(ctx, func(kind string, payload any) {
		switch kind {
		case "state":
			conn.Publish(conn.NewMessage(topicState, payload, true))
		default:
			conn.Publish(conn.NewMessage(bus.T("torch", "event", kind), payload, false))
		}
	})
}
