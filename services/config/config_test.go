package config

import (
	"context"
	"testing"
	"time"

	"torchfw-go/bus"
)

func TestPublishConfigSections(t *testing.T) {
	b := bus.NewBus(8)
	listener := b.NewConnection("test")
	torchSub := listener.Subscribe(bus.T("config", "torch"))
	diagSub := listener.Subscribe(bus.T("config", "diag"))

	ctx := context.WithValue(context.Background(), CtxVariantKey, "dual-otc")
	if err := NewConfigService().publishConfig(ctx, b.NewConnection("config")); err != nil {
		t.Fatalf("publishConfig: %v", err)
	}

	msg := recv(t, torchSub)
	if !msg.Retained {
		t.Error("torch section not retained")
	}
	m, ok := msg.Payload.(map[string]any)
	if !ok {
		t.Fatalf("torch payload %T, want object", msg.Payload)
	}
	if m["policy"] != "last" {
		t.Errorf("policy = %v, want last", m["policy"])
	}
	for _, key := range []string{"battcheck_clicks", "otc_threshold", "turbo_loops"} {
		if _, ok := m[key]; !ok {
			t.Errorf("torch section missing %q", key)
		}
	}

	dm, ok := recv(t, diagSub).Payload.(map[string]any)
	if !ok || dm["prompt"] == "" {
		t.Errorf("diag section = %v", dm)
	}
}

// Retained sections must reach services that subscribe after the publish.
func TestPublishConfigRetained(t *testing.T) {
	b := bus.NewBus(8)
	ctx := context.WithValue(context.Background(), CtxVariantKey, "single-wide")
	if err := NewConfigService().publishConfig(ctx, b.NewConnection("config")); err != nil {
		t.Fatal(err)
	}

	late := b.NewConnection("late")
	msg := recv(t, late.Subscribe(bus.T("config", "torch")))
	if msg == nil {
		t.Fatal("late subscriber got nothing")
	}
}

func TestPublishConfigErrors(t *testing.T) {
	b := bus.NewBus(8)
	svc := NewConfigService()

	if err := svc.publishConfig(context.Background(), b.NewConnection("config")); err == nil {
		t.Error("missing variant accepted")
	}
	ctx := context.WithValue(context.Background(), CtxVariantKey, "quad")
	if err := svc.publishConfig(ctx, b.NewConnection("config")); err == nil {
		t.Error("unknown variant accepted")
	}
}

func TestEmbeddedConfigsCoverVariants(t *testing.T) {
	for _, v := range []string{"dual-otc", "single-wide", "single-packed"} {
		if _, ok := EmbeddedConfigLookup(v); !ok {
			t.Errorf("no embedded config for %s", v)
		}
	}
}

func recv(t *testing.T, sub *bus.Subscription) *bus.Message {
	t.Helper()
	select {
	case msg := <-sub.Channel():
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
		return nil
	}
}
