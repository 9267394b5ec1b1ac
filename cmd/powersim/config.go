package main

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	torchsvc "torchfw-go/services/torch"
)

// Scenario is a scripted sequence of power cycles.
type Scenario struct {
	Variant string  `yaml:"variant"`
	Policy  string  `yaml:"policy"`
	Store   string  `yaml:"store"`   // path of the store image; empty = in-memory
	Battery uint8   `yaml:"battery"` // fixed ADC sample, 8-bit scale
	Clicks  []Click `yaml:"clicks"`
}

// Click is one power cycle: how long the light stayed on, then how long
// power was off before the next boot.
type Click struct {
	OnMs  int `yaml:"on_ms"`
	OffMs int `yaml:"off_ms"`
}

// LoadScenario reads, normalizes and validates a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(raw, &sc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	sc.normalize()
	if err := sc.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &sc, nil
}

func (sc *Scenario) normalize() {
	if sc.Variant == "" {
		sc.Variant = "single-wide"
	}
	if sc.Battery == 0 {
		sc.Battery = 180
	}
	for i := range sc.Clicks {
		if sc.Clicks[i].OffMs == 0 {
			sc.Clicks[i].OffMs = 300
		}
	}
}

func (sc *Scenario) validate() error {
	if _, err := torchsvc.Lookup(sc.Variant); err != nil {
		return fmt.Errorf("unknown variant %q", sc.Variant)
	}
	switch sc.Policy {
	case "", "last", "first", "next":
	default:
		return fmt.Errorf("unknown policy %q", sc.Policy)
	}
	if len(sc.Clicks) == 0 {
		return errors.New("scenario has no clicks")
	}
	for i, c := range sc.Clicks {
		if c.OnMs <= 0 {
			return fmt.Errorf("click %d: on_ms must be positive", i)
		}
		if c.OffMs < 0 {
			return fmt.Errorf("click %d: off_ms must not be negative", i)
		}
	}
	return nil
}
