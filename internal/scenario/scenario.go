// Package scenario
package scenario

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

/*
YAML scenario example:
name: "march restock"
ops:
  - {op: stock, item: widget, count: 5, price: 10.0, at: 2024-03-01T09:00:00Z}
  - {op: stock, item: gadget, count: 2, price: 3.5, at: 2024-03-01T09:05:00Z}
  - {op: sell, item: widget, count: 3, at: 2024-03-01T10:00:00Z}
*/

// Op is one scripted ledger operation. At is optional, but all-or-nothing
// per scenario: either every op carries a timestamp, or none does and the
// replay stamps them with the wall clock.
type Op struct {
	Op    string    `yaml:"op"` // "stock" or "sell"
	Item  string    `yaml:"item"`
	Count float64   `yaml:"count"`
	Price float64   `yaml:"price,omitempty"`
	At    time.Time `yaml:"at,omitempty"`
}

// Scenario is an ordered script of ledger operations.
type Scenario struct {
	Name string `yaml:"name"`
	Ops  []Op   `yaml:"ops"`
}

// Load reads and validates a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse scenario file %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario %s: %w", path, err)
	}
	return &s, nil
}

// Validate checks op kinds and that scripted timestamps never go backwards.
// The ledger's record logs rely on non-decreasing append times, so a scenario
// must be timestamped all the way or not at all: mixing scripted ops with
// wall-clock-stamped ones would interleave past and present in the logs.
func (s *Scenario) Validate() error {
	var scripted, unscripted int
	var prev time.Time
	for i, op := range s.Ops {
		switch op.Op {
		case "stock", "sell":
		default:
			return fmt.Errorf("op %d: unsupported op %q", i, op.Op)
		}
		if op.Item == "" {
			return fmt.Errorf("op %d: item name is empty", i)
		}
		if op.At.IsZero() {
			unscripted++
			continue
		}
		scripted++
		if op.At.Before(prev) {
			return fmt.Errorf("op %d: timestamp %s is before the previous op", i, op.At)
		}
		prev = op.At
	}
	if scripted > 0 && unscripted > 0 {
		return fmt.Errorf("%d ops have timestamps and %d have none; timestamp all ops or none", scripted, unscripted)
	}
	return nil
}
