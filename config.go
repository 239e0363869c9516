package runloop

import (
	"fmt"

	"github.com/viant/runloop/policy"
	"gopkg.in/yaml.v3"
)

// Next-turn vendors accepted by Config.Turn.
const (
	// TurnMicrotask flushes autorun instances on the next microtask-like
	// turn (default).
	TurnMicrotask = "microtask"

	// TurnTimer flushes autorun instances through the timer domain; a
	// coarser, best-effort fallback.
	TurnTimer = "timer"
)

// Config is a serialisable representation of the scheduler configuration. It
// can be populated from JSON or YAML. The zero-value is not usable on its
// own – at least one queue name is required.
type Config struct {
	// Queues is the ordered list of queue names; it defines the flush order
	// and is fixed once the scheduler is constructed.
	Queues []string `json:"queues" yaml:"queues"`

	// MaxSweeps bounds how many times one flush may restart its sweep for
	// late-arriving earlier-queue work before it gives up.
	MaxSweeps int `json:"maxSweeps" yaml:"maxSweeps"`

	// Turn selects the next-turn vendor used by the autorun trigger.
	Turn string `json:"turn" yaml:"turn"`

	// Policy optionally restricts scheduling (autorun mode, queue lists).
	Policy *policy.Config `json:"policy,omitempty" yaml:"policy,omitempty"`
}

// DefaultConfig returns a Config populated with the package defaults; the
// caller supplies the queue names.
func DefaultConfig() *Config {
	return &Config{
		MaxSweeps: 1000,
		Turn:      TurnMicrotask,
	}
}

// ParseConfig decodes a YAML (or JSON – YAML is a superset) document over
// the package defaults.
func ParseConfig(data []byte) (*Config, error) {
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return config, nil
}

// Validate returns an error describing invalid settings or nil.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("config was nil")
	}
	if len(c.Queues) == 0 {
		return fmt.Errorf("config.queues must not be empty")
	}
	if c.MaxSweeps <= 0 {
		return fmt.Errorf("config.maxSweeps must be > 0")
	}
	switch c.Turn {
	case "", TurnMicrotask, TurnTimer:
	default:
		return fmt.Errorf("unsupported turn vendor: %s", c.Turn)
	}
	return nil
}
