package policy

import (
	"context"
	"strings"
)

// Autorun modes recognised by the scheduler.
const (
	ModeAllow = "allow" // implicit ticks are normal operation (default)
	ModeWarn  = "warn"  // report implicit ticks through the Warn callback
	ModeFail  = "fail"  // refuse to schedule outside an explicit tick
)

// WarnFunc is invoked when Mode==warn and work is scheduled outside an
// explicit tick. Implementations MAY mutate the policy (for example,
// switching to ModeAllow after the first report).
type WarnFunc func(queue string, instanceID uint64)

// Policy represents the scheduling rules for a scheduler or a single tick.
//
//   - Mode controls how implicit (autorun) ticks are treated.
//   - AllowList, BlockList filter the queues that accept schedules,
//     regardless of Mode.
//   - Warn is only used when Mode==warn.
//
// A nil *Policy means "schedule everything, implicit ticks included" and is
// therefore the zero-cost default.
type Policy struct {
	Mode      string   // allow / warn / fail    (default = allow)
	AllowList []string // whitelist (empty => all queues)
	BlockList []string // blacklist
	Warn      WarnFunc // used only when Mode==warn
}

// ---------------------------------------------------------------------------
// Config <-> Policy converters (Config is a serialisable subset used when a
// Policy with WarnFunc cannot be persisted).
// ---------------------------------------------------------------------------

// Config represents the declarative, serialisable part of a Policy.
type Config struct {
	Mode      string   `json:"mode,omitempty" yaml:"mode,omitempty"`
	AllowList []string `json:"allow,omitempty" yaml:"allow,omitempty"`
	BlockList []string `json:"block,omitempty" yaml:"block,omitempty"`
}

// ToConfig converts a runtime Policy into a persistable Config.
func ToConfig(p *Policy) *Config {
	if p == nil {
		return nil
	}
	return &Config{
		Mode:      p.Mode,
		AllowList: append([]string(nil), p.AllowList...),
		BlockList: append([]string(nil), p.BlockList...),
	}
}

// FromConfig converts a stored Config back to a runtime Policy (without
// WarnFunc).
func FromConfig(c *Config) *Policy {
	if c == nil {
		return nil
	}
	return &Policy{
		Mode:      c.Mode,
		AllowList: append([]string(nil), c.AllowList...),
		BlockList: append([]string(nil), c.BlockList...),
	}
}

// AutorunAllowed reports whether work may be scheduled outside an explicit
// tick under this policy.
func (p *Policy) AutorunAllowed() bool {
	if p == nil {
		return true
	}
	return !strings.EqualFold(p.Mode, ModeFail)
}

// ShouldWarn reports whether an implicit tick should be reported through the
// Warn callback.
func (p *Policy) ShouldWarn() bool {
	return p != nil && strings.EqualFold(p.Mode, ModeWarn) && p.Warn != nil
}

// IsAllowed evaluates AllowList / BlockList. Both lists match by exact,
// case-insensitive comparison of the queue name.
func (p *Policy) IsAllowed(queue string) bool {
	if p == nil {
		return true
	}

	normalized := strings.ToLower(queue)

	// BlockList has priority.
	for _, b := range p.BlockList {
		if normalized == strings.ToLower(b) {
			return false
		}
	}

	// AllowList – if empty everything is allowed, otherwise only the listed
	// queues.
	if len(p.AllowList) == 0 {
		return true
	}
	for _, a := range p.AllowList {
		if normalized == strings.ToLower(a) {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// Context helpers
// ---------------------------------------------------------------------------

type ctxKeyT struct{}

var ctxKey ctxKeyT

// WithPolicy embeds policy in ctx. A policy carried by the context passed to
// Run or Join overrides the scheduler policy for every schedule made inside
// that tick.
func WithPolicy(ctx context.Context, p *Policy) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxKey, p)
}

// FromContext extracts (*Policy, ok).
func FromContext(ctx context.Context) *Policy {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxKey).(*Policy); ok {
		return v
	}
	return nil
}
