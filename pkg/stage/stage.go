// Package stage provides the shared template the TCP and UDP header-check
// stages build on: configuration flags, drop reasons, atomic counters, and
// the operator-facing read handlers (count, drops, drop_details).
package stage

import (
	"fmt"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
)

// Reason classifies why a packet was dropped.
type Reason int

const (
	NotProtocol Reason = iota
	BadLength
	BadChecksum
	numReasons
)

// String returns the reason's human-readable text, as used in drop_details.
func (r Reason) String() string {
	switch r {
	case NotProtocol:
		return "not this protocol"
	case BadLength:
		return "bad header/payload length"
	case BadChecksum:
		return "bad checksum"
	default:
		return "unknown reason"
	}
}

// Config holds the three flags every header-check stage is configured
// with.
type Config struct {
	// Verbose logs every drop, not just the first of each reason.
	Verbose bool `yaml:"verbose"`
	// Details maintains a per-reason drop counter; when false, only the
	// combined Drops total is tracked.
	Details bool `yaml:"details"`
	// Checksum enables L4 checksum verification. Defaults to true.
	Checksum bool `yaml:"checksum"`
	// Ports is the stage's output port count: 1 or 2. With one output, a
	// dropped packet is simply killed. With two outputs, a dropped packet
	// is routed to output 1 instead of being killed outright, the same
	// way a Click element with a second "failure" output lets a
	// downstream element observe what it rejects. Any value other than 2
	// is treated as 1.
	Ports int `yaml:"ports"`
}

// DefaultConfig returns the stage default: checksum verification on, a
// single output port, verbose logging and per-reason detail counters off.
func DefaultConfig() Config {
	return Config{Checksum: true, Ports: 1}
}

// TwoOutputs reports whether the stage is configured with two output
// ports, i.e. drops are routed rather than killed.
func (c Config) TwoOutputs() bool { return c.Ports == 2 }

// Counters tracks a stage's accepted/dropped packet counts as independent
// 64-bit atomics. Per spec, atomicity is required per-counter only; the set
// need not be snapshot-consistent across counters.
type Counters struct {
	count atomic.Uint64
	drops atomic.Uint64
	// reasons is non-nil only when Details is enabled.
	reasons *[numReasons]atomic.Uint64
	// logged marks which reasons have already produced a log line, so a
	// non-VERBOSE stage logs only the first drop of each kind.
	logged [numReasons]atomic.Bool
}

// NewCounters allocates a Counters block; reason counters are only
// allocated when details is true.
func NewCounters(details bool) *Counters {
	c := &Counters{}
	if details {
		c.reasons = &[numReasons]atomic.Uint64{}
	}
	return c
}

// Accept increments the accepted-packet counter.
func (c *Counters) Accept() { c.count.Add(1) }

// Drop increments the combined drop counter and, when per-reason detail is
// enabled, the counter for reason.
func (c *Counters) Drop(reason Reason) {
	c.drops.Add(1)
	if c.reasons != nil {
		c.reasons[reason].Add(1)
	}
}

// Count returns the accepted-packet total.
func (c *Counters) Count() uint64 { return c.count.Load() }

// Drops returns the total dropped-packet count.
func (c *Counters) Drops() uint64 { return c.drops.Load() }

// ReasonCount returns the per-reason drop count, or 0 if detail counters
// were not allocated.
func (c *Counters) ReasonCount(r Reason) uint64 {
	if c.reasons == nil {
		return 0
	}
	return c.reasons[r].Load()
}

// HasDetails reports whether per-reason counters are being maintained.
func (c *Counters) HasDetails() bool { return c.reasons != nil }

// DropDetails formats the per-reason drop counts as the spec-mandated
// handler text: one line per reason, "<15-wide packet count> packets due
// to: <24-wide reason text>\n".
func (c *Counters) DropDetails() string {
	if c.reasons == nil {
		return ""
	}
	var sb strings.Builder
	for r := Reason(0); r < numReasons; r++ {
		fmt.Fprintf(&sb, "%15d packets due to: %-24s\n", c.reasons[r].Load(), r.String())
	}
	return sb.String()
}

// LogDrop emits a log line for a dropped packet. When verbose is false,
// only the first drop observed for reason is logged (per this Counters
// instance); when true, every drop is logged. A nil logger is always a
// no-op.
func (c *Counters) LogDrop(logger *zap.SugaredLogger, verbose bool, stageName string, reason Reason) {
	if logger == nil {
		return
	}
	if !verbose && !c.logged[reason].CompareAndSwap(false, true) {
		return
	}
	logger.Infow("dropped packet", "stage", stageName, "reason", reason.String())
}
