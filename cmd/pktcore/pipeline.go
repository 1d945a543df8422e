package main

import (
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"github.com/clicknet/pktcore/internal/headers"
	"github.com/clicknet/pktcore/pkg/devicetag"
	"github.com/clicknet/pktcore/pkg/packet"
	"github.com/clicknet/pktcore/pkg/stage"
	"github.com/clicknet/pktcore/stages/tcpcheck"
	"github.com/clicknet/pktcore/stages/udpcheck"
)

// pipeline runs each incoming frame through the configured stages for its
// protocol (tcpcheck stages for TCP, udpcheck stages for UDP), in order,
// stopping at the first stage that drops it.
type pipeline struct {
	tcpStages []*tcpcheck.Stage
	udpStages []*udpcheck.Stage
	tags      *devicetag.Table
	metrics   *stage.MetricsCollector

	// routedDrops counts packets a two-output stage routed to output 1
	// rather than killing outright.
	routedDrops uint64
}

func buildPipeline(cfg *Config, logger *zap.SugaredLogger) (*pipeline, error) {
	tags, err := devicetag.NewTable(cfg.DeviceTags)
	if err != nil {
		return nil, fmt.Errorf("building device tag table: %w", err)
	}

	p := &pipeline{tags: tags, metrics: stage.NewMetricsCollector()}
	for _, sc := range cfg.Stages {
		switch sc.Kind {
		case "tcpcheck":
			s := tcpcheck.New(sc.Name, sc.Config, logger)
			p.tcpStages = append(p.tcpStages, s)
			p.metrics.Register(sc.Name, s.Counters)
		case "udpcheck":
			s := udpcheck.New(sc.Name, sc.Config, logger)
			p.udpStages = append(p.udpStages, s)
			p.metrics.Register(sc.Name, s.Counters)
		default:
			return nil, fmt.Errorf("unknown stage kind %q for stage %q", sc.Kind, sc.Name)
		}
	}
	return p, nil
}

// run wraps a single raw IPv4 datagram in a Packet, assigns annotations,
// and runs it through the stage chain matching its protocol, returning an
// error only when the frame itself cannot be parsed (stage drops are not
// errors). The packet is always killed before returning: either a stage
// drops it (killed in place, or counted as routed-away first) or it falls
// through every stage and is killed as forwarded.
func (p *pipeline) run(f frame) error {
	wp, err := packet.NewFromData(nil, f.data)
	if err != nil {
		return fmt.Errorf("allocating packet: %w", err)
	}

	ip, ok := headers.ParseIPv4(wp.Data())
	if !ok {
		wp.Kill()
		return fmt.Errorf("frame too short to be an IPv4 datagram (%d bytes)", len(f.data))
	}
	wp.SetIPHeader(wp.Headroom(), ip.HeaderLen())
	wp.SetDeviceTag(p.tags.Resolve(f.ifaceName))
	now := time.Now()
	wp.SetTimestamp(packet.Timestamp{Sec: now.Unix(), Usec: int32(now.Nanosecond() / 1000)})

	switch ip.Protocol() {
	case headers.ProtoTCP:
		for _, s := range p.tcpStages {
			if s.Process(wp.Packet) == tcpcheck.Drop {
				p.settle(s.Config, wp)
				return nil
			}
		}
	case headers.ProtoUDP:
		for _, s := range p.udpStages {
			if s.Process(wp.Packet) == udpcheck.Drop {
				p.settle(s.Config, wp)
				return nil
			}
		}
	}
	wp.Kill()
	return nil
}

// settle disposes of a packet a stage has dropped: on a single-output
// stage it is simply killed; on a two-output stage it is instead routed to
// output 1, counted separately, and killed once that routing completes
// (the demo has no further downstream element to hand it to).
func (p *pipeline) settle(cfg stage.Config, wp *packet.WritablePacket) {
	if cfg.TwoOutputs() {
		p.routedDrops++
	}
	wp.Kill()
}

// runAll processes every frame, aggregating per-frame errors into a single
// multierror rather than aborting the whole run on the first bad frame.
func (p *pipeline) runAll(frames []frame) error {
	var result *multierror.Error
	for i, f := range frames {
		if err := p.run(f); err != nil {
			result = multierror.Append(result, fmt.Errorf("frame %d: %w", i, err))
		}
	}
	return result.ErrorOrNil()
}

// report returns a human-readable count/drops/drop_details summary for
// every configured stage.
func (p *pipeline) report() string {
	out := ""
	for _, s := range p.tcpStages {
		out += fmt.Sprintf("%s: count=%d drops=%d\n", s.Name, s.Counters.Count(), s.Counters.Drops())
		out += s.Counters.DropDetails()
	}
	for _, s := range p.udpStages {
		out += fmt.Sprintf("%s: count=%d drops=%d\n", s.Name, s.Counters.Count(), s.Counters.Drops())
		out += s.Counters.DropDetails()
	}
	if p.routedDrops > 0 {
		out += fmt.Sprintf("routed to output 1 (not killed in place): %d\n", p.routedDrops)
	}
	return out
}
