// Package tcpcheck implements the TCP header-check stage: it validates
// that a Packet carries a well-formed TCP segment atop IPv4 and, depending
// on configuration, its checksum, forwarding unchanged packets and
// counting or dropping malformed ones.
package tcpcheck

import (
	"go.uber.org/zap"

	"github.com/clicknet/pktcore/internal/headers"
	"github.com/clicknet/pktcore/pkg/checksum"
	"github.com/clicknet/pktcore/pkg/packet"
	"github.com/clicknet/pktcore/pkg/stage"
)

// Stage validates TCP framing and checksums per spec.md 4.6.
type Stage struct {
	Name     string
	Config   stage.Config
	Counters *stage.Counters
	Logger   *zap.SugaredLogger
}

// New constructs a Stage named name with cfg, allocating per-reason
// counters only when cfg.Details is set.
func New(name string, cfg stage.Config, logger *zap.SugaredLogger) *Stage {
	return &Stage{
		Name:     name,
		Config:   cfg,
		Counters: stage.NewCounters(cfg.Details),
		Logger:   logger,
	}
}

// Outcome is the routing decision a Process call makes for a packet.
type Outcome int

const (
	// Forward routes the packet to output 0 unchanged.
	Forward Outcome = iota
	// Drop routes the packet to output 1 (when the stage has two
	// outputs) or signals the caller to kill it (when it has one).
	Drop
)

// Process implements the TCP simple_action algorithm: steps 1-5 of
// spec.md 4.6, plus the BAD_LENGTH cross-check resolving the spec's
// is_long open question.
func (s *Stage) Process(p *packet.Packet) Outcome {
	if !p.HasNetworkHeader() {
		return s.drop(stage.NotProtocol)
	}

	data := p.Data()
	nhOffsetFromData := p.NetworkHeaderOffset()
	if nhOffsetFromData < 0 || nhOffsetFromData >= len(data) {
		return s.drop(stage.NotProtocol)
	}

	ip, ok := headers.ParseIPv4(data[nhOffsetFromData:])
	if !ok || ip.Protocol() != headers.ProtoTCP {
		return s.drop(stage.NotProtocol)
	}

	ipHL := ip.HeaderLen()
	payloadLen := ip.TotalLength() - ipHL
	tcpStart := nhOffsetFromData + ipHL
	if tcpStart > len(data) {
		return s.drop(stage.BadLength)
	}

	tcp, ok := headers.ParseTCP(data[tcpStart:])
	if !ok {
		return s.drop(stage.BadLength)
	}
	tcpHL := tcp.HeaderLen()

	if tcpHL < 20 || payloadLen < tcpHL {
		return s.drop(stage.BadLength)
	}
	if p.Length() < nhOffsetFromData+ipHL+payloadLen {
		return s.drop(stage.BadLength)
	}

	if s.Config.Checksum {
		segment := data[tcpStart : tcpStart+payloadLen]
		pseudo := checksum.IPv4PseudoHeader(ip.SrcAddr(), ip.DstAddr(), headers.ProtoTCP, len(segment))
		if !checksum.VerifyWithPseudoHeader(segment, pseudo) {
			return s.drop(stage.BadChecksum)
		}
	}

	s.Counters.Accept()
	return Forward
}

func (s *Stage) drop(reason stage.Reason) Outcome {
	s.Counters.Drop(reason)
	s.Counters.LogDrop(s.Logger, s.Config.Verbose, s.Name, reason)
	return Drop
}
