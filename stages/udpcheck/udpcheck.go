// Package udpcheck implements the UDP header-check stage, the sibling of
// tcpcheck for UDP/IPv4 framing.
package udpcheck

import (
	"go.uber.org/zap"

	"github.com/clicknet/pktcore/internal/headers"
	"github.com/clicknet/pktcore/pkg/checksum"
	"github.com/clicknet/pktcore/pkg/packet"
	"github.com/clicknet/pktcore/pkg/stage"
)

// Stage validates UDP framing and checksums per spec.md 4.6.
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
	Forward Outcome = iota
	Drop
)

// Process implements the UDP validation algorithm: spec.md 4.6 steps 1-4,
// plus the length cross-check resolving the spec's is_long open question.
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
	if !ok || ip.Protocol() != headers.ProtoUDP {
		return s.drop(stage.NotProtocol)
	}

	ipHL := ip.HeaderLen()
	udpStart := nhOffsetFromData + ipHL
	if udpStart > len(data) {
		return s.drop(stage.BadLength)
	}

	udp, ok := headers.ParseUDP(data[udpStart:])
	if !ok {
		return s.drop(stage.BadLength)
	}

	payloadLen := udp.Length()
	if payloadLen < headers.UDPLength {
		return s.drop(stage.BadLength)
	}
	if p.Length() < nhOffsetFromData+ipHL+payloadLen {
		return s.drop(stage.BadLength)
	}

	if udp.Checksum() != 0 && s.Config.Checksum {
		segment := data[udpStart : udpStart+payloadLen]
		pseudo := checksum.IPv4PseudoHeader(ip.SrcAddr(), ip.DstAddr(), headers.ProtoUDP, len(segment))
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
