// Package xpackettest builds synthetic IPv4/TCP/UDP frames for tests,
// grounded on the serialize-then-reparse helper this codebase's lineage
// uses for its own element tests, adapted to start at the IPv4 layer since
// the header-check stages never see a link-layer header.
package xpackettest

import (
	"fmt"
	"net"

	"github.com/gopacket/gopacket"
	"github.com/gopacket/gopacket/layers"
)

// TCPOptions configures BuildTCP.
type TCPOptions struct {
	Src, Dst       net.IP
	SrcPort        layers.TCPPort
	DstPort        layers.TCPPort
	Payload        []byte
	SkipChecksum   bool
	CorruptPayload bool
}

// BuildTCP serializes an IPv4/TCP frame with options, returning the raw
// bytes starting at the IPv4 header.
func BuildTCP(opts TCPOptions) ([]byte, error) {
	ip := &layers.IPv4{
		Version:  4,
		IHL:      5,
		TTL:      64,
		Protocol: layers.IPProtocolTCP,
		SrcIP:    opts.Src,
		DstIP:    opts.Dst,
	}
	tcp := &layers.TCP{
		SrcPort: opts.SrcPort,
		DstPort: opts.DstPort,
		Seq:     1,
		Window:  8192,
		ACK:     true,
	}
	if err := tcp.SetNetworkLayerForChecksum(ip); err != nil {
		return nil, fmt.Errorf("xpackettest: set network layer: %w", err)
	}

	buf := gopacket.NewSerializeBuffer()
	opt := gopacket.SerializeOptions{FixLengths: true, ComputeChecksums: !opts.SkipChecksum}
	payload := gopacket.Payload(opts.Payload)
	if err := gopacket.SerializeLayers(buf, opt, ip, tcp, payload); err != nil {
		return nil, fmt.Errorf("xpackettest: serialize: %w", err)
	}
	raw := append([]byte(nil), buf.Bytes()...)

	if opts.CorruptPayload && len(raw) > 0 {
		raw[len(raw)-1] ^= 0xff
	}
	return raw, nil
}

// UDPOptions configures BuildUDP.
type UDPOptions struct {
	Src, Dst     net.IP
	SrcPort      layers.UDPPort
	DstPort      layers.UDPPort
	Payload      []byte
	ZeroChecksum bool
}

// BuildUDP serializes an IPv4/UDP frame with options, returning the raw
// bytes starting at the IPv4 header.
func BuildUDP(opts UDPOptions) ([]byte, error) {
	ip := &layers.IPv4{
		Version:  4,
		IHL:      5,
		TTL:      64,
		Protocol: layers.IPProtocolUDP,
		SrcIP:    opts.Src,
		DstIP:    opts.Dst,
	}
	udp := &layers.UDP{
		SrcPort: opts.SrcPort,
		DstPort: opts.DstPort,
	}
	if err := udp.SetNetworkLayerForChecksum(ip); err != nil {
		return nil, fmt.Errorf("xpackettest: set network layer: %w", err)
	}

	buf := gopacket.NewSerializeBuffer()
	opt := gopacket.SerializeOptions{FixLengths: true, ComputeChecksums: !opts.ZeroChecksum}
	payload := gopacket.Payload(opts.Payload)
	if err := gopacket.SerializeLayers(buf, opt, ip, udp, payload); err != nil {
		return nil, fmt.Errorf("xpackettest: serialize: %w", err)
	}
	raw := append([]byte(nil), buf.Bytes()...)

	if opts.ZeroChecksum {
		// UDP checksum lives at bytes [6:8] of the UDP header, which
		// starts right after the 20-byte IPv4 header (IHL=5).
		raw[20+6] = 0
		raw[20+7] = 0
	}
	return raw, nil
}
