package main

import (
	"fmt"
	"io"
	"net"
	"os"
	"strings"

	"github.com/gopacket/gopacket"
	"github.com/gopacket/gopacket/layers"
	"github.com/gopacket/gopacket/pcapgo"
	"github.com/klauspost/compress/gzip"

	"github.com/clicknet/pktcore/internal/xpackettest"
)

// frame is one captured or synthesized IPv4 datagram, payload only (no
// link-layer header), plus the interface it was seen on.
type frame struct {
	data      []byte
	ifaceName string
}

// readFrames loads frames either from a (optionally gzip-compressed) pcap
// file at path, or synthesizes cfg.Synthetic.Count packets when path is
// empty.
func readFrames(path string, cfg SyntheticConfig) ([]frame, error) {
	if path == "" {
		return synthesizeFrames(cfg)
	}
	return readPCAP(path)
}

func readPCAP(path string) ([]frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening pcap file: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("opening gzip-compressed pcap: %w", err)
		}
		defer gz.Close()
		r = gz
	}

	reader, err := pcapgo.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing pcap header: %w", err)
	}

	var frames []frame
	for {
		data, _, err := reader.ReadPacketData()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading packet: %w", err)
		}

		pkt := gopacket.NewPacket(data, reader.LinkType(), gopacket.Default)
		ip4, ok := pkt.Layer(layers.LayerTypeIPv4).(*layers.IPv4)
		if !ok {
			continue
		}
		// The IPv4 header and everything after it, i.e. what the
		// header-check stages expect as a Packet's payload.
		raw := append(append([]byte(nil), ip4.Contents...), ip4.Payload...)
		frames = append(frames, frame{data: raw})
	}
	return frames, nil
}

func synthesizeFrames(cfg SyntheticConfig) ([]frame, error) {
	if cfg.Count <= 0 {
		cfg.Count = 1
	}
	if cfg.PayloadLen <= 0 {
		cfg.PayloadLen = 32
	}
	payload := make([]byte, cfg.PayloadLen)
	for i := range payload {
		payload[i] = byte(i)
	}

	frames := make([]frame, 0, cfg.Count)
	for i := 0; i < cfg.Count; i++ {
		src := net.IPv4(10, 0, 0, byte(1+i%250))
		dst := net.IPv4(10, 0, 1, byte(1+i%250))

		var raw []byte
		var err error
		switch strings.ToLower(cfg.Protocol) {
		case "udp":
			raw, err = xpackettest.BuildUDP(xpackettest.UDPOptions{
				Src: src, Dst: dst,
				SrcPort: layers.UDPPort(20000 + i), DstPort: 53,
				Payload: payload,
			})
		default:
			raw, err = xpackettest.BuildTCP(xpackettest.TCPOptions{
				Src: src, Dst: dst,
				SrcPort: layers.TCPPort(30000 + i), DstPort: 443,
				Payload: payload,
			})
		}
		if err != nil {
			return nil, fmt.Errorf("synthesizing packet %d: %w", i, err)
		}
		frames = append(frames, frame{data: raw, ifaceName: "synthetic0"})
	}
	return frames, nil
}
