package headers

import "encoding/binary"

// UDPLength is the fixed UDP header size.
const UDPLength = 8

// UDP is a view over a UDP header's fixed fields.
type UDP struct {
	raw []byte
}

// ParseUDP wraps b as a UDP header view. b must be at least UDPLength
// bytes.
func ParseUDP(b []byte) (UDP, bool) {
	if len(b) < UDPLength {
		return UDP{}, false
	}
	return UDP{raw: b}, true
}

// SrcPort returns the source port.
func (h UDP) SrcPort() uint16 { return binary.BigEndian.Uint16(h.raw[0:2]) }

// DstPort returns the destination port.
func (h UDP) DstPort() uint16 { return binary.BigEndian.Uint16(h.raw[2:4]) }

// Length returns the UDP length field, which includes the 8-byte header
// itself.
func (h UDP) Length() int { return int(binary.BigEndian.Uint16(h.raw[4:6])) }

// Checksum returns the stored UDP checksum field. Zero means "no checksum
// computed" per RFC 768.
func (h UDP) Checksum() uint16 { return binary.BigEndian.Uint16(h.raw[6:8]) }
