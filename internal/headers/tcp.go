package headers

import "encoding/binary"

// TCPMinLength is the shortest possible TCP header (data offset=5, no
// options).
const TCPMinLength = 20

// TCP is a view over a TCP header's fixed fields.
type TCP struct {
	raw []byte
}

// ParseTCP wraps b as a TCP header view. b must be at least TCPMinLength
// bytes.
func ParseTCP(b []byte) (TCP, bool) {
	if len(b) < TCPMinLength {
		return TCP{}, false
	}
	return TCP{raw: b}, true
}

// SrcPort returns the source port.
func (h TCP) SrcPort() uint16 { return binary.BigEndian.Uint16(h.raw[0:2]) }

// DstPort returns the destination port.
func (h TCP) DstPort() uint16 { return binary.BigEndian.Uint16(h.raw[2:4]) }

// DataOffset returns the data offset field in 32-bit words (the high
// nibble of byte 12).
func (h TCP) DataOffset() int { return int(h.raw[12] >> 4) }

// HeaderLen returns DataOffset()*4 in bytes.
func (h TCP) HeaderLen() int { return h.DataOffset() * 4 }

// Checksum returns the stored TCP checksum field.
func (h TCP) Checksum() uint16 { return binary.BigEndian.Uint16(h.raw[16:18]) }
