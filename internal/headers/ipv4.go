// Package headers parses the fixed-format IPv4, TCP and UDP headers the
// validator stages need, reading fields with encoding/binary rather than
// reinterpreting the buffer through an unsafe pointer.
package headers

import "encoding/binary"

// IPv4MinLength is the shortest possible IPv4 header (IHL=5, no options).
const IPv4MinLength = 20

// ProtoTCP and ProtoUDP are the IPv4 protocol numbers this package cares
// about.
const (
	ProtoTCP = 6
	ProtoUDP = 17
)

// IPv4 is a view over an IPv4 header's fixed fields, read lazily from the
// underlying bytes rather than copied into a struct.
type IPv4 struct {
	raw []byte
}

// ParseIPv4 wraps b as an IPv4 header view. b must be at least IHL()*4
// bytes; callers should check Valid() before trusting derived fields.
func ParseIPv4(b []byte) (IPv4, bool) {
	if len(b) < IPv4MinLength {
		return IPv4{}, false
	}
	return IPv4{raw: b}, true
}

// IHL returns the header length in 32-bit words (the low nibble of the
// first byte).
func (h IPv4) IHL() int { return int(h.raw[0] & 0x0f) }

// HeaderLen returns IHL()*4 in bytes.
func (h IPv4) HeaderLen() int { return h.IHL() * 4 }

// TotalLength returns the IPv4 total length field (header + payload), host
// byte order.
func (h IPv4) TotalLength() int { return int(binary.BigEndian.Uint16(h.raw[2:4])) }

// Protocol returns the IPv4 protocol field.
func (h IPv4) Protocol() uint8 { return h.raw[9] }

// Checksum returns the stored header checksum field.
func (h IPv4) Checksum() uint16 { return binary.BigEndian.Uint16(h.raw[10:12]) }

// SrcAddr returns the 4-byte source address.
func (h IPv4) SrcAddr() [4]byte {
	var a [4]byte
	copy(a[:], h.raw[12:16])
	return a
}

// DstAddr returns the 4-byte destination address.
func (h IPv4) DstAddr() [4]byte {
	var a [4]byte
	copy(a[:], h.raw[16:20])
	return a
}

// Valid reports whether the header's declared length is internally
// consistent with the bytes available.
func (h IPv4) Valid() bool {
	hl := h.HeaderLen()
	return hl >= IPv4MinLength && hl <= len(h.raw) && h.TotalLength() >= hl
}
