// Package checksum implements the Internet checksum (RFC 1071) and the
// TCP/UDP pseudo-header (RFC 793 / RFC 768) used by the header-check
// stages to verify L4 checksums without re-parsing the packet twice.
package checksum

import "encoding/binary"

// Internet computes the one's-complement 16-bit Internet checksum over b
// alone. To fold in a pseudo-header without concatenating byte slices, use
// IPv4PseudoHeader with VerifyWithPseudoHeader.
func Internet(b []byte) uint16 {
	return finish(accumulate(0, b))
}

// accumulate folds b's bytes into running sum acc as big-endian 16-bit
// words, padding a trailing odd byte with a zero low byte.
func accumulate(acc uint32, b []byte) uint32 {
	n := len(b)
	for i := 0; i+1 < n; i += 2 {
		acc += uint32(binary.BigEndian.Uint16(b[i : i+2]))
	}
	if n%2 == 1 {
		acc += uint32(b[n-1]) << 8
	}
	return acc
}

func finish(acc uint32) uint16 {
	for acc>>16 != 0 {
		acc = (acc & 0xffff) + (acc >> 16)
	}
	return uint16(^acc)
}

// IPv4PseudoHeader computes the one's-complement accumulator contribution
// of the IPv4 TCP/UDP pseudo-header: source address, destination address,
// zero byte, protocol, and segment length (RFC 793 section 3.1, RFC 768).
func IPv4PseudoHeader(src, dst [4]byte, protocol uint8, length int) uint32 {
	var acc uint32
	acc += uint32(binary.BigEndian.Uint16(src[0:2]))
	acc += uint32(binary.BigEndian.Uint16(src[2:4]))
	acc += uint32(binary.BigEndian.Uint16(dst[0:2]))
	acc += uint32(binary.BigEndian.Uint16(dst[2:4]))
	acc += uint32(protocol)
	acc += uint32(length)
	return acc
}

// VerifyWithPseudoHeader reports whether segment's stored checksum is
// correct once the pseudo-header contribution pseudo is folded in: per RFC
// 1071, a correctly-checksummed buffer (pseudo-header included) always
// reduces to zero.
func VerifyWithPseudoHeader(segment []byte, pseudo uint32) bool {
	return finish(accumulate(pseudo, segment)) == 0
}
