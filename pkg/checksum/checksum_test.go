package checksum

import "testing"

func TestInternetChecksumOfItselfIsZero(t *testing.T) {
	data := []byte{0x45, 0x00, 0x00, 0x1c, 0x00, 0x00, 0x40, 0x00, 0x40, 0x06, 0x00, 0x00, 0x0a, 0x00, 0x00, 0x01, 0x0a, 0x00, 0x00, 0x02}
	sum := Internet(data)
	binary := append([]byte(nil), data...)
	binary[10] = byte(sum >> 8)
	binary[11] = byte(sum)
	if Internet(binary) != 0 {
		t.Errorf("checksum of self-checksummed buffer = %#x, want 0", Internet(binary))
	}
}

func TestVerifyWithPseudoHeaderDetectsCorruption(t *testing.T) {
	segment := []byte{0x00, 0x50, 0x00, 0x51, 0x00, 0x00, 0x00, 0x00}
	pseudo := IPv4PseudoHeader([4]byte{10, 0, 0, 1}, [4]byte{10, 0, 0, 2}, 6, len(segment))

	sum := finish(accumulate(pseudo, segment))
	segment[6] = byte(sum >> 8)
	segment[7] = byte(sum)

	if !VerifyWithPseudoHeader(segment, pseudo) {
		t.Error("expected correctly-checksummed segment to verify")
	}
	segment[0] ^= 0xff
	if VerifyWithPseudoHeader(segment, pseudo) {
		t.Error("expected corrupted segment to fail verification")
	}
}

func TestOddLengthPadding(t *testing.T) {
	if Internet([]byte{0xff}) == 0 {
		t.Error("single-byte buffer should not trivially checksum to zero")
	}
}
