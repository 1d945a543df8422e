package packet

import (
	"net/netip"

	"github.com/clicknet/pktcore/pkg/devicetag"
)

// Type classifies how a packet arrived or is destined to leave, mirroring
// the link-layer classification a NIC driver reports (linux.PACKET_HOST and
// friends).
type Type uint8

const (
	TypeHost Type = iota
	TypeBroadcast
	TypeMulticast
	TypeOtherHost
	TypeOutgoing
	TypeLoopback
	TypeFastRoute
)

func (t Type) String() string {
	switch t {
	case TypeHost:
		return "HOST"
	case TypeBroadcast:
		return "BROADCAST"
	case TypeMulticast:
		return "MULTICAST"
	case TypeOtherHost:
		return "OTHERHOST"
	case TypeOutgoing:
		return "OUTGOING"
	case TypeLoopback:
		return "LOOPBACK"
	case TypeFastRoute:
		return "FASTROUTE"
	default:
		return "UNKNOWN"
	}
}

// Timestamp is a seconds+microseconds arrival/departure stamp, independent
// of time.Time so that annotation copies stay a plain byte-wise operation.
type Timestamp struct {
	Sec  int64
	Usec int32
}

// annotations is the fixed-size, per-handle side channel carried alongside
// a packet's payload. It is never shared between clones: Packet.Clone
// copies it byte-wise, matching the spec's "annotations are not shared"
// invariant.
//
// Layout (48 bytes total in the source spec): a 16-byte destination-address
// union (first 4 bytes aliased as IPv4) and 12 bytes of user flags are
// represented here as fixed byte arrays so that the aliasing views in
// userflags.go (UserFlag/UserFlagU32/UserFlagI32) stay binary-compatible;
// the remaining fields (timestamp, device tag, packet type) are the
// "out-of-block" fields referenced by copy_annotations in the spec.
type annotations struct {
	dst      [16]byte
	userFlag [12]byte

	ts         Timestamp
	deviceTag  devicetag.Tag
	packetType Type
}

func clearAnnotations(a *annotations) {
	*a = annotations{}
}

func copyAnnotationsBlock(dst, src *annotations) {
	// Byte-wise block copy plus the out-of-block fields, matching
	// copy_annotations: header offsets are deliberately NOT copied.
	dst.dst = src.dst
	dst.userFlag = src.userFlag
	dst.ts = src.ts
	dst.deviceTag = src.deviceTag
	dst.packetType = src.packetType
}

// DstIPv4 returns the destination address annotation interpreted as IPv4.
func (p *Packet) DstIPv4() netip.Addr {
	var b [4]byte
	copy(b[:], p.anno.dst[:4])
	return netip.AddrFrom4(b)
}

// SetDstIPv4 sets the destination address annotation from an IPv4 address.
func (p *Packet) SetDstIPv4(addr netip.Addr) {
	a4 := addr.As4()
	copy(p.anno.dst[:4], a4[:])
	for i := 4; i < 16; i++ {
		p.anno.dst[i] = 0
	}
}

// DstIPv6 returns the destination address annotation interpreted as IPv6.
func (p *Packet) DstIPv6() netip.Addr {
	var b [16]byte
	copy(b[:], p.anno.dst[:])
	return netip.AddrFrom16(b)
}

// SetDstIPv6 sets the destination address annotation from an IPv6 address.
func (p *Packet) SetDstIPv6(addr netip.Addr) {
	a16 := addr.As16()
	copy(p.anno.dst[:], a16[:])
}

// Timestamp returns the packet's timestamp annotation.
func (p *Packet) Timestamp() Timestamp { return p.anno.ts }

// SetTimestamp sets the packet's timestamp annotation.
func (p *Packet) SetTimestamp(ts Timestamp) { p.anno.ts = ts }

// DeviceTag returns the packet's device-tag annotation. The zero value
// means "null": no interface associated.
func (p *Packet) DeviceTag() devicetag.Tag { return p.anno.deviceTag }

// SetDeviceTag sets the packet's device-tag annotation.
func (p *Packet) SetDeviceTag(tag devicetag.Tag) { p.anno.deviceTag = tag }

// PacketType returns the packet's type-class annotation.
func (p *Packet) PacketType() Type { return p.anno.packetType }

// SetPacketType sets the packet's type-class annotation.
func (p *Packet) SetPacketType(t Type) { p.anno.packetType = t }

// ClearAnnotations zeroes all annotations, resets PacketType to TypeHost,
// DeviceTag to null, Timestamp to zero, and clears the header offset cache.
func (p *Packet) ClearAnnotations() {
	clearAnnotations(&p.anno)
	p.networkHeader = offset{}
	p.transportHeader = offset{}
}

// CopyAnnotations performs the byte-wise block copy plus out-of-block
// fields described in copy_annotations; it does not copy header offsets.
func (p *Packet) CopyAnnotations(src *Packet) {
	copyAnnotationsBlock(&p.anno, &src.anno)
}
