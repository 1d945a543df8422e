package packet

// offset is an absolute byte offset into a Packet's buffer (relative to
// head, i.e. directly usable as a slice index), or "absent" when ok is
// false. Representing the header cache this way -- rather than as a raw
// pointer into the backing array, the way the source does it -- means a
// stale cache after a reallocation is merely a wrong integer instead of a
// dangling pointer: it cannot corrupt memory, only mislead a consumer that
// fails to re-validate it. The spec is explicit that the framework never
// auto-adjusts these on Push/Pull/Put/Take; producers are trusted and
// consumers must re-check the offset against the current data/tail window
// themselves after any geometry change.
type offset struct {
	value int
	ok    bool
}

// HasNetworkHeader reports whether a network-layer header offset has been
// recorded.
func (p *Packet) HasNetworkHeader() bool {
	return p.networkHeader.ok
}

// NetworkHeader returns the absolute buffer offset of the network header
// and whether one is set.
func (p *Packet) NetworkHeader() (int, bool) {
	return p.networkHeader.value, p.networkHeader.ok
}

// SetNetworkHeader records the network header's absolute buffer offset and
// its length; the transport header is set to ptr+len.
func (p *Packet) SetNetworkHeader(ptr, length int) {
	p.networkHeader = offset{value: ptr, ok: true}
	p.transportHeader = offset{value: ptr + length, ok: true}
}

// SetIPHeader is a thin alias for SetNetworkHeader for IPv4 headers.
func (p *Packet) SetIPHeader(ptr, length int) {
	p.SetNetworkHeader(ptr, length)
}

// IPHeader is a thin alias for NetworkHeader, named for the common case
// where the network header is IPv4.
func (p *Packet) IPHeader() (int, bool) {
	return p.NetworkHeader()
}

// SetIP6Header is a thin alias for SetNetworkHeader for IPv6 headers; length
// defaults to 40 (the fixed IPv6 header size) when not overridden by a
// caller using extension headers.
func (p *Packet) SetIP6Header(ptr int, length ...int) {
	l := 40
	if len(length) > 0 {
		l = length[0]
	}
	p.SetNetworkHeader(ptr, l)
}

// IP6Header is a thin alias for NetworkHeader.
func (p *Packet) IP6Header() (int, bool) {
	return p.NetworkHeader()
}

// TransportHeader returns the absolute buffer offset of the transport
// header and whether one is set (i.e. whether a network header was ever
// recorded).
func (p *Packet) TransportHeader() (int, bool) {
	return p.transportHeader.value, p.transportHeader.ok
}

// NetworkHeaderOffset returns network_header - data, or 0 if absent.
func (p *Packet) NetworkHeaderOffset() int {
	if !p.networkHeader.ok {
		return 0
	}
	return p.networkHeader.value - p.data
}

// NetworkHeaderLength returns transport_header - network_header, or 0 if
// absent.
func (p *Packet) NetworkHeaderLength() int {
	if !p.networkHeader.ok {
		return 0
	}
	return p.transportHeader.value - p.networkHeader.value
}

// TransportHeaderOffset returns transport_header - data, or 0 if absent.
func (p *Packet) TransportHeaderOffset() int {
	if !p.transportHeader.ok {
		return 0
	}
	return p.transportHeader.value - p.data
}
