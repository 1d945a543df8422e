// Package packet implements a copy-on-write packet buffer handle modeled on
// Linux's sk_buff clone semantics and Click/FastClick's Packet/WritablePacket
// split: many Packet handles may share one buffer.Buffer, each with its own
// view (data/tail/end offsets) into it, its own non-shared annotations, and
// its own header-offset cache.
package packet

import (
	"fmt"

	"github.com/clicknet/pktcore/pkg/buffer"
)

// Packet is a read-only handle onto a byte buffer. Every handle -- original
// or clone -- carries its own geometry (data/tail/end), its own annotations,
// and its own header offset cache; only the backing buffer.Buffer, and
// therefore its bytes, may be shared across handles.
type Packet struct {
	buf  *buffer.Buffer
	pool *buffer.Pool

	// data, tail, end are absolute offsets into buf.Bytes(); head is
	// always 0. headroom is data-0, length is tail-data, tailroom is
	// end-tail.
	data, tail, end int

	anno annotations

	networkHeader   offset
	transportHeader offset
}

// New allocates a fresh Packet with headroom bytes of headroom, length bytes
// of payload (uninitialized), and tailroom bytes of tailroom, drawing
// storage from pool (nil means the unconditional default allocator).
// Annotations start cleared and the header cache starts empty.
func New(pool *buffer.Pool, headroom, length, tailroom int) (*WritablePacket, error) {
	if headroom < 0 || length < 0 || tailroom < 0 {
		return nil, fmt.Errorf("packet: negative geometry (headroom=%d length=%d tailroom=%d)", headroom, length, tailroom)
	}
	capacity := headroom + length + tailroom
	buf, err := buffer.Alloc(pool, capacity)
	if err != nil {
		return nil, err
	}
	p := &Packet{
		buf:  buf,
		pool: pool,
		data: headroom,
		tail: headroom + length,
		end:  headroom + length + tailroom,
	}
	return &WritablePacket{Packet: p}, nil
}

// NewFromData allocates a Packet with buffer.DefaultHeadroom bytes of
// headroom and no tailroom, copying src as its initial payload. This is the
// common case: wrapping a just-received frame.
func NewFromData(pool *buffer.Pool, src []byte) (*WritablePacket, error) {
	wp, err := New(pool, buffer.DefaultHeadroom, len(src), 0)
	if err != nil {
		return nil, err
	}
	copy(wp.Bytes(), src)
	return wp, nil
}

// Clone returns a new handle sharing p's backing buffer (retaining it) but
// with its own copy of p's geometry, annotations, and header cache. Clone
// never fails: it never allocates backing storage, only a new Packet
// struct and a refcount bump.
func (p *Packet) Clone() *Packet {
	p.buf.Retain()
	clone := &Packet{
		buf:             p.buf,
		pool:            p.pool,
		data:            p.data,
		tail:            p.tail,
		end:             p.end,
		anno:            p.anno,
		networkHeader:   p.networkHeader,
		transportHeader: p.transportHeader,
	}
	return clone
}

// Shared reports whether p's backing buffer has other outstanding handles.
func (p *Packet) Shared() bool {
	return p.buf.Shared()
}

// Kill releases p's reference to its backing buffer. p must not be used
// afterwards.
func (p *Packet) Kill() {
	p.buf.Release()
	p.buf = nil
}

// Data returns the packet's current payload: buf[data:tail].
func (p *Packet) Data() []byte {
	return p.buf.Bytes()[p.data:p.tail]
}

// Length returns the current payload length, tail-data.
func (p *Packet) Length() int { return p.tail - p.data }

// Headroom returns the bytes available before data, i.e. data-head.
func (p *Packet) Headroom() int { return p.data }

// Tailroom returns the bytes available after tail, i.e. end-tail.
func (p *Packet) Tailroom() int { return p.end - p.tail }

// BufferLength returns end-head, i.e. headroom+length+tailroom of this
// handle. It can be smaller than the capacity of the underlying allocation:
// bytes that buffer.Alloc added when rounding up to buffer.MinCapacity are
// not counted, neither here nor as tailroom.
func (p *Packet) BufferLength() int { return p.end }

// window returns the full addressable window of the underlying buffer, head
// to end, regardless of this handle's own data/tail.
func (p *Packet) window() []byte {
	return p.buf.Bytes()[:p.end]
}

// Uniqueify returns a WritablePacket guaranteed to have exclusive ownership
// of its backing storage. If p's buffer is not shared, this is the fast
// path: p is reused in place at no allocation cost. Otherwise it is the slow
// path: a new buffer the same size as p's own buffer_length is allocated,
// p's current window is copied into it, and p's old reference is released.
//
// Either way the returned WritablePacket's geometry, annotations and header
// cache are identical to p's; the header cache is not revalidated, per the
// framework's producer-trusted/consumer-revalidated model.
func (p *Packet) Uniqueify() (*WritablePacket, error) {
	if !p.buf.Shared() {
		return &WritablePacket{Packet: p}, nil
	}

	nb, err := buffer.Alloc(p.pool, p.end)
	if err != nil {
		return nil, err
	}
	copy(nb.Bytes(), p.window())
	p.buf.Release()
	p.buf = nb
	return &WritablePacket{Packet: p}, nil
}
